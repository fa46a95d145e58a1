package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"sync"
	"testing"
	"time"

	"stitchmart/internal/database"
	"stitchmart/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var testDB *sql.DB

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, err
	}

	connStr := "postgres://" + dbUser + ":" + dbPwd + "@" + dbHost + ":" + dbPort.Port() + "/" + dbName + "?sslmode=disable"
	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	if err := database.RunMigrations(testDB, "../../migrations", zap.NewNop()); err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}
}

// checkoutFixture holds the rows a checkout needs: a user with a cart
// containing one line of the seeded variant.
type checkoutFixture struct {
	userID    uuid.UUID
	cartID    uuid.UUID
	productID uuid.UUID
	variantID uuid.UUID
	unitPrice decimal.Decimal
}

func seedCheckout(t *testing.T, stock, cartQuantity int) *checkoutFixture {
	t.Helper()
	ctx := context.Background()

	f := &checkoutFixture{
		userID:    uuid.New(),
		cartID:    uuid.New(),
		productID: uuid.New(),
		variantID: uuid.New(),
		unitPrice: decimal.NewFromInt(40),
	}

	categoryID := uuid.New()
	tagID := uuid.New()
	sizeID := uuid.New()
	colorID := uuid.New()

	exec := func(query string, args ...interface{}) {
		t.Helper()
		if _, err := testDB.ExecContext(ctx, query, args...); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	exec(`INSERT INTO users (id, email, password_hash, name) VALUES ($1, $2, 'x', 'Buyer')`,
		f.userID, f.userID.String()+"@example.com")
	exec(`INSERT INTO categories (id, name, slug) VALUES ($1, $2, $2)`, categoryID, "cat-"+categoryID.String())
	exec(`INSERT INTO tags (id, category_id, name, slug) VALUES ($1, $2, $3, $3)`, tagID, categoryID, "tag-"+tagID.String())
	exec(`INSERT INTO sizes (id, name) VALUES ($1, $2)`, sizeID, sizeID.String()[:8])
	exec(`INSERT INTO colors (id, name) VALUES ($1, $2)`, colorID, colorID.String()[:8])
	exec(`INSERT INTO products (id, tag_id, name, slug, price, final_price) VALUES ($1, $2, $3, $3, 40, 40)`,
		f.productID, tagID, "product-"+f.productID.String())
	exec(`INSERT INTO product_variants (id, product_id, size_id, color_id, price, quantity, in_stock)
	      VALUES ($1, $2, $3, $4, $5, $6, $6 > 0)`,
		f.variantID, f.productID, sizeID, colorID, f.unitPrice, stock)

	if cartQuantity > 0 {
		linePrice := f.unitPrice.Mul(decimal.NewFromInt(int64(cartQuantity)))
		exec(`INSERT INTO carts (id, user_id, total_price, total_quantity) VALUES ($1, $2, $3, $4)`,
			f.cartID, f.userID, linePrice, cartQuantity)
		exec(`INSERT INTO cart_items (id, cart_id, product_variant_id, quantity, price) VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), f.cartID, f.variantID, cartQuantity, linePrice)
	}

	return f
}

func buildOrder(f *checkoutFixture, quantity int) *domain.Order {
	orderID := uuid.New()
	linePrice := f.unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	return &domain.Order{
		ID:            orderID,
		UserID:        f.userID,
		Address:       "12 Main St",
		Phone:         "555-0101",
		PaymentMethod: domain.PaymentMethodCOD,
		TotalPrice:    linePrice,
		TotalQuantity: quantity,
		Status:        domain.OrderStatusPending,
		OrderDate:     time.Now().UTC(),
		Items: []domain.OrderItem{
			{
				ID:               uuid.New(),
				OrderID:          orderID,
				ProductVariantID: f.variantID,
				Quantity:         quantity,
				Price:            f.unitPrice,
			},
		},
	}
}

func variantStock(t *testing.T, variantID uuid.UUID) (quantity int, inStock bool) {
	t.Helper()
	err := testDB.QueryRow(`SELECT quantity, in_stock FROM product_variants WHERE id = $1`, variantID).
		Scan(&quantity, &inStock)
	if err != nil {
		t.Fatalf("read variant: %v", err)
	}
	return quantity, inStock
}

func TestPlaceOrder_CommitsAllEffects(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()
	f := seedCheckout(t, 5, 3)

	order := buildOrder(f, 3)
	if err := repo.PlaceOrder(ctx, order, f.cartID); err != nil {
		t.Fatalf("place order: %v", err)
	}

	quantity, inStock := variantStock(t, f.variantID)
	if quantity != 2 || !inStock {
		t.Errorf("variant quantity=%d in_stock=%v, expected 2/true", quantity, inStock)
	}

	var sold int
	if err := testDB.QueryRow(`SELECT sold FROM products WHERE id = $1`, f.productID).Scan(&sold); err != nil {
		t.Fatalf("read sold: %v", err)
	}
	if sold != 3 {
		t.Errorf("sold=%d, expected 3", sold)
	}

	var cartCount int
	if err := testDB.QueryRow(`SELECT COUNT(*) FROM carts WHERE id = $1`, f.cartID).Scan(&cartCount); err != nil {
		t.Fatalf("count carts: %v", err)
	}
	if cartCount != 0 {
		t.Errorf("cart should be deleted in the same transaction")
	}

	stored, err := repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("find order: %v", err)
	}
	if !stored.TotalPrice.Equal(order.TotalPrice) || len(stored.Items) != 1 {
		t.Errorf("stored order mismatch: %+v", stored)
	}
}

func TestPlaceOrder_LastUnitGoesOut(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()
	f := seedCheckout(t, 1, 1)

	order := buildOrder(f, 1)
	if err := repo.PlaceOrder(ctx, order, f.cartID); err != nil {
		t.Fatalf("place order: %v", err)
	}

	quantity, inStock := variantStock(t, f.variantID)
	if quantity != 0 || inStock {
		t.Errorf("variant quantity=%d in_stock=%v, expected 0/false", quantity, inStock)
	}
}

func TestPlaceOrder_InsufficientStockRollsBackEverything(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()
	f := seedCheckout(t, 2, 2)

	order := buildOrder(f, 3)
	err := repo.PlaceOrder(ctx, order, f.cartID)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	quantity, _ := variantStock(t, f.variantID)
	if quantity != 2 {
		t.Errorf("stock should be untouched after rollback, got %d", quantity)
	}

	var cartCount int
	if err := testDB.QueryRow(`SELECT COUNT(*) FROM carts WHERE id = $1`, f.cartID).Scan(&cartCount); err != nil {
		t.Fatalf("count carts: %v", err)
	}
	if cartCount != 1 {
		t.Errorf("cart must survive a rolled-back checkout")
	}

	if _, err := repo.FindByID(ctx, order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("no order row may survive the rollback, got %v", err)
	}
}

func TestPlaceOrder_ConcurrentCheckoutsForLastUnit(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	// Two buyers, one unit: one cart each over the same variant
	first := seedCheckout(t, 1, 1)
	secondUser := uuid.New()
	secondCart := uuid.New()
	if _, err := testDB.Exec(`INSERT INTO users (id, email, password_hash, name) VALUES ($1, $2, 'x', 'Rival')`,
		secondUser, secondUser.String()+"@example.com"); err != nil {
		t.Fatalf("seed rival: %v", err)
	}
	if _, err := testDB.Exec(`INSERT INTO carts (id, user_id, total_price, total_quantity) VALUES ($1, $2, 40, 1)`,
		secondCart, secondUser); err != nil {
		t.Fatalf("seed rival cart: %v", err)
	}
	if _, err := testDB.Exec(`INSERT INTO cart_items (id, cart_id, product_variant_id, quantity, price) VALUES ($1, $2, $3, 1, 40)`,
		uuid.New(), secondCart, first.variantID); err != nil {
		t.Fatalf("seed rival cart item: %v", err)
	}

	rivalFixture := &checkoutFixture{
		userID:    secondUser,
		cartID:    secondCart,
		productID: first.productID,
		variantID: first.variantID,
		unitPrice: first.unitPrice,
	}

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i, attempt := range []struct {
		order  *domain.Order
		cartID uuid.UUID
	}{
		{buildOrder(first, 1), first.cartID},
		{buildOrder(rivalFixture, 1), secondCart},
	} {
		wg.Add(1)
		go func(i int, order *domain.Order, cartID uuid.UUID) {
			defer wg.Done()
			results[i] = repo.PlaceOrder(ctx, order, cartID)
		}(i, attempt.order, attempt.cartID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, ErrInsufficientStock) {
			t.Fatalf("unexpected checkout error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("exactly one concurrent checkout must win, got %d", succeeded)
	}

	quantity, inStock := variantStock(t, first.variantID)
	if quantity != 0 || inStock {
		t.Errorf("variant quantity=%d in_stock=%v, expected 0/false", quantity, inStock)
	}
}

func TestUpdateStatusAndRevenue(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	f := seedCheckout(t, 10, 2)
	order := buildOrder(f, 2)
	if err := repo.PlaceOrder(ctx, order, f.cartID); err != nil {
		t.Fatalf("place order: %v", err)
	}

	before, beforeCount, err := repo.Revenue(ctx)
	if err != nil {
		t.Fatalf("revenue: %v", err)
	}

	for _, status := range []domain.OrderStatus{
		domain.OrderStatusProcessing,
		domain.OrderStatusShipped,
		domain.OrderStatusDelivered,
	} {
		if err := repo.UpdateStatus(ctx, order.ID, status); err != nil {
			t.Fatalf("update status to %s: %v", status, err)
		}
	}

	after, afterCount, err := repo.Revenue(ctx)
	if err != nil {
		t.Fatalf("revenue: %v", err)
	}
	if !after.Sub(before).Equal(order.TotalPrice) {
		t.Errorf("revenue delta %s, expected %s", after.Sub(before), order.TotalPrice)
	}
	if afterCount != beforeCount+1 {
		t.Errorf("delivered count delta %d, expected 1", afterCount-beforeCount)
	}

	eligible, err := repo.HasDeliveredProduct(ctx, f.userID, f.productID)
	if err != nil {
		t.Fatalf("has delivered product: %v", err)
	}
	if !eligible {
		t.Errorf("delivered order should make the buyer review-eligible")
	}

	stranger, err := repo.HasDeliveredProduct(ctx, uuid.New(), f.productID)
	if err != nil {
		t.Fatalf("has delivered product: %v", err)
	}
	if stranger {
		t.Errorf("a user with no orders must not be review-eligible")
	}
}

func TestUpdateStatus_UnknownOrder(t *testing.T) {
	repo := NewOrderRepository(testDB)

	err := repo.UpdateStatus(context.Background(), uuid.New(), domain.OrderStatusProcessing)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
