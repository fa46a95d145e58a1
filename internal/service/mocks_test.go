package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"stitchmart/internal/assets"
	"stitchmart/internal/domain"
	"stitchmart/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Map-backed mock repositories shared by the service tests.

type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*domain.User)}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	for _, user := range m.users {
		if user.ID == id {
			user.PasswordHash = passwordHash
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func (m *mockUserRepository) List(ctx context.Context, page, pageSize int) ([]*domain.User, int, error) {
	emails := make([]string, 0, len(m.users))
	for email := range m.users {
		emails = append(emails, email)
	}
	sort.Strings(emails)

	users := make([]*domain.User, 0, len(emails))
	for _, email := range emails {
		users = append(users, m.users[email])
	}

	start := (page - 1) * pageSize
	if start > len(users) {
		start = len(users)
	}
	end := start + pageSize
	if end > len(users) {
		end = len(users)
	}
	return users[start:end], len(users), nil
}

type mockRefreshTokenRepository struct {
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{tokens: make(map[string]*domain.RefreshToken)}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if refreshToken.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return refreshToken, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return repository.ErrRefreshTokenNotFound
	}
	refreshToken.Revoked = true
	return nil
}

func (m *mockRefreshTokenRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	for key, token := range m.tokens {
		if token.UserID == userID {
			delete(m.tokens, key)
		}
	}
	return nil
}

type mockResetTokenRepository struct {
	tokens map[string]*domain.PasswordResetToken
}

func newMockResetTokenRepository() *mockResetTokenRepository {
	return &mockResetTokenRepository{tokens: make(map[string]*domain.PasswordResetToken)}
}

func (m *mockResetTokenRepository) Create(ctx context.Context, token *domain.PasswordResetToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockResetTokenRepository) FindByToken(ctx context.Context, token string) (*domain.PasswordResetToken, error) {
	resetToken, exists := m.tokens[token]
	if !exists {
		return nil, repository.ErrResetTokenNotFound
	}
	return resetToken, nil
}

func (m *mockResetTokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	for key, token := range m.tokens {
		if token.ID == id {
			delete(m.tokens, key)
			return nil
		}
	}
	return repository.ErrResetTokenNotFound
}

type sentMail struct {
	To   string
	Link string
}

type mockMailer struct {
	resets        []sentMail
	confirmations []sentMail
	failSend      bool
}

func (m *mockMailer) SendPasswordReset(ctx context.Context, to, resetLink string) error {
	if m.failSend {
		return fmt.Errorf("smtp unavailable")
	}
	m.resets = append(m.resets, sentMail{To: to, Link: resetLink})
	return nil
}

func (m *mockMailer) SendOrderConfirmation(ctx context.Context, to, orderID string) error {
	if m.failSend {
		return fmt.Errorf("smtp unavailable")
	}
	m.confirmations = append(m.confirmations, sentMail{To: to, Link: orderID})
	return nil
}

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
	variants map[uuid.UUID]*domain.ProductVariant
	images   map[uuid.UUID]*domain.ProductImage
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{
		products: make(map[uuid.UUID]*domain.Product),
		variants: make(map[uuid.UUID]*domain.ProductVariant),
		images:   make(map[uuid.UUID]*domain.ProductImage),
	}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, exists := m.products[product.ID]; !exists {
		return repository.ErrProductNotFound
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	delete(m.products, id)
	for vid, variant := range m.variants {
		if variant.ProductID == id {
			delete(m.variants, vid)
		}
	}
	for iid, image := range m.images {
		if image.ProductID == id {
			delete(m.images, iid)
		}
	}
	return product, nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (m *mockProductRepository) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	for _, product := range m.products {
		if product.Slug == slug {
			return product, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m *mockProductRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	for _, product := range m.products {
		if product.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockProductRepository) List(ctx context.Context, tagID *uuid.UUID, page, pageSize int, sortBy string, sortOrder repository.SortOrder) ([]*domain.Product, int, error) {
	products := []*domain.Product{}
	for _, product := range m.products {
		if tagID == nil || product.TagID == *tagID {
			products = append(products, product)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Slug < products[j].Slug })
	return products, len(products), nil
}

func (m *mockProductRepository) Search(ctx context.Context, query string, page, pageSize int) ([]*domain.Product, int, error) {
	products := []*domain.Product{}
	for _, product := range m.products {
		if strings.Contains(strings.ToLower(product.Name), strings.ToLower(query)) ||
			strings.Contains(strings.ToLower(product.Brand), strings.ToLower(query)) {
			products = append(products, product)
		}
	}
	return products, len(products), nil
}

func (m *mockProductRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error {
	product, exists := m.products[id]
	if !exists {
		return repository.ErrProductNotFound
	}
	product.Rating = rating
	return nil
}

func (m *mockProductRepository) CreateVariant(ctx context.Context, variant *domain.ProductVariant) error {
	for _, existing := range m.variants {
		if existing.ProductID == variant.ProductID &&
			existing.SizeID == variant.SizeID &&
			existing.ColorID == variant.ColorID {
			return repository.ErrVariantAlreadyExists
		}
	}
	m.variants[variant.ID] = variant
	return nil
}

func (m *mockProductRepository) UpdateVariant(ctx context.Context, variant *domain.ProductVariant) error {
	if _, exists := m.variants[variant.ID]; !exists {
		return repository.ErrVariantNotFound
	}
	m.variants[variant.ID] = variant
	return nil
}

func (m *mockProductRepository) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.variants[id]; !exists {
		return repository.ErrVariantNotFound
	}
	delete(m.variants, id)
	return nil
}

func (m *mockProductRepository) FindVariantByID(ctx context.Context, id uuid.UUID) (*domain.ProductVariant, error) {
	variant, exists := m.variants[id]
	if !exists {
		return nil, repository.ErrVariantNotFound
	}
	return variant, nil
}

func (m *mockProductRepository) ListVariants(ctx context.Context, productID uuid.UUID) ([]*domain.ProductVariant, error) {
	variants := []*domain.ProductVariant{}
	for _, variant := range m.variants {
		if variant.ProductID == productID {
			variants = append(variants, variant)
		}
	}
	return variants, nil
}

func (m *mockProductRepository) CreateImage(ctx context.Context, image *domain.ProductImage) error {
	m.images[image.ID] = image
	return nil
}

func (m *mockProductRepository) ListImages(ctx context.Context, productID uuid.UUID) ([]*domain.ProductImage, error) {
	images := []*domain.ProductImage{}
	for _, image := range m.images {
		if image.ProductID == productID {
			images = append(images, image)
		}
	}
	return images, nil
}

func (m *mockProductRepository) DeleteImage(ctx context.Context, id uuid.UUID) (*domain.ProductImage, error) {
	image, exists := m.images[id]
	if !exists {
		return nil, repository.ErrProductImageNotFound
	}
	delete(m.images, id)
	return image, nil
}

type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
	tags       map[uuid.UUID]*domain.Tag
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{
		categories: make(map[uuid.UUID]*domain.Category),
		tags:       make(map[uuid.UUID]*domain.Tag),
	}
}

func (m *mockCategoryRepository) CreateCategory(ctx context.Context, category *domain.Category) error {
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories := []*domain.Category{}
	for _, category := range m.categories {
		categories = append(categories, category)
	}
	return categories, nil
}

func (m *mockCategoryRepository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, exists := m.categories[id]
	if !exists {
		return nil, repository.ErrCategoryNotFound
	}
	return category, nil
}

func (m *mockCategoryRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.categories[id]; !exists {
		return repository.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepository) CategorySlugExists(ctx context.Context, slug string) (bool, error) {
	for _, category := range m.categories {
		if category.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCategoryRepository) CreateTag(ctx context.Context, tag *domain.Tag) error {
	m.tags[tag.ID] = tag
	return nil
}

func (m *mockCategoryRepository) ListTags(ctx context.Context, categoryID *uuid.UUID) ([]*domain.Tag, error) {
	tags := []*domain.Tag{}
	for _, tag := range m.tags {
		if categoryID == nil || tag.CategoryID == *categoryID {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

func (m *mockCategoryRepository) FindTagByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	tag, exists := m.tags[id]
	if !exists {
		return nil, repository.ErrTagNotFound
	}
	return tag, nil
}

func (m *mockCategoryRepository) DeleteTag(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.tags[id]; !exists {
		return repository.ErrTagNotFound
	}
	delete(m.tags, id)
	return nil
}

func (m *mockCategoryRepository) TagSlugExists(ctx context.Context, slug string) (bool, error) {
	for _, tag := range m.tags {
		if tag.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

type mockAttributeRepository struct {
	sizes  map[uuid.UUID]*domain.Size
	colors map[uuid.UUID]*domain.Color
}

func newMockAttributeRepository() *mockAttributeRepository {
	return &mockAttributeRepository{
		sizes:  make(map[uuid.UUID]*domain.Size),
		colors: make(map[uuid.UUID]*domain.Color),
	}
}

func (m *mockAttributeRepository) CreateSize(ctx context.Context, size *domain.Size) error {
	m.sizes[size.ID] = size
	return nil
}

func (m *mockAttributeRepository) ListSizes(ctx context.Context) ([]*domain.Size, error) {
	sizes := []*domain.Size{}
	for _, size := range m.sizes {
		sizes = append(sizes, size)
	}
	return sizes, nil
}

func (m *mockAttributeRepository) FindSizeByID(ctx context.Context, id uuid.UUID) (*domain.Size, error) {
	size, exists := m.sizes[id]
	if !exists {
		return nil, repository.ErrSizeNotFound
	}
	return size, nil
}

func (m *mockAttributeRepository) CreateColor(ctx context.Context, color *domain.Color) error {
	m.colors[color.ID] = color
	return nil
}

func (m *mockAttributeRepository) ListColors(ctx context.Context) ([]*domain.Color, error) {
	colors := []*domain.Color{}
	for _, color := range m.colors {
		colors = append(colors, color)
	}
	return colors, nil
}

func (m *mockAttributeRepository) FindColorByID(ctx context.Context, id uuid.UUID) (*domain.Color, error) {
	color, exists := m.colors[id]
	if !exists {
		return nil, repository.ErrColorNotFound
	}
	return color, nil
}

type mockAssetStore struct {
	uploads   map[string]string
	destroyed []string
	failNext  bool
}

func newMockAssetStore() *mockAssetStore {
	return &mockAssetStore{uploads: make(map[string]string)}
}

func (m *mockAssetStore) Upload(ctx context.Context, content io.Reader, publicID string) (*assets.Asset, error) {
	if m.failNext {
		m.failNext = false
		return nil, fmt.Errorf("upload failed")
	}
	url := "https://assets.example.com/" + publicID
	m.uploads[publicID] = url
	return &assets.Asset{URL: url, PublicID: publicID}, nil
}

func (m *mockAssetStore) Destroy(ctx context.Context, publicID string) error {
	delete(m.uploads, publicID)
	m.destroyed = append(m.destroyed, publicID)
	return nil
}

type mockCartRepository struct {
	carts map[uuid.UUID]*domain.Cart
	items map[uuid.UUID][]domain.CartItem
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{
		carts: make(map[uuid.UUID]*domain.Cart),
		items: make(map[uuid.UUID][]domain.CartItem),
	}
}

func (m *mockCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	for _, cart := range m.carts {
		if cart.UserID == userID {
			copied := *cart
			copied.Items = append([]domain.CartItem{}, m.items[cart.ID]...)
			return &copied, nil
		}
	}
	return nil, repository.ErrCartNotFound
}

func (m *mockCartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	for _, cart := range m.carts {
		if cart.UserID == userID {
			return cart, nil
		}
	}
	cart := &domain.Cart{ID: uuid.New(), UserID: userID, TotalPrice: decimal.Zero}
	m.carts[cart.ID] = cart
	return cart, nil
}

func (m *mockCartRepository) UpsertItem(ctx context.Context, cartID, variantID uuid.UUID, quantity int, unitPrice decimal.Decimal) error {
	cart, exists := m.carts[cartID]
	if !exists {
		return repository.ErrCartNotFound
	}

	linePrice := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	items := m.items[cartID]
	found := false
	for i := range items {
		if items[i].ProductVariantID == variantID {
			items[i].Quantity += quantity
			items[i].Price = items[i].Price.Add(linePrice)
			found = true
			break
		}
	}
	if !found {
		items = append(items, domain.CartItem{
			ID:               uuid.New(),
			CartID:           cartID,
			ProductVariantID: variantID,
			Quantity:         quantity,
			Price:            linePrice,
		})
	}
	m.items[cartID] = items

	cart.TotalPrice = cart.TotalPrice.Add(linePrice)
	cart.TotalQuantity += quantity
	return nil
}

func (m *mockCartRepository) RemoveItem(ctx context.Context, cartID, variantID uuid.UUID) error {
	cart, exists := m.carts[cartID]
	if !exists {
		return repository.ErrCartNotFound
	}

	items := m.items[cartID]
	for i := range items {
		if items[i].ProductVariantID == variantID {
			cart.TotalPrice = cart.TotalPrice.Sub(items[i].Price)
			cart.TotalQuantity -= items[i].Quantity
			m.items[cartID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return repository.ErrCartItemNotFound
}

func (m *mockCartRepository) ItemQuantity(ctx context.Context, cartID, variantID uuid.UUID) (int, error) {
	for _, item := range m.items[cartID] {
		if item.ProductVariantID == variantID {
			return item.Quantity, nil
		}
	}
	return 0, nil
}

func (m *mockCartRepository) Delete(ctx context.Context, cartID uuid.UUID) error {
	if _, exists := m.carts[cartID]; !exists {
		return repository.ErrCartNotFound
	}
	delete(m.carts, cartID)
	delete(m.items, cartID)
	return nil
}

// mockOrderRepository mirrors the transactional PlaceOrder semantics: the
// conditional stock decrement runs against the shared variant map and a
// failed line unwinds everything.
type mockOrderRepository struct {
	orders      map[uuid.UUID]*domain.Order
	productRepo *mockProductRepository
	cartRepo    *mockCartRepository
	delivered   map[string]bool // userID|productID
}

func newMockOrderRepository(productRepo *mockProductRepository, cartRepo *mockCartRepository) *mockOrderRepository {
	return &mockOrderRepository{
		orders:      make(map[uuid.UUID]*domain.Order),
		productRepo: productRepo,
		cartRepo:    cartRepo,
		delivered:   make(map[string]bool),
	}
}

func (m *mockOrderRepository) PlaceOrder(ctx context.Context, order *domain.Order, cartID uuid.UUID) error {
	for _, item := range order.Items {
		variant, exists := m.productRepo.variants[item.ProductVariantID]
		if !exists || variant.Quantity < item.Quantity {
			return repository.ErrInsufficientStock
		}
	}

	for _, item := range order.Items {
		variant := m.productRepo.variants[item.ProductVariantID]
		variant.Quantity -= item.Quantity
		variant.InStock = variant.Quantity > 0
		if product, exists := m.productRepo.products[variant.ProductID]; exists {
			product.Sold += item.Quantity
		}
	}

	m.orders[order.ID] = order
	if m.cartRepo != nil {
		_ = m.cartRepo.Delete(ctx, cartID)
	}
	return nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, exists := m.orders[id]
	if !exists {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

func (m *mockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*domain.Order, int, error) {
	orders := []*domain.Order{}
	for _, order := range m.orders {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}
	return orders, len(orders), nil
}

func (m *mockOrderRepository) ListAll(ctx context.Context, status *domain.OrderStatus, page, pageSize int) ([]*domain.Order, int, error) {
	orders := []*domain.Order{}
	for _, order := range m.orders {
		if status == nil || order.Status == *status {
			orders = append(orders, order)
		}
	}
	return orders, len(orders), nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	order, exists := m.orders[id]
	if !exists {
		return repository.ErrOrderNotFound
	}
	order.Status = status
	return nil
}

func (m *mockOrderRepository) Revenue(ctx context.Context) (decimal.Decimal, int, error) {
	total := decimal.Zero
	count := 0
	for _, order := range m.orders {
		if order.Status == domain.OrderStatusDelivered {
			total = total.Add(order.TotalPrice)
			count++
		}
	}
	return total, count, nil
}

func (m *mockOrderRepository) HasDeliveredProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	if m.delivered[userID.String()+"|"+productID.String()] {
		return true, nil
	}
	for _, order := range m.orders {
		if order.UserID != userID || order.Status != domain.OrderStatusDelivered {
			continue
		}
		for _, item := range order.Items {
			if variant, exists := m.productRepo.variants[item.ProductVariantID]; exists && variant.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

type mockReviewRepository struct {
	reviews map[uuid.UUID]*domain.Review
}

func newMockReviewRepository() *mockReviewRepository {
	return &mockReviewRepository{reviews: make(map[uuid.UUID]*domain.Review)}
}

func (m *mockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	for _, existing := range m.reviews {
		if existing.UserID == review.UserID && existing.ProductID == review.ProductID {
			return repository.ErrReviewAlreadyExists
		}
	}
	m.reviews[review.ID] = review
	return nil
}

func (m *mockReviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID, page, pageSize int) ([]*domain.Review, int, error) {
	reviews := []*domain.Review{}
	for _, review := range m.reviews {
		if review.ProductID == productID {
			reviews = append(reviews, review)
		}
	}
	return reviews, len(reviews), nil
}
