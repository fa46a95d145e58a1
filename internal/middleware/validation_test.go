package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

type addItemPayload struct {
	ProductVariantID string `json:"product_variant_id" validate:"required,uuid"`
	Quantity         int    `json:"quantity" validate:"required,gt=0"`
}

func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("missing or invalid fields are rejected, complete payloads pass", prop.ForAll(
		func(includeVariant bool, quantity int) bool {
			reqMap := make(map[string]interface{})
			if includeVariant {
				reqMap["product_variant_id"] = "0b36e1f4-7e3c-4a09-9b57-5ddf53a3f3aa"
			}
			reqMap["quantity"] = quantity

			valid := includeVariant && quantity > 0

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/test", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var payload addItemPayload
			err := DecodeAndValidate(req, &payload)

			if valid {
				return err == nil
			}
			return err != nil
		},
		gen.Bool(),
		gen.IntRange(-5, 5),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestFormatValidationErrors(t *testing.T) {
	reqBody, _ := json.Marshal(map[string]interface{}{
		"product_variant_id": "not-a-uuid",
		"quantity":           0,
	})
	req := httptest.NewRequest("POST", "/test", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")

	var payload addItemPayload
	err := DecodeAndValidate(req, &payload)
	if err == nil {
		t.Fatal("expected validation error")
	}

	validationErrors := FormatValidationErrors(err)
	if len(validationErrors) != 2 {
		t.Fatalf("expected 2 field errors, got %d: %+v", len(validationErrors), validationErrors)
	}
	for _, ve := range validationErrors {
		if ve.Field == "" || ve.Message == "" {
			t.Errorf("error missing field or message: %+v", ve)
		}
	}
}

func TestDecodeAndValidate_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/test", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	var payload addItemPayload
	if err := DecodeAndValidate(req, &payload); err == nil {
		t.Fatal("expected decode error for malformed JSON")
	}
}
