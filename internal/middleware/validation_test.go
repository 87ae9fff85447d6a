package middleware

import (
	"bytes"
	"net/http/httptest"
	"testing"
)

type orderPayload struct {
	Items []itemPayload `json:"items" validate:"required,min=1,dive"`
}

type itemPayload struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

func TestValidateRequest(t *testing.T) {
	cases := []struct {
		name    string
		payload orderPayload
		wantErr bool
	}{
		{
			name: "valid payload",
			payload: orderPayload{Items: []itemPayload{
				{ProductID: "8a9cf595-27b1-4d61-a8aa-60224dbd6f6e", Quantity: 2},
			}},
			wantErr: false,
		},
		{
			name:    "missing items",
			payload: orderPayload{},
			wantErr: true,
		},
		{
			name:    "empty items",
			payload: orderPayload{Items: []itemPayload{}},
			wantErr: true,
		},
		{
			name: "malformed product id",
			payload: orderPayload{Items: []itemPayload{
				{ProductID: "not-a-uuid", Quantity: 2},
			}},
			wantErr: true,
		},
		{
			name: "zero quantity",
			payload: orderPayload{Items: []itemPayload{
				{ProductID: "8a9cf595-27b1-4d61-a8aa-60224dbd6f6e", Quantity: 0},
			}},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRequest(tc.payload)
			if tc.wantErr && err == nil {
				t.Error("expected a validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestDecodeAndValidate(t *testing.T) {
	body := []byte(`{"items":[{"product_id":"8a9cf595-27b1-4d61-a8aa-60224dbd6f6e","quantity":3}]}`)
	req := httptest.NewRequest("POST", "/api/orders", bytes.NewReader(body))

	var payload orderPayload
	if err := DecodeAndValidate(req, &payload); err != nil {
		t.Fatalf("expected valid payload to pass, got %v", err)
	}
	if payload.Items[0].Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", payload.Items[0].Quantity)
	}

	req = httptest.NewRequest("POST", "/api/orders", bytes.NewReader([]byte(`{invalid`)))
	if err := DecodeAndValidate(req, &payload); err == nil {
		t.Error("expected malformed JSON to fail")
	}
}

func TestFormatValidationErrors(t *testing.T) {
	payload := orderPayload{Items: []itemPayload{
		{ProductID: "not-a-uuid", Quantity: 0},
	}}

	err := ValidateRequest(payload)
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	formatted := FormatValidationErrors(err)
	if len(formatted) != 2 {
		t.Fatalf("expected 2 field errors, got %d: %+v", len(formatted), formatted)
	}

	for _, fieldErr := range formatted {
		if fieldErr.Field == "" || fieldErr.Message == "" {
			t.Errorf("field error missing content: %+v", fieldErr)
		}
	}
}
