package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addItemRequest struct {
	GearID   string `json:"gearId" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=0,lte=99"`
}

type addressRequest struct {
	Type    string `json:"type" validate:"required,oneof=Home Office Default"`
	Address string `json:"address" validate:"required"`
}

func decode(body string, v interface{}) error {
	req := httptest.NewRequest("POST", "/api/cart/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return DecodeAndValidate(req, v)
}

// Quantities are accepted exactly when they fall inside the tag range.
func TestProperty_QuantityRangeValidation(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("quantity outside 0..99 is rejected", prop.ForAll(
		func(quantity int) bool {
			body, _ := json.Marshal(map[string]interface{}{"gearId": "g1", "quantity": quantity})
			req := httptest.NewRequest("POST", "/api/cart/items", bytes.NewReader(body))

			var in addItemRequest
			err := DecodeAndValidate(req, &in)
			if quantity >= 0 && quantity <= 99 {
				return err == nil
			}
			return err != nil && len(FormatValidationErrors(err)) == 1
		},
		gen.IntRange(-50, 150),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestDecodeAndValidateRequiredField(t *testing.T) {
	var in addItemRequest
	err := decode(`{"quantity":1}`, &in)
	require.Error(t, err)

	verrs := FormatValidationErrors(err)
	require.Len(t, verrs, 1)
	assert.Equal(t, "GearID", verrs[0].Field)
	assert.Equal(t, "This field is required", verrs[0].Message)
}

func TestDecodeAndValidateOneOf(t *testing.T) {
	var in addressRequest
	err := decode(`{"type":"Garage","address":"1 Main St"}`, &in)

	verrs := FormatValidationErrors(err)
	require.Len(t, verrs, 1)
	assert.Equal(t, "Must be one of: Home, Office, Default", verrs[0].Message)
}

func TestDecodeAndValidateMalformedBodies(t *testing.T) {
	var in addItemRequest

	assert.ErrorIs(t, decode(``, &in), ErrEmptyBody)
	assert.Error(t, decode(`{"gearId":`, &in))
	assert.Error(t, decode(`{"gearId":"g1","colour":"red"}`, &in))
	assert.Empty(t, FormatValidationErrors(decode(`not json`, &in)))
}

func TestRespondWithDecodeError(t *testing.T) {
	var in addItemRequest
	w := httptest.NewRecorder()
	RespondWithDecodeError(w, decode(`{}`, &in))
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "validation_errors")

	w = httptest.NewRecorder()
	RespondWithDecodeError(w, decode(`nope`, &in))
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}
