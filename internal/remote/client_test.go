package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"grindgears/internal/wire"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

func newTestServer(t *testing.T, status int, response string) (*Client, *[]recordedRequest) {
	t.Helper()

	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path}
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.Body)
		}
		requests = append(requests, rec)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	return New(srv.URL+"/api/v1", WithHTTPClient(srv.Client())), &requests
}

func TestAddToCartSendsGearAndQuantity(t *testing.T) {
	client, requests := newTestServer(t, http.StatusOK, `{"message":"Gear added to cart"}`)

	msg, err := client.AddToCart(context.Background(), "A", 3)
	require.NoError(t, err)
	assert.Equal(t, "Gear added to cart", msg)

	require.Len(t, *requests, 1)
	got := (*requests)[0]
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/api/v1/cart/add", got.Path)
	assert.Equal(t, map[string]interface{}{"gearId": "A", "quantity": float64(3)}, got.Body)
}

func TestDeleteEndpointsCarryJSONBody(t *testing.T) {
	client, requests := newTestServer(t, http.StatusOK, `{"message":"ok"}`)
	ctx := context.Background()

	_, err := client.RemoveFromCart(ctx, "A")
	require.NoError(t, err)
	_, err = client.RemoveFromWishlist(ctx, "B")
	require.NoError(t, err)
	_, err = client.DeleteAddress(ctx, "addr-1")
	require.NoError(t, err)
	_, err = client.ClearCart(ctx)
	require.NoError(t, err)

	require.Len(t, *requests, 4)
	assert.Equal(t, recordedRequest{Method: http.MethodDelete, Path: "/api/v1/cart/remove", Body: map[string]interface{}{"gearId": "A"}}, (*requests)[0])
	assert.Equal(t, recordedRequest{Method: http.MethodDelete, Path: "/api/v1/wishlist/remove", Body: map[string]interface{}{"gearId": "B"}}, (*requests)[1])
	assert.Equal(t, recordedRequest{Method: http.MethodDelete, Path: "/api/v1/address", Body: map[string]interface{}{"id": "addr-1"}}, (*requests)[2])
	assert.Equal(t, recordedRequest{Method: http.MethodDelete, Path: "/api/v1/cart/clear"}, (*requests)[3])
}

func TestListGearsByCategoryEscapesSlug(t *testing.T) {
	client, requests := newTestServer(t, http.StatusOK, `{"data":[]}`)

	gears, err := client.ListGearsByCategory(context.Background(), "brakes")
	require.NoError(t, err)
	assert.Empty(t, gears)
	assert.Equal(t, "/api/v1/categories/slug/brakes", (*requests)[0].Path)
}

func TestGetCartDecodesStringPrices(t *testing.T) {
	body := `{"data":[{"_id":"A","name":"Disc","details":"front","category":{"name":"Brakes"},"rating":"4.5","price":"499","imageUrl":"a.png","brand":"Bosch","inStock":true,"quantity":2}]}`
	client, _ := newTestServer(t, http.StatusOK, body)

	lines, err := client.GetCart(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 1)

	assert.Equal(t, "A", lines[0].ID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, decimal.NewFromInt(499).Equal(lines[0].Price))
	assert.Equal(t, "Brakes", lines[0].Category.Name)
}

func TestErrorResponseCarriesServiceMessage(t *testing.T) {
	client, _ := newTestServer(t, http.StatusConflict, `{"message":"Gear is out of stock"}`)

	_, err := client.AddToCart(context.Background(), "X", 1)
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "cart.add", apiErr.Op)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "Gear is out of stock", MessageOr(err, "Error adding to cart"))
	assert.Equal(t, http.StatusConflict, StatusCode(err))
}

func TestErrorWithoutMessageFallsBack(t *testing.T) {
	client, _ := newTestServer(t, http.StatusInternalServerError, `<html>oops</html>`)

	_, err := client.RemoveFromWishlist(context.Background(), "A")
	require.Error(t, err)
	assert.Equal(t, "Error removing from wishlist", MessageOr(err, "Error removing from wishlist"))
	assert.False(t, IsNotFound(err))
}

func TestTransportFailureIsWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := New(srv.URL, WithTimeout(20*time.Millisecond))
	_, err := client.GetWishlist(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.NotNil(t, apiErr.Unwrap())
	assert.Equal(t, "Error getting wishlist", MessageOr(err, "Error getting wishlist"))
}

func TestCreateOrderPostsSnapshot(t *testing.T) {
	client, requests := newTestServer(t, http.StatusCreated, `{"message":"Order placed successfully"}`)

	order := wire.OrderRequest{
		Gears:           []wire.OrderGear{{GearID: "A", Name: "Disc", Price: decimal.NewFromInt(200), Quantity: 1, ImageURL: "a.png"}},
		TotalAmount:     decimal.NewFromInt(200),
		ShippingAddress: wire.Address{ID: "addr-1", AddressType: "Home", FullAddress: "1 Gear St"},
	}
	msg, err := client.CreateOrder(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, "Order placed successfully", msg)

	got := (*requests)[0]
	assert.Equal(t, "/orders", got.Path[len(got.Path)-len("/orders"):])
	assert.Equal(t, "200", got.Body["totalAmount"])
	shipping := got.Body["shippingAddress"].(map[string]interface{})
	assert.Equal(t, "addr-1", shipping["_id"])
}

func TestCreateAddressDecodesEcho(t *testing.T) {
	client, _ := newTestServer(t, http.StatusCreated, `{"data":{"_id":"srv-1","addressType":"Office","fullAddress":"2 Piston Rd"},"message":"Address added"}`)

	created, msg, err := client.CreateAddress(context.Background(), "Office", "2 Piston Rd")
	require.NoError(t, err)
	assert.Equal(t, "Address added", msg)
	assert.Equal(t, wire.Address{ID: "srv-1", AddressType: "Office", FullAddress: "2 Piston Rd"}, created)
}
