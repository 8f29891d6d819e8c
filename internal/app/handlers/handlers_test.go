package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/AlinaLna/fooddeli-app/internal/app/handlers"
	"github.com/AlinaLna/fooddeli-app/internal/domain/models"
	"github.com/AlinaLna/fooddeli-app/internal/jwt-new/jwtmiddleware"
	"github.com/AlinaLna/fooddeli-app/internal/service"
	"github.com/AlinaLna/fooddeli-app/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// fakeShopService — фиктивная реализация для тестирования.
type fakeShopService struct {
	shops []*models.NearbyShop
	shop  *models.ShopProfile
	err   error
}

func (f *fakeShopService) FindNearbyShops(ctx context.Context, lat, lon, radiusKm float64) ([]*models.NearbyShop, error) {
	return f.shops, f.err
}

func (f *fakeShopService) UpdateStatus(ctx context.Context, shopID int64, status string) (*models.ShopProfile, error) {
	return f.shop, f.err
}

func (f *fakeShopService) GetShopByUserID(ctx context.Context, userID int64) (*models.ShopProfile, error) {
	return f.shop, f.err
}

type fakeCartService struct {
	item  *models.CartItem
	lines []*models.CartLine
	err   error
}

func (f *fakeCartService) AddItem(ctx context.Context, userID, productID int64, quantity int) (*models.CartItem, error) {
	return f.item, f.err
}

func (f *fakeCartService) GetCart(ctx context.Context, userID int64) ([]*models.CartLine, error) {
	return f.lines, f.err
}

func (f *fakeCartService) UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) (*models.CartItem, error) {
	return f.item, f.err
}

func (f *fakeCartService) RemoveItem(ctx context.Context, userID, itemID int64) error {
	return f.err
}

type fakeVoucherService struct {
	vouchers []*models.Voucher
	removed  int64
	deleted  bool
	err      error
}

func (f *fakeVoucherService) AddVoucherToOrder(ctx context.Context, orderID, voucherID int64) error {
	return f.err
}

func (f *fakeVoucherService) GetVouchersByOrderID(ctx context.Context, orderID int64) ([]*models.Voucher, error) {
	return f.vouchers, f.err
}

func (f *fakeVoucherService) DeleteVouchersByOrderID(ctx context.Context, orderID int64) (int64, error) {
	return f.removed, f.err
}

func (f *fakeVoucherService) DeleteSpecificVoucher(ctx context.Context, orderID, voucherID int64) (bool, error) {
	return f.deleted, f.err
}

type fakeCheckoutService struct {
	order *models.Order
	err   error
}

func (f *fakeCheckoutService) PlaceOrder(ctx context.Context, userID, addressID int64, voucherID *int64) (*models.Order, error) {
	return f.order, f.err
}

func (f *fakeCheckoutService) GetOrder(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	return f.order, f.err
}

type fakeAddressService struct {
	address   *models.Address
	addresses []*models.Address
	err       error
}

func (f *fakeAddressService) GetUserAddresses(ctx context.Context, userID int64) ([]*models.Address, error) {
	return f.addresses, f.err
}

func (f *fakeAddressService) GetDefaultAddress(ctx context.Context, userID int64) (*models.Address, error) {
	return f.address, f.err
}

func (f *fakeAddressService) CreateAddressForUser(ctx context.Context, userID int64, data service.AddressData, makeDefault bool) (*models.Address, error) {
	return f.address, f.err
}

func (f *fakeAddressService) UpdateAddress(ctx context.Context, userID, addressID int64, data service.AddressData, isDefault *bool) (*models.Address, error) {
	return f.address, f.err
}

func (f *fakeAddressService) CompleteProfileAddress(ctx context.Context, userID int64, data service.AddressData, isPrimary bool) (*models.Address, error) {
	return f.address, f.err
}

// withUserID эмулирует JWT middleware, кладя userID в контекст запроса.
func withUserID(req *http.Request, userID int64) *http.Request {
	ctx := context.WithValue(req.Context(), jwtmiddleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

// withURLParam подкладывает параметр пути через контекст роутера chi.
func withURLParam(req *http.Request, name, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(name, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestNearbyShopsHandler_Success(t *testing.T) {
	fakeSvc := &fakeShopService{
		shops: []*models.NearbyShop{
			{ShopProfile: models.ShopProfile{ID: 1, ShopName: "Pho 24", Status: models.ShopStatusOpen}, DistanceKm: 2.0},
		},
	}
	handler := handlers.NearbyShopsHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/api/shops/nearby?lat=10.77&lon=106.70", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp handlers.NearbyShopsResponse
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Len(t, resp.Shops, 1)
	assert.Equal(t, "Pho 24", resp.Shops[0].ShopName)
	assert.Equal(t, 2.0, resp.Shops[0].DistanceKm)
}

func TestNearbyShopsHandler_MissingCoordinates(t *testing.T) {
	handler := handlers.NearbyShopsHandler(testLogger(), &fakeShopService{})

	// Без lat/lon запрос не имеет смысла.
	req := httptest.NewRequest("GET", "/api/shops/nearby", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestNearbyShopsHandler_InvalidCoordinates(t *testing.T) {
	fakeSvc := &fakeShopService{err: service.ErrInvalidCoordinates}
	handler := handlers.NearbyShopsHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/api/shops/nearby?lat=95.0&lon=106.70", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateShopStatusHandler_InvalidStatus(t *testing.T) {
	fakeSvc := &fakeShopService{err: service.ErrInvalidStatus}
	handler := handlers.UpdateShopStatusHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("PATCH", "/api/shops/3/status", bytes.NewBufferString(`{"status": "sleeping"}`))
	req = withURLParam(req, "shopID", "3")
	req = withUserID(req, 1)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetCartHandler_Unauthorized(t *testing.T) {
	handler := handlers.GetCartHandler(testLogger(), &fakeCartService{})

	// Без userID в контексте — 401.
	req := httptest.NewRequest("GET", "/api/cart", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAddCartItemHandler_Success(t *testing.T) {
	fakeSvc := &fakeCartService{
		item: &models.CartItem{
			ID: 1, CartID: 10, ShopID: 3, ProductID: 42,
			Quantity: 2, UnitPrice: decimal.NewFromInt(50000), LineTotal: decimal.NewFromInt(100000),
		},
	}
	handler := handlers.AddCartItemHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("POST", "/api/cart/items", bytes.NewBufferString(`{"product_id": 42, "quantity": 2}`))
	req = withUserID(req, 7)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestAddCartItemHandler_ValidationError(t *testing.T) {
	handler := handlers.AddCartItemHandler(testLogger(), &fakeCartService{})

	// Нет product_id — валидация должна сработать до сервиса.
	req := httptest.NewRequest("POST", "/api/cart/items", bytes.NewBufferString(`{"quantity": 2}`))
	req = withUserID(req, 7)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAddCartItemHandler_ProductUnavailable(t *testing.T) {
	fakeSvc := &fakeCartService{err: service.ErrProductUnavailable}
	handler := handlers.AddCartItemHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("POST", "/api/cart/items", bytes.NewBufferString(`{"product_id": 42, "quantity": 2}`))
	req = withUserID(req, 7)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestUpdateCartItemHandler_ZeroQuantityNoContent(t *testing.T) {
	// Сервис возвращает nil при нулевом количестве — строка удалена.
	fakeSvc := &fakeCartService{item: nil}
	handler := handlers.UpdateCartItemHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("PATCH", "/api/cart/items/1", bytes.NewBufferString(`{"quantity": 0}`))
	req = withURLParam(req, "itemID", "1")
	req = withUserID(req, 7)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestUpdateCartItemHandler_MissingQuantity(t *testing.T) {
	handler := handlers.UpdateCartItemHandler(testLogger(), &fakeCartService{})

	// quantity — указатель: отличаем "не прислали" от валидного нуля.
	req := httptest.NewRequest("PATCH", "/api/cart/items/1", bytes.NewBufferString(`{}`))
	req = withURLParam(req, "itemID", "1")
	req = withUserID(req, 7)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPlaceOrderHandler_Success(t *testing.T) {
	fakeSvc := &fakeCheckoutService{
		order: &models.Order{
			ID: 5, UserID: 7, ShopID: 3, AddressID: 20,
			Status: service.OrderStatusPending, Total: decimal.NewFromInt(110000),
		},
	}
	handler := handlers.PlaceOrderHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("POST", "/api/orders", bytes.NewBufferString(`{"address_id": 20}`))
	req = withUserID(req, 7)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp models.Order
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), resp.ID)
	assert.Equal(t, service.OrderStatusPending, resp.Status)
}

func TestPlaceOrderHandler_EmptyCart(t *testing.T) {
	fakeSvc := &fakeCheckoutService{err: service.ErrEmptyCart}
	handler := handlers.PlaceOrderHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("POST", "/api/orders", bytes.NewBufferString(`{"address_id": 20}`))
	req = withUserID(req, 7)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestPlaceOrderHandler_MixedShopCart(t *testing.T) {
	fakeSvc := &fakeCheckoutService{err: service.ErrMixedShopCart}
	handler := handlers.PlaceOrderHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("POST", "/api/orders", bytes.NewBufferString(`{"address_id": 20}`))
	req = withUserID(req, 7)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestAddOrderVoucherHandler_Success(t *testing.T) {
	handler := handlers.AddOrderVoucherHandler(testLogger(), &fakeVoucherService{})

	req := httptest.NewRequest("POST", "/api/orders/5/vouchers", bytes.NewBufferString(`{"voucher_id": 2}`))
	req = withURLParam(req, "orderID", "5")
	req = withUserID(req, 7)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAddOrderVoucherHandler_VoucherNotFound(t *testing.T) {
	fakeSvc := &fakeVoucherService{err: storage.ErrVoucherNotFound}
	handler := handlers.AddOrderVoucherHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("POST", "/api/orders/5/vouchers", bytes.NewBufferString(`{"voucher_id": 404}`))
	req = withURLParam(req, "orderID", "5")
	req = withUserID(req, 7)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRemoveOrderVoucherHandler_NotApplicable(t *testing.T) {
	fakeSvc := &fakeVoucherService{err: service.ErrVoucherNotApplicable}
	handler := handlers.RemoveOrderVoucherHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("DELETE", "/api/orders/5/vouchers/2", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("orderID", "5")
	rctx.URLParams.Add("voucherID", "2")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	req = withUserID(req, 7)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestClearOrderVouchersHandler_ReportsRemoved(t *testing.T) {
	fakeSvc := &fakeVoucherService{removed: 2}
	handler := handlers.ClearOrderVouchersHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("DELETE", "/api/orders/5/vouchers", nil)
	req = withURLParam(req, "orderID", "5")
	req = withUserID(req, 7)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp handlers.ClearVouchersResponse
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), resp.Removed)
}

func TestCreateAddressHandler_Success(t *testing.T) {
	fakeSvc := &fakeAddressService{
		address: &models.Address{
			ID: 20, UserID: 7,
			AddressLine: models.AddressLine{Detail: "12 Nguyen Hue", City: "Ho Chi Minh City"},
			IsDefault:   true,
		},
	}
	handler := handlers.CreateAddressHandler(testLogger(), fakeSvc)

	body := `{"address_line": {"detail": "12 Nguyen Hue", "city": "Ho Chi Minh City"}, "is_default": true}`
	req := httptest.NewRequest("POST", "/api/addresses", bytes.NewBufferString(body))
	req = withUserID(req, 7)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp models.Address
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.True(t, resp.IsDefault)
}

func TestCreateAddressHandler_StringAddressLine(t *testing.T) {
	fakeSvc := &fakeAddressService{
		address: &models.Address{ID: 20, UserID: 7},
	}
	handler := handlers.CreateAddressHandler(testLogger(), fakeSvc)

	// address_line может прийти и строкой — декодер нормализует её сам.
	body := `{"address_line": "12 Nguyen Hue, District 1, Ho Chi Minh City"}`
	req := httptest.NewRequest("POST", "/api/addresses", bytes.NewBufferString(body))
	req = withUserID(req, 7)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestDefaultAddressHandler_NotFound(t *testing.T) {
	fakeSvc := &fakeAddressService{err: storage.ErrNoDefaultAddress}
	handler := handlers.DefaultAddressHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/api/addresses/default", nil)
	req = withUserID(req, 7)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
