package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stashline/stashline-backend/api/middleware"
	productsvc "github.com/stashline/stashline-backend/internal/products"
	"github.com/stashline/stashline-backend/pkg/logger"
)

func testControllerLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "controllers-test", Level: logger.ParseLevel("error"), Output: io.Discard})
}

type stubProductService struct {
	createInput   *productsvc.CreateProductInput
	updateInput   *productsvc.UpdateProductInput
	deleteCalled  bool
	deletedID     uuid.UUID
	listInput     *productsvc.ListProductsInput
	returnProduct *productsvc.ProductDTO
}

func (s *stubProductService) CreateProduct(_ context.Context, _, _ uuid.UUID, input productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	s.createInput = &input
	return s.returnProduct, nil
}

func (s *stubProductService) UpdateProduct(_ context.Context, _, _, _ uuid.UUID, input productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	s.updateInput = &input
	return s.returnProduct, nil
}

func (s *stubProductService) DeleteProduct(_ context.Context, _, _, productID uuid.UUID) error {
	s.deleteCalled = true
	s.deletedID = productID
	return nil
}

func (s *stubProductService) GetProduct(_ context.Context, _, _ uuid.UUID) (*productsvc.ProductDTO, error) {
	return s.returnProduct, nil
}

func (s *stubProductService) ListProducts(_ context.Context, input productsvc.ListProductsInput) (*productsvc.ProductListResult, error) {
	s.listInput = &input
	return &productsvc.ProductListResult{}, nil
}

func vendorContext(storeID, userID uuid.UUID) context.Context {
	ctx := middleware.WithStoreID(context.Background(), storeID.String())
	return middleware.WithUserID(ctx, userID.String())
}

func withRouteParam(ctx context.Context, key, value string) context.Context {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
}

func TestVendorCreateProduct(t *testing.T) {
	logg := testControllerLogger()
	storeID := uuid.New()
	userID := uuid.New()

	t.Run("decodes payload into service input", func(t *testing.T) {
		body := `{
			"sku": "FL-001",
			"title": "Sunset OG",
			"unit": "gram",
			"category": "flower",
			"regular_price": "10.00",
			"current_price": "8.50",
			"tier_prices": [{"tier_key": "eighth", "price": "30.00"}],
			"is_featured": true
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/vendor/products", strings.NewReader(body))
		req = req.WithContext(vendorContext(storeID, userID))

		stub := &stubProductService{returnProduct: &productsvc.ProductDTO{ID: uuid.New()}}
		rec := httptest.NewRecorder()
		VendorCreateProduct(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.createInput == nil {
			t.Fatal("expected CreateProduct to be invoked")
		}
		input := stub.createInput
		if input.SKU != "FL-001" || input.Title != "Sunset OG" {
			t.Fatalf("unexpected identity fields: %+v", input)
		}
		if input.Category == nil || input.Category.String() != "flower" {
			t.Fatalf("expected flower category, got %v", input.Category)
		}
		if input.RegularPrice == nil || !input.RegularPrice.Equal(decimal.RequireFromString("10.00")) {
			t.Fatalf("unexpected regular price: %v", input.RegularPrice)
		}
		if len(input.TierPrices) != 1 || input.TierPrices[0].TierKey != "eighth" {
			t.Fatalf("unexpected tier prices: %+v", input.TierPrices)
		}
		if !input.IsActive {
			t.Fatal("expected is_active to default to true")
		}
		if !input.IsFeatured {
			t.Fatal("expected is_featured to be set")
		}
	})

	t.Run("rejects unknown unit", func(t *testing.T) {
		body := `{"sku": "FL-001", "title": "Sunset OG", "unit": "pallet"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/vendor/products", strings.NewReader(body))
		req = req.WithContext(vendorContext(storeID, userID))

		rec := httptest.NewRecorder()
		VendorCreateProduct(&stubProductService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("missing store context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/vendor/products", strings.NewReader(`{}`))
		req = req.WithContext(middleware.WithUserID(context.Background(), userID.String()))

		rec := httptest.NewRecorder()
		VendorCreateProduct(&stubProductService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("missing user context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/vendor/products", strings.NewReader(`{}`))
		req = req.WithContext(middleware.WithStoreID(context.Background(), storeID.String()))

		rec := httptest.NewRecorder()
		VendorCreateProduct(&stubProductService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestVendorDeleteProduct(t *testing.T) {
	logg := testControllerLogger()
	storeID := uuid.New()
	userID := uuid.New()
	productID := uuid.New()

	t.Run("success", func(t *testing.T) {
		ctx := withRouteParam(vendorContext(storeID, userID), "productId", productID.String())
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/vendor/products/"+productID.String(), nil)
		req = req.WithContext(ctx)

		stub := &stubProductService{}
		rec := httptest.NewRecorder()
		VendorDeleteProduct(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !stub.deleteCalled || stub.deletedID != productID {
			t.Fatalf("expected DeleteProduct(%s) to be invoked", productID)
		}
	})

	t.Run("invalid product id", func(t *testing.T) {
		ctx := withRouteParam(vendorContext(storeID, userID), "productId", "not-a-uuid")
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/vendor/products/not-a-uuid", nil)
		req = req.WithContext(ctx)

		rec := httptest.NewRecorder()
		VendorDeleteProduct(&stubProductService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestVendorListProducts(t *testing.T) {
	logg := testControllerLogger()
	storeID := uuid.New()
	userID := uuid.New()

	t.Run("parses filters", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/vendor/products?limit=10&category=flower&is_active=true&price_max=45.50&q=og", nil)
		req = req.WithContext(vendorContext(storeID, userID))

		stub := &stubProductService{}
		rec := httptest.NewRecorder()
		VendorListProducts(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.listInput == nil {
			t.Fatal("expected ListProducts to be invoked")
		}
		input := stub.listInput
		if input.StoreID != storeID {
			t.Fatalf("expected store %s, got %s", storeID, input.StoreID)
		}
		if input.Pagination.Limit != 10 {
			t.Fatalf("expected limit 10, got %d", input.Pagination.Limit)
		}
		if input.Filters.Category == nil || input.Filters.Category.String() != "flower" {
			t.Fatalf("unexpected category filter: %v", input.Filters.Category)
		}
		if input.Filters.IsActive == nil || !*input.Filters.IsActive {
			t.Fatal("expected is_active filter true")
		}
		if input.Filters.PriceMax == nil || !input.Filters.PriceMax.Equal(decimal.RequireFromString("45.50")) {
			t.Fatalf("unexpected price_max: %v", input.Filters.PriceMax)
		}
		if input.Filters.Query != "og" {
			t.Fatalf("unexpected query filter: %q", input.Filters.Query)
		}
	})

	t.Run("rejects out-of-range limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/vendor/products?limit=5000", nil)
		req = req.WithContext(vendorContext(storeID, userID))

		rec := httptest.NewRecorder()
		VendorListProducts(&stubProductService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
