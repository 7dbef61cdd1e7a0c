package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"storefront/internal/service"
)

// ProductHandler handles product catalog endpoints.
type ProductHandler struct {
	productService service.ProductService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ProductRequest is the body for creating or replacing a product.
type ProductRequest struct {
	Name          string          `json:"name" validate:"required,max=100"`
	Category      string          `json:"category" validate:"required,max=50"`
	OriginalPrice decimal.Decimal `json:"original_price" swaggertype:"string" example:"40.00"`
	NewPrice      decimal.Decimal `json:"new_price" swaggertype:"string" example:"30.00"`
	// OfferExpirationDate accepts 2006-01-02 or RFC 3339.
	OfferExpirationDate string  `json:"offer_expiration_date" example:"2026-12-31"`
	Description         *string `json:"product_description"`
}

func (r ProductRequest) toInput() (service.ProductInput, error) {
	in := service.ProductInput{
		Name:          r.Name,
		Category:      r.Category,
		OriginalPrice: r.OriginalPrice,
		NewPrice:      r.NewPrice,
		Description:   r.Description,
	}
	if r.NewPrice.IsNegative() {
		return in, badRequest("new_price must not be negative")
	}
	if r.OfferExpirationDate != "" {
		expires, err := parseDate(r.OfferExpirationDate)
		if err != nil {
			return in, badRequest("offer_expiration_date must be YYYY-MM-DD")
		}
		in.OfferExpirationDate = &expires
	}
	return in, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// CreateProduct godoc
// @Summary Add a product to the caller's business
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProductRequest true "Product"
// @Success 201 {object} Envelope{data=model.Product}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return fail(c, err)
	}

	var req ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}

	product, err := h.productService.Create(c.Request().Context(), user, in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusCreated, product)
}

// ListProducts godoc
// @Summary List products
// @Tags products
// @Produce json
// @Success 200 {object} Envelope{data=[]model.Product}
// @Router /products [get]
func (h *ProductHandler) ListProducts(c echo.Context) error {
	products, err := h.productService.List(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, products)
}

// GetProduct godoc
// @Summary Get a product with its business
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} Envelope{data=service.ProductDetail}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.productService.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, detail)
}

// UpdateProduct godoc
// @Summary Replace a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param request body ProductRequest true "Product"
// @Success 200 {object} Envelope{data=model.Product}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}

	product, err := h.productService.Update(c.Request().Context(), user, id, in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, product)
}

// DeleteProduct godoc
// @Summary Delete a product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} Envelope
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.productService.Delete(c.Request().Context(), user, id); err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "product deleted")
}
