package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/service"
)

// BusinessHandler handles business profile endpoints.
type BusinessHandler struct {
	businessService service.BusinessService
}

// NewBusinessHandler creates a new business handler.
func NewBusinessHandler(businessService service.BusinessService) *BusinessHandler {
	return &BusinessHandler{businessService: businessService}
}

// UpdateBusinessRequest lists the editable fields; omitted fields keep their value.
type UpdateBusinessRequest struct {
	Name        *string `json:"business_name" validate:"omitempty,min=1,max=100"`
	City        *string `json:"city" validate:"omitempty,min=1,max=50"`
	Region      *string `json:"region" validate:"omitempty,min=1,max=50"`
	Description *string `json:"business_description"`
}

// GetBusiness godoc
// @Summary Get a business profile
// @Tags business
// @Produce json
// @Param id path int true "Business ID"
// @Success 200 {object} Envelope{data=model.Business}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /business/{id} [get]
func (h *BusinessHandler) GetBusiness(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	business, err := h.businessService.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, business)
}

// UpdateBusiness godoc
// @Summary Update a business profile
// @Tags business
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Business ID"
// @Param request body UpdateBusinessRequest true "Fields to change"
// @Success 200 {object} Envelope{data=model.Business}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /business/{id} [put]
func (h *BusinessHandler) UpdateBusiness(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateBusinessRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	business, err := h.businessService.Update(c.Request().Context(), user, id, service.BusinessUpdate{
		Name:        req.Name,
		City:        req.City,
		Region:      req.Region,
		Description: req.Description,
	})
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, business)
}
