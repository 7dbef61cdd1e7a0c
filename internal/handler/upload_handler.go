package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/service"
)

// maxUploadBytes caps the size of an uploaded image.
const maxUploadBytes = 10 << 20

// UploadHandler accepts logo and product image uploads.
type UploadHandler struct {
	uploadService service.UploadService
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// UploadResponse carries the public URL of the stored image.
type UploadResponse struct {
	URL string `json:"url"`
}

// UploadLogo godoc
// @Summary Upload the caller's business logo
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "PNG or JPG image"
// @Success 200 {object} Envelope{data=UploadResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /uploadfile/profile [post]
func (h *UploadHandler) UploadLogo(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return fail(c, err)
	}
	filename, data, err := readUpload(c)
	if err != nil {
		return err
	}

	url, err := h.uploadService.UploadLogo(c.Request().Context(), user, filename, data)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, UploadResponse{URL: url})
}

// UploadProductImage godoc
// @Summary Upload a product image
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param file formData file true "PNG or JPG image"
// @Success 200 {object} Envelope{data=UploadResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /uploadfile/product/{id} [post]
func (h *UploadHandler) UploadProductImage(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	filename, data, err := readUpload(c)
	if err != nil {
		return err
	}

	url, err := h.uploadService.UploadProductImage(c.Request().Context(), user, id, filename, data)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, UploadResponse{URL: url})
}

func readUpload(c echo.Context) (string, []byte, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return "", nil, badRequest("multipart field \"file\" is required")
	}

	f, err := header.Open()
	if err != nil {
		return "", nil, badRequest("unreadable upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return "", nil, badRequest("unreadable upload")
	}
	if len(data) > maxUploadBytes {
		return "", nil, badRequest(fmt.Sprintf("file exceeds %d bytes", maxUploadBytes))
	}
	return header.Filename, data, nil
}
