package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"catalog/internal/errors"
	"catalog/internal/service"
)

// ProductHandler handles product endpoints. Every route requires an
// authenticated caller; the owner is always the caller, never an input.
type ProductHandler struct {
	productService service.ProductService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ProductRequest represents a product create request. Owner is not
// bindable: whatever a client submits, the product belongs to the caller.
type ProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// ProductPatchRequest represents a partial update; absent fields are
// left unchanged.
type ProductPatchRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
}

// BulkCreateRequest represents an all-or-nothing multi-create request.
type BulkCreateRequest struct {
	Products []ProductRequest `json:"products"`
}

// List godoc
// @Summary List the caller's products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Product
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products/ [get]
func (h *ProductHandler) List(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	products, err := h.productService.List(c.Request().Context(), user)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, products)
}

// Create godoc
// @Summary Create a product owned by the caller
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProductRequest true "Product data"
// @Success 201 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products/ [post]
func (h *ProductHandler) Create(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	product, err := h.productService.Create(c.Request().Context(), user, service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, product)
}

// BulkCreate godoc
// @Summary Create several products atomically
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BulkCreateRequest true "Products"
// @Success 201 {array} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products/bulk/ [post]
func (h *ProductHandler) BulkCreate(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	var req BulkCreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	ins := make([]service.ProductInput, 0, len(req.Products))
	for _, p := range req.Products {
		ins = append(ins, service.ProductInput{
			Name:        p.Name,
			Description: p.Description,
			ImageURL:    p.ImageURL,
		})
	}

	products, err := h.productService.BulkCreate(c.Request().Context(), user, ins)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, products)
}

// Get godoc
// @Summary Get one of the caller's products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products/{id}/ [get]
func (h *ProductHandler) Get(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := productID(c)
	if err != nil {
		return err
	}

	product, err := h.productService.Get(c.Request().Context(), user, id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, product)
}

// Update godoc
// @Summary Partially update one of the caller's products
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param request body ProductPatchRequest true "Fields to change"
// @Success 200 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products/{id}/ [patch]
func (h *ProductHandler) Update(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := productID(c)
	if err != nil {
		return err
	}

	var req ProductPatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	product, err := h.productService.Update(c.Request().Context(), user, id, service.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, product)
}

// Delete godoc
// @Summary Delete one of the caller's products
// @Tags products
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 204 "No Content"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products/{id}/ [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := productID(c)
	if err != nil {
		return err
	}

	if err := h.productService.Delete(c.Request().Context(), user, id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.NoContent(http.StatusNoContent)
}

func productID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid product ID",
			Code:  "INVALID_ID",
		})
	}
	return uint(id), nil
}
