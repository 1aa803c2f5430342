package product

import (
	"errors"
	"net/http"

	"marketplace_back_end/internal/handlers"
	"marketplace_back_end/internal/middleware"
	"marketplace_back_end/internal/models"
	"marketplace_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

// ImageField is the multipart field carrying the optional product image.
const ImageField = "image"

type Handler struct {
	catalog *services.CatalogService
}

func NewHandler(catalog *services.CatalogService) *Handler {
	return &Handler{catalog: catalog}
}

// GET /products
func (h *Handler) ListAll(c *gin.Context) {
	products, err := h.catalog.ListAll(c.Request.Context())
	if err != nil {
		handlers.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "products fetched", "products": products})
}

// GET /all-products/:sellerId
func (h *Handler) ListBySeller(c *gin.Context) {
	products, err := h.catalog.ListBySeller(c.Request.Context(), c.Param("sellerId"))
	if err != nil {
		handlers.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "products fetched", "products": products})
}

// POST /add-product (multipart/form-data)
func (h *Handler) Create(c *gin.Context) {
	input := models.ProductInput{
		Name:        c.PostForm("name"),
		Price:       c.PostForm("price"),
		Quantity:    c.PostForm("quantity"),
		Unit:        c.PostForm("unit"),
		Category:    c.PostForm("category"),
		Description: c.PostForm("description"),
	}

	var image *services.Upload
	fh, err := c.FormFile(ImageField)
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// no image
	case err != nil:
		handlers.BadRequest(c, "invalid image upload")
		return
	default:
		f, err := fh.Open()
		if err != nil {
			handlers.WriteError(c, err)
			return
		}
		defer f.Close()

		image = &services.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		}
	}

	product, err := h.catalog.Create(c.Request.Context(), middleware.CallerID(c), input, image)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "product created", "product": product})
}

// PATCH /update-product/:productId
func (h *Handler) Update(c *gin.Context) {
	var patch models.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		handlers.BadRequest(c, "invalid request body")
		return
	}
	if patch.IsEmpty() {
		handlers.BadRequest(c, "no fields to update")
		return
	}

	product, err := h.catalog.Update(c.Request.Context(), middleware.CallerID(c), c.Param("productId"), patch)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "product updated", "product": product})
}

// DELETE /delete-product/:productId
func (h *Handler) Delete(c *gin.Context) {
	product, err := h.catalog.Delete(c.Request.Context(), middleware.CallerID(c), c.Param("productId"))
	if err != nil {
		handlers.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "product deleted", "product": product})
}
