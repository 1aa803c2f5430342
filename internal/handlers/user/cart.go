package user

import (
	"net/http"

	"marketplace_back_end/internal/handlers"
	"marketplace_back_end/internal/middleware"
	"marketplace_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	carts *services.CartService
}

func NewCartHandler(carts *services.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type cartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	ToDelete  bool   `json:"toDelete"`
}

// PATCH /add-to-cart
func (h *CartHandler) AddToCart(c *gin.Context) {
	var input cartRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		handlers.BadRequest(c, "invalid request body")
		return
	}

	user, err := h.carts.AddOrUpdate(c.Request.Context(), middleware.CallerID(c), services.CartUpdate{
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		Remove:    input.ToDelete,
	})
	if err != nil {
		handlers.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cart updated", "user": user})
}

// GET /get-cart
func (h *CartHandler) GetCart(c *gin.Context) {
	lines, err := h.carts.GetCart(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		handlers.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, lines)
}
