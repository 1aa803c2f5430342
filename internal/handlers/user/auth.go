package user

import (
	"net/http"

	"marketplace_back_end/internal/handlers"
	"marketplace_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	accounts *services.AccountService
}

func NewAuthHandler(accounts *services.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var input registerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		handlers.BadRequest(c, "invalid request body")
		return
	}

	res, err := h.accounts.Register(c.Request.Context(), services.RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.UserType,
	})
	if err != nil {
		handlers.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "user registered successfully",
		"user":    res.User,
		"token":   res.Token,
	})
}

// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var input loginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		handlers.BadRequest(c, "invalid request body")
		return
	}

	res, err := h.accounts.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"user":    res.User,
		"token":   res.Token,
	})
}
