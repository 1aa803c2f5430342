package routes

import (
	"net/http"

	"marketplace_back_end/internal/handlers/product"
	"marketplace_back_end/internal/handlers/user"
	"marketplace_back_end/internal/middleware"
	"marketplace_back_end/internal/services"
	"marketplace_back_end/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps holds everything the route table needs. UploadDir is served under
// /uploads when non empty.
type Deps struct {
	Tokens      *utils.TokenService
	Accounts    *services.AccountService
	Catalog     *services.CatalogService
	Carts       *services.CartService
	RateLimiter *middleware.RateLimiter
	UploadDir   string
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:   []string{middleware.RequestIDHeader, "Retry-After"},
	}))

	limiter := deps.RateLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(nil)
	}

	auth := user.NewAuthHandler(deps.Accounts)
	carts := user.NewCartHandler(deps.Carts)
	products := product.NewHandler(deps.Catalog)
	authRequired := middleware.AuthRequired(deps.Tokens)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "marketplace API is running"})
	})

	// Auth
	r.POST("/register", limiter.Register(), auth.Register)
	r.POST("/login", limiter.Login(), auth.Login)

	// Products
	r.GET("/products", products.ListAll)
	r.GET("/all-products/:sellerId", products.ListBySeller)
	r.POST("/add-product", authRequired, products.Create)
	r.PATCH("/update-product/:productId", authRequired, products.Update)
	r.DELETE("/delete-product/:productId", authRequired, products.Delete)

	// Cart
	r.PATCH("/add-to-cart", authRequired, carts.AddToCart)
	r.GET("/get-cart", authRequired, carts.GetCart)

	if deps.UploadDir != "" {
		r.Static("/uploads", deps.UploadDir)
	}
}
