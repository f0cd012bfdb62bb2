package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/nstepanov/eshop/internal/authgate"
	"github.com/nstepanov/eshop/internal/handlers"
)

type Deps struct {
	Gate            *authgate.Gate
	AuthHandler     *handlers.AuthHandler
	UserHandler     *handlers.UserHandler
	CategoryHandler *handlers.CategoryHandler
	ProductHandler  *handlers.ProductHandler
	OrderHandler    *handlers.OrderHandler
	SearchHandler   *handlers.SearchHandler
}

func Register(e *echo.Echo, apiPrefix, uploadsDir string, d *Deps) {
	e.Use(d.Gate.Middleware())

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	e.Static("/public/uploads", uploadsDir)

	api := e.Group(apiPrefix)

	users := api.Group("/users")
	users.POST("/login", d.AuthHandler.Login)
	users.POST("/register", d.AuthHandler.Register)
	users.POST("", d.UserHandler.CreateUser)
	users.GET("", d.UserHandler.GetUsers)
	users.GET("/:id", d.UserHandler.GetUser)
	users.PUT("/:id", d.UserHandler.UpdateUser)
	users.DELETE("/:id", d.UserHandler.DeleteUser)
	users.GET("/get/count", d.UserHandler.CountUsers)

	categories := api.Group("/categories")
	categories.GET("", d.CategoryHandler.GetCategories)
	categories.GET("/:id", d.CategoryHandler.GetCategory)
	categories.POST("", d.CategoryHandler.CreateCategory)
	categories.PUT("/:id", d.CategoryHandler.UpdateCategory)
	categories.DELETE("/:id", d.CategoryHandler.DeleteCategory)

	products := api.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/search", d.SearchHandler.Search)
	products.GET("/get/count", d.ProductHandler.CountProducts)
	products.GET("/get/featured/:count", d.ProductHandler.FeaturedProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("", d.ProductHandler.CreateProduct)
	products.PUT("/gallery-images/:id", d.ProductHandler.UpdateGallery)
	products.PUT("/:id", d.ProductHandler.UpdateProduct)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct)

	orders := api.Group("/orders")
	orders.GET("", d.OrderHandler.GetOrders)
	orders.GET("/get/totalsales", d.OrderHandler.TotalSales)
	orders.GET("/get/count", d.OrderHandler.CountOrders)
	orders.GET("/get/userorders/:userid", d.OrderHandler.UserOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.PUT("/:id", d.OrderHandler.UpdateOrder)
	orders.DELETE("/:id", d.OrderHandler.DeleteOrder)
}
