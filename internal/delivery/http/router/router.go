// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"github.com/AnthonyArce/Tienda/internal/delivery/http/middleware"
	"github.com/AnthonyArce/Tienda/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// adminRole guards the catalog maintenance endpoints.
const adminRole = "Administrador"

type RouterParams struct {
	fx.In

	UserHandler    *handler.UserHandler
	ProductHandler *handler.ProductHandler
	CatalogHandler *handler.CatalogHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler    *handler.UserHandler
	productHandler *handler.ProductHandler
	catalogHandler *handler.CatalogHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:    params.UserHandler,
		productHandler: params.ProductHandler,
		catalogHandler: params.CatalogHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Account routes: registration, login, refresh rotation and role grants.
	userGroup := e.Group("/usuario")
	{
		userGroup.POST("/register", r.userHandler.Register)
		userGroup.POST("/token", r.userHandler.Token)
		userGroup.POST("/refreshtoken", r.userHandler.RefreshToken)
		userGroup.POST("/addrole", r.userHandler.AddRole)
	}

	// Catalog routes require an authenticated administrator.
	productGroup := e.Group("/productos")
	productGroup.Use(r.authMiddleware.Authenticate)
	productGroup.Use(r.authMiddleware.RequireRole(adminRole))
	{
		productGroup.GET("", r.productHandler.List)
		productGroup.GET("/:id", r.productHandler.Get)
		productGroup.POST("", r.productHandler.Create)
		productGroup.PUT("/:id", r.productHandler.Update)
		productGroup.DELETE("/:id", r.productHandler.Delete)
	}

	brandGroup := e.Group("/marcas")
	brandGroup.Use(r.authMiddleware.Authenticate)
	brandGroup.Use(r.authMiddleware.RequireRole(adminRole))
	{
		brandGroup.GET("", r.catalogHandler.ListBrands)
		brandGroup.POST("", r.catalogHandler.CreateBrand)
	}

	categoryGroup := e.Group("/categorias")
	categoryGroup.Use(r.authMiddleware.Authenticate)
	categoryGroup.Use(r.authMiddleware.RequireRole(adminRole))
	{
		categoryGroup.GET("", r.catalogHandler.ListCategories)
		categoryGroup.POST("", r.catalogHandler.CreateCategory)
	}
}
