package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/jobcards-api/internal/application/auth"
	"github.com/jhoicas/jobcards-api/internal/application/jobcard"
	"github.com/jhoicas/jobcards-api/internal/application/usecase"
	"github.com/jhoicas/jobcards-api/internal/domain/access"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	Lifecycle *jobcard.Lifecycle
	Query     *jobcard.QueryResolver
	Print     *jobcard.PrintUseCase
	CompanyUC *usecase.CompanyUseCase
	Cookie    SessionCookie
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	requireSession := AuthMiddleware(deps.AuthUC, deps.Cookie.Name)
	optionalSession := OptionalAuth(deps.AuthUC, deps.Cookie.Name)

	// Auth: login/logout públicos, el resto con sesión (las reglas de rol viven en el use case)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Cookie)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/current-user", requireSession, authHandler.CurrentUser)
	authGroup.Post("/register", requireSession, authHandler.Register)
	authGroup.Get("/users", requireSession, authHandler.ListUsers)
	authGroup.Delete("/users/:id", requireSession, authHandler.DeleteUser)

	// Tabla de acceso (identidad opcional)
	accessHandler := NewAccessHandler()
	api.Get("/access", accessHandler.Rules)
	api.Get("/access/:route", optionalSession, accessHandler.Check)

	// Orders (protegido)
	orderHandler := NewOrderHandler(deps.Lifecycle, deps.Query, deps.Print)
	orders := api.Group("/orders", requireSession)
	orders.Get("/", RequireRoute(access.RouteOrderList), orderHandler.List)
	orders.Post("/", RequireRoute(access.RouteOrderCreate), orderHandler.Create)
	orders.Get("/:id", RequireRoute(access.RouteOrderDetail), orderHandler.Get)
	orders.Put("/:id", RequireRoute(access.RouteOrderEdit), orderHandler.Update)
	orders.Post("/:id/toggle-status", RequireRoute(access.RouteOrderEdit), orderHandler.ToggleStatus)
	orders.Post("/:id/copy", RequireRoute(access.RouteOrderCreate), orderHandler.Copy)
	orders.Get("/:id/print", RequireRoute(access.RouteOrderDetail), orderHandler.Print)

	// Companies (protegido)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies := api.Group("/companies", requireSession)
	companies.Get("/", RequireRoute(access.RouteOrderList), companyHandler.List)
	companies.Post("/", RequireRoute(access.RouteCompanyCreate), companyHandler.Create)
	companies.Put("/:id", RequireRoute(access.RouteCompanyCreate), companyHandler.Update)
}
