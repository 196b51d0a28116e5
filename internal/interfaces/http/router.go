package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cuentas-api/internal/application/auth"
	"github.com/jhoicas/cuentas-api/internal/application/usecase"
	"github.com/jhoicas/cuentas-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AccountUC  *usecase.AccountUseCase
	ServiceUC  *usecase.ServiceUseCase
	CustomerUC *usecase.CustomerUseCase
	SyncUC     *usecase.SyncUseCase
	UserUC     *usecase.UserUseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Sincronización con la hoja (protegido; disparo solo admin)
	syncGroup := protected.Group("/sync")
	syncHandler := NewSyncHandler(deps.SyncUC)
	syncGroup.Post("/", RequireRole(entity.RoleAdmin), syncHandler.TriggerSync)
	syncGroup.Post("/verify", RequireRole(entity.RoleAdmin), syncHandler.TriggerVerify)
	syncGroup.Get("/status", syncHandler.Status)
	syncGroup.Get("/tasks", syncHandler.List)

	// Cuentas del inventario (protegido)
	accounts := protected.Group("/accounts")
	accountHandler := NewAccountHandler(deps.AccountUC)
	accounts.Get("/", accountHandler.List)
	accounts.Get("/:id", accountHandler.GetByID)
	accounts.Put("/:id", accountHandler.Update)

	// Catálogo de servicios (protegido)
	services := protected.Group("/services")
	serviceHandler := NewServiceHandler(deps.ServiceUC)
	services.Post("/", RequireRole(entity.RoleAdmin), serviceHandler.Create)
	services.Get("/", serviceHandler.List)
	services.Put("/:id", RequireRole(entity.RoleAdmin), serviceHandler.Update)

	// Perfil del usuario autenticado
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/me", userHandler.Me)

	// Clientes finales (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
}
