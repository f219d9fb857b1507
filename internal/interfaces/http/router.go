package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/aleman-inventario/internal/application/auth"
	"github.com/jhoicas/aleman-inventario/internal/application/catalog"
	"github.com/jhoicas/aleman-inventario/internal/application/inventory"
	"github.com/jhoicas/aleman-inventario/internal/application/usecase"
	"github.com/jhoicas/aleman-inventario/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	LocationUC *usecase.LocationUseCase
	ProductUC  *usecase.ProductUseCase
	ImportUC   *catalog.ImportUseCase
	UserUC     *usecase.UserUseCase
	MovementUC *inventory.MovementUseCase
	StockUC    *inventory.StockUseCase
	CartUC     *inventory.CartUseCase
	// Ping verifica el almacenamiento para /health; nil = siempre ok.
	Ping    func(ctx context.Context) error
	Service string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps))

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas: la sesión se resuelve contra el almacenamiento
	protected := api.Group("/", AuthMiddleware(deps.AuthUC))
	adminOnly := RequireRole(entity.RoleAdmin)
	writers := RequireRole(entity.RoleAdmin, entity.RoleStaff)

	authGroup := protected.Group("/auth")
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", authHandler.Me)
	authGroup.Put("/location", adminOnly, authHandler.SwitchLocation)

	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.ImportUC)
	products.Get("/", productHandler.List)
	products.Post("/import", adminOnly, productHandler.Import)
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", adminOnly, productHandler.Update)

	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.MovementUC)
	invGroup.Get("/options", inventoryHandler.Options)
	invGroup.Post("/movements", writers, inventoryHandler.RecordMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Patch("/movements/:id", adminOnly, inventoryHandler.CorrectMovement)

	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stock.Get("/", stockHandler.Report)
	stock.Get("/pdf", stockHandler.PDF)
	stock.Get("/products/:id", stockHandler.Product)

	cart := protected.Group("/cart", writers)
	cartHandler := NewCartHandler(deps.CartUC)
	cart.Get("/", cartHandler.Get)
	cart.Delete("/", cartHandler.Clear)
	cart.Post("/items", cartHandler.AddItem)
	cart.Delete("/items/:id", cartHandler.RemoveItem)
	cart.Post("/commit", cartHandler.Commit)

	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Put("/", userHandler.Upsert)
	users.Delete("/:login", userHandler.Delete)
}

// healthHandler godoc
// @Summary      Estado del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /health [get]
func healthHandler(deps RouterDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Ping != nil {
			if err := deps.Ping(c.UserContext()); err != nil {
				return writeError(c, err)
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.Service})
	}
}
