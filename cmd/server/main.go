package main

import (
	"strings"

	"bondstore-backend/internal/admin"
	"bondstore-backend/internal/audit"
	"bondstore-backend/internal/auth"
	"bondstore-backend/internal/config"
	"bondstore-backend/internal/database"
	"bondstore-backend/internal/inventory"
	"bondstore-backend/internal/models"
	"bondstore-backend/internal/months"
	"bondstore-backend/internal/reports"
	"bondstore-backend/internal/seafarers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	log := config.Logger()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.WithError(err).Error("unexpected error")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-fleet-admin", auth.RegisterFleetAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Fleet admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleFleetAdmin))

	// Gemi yönetimi
	adminRoutes.Post("/vessels", admin.CreateVesselHandler())
	adminRoutes.Get("/vessels", admin.ListVesselsHandler())
	adminRoutes.Get("/vessels/:id", admin.GetVesselHandler())
	adminRoutes.Put("/vessels/:id", admin.UpdateVesselHandler())
	adminRoutes.Delete("/vessels/:id", admin.DeleteVesselHandler())
	adminRoutes.Post("/vessels/:id/storekeeper", admin.CreateStorekeeperHandler())
	adminRoutes.Get("/vessels/:id/storekeepers", admin.ListStorekeepersHandler())

	// Ortak (auth gerektiren) route'lar

	// Ay yönetimi
	protected.Post("/months", months.CreateMonthHandler())
	protected.Get("/months", months.ListMonthsHandler())
	protected.Get("/months/:id", months.GetMonthHandler())
	protected.Delete("/months/:id", months.DeleteMonthHandler())

	// Seafarer yönetimi
	protected.Post("/months/:id/seafarers", seafarers.CreateSeafarerHandler())
	protected.Get("/months/:id/seafarers", seafarers.ListSeafarersHandler())
	protected.Put("/seafarers/:id", seafarers.UpdateSeafarerHandler())
	protected.Delete("/seafarers/:id", seafarers.DeleteSeafarerHandler())
	protected.Post("/seafarers/:id/recalculate", seafarers.RecalculateHandler())

	// Dağıtımlar
	protected.Post("/seafarers/:id/distributions", seafarers.CreateDistributionHandler())
	protected.Get("/seafarers/:id/distributions", seafarers.ListDistributionsHandler())
	protected.Put("/distributions/:id", seafarers.UpdateDistributionHandler())
	protected.Delete("/distributions/:id", seafarers.DeleteDistributionHandler())

	// Kalem yönetimi
	protected.Post("/items", inventory.CreateItemHandler())
	protected.Get("/items", inventory.ListItemsHandler())
	protected.Get("/items/by-barcode/:code", inventory.GetItemByBarcodeHandler())
	protected.Put("/items/:id", inventory.UpdateItemHandler())
	protected.Post("/items/:id/barcodes", inventory.AddBarcodeHandler())
	protected.Delete("/items/:id", inventory.DeleteItemHandler())

	// İkmal kayıtları
	protected.Post("/supplies", inventory.CreateSupplyHandler())
	protected.Get("/supplies", inventory.ListSuppliesHandler())
	protected.Delete("/supplies/:id", inventory.DeleteSupplyHandler())

	// Raporlar
	protected.Get("/reports/stock", reports.StockReportHandler())
	protected.Get("/reports/crew", reports.CrewReportHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())
	protected.Post("/audit-logs/:id/undo", audit.UndoAuditLogHandler())

	log.WithField("port", cfg.HTTPPort).Info("server listening")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
