package inventory

import (
	"fmt"
	"time"

	"bondstore-backend/internal/audit"
	"bondstore-backend/internal/auth"
	"bondstore-backend/internal/database"
	"bondstore-backend/internal/ledger"
	"bondstore-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type CreateSupplyRequest struct {
	ItemID   uint   `json:"item_id" validate:"required"`
	Date     string `json:"date" validate:"required"` // "2025-06-01"
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

type SupplyResponse struct {
	ID        uint   `json:"id"`
	ItemID    uint   `json:"item_id"`
	ItemName  string `json:"item_name"`
	Date      string `json:"date"`
	Quantity  int    `json:"quantity"`
	CreatedAt string `json:"created_at"`
}

// POST /api/supplies
// Tedarik kaydı oluşturulduktan sonra değiştirilemez; yanlış giriş silinir
func CreateSupplyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSupplyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		validate := validator.New()
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "item_id ve date zorunlu, quantity pozitif olmalı")
		}

		var item models.InventoryItem
		if err := database.DB.First(&item, "id = ?", body.ItemID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Kalem bulunamadı")
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		supply := models.SupplyRecord{
			InventoryItemID: item.ID,
			Date:            d,
			Quantity:        body.Quantity,
		}

		if err := database.DB.Create(&supply).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tedarik kaydı oluşturulamadı")
		}

		userID, userName, _, uerr := auth.UserInfo(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				VesselID:    &item.VesselID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "supply_record",
				EntityID:    supply.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Tedarik: %s x%d", item.Name, supply.Quantity),
				Before:      nil,
				After:       supply,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(SupplyResponse{
			ID:        supply.ID,
			ItemID:    item.ID,
			ItemName:  item.Name,
			Date:      supply.Date.Format("2006-01-02"),
			Quantity:  supply.Quantity,
			CreatedAt: supply.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// GET /api/supplies?item_id=1&month_id=2025-06
func ListSuppliesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vesselID, err := resolveVesselIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.SupplyRecord{}).
			Joins("JOIN inventory_items ON inventory_items.id = supply_records.inventory_item_id").
			Where("inventory_items.vessel_id = ?", vesselID)

		if itemIDStr := c.Query("item_id"); itemIDStr != "" {
			var itemID uint
			if _, err := fmt.Sscan(itemIDStr, &itemID); err != nil || itemID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "item_id geçersiz")
			}
			dbq = dbq.Where("supply_records.inventory_item_id = ?", itemID)
		}

		if monthID := c.Query("month_id"); monthID != "" {
			start, end, err := ledger.MonthRange(monthID)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Ay formatı geçersiz, 'YYYY-MM' olmalı")
			}
			dbq = dbq.Where("supply_records.date >= ? AND supply_records.date < ?", start, end)
		}

		var supplies []models.SupplyRecord
		if err := dbq.Preload("InventoryItem").
			Order("supply_records.date asc, supply_records.id asc").
			Find(&supplies).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tedarikler listelenemedi")
		}

		resp := make([]SupplyResponse, 0, len(supplies))
		for _, s := range supplies {
			resp = append(resp, SupplyResponse{
				ID:        s.ID,
				ItemID:    s.InventoryItemID,
				ItemName:  s.InventoryItem.Name,
				Date:      s.Date.Format("2006-01-02"),
				Quantity:  s.Quantity,
				CreatedAt: s.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(resp)
	}
}

// DELETE /api/supplies/:id
func DeleteSupplyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var supply models.SupplyRecord
		if err := database.DB.Preload("InventoryItem").First(&supply, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tedarik kaydı bulunamadı")
		}

		if err := database.DB.Delete(&supply).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tedarik kaydı silinemedi")
		}

		userID, userName, _, uerr := auth.UserInfo(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				VesselID:    &supply.InventoryItem.VesselID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "supply_record",
				EntityID:    supply.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Tedarik silindi: %s x%d", supply.InventoryItem.Name, supply.Quantity),
				Before:      supply,
				After:       nil,
			})
		}

		return c.JSON(fiber.Map{"deleted": true})
	}
}
