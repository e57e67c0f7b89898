package inventory

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bondstore-backend/internal/audit"
	"bondstore-backend/internal/auth"
	"bondstore-backend/internal/database"
	"bondstore-backend/internal/ledger"
	"bondstore-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreateItemRequest struct {
	Name         string          `json:"name" validate:"required,min=1,max=100"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	ReceivedDate string          `json:"received_date" validate:"required"` // "2025-06-01"
	Barcodes     []string        `json:"barcodes"`
	VesselID     *uint           `json:"vessel_id"` // fleet_admin için
}

type UpdateItemRequest struct {
	Name         *string          `json:"name"`
	PricePerUnit *decimal.Decimal `json:"price_per_unit"`
	ReceivedDate *string          `json:"received_date"`
}

type AddBarcodeRequest struct {
	Code string `json:"code" validate:"required,min=1,max=64"`
}

type ItemResponse struct {
	ID             uint     `json:"id"`
	VesselID       uint     `json:"vessel_id"`
	Name           string   `json:"name"`
	PricePerUnit   string   `json:"price_per_unit"`
	ReceivedDate   string   `json:"received_date"`
	OriginalItemID string   `json:"original_item_id"`
	Barcodes       []string `json:"barcodes"`
	QuantityOnHand int      `json:"quantity_on_hand"`
}

func itemToResponse(item *models.InventoryItem, onHand int) ItemResponse {
	barcodes := make([]string, 0, len(item.Barcodes))
	for _, b := range item.Barcodes {
		barcodes = append(barcodes, b.Code)
	}
	return ItemResponse{
		ID:             item.ID,
		VesselID:       item.VesselID,
		Name:           item.Name,
		PricePerUnit:   item.PricePerUnit.StringFixed(2),
		ReceivedDate:   item.ReceivedDate.Format("2006-01-02"),
		OriginalItemID: item.OriginalItemID,
		Barcodes:       barcodes,
		QuantityOnHand: onHand,
	}
}

// POST /api/items
func CreateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		validate := validator.New()
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "name ve received_date zorunlu")
		}

		if body.PricePerUnit.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Birim fiyat negatif olamaz")
		}

		vesselID, err := resolveVesselIDFromBodyOrRole(c, body.VesselID)
		if err != nil {
			return err
		}

		receivedDate, err := time.Parse("2006-01-02", body.ReceivedDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		barcodes := make([]string, 0, len(body.Barcodes))
		for _, code := range body.Barcodes {
			code = strings.TrimSpace(code)
			if code != "" {
				barcodes = append(barcodes, code)
			}
		}

		item, err := CreateItem(database.DB, vesselID, strings.TrimSpace(body.Name), body.PricePerUnit, receivedDate, barcodes)
		var dup *DuplicateBarcodeError
		if errors.As(err, &dup) {
			return fiber.NewError(fiber.StatusConflict, fmt.Sprintf("Bu barkod zaten kayıtlı: %s", dup.Code))
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kalem oluşturulamadı")
		}

		userID, userName, _, uerr := auth.UserInfo(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				VesselID:    &vesselID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "inventory_item",
				EntityID:    item.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Kalem eklendi: %s", item.Name),
				Before:      nil,
				After:       item,
			})
		}

		database.DB.Preload("Barcodes").First(item, item.ID)
		return c.Status(fiber.StatusCreated).JSON(itemToResponse(item, 0))
	}
}

// GET /api/items?month_id=2025-06
// month_id verilirse yalnızca o ay görünür kalemler (receivedDate <= ay sonu)
// listelenir ve eldeki miktar ay sonu itibarıyla hesaplanır.
func ListItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vesselID, err := resolveVesselIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		asOf := time.Now()
		dbq := database.DB.Preload("Barcodes").Where("vessel_id = ?", vesselID)

		if monthID := c.Query("month_id"); monthID != "" {
			end, err := ledger.EndOfMonth(monthID)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Ay formatı geçersiz, 'YYYY-MM' olmalı")
			}
			dbq = dbq.Where("received_date <= ?", end)
			asOf = end
		}

		var items []models.InventoryItem
		if err := dbq.Order("name asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kalemler listelenemedi")
		}

		resp := make([]ItemResponse, 0, len(items))
		for i := range items {
			onHand, err := ledger.QuantityOnHand(database.DB, items[i].OriginalItemID, asOf)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Stok hesaplanamadı")
			}
			resp = append(resp, itemToResponse(&items[i], onHand))
		}

		return c.JSON(resp)
	}
}

// GET /api/items/by-barcode/:code
// Tarayıcıdan gelen barkodu kaleme çözer
func GetItemByBarcodeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vesselID, err := resolveVesselIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		code := c.Params("code")
		var barcode models.ItemBarcode
		if err := database.DB.Where("vessel_id = ? AND code = ?", vesselID, code).
			First(&barcode).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Barkod kayıtlı değil")
		}

		var item models.InventoryItem
		if err := database.DB.Preload("Barcodes").
			First(&item, "id = ?", barcode.InventoryItemID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kalem bulunamadı")
		}

		onHand, err := ledger.QuantityOnHand(database.DB, item.OriginalItemID, time.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok hesaplanamadı")
		}

		return c.JSON(itemToResponse(&item, onHand))
	}
}

// PUT /api/items/:id
// originalItemID değiştirilemez; ad/fiyat güncellemesi geçmiş dağıtımları
// etkilemez (onlar kendi kopyasını taşır)
func UpdateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var item models.InventoryItem
		if err := database.DB.First(&item, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kalem bulunamadı")
		}

		before := item

		var body UpdateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Kalem adı boş olamaz")
			}
			item.Name = name
		}
		if body.PricePerUnit != nil {
			if body.PricePerUnit.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "Birim fiyat negatif olamaz")
			}
			item.PricePerUnit = *body.PricePerUnit
		}
		if body.ReceivedDate != nil {
			d, err := time.Parse("2006-01-02", *body.ReceivedDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
			}
			item.ReceivedDate = d
		}

		if err := database.DB.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kalem güncellenemedi")
		}

		userID, userName, _, uerr := auth.UserInfo(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				VesselID:    &item.VesselID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "inventory_item",
				EntityID:    item.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Kalem güncellendi: %s", item.Name),
				Before:      before,
				After:       item,
			})
		}

		database.DB.Preload("Barcodes").First(&item, item.ID)
		return c.JSON(itemToResponse(&item, 0))
	}
}

// POST /api/items/:id/barcodes
func AddBarcodeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var item models.InventoryItem
		if err := database.DB.First(&item, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kalem bulunamadı")
		}

		var body AddBarcodeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		body.Code = strings.TrimSpace(body.Code)
		if body.Code == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Barkod boş olamaz")
		}

		err := AddBarcode(database.DB, &item, body.Code)
		var dup *DuplicateBarcodeError
		if errors.As(err, &dup) {
			return fiber.NewError(fiber.StatusConflict, fmt.Sprintf("Bu barkod zaten kayıtlı: %s", dup.Code))
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Barkod eklenemedi")
		}

		database.DB.Preload("Barcodes").First(&item, item.ID)
		return c.Status(fiber.StatusCreated).JSON(itemToResponse(&item, 0))
	}
}

// DELETE /api/items/:id
func DeleteItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var item models.InventoryItem
		if err := database.DB.First(&item, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kalem bulunamadı")
		}

		if err := DeleteItem(database.DB, item.ID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kalem silinemedi")
		}

		userID, userName, _, uerr := auth.UserInfo(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				VesselID:    &item.VesselID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "inventory_item",
				EntityID:    item.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Kalem silindi: %s", item.Name),
				Before:      item,
				After:       nil,
			})
		}

		return c.JSON(fiber.Map{"deleted": true})
	}
}
