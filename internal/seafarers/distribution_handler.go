package seafarers

import (
	"errors"
	"fmt"
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

type CreateDistributionRequest struct {
	InventoryItemID uint   `json:"inventory_item_id" validate:"required"`
	Date            string `json:"date" validate:"required"`
	Quantity        int    `json:"quantity" validate:"required,gt=0"`
}

type UpdateDistributionRequest struct {
	Date     *string `json:"date"`
	Quantity *int    `json:"quantity"`
}

type DistributionResponse struct {
	ID              uint   `json:"id"`
	SeafarerID      uint   `json:"seafarer_id"`
	InventoryItemID *uint  `json:"inventory_item_id"`
	OriginalItemID  string `json:"original_item_id"`
	Date            string `json:"date"`
	ItemName        string `json:"item_name"`
	Quantity        int    `json:"quantity"`
	UnitPrice       string `json:"unit_price"`
	LineTotal       string `json:"line_total"` // vergili satır toplamı
}

func toDistributionResponse(d *models.Distribution, s *models.Seafarer) DistributionResponse {
	line := s.UnitPriceWithTax(d.UnitPrice).Mul(decimal.NewFromInt(int64(d.Quantity)))
	return DistributionResponse{
		ID:              d.ID,
		SeafarerID:      d.SeafarerID,
		InventoryItemID: d.InventoryItemID,
		OriginalItemID:  d.OriginalItemID,
		Date:            d.Date.Format("2006-01-02"),
		ItemName:        d.ItemName,
		Quantity:        d.Quantity,
		UnitPrice:       s.UnitPriceWithTax(d.UnitPrice).StringFixed(2),
		LineTotal:       line.StringFixed(2),
	}
}

// POST /api/seafarers/:id/distributions
func CreateDistributionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ID")
		}

		var seafarer models.Seafarer
		if err := database.DB.First(&seafarer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Seafarer bulunamadı")
		}

		month, err := checkMonthAccess(c, seafarer.MonthID)
		if err != nil {
			return err
		}

		var body CreateDistributionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		validate := validator.New()
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "inventory_item_id, date ve pozitif quantity zorunlu")
		}

		date, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı geçersiz, 'YYYY-AA-GG' olmalı")
		}

		dist, err := AddDistribution(database.DB, seafarer.ID, body.InventoryItemID, date, body.Quantity)
		var stockErr *ledger.InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			return fiber.NewError(fiber.StatusUnprocessableEntity, stockErr.Error())
		case errors.Is(err, ErrInvalidQuantity):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "Dağıtım kaydedilemedi")
		}

		userID, userName, _, uerr := auth.UserInfo(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				VesselID:    &month.VesselID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "distribution",
				EntityID:    dist.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Dağıtım: %s -> %s x%d", dist.ItemName, seafarer.DisplayID, dist.Quantity),
				Before:      nil,
				After:       dist,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toDistributionResponse(dist, &seafarer))
	}
}

// GET /api/seafarers/:id/distributions
func ListDistributionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ID")
		}

		var seafarer models.Seafarer
		if err := database.DB.First(&seafarer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Seafarer bulunamadı")
		}

		if _, err := checkMonthAccess(c, seafarer.MonthID); err != nil {
			return err
		}

		var list []models.Distribution
		if err := database.DB.
			Where("seafarer_id = ?", seafarer.ID).
			Order("date asc, id asc").
			Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dağıtımlar listelenemedi")
		}

		resp := make([]DistributionResponse, 0, len(list))
		for i := range list {
			resp = append(resp, toDistributionResponse(&list[i], &seafarer))
		}
		return c.JSON(resp)
	}
}

// PUT /api/distributions/:id
func UpdateDistributionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ID")
		}

		var dist models.Distribution
		if err := database.DB.First(&dist, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Dağıtım kaydı bulunamadı")
		}

		var seafarer models.Seafarer
		if err := database.DB.First(&seafarer, "id = ?", dist.SeafarerID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Seafarer yüklenemedi")
		}

		month, err := checkMonthAccess(c, seafarer.MonthID)
		if err != nil {
			return err
		}

		var body UpdateDistributionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		newDate := dist.Date
		if body.Date != nil {
			d, err := time.Parse("2006-01-02", *body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı geçersiz, 'YYYY-AA-GG' olmalı")
			}
			newDate = d
		}
		newQuantity := dist.Quantity
		if body.Quantity != nil {
			newQuantity = *body.Quantity
		}

		before := dist

		updated, err := UpdateDistribution(database.DB, dist.ID, newDate, newQuantity)
		var stockErr *ledger.InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			return fiber.NewError(fiber.StatusUnprocessableEntity, stockErr.Error())
		case errors.Is(err, ErrInvalidQuantity):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "Dağıtım güncellenemedi")
		}

		userID, userName, _, uerr := auth.UserInfo(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				VesselID:    &month.VesselID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "distribution",
				EntityID:    updated.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Dağıtım güncellendi: %s (%s)", updated.ItemName, seafarer.DisplayID),
				Before:      before,
				After:       updated,
			})
		}

		// totalSpent servis içinde güncellendi, güncel halini oku
		database.DB.First(&seafarer, "id = ?", seafarer.ID)
		return c.JSON(toDistributionResponse(updated, &seafarer))
	}
}

// DELETE /api/distributions/:id
func DeleteDistributionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ID")
		}

		var dist models.Distribution
		if err := database.DB.First(&dist, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Dağıtım kaydı bulunamadı")
		}

		var seafarer models.Seafarer
		if err := database.DB.First(&seafarer, "id = ?", dist.SeafarerID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Seafarer yüklenemedi")
		}

		month, err := checkMonthAccess(c, seafarer.MonthID)
		if err != nil {
			return err
		}

		deleted, err := DeleteDistribution(database.DB, dist.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dağıtım silinemedi")
		}

		userID, userName, _, uerr := auth.UserInfo(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				VesselID:    &month.VesselID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "distribution",
				EntityID:    deleted.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Dağıtım silindi: %s x%d (%s)", deleted.ItemName, deleted.Quantity, seafarer.DisplayID),
				Before:      deleted,
				After:       nil,
			})
		}

		return c.JSON(fiber.Map{"deleted": true})
	}
}
