package months

import (
	"errors"
	"fmt"

	"bondstore-backend/internal/audit"
	"bondstore-backend/internal/auth"
	"bondstore-backend/internal/database"
	"bondstore-backend/internal/ledger"
	"bondstore-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type CreateMonthRequest struct {
	MonthID  string `json:"month_id" validate:"required,len=7"`
	VesselID *uint  `json:"vessel_id"` // fleet_admin için
}

type MonthResponse struct {
	ID            uint   `json:"id"`
	VesselID      uint   `json:"vessel_id"`
	MonthID       string `json:"month_id"`
	SeafarerCount int    `json:"seafarer_count"`
	CreatedAt     string `json:"created_at"`
}

// resolveVesselIDFromBodyOrRole: vessel_id'yi body'den veya role'den çöz
func resolveVesselIDFromBodyOrRole(c *fiber.Ctx, bodyVesselID *uint) (uint, error) {
	roleVal := c.Locals(auth.CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
	}

	if role == models.RoleStorekeeper {
		vVal := c.Locals(auth.CtxVesselIDKey)
		vPtr, ok := vVal.(*uint)
		if !ok || vPtr == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, "Gemi bilgisi bulunamadı")
		}
		return *vPtr, nil
	}

	// fleet_admin
	if bodyVesselID == nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "vessel_id zorunlu")
	}
	return *bodyVesselID, nil
}

func resolveVesselIDFromQueryOrRole(c *fiber.Ctx) (uint, error) {
	roleVal := c.Locals(auth.CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
	}

	if role == models.RoleStorekeeper {
		vVal := c.Locals(auth.CtxVesselIDKey)
		vPtr, ok := vVal.(*uint)
		if !ok || vPtr == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, "Gemi bilgisi bulunamadı")
		}
		return *vPtr, nil
	}

	// fleet_admin
	vidStr := c.Query("vessel_id")
	if vidStr == "" {
		return 0, fiber.NewError(fiber.StatusBadRequest, "vessel_id zorunlu")
	}
	var vid uint
	if _, err := fmt.Sscan(vidStr, &vid); err != nil || vid == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "vessel_id geçersiz")
	}
	return vid, nil
}

// POST /api/months
// Yeni ay aç; önceki aydan temsilci olmayan seafarer'ları kopyala
func CreateMonthHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMonthRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		validate := validator.New()
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "month_id zorunlu ve 'YYYY-MM' formatında olmalı")
		}

		vesselID, err := resolveVesselIDFromBodyOrRole(c, body.VesselID)
		if err != nil {
			return err
		}

		month, err := CreateMonth(database.DB, vesselID, body.MonthID)
		switch {
		case errors.Is(err, ledger.ErrInvalidMonthFormat):
			return fiber.NewError(fiber.StatusBadRequest, "Ay formatı geçersiz, 'YYYY-MM' olmalı")
		case errors.Is(err, ErrDuplicateMonth):
			return fiber.NewError(fiber.StatusConflict, "Bu gemi için ay zaten oluşturulmuş")
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "Ay oluşturulamadı")
		}

		var seafarerCount int64
		database.DB.Model(&models.Seafarer{}).Where("month_id = ?", month.ID).Count(&seafarerCount)

		userID, userName, _, uerr := auth.UserInfo(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				VesselID:    &vesselID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "month",
				EntityID:    month.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Yeni ay açıldı: %s (%d seafarer kopyalandı)", month.MonthID, seafarerCount),
				Before:      nil,
				After:       month,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(MonthResponse{
			ID:            month.ID,
			VesselID:      month.VesselID,
			MonthID:       month.MonthID,
			SeafarerCount: int(seafarerCount),
			CreatedAt:     month.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// GET /api/months
func ListMonthsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vesselID, err := resolveVesselIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		var monthList []models.Month
		if err := database.DB.
			Where("vessel_id = ?", vesselID).
			Order("month_id asc").
			Find(&monthList).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Aylar listelenemedi")
		}

		resp := make([]MonthResponse, 0, len(monthList))
		for _, m := range monthList {
			var count int64
			database.DB.Model(&models.Seafarer{}).Where("month_id = ?", m.ID).Count(&count)
			resp = append(resp, MonthResponse{
				ID:            m.ID,
				VesselID:      m.VesselID,
				MonthID:       m.MonthID,
				SeafarerCount: int(count),
				CreatedAt:     m.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(resp)
	}
}

// GET /api/months/:id
func GetMonthHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var month models.Month
		if err := database.DB.First(&month, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ay bulunamadı")
		}

		vesselID, err := resolveVesselIDFromQueryOrRole(c)
		if err == nil && vesselID != month.VesselID {
			return fiber.NewError(fiber.StatusForbidden, "Bu aya erişim yetkiniz yok")
		}

		var count int64
		database.DB.Model(&models.Seafarer{}).Where("month_id = ?", month.ID).Count(&count)

		return c.JSON(MonthResponse{
			ID:            month.ID,
			VesselID:      month.VesselID,
			MonthID:       month.MonthID,
			SeafarerCount: int(count),
			CreatedAt:     month.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// DELETE /api/months/:id
// Ayı, seafarer'larını ve ay içinde teslim alınan kalemleri siler
func DeleteMonthHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var month models.Month
		if err := database.DB.First(&month, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ay bulunamadı")
		}

		vesselID, err := resolveVesselIDFromQueryOrRole(c)
		if err == nil && vesselID != month.VesselID {
			return fiber.NewError(fiber.StatusForbidden, "Bu aya erişim yetkiniz yok")
		}

		if err := DeleteMonth(database.DB, month.ID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ay silinemedi")
		}

		userID, userName, _, uerr := auth.UserInfo(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				VesselID:    &month.VesselID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "month",
				EntityID:    month.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Ay silindi: %s", month.MonthID),
				Before:      month,
				After:       nil,
			})
		}

		return c.JSON(fiber.Map{"deleted": true})
	}
}
