package seafarers

import (
	"errors"
	"fmt"

	"bondstore-backend/internal/audit"
	"bondstore-backend/internal/auth"
	"bondstore-backend/internal/database"
	"bondstore-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateSeafarerRequest struct {
	DisplayID        string `json:"display_id" validate:"required"`
	Name             string `json:"name" validate:"required"`
	Rank             string `json:"rank"`
	IsRepresentative bool   `json:"is_representative"`
}

type UpdateSeafarerRequest struct {
	DisplayID        *string `json:"display_id"`
	Name             *string `json:"name"`
	Rank             *string `json:"rank"`
	IsRepresentative *bool   `json:"is_representative"`
}

type SeafarerResponse struct {
	ID               uint   `json:"id"`
	MonthID          uint   `json:"month_record_id"`
	DisplayID        string `json:"display_id"`
	Name             string `json:"name"`
	Rank             string `json:"rank"`
	IsRepresentative bool   `json:"is_representative"`
	TotalSpent       string `json:"total_spent"`
}

func toSeafarerResponse(s *models.Seafarer) SeafarerResponse {
	return SeafarerResponse{
		ID:               s.ID,
		MonthID:          s.MonthID,
		DisplayID:        s.DisplayID,
		Name:             s.Name,
		Rank:             s.Rank,
		IsRepresentative: s.IsRepresentative,
		TotalSpent:       s.TotalSpent.StringFixed(2),
	}
}

// checkMonthAccess: Ay kaydını yükler, storekeeper ise kendi gemisiyle sınırlar.
func checkMonthAccess(c *fiber.Ctx, monthRecordID uint) (*models.Month, error) {
	var month models.Month
	if err := database.DB.First(&month, "id = ?", monthRecordID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Ay bulunamadı")
	}

	roleVal := c.Locals(auth.CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return nil, fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
	}
	if role == models.RoleStorekeeper {
		vVal := c.Locals(auth.CtxVesselIDKey)
		vPtr, ok := vVal.(*uint)
		if !ok || vPtr == nil || *vPtr != month.VesselID {
			return nil, fiber.NewError(fiber.StatusForbidden, "Bu aya erişim yetkiniz yok")
		}
	}
	return &month, nil
}

// POST /api/months/:id/seafarers
func CreateSeafarerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		monthID, err := c.ParamsInt("id")
		if err != nil || monthID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ay ID")
		}

		month, err := checkMonthAccess(c, uint(monthID))
		if err != nil {
			return err
		}

		var body CreateSeafarerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		validate := validator.New()
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "display_id ve name zorunlu")
		}

		seafarer, err := CreateSeafarer(database.DB, month.ID, body.DisplayID, body.Name, body.Rank, body.IsRepresentative)
		var dupErr *DuplicateSeafarerIDError
		switch {
		case errors.As(err, &dupErr):
			return fiber.NewError(fiber.StatusConflict, dupErr.Error())
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "Seafarer oluşturulamadı")
		}

		userID, userName, _, uerr := auth.UserInfo(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				VesselID:    &month.VesselID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "seafarer",
				EntityID:    seafarer.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Seafarer eklendi: %s (%s)", seafarer.Name, seafarer.DisplayID),
				Before:      nil,
				After:       seafarer,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toSeafarerResponse(seafarer))
	}
}

// GET /api/months/:id/seafarers
func ListSeafarersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		monthID, err := c.ParamsInt("id")
		if err != nil || monthID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ay ID")
		}

		month, err := checkMonthAccess(c, uint(monthID))
		if err != nil {
			return err
		}

		var list []models.Seafarer
		if err := database.DB.
			Where("month_id = ?", month.ID).
			Order("display_id asc").
			Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Seafarer listesi alınamadı")
		}

		resp := make([]SeafarerResponse, 0, len(list))
		for i := range list {
			resp = append(resp, toSeafarerResponse(&list[i]))
		}
		return c.JSON(resp)
	}
}

// PUT /api/seafarers/:id
// Temsilci durumu değişirse totalSpent, vergi oranı farkı için yeniden hesaplanır.
func UpdateSeafarerHandler() fiber.Handler {
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

		var body UpdateSeafarerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		before := seafarer

		if body.DisplayID != nil && *body.DisplayID != seafarer.DisplayID {
			var existing models.Seafarer
			err := database.DB.Where("month_id = ? AND display_id = ? AND id != ?",
				seafarer.MonthID, *body.DisplayID, seafarer.ID).First(&existing).Error
			if err == nil {
				return fiber.NewError(fiber.StatusConflict, "Bu ay için seafarer ID zaten kayıtlı")
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusInternalServerError, "Seafarer güncellenemedi")
			}
			seafarer.DisplayID = *body.DisplayID
		}
		if body.Name != nil {
			seafarer.Name = *body.Name
		}
		if body.Rank != nil {
			seafarer.Rank = *body.Rank
		}

		repChanged := body.IsRepresentative != nil && *body.IsRepresentative != seafarer.IsRepresentative
		if repChanged {
			seafarer.IsRepresentative = *body.IsRepresentative
		}

		if err := database.DB.Save(&seafarer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Seafarer güncellenemedi")
		}

		if repChanged {
			total, err := models.RecalculateTotalSpent(database.DB, seafarer.ID)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Toplam yeniden hesaplanamadı")
			}
			seafarer.TotalSpent = total
		}

		userID, userName, _, uerr := auth.UserInfo(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				VesselID:    &month.VesselID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "seafarer",
				EntityID:    seafarer.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Seafarer güncellendi: %s (%s)", seafarer.Name, seafarer.DisplayID),
				Before:      before,
				After:       seafarer,
			})
		}

		return c.JSON(toSeafarerResponse(&seafarer))
	}
}

// DELETE /api/seafarers/:id
func DeleteSeafarerHandler() fiber.Handler {
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

		if err := DeleteSeafarer(database.DB, seafarer.ID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Seafarer silinemedi")
		}

		userID, userName, _, uerr := auth.UserInfo(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				VesselID:    &month.VesselID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "seafarer",
				EntityID:    seafarer.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Seafarer silindi: %s (%s)", seafarer.Name, seafarer.DisplayID),
				Before:      seafarer,
				After:       nil,
			})
		}

		return c.JSON(fiber.Map{"deleted": true})
	}
}

// POST /api/seafarers/:id/recalculate
// totalSpent önbelleğini dağıtım kayıtlarından yeniden türetir.
func RecalculateHandler() fiber.Handler {
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

		total, err := models.RecalculateTotalSpent(database.DB, seafarer.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Toplam yeniden hesaplanamadı")
		}

		return c.JSON(fiber.Map{
			"id":          seafarer.ID,
			"total_spent": total.StringFixed(2),
		})
	}
}
