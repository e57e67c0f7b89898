package admin

import (
	"strings"

	"bondstore-backend/internal/database"
	"bondstore-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type VesselResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	IMONumber string `json:"imo_number"`
	Note      string `json:"note"`
	CreatedAt string `json:"created_at"`
}

type CreateVesselRequest struct {
	Name      string  `json:"name"`
	IMONumber string  `json:"imo_number"`
	Note      *string `json:"note"` // Opsiyonel
}

type UpdateVesselRequest struct {
	Name      *string `json:"name"`
	IMONumber *string `json:"imo_number"`
	Note      *string `json:"note"`
}

type CreateStorekeeperRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type StorekeeperResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	VesselID  *uint  `json:"vessel_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ----------------------------------------
// GEMİ CRUD
// ----------------------------------------

func CreateVesselHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateVesselRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Gemi adı boş olamaz")
		}

		vessel := models.Vessel{
			Name:      body.Name,
			IMONumber: strings.TrimSpace(body.IMONumber),
		}
		if body.Note != nil {
			vessel.Note = strings.TrimSpace(*body.Note)
		}

		if err := database.DB.Create(&vessel).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gemi oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(VesselResponse{
			ID:        vessel.ID,
			Name:      vessel.Name,
			IMONumber: vessel.IMONumber,
			Note:      vessel.Note,
			CreatedAt: vessel.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

func ListVesselsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {

		var vessels []models.Vessel
		if err := database.DB.Order("name asc").Find(&vessels).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gemiler listelenemedi")
		}

		res := make([]VesselResponse, 0, len(vessels))
		for _, v := range vessels {
			res = append(res, VesselResponse{
				ID:        v.ID,
				Name:      v.Name,
				IMONumber: v.IMONumber,
				Note:      v.Note,
				CreatedAt: v.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(res)
	}
}

func GetVesselHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var vessel models.Vessel
		if err := database.DB.First(&vessel, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Gemi bulunamadı")
		}

		return c.JSON(VesselResponse{
			ID:        vessel.ID,
			Name:      vessel.Name,
			IMONumber: vessel.IMONumber,
			Note:      vessel.Note,
			CreatedAt: vessel.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

func UpdateVesselHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var vessel models.Vessel
		if err := database.DB.First(&vessel, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Gemi bulunamadı")
		}

		var body UpdateVesselRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Gemi adı boş olamaz")
			}
			vessel.Name = name
		}

		if body.IMONumber != nil {
			vessel.IMONumber = strings.TrimSpace(*body.IMONumber)
		}

		if body.Note != nil {
			vessel.Note = strings.TrimSpace(*body.Note)
		}

		if err := database.DB.Save(&vessel).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gemi güncellenemedi")
		}

		return c.JSON(VesselResponse{
			ID:        vessel.ID,
			Name:      vessel.Name,
			IMONumber: vessel.IMONumber,
			Note:      vessel.Note,
			CreatedAt: vessel.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

func DeleteVesselHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {

		id := c.Params("id")

		// Ay kaydı olan gemi silinemez, önce aylar temizlenmeli
		var monthCount int64
		database.DB.Model(&models.Month{}).Where("vessel_id = ?", id).Count(&monthCount)
		if monthCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Ay kayıtları olan gemi silinemez")
		}

		if err := database.DB.Delete(&models.Vessel{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gemi silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ----------------------------------------
// AMBAR SORUMLUSU OLUŞTURMA
// ----------------------------------------

func CreateStorekeeperHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {

		vesselID := c.Params("id")

		// Gemi kontrolü
		var vessel models.Vessel
		if err := database.DB.First(&vessel, "id = ?", vesselID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Gemi bulunamadı")
		}

		var body CreateStorekeeperRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Email = strings.ToLower(strings.TrimSpace(body.Email))
		body.Name = strings.TrimSpace(body.Name)

		if body.Name == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İsim, email ve şifre zorunlu")
		}

		// Email kontrolü
		var exist models.User
		if err := database.DB.Where("email = ?", body.Email).First(&exist).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bu email zaten kayıtlı")
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)

		user := models.User{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         models.RoleStorekeeper,
			VesselID:     &vessel.ID,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ambar sorumlusu oluşturulamadı")
		}

		// NOT: Şifre sadece oluşturma sırasında bir kez döndürülür
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":        user.ID,
			"name":      user.Name,
			"email":     user.Email,
			"role":      user.Role,
			"vessel_id": user.VesselID,
			"password":  body.Password, // Sadece oluşturma sırasında (bir kez)
		})
	}
}

// ----------------------------------------
// GEMİ SORUMLULARINI LİSTELE
// GET /api/admin/vessels/:id/storekeepers
// ----------------------------------------

func ListStorekeepersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vesselID := c.Params("id")

		var users []models.User
		if err := database.DB.
			Where("vessel_id = ? AND role = ?", vesselID, models.RoleStorekeeper).
			Order("created_at DESC").
			Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sorumlular listelenemedi")
		}

		res := make([]StorekeeperResponse, 0, len(users))
		for _, u := range users {
			res = append(res, StorekeeperResponse{
				ID:        u.ID,
				Name:      u.Name,
				Email:     u.Email,
				Role:      string(u.Role),
				VesselID:  u.VesselID,
				CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
				UpdatedAt: u.UpdatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(res)
	}
}
