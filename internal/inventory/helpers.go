package inventory

import (
	"fmt"

	"bondstore-backend/internal/auth"
	"bondstore-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

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
