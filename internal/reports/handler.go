package reports

import (
	"errors"
	"fmt"

	"bondstore-backend/internal/auth"
	"bondstore-backend/internal/database"
	"bondstore-backend/internal/ledger"
	"bondstore-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

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

// GET /api/reports/stock?month=YYYY-MM&format=json|csv|xlsx
func StockReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vesselID, err := resolveVesselIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		monthID := c.Query("month")
		if monthID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "month zorunlu")
		}

		report, err := BuildStockReport(database.DB, vesselID, monthID)
		switch {
		case errors.Is(err, ledger.ErrInvalidMonthFormat):
			return fiber.NewError(fiber.StatusBadRequest, "Ay formatı geçersiz, 'YYYY-MM' olmalı")
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "Stok raporu oluşturulamadı")
		}

		switch c.Query("format", "json") {
		case "csv":
			c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
			c.Set(fiber.HeaderContentDisposition,
				fmt.Sprintf(`attachment; filename="stock-report-%s.csv"`, report.MonthID))
			if err := WriteStockReportCSV(c.Response().BodyWriter(), report); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "CSV yazılamadı")
			}
			return nil
		case "xlsx":
			c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			c.Set(fiber.HeaderContentDisposition,
				fmt.Sprintf(`attachment; filename="stock-report-%s.xlsx"`, report.MonthID))
			if err := WriteStockReportXLSX(c.Response().BodyWriter(), report); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Excel yazılamadı")
			}
			return nil
		default:
			return c.JSON(report)
		}
	}
}

// GET /api/reports/crew?month=YYYY-MM&format=json|csv|xlsx
func CrewReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vesselID, err := resolveVesselIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		monthID := c.Query("month")
		if monthID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "month zorunlu")
		}

		report, err := BuildCrewReport(database.DB, vesselID, monthID)
		switch {
		case errors.Is(err, ErrMonthNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Ay bulunamadı")
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "Mürettebat raporu oluşturulamadı")
		}

		switch c.Query("format", "json") {
		case "csv":
			c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
			c.Set(fiber.HeaderContentDisposition,
				fmt.Sprintf(`attachment; filename="crew-report-%s.csv"`, report.MonthID))
			if err := WriteCrewReportCSV(c.Response().BodyWriter(), report); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "CSV yazılamadı")
			}
			return nil
		case "xlsx":
			c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			c.Set(fiber.HeaderContentDisposition,
				fmt.Sprintf(`attachment; filename="crew-report-%s.xlsx"`, report.MonthID))
			if err := WriteCrewReportXLSX(c.Response().BodyWriter(), report); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Excel yazılamadı")
			}
			return nil
		default:
			return c.JSON(report)
		}
	}
}
