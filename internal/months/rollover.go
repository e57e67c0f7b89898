package months

import (
	"errors"

	"bondstore-backend/internal/ledger"
	"bondstore-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrDuplicateMonth = errors.New("bu ay zaten mevcut")
	ErrMonthNotFound  = errors.New("ay bulunamadı")
)

// CreateMonth: Yeni dönemi açar ve kronolojik olarak bir önceki aydan
// temsilci olmayan seafarer'ları kopyalar (yeni kimlik, totalSpent sıfır,
// dağıtımsız). Temsilciler döneme özeldir, kopyalanmaz. Ay kaydı ve
// kopyalanan seafarer'lar tek transaction içinde yazılır; yarım kalmış
// rollover görünür olamaz.
func CreateMonth(db *gorm.DB, vesselID uint, monthID string) (*models.Month, error) {
	if _, err := ledger.ParseMonthID(monthID); err != nil {
		return nil, err
	}

	var existing models.Month
	err := db.Where("vessel_id = ? AND month_id = ?", vesselID, monthID).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateMonth
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Yeni belirteçten küçük en büyük ay: sabit genişlikli "YYYY-MM"
	// olduğu için string karşılaştırması tarih sırasıyla aynı
	var prev models.Month
	hasPrev := true
	err = db.Where("vessel_id = ? AND month_id < ?", vesselID, monthID).
		Order("month_id DESC").
		First(&prev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hasPrev = false
	} else if err != nil {
		return nil, err
	}

	month := &models.Month{VesselID: vesselID, MonthID: monthID}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(month).Error; err != nil {
			return err
		}
		if !hasPrev {
			return nil
		}

		var seafarers []models.Seafarer
		if err := tx.Where("month_id = ? AND is_representative = ?", prev.ID, false).
			Order("display_id asc").
			Find(&seafarers).Error; err != nil {
			return err
		}

		for _, s := range seafarers {
			clone := models.Seafarer{
				MonthID:          month.ID,
				DisplayID:        s.DisplayID,
				Name:             s.Name,
				Rank:             s.Rank,
				IsRepresentative: false,
				TotalSpent:       decimal.Zero,
			}
			if err := tx.Create(&clone).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return month, nil
}

// DeleteMonth: Ayı, aya ait seafarer'ları ve dağıtımlarını, ayrıca ay
// aralığında teslim alınmış kalemleri (tedarikleriyle birlikte) tek
// transaction içinde siler.
func DeleteMonth(db *gorm.DB, monthRecordID uint) error {
	var month models.Month
	if err := db.First(&month, "id = ?", monthRecordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMonthNotFound
		}
		return err
	}

	start, end, err := ledger.MonthRange(month.MonthID)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var seafarerIDs []uint
		if err := tx.Model(&models.Seafarer{}).
			Where("month_id = ?", month.ID).
			Pluck("id", &seafarerIDs).Error; err != nil {
			return err
		}

		if len(seafarerIDs) > 0 {
			if err := tx.Where("seafarer_id IN ?", seafarerIDs).
				Delete(&models.Distribution{}).Error; err != nil {
				return err
			}
			if err := tx.Where("month_id = ?", month.ID).
				Delete(&models.Seafarer{}).Error; err != nil {
				return err
			}
		}

		// Bu ay içinde teslim alınan kalemler ve onlara bağlı kayıtlar
		var itemIDs []uint
		if err := tx.Model(&models.InventoryItem{}).
			Where("vessel_id = ? AND received_date >= ? AND received_date < ?", month.VesselID, start, end).
			Pluck("id", &itemIDs).Error; err != nil {
			return err
		}

		if len(itemIDs) > 0 {
			if err := tx.Where("inventory_item_id IN ?", itemIDs).
				Delete(&models.SupplyRecord{}).Error; err != nil {
				return err
			}
			if err := tx.Where("inventory_item_id IN ?", itemIDs).
				Delete(&models.ItemBarcode{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", itemIDs).
				Delete(&models.InventoryItem{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&month).Error
	})
}
