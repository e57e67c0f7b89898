package inventory

import (
	"errors"
	"time"

	"bondstore-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrItemNotFound = errors.New("kalem bulunamadı")

// CreateItem: Yeni katalog kalemi açar. originalItemID burada bir kez
// atanır; kalem ömrü boyunca ve (eski model uyumluluğunda) kopyalar
// arasında sabit kalır. Barkodlar gemide benzersiz olmalı.
func CreateItem(db *gorm.DB, vesselID uint, name string, price decimal.Decimal, receivedDate time.Time, barcodes []string) (*models.InventoryItem, error) {
	for _, code := range barcodes {
		var existing models.ItemBarcode
		err := db.Where("vessel_id = ? AND code = ?", vesselID, code).First(&existing).Error
		if err == nil {
			return nil, &DuplicateBarcodeError{Code: code}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	item := &models.InventoryItem{
		VesselID:       vesselID,
		Name:           name,
		PricePerUnit:   price,
		ReceivedDate:   receivedDate,
		OriginalItemID: uuid.NewString(),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		for _, code := range barcodes {
			barcode := models.ItemBarcode{
				InventoryItemID: item.ID,
				VesselID:        vesselID,
				Code:            code,
			}
			if err := tx.Create(&barcode).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// AddBarcode: Kaleme yeni barkod ekler (tarayıcı akışı).
func AddBarcode(db *gorm.DB, item *models.InventoryItem, code string) error {
	var existing models.ItemBarcode
	err := db.Where("vessel_id = ? AND code = ?", item.VesselID, code).First(&existing).Error
	if err == nil {
		return &DuplicateBarcodeError{Code: code}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	barcode := models.ItemBarcode{
		InventoryItemID: item.ID,
		VesselID:        item.VesselID,
		Code:            code,
	}
	return db.Create(&barcode).Error
}

// DeleteItem: Kalemi tedarikleri ve barkodlarıyla siler. Dağıtım kayıtları
// silinmez: kalem adı/fiyatı dağıtımda kopya olarak durur, kalem bağlantısı
// boşa çekilir.
func DeleteItem(db *gorm.DB, itemID uint) error {
	var item models.InventoryItem
	if err := db.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("inventory_item_id = ?", item.ID).
			Delete(&models.SupplyRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("inventory_item_id = ?", item.ID).
			Delete(&models.ItemBarcode{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Distribution{}).
			Where("inventory_item_id = ?", item.ID).
			Update("inventory_item_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
}
