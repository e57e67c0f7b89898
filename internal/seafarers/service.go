package seafarers

import (
	"errors"
	"fmt"
	"time"

	"bondstore-backend/internal/ledger"
	"bondstore-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrSeafarerNotFound     = errors.New("seafarer bulunamadı")
	ErrDistributionNotFound = errors.New("dağıtım kaydı bulunamadı")
	ErrInvalidQuantity      = errors.New("miktar pozitif olmalı")
)

// DuplicateSeafarerIDError: Aynı ay içinde displayID çakışması.
type DuplicateSeafarerIDError struct {
	DisplayID string
}

func (e *DuplicateSeafarerIDError) Error() string {
	return fmt.Sprintf("bu ay için seafarer ID zaten kayıtlı: %s", e.DisplayID)
}

// CreateSeafarer: Ay içine yeni seafarer kaydı açar; displayID ay içinde
// benzersiz olmalı.
func CreateSeafarer(db *gorm.DB, monthRecordID uint, displayID, name, rank string, isRepresentative bool) (*models.Seafarer, error) {
	var existing models.Seafarer
	err := db.Where("month_id = ? AND display_id = ?", monthRecordID, displayID).First(&existing).Error
	if err == nil {
		return nil, &DuplicateSeafarerIDError{DisplayID: displayID}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	seafarer := &models.Seafarer{
		MonthID:          monthRecordID,
		DisplayID:        displayID,
		Name:             name,
		Rank:             rank,
		IsRepresentative: isRepresentative,
		TotalSpent:       decimal.Zero,
	}
	if err := db.Create(seafarer).Error; err != nil {
		return nil, err
	}
	return seafarer, nil
}

// AddDistribution: Stok kontrolünden geçen dağıtımı yazar ve totalSpent
// önbelleğini artırır. Kalem adı ve birim fiyat dağıtım anında kopyalanır.
// Tamamı tek transaction.
func AddDistribution(db *gorm.DB, seafarerID uint, itemID uint, date time.Time, quantity int) (*models.Distribution, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var seafarer models.Seafarer
	if err := db.First(&seafarer, "id = ?", seafarerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeafarerNotFound
		}
		return nil, err
	}

	var item models.InventoryItem
	if err := db.First(&item, "id = ?", itemID).Error; err != nil {
		return nil, fmt.Errorf("kalem bulunamadı: %w", err)
	}

	available, err := ledger.QuantityOnHand(db, item.OriginalItemID, date)
	if err != nil {
		return nil, err
	}
	if quantity > available {
		return nil, &ledger.InsufficientStockError{
			ItemName:  item.Name,
			Requested: quantity,
			Available: available,
		}
	}

	itemIDCopy := item.ID
	dist := &models.Distribution{
		SeafarerID:      seafarer.ID,
		InventoryItemID: &itemIDCopy,
		OriginalItemID:  item.OriginalItemID,
		Date:            date,
		ItemName:        item.Name,
		Quantity:        quantity,
		UnitPrice:       item.PricePerUnit,
	}

	line := seafarer.UnitPriceWithTax(item.PricePerUnit).Mul(decimal.NewFromInt(int64(quantity)))
	newTotal := seafarer.TotalSpent.Add(line)

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(dist).Error; err != nil {
			return err
		}
		return tx.Model(&models.Seafarer{}).Where("id = ?", seafarer.ID).
			Update("total_spent", newTotal).Error
	})
	if err != nil {
		return nil, err
	}
	return dist, nil
}

// UpdateDistribution: Tarih ve miktar düzenlenebilir; birim fiyat dağıtım
// anındaki kopyadır, yeniden hesaplanmaz. Miktar, bu dağıtımın kendi payı
// hariç tutulduğunda eldeki miktarı aşamaz.
func UpdateDistribution(db *gorm.DB, distID uint, newDate time.Time, newQuantity int) (*models.Distribution, error) {
	if newQuantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var dist models.Distribution
	if err := db.First(&dist, "id = ?", distID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDistributionNotFound
		}
		return nil, err
	}

	var seafarer models.Seafarer
	if err := db.First(&seafarer, "id = ?", dist.SeafarerID).Error; err != nil {
		return nil, err
	}

	onHand, err := ledger.QuantityOnHand(db, dist.OriginalItemID, newDate)
	if err != nil {
		return nil, err
	}
	// Bu dağıtımın mevcut payı toplamda zaten düşülmüş durumda
	available := onHand
	if !dist.Date.After(newDate) {
		available += dist.Quantity
	}
	if newQuantity > available {
		return nil, &ledger.InsufficientStockError{
			ItemName:  dist.ItemName,
			Requested: newQuantity,
			Available: available,
		}
	}

	oldLine := seafarer.UnitPriceWithTax(dist.UnitPrice).Mul(decimal.NewFromInt(int64(dist.Quantity)))
	newLine := seafarer.UnitPriceWithTax(dist.UnitPrice).Mul(decimal.NewFromInt(int64(newQuantity)))
	newTotal := seafarer.TotalSpent.Sub(oldLine).Add(newLine)

	dist.Date = newDate
	dist.Quantity = newQuantity

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&dist).Error; err != nil {
			return err
		}
		return tx.Model(&models.Seafarer{}).Where("id = ?", seafarer.ID).
			Update("total_spent", newTotal).Error
	})
	if err != nil {
		return nil, err
	}
	return &dist, nil
}

// DeleteDistribution: Kaydı siler ve totalSpent önbelleğinden düşer.
func DeleteDistribution(db *gorm.DB, distID uint) (*models.Distribution, error) {
	var dist models.Distribution
	if err := db.First(&dist, "id = ?", distID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDistributionNotFound
		}
		return nil, err
	}

	var seafarer models.Seafarer
	if err := db.First(&seafarer, "id = ?", dist.SeafarerID).Error; err != nil {
		return nil, err
	}

	line := seafarer.UnitPriceWithTax(dist.UnitPrice).Mul(decimal.NewFromInt(int64(dist.Quantity)))
	newTotal := seafarer.TotalSpent.Sub(line)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&dist).Error; err != nil {
			return err
		}
		return tx.Model(&models.Seafarer{}).Where("id = ?", seafarer.ID).
			Update("total_spent", newTotal).Error
	})
	if err != nil {
		return nil, err
	}
	return &dist, nil
}

// DeleteSeafarer: Seafarer'ı dağıtımlarıyla birlikte siler.
func DeleteSeafarer(db *gorm.DB, seafarerID uint) error {
	var seafarer models.Seafarer
	if err := db.First(&seafarer, "id = ?", seafarerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSeafarerNotFound
		}
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("seafarer_id = ?", seafarer.ID).
			Delete(&models.Distribution{}).Error; err != nil {
			return err
		}
		return tx.Delete(&seafarer).Error
	})
}
