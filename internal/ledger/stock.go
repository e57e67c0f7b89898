package ledger

import (
	"time"

	"bondstore-backend/internal/models"

	"gorm.io/gorm"
)

// Stok defteri: Kalemlerin üzerinde sayaç tutulmaz, otorite hareket
// kayıtlarıdır. Eldeki miktar her zaman tedarik ve dağıtım toplamlarından
// türetilir. Eşleme originalItemID üzerinden yapılır ki kalem kaydı
// silinmiş ya da yeniden oluşturulmuş olsa bile hareketler toplanabilsin.

// QuantityOnHand: asOf (dahil) tarihi itibarıyla eldeki net miktar.
// Negatif sonuç kırpılmadan döner; veri tutarsızlığı raporda görünmeli.
func QuantityOnHand(db *gorm.DB, originalItemID string, asOf time.Time) (int, error) {
	var supplied int64
	if err := db.Model(&models.SupplyRecord{}).
		Joins("JOIN inventory_items ON inventory_items.id = supply_records.inventory_item_id").
		Where("inventory_items.original_item_id = ? AND supply_records.date <= ?", originalItemID, asOf).
		Select("COALESCE(SUM(supply_records.quantity), 0)").
		Scan(&supplied).Error; err != nil {
		return 0, err
	}

	var distributed int64
	if err := db.Model(&models.Distribution{}).
		Where("original_item_id = ? AND date <= ?", originalItemID, asOf).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&distributed).Error; err != nil {
		return 0, err
	}

	return int(supplied - distributed), nil
}

// OpeningStock: Ay başındaki stok (ayın ilk gününden bir gün öncesi itibarıyla).
func OpeningStock(db *gorm.DB, originalItemID string, monthID string) (int, error) {
	start, err := ParseMonthID(monthID)
	if err != nil {
		return 0, err
	}
	return QuantityOnHand(db, originalItemID, start.AddDate(0, 0, -1))
}

// ClosingStock: Ay sonundaki stok (ayın son anı itibarıyla).
func ClosingStock(db *gorm.DB, originalItemID string, monthID string) (int, error) {
	end, err := EndOfMonth(monthID)
	if err != nil {
		return 0, err
	}
	return QuantityOnHand(db, originalItemID, end)
}
