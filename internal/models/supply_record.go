package models

import "time"

// SupplyRecord: Stok giriş hareketi. Oluşturulduktan sonra değiştirilmez;
// yanlış giriş silinip yeniden eklenir.
type SupplyRecord struct {
	ID              uint `gorm:"primaryKey"`
	InventoryItemID uint `gorm:"index;not null"`
	InventoryItem   InventoryItem

	Date     time.Time `gorm:"index;not null"`
	Quantity int       `gorm:"not null"`

	CreatedAt time.Time
}
