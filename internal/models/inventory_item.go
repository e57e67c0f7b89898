package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem: Gemi genelinde düz katalog kaydı. Aylara kopyalanmaz;
// bir ay için görünürlük receivedDate <= ay sonu kuralıyla belirlenir.
type InventoryItem struct {
	ID       uint `gorm:"primaryKey"`
	VesselID uint `gorm:"index;not null"`
	Vessel   Vessel

	Name         string          `gorm:"size:100;not null"`
	PricePerUnit decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	ReceivedDate time.Time       `gorm:"index;not null"`

	// İlk oluşturulmada atanır ve bir daha değişmez. Defter sorguları
	// kalemleri bu kimlik üzerinden eşler (kayıt ID'si değil).
	OriginalItemID string `gorm:"size:36;index;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Barcodes []ItemBarcode  `gorm:"constraint:OnDelete:CASCADE"`
	Supplies []SupplyRecord `gorm:"constraint:OnDelete:CASCADE"`
}

type ItemBarcode struct {
	ID              uint `gorm:"primaryKey"`
	InventoryItemID uint `gorm:"index;not null"`
	VesselID        uint `gorm:"not null;uniqueIndex:idx_vessel_barcode"`
	Code            string `gorm:"size:64;not null;uniqueIndex:idx_vessel_barcode"`
	CreatedAt       time.Time
}
