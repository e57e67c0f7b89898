package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Distribution: Bir seafarer'a yapılan mal çıkışı. ItemName ve UnitPrice
// dağıtım anında kopyalanır; kalem sonradan yeniden adlandırılsa veya
// silinse bile geçmiş raporlar değişmez.
type Distribution struct {
	ID         uint `gorm:"primaryKey"`
	SeafarerID uint `gorm:"index;not null"`
	Seafarer   Seafarer

	InventoryItemID *uint `gorm:"index"`
	InventoryItem   *InventoryItem

	// Kalemin kalıcı kimliği (kayıt silinse de defter eşlemesi için kalır)
	OriginalItemID string `gorm:"size:36;index;not null"`

	Date      time.Time       `gorm:"index;not null"`
	ItemName  string          `gorm:"size:100;not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(20,4);not null"` // vergisiz birim fiyat

	CreatedAt time.Time
	UpdatedAt time.Time
}
