package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Temsilciler (ör: acente) vergiden muaf, mürettebat %10 zamlı fiyat öder.
var CrewTaxRate = decimal.NewFromFloat(1.10)

type Seafarer struct {
	ID      uint `gorm:"primaryKey"`
	MonthID uint `gorm:"not null;uniqueIndex:idx_month_display"`
	Month   Month

	DisplayID        string `gorm:"size:50;not null;uniqueIndex:idx_month_display"`
	Name             string `gorm:"size:100;not null"`
	Rank             string `gorm:"size:50"`
	IsRepresentative bool   `gorm:"not null;default:false"`

	// Dağıtımlardan türetilen önbellek; kaynak her zaman dağıtım kayıtlarıdır.
	// RecalculateTotalSpent ile sıfırdan yeniden hesaplanabilir.
	TotalSpent decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Distributions []Distribution `gorm:"constraint:OnDelete:CASCADE"`
}

// UnitPriceWithTax: Dağıtım anındaki birim fiyata vergi uygular.
// Temsilciler muaf.
func (s *Seafarer) UnitPriceWithTax(unitPrice decimal.Decimal) decimal.Decimal {
	if s.IsRepresentative {
		return unitPrice
	}
	return unitPrice.Mul(CrewTaxRate)
}

// RecalculateTotalSpent: totalSpent önbelleğini dağıtım kayıtlarından
// sıfırdan kurar ve kaydeder. Artımlı güncellemeyle her zaman aynı sonucu
// vermelidir; onarım ve test için kullanılır.
func RecalculateTotalSpent(db *gorm.DB, seafarerID uint) (decimal.Decimal, error) {
	var seafarer Seafarer
	if err := db.First(&seafarer, "id = ?", seafarerID).Error; err != nil {
		return decimal.Zero, err
	}

	var distributions []Distribution
	if err := db.Where("seafarer_id = ?", seafarerID).Find(&distributions).Error; err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, d := range distributions {
		line := seafarer.UnitPriceWithTax(d.UnitPrice).Mul(decimal.NewFromInt(int64(d.Quantity)))
		total = total.Add(line)
	}

	if err := db.Model(&Seafarer{}).Where("id = ?", seafarerID).
		Update("total_spent", total).Error; err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
