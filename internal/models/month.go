package models

import "time"

// Month: Bir geminin bond store dönemi (ör: "2025-06").
// Seafarer kayıtları aya aittir; envanter kalemleri gemi genelinde tutulur
// ve receivedDate üzerinden aya görünür olur.
type Month struct {
	ID       uint `gorm:"primaryKey"`
	VesselID uint `gorm:"not null;uniqueIndex:idx_vessel_month"`
	Vessel   Vessel
	MonthID  string `gorm:"size:7;not null;uniqueIndex:idx_vessel_month"` // "YYYY-MM"

	CreatedAt time.Time
	UpdatedAt time.Time

	Seafarers []Seafarer `gorm:"constraint:OnDelete:CASCADE"`
}
