package models

import "time"

type Vessel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;unique"`
	IMONumber string `gorm:"size:20;uniqueIndex"` // IMO numarası
	Note      string `gorm:"size:255"`            // Opsiyonel not
	CreatedAt time.Time
	UpdatedAt time.Time

	Users []User
}
