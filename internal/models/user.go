package models

import "time"

type UserRole string

const (
	RoleFleetAdmin  UserRole = "fleet_admin"
	RoleStorekeeper UserRole = "storekeeper"
)

type User struct {
	ID           uint `gorm:"primaryKey"`
	VesselID     *uint
	Vessel       *Vessel
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
