package database

import (
	"bondstore-backend/internal/config"
	"bondstore-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		config.Logger().Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	if err := Migrate(DB); err != nil {
		config.Logger().Fatalf("AutoMigrate hatası: %v", err)
	}

	config.Logger().Info("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}

// Migrate: Tüm modellerin şemasını kurar. Testler aynı listeyi
// in-memory SQLite üzerinde kullanır.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Vessel{},
		&models.User{},
		&models.Month{},
		&models.Seafarer{},
		&models.InventoryItem{},
		&models.ItemBarcode{},
		&models.SupplyRecord{},
		&models.Distribution{},
		&models.AuditLog{},
	)
}
