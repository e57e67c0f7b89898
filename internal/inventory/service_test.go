package inventory

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"bondstore-backend/internal/database"
	"bondstore-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("sqlite açılamadı: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newVessel(t *testing.T, db *gorm.DB, name string) *models.Vessel {
	t.Helper()
	v := &models.Vessel{Name: name, IMONumber: fmt.Sprintf("IMO-%s", name)}
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("gemi: %v", err)
	}
	return v
}

func TestCreateItemAssignsOriginalItemID(t *testing.T) {
	db := newTestDB(t)
	v := newVessel(t, db, "MV Katalog")

	item, err := CreateItem(db, v.ID, "Kola", decimal.RequireFromString("1.50"),
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), []string{"869000001"})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	if item.OriginalItemID == "" {
		t.Error("OriginalItemID atanmamış")
	}

	other, err := CreateItem(db, v.ID, "Kahve", decimal.RequireFromString("3.00"),
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), nil)
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if other.OriginalItemID == item.OriginalItemID {
		t.Error("iki kalem aynı OriginalItemID almış")
	}

	var barcodeCount int64
	db.Model(&models.ItemBarcode{}).Where("inventory_item_id = ?", item.ID).Count(&barcodeCount)
	if barcodeCount != 1 {
		t.Errorf("barkod sayısı = %d, want 1", barcodeCount)
	}
}

func TestCreateItemDuplicateBarcode(t *testing.T) {
	db := newTestDB(t)
	v := newVessel(t, db, "MV Barkod")

	if _, err := CreateItem(db, v.ID, "Kola", decimal.RequireFromString("1.50"),
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), []string{"869000001"}); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	_, err := CreateItem(db, v.ID, "Soda", decimal.RequireFromString("1.00"),
		time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), []string{"869000001"})
	var dup *DuplicateBarcodeError
	if !errors.As(err, &dup) {
		t.Fatalf("err = %v, want DuplicateBarcodeError", err)
	}
	if dup.Code != "869000001" {
		t.Errorf("Code = %q", dup.Code)
	}

	// Başka gemide aynı barkod serbest
	v2 := newVessel(t, db, "MV Diger")
	if _, err := CreateItem(db, v2.ID, "Kola", decimal.RequireFromString("1.50"),
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), []string{"869000001"}); err != nil {
		t.Errorf("farklı gemide barkod reddedildi: %v", err)
	}
}

func TestDeleteItemKeepsDistributionSnapshots(t *testing.T) {
	db := newTestDB(t)
	v := newVessel(t, db, "MV Anlik")

	item, err := CreateItem(db, v.ID, "Sigara", decimal.RequireFromString("5.00"),
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), []string{"869000777"})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	db.Create(&models.SupplyRecord{InventoryItemID: item.ID, Date: item.ReceivedDate, Quantity: 10})

	month := &models.Month{VesselID: v.ID, MonthID: "2025-06"}
	if err := db.Create(month).Error; err != nil {
		t.Fatalf("ay: %v", err)
	}
	s := &models.Seafarer{MonthID: month.ID, DisplayID: "SF-001", Name: "Kaptan", TotalSpent: decimal.Zero}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("seafarer: %v", err)
	}
	itemID := item.ID
	dist := &models.Distribution{
		SeafarerID: s.ID, InventoryItemID: &itemID, OriginalItemID: item.OriginalItemID,
		Date: item.ReceivedDate, ItemName: item.Name, Quantity: 2, UnitPrice: item.PricePerUnit,
	}
	if err := db.Create(dist).Error; err != nil {
		t.Fatalf("dağıtım: %v", err)
	}

	if err := DeleteItem(db, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	var supplyCount, barcodeCount int64
	db.Model(&models.SupplyRecord{}).Where("inventory_item_id = ?", item.ID).Count(&supplyCount)
	db.Model(&models.ItemBarcode{}).Where("inventory_item_id = ?", item.ID).Count(&barcodeCount)
	if supplyCount != 0 || barcodeCount != 0 {
		t.Errorf("tedarik=%d barkod=%d, ikisi de silinmeliydi", supplyCount, barcodeCount)
	}

	// Dağıtım anlık görüntüsü korunur, kalem referansı null olur
	var kept models.Distribution
	if err := db.First(&kept, "id = ?", dist.ID).Error; err != nil {
		t.Fatalf("dağıtım silinmiş: %v", err)
	}
	if kept.InventoryItemID != nil {
		t.Error("InventoryItemID null olmalıydı")
	}
	if kept.ItemName != "Sigara" || !kept.UnitPrice.Equal(decimal.RequireFromString("5.00")) {
		t.Errorf("anlık görüntü bozulmuş: %q %s", kept.ItemName, kept.UnitPrice)
	}
	if kept.OriginalItemID != item.OriginalItemID {
		t.Error("OriginalItemID korunmalıydı")
	}
}

func TestDeleteItemNotFound(t *testing.T) {
	db := newTestDB(t)
	if err := DeleteItem(db, 424242); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("err = %v, want ErrItemNotFound", err)
	}
}
