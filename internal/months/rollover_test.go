package months

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"bondstore-backend/internal/database"
	"bondstore-backend/internal/ledger"
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

func addSeafarer(t *testing.T, db *gorm.DB, month *models.Month, displayID, name string, rep bool, spent string) *models.Seafarer {
	t.Helper()
	total, err := decimal.NewFromString(spent)
	if err != nil {
		t.Fatalf("tutar: %v", err)
	}
	s := &models.Seafarer{
		MonthID:          month.ID,
		DisplayID:        displayID,
		Name:             name,
		IsRepresentative: rep,
		TotalSpent:       total,
	}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("seafarer: %v", err)
	}
	return s
}

func TestCreateMonthInvalidToken(t *testing.T) {
	db := newTestDB(t)
	v := newVessel(t, db, "MV Ay")

	if _, err := CreateMonth(db, v.ID, "2025-6"); !errors.Is(err, ledger.ErrInvalidMonthFormat) {
		t.Errorf("err = %v, want ErrInvalidMonthFormat", err)
	}
}

func TestCreateMonthDuplicate(t *testing.T) {
	db := newTestDB(t)
	v := newVessel(t, db, "MV Cift")

	if _, err := CreateMonth(db, v.ID, "2025-06"); err != nil {
		t.Fatalf("ilk ay: %v", err)
	}
	if _, err := CreateMonth(db, v.ID, "2025-06"); !errors.Is(err, ErrDuplicateMonth) {
		t.Errorf("err = %v, want ErrDuplicateMonth", err)
	}

	// Başka gemi için aynı belirteç serbest
	v2 := newVessel(t, db, "MV Diger")
	if _, err := CreateMonth(db, v2.ID, "2025-06"); err != nil {
		t.Errorf("farklı gemi için ay açılmalıydı: %v", err)
	}
}

func TestCreateMonthFirstMonthEmpty(t *testing.T) {
	db := newTestDB(t)
	v := newVessel(t, db, "MV Ilk")

	month, err := CreateMonth(db, v.ID, "2025-06")
	if err != nil {
		t.Fatalf("CreateMonth: %v", err)
	}

	var count int64
	db.Model(&models.Seafarer{}).Where("month_id = ?", month.ID).Count(&count)
	if count != 0 {
		t.Errorf("ilk ayda %d seafarer var, 0 bekleniyordu", count)
	}
}

func TestCreateMonthRollover(t *testing.T) {
	db := newTestDB(t)
	v := newVessel(t, db, "MV Devir")

	prev, err := CreateMonth(db, v.ID, "2025-05")
	if err != nil {
		t.Fatalf("CreateMonth: %v", err)
	}
	addSeafarer(t, db, prev, "SF-001", "Kaptan", false, "120.50")
	addSeafarer(t, db, prev, "SF-002", "Makinist", false, "33.00")
	addSeafarer(t, db, prev, "AGT-01", "Acente", true, "75.00") // temsilci, kopyalanmamalı

	next, err := CreateMonth(db, v.ID, "2025-06")
	if err != nil {
		t.Fatalf("rollover: %v", err)
	}

	var copied []models.Seafarer
	if err := db.Where("month_id = ?", next.ID).Order("display_id asc").Find(&copied).Error; err != nil {
		t.Fatalf("liste: %v", err)
	}

	if len(copied) != 2 {
		t.Fatalf("%d seafarer kopyalandı, 2 bekleniyordu", len(copied))
	}
	if copied[0].DisplayID != "SF-001" || copied[1].DisplayID != "SF-002" {
		t.Errorf("kopyalananlar: %s, %s", copied[0].DisplayID, copied[1].DisplayID)
	}
	for _, s := range copied {
		if !s.TotalSpent.IsZero() {
			t.Errorf("%s totalSpent = %s, sıfırlanmalıydı", s.DisplayID, s.TotalSpent)
		}
		if s.IsRepresentative {
			t.Errorf("%s temsilci olarak kopyalanmış", s.DisplayID)
		}
	}

	// Önceki ay dokunulmamış kalır
	var prevCount int64
	db.Model(&models.Seafarer{}).Where("month_id = ?", prev.ID).Count(&prevCount)
	if prevCount != 3 {
		t.Errorf("önceki ayda %d seafarer kaldı, 3 bekleniyordu", prevCount)
	}
}

func TestCreateMonthSkipsGap(t *testing.T) {
	db := newTestDB(t)
	v := newVessel(t, db, "MV Atlama")

	may, err := CreateMonth(db, v.ID, "2025-05")
	if err != nil {
		t.Fatalf("CreateMonth: %v", err)
	}
	addSeafarer(t, db, may, "SF-010", "Kaptan", false, "10.00")

	// Haziran yok; ağustos açıldığında kaynak kronolojik en yakın ay (mayıs)
	aug, err := CreateMonth(db, v.ID, "2025-08")
	if err != nil {
		t.Fatalf("CreateMonth: %v", err)
	}

	var count int64
	db.Model(&models.Seafarer{}).Where("month_id = ?", aug.ID).Count(&count)
	if count != 1 {
		t.Errorf("ağustosta %d seafarer var, 1 bekleniyordu", count)
	}
}

func TestDeleteMonth(t *testing.T) {
	db := newTestDB(t)
	v := newVessel(t, db, "MV Sil")

	month, err := CreateMonth(db, v.ID, "2025-06")
	if err != nil {
		t.Fatalf("CreateMonth: %v", err)
	}
	s := addSeafarer(t, db, month, "SF-020", "Kaptan", false, "0")

	// Ay içinde teslim alınan kalem ve hareketleri
	item := models.InventoryItem{
		VesselID:       v.ID,
		Name:           "Cips",
		PricePerUnit:   decimal.NewFromFloat(1.25),
		ReceivedDate:   time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
		OriginalItemID: "orig-cips",
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("kalem: %v", err)
	}
	db.Create(&models.SupplyRecord{InventoryItemID: item.ID, Date: item.ReceivedDate, Quantity: 40})
	itemID := item.ID
	db.Create(&models.Distribution{
		SeafarerID: s.ID, InventoryItemID: &itemID, OriginalItemID: item.OriginalItemID,
		Date: item.ReceivedDate, ItemName: item.Name, Quantity: 2, UnitPrice: item.PricePerUnit,
	})

	// Ay dışında teslim alınan kalem silinmemeli
	keep := models.InventoryItem{
		VesselID:       v.ID,
		Name:           "Kahve",
		PricePerUnit:   decimal.NewFromFloat(3.00),
		ReceivedDate:   time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		OriginalItemID: "orig-kahve",
	}
	if err := db.Create(&keep).Error; err != nil {
		t.Fatalf("kalem: %v", err)
	}

	if err := DeleteMonth(db, month.ID); err != nil {
		t.Fatalf("DeleteMonth: %v", err)
	}

	var monthCount, seafarerCount, distCount, itemCount, keepCount int64
	db.Model(&models.Month{}).Where("id = ?", month.ID).Count(&monthCount)
	db.Model(&models.Seafarer{}).Where("month_id = ?", month.ID).Count(&seafarerCount)
	db.Model(&models.Distribution{}).Where("seafarer_id = ?", s.ID).Count(&distCount)
	db.Model(&models.InventoryItem{}).Where("id = ?", item.ID).Count(&itemCount)
	db.Model(&models.InventoryItem{}).Where("id = ?", keep.ID).Count(&keepCount)

	if monthCount != 0 || seafarerCount != 0 || distCount != 0 || itemCount != 0 {
		t.Errorf("silinmeyen kayıt kaldı: ay=%d seafarer=%d dağıtım=%d kalem=%d",
			monthCount, seafarerCount, distCount, itemCount)
	}
	if keepCount != 1 {
		t.Errorf("ay dışı kalem silinmiş")
	}
}

func TestDeleteMonthNotFound(t *testing.T) {
	db := newTestDB(t)
	if err := DeleteMonth(db, 9999); !errors.Is(err, ErrMonthNotFound) {
		t.Errorf("err = %v, want ErrMonthNotFound", err)
	}
}
