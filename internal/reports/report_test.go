package reports

import (
	"bytes"
	"encoding/csv"
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

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("tarih: %v", err)
	}
	return d
}

func seedItem(t *testing.T, db *gorm.DB, vesselID uint, name, price, received string) *models.InventoryItem {
	t.Helper()
	item := &models.InventoryItem{
		VesselID:       vesselID,
		Name:           name,
		PricePerUnit:   decimal.RequireFromString(price),
		ReceivedDate:   day(t, received),
		OriginalItemID: fmt.Sprintf("orig-%s", name),
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("kalem: %v", err)
	}
	return item
}

func seedSupply(t *testing.T, db *gorm.DB, item *models.InventoryItem, date string, qty int) {
	t.Helper()
	if err := db.Create(&models.SupplyRecord{
		InventoryItemID: item.ID, Date: day(t, date), Quantity: qty,
	}).Error; err != nil {
		t.Fatalf("tedarik: %v", err)
	}
}

func seedDistribution(t *testing.T, db *gorm.DB, s *models.Seafarer, item *models.InventoryItem, date string, qty int) {
	t.Helper()
	itemID := item.ID
	if err := db.Create(&models.Distribution{
		SeafarerID: s.ID, InventoryItemID: &itemID, OriginalItemID: item.OriginalItemID,
		Date: day(t, date), ItemName: item.Name, Quantity: qty, UnitPrice: item.PricePerUnit,
	}).Error; err != nil {
		t.Fatalf("dağıtım: %v", err)
	}
}

func seedMonth(t *testing.T, db *gorm.DB, vesselID uint, monthID string) *models.Month {
	t.Helper()
	m := &models.Month{VesselID: vesselID, MonthID: monthID}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("ay: %v", err)
	}
	return m
}

func seedSeafarer(t *testing.T, db *gorm.DB, month *models.Month, displayID, name string, rep bool) *models.Seafarer {
	t.Helper()
	s := &models.Seafarer{
		MonthID: month.ID, DisplayID: displayID, Name: name,
		IsRepresentative: rep, TotalSpent: decimal.Zero,
	}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("seafarer: %v", err)
	}
	return s
}

func TestBuildStockReport(t *testing.T) {
	db := newTestDB(t)

	vessel := models.Vessel{Name: "MV Rapor", IMONumber: "2222222"}
	if err := db.Create(&vessel).Error; err != nil {
		t.Fatalf("gemi: %v", err)
	}
	month := seedMonth(t, db, vessel.ID, "2025-06")
	crew := seedSeafarer(t, db, month, "SF-001", "Kaptan", false)

	// Pirinç: mayıstan 40 devreden + haziranda 60 giriş, 30 çıkış
	rice := seedItem(t, db, vessel.ID, "Pirinç", "2.00", "2025-05-01")
	seedSupply(t, db, rice, "2025-05-01", 40)
	seedSupply(t, db, rice, "2025-06-05", 60)
	seedDistribution(t, db, crew, rice, "2025-06-10", 30)

	// Kola: sadece haziran girişi
	cola := seedItem(t, db, vessel.ID, "Kola", "1.50", "2025-06-01")
	seedSupply(t, db, cola, "2025-06-01", 24)

	// Atıl: açılışı sıfır, haziranda hareketsiz; rapora girmemeli
	idle := seedItem(t, db, vessel.ID, "Atıl", "9.99", "2025-06-01")
	_ = idle

	// Temmuz girişi haziran raporunu etkilemez
	seedSupply(t, db, cola, "2025-07-02", 100)

	report, err := BuildStockReport(db, vessel.ID, "2025-06")
	if err != nil {
		t.Fatalf("BuildStockReport: %v", err)
	}

	if len(report.Rows) != 2 {
		t.Fatalf("%d satır, 2 bekleniyordu: %+v", len(report.Rows), report.Rows)
	}

	// Ada göre sıralı: Kola, Pirinç
	if report.Rows[0].ItemName != "Kola" || report.Rows[1].ItemName != "Pirinç" {
		t.Errorf("sıralama: %s, %s", report.Rows[0].ItemName, report.Rows[1].ItemName)
	}

	kola := report.Rows[0]
	if kola.Opening != 0 || kola.Supplied != 24 || kola.Distributed != 0 || kola.Closing != 24 {
		t.Errorf("Kola satırı: %+v", kola)
	}
	if !kola.TotalValue.Equal(decimal.RequireFromString("36.00")) {
		t.Errorf("Kola toplam değer = %s, want 36.00", kola.TotalValue)
	}

	pirinc := report.Rows[1]
	if pirinc.Opening != 40 || pirinc.Supplied != 60 || pirinc.Distributed != 30 || pirinc.Closing != 70 {
		t.Errorf("Pirinç satırı: %+v", pirinc)
	}
	if !pirinc.TotalValue.Equal(decimal.RequireFromString("140.00")) {
		t.Errorf("Pirinç toplam değer = %s, want 140.00", pirinc.TotalValue)
	}

	if !report.TotalValue.Equal(decimal.RequireFromString("176.00")) {
		t.Errorf("genel toplam = %s, want 176.00", report.TotalValue)
	}
}

func TestBuildCrewReport(t *testing.T) {
	db := newTestDB(t)

	vessel := models.Vessel{Name: "MV Tayfa", IMONumber: "3333333"}
	if err := db.Create(&vessel).Error; err != nil {
		t.Fatalf("gemi: %v", err)
	}
	month := seedMonth(t, db, vessel.ID, "2025-06")

	rice := seedItem(t, db, vessel.ID, "Pirinç", "2.00", "2025-06-01")
	seedSupply(t, db, rice, "2025-06-01", 100)

	// displayID sırasına aykırı ekleme; rapor yine sıralı dönmeli
	second := seedSeafarer(t, db, month, "SF-002", "Makinist", false)
	first := seedSeafarer(t, db, month, "SF-001", "Kaptan", false)
	rep := seedSeafarer(t, db, month, "AGT-01", "Acente", true)
	noSpend := seedSeafarer(t, db, month, "SF-003", "Miço", false)
	_ = noSpend

	seedDistribution(t, db, first, rice, "2025-06-10", 30)
	seedDistribution(t, db, second, rice, "2025-06-12", 5)
	seedDistribution(t, db, rep, rice, "2025-06-15", 10)

	report, err := BuildCrewReport(db, vessel.ID, "2025-06")
	if err != nil {
		t.Fatalf("BuildCrewReport: %v", err)
	}

	// Harcaması olmayan SF-003 dışarıda; AGT-01, SF-001, SF-002 sıralı
	if len(report.Entries) != 3 {
		t.Fatalf("%d kayıt, 3 bekleniyordu", len(report.Entries))
	}
	if report.Entries[0].DisplayID != "AGT-01" ||
		report.Entries[1].DisplayID != "SF-001" ||
		report.Entries[2].DisplayID != "SF-002" {
		t.Errorf("sıralama: %s, %s, %s",
			report.Entries[0].DisplayID, report.Entries[1].DisplayID, report.Entries[2].DisplayID)
	}

	// Temsilci vergisiz: 10 x 2.00 = 20.00
	if !report.Entries[0].Total.Equal(decimal.RequireFromString("20.00")) {
		t.Errorf("temsilci toplamı = %s, want 20.00", report.Entries[0].Total)
	}
	// Mürettebat vergili: 30 x 2.20 = 66.00
	if !report.Entries[1].Total.Equal(decimal.RequireFromString("66.00")) {
		t.Errorf("SF-001 toplamı = %s, want 66.00", report.Entries[1].Total)
	}
	line := report.Entries[1].Lines[0]
	if !line.UnitPrice.Equal(decimal.RequireFromString("2.20")) {
		t.Errorf("vergili birim fiyat = %s, want 2.20", line.UnitPrice)
	}

	// 20.00 + 66.00 + 11.00
	if !report.GrandTotal.Equal(decimal.RequireFromString("97.00")) {
		t.Errorf("genel toplam = %s, want 97.00", report.GrandTotal)
	}
}

func TestBuildCrewReportMonthNotFound(t *testing.T) {
	db := newTestDB(t)

	vessel := models.Vessel{Name: "MV Yok", IMONumber: "4444444"}
	if err := db.Create(&vessel).Error; err != nil {
		t.Fatalf("gemi: %v", err)
	}

	if _, err := BuildCrewReport(db, vessel.ID, "2025-06"); !errors.Is(err, ErrMonthNotFound) {
		t.Errorf("err = %v, want ErrMonthNotFound", err)
	}
}

func TestWriteStockReportCSV(t *testing.T) {
	report := &StockReport{
		VesselID: 1,
		MonthID:  "2025-06",
		Rows: []StockReportRow{
			{
				ItemName:    "Pirinç, uzun tane", // virgüllü ad tırnaklanmalı
				UnitPrice:   decimal.RequireFromString("2.00"),
				Opening:     40,
				Supplied:    60,
				Distributed: 30,
				Closing:     70,
				TotalValue:  decimal.RequireFromString("140.00"),
			},
		},
		TotalValue: decimal.RequireFromString("140.00"),
	}

	var buf bytes.Buffer
	if err := WriteStockReportCSV(&buf, report); err != nil {
		t.Fatalf("WriteStockReportCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("csv geri okunamadı: %v", err)
	}

	// Başlık + 1 satır + toplam
	if len(records) != 3 {
		t.Fatalf("%d kayıt, 3 bekleniyordu: %v", len(records), records)
	}
	row := records[1]
	if row[0] != "Pirinç, uzun tane" {
		t.Errorf("virgüllü ad bozulmuş: %q", row[0])
	}
	if row[5] != "2.00" || row[6] != "140.00" {
		t.Errorf("parasal alanlar: %q %q", row[5], row[6])
	}
	if records[2][0] != "TOTAL" || records[2][6] != "140.00" {
		t.Errorf("toplam satırı: %v", records[2])
	}
}

func TestWriteCrewReportCSV(t *testing.T) {
	report := &CrewReport{
		VesselID: 1,
		MonthID:  "2025-06",
		Entries: []CrewReportEntry{
			{
				DisplayID: "SF-001",
				Name:      "Kaptan",
				Lines: []CrewReportLine{
					{
						Date:      "2025-06-10",
						ItemName:  "Pirinç",
						Quantity:  30,
						UnitPrice: decimal.RequireFromString("2.20"),
						LineTotal: decimal.RequireFromString("66.00"),
					},
				},
				Total: decimal.RequireFromString("66.00"),
			},
		},
		GrandTotal: decimal.RequireFromString("66.00"),
	}

	var buf bytes.Buffer
	if err := WriteCrewReportCSV(&buf, report); err != nil {
		t.Fatalf("WriteCrewReportCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("csv geri okunamadı: %v", err)
	}

	// Başlık + satır + ara toplam + genel toplam
	if len(records) != 4 {
		t.Fatalf("%d kayıt, 4 bekleniyordu: %v", len(records), records)
	}
	if records[1][6] != "66.00" {
		t.Errorf("satır toplamı = %q", records[1][6])
	}
	if records[3][3] != "GRAND TOTAL" || records[3][6] != "66.00" {
		t.Errorf("genel toplam satırı: %v", records[3])
	}
}
