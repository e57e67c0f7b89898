package reports

import (
	"sort"
	"time"

	"bondstore-backend/internal/ledger"
	"bondstore-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StockReportRow struct {
	OriginalItemID string          `json:"original_item_id"`
	ItemName       string          `json:"item_name"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Opening        int             `json:"opening"`
	Supplied       int             `json:"supplied"`
	Distributed    int             `json:"distributed"`
	Closing        int             `json:"closing"`
	TotalValue     decimal.Decimal `json:"total_value"` // closing x birim fiyat, vergisiz
}

type StockReport struct {
	VesselID   uint             `json:"vessel_id"`
	MonthID    string           `json:"month_id"`
	Rows       []StockReportRow `json:"rows"`
	TotalValue decimal.Decimal  `json:"total_value"`
}

// BuildStockReport: Ay sonu stok raporu. Açılışı sıfır olup ay içinde hiç
// hareket görmeyen kalemler rapora girmez. Kalemler ada göre sıralanır.
func BuildStockReport(db *gorm.DB, vesselID uint, monthID string) (*StockReport, error) {
	start, end, err := ledger.MonthRange(monthID)
	if err != nil {
		return nil, err
	}
	monthEnd, err := ledger.EndOfMonth(monthID)
	if err != nil {
		return nil, err
	}

	var items []models.InventoryItem
	if err := db.
		Where("vessel_id = ? AND received_date <= ?", vesselID, monthEnd).
		Order("received_date asc, id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}

	// Aynı originalItemID birden fazla ay kaydında görünebilir; ad ve fiyat
	// için en güncel kayıt esas alınır.
	latest := make(map[string]models.InventoryItem, len(items))
	for _, it := range items {
		latest[it.OriginalItemID] = it
	}

	report := &StockReport{
		VesselID:   vesselID,
		MonthID:    monthID,
		Rows:       make([]StockReportRow, 0, len(latest)),
		TotalValue: decimal.Zero,
	}

	for originalID, it := range latest {
		opening, err := ledger.OpeningStock(db, originalID, monthID)
		if err != nil {
			return nil, err
		}
		supplied, err := suppliedInRange(db, originalID, start, end)
		if err != nil {
			return nil, err
		}
		distributed, err := distributedInRange(db, originalID, start, end)
		if err != nil {
			return nil, err
		}

		if opening == 0 && supplied == 0 && distributed == 0 {
			continue
		}

		closing := opening + supplied - distributed
		totalValue := it.PricePerUnit.Mul(decimal.NewFromInt(int64(closing)))

		report.Rows = append(report.Rows, StockReportRow{
			OriginalItemID: originalID,
			ItemName:       it.Name,
			UnitPrice:      it.PricePerUnit,
			Opening:        opening,
			Supplied:       supplied,
			Distributed:    distributed,
			Closing:        closing,
			TotalValue:     totalValue,
		})
		report.TotalValue = report.TotalValue.Add(totalValue)
	}

	sort.Slice(report.Rows, func(i, j int) bool {
		return report.Rows[i].ItemName < report.Rows[j].ItemName
	})
	return report, nil
}

func suppliedInRange(db *gorm.DB, originalItemID string, start, end time.Time) (int, error) {
	var total int64
	err := db.Model(&models.SupplyRecord{}).
		Joins("JOIN inventory_items ON inventory_items.id = supply_records.inventory_item_id").
		Where("inventory_items.original_item_id = ? AND supply_records.date >= ? AND supply_records.date < ?",
			originalItemID, start, end).
		Select("COALESCE(SUM(supply_records.quantity), 0)").
		Scan(&total).Error
	return int(total), err
}

func distributedInRange(db *gorm.DB, originalItemID string, start, end time.Time) (int, error) {
	var total int64
	err := db.Model(&models.Distribution{}).
		Where("original_item_id = ? AND date >= ? AND date < ?", originalItemID, start, end).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return int(total), err
}
