package reports

import (
	"errors"

	"bondstore-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrMonthNotFound = errors.New("ay bulunamadı")

type CrewReportLine struct {
	Date      string          `json:"date"`
	ItemName  string          `json:"item_name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"` // vergili birim fiyat
	LineTotal decimal.Decimal `json:"line_total"`
}

type CrewReportEntry struct {
	DisplayID        string           `json:"display_id"`
	Name             string           `json:"name"`
	Rank             string           `json:"rank"`
	IsRepresentative bool             `json:"is_representative"`
	Lines            []CrewReportLine `json:"lines"`
	Total            decimal.Decimal  `json:"total"`
}

type CrewReport struct {
	VesselID   uint              `json:"vessel_id"`
	MonthID    string            `json:"month_id"`
	Entries    []CrewReportEntry `json:"entries"`
	GrandTotal decimal.Decimal   `json:"grand_total"`
}

// BuildCrewReport: Ay içi mürettebat harcama raporu. Toplamlar dağıtım
// satırlarından hesaplanır, totalSpent önbelleğine güvenilmez. Hiç harcaması
// olmayan seafarer'lar rapora girmez. Seafarer'lar displayID'ye göre,
// satırlar tarihe göre sıralıdır.
func BuildCrewReport(db *gorm.DB, vesselID uint, monthID string) (*CrewReport, error) {
	var month models.Month
	err := db.Where("vessel_id = ? AND month_id = ?", vesselID, monthID).First(&month).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMonthNotFound
		}
		return nil, err
	}

	var seafarers []models.Seafarer
	if err := db.
		Where("month_id = ?", month.ID).
		Order("display_id asc").
		Find(&seafarers).Error; err != nil {
		return nil, err
	}

	report := &CrewReport{
		VesselID:   vesselID,
		MonthID:    monthID,
		Entries:    make([]CrewReportEntry, 0, len(seafarers)),
		GrandTotal: decimal.Zero,
	}

	for i := range seafarers {
		s := &seafarers[i]

		var dists []models.Distribution
		if err := db.
			Where("seafarer_id = ?", s.ID).
			Order("date asc, id asc").
			Find(&dists).Error; err != nil {
			return nil, err
		}

		entry := CrewReportEntry{
			DisplayID:        s.DisplayID,
			Name:             s.Name,
			Rank:             s.Rank,
			IsRepresentative: s.IsRepresentative,
			Lines:            make([]CrewReportLine, 0, len(dists)),
			Total:            decimal.Zero,
		}
		for _, d := range dists {
			unit := s.UnitPriceWithTax(d.UnitPrice)
			line := unit.Mul(decimal.NewFromInt(int64(d.Quantity)))
			entry.Lines = append(entry.Lines, CrewReportLine{
				Date:      d.Date.Format("2006-01-02"),
				ItemName:  d.ItemName,
				Quantity:  d.Quantity,
				UnitPrice: unit,
				LineTotal: line,
			})
			entry.Total = entry.Total.Add(line)
		}

		if entry.Total.IsZero() && len(entry.Lines) == 0 {
			continue
		}

		report.Entries = append(report.Entries, entry)
		report.GrandTotal = report.GrandTotal.Add(entry.Total)
	}

	return report, nil
}
