package ledger

import "time"

const monthIDLayout = "2006-01"

// ParseMonthID: "YYYY-MM" belirtecini ayın ilk gününe çevirir (UTC).
// Sabit genişlik ve sıfır dolgulu ay sayesinde belirteçlerin string
// sıralaması tarih sıralamasıyla aynıdır.
func ParseMonthID(monthID string) (time.Time, error) {
	if len(monthID) != 7 {
		return time.Time{}, ErrInvalidMonthFormat
	}
	t, err := time.Parse(monthIDLayout, monthID)
	if err != nil {
		return time.Time{}, ErrInvalidMonthFormat
	}
	return t, nil
}

// MonthRange: Ayın başlangıcı (dahil) ve bir sonraki ayın başlangıcı
// (hariç) olarak aralığı döndürür.
func MonthRange(monthID string) (time.Time, time.Time, error) {
	start, err := ParseMonthID(monthID)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if start.Year() < 1900 || start.Year() > 9999 {
		return time.Time{}, time.Time{}, ErrDateRange
	}
	end := start.AddDate(0, 1, 0)
	return start, end, nil
}

// EndOfMonth: Ayın son anı (bir sonraki ayın başlangıcından bir saniye önce).
func EndOfMonth(monthID string) (time.Time, error) {
	_, end, err := MonthRange(monthID)
	if err != nil {
		return time.Time{}, err
	}
	return end.Add(-time.Second), nil
}

// PreviousMonthID: Bir önceki ayın belirteci.
func PreviousMonthID(monthID string) (string, error) {
	start, err := ParseMonthID(monthID)
	if err != nil {
		return "", err
	}
	return start.AddDate(0, -1, 0).Format(monthIDLayout), nil
}
