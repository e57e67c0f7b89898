package ledger

import (
	"errors"
	"fmt"
)

var (
	// "YYYY-MM" olarak çözümlenemeyen ay belirteci
	ErrInvalidMonthFormat = errors.New("ay belirteci geçersiz, 'YYYY-MM' formatında olmalı")

	// Takvim aralığı hesaplanamadı
	ErrDateRange = errors.New("ay tarih aralığı hesaplanamadı")
)

// InsufficientStockError: Dağıtım oluşturma/düzenleme sırasında stok
// kontrolünün reddi. İstenen ve mevcut miktarı birlikte taşır.
type InsufficientStockError struct {
	ItemName  string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("yetersiz stok: %s için istenen %d, mevcut %d", e.ItemName, e.Requested, e.Available)
}
