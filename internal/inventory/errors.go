package inventory

import "fmt"

// DuplicateBarcodeError: Aynı gemide barkod çakışması. Çakışan barkodu taşır.
type DuplicateBarcodeError struct {
	Code string
}

func (e *DuplicateBarcodeError) Error() string {
	return fmt.Sprintf("barkod zaten kayıtlı: %s", e.Code)
}
