package ledger

import (
	"errors"
	"sort"
	"testing"
	"time"
)

func TestParseMonthID(t *testing.T) {
	got, err := ParseMonthID("2025-06")
	if err != nil {
		t.Fatalf("ParseMonthID: %v", err)
	}
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseMonthID = %v, want %v", got, want)
	}
}

func TestParseMonthIDInvalid(t *testing.T) {
	bad := []string{"", "2025", "2025-6", "2025-13", "2025/06", "25-06", "2025-06-01"}
	for _, id := range bad {
		if _, err := ParseMonthID(id); !errors.Is(err, ErrInvalidMonthFormat) {
			t.Errorf("ParseMonthID(%q) err = %v, want ErrInvalidMonthFormat", id, err)
		}
	}
}

func TestMonthTokenOrderingMatchesChronology(t *testing.T) {
	// Sıfır dolgulu sabit genişlik sayesinde string sıralaması tarih
	// sıralamasıyla aynı olmalı
	tokens := []string{"2025-10", "2024-12", "2025-01", "2025-02", "2025-09"}

	byString := append([]string(nil), tokens...)
	sort.Strings(byString)

	byDate := append([]string(nil), tokens...)
	sort.Slice(byDate, func(i, j int) bool {
		ti, _ := ParseMonthID(byDate[i])
		tj, _ := ParseMonthID(byDate[j])
		return ti.Before(tj)
	})

	for i := range byString {
		if byString[i] != byDate[i] {
			t.Fatalf("sıralama farklı: string=%v tarih=%v", byString, byDate)
		}
	}
}

func TestMonthRange(t *testing.T) {
	start, end, err := MonthRange("2025-06")
	if err != nil {
		t.Fatalf("MonthRange: %v", err)
	}
	if start.Day() != 1 || start.Month() != 6 {
		t.Errorf("start = %v", start)
	}
	if end.Month() != 7 || end.Day() != 1 {
		t.Errorf("end = %v", end)
	}

	// Aralık sonu hariç: ay sonu end'den önce olmalı
	eom, err := EndOfMonth("2025-06")
	if err != nil {
		t.Fatalf("EndOfMonth: %v", err)
	}
	if !eom.Before(end) {
		t.Errorf("EndOfMonth %v aralık sonundan önce değil (%v)", eom, end)
	}
	if eom.Month() != 6 || eom.Day() != 30 {
		t.Errorf("EndOfMonth = %v", eom)
	}
}

func TestMonthRangeDecemberWrap(t *testing.T) {
	_, end, err := MonthRange("2025-12")
	if err != nil {
		t.Fatalf("MonthRange: %v", err)
	}
	if end.Year() != 2026 || end.Month() != 1 {
		t.Errorf("Aralık ayının sonu = %v, 2026-01 bekleniyordu", end)
	}
}

func TestPreviousMonthID(t *testing.T) {
	cases := map[string]string{
		"2025-06": "2025-05",
		"2025-01": "2024-12",
	}
	for in, want := range cases {
		got, err := PreviousMonthID(in)
		if err != nil {
			t.Fatalf("PreviousMonthID(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("PreviousMonthID(%q) = %q, want %q", in, got, want)
		}
	}
}
