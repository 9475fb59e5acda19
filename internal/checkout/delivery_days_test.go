package checkout

import (
	"testing"
	"time"

	"github.com/pratomobowo/pasarantar-sub000/pkg/enums"
)

func TestDeliveryDayOptionsScanFromTomorrow(t *testing.T) {
	// Monday 2026-08-31: the following week holds Tue 1st, Thu 3rd, Sat 5th.
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	options := DeliveryDayOptions(now)
	if len(options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(options))
	}

	expect := []struct {
		day   enums.DeliveryDay
		date  string
		label string
	}{
		{enums.DeliveryDaySelasa, "2026-09-01", "Selasa, 1 September"},
		{enums.DeliveryDayKamis, "2026-09-03", "Kamis, 3 September"},
		{enums.DeliveryDaySabtu, "2026-09-05", "Sabtu, 5 September"},
	}
	for i, want := range expect {
		got := options[i]
		if got.Day != want.day || got.Date != want.date || got.Label != want.label {
			t.Fatalf("option %d: got %+v, want %+v", i, got, want)
		}
	}
}

func TestDeliveryDayOptionsExcludeToday(t *testing.T) {
	// Tuesday itself must not appear; the scan starts tomorrow.
	tuesday := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	options := DeliveryDayOptions(tuesday)
	for _, opt := range options {
		if opt.Date == "2026-09-01" {
			t.Fatal("today must not be offered")
		}
	}
	// The scan window still reaches the next Tuesday, 7 days out.
	last := options[len(options)-1]
	if last.Date != "2026-09-08" || last.Day != enums.DeliveryDaySelasa {
		t.Fatalf("unexpected last option %+v", last)
	}
}

func TestNormalizeWhatsapp(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"081234567890", "081234567890", true},
		{"0812-3456-7890", "081234567890", true},
		{"0812 3456 789", "08123456789", true},
		{"6281234567890", "", false},
		{"0712345678901", "", false},
		{"0812345678", "", false},
		{"08123456789012345", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := normalizeWhatsapp(tc.raw)
		if ok != tc.ok || got != tc.want {
			t.Errorf("normalizeWhatsapp(%q) = %q,%v; want %q,%v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}
