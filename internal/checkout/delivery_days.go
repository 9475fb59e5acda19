package checkout

import (
	"fmt"
	"time"

	"github.com/pratomobowo/pasarantar-sub000/pkg/enums"
)

// DeliveryDayOption is one selectable fulfillment date.
type DeliveryDayOption struct {
	Day   enums.DeliveryDay `json:"day"`
	Date  string            `json:"date"`
	Label string            `json:"label"`
}

var indonesianMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// DeliveryDayOptions scans the 7 days starting tomorrow and collects the
// dates landing on a fulfilled delivery day (Tuesday, Thursday,
// Saturday), each with a localized label.
func DeliveryDayOptions(now time.Time) []DeliveryDayOption {
	options := make([]DeliveryDayOption, 0, 3)
	for i := 1; i <= 7; i++ {
		date := now.AddDate(0, 0, i)
		day, ok := enums.DeliveryDayForWeekday(date.Weekday())
		if !ok {
			continue
		}
		options = append(options, DeliveryDayOption{
			Day:   day,
			Date:  date.Format("2006-01-02"),
			Label: fmt.Sprintf("%s, %d %s", day.Label(), date.Day(), indonesianMonths[date.Month()-1]),
		})
	}
	return options
}
