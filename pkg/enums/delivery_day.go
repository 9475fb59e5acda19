package enums

import (
	"fmt"
	"time"
)

// DeliveryDay is one of the weekdays PasarAntar actually fulfils.
type DeliveryDay string

const (
	DeliveryDaySelasa DeliveryDay = "selasa"
	DeliveryDayKamis  DeliveryDay = "kamis"
	DeliveryDaySabtu  DeliveryDay = "sabtu"
)

var validDeliveryDays = []DeliveryDay{
	DeliveryDaySelasa,
	DeliveryDayKamis,
	DeliveryDaySabtu,
}

var deliveryDayByWeekday = map[time.Weekday]DeliveryDay{
	time.Tuesday:  DeliveryDaySelasa,
	time.Thursday: DeliveryDayKamis,
	time.Saturday: DeliveryDaySabtu,
}

var deliveryDayLabels = map[DeliveryDay]string{
	DeliveryDaySelasa: "Selasa",
	DeliveryDayKamis:  "Kamis",
	DeliveryDaySabtu:  "Sabtu",
}

// String implements fmt.Stringer.
func (d DeliveryDay) String() string {
	return string(d)
}

// Label returns the display name of the day.
func (d DeliveryDay) Label() string {
	return deliveryDayLabels[d]
}

// IsValid reports whether the value is a known DeliveryDay.
func (d DeliveryDay) IsValid() bool {
	for _, candidate := range validDeliveryDays {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryDay converts raw input into a DeliveryDay.
func ParseDeliveryDay(value string) (DeliveryDay, error) {
	for _, candidate := range validDeliveryDays {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery day %q", value)
}

// DeliveryDayForWeekday maps a weekday onto a fulfilled delivery day.
func DeliveryDayForWeekday(day time.Weekday) (DeliveryDay, bool) {
	d, ok := deliveryDayByWeekday[day]
	return d, ok
}
