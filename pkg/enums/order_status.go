package enums

import "fmt"

// OrderStatus tracks the lifecycle of a customer order. The backend owns
// every transition; clients only request them.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// allowedOrderTransitions is the single source of truth for the status
// workflow. Every screen and every service-side check reads this table.
var allowedOrderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return len(allowedOrderTransitions[s]) == 0 && s.IsValid()
}

// AllowedNext returns the statuses reachable from the current one.
func (s OrderStatus) AllowedNext() []OrderStatus {
	next := allowedOrderTransitions[s]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo reports whether the workflow permits moving to target.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, candidate := range allowedOrderTransitions[s] {
		if candidate == target {
			return true
		}
	}
	return false
}

// CustomerCancellable reports whether the customer may self-cancel.
// Admins can still cancel a confirmed order; customers cannot.
func (s OrderStatus) CustomerCancellable() bool {
	return s == OrderStatusPending
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

// OrderStatusPresentation carries display-only metadata. It never feeds
// back into workflow decisions.
type OrderStatusPresentation struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var orderStatusPresentations = map[OrderStatus]OrderStatusPresentation{
	OrderStatusPending:    {Label: "Menunggu Konfirmasi", Icon: "clock", Color: "yellow"},
	OrderStatusConfirmed:  {Label: "Dikonfirmasi", Icon: "check-circle", Color: "blue"},
	OrderStatusProcessing: {Label: "Diproses", Icon: "package", Color: "indigo"},
	OrderStatusDelivered:  {Label: "Terkirim", Icon: "truck", Color: "green"},
	OrderStatusCancelled:  {Label: "Dibatalkan", Icon: "x-circle", Color: "red"},
}

// Presentation returns the display metadata for the status.
func (s OrderStatus) Presentation() OrderStatusPresentation {
	if p, ok := orderStatusPresentations[s]; ok {
		return p
	}
	return OrderStatusPresentation{Label: string(s), Icon: "help-circle", Color: "gray"}
}
