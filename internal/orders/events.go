package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/pratomobowo/pasarantar-sub000/pkg/db/models"
	"github.com/pratomobowo/pasarantar-sub000/pkg/enums"
	"github.com/pratomobowo/pasarantar-sub000/pkg/kafka"
	"github.com/pratomobowo/pasarantar-sub000/pkg/logger"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"

	eventProducer = "pasarantar-api"
	eventVersion  = 1
)

// Envelope is the wire format shared by every order event.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type orderCreatedPayload struct {
	OrderID     string           `json:"order_id"`
	OrderNumber string           `json:"order_number"`
	CustomerID  string           `json:"customer_id"`
	Items       []orderItemBrief `json:"items"`
	TotalAmount string           `json:"total_amount"`
}

type orderItemBrief struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Qty       int    `json:"qty"`
	UnitPrice string `json:"unit_price"`
}

type orderStatusChangedPayload struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	FromStatus  string `json:"from_status"`
	ToStatus    string `json:"to_status"`
	ActorRole   string `json:"actor_role"`
}

// Publisher emits order lifecycle events. Publishing is advisory; order
// state in the database is never gated on it.
type Publisher interface {
	OrderCreated(ctx context.Context, order *models.Order)
	OrderStatusChanged(ctx context.Context, order *models.Order, from enums.OrderStatus, actor enums.ActorRole)
}

type kafkaPublisher struct {
	producer *kafka.Producer
	logg     *logger.Logger
}

// NewKafkaPublisher wraps the async producer in the order event schema.
func NewKafkaPublisher(producer *kafka.Producer, logg *logger.Logger) (Publisher, error) {
	if producer == nil {
		return nil, fmt.Errorf("kafka producer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &kafkaPublisher{producer: producer, logg: logg}, nil
}

func (p *kafkaPublisher) OrderCreated(ctx context.Context, order *models.Order) {
	items := make([]orderItemBrief, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemBrief{
			ProductID: item.ProductID.String(),
			VariantID: item.ProductVariantID.String(),
			Qty:       item.Quantity,
			UnitPrice: item.UnitPrice.String(),
		})
	}
	p.publish(ctx, EventOrderCreated, order, orderCreatedPayload{
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		CustomerID:  order.CustomerID.String(),
		Items:       items,
		TotalAmount: order.TotalAmount.String(),
	})
}

func (p *kafkaPublisher) OrderStatusChanged(ctx context.Context, order *models.Order, from enums.OrderStatus, actor enums.ActorRole) {
	p.publish(ctx, EventOrderStatusChanged, order, orderStatusChangedPayload{
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		FromStatus:  from.String(),
		ToStatus:    order.Status.String(),
		ActorRole:   actor.String(),
	})
}

func (p *kafkaPublisher) publish(ctx context.Context, eventType string, order *models.Order, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		p.logg.Error(ctx, "encoding order event payload", err)
		return
	}
	envelope, err := json.Marshal(Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  eventVersion,
		OccurredAt:    time.Now().UTC(),
		Producer:      eventProducer,
		CorrelationID: order.ID.String(),
		Payload:       body,
	})
	if err != nil {
		p.logg.Error(ctx, "encoding order event envelope", err)
		return
	}

	// Key by order ID so one order's events stay in partition order.
	p.producer.Publish(ctx, []byte(order.ID.String()), envelope,
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)})
}

type noopPublisher struct{}

// NewNoopPublisher is used when no broker is configured.
func NewNoopPublisher() Publisher { return noopPublisher{} }

func (noopPublisher) OrderCreated(context.Context, *models.Order) {}
func (noopPublisher) OrderStatusChanged(context.Context, *models.Order, enums.OrderStatus, enums.ActorRole) {
}
