package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ordinlampo/ordinlampo/internal/money"
	"gorm.io/datatypes"
)

// OrderType distinguishes delivery from pickup orders.
type OrderType string

const (
	TypeDelivery OrderType = "delivery"
	TypePickup   OrderType = "pickup"
)

// Valid reports whether the order type is one of the known values.
func (t OrderType) Valid() bool {
	return t == TypeDelivery || t == TypePickup
}

// Order is one received order. ExternalRef is the caller-supplied identifier
// used for deduplication; the unique index backs the in-process deduper.
type Order struct {
	ID               snowflake.ID   `gorm:"primaryKey"`
	RestaurantID     snowflake.ID   `gorm:"index:idx_orders_restaurant_ref,unique;index:idx_orders_restaurant_created"`
	ExternalRef      string         `gorm:"type:text;index:idx_orders_restaurant_ref,unique"`
	CustomerName     string         `gorm:"type:text"`
	CustomerPhone    string         `gorm:"type:text"`
	OrderType        OrderType      `gorm:"type:text;not null"`
	Address          string         `gorm:"type:text"`
	ZoneID           string         `gorm:"type:text"`
	TotalCents       money.Cents    `gorm:"not null"`
	DeliveryFeeCents money.Cents    `gorm:"not null;default:0"`
	Detail           datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt        time.Time      `gorm:"not null;index:idx_orders_restaurant_created"`
}

// TableName sets the database table name.
func (Order) TableName() string { return "orders" }

// Item is one line of the order detail document.
type Item struct {
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	UnitCents money.Cents `json:"unit_cents"`
}

// Incoming is the ingest payload for a new order.
type Incoming struct {
	ExternalRef      string      `json:"external_ref"`
	CustomerName     string      `json:"customer_name"`
	CustomerPhone    string      `json:"customer_phone"`
	OrderType        OrderType   `json:"order_type"`
	Address          string      `json:"address"`
	ZoneID           string      `json:"zone_id"`
	Items            []Item      `json:"items"`
	TotalCents       money.Cents `json:"total_cents"`
	DeliveryFeeCents money.Cents `json:"delivery_fee_cents"`
}

// Response is the API shape of an order.
type Response struct {
	ID               string      `json:"id"`
	ExternalRef      string      `json:"external_ref"`
	CustomerName     string      `json:"customer_name"`
	OrderType        OrderType   `json:"order_type"`
	Address          string      `json:"address,omitempty"`
	ZoneID           string      `json:"zone_id,omitempty"`
	TotalCents       money.Cents `json:"total_cents"`
	Total            string      `json:"total"`
	DeliveryFeeCents money.Cents `json:"delivery_fee_cents"`
	CreatedAt        time.Time   `json:"created_at"`
}

// ToResponse converts the row to its API shape.
func (o Order) ToResponse() Response {
	return Response{
		ID:               o.ID.String(),
		ExternalRef:      o.ExternalRef,
		CustomerName:     o.CustomerName,
		OrderType:        o.OrderType,
		Address:          o.Address,
		ZoneID:           o.ZoneID,
		TotalCents:       o.TotalCents,
		Total:            o.TotalCents.String(),
		DeliveryFeeCents: o.DeliveryFeeCents,
		CreatedAt:        o.CreatedAt,
	}
}
