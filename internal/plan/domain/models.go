// Package domain contains the billing plan catalog models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ordinlampo/ordinlampo/internal/money"
)

// SubscriptionStatus represents lifecycle states for a restaurant's plan
// subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusTrialing SubscriptionStatus = "TRIALING"
	SubscriptionStatusActive   SubscriptionStatus = "ACTIVE"
	SubscriptionStatusPastDue  SubscriptionStatus = "PAST_DUE"
	SubscriptionStatusCanceled SubscriptionStatus = "CANCELED"
)

// Plan is one tier of the per-order pricing catalog. A restaurant is
// subscribed to exactly one plan at a time.
type Plan struct {
	ID               snowflake.ID `gorm:"primaryKey"`
	Code             string       `gorm:"type:text;not null;uniqueIndex"`
	Name             string       `gorm:"type:text;not null"`
	PerOrderFeeCents money.Cents  `gorm:"not null"`
	CreditAllotment  int          `gorm:"not null;default:0"`
	BonusCredits     int          `gorm:"not null;default:0"`
	Active           bool         `gorm:"not null;default:true"`
	CreatedAt        time.Time    `gorm:"not null"`
	UpdatedAt        time.Time    `gorm:"not null"`
}

// TableName sets the database table name.
func (Plan) TableName() string { return "plans" }

// Response is the API shape of a plan.
type Response struct {
	ID               snowflake.ID `json:"id"`
	Code             string       `json:"code"`
	Name             string       `json:"name"`
	PerOrderFee      string       `json:"per_order_fee"`
	PerOrderFeeCents money.Cents  `json:"per_order_fee_cents"`
	CreditAllotment  int          `json:"credit_allotment"`
	BonusCredits     int          `json:"bonus_credits"`
	Active           bool         `json:"active"`
}

// ToResponse converts a Plan to its API shape.
func (p Plan) ToResponse() Response {
	return Response{
		ID:               p.ID,
		Code:             p.Code,
		Name:             p.Name,
		PerOrderFee:      p.PerOrderFeeCents.String(),
		PerOrderFeeCents: p.PerOrderFeeCents,
		CreditAllotment:  p.CreditAllotment,
		BonusCredits:     p.BonusCredits,
		Active:           p.Active,
	}
}
