// Package domain contains the restaurant configuration models: the persisted
// rows, the settings document stored as a JSON blob, and the in-memory
// snapshot the editor works on.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ordinlampo/ordinlampo/internal/money"
	plandomain "github.com/ordinlampo/ordinlampo/internal/plan/domain"
	"gorm.io/datatypes"
)

// Restaurant is the primary per-tenant row. Settings holds the full editable
// configuration as one JSON document, last-writer-wins.
type Restaurant struct {
	ID                 snowflake.ID                  `gorm:"primaryKey"`
	Name               string                        `gorm:"type:text;not null"`
	WhatsappNumber     string                        `gorm:"type:text"`
	DeliveryEnabled    bool                          `gorm:"not null;default:true"`
	PlanCode           string                        `gorm:"type:text"`
	SubscriptionStatus plandomain.SubscriptionStatus `gorm:"type:text"`
	BillingEmail       *string                       `gorm:"type:text"`
	Settings           datatypes.JSON                `gorm:"type:jsonb"`
	CreatedAt          time.Time                     `gorm:"not null"`
	UpdatedAt          time.Time                     `gorm:"not null"`
}

// TableName sets the database table name.
func (Restaurant) TableName() string { return "restaurants" }

// OperatingMode is the mirrored settings row consumed by the ordering
// frontend. The delivery flag is written here alongside the primary row.
type OperatingMode struct {
	RestaurantID    snowflake.ID `gorm:"primaryKey"`
	DeliveryEnabled bool         `gorm:"not null;default:true"`
	UpdatedAt       time.Time    `gorm:"not null"`
}

// TableName sets the database table name.
func (OperatingMode) TableName() string { return "restaurant_settings" }

// DeliveryZone is a named delivery area with a flat fee and an estimated
// delivery time label.
type DeliveryZone struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	FeeCents      money.Cents `json:"fee_cents"`
	EstimatedTime string      `json:"estimated_time"`
	Active        bool        `json:"active"`
}

// SizeTier is one bowl format with its base price.
type SizeTier struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	PriceCents money.Cents `json:"price_cents"`
}

// ExtraPrices holds the per-unit surcharge for each extra category.
type ExtraPrices struct {
	ProteinCents    money.Cents `json:"protein_cents"`
	IngredientCents money.Cents `json:"ingredient_cents"`
	SauceCents      money.Cents `json:"sauce_cents"`
}

// ExtraCategory names one key of ExtraPrices.
type ExtraCategory string

const (
	ExtraProtein    ExtraCategory = "protein"
	ExtraIngredient ExtraCategory = "ingredient"
	ExtraSauce      ExtraCategory = "sauce"
)

// FloorDelivery is the optional to-the-door surcharge. The fee is ignored by
// consumers while the option is disabled.
type FloorDelivery struct {
	Enabled  bool        `json:"enabled"`
	FeeCents money.Cents `json:"fee_cents"`
}

// SettingsDocument is the persisted shape of the configuration blob. Every
// field is optional so that a partially-populated document never clobbers
// application defaults on load: the merge is field-by-field.
type SettingsDocument struct {
	DeliveryZones  []DeliveryZone `json:"delivery_zones,omitempty"`
	SizeTiers      []SizeTier     `json:"size_tiers,omitempty"`
	ExtraPrices    *ExtraPrices   `json:"extra_prices,omitempty"`
	FloorDelivery  *FloorDelivery `json:"floor_delivery,omitempty"`
	RiderTipCents  *money.Cents   `json:"rider_tip_cents,omitempty"`
	WhatsappNumber string         `json:"whatsapp_number,omitempty"`
	RestaurantName string         `json:"restaurant_name,omitempty"`
	LastUpdated    *time.Time     `json:"last_updated,omitempty"`
}

// Snapshot is the in-memory editable state for one restaurant.
type Snapshot struct {
	RestaurantID       snowflake.ID                  `json:"restaurant_id"`
	Name               string                        `json:"name"`
	WhatsappNumber     string                        `json:"whatsapp_number"`
	DeliveryEnabled    bool                          `json:"delivery_enabled"`
	PlanCode           string                        `json:"plan_code"`
	SubscriptionStatus plandomain.SubscriptionStatus `json:"subscription_status"`
	Zones              []DeliveryZone                `json:"zones"`
	Sizes              []SizeTier                    `json:"sizes"`
	Extras             ExtraPrices                   `json:"extras"`
	FloorDelivery      FloorDelivery                 `json:"floor_delivery"`
	RiderTipCents      money.Cents                   `json:"rider_tip_cents"`
}

// DefaultSnapshot returns the configuration a restaurant starts from before
// any stored document is merged in.
func DefaultSnapshot(restaurantID snowflake.ID) Snapshot {
	return Snapshot{
		RestaurantID:    restaurantID,
		DeliveryEnabled: true,
		Zones:           nil,
		Sizes: []SizeTier{
			{ID: "small", Name: "Piccola", PriceCents: 850},
			{ID: "medium", Name: "Media", PriceCents: 1050},
			{ID: "large", Name: "Grande", PriceCents: 1250},
		},
		Extras: ExtraPrices{
			ProteinCents:    100,
			IngredientCents: 50,
			SauceCents:      30,
		},
		FloorDelivery: FloorDelivery{Enabled: true, FeeCents: 150},
		RiderTipCents: 100,
	}
}

// Document serializes the snapshot into the persisted settings shape.
func (s Snapshot) Document(now time.Time) SettingsDocument {
	extras := s.Extras
	floor := s.FloorDelivery
	tip := s.RiderTipCents
	return SettingsDocument{
		DeliveryZones:  append([]DeliveryZone(nil), s.Zones...),
		SizeTiers:      append([]SizeTier(nil), s.Sizes...),
		ExtraPrices:    &extras,
		FloorDelivery:  &floor,
		RiderTipCents:  &tip,
		WhatsappNumber: s.WhatsappNumber,
		RestaurantName: s.Name,
		LastUpdated:    &now,
	}
}

// ZonePatch is a shallow partial update of one delivery zone. Raw fee input
// is kept as a string so an unparsable edit can retain the previous value.
type ZonePatch struct {
	Name          *string `json:"name"`
	FeeRaw        *string `json:"fee"`
	EstimatedTime *string `json:"estimated_time"`
	Active        *bool   `json:"active"`
}

// ProfilePatch updates the restaurant profile fields.
type ProfilePatch struct {
	Name           *string `json:"name"`
	WhatsappNumber *string `json:"whatsapp_number"`
}

// Record is what the store returns for one restaurant: the profile columns
// plus the decoded settings document.
type Record struct {
	ID                 snowflake.ID
	Name               string
	WhatsappNumber     string
	DeliveryEnabled    bool
	PlanCode           string
	SubscriptionStatus plandomain.SubscriptionStatus
	Settings           SettingsDocument
}
