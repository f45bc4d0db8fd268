package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// MovementKind tags a ledger entry. Each kind fixes the sign of its quantity.
type MovementKind string

const (
	MovementInit               MovementKind = "init"
	MovementPurchase           MovementKind = "purchase"
	MovementIssueToProduction  MovementKind = "issue_to_production"
	MovementReturn             MovementKind = "return"
	MovementAdjustmentPositive MovementKind = "adjustment+"
	MovementAdjustmentNegative MovementKind = "adjustment-"
)

const (
	MaxNotesLength    = 1000
	MaxRefTableLength = 64
	QuantityScale     = 4
)

// MaxQuantity is the largest magnitude a single movement may carry.
var MaxQuantity = decimal.RequireFromString("999999.9999")

// MovementKinds lists every kind in declaration order.
func MovementKinds() []MovementKind {
	return []MovementKind{
		MovementInit,
		MovementPurchase,
		MovementIssueToProduction,
		MovementReturn,
		MovementAdjustmentPositive,
		MovementAdjustmentNegative,
	}
}

// Sign returns +1 for kinds that add stock, -1 for kinds that remove it and 0 for unknown kinds.
func (k MovementKind) Sign() int {
	switch k {
	case MovementInit, MovementPurchase, MovementReturn, MovementAdjustmentPositive:
		return 1
	case MovementIssueToProduction, MovementAdjustmentNegative:
		return -1
	}
	return 0
}

func (k MovementKind) Valid() bool {
	return k.Sign() != 0
}

// SupplyMovement is one immutable ledger entry.
type SupplyMovement struct {
	ID           int64           `gorm:"column:id_supply_movement;primaryKey;autoIncrement" json:"id_supply_movement"`
	SupplyID     int64           `gorm:"column:id_supply;not null;index:idx_supply_movements_history,priority:1" json:"id_supply"`
	MovementDate time.Time       `gorm:"column:movement_date;not null;index:idx_supply_movements_history,priority:2" json:"movement_date"`
	Quantity     decimal.Decimal `gorm:"column:quantity;type:decimal(18,4);not null" json:"quantity"`
	Kind         MovementKind    `gorm:"column:movement_type;type:varchar(32);not null" json:"movement_type"`
	RefTable     *string         `gorm:"column:ref_table;type:varchar(64)" json:"ref_table"`
	RefID        *int64          `gorm:"column:ref_id" json:"ref_id"`
	Notes        *string         `gorm:"column:notes;type:varchar(1000)" json:"notes"`
	CreatedAt    time.Time       `gorm:"column:created_at" json:"created_at"`
	Supply       *Supply         `gorm:"foreignKey:SupplyID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (SupplyMovement) TableName() string {
	return "supply_movements"
}

// Validate checks the invariants every persisted movement must satisfy.
func (m SupplyMovement) Validate() Violations {
	var v Violations
	if m.SupplyID <= 0 {
		v.Add("id_supply", "id_supply is required")
	}
	validateSignedQuantity(&v, m.Kind, m.Quantity)
	return v
}

// MovementEntry is a ledger entry as returned by history queries.
type MovementEntry struct {
	SupplyMovement
	SupplyDescription string `gorm:"column:supply_description" json:"supply_description"`
}

// MovementInput is a proposed movement, validated before any storage is touched.
type MovementInput struct {
	SupplyID int64
	Kind     MovementKind
	Quantity decimal.Decimal
	Date     *time.Time
	RefTable *string
	RefID    *int64
	Notes    *string
}

func (in MovementInput) Validate() Violations {
	var v Violations
	if in.SupplyID <= 0 {
		v.Add("id_supply", "id_supply must be a positive integer")
	}
	validateSignedQuantity(&v, in.Kind, in.Quantity)
	if in.Notes != nil && utf8.RuneCountInString(*in.Notes) > MaxNotesLength {
		v.Add("notes", "notes cannot exceed 1000 characters")
	}
	switch {
	case in.RefTable == nil && in.RefID == nil:
	case in.RefTable == nil || in.RefID == nil:
		v.Add("ref_table", "ref_table and ref_id must be provided together")
	default:
		if t := strings.TrimSpace(*in.RefTable); t == "" || len(t) > MaxRefTableLength {
			v.Add("ref_table", "ref_table must be between 1 and 64 characters")
		}
		if *in.RefID <= 0 {
			v.Add("ref_id", "ref_id must be a positive integer")
		}
	}
	return v
}

// Movement builds the ledger row for a valid input. The timestamp defaults to now.
func (in MovementInput) Movement(now time.Time) *SupplyMovement {
	date := now
	if in.Date != nil && !in.Date.IsZero() {
		date = *in.Date
	}
	m := &SupplyMovement{
		SupplyID:     in.SupplyID,
		MovementDate: date,
		Quantity:     in.Quantity,
		Kind:         in.Kind,
		RefID:        in.RefID,
	}
	if in.RefTable != nil {
		t := strings.TrimSpace(*in.RefTable)
		m.RefTable = &t
	}
	if in.Notes != nil && *in.Notes != "" {
		n := *in.Notes
		m.Notes = &n
	}
	return m
}

// ValidateAmount checks a caller-supplied magnitude: positive, bounded, at most four decimals.
func ValidateAmount(field string, q decimal.Decimal) Violations {
	var v Violations
	switch {
	case !q.IsPositive():
		v.Add(field, field+" must be greater than 0")
	case q.GreaterThan(MaxQuantity):
		v.Add(field, field+" cannot exceed 999999.9999")
	case !q.Equal(q.Truncate(QuantityScale)):
		v.Add(field, field+" cannot have more than 4 decimal places")
	}
	return v
}

func validateSignedQuantity(v *Violations, kind MovementKind, q decimal.Decimal) {
	if !kind.Valid() {
		v.Add("movement_type", "invalid movement type")
	}
	if q.IsZero() {
		v.Add("quantity", "quantity cannot be zero")
		return
	}
	if q.Abs().GreaterThan(MaxQuantity) {
		v.Add("quantity", "quantity cannot exceed 999999.9999")
	}
	if !q.Equal(q.Truncate(QuantityScale)) {
		v.Add("quantity", "quantity cannot have more than 4 decimal places")
	}
	switch kind.Sign() {
	case 1:
		if q.IsNegative() {
			v.Add("quantity", "movement type '"+string(kind)+"' requires a positive quantity")
		}
	case -1:
		if q.IsPositive() {
			v.Add("quantity", "movement type '"+string(kind)+"' requires a negative quantity")
		}
	}
}
