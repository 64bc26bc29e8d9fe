// Package event defines the typed metric events accepted by the
// ingestion endpoint and their per-variant validation rules.
package event

import "time"

// Type discriminates the closed set of event variants.
type Type string

const (
	TypeRevenue            Type = "REVENUE"
	TypeActive             Type = "ACTIVE"
	TypeSubscriptionStart  Type = "SUBSCRIPTION_START"
	TypeSubscriptionCancel Type = "SUBSCRIPTION_CANCEL"
	TypeSignup             Type = "SIGNUP"
)

// Known reports whether t is a member of the closed type set.
func (t Type) Known() bool {
	switch t {
	case TypeRevenue, TypeActive, TypeSubscriptionStart, TypeSubscriptionCancel, TypeSignup:
		return true
	}
	return false
}

// Incoming is one item of the POST /v1/ingest payload as received on the
// wire. Optional fields are pointers so "absent" and "zero" stay distinct.
type Incoming struct {
	Type       string   `json:"type"`
	Value      *float64 `json:"value,omitempty"`
	UserID     *string  `json:"userId,omitempty"`
	EventID    *string  `json:"eventId,omitempty"`
	OccurredAt string   `json:"occurredAt"`
}

// Validated is an Incoming item that passed variant validation, with the
// timestamp parsed and normalized to UTC.
type Validated struct {
	Type       Type
	Value      *float64
	UserID     *string
	EventID    *string
	OccurredAt time.Time
}

// Row is a storage row ready for the bulk insert. Unset optional fields
// stay nil and become SQL NULLs.
type Row struct {
	ProjectID  string
	Type       Type
	Value      *float64
	UserID     *string
	EventID    *string
	OccurredAt time.Time
}
