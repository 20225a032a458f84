package models

import "time"

// LoginCount is the aggregate login volume of one calendar day
// (a day-bucket) stored in the "amount-login" collection.
type LoginCount struct {
	// FirstTime is the start of the calendar day the bucket belongs to.
	// At most one bucket exists per FirstTime.
	FirstTime time.Time `json:"firstTime,omitzero" bson:"firstTime,omitempty"`

	// AmountLogin is the running number of logins recorded for the day.
	AmountLogin int64 `json:"amountLogin" bson:"amountLogin"`

	CreatedAt time.Time `json:"createdAt,omitzero" bson:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitzero" bson:"updatedAt,omitempty"`
}

// CollectionName returns the name of the collection (table) that stores
// day-buckets.
func (l LoginCount) CollectionName() string {
	return "amount-login"
}

// LoginEvent reports a number of logins that happened since the previous event.
type LoginEvent struct {
	AmountLogin int64 `json:"amountLogin"`
}

// DateQuery selects a calendar day. Date is either an RFC 3339 timestamp or a
// plain date ("2024-03-13"); only its calendar day matters and the day
// boundaries are computed in the service reference timezone.
type DateQuery struct {
	Date string `json:"date"`
}
