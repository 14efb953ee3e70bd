package models

import (
	"encoding/json"
	"strconv"
)

// Split policies. SplitTypeAll divides an expense among every current event
// member; SplitTypeSelect divides it among the ids listed in SplitBetween.
const (
	SplitTypeAll    = "all"
	SplitTypeSelect = "select"
)

// Expense represents a shared cost within an event.
type Expense struct {
	// ID is the store-generated key of the expense record.
	ID string `json:"id,omitempty"`

	// Name is the short label for the expense (e.g. "Groceries").
	Name string `json:"name"`

	// Description is optional free text.
	Description string `json:"description,omitempty"`

	// Amount is the cost in the event's currency. Decoding is permissive:
	// numbers and numeric strings parse, anything else becomes 0.
	Amount Amount `json:"amount"`

	// PaidBy is the payer's display name, kept denormalized so expenses
	// added for guests without accounts still show a payer.
	PaidBy string `json:"paidBy"`

	// PaidByUserID is the payer's member id when known. Balance computation
	// prefers it over PaidBy.
	PaidByUserID string `json:"paidByUserId,omitempty"`

	// VenmoUsername is an optional payment handle for the payer.
	VenmoUsername string `json:"venmoUsername,omitempty"`

	// SplitType is "all" or "select".
	SplitType string `json:"splitType"`

	// SplitBetween is either the literal "all" or an explicit list of
	// member ids. See the SplitBetween type for the decoding rules.
	SplitBetween SplitBetween `json:"splitBetween"`

	// Category buckets the expense for reporting; empty means "other".
	Category string `json:"category,omitempty"`

	// Date is the ISO 8601 date the expense occurred.
	Date string `json:"date,omitempty"`

	// ReceiptURL optionally links a receipt image.
	ReceiptURL string `json:"receiptUrl,omitempty"`

	// AddedBy is the user id that created the record.
	AddedBy string `json:"addedBy,omitempty"`

	CreatedAt int64 `json:"createdAt,omitempty"`
	UpdatedAt int64 `json:"updatedAt,omitempty"`
}

// Amount is a non-negative currency value with permissive JSON decoding:
// a number or a numeric string parses normally, and anything unparsable
// (null, objects, junk strings) decodes to 0 rather than erroring. Stored
// expense records are not schema-enforced, so decoding must never fail.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*a = Amount(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			*a = Amount(n)
			return nil
		}
	}
	*a = 0
	return nil
}

// SplitBetween is the set of member ids sharing an expense. The stored field
// is either the literal string "all" or an array of ids, so it needs custom
// JSON handling. A zero SplitBetween means "no one" (the expense debits
// nothing), matching how records with a missing split policy behave.
type SplitBetween struct {
	// All is true when the stored value is the literal "all".
	All bool

	// Members holds the explicit id list when All is false.
	Members []string
}

// SplitBetweenAll is the "all" sentinel as a SplitBetween value.
func SplitBetweenAll() SplitBetween {
	return SplitBetween{All: true}
}

// SplitBetweenMembers builds an explicit-list split set.
func SplitBetweenMembers(ids []string) SplitBetween {
	return SplitBetween{Members: ids}
}

func (s SplitBetween) MarshalJSON() ([]byte, error) {
	if s.All {
		return json.Marshal("all")
	}
	if s.Members == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(s.Members)
}

func (s *SplitBetween) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = SplitBetween{All: str == "all"}
		return nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err == nil {
		*s = SplitBetween{Members: ids}
		return nil
	}
	*s = SplitBetween{}
	return nil
}
