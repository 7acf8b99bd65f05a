// Package domain holds the supplier aggregate and its value types.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// Supplier is the aggregate root of this service. ID and Version are managed
// by the repository and never serialized to clients; ETag headers carry the
// version instead.
type Supplier struct {
	ID      string `json:"-"`
	Version int    `json:"-"`

	LastName      string        `json:"nachname"`
	Email         string        `json:"email"`
	Category      int           `json:"kategorie"`
	Newsletter    bool          `json:"newsletter"`
	Birthdate     *Date         `json:"geburtsdatum,omitempty"`
	Revenue       *Revenue      `json:"umsatz,omitempty"`
	Terms         *Terms        `json:"kondition,omitempty"`
	Homepage      string        `json:"homepage,omitempty"`
	Gender        Gender        `json:"geschlecht,omitempty"`
	DeliveryTime  DeliveryTime  `json:"lieferzeit,omitempty"`
	MaritalStatus MaritalStatus `json:"familienstand,omitempty"`
	Interests     []Interest    `json:"interessen,omitempty"`
	Address       Address       `json:"adresse"`

	// Username links the supplier 1:1 to its account in the identity store.
	Username string `json:"username,omitempty"`

	// Account is the pending account payload attached to a create request.
	// It is never persisted with the supplier document.
	Account *Account `json:"user,omitempty"`

	// HATEOAS links, only populated on responses.
	Links     map[string]Link `json:"_links,omitempty"`
	ItemLinks []ItemLink      `json:"links,omitempty"`
}

// Revenue is an amount with its currency unit.
type Revenue struct {
	Amount   *apd.Decimal `json:"betrag"`
	Currency string       `json:"waehrung"`
}

// Terms are the condition terms granted by a supplier.
type Terms struct {
	Discount *apd.Decimal `json:"skonto"`
	Rebate   *apd.Decimal `json:"rabatt"`
	Bonus    *apd.Decimal `json:"bonus"`
	Currency string       `json:"waehrung"`
}

// Address of a supplier. The postal code is always exactly five digits.
type Address struct {
	PostalCode string `json:"plz"`
	City       string `json:"ort"`
}

// Account carries the credentials for the paired identity record.
type Account struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	Roles    []string `json:"rollen,omitempty"`
}

// User is a persisted identity record paired with a supplier via username.
type User struct {
	ID       string   `json:"-"`
	Username string   `json:"username"`
	Password string   `json:"-"`
	Roles    []string `json:"rollen"`
}

// Link is a single HATEOAS link.
type Link struct {
	Href string `json:"href"`
}

// ItemLink is a HATEOAS link attached to list items.
type ItemLink struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// Date is a calendar date without a time component, serialized as ISO-8601
// (yyyy-mm-dd).
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate builds a Date from year, month and day.
func NewDate(year int, month time.Month, day int) *Date {
	return &Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses yyyy-mm-dd.
func ParseDate(s string) (*Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return &Date{Time: t}, nil
}

func (d Date) String() string { return d.Format(dateLayout) }

// MarshalJSON serializes the date as "yyyy-mm-dd".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON accepts "yyyy-mm-dd".
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Clone returns a deep copy of the supplier. Patch and update work on clones
// so the stored snapshot (and any cached alias of it) is never mutated.
func (s Supplier) Clone() Supplier {
	clone := s
	if s.Birthdate != nil {
		b := *s.Birthdate
		clone.Birthdate = &b
	}
	if s.Revenue != nil {
		r := Revenue{Currency: s.Revenue.Currency}
		if s.Revenue.Amount != nil {
			r.Amount = new(apd.Decimal).Set(s.Revenue.Amount)
		}
		clone.Revenue = &r
	}
	if s.Terms != nil {
		t := Terms{Currency: s.Terms.Currency}
		if s.Terms.Discount != nil {
			t.Discount = new(apd.Decimal).Set(s.Terms.Discount)
		}
		if s.Terms.Rebate != nil {
			t.Rebate = new(apd.Decimal).Set(s.Terms.Rebate)
		}
		if s.Terms.Bonus != nil {
			t.Bonus = new(apd.Decimal).Set(s.Terms.Bonus)
		}
		clone.Terms = &t
	}
	if s.Interests != nil {
		clone.Interests = append([]Interest(nil), s.Interests...)
	}
	clone.Links = nil
	clone.ItemLinks = nil
	clone.Account = nil
	if s.Account != nil {
		a := *s.Account
		a.Roles = append([]string(nil), s.Account.Roles...)
		clone.Account = &a
	}
	return clone
}

// HasInterest reports whether the given interest is present.
func (s *Supplier) HasInterest(i Interest) bool {
	for _, have := range s.Interests {
		if have == i {
			return true
		}
	}
	return false
}
