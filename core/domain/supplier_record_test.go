package domain

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestSupplierJSON(t *testing.T) {
	payload := `{
		"nachname": "Zimmer",
		"email": "zimmer@acme.com",
		"kategorie": 4,
		"newsletter": true,
		"geburtsdatum": "1980-05-05",
		"umsatz": {"betrag": "10000000.123", "waehrung": "EUR"},
		"geschlecht": "W",
		"lieferzeit": "ML",
		"familienstand": "VH",
		"interessen": ["S", "L"],
		"adresse": {"plz": "76133", "ort": "Karlsruhe"},
		"user": {"username": "zimmer", "password": "p"}
	}`

	var s Supplier
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if s.LastName != "Zimmer" || s.Category != 4 || !s.Newsletter {
		t.Errorf("scalar fields = %+v", s)
	}
	if s.Birthdate == nil || s.Birthdate.String() != "1980-05-05" {
		t.Errorf("birthdate = %v, want 1980-05-05", s.Birthdate)
	}
	if s.Revenue == nil || s.Revenue.Amount.String() != "10000000.123" || s.Revenue.Currency != "EUR" {
		t.Errorf("revenue = %+v", s.Revenue)
	}
	if s.Gender != GenderFemale || s.DeliveryTime != DeliveryMedium || s.MaritalStatus != MaritalMarried {
		t.Errorf("enums = %q %q %q", s.Gender, s.DeliveryTime, s.MaritalStatus)
	}
	if len(s.Interests) != 2 || s.Interests[0] != InterestSport {
		t.Errorf("interests = %v", s.Interests)
	}
	if s.Account == nil || s.Account.Username != "zimmer" {
		t.Errorf("account = %+v", s.Account)
	}

	s.ID = "00000000-0000-0000-0000-000000000001"
	s.Version = 7

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	out := string(data)

	// Id and version never leak into the wire format.
	if strings.Contains(out, "00000000-0000-0000-0000-000000000001") {
		t.Error("id serialized")
	}
	if strings.Contains(out, `"geburtsdatum":"1980-05-05"`) == false {
		t.Errorf("date serialization: %s", out)
	}
	if !strings.Contains(out, `"betrag":"10000000.123"`) {
		t.Errorf("decimal serialization: %s", out)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := validSupplier()
	s.Birthdate = NewDate(1980, 5, 5)
	s.Interests = []Interest{InterestSport}
	s.Links = map[string]Link{"self": {Href: "x"}}

	clone := s.Clone()
	clone.Birthdate.Time = clone.Birthdate.AddDate(1, 0, 0)
	clone.Interests[0] = InterestTravel

	if s.Birthdate.String() != "1980-05-05" {
		t.Errorf("birthdate of the source changed: %v", s.Birthdate)
	}
	if s.Interests[0] != InterestSport {
		t.Errorf("interests of the source changed: %v", s.Interests)
	}
	if clone.Links != nil {
		t.Error("links must not be cloned")
	}
}
