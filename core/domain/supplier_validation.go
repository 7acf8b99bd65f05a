package domain

import (
	"net/url"
	"regexp"
	"time"
)

// Violation is a single field-level constraint violation.
type Violation struct {
	Property string `json:"property"`
	Message  string `json:"message"`
}

// Field patterns applied by Validate.
const (
	idPattern       = `^[\dA-Fa-f]{8}-[\dA-Fa-f]{4}-[\dA-Fa-f]{4}-[\dA-Fa-f]{4}-[\dA-Fa-f]{12}$`
	namePart        = `[A-ZÄÖÜ][a-zäöüß]+`
	lastnamePattern = `^(o'|von|von der|von und zu|van)?` + namePart + `(-` + namePart + `)?$`
	emailPattern    = `^[^@\s]+@[^@\s]+\.[^@\s]+$`
	postalPattern   = `^\d{5}$`

	// MinCategory and MaxCategory bound the kategorie field.
	MinCategory = 0
	MaxCategory = 9
)

var (
	idRegexp       = regexp.MustCompile(idPattern)
	lastnameRegexp = regexp.MustCompile(lastnamePattern)
	emailRegexp    = regexp.MustCompile(emailPattern)
	postalRegexp   = regexp.MustCompile(postalPattern)
)

// IsValidID reports whether s matches the UUID pattern used for record ids.
func IsValidID(s string) bool { return idRegexp.MatchString(s) }

// Validate checks every field constraint and returns the list of violations,
// or nil if the supplier is valid. Messages are German, matching the wire
// language of the rest of the API.
func (s *Supplier) Validate() []Violation {
	var violations []Violation

	if s.LastName == "" {
		violations = append(violations, Violation{"nachname", "Ein Nachname ist erforderlich"})
	} else if !lastnameRegexp.MatchString(s.LastName) {
		violations = append(violations,
			Violation{"nachname", "Ein gueltiger Nachname besteht aus Buchstaben und beginnt mit einem Grossbuchstaben"})
	}

	if s.Email == "" {
		violations = append(violations, Violation{"email", "Eine Emailadresse ist erforderlich"})
	} else if !emailRegexp.MatchString(s.Email) {
		violations = append(violations, Violation{"email", "Eine gueltige Emailadresse ist erforderlich"})
	}

	if s.Category < MinCategory || s.Category > MaxCategory {
		violations = append(violations, Violation{"kategorie", "Die Kategorie muss zwischen 0 und 9 liegen"})
	}

	if s.Birthdate != nil && !s.Birthdate.Before(nowFunc()) {
		violations = append(violations, Violation{"geburtsdatum", "Das Geburtsdatum muss in der Vergangenheit liegen"})
	}

	if s.Homepage != "" {
		if u, err := url.Parse(s.Homepage); err != nil || u.Scheme == "" || u.Host == "" {
			violations = append(violations, Violation{"homepage", "Die Homepage muss eine gueltige URL sein"})
		}
	}

	if dup := firstDuplicateInterest(s.Interests); dup != nil {
		violations = append(violations, Violation{"interessen", "Interessen duerfen nicht mehrfach vorkommen"})
	}

	if !postalRegexp.MatchString(s.Address.PostalCode) {
		violations = append(violations, Violation{"adresse.plz", "Die Postleitzahl muss aus genau 5 Ziffern bestehen"})
	}
	if s.Address.City == "" {
		violations = append(violations, Violation{"adresse.ort", "Ein Ort ist erforderlich"})
	}

	return violations
}

func firstDuplicateInterest(interests []Interest) *Interest {
	seen := make(map[Interest]struct{}, len(interests))
	for _, i := range interests {
		if _, ok := seen[i]; ok {
			dup := i
			return &dup
		}
		seen[i] = struct{}{}
	}
	return nil
}

// nowFunc is swapped in tests for deterministic birthdate checks.
var nowFunc = time.Now
