package supplier

import (
	"errors"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"supplier_server/core/domain"
)

// ErrNoMatch is the fail-fast signal of the criteria builder: at least one
// supplied filter value could not be turned into a predicate (malformed
// number, unknown enum token), so the whole search must yield an empty
// result instead of silently dropping the clause.
var ErrNoMatch = errors.New("unsatisfiable search criteria")

// Recognized query parameter names.
const (
	paramLastname      = "nachname"
	paramEmail         = "email"
	paramCategory      = "kategorie"
	paramPostalCode    = "plz"
	paramCity          = "ort"
	paramRevenueMin    = "umsatzmin"
	paramGender        = "geschlecht"
	paramMaritalStatus = "familienstand"
	paramInterests     = "interessen"
)

// Storage field names the criteria refer to.
const (
	fieldLastname      = "nachname"
	fieldEmail         = "email"
	fieldCategory      = "kategorie"
	fieldPostalCode    = "adresse.plz"
	fieldCity          = "adresse.ort"
	fieldRevenueAmount = "umsatz.betrag"
	fieldGender        = "geschlecht"
	fieldMaritalStatus = "familienstand"
	fieldInterests     = "interessen"
)

// BuildCriteria translates query parameters into a conjunction of filter
// criteria. Only keys with exactly one value are considered; unknown keys and
// multi-valued keys are ignored. Returns ErrNoMatch when any considered value
// is unparseable.
func BuildCriteria(params map[string][]string) ([]domain.Criterion, error) {
	var criteria []domain.Criterion

	for key, values := range params {
		if len(values) != 1 {
			continue
		}
		value := values[0]

		var (
			criterion *domain.Criterion
			err       error
		)
		switch key {
		case paramLastname:
			criterion = &domain.Criterion{Field: fieldLastname, Op: domain.MatchSubstring, Value: value}
		case paramEmail:
			criterion = &domain.Criterion{Field: fieldEmail, Op: domain.MatchPattern, Value: value}
		case paramCategory:
			criterion, err = categoryCriterion(value)
		case paramPostalCode:
			criterion = &domain.Criterion{Field: fieldPostalCode, Op: domain.MatchPrefix, Value: value}
		case paramCity:
			criterion = &domain.Criterion{Field: fieldCity, Op: domain.MatchSubstring, Value: value}
		case paramRevenueMin:
			criterion, err = revenueCriterion(value)
		case paramGender:
			criterion, err = genderCriterion(value)
		case paramMaritalStatus:
			criterion, err = maritalCriterion(value)
		case paramInterests:
			criterion, err = interestsCriterion(value)
		default:
			continue
		}

		if err != nil {
			return nil, err
		}
		criteria = append(criteria, *criterion)
	}

	return criteria, nil
}

func categoryCriterion(value string) (*domain.Criterion, error) {
	category, err := strconv.Atoi(value)
	if err != nil {
		return nil, ErrNoMatch
	}
	return &domain.Criterion{Field: fieldCategory, Op: domain.MatchEqual, Value: category}, nil
}

func revenueCriterion(value string) (*domain.Criterion, error) {
	if _, _, err := apd.NewFromString(value); err != nil {
		return nil, ErrNoMatch
	}
	return &domain.Criterion{Field: fieldRevenueAmount, Op: domain.MatchGTE, Value: value}, nil
}

func genderCriterion(value string) (*domain.Criterion, error) {
	gender, ok := domain.ParseGender(value)
	if !ok {
		return nil, ErrNoMatch
	}
	return &domain.Criterion{Field: fieldGender, Op: domain.MatchEqual, Value: string(gender)}, nil
}

func maritalCriterion(value string) (*domain.Criterion, error) {
	status, ok := domain.ParseMaritalStatus(value)
	if !ok {
		return nil, ErrNoMatch
	}
	return &domain.Criterion{Field: fieldMaritalStatus, Op: domain.MatchEqual, Value: string(status)}, nil
}

func interestsCriterion(value string) (*domain.Criterion, error) {
	tokens := strings.Split(value, ",")
	// Trailing empties (e.g. "S,,") are dropped; an empty list is invalid.
	for len(tokens) > 0 && tokens[len(tokens)-1] == "" {
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) == 0 {
		return nil, ErrNoMatch
	}

	interests := make([]string, 0, len(tokens))
	for _, token := range tokens {
		interest, ok := domain.ParseInterest(strings.TrimSpace(token))
		if !ok {
			return nil, ErrNoMatch
		}
		interests = append(interests, string(interest))
	}
	return &domain.Criterion{Field: fieldInterests, Op: domain.MatchAll, Value: interests}, nil
}
