package supplier

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"supplier_server/core/domain"
	"supplier_server/pkg/apperr"
)

// PatchOp is a single JSON-Patch-like operation. Values arrive as strings and
// are converted according to the declared type of the target field.
type PatchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value string `json:"value"`
}

// Patch operation names.
const (
	opReplace = "replace"
	opAdd     = "add"
	opRemove  = "remove"
)

// ApplyPatch applies the operations in order to a copy of the supplier and
// returns the patched candidate. The input is never mutated; a failure on any
// operation aborts the whole batch and discards prior changes.
func ApplyPatch(original domain.Supplier, ops []PatchOp) (domain.Supplier, error) {
	patched := original.Clone()

	for _, op := range ops {
		var err error
		switch op.Op {
		case opReplace:
			err = applyReplace(&patched, op.Path, op.Value)
		case opAdd:
			err = applyAdd(&patched, op.Path, op.Value)
		case opRemove:
			err = applyRemove(&patched, op.Path, op.Value)
		default:
			err = apperr.UnsupportedOperation(op.Op)
		}
		if err != nil {
			return domain.Supplier{}, err
		}
	}

	return patched, nil
}

func applyReplace(s *domain.Supplier, path, value string) error {
	switch path {
	case "/nachname":
		s.LastName = value
	case "/email":
		s.Email = value
	case "/kategorie":
		category, err := strconv.Atoi(value)
		if err != nil {
			return conversionFailure("kategorie", value)
		}
		s.Category = category
	case "/newsletter":
		flag, err := strconv.ParseBool(value)
		if err != nil {
			return conversionFailure("newsletter", value)
		}
		s.Newsletter = flag
	case "/geburtsdatum":
		date, err := domain.ParseDate(value)
		if err != nil {
			return conversionFailure("geburtsdatum", value)
		}
		s.Birthdate = date
	case "/umsatz/betrag":
		amount, _, err := apd.NewFromString(value)
		if err != nil {
			return conversionFailure("umsatz.betrag", value)
		}
		if s.Revenue == nil {
			s.Revenue = &domain.Revenue{}
		}
		s.Revenue.Amount = amount
	case "/homepage":
		s.Homepage = value
	case "/geschlecht":
		gender, ok := domain.ParseGender(value)
		if !ok {
			return conversionFailure("geschlecht", value)
		}
		s.Gender = gender
	case "/lieferzeit":
		delivery, ok := domain.ParseDeliveryTime(value)
		if !ok {
			return conversionFailure("lieferzeit", value)
		}
		s.DeliveryTime = delivery
	case "/familienstand":
		status, ok := domain.ParseMaritalStatus(value)
		if !ok {
			return conversionFailure("familienstand", value)
		}
		s.MaritalStatus = status
	case "/adresse/plz":
		s.Address.PostalCode = value
	case "/adresse/ort":
		s.Address.City = value
	default:
		return apperr.UnsupportedPath(path)
	}
	return nil
}

// applyAdd appends a value to a collection-valued path. Adding an already
// present value is a no-op; uniqueness is validated downstream.
func applyAdd(s *domain.Supplier, path, value string) error {
	if path != "/interessen" {
		return apperr.UnsupportedPath(path)
	}
	interest, ok := domain.ParseInterest(value)
	if !ok {
		return conversionFailure("interessen", value)
	}
	if s.HasInterest(interest) {
		return nil
	}
	s.Interests = append(s.Interests, interest)
	return nil
}

// applyRemove removes the first matching element; removing an absent value is
// a no-op.
func applyRemove(s *domain.Supplier, path, value string) error {
	if path != "/interessen" {
		return apperr.UnsupportedPath(path)
	}
	interest, ok := domain.ParseInterest(value)
	if !ok {
		return conversionFailure("interessen", value)
	}
	for i, have := range s.Interests {
		if have == interest {
			s.Interests = append(s.Interests[:i], s.Interests[i+1:]...)
			break
		}
	}
	return nil
}

func conversionFailure(property, value string) error {
	return apperr.Validation([]domain.Violation{{
		Property: property,
		Message:  "Ungueltiger Wert " + strings.TrimSpace(value),
	}})
}
