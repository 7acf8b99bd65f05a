package supplier

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"supplier_server/core/domain"
)

func TestBuildCriteria(t *testing.T) {
	tests := []struct {
		name   string
		params map[string][]string
		want   []domain.Criterion
	}{
		{
			name:   "lastname substring",
			params: map[string][]string{"nachname": {"mann"}},
			want: []domain.Criterion{
				{Field: "nachname", Op: domain.MatchSubstring, Value: "mann"},
			},
		},
		{
			name:   "category equality",
			params: map[string][]string{"kategorie": {"3"}},
			want: []domain.Criterion{
				{Field: "kategorie", Op: domain.MatchEqual, Value: 3},
			},
		},
		{
			name:   "postal code prefix",
			params: map[string][]string{"plz": {"76"}},
			want: []domain.Criterion{
				{Field: "adresse.plz", Op: domain.MatchPrefix, Value: "76"},
			},
		},
		{
			name:   "revenue minimum keeps the raw decimal",
			params: map[string][]string{"umsatzmin": {"1000.50"}},
			want: []domain.Criterion{
				{Field: "umsatz.betrag", Op: domain.MatchGTE, Value: "1000.50"},
			},
		},
		{
			name:   "gender by code",
			params: map[string][]string{"geschlecht": {"w"}},
			want: []domain.Criterion{
				{Field: "geschlecht", Op: domain.MatchEqual, Value: "W"},
			},
		},
		{
			name:   "gender by name",
			params: map[string][]string{"geschlecht": {"weiblich"}},
			want: []domain.Criterion{
				{Field: "geschlecht", Op: domain.MatchEqual, Value: "W"},
			},
		},
		{
			name:   "interests list with mixed tokens",
			params: map[string][]string{"interessen": {"S,lesen"}},
			want: []domain.Criterion{
				{Field: "interessen", Op: domain.MatchAll, Value: []string{"S", "L"}},
			},
		},
		{
			name:   "trailing comma is tolerated",
			params: map[string][]string{"interessen": {"S,"}},
			want: []domain.Criterion{
				{Field: "interessen", Op: domain.MatchAll, Value: []string{"S"}},
			},
		},
		{
			name:   "unknown key ignored",
			params: map[string][]string{"farbe": {"rot"}},
			want:   nil,
		},
		{
			name:   "multi-valued key ignored",
			params: map[string][]string{"nachname": {"a", "b"}},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildCriteria(tt.params)
			if err != nil {
				t.Fatalf("BuildCriteria() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("criteria mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildCriteriaNoMatch(t *testing.T) {
	tests := []struct {
		name   string
		params map[string][]string
	}{
		{name: "non-numeric category", params: map[string][]string{"kategorie": {"drei"}}},
		{name: "malformed revenue", params: map[string][]string{"umsatzmin": {"10x"}}},
		{name: "unknown gender", params: map[string][]string{"geschlecht": {"x"}}},
		{name: "unknown marital status", params: map[string][]string{"familienstand": {"single"}}},
		{name: "unknown interest token", params: map[string][]string{"interessen": {"S,golf"}}},
		{name: "empty interests", params: map[string][]string{"interessen": {""}}},
		{
			name: "one bad value poisons the whole query",
			params: map[string][]string{
				"nachname":  {"mann"},
				"kategorie": {"drei"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildCriteria(tt.params)
			if !errors.Is(err, ErrNoMatch) {
				t.Fatalf("BuildCriteria() error = %v, want ErrNoMatch", err)
			}
			if got != nil {
				t.Errorf("criteria = %v, want nil", got)
			}
		})
	}
}
