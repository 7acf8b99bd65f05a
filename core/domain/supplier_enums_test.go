package domain

import "testing"

func TestParseGender(t *testing.T) {
	tests := []struct {
		token string
		want  Gender
		ok    bool
	}{
		{"M", GenderMale, true},
		{"m", GenderMale, true},
		{"WEIBLICH", GenderFemale, true},
		{"divers", GenderDiverse, true},
		{"x", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseGender(tt.token)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseGender(%q) = (%q, %v), want (%q, %v)", tt.token, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseDeliveryTime(t *testing.T) {
	tests := []struct {
		token string
		want  DeliveryTime
		ok    bool
	}{
		{"K", DeliveryShort, true},
		{"ml", DeliveryMedium, true},
		{"mittellang", DeliveryMedium, true},
		{"LANG", DeliveryLong, true},
		{"sofort", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseDeliveryTime(tt.token)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseDeliveryTime(%q) = (%q, %v), want (%q, %v)", tt.token, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseMaritalStatus(t *testing.T) {
	tests := []struct {
		token string
		want  MaritalStatus
		ok    bool
	}{
		{"VH", MaritalMarried, true},
		{"verheiratet", MaritalMarried, true},
		{"vw", MaritalWidowed, true},
		{"geschieden", MaritalDivorced, true},
		{"single", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseMaritalStatus(tt.token)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseMaritalStatus(%q) = (%q, %v), want (%q, %v)", tt.token, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseInterest(t *testing.T) {
	tests := []struct {
		token string
		want  Interest
		ok    bool
	}{
		{"S", InterestSport, true},
		{"SPORT", InterestSport, true},
		{"lesen", InterestReading, true},
		{"r", InterestTravel, true},
		{"golf", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseInterest(tt.token)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseInterest(%q) = (%q, %v), want (%q, %v)", tt.token, got, ok, tt.want, tt.ok)
		}
	}
}
