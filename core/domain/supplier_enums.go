package domain

import "strings"

// Enum types serialize as short wire codes (one or two letters). Lookup tables
// map both the code and the long name, case-insensitively, onto the variant;
// they are built once at package init instead of via reflection.

// Gender of a supplier: M, W or D on the wire.
type Gender string

const (
	GenderMale    Gender = "M"
	GenderFemale  Gender = "W"
	GenderDiverse Gender = "D"
)

var genderTokens = tokenTable(map[string]string{
	"M": "maennlich",
	"W": "weiblich",
	"D": "divers",
})

// ParseGender resolves a token (code or name) to a Gender.
func ParseGender(s string) (Gender, bool) {
	code, ok := genderTokens[strings.ToLower(s)]
	return Gender(code), ok
}

// DeliveryTime of a supplier: K (short), ML (medium), L (long).
type DeliveryTime string

const (
	DeliveryShort  DeliveryTime = "K"
	DeliveryMedium DeliveryTime = "ML"
	DeliveryLong   DeliveryTime = "L"
)

var deliveryTokens = tokenTable(map[string]string{
	"K":  "kurz",
	"ML": "mittellang",
	"L":  "lang",
})

// ParseDeliveryTime resolves a token to a DeliveryTime.
func ParseDeliveryTime(s string) (DeliveryTime, bool) {
	code, ok := deliveryTokens[strings.ToLower(s)]
	return DeliveryTime(code), ok
}

// MaritalStatus of a supplier: L, VH, G or VW.
type MaritalStatus string

const (
	MaritalSingle   MaritalStatus = "L"
	MaritalMarried  MaritalStatus = "VH"
	MaritalDivorced MaritalStatus = "G"
	MaritalWidowed  MaritalStatus = "VW"
)

var maritalTokens = tokenTable(map[string]string{
	"L":  "ledig",
	"VH": "verheiratet",
	"G":  "geschieden",
	"VW": "verwitwet",
})

// ParseMaritalStatus resolves a token to a MaritalStatus.
func ParseMaritalStatus(s string) (MaritalStatus, bool) {
	code, ok := maritalTokens[strings.ToLower(s)]
	return MaritalStatus(code), ok
}

// Interest of a supplier: S (Sport), L (Lesen), R (Reisen).
type Interest string

const (
	InterestSport   Interest = "S"
	InterestReading Interest = "L"
	InterestTravel  Interest = "R"
)

var interestTokens = tokenTable(map[string]string{
	"S": "sport",
	"L": "lesen",
	"R": "reisen",
})

// ParseInterest resolves a token to an Interest.
func ParseInterest(s string) (Interest, bool) {
	code, ok := interestTokens[strings.ToLower(s)]
	return Interest(code), ok
}

// tokenTable maps lowercased codes and names onto the code.
func tokenTable(codeToName map[string]string) map[string]string {
	table := make(map[string]string, 2*len(codeToName))
	for code, name := range codeToName {
		table[strings.ToLower(code)] = code
		table[name] = code
	}
	return table
}
