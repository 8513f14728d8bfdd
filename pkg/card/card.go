package card

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Brand identifies a card network detected from the number prefix.
type Brand string

const (
	BrandVisa       Brand = "visa"
	BrandMasterCard Brand = "mastercard"
	BrandAmex       Brand = "amex"
	BrandDiscover   Brand = "discover"
	BrandUnknown    Brand = "unknown"
)

// Details carries the raw card input as submitted by the customer.
type Details struct {
	HolderName string
	Number     string
	Expiry     string // MM/YY
	CVC        string
}

// Info is returned for a valid card: what is safe to persist.
type Info struct {
	Brand    Brand
	LastFour string
}

var (
	holderNameRegex = regexp.MustCompile(`^[A-Za-z\s\-.']+$`)
	digitsRegex     = regexp.MustCompile(`^\d+$`)
	expiryRegex     = regexp.MustCompile(`^(\d{2})/(\d{2})$`)
)

// maxExpiryYears rejects expiry dates implausibly far in the future.
const maxExpiryYears = 10

// Validator validates card details. The clock is injectable so expiry
// checks are deterministic in tests.
type Validator struct {
	now func() time.Time
}

// NewValidator creates a validator using the wall clock.
func NewValidator() *Validator {
	return &Validator{now: time.Now}
}

// NewValidatorAt creates a validator with a fixed clock.
func NewValidatorAt(now func() time.Time) *Validator {
	return &Validator{now: now}
}

// Sanitize strips spaces and dashes from a card number.
func Sanitize(number string) string {
	number = strings.ReplaceAll(number, " ", "")
	number = strings.ReplaceAll(number, "-", "")
	return number
}

// Validate checks every rule and collects all violations. An empty slice
// means the card is valid and info describes what may be stored; the full
// number and CVC must be discarded by the caller.
func (v *Validator) Validate(d Details) (Info, []string) {
	var errs []string

	errs = append(errs, v.validateHolderName(d.HolderName)...)

	number := Sanitize(d.Number)
	brand := BrandUnknown
	numberErrs := v.validateNumber(number)
	if len(numberErrs) == 0 {
		brand = DetectBrand(number)
		if brand == BrandUnknown {
			numberErrs = append(numberErrs, "card type not supported")
		}
	}
	errs = append(errs, numberErrs...)

	errs = append(errs, v.validateExpiry(d.Expiry)...)
	errs = append(errs, v.validateCVC(d.CVC, brand)...)

	if len(errs) > 0 {
		return Info{}, errs
	}

	return Info{Brand: brand, LastFour: number[len(number)-4:]}, nil
}

// IsValid is a convenience that reports validity without details.
func (v *Validator) IsValid(d Details) bool {
	_, errs := v.Validate(d)
	return len(errs) == 0
}

func (v *Validator) validateHolderName(name string) []string {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return []string{"cardholder name must be at least 2 characters"}
	}
	if !holderNameRegex.MatchString(name) {
		return []string{"cardholder name contains invalid characters"}
	}
	return nil
}

func (v *Validator) validateNumber(number string) []string {
	if number == "" {
		return []string{"card number is required"}
	}
	if !digitsRegex.MatchString(number) {
		return []string{"card number can only contain digits"}
	}
	if len(number) < 13 || len(number) > 19 {
		return []string{"card number must be between 13 and 19 digits"}
	}
	if !Luhn(number) {
		return []string{"card number is invalid"}
	}
	return nil
}

func (v *Validator) validateExpiry(expiry string) []string {
	m := expiryRegex.FindStringSubmatch(expiry)
	if m == nil {
		return []string{"expiry must be in MM/YY format"}
	}

	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return []string{"expiry month must be between 01 and 12"}
	}

	now := v.now()
	year += (now.Year() / 100) * 100
	// Two-digit years near the century boundary roll forward.
	if year < now.Year()-50 {
		year += 100
	}

	// A card is valid through the last day of its expiry month.
	endOfMonth := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	if !endOfMonth.After(now) {
		return []string{"card has expired"}
	}
	if year > now.Year()+maxExpiryYears {
		return []string{fmt.Sprintf("expiry year cannot be more than %d years in the future", maxExpiryYears)}
	}
	return nil
}

func (v *Validator) validateCVC(cvc string, brand Brand) []string {
	if !digitsRegex.MatchString(cvc) {
		return []string{"cvc can only contain digits"}
	}
	want := 3
	if brand == BrandAmex {
		want = 4
	}
	if len(cvc) != want {
		return []string{fmt.Sprintf("cvc must be %d digits", want)}
	}
	return nil
}

// Luhn reports whether a digits-only card number passes the Luhn checksum.
func Luhn(number string) bool {
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// DetectBrand maps a digits-only number to its card network by prefix.
func DetectBrand(number string) Brand {
	switch {
	case strings.HasPrefix(number, "4"):
		return BrandVisa
	case hasPrefixInRange(number, 2, 51, 55), hasPrefixInRange(number, 4, 2221, 2720):
		return BrandMasterCard
	case strings.HasPrefix(number, "34"), strings.HasPrefix(number, "37"):
		return BrandAmex
	case strings.HasPrefix(number, "6011"), strings.HasPrefix(number, "65"):
		return BrandDiscover
	default:
		return BrandUnknown
	}
}

func hasPrefixInRange(number string, width, lo, hi int) bool {
	if len(number) < width {
		return false
	}
	prefix, err := strconv.Atoi(number[:width])
	if err != nil {
		return false
	}
	return prefix >= lo && prefix <= hi
}
