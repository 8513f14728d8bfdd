package card

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedNow pins the clock to mid-2025 so expiry cases never rot.
func fixedNow() time.Time {
	return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
}

func validVisa() Details {
	return Details{
		HolderName: "John Doe",
		Number:     "4111111111111111",
		Expiry:     "12/27",
		CVC:        "123",
	}
}

func TestValidate_ValidCards(t *testing.T) {
	v := NewValidatorAt(fixedNow)

	cases := []struct {
		name     string
		details  Details
		brand    Brand
		lastFour string
	}{
		{"Visa", Details{"John Doe", "4111111111111111", "12/27", "123"}, BrandVisa, "1111"},
		{"Visa with spaces", Details{"John Doe", "4242 4242 4242 4242", "12/27", "123"}, BrandVisa, "4242"},
		{"Visa with dashes", Details{"John Doe", "4242-4242-4242-4242", "12/27", "123"}, BrandVisa, "4242"},
		{"MasterCard 51-55", Details{"Jane O'Neill", "5555555555554444", "01/26", "999"}, BrandMasterCard, "4444"},
		{"MasterCard 2-series", Details{"Jane O'Neill", "2223003122003222", "01/26", "999"}, BrandMasterCard, "3222"},
		{"Amex 4-digit CVC", Details{"A. Smith-Jones", "378282246310005", "07/25", "1234"}, BrandAmex, "0005"},
		{"Discover 6011", Details{"Mary Ann", "6011111111111117", "06/30", "321"}, BrandDiscover, "1117"},
		{"Discover 65", Details{"Mary Ann", "6500000000000002", "06/30", "321"}, BrandDiscover, "0002"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			info, errs := v.Validate(tc.details)
			require.Empty(t, errs)
			assert.Equal(t, tc.brand, info.Brand)
			assert.Equal(t, tc.lastFour, info.LastFour)
		})
	}
}

func TestValidate_InvalidNumbers(t *testing.T) {
	v := NewValidatorAt(fixedNow)

	cases := []struct {
		name    string
		number  string
		wantErr string
	}{
		{"Fails Luhn", "4111111111111112", "card number is invalid"},
		{"Too short", "411111111111", "between 13 and 19 digits"},
		{"Too long", "41111111111111111111", "between 13 and 19 digits"},
		{"Empty", "", "card number is required"},
		{"Letters", "4111abcd11111111", "can only contain digits"},
		{"Unsupported brand", "3530111333300000", "card type not supported"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validVisa()
			d.Number = tc.number
			_, errs := v.Validate(d)
			require.NotEmpty(t, errs)
			assert.Contains(t, errs[0], tc.wantErr)
		})
	}
}

func TestValidate_HolderName(t *testing.T) {
	v := NewValidatorAt(fixedNow)

	t.Run("Too short", func(t *testing.T) {
		d := validVisa()
		d.HolderName = "J"
		_, errs := v.Validate(d)
		require.NotEmpty(t, errs)
		assert.Contains(t, errs[0], "at least 2 characters")
	})

	t.Run("Invalid characters", func(t *testing.T) {
		d := validVisa()
		d.HolderName = "John; DROP TABLE"
		_, errs := v.Validate(d)
		require.NotEmpty(t, errs)
		assert.Contains(t, errs[0], "invalid characters")
	})

	t.Run("Hyphens apostrophes and periods allowed", func(t *testing.T) {
		d := validVisa()
		d.HolderName = "Mary-Jane O'Brien Jr."
		_, errs := v.Validate(d)
		assert.Empty(t, errs)
	})
}

func TestValidate_Expiry(t *testing.T) {
	v := NewValidatorAt(fixedNow)

	cases := []struct {
		name    string
		expiry  string
		wantErr string
	}{
		{"Bad format", "2027-12", "MM/YY format"},
		{"Bad month", "13/27", "between 01 and 12"},
		{"Expired last year", "06/24", "card has expired"},
		{"Expired last month", "05/25", "card has expired"},
		{"Too far in future", "01/36", "10 years in the future"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validVisa()
			d.Expiry = tc.expiry
			_, errs := v.Validate(d)
			require.NotEmpty(t, errs)
			assert.Contains(t, errs[0], tc.wantErr)
		})
	}

	t.Run("Current month still valid", func(t *testing.T) {
		d := validVisa()
		d.Expiry = "06/25"
		_, errs := v.Validate(d)
		assert.Empty(t, errs)
	})
}

func TestValidate_CVC(t *testing.T) {
	v := NewValidatorAt(fixedNow)

	t.Run("Visa requires 3 digits", func(t *testing.T) {
		d := validVisa()
		d.CVC = "1234"
		_, errs := v.Validate(d)
		require.NotEmpty(t, errs)
		assert.Contains(t, errs[0], "cvc must be 3 digits")
	})

	t.Run("Amex requires 4 digits", func(t *testing.T) {
		d := Details{"A Smith", "378282246310005", "07/27", "123"}
		_, errs := v.Validate(d)
		require.NotEmpty(t, errs)
		assert.Contains(t, errs[0], "cvc must be 4 digits")
	})

	t.Run("Non-digit CVC", func(t *testing.T) {
		d := validVisa()
		d.CVC = "12a"
		_, errs := v.Validate(d)
		require.NotEmpty(t, errs)
		assert.Contains(t, errs[0], "can only contain digits")
	})
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	v := NewValidatorAt(fixedNow)

	d := Details{
		HolderName: "X",
		Number:     "4111111111111112",
		Expiry:     "13/27",
		CVC:        "12",
	}
	_, errs := v.Validate(d)
	assert.Len(t, errs, 4)
}

func TestLuhn(t *testing.T) {
	cases := []struct {
		number string
		valid  bool
	}{
		{"4111111111111111", true},
		{"5555555555554444", true},
		{"378282246310005", true},
		{"6011000990139424", true},
		{"4111111111111112", false},
		{"1234567890123456", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.valid, Luhn(tc.number), tc.number)
	}
}

func TestDetectBrand(t *testing.T) {
	cases := []struct {
		number string
		brand  Brand
	}{
		{"4111111111111111", BrandVisa},
		{"5105105105105100", BrandMasterCard},
		{"2221000000000009", BrandMasterCard},
		{"2720999999999996", BrandMasterCard},
		{"2121000000000000", BrandUnknown},
		{"378282246310005", BrandAmex},
		{"341111111111111", BrandAmex},
		{"6011111111111117", BrandDiscover},
		{"6500000000000002", BrandDiscover},
		{"9999999999999999", BrandUnknown},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.brand, DetectBrand(tc.number), tc.number)
	}
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "4111111111111111", Sanitize("4111 1111 1111 1111"))
	assert.Equal(t, "4111111111111111", Sanitize("4111-1111-1111-1111"))
	assert.Equal(t, "4111111111111111", Sanitize("4111111111111111"))
}
