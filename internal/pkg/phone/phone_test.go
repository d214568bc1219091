package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"local with leading zero", "08012345678", "+2348012345678"},
		{"local without leading zero", "8012345678", "+2348012345678"},
		{"country code without plus", "2348012345678", "+2348012345678"},
		{"already normalized", "+2348012345678", "+2348012345678"},
		{"dashes stripped", "080-123-45-678", "+2348012345678"},
		{"letters stripped", "23480123asdf45678", "+2348012345678"},
		{"spaces stripped", "+234 801 234 5678", "+2348012345678"},
		{"punctuation soup", "070-7!@#$8%^&*(9)-_=+012;:'\",.<>/?`~34", "+2347078901234"},
		{"too short passes through", "12345", "12345"},
		{"us number passes through", "+14151234567", "+14151234567"},
		{"uk number passes through", "+442012345678", "+442012345678"},
		{"too long passes through", "080123456789", "080123456789"},
		{"empty passes through", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"08012345678", "8012345678", "2348012345678", "+2348012345678",
		"080-123-45-678", "12345", "", "+14151234567",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid local numbers", func(t *testing.T) {
		for _, in := range []string{"08012345678", "8012345678", "2348012345678", "+2348012345678"} {
			res := Validate(in)
			require.True(t, res.Valid, "input %q: %s", in, res.Message)
			assert.Equal(t, "+2348012345678", res.PhoneNumber)
			assert.Empty(t, res.Message)
		}
	})

	t.Run("all valid prefixes accepted", func(t *testing.T) {
		for _, prefix := range NigerianPrefixes {
			res := Validate("0" + prefix + "1234567")
			require.True(t, res.Valid, "prefix %s", prefix)
			assert.Equal(t, "+234"+prefix+"1234567", res.PhoneNumber)
		}
	})

	t.Run("invalid prefix", func(t *testing.T) {
		res := Validate("08000000000")
		require.False(t, res.Valid)
		assert.Equal(t, MsgInvalidPrefix, res.Message)
	})

	t.Run("wrong length", func(t *testing.T) {
		for _, in := range []string{"12345", "080123456789", ""} {
			res := Validate(in)
			require.False(t, res.Valid, "input %q", in)
			assert.Equal(t, MsgInvalidLength, res.Message)
		}
	})
}

func TestValidateInternational(t *testing.T) {
	t.Run("accepts country-code forms", func(t *testing.T) {
		for _, in := range []string{"+234 803 123 4567", "+2348031234567", "2348031234567"} {
			res := ValidateInternational(in)
			require.True(t, res.Valid, "input %q: %s", in, res.Message)
			assert.Equal(t, "2348031234567", res.PhoneNumber)
		}
	})

	t.Run("rejects local form outright", func(t *testing.T) {
		res := ValidateInternational("08031234567")
		require.False(t, res.Valid)
		assert.Equal(t, MsgInvalidIntlLength, res.Message)
	})

	t.Run("rejects short and long", func(t *testing.T) {
		for _, in := range []string{"+234803123456", "+234803123456789", "123", ""} {
			res := ValidateInternational(in)
			require.False(t, res.Valid, "input %q", in)
			assert.Equal(t, MsgInvalidIntlLength, res.Message)
		}
	})

	t.Run("rejects other country codes", func(t *testing.T) {
		res := ValidateInternational("+1238031234567")
		require.False(t, res.Valid)
		assert.Equal(t, MsgNotNigerian, res.Message)
	})

	t.Run("rejects invalid prefix", func(t *testing.T) {
		res := ValidateInternational("+2340001234567")
		require.False(t, res.Valid)
		assert.Equal(t, MsgInvalidPrefix, res.Message)
	})
}

func TestIsValidPrefix(t *testing.T) {
	for _, p := range []string{"801", "703", "802", "905", "809", "817", "701", "705", "804", "702", "915"} {
		assert.True(t, IsValidPrefix(p), "prefix %s", p)
	}
	for _, p := range []string{"123", "000", "555", "700", "800", "900", "70", "8031", ""} {
		assert.False(t, IsValidPrefix(p), "prefix %s", p)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		style Style
		want  string
	}{
		{"international", "+2348012345678", StyleInternational, "+234 801 234 5678"},
		{"international reflows spaces", "+234801 2345678", StyleInternational, "+234 801 234 5678"},
		{"local from leading zero", "08012345678", StyleLocal, "0801 234 5678"},
		{"local from country code", "+2348012345678", StyleLocal, "0801 234 5678"},
		{"compact from country code", "2348012345678", StyleCompact, "234-801-234-5678"},
		{"compact from leading zero", "08012345678", StyleCompact, "234-801-234-5678"},
		{"bare ten digits", "8012345678", StyleInternational, "801 234 5678"},
		{"us number passes through", "+14151234567", StyleInternational, "+14151234567"},
		{"garbage passes through", "abcdefghijk", StyleInternational, "abcdefghijk"},
		{"empty passes through", "", StyleLocal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.input, tt.style))
		})
	}
}

func TestVariations(t *testing.T) {
	t.Run("nigerian number", func(t *testing.T) {
		got := Variations("2348170724872")
		want := []string{
			"2348170724872",
			"+2348170724872",
			"+234 817 072 4872",
			"+234-817-072-4872",
			"+234.817.072.4872",
			"(234) 817-072-4872",
			"+234(817)072-4872",
			"08170724872",
			"0817 072 4872",
			"0817-072-4872",
		}
		assert.Equal(t, want, got)
	})

	t.Run("formatted input yields same set", func(t *testing.T) {
		assert.Equal(t, Variations("2348170724872"), Variations("+234 817 072 4872"))
	})

	t.Run("non-nigerian number keeps minimal set", func(t *testing.T) {
		got := Variations("+14151234567")
		assert.Equal(t, []string{"14151234567", "+14151234567"}, got)
	})

	t.Run("contains normalized form", func(t *testing.T) {
		norm := Normalize("08012345678")
		got := Variations(norm)
		assert.Contains(t, got, norm)
		assert.Contains(t, got, Digits(norm))
	})

	t.Run("no duplicates", func(t *testing.T) {
		got := Variations("2348012345678")
		seen := make(map[string]bool)
		for _, v := range got {
			assert.False(t, seen[v], "duplicate %q", v)
			seen[v] = true
		}
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, Variations(""))
		assert.Nil(t, Variations("---"))
	})
}

func TestAutoFormatInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"leading zero replaced", "0801234567", "+234 801 234 567"},
		{"bare prefix digit gets country code", "8012345678", "+234 801 234 5678"},
		{"country code kept", "2348012345678", "+234 801 234 5678"},
		{"partial two digits", "08", "+234 8"},
		{"single seven", "7", "+234 7"},
		{"overlong input truncated", "080123456789999", "+234 801 234 5678"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AutoFormatInput(tt.input))
		})
	}
}

func TestAutoFormatInputIdempotent(t *testing.T) {
	inputs := []string{"0801234567", "8012345678", "2348012345678", "08", "7", ""}
	for _, in := range inputs {
		once := AutoFormatInput(in)
		assert.Equal(t, once, AutoFormatInput(once), "input %q", in)
	}
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("owner@salon.ng"))
	assert.True(t, ValidateEmail("a.b+c@example.co.uk"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("missing@tld"))
	assert.False(t, ValidateEmail("spaces in@mail.com"))
	assert.False(t, ValidateEmail(""))
}
