package phone

import (
	"regexp"
	"strings"
)

// Validation failure messages (shown to the user as-is)
const (
	MsgInvalidLength     = "Phone number must be 10-11 digits (or 13 digits with country code)"
	MsgInvalidIntlLength = "Phone number must be 10-11 digits after country code"
	MsgNotNigerian       = "Please enter a valid Nigerian phone number (+234...)"
	MsgInvalidPrefix     = "Invalid Nigerian phone number prefix"
)

// Style selects a display format for Format
type Style string

const (
	StyleInternational Style = "international" // +234 801 234 5678
	StyleLocal         Style = "local"         // 0801 234 5678
	StyleCompact       Style = "compact"       // 234-801-234-5678
)

// Result represents the outcome of a phone number validation
type Result struct {
	Valid       bool   `json:"is_valid"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Message     string `json:"message,omitempty"`
}

var digitsOnly = regexp.MustCompile(`\D`)

// Digits strips every non-digit character from s.
func Digits(s string) string {
	return digitsOnly.ReplaceAllString(s, "")
}

// Normalize converts a Nigerian phone number in any common format to the
// canonical +234XXXXXXXXXX form. Input that matches no known pattern is
// returned unchanged; this function never fails, so it is safe to apply
// opportunistically to free-text fields.
//
//	Normalize("08012345678")       // "+2348012345678"
//	Normalize("8012345678")        // "+2348012345678"
//	Normalize("+234 801 234 5678") // "+2348012345678"
func Normalize(input string) string {
	digits := Digits(input)

	switch {
	case len(digits) == 11 && strings.HasPrefix(digits, "0"):
		return "+234" + digits[1:]
	case len(digits) == 10 && !strings.HasPrefix(digits, "0"):
		return "+234" + digits
	case len(digits) == 13 && strings.HasPrefix(digits, "234"):
		return "+" + digits
	}

	// No Nigerian pattern matched
	return input
}

// Validate checks a phone number in local mode: 10-11 digit local forms and
// the 13-digit country-code form are all accepted. On success PhoneNumber
// carries the normalized +234 form. Used by the business dashboard, where
// staff type local numbers.
func Validate(input string) Result {
	digits := Digits(input)

	var prefix string
	switch {
	case len(digits) == 11 && strings.HasPrefix(digits, "0"):
		prefix = digits[1:4]
	case len(digits) == 10 && !strings.HasPrefix(digits, "0"):
		prefix = digits[0:3]
	case len(digits) == 13 && strings.HasPrefix(digits, "234"):
		prefix = digits[3:6]
	default:
		return Result{Message: MsgInvalidLength}
	}

	if !IsValidPrefix(prefix) {
		return Result{Message: MsgInvalidPrefix}
	}

	return Result{Valid: true, PhoneNumber: Normalize(input)}
}

// ValidateInternational checks a phone number in strict-international mode:
// the cleaned digit string must already carry the 234 country code. Local
// forms are rejected outright. Used by the customer portal, where stored
// numbers are international. On success PhoneNumber carries the digits-only
// form.
func ValidateInternational(input string) Result {
	digits := Digits(input)

	if len(digits) < 13 || len(digits) > 14 {
		return Result{Message: MsgInvalidIntlLength}
	}
	if !strings.HasPrefix(digits, "234") {
		return Result{Message: MsgNotNigerian}
	}
	if !IsValidPrefix(digits[3:6]) {
		return Result{Message: MsgInvalidPrefix}
	}

	return Result{Valid: true, PhoneNumber: digits}
}

// Format renders a phone number for display in the requested style. Purely
// cosmetic; numbers whose digit count matches no pattern for the style are
// returned unchanged.
func Format(input string, style Style) string {
	digits := Digits(input)

	switch {
	case style == StyleInternational && len(digits) == 13 && strings.HasPrefix(digits, "234"):
		return "+234 " + digits[3:6] + " " + digits[6:9] + " " + digits[9:]
	case style == StyleLocal && len(digits) == 11 && strings.HasPrefix(digits, "0"):
		return digits[0:4] + " " + digits[4:7] + " " + digits[7:]
	case style == StyleLocal && len(digits) == 13 && strings.HasPrefix(digits, "234"):
		return "0" + digits[3:6] + " " + digits[6:9] + " " + digits[9:]
	case style == StyleCompact && len(digits) == 13 && strings.HasPrefix(digits, "234"):
		return digits[0:3] + "-" + digits[3:6] + "-" + digits[6:9] + "-" + digits[9:]
	case style == StyleCompact && len(digits) == 11 && strings.HasPrefix(digits, "0"):
		return "234-" + digits[1:4] + "-" + digits[4:7] + "-" + digits[7:]
	case len(digits) == 10:
		return digits[0:3] + " " + digits[3:6] + " " + digits[6:]
	}

	return input
}

// Variations returns the textual renderings a number may have been stored
// under across historical revisions of the system. Lookups probe each
// variation in order and stop at the first non-empty result. The list always
// starts with the digits-only form followed by the +-prefixed form; Nigerian
// numbers additionally get separator-punctuated renderings and the legacy
// local form with a leading zero.
func Variations(input string) []string {
	digits := Digits(input)
	if digits == "" {
		return nil
	}

	var out []string
	seen := make(map[string]struct{})
	add := func(v string) {
		if _, dup := seen[v]; dup {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	add(digits)
	add("+" + digits)

	if strings.HasPrefix(digits, "234") && len(digits) == 13 {
		local := digits[3:]
		a, b, c := local[0:3], local[3:6], local[6:]

		add("+234 " + a + " " + b + " " + c)
		add("+234-" + a + "-" + b + "-" + c)
		add("+234." + a + "." + b + "." + c)
		add("(234) " + a + "-" + b + "-" + c)
		add("+234(" + a + ")" + b + "-" + c)
		add("0" + local)
		add("0" + a + " " + b + " " + c)
		add("0" + a + "-" + b + "-" + c)
	}

	return out
}

// AutoFormatInput incrementally formats a partially typed phone number for
// live input fields: infers the missing 234 country code from a leading 0 or
// a bare 7/8/9 prefix digit, then groups with spaces. Idempotent when
// re-applied to its own output; output never exceeds the canonical display
// length (+234 XXX XXX XXXX).
func AutoFormatInput(value string) string {
	digits := Digits(value)

	if len(digits) > 0 && !strings.HasPrefix(digits, "234") {
		if strings.HasPrefix(digits, "0") {
			digits = "234" + digits[1:]
		} else if digits[0] == '7' || digits[0] == '8' || digits[0] == '9' {
			digits = "234" + digits
		}
	}

	if len(digits) == 0 {
		return ""
	}

	formatted := "+" + seg(digits, 0, 3)
	if len(digits) > 3 {
		formatted += " " + seg(digits, 3, 6)
	}
	if len(digits) > 6 {
		formatted += " " + seg(digits, 6, 9)
	}
	if len(digits) > 9 {
		formatted += " " + seg(digits, 9, 13)
	}

	return formatted
}

// seg returns digits[from:to] clamped to the string length.
func seg(digits string, from, to int) string {
	if from >= len(digits) {
		return ""
	}
	if to > len(digits) {
		to = len(digits)
	}
	return digits[from:to]
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail reports whether email has a plausible address shape.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}
