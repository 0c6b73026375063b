// internal/validate/validate.go
//
// Field validators for the signup form.
//
// Context
// -------
// Each validator maps the raw text of one control to a Result.  A Result
// with an empty Message means the value is acceptable.  Validators never
// return Go errors and never panic; a failed check is ordinary data that the
// caller writes into the field's error slot.
//
// Rules
// -----
//   - Name             – required after trim, 2-50 ASCII letters or spaces.
//   - Email            – required after trim, basic local@domain.tld shape.
//   - Password         – required, at least 8 characters, one lower-case
//     letter, one upper-case letter, and one digit.
//   - ConfirmPassword  – required, identical to the password.
//
// Notes
// -----
// • The patterns are deliberately simple.  No RFC 5322 or Unicode names.
// • Oxford commas, two spaces after periods.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Kind classifies a validation outcome.
type Kind int

const (
	Valid Kind = iota
	EmptyField
	FormatError
	TooShort
	ComplexityError
	MismatchError
)

var kindNames = [...]string{
	Valid:           "valid",
	EmptyField:      "empty",
	FormatError:     "format",
	TooShort:        "too_short",
	ComplexityError: "complexity",
	MismatchError:   "mismatch",
}

// String returns the metric label for k.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Result is the outcome of one validator call.
type Result struct {
	Kind    Kind
	Message string // user-facing text, empty when Kind == Valid
}

// OK reports whether the value passed.
func (r Result) OK() bool { return r.Kind == Valid }

// MinPasswordLength is the shortest accepted password, counted in runes.
const MinPasswordLength = 8

var (
	nameRegex  = regexp.MustCompile(`^[A-Za-z\s]{2,50}$`)
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	lowerRegex = regexp.MustCompile(`[a-z]`)
	upperRegex = regexp.MustCompile(`[A-Z]`)
	digitRegex = regexp.MustCompile(`[0-9]`)
)

// User-facing messages.
const (
	MsgNameRequired     = "Name is required"
	MsgNameFormat       = "Name should be 2-50 characters, letters and spaces only"
	MsgEmailRequired    = "Email is required"
	MsgEmailFormat      = "Please enter a valid email address"
	MsgPasswordRequired = "Password is required"
	MsgPasswordShort    = "Password must be at least 8 characters"
	MsgPasswordWeak     = "Password must contain uppercase, lowercase, and numbers"
	MsgConfirmRequired  = "Please confirm your password"
	MsgConfirmMismatch  = "Passwords do not match"
)

func ok() Result { return Result{Kind: Valid} }
func fail(k Kind, msg string) Result { return Result{Kind: k, Message: msg} }

// Name checks a display name.  The format test runs on the raw value, so
// leading or trailing spaces count toward the length limit.
func Name(name string) Result {
	if strings.TrimSpace(name) == "" {
		return fail(EmptyField, MsgNameRequired)
	}
	if !nameRegex.MatchString(name) {
		return fail(FormatError, MsgNameFormat)
	}
	return ok()
}

// Email checks for a basic local@domain.tld shape.
func Email(email string) Result {
	if strings.TrimSpace(email) == "" {
		return fail(EmptyField, MsgEmailRequired)
	}
	if !emailRegex.MatchString(email) {
		return fail(FormatError, MsgEmailFormat)
	}
	return ok()
}

// Password checks length first, then character classes.
func Password(password string) Result {
	if password == "" {
		return fail(EmptyField, MsgPasswordRequired)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fail(TooShort, MsgPasswordShort)
	}
	if !lowerRegex.MatchString(password) ||
		!upperRegex.MatchString(password) ||
		!digitRegex.MatchString(password) {
		return fail(ComplexityError, MsgPasswordWeak)
	}
	return ok()
}

// ConfirmPassword checks that confirm repeats password exactly.
func ConfirmPassword(password, confirm string) Result {
	if confirm == "" {
		return fail(EmptyField, MsgConfirmRequired)
	}
	if confirm != password {
		return fail(MismatchError, MsgConfirmMismatch)
	}
	return ok()
}
