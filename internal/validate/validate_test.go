// internal/validate/validate_test.go
//
// Unit-tests for the field validators.
//
// Run: go test ./internal/validate -v

package validate

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
	}{
		{"", EmptyField},
		{"   ", EmptyField},
		{"A1", FormatError},
		{"A", FormatError},
		{"Jo", Valid},
		{"Ada Lovelace", Valid},
		{"O'Brien", FormatError},
		{strings.Repeat("a", 50), Valid},
		{strings.Repeat("a", 51), FormatError},
	}
	for _, tc := range cases {
		got := Name(tc.in)
		assert.Equalf(t, tc.want, got.Kind, "Name(%q)", tc.in)
		assert.Equalf(t, tc.want == Valid, got.Message == "", "Name(%q) message %q", tc.in, got.Message)
	}
	assert.Equal(t, MsgNameRequired, Name("").Message)
	assert.Equal(t, MsgNameFormat, Name("A1").Message)
}

// Any 2-50 character run of letters and spaces with at least one letter is
// accepted.
func TestName_LettersAndSpacesAlwaysValid(t *testing.T) {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ "
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 2000; i++ {
		n := 2 + rng.Intn(49)
		b := make([]byte, n)
		for j := range b {
			b[j] = alphabet[rng.Intn(len(alphabet))]
		}
		b[rng.Intn(n)] = 'x'

		s := string(b)
		if r := Name(s); !r.OK() {
			t.Fatalf("Name(%q) = %v %q, want valid", s, r.Kind, r.Message)
		}
	}
}

func TestEmail(t *testing.T) {
	assert.Equal(t, Valid, Email("a@b.com").Kind)
	assert.Equal(t, Valid, Email("first.last+tag@sub.example.org").Kind)
	assert.Equal(t, FormatError, Email("abc").Kind)
	assert.Equal(t, FormatError, Email("a@b").Kind)
	assert.Equal(t, FormatError, Email("a b@c.com").Kind)
	assert.Equal(t, FormatError, Email("a@@b.com").Kind)
	assert.Equal(t, EmptyField, Email("").Kind)
	assert.Equal(t, EmptyField, Email("  ").Kind)
	assert.Equal(t, MsgEmailFormat, Email("abc").Message)
}

func TestPassword(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
		msg  string
	}{
		{"", EmptyField, MsgPasswordRequired},
		{"short1A", TooShort, MsgPasswordShort},
		{"alllower1", ComplexityError, MsgPasswordWeak},
		{"ALLUPPER1", ComplexityError, MsgPasswordWeak},
		{"NoDigitsHere", ComplexityError, MsgPasswordWeak},
		{"Abcdefg1", Valid, ""},
		{"        ", ComplexityError, MsgPasswordWeak},
	}
	for _, tc := range cases {
		got := Password(tc.in)
		assert.Equalf(t, tc.want, got.Kind, "Password(%q)", tc.in)
		assert.Equalf(t, tc.msg, got.Message, "Password(%q)", tc.in)
	}
}

func TestPassword_CountsRunes(t *testing.T) {
	// Seven runes, more than eight bytes.
	assert.Equal(t, TooShort, Password("Ab1éééé").Kind)
}

func TestConfirmPassword(t *testing.T) {
	assert.Equal(t, Valid, ConfirmPassword("Abcdefg1", "Abcdefg1").Kind)
	assert.Equal(t, MismatchError, ConfirmPassword("Abcdefg1", "Other1aa").Kind)
	assert.Equal(t, EmptyField, ConfirmPassword("Abcdefg1", "").Kind)
	assert.Equal(t, MsgConfirmRequired, ConfirmPassword("", "").Message)
	assert.Equal(t, MsgConfirmMismatch, ConfirmPassword("", "x").Message)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "valid", Valid.String())
	assert.Equal(t, "mismatch", MismatchError.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
