package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "gmail dots and case", input: "A.B@Gmail.com", want: "ab@gmail.com"},
		{name: "googlemail dots", input: "john.doe.smith@googlemail.com", want: "johndoesmith@googlemail.com"},
		{name: "other domain keeps dots", input: "a.b@outlook.com", want: "a.b@outlook.com"},
		{name: "other domain lower-cased", input: "John.Doe@Example.COM", want: "john.doe@example.com"},
		{name: "empty", input: "", want: ""},
		{name: "no at sign", input: "not-an-email", want: "not-an-email"},
		{name: "two at signs pass through unchanged", input: "A@b@Gmail.com", want: "A@b@Gmail.com"},
		{name: "gmail subdomain is not gmail", input: "a.b@mail.gmail.com", want: "a.b@mail.gmail.com"},
		{name: "empty local part", input: "@gmail.com", want: "@gmail.com"},
		{name: "surrounding whitespace trimmed", input: " \tA.B@Gmail.com \n", want: "ab@gmail.com"},
		{name: "whitespace only", input: "   ", want: ""},
		{name: "pass through is trimmed", input: " not-an-email ", want: "not-an-email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, in := range []string{"A.B@Gmail.com", "x.y@outlook.com", "plain", " A.B@Gmail.com "} {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), in)
	}
}
