package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	valid := []string{
		"jane@example.com",
		"jane.doe+tag@sub.example.co.uk",
		"  padded@example.com  ",
	}
	for _, email := range valid {
		assert.True(t, ValidEmail(email), email)
	}

	invalid := []string{
		"",
		"null",
		"undefined",
		"plainstring",
		"no-domain@",
		"@no-local.com",
		"missing@tld",
		"two words@example.com",
	}
	for _, email := range invalid {
		assert.False(t, ValidEmail(email), email)
	}
}

func TestValidApplicationID(t *testing.T) {
	assert.True(t, ValidApplicationID("rec123"))
	assert.True(t, ValidApplicationID("550e8400-e29b-41d4-a716-446655440000"))

	assert.False(t, ValidApplicationID(""))
	assert.False(t, ValidApplicationID("   "))
	assert.False(t, ValidApplicationID("null"))
	assert.False(t, ValidApplicationID("undefined"))
}

func TestSanitize(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"plain text unchanged", "123 Main St, Apt 4", "123 Main St, Apt 4"},
		{"email unchanged", "jane@example.com", "jane@example.com"},
		{"trims whitespace", "  hello  ", "hello"},
		{"strips tags", "<script>alert(1)</script>", "scriptalert(1)/script"},
		{"strips js scheme", "javascript:alert(1)", "alert(1)"},
		{"js scheme case-insensitive", "JaVaScRiPt:alert(1)", "alert(1)"},
		{"strips event handlers", "x onclick=evil y", "x evil y"},
		{"strips onerror", `img onerror=steal()`, "img steal()"},
		{"combined vectors", `<img src=x onerror=alert(1)>`, "img src=x alert(1)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Sanitize(tc.in))
		})
	}
}
