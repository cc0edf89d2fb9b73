package validator

import (
	"testing"

	"github.com/gabriel-vasile/mimetype"
	"github.com/stretchr/testify/assert"
)

func TestValidatorKeepsFirstError(t *testing.T) {
	v := New()
	v.Check(false, "email", "must be provided")
	v.Check(false, "email", "must be a valid email address")
	assert.False(t, v.Valid())
	assert.Equal(t, "must be provided", v.Errors["email"])
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name  string
		value string
		rx    string
		want  bool
	}{
		{"plain email", "ada@example.com", "email", true},
		{"email without domain dot", "ada@example", "email", false},
		{"email with space", "ada lovelace@example.com", "email", false},
		{"dashed phone", "123-456-7890", "phone", true},
		{"international phone", "+(123) 456-78901", "phone", true},
		{"short phone", "12345", "phone", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rx := EmailRX
			if tt.rx == "phone" {
				rx = PhoneRX
			}
			assert.Equal(t, tt.want, Matches(tt.value, rx))
		})
	}
}

func TestUniqueAndIn(t *testing.T) {
	assert.True(t, Unique([]string{"a", "b"}))
	assert.False(t, Unique([]string{"a", "a"}))
	assert.True(t, In("gold", "basic", "premium", "gold"))
	assert.False(t, In("platinum", "basic", "premium", "gold"))
}

func TestMime(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	assert.True(t, Mime(mimetype.Detect(png), "image/png", "image/jpeg"))
	assert.False(t, Mime(mimetype.Detect([]byte("plain text")), "image/png", "image/jpeg"))
}
