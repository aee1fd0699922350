package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeIP(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"ipv4", "192.168.1.47", "192.168.1.0"},
		{"ipv4 already masked", "10.0.0.0", "10.0.0.0"},
		{"ipv4 localhost", "127.0.0.1", "127.0.0.0"},
		{"ipv4 mapped ipv6", "::ffff:203.0.113.9", "203.0.113.0"},
		{"ipv6", "2001:db8:85a3::8a2e:370:7334", "2001:db8:85a3::"},
		{"ipv6 loopback", "::1", "::"},
		{"empty", "", "unknown"},
		{"unknown marker", "unknown", "unknown"},
		{"garbage", "not-an-ip", "invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AnonymizeIP(tt.input))
		})
	}
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "a***@example.com", MaskEmail("alice@example.com"))
	assert.Equal(t, "***", MaskEmail("no-at-sign"))
	assert.Equal(t, "***", MaskEmail("@example.com"))
}
