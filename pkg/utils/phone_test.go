package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"9876543210", "+919876543210"},
		{" 98765 43210 ", "+919876543210"},
		{"+919876543210", "+919876543210"},
		{"+1 (415) 555-0100", "+14155550100"},
		{"+447911123456", "+447911123456"},
	}
	for _, tt := range tests {
		got, err := NormalizePhone(tt.raw, "+91")
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got)
	}
}

func TestNormalizePhoneRejects(t *testing.T) {
	for _, raw := range []string{"", "12345", "not-a-phone", "98765432101", "+91abc", "+123"} {
		_, err := NormalizePhone(raw, "+91")
		assert.ErrorIs(t, err, ErrInvalidPhone, raw)
	}
}
