package mail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		otp, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, otp, 6)
		for _, c := range otp {
			assert.True(t, c >= '0' && c <= '9')
		}
		seen[otp] = true
	}
	// 50 draws from a million values colliding down to a handful would mean
	// a broken generator.
	assert.Greater(t, len(seen), 10)
}

func TestSendRequiresAPIKey(t *testing.T) {
	m := NewMailer("", "Chem Market", "no-reply@example.com")
	err := m.SendOTP(context.Background(), "Jo", "jo@example.com", "123456")
	assert.Error(t, err)
}
