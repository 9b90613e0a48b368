package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenExpired(t *testing.T) {
	expires := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	refresh := RefreshToken{Token: "r", Expires: expires}
	recovery := RecoveryToken{Token: "c", Expires: expires}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before", expires.Add(-time.Second), false},
		{"at expiry", expires, true},
		{"after", expires.Add(time.Minute), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, refresh.Expired(tt.now))
			assert.Equal(t, tt.want, recovery.Expired(tt.now))
		})
	}
}
