package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	susp "github.com/moto-tune/suspension-backend/internal/suspension/domain"
)

func TestConfigEffective_ClampsToKitRanges(t *testing.T) {
	k := &Kit{Ranges: susp.NewRanges(5, 5, 20, 4, 20)}
	c := &Config{Settings: susp.PartialSettings{ForkCompression: susp.Int(18)}}

	got := c.Effective(k)
	assert.Equal(t, 5, got.ForkCompression)
	assert.Equal(t, 5, got.ForkRebound)
	assert.Equal(t, 10, got.ShockRebound)
	assert.True(t, k.Ranges.Contains(got))
	assert.True(t, k.Ranges.Contains(k.EffectiveBase()))
}
