package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRanges_ClampsToOne(t *testing.T) {
	r := NewRanges(0, -3, 12, 0, 1)
	assert.Equal(t, Ranges{
		MaxForkCompression:      1,
		MaxForkRebound:          1,
		MaxShockCompressionLow:  12,
		MaxShockCompressionHigh: 1,
		MaxShockRebound:         1,
	}, r)
	assert.Equal(t, r, r.Normalize())
	assert.Equal(t, NewRanges(1, 1, 1, 1, 1), Ranges{}.Normalize())
}

func TestRanges_Contains(t *testing.T) {
	r := NewRanges(20, 20, 20, 4, 20)
	assert.True(t, r.Contains(DefaultSettings))
	assert.False(t, r.Contains(DefaultSettings.With(FieldShockCompressionHigh, 5)))
	assert.False(t, r.Contains(DefaultSettings.With(FieldForkRebound, -1)))
}

func TestResolve(t *testing.T) {
	assert.Equal(t, 3, Resolve(Int(3), Int(7), 10))
	assert.Equal(t, 7, Resolve(nil, Int(7), 10))
	assert.Equal(t, 10, Resolve(nil, nil, 10))
	// zero is a real value, not "absent"
	assert.Equal(t, 0, Resolve(Int(0), Int(7), 10))
}

func TestResolveSettings(t *testing.T) {
	override := PartialSettings{ForkCompression: Int(4)}
	base := PartialSettings{ForkCompression: Int(8), ShockRebound: Int(12)}

	got := ResolveSettings(override, base, DefaultSettings)
	assert.Equal(t, Settings{
		ForkCompression:      4,
		ForkRebound:          DefaultSettings.ForkRebound,
		ShockCompressionLow:  DefaultSettings.ShockCompressionLow,
		ShockCompressionHigh: DefaultSettings.ShockCompressionHigh,
		ShockRebound:         12,
	}, got)
}

func TestPartialSettings_JSONOmitsAbsent(t *testing.T) {
	b, err := json.Marshal(PartialSettings{ShockRebound: Int(0)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"shock_rebound":0}`, string(b))

	var p PartialSettings
	require.NoError(t, json.Unmarshal([]byte(`{"fork_rebound":6}`), &p))
	require.NotNil(t, p.ForkRebound)
	assert.Equal(t, 6, *p.ForkRebound)
	assert.Nil(t, p.ForkCompression)
}

func TestPartialSettings_Within(t *testing.T) {
	r := NewRanges(10, 10, 10, 2, 10)
	assert.True(t, PartialSettings{}.Within(r))
	assert.True(t, PartialSettings{ShockCompressionHigh: Int(2)}.Within(r))
	assert.False(t, PartialSettings{ShockCompressionHigh: Int(3)}.Within(r))
	assert.True(t, PartialSettings{}.IsEmpty())
	assert.False(t, DefaultSettings.Partial().IsEmpty())
}

func TestPartialSettings_Merge(t *testing.T) {
	a := PartialSettings{ForkCompression: Int(1), ForkRebound: Int(2)}
	b := PartialSettings{ForkRebound: Int(5), ShockRebound: Int(9)}
	m := a.Merge(b)
	assert.Equal(t, 1, *m.ForkCompression)
	assert.Equal(t, 5, *m.ForkRebound)
	assert.Equal(t, 9, *m.ShockRebound)
	assert.Nil(t, m.ShockCompressionLow)
}

func TestRanges_DefaultsFollowShortAdjusters(t *testing.T) {
	assert.Equal(t, DefaultSettings, DefaultRanges.Defaults())

	r := NewRanges(5, 5, 5, 2, 5)
	assert.Equal(t, Settings{
		ForkCompression:      5,
		ForkRebound:          5,
		ShockCompressionLow:  5,
		ShockCompressionHigh: 2,
		ShockRebound:         5,
	}, r.Defaults())
}

func TestRanges_ResolveClamps(t *testing.T) {
	r := NewRanges(5, 20, 20, 4, 20)
	stale := PartialSettings{ForkCompression: Int(18), ShockRebound: Int(-2)}

	got := r.Resolve(stale, PartialSettings{ForkRebound: Int(12)})
	assert.Equal(t, 5, got.ForkCompression)
	assert.Equal(t, 12, got.ForkRebound)
	assert.Equal(t, 0, got.ShockRebound)
	assert.True(t, r.Contains(got))
}
