package domain

// Field identifies one adjustable suspension parameter.
type Field string

const (
	FieldForkCompression      Field = "fork_compression"
	FieldForkRebound          Field = "fork_rebound"
	FieldShockCompressionLow  Field = "shock_compression_low"
	FieldShockCompressionHigh Field = "shock_compression_high"
	FieldShockRebound         Field = "shock_rebound"
)

// Fields lists every suspension parameter in display order.
var Fields = []Field{
	FieldForkCompression,
	FieldForkRebound,
	FieldShockCompressionLow,
	FieldShockCompressionHigh,
	FieldShockRebound,
}

// Settings is a concrete set of click/turn counts for one kit.
type Settings struct {
	ForkCompression      int `json:"fork_compression"`
	ForkRebound          int `json:"fork_rebound"`
	ShockCompressionLow  int `json:"shock_compression_low"`
	ShockCompressionHigh int `json:"shock_compression_high"`
	ShockRebound         int `json:"shock_rebound"`
}

// Get returns the value of f.
func (s Settings) Get(f Field) int {
	switch f {
	case FieldForkCompression:
		return s.ForkCompression
	case FieldForkRebound:
		return s.ForkRebound
	case FieldShockCompressionLow:
		return s.ShockCompressionLow
	case FieldShockCompressionHigh:
		return s.ShockCompressionHigh
	case FieldShockRebound:
		return s.ShockRebound
	}
	return 0
}

// With returns a copy of s with f set to v.
func (s Settings) With(f Field, v int) Settings {
	switch f {
	case FieldForkCompression:
		s.ForkCompression = v
	case FieldForkRebound:
		s.ForkRebound = v
	case FieldShockCompressionLow:
		s.ShockCompressionLow = v
	case FieldShockCompressionHigh:
		s.ShockCompressionHigh = v
	case FieldShockRebound:
		s.ShockRebound = v
	}
	return s
}

// Ranges holds the maximum click count of each parameter. Values are always >= 1
// when built through NewRanges.
type Ranges struct {
	MaxForkCompression      int `json:"max_fork_compression"`
	MaxForkRebound          int `json:"max_fork_rebound"`
	MaxShockCompressionLow  int `json:"max_shock_compression_low"`
	MaxShockCompressionHigh int `json:"max_shock_compression_high"`
	MaxShockRebound         int `json:"max_shock_rebound"`
}

// NewRanges clamps every maximum to a floor of 1.
func NewRanges(forkComp, forkReb, shockLow, shockHigh, shockReb int) Ranges {
	return Ranges{
		MaxForkCompression:      atLeastOne(forkComp),
		MaxForkRebound:          atLeastOne(forkReb),
		MaxShockCompressionLow:  atLeastOne(shockLow),
		MaxShockCompressionHigh: atLeastOne(shockHigh),
		MaxShockRebound:         atLeastOne(shockReb),
	}
}

// Normalize re-applies the NewRanges floor, used on values decoded from storage.
func (r Ranges) Normalize() Ranges {
	return NewRanges(r.MaxForkCompression, r.MaxForkRebound, r.MaxShockCompressionLow, r.MaxShockCompressionHigh, r.MaxShockRebound)
}

// Max returns the maximum for f.
func (r Ranges) Max(f Field) int {
	switch f {
	case FieldForkCompression:
		return r.MaxForkCompression
	case FieldForkRebound:
		return r.MaxForkRebound
	case FieldShockCompressionLow:
		return r.MaxShockCompressionLow
	case FieldShockCompressionHigh:
		return r.MaxShockCompressionHigh
	case FieldShockRebound:
		return r.MaxShockRebound
	}
	return 1
}

// Contains reports whether every value of s lies in [0, max].
func (r Ranges) Contains(s Settings) bool {
	for _, f := range Fields {
		if v := s.Get(f); v < 0 || v > r.Max(f) {
			return false
		}
	}
	return true
}

// Clamp pulls every value of s into [0, max].
func (r Ranges) Clamp(s Settings) Settings {
	for _, f := range Fields {
		switch v := s.Get(f); {
		case v < 0:
			s = s.With(f, 0)
		case v > r.Max(f):
			s = s.With(f, r.Max(f))
		}
	}
	return s
}

// Defaults returns DefaultSettings clamped to r, so a kit with short adjusters
// never defaults past its last click.
func (r Ranges) Defaults() Settings {
	return r.Clamp(DefaultSettings)
}

// Resolve walks override -> base -> r.Defaults() and clamps the result to r.
// Stored values that predate a range change are pulled back in bounds.
func (r Ranges) Resolve(override, base PartialSettings) Settings {
	return r.Clamp(ResolveSettings(override, base, r.Defaults()))
}

func atLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

// DefaultRanges is used when a kit does not declare its adjuster ranges.
var DefaultRanges = NewRanges(20, 20, 20, 4, 20)

// DefaultSettings is the last tier of the override -> base -> default chain.
var DefaultSettings = Settings{
	ForkCompression:      10,
	ForkRebound:          10,
	ShockCompressionLow:  10,
	ShockCompressionHigh: 2,
	ShockRebound:         10,
}
