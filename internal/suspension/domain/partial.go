package domain

// PartialSettings carries settings where any field may be absent. Absent fields
// are nil, never a sentinel value.
type PartialSettings struct {
	ForkCompression      *int `json:"fork_compression,omitempty"`
	ForkRebound          *int `json:"fork_rebound,omitempty"`
	ShockCompressionLow  *int `json:"shock_compression_low,omitempty"`
	ShockCompressionHigh *int `json:"shock_compression_high,omitempty"`
	ShockRebound         *int `json:"shock_rebound,omitempty"`
}

// Partial converts concrete settings into a fully populated PartialSettings.
func (s Settings) Partial() PartialSettings {
	return PartialSettings{
		ForkCompression:      Int(s.ForkCompression),
		ForkRebound:          Int(s.ForkRebound),
		ShockCompressionLow:  Int(s.ShockCompressionLow),
		ShockCompressionHigh: Int(s.ShockCompressionHigh),
		ShockRebound:         Int(s.ShockRebound),
	}
}

// Get returns the value of f, or nil when absent.
func (p PartialSettings) Get(f Field) *int {
	switch f {
	case FieldForkCompression:
		return p.ForkCompression
	case FieldForkRebound:
		return p.ForkRebound
	case FieldShockCompressionLow:
		return p.ShockCompressionLow
	case FieldShockCompressionHigh:
		return p.ShockCompressionHigh
	case FieldShockRebound:
		return p.ShockRebound
	}
	return nil
}

// IsEmpty reports whether no field is set.
func (p PartialSettings) IsEmpty() bool {
	for _, f := range Fields {
		if p.Get(f) != nil {
			return false
		}
	}
	return true
}

// Within reports whether every present field lies in [0, max].
func (p PartialSettings) Within(r Ranges) bool {
	for _, f := range Fields {
		if v := p.Get(f); v != nil && (*v < 0 || *v > r.Max(f)) {
			return false
		}
	}
	return true
}

// Merge overlays the present fields of o onto p.
func (p PartialSettings) Merge(o PartialSettings) PartialSettings {
	out := p
	if o.ForkCompression != nil {
		out.ForkCompression = o.ForkCompression
	}
	if o.ForkRebound != nil {
		out.ForkRebound = o.ForkRebound
	}
	if o.ShockCompressionLow != nil {
		out.ShockCompressionLow = o.ShockCompressionLow
	}
	if o.ShockCompressionHigh != nil {
		out.ShockCompressionHigh = o.ShockCompressionHigh
	}
	if o.ShockRebound != nil {
		out.ShockRebound = o.ShockRebound
	}
	return out
}

// Resolve walks the override -> base -> default chain for a single value.
func Resolve(override, base *int, def int) int {
	if override != nil {
		return *override
	}
	if base != nil {
		return *base
	}
	return def
}

// ResolveSettings applies Resolve field by field.
func ResolveSettings(override, base PartialSettings, defaults Settings) Settings {
	var out Settings
	for _, f := range Fields {
		out = out.With(f, Resolve(override.Get(f), base.Get(f), defaults.Get(f)))
	}
	return out
}

// Int returns a pointer to v.
func Int(v int) *int {
	return &v
}
