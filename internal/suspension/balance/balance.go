// Package balance compares front and rear damping firmness.
package balance

import (
	"math"

	"github.com/moto-tune/suspension-backend/internal/suspension/domain"
)

// Classification is the front/rear relationship on one damping axis.
type Classification string

const (
	FrontHeavy Classification = "FRONT_HEAVY"
	Balanced   Classification = "BALANCED"
	RearHeavy  Classification = "REAR_HEAVY"
)

// Tolerance is the percentage-point gap still considered balanced.
const Tolerance = 10

// HighSpeed is the optional high-speed shock compression pair.
type HighSpeed struct {
	Value int
	Max   int
}

// Input holds raw click counts and their maxima. Every max must be >= 1.
type Input struct {
	ForkCompression        int
	ForkRebound            int
	ShockCompressionLow    int
	ShockRebound           int
	MaxForkCompression     int
	MaxForkRebound         int
	MaxShockCompressionLow int
	MaxShockRebound        int
	ShockCompressionHigh   *HighSpeed
}

// Balance is recomputed on every input change and never stored.
type Balance struct {
	FrontCompression   int            `json:"frontCompression"`
	RearCompression    int            `json:"rearCompression"`
	FrontRebound       int            `json:"frontRebound"`
	RearRebound        int            `json:"rearRebound"`
	CompressionBalance Classification `json:"compressionBalance"`
	ReboundBalance     Classification `json:"reboundBalance"`
}

// Percentage converts a click count to a 0-100 firmness value.
func Percentage(value, max int) int {
	return int(math.Round(float64(value) / float64(max) * 100))
}

// Calculate derives the balance for in.
func Calculate(in Input) Balance {
	frontComp := Percentage(in.ForkCompression, in.MaxForkCompression)
	rearComp := Percentage(in.ShockCompressionLow, in.MaxShockCompressionLow)
	if hs := in.ShockCompressionHigh; hs != nil {
		high := Percentage(hs.Value, hs.Max)
		rearComp = int(math.Round(float64(rearComp+high) / 2))
	}
	frontReb := Percentage(in.ForkRebound, in.MaxForkRebound)
	rearReb := Percentage(in.ShockRebound, in.MaxShockRebound)

	return Balance{
		FrontCompression:   frontComp,
		RearCompression:    rearComp,
		FrontRebound:       frontReb,
		RearRebound:        rearReb,
		CompressionBalance: Classify(frontComp, rearComp),
		ReboundBalance:     Classify(frontReb, rearReb),
	}
}

// Classify compares two percentages using Tolerance.
func Classify(front, rear int) Classification {
	delta := front - rear
	switch {
	case delta <= Tolerance && delta >= -Tolerance:
		return Balanced
	case delta > 0:
		return FrontHeavy
	default:
		return RearHeavy
	}
}

// FromSettings computes the balance of a complete settings set, blending the
// high-speed shock compression into the rear value.
func FromSettings(s domain.Settings, r domain.Ranges) Balance {
	r = r.Normalize()
	return Calculate(Input{
		ForkCompression:        s.ForkCompression,
		ForkRebound:            s.ForkRebound,
		ShockCompressionLow:    s.ShockCompressionLow,
		ShockRebound:           s.ShockRebound,
		MaxForkCompression:     r.MaxForkCompression,
		MaxForkRebound:         r.MaxForkRebound,
		MaxShockCompressionLow: r.MaxShockCompressionLow,
		MaxShockRebound:        r.MaxShockRebound,
		ShockCompressionHigh: &HighSpeed{
			Value: s.ShockCompressionHigh,
			Max:   r.MaxShockCompressionHigh,
		},
	})
}
