// Package adjustment turns a current/target pair into dial instructions.
package adjustment

import (
	"github.com/moto-tune/suspension-backend/internal/suspension/balance"
	"github.com/moto-tune/suspension-backend/internal/suspension/domain"
)

// Direction is the way to turn an adjuster. Clockwise firms up.
type Direction string

const (
	CW  Direction = "CW"
	CCW Direction = "CCW"
)

// Label is the human-readable verb for a direction.
type Label struct {
	Verb    string `json:"verb"`
	English string `json:"english"`
}

// DirectionLabels is a static lookup used by renderers.
var DirectionLabels = map[Direction]Label{
	CW:  {Verb: "serrer", English: "tighten"},
	CCW: {Verb: "desserrer", English: "loosen"},
}

// Adjustment describes how to move one parameter.
type Adjustment struct {
	Clicks         int       `json:"clicks"`
	Direction      Direction `json:"direction"`
	FromPercentage int       `json:"fromPercentage"`
	ToPercentage   int       `json:"toPercentage"`
}

// Calculate plans the move from current to target on an axis with the given
// max (>= 1). Direction is CCW when no move is needed.
func Calculate(current, target, max int) Adjustment {
	clicks := target - current
	dir := CCW
	if clicks > 0 {
		dir = CW
	} else {
		clicks = -clicks
	}
	return Adjustment{
		Clicks:         clicks,
		Direction:      dir,
		FromPercentage: balance.Percentage(current, max),
		ToPercentage:   balance.Percentage(target, max),
	}
}

// Step is an Adjustment bound to the parameter it applies to.
type Step struct {
	Field domain.Field `json:"field"`
	From  int          `json:"from"`
	To    int          `json:"to"`
	Label Label        `json:"label"`
	Adjustment
}

// Plan returns the non-zero adjustments needed to go from current to target.
func Plan(current, target domain.Settings, ranges domain.Ranges) []Step {
	ranges = ranges.Normalize()
	steps := make([]Step, 0, len(domain.Fields))
	for _, f := range domain.Fields {
		from, to := current.Get(f), target.Get(f)
		adj := Calculate(from, to, ranges.Max(f))
		if adj.Clicks == 0 {
			continue
		}
		steps = append(steps, Step{
			Field:      f,
			From:       from,
			To:         to,
			Label:      DirectionLabels[adj.Direction],
			Adjustment: adj,
		})
	}
	return steps
}
