package rewards

import "fmt"

// Kind classifies the benefit a tier grants.
type Kind string

const (
	KindDiscount Kind = "discount"
	KindFreeItem Kind = "free_item"
)

// Tier is a visit-count threshold granting a specific benefit.
type Tier struct {
	ThresholdVisits int    `json:"threshold_visits"`
	Description     string `json:"description"`
	Kind            Kind   `json:"kind"`
	Value           string `json:"value"`
}

// DefaultTiers returns the standard salon reward ladder.
func DefaultTiers() []Tier {
	return []Tier{
		{ThresholdVisits: 5, Description: "10% Off Next Service", Kind: KindDiscount, Value: "10%"},
		{ThresholdVisits: 10, Description: "Free Basic Service", Kind: KindFreeItem, Value: "Basic Cut"},
	}
}

// Policy evaluates visit counts against an ordered reward-tier ladder. It is
// immutable after construction and safe for concurrent use.
type Policy struct {
	tiers []Tier
}

// NewPolicy validates the tier list: thresholds must be positive and strictly
// ascending. The list may be empty, in which case nothing ever unlocks.
func NewPolicy(tiers []Tier) (*Policy, error) {
	prev := 0
	for i, tier := range tiers {
		if tier.ThresholdVisits <= 0 {
			return nil, fmt.Errorf("reward tier %d: threshold must be positive, got %d", i, tier.ThresholdVisits)
		}
		if tier.ThresholdVisits <= prev {
			return nil, fmt.Errorf("reward tier %d: threshold %d must exceed previous threshold %d", i, tier.ThresholdVisits, prev)
		}
		prev = tier.ThresholdVisits
	}

	copied := make([]Tier, len(tiers))
	copy(copied, tiers)
	return &Policy{tiers: copied}, nil
}

// Tiers returns a copy of the configured ladder, ascending by threshold.
func (p *Policy) Tiers() []Tier {
	out := make([]Tier, len(p.tiers))
	copy(out, p.tiers)
	return out
}

// Unlocked returns every tier whose threshold has been met, ascending by
// threshold. Unlocked tiers are never revoked since visit counts only grow.
func (p *Policy) Unlocked(visits int) []Tier {
	mustBeNonNegative(visits)

	unlocked := []Tier{}
	for _, tier := range p.tiers {
		if tier.ThresholdVisits <= visits {
			unlocked = append(unlocked, tier)
		}
	}
	return unlocked
}

// Next returns the lowest tier still locked, or nil once the whole ladder is
// unlocked.
func (p *Policy) Next(visits int) *Tier {
	mustBeNonNegative(visits)

	for _, tier := range p.tiers {
		if tier.ThresholdVisits > visits {
			next := tier
			return &next
		}
	}
	return nil
}

// EarnedAt returns the tier whose threshold equals the given visit count, if
// any. Used to detect the visit that crosses a threshold.
func (p *Policy) EarnedAt(visits int) *Tier {
	mustBeNonNegative(visits)

	for _, tier := range p.tiers {
		if tier.ThresholdVisits == visits {
			earned := tier
			return &earned
		}
	}
	return nil
}

// Progress reports linear progress in [0, 1] from the previous threshold
// toward the next one, resetting to 0 each time a tier unlocks and pinning at
// 1 once every tier is unlocked.
func (p *Policy) Progress(visits int) float64 {
	mustBeNonNegative(visits)

	next := p.Next(visits)
	if next == nil {
		return 1.0
	}

	previous := 0
	for _, tier := range p.tiers {
		if tier.ThresholdVisits <= visits {
			previous = tier.ThresholdVisits
		}
	}

	return float64(visits-previous) / float64(next.ThresholdVisits-previous)
}

func mustBeNonNegative(visits int) {
	if visits < 0 {
		panic(fmt.Sprintf("rewards: negative visit count %d", visits))
	}
}
