package services

import (
	"fmt"
	"math"
	"math/big"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/owizdom/eigen-hotcold-lotto/internal/models"
)

// TierConfig is one pricing bracket: guesses whose distance is at most
// MaxDistance land in Tier, and the round's buy-in becomes
// baseBuyIn * Multiplier once that tier is reached.
type TierConfig struct {
	Tier        models.Tier `yaml:"tier"`
	MaxDistance uint64      `yaml:"max_distance"`
	Multiplier  uint64      `yaml:"multiplier"`
}

type pricingFile struct {
	Tiers []TierConfig `yaml:"tiers"`
}

// tierRank is the fixed severity order. Escalation compares ranks, never raw
// distance thresholds, so a reconfigured tier scheme cannot flip the latch
// direction.
var tierRank = map[models.Tier]int{
	models.TierBase:      0,
	models.TierWarm:      1,
	models.TierHot:       2,
	models.TierScorching: 3,
}

type PricingEngine struct {
	tiers []TierConfig // sorted ascending by MaxDistance
}

func DefaultTiers() []TierConfig {
	return []TierConfig{
		{Tier: models.TierScorching, MaxDistance: 10, Multiplier: 10},
		{Tier: models.TierHot, MaxDistance: 100, Multiplier: 5},
		{Tier: models.TierWarm, MaxDistance: 1000, Multiplier: 2},
		{Tier: models.TierBase, MaxDistance: math.MaxUint64, Multiplier: 1},
	}
}

func NewPricingEngine(tiers []TierConfig) (*PricingEngine, error) {
	if len(tiers) == 0 {
		tiers = DefaultTiers()
	}

	sorted := make([]TierConfig, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MaxDistance < sorted[j].MaxDistance
	})

	seen := make(map[models.Tier]bool, len(sorted))
	for _, tc := range sorted {
		if _, ok := tierRank[tc.Tier]; !ok {
			return nil, fmt.Errorf("unknown pricing tier %q", tc.Tier)
		}
		if seen[tc.Tier] {
			return nil, fmt.Errorf("duplicate pricing tier %q", tc.Tier)
		}
		seen[tc.Tier] = true
		if tc.Multiplier == 0 {
			return nil, fmt.Errorf("tier %q has zero multiplier", tc.Tier)
		}
	}

	return &PricingEngine{tiers: sorted}, nil
}

// NewPricingEngineFromYAML parses a tier table like:
//
//	tiers:
//	  - tier: hot
//	    max_distance: 100
//	    multiplier: 5
func NewPricingEngineFromYAML(data []byte) (*PricingEngine, error) {
	var pf pricingFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse pricing config: %w", err)
	}
	return NewPricingEngine(pf.Tiers)
}

// TierFor returns the tightest tier whose MaxDistance still covers the
// distance, falling back to base when nothing matches.
func (p *PricingEngine) TierFor(distance uint64) models.Tier {
	for _, tc := range p.tiers {
		if distance <= tc.MaxDistance {
			return tc.Tier
		}
	}
	return models.TierBase
}

func (p *PricingEngine) MultiplierFor(tier models.Tier) uint64 {
	for _, tc := range p.tiers {
		if tc.Tier == tier {
			return tc.Multiplier
		}
	}
	return 1
}

func (p *PricingEngine) BuyInFor(baseBuyIn *big.Int, distance uint64) *big.Int {
	mult := p.MultiplierFor(p.TierFor(distance))
	return new(big.Int).Mul(baseBuyIn, new(big.Int).SetUint64(mult))
}

// ShouldEscalate reports whether a new distance moves the round into a
// strictly more severe tier. The latch is one-directional: colder guesses
// never regress a round's tier.
func (p *PricingEngine) ShouldEscalate(current models.Tier, distance uint64) bool {
	return SeverityRank(p.TierFor(distance)) > SeverityRank(current)
}

func SeverityRank(t models.Tier) int {
	return tierRank[t]
}
