// Package valuation holds the follower-tier pricing policy used to value
// finished collaborations.
package valuation

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	appErrors "github.com/unclebandit/collabhub-backend/internal/errors"
)

type Tier struct {
	Name          string  `yaml:"tier" json:"tier"`
	MinFollowers  int     `yaml:"min_followers" json:"minFollowers"`
	ValuePerStory float64 `yaml:"value_per_story" json:"valuePerStory"`
}

// Table is a pricing policy. A follower count falls in the tier with the
// highest MinFollowers not above it.
type Table struct {
	tiers []Tier // ascending by MinFollowers
}

type policyFile struct {
	Tiers []Tier `yaml:"tiers"`
}

// NewTable validates tiers and returns a table ordered by threshold.
func NewTable(tiers []Tier) (*Table, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("%w: no tiers", appErrors.ErrInvalidPolicy)
	}
	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinFollowers < sorted[j].MinFollowers
	})

	names := map[string]bool{}
	for i, t := range sorted {
		switch {
		case t.Name == "":
			return nil, fmt.Errorf("%w: tier %d has no name", appErrors.ErrInvalidPolicy, i)
		case names[t.Name]:
			return nil, fmt.Errorf("%w: duplicate tier %q", appErrors.ErrInvalidPolicy, t.Name)
		case t.MinFollowers < 0:
			return nil, fmt.Errorf("%w: tier %q has negative min_followers", appErrors.ErrInvalidPolicy, t.Name)
		case t.ValuePerStory < 0:
			return nil, fmt.Errorf("%w: tier %q has negative value_per_story", appErrors.ErrInvalidPolicy, t.Name)
		case i > 0 && sorted[i-1].MinFollowers == t.MinFollowers:
			return nil, fmt.Errorf("%w: tiers %q and %q share threshold %d",
				appErrors.ErrInvalidPolicy, sorted[i-1].Name, t.Name, t.MinFollowers)
		}
		names[t.Name] = true
	}
	return &Table{tiers: sorted}, nil
}

// Parse reads a YAML policy document.
func Parse(raw []byte) (*Table, error) {
	var f policyFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: parse policy: %v", appErrors.ErrInvalidPolicy, err)
	}
	return NewTable(f.Tiers)
}

// Load reads a YAML policy file from path.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read valuation policy %s: %w", path, err)
	}
	return Parse(raw)
}

func (t *Table) Tiers() []Tier {
	out := make([]Tier, len(t.tiers))
	copy(out, t.tiers)
	return out
}

func (t *Table) TierOf(followers int) (string, error) {
	for i := len(t.tiers) - 1; i >= 0; i-- {
		if followers >= t.tiers[i].MinFollowers {
			return t.tiers[i].Name, nil
		}
	}
	return "", appErrors.NewConfigurationError(followers)
}

func (t *Table) EMVFor(tier string, stories int) (float64, error) {
	for _, candidate := range t.tiers {
		if candidate.Name == tier {
			return candidate.ValuePerStory * float64(stories), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown tier %q", appErrors.ErrInvalidPolicy, tier)
}
