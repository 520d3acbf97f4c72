package battleship

import (
	"sort"
	"sync"

	"github.com/dolthub/swiss"
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

// RulesetRegistry resolves ruleset names for new games. It always knows
// the two official rulesets.
type RulesetRegistry struct {
	rulesets *swiss.Map[string, *Ruleset]
	mu       sync.RWMutex
}

func NewRulesetRegistry() *RulesetRegistry {
	rr := &RulesetRegistry{
		rulesets: swiss.NewMap[string, *Ruleset](8),
	}
	rr.rulesets.Put(OfficialFirstVersionRuleset.Name(), OfficialFirstVersionRuleset)
	rr.rulesets.Put(OfficialSecondVersionRuleset.Name(), OfficialSecondVersionRuleset)
	return rr
}

// Register validates and freezes r before making it available. A ruleset
// that passes Validate but has no layout at all is refused here rather
// than when a game starts.
func (rr *RulesetRegistry) Register(r *Ruleset) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if !Satisfiable(r) {
		return cerr.ErrRulesetUnsatisfiable(r.Name(), "no layout found")
	}

	rr.mu.Lock()
	defer rr.mu.Unlock()

	if rr.rulesets.Has(r.Name()) {
		return cerr.ErrDuplicateRuleset(r.Name())
	}
	r.Freeze()
	rr.rulesets.Put(r.Name(), r)
	return nil
}

func (rr *RulesetRegistry) Lookup(name string) (*Ruleset, error) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	r, exists := rr.rulesets.Get(name)
	if !exists {
		return nil, cerr.ErrRulesetNotExists(name)
	}
	return r, nil
}

func (rr *RulesetRegistry) Names() []string {
	rr.mu.RLock()
	names := make([]string, 0, rr.rulesets.Count())
	rr.rulesets.Iter(func(name string, _ *Ruleset) (stop bool) {
		names = append(names, name)
		return false
	})
	rr.mu.RUnlock()

	sort.Strings(names)
	return names
}
