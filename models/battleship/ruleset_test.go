package battleship

import (
	"errors"
	"testing"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinRulesets(t *testing.T) {
	tests := []struct {
		ruleset        *Ruleset
		expectedCounts [MaxShipLength]int
		expectedSpace  bool
	}{
		{ruleset: OfficialFirstVersionRuleset, expectedCounts: [MaxShipLength]int{2, 1, 1, 1, 0}, expectedSpace: true},
		{ruleset: OfficialSecondVersionRuleset, expectedCounts: [MaxShipLength]int{1, 1, 1, 0, 1}, expectedSpace: false},
	}

	for _, test := range tests {
		t.Run(test.ruleset.Name(), func(t *testing.T) {
			r := test.ruleset
			if r.ShipCounts() != test.expectedCounts {
				t.Fatalf("expected counts: %v\tgot: %v", test.expectedCounts, r.ShipCounts())
			}
			if r.Width() != 15 || r.Height() != 15 {
				t.Fatalf("expected size: 15x15\tgot: %dx%d", r.Width(), r.Height())
			}
			if r.SpacingConstraint() != test.expectedSpace {
				t.Fatalf("expected spacing: %t\tgot: %t", test.expectedSpace, r.SpacingConstraint())
			}
			require.NoError(t, r.Validate())
			require.True(t, r.IsFrozen())

			err := r.SetShipCount(1, 3)
			assert.True(t, errors.Is(err, cerr.ErrRulesetImmutable))
			err = r.SetGridSize(10, 10)
			assert.True(t, errors.Is(err, cerr.ErrRulesetImmutable))
			err = r.SetSpacingConstraint(!test.expectedSpace)
			assert.True(t, errors.Is(err, cerr.ErrRulesetImmutable))

			// nothing changed
			assert.Equal(t, test.expectedCounts, r.ShipCounts())
			assert.Equal(t, 15, r.Width())
		})
	}
}

func TestRulesetFreeze(t *testing.T) {
	r := NewRuleset("custom")
	require.False(t, r.IsFrozen())
	require.NoError(t, r.SetGridSize(6, 7))
	require.NoError(t, r.SetShipCount(2, 3))
	require.NoError(t, r.SetSpacingConstraint(true))

	assert.Equal(t, 6, r.Width())
	assert.Equal(t, 7, r.Height())
	assert.Equal(t, 3, r.ShipCount(2))

	r.Freeze()
	err := r.SetShipCount(2, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, cerr.ErrRulesetImmutable))
	assert.Equal(t, 3, r.ShipCount(2))
}

func TestRulesetSetterValidation(t *testing.T) {
	r := NewRuleset("custom")
	assert.Error(t, r.SetShipCount(0, 1))
	assert.Error(t, r.SetShipCount(6, 1))
	assert.Error(t, r.SetShipCount(3, -1))
	assert.Error(t, r.SetGridSize(0, 4))
	assert.Equal(t, 0, r.ShipCount(9))
}

func TestRulesetValidate(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		spacing       bool
		counts        map[int]int
		unsatisfiable bool
		valid         bool
	}{
		{name: "no ships", width: 5, height: 5},
		{name: "single ship", width: 5, height: 5, counts: map[int]int{5: 1}, valid: true},
		{name: "long ship on narrow grid", width: 1, height: 5, counts: map[int]int{5: 1}, valid: true},
		{name: "long ship on small grid", width: 4, height: 4, counts: map[int]int{5: 1}, unsatisfiable: true},
		{name: "more cells than area", width: 2, height: 2, counts: map[int]int{1: 5}, unsatisfiable: true},
		{name: "spacing bound", width: 2, height: 2, spacing: true, counts: map[int]int{1: 3}, unsatisfiable: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := NewRuleset(test.name)
			require.NoError(t, r.SetGridSize(test.width, test.height))
			require.NoError(t, r.SetSpacingConstraint(test.spacing))
			for length, count := range test.counts {
				require.NoError(t, r.SetShipCount(length, count))
			}

			err := r.Validate()
			if test.valid {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, test.unsatisfiable, errors.Is(err, cerr.ErrUnsatisfiableRuleset))
		})
	}
}

func TestRulesetRegistry(t *testing.T) {
	rr := NewRulesetRegistry()

	r, err := rr.Lookup(RulesetNameOfficialFirstVersion)
	require.NoError(t, err)
	assert.Same(t, OfficialFirstVersionRuleset, r)

	_, err = rr.Lookup("unknown")
	require.Error(t, err)

	custom := NewRuleset("custom")
	require.NoError(t, custom.SetGridSize(6, 6))
	require.NoError(t, custom.SetShipCount(2, 2))
	require.NoError(t, rr.Register(custom))
	assert.True(t, custom.IsFrozen())

	assert.Error(t, rr.Register(custom), "duplicate name")
	assert.Error(t, rr.Register(NewRuleset("empty")), "invalid ruleset")

	crowded := NewRuleset("crowded")
	require.NoError(t, crowded.SetGridSize(2, 2))
	require.NoError(t, crowded.SetSpacingConstraint(true))
	require.NoError(t, crowded.SetShipCount(1, 2))
	require.NoError(t, crowded.Validate())
	err = rr.Register(crowded)
	require.Error(t, err, "no layout exists")
	assert.True(t, errors.Is(err, cerr.ErrUnsatisfiableRuleset), "got %v", err)

	assert.Equal(t, []string{"custom", RulesetNameOfficialFirstVersion, RulesetNameOfficialSecondVersion}, rr.Names())
}
