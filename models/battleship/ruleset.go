package battleship

import (
	"fmt"
	"sync"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

const (
	RulesetNameOfficialFirstVersion  = "official_version_1"
	RulesetNameOfficialSecondVersion = "official_version_2"

	officialGridSize = 15
)

var (
	OfficialFirstVersionRuleset = newBuiltinRuleset(
		RulesetNameOfficialFirstVersion,
		[MaxShipLength]int{2, 1, 1, 1, 0},
		officialGridSize,
		officialGridSize,
		true,
	)

	OfficialSecondVersionRuleset = newBuiltinRuleset(
		RulesetNameOfficialSecondVersion,
		[MaxShipLength]int{1, 1, 1, 0, 1},
		officialGridSize,
		officialGridSize,
		false,
	)
)

// Ruleset is shared by reference between games. Ad-hoc rulesets accept
// changes until Freeze is called; built-in ones never do.
type Ruleset struct {
	name       string
	shipCounts [MaxShipLength]int
	width      int
	height     int
	spacing    bool
	frozen     bool
	mu         sync.RWMutex
}

// NewRuleset returns a mutable ruleset with a 1x1 grid and no ships.
func NewRuleset(name string) *Ruleset {
	return &Ruleset{
		name:   name,
		width:  1,
		height: 1,
	}
}

func newBuiltinRuleset(name string, shipCounts [MaxShipLength]int, width, height int, spacing bool) *Ruleset {
	return &Ruleset{
		name:       name,
		shipCounts: shipCounts,
		width:      width,
		height:     height,
		spacing:    spacing,
		frozen:     true,
	}
}

func (r *Ruleset) Name() string {
	return r.name
}

func (r *Ruleset) String() string {
	return r.name
}

func (r *Ruleset) ShipCount(length int) int {
	if length < MinShipLength || length > MaxShipLength {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.shipCounts[length-1]
}

// ShipCounts is indexed by length-1.
func (r *Ruleset) ShipCounts() [MaxShipLength]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.shipCounts
}

func (r *Ruleset) Width() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.width
}

func (r *Ruleset) Height() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.height
}

func (r *Ruleset) SpacingConstraint() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.spacing
}

func (r *Ruleset) IsFrozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

func (r *Ruleset) SetShipCount(length, count int) error {
	if length < MinShipLength || length > MaxShipLength {
		return cerr.ErrInvalidShipLength(length)
	}
	if count < 0 {
		return cerr.ErrInvalidRuleset(r.name, fmt.Sprintf("negative ship count for length %d", length))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return cerr.ErrRulesetFrozen(r.name)
	}
	r.shipCounts[length-1] = count
	return nil
}

func (r *Ruleset) SetGridSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return cerr.ErrInvalidRuleset(r.name, "grid size must be positive")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return cerr.ErrRulesetFrozen(r.name)
	}
	r.width = width
	r.height = height
	return nil
}

func (r *Ruleset) SetSpacingConstraint(spacing bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return cerr.ErrRulesetFrozen(r.name)
	}
	r.spacing = spacing
	return nil
}

// Freeze is called when the first game starts with this ruleset.
func (r *Ruleset) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Validate rejects rulesets that no fleet can satisfy. The spacing check
// is a necessary condition only: a ship of length L with its one-tile
// border claims 2*(L+1) cells of the (w+1)*(h+1) half-shifted lattice.
func (r *Ruleset) Validate() error {
	counts := r.ShipCounts()
	width, height, spacing := r.Width(), r.Height(), r.SpacingConstraint()

	if width <= 0 || height <= 0 {
		return cerr.ErrInvalidRuleset(r.name, "grid size must be positive")
	}

	total, cells, spacedCells := 0, 0, 0
	for i, count := range counts {
		length := i + 1
		if count < 0 {
			return cerr.ErrInvalidRuleset(r.name, fmt.Sprintf("negative ship count for length %d", length))
		}
		if count > 0 && length > width && length > height {
			return cerr.ErrRulesetUnsatisfiable(r.name, fmt.Sprintf("ship of length %d does not fit a %dx%d grid", length, width, height))
		}
		total += count
		cells += count * length
		spacedCells += count * 2 * (length + 1)
	}

	if total == 0 {
		return cerr.ErrInvalidRuleset(r.name, "ruleset has no ships")
	}
	if cells > width*height {
		return cerr.ErrRulesetUnsatisfiable(r.name, "ships cover more tiles than the grid has")
	}
	if spacing && spacedCells > (width+1)*(height+1) {
		return cerr.ErrRulesetUnsatisfiable(r.name, "ships cannot keep their distance on this grid")
	}
	return nil
}
