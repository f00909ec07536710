package texture

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"openglrem/internal/opengl"
)

// MaxUnits is the most texture units the allocator will hand out.
const MaxUnits = 32

var ErrUnitsExhausted = errors.New("texture: no free texture unit")

// UnitAllocator hands out texture unit indices. Units are given in strictly
// increasing order until one is released; released units are reused lowest
// first.
type UnitAllocator struct {
	mu   sync.Mutex
	max  int
	next int
	free []int
	used map[int]bool
}

// NewUnitAllocator allows limit units, clamped to [1, MaxUnits].
func NewUnitAllocator(limit int) *UnitAllocator {
	if limit <= 0 || limit > MaxUnits {
		limit = MaxUnits
	}
	return &UnitAllocator{max: limit, used: make(map[int]bool)}
}

// QueryMaxUnits reads the driver's combined texture unit limit, capped at
// MaxUnits.
func QueryMaxUnits(gl opengl.Functions) int {
	n := int(gl.GetInteger(opengl.MAX_COMBINED_TEXTURE_IMAGE_UNITS))
	if n <= 0 || n > MaxUnits {
		return MaxUnits
	}
	return n
}

// Acquire returns a free unit. When every unit is in use it fails and the
// allocator state is unchanged.
func (a *UnitAllocator) Acquire() (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var unit int
	switch {
	case len(a.free) > 0:
		unit = a.free[0]
		a.free = a.free[1:]
	case a.next < a.max:
		unit = a.next
		a.next++
	default:
		return 0, fmt.Errorf("%w: all %d in use", ErrUnitsExhausted, a.max)
	}
	a.used[unit] = true
	return unit, nil
}

func (a *UnitAllocator) Release(unit int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.used[unit] {
		return fmt.Errorf("%w: %d is not in use", ErrIncorrectUnit, unit)
	}
	delete(a.used, unit)
	a.free = append(a.free, unit)
	sort.Ints(a.free)
	return nil
}

func (a *UnitAllocator) InUse() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.used)
}

func (a *UnitAllocator) Cap() int {
	return a.max
}
