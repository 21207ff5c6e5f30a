package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Category groups resources by physical kind.
type Category uint8

const (
	Solid Category = iota
	Liquid
	Metal
	Fuel
)

func (c Category) String() string {
	switch c {
	case Solid:
		return "Solid"
	case Liquid:
		return "Liquid"
	case Metal:
		return "Metal"
	case Fuel:
		return "Fuel"
	default:
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
}

// Resource identifies a minable resource kind.
type Resource uint8

const (
	Iron Resource = iota
	Copper
	Organics
	Peat
	Stone
	Sand
	Water
	Oil
	Uranium
)

// Common is returned by RollResource when no spawn weight beats the draw.
const Common = Stone

// Info is the static definition of a resource kind.
type Info struct {
	Name     string
	Category Category
	Price    float64 // credits per kg
	Weight   float64 // spawn threshold in [0,100)
}

var table = map[Resource]Info{
	Iron:     {Name: "Iron", Category: Metal, Price: 0.25, Weight: 45},
	Copper:   {Name: "Copper", Category: Metal, Price: 0.2, Weight: 12},
	Organics: {Name: "Organics", Category: Solid, Price: 0.5, Weight: 20},
	Peat:     {Name: "Peat", Category: Fuel, Price: 0.65, Weight: 15},
	Stone:    {Name: "Stone", Category: Solid, Price: 0.1, Weight: 75},
	Sand:     {Name: "Sand", Category: Solid, Price: 0.15, Weight: 60},
	Water:    {Name: "Water", Category: Liquid, Price: 0.5, Weight: 30},
	Oil:      {Name: "Oil", Category: Fuel, Price: 0.7, Weight: 6},
	Uranium:  {Name: "Uranium", Category: Fuel, Price: 0.85, Weight: 3},
}

// byWeight lists every resource in ascending spawn weight, ties in enum order.
var byWeight = func() []Resource {
	out := All()
	sort.SliceStable(out, func(i, j int) bool {
		return table[out[i]].Weight < table[out[j]].Weight
	})
	return out
}()

// All returns every resource kind in enum order.
func All() []Resource {
	out := make([]Resource, 0, len(table))
	for r := Iron; r <= Uranium; r++ {
		out = append(out, r)
	}
	return out
}

// Lookup returns the static definition of r.
func Lookup(r Resource) (Info, bool) {
	info, ok := table[r]
	return info, ok
}

func (r Resource) String() string {
	if info, ok := table[r]; ok {
		return info.Name
	}
	return fmt.Sprintf("Resource(%d)", uint8(r))
}

// Price returns the unit sell price of r, zero for unknown kinds.
func (r Resource) Price() float64 { return table[r].Price }

// Category returns the category tag of r.
func (r Resource) Category() Category { return table[r].Category }

// Valid reports whether r is a known resource kind.
func (r Resource) Valid() bool {
	_, ok := table[r]
	return ok
}

// ParseResource resolves a resource by name, case-insensitively.
func ParseResource(name string) (Resource, error) {
	for r, info := range table {
		if strings.EqualFold(info.Name, strings.TrimSpace(name)) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown resource %q", name)
}

func (r Resource) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("marshal resource: invalid value %d", uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Resource) UnmarshalText(b []byte) error {
	parsed, err := ParseResource(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Rand is the randomness source used for rolls. *rand.Rand from math/rand/v2
// satisfies it.
type Rand interface {
	Float64() float64
}

// RollResource picks a resource kind for a newly discovered deposit.
//
// The draw is compared against spawn weights in ascending order, so rare kinds
// are tested first; the first weight exceeding the draw wins. Draws above every
// weight yield Common.
func RollResource(rng Rand) Resource {
	roll := rng.Float64() * 100
	for _, r := range byWeight {
		if table[r].Weight > roll {
			return r
		}
	}
	return Common
}
