package fleet

import "github.com/google/uuid"

// Idle is the DepartedAt value of a shuttle that is not away.
const Idle int64 = 0

// Shuttle is a reusable scouting unit.
type Shuttle struct {
	ID         string `json:"id"`
	Busy       bool   `json:"busy"`
	DepartedAt int64  `json:"departed_at"`
}

// Fleet is the pool of shuttles owned by one player.
type Fleet struct {
	Shuttles []*Shuttle `json:"shuttles"`
}

// New returns a fleet with n idle shuttles.
func New(n int) *Fleet {
	f := &Fleet{}
	for i := 0; i < n; i++ {
		f.Add()
	}
	return f
}

// Add commissions a new idle shuttle.
func (f *Fleet) Add() *Shuttle {
	s := &Shuttle{ID: uuid.NewString(), DepartedAt: Idle}
	f.Shuttles = append(f.Shuttles, s)
	return s
}

// Idle returns the first shuttle not on an expedition, or nil.
func (f *Fleet) Idle() *Shuttle {
	for _, s := range f.Shuttles {
		if !s.Busy {
			return s
		}
	}
	return nil
}

// Dispatch marks an idle shuttle busy with the given departure time.
// It returns nil when every shuttle is away.
func (f *Fleet) Dispatch(departedAt int64) *Shuttle {
	s := f.Idle()
	if s == nil {
		return nil
	}
	s.Busy = true
	s.DepartedAt = departedAt
	return s
}

// ReturnDeparted brings home the busy shuttle that left at departedAt.
func (f *Fleet) ReturnDeparted(departedAt int64) bool {
	for _, s := range f.Shuttles {
		if s.Busy && s.DepartedAt == departedAt {
			s.Busy = false
			s.DepartedAt = Idle
			return true
		}
	}
	return false
}

// Counts returns the number of idle and busy shuttles.
func (f *Fleet) Counts() (idle, busy int) {
	for _, s := range f.Shuttles {
		if s.Busy {
			busy++
		} else {
			idle++
		}
	}
	return idle, busy
}

func (f *Fleet) Len() int { return len(f.Shuttles) }
