package player

import (
	"StarMiner/internal/catalog"
	"StarMiner/internal/deposit"
)

// DepletedDeposit names a deposit exhausted during an advancement pass.
type DepletedDeposit struct {
	Name     string
	Resource catalog.Resource
}

// ProgressReport summarizes one advancement pass.
type ProgressReport struct {
	Elapsed   int64 // seconds since the player's previous pass
	Extracted map[catalog.Resource]float64
	Remaining map[catalog.Resource]float64
	Depleted  []DepletedDeposit
	CargoFull bool
	Deposits  int // deposits owned before the pass
}

// Advance moves resources from deposits into the cargo bay for the time
// elapsed since each deposit was last observed.
//
// Overflow that does not fit the bay goes back to its deposit before the
// extracted figure is reduced, so the report only counts what was stored.
// Calling Advance again with the same now extracts nothing.
func (p *Player) Advance(now int64) ProgressReport {
	rep := ProgressReport{
		Elapsed:   now - p.LastCheck,
		Extracted: make(map[catalog.Resource]float64),
		Remaining: make(map[catalog.Resource]float64),
		Deposits:  p.Database.Len(),
	}
	if rep.Elapsed < 0 {
		rep.Elapsed = 0
	}
	p.LastCheck = now

	rate := p.Rules().ExtractionRate
	deposits := append([]*deposit.Deposit(nil), p.Database.Deposits...)
	for _, d := range deposits {
		if p.Cargo.IsFull() {
			break
		}
		elapsed := d.ObserveElapsed(now)
		extracted := rate * (float64(elapsed) / 60)

		if extracted >= d.Remaining {
			extracted = d.Remaining
			d.Remaining = 0
		} else {
			d.Remaining -= extracted
		}

		if overflow := p.Cargo.Insert(d.Resource, extracted); overflow > 0 {
			d.Remaining += overflow
			extracted -= overflow
			if extracted < 0 {
				extracted = 0
			}
		}

		rep.Extracted[d.Resource] += extracted
		rep.Remaining[d.Resource] += d.Remaining
		if d.Remaining == 0 {
			p.Database.Remove(d)
			rep.Depleted = append(rep.Depleted, DepletedDeposit{Name: d.Name, Resource: d.Resource})
		}
	}
	rep.CargoFull = p.Cargo.IsFull()
	return rep
}

// TotalExtracted sums the extracted amounts of every kind.
func (r ProgressReport) TotalExtracted() float64 {
	total := 0.0
	for _, v := range r.Extracted {
		total += v
	}
	return total
}

// YieldPerMinute projects the steady-state extraction per resource kind.
func (p *Player) YieldPerMinute() map[catalog.Resource]float64 {
	out := make(map[catalog.Resource]float64)
	rate := p.Rules().ExtractionRate
	for kind := range p.Database.ResourceReserves() {
		out[kind] = float64(p.Database.ExtractionRate(kind)) * rate
	}
	return out
}
