package scale

import (
	"math"

	"github.com/paulster44/Muse-Contracts/internal/model"
)

// Totals is the derived compensation for a contract, rounded to cents.
// MusiciansPaid counts the musicians (leader included) with a positive gross.
type Totals struct {
	GrossComp     float64
	WorkDues      float64
	Pension       float64
	Health        float64
	MusiciansPaid int
}

type player struct {
	instrument string
	isDoubling bool
	hasCartage bool
}

// Calculate derives the scale wages for a contract. Every participating
// musician earns the base scale for each service (performance, rehearsal),
// overtime past the minimum call in the scale's OT units, a doubling premium
// on the service subtotal, and cartage for qualifying instruments. Health is
// contributed per service regardless of premiums; pension and work dues are
// percentages of gross scale wages.
func Calculate(c *model.Contract, musicians []model.SideMusician, r *Rates) Totals {
	perfHours := c.ActualHoursEngagement
	rehHours := c.ActualHoursRehearsal
	hasPerf := perfHours > 0
	hasReh := c.HasRehearsal && rehHours > 0

	players := make([]player, 0, len(musicians)+1)
	if c.LeaderIsPlaying {
		players = append(players, player{
			instrument: c.LeaderInstrument,
			isDoubling: c.LeaderIsDoubling,
			hasCartage: c.LeaderHasCartage,
		})
	}
	for _, m := range musicians {
		players = append(players, player{
			instrument: m.Instrument,
			isDoubling: m.IsDoubling,
			hasCartage: m.HasCartage,
		})
	}

	var totals Totals
	for _, p := range players {
		gross, health := playerPay(r, p, perfHours, rehHours, hasPerf, hasReh)
		totals.Health += health
		if gross > 0 {
			totals.GrossComp += gross
			totals.Pension += gross * r.PensionRate
			totals.MusiciansPaid++
		}
	}
	totals.WorkDues = totals.GrossComp * r.WorkDuesRate

	totals.GrossComp = roundCents(totals.GrossComp)
	totals.WorkDues = roundCents(totals.WorkDues)
	totals.Pension = roundCents(totals.Pension)
	totals.Health = roundCents(totals.Health)
	return totals
}

func playerPay(r *Rates, p player, perfHours, rehHours float64, hasPerf, hasReh bool) (gross, health float64) {
	principal := r.IsPrincipalInstrument(p.instrument)

	var perfPay, rehPay, otPay float64
	if hasPerf {
		perfPay = r.PerformanceBase
		if principal {
			perfPay *= 1 + r.PrincipalPremium
		}
		health += r.HealthPerPerformance
		if perfHours > r.PerformanceMinHours && r.PerfOTUnitMins > 0 {
			units := math.Ceil((perfHours - r.PerformanceMinHours) * 60 / float64(r.PerfOTUnitMins))
			rate := r.PerfOTRate
			if principal {
				rate = r.PerfOTPrincipalRate
			}
			otPay += units * rate
		}
	}
	if hasReh {
		rehPay = r.RehearsalMinCallPay
		if principal {
			rehPay *= 1 + r.PrincipalPremium
		}
		health += r.HealthPerRehearsal
		if rehHours > r.RehearsalMinCallHours && r.RehOTUnitMins > 0 {
			units := math.Ceil((rehHours - r.RehearsalMinCallHours) * 60 / float64(r.RehOTUnitMins))
			rate := r.RehOTRate
			if principal {
				rate = r.RehOTPrincipalRate
			}
			otPay += units * rate
		}
	}

	var doublingPay float64
	if p.isDoubling && perfPay+rehPay > 0 {
		doublingPay = (perfPay + rehPay) * r.DoublingPremium
	}

	gross = perfPay + rehPay + otPay + doublingPay + r.CartageFee(p.instrument, p.hasCartage)
	return gross, health
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
