// Package scale holds the AFM wage scale tables and the compensation
// calculation applied to a contract when it is saved.
package scale

import (
	"errors"
	"fmt"
	"strings"
)

// Default scale keys applied to a contract that does not choose one.
const (
	DefaultLocal = "Local802"
	DefaultScale = "ClassicalConcert_23_24"
)

var ErrUnknownScale = errors.New("unknown scale")

// Rates is one wage scale: base pay, overtime, premiums, benefit rates and
// cartage for a local's agreement period.
type Rates struct {
	Name string

	PerformanceMinHours float64
	PerformanceBase     float64
	PerfOTUnitMins      int
	PerfOTRate          float64
	PerfOTPrincipalRate float64

	RehearsalMinCallHours float64
	RehearsalMinCallPay   float64
	RehOTUnitMins         int
	RehOTRate             float64
	RehOTPrincipalRate    float64

	// PrincipalPremium and DoublingPremium are fractions added on top of the
	// base scale wage (0.20 = +20%).
	PrincipalPremium float64
	DoublingPremium  float64

	PensionRate          float64
	HealthPerPerformance float64
	HealthPerRehearsal   float64
	WorkDuesRate         float64

	CartageStringBassRate float64
	CartageStandardRate   float64

	principalInstruments  []string
	cartageStringBass     []string
	cartageStandard       []string
}

// IsPrincipalInstrument reports whether the instrument string names any
// principal-eligible instrument. Matching is a case-insensitive substring
// check because players list several instruments in one field.
func (r *Rates) IsPrincipalInstrument(instrument string) bool {
	if instrument == "" {
		return false
	}
	lower := strings.ToLower(instrument)
	for _, p := range r.principalInstruments {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// CartageFee returns the flat cartage amount for the instrument, or 0 when
// the cartage flag is unset or the instrument carries no fee.
func (r *Rates) CartageFee(instrument string, hasCartage bool) float64 {
	if !hasCartage || instrument == "" {
		return 0
	}
	lower := strings.ToLower(instrument)
	for _, sb := range r.cartageStringBass {
		if strings.Contains(lower, sb) {
			return r.CartageStringBassRate
		}
	}
	for _, std := range r.cartageStandard {
		if strings.Contains(lower, std) {
			return r.CartageStandardRate
		}
	}
	return 0
}

var registry = map[string]map[string]*Rates{
	"Local802": {
		"ClassicalConcert_23_24": {
			Name: "Local 802 - Classical Concert (23-24)",

			PerformanceMinHours: 2.5,
			PerformanceBase:     333.91,
			PerfOTUnitMins:      15,
			PerfOTRate:          50.09,
			PerfOTPrincipalRate: 60.10,

			RehearsalMinCallHours: 2.5,
			RehearsalMinCallPay:   167.78,
			RehOTUnitMins:         30,
			RehOTRate:             50.33,
			RehOTPrincipalRate:    60.40,

			PrincipalPremium: 0.20,
			DoublingPremium:  0.20,

			PensionRate:          0.1799,
			HealthPerPerformance: 84.00,
			HealthPerRehearsal:   31.50,
			WorkDuesRate:         0.035,

			CartageStringBassRate: 49.04,
			CartageStandardRate:   29.94,

			principalInstruments: []string{
				"second violin", "viola", "cello", "bass", "flute", "oboe",
				"clarinet", "bassoon", "french horn", "trumpet", "trombone",
				"tuba", "timpani", "percussion", "harp", "keyboard",
			},
			cartageStringBass: []string{"string bass"},
			cartageStandard: []string{
				"cello", "bass clarinet", "contrabass clarinet",
				"contrabassoon", "tuba",
			},
		},
	},
}

// Lookup resolves a (local, scale) key pair against the registry.
func Lookup(local, scaleKey string) (*Rates, error) {
	scales, ok := registry[local]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownScale, local, scaleKey)
	}
	rates, ok := scales[scaleKey]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownScale, local, scaleKey)
	}
	return rates, nil
}
