package scale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulster44/Muse-Contracts/internal/model"
)

func classicalConcert(t *testing.T) *Rates {
	t.Helper()
	r, err := Lookup(DefaultLocal, DefaultScale)
	require.NoError(t, err)
	return r
}

func TestLookupUnknownScale(t *testing.T) {
	_, err := Lookup("Local802", "Gala_99")
	require.ErrorIs(t, err, ErrUnknownScale)

	_, err = Lookup("Local1", DefaultScale)
	require.ErrorIs(t, err, ErrUnknownScale)
}

func TestIsPrincipalInstrument(t *testing.T) {
	r := classicalConcert(t)

	assert.True(t, r.IsPrincipalInstrument("Oboe"))
	assert.True(t, r.IsPrincipalInstrument("Second Violin"))
	assert.True(t, r.IsPrincipalInstrument("flute, piccolo"))
	assert.False(t, r.IsPrincipalInstrument("Violin"))
	assert.False(t, r.IsPrincipalInstrument(""))
}

func TestCartageFee(t *testing.T) {
	r := classicalConcert(t)

	assert.InDelta(t, 49.04, r.CartageFee("String Bass", true), 0.001)
	assert.InDelta(t, 29.94, r.CartageFee("Cello", true), 0.001)
	assert.InDelta(t, 29.94, r.CartageFee("Bass Clarinet", true), 0.001)
	assert.Zero(t, r.CartageFee("Violin", true))
	assert.Zero(t, r.CartageFee("Cello", false))
}

func TestCalculateSoloLeaderWithOvertime(t *testing.T) {
	r := classicalConcert(t)
	c := &model.Contract{
		LeaderIsPlaying:       true,
		LeaderInstrument:      "Violin",
		ActualHoursEngagement: 3.0,
	}

	got := Calculate(c, nil, r)

	// 333.91 base + 2 OT units (30 min past the 2.5h call) at 50.09.
	assert.InDelta(t, 434.09, got.GrossComp, 0.001)
	assert.InDelta(t, 78.09, got.Pension, 0.001)
	assert.InDelta(t, 84.00, got.Health, 0.001)
	assert.InDelta(t, 15.19, got.WorkDues, 0.001)
	assert.Equal(t, 1, got.MusiciansPaid)
}

func TestCalculatePrincipalDoublingAndRehearsal(t *testing.T) {
	r := classicalConcert(t)
	c := &model.Contract{
		LeaderIsPlaying:       true,
		LeaderInstrument:      "Violin",
		ActualHoursEngagement: 2.5,
		HasRehearsal:          true,
		ActualHoursRehearsal:  3.0,
	}
	musicians := []model.SideMusician{
		{Name: "A. Lee", Instrument: "Oboe", IsDoubling: true},
	}

	got := Calculate(c, musicians, r)

	// Leader: 333.91 perf + 167.78 rehearsal + 1 rehearsal OT unit at 50.33
	// = 552.02. Oboe (principal, doubling): 400.692 perf + 201.336 rehearsal
	// + 60.40 OT + 120.4056 doubling = 782.8336.
	assert.InDelta(t, 1334.85, got.GrossComp, 0.001)
	assert.InDelta(t, 240.14, got.Pension, 0.001)
	assert.InDelta(t, 231.00, got.Health, 0.001)
	assert.InDelta(t, 46.72, got.WorkDues, 0.001)
	assert.Equal(t, 2, got.MusiciansPaid)
}

func TestCalculateNonPlayingLeaderExcluded(t *testing.T) {
	r := classicalConcert(t)
	c := &model.Contract{
		LeaderIsPlaying:       false,
		ActualHoursEngagement: 2.5,
	}
	musicians := []model.SideMusician{
		{Name: "A. Lee", Instrument: "Violin"},
	}

	got := Calculate(c, musicians, r)

	assert.InDelta(t, 333.91, got.GrossComp, 0.001)
	assert.InDelta(t, 84.00, got.Health, 0.001)
	assert.Equal(t, 1, got.MusiciansPaid)
}

func TestCalculateCartageAddsFlatFee(t *testing.T) {
	r := classicalConcert(t)
	c := &model.Contract{
		LeaderIsPlaying:       true,
		LeaderInstrument:      "Violin",
		ActualHoursEngagement: 2.5,
	}
	musicians := []model.SideMusician{
		{Name: "B. Chen", Instrument: "String Bass", HasCartage: true},
	}

	got := Calculate(c, musicians, r)

	// Leader 333.91 + bass (principal) 400.692 + cartage 49.04.
	assert.InDelta(t, 783.64, got.GrossComp, 0.005)
	assert.Equal(t, 2, got.MusiciansPaid)
}

func TestCalculateNoServicesYieldsZero(t *testing.T) {
	r := classicalConcert(t)
	c := &model.Contract{
		LeaderIsPlaying:  true,
		LeaderInstrument: "Violin",
		HasRehearsal:     true, // flag set but no hours entered yet
	}

	got := Calculate(c, []model.SideMusician{{Name: "A. Lee"}}, r)

	assert.Zero(t, got.GrossComp)
	assert.Zero(t, got.Pension)
	assert.Zero(t, got.Health)
	assert.Zero(t, got.WorkDues)
	assert.Zero(t, got.MusiciansPaid)
}
