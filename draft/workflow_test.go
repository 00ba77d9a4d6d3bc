package draft_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulster44/Muse-Contracts/draft"
)

type fakeStore struct {
	mu          sync.Mutex
	createIDs   []uuid.UUID
	createErr   error
	createCalls int
	updateErr   error
	updateCalls int
	lastID      uuid.UUID
	lastDraft   draft.ContractDraft
}

func (f *fakeStore) CreateDraft(ctx context.Context) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	id := f.createIDs[0]
	if len(f.createIDs) > 1 {
		f.createIDs = f.createIDs[1:]
	}
	return id, nil
}

func (f *fakeStore) UpdateContract(ctx context.Context, id uuid.UUID, d draft.ContractDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	f.lastID = id
	f.lastDraft = d
	return nil
}

func newFakeStore(ids ...uuid.UUID) *fakeStore {
	if len(ids) == 0 {
		ids = []uuid.UUID{uuid.New()}
	}
	return &fakeStore{createIDs: ids}
}

func TestNewWorkflowDefaults(t *testing.T) {
	w := draft.New(newFakeStore(), nil)

	require.Equal(t, draft.PhaseEngagement, w.Phase())
	_, ok := w.DraftID()
	assert.False(t, ok)

	d := w.Draft()
	assert.Equal(t, "0", d.PreHeatHours)
	assert.Equal(t, "0", d.ActualHoursEngagement)
	assert.Equal(t, "0", d.ActualHoursRehearsal)
	assert.Equal(t, "1", d.NumMusicians)
	assert.False(t, d.HasRehearsal)
	assert.False(t, d.IsRecorded)
	assert.False(t, d.LeaderIsIncorporated)
	assert.Empty(t, d.SideMusicians)
}

func TestSetFieldLastWriteWins(t *testing.T) {
	w := draft.New(newFakeStore(), nil)

	require.NoError(t, w.SetField(draft.FieldLeaderName, "J. Smith"))
	require.NoError(t, w.SetField(draft.FieldVenueName, "Carnegie Hall"))
	require.NoError(t, w.SetField(draft.FieldLeaderName, "A. Brown"))
	require.NoError(t, w.SetField(draft.FieldLeaderName, "C. Davis"))

	d := w.Draft()
	assert.Equal(t, "C. Davis", d.LeaderName)
	assert.Equal(t, "Carnegie Hall", d.VenueName)
}

func TestSetFieldUnknownName(t *testing.T) {
	w := draft.New(newFakeStore(), nil)

	err := w.SetField("leader_shoe_size", "11")
	require.ErrorIs(t, err, draft.ErrUnknownField)
}

func TestSetFieldBooleanParsing(t *testing.T) {
	w := draft.New(newFakeStore(), nil)

	require.NoError(t, w.SetField(draft.FieldHasRehearsal, "true"))
	require.NoError(t, w.SetField(draft.FieldIsRecorded, "false"))
	require.Error(t, w.SetField(draft.FieldLeaderIsIncorporated, "maybe"))

	d := w.Draft()
	assert.True(t, d.HasRehearsal)
	assert.False(t, d.IsRecorded)
	assert.False(t, d.LeaderIsIncorporated)
}

func TestAddSideMusicianNoAliasing(t *testing.T) {
	w := draft.New(newFakeStore(), nil)

	first := w.AddSideMusician()
	require.Equal(t, 0, first)
	require.NoError(t, w.SetSideMusicianField(first, draft.MusicianFieldName, "A. Lee"))
	require.NoError(t, w.SetSideMusicianField(first, draft.MusicianFieldInstrument, "Viola"))

	second := w.AddSideMusician()
	require.Equal(t, 1, second)
	require.NoError(t, w.SetSideMusicianField(second, draft.MusicianFieldName, "B. Chen"))
	require.NoError(t, w.SetSideMusicianField(second, draft.MusicianFieldIsDoubling, "true"))

	d := w.Draft()
	require.Len(t, d.SideMusicians, 2)
	assert.Equal(t, "A. Lee", d.SideMusicians[0].Name)
	assert.Equal(t, "Viola", d.SideMusicians[0].Instrument)
	assert.False(t, d.SideMusicians[0].IsDoubling)
	assert.Equal(t, "B. Chen", d.SideMusicians[1].Name)
	assert.Empty(t, d.SideMusicians[1].Instrument)
	assert.True(t, d.SideMusicians[1].IsDoubling)
}

func TestSetSideMusicianFieldOutOfRangePanics(t *testing.T) {
	w := draft.New(newFakeStore(), nil)

	require.Panics(t, func() {
		_ = w.SetSideMusicianField(0, draft.MusicianFieldName, "ghost")
	})
}

func TestDraftReturnsCopy(t *testing.T) {
	w := draft.New(newFakeStore(), nil)
	w.AddSideMusician()

	d := w.Draft()
	d.LeaderName = "mutated"
	d.SideMusicians[0].Name = "mutated"

	fresh := w.Draft()
	assert.Empty(t, fresh.LeaderName)
	assert.Empty(t, fresh.SideMusicians[0].Name)
}

func TestSubmitBeforeCreateDraftFailsFast(t *testing.T) {
	store := newFakeStore()
	w := draft.New(store, nil)

	err := w.Submit(context.Background())
	require.ErrorIs(t, err, draft.ErrNoDraft)
	assert.Zero(t, store.updateCalls)
}

func TestCreateAndSubmitFlow(t *testing.T) {
	id := uuid.New()
	store := newFakeStore(id)
	var navigated []uuid.UUID
	w := draft.New(store, func(submitted uuid.UUID) {
		navigated = append(navigated, submitted)
	})

	require.NoError(t, w.SetField(draft.FieldEngagementDate, "2024-05-01"))
	require.NoError(t, w.SetField(draft.FieldLeaderName, "J. Smith"))

	require.NoError(t, w.CreateDraft(context.Background()))
	assert.Equal(t, draft.PhasePersonnel, w.Phase())
	got, ok := w.DraftID()
	require.True(t, ok)
	assert.Equal(t, id, got)

	d := w.Draft()
	assert.Equal(t, "2024-05-01", d.EngagementDate)
	assert.Equal(t, "J. Smith", d.LeaderName)

	idx := w.AddSideMusician()
	require.NoError(t, w.SetSideMusicianField(idx, draft.MusicianFieldName, "A. Lee"))

	require.NoError(t, w.Submit(context.Background()))
	assert.Equal(t, draft.PhaseSubmitted, w.Phase())
	assert.Equal(t, id, store.lastID)
	assert.Equal(t, "2024-05-01", store.lastDraft.EngagementDate)
	assert.Equal(t, "J. Smith", store.lastDraft.LeaderName)
	require.Len(t, store.lastDraft.SideMusicians, 1)
	assert.Equal(t, "A. Lee", store.lastDraft.SideMusicians[0].Name)

	require.Len(t, navigated, 1, "navigation fires exactly once")
	assert.Equal(t, id, navigated[0])

	err := w.Submit(context.Background())
	require.ErrorIs(t, err, draft.ErrSubmitted)
	assert.Len(t, navigated, 1)
}

func TestCreateDraftFailurePreservesState(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("store unavailable")
	w := draft.New(store, nil)

	require.NoError(t, w.SetField(draft.FieldEngagementDate, "2024-05-01"))
	require.NoError(t, w.SetField(draft.FieldLeaderName, "J. Smith"))

	err := w.CreateDraft(context.Background())
	require.Error(t, err)
	assert.Equal(t, draft.PhaseEngagement, w.Phase())
	_, ok := w.DraftID()
	assert.False(t, ok)

	d := w.Draft()
	assert.Equal(t, "2024-05-01", d.EngagementDate)
	assert.Equal(t, "J. Smith", d.LeaderName)

	// Manual retry succeeds once the store recovers.
	store.mu.Lock()
	store.createErr = nil
	store.mu.Unlock()
	require.NoError(t, w.CreateDraft(context.Background()))
	assert.Equal(t, draft.PhasePersonnel, w.Phase())
}

func TestSubmitFailurePreservesState(t *testing.T) {
	store := newFakeStore()
	w := draft.New(store, nil)
	require.NoError(t, w.CreateDraft(context.Background()))
	require.NoError(t, w.SetField(draft.FieldActualHoursEngagement, "3"))

	store.mu.Lock()
	store.updateErr = errors.New("store unavailable")
	store.mu.Unlock()

	err := w.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, draft.PhasePersonnel, w.Phase())
	assert.Equal(t, "3", w.Draft().ActualHoursEngagement)

	store.mu.Lock()
	store.updateErr = nil
	store.mu.Unlock()
	require.NoError(t, w.Submit(context.Background()))
	assert.Equal(t, draft.PhaseSubmitted, w.Phase())
}

func TestGoBackKeepsPersonnelValues(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	store := newFakeStore(first, second)
	w := draft.New(store, nil)

	require.NoError(t, w.CreateDraft(context.Background()))
	require.NoError(t, w.SetField(draft.FieldActualHoursEngagement, "3.5"))
	idx := w.AddSideMusician()
	require.NoError(t, w.SetSideMusicianField(idx, draft.MusicianFieldName, "A. Lee"))

	require.NoError(t, w.GoBack())
	assert.Equal(t, draft.PhaseEngagement, w.Phase())
	_, ok := w.DraftID()
	assert.False(t, ok)

	d := w.Draft()
	assert.Equal(t, "3.5", d.ActualHoursEngagement)
	require.Len(t, d.SideMusicians, 1)
	assert.Equal(t, "A. Lee", d.SideMusicians[0].Name)

	// Re-advancing mints a second server-side draft; the first stays orphaned.
	require.NoError(t, w.CreateDraft(context.Background()))
	assert.Equal(t, 2, store.createCalls)
	got, ok := w.DraftID()
	require.True(t, ok)
	assert.Equal(t, second, got)
	assert.Equal(t, "3.5", w.Draft().ActualHoursEngagement)
}

func TestGoBackOutsidePersonnelPhase(t *testing.T) {
	w := draft.New(newFakeStore(), nil)
	require.ErrorIs(t, w.GoBack(), draft.ErrWrongPhase)
}

func TestCreateDraftTwiceRejected(t *testing.T) {
	store := newFakeStore()
	w := draft.New(store, nil)

	require.NoError(t, w.CreateDraft(context.Background()))
	err := w.CreateDraft(context.Background())
	require.ErrorIs(t, err, draft.ErrWrongPhase)
	assert.Equal(t, 1, store.createCalls)
}

type blockingStore struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingStore) CreateDraft(ctx context.Context) (uuid.UUID, error) {
	close(b.started)
	<-b.release
	return uuid.New(), nil
}

func (b *blockingStore) UpdateContract(ctx context.Context, id uuid.UUID, d draft.ContractDraft) error {
	return nil
}

func TestConcurrentCreateDraftRejectedWhileInFlight(t *testing.T) {
	store := &blockingStore{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	w := draft.New(store, nil)

	done := make(chan error, 1)
	go func() {
		done <- w.CreateDraft(context.Background())
	}()

	<-store.started
	err := w.CreateDraft(context.Background())
	require.ErrorIs(t, err, draft.ErrBusy)

	close(store.release)
	require.NoError(t, <-done)
	assert.Equal(t, draft.PhasePersonnel, w.Phase())
}

func TestMutationAfterSubmitRejected(t *testing.T) {
	store := newFakeStore()
	w := draft.New(store, nil)
	require.NoError(t, w.CreateDraft(context.Background()))
	require.NoError(t, w.Submit(context.Background()))

	require.ErrorIs(t, w.SetField(draft.FieldLeaderName, "late"), draft.ErrSubmitted)
	assert.Equal(t, -1, w.AddSideMusician())
	require.ErrorIs(t, w.CreateDraft(context.Background()), draft.ErrSubmitted)
}
