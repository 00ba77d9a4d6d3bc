package draft

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Phase identifies the step of the creation workflow currently active.
type Phase int

const (
	// PhaseEngagement collects the engagement and leader details.
	PhaseEngagement Phase = iota + 1
	// PhasePersonnel collects hours, flags and side musicians. Entering it
	// requires a server-assigned draft identifier.
	PhasePersonnel
	// PhaseSubmitted is terminal: the draft has been persisted in full and
	// discarded locally.
	PhaseSubmitted
)

func (p Phase) String() string {
	switch p {
	case PhaseEngagement:
		return "engagement"
	case PhasePersonnel:
		return "personnel"
	case PhaseSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// ContractStore is the persistence collaborator of the workflow. CreateDraft
// registers an empty draft and returns its identifier; UpdateContract persists
// the full accumulated draft under that identifier.
type ContractStore interface {
	CreateDraft(ctx context.Context) (uuid.UUID, error)
	UpdateContract(ctx context.Context, id uuid.UUID, d ContractDraft) error
}

var (
	// ErrBusy rejects a second store call while one is outstanding.
	ErrBusy = errors.New("a request is already in flight")
	// ErrNoDraft rejects Submit before a successful CreateDraft.
	ErrNoDraft = errors.New("draft has no server identifier yet")
	// ErrSubmitted rejects any operation after successful submission.
	ErrSubmitted = errors.New("contract already submitted")
	// ErrWrongPhase rejects a transition that is invalid in the current phase.
	ErrWrongPhase = errors.New("operation not valid in current phase")
)

// Workflow owns one contract creation session. All mutation happens through
// its methods; the draft itself is never shared. A Workflow must not be reused
// after a successful Submit.
type Workflow struct {
	mu      sync.Mutex
	busy    bool
	phase   Phase
	draft   ContractDraft
	draftID *uuid.UUID
	store   ContractStore

	// onSubmitted, when set, is invoked exactly once after a successful
	// Submit. Callers typically navigate back to the contract list here.
	onSubmitted func(id uuid.UUID)
}

// New starts a fresh creation session against the given store. onSubmitted
// may be nil.
func New(store ContractStore, onSubmitted func(id uuid.UUID)) *Workflow {
	return &Workflow{
		phase:       PhaseEngagement,
		draft:       NewContractDraft(),
		store:       store,
		onSubmitted: onSubmitted,
	}
}

// Phase reports the current workflow phase.
func (w *Workflow) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

// DraftID reports the server-assigned identifier, if the first phase has
// completed.
func (w *Workflow) DraftID() (uuid.UUID, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.draftID == nil {
		return uuid.Nil, false
	}
	return *w.draftID, true
}

// Draft returns a copy of the accumulated field values. Mutating the copy has
// no effect on the workflow.
func (w *Workflow) Draft() ContractDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft.clone()
}

// SetField replaces one scalar field. Boolean fields expect "true"/"false".
// The value is stored as given; validation is the server's concern.
func (w *Workflow) SetField(name, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase == PhaseSubmitted {
		return ErrSubmitted
	}
	return w.draft.setField(name, value)
}

// AddSideMusician appends an empty side musician entry and returns its index.
func (w *Workflow) AddSideMusician() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase == PhaseSubmitted {
		return -1
	}
	w.draft.SideMusicians = append(w.draft.SideMusicians, SideMusician{})
	return len(w.draft.SideMusicians) - 1
}

// SetSideMusicianField mutates one side musician by position. An out-of-range
// index is a programming error and panics.
func (w *Workflow) SetSideMusicianField(index int, name, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase == PhaseSubmitted {
		return ErrSubmitted
	}
	return w.draft.SideMusicians[index].setField(name, value)
}

// CreateDraft advances the workflow from the engagement phase to the
// personnel phase by registering an empty draft with the store. On failure
// the workflow stays in the engagement phase with every entered value intact,
// and the call may simply be repeated.
func (w *Workflow) CreateDraft(ctx context.Context) error {
	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return ErrBusy
	}
	if w.phase == PhaseSubmitted {
		w.mu.Unlock()
		return ErrSubmitted
	}
	if w.phase != PhaseEngagement {
		w.mu.Unlock()
		return fmt.Errorf("%w: create draft in phase %s", ErrWrongPhase, w.phase)
	}
	w.busy = true
	w.mu.Unlock()

	id, err := w.store.CreateDraft(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.busy = false
	if err != nil {
		return err
	}
	w.draftID = &id
	w.phase = PhasePersonnel
	return nil
}

// GoBack returns from the personnel phase to the engagement phase. All
// accumulated values, including personnel-phase ones, are kept. Note that
// advancing again goes through CreateDraft and mints a second server-side
// draft; the first one stays orphaned on the server.
func (w *Workflow) GoBack() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase != PhasePersonnel {
		return fmt.Errorf("%w: go back in phase %s", ErrWrongPhase, w.phase)
	}
	w.phase = PhaseEngagement
	w.draftID = nil
	return nil
}

// Submit persists the full draft under its server identifier. On success the
// draft is discarded, the workflow becomes terminal and onSubmitted fires
// exactly once. On failure everything is preserved so Submit can be retried.
func (w *Workflow) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return ErrBusy
	}
	if w.phase == PhaseSubmitted {
		w.mu.Unlock()
		return ErrSubmitted
	}
	if w.phase != PhasePersonnel || w.draftID == nil {
		w.mu.Unlock()
		return ErrNoDraft
	}
	id := *w.draftID
	payload := w.draft.clone()
	w.busy = true
	w.mu.Unlock()

	err := w.store.UpdateContract(ctx, id, payload)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.busy = false
	if err != nil {
		return err
	}
	w.phase = PhaseSubmitted
	w.draft = ContractDraft{}
	if w.onSubmitted != nil {
		w.onSubmitted(id)
	}
	return nil
}
