// internal/flows/application/form-wizard/controller.go
package formwizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	apperrors "lease-client/internal/common/errors"
	"lease-client/internal/common/logger"
	"lease-client/internal/common/metrics"
	"lease-client/internal/common/notify"
	"lease-client/internal/models"
)

const (
	FlowName = "form-wizard"

	SubmissionFailedMessage = "There was an error submitting your application. Please try again."
)

var (
	ErrDraftLocked        = errors.New("DRAFT_LOCKED")
	ErrSubmissionInFlight = errors.New("SUBMISSION_IN_FLIGHT")
	ErrNotOnFinalStep     = errors.New("NOT_ON_FINAL_STEP")
	ErrLastOccupant       = errors.New("LAST_OCCUPANT")
)

// RemoteSubmissionError wraps a gateway failure during submit. The draft is
// kept as it was and Submit may be called again.
type RemoteSubmissionError struct {
	Cause error
}

func (e *RemoteSubmissionError) Error() string {
	return fmt.Sprintf("submit application: %v", e.Cause)
}

func (e *RemoteSubmissionError) Unwrap() error {
	return e.Cause
}

// Submitter is the slice of the gateway the wizard needs.
type Submitter interface {
	SubmitApplication(ctx context.Context, payload models.ApplicationPayload) (*models.SubmissionResult, error)
}

// DraftStore persists unfinished drafts between sessions. Load returns
// (nil, nil) when nothing is stored for the listing.
type DraftStore interface {
	Save(ctx context.Context, listingID string, saved SavedDraft) error
	Load(ctx context.Context, listingID string) (*SavedDraft, error)
	Delete(ctx context.Context, listingID string) error
}

type Option func(*Controller)

func WithDraftStore(store DraftStore) Option {
	return func(c *Controller) {
		c.store = store
	}
}

// Controller owns one application draft and its submission state machine.
type Controller struct {
	config    *Config
	submitter Submitter
	store     DraftStore
	logger    logger.Logger
	errs      *apperrors.ErrorHandler
	hub       *notify.Hub[Snapshot]

	mu     sync.Mutex
	step   Step
	phase  Phase
	draft  models.ApplicationDraft
	result *models.SubmissionResult
	err    error
	errMsg string
}

func NewController(config *Config, listingID string, submitter Submitter, log logger.Logger, opts ...Option) *Controller {
	if config == nil {
		config = LoadConfig(nil)
	}
	l := log.WithFields(map[string]interface{}{
		"flow":      FlowName,
		"listingId": listingID,
	})
	c := &Controller{
		config:    config,
		submitter: submitter,
		logger:    l,
		errs:      apperrors.NewErrorHandler(l),
		hub:       notify.NewHub[Snapshot](0),
		step:      FirstStep,
		phase:     PhaseEditing,
		draft:     models.NewApplicationDraft(listingID),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ==========================
// Draft Editing
// ==========================

// SetField updates one scalar field. Only a submitted draft refuses edits.
func (c *Controller) SetField(key FieldKey, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == PhaseSubmitted {
		return ErrDraftLocked
	}
	next, err := Apply(c.draft, key, value)
	if err != nil {
		return err
	}
	c.draft = next
	c.publishLocked()
	return nil
}

func (c *Controller) SetOccupantField(index int, field OccupantField, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == PhaseSubmitted {
		return ErrDraftLocked
	}
	next, err := ApplyOccupant(c.draft, index, field, value)
	if err != nil {
		return err
	}
	c.draft = next
	c.publishLocked()
	return nil
}

func (c *Controller) AddOccupant() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == PhaseSubmitted {
		return ErrDraftLocked
	}
	next := c.draft.Clone()
	next.Occupants = append(next.Occupants, models.Occupant{})
	c.draft = next
	c.publishLocked()
	return nil
}

// RemoveOccupant drops the occupant at index. The last remaining occupant
// stays and ErrLastOccupant is returned.
func (c *Controller) RemoveOccupant(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == PhaseSubmitted {
		return ErrDraftLocked
	}
	if index < 0 || index >= len(c.draft.Occupants) {
		return fmt.Errorf("%w: %d", ErrOccupantOutOfRange, index)
	}
	if len(c.draft.Occupants) == 1 {
		return ErrLastOccupant
	}
	next := c.draft.Clone()
	next.Occupants = append(next.Occupants[:index], next.Occupants[index+1:]...)
	c.draft = next
	c.publishLocked()
	return nil
}

// ==========================
// Step Navigation
// ==========================

// AdvanceStep validates the current step and moves forward. On the final
// step it is a no-op.
func (c *Controller) AdvanceStep() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.navigableLocked(); err != nil {
		return err
	}
	if err := ValidateStep(c.draft, c.step); err != nil {
		c.err = err
		c.errMsg = MissingFieldsMessage(c.step)
		c.errs.Handle("advanceStep", err)
		c.publishLocked()
		return err
	}
	if c.step < LastStep {
		c.step++
	}
	c.clearErrorLocked()
	c.publishLocked()
	return nil
}

func (c *Controller) RetreatStep() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.navigableLocked(); err != nil {
		return err
	}
	if c.step > FirstStep {
		c.step--
	}
	c.clearErrorLocked()
	c.publishLocked()
	return nil
}

func (c *Controller) navigableLocked() error {
	switch c.phase {
	case PhaseSubmitting:
		return ErrSubmissionInFlight
	case PhaseSubmitted:
		return ErrDraftLocked
	case PhaseFailed:
		c.phase = PhaseEditing
	}
	return nil
}

// ==========================
// Submission
// ==========================

// Submit sends the draft. It is accepted only on the final step from
// Editing or Failed; a call while another is in flight returns
// ErrSubmissionInFlight without reaching the gateway.
func (c *Controller) Submit(ctx context.Context) (*models.SubmissionResult, error) {
	c.mu.Lock()
	switch c.phase {
	case PhaseSubmitting:
		c.mu.Unlock()
		return nil, ErrSubmissionInFlight
	case PhaseSubmitted:
		c.mu.Unlock()
		return nil, ErrDraftLocked
	}
	if c.step != LastStep {
		c.mu.Unlock()
		return nil, ErrNotOnFinalStep
	}

	draft := c.draft.Clone()
	if err := ValidateThrough(draft, StepRentalHistory); err != nil {
		var missing *apperrors.MissingFieldsError
		if errors.As(err, &missing) {
			c.errMsg = MissingFieldsMessage(Step(missing.Step))
		}
		c.err = err
		c.errs.Handle("submit", err)
		c.publishLocked()
		c.mu.Unlock()
		metrics.WizardSubmissions.WithLabelValues("invalid").Inc()
		return nil, err
	}
	payload, err := BuildSubmissionPayload(draft)
	if err != nil {
		c.err = err
		c.errMsg = err.Error()
		c.errs.Handle("submit", err)
		c.publishLocked()
		c.mu.Unlock()
		metrics.WizardSubmissions.WithLabelValues("invalid").Inc()
		return nil, err
	}

	c.phase = PhaseSubmitting
	c.clearErrorLocked()
	c.publishLocked()
	c.mu.Unlock()

	c.logger.Info("submitting application", map[string]interface{}{
		"occupants": len(payload.AdditionalOccupants),
		"ssn":       logger.MaskTail(payload.ApplicantInfo.SSN),
	})

	result, err := c.submitter.SubmitApplication(ctx, payload)

	c.mu.Lock()
	if err != nil {
		remote := &RemoteSubmissionError{Cause: err}
		c.phase = PhaseFailed
		c.err = remote
		c.errMsg = SubmissionFailedMessage
		c.errs.Handle("submit", err)
		c.publishLocked()
		c.mu.Unlock()
		metrics.WizardSubmissions.WithLabelValues("failed").Inc()
		return nil, remote
	}

	c.phase = PhaseSubmitted
	c.result = result
	c.publishLocked()
	listingID := c.draft.ListingID
	c.mu.Unlock()

	metrics.WizardSubmissions.WithLabelValues("submitted").Inc()
	c.logger.Info("application submitted", map[string]interface{}{
		"applicationId":  result.ApplicationID,
		"status":         result.Status,
		"applicationFee": result.Fee(c.config.DefaultApplicationFee),
	})
	c.forgetDraft(ctx, listingID)
	return result, nil
}

// ==========================
// Draft Persistence
// ==========================

// SaveDraft stores the current draft and step. Without a store it does nothing.
func (c *Controller) SaveDraft(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	c.mu.Lock()
	if c.phase == PhaseSubmitted {
		c.mu.Unlock()
		return nil
	}
	saved := SavedDraft{
		Draft:   c.draft.Clone(),
		Step:    c.step,
		SavedAt: time.Now().UTC(),
	}
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, c.config.StoreTimeout)
	defer cancel()
	if err := c.store.Save(ctx, saved.Draft.ListingID, saved); err != nil {
		c.logger.Warn("failed to save draft", map[string]interface{}{"error": err.Error()})
		return err
	}
	return nil
}

// Resume restores a stored draft for this listing. It reports whether one was found.
func (c *Controller) Resume(ctx context.Context) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	c.mu.Lock()
	listingID := c.draft.ListingID
	editing := c.phase == PhaseEditing
	c.mu.Unlock()
	if !editing {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.StoreTimeout)
	defer cancel()
	saved, err := c.store.Load(ctx, listingID)
	if err != nil {
		c.logger.Warn("failed to load draft", map[string]interface{}{"error": err.Error()})
		return false, err
	}
	if saved == nil || saved.Draft.ListingID != listingID {
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseEditing {
		return false, nil
	}
	draft := saved.Draft.Clone()
	if len(draft.Occupants) == 0 {
		draft.Occupants = []models.Occupant{{}}
	}
	c.draft = draft
	if saved.Step.Valid() {
		c.step = saved.Step
	}
	c.publishLocked()
	c.logger.Info("draft resumed", map[string]interface{}{
		"step":    int(c.step),
		"savedAt": saved.SavedAt,
	})
	return true, nil
}

func (c *Controller) forgetDraft(ctx context.Context, listingID string) {
	if c.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, c.config.StoreTimeout)
	defer cancel()
	if err := c.store.Delete(ctx, listingID); err != nil {
		c.logger.Warn("failed to delete submitted draft", map[string]interface{}{"error": err.Error()})
	}
}

// ==========================
// Snapshots
// ==========================

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe streams a snapshot after every state change.
func (c *Controller) Subscribe() (<-chan Snapshot, func()) {
	return c.hub.Subscribe()
}

// Close ends every subscription.
func (c *Controller) Close() {
	c.hub.Close()
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		ListingID:    c.draft.ListingID,
		Step:         c.step,
		Phase:        c.phase,
		Draft:        c.draft.Clone(),
		Err:          c.err,
		ErrorMessage: c.errMsg,
	}
	if c.result != nil {
		r := *c.result
		s.Result = &r
		s.ApplicationFee = r.Fee(c.config.DefaultApplicationFee)
	}
	return s
}

func (c *Controller) publishLocked() {
	c.hub.Publish(c.snapshotLocked())
}

func (c *Controller) clearErrorLocked() {
	c.err = nil
	c.errMsg = ""
}
