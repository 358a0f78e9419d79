// internal/presentation/tui/app.go
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "lease-client/internal/common/errors"
	"lease-client/internal/common/logger"
	formwizard "lease-client/internal/flows/application/form-wizard"
	listingdetail "lease-client/internal/flows/listing/listing-detail"
	paymentsubmitter "lease-client/internal/flows/payment/payment-submitter"
	searchorchestrator "lease-client/internal/flows/search/search-orchestrator"
	"lease-client/internal/models"
	"lease-client/pkg/registry"
)

// App renders flow snapshots and forwards the user's answers to the flows.
// It holds no business rules of its own.
type App struct {
	driver PromptDriver
	forms  *registry.FormRegistry
	logger logger.Logger
}

func NewApp(driver PromptDriver, forms *registry.FormRegistry, log logger.Logger) *App {
	return &App{
		driver: driver,
		forms:  forms,
		logger: log.WithFields(map[string]interface{}{"component": "tui"}),
	}
}

// ==========================
// Listings
// ==========================

func (a *App) RenderCards(ctx context.Context, cards []listingdetail.Card) error {
	if len(cards) == 0 {
		return a.driver.Info(ctx, "No houses available.")
	}
	var b strings.Builder
	for i, c := range cards {
		fmt.Fprintf(&b, "%2d. %s  %s\n    %s  |  %s  [%s]\n", i+1, c.Price, c.Title, c.Location, c.Facts, c.ID)
	}
	return a.driver.Info(ctx, strings.TrimRight(b.String(), "\n"))
}

func (a *App) RenderDetail(ctx context.Context, d *listingdetail.Detail) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n%s\n", d.Price, d.Listing.Title, d.Address)
	fmt.Fprintf(&b, "%s\n\n", strings.Join(d.Facts, "  |  "))
	if d.Listing.Description != "" {
		fmt.Fprintf(&b, "Description\n%s\n\n", d.Listing.Description)
	}
	if len(d.Listing.Amenities) > 0 {
		fmt.Fprintf(&b, "Amenities\n%s\n", d.AmenityList())
	}
	if !d.Available {
		b.WriteString("Currently unavailable\n")
	}
	return a.driver.Info(ctx, strings.TrimRight(b.String(), "\n"))
}

// ==========================
// Search
// ==========================

// RunSearch prompts for whatever of mode and query was not given, executes
// one search and renders the settled result.
func (a *App) RunSearch(ctx context.Context, o *searchorchestrator.Orchestrator, mode searchorchestrator.Mode, query string) (searchorchestrator.Snapshot, error) {
	if mode == "" {
		modes := []searchorchestrator.Mode{searchorchestrator.ModeZipCode, searchorchestrator.ModeState}
		def := 0
		if o.Snapshot().Mode == searchorchestrator.ModeState {
			def = 1
		}
		idx, err := a.driver.Select(ctx, SelectConfig{
			Message:      "Search by",
			Options:      []string{"ZIP Code", "State"},
			DefaultIndex: def,
		})
		if err != nil {
			return searchorchestrator.Snapshot{}, err
		}
		if idx < 0 || idx >= len(modes) {
			idx = def
		}
		mode = modes[idx]
	}
	if err := o.SetMode(mode); err != nil {
		return searchorchestrator.Snapshot{}, err
	}

	if strings.TrimSpace(query) == "" {
		q, err := a.driver.Input(ctx, InputConfig{Message: "Enter " + mode.Label()})
		if err != nil {
			return searchorchestrator.Snapshot{}, err
		}
		query = q
	}
	o.SetQuery(query)
	if _, dispatched := o.Execute(ctx); !dispatched {
		return o.Snapshot(), a.driver.Info(ctx, "Please enter a "+mode.Label()+" to search.")
	}
	o.Wait()

	snap := o.Snapshot()
	return snap, a.RenderSearch(ctx, snap)
}

func (a *App) RenderSearch(ctx context.Context, snap searchorchestrator.Snapshot) error {
	switch snap.View.State {
	case searchorchestrator.ViewPopulated:
		cards := make([]listingdetail.Card, 0, len(snap.View.Listings))
		for _, l := range snap.View.Listings {
			cards = append(cards, listingdetail.NewCard(l))
		}
		return a.RenderCards(ctx, cards)
	case searchorchestrator.ViewEmpty, searchorchestrator.ViewError:
		return a.driver.Info(ctx, snap.View.Message)
	case searchorchestrator.ViewLoading:
		return a.driver.Info(ctx, "Loading...")
	default:
		return nil
	}
}

// ==========================
// Application Wizard
// ==========================

// RunWizard walks the applicant through every step and submits on the last
// one. Declining to submit returns ErrAborted with the draft untouched.
func (a *App) RunWizard(ctx context.Context, w *formwizard.Controller) (*models.SubmissionResult, error) {
	for {
		snap := w.Snapshot()
		if snap.Phase == formwizard.PhaseSubmitted {
			return snap.Result, nil
		}

		if snap.Step != formwizard.LastStep {
			if err := a.promptStep(ctx, w, snap); err != nil {
				return nil, err
			}
			if err := w.AdvanceStep(); err != nil {
				if infoErr := a.driver.Info(ctx, w.Snapshot().ErrorMessage); infoErr != nil {
					return nil, infoErr
				}
			}
			continue
		}

		if err := a.promptOccupants(ctx, w); err != nil {
			return nil, err
		}
		ok, err := a.driver.Confirm(ctx, ConfirmConfig{Message: "Submit application?", Default: true})
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrAborted
		}

		result, err := w.Submit(ctx)
		if err == nil {
			return result, nil
		}
		if err := a.recoverSubmit(ctx, w, err); err != nil {
			return nil, err
		}
	}
}

// recoverSubmit reports a failed submit and moves the wizard back to the
// step that needs fixing. A nil return means the loop should continue.
func (a *App) recoverSubmit(ctx context.Context, w *formwizard.Controller, err error) error {
	var (
		remote  *formwizard.RemoteSubmissionError
		missing *apperrors.MissingFieldsError
		number  *apperrors.InvalidNumberError
	)
	switch {
	case errors.As(err, &remote):
		if err := a.driver.Info(ctx, formwizard.SubmissionFailedMessage); err != nil {
			return err
		}
		retry, cerr := a.driver.Confirm(ctx, ConfirmConfig{Message: "Try again?", Default: true})
		if cerr != nil {
			return cerr
		}
		if !retry {
			return err
		}
		return nil
	case errors.As(err, &missing):
		if err := a.driver.Info(ctx, w.Snapshot().ErrorMessage); err != nil {
			return err
		}
		return a.retreatTo(w, formwizard.Step(missing.Step))
	case errors.As(err, &number):
		if err := a.driver.Info(ctx, fmt.Sprintf("%q is not a valid number for %s.", number.Value, number.Field)); err != nil {
			return err
		}
		if step, ok := formwizard.StepOf(formwizard.FieldKey(number.Field)); ok {
			return a.retreatTo(w, step)
		}
		return nil
	default:
		return err
	}
}

func (a *App) retreatTo(w *formwizard.Controller, step formwizard.Step) error {
	for w.Snapshot().Step > step {
		if err := w.RetreatStep(); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) promptStep(ctx context.Context, w *formwizard.Controller, snap formwizard.Snapshot) error {
	spec, ok := a.forms.Step(int(snap.Step))
	if !ok {
		return fmt.Errorf("no form definition for step %d", snap.Step)
	}
	if err := a.driver.Info(ctx, fmt.Sprintf("Step %d of %d: %s", snap.Step, formwizard.LastStep, spec.Title)); err != nil {
		return err
	}
	for _, f := range spec.Fields {
		key := formwizard.FieldKey(f.Key)
		current, err := formwizard.FieldValue(snap.Draft, key)
		if err != nil {
			return err
		}
		value, err := a.ask(ctx, f, current)
		if err != nil {
			return err
		}
		if err := w.SetField(key, value); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) promptOccupants(ctx context.Context, w *formwizard.Controller) error {
	spec, ok := a.forms.Step(int(formwizard.StepOccupants))
	if !ok {
		return fmt.Errorf("no form definition for step %d", formwizard.StepOccupants)
	}
	if err := a.driver.Info(ctx, fmt.Sprintf("Step %d of %d: %s (optional)", formwizard.StepOccupants, formwizard.LastStep, spec.Title)); err != nil {
		return err
	}

	for i := 0; ; i++ {
		occupants := w.Snapshot().Draft.Occupants
		if i >= len(occupants) {
			more, err := a.driver.Confirm(ctx, ConfirmConfig{Message: "Add another occupant?"})
			if err != nil {
				return err
			}
			if !more {
				return nil
			}
			if err := w.AddOccupant(); err != nil {
				return err
			}
			occupants = w.Snapshot().Draft.Occupants
		}

		if err := a.driver.Info(ctx, fmt.Sprintf("Occupant %d", i+1)); err != nil {
			return err
		}
		current := occupants[i]
		for _, f := range spec.Fields {
			field := formwizard.OccupantField(f.Key)
			value, err := a.ask(ctx, f, occupantValue(current, field))
			if err != nil {
				return err
			}
			if err := w.SetOccupantField(i, field, value); err != nil {
				return err
			}
		}
	}
}

func occupantValue(o models.Occupant, field formwizard.OccupantField) string {
	switch field {
	case formwizard.OccupantName:
		return o.Name
	case formwizard.OccupantRelationship:
		return o.Relationship
	case formwizard.OccupantAge:
		return o.Age
	}
	return ""
}

// ==========================
// Payment
// ==========================

// RunPayment collects card details and charges the application fee until it
// succeeds or the applicant stops retrying.
func (a *App) RunPayment(ctx context.Context, p *paymentsubmitter.Submitter, applicationID string) (*models.PaymentResult, error) {
	if err := a.driver.Info(ctx, "Payment Summary\n"+p.Summary().String()); err != nil {
		return nil, err
	}

	for {
		if err := a.promptPayment(ctx, p); err != nil {
			return nil, err
		}
		if err := p.Validate(); err != nil {
			var cardErr *apperrors.InvalidCardFieldError
			if errors.As(err, &cardErr) {
				if err := a.driver.Info(ctx, cardErr.Title+": "+cardErr.Message); err != nil {
					return nil, err
				}
				continue
			}
			return nil, err
		}

		result, err := p.Submit(ctx, applicationID)
		if err == nil {
			snap := p.Snapshot()
			return result, a.driver.Info(ctx, snap.Title+": "+snap.Message)
		}
		var failed *paymentsubmitter.PaymentFailedError
		if !errors.As(err, &failed) {
			return nil, err
		}
		if err := a.driver.Info(ctx, "Payment Failed: "+failed.Message); err != nil {
			return nil, err
		}
		retry, cerr := a.driver.Confirm(ctx, ConfirmConfig{Message: "Try again?", Default: true})
		if cerr != nil {
			return nil, cerr
		}
		if !retry {
			return nil, err
		}
	}
}

func (a *App) promptPayment(ctx context.Context, p *paymentsubmitter.Submitter) error {
	for _, f := range a.forms.Payment.Fields {
		value, err := a.ask(ctx, f, "")
		if err != nil {
			return err
		}
		if err := p.SetField(paymentsubmitter.FieldKey(f.Key), value); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) ask(ctx context.Context, f registry.FieldSpec, current string) (string, error) {
	cfg := InputConfig{
		Message: f.Label,
		Default: current,
		Help:    f.Placeholder,
	}
	if f.Secret {
		return a.driver.Password(ctx, cfg)
	}
	return a.driver.Input(ctx, cfg)
}
