// cmd/lease-cli/autosave.go
package main

import (
	"context"

	"lease-client/internal/common/logger"
	formwizard "lease-client/internal/flows/application/form-wizard"
)

// autosave stores the draft each time the applicant reaches a later step.
// The returned stop func blocks until pending saves have finished.
func autosave(ctx context.Context, w *formwizard.Controller, log logger.Logger) func() {
	updates, cancel := w.Subscribe()
	done := make(chan struct{})
	last := w.Snapshot().Step

	go func() {
		defer close(done)
		for snap := range updates {
			advanced := snap.Step > last
			last = snap.Step
			if !advanced || snap.Phase != formwizard.PhaseEditing {
				continue
			}
			if err := w.SaveDraft(ctx); err != nil {
				log.Warn("autosave failed", map[string]interface{}{
					"step":  int(snap.Step),
					"error": err.Error(),
				})
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
