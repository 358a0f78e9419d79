// internal/flows/search/search-orchestrator/orchestrator.go
package searchorchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	apperrors "lease-client/internal/common/errors"
	"lease-client/internal/common/logger"
	"lease-client/internal/common/metrics"
	"lease-client/internal/common/notify"
	"lease-client/internal/models"
)

const FlowName = "search-orchestrator"

var ErrUnknownMode = errors.New("UNKNOWN_SEARCH_MODE")

// Searcher is the slice of the gateway used for searching.
type Searcher interface {
	ListingsByZipCode(ctx context.Context, zipCode string) ([]models.Listing, error)
	ListingsByState(ctx context.Context, state string) ([]models.Listing, error)
}

// Orchestrator owns the search criteria and the displayed result. Each
// Execute takes a new epoch; a response is applied only if its epoch is
// still current, so the last request issued always wins.
type Orchestrator struct {
	searcher Searcher
	logger   logger.Logger
	errs     *apperrors.ErrorHandler
	hub      *notify.Hub[Snapshot]
	wg       sync.WaitGroup

	mu    sync.Mutex
	mode  Mode
	query string
	epoch uint64
	view  View
}

func NewOrchestrator(config *Config, searcher Searcher, log logger.Logger) *Orchestrator {
	if config == nil {
		config = LoadConfig(nil)
	}
	l := log.WithFields(map[string]interface{}{"flow": FlowName})
	return &Orchestrator{
		searcher: searcher,
		logger:   l,
		errs:     apperrors.NewErrorHandler(l),
		hub:      notify.NewHub[Snapshot](0),
		mode:     config.DefaultMode,
		view:     View{State: ViewNotSearched},
	}
}

// SetMode switches the lookup kind. Results are cleared and any in-flight
// response is discarded on arrival. Setting the current mode does nothing.
func (o *Orchestrator) SetMode(mode Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	if mode == o.mode {
		return nil
	}
	o.mode = mode
	o.epoch++
	o.view = View{State: ViewNotSearched}
	o.publishLocked()
	return nil
}

func (o *Orchestrator) SetQuery(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.query = text
	o.publishLocked()
}

// Execute dispatches one lookup for the current mode and query on its own
// goroutine. A blank query dispatches nothing and leaves the state alone.
func (o *Orchestrator) Execute(ctx context.Context) (uint64, bool) {
	o.mu.Lock()
	query := strings.TrimSpace(o.query)
	if query == "" {
		epoch := o.epoch
		o.mu.Unlock()
		return epoch, false
	}
	o.epoch++
	epoch := o.epoch
	mode := o.mode
	o.view = View{State: ViewLoading, Mode: mode}
	o.publishLocked()
	o.wg.Add(1)
	o.mu.Unlock()

	metrics.SearchesDispatched.WithLabelValues(string(mode)).Inc()
	o.logger.Debug("search dispatched", map[string]interface{}{
		"mode":  string(mode),
		"query": query,
		"epoch": epoch,
	})

	go func() {
		defer o.wg.Done()
		start := time.Now()
		listings, err := o.lookup(ctx, mode, query)
		o.apply(epoch, mode, listings, err, time.Since(start))
	}()
	return epoch, true
}

func (o *Orchestrator) lookup(ctx context.Context, mode Mode, query string) ([]models.Listing, error) {
	if mode == ModeState {
		return o.searcher.ListingsByState(ctx, query)
	}
	return o.searcher.ListingsByZipCode(ctx, query)
}

func (o *Orchestrator) apply(epoch uint64, mode Mode, listings []models.Listing, err error, took time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if epoch != o.epoch {
		metrics.SearchStaleResponses.WithLabelValues(string(mode)).Inc()
		o.logger.Debug("discarding stale search response", map[string]interface{}{
			"epoch":   epoch,
			"current": o.epoch,
		})
		return
	}

	switch {
	case err != nil:
		o.errs.Handle("search", err)
		o.view = View{State: ViewError, Mode: mode, Message: ErrorMessage, Err: err}
	case len(listings) == 0:
		o.view = View{State: ViewEmpty, Mode: mode, Message: EmptyMessage(mode)}
	default:
		o.view = View{State: ViewPopulated, Mode: mode, Listings: models.CloneListings(listings)}
	}
	o.logger.Info("search settled", map[string]interface{}{
		"mode":     string(mode),
		"epoch":    epoch,
		"state":    string(o.view.State),
		"results":  len(listings),
		"duration": took.String(),
	})
	o.publishLocked()
}

// Wait blocks until every dispatched lookup has settled.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

func (o *Orchestrator) Subscribe() (<-chan Snapshot, func()) {
	return o.hub.Subscribe()
}

func (o *Orchestrator) Close() {
	o.hub.Close()
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	v := o.view
	v.Listings = models.CloneListings(o.view.Listings)
	return Snapshot{
		Mode:  o.mode,
		Query: o.query,
		Epoch: o.epoch,
		View:  v,
	}
}

func (o *Orchestrator) publishLocked() {
	o.hub.Publish(o.snapshotLocked())
}
