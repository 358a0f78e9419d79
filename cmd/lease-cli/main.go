// cmd/lease-cli/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"lease-client/internal/common/config"
	"lease-client/internal/common/database"
	apperrors "lease-client/internal/common/errors"
	"lease-client/internal/common/logger"
	"lease-client/internal/common/observability"
	"lease-client/internal/gateway"
	"lease-client/internal/presentation/tui"
	"lease-client/pkg/registry"

	draftstore "lease-client/internal/flows/application/draft-store"
	formwizard "lease-client/internal/flows/application/form-wizard"
	listingdetail "lease-client/internal/flows/listing/listing-detail"
	paymentsubmitter "lease-client/internal/flows/payment/payment-submitter"
	searchorchestrator "lease-client/internal/flows/search/search-orchestrator"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "browse":
		err = browse(os.Args[2:])
	case "search":
		err = search(os.Args[2:])
	case "listing":
		err = listing(os.Args[2:])
	case "apply":
		err = apply(os.Args[2:])
	case "help", "-h", "--help":
		help()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		help()
		os.Exit(1)
	}

	if errors.Is(err, tui.ErrAborted) {
		fmt.Fprintln(os.Stderr, "Cancelled.")
		os.Exit(130)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", apperrors.UserMessage(err, err.Error()))
		os.Exit(1)
	}
}

func help() {
	fmt.Println(`lease-cli - browse rental listings, apply and pay the application fee

Usage:
  lease-cli <command> [flags]

Commands:
  browse                          List every available house
  search [-mode zipCode|state] [-query Q]
                                  Search houses by ZIP code or state
  listing <id>                    Show one house in detail
  apply [-answers file.yaml] [-fresh] <id>
                                  Fill in the rental application and pay the fee
  help                            Show this help

Every command accepts -config <path> to load a specific config file.`)
}

// ==========================
// Runtime
// ==========================

// runtime holds what every command needs. Close releases it in reverse order.
type runtime struct {
	cfg     *config.Config
	zapLog  *zap.Logger
	log     logger.Logger
	obs     *observability.Observability
	gateway *gateway.Client
	ui      *tui.App
	metrics *http.Server
}

func newRuntime(configPath string) (*runtime, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log := logger.NewZapAdapter(zapLog)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("observability disabled", zap.Error(err))
	}

	forms, err := registry.Default()
	if err != nil {
		return nil, fmt.Errorf("load form registry: %w", err)
	}

	rt := &runtime{
		cfg:     cfg,
		zapLog:  zapLog,
		log:     log,
		obs:     obs,
		gateway: gateway.NewClient(gateway.LoadConfig(cfg), log, gateway.WithObservability(obs)),
		ui:      tui.NewApp(tui.NewSurveyDriver(os.Stdout), forms, log),
	}
	if cfg.Metrics.Enabled {
		rt.metrics = serveMetrics(cfg.Metrics.Address, zapLog)
	}
	return rt, nil
}

func (rt *runtime) Close() {
	if rt.metrics != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rt.metrics.Shutdown(shutdownCtx); err != nil {
			rt.zapLog.Error("Error stopping metrics server", zap.Error(err))
		}
	}
	if rt.obs != nil {
		rt.obs.Shutdown()
	}
	_ = rt.zapLog.Sync()
}

func serveMetrics(addr string, zapLog *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()
	return srv
}

// connectDrafts returns nil when drafts are disabled or Redis is unreachable;
// the wizard then simply runs without persistence.
func (rt *runtime) connectDrafts(ctx context.Context) (*draftstore.Store, func()) {
	if !rt.cfg.Drafts.Enabled {
		return nil, func() {}
	}

	var redis *database.RedisClient
	err := retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(rt.cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 3, 500*time.Millisecond, rt.zapLog, "Redis connection")
	if err != nil {
		rt.zapLog.Warn("draft store unavailable, continuing without saved drafts", zap.Error(err))
		if redis != nil {
			_ = redis.Close()
		}
		return nil, func() {}
	}

	rt.zapLog.Info("Redis connected successfully")
	return draftstore.NewStore(draftstore.LoadConfig(rt.cfg), redis, rt.log), func() { _ = redis.Close() }
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file (default: ./configs/config.yaml)")
	return fs, configPath
}

// ==========================
// Commands
// ==========================

func browse(args []string) error {
	fs, configPath := newFlagSet("browse")
	fs.Parse(args)

	rt, err := newRuntime(*configPath)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, stop := signalContext()
	defer stop()

	svc := listingdetail.NewService(listingdetail.LoadConfig(rt.cfg), rt.gateway, rt.log)
	cards, err := svc.Browse(ctx)
	if err != nil {
		return err
	}
	return rt.ui.RenderCards(ctx, cards)
}

func search(args []string) error {
	fs, configPath := newFlagSet("search")
	mode := fs.String("mode", "", "Search mode: zipCode or state (prompted when empty)")
	query := fs.String("query", "", "ZIP code or state to search for (prompted when empty)")
	fs.Parse(args)

	m := searchorchestrator.Mode(*mode)
	if m != "" && !m.Valid() {
		return fmt.Errorf("%w: %q", searchorchestrator.ErrUnknownMode, *mode)
	}

	rt, err := newRuntime(*configPath)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, stop := signalContext()
	defer stop()

	o := searchorchestrator.NewOrchestrator(searchorchestrator.LoadConfig(rt.cfg), rt.gateway, rt.log)
	defer o.Close()

	_, err = rt.ui.RunSearch(ctx, o, m, *query)
	return err
}

func listing(args []string) error {
	fs, configPath := newFlagSet("listing")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: lease-cli listing <id>")
	}

	rt, err := newRuntime(*configPath)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, stop := signalContext()
	defer stop()

	svc := listingdetail.NewService(listingdetail.LoadConfig(rt.cfg), rt.gateway, rt.log)
	detail, err := svc.Detail(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	return rt.ui.RenderDetail(ctx, detail)
}

func apply(args []string) error {
	fs, configPath := newFlagSet("apply")
	answersPath := fs.String("answers", "", "YAML file prefilling the application")
	fresh := fs.Bool("fresh", false, "Ignore any saved draft for this listing")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: lease-cli apply [-answers file.yaml] [-fresh] <id>")
	}
	listingID := fs.Arg(0)

	var prefill *answers
	if *answersPath != "" {
		a, err := loadAnswers(*answersPath)
		if err != nil {
			return err
		}
		prefill = a
	}

	rt, err := newRuntime(*configPath)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, stop := signalContext()
	defer stop()

	svc := listingdetail.NewService(listingdetail.LoadConfig(rt.cfg), rt.gateway, rt.log)
	detail, err := svc.Detail(ctx, listingID)
	if err != nil {
		return err
	}
	if err := rt.ui.RenderDetail(ctx, detail); err != nil {
		return err
	}

	store, closeStore := rt.connectDrafts(ctx)
	defer closeStore()

	var opts []formwizard.Option
	if store != nil {
		opts = append(opts, formwizard.WithDraftStore(store))
	}
	wizard := formwizard.NewController(formwizard.LoadConfig(rt.cfg), listingID, rt.gateway, rt.log, opts...)
	defer wizard.Close()

	if store != nil && !*fresh {
		resumed, err := wizard.Resume(ctx)
		if err != nil {
			rt.zapLog.Warn("could not resume saved draft", zap.Error(err))
		} else if resumed {
			fmt.Printf("Resuming your saved application at step %d.\n", wizard.Snapshot().Step)
		}
	}
	if prefill != nil {
		if err := prefill.apply(wizard); err != nil {
			return err
		}
	}
	if store != nil {
		stopAutosave := autosave(ctx, wizard, rt.log)
		defer stopAutosave()
	}

	result, err := rt.ui.RunWizard(ctx, wizard)
	if err != nil {
		if errors.Is(err, tui.ErrAborted) && store != nil {
			// ctx may already be cancelled by the interrupt
			saveCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if serr := wizard.SaveDraft(saveCtx); serr != nil {
				rt.zapLog.Warn("could not save draft", zap.Error(serr))
			} else {
				fmt.Println("Your application has been saved. Run apply again to continue.")
			}
		}
		return err
	}
	fmt.Printf("Application submitted. Reference: %s\n", result.ApplicationID)

	payment := paymentsubmitter.NewSubmitter(paymentsubmitter.LoadConfig(rt.cfg), rt.gateway, rt.log,
		paymentsubmitter.WithApplicationFee(result.ApplicationFee))
	defer payment.Close()

	_, err = rt.ui.RunPayment(ctx, payment, result.ApplicationID)
	return err
}
