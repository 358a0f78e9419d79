// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lease-client/internal/common/config"
	"lease-client/internal/common/database"
	"lease-client/internal/common/logger"
	"lease-client/internal/gateway"
	"lease-client/internal/presentation/tui"
	"lease-client/pkg/registry"

	draftstore "lease-client/internal/flows/application/draft-store"
	formwizard "lease-client/internal/flows/application/form-wizard"
	listingdetail "lease-client/internal/flows/listing/listing-detail"
	paymentsubmitter "lease-client/internal/flows/payment/payment-submitter"
	searchorchestrator "lease-client/internal/flows/search/search-orchestrator"
)

// ==========================
// Fake Backend
// ==========================

const houseJSON = `{
  "id": "h1",
  "title": "Sunny Loft",
  "description": "Top floor walk-up",
  "price": 1850,
  "address": {"street": "1 Main St", "city": "New York", "state": "NY", "zipCode": "10001"},
  "bedrooms": 2,
  "bathrooms": 1,
  "squareFeet": 900,
  "available": true,
  "images": {"exterior": [], "interior": []},
  "amenities": ["laundry", "gym"]
}`

type graphQLRequest struct {
	Query     string                     `json:"query"`
	Variables map[string]json.RawMessage `json:"variables"`
}

// backend answers the six operations the client issues, keeping what it
// was sent so tests can inspect the wire payloads.
type backend struct {
	mu              sync.Mutex
	applications    []map[string]interface{}
	payments        []map[string]interface{}
	declinePayments int
	down            bool
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req graphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.down {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
		return
	}

	var data string
	switch q := req.Query; {
	case strings.Contains(q, "submitLeaseApplication("):
		var app map[string]interface{}
		_ = json.Unmarshal(req.Variables["application"], &app)
		b.applications = append(b.applications, app)
		data = fmt.Sprintf(`{"submitLeaseApplication": {"id": "app-%d", "status": "PENDING", "paymentStatus": "UNPAID", "applicationFee": 75}}`, len(b.applications))
	case strings.Contains(q, "processApplicationPayment("):
		var p map[string]interface{}
		_ = json.Unmarshal(req.Variables["payment"], &p)
		b.payments = append(b.payments, p)
		if b.declinePayments > 0 {
			b.declinePayments--
			data = `{"processApplicationPayment": {"success": false, "message": "Card declined", "transactionId": ""}}`
		} else {
			data = `{"processApplicationPayment": {"success": true, "message": "Paid", "transactionId": "txn-1"}}`
		}
	case strings.Contains(q, "housesByZipCode("):
		var zip string
		_ = json.Unmarshal(req.Variables["zipCode"], &zip)
		if zip == "10001" {
			data = `{"housesByZipCode": [` + houseJSON + `]}`
		} else {
			data = `{"housesByZipCode": []}`
		}
	case strings.Contains(q, "housesByState("):
		data = `{"housesByState": [` + houseJSON + `]}`
	case strings.Contains(q, "house(id"):
		var id string
		_ = json.Unmarshal(req.Variables["id"], &id)
		if id == "h1" {
			data = `{"house": ` + houseJSON + `}`
		} else {
			data = `{"house": null}`
		}
	case strings.Contains(q, "houses {"):
		data = `{"houses": [` + houseJSON + `]}`
	default:
		http.Error(w, "unknown operation", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"data": ` + data + `}`))
}

func (b *backend) sentApplications() []map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]interface{}(nil), b.applications...)
}

func (b *backend) sentPayments() []map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]interface{}(nil), b.payments...)
}

func (b *backend) decline(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.declinePayments = n
}

func (b *backend) setDown(down bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.down = down
}

// ==========================
// Scripted Terminal
// ==========================

// scriptedDriver answers prompts by label, so the test does not depend on
// field order. Unknown labels keep the prompt's default.
type scriptedDriver struct {
	answers  map[string]string
	confirms map[string][]bool
	infos    []string
}

func (d *scriptedDriver) Input(_ context.Context, cfg tui.InputConfig) (string, error) {
	if v, ok := d.answers[cfg.Message]; ok {
		return v, nil
	}
	return cfg.Default, nil
}

func (d *scriptedDriver) Password(ctx context.Context, cfg tui.InputConfig) (string, error) {
	return d.Input(ctx, cfg)
}

func (d *scriptedDriver) Confirm(_ context.Context, cfg tui.ConfirmConfig) (bool, error) {
	queue := d.confirms[cfg.Message]
	if len(queue) == 0 {
		return false, fmt.Errorf("unexpected confirm %q", cfg.Message)
	}
	d.confirms[cfg.Message] = queue[1:]
	return queue[0], nil
}

func (d *scriptedDriver) Select(_ context.Context, cfg tui.SelectConfig) (int, error) {
	return cfg.DefaultIndex, nil
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func (d *scriptedDriver) saw(substr string) bool {
	for _, m := range d.infos {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

func applicantAnswers() map[string]string {
	return map[string]string{
		"First Name":                 "John",
		"Last Name":                  "Smith",
		"Email":                      "john@example.com",
		"Phone":                      "555-0100",
		"Date of Birth":              "01/01/1990",
		"Social Security Number":     "123-45-6789",
		"Street Address":             "5 Current Ave",
		"City":                       "Austin",
		"State":                      "TX",
		"ZIP Code":                   "78701",
		"Employer":                   "Acme",
		"Position":                   "Engineer",
		"Monthly Income ($)":         "5000",
		"Employment Length (months)": "24",
		"Employer Contact":           "hr@acme.test",
		"Previous Street Address":    "9 Old Rd",
		"Previous City":              "Dallas",
		"Previous State":             "TX",
		"Previous ZIP Code":          "75201",
		"Landlord Name":              "Pat Lee",
		"Landlord Contact":           "555-0199",
		"Monthly Rent ($)":           "1200.50",
		"Length of Stay (months)":    "36",
		"Full Name":                  "Jane Smith",
		"Relationship":               "spouse",
		"Age":                        "31",
		"Card Number":                "4111111111111111",
		"Expiry Date":                "12/29",
		"CVV":                        "123",
		"Name on Card":               "John Smith",
		"Billing ZIP Code":           "78701",
	}
}

// ==========================
// Environment
// ==========================

type environment struct {
	cfg     *config.Config
	backend *backend
	redis   *miniredis.Miniredis
	gateway *gateway.Client
	store   *draftstore.Store
	forms   *registry.FormRegistry
}

func setupEnvironment(t *testing.T) *environment {
	t.Helper()

	be := &backend{}
	server := httptest.NewServer(be)
	t.Cleanup(server.Close)

	mr := miniredis.RunT(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := fmt.Sprintf(`app:
  name: lease-client-e2e
gateway:
  endpoint: %s
  timeout: 2000
  rate_limit_rps: 100
  rate_limit_burst: 100
drafts:
  enabled: true
  ttl_minutes: 30
database:
  redis:
    address: %s
logging:
  level: debug
  output: stderr
`, server.URL, mr.Addr())
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)

	forms, err := registry.Default()
	require.NoError(t, err)

	log := logger.NewTestLogger(t)
	rdb := database.WrapRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = rdb.Close() })

	return &environment{
		cfg:     cfg,
		backend: be,
		redis:   mr,
		gateway: gateway.NewClient(gateway.LoadConfig(cfg), log),
		store:   draftstore.NewStore(draftstore.LoadConfig(cfg), rdb, log),
		forms:   forms,
	}
}

func (env *environment) newApp(t *testing.T, driver tui.PromptDriver) *tui.App {
	return tui.NewApp(driver, env.forms, logger.NewTestLogger(t))
}

func (env *environment) newWizard(t *testing.T, listingID string) *formwizard.Controller {
	w := formwizard.NewController(formwizard.LoadConfig(env.cfg), listingID, env.gateway,
		logger.NewTestLogger(t), formwizard.WithDraftStore(env.store))
	t.Cleanup(w.Close)
	return w
}

// ==========================
// Full Flow
// ==========================

func TestFullE2E(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	env := setupEnvironment(t)
	log := logger.NewTestLogger(t)

	// 1. Search by ZIP code.
	driver := &scriptedDriver{answers: applicantAnswers(), confirms: map[string][]bool{}}
	app := env.newApp(t, driver)

	o := searchorchestrator.NewOrchestrator(searchorchestrator.LoadConfig(env.cfg), env.gateway, log)
	defer o.Close()
	snap, err := app.RunSearch(ctx, o, searchorchestrator.ModeZipCode, "10001")
	require.NoError(t, err)
	require.Equal(t, searchorchestrator.ViewPopulated, snap.View.State)
	require.Len(t, snap.View.Listings, 1)
	assert.True(t, driver.saw("Sunny Loft"))

	// 2. Open the listing.
	svc := listingdetail.NewService(listingdetail.LoadConfig(env.cfg), env.gateway, log)
	detail, err := svc.Detail(ctx, snap.View.Listings[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Sunny Loft", detail.Listing.Title)

	// 3. Fill the application, then back out at the confirmation.
	driver.confirms["Add another occupant?"] = []bool{false}
	driver.confirms["Submit application?"] = []bool{false}
	wizard := env.newWizard(t, "h1")
	_, err = app.RunWizard(ctx, wizard)
	require.True(t, errors.Is(err, tui.ErrAborted))
	require.NoError(t, wizard.SaveDraft(ctx))
	assert.True(t, env.redis.Exists(draftstore.Key("h1")))

	// 4. Resume in a fresh wizard and submit.
	resumedDriver := &scriptedDriver{
		answers: map[string]string{},
		confirms: map[string][]bool{
			"Add another occupant?": {false},
			"Submit application?":   {true},
		},
	}
	resumed := env.newWizard(t, "h1")
	ok, err := resumed.Resume(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, formwizard.LastStep, resumed.Snapshot().Step)

	result, err := env.newApp(t, resumedDriver).RunWizard(ctx, resumed)
	require.NoError(t, err)
	assert.Equal(t, "app-1", result.ApplicationID)
	assert.False(t, env.redis.Exists(draftstore.Key("h1")), "draft is forgotten once submitted")

	applications := env.backend.sentApplications()
	require.Len(t, applications, 1)
	sent := applications[0]
	assert.Equal(t, "h1", sent["houseId"])
	employment := sent["employmentInfo"].(map[string]interface{})
	assert.Equal(t, float64(5000), employment["monthlyIncome"])
	assert.Equal(t, float64(24), employment["employmentLength"])
	occupants := sent["additionalOccupants"].([]interface{})
	require.Len(t, occupants, 1)
	assert.Equal(t, float64(31), occupants[0].(map[string]interface{})["age"])

	// 5. Pay the fee; the first charge is declined.
	env.backend.decline(1)
	payDriver := &scriptedDriver{
		answers:  applicantAnswers(),
		confirms: map[string][]bool{"Try again?": {true}},
	}
	payment := paymentsubmitter.NewSubmitter(paymentsubmitter.LoadConfig(env.cfg), env.gateway, log,
		paymentsubmitter.WithApplicationFee(result.ApplicationFee))
	defer payment.Close()

	paid, err := env.newApp(t, payDriver).RunPayment(ctx, payment, result.ApplicationID)
	require.NoError(t, err)
	assert.True(t, paid.Success)
	assert.Equal(t, paymentsubmitter.PhasePaid, payment.Snapshot().Phase)
	assert.True(t, payDriver.saw("Total: $75.00"))
	assert.True(t, payDriver.saw("Card declined"))

	payments := env.backend.sentPayments()
	require.Len(t, payments, 2)
	for _, p := range payments {
		assert.Equal(t, "app-1", p["leaseApplicationId"])
		assert.Equal(t, "credit_card", p["paymentMethod"])
		assert.NotContains(t, p, "nameOnCard")
	}
}

func TestE2E_BackendDown(t *testing.T) {
	ctx := context.Background()
	env := setupEnvironment(t)
	env.backend.setDown(true)

	driver := &scriptedDriver{answers: map[string]string{}, confirms: map[string][]bool{}}
	o := searchorchestrator.NewOrchestrator(searchorchestrator.LoadConfig(env.cfg), env.gateway, logger.NewTestLogger(t))
	defer o.Close()

	snap, err := env.newApp(t, driver).RunSearch(ctx, o, searchorchestrator.ModeState, "NY")
	require.NoError(t, err)
	assert.Equal(t, searchorchestrator.ViewError, snap.View.State)
	assert.True(t, driver.saw(searchorchestrator.ErrorMessage))

	svc := listingdetail.NewService(listingdetail.LoadConfig(env.cfg), env.gateway, logger.NewTestLogger(t))
	_, err = svc.Detail(ctx, "h1")
	assert.Error(t, err)
}

func TestE2E_UnknownListing(t *testing.T) {
	env := setupEnvironment(t)
	svc := listingdetail.NewService(listingdetail.LoadConfig(env.cfg), env.gateway, logger.NewTestLogger(t))

	_, err := svc.Detail(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, gateway.ErrListingNotFound))
}
