package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"ceylonhomes-api-io/api/pkg/lifecycle"
	"ceylonhomes-api-io/api/pkg/media"
	"ceylonhomes-api-io/api/pkg/models"
	"ceylonhomes-api-io/api/pkg/notify"
	"ceylonhomes-api-io/api/pkg/store"
	"ceylonhomes-api-io/api/pkg/store/sqlstore"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	admin  = models.Actor{ID: "admin-1", Email: "admin@ceylonhomes.lk", Role: models.RoleAdmin}
	seller = models.Actor{ID: "seller-1", Email: "seller@example.com", Role: models.RoleSeller}
	rival  = models.Actor{ID: "seller-2", Email: "rival@example.com", Role: models.RoleSeller}
	buyer  = models.Actor{ID: "buyer-1", Email: "buyer@example.com", Role: models.RoleUser}
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, msg notify.Message) error {
	return m.Called(ctx, msg).Error(0)
}

// events returns the events delivered so far, in order.
func (m *MockNotifier) events() []notify.Event {
	var out []notify.Event
	for _, c := range m.Calls {
		out = append(out, c.Arguments.Get(1).(notify.Message).Event)
	}
	return out
}

type fakeFileStore struct {
	mu      sync.Mutex
	n       int
	failOn  int
	stored  []string
	deleted []string
}

func (f *fakeFileStore) Store(_ context.Context, name string, r io.Reader) (media.StoredFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	if f.failOn > 0 && f.n == f.failOn {
		return media.StoredFile{}, errors.New("upload rejected")
	}
	if _, err := io.ReadAll(r); err != nil {
		return media.StoredFile{}, err
	}
	loc := fmt.Sprintf("listings/%s-%d", name, f.n)
	f.stored = append(f.stored, loc)
	return media.StoredFile{Locator: loc, URL: "https://cdn.example.com/" + loc}, nil
}

func (f *fakeFileStore) Delete(_ context.Context, locator string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, locator)
	return nil
}

type env struct {
	store      store.Store
	notifier   *MockNotifier
	files      *fakeFileStore
	listings   ListingService
	moderation ModerationService
	reports    ReportService
	inquiries  InquiryService
	search     SearchService
}

type envOption func(*envConfig)

type envConfig struct {
	policy   lifecycle.EditPolicy
	wrap     func(store.Store) store.Store
	notifyFn func(m *MockNotifier)
}

func withEditPolicy(p lifecycle.EditPolicy) envOption {
	return func(c *envConfig) { c.policy = p }
}

func withStore(wrap func(store.Store) store.Store) envOption {
	return func(c *envConfig) { c.wrap = wrap }
}

func withNotifyError(err error) envOption {
	return func(c *envConfig) {
		c.notifyFn = func(m *MockNotifier) { m.On("Notify", mock.Anything, mock.Anything).Return(err) }
	}
}

func setupEnv(t *testing.T, opts ...envOption) *env {
	t.Helper()
	cfg := envConfig{}
	for _, o := range opts {
		o(&cfg)
	}

	db, err := sqlstore.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", models.NewID()))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background()))
	t.Cleanup(func() { _ = db.Close(context.Background()) })

	ctx := context.Background()
	for _, a := range []models.Actor{admin, seller, rival, buyer} {
		require.NoError(t, db.Reader().Users().Upsert(ctx, &models.User{
			ID: a.ID, Name: a.ID, Email: a.Email, Role: a.Role, Active: true,
		}))
	}

	var st store.Store = db
	if cfg.wrap != nil {
		st = cfg.wrap(db)
	}

	n := new(MockNotifier)
	if cfg.notifyFn != nil {
		cfg.notifyFn(n)
	} else {
		n.On("Notify", mock.Anything, mock.Anything).Return(nil)
	}
	files := &fakeFileStore{}
	o := Options{Store: st, Notifier: n}

	return &env{
		store:      st,
		notifier:   n,
		files:      files,
		listings:   NewListingService(o, files, cfg.policy),
		moderation: NewModerationService(o),
		reports:    NewReportService(o),
		inquiries:  NewInquiryService(o),
		search:     NewSearchService(o, nil),
	}
}

func createRequest(title, city string, price float64) models.CreateListingRequest {
	return models.CreateListingRequest{
		Title:           title,
		Description:     "Spacious and bright",
		TransactionType: models.TransactionRent,
		PropertyType:    models.PropertyHouse,
		Price:           price,
		District:        "Colombo",
		City:            city,
		Address:         "42 Galle Road",
		Bedrooms:        3,
		Bathrooms:       2,
		ContactPhone:    "0771234567",
	}
}

func (e *env) createListing(t *testing.T, owner models.Actor) *models.Listing {
	t.Helper()
	l, err := e.listings.CreateListing(context.Background(), owner, createRequest("House in Dehiwala", "Dehiwala", 85000))
	require.NoError(t, err)
	return l
}

func (e *env) approvedListing(t *testing.T, owner models.Actor) *models.Listing {
	t.Helper()
	l := e.createListing(t, owner)
	l, err := e.moderation.Approve(context.Background(), admin, l.ID, "")
	require.NoError(t, err)
	return l
}

func (e *env) reload(t *testing.T, id string) *models.Listing {
	t.Helper()
	l, err := e.store.Reader().Listings().FindByID(context.Background(), id)
	require.NoError(t, err)
	return l
}

func (e *env) auditTrail(t *testing.T, listingID string) []models.ApprovalAction {
	t.Helper()
	actions, _, err := e.store.Reader().Approvals().ListByListing(context.Background(), listingID, store.Page{Limit: 100})
	require.NoError(t, err)
	return actions
}

func uploads(names ...string) []Upload {
	out := make([]Upload, 0, len(names))
	for _, name := range names {
		out = append(out, Upload{Name: name, Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader([]byte("jpeg-bytes"))), nil
		}})
	}
	return out
}

// wrappedStore lets tests swap the repositories a transaction sees.
type wrappedStore struct {
	store.Store
	wrap func(store.Tx) store.Tx
}

func (w wrappedStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	return w.Store.WithTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
		return fn(ctx, w.wrap(tx))
	})
}

type brokenAuditTx struct{ store.Tx }

func (b brokenAuditTx) Approvals() store.ApprovalRepository {
	return brokenApprovals{b.Tx.Approvals()}
}

type brokenApprovals struct{ store.ApprovalRepository }

func (brokenApprovals) Append(context.Context, *models.ApprovalAction) error {
	return errors.New("audit write failed")
}

// racingTx simulates another writer committing between our read and write.
type racingTx struct{ store.Tx }

func (r racingTx) Listings() store.ListingRepository {
	return racingListings{r.Tx.Listings()}
}

type racingListings struct{ store.ListingRepository }

func (r racingListings) Update(ctx context.Context, l *models.Listing, expected int64) error {
	fresh, err := r.ListingRepository.FindByID(ctx, l.ID)
	if err != nil {
		return err
	}
	if err := r.ListingRepository.Update(ctx, fresh, fresh.Version); err != nil {
		return err
	}
	return r.ListingRepository.Update(ctx, l, expected)
}
