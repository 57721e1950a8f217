package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ceylonhomes-api-io/api/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, msg Message) error {
	return m.Called(ctx, msg).Error(0)
}

type recordingSender struct {
	mu   sync.Mutex
	jobs []EmailJob
}

func (s *recordingSender) Send(_ context.Context, job EmailJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
	return nil
}

type users map[string]*models.User

func (u users) FindByID(_ context.Context, id string) (*models.User, error) {
	if usr, ok := u[id]; ok {
		return usr, nil
	}
	return nil, errors.New("no such user")
}

func TestMultiJoinsErrors(t *testing.T) {
	ok := new(MockNotifier)
	failing := new(MockNotifier)
	msg := Message{Event: ListingApproved}
	ok.On("Notify", mock.Anything, msg).Return(nil)
	failing.On("Notify", mock.Anything, msg).Return(errors.New("smtp down"))

	err := Multi{ok, nil, failing}.Notify(context.Background(), msg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
	ok.AssertExpectations(t)
	failing.AssertExpectations(t)
}

func TestEmailNotifierDeliversRejection(t *testing.T) {
	sender := &recordingSender{}
	pool := NewEmailWorkerPool(2, 8, 0, sender)
	pool.Start()

	reason := "photos missing"
	n := NewEmailNotifier(pool, users{"owner": {ID: "owner", Name: "Nimal", Email: "nimal@example.com", Active: true}})
	listing := &models.Listing{OwnerID: "owner", Title: "Annex in Nugegoda", RejectionReason: &reason}

	require.NoError(t, n.Notify(context.Background(), Message{Event: ListingRejected, Listing: listing}))
	require.NoError(t, n.Notify(context.Background(), Message{Event: ListingCreated, Listing: listing}))
	pool.Stop()

	require.Len(t, sender.jobs, 1)
	job := sender.jobs[0]
	assert.Equal(t, "nimal@example.com", job.To)
	assert.Equal(t, ListingRejected, job.Event)
	assert.Contains(t, job.Body, "photos missing")
}

func TestEmailNotifierOwnerLookupFails(t *testing.T) {
	pool := NewEmailWorkerPool(1, 1, 0, &recordingSender{})
	n := NewEmailNotifier(pool, users{})

	err := n.Notify(context.Background(), Message{Event: ListingApproved, Listing: &models.Listing{OwnerID: "ghost"}})
	assert.Error(t, err)
}

func TestEnqueueReportsFullQueue(t *testing.T) {
	pool := NewEmailWorkerPool(1, 1, 0, &recordingSender{})

	require.NoError(t, pool.Enqueue(EmailJob{To: "a@example.com"}))
	assert.ErrorIs(t, pool.Enqueue(EmailJob{To: "b@example.com"}), ErrQueueFull)
}

func TestComposeInquiry(t *testing.T) {
	l := &models.Listing{Title: "Room in Kandy"}
	_, _, ok := compose(Message{Event: InquiryReceived, Listing: l})
	assert.False(t, ok)

	subject, body, ok := compose(Message{Event: InquiryReceived, Listing: l, Inquiry: &models.Inquiry{
		BuyerName: "Kamal", BuyerEmail: "kamal@example.com", Message: "Is it still available?",
	}})
	require.True(t, ok)
	assert.Equal(t, "New inquiry about Room in Kandy", subject)
	assert.Contains(t, body, "kamal@example.com")
}
