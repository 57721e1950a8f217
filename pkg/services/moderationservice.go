package services

import (
	"context"
	"time"

	"ceylonhomes-api-io/api/pkg/errs"
	"ceylonhomes-api-io/api/pkg/lifecycle"
	"ceylonhomes-api-io/api/pkg/models"
	"ceylonhomes-api-io/api/pkg/notify"
	"ceylonhomes-api-io/api/pkg/policy"
	"ceylonhomes-api-io/api/pkg/store"
	"ceylonhomes-api-io/api/pkg/util"
)

type moderationService struct {
	base
}

func NewModerationService(opts Options) ModerationService {
	return &moderationService{base: newBase(opts)}
}

type moderation struct {
	op     string
	action models.ApprovalActionType
	event  notify.Event
	note   string
	apply  func(l *models.Listing, now time.Time) error
}

// transition applies an admin decision and appends its audit entry in the
// same transaction. Either both persist or neither does.
func (s *moderationService) transition(ctx context.Context, actor models.Actor, listingID string, m moderation) (*models.Listing, error) {
	if err := policy.RequireModerate(actor, m.op); err != nil {
		return nil, err
	}

	var out *models.Listing
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
		l, err := tx.Listings().FindByID(ctx, listingID)
		if err != nil {
			return err
		}
		expected := l.Version
		now := s.now()
		if err := m.apply(l, now); err != nil {
			return err
		}
		if err := tx.Listings().Update(ctx, l, expected); err != nil {
			return err
		}
		action := &models.ApprovalAction{
			ID:           models.NewID(),
			ListingID:    l.ID,
			ListingTitle: l.Title,
			AdminID:      actor.ID,
			Action:       m.action,
			Note:         trimmedOrNil(m.note),
			CreatedAt:    now,
		}
		if err := tx.Approvals().Append(ctx, action); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(err, "moderation."+m.op)
	}

	if err := s.withPhotos(ctx, out); err != nil {
		util.LogError("load photos for "+out.ID, err)
	}
	s.notify(ctx, notify.Message{Event: m.event, Actor: actor, Listing: out})
	return out, nil
}

func (s *moderationService) Approve(ctx context.Context, actor models.Actor, listingID, note string) (*models.Listing, error) {
	return s.transition(ctx, actor, listingID, moderation{
		op:     "approve",
		action: models.ApprovalApproved,
		event:  notify.ListingApproved,
		note:   note,
		apply:  lifecycle.Approve,
	})
}

func (s *moderationService) Reject(ctx context.Context, actor models.Actor, listingID, reason string) (*models.Listing, error) {
	return s.transition(ctx, actor, listingID, moderation{
		op:     "reject",
		action: models.ApprovalRejected,
		event:  notify.ListingRejected,
		note:   reason,
		apply: func(l *models.Listing, now time.Time) error {
			return lifecycle.Reject(l, reason, now)
		},
	})
}

func (s *moderationService) Suspend(ctx context.Context, actor models.Actor, listingID, reason string) (*models.Listing, error) {
	return s.transition(ctx, actor, listingID, moderation{
		op:     "suspend",
		action: models.ApprovalSuspended,
		event:  notify.ListingSuspended,
		note:   reason,
		apply: func(l *models.Listing, now time.Time) error {
			return lifecycle.Suspend(l, reason, now)
		},
	})
}

func (s *moderationService) Unsuspend(ctx context.Context, actor models.Actor, listingID, note string) (*models.Listing, error) {
	return s.transition(ctx, actor, listingID, moderation{
		op:     "unsuspend",
		action: models.ApprovalUnsuspended,
		event:  notify.ListingUnsuspended,
		note:   note,
		apply:  lifecycle.Unsuspend,
	})
}

func (s *moderationService) History(ctx context.Context, actor models.Actor, listingID string, page store.Page) ([]models.ApprovalAction, int64, error) {
	if err := policy.RequireModerate(actor, "history"); err != nil {
		return nil, 0, err
	}
	page = clampPage(page)
	approvals := s.store.Reader().Approvals()

	var (
		actions []models.ApprovalAction
		total   int64
		err     error
	)
	if listingID == "" {
		actions, total, err = approvals.List(ctx, page)
	} else {
		actions, total, err = approvals.ListByListing(ctx, listingID, page)
	}
	if err != nil {
		return nil, 0, errs.Wrap(err, "moderation.history")
	}
	return actions, total, nil
}

func (s *moderationService) Stats(ctx context.Context, actor models.Actor) (*models.AdminStats, error) {
	if err := policy.RequireModerate(actor, "stats"); err != nil {
		return nil, err
	}
	r := s.store.Reader()
	counts, err := r.Listings().CountByStatus(ctx, "")
	if err != nil {
		return nil, errs.Wrap(err, "moderation.stats")
	}
	open, err := r.Reports().Count(ctx, models.ReportStatusOpen)
	if err != nil {
		return nil, errs.Wrap(err, "moderation.stats")
	}

	stats := &models.AdminStats{
		PendingListings:   counts[models.ListingStatusPending],
		ApprovedListings:  counts[models.ListingStatusApproved],
		RejectedListings:  counts[models.ListingStatusRejected],
		SuspendedListings: counts[models.ListingStatusSuspended],
		OpenReports:       open,
	}
	for _, c := range counts {
		stats.TotalListings += c
	}
	return stats, nil
}
