package services

import (
	"context"
	"strings"

	"ceylonhomes-api-io/api/pkg/errs"
	"ceylonhomes-api-io/api/pkg/lifecycle"
	"ceylonhomes-api-io/api/pkg/models"
	"ceylonhomes-api-io/api/pkg/notify"
	"ceylonhomes-api-io/api/pkg/policy"
	"ceylonhomes-api-io/api/pkg/store"
)

type reportService struct {
	base
}

func NewReportService(opts Options) ReportService {
	return &reportService{base: newBase(opts)}
}

func (s *reportService) CreateReport(ctx context.Context, actor models.Actor, listingID string, req models.CreateReportRequest) (*models.Report, error) {
	const op = "reports.create"
	if !policy.CanReport(actor) {
		return nil, errs.E(errs.Unauthorized, op, "sign in to report a listing")
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if err := validate(op, req); err != nil {
		return nil, err
	}

	var (
		report  *models.Report
		listing *models.Listing
	)
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
		l, err := tx.Listings().FindByID(ctx, listingID)
		if err != nil {
			return err
		}
		now := s.now()
		r := &models.Report{
			ID:         models.NewID(),
			ListingID:  l.ID,
			ReporterID: actor.ID,
			Reason:     req.Reason,
			Details:    strings.TrimSpace(req.Details),
			Status:     models.ReportStatusOpen,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := tx.Reports().Insert(ctx, r); err != nil {
			return err
		}
		report, listing = r, l
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(err, op)
	}

	s.notify(ctx, notify.Message{Event: notify.ReportCreated, Actor: actor, Listing: listing, Report: report})
	return report, nil
}

func (s *reportService) move(ctx context.Context, actor models.Actor, reportID string, to models.ReportStatus) (*models.Report, error) {
	op := "reports." + strings.ToLower(string(to))
	if err := policy.RequireModerate(actor, op); err != nil {
		return nil, err
	}

	var out *models.Report
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
		r, err := tx.Reports().FindByID(ctx, reportID)
		if err != nil {
			return err
		}
		from := r.Status
		if err := lifecycle.ReportTransition(from, to); err != nil {
			return err
		}
		r.Status = to
		r.UpdatedAt = s.now()
		if err := tx.Reports().UpdateStatus(ctx, r, from); err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(err, op)
	}
	return out, nil
}

func (s *reportService) MarkReviewed(ctx context.Context, actor models.Actor, reportID string) (*models.Report, error) {
	return s.move(ctx, actor, reportID, models.ReportStatusReviewed)
}

func (s *reportService) MarkClosed(ctx context.Context, actor models.Actor, reportID string) (*models.Report, error) {
	return s.move(ctx, actor, reportID, models.ReportStatusClosed)
}

func (s *reportService) ListReports(ctx context.Context, actor models.Actor, status models.ReportStatus, page store.Page) ([]models.Report, int64, error) {
	if err := policy.RequireModerate(actor, "reports.list"); err != nil {
		return nil, 0, err
	}
	reports, total, err := s.store.Reader().Reports().List(ctx, status, clampPage(page))
	if err != nil {
		return nil, 0, errs.Wrap(err, "reports.list")
	}
	return reports, total, nil
}
