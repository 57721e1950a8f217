package services

import (
	"context"
	"strings"

	"ceylonhomes-api-io/api/pkg/errs"
	"ceylonhomes-api-io/api/pkg/models"
	"ceylonhomes-api-io/api/pkg/notify"
	"ceylonhomes-api-io/api/pkg/policy"
	"ceylonhomes-api-io/api/pkg/store"
)

type inquiryService struct {
	base
}

func NewInquiryService(opts Options) InquiryService {
	return &inquiryService{base: newBase(opts)}
}

// CreateInquiry records a buyer message. Only listings the buyer can see may
// be asked about.
func (s *inquiryService) CreateInquiry(ctx context.Context, actor models.Actor, listingID string, req models.CreateInquiryRequest) (*models.Inquiry, error) {
	const op = "inquiries.create"
	req.Message = strings.TrimSpace(req.Message)
	if err := validate(op, req); err != nil {
		return nil, err
	}

	var (
		inquiry *models.Inquiry
		listing *models.Listing
	)
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
		l, err := tx.Listings().FindByID(ctx, listingID)
		if err != nil {
			return err
		}
		if !policy.CanView(&actor, l) {
			return errs.E(errs.NotFound, op, "listing not found")
		}
		buyer, err := tx.Users().FindByID(ctx, actor.ID)
		if err != nil {
			return err
		}
		i := &models.Inquiry{
			ID:             models.NewID(),
			ListingID:      l.ID,
			ListingOwnerID: l.OwnerID,
			ListingTitle:   l.Title,
			BuyerID:        buyer.ID,
			BuyerName:      buyer.Name,
			BuyerEmail:     buyer.Email,
			Message:        req.Message,
			CreatedAt:      s.now(),
		}
		if err := tx.Inquiries().Insert(ctx, i); err != nil {
			return err
		}
		inquiry, listing = i, l
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(err, op)
	}

	s.notify(ctx, notify.Message{Event: notify.InquiryReceived, Actor: actor, Listing: listing, Inquiry: inquiry})
	return inquiry, nil
}

func (s *inquiryService) ListingInquiries(ctx context.Context, actor models.Actor, listingID string, page store.Page) ([]models.Inquiry, int64, error) {
	const op = "inquiries.list"
	r := s.store.Reader()
	l, err := r.Listings().FindByID(ctx, listingID)
	if err != nil {
		return nil, 0, errs.Wrap(err, op)
	}
	if err := policy.RequireMutate(actor, l, "read inquiries"); err != nil {
		return nil, 0, err
	}
	items, total, err := r.Inquiries().ListByListing(ctx, l.ID, clampPage(page))
	if err != nil {
		return nil, 0, errs.Wrap(err, op)
	}
	return items, total, nil
}

func (s *inquiryService) SellerInquiries(ctx context.Context, actor models.Actor, page store.Page) ([]models.Inquiry, int64, error) {
	items, total, err := s.store.Reader().Inquiries().ListByOwner(ctx, actor.ID, clampPage(page))
	if err != nil {
		return nil, 0, errs.Wrap(err, "inquiries.seller")
	}
	return items, total, nil
}
