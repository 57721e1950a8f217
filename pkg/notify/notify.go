// Package notify fans listing events out to interested parties. Delivery is
// best effort: callers log failures and carry on.
package notify

import (
	"context"
	"errors"

	"ceylonhomes-api-io/api/pkg/models"
)

type Event string

const (
	ListingCreated     Event = "listing.created"
	ListingUpdated     Event = "listing.updated"
	ListingApproved    Event = "listing.approved"
	ListingRejected    Event = "listing.rejected"
	ListingSuspended   Event = "listing.suspended"
	ListingUnsuspended Event = "listing.unsuspended"
	ListingClosed      Event = "listing.closed"
	ListingArchived    Event = "listing.archived"
	ListingDeleted     Event = "listing.deleted"
	PhotosChanged      Event = "listing.photos"
	InquiryReceived    Event = "inquiry.received"
	ReportCreated      Event = "report.created"
)

type Message struct {
	Event   Event
	Actor   models.Actor
	Listing *models.Listing
	Inquiry *models.Inquiry
	Report  *models.Report
}

type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Multi delivers to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, msg Message) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards every message.
type Nop struct{}

func (Nop) Notify(context.Context, Message) error { return nil }
