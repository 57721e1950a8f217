// Package lifecycle holds the listing and report state machines. Functions
// here mutate the record in memory only; persisting it is the caller's job.
package lifecycle

import (
	"strings"
	"time"

	"ceylonhomes-api-io/api/pkg/errs"
	"ceylonhomes-api-io/api/pkg/models"
)

// EditPolicy decides which statuses an owner edit sends back to review.
// APPROVED always goes back to PENDING.
type EditPolicy struct {
	ResubmitRejected bool
}

func invalid(op string, from models.ListingStatus) error {
	return errs.Ef(errs.InvalidState, op, "listing is %s", from)
}

func touch(l *models.Listing, now time.Time) {
	l.UpdatedAt = now
}

// New prepares a freshly submitted listing.
func New(l *models.Listing, now time.Time) {
	l.Status = models.ListingStatusPending
	l.RejectionReason = nil
	l.ClosedAt = nil
	l.Version = 1
	l.CreatedAt = now
	l.UpdatedAt = now
}

func Approve(l *models.Listing, now time.Time) error {
	switch l.Status {
	case models.ListingStatusPending, models.ListingStatusSuspended:
	default:
		return invalid("approve", l.Status)
	}
	l.Status = models.ListingStatusApproved
	l.RejectionReason = nil
	touch(l, now)
	return nil
}

func Reject(l *models.Listing, reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errs.E(errs.Validation, "reject", "rejection reason is required")
	}
	if l.Status != models.ListingStatusPending {
		return invalid("reject", l.Status)
	}
	l.Status = models.ListingStatusRejected
	l.RejectionReason = &reason
	touch(l, now)
	return nil
}

func Suspend(l *models.Listing, reason string, now time.Time) error {
	if l.Status != models.ListingStatusApproved {
		return invalid("suspend", l.Status)
	}
	l.Status = models.ListingStatusSuspended
	l.RejectionReason = nil
	if r := strings.TrimSpace(reason); r != "" {
		l.RejectionReason = &r
	}
	touch(l, now)
	return nil
}

func Unsuspend(l *models.Listing, now time.Time) error {
	if l.Status != models.ListingStatusSuspended {
		return invalid("unsuspend", l.Status)
	}
	l.Status = models.ListingStatusApproved
	l.RejectionReason = nil
	touch(l, now)
	return nil
}

// Edit applies req to l and moves the listing back to review when required.
func Edit(l *models.Listing, req *models.UpdateListingRequest, policy EditPolicy, now time.Time) error {
	if l.Status == models.ListingStatusArchived {
		return invalid("edit", l.Status)
	}
	req.Apply(l)
	switch {
	case l.Status == models.ListingStatusApproved:
		l.Status = models.ListingStatusPending
	case l.Status == models.ListingStatusRejected && policy.ResubmitRejected:
		l.Status = models.ListingStatusPending
		l.RejectionReason = nil
	}
	touch(l, now)
	return nil
}

// Close marks an approved listing SOLD or RENTED.
func Close(l *models.Listing, to models.ListingStatus, now time.Time) error {
	op := "mark " + strings.ToLower(string(to))
	if to != models.ListingStatusSold && to != models.ListingStatusRented {
		return errs.Ef(errs.Validation, op, "%s is not a closing status", to)
	}
	if l.Status != models.ListingStatusApproved {
		return invalid(op, l.Status)
	}
	l.Status = to
	l.ClosedAt = &now
	touch(l, now)
	return nil
}

func Archive(l *models.Listing, now time.Time) error {
	if l.Status == models.ListingStatusArchived {
		return invalid("archive", l.Status)
	}
	l.Status = models.ListingStatusArchived
	l.RejectionReason = nil
	l.ClosedAt = nil
	touch(l, now)
	return nil
}

// CheckPhotoMutation rejects photo changes on archived listings.
func CheckPhotoMutation(l *models.Listing) error {
	if l.Status == models.ListingStatusArchived {
		return invalid("photos", l.Status)
	}
	return nil
}
