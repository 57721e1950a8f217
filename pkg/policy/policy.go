// Package policy answers who may do what to a listing.
package policy

import (
	"ceylonhomes-api-io/api/pkg/errs"
	"ceylonhomes-api-io/api/pkg/models"
)

func CanMutate(actor models.Actor, l *models.Listing) bool {
	return actor.IsAdmin() || (actor.ID != "" && actor.ID == l.OwnerID)
}

func CanModerate(actor models.Actor) bool {
	return actor.IsAdmin()
}

// CanView reports whether a single listing read is allowed. Non-public
// listings are only visible to their owner and admins.
func CanView(actor *models.Actor, l *models.Listing) bool {
	if l.IsPublic() {
		return true
	}
	return actor != nil && CanMutate(*actor, l)
}

func CanReport(actor models.Actor) bool {
	return actor.ID != ""
}

// RequireMutate returns an Unauthorized error when actor may not change l.
func RequireMutate(actor models.Actor, l *models.Listing, op string) error {
	if !CanMutate(actor, l) {
		return errs.E(errs.Unauthorized, op, "you do not own this listing")
	}
	return nil
}

func RequireModerate(actor models.Actor, op string) error {
	if !CanModerate(actor) {
		return errs.E(errs.Unauthorized, op, "admin role required")
	}
	return nil
}
