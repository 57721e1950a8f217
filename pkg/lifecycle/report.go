package lifecycle

import (
	"ceylonhomes-api-io/api/pkg/errs"
	"ceylonhomes-api-io/api/pkg/models"
)

// ReportTransition validates moving a report from one status to another.
func ReportTransition(from, to models.ReportStatus) error {
	switch to {
	case models.ReportStatusReviewed:
		if from == models.ReportStatusOpen {
			return nil
		}
	case models.ReportStatusClosed:
		if from == models.ReportStatusOpen || from == models.ReportStatusReviewed {
			return nil
		}
	default:
		return errs.Ef(errs.Validation, "report", "unknown target status %q", to)
	}
	return errs.Ef(errs.InvalidState, "report", "cannot move report from %s to %s", from, to)
}
