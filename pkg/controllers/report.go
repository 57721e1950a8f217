package controllers

import (
	"context"
	"net/http"

	"ceylonhomes-api-io/api/internal/helpers"
	"ceylonhomes-api-io/api/pkg/models"
	"ceylonhomes-api-io/api/pkg/services"
	"ceylonhomes-api-io/api/pkg/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	reportService services.ReportService
}

func InitReportController(reportService services.ReportService) *ReportController {
	return &ReportController{reportService: reportService}
}

// CreateReport handles POST /v1/listings/:listingid/reports
func (rc *ReportController) CreateReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		actor, ok := RequireActor(c)
		if !ok {
			return
		}

		var req models.CreateReportRequest
		if !BindJSON(c, &req) {
			return
		}

		report, err := rc.reportService.CreateReport(ctx, actor, c.Param("listingid"), req)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusCreated, "Report submitted", report)
	}
}

// ListReports handles GET /v1/admin/reports
func (rc *ReportController) ListReports() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		actor, ok := RequireActor(c)
		if !ok {
			return
		}

		var status models.ReportStatus
		if raw := c.Query("status"); raw != "" {
			st, err := models.ParseReportStatus(raw)
			if err != nil {
				util.HandleError(c, http.StatusBadRequest, err)
				return
			}
			status = st
		}

		paginationArgs := helpers.GetPaginationArgs(c)
		reports, count, err := rc.reportService.ListReports(ctx, actor, status, helpers.StorePage(paginationArgs))
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}

		HandlePaginationAndResponse(c, reports, count, paginationArgs, "Reports retrieved successfully")
	}
}

type reportAction func(ctx context.Context, actor models.Actor, reportID string) (*models.Report, error)

func (rc *ReportController) move(action reportAction, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		actor, ok := RequireActor(c)
		if !ok {
			return
		}

		report, err := action(ctx, actor, c.Param("reportid"))
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, message, report)
	}
}

// MarkReviewed handles PATCH /v1/admin/reports/:reportid/reviewed
func (rc *ReportController) MarkReviewed() gin.HandlerFunc {
	return rc.move(rc.reportService.MarkReviewed, "Report marked as reviewed")
}

// MarkClosed handles PATCH /v1/admin/reports/:reportid/closed
func (rc *ReportController) MarkClosed() gin.HandlerFunc {
	return rc.move(rc.reportService.MarkClosed, "Report closed")
}
