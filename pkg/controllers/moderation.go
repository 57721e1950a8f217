package controllers

import (
	"context"
	"net/http"

	"ceylonhomes-api-io/api/internal/helpers"
	"ceylonhomes-api-io/api/pkg/models"
	"ceylonhomes-api-io/api/pkg/search"
	"ceylonhomes-api-io/api/pkg/services"
	"ceylonhomes-api-io/api/pkg/util"

	"github.com/gin-gonic/gin"
)

type ModerationController struct {
	moderationService services.ModerationService
	searchService     services.SearchService
}

func InitModerationController(moderationService services.ModerationService, searchService services.SearchService) *ModerationController {
	return &ModerationController{
		moderationService: moderationService,
		searchService:     searchService,
	}
}

type moderationAction func(ctx context.Context, actor models.Actor, listingID, note string) (*models.Listing, error)

// decide binds the optional note body shared by every moderation endpoint.
func (mc *ModerationController) decide(action moderationAction, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		actor, ok := RequireActor(c)
		if !ok {
			return
		}

		var req models.ModerationNoteRequest
		if c.Request.ContentLength != 0 && !BindJSON(c, &req) {
			return
		}
		if err := models.Validate.Struct(req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		listing, err := action(ctx, actor, c.Param("listingid"), req.Text())
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, message, listing)
	}
}

// Approve handles POST /v1/admin/listings/:listingid/approve
func (mc *ModerationController) Approve() gin.HandlerFunc {
	return mc.decide(mc.moderationService.Approve, "Listing approved")
}

// Reject handles POST /v1/admin/listings/:listingid/reject
func (mc *ModerationController) Reject() gin.HandlerFunc {
	return mc.decide(mc.moderationService.Reject, "Listing rejected")
}

// Suspend handles POST /v1/admin/listings/:listingid/suspend
func (mc *ModerationController) Suspend() gin.HandlerFunc {
	return mc.decide(mc.moderationService.Suspend, "Listing suspended")
}

// Unsuspend handles POST /v1/admin/listings/:listingid/unsuspend
func (mc *ModerationController) Unsuspend() gin.HandlerFunc {
	return mc.decide(mc.moderationService.Unsuspend, "Listing restored")
}

// History handles GET /v1/admin/approval-actions
func (mc *ModerationController) History() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		actor, ok := RequireActor(c)
		if !ok {
			return
		}

		paginationArgs := helpers.GetPaginationArgs(c)
		actions, count, err := mc.moderationService.History(ctx, actor, c.Query("listing_id"), helpers.StorePage(paginationArgs))
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}

		HandlePaginationAndResponse(c, actions, count, paginationArgs, "Approval history retrieved successfully")
	}
}

// Stats handles GET /v1/admin/stats
func (mc *ModerationController) Stats() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		actor, ok := RequireActor(c)
		if !ok {
			return
		}

		stats, err := mc.moderationService.Stats(ctx, actor)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "Stats retrieved successfully", stats)
	}
}

// AdminListings handles GET /v1/admin/listings
func (mc *ModerationController) AdminListings() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		actor, ok := RequireActor(c)
		if !ok {
			return
		}

		paginationArgs := helpers.GetPaginationArgs(c)
		criteria := search.ParseCriteria(c.Request.URL.Query())

		listings, count, err := mc.searchService.AdminSearch(ctx, actor, criteria, helpers.SearchPage(paginationArgs))
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}

		HandlePaginationAndResponse(c, listings, count, paginationArgs, "Listings retrieved successfully")
	}
}
