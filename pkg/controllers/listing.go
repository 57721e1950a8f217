package controllers

import (
	"context"
	"net/http"
	"strconv"

	"ceylonhomes-api-io/api/internal/auth"
	"ceylonhomes-api-io/api/internal/helpers"
	"ceylonhomes-api-io/api/pkg/models"
	"ceylonhomes-api-io/api/pkg/search"
	"ceylonhomes-api-io/api/pkg/services"
	"ceylonhomes-api-io/api/pkg/util"

	"github.com/gin-gonic/gin"
)

type ListingController struct {
	listingService services.ListingService
	searchService  services.SearchService
}

func InitListingController(listingService services.ListingService, searchService services.SearchService) *ListingController {
	return &ListingController{
		listingService: listingService,
		searchService:  searchService,
	}
}

// SearchListings handles GET /v1/listings
func (lc *ListingController) SearchListings() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		paginationArgs := helpers.GetPaginationArgs(c)
		criteria := search.ParseCriteria(c.Request.URL.Query())

		listings, count, err := lc.searchService.Search(ctx, criteria, helpers.SearchPage(paginationArgs))
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}

		HandlePaginationAndResponse(c, listings, count, paginationArgs, "Listings retrieved successfully")
	}
}

// LatestListings handles GET /v1/listings/latest
func (lc *ListingController) LatestListings() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))
		listings, err := lc.searchService.Latest(ctx, limit)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "Latest listings retrieved successfully", listings)
	}
}

// GetListing handles GET /v1/listings/:listingid. The param may be a slug.
func (lc *ListingController) GetListing() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		listing, err := lc.listingService.GetListing(ctx, auth.OptionalActor(c), c.Param("listingid"))
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "Listing retrieved successfully", listing)
	}
}

// CreateListing handles POST /v1/listings
func (lc *ListingController) CreateListing() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		actor, ok := RequireActor(c)
		if !ok {
			return
		}

		var req models.CreateListingRequest
		if !BindJSON(c, &req) {
			return
		}

		listing, err := lc.listingService.CreateListing(ctx, actor, req)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusCreated, "Listing submitted for review", listing)
	}
}

// EditListing handles PUT /v1/listings/:listingid
func (lc *ListingController) EditListing() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		actor, ok := RequireActor(c)
		if !ok {
			return
		}

		var req models.UpdateListingRequest
		if !BindJSON(c, &req) {
			return
		}

		listing, err := lc.listingService.EditListing(ctx, actor, c.Param("listingid"), req)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "Listing updated successfully", listing)
	}
}

type listingAction func(ctx context.Context, actor models.Actor, listingID string) (*models.Listing, error)

func (lc *ListingController) transition(action listingAction, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		actor, ok := RequireActor(c)
		if !ok {
			return
		}

		listing, err := action(ctx, actor, c.Param("listingid"))
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, message, listing)
	}
}

// MarkSold handles PUT /v1/listings/:listingid/sold
func (lc *ListingController) MarkSold() gin.HandlerFunc {
	return lc.transition(lc.listingService.MarkSold, "Listing marked as sold")
}

// MarkRented handles PUT /v1/listings/:listingid/rented
func (lc *ListingController) MarkRented() gin.HandlerFunc {
	return lc.transition(lc.listingService.MarkRented, "Listing marked as rented")
}

// ArchiveListing handles PUT /v1/listings/:listingid/archive
func (lc *ListingController) ArchiveListing() gin.HandlerFunc {
	return lc.transition(lc.listingService.ArchiveListing, "Listing archived")
}

// DeleteListing handles DELETE /v1/listings/:listingid
func (lc *ListingController) DeleteListing() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		actor, ok := RequireActor(c)
		if !ok {
			return
		}

		if err := lc.listingService.DeleteListing(ctx, actor, c.Param("listingid")); err != nil {
			util.HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "Listing deleted", gin.H{"id": c.Param("listingid")})
	}
}

// AddPhotos handles POST /v1/listings/:listingid/photos
func (lc *ListingController) AddPhotos() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), UploadTimeout)
		defer cancel()

		actor, ok := RequireActor(c)
		if !ok {
			return
		}

		uploads, err := helpers.MultipartImages(c)
		if err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		photos, err := lc.listingService.AddPhotos(ctx, actor, c.Param("listingid"), uploads)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusCreated, "Photos uploaded", photos)
	}
}

// RemovePhoto handles DELETE /v1/photos/:photoid
func (lc *ListingController) RemovePhoto() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		actor, ok := RequireActor(c)
		if !ok {
			return
		}

		if err := lc.listingService.RemovePhoto(ctx, actor, c.Param("photoid")); err != nil {
			util.HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "Photo removed", gin.H{"id": c.Param("photoid")})
	}
}

// MyListings handles GET /v1/seller/listings
func (lc *ListingController) MyListings() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		actor, ok := RequireActor(c)
		if !ok {
			return
		}

		paginationArgs := helpers.GetPaginationArgs(c)
		criteria := search.ParseCriteria(c.Request.URL.Query())

		listings, count, err := lc.listingService.MyListings(ctx, actor, criteria, helpers.SearchPage(paginationArgs))
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}

		HandlePaginationAndResponse(c, listings, count, paginationArgs, "Listings retrieved successfully")
	}
}

// SellerSummary handles GET /v1/seller/summary
func (lc *ListingController) SellerSummary() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		actor, ok := RequireActor(c)
		if !ok {
			return
		}

		summary, err := lc.listingService.SellerSummary(ctx, actor)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "Summary retrieved successfully", summary)
	}
}
