package controllers

import (
	"net/http"

	"ceylonhomes-api-io/api/internal/helpers"
	"ceylonhomes-api-io/api/pkg/models"
	"ceylonhomes-api-io/api/pkg/services"
	"ceylonhomes-api-io/api/pkg/util"

	"github.com/gin-gonic/gin"
)

type InquiryController struct {
	inquiryService services.InquiryService
}

func InitInquiryController(inquiryService services.InquiryService) *InquiryController {
	return &InquiryController{inquiryService: inquiryService}
}

// CreateInquiry handles POST /v1/listings/:listingid/inquiries
func (ic *InquiryController) CreateInquiry() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		actor, ok := RequireActor(c)
		if !ok {
			return
		}

		var req models.CreateInquiryRequest
		if !BindJSON(c, &req) {
			return
		}

		inquiry, err := ic.inquiryService.CreateInquiry(ctx, actor, c.Param("listingid"), req)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusCreated, "Inquiry sent to the seller", inquiry)
	}
}

// ListingInquiries handles GET /v1/listings/:listingid/inquiries
func (ic *InquiryController) ListingInquiries() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		actor, ok := RequireActor(c)
		if !ok {
			return
		}

		paginationArgs := helpers.GetPaginationArgs(c)
		inquiries, count, err := ic.inquiryService.ListingInquiries(ctx, actor, c.Param("listingid"), helpers.StorePage(paginationArgs))
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}

		HandlePaginationAndResponse(c, inquiries, count, paginationArgs, "Inquiries retrieved successfully")
	}
}

// SellerInquiries handles GET /v1/seller/inquiries
func (ic *InquiryController) SellerInquiries() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		actor, ok := RequireActor(c)
		if !ok {
			return
		}

		paginationArgs := helpers.GetPaginationArgs(c)
		inquiries, count, err := ic.inquiryService.SellerInquiries(ctx, actor, helpers.StorePage(paginationArgs))
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}

		HandlePaginationAndResponse(c, inquiries, count, paginationArgs, "Inquiries retrieved successfully")
	}
}
