package routers

import (
	"ceylonhomes-api-io/api/internal/container"
	"ceylonhomes-api-io/api/internal/middleware"
	"ceylonhomes-api-io/api/pkg/controllers"

	"github.com/gin-gonic/gin"
)

// InitRoute creates the gin router for the public API
func InitRoute(sc *container.ServiceContainer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.CorsMiddleware(sc.Config.CORSAllowedOrigins))

	var revocations middleware.RevocationChecker
	if sc.Denylist != nil {
		revocations = sc.Denylist
	}
	authn := middleware.NewAuthenticator(sc.Config.Secret, sc.Store.Reader().Users(), revocations)

	api := router.Group("/v1", middleware.RateLimiter(sc.Redis, sc.Config.RateLimitPerSecond))
	{
		api.GET("/ping", controllers.Ping(sc.Config.Version))
		api.POST("/auth/logout", authn.Auth(), sc.AuthController.Logout())

		listingRoutes(api, authn, sc)
		sellerRoutes(api, authn, sc)
		adminRoutes(api, authn, sc)
	}

	return router
}

// listingRoutes configures public and owner listing endpoints
func listingRoutes(api *gin.RouterGroup, authn *middleware.Authenticator, sc *container.ServiceContainer) {
	lc := sc.ListingController

	listings := api.Group("/listings")
	listings.GET("", lc.SearchListings())
	listings.GET("/latest", lc.LatestListings())
	listings.GET("/:listingid", authn.OptionalAuth(), lc.GetListing())

	{
		secured := listings.Group("", authn.Auth())
		secured.POST("", lc.CreateListing())
		secured.PUT("/:listingid", lc.EditListing())
		secured.DELETE("/:listingid", lc.DeleteListing())
		secured.PUT("/:listingid/sold", lc.MarkSold())
		secured.PUT("/:listingid/rented", lc.MarkRented())
		secured.PUT("/:listingid/archive", lc.ArchiveListing())
		secured.POST("/:listingid/photos", lc.AddPhotos())

		secured.POST("/:listingid/reports", sc.ReportController.CreateReport())
		secured.POST("/:listingid/inquiries", sc.InquiryController.CreateInquiry())
		secured.GET("/:listingid/inquiries", sc.InquiryController.ListingInquiries())
	}

	api.DELETE("/photos/:photoid", authn.Auth(), lc.RemovePhoto())
}

// sellerRoutes configures the seller dashboard endpoints
func sellerRoutes(api *gin.RouterGroup, authn *middleware.Authenticator, sc *container.ServiceContainer) {
	seller := api.Group("/seller", authn.Auth())
	seller.GET("/listings", sc.ListingController.MyListings())
	seller.GET("/summary", sc.ListingController.SellerSummary())
	seller.GET("/inquiries", sc.InquiryController.SellerInquiries())
}

// adminRoutes configures moderation endpoints
func adminRoutes(api *gin.RouterGroup, authn *middleware.Authenticator, sc *container.ServiceContainer) {
	mc := sc.ModerationController
	rc := sc.ReportController

	admin := api.Group("/admin", authn.Auth(), middleware.AdminOnly())
	admin.GET("/stats", mc.Stats())
	admin.GET("/listings", mc.AdminListings())
	admin.POST("/listings/:listingid/approve", mc.Approve())
	admin.POST("/listings/:listingid/reject", mc.Reject())
	admin.POST("/listings/:listingid/suspend", mc.Suspend())
	admin.POST("/listings/:listingid/unsuspend", mc.Unsuspend())
	admin.GET("/approval-actions", mc.History())

	admin.GET("/reports", rc.ListReports())
	admin.PATCH("/reports/:reportid/reviewed", rc.MarkReviewed())
	admin.PATCH("/reports/:reportid/closed", rc.MarkClosed())
}
