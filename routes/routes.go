package routes

import (
	"net/http"
	"time"

	"bookastay/config"
	"bookastay/handlers"
	"bookastay/middleware"
	"bookastay/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Booking  *handlers.BookingHandler
	Admin    *handlers.AdminHandler
	Identity *handlers.IdentityHandler
	Storage  *handlers.StorageHandler
	Calendar *handlers.CalendarHandler
}

// RegisterBookingRoutes sets up the guest-facing reservation endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.GET("/availability", hb.Booking.CheckAvailabilityHandler)
		api.GET("/dates", hb.Booking.GetBookedDatesHandler)
		api.POST("", hb.Booking.CreateBookingHandler)
		api.POST("/confirm", hb.Booking.ConfirmBookingHandler)
		api.GET("/:id", hb.Booking.GetBookingHandler)
		api.GET("/:id/verification", hb.Identity.BookingStatusHandler)
		api.POST("/upload-id", hb.Storage.UploadIDHandler)
	}
}

// RegisterVerificationRoutes sets up identity verification endpoints,
// including the gateway webhook.
func RegisterVerificationRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/verification")
	{
		api.POST("", hb.Identity.InitiateHandler)
		api.GET("/:reference", hb.Identity.StatusHandler)
		api.POST("/callback", hb.Identity.CallbackHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.AdminAuthMiddleware())
		adminGroup.GET("/bookings", hb.Admin.ListBookingsHandler)
		adminGroup.GET("/booked-dates", hb.Admin.BookedDatesHandler)
		adminGroup.POST("/block", hb.Admin.BlockDatesHandler)
		adminGroup.DELETE("/bookings/:id", hb.Admin.DeleteBookingHandler)
		adminGroup.POST("/sync", hb.Admin.TriggerSyncHandler)
	}
}

// RegisterCalendarRoute publishes the availability feed for external
// platforms to poll.
func RegisterCalendarRoute(r *gin.Engine, hb *HandlerBundle) {
	r.GET("/api/calendar/airbnb.ics", hb.Calendar.ExportHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AppConfig.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Admin-Key", "Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, hb)
	RegisterVerificationRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterCalendarRoute(r, hb)
}
