package handlers

import (
	"net/http"

	"bookastay/services/booking"
	"bookastay/services/sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler encapsulates elevated admin-level operations.
type AdminHandler struct {
	Service    booking.BookingService
	Reconciler *sync.Reconciler
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(svc booking.BookingService, reconciler *sync.Reconciler) *AdminHandler {
	return &AdminHandler{Service: svc, Reconciler: reconciler}
}

// ListBookingsHandler returns every reservation, split into guest bookings
// and administrative blocks.
func (ah *AdminHandler) ListBookingsHandler(c *gin.Context) {
	bookings, err := ah.Service.ListAdmin(c.Request.Context())
	if err != nil {
		zap.L().Error("Failed to fetch bookings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// BookedDatesHandler returns the active stay windows for the admin calendar.
func (ah *AdminHandler) BookedDatesHandler(c *gin.Context) {
	dates, err := ah.Service.BookedDates(c.Request.Context())
	if err != nil {
		zap.L().Error("Failed to fetch booked dates", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch booked dates"})
		return
	}
	c.JSON(http.StatusOK, dates)
}

// BlockDatesHandler places an administrative hold on a room scope.
func (ah *AdminHandler) BlockDatesHandler(c *gin.Context) {
	var req booking.BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	res, err := ah.Service.BlockDates(c.Request.Context(), req)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// DeleteBookingHandler removes a reservation. Paid guest bookings are refused.
func (ah *AdminHandler) DeleteBookingHandler(c *gin.Context) {
	if err := ah.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted"})
}

// TriggerSyncHandler runs the calendar reconciliation immediately and
// returns the counters, for debugging feed issues without waiting on the
// schedule.
func (ah *AdminHandler) TriggerSyncHandler(c *gin.Context) {
	report, err := ah.Reconciler.Run(c.Request.Context())
	if err != nil {
		zap.L().Error("Manual sync run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sync run failed"})
		return
	}
	c.JSON(http.StatusOK, report)
}
