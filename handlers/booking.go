package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"bookastay/models"
	"bookastay/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the guest-facing reservation endpoints.
type BookingHandler struct {
	Service booking.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// CheckAvailabilityHandler answers whether a stay window is free.
func (bh *BookingHandler) CheckAvailabilityHandler(c *gin.Context) {
	roomType := c.Query("room_type")
	checkIn := c.Query("check_in")
	checkOut := c.Query("check_out")
	if checkIn == "" || checkOut == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_in and check_out are required"})
		return
	}

	verdict, err := bh.Service.CheckAvailability(c.Request.Context(), roomType, checkIn, checkOut)
	if err != nil {
		zap.L().Error("Availability check failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check availability"})
		return
	}
	if verdict.InvalidRange() {
		c.JSON(http.StatusBadRequest, gin.H{"available": false, "reason": verdict.Reason})
		return
	}

	resp := gin.H{"available": !verdict.Overlapping}
	if verdict.Overlapping {
		resp["reason"] = verdict.Reason
		resp["blocking"] = verdict.Blocking
	}
	c.JSON(http.StatusOK, resp)
}

// GetBookedDatesHandler returns the unavailable stay windows for the public
// calendar widget: pending and confirmed bookings plus blocked holds.
func (bh *BookingHandler) GetBookedDatesHandler(c *gin.Context) {
	dates, err := bh.Service.ListDates(c.Request.Context())
	if err != nil {
		zap.L().Error("Failed to list booked dates", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch booked dates"})
		return
	}
	if dates == nil {
		dates = []models.BookingDates{}
	}
	c.JSON(http.StatusOK, dates)
}

// CreateBookingHandler creates a pending reservation ahead of payment.
func (bh *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var req booking.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	res, err := bh.Service.Create(c.Request.Context(), req)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// ConfirmBookingHandler verifies the payment and finalizes the reservation.
// Accepts either JSON or a multipart form carrying the ID document inline.
func (bh *BookingHandler) ConfirmBookingHandler(c *gin.Context) {
	req, err := bindConfirmRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	res, err := bh.Service.Confirm(c.Request.Context(), req)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetBookingHandler fetches one reservation by id.
func (bh *BookingHandler) GetBookingHandler(c *gin.Context) {
	res, err := bh.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func bindConfirmRequest(c *gin.Context) (booking.ConfirmRequest, error) {
	var req booking.ConfirmRequest

	contentType := c.ContentType()
	if contentType == "multipart/form-data" {
		req.Provider = c.PostForm("provider")
		req.PaymentReference = c.PostForm("payment_reference")
		req.TransactionRef = c.PostForm("transaction_ref")
		req.RoomType = c.PostForm("room_type")
		req.CheckIn = c.PostForm("check_in_date")
		req.CheckOut = c.PostForm("check_out_date")
		req.Name = c.PostForm("name")
		req.Email = c.PostForm("email")
		req.Phone = c.PostForm("phone")
		req.IDType = c.PostForm("id_type")
		req.IDFileURL = c.PostForm("id_file_url")
		if v := c.PostForm("guests"); v != "" {
			guests, err := strconv.Atoi(v)
			if err != nil {
				return req, err
			}
			req.Guests = guests
		}
		if v := c.PostForm("price"); v != "" {
			price, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return req, err
			}
			req.Price = price
		}

		file, header, err := c.Request.FormFile("id_file")
		if err == nil {
			defer file.Close()
			data, err := io.ReadAll(io.LimitReader(file, 10<<20))
			if err != nil {
				return req, err
			}
			req.IDFile = data
			req.IDFileName = header.Filename
		}
		return req, nil
	}

	err := c.ShouldBindJSON(&req)
	return req, err
}

// respondBookingError maps service error classes onto HTTP statuses.
func respondBookingError(c *gin.Context, err error) {
	var verr *booking.ValidationError
	var cerr *booking.ConflictError
	var perr *booking.PaymentError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
	case errors.As(err, &cerr):
		c.JSON(http.StatusConflict, gin.H{"error": cerr.Message, "blocking": cerr.Blocking})
	case errors.As(err, &perr):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": perr.Message})
	case errors.Is(err, booking.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	case errors.Is(err, booking.ErrProtected):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		zap.L().Error("Booking operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
