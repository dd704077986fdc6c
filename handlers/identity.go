package handlers

import (
	"io"
	"net/http"

	"bookastay/services/identity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdentityHandler exposes identity-verification endpoints, including the
// gateway webhook.
type IdentityHandler struct {
	Service identity.IdentityService
}

// NewIdentityHandler creates a new IdentityHandler.
func NewIdentityHandler(svc identity.IdentityService) *IdentityHandler {
	return &IdentityHandler{Service: svc}
}

// InitiateHandler starts a standalone verification session before booking.
func (ih *IdentityHandler) InitiateHandler(c *gin.Context) {
	var req struct {
		Name   string `json:"name"`
		Email  string `json:"email"`
		IDType string `json:"id_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := ih.Service.Initiate(c.Request.Context(), req.Name, req.Email, req.IDType)
	if err != nil {
		zap.L().Error("Failed to initiate verification", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to initiate verification"})
		return
	}
	c.JSON(http.StatusCreated, session)
}

// StatusHandler returns a session's state, guarded by the session email.
func (ih *IdentityHandler) StatusHandler(c *gin.Context) {
	reference := c.Param("reference")
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	session, err := ih.Service.Status(c.Request.Context(), reference, email)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Verification session not found"})
		return
	}
	c.JSON(http.StatusOK, session)
}

// BookingStatusHandler reports the verification state attached to a booking.
func (ih *IdentityHandler) BookingStatusHandler(c *gin.Context) {
	res, err := ih.Service.StatusForBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"booking_id":             res.ID,
		"verification_reference": res.VerificationReference,
		"verification_status":    res.VerificationStatus,
		"verification_url":       res.VerificationURL,
	})
}

// CallbackHandler receives the gateway webhook. The signature covers the
// raw body, so it is read before any decoding.
func (ih *IdentityHandler) CallbackHandler(c *gin.Context) {
	rawBody, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}
	signature := c.GetHeader("Signature")

	if err := ih.Service.HandleCallback(c.Request.Context(), rawBody, signature); err != nil {
		zap.L().Warn("Rejected verification callback", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "callback rejected"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
