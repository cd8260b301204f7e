package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pasar-labs/pasar/core"
	"github.com/pasar-labs/pasar/service"
)

// nonceCookieName carries the challenge nonce between the challenge and
// sign-in requests.
const nonceCookieName = "siwe"

// Handlers contains the HTTP handlers for the auth and payment endpoints.
type Handlers struct {
	auth     *service.AuthService
	payments *service.PaymentService
}

// NewHandlers creates new API handlers.
func NewHandlers(auth *service.AuthService, payments *service.PaymentService) *Handlers {
	return &Handlers{
		auth:     auth,
		payments: payments,
	}
}

// Nonce issues a sign-in challenge. The nonce is returned in the body and
// bound to the client via an HttpOnly cross-site cookie.
func (h *Handlers) Nonce(c *gin.Context) {
	nonce, err := h.auth.IssueNonce()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate nonce"})
		return
	}

	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(nonceCookieName, nonce, 0, "/", "", true, true)

	c.JSON(http.StatusOK, gin.H{"nonce": nonce})
}

// SignIn handles the wallet sign-in request.
func (h *Handlers) SignIn(c *gin.Context) {
	var req struct {
		WalletAddress     string `json:"walletAddress" binding:"required"`
		Username          string `json:"username"`
		ProfilePictureURL string `json:"profilePictureUrl"`
		Nonce             string `json:"nonce" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	cookieNonce, _ := c.Cookie(nonceCookieName)

	session, err := h.auth.SignIn(c.Request.Context(), service.SignInParams{
		WalletAddress:     req.WalletAddress,
		Username:          req.Username,
		ProfilePictureURL: req.ProfilePictureURL,
		Nonce:             req.Nonce,
		CookieNonce:       cookieNonce,
	})
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorMsg := "authentication failed"

		switch {
		case errors.Is(err, core.ErrInvalidNonce):
			statusCode = http.StatusBadRequest
			errorMsg = "invalid nonce"
		case errors.Is(err, core.ErrInvalidAddress):
			statusCode = http.StatusBadRequest
			errorMsg = "invalid wallet address"
		case errors.Is(err, core.ErrUserProvisioning):
			errorMsg = "failed to create user"
		case errors.Is(err, core.ErrProfilePersistence):
			errorMsg = "failed to persist user profile"
		case errors.Is(err, core.ErrTokenIssuance),
			errors.Is(err, core.ErrTokenVerification),
			errors.Is(err, core.ErrSessionIncomplete):
			errorMsg = "failed to establish session"
		}

		c.JSON(statusCode, gin.H{"error": errorMsg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"userId":        session.UserID,
	})
}

// InitiatePayment handles the payment initiation request.
func (h *Handlers) InitiatePayment(c *gin.Context) {
	var req struct {
		ProductID   string `json:"productId" binding:"required"`
		SellerID    string `json:"sellerId" binding:"required"`
		PaymentType string `json:"paymentType" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid request"})
		return
	}

	intent, err := h.payments.InitiatePayment(c.Request.Context(), req.ProductID, req.SellerID, req.PaymentType)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorMsg := "failed to initiate payment"

		switch {
		case errors.Is(err, core.ErrInvalidPaymentType):
			statusCode = http.StatusBadRequest
			errorMsg = "invalid payment type"
		case errors.Is(err, core.ErrPaymentCompleted):
			statusCode = http.StatusBadRequest
			errorMsg = "payment already completed for this product"
		}

		c.JSON(statusCode, gin.H{"status": "error", "message": errorMsg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"paymentId": intent.PaymentID,
		"amount":    intent.Amount.InexactFloat64(),
	})
}

// VerifyPayment handles the payment verification request.
func (h *Handlers) VerifyPayment(c *gin.Context) {
	var req struct {
		Reference string `json:"reference" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid request"})
		return
	}

	if err := h.payments.VerifyPayment(c.Request.Context(), req.Reference); err != nil {
		statusCode := http.StatusInternalServerError
		errorMsg := "failed to verify payment"

		switch {
		case errors.Is(err, core.ErrInvalidPaymentReference):
			statusCode = http.StatusBadRequest
			errorMsg = "invalid payment reference"
		case errors.Is(err, core.ErrPaymentNotConfirmed):
			statusCode = http.StatusBadRequest
			errorMsg = "payment not confirmed"
		case errors.Is(err, core.ErrProductStatusUpdate):
			errorMsg = "payment verified but product activation failed"
		}

		c.JSON(statusCode, gin.H{"status": "error", "message": errorMsg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "payment verified",
	})
}

// Health reports service liveness.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
