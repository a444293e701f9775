package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brewpoints/loyalty-backend/internal/engine"
)

// CustomerHandler exposes the session engine over HTTP
type CustomerHandler struct {
	engine *engine.Engine
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(e *engine.Engine) *CustomerHandler {
	return &CustomerHandler{engine: e}
}

// amountRequest is the payload for amount-carrying operations
type amountRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// GetProfile handles GET /customer/profile
func (h *CustomerHandler) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Customer())
}

// GetOffers handles GET /offers
func (h *CustomerHandler) GetOffers(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Offers())
}

// GetTransactions handles GET /transactions
func (h *CustomerHandler) GetTransactions(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Transactions())
}

// StartSubscription handles POST /subscription/start
func (h *CustomerHandler) StartSubscription(c *gin.Context) {
	h.engine.StartSubscription()
	c.JSON(http.StatusOK, h.engine.Customer())
}

// StopSubscription handles POST /subscription/stop
func (h *CustomerHandler) StopSubscription(c *gin.Context) {
	h.engine.StopSubscription()
	c.JSON(http.StatusOK, h.engine.Customer())
}

// ProcessBillPayment handles POST /payments
func (h *CustomerHandler) ProcessBillPayment(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment amount"})
		return
	}

	if err := h.engine.ProcessBillPayment(c, req.Amount); err != nil {
		// A declined simulated payment is a recorded outcome, not a
		// request error: the ledger holds the failed transaction.
		c.JSON(http.StatusOK, gin.H{"success": false, "customer": h.engine.Customer()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "customer": h.engine.Customer()})
}

// RedeemRewards handles POST /rewards/redeem
func (h *CustomerHandler) RedeemRewards(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid redemption amount"})
		return
	}

	if err := h.engine.RedeemRewards(c, req.Amount); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, engine.ErrNotSubscribed) {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "customer": h.engine.Customer()})
}

// RedeemOffer handles POST /offers/:id/redeem
func (h *CustomerHandler) RedeemOffer(c *gin.Context) {
	offerID := c.Param("id")

	if err := h.engine.RedeemOffer(c, offerID); err != nil {
		status := http.StatusConflict
		if errors.Is(err, engine.ErrNotSubscribed) {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "customer": h.engine.Customer()})
}
