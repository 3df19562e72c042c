package payment

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"

	"voyarental/internal/domain"
	"voyarental/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	loggerf func(format string, args ...interface{})
}

func NewHandler(service *Service, loggerf func(format string, args ...interface{})) *Handler {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Handler{service: service, loggerf: loggerf}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/webhook", h.Webhook)
	rg.POST("/payments/verify/:reference", h.Verify)
	rg.GET("/payments/callback", h.Callback)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/payments", h.List)
	rg.GET("/payments/:id", h.Get)
	rg.PATCH("/payments/:id/status", h.UpdateStatus)
}

// Webhook godoc
// @Summary      Paystack webhook receiver
// @Description  Verifies the HMAC-SHA512 signature over the raw body and applies the event idempotently
// @Tags         Payments
// @Accept       json
// @Produce      json
// @Param        x-paystack-signature header string true "HMAC-SHA512 hex signature"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Failure      401 {object} map[string]interface{}
// @Router       /payments/webhook [post]
func (h *Handler) Webhook(c *gin.Context) {
	// the signature covers the exact bytes on the wire, read them before
	// anything can touch the body
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Failed to read request body")
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(rawBody))

	signature := c.GetHeader("x-paystack-signature")
	if signature == "" {
		response.Error(c, http.StatusBadRequest, "MISSING_SIGNATURE", "Missing signature header")
		return
	}

	if err := h.service.HandleWebhook(c.Request.Context(), rawBody, signature); err != nil {
		if errors.Is(err, ErrInvalidSignature) {
			h.loggerf("level=warn msg=webhook signature rejected client_ip=%s", c.ClientIP())
			response.Error(c, http.StatusUnauthorized, "INVALID_SIGNATURE", "Invalid signature")
			return
		}
		// processing errors are acknowledged so the gateway does not retry
		// forever, reconciliation recovers through the verify path
		h.loggerf("level=error msg=webhook processing failed err=%v", err)
	}
	response.Success(c, http.StatusOK, gin.H{"received": true})
}

// Verify godoc
// @Summary      Verify a payment by reference
// @Description  Asks the gateway for the transaction status and reconciles the local record
// @Tags         Payments
// @Produce      json
// @Param        reference path string true "Transaction reference"
// @Success      200 {object} PaymentResponse
// @Failure      402 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Router       /payments/verify/{reference} [post]
func (h *Handler) Verify(c *gin.Context) {
	reference := c.Param("reference")

	resp, err := h.service.VerifyByReference(c.Request.Context(), reference)
	if err != nil {
		h.handleVerifyError(c, reference, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// Callback godoc
// @Summary      Gateway redirect callback
// @Description  Verifies the transaction referenced by the redirect query parameters and returns a receipt; declined payments answer 200 with status "failed"
// @Tags         Payments
// @Produce      json
// @Param        reference query string false "Transaction reference"
// @Param        trxref query string false "Transaction reference (gateway alias)"
// @Success      200 {object} CallbackResponse
// @Failure      400 {object} map[string]interface{}
// @Router       /payments/callback [get]
func (h *Handler) Callback(c *gin.Context) {
	reference := c.Query("reference")
	trxref := c.Query("trxref")
	if reference == "" && trxref == "" {
		response.Error(c, http.StatusBadRequest, "MISSING_REFERENCE", "Missing reference query parameter")
		return
	}

	resp, err := h.service.VerifyFromCallback(c.Request.Context(), reference, trxref)
	if err != nil {
		h.handleVerifyError(c, reference+trxref, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) handleVerifyError(c *gin.Context, reference string, err error) {
	h.loggerf("level=error msg=payment verification failed reference=%s err=%v", reference, err)
	switch {
	case errors.Is(err, ErrPaymentNotFound):
		response.Error(c, http.StatusNotFound, "PAYMENT_NOT_FOUND", "Payment not found")
	case errors.Is(err, ErrPaymentFailed):
		response.Error(c, http.StatusPaymentRequired, "PAYMENT_FAILED", "Payment was not successful")
	case errors.Is(err, ErrAmountMismatch):
		response.Error(c, http.StatusConflict, "AMOUNT_MISMATCH", "Paid amount does not match the expected amount")
	case errors.Is(err, ErrConfiguration):
		response.Error(c, http.StatusInternalServerError, "GATEWAY_NOT_CONFIGURED", "Payment gateway is not configured")
	case errors.Is(err, ErrGateway):
		response.Error(c, http.StatusBadGateway, "GATEWAY_ERROR", "Payment gateway error")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error")
	}
}

// List godoc
// @Summary      List payments
// @Tags         Admin
// @Security     BearerAuth
// @Produce      json
// @Param        status query string false "Filter by status"
// @Param        page query integer false "Page number"
// @Param        limit query integer false "Page size"
// @Success      200 {array} PaymentResponse
// @Router       /admin/payments [get]
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	payments, total, err := h.service.ListPayments(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		h.loggerf("level=error msg=failed to list payments err=%v", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list payments")
		return
	}
	response.SuccessPaginated(c, http.StatusOK, payments, total, page, limit)
}

// Get godoc
// @Summary      Get a payment
// @Tags         Admin
// @Security     BearerAuth
// @Produce      json
// @Param        id path integer true "Payment ID"
// @Success      200 {object} PaymentResponse
// @Failure      404 {object} map[string]interface{}
// @Router       /admin/payments/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid payment id")
		return
	}

	resp, err := h.service.GetPayment(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			response.Error(c, http.StatusNotFound, "PAYMENT_NOT_FOUND", "Payment not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load payment")
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// UpdateStatus godoc
// @Summary      Override a payment status
// @Description  Manual reconciliation for support cases
// @Tags         Admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path integer true "Payment ID"
// @Param        body body UpdateStatusRequest true "New status"
// @Success      200 {object} PaymentResponse
// @Failure      404 {object} map[string]interface{}
// @Router       /admin/payments/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid payment id")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	resp, err := h.service.OverrideStatus(c.Request.Context(), id, domain.PaymentStatus(req.Status))
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			response.Error(c, http.StatusNotFound, "PAYMENT_NOT_FOUND", "Payment not found")
			return
		}
		h.loggerf("level=error msg=failed to override payment status payment_id=%d err=%v", id, err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update payment")
		return
	}
	response.Success(c, http.StatusOK, resp)
}
