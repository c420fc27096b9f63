package payment

import (
	"errors"
	"net/http"

	"artclub/internal/pkg/response"
	"artclub/internal/pkg/validator"
	"artclub/internal/provider/stripe"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/session", h.CreateSession)
	rg.POST("/payments/confirm", h.Confirm)
}

func (h *Handler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid payment session request", fields)
		return
	}

	handle, err := h.service.CreateSession(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": handle})
}

func (h *Handler) Confirm(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid confirmation request", fields)
		return
	}

	result, err := h.service.ConfirmPayment(c.Request.Context(), req.PaymentIntentID, req.BookingID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var apiErr *stripe.APIError
	switch {
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, ErrPaymentNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrBookingNotPayable):
		response.Error(c, http.StatusConflict, "ALREADY_HANDLED", "Booking has already been processed")
	case errors.Is(err, ErrAmountMismatch), errors.Is(err, ErrAmountOutOfRange), errors.Is(err, ErrInvalidCurrency):
		response.Error(c, http.StatusBadRequest, "PAYMENT_VALIDATION_FAILED", err.Error())
	case errors.Is(err, ErrIdentityMismatch):
		response.Error(c, http.StatusForbidden, "IDENTITY_MISMATCH", "Payment intent does not match booking")
	case errors.Is(err, stripe.ErrUnavailable):
		response.Error(c, http.StatusServiceUnavailable, "PROVIDER_UNAVAILABLE", "Payment provider is unavailable, please try again")
	case errors.As(err, &apiErr):
		if apiErr.Retryable() {
			response.Error(c, http.StatusServiceUnavailable, "PROVIDER_UNAVAILABLE", "Payment provider is unavailable, please try again")
			return
		}
		response.Error(c, http.StatusBadGateway, "PROVIDER_ERROR", "Payment provider rejected the request")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Payment operation failed")
	}
}
