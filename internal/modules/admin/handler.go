package admin

import (
	"errors"
	"net/http"

	"artclub/internal/modules/notification"
	"artclub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	feed    *FeedHub
}

func NewHandler(service *Service, feed *FeedHub) *Handler {
	return &Handler{service: service, feed: feed}
}

// RegisterRoutes mounts the admin surface. The group is expected to carry the
// JWT + AdminOnly middleware already.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.ListBookings)
	rg.PATCH("/bookings/:id/status", h.OverrideStatus)
	rg.POST("/bookings/:id/resend-email", h.ResendEmail)

	rg.GET("/events", h.ListEvents)
	rg.POST("/events", h.CreateEvent)
	rg.PUT("/events/:id", h.UpdateEvent)
	rg.PATCH("/events/:id/active", h.SetEventActive)

	if h.feed != nil {
		rg.GET("/feed", h.feed.ServeWS)
	}
}

func (h *Handler) ListBookings(c *gin.Context) {
	var q ListBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	rows, err := h.service.ListBookings(c.Request.Context(), q)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list bookings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": rows})
}

func (h *Handler) OverrideStatus(c *gin.Context) {
	var req OverrideStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.OverrideBookingStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": toBookingRow(b, nil)})
}

func (h *Handler) ResendEmail(c *gin.Context) {
	err := h.service.ResendConfirmation(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Confirmation e-mail sent"})
}

func (h *Handler) ListEvents(c *gin.Context) {
	events, err := h.service.ListEvents(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list events")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"events": events})
}

func (h *Handler) CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	e, err := h.service.CreateEvent(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"event": e})
}

func (h *Handler) UpdateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	e, err := h.service.UpdateEvent(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"event": e})
}

func (h *Handler) SetEventActive(c *gin.Context) {
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Field 'active' is required")
		return
	}

	if err := h.service.SetEventActive(c.Request.Context(), c.Param("id"), *req.Active); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Event updated"})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var vErr *ValidationError
	var missing *notification.MissingFieldsError
	switch {
	case errors.As(err, &vErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", vErr.Fields)
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, ErrEventNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrInvalidStatus):
		response.Error(c, http.StatusBadRequest, "INVALID_STATUS", "Status must be 'confirmed' or 'cancelled'")
	case errors.Is(err, ErrNotOverridable):
		response.Error(c, http.StatusConflict, "ALREADY_HANDLED", "Booking has already transitioned")
	case errors.Is(err, ErrNotConfirmed):
		response.Error(c, http.StatusConflict, "NOT_CONFIRMED", "Confirmation e-mail is only available for confirmed bookings")
	case errors.As(err, &missing):
		response.Error(c, http.StatusUnprocessableEntity, "NOT_SENDABLE", err.Error())
	case errors.Is(err, notification.ErrDeliveryFailed):
		response.Error(c, http.StatusBadGateway, "DELIVERY_FAILED", "E-mail provider did not accept the message")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}
