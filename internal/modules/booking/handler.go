package booking

import (
	"errors"
	"net/http"
	"strconv"

	"voyarental/internal/domain"
	"voyarental/internal/modules/discount"
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
	rg.POST("/bookings", h.Create)
	rg.GET("/bookings/:id", h.Get)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.List)
	rg.GET("/bookings/:id", h.Get)
	rg.PATCH("/bookings/:id/status", h.UpdateStatus)
	rg.DELETE("/bookings/:id", h.Delete)
}

// Create godoc
// @Summary      Create a booking
// @Description  Prices the rental, applies an optional discount code and opens a payment session
// @Tags         Bookings
// @Accept       json
// @Produce      json
// @Param        body body CreateRequest true "Booking payload"
// @Success      201 {object} CreateResponse
// @Failure      400 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Failure      422 {object} map[string]interface{}
// @Router       /bookings [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrCarNotFound):
			response.Error(c, http.StatusNotFound, "CAR_NOT_FOUND", "Car not found")
		case errors.Is(err, ErrCarUnavailable):
			response.Error(c, http.StatusConflict, "CAR_UNAVAILABLE", "Car is not available")
		case errors.Is(err, ErrNoDates):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "At least one rental date is required")
		case errors.Is(err, discount.ErrNotFound):
			response.Error(c, http.StatusNotFound, "DISCOUNT_NOT_FOUND", "Discount code not found")
		case isDiscountRejection(err):
			response.Error(c, http.StatusUnprocessableEntity, "DISCOUNT_REJECTED", err.Error())
		default:
			h.loggerf("level=error msg=failed to create booking err=%v", err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create booking")
		}
		return
	}
	response.Success(c, http.StatusCreated, resp)
}

func isDiscountRejection(err error) bool {
	return errors.Is(err, discount.ErrInactive) ||
		errors.Is(err, discount.ErrNotStarted) ||
		errors.Is(err, discount.ErrExpired) ||
		errors.Is(err, discount.ErrExhausted) ||
		errors.Is(err, discount.ErrMinPurchase) ||
		errors.Is(err, discount.ErrNotApplicable)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking id")
		return
	}

	b, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found")
			return
		}
		h.loggerf("level=error msg=failed to load booking booking_id=%d err=%v", id, err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load booking")
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	bookings, total, err := h.service.List(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		h.loggerf("level=error msg=failed to list bookings err=%v", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list bookings")
		return
	}
	response.SuccessPaginated(c, http.StatusOK, bookings, total, page, limit)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking id")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), id, domain.BookingStatus(req.Status))
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found")
			return
		}
		h.loggerf("level=error msg=failed to update booking status booking_id=%d err=%v", id, err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update booking")
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found")
			return
		}
		h.loggerf("level=error msg=failed to delete booking booking_id=%d err=%v", id, err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete booking")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
