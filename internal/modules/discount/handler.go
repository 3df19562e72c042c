package discount

import (
	"errors"
	"net/http"
	"strconv"

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
	rg.POST("/discounts/verify", h.Verify)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/discounts", h.Create)
	rg.GET("/discounts", h.List)
	rg.GET("/discounts/:id", h.Get)
	rg.PATCH("/discounts/:id", h.Update)
	rg.DELETE("/discounts/:id", h.Delete)
}

func (h *Handler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	resp, err := h.service.Verify(c.Request.Context(), req)
	if err != nil {
		h.handleDiscountError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) handleDiscountError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "DISCOUNT_NOT_FOUND", "Discount code not found")
	case errors.Is(err, ErrInactive), errors.Is(err, ErrNotStarted), errors.Is(err, ErrExpired):
		response.Error(c, http.StatusUnprocessableEntity, "DISCOUNT_INVALID", err.Error())
	case errors.Is(err, ErrExhausted):
		response.Error(c, http.StatusUnprocessableEntity, "DISCOUNT_EXHAUSTED", err.Error())
	case errors.Is(err, ErrMinPurchase), errors.Is(err, ErrNotApplicable):
		response.Error(c, http.StatusUnprocessableEntity, "DISCOUNT_NOT_APPLICABLE", err.Error())
	default:
		h.loggerf("level=error msg=discount operation failed err=%v", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error")
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if !req.ValidUntil.After(req.ValidFrom) {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "valid_until must be after valid_from")
		return
	}

	d, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrCodeTaken) {
			response.Error(c, http.StatusConflict, "DISCOUNT_CODE_TAKEN", "Discount code already exists")
			return
		}
		h.loggerf("level=error msg=failed to create discount err=%v", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create discount")
		return
	}
	response.Success(c, http.StatusCreated, d)
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
	activeOnly := c.Query("active") == "true"

	discounts, total, err := h.service.List(c.Request.Context(), activeOnly, page, limit)
	if err != nil {
		h.loggerf("level=error msg=failed to list discounts err=%v", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list discounts")
		return
	}
	response.SuccessPaginated(c, http.StatusOK, discounts, total, page, limit)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid discount id")
		return
	}

	d, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleDiscountError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid discount id")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	d, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleDiscountError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid discount id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleDiscountError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
