package fleet

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"voyarental/internal/domain"
	"voyarental/internal/pkg/response"
	"voyarental/internal/repository"

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
	rg.GET("/cars", h.List)
	rg.GET("/cars/featured", h.Featured)
	rg.GET("/cars/:id", h.Get)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/cars", h.Create)
	rg.PATCH("/cars/:id", h.Update)
	rg.DELETE("/cars/:id", h.Delete)
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

	minPrice, _ := strconv.ParseFloat(c.Query("min_price"), 64)
	maxPrice, _ := strconv.ParseFloat(c.Query("max_price"), 64)
	filter := repository.CarFilter{
		Type:          domain.CarType(c.Query("type")),
		MinPrice:      minPrice,
		MaxPrice:      maxPrice,
		AvailableOnly: c.Query("available") == "true",
		Search:        strings.ToLower(strings.TrimSpace(c.Query("search"))),
	}

	cars, total, err := h.service.List(c.Request.Context(), filter, page, limit)
	if err != nil {
		h.loggerf("level=error msg=failed to list cars err=%v", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list cars")
		return
	}
	response.SuccessPaginated(c, http.StatusOK, cars, total, page, limit)
}

func (h *Handler) Featured(c *gin.Context) {
	car, err := h.service.Featured(c.Request.Context())
	if err != nil {
		if errors.Is(err, ErrCarNotFound) {
			response.Error(c, http.StatusNotFound, "NO_CARS_AVAILABLE", "No available cars")
			return
		}
		h.loggerf("level=error msg=failed to pick featured car err=%v", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load featured car")
		return
	}
	response.Success(c, http.StatusOK, car)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid car id")
		return
	}

	car, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrCarNotFound) {
			response.Error(c, http.StatusNotFound, "CAR_NOT_FOUND", "Car not found")
			return
		}
		h.loggerf("level=error msg=failed to load car car_id=%d err=%v", id, err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load car")
		return
	}
	response.Success(c, http.StatusOK, car)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	car, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCar) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		h.loggerf("level=error msg=failed to create car err=%v", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create car")
		return
	}
	response.Success(c, http.StatusCreated, car)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid car id")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	car, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrCarNotFound) {
			response.Error(c, http.StatusNotFound, "CAR_NOT_FOUND", "Car not found")
			return
		}
		h.loggerf("level=error msg=failed to update car car_id=%d err=%v", id, err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update car")
		return
	}
	response.Success(c, http.StatusOK, car)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid car id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrCarNotFound) {
			response.Error(c, http.StatusNotFound, "CAR_NOT_FOUND", "Car not found")
			return
		}
		h.loggerf("level=error msg=failed to delete car car_id=%d err=%v", id, err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete car")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
