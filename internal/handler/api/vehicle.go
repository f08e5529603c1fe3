package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	reqdto "github.com/gabrielmaialva33/moto-rental-platform/internal/handler/dto/request"
	resdto "github.com/gabrielmaialva33/moto-rental-platform/internal/handler/dto/response"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/pkg/errs"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/commands"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VehicleHandler struct {
	vehicleCommands commands.VehicleCommands
	vehicleQueries  queries.VehicleQueries
}

func NewVehicleHandler(vehicleCommands commands.VehicleCommands, vehicleQueries queries.VehicleQueries) *VehicleHandler {
	return &VehicleHandler{
		vehicleCommands: vehicleCommands,
		vehicleQueries:  vehicleQueries,
	}
}

// @Summary List vehicles
// @Description Browse the fleet, optionally filtered by status or brand
// @Tags vehicles
// @Produce json
// @Param status query string false "Vehicle status filter"
// @Param brand query string false "Brand filter (partial match)"
// @Param cursor query string false "Opaque cursor from a previous page"
// @Param limit query int false "Page size (max 200)"
// @Success 200 {object} resdto.VehicleListResponse
// @Failure 422 {object} map[string]string
// @Router /vehicles [get]
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	var filter queries.VehicleFilter
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}
	if brand := c.Query("brand"); brand != "" {
		filter.Brand = &brand
	}

	var after *queries.Cursor
	if cursorStr := c.Query("cursor"); cursorStr != "" {
		after = &queries.Cursor{After: cursorStr}
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	items, next, err := h.vehicleQueries.List(c.Request.Context(), filter, after, limit)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Invalid filter or cursor",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromVehicleList(items, next))
}

// @Summary Get vehicle
// @Description Get vehicle by ID
// @Tags vehicles
// @Produce json
// @Param id path string true "Vehicle ID"
// @Success 200 {object} resdto.VehicleResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /vehicles/{id} [get]
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid vehicle ID format",
		})
		return
	}

	vehicleRM, err := h.vehicleQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		abortVehicleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromVehicleView(vehicleRM))
}

// @Summary Check availability
// @Description Check whether a vehicle is free for a date range
// @Tags vehicles
// @Produce json
// @Param id path string true "Vehicle ID"
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /vehicles/{id}/availability [get]
func (h *VehicleHandler) CheckAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid vehicle ID format",
		})
		return
	}

	start, end, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	availability, err := h.vehicleQueries.CheckAvailability(c.Request.Context(), id, start, end)
	if err != nil {
		abortVehicleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailabilityView(availability))
}

// @Summary Quote rental
// @Description Price a rental for a date range without reserving anything
// @Tags vehicles
// @Produce json
// @Param id path string true "Vehicle ID"
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Param insurance_tier query string false "Insurance tier (basic, premium, full)"
// @Success 200 {object} resdto.QuoteResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /vehicles/{id}/quote [get]
func (h *VehicleHandler) QuoteRental(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid vehicle ID format",
		})
		return
	}

	start, end, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	var tier *string
	if tierStr := c.Query("insurance_tier"); tierStr != "" {
		tier = &tierStr
	}

	quote, err := h.vehicleQueries.Quote(c.Request.Context(), id, start, end, tier)
	if err != nil {
		abortVehicleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromQuoteView(quote))
}

// @Summary Create vehicle
// @Description Register a new vehicle in the fleet (admin only)
// @Tags vehicles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateVehicleRequest true "Vehicle details"
// @Success 201 {object} resdto.VehicleResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /vehicles [post]
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var req reqdto.CreateVehicleRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	vehicleRM, err := h.vehicleCommands.CreateVehicle(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrDuplicatePlate):
			c.JSON(http.StatusConflict, gin.H{
				"error": "A vehicle with this plate already exists",
			})
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Domain validation failed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromVehicleView(vehicleRM))
}

// @Summary Update vehicle
// @Description Update mutable vehicle attributes (admin only)
// @Tags vehicles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Vehicle ID"
// @Param request body reqdto.UpdateVehicleRequest true "Fields to change"
// @Success 200 {object} resdto.VehicleResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /vehicles/{id} [put]
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid vehicle ID format",
		})
		return
	}

	var req reqdto.UpdateVehicleRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	vehicleRM, err := h.vehicleCommands.UpdateVehicle(c.Request.Context(), id, req)
	if err != nil {
		abortVehicleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromVehicleView(vehicleRM))
}

// @Summary Set vehicle status
// @Description Move a vehicle between available, maintenance and inactive (admin only)
// @Tags vehicles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Vehicle ID"
// @Param request body reqdto.SetVehicleStatusRequest true "New status"
// @Success 200 {object} resdto.VehicleResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /vehicles/{id}/status [patch]
func (h *VehicleHandler) SetVehicleStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid vehicle ID format",
		})
		return
	}

	var req reqdto.SetVehicleStatusRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	vehicleRM, err := h.vehicleCommands.SetVehicleStatus(c.Request.Context(), id, req)
	if err != nil {
		abortVehicleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromVehicleView(vehicleRM))
}

func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	start, err := time.Parse(time.DateOnly, c.Query("start_date"))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("start_date must be a valid YYYY-MM-DD date")
	}
	end, err := time.Parse(time.DateOnly, c.Query("end_date"))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("end_date must be a valid YYYY-MM-DD date")
	}
	return start, end, nil
}

func abortVehicleErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrVehicleNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Vehicle not found",
		})
	case errors.Is(err, errs.ErrInvalidPeriod):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date range",
		})
	case errors.Is(err, errs.ErrDomainValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Domain validation failed",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
