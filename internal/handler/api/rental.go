package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "github.com/gabrielmaialva33/moto-rental-platform/internal/handler/dto/request"
	resdto "github.com/gabrielmaialva33/moto-rental-platform/internal/handler/dto/response"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/handler/middleware"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/pkg/errs"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/commands"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RentalHandler struct {
	rentalCommands commands.RentalCommands
	rentalQueries  queries.RentalQueries
}

func NewRentalHandler(rentalCommands commands.RentalCommands, rentalQueries queries.RentalQueries) *RentalHandler {
	return &RentalHandler{
		rentalCommands: rentalCommands,
		rentalQueries:  rentalQueries,
	}
}

// @Summary Create rental
// @Description Book a vehicle for an inclusive date range
// @Tags rentals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateRentalRequest true "Rental request"
// @Success 201 {object} resdto.RentalResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /rentals [post]
func (h *RentalHandler) CreateRental(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateRentalRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	rentalRM, err := h.rentalCommands.CreateRental(c.Request.Context(), actor, req)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrVehicleNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Vehicle not found",
			})
		case errors.Is(err, errs.ErrInvalidPeriod):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid rental period",
			})
		case errors.Is(err, errs.ErrRentalConflict):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Vehicle is already booked for the requested period",
			})
		case errors.Is(err, errs.ErrVehicleUnavailable):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Vehicle is not available for rental",
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

	c.JSON(http.StatusCreated, resdto.FromRentalView(rentalRM))
}

// @Summary Get rental
// @Description Get rental by ID, scoped to its owner
// @Tags rentals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Rental ID"
// @Success 200 {object} resdto.RentalResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /rentals/{id} [get]
func (h *RentalHandler) GetRental(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid rental ID format",
		})
		return
	}

	rentalRM, err := h.rentalQueries.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		abortRentalLookupErr(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromRentalView(rentalRM))
}

// @Summary List rentals
// @Description List the current user's rentals, newest first
// @Tags rentals
// @Produce json
// @Security BearerAuth
// @Param cursor query string false "Opaque cursor from a previous page"
// @Param limit query int false "Page size (max 200)"
// @Success 200 {object} resdto.RentalListResponse
// @Failure 401 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /rentals [get]
func (h *RentalHandler) ListRentals(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var after *queries.Cursor
	if cursorStr := c.Query("cursor"); cursorStr != "" {
		after = &queries.Cursor{After: cursorStr}
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	items, next, err := h.rentalQueries.ListByUser(c.Request.Context(), actor.ID, after, limit)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Invalid cursor",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromRentalList(items, next))
}

// @Summary Activate rental
// @Description Hand the vehicle over and start the rental
// @Tags rentals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Rental ID"
// @Success 200 {object} resdto.RentalResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /rentals/{id}/activate [post]
func (h *RentalHandler) ActivateRental(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid rental ID format",
		})
		return
	}

	rentalRM, err := h.rentalCommands.ActivateRental(c.Request.Context(), actor, id)
	if err != nil {
		abortRentalTransitionErr(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromRentalView(rentalRM))
}

// @Summary Complete rental
// @Description Record the vehicle return, overdue penalties and extra charges
// @Tags rentals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Rental ID"
// @Param request body reqdto.CompleteRentalRequest true "Return details"
// @Success 200 {object} resdto.CompleteRentalResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /rentals/{id}/complete [post]
func (h *RentalHandler) CompleteRental(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid rental ID format",
		})
		return
	}

	var req reqdto.CompleteRentalRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.rentalCommands.CompleteRental(c.Request.Context(), actor, id, req)
	if err != nil {
		abortRentalTransitionErr(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCompleteRentalResult(result))
}

// @Summary Cancel rental
// @Description Cancel a reservation before pickup; the refund share depends on notice
// @Tags rentals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Rental ID"
// @Param request body reqdto.CancelRentalRequest false "Cancellation reason"
// @Success 200 {object} resdto.CancelRentalResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /rentals/{id}/cancel [post]
func (h *RentalHandler) CancelRental(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid rental ID format",
		})
		return
	}

	var req reqdto.CancelRentalRequest
	if c.Request.ContentLength > 0 {
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request format",
			})
			return
		}
	}

	result, err := h.rentalCommands.CancelRental(c.Request.Context(), actor, id, req)
	if err != nil {
		abortRentalTransitionErr(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCancelRentalResult(result))
}

func abortRentalLookupErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrRentalNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Rental not found",
		})
	case errors.Is(err, errs.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func abortRentalTransitionErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrRentalNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Rental not found",
		})
	case errors.Is(err, errs.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied",
		})
	case errors.Is(err, errs.ErrInvalidState):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Rental is not in a state that allows this transition",
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
