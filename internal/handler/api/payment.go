package api

import (
	"errors"
	"net/http"

	reqdto "github.com/gabrielmaialva33/moto-rental-platform/internal/handler/dto/request"
	resdto "github.com/gabrielmaialva33/moto-rental-platform/internal/handler/dto/response"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/handler/middleware"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/pkg/errs"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/commands"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	paymentCommands commands.PaymentCommands
	paymentQueries  queries.PaymentQueries
}

func NewPaymentHandler(paymentCommands commands.PaymentCommands, paymentQueries queries.PaymentQueries) *PaymentHandler {
	return &PaymentHandler{
		paymentCommands: paymentCommands,
		paymentQueries:  paymentQueries,
	}
}

// @Summary Process payment
// @Description Choose a settlement method for a pending payment and submit it to the gateway
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Param request body reqdto.ProcessPaymentRequest true "Settlement method"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /payments/{id}/process [post]
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
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
			"error": "Invalid payment ID format",
		})
		return
	}

	var req reqdto.ProcessPaymentRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	paymentRM, err := h.paymentCommands.ProcessPayment(c.Request.Context(), actor, id, req)
	if err != nil {
		abortPaymentErr(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPaymentView(paymentRM))
}

// @Summary Record payment outcome
// @Description Webhook endpoint for gateways reporting an asynchronous settlement result
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param request body reqdto.PaymentOutcomeRequest true "Settlement result"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /payments/{id}/outcome [post]
func (h *PaymentHandler) RecordPaymentOutcome(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid payment ID format",
		})
		return
	}

	var req reqdto.PaymentOutcomeRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	paymentRM, err := h.paymentCommands.RecordPaymentOutcome(c.Request.Context(), id, req)
	if err != nil {
		abortPaymentErr(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPaymentView(paymentRM))
}

// @Summary Request refund
// @Description Reverse a settled payment, fully or partially (admin only)
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Param request body reqdto.RefundRequest false "Refund amount and reason"
// @Success 201 {object} resdto.PaymentResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /payments/{id}/refund [post]
func (h *PaymentHandler) RequestRefund(c *gin.Context) {
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
			"error": "Invalid payment ID format",
		})
		return
	}

	var req reqdto.RefundRequest
	if c.Request.ContentLength > 0 {
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request format",
			})
			return
		}
	}

	refundRM, err := h.paymentCommands.RequestRefund(c.Request.Context(), actor, id, req)
	if err != nil {
		abortPaymentErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromPaymentView(refundRM))
}

// @Summary Get payment
// @Description Get payment by ID, scoped to its owner
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
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
			"error": "Invalid payment ID format",
		})
		return
	}

	paymentRM, err := h.paymentQueries.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		abortPaymentErr(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPaymentView(paymentRM))
}

// @Summary List rental payments
// @Description List every payment of a rental, scoped to its owner
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Rental ID"
// @Success 200 {object} resdto.PaymentListResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /rentals/{id}/payments [get]
func (h *PaymentHandler) ListRentalPayments(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	rentalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid rental ID format",
		})
		return
	}

	payments, err := h.paymentQueries.ListByRental(c.Request.Context(), actor, rentalID)
	if err != nil {
		abortPaymentErr(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPaymentList(payments))
}

func abortPaymentErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Payment not found",
		})
	case errors.Is(err, errs.ErrRentalNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Rental not found",
		})
	case errors.Is(err, errs.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied",
		})
	case errors.Is(err, errs.ErrUnsupportedMethod):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Unsupported payment method",
		})
	case errors.Is(err, errs.ErrNotRefundable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Payment is not refundable",
		})
	case errors.Is(err, errs.ErrRefundExceedsPayment):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Refund amount exceeds the original payment",
		})
	case errors.Is(err, errs.ErrInvalidState):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Payment is not in a state that allows this transition",
		})
	case errors.Is(err, errs.ErrDomainValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Domain validation failed",
		})
	case errors.Is(err, errs.ErrGatewayFailure):
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Payment gateway failure",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
