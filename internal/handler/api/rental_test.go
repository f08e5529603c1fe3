//go:build unit

package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/user"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/handler/api"
	reqdto "github.com/gabrielmaialva33/moto-rental-platform/internal/handler/dto/request"
	resdto "github.com/gabrielmaialva33/moto-rental-platform/internal/handler/dto/response"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/pkg/errs"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/commands"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/queries"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/shared"
	"github.com/gabrielmaialva33/moto-rental-platform/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// stubRentalCommands delegates to per-test function fields so each case can
// script the usecase result without a mock framework.
type stubRentalCommands struct {
	createFn   func(ctx context.Context, actor shared.Actor, req reqdto.CreateRentalRequest) (*queries.RentalView, error)
	activateFn func(ctx context.Context, actor shared.Actor, rentalID uuid.UUID) (*queries.RentalView, error)
	completeFn func(ctx context.Context, actor shared.Actor, rentalID uuid.UUID, req reqdto.CompleteRentalRequest) (*commands.CompleteRentalResult, error)
	cancelFn   func(ctx context.Context, actor shared.Actor, rentalID uuid.UUID, req reqdto.CancelRentalRequest) (*commands.CancelRentalResult, error)
}

func (s *stubRentalCommands) CreateRental(ctx context.Context, actor shared.Actor, req reqdto.CreateRentalRequest) (*queries.RentalView, error) {
	return s.createFn(ctx, actor, req)
}

func (s *stubRentalCommands) ActivateRental(ctx context.Context, actor shared.Actor, rentalID uuid.UUID) (*queries.RentalView, error) {
	return s.activateFn(ctx, actor, rentalID)
}

func (s *stubRentalCommands) CompleteRental(ctx context.Context, actor shared.Actor, rentalID uuid.UUID, req reqdto.CompleteRentalRequest) (*commands.CompleteRentalResult, error) {
	return s.completeFn(ctx, actor, rentalID, req)
}

func (s *stubRentalCommands) CancelRental(ctx context.Context, actor shared.Actor, rentalID uuid.UUID, req reqdto.CancelRentalRequest) (*commands.CancelRentalResult, error) {
	return s.cancelFn(ctx, actor, rentalID, req)
}

type stubRentalQueries struct {
	getByIDFn    func(ctx context.Context, actor shared.Actor, id uuid.UUID) (*queries.RentalView, error)
	listByUserFn func(ctx context.Context, userID uuid.UUID, after *queries.Cursor, limit int) ([]*queries.RentalListItem, *queries.Cursor, error)
}

func (s *stubRentalQueries) GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*queries.RentalView, error) {
	return s.getByIDFn(ctx, actor, id)
}

func (s *stubRentalQueries) GetByIDSystem(_ context.Context, _ uuid.UUID) (*queries.RentalView, error) {
	return nil, errors.New("not used by the handler")
}

func (s *stubRentalQueries) ListByUser(ctx context.Context, userID uuid.UUID, after *queries.Cursor, limit int) ([]*queries.RentalListItem, *queries.Cursor, error) {
	return s.listByUserFn(ctx, userID, after, limit)
}

type RentalHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	commands *stubRentalCommands
	queries  *stubRentalQueries
	handler  *api.RentalHandler
	userID   uuid.UUID
}

func (s *RentalHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.commands = &stubRentalCommands{}
	s.queries = &stubRentalQueries{}
	s.handler = api.NewRentalHandler(s.commands, s.queries)
	s.userID = uuid.New()

	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		c.Set("user_id", s.userID)
		c.Set("user_role", user.RoleCustomer)
		c.Next()
	}

	s.router.POST("/rentals", authMiddleware, s.handler.CreateRental)
	s.router.GET("/rentals", authMiddleware, s.handler.ListRentals)
	s.router.GET("/rentals/:id", authMiddleware, s.handler.GetRental)
	s.router.POST("/rentals/:id/activate", authMiddleware, s.handler.ActivateRental)
	s.router.POST("/rentals/:id/complete", authMiddleware, s.handler.CompleteRental)
	s.router.POST("/rentals/:id/cancel", authMiddleware, s.handler.CancelRental)
}

func TestRentalHandlerSuite(t *testing.T) {
	suite.Run(t, new(RentalHandlerTestSuite))
}

func (s *RentalHandlerTestSuite) sampleView(id uuid.UUID) *queries.RentalView {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return &queries.RentalView{
		ID:              id,
		VehicleID:       uuid.New(),
		VehicleName:     "Honda CB 500F",
		VehiclePlate:    "ABC1D23",
		UserID:          s.userID,
		StartDate:       time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Days:            6,
		DailyRate:       decimal.RequireFromString("100"),
		TotalAmount:     decimal.RequireFromString("600"),
		Discount:        decimal.Zero,
		InsuranceFee:    decimal.Zero,
		SecurityDeposit: decimal.RequireFromString("200"),
		Status:          "reserved",
		PaymentStatus:   "pending",
		PickupLocation:  "Av. Paulista, 1000",
		ReturnLocation:  "Av. Paulista, 1000",
		CreatedAt:       created,
		UpdatedAt:       created,
	}
}

func validCreateBody() map[string]any {
	return map[string]any{
		"vehicle_id":      uuid.New().String(),
		"start_date":      "2026-03-10",
		"end_date":        "2026-03-15",
		"pickup_location": "Av. Paulista, 1000",
	}
}

// ================================================================================
// TestCreateRental
// ================================================================================

func (s *RentalHandlerTestSuite) TestCreateRental() {
	url := "/rentals"
	view := s.sampleView(uuid.New())

	s.Run("success: returns 201 Created with the booked rental", func() {
		s.commands.createFn = func(_ context.Context, actor shared.Actor, req reqdto.CreateRentalRequest) (*queries.RentalView, error) {
			s.Equal(s.userID, actor.ID)
			s.Equal("2026-03-10", req.StartDate)
			return view, nil
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, validCreateBody(), "token")

		var response resdto.RentalResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(view.ID, response.ID)
		s.Equal("reserved", response.Status)
		s.Equal("2026-03-10", response.StartDate)
		s.True(response.TotalAmount.Equal(view.TotalAmount))
	})

	s.Run("error: 400 Bad Request on missing required fields", func() {
		for _, field := range []string{"vehicle_id", "start_date", "end_date", "pickup_location"} {
			s.Run("missing "+field, func() {
				body := validCreateBody()
				delete(body, field)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, validCreateBody(), "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		// The usecases surface marked causes, not bare sentinels, so the
		// table feeds the switch the same shape.
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "vehicle not found",
				commandsError:  errs.Mark(errs.New("no rows in result set"), errs.ErrVehicleNotFound),
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Vehicle not found",
			},
			{
				name:           "invalid period",
				commandsError:  errs.Mark(errs.New("end date must be after start date"), errs.ErrInvalidPeriod),
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Invalid rental period",
			},
			{
				name:           "overlapping booking",
				commandsError:  errs.Mark(errs.New("rental period overlaps an existing booking"), errs.ErrRentalConflict),
				expectedStatus: http.StatusConflict,
				expectedMsg:    "already booked",
			},
			{
				name:           "vehicle unavailable",
				commandsError:  errs.Mark(errs.New("vehicle is in maintenance"), errs.ErrVehicleUnavailable),
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "not available",
			},
			{
				name:           "domain validation",
				commandsError:  errs.Mark(errs.New("pickup location is required"), errs.ErrDomainValidation),
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Domain validation failed",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.commands.createFn = func(_ context.Context, _ shared.Actor, _ reqdto.CreateRentalRequest) (*queries.RentalView, error) {
					return nil, tc.commandsError
				}

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, validCreateBody(), "token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestGetRental
// ================================================================================

func (s *RentalHandlerTestSuite) TestGetRental() {
	rentalID := uuid.New()
	url := "/rentals/" + rentalID.String()
	view := s.sampleView(rentalID)

	s.Run("success: returns 200 OK with RentalResponse", func() {
		s.queries.getByIDFn = func(_ context.Context, actor shared.Actor, id uuid.UUID) (*queries.RentalView, error) {
			s.Equal(s.userID, actor.ID)
			s.Equal(rentalID, id)
			return view, nil
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")

		var response resdto.RentalResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(rentalID, response.ID)
		s.Equal("Honda CB 500F", response.VehicleName)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/rentals/invalid-uuid", nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid rental ID format")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			queriesError   error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "rental not found",
				queriesError:   errs.Mark(errs.New("no rows in result set"), errs.ErrRentalNotFound),
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Rental not found",
			},
			{
				name:           "owned by another user",
				queriesError:   errs.ErrForbidden,
				expectedStatus: http.StatusForbidden,
				expectedMsg:    "Access denied",
			},
			{
				name:           "internal server error",
				queriesError:   errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.queries.getByIDFn = func(_ context.Context, _ shared.Actor, _ uuid.UUID) (*queries.RentalView, error) {
					return nil, tc.queriesError
				}

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestListRentals
// ================================================================================

func (s *RentalHandlerTestSuite) TestListRentals() {
	url := "/rentals"

	items := []*queries.RentalListItem{
		{ID: uuid.New(), VehicleName: "Honda CB 500F", Status: "reserved", PaymentStatus: "pending"},
		{ID: uuid.New(), VehicleName: "Yamaha MT-07", Status: "completed", PaymentStatus: "paid"},
	}

	s.Run("success: returns the current user's rentals", func() {
		s.queries.listByUserFn = func(_ context.Context, userID uuid.UUID, after *queries.Cursor, limit int) ([]*queries.RentalListItem, *queries.Cursor, error) {
			s.Equal(s.userID, userID)
			s.Nil(after)
			s.Equal(0, limit)
			return items, nil, nil
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")

		var response resdto.RentalListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response.Items, 2)
		s.Nil(response.NextCursor)
	})

	s.Run("success: cursor and limit are forwarded", func() {
		s.queries.listByUserFn = func(_ context.Context, _ uuid.UUID, after *queries.Cursor, limit int) ([]*queries.RentalListItem, *queries.Cursor, error) {
			s.Require().NotNil(after)
			s.Equal("cursor123", after.After)
			s.Equal(10, limit)
			return items[:1], &queries.Cursor{After: "next456"}, nil
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?cursor=cursor123&limit=10", nil, "token")

		var response resdto.RentalListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response.Items, 1)
		s.Require().NotNil(response.NextCursor)
		s.Equal("next456", *response.NextCursor)
	})

	s.Run("error: 422 Unprocessable Entity on an invalid cursor", func() {
		s.queries.listByUserFn = func(_ context.Context, _ uuid.UUID, _ *queries.Cursor, _ int) ([]*queries.RentalListItem, *queries.Cursor, error) {
			return nil, nil, errs.ErrDomainValidation
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?cursor=garbage", nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "Invalid cursor")
	})
}

// ================================================================================
// TestActivateRental
// ================================================================================

func (s *RentalHandlerTestSuite) TestActivateRental() {
	rentalID := uuid.New()
	url := "/rentals/" + rentalID.String() + "/activate"

	s.Run("success: returns 200 OK with the active rental", func() {
		view := s.sampleView(rentalID)
		view.Status = "active"
		s.commands.activateFn = func(_ context.Context, _ shared.Actor, id uuid.UUID) (*queries.RentalView, error) {
			s.Equal(rentalID, id)
			return view, nil
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "token")

		var response resdto.RentalResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("active", response.Status)
	})

	s.Run("error: 422 Unprocessable Entity when not reserved", func() {
		s.commands.activateFn = func(_ context.Context, _ shared.Actor, _ uuid.UUID) (*queries.RentalView, error) {
			return nil, errs.ErrInvalidState
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "not in a state")
	})

	s.Run("error: 404 Not Found for an unknown rental", func() {
		s.commands.activateFn = func(_ context.Context, _ shared.Actor, _ uuid.UUID) (*queries.RentalView, error) {
			return nil, errs.ErrRentalNotFound
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Rental not found")
	})
}

// ================================================================================
// TestCompleteRental
// ================================================================================

func (s *RentalHandlerTestSuite) TestCompleteRental() {
	rentalID := uuid.New()
	url := "/rentals/" + rentalID.String() + "/complete"
	body := map[string]any{
		"final_mileage":       12500,
		"additional_charges":  "80",
		"charges_description": "scratched fairing",
	}

	s.Run("success: returns 200 OK with the return breakdown", func() {
		view := s.sampleView(rentalID)
		view.Status = "completed"
		s.commands.completeFn = func(_ context.Context, _ shared.Actor, id uuid.UUID, req reqdto.CompleteRentalRequest) (*commands.CompleteRentalResult, error) {
			s.Equal(rentalID, id)
			s.Equal(12500, req.FinalMileage)
			return &commands.CompleteRentalResult{
				Rental:            view,
				OverdueDays:       3,
				OverduePenalty:    decimal.RequireFromString("150"),
				AdditionalCharges: decimal.RequireFromString("230"),
			}, nil
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "token")

		var response resdto.CompleteRentalResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(3, response.OverdueDays)
		s.True(response.OverduePenalty.Equal(decimal.RequireFromString("150")))
		s.Equal("completed", response.Rental.Status)
	})

	s.Run("error: 400 Bad Request when final mileage is missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: 422 Unprocessable Entity when not active", func() {
		s.commands.completeFn = func(_ context.Context, _ shared.Actor, _ uuid.UUID, _ reqdto.CompleteRentalRequest) (*commands.CompleteRentalResult, error) {
			return nil, errs.ErrInvalidState
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "not in a state")
	})
}

// ================================================================================
// TestCancelRental
// ================================================================================

func (s *RentalHandlerTestSuite) TestCancelRental() {
	rentalID := uuid.New()
	url := "/rentals/" + rentalID.String() + "/cancel"

	cancelResult := func(view *queries.RentalView) *commands.CancelRentalResult {
		return &commands.CancelRentalResult{
			Rental:        view,
			RefundAmount:  decimal.RequireFromString("540"),
			RefundPercent: 90,
			Fee:           decimal.RequireFromString("60"),
		}
	}

	s.Run("success: cancels without a body", func() {
		view := s.sampleView(rentalID)
		view.Status = "cancelled"
		s.commands.cancelFn = func(_ context.Context, _ shared.Actor, id uuid.UUID, req reqdto.CancelRentalRequest) (*commands.CancelRentalResult, error) {
			s.Equal(rentalID, id)
			s.Empty(req.Reason)
			return cancelResult(view), nil
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "token")

		var response resdto.CancelRentalResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(90, response.RefundPercent)
		s.True(response.RefundAmount.Equal(decimal.RequireFromString("540")))
		s.Equal("cancelled", response.Rental.Status)
	})

	s.Run("success: forwards the cancellation reason", func() {
		view := s.sampleView(rentalID)
		view.Status = "cancelled"
		s.commands.cancelFn = func(_ context.Context, _ shared.Actor, _ uuid.UUID, req reqdto.CancelRentalRequest) (*commands.CancelRentalResult, error) {
			s.Equal("changed plans", req.Reason)
			return cancelResult(view), nil
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"reason": "changed plans"}, "token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 403 Forbidden for another user's rental", func() {
		s.commands.cancelFn = func(_ context.Context, _ shared.Actor, _ uuid.UUID, _ reqdto.CancelRentalRequest) (*commands.CancelRentalResult, error) {
			return nil, errs.ErrForbidden
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Access denied")
	})

	s.Run("error: 422 Unprocessable Entity once active", func() {
		s.commands.cancelFn = func(_ context.Context, _ shared.Actor, _ uuid.UUID, _ reqdto.CancelRentalRequest) (*commands.CancelRentalResult, error) {
			return nil, errs.ErrInvalidState
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "not in a state")
	})
}
