package response

import (
	"time"

	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/commands"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RentalResponse struct {
	ID                    uuid.UUID       `json:"id"`
	VehicleID             uuid.UUID       `json:"vehicleId"`
	VehicleName           string          `json:"vehicleName"`
	VehiclePlate          string          `json:"vehiclePlate"`
	UserID                uuid.UUID       `json:"userId"`
	StartDate             string          `json:"startDate"`
	EndDate               string          `json:"endDate"`
	Days                  int             `json:"days"`
	DailyRate             decimal.Decimal `json:"dailyRate"`
	TotalAmount           decimal.Decimal `json:"totalAmount"`
	Discount              decimal.Decimal `json:"discount"`
	InsuranceFee          decimal.Decimal `json:"insuranceFee"`
	InsuranceTier         *string         `json:"insuranceTier,omitempty"`
	SecurityDeposit       decimal.Decimal `json:"securityDeposit"`
	AdditionalCharges     decimal.Decimal `json:"additionalCharges"`
	AdditionalChargesNote *string         `json:"additionalChargesNote,omitempty"`
	Status                string          `json:"status"`
	PaymentStatus         string          `json:"paymentStatus"`
	PickupLocation        string          `json:"pickupLocation"`
	ReturnLocation        string          `json:"returnLocation"`
	Notes                 *string         `json:"notes,omitempty"`
	FinalMileage          *int            `json:"finalMileage,omitempty"`
	ActualReturnAt        *time.Time      `json:"actualReturnAt,omitempty"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
}

type RentalListItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	VehicleID     uuid.UUID       `json:"vehicleId"`
	VehicleName   string          `json:"vehicleName"`
	StartDate     string          `json:"startDate"`
	EndDate       string          `json:"endDate"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"paymentStatus"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type RentalListResponse struct {
	Items      []*RentalListItemResponse `json:"items"`
	NextCursor *string                   `json:"nextCursor,omitempty"`
}

type CompleteRentalResponse struct {
	Rental            *RentalResponse `json:"rental"`
	OverdueDays       int             `json:"overdueDays"`
	OverduePenalty    decimal.Decimal `json:"overduePenalty"`
	AdditionalCharges decimal.Decimal `json:"additionalCharges"`
}

type CancelRentalResponse struct {
	Rental        *RentalResponse `json:"rental"`
	RefundAmount  decimal.Decimal `json:"refundAmount"`
	RefundPercent int             `json:"refundPercent"`
	Fee           decimal.Decimal `json:"fee"`
}

func FromRentalView(rm *queries.RentalView) *RentalResponse {
	return &RentalResponse{
		ID:                    rm.ID,
		VehicleID:             rm.VehicleID,
		VehicleName:           rm.VehicleName,
		VehiclePlate:          rm.VehiclePlate,
		UserID:                rm.UserID,
		StartDate:             rm.StartDate.Format(time.DateOnly),
		EndDate:               rm.EndDate.Format(time.DateOnly),
		Days:                  rm.Days,
		DailyRate:             rm.DailyRate,
		TotalAmount:           rm.TotalAmount,
		Discount:              rm.Discount,
		InsuranceFee:          rm.InsuranceFee,
		InsuranceTier:         rm.InsuranceTier,
		SecurityDeposit:       rm.SecurityDeposit,
		AdditionalCharges:     rm.AdditionalCharges,
		AdditionalChargesNote: rm.AdditionalChargesNote,
		Status:                rm.Status,
		PaymentStatus:         rm.PaymentStatus,
		PickupLocation:        rm.PickupLocation,
		ReturnLocation:        rm.ReturnLocation,
		Notes:                 rm.Notes,
		FinalMileage:          rm.FinalMileage,
		ActualReturnAt:        rm.ActualReturnAt,
		CreatedAt:             rm.CreatedAt,
		UpdatedAt:             rm.UpdatedAt,
	}
}

func FromRentalListItem(rm *queries.RentalListItem) *RentalListItemResponse {
	return &RentalListItemResponse{
		ID:            rm.ID,
		VehicleID:     rm.VehicleID,
		VehicleName:   rm.VehicleName,
		StartDate:     rm.StartDate.Format(time.DateOnly),
		EndDate:       rm.EndDate.Format(time.DateOnly),
		Status:        rm.Status,
		PaymentStatus: rm.PaymentStatus,
		TotalAmount:   rm.TotalAmount,
		CreatedAt:     rm.CreatedAt,
	}
}

func FromRentalList(items []*queries.RentalListItem, next *queries.Cursor) *RentalListResponse {
	resp := &RentalListResponse{
		Items: make([]*RentalListItemResponse, len(items)),
	}
	for i, item := range items {
		resp.Items[i] = FromRentalListItem(item)
	}
	if next != nil {
		resp.NextCursor = &next.After
	}
	return resp
}

func FromCompleteRentalResult(result *commands.CompleteRentalResult) *CompleteRentalResponse {
	return &CompleteRentalResponse{
		Rental:            FromRentalView(result.Rental),
		OverdueDays:       result.OverdueDays,
		OverduePenalty:    result.OverduePenalty,
		AdditionalCharges: result.AdditionalCharges,
	}
}

func FromCancelRentalResult(result *commands.CancelRentalResult) *CancelRentalResponse {
	return &CancelRentalResponse{
		Rental:        FromRentalView(result.Rental),
		RefundAmount:  result.RefundAmount,
		RefundPercent: result.RefundPercent,
		Fee:           result.Fee,
	}
}
