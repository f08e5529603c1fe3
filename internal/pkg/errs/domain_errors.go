package errs

// Sentinel errors shared by the usecase layers. Handlers translate these into
// HTTP status codes; everything unmatched is treated as an internal failure.
var (
	// Vehicle errors
	ErrVehicleNotFound    = New("vehicle not found")
	ErrVehicleUnavailable = New("vehicle not available for rental")
	ErrDuplicatePlate     = New("vehicle plate already registered")

	// Rental errors
	ErrRentalNotFound = New("rental not found")
	ErrRentalConflict = New("rental period conflict")
	ErrInvalidPeriod  = New("invalid rental period")
	ErrInvalidState   = New("invalid state transition")

	// Payment errors
	ErrPaymentNotFound      = New("payment not found")
	ErrNotRefundable        = New("payment not refundable")
	ErrRefundExceedsPayment = New("refund amount exceeds original payment")
	ErrUnsupportedMethod    = New("unsupported payment method")
	ErrGatewayFailure       = New("settlement gateway failure")

	// Access and validation errors
	ErrForbidden        = New("access denied")
	ErrDomainValidation = New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = New("database operation failed")
)
