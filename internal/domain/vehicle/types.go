package vehicle

import "errors"

var ErrInvalidStatus = errors.New("invalid vehicle status")

// Status is a cached projection of the vehicle's occupancy. Rental commands
// are the only writers; availability decisions always go through the
// authoritative overlap query instead of trusting this flag.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusRented      Status = "rented"
	StatusMaintenance Status = "maintenance"
	StatusInactive    Status = "inactive"
)

func NewStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusAvailable, StatusRented, StatusMaintenance, StatusInactive:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s Status) String() string {
	return string(s)
}
