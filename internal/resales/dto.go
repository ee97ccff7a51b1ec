package resales

import (
	"time"

	"github.com/gyamfidev/phoneshop-backend/pkg/enums"
)

// ListFilter narrows ledger queries.
type ListFilter struct {
	ProfitStatus        *enums.ProfitStatus
	IncomingPhoneStatus *enums.PhoneStatus
	CustomerID          *int64
	StaffID             *int64
	From                *time.Time
	To                  *time.Time
	Limit               int
	Cursor              string
}
