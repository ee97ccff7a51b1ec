package invoices

// Snapshot captures the parties and prices at issue time. These fields are
// copied into the invoice row and never resolved through live records again.
type Snapshot struct {
	CustomerName    string
	CustomerPhone   string
	StaffName       string
	ItemDescription string
	SubtotalCents   int64
	DiscountCents   int64
	TotalCents      int64
}
