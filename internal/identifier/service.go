package identifier

import (
	"fmt"
	"math/rand/v2"
	"time"

	"gorm.io/gorm"

	"github.com/gyamfidev/phoneshop-backend/pkg/config"
	pkgerrors "github.com/gyamfidev/phoneshop-backend/pkg/errors"
)

// Clock abstracts time so invoice and POS numbering is testable.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// Sequence names persisted in id_sequences.
const (
	seqCustomer = "customer"
	seqPhone    = "phone"
	seqRepair   = "repair"
	seqResale   = "resale"
	seqStaff    = "staff"

	invoiceSeqPrefix = "invoice:"
	posSeqPrefix     = "pos:"
)

const (
	customerPrefix = "CUST"
	phonePrefix    = "PHON"
	repairPrefix   = "REP"
	resalePrefix   = "PRSL"
	staffPrefix    = "STF"
)

// Service issues the human-readable identifiers used across the backend.
// Sequential ids come from transactional counters; the repair tracking code
// is random with a bounded collision retry.
type Service struct {
	repo        Repository
	clock       Clock
	maxAttempts int
}

func NewService(repo Repository, clock Clock, cfg config.IdentifierConfig) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 5
	}
	return &Service{repo: repo, clock: clock, maxAttempts: attempts}
}

// NextCustomerID returns the next CUST-NNNN id.
func (s *Service) NextCustomerID(tx *gorm.DB) (string, error) {
	return s.nextSequential(tx, seqCustomer, customerPrefix)
}

// NextPhoneID returns the next PHON-NNNN id.
func (s *Service) NextPhoneID(tx *gorm.DB) (string, error) {
	return s.nextSequential(tx, seqPhone, phonePrefix)
}

// NextRepairID returns the next REP-NNNN id.
func (s *Service) NextRepairID(tx *gorm.DB) (string, error) {
	return s.nextSequential(tx, seqRepair, repairPrefix)
}

// NextResaleID returns the next PRSL-NNNN id.
func (s *Service) NextResaleID(tx *gorm.DB) (string, error) {
	return s.nextSequential(tx, seqResale, resalePrefix)
}

// NextStaffID returns the next STF-NNNN id.
func (s *Service) NextStaffID(tx *gorm.DB) (string, error) {
	return s.nextSequential(tx, seqStaff, staffPrefix)
}

func (s *Service) nextSequential(tx *gorm.DB, name, prefix string) (string, error) {
	value, err := s.repo.NextValue(tx, name)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("allocating %s sequence", name))
	}
	// %04d widens on its own past 9999.
	return fmt.Sprintf("%s-%04d", prefix, value), nil
}

// NextInvoiceNumber returns INV-YYYYMMDDHHMMSS, disambiguated with a -k
// suffix when more than one invoice lands in the same UTC second. The
// per-second counter lives in id_sequences so the tie-break is transactional.
func (s *Service) NextInvoiceNumber(tx *gorm.DB) (string, error) {
	base := fmt.Sprintf("INV-%s", s.clock.Now().UTC().Format("20060102150405"))
	value, err := s.repo.NextValue(tx, invoiceSeqPrefix+base)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "allocating invoice number")
	}
	if value == 1 {
		return base, nil
	}
	return fmt.Sprintf("%s-%d", base, value-1), nil
}

// NextPOSTransactionID returns POS-YYYYMMDD-NNN; numbering restarts at 001
// each UTC day.
func (s *Service) NextPOSTransactionID(tx *gorm.DB, day time.Time) (string, error) {
	stamp := day.UTC().Format("20060102")
	value, err := s.repo.NextValue(tx, posSeqPrefix+stamp)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "allocating pos transaction id")
	}
	return fmt.Sprintf("POS-%s-%03d", stamp, value), nil
}

// NewRepairTrackingCode returns a REP-YYYYMMDD-NNNN code with four random
// digits, retrying on collision up to the configured attempt limit.
func (s *Service) NewRepairTrackingCode(tx *gorm.DB) (string, error) {
	stamp := s.clock.Now().UTC().Format("20060102")
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		code := fmt.Sprintf("REP-%s-%04d", stamp, rand.IntN(10000))
		exists, err := s.repo.TrackingCodeExists(tx, code)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking tracking code")
		}
		if !exists {
			return code, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeIdentifierExhausted, "tracking code generation exhausted retries").
		WithDetails(map[string]any{"attempts": s.maxAttempts})
}
