package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/household_ledger/internal/core/domain"
)

// PaymentFilter narrows a payment listing. Zero values mean "any".
type PaymentFilter struct {
	HouseholdID string
	MemberID    string
	Status      domain.PaymentStatus
	Kind        domain.PaymentKind
	Limit       int
	NextToken   *string
}

// PaymentReader defines read operations for payment data
type PaymentReader interface {
	// FindPaymentByID retrieves a payment scoped to a household.
	FindPaymentByID(ctx context.Context, householdID, paymentID string) (*domain.Payment, error)

	// ListPayments retrieves a page of payments using token-based pagination.
	// It returns the payments, a token for the next page, and an error.
	ListPayments(ctx context.Context, filter PaymentFilter) ([]domain.Payment, *string, error)

	// ListApprovedPaymentsByHousehold returns every approved payment, for balance aggregation.
	ListApprovedPaymentsByHousehold(ctx context.Context, householdID string) ([]domain.Payment, error)
}

// PaymentWriter defines write operations for payment data
type PaymentWriter interface {
	// SavePayment persists a new payment.
	SavePayment(ctx context.Context, payment domain.Payment) error

	// UpdatePendingPayment rewrites a payment's editable fields if it is still pending.
	UpdatePendingPayment(ctx context.Context, payment domain.Payment) error

	// DeletePayment removes a payment. With pendingOnly set it fails with ErrConflict
	// unless the payment is still pending. An invoice awaiting this payment returns to pending.
	DeletePayment(ctx context.Context, householdID, paymentID string, pendingOnly bool, actorID string, at time.Time) error

	// ApprovePayment moves a pending payment to approved and, when present, inserts the
	// synthesized expense and links it, in one transaction.
	ApprovePayment(ctx context.Context, approval domain.PaymentApproval) error

	// RejectPayment moves a pending payment to rejected.
	RejectPayment(ctx context.Context, paymentID, actorID string, at time.Time) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}

// PaymentRepositoryWithTx extends PaymentRepositoryFacade with transaction capabilities
type PaymentRepositoryWithTx interface {
	PaymentRepositoryFacade
	TransactionManager
}
