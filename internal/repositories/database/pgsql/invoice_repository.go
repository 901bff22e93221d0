package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/household_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/household_ledger/internal/models"
	"github.com/SscSPs/household_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const invoiceColumns = `invoice_id, household_id, member_id, expense_id, amount, description, status,
	payment_request_id, due_date, created_at, created_by, last_updated_at, last_updated_by`

type PgxInvoiceRepository struct {
	BaseRepository
}

func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryWithTx {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoiceRepositoryWithTx = (*PgxInvoiceRepository)(nil)

func scanInvoice(row pgx.Row) (models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.HouseholdID,
		&m.MemberID,
		&m.ExpenseID,
		&m.Amount,
		&m.Description,
		&m.Status,
		&m.PaymentRequestID,
		&m.DueDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, householdID, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1 AND household_id = $2;`
	m, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID, householdID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	invoice := mapping.ToDomainInvoice(m)
	return &invoice, nil
}

func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, filter portsrepo.InvoiceFilter) ([]domain.Invoice, error) {
	conditions := []string{"household_id = $1"}
	args := []any{filter.HouseholdID}
	if filter.MemberID != "" {
		args = append(args, filter.MemberID)
		conditions = append(conditions, "member_id = $"+strconv.Itoa(len(args)))
	}
	if filter.ExpenseID != "" {
		args = append(args, filter.ExpenseID)
		conditions = append(conditions, "expense_id = $"+strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY created_at DESC, invoice_id;`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	ms := make([]models.Invoice, 0)
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice rows: %w", err)
	}
	return mapping.ToDomainInvoiceSlice(ms), nil
}

// RequestInvoicePayment inserts the payment and parks the invoice awaiting its approval.
func (r *PgxInvoiceRepository) RequestInvoicePayment(ctx context.Context, invoiceID string, payment domain.Payment) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := insertPayment(ctx, tx, payment); err != nil {
			return err
		}
		query := `
			UPDATE invoices
			SET status = 'awaiting_approval', payment_request_id = $1, last_updated_at = $2, last_updated_by = $3
			WHERE invoice_id = $4 AND household_id = $5 AND status = 'pending';
		`
		tag, err := tx.Exec(ctx, query, payment.PaymentID, payment.CreatedAt, payment.CreatedBy, invoiceID, payment.HouseholdID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to mark invoice "+invoiceID+" awaiting approval", err)
		}
		return expectOneRow(tag, "invoice "+invoiceID+" is no longer pending")
	})
}

// ResolveInvoicePayment settles or reopens the invoice and decides its payment together.
func (r *PgxInvoiceRepository) ResolveInvoicePayment(ctx context.Context, resolution domain.InvoiceResolution) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		invoiceQuery := `
			UPDATE invoices
			SET status = $1, last_updated_at = $2, last_updated_by = $3
			WHERE invoice_id = $4 AND status = 'awaiting_approval' AND payment_request_id = $5;
		`
		if !resolution.Approve {
			invoiceQuery = `
				UPDATE invoices
				SET status = $1, payment_request_id = NULL, last_updated_at = $2, last_updated_by = $3
				WHERE invoice_id = $4 AND status = 'awaiting_approval' AND payment_request_id = $5;
			`
		}
		tag, err := tx.Exec(ctx, invoiceQuery,
			string(resolution.NextStatus()),
			resolution.At,
			resolution.ActorID,
			resolution.InvoiceID,
			resolution.PaymentID,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to resolve invoice "+resolution.InvoiceID, err)
		}
		if err := expectOneRow(tag, "invoice "+resolution.InvoiceID+" is not awaiting approval of payment "+resolution.PaymentID); err != nil {
			return err
		}

		suffix := ""
		if !resolution.Approve && resolution.Reason != "" {
			suffix = " (Rejected: " + resolution.Reason + ")"
		}
		paymentQuery := `
			UPDATE payments
			SET status = $1, approved_by = $2, description = description || $3, last_updated_at = $4, last_updated_by = $2
			WHERE payment_id = $5 AND status = 'pending';
		`
		tag, err = tx.Exec(ctx, paymentQuery,
			string(resolution.PaymentStatus()),
			resolution.ActorID,
			suffix,
			resolution.At,
			resolution.PaymentID,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to resolve payment "+resolution.PaymentID, err)
		}
		return expectOneRow(tag, "payment "+resolution.PaymentID+" is no longer pending")
	})
}
