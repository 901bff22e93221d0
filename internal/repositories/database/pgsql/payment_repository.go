package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/household_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/household_ledger/internal/models"
	"github.com/SscSPs/household_ledger/internal/utils/mapping"
	"github.com/SscSPs/household_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const paymentColumns = `payment_id, household_id, member_id, amount, description, status, kind,
	recorded_by, approved_by, expense_id, invoice_id, payment_date,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxPaymentRepository struct {
	BaseRepository
}

func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryWithTx {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentRepositoryWithTx = (*PgxPaymentRepository)(nil)

func scanPayment(row pgx.Row) (models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID,
		&m.HouseholdID,
		&m.MemberID,
		&m.Amount,
		&m.Description,
		&m.Status,
		&m.Kind,
		&m.RecordedBy,
		&m.ApprovedBy,
		&m.ExpenseID,
		&m.InvoiceID,
		&m.PaymentDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func insertPayment(ctx context.Context, q querier, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	query := `INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`
	_, err := q.Exec(ctx, query,
		m.PaymentID,
		m.HouseholdID,
		m.MemberID,
		m.Amount,
		m.Description,
		m.Status,
		m.Kind,
		m.RecordedBy,
		m.ApprovedBy,
		m.ExpenseID,
		m.InvoiceID,
		m.PaymentDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert payment "+m.PaymentID, err)
	}
	return nil
}

func collectPayments(rows pgx.Rows) ([]models.Payment, error) {
	defer rows.Close()
	ms := make([]models.Payment, 0)
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}
	return ms, nil
}

func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, householdID, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1 AND household_id = $2;`
	m, err := scanPayment(r.Pool.QueryRow(ctx, query, paymentID, householdID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	payment := mapping.ToDomainPayment(m)
	return &payment, nil
}

// ListPayments pages through payments newest first, keyed on (payment_date, created_at, payment_id).
func (r *PgxPaymentRepository) ListPayments(ctx context.Context, filter portsrepo.PaymentFilter) ([]domain.Payment, *string, error) {
	limit := pagination.NormalizeLimit(filter.Limit)
	// One extra row tells us whether there is a next page.
	fetchLimit := limit + 1

	conditions := []string{"household_id = $1"}
	args := []any{filter.HouseholdID}
	if filter.MemberID != "" {
		args = append(args, filter.MemberID)
		conditions = append(conditions, "member_id = $"+strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.Kind != "" {
		args = append(args, string(filter.Kind))
		conditions = append(conditions, "kind = $"+strconv.Itoa(len(args)))
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		cursor, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		args = append(args, cursor.SortDate, cursor.CreatedAt, cursor.ID)
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(payment_date, created_at, payment_id) < ($%d, $%d, $%d)", n-2, n-1, n))
	}
	args = append(args, fetchLimit)

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY payment_date DESC, created_at DESC, payment_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query payments for household "+filter.HouseholdID, err)
	}
	ms, err := collectPayments(rows)
	if err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(ms) > limit {
		last := ms[limit-1]
		token := pagination.EncodeToken(pagination.Cursor{SortDate: last.PaymentDate, CreatedAt: last.CreatedAt, ID: last.PaymentID})
		nextToken = &token
		ms = ms[:limit]
	}
	return mapping.ToDomainPaymentSlice(ms), nextToken, nil
}

func (r *PgxPaymentRepository) ListApprovedPaymentsByHousehold(ctx context.Context, householdID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE household_id = $1 AND status = 'approved' ORDER BY payment_date, created_at;`
	rows, err := r.Pool.Query(ctx, query, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to query approved payments: %w", err)
	}
	ms, err := collectPayments(rows)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainPaymentSlice(ms), nil
}

func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	return insertPayment(ctx, r.Pool, payment)
}

func (r *PgxPaymentRepository) UpdatePendingPayment(ctx context.Context, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	query := `
		UPDATE payments
		SET amount = $1, description = $2, kind = $3, payment_date = $4, last_updated_at = $5, last_updated_by = $6
		WHERE payment_id = $7 AND household_id = $8 AND status = 'pending';
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.Amount,
		m.Description,
		m.Kind,
		m.PaymentDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.PaymentID,
		m.HouseholdID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update payment "+m.PaymentID, err)
	}
	return expectOneRow(tag, "payment "+m.PaymentID+" is no longer pending")
}

// DeletePayment reopens an invoice still awaiting the payment, drops the expense
// synthesized from it, then removes the payment.
func (r *PgxPaymentRepository) DeletePayment(ctx context.Context, householdID, paymentID string, pendingOnly bool, actorID string, at time.Time) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		reopenQuery := `
			UPDATE invoices
			SET status = 'pending', payment_request_id = NULL, last_updated_at = $1, last_updated_by = $2
			WHERE payment_request_id = $3 AND household_id = $4 AND status = 'awaiting_approval';
		`
		if _, err := tx.Exec(ctx, reopenQuery, at, actorID, paymentID, householdID); err != nil {
			return apperrors.NewAppError(500, "failed to reopen invoice for payment "+paymentID, err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM expenses WHERE source_payment_id = $1 AND household_id = $2;`, paymentID, householdID); err != nil {
			return apperrors.NewAppError(500, "failed to delete expense synthesized from payment "+paymentID, err)
		}

		tag, err := tx.Exec(ctx,
			`DELETE FROM payments WHERE payment_id = $1 AND household_id = $2 AND (status = 'pending' OR NOT $3);`,
			paymentID, householdID, pendingOnly)
		if err != nil {
			return apperrors.NewAppError(500, "failed to delete payment "+paymentID, err)
		}
		if tag.RowsAffected() > 0 {
			return nil
		}

		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payments WHERE payment_id = $1 AND household_id = $2);`, paymentID, householdID).Scan(&exists); err != nil {
			return apperrors.NewAppError(500, "failed to check payment "+paymentID, err)
		}
		if exists {
			return apperrors.NewConflictError("payment " + paymentID + " is no longer pending")
		}
		return apperrors.ErrNotFound
	})
}

// ApprovePayment approves a standalone payment and stores the expense synthesized from it.
func (r *PgxPaymentRepository) ApprovePayment(ctx context.Context, approval domain.PaymentApproval) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		var expenseID *string
		if approval.SynthesizedExpense != nil {
			if err := insertExpense(ctx, tx, *approval.SynthesizedExpense); err != nil {
				return err
			}
			expenseID = &approval.SynthesizedExpense.ExpenseID
		}

		query := `
			UPDATE payments
			SET status = 'approved', approved_by = $1, expense_id = $2, last_updated_at = $3, last_updated_by = $1
			WHERE payment_id = $4 AND status = 'pending' AND invoice_id IS NULL;
		`
		tag, err := tx.Exec(ctx, query, approval.ActorID, expenseID, approval.At, approval.PaymentID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to approve payment "+approval.PaymentID, err)
		}
		return expectOneRow(tag, "payment "+approval.PaymentID+" is no longer pending")
	})
}

func (r *PgxPaymentRepository) RejectPayment(ctx context.Context, paymentID, actorID string, at time.Time) error {
	query := `
		UPDATE payments
		SET status = 'rejected', approved_by = $1, last_updated_at = $2, last_updated_by = $1
		WHERE payment_id = $3 AND status = 'pending' AND invoice_id IS NULL;
	`
	tag, err := r.Pool.Exec(ctx, query, actorID, at, paymentID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to reject payment "+paymentID, err)
	}
	return expectOneRow(tag, "payment "+paymentID+" is no longer pending")
}
