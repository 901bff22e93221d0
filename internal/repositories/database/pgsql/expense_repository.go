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
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const expenseColumns = `expense_id, household_id, description, category, total_amount, split_kind, paid_by,
	status, expense_date, approved_by, source_payment_id,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxExpenseRepository struct {
	BaseRepository
}

// newPgxExpenseRepository creates a new repository for expenses, their splits and the invoices they spawn.
func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepositoryWithTx {
	return &PgxExpenseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExpenseRepositoryWithTx = (*PgxExpenseRepository)(nil)

func scanExpense(row pgx.Row) (models.Expense, error) {
	var m models.Expense
	err := row.Scan(
		&m.ExpenseID,
		&m.HouseholdID,
		&m.Description,
		&m.Category,
		&m.TotalAmount,
		&m.SplitKind,
		&m.PaidBy,
		&m.Status,
		&m.ExpenseDate,
		&m.ApprovedBy,
		&m.SourcePaymentID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// loadSplits fetches the split rows of the given expenses, keyed by expense id, in position order.
func loadSplits(ctx context.Context, q querier, expenseIDs []string) (map[string][]models.ExpenseSplit, error) {
	splits := make(map[string][]models.ExpenseSplit, len(expenseIDs))
	if len(expenseIDs) == 0 {
		return splits, nil
	}
	query := `
		SELECT expense_id, member_id, amount, position
		FROM expense_splits
		WHERE expense_id = ANY($1)
		ORDER BY expense_id, position;
	`
	rows, err := q.Query(ctx, query, expenseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.ExpenseSplit
		if err := rows.Scan(&s.ExpenseID, &s.MemberID, &s.Amount, &s.Position); err != nil {
			return nil, fmt.Errorf("failed to scan expense split row: %w", err)
		}
		splits[s.ExpenseID] = append(splits[s.ExpenseID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense split rows: %w", err)
	}
	return splits, nil
}

// queryExpenses runs an expense SELECT and attaches the splits of every row.
func queryExpenses(ctx context.Context, q querier, query string, args ...any) ([]domain.Expense, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var ms []models.Expense
	for rows.Next() {
		m, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense rows: %w", err)
	}
	rows.Close()

	ids := make([]string, len(ms))
	for i, m := range ms {
		ids[i] = m.ExpenseID
	}
	splits, err := loadSplits(ctx, q, ids)
	if err != nil {
		return nil, err
	}

	expenses := make([]domain.Expense, len(ms))
	for i, m := range ms {
		expenses[i] = mapping.ToDomainExpense(m, splits[m.ExpenseID])
	}
	return expenses, nil
}

// insertExpense writes an expense row and its splits using the given transaction.
func insertExpense(ctx context.Context, tx pgx.Tx, expense domain.Expense) error {
	m, splits := mapping.ToModelExpense(expense)
	query := `INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`
	_, err := tx.Exec(ctx, query,
		m.ExpenseID,
		m.HouseholdID,
		m.Description,
		m.Category,
		m.TotalAmount,
		m.SplitKind,
		m.PaidBy,
		m.Status,
		m.ExpenseDate,
		m.ApprovedBy,
		m.SourcePaymentID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert expense "+m.ExpenseID, err)
	}
	return insertSplits(ctx, tx, splits)
}

func insertSplits(ctx context.Context, tx pgx.Tx, splits []models.ExpenseSplit) error {
	if len(splits) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `INSERT INTO expense_splits (expense_id, member_id, amount, position) VALUES ($1, $2, $3, $4);`
	for _, s := range splits {
		batch.Queue(query, s.ExpenseID, s.MemberID, s.Amount, s.Position)
	}
	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for range splits {
		if _, err := br.Exec(); err != nil {
			return apperrors.NewAppError(500, "failed to insert expense split", err)
		}
	}
	return nil
}

// insertInvoices writes generated invoices. A second generation for the same
// expense and member trips the unique index and surfaces as a conflict.
func insertInvoices(ctx context.Context, tx pgx.Tx, invoices []domain.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO invoices (invoice_id, household_id, member_id, expense_id, amount, description, status,
			payment_request_id, due_date, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	for _, inv := range invoices {
		m := mapping.ToModelInvoice(inv)
		batch.Queue(query,
			m.InvoiceID,
			m.HouseholdID,
			m.MemberID,
			m.ExpenseID,
			m.Amount,
			m.Description,
			m.Status,
			m.PaymentRequestID,
			m.DueDate,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for range invoices {
		if _, err := br.Exec(); err != nil {
			if isUniqueViolation(err) {
				return apperrors.NewAppError(409, "invoices already generated for expense", err)
			}
			return apperrors.NewAppError(500, "failed to insert invoice", err)
		}
	}
	return nil
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, householdID, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_id = $1 AND household_id = $2;`
	m, err := scanExpense(r.Pool.QueryRow(ctx, query, expenseID, householdID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}
	splits, err := loadSplits(ctx, r.Pool, []string{expenseID})
	if err != nil {
		return nil, err
	}
	expense := mapping.ToDomainExpense(m, splits[expenseID])
	return &expense, nil
}

func (r *PgxExpenseRepository) ListExpenses(ctx context.Context, filter portsrepo.ExpenseFilter) ([]domain.Expense, int, error) {
	conditions := []string{"household_id = $1"}
	args := []any{filter.HouseholdID}
	if filter.CreatedBy != "" {
		args = append(args, filter.CreatedBy)
		conditions = append(conditions, "created_by = $"+strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM expenses"+where+";", args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + expenseColumns + ` FROM expenses` + where +
		` ORDER BY created_at DESC, expense_id DESC` +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2) + `;`
	expenses, err := queryExpenses(ctx, r.Pool, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

func (r *PgxExpenseRepository) ListAllExpensesByHousehold(ctx context.Context, householdID string) ([]domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE household_id = $1 ORDER BY created_at, expense_id;`
	return queryExpenses(ctx, r.Pool, query, householdID)
}

// SaveExpense inserts the expense, its splits and any invoices born with it in one transaction.
func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense, invoices []domain.Invoice) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := insertExpense(ctx, tx, expense); err != nil {
			return err
		}
		return insertInvoices(ctx, tx, invoices)
	})
}

func (r *PgxExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense, expectedStatus domain.ExpenseStatus) error {
	m, splits := mapping.ToModelExpense(expense)
	return r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE expenses
			SET description = $1, category = $2, total_amount = $3, split_kind = $4, expense_date = $5,
				last_updated_at = $6, last_updated_by = $7
			WHERE expense_id = $8 AND household_id = $9 AND status = $10;
		`
		tag, err := tx.Exec(ctx, query,
			m.Description,
			m.Category,
			m.TotalAmount,
			m.SplitKind,
			m.ExpenseDate,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
			m.ExpenseID,
			m.HouseholdID,
			string(expectedStatus),
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to update expense "+m.ExpenseID, err)
		}
		if err := expectOneRow(tag, "expense "+m.ExpenseID+" is no longer "+string(expectedStatus)); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM expense_splits WHERE expense_id = $1;`, m.ExpenseID); err != nil {
			return apperrors.NewAppError(500, "failed to clear expense splits", err)
		}
		return insertSplits(ctx, tx, splits)
	})
}

func (r *PgxExpenseRepository) TransitionExpense(ctx context.Context, transition domain.ExpenseTransition) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE expenses
			SET status = $1, approved_by = $2, last_updated_at = $3, last_updated_by = $2
			WHERE expense_id = $4 AND household_id = $5 AND status = $6;
		`
		tag, err := tx.Exec(ctx, query,
			string(transition.To),
			transition.ActorID,
			transition.At,
			transition.ExpenseID,
			transition.HouseholdID,
			string(transition.From),
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to transition expense "+transition.ExpenseID, err)
		}
		if err := expectOneRow(tag, "expense "+transition.ExpenseID+" is no longer "+string(transition.From)); err != nil {
			return err
		}
		return insertInvoices(ctx, tx, transition.Invoices)
	})
}

// DeleteExpense hard-deletes the expense. Splits and invoices cascade; pending
// payments spawned by those invoices are rejected first.
func (r *PgxExpenseRepository) DeleteExpense(ctx context.Context, householdID, expenseID, actorID string, at time.Time) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		rejectQuery := `
			UPDATE payments
			SET status = 'rejected', approved_by = $1, last_updated_at = $2, last_updated_by = $1
			WHERE status = 'pending' AND invoice_id IN (
				SELECT invoice_id FROM invoices WHERE expense_id = $3 AND household_id = $4
			);
		`
		if _, err := tx.Exec(ctx, rejectQuery, actorID, at, expenseID, householdID); err != nil {
			return apperrors.NewAppError(500, "failed to reject pending invoice payments", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM expenses WHERE expense_id = $1 AND household_id = $2;`, expenseID, householdID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to delete expense "+expenseID, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}
