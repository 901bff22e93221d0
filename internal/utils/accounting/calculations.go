package accounting

import (
	"fmt"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SplitTolerance is the largest allowed gap between an expense total and the sum of its splits.
var SplitTolerance = decimal.New(1, -2)

var cent = decimal.New(1, -2)

// SplitInput is everything the calculator needs to divide an expense.
type SplitInput struct {
	Total         decimal.Decimal
	Kind          domain.SplitKind
	ActiveMembers []string       // household members active right now, used by equal splits
	Participants  []string       // explicit subset, used by specific splits
	Custom        []domain.Split // verbatim amounts, used by custom splits
}

// CalculateSplits turns an expense definition into per-member shares.
// It does not validate the sum; callers run ValidateSplits before persisting.
func CalculateSplits(in SplitInput) ([]domain.Split, error) {
	switch in.Kind {
	case domain.SplitEqual:
		return EvenSplit(in.Total, in.ActiveMembers)
	case domain.SplitSpecific:
		return EvenSplit(in.Total, in.Participants)
	case domain.SplitCustom:
		if len(in.Custom) == 0 {
			return nil, fmt.Errorf("%w: custom split requires at least one participant", apperrors.ErrValidation)
		}
		splits := make([]domain.Split, len(in.Custom))
		copy(splits, in.Custom)
		return splits, nil
	default:
		return nil, fmt.Errorf("%w: unknown split kind '%s'", apperrors.ErrValidation, in.Kind)
	}
}

// EvenSplit divides total across members in whole cents. Leftover cents go to the
// first members in order, so every share is within one cent of total/N and the
// shares add up to total exactly.
func EvenSplit(total decimal.Decimal, members []string) ([]domain.Split, error) {
	n := len(members)
	if n == 0 {
		return nil, fmt.Errorf("%w: cannot split an expense across zero participants", apperrors.ErrValidation)
	}
	count := decimal.NewFromInt(int64(n))
	base := total.Div(count).Truncate(2)
	remainder := total.Sub(base.Mul(count))

	splits := make([]domain.Split, n)
	for i, memberID := range members {
		amount := base
		if remainder.GreaterThanOrEqual(cent) {
			amount = amount.Add(cent)
			remainder = remainder.Sub(cent)
		}
		splits[i] = domain.Split{MemberID: memberID, Amount: amount}
	}
	// Sub-cent dust only exists when total carries more than two decimals.
	if !remainder.IsZero() {
		splits[0].Amount = splits[0].Amount.Add(remainder)
	}
	return splits, nil
}

// SumSplits adds up split amounts.
func SumSplits(splits []domain.Split) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range splits {
		sum = sum.Add(s.Amount)
	}
	return sum
}

// ValidateSplits enforces the expense invariants: non-negative distinct shares whose
// sum matches total within SplitTolerance.
func ValidateSplits(total decimal.Decimal, splits []domain.Split) error {
	if total.IsNegative() {
		return fmt.Errorf("%w: total amount must not be negative", apperrors.ErrValidation)
	}
	if len(splits) == 0 {
		return fmt.Errorf("%w: expense must have at least one split", apperrors.ErrValidation)
	}
	seen := make(map[string]bool, len(splits))
	for _, s := range splits {
		if s.MemberID == "" {
			return fmt.Errorf("%w: split is missing a member", apperrors.ErrValidation)
		}
		if seen[s.MemberID] {
			return fmt.Errorf("%w: member %s appears in more than one split", apperrors.ErrValidation, s.MemberID)
		}
		seen[s.MemberID] = true
		if s.Amount.IsNegative() {
			return fmt.Errorf("%w: split amount for member %s must not be negative", apperrors.ErrValidation, s.MemberID)
		}
	}
	sum := SumSplits(splits)
	if sum.Sub(total).Abs().GreaterThan(SplitTolerance) {
		return fmt.Errorf("%w: splits sum to %s but total is %s", apperrors.ErrValidation, sum.StringFixed(2), total.StringFixed(2))
	}
	return nil
}
