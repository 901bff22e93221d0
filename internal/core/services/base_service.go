package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/SscSPs/household_ledger/internal/middleware"
	"github.com/google/uuid"
)

// TransitionRecorder is notified after every committed lifecycle transition.
type TransitionRecorder interface {
	Transition(entity, from, to string)
}

// BaseService provides common functionality for all services
type BaseService struct {
	clock           func() time.Time
	newID           func() string
	recorder        TransitionRecorder
	defaultCategory string
	invoiceDueDays  int
}

// ServiceOption is a functional option shared by all services
type ServiceOption func(*BaseService)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.clock = clock
	}
}

// WithIDGenerator overrides how entity ids are minted.
func WithIDGenerator(newID func() string) ServiceOption {
	return func(s *BaseService) {
		s.newID = newID
	}
}

// WithTransitionRecorder adds a recorder for lifecycle transitions
func WithTransitionRecorder(recorder TransitionRecorder) ServiceOption {
	return func(s *BaseService) {
		s.recorder = recorder
	}
}

// WithDefaultCategory sets the category applied when none is given and to synthesized expenses.
func WithDefaultCategory(category string) ServiceOption {
	return func(s *BaseService) {
		if category != "" {
			s.defaultCategory = category
		}
	}
}

// WithInvoiceDueDays gives generated invoices a due date this many days after approval. Zero disables it.
func WithInvoiceDueDays(days int) ServiceOption {
	return func(s *BaseService) {
		s.invoiceDueDays = days
	}
}

func newBaseService(options ...ServiceOption) BaseService {
	base := BaseService{
		clock:           func() time.Time { return time.Now().UTC() },
		newID:           uuid.NewString,
		defaultCategory: domain.DefaultExpenseCategory,
	}
	for _, option := range options {
		option(&base)
	}
	return base
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

func (s *BaseService) now() time.Time {
	return s.clock()
}

func (s *BaseService) recordTransition(entity, from, to string) {
	if s.recorder != nil {
		s.recorder.Transition(entity, from, to)
	}
}

// invoiceDueDate returns the due date for invoices generated at approvedAt, if configured.
func (s *BaseService) invoiceDueDate(approvedAt time.Time) *time.Time {
	if s.invoiceDueDays <= 0 {
		return nil
	}
	due := approvedAt.AddDate(0, 0, s.invoiceDueDays)
	return &due
}

// requireAdmin returns ErrForbidden unless the actor is a household admin.
func (s *BaseService) requireAdmin(ctx context.Context, actor domain.Actor, action string) error {
	if actor.IsAdmin() {
		return nil
	}
	s.GetLogger(ctx).Warn("Admin action attempted by non-admin",
		slog.String("action", action),
		slog.String("member_id", actor.MemberID))
	return fmt.Errorf("%w: only an admin may %s", apperrors.ErrForbidden, action)
}

// activeMemberSet indexes members by id.
func activeMemberSet(members []domain.Member) map[string]domain.Member {
	set := make(map[string]domain.Member, len(members))
	for _, m := range members {
		if m.IsActive {
			set[m.MemberID] = m
		}
	}
	return set
}
