package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/SscSPs/household_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// expenseHandler handles HTTP requests related to expenses.
type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

// newExpenseHandler creates a new expenseHandler.
func newExpenseHandler(es portssvc.ExpenseSvcFacade) *expenseHandler {
	return &expenseHandler{
		expenseService: es,
	}
}

// registerExpenseRoutes registers routes related to expenses.
func registerExpenseRoutes(rg *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade) {
	h := newExpenseHandler(expenseService)
	admin := middleware.RequireAdmin()

	expenses := rg.Group("/expenses")
	{
		expenses.GET("", h.listExpenses)
		expenses.POST("", h.createExpense)
		expenses.GET("/:id", h.getExpense)
		expenses.PUT("/:id", admin, h.updateExpense)
		expenses.DELETE("/:id", admin, h.deleteExpense)
		expenses.PUT("/:id/approve", admin, h.approveExpense)
		expenses.PUT("/:id/reject", admin, h.rejectExpense)
	}
}

// listExpenses godoc
// @Summary List household expenses
// @Description Retrieves a page of the household's expenses, newest first
// @Tags expenses
// @Produce  json
// @Param   page query int false "Page number" default(1)
// @Param   limit query int false "Page size" default(20)
// @Param   createdBy query string false "Only expenses created by this member"
// @Param   status query string false "pending, approved or rejected"
// @Success 200 {object} dto.ListExpensesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list expenses"
// @Security BearerAuth
// @Router /expenses [get]
func (h *expenseHandler) listExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	var params dto.ListExpensesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListExpenses", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	expenses, total, err := h.expenseService.ListExpenses(c.Request.Context(), actor, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list expenses")
		return
	}

	c.JSON(http.StatusOK, dto.ToListExpensesResponse(expenses, params.Page, params.Limit, total))
}

// getExpense godoc
// @Summary Get an expense by ID
// @Tags expenses
// @Produce  json
// @Param   id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 500 {object} map[string]string "Failed to retrieve expense"
// @Security BearerAuth
// @Router /expenses/{id} [get]
func (h *expenseHandler) getExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("expense_id", c.Param("id")))
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	expense, err := h.expenseService.GetExpense(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve expense")
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// createExpense godoc
// @Summary Log a new expense
// @Description Members log pending expenses. Expenses logged by an admin are approved immediately and their invoices returned.
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   expense body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} dto.ApproveExpenseResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Only admins may log on behalf of another member"
// @Failure 500 {object} map[string]string "Failed to create expense"
// @Security BearerAuth
// @Router /expenses [post]
func (h *expenseHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to create expense", slog.String("split_kind", string(req.SplitKind)), slog.String("total", req.TotalAmount.String()))
	expense, invoices, err := h.expenseService.CreateExpense(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create expense")
		return
	}

	logger.Info("Expense created successfully", slog.String("expense_id", expense.ExpenseID), slog.Int("invoices", len(invoices)))
	c.JSON(http.StatusCreated, dto.ApproveExpenseResponse{
		Expense:  dto.ToExpenseResponse(expense),
		Invoices: dto.ToInvoiceResponses(invoices),
	})
}

// approveExpense godoc
// @Summary Approve a pending expense
// @Description Approves the expense and generates one invoice per non-payer split
// @Tags expenses
// @Produce  json
// @Param   id path string true "Expense ID"
// @Success 200 {object} dto.ApproveExpenseResponse
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 409 {object} map[string]string "Expense is not pending"
// @Failure 500 {object} map[string]string "Failed to approve expense"
// @Security BearerAuth
// @Router /expenses/{id}/approve [put]
func (h *expenseHandler) approveExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("expense_id", c.Param("id")))
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	expense, invoices, err := h.expenseService.ApproveExpense(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to approve expense")
		return
	}

	logger.Info("Expense approved", slog.Int("invoices", len(invoices)))
	c.JSON(http.StatusOK, dto.ApproveExpenseResponse{
		Expense:  dto.ToExpenseResponse(expense),
		Invoices: dto.ToInvoiceResponses(invoices),
	})
}

// rejectExpense godoc
// @Summary Reject a pending expense
// @Tags expenses
// @Produce  json
// @Param   id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 409 {object} map[string]string "Expense is not pending"
// @Failure 500 {object} map[string]string "Failed to reject expense"
// @Security BearerAuth
// @Router /expenses/{id}/reject [put]
func (h *expenseHandler) rejectExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("expense_id", c.Param("id")))
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	expense, err := h.expenseService.RejectExpense(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to reject expense")
		return
	}
	logger.Info("Expense rejected")
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// updateExpense godoc
// @Summary Update an expense
// @Description Edits an expense. Changing the amount or division recomputes the splits.
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   id path string true "Expense ID"
// @Param   expense body dto.UpdateExpenseRequest true "Fields to change"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 409 {object} map[string]string "Expense changed concurrently"
// @Failure 500 {object} map[string]string "Failed to update expense"
// @Security BearerAuth
// @Router /expenses/{id} [put]
func (h *expenseHandler) updateExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("expense_id", c.Param("id")))
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	var req dto.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update expense")
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// deleteExpense godoc
// @Summary Delete an expense
// @Description Deletes the expense together with its invoices
// @Tags expenses
// @Param   id path string true "Expense ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 500 {object} map[string]string "Failed to delete expense"
// @Security BearerAuth
// @Router /expenses/{id} [delete]
func (h *expenseHandler) deleteExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("expense_id", c.Param("id")))
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	if err := h.expenseService.DeleteExpense(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondWithError(c, logger, err, "Failed to delete expense")
		return
	}
	logger.Info("Expense deleted")
	c.Status(http.StatusNoContent)
}
