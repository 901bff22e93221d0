package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/SscSPs/household_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// invoiceHandler handles HTTP requests related to invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

func newInvoiceHandler(is portssvc.InvoiceSvcFacade) *invoiceHandler {
	return &invoiceHandler{
		invoiceService: is,
	}
}

// registerInvoiceRoutes registers routes related to invoices.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade) {
	h := newInvoiceHandler(invoiceService)
	admin := middleware.RequireAdmin()

	invoices := rg.Group("/invoices")
	{
		invoices.GET("/my-invoices", h.listMyInvoices)
		invoices.GET("/all", admin, h.listAllInvoices)
		invoices.GET("/:id", h.getInvoice)
		invoices.POST("/:id/pay", h.payInvoice)
		invoices.PUT("/:id/approve", admin, h.approveInvoicePayment)
		invoices.PUT("/:id/reject", admin, h.rejectInvoicePayment)
	}
}

// listMyInvoices godoc
// @Summary List my invoices
// @Tags invoices
// @Produce  json
// @Param   status query string false "pending, awaiting_approval or paid"
// @Param   expenseId query string false "Only invoices of this expense"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list invoices"
// @Security BearerAuth
// @Router /invoices/my-invoices [get]
func (h *invoiceHandler) listMyInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListMyInvoices", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	invoices, err := h.invoiceService.ListMyInvoices(c.Request.Context(), actor, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list invoices")
		return
	}
	c.JSON(http.StatusOK, dto.ListInvoicesResponse{Invoices: dto.ToInvoiceResponses(invoices)})
}

// listAllInvoices godoc
// @Summary List all household invoices
// @Tags invoices
// @Produce  json
// @Param   status query string false "pending, awaiting_approval or paid"
// @Param   expenseId query string false "Only invoices of this expense"
// @Param   memberId query string false "Only invoices owed by this member"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 500 {object} map[string]string "Failed to list invoices"
// @Security BearerAuth
// @Router /invoices/all [get]
func (h *invoiceHandler) listAllInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListAllInvoices", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	invoices, err := h.invoiceService.ListAllInvoices(c.Request.Context(), actor, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list invoices")
		return
	}
	c.JSON(http.StatusOK, dto.ListInvoicesResponse{Invoices: dto.ToInvoiceResponses(invoices)})
}

// getInvoice godoc
// @Summary Get an invoice by ID
// @Description Visible to the member who owes it and to admins
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 403 {object} map[string]string "Not your invoice"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 500 {object} map[string]string "Failed to retrieve invoice"
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("invoice_id", c.Param("id")))
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// payInvoice godoc
// @Summary Pay one of my invoices
// @Description Records a pending payment for the invoice and moves it to awaiting_approval
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Param   payment body dto.PayInvoiceRequest false "Optional note"
// @Success 201 {object} dto.PayInvoiceResponse
// @Failure 403 {object} map[string]string "Not your invoice"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Invoice is not pending"
// @Failure 500 {object} map[string]string "Failed to pay invoice"
// @Security BearerAuth
// @Router /invoices/{id}/pay [post]
func (h *invoiceHandler) payInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("invoice_id", c.Param("id")))
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	var req dto.PayInvoiceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for PayInvoice", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	invoice, payment, err := h.invoiceService.PayInvoice(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to pay invoice")
		return
	}

	logger.Info("Invoice paid, awaiting approval", slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusCreated, dto.PayInvoiceResponse{
		Invoice: dto.ToInvoiceResponse(invoice),
		Payment: dto.ToPaymentResponse(payment),
	})
}

// approveInvoicePayment godoc
// @Summary Approve an invoice payment
// @Description Marks the invoice paid and approves the payment that settled it
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Invoice is not awaiting approval"
// @Failure 500 {object} map[string]string "Failed to approve invoice payment"
// @Security BearerAuth
// @Router /invoices/{id}/approve [put]
func (h *invoiceHandler) approveInvoicePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("invoice_id", c.Param("id")))
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.ApproveInvoicePayment(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to approve invoice payment")
		return
	}
	logger.Info("Invoice payment approved")
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// rejectInvoicePayment godoc
// @Summary Reject an invoice payment
// @Description Rejects the pending payment and reopens the invoice
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Param   reason body dto.RejectInvoicePaymentRequest false "Rejection reason"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Invoice is not awaiting approval"
// @Failure 500 {object} map[string]string "Failed to reject invoice payment"
// @Security BearerAuth
// @Router /invoices/{id}/reject [put]
func (h *invoiceHandler) rejectInvoicePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("invoice_id", c.Param("id")))
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	var req dto.RejectInvoicePaymentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for RejectInvoicePayment", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	invoice, err := h.invoiceService.RejectInvoicePayment(c.Request.Context(), actor, c.Param("id"), req.Reason)
	if err != nil {
		respondWithError(c, logger, err, "Failed to reject invoice payment")
		return
	}
	logger.Info("Invoice payment rejected")
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}
