package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/SscSPs/household_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// paymentHandler handles HTTP requests related to payments.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPaymentHandler(ps portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{
		paymentService: ps,
	}
}

// registerPaymentRoutes registers routes related to payments.
func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)
	admin := middleware.RequireAdmin()

	payments := rg.Group("/payments")
	{
		payments.GET("", h.listPayments)
		payments.POST("", h.createPayment)
		payments.GET("/:id", h.getPayment)
		payments.PUT("/:id", h.updatePayment)
		payments.DELETE("/:id", h.deletePayment)
		payments.PUT("/:id/approve", admin, h.approvePayment)
		payments.PUT("/:id/reject", admin, h.rejectPayment)
	}
}

// listPayments godoc
// @Summary List payments
// @Description Members see their own payments, admins the whole household. Paginated by token.
// @Tags payments
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Param   status query string false "pending, approved or rejected"
// @Param   kind query string false "payment or received"
// @Param   memberId query string false "Admins only: filter by member"
// @Success 200 {object} dto.ListPaymentsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list payments"
// @Security BearerAuth
// @Router /payments [get]
func (h *paymentHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	var params dto.ListPaymentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListPayments", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	payments, nextToken, err := h.paymentService.ListPayments(c.Request.Context(), actor, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list payments")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPaymentsResponse(payments, nextToken))
}

// getPayment godoc
// @Summary Get a payment by ID
// @Tags payments
// @Produce  json
// @Param   id path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 403 {object} map[string]string "Not your payment"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 500 {object} map[string]string "Failed to retrieve payment"
// @Security BearerAuth
// @Router /payments/{id} [get]
func (h *paymentHandler) getPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("payment_id", c.Param("id")))
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// createPayment godoc
// @Summary Record a standalone payment
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   payment body dto.CreatePaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 403 {object} map[string]string "Only admins may record for another member"
// @Failure 500 {object} map[string]string "Failed to create payment"
// @Security BearerAuth
// @Router /payments [post]
func (h *paymentHandler) createPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create payment")
		return
	}
	logger.Info("Payment recorded", slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
}

// updatePayment godoc
// @Summary Update a pending payment
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   id path string true "Payment ID"
// @Param   payment body dto.UpdatePaymentRequest true "Fields to change"
// @Success 200 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 403 {object} map[string]string "Not your payment"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 409 {object} map[string]string "Payment is no longer pending"
// @Failure 500 {object} map[string]string "Failed to update payment"
// @Security BearerAuth
// @Router /payments/{id} [put]
func (h *paymentHandler) updatePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("payment_id", c.Param("id")))
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	var req dto.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdatePayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	payment, err := h.paymentService.UpdatePayment(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// deletePayment godoc
// @Summary Delete a payment
// @Tags payments
// @Param   id path string true "Payment ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Not your payment"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 409 {object} map[string]string "Payment is no longer pending"
// @Failure 500 {object} map[string]string "Failed to delete payment"
// @Security BearerAuth
// @Router /payments/{id} [delete]
func (h *paymentHandler) deletePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("payment_id", c.Param("id")))
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	if err := h.paymentService.DeletePayment(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondWithError(c, logger, err, "Failed to delete payment")
		return
	}
	logger.Info("Payment deleted")
	c.Status(http.StatusNoContent)
}

// approvePayment godoc
// @Summary Approve a pending payment
// @Description Standalone payments of kind payment also produce an approved expense split across active members
// @Tags payments
// @Produce  json
// @Param   id path string true "Payment ID"
// @Success 200 {object} dto.ApprovePaymentResponse
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 409 {object} map[string]string "Payment is not pending"
// @Failure 500 {object} map[string]string "Failed to approve payment"
// @Security BearerAuth
// @Router /payments/{id}/approve [put]
func (h *paymentHandler) approvePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("payment_id", c.Param("id")))
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	payment, expense, err := h.paymentService.ApprovePayment(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to approve payment")
		return
	}

	resp := dto.ApprovePaymentResponse{Payment: dto.ToPaymentResponse(payment)}
	if expense != nil {
		er := dto.ToExpenseResponse(expense)
		resp.Expense = &er
	}
	logger.Info("Payment approved")
	c.JSON(http.StatusOK, resp)
}

// rejectPayment godoc
// @Summary Reject a pending payment
// @Tags payments
// @Produce  json
// @Param   id path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 409 {object} map[string]string "Payment is not pending"
// @Failure 500 {object} map[string]string "Failed to reject payment"
// @Security BearerAuth
// @Router /payments/{id}/reject [put]
func (h *paymentHandler) rejectPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("payment_id", c.Param("id")))
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	payment, err := h.paymentService.RejectPayment(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to reject payment")
		return
	}
	logger.Info("Payment rejected")
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}
