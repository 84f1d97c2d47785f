package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"interview-prep-subscription/internal/domain"
	"interview-prep-subscription/internal/domain/model"
	"interview-prep-subscription/internal/infra/logging"
	"interview-prep-subscription/internal/infra/metrics"
)

const handlerTimeout = 15 * time.Second

type orderRequest struct {
	BillingCycle string `json:"billingCycle" validate:"required,oneof=monthly yearly"`
	UserID       string `json:"userId"`
}

type orderResponse struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

// verifyRequest deliberately has no plan or amount field: everything the
// confirmation needs derives from the stored payment record. Field names
// follow the gateway's client-SDK convention.
type verifyRequest struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

type verifyResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ExpiresAt string `json:"expiresAt"`
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	log := logging.With(ctx, s.log)

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.IncOrder("fail", "bad_json")
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		metrics.IncOrder("fail", "invalid_cycle")
		writeError(w, http.StatusBadRequest, "Invalid billing cycle. Must be 'monthly' or 'yearly'.")
		return
	}
	cycle, err := model.ParseBillingCycle(req.BillingCycle)
	if err != nil {
		metrics.IncOrder("fail", "invalid_cycle")
		writeError(w, http.StatusBadRequest, "Invalid billing cycle. Must be 'monthly' or 'yearly'.")
		return
	}

	// A verified bearer identity wins over the body field.
	userID := authUserID(ctx)
	if userID == "" {
		userID = req.UserID
	}

	res, err := s.orderUC.Initiate(ctx, userID, cycle)
	if err != nil {
		status, msg, reason := orderErrorStatus(err)
		metrics.IncOrder("fail", reason)
		if status >= http.StatusInternalServerError {
			log.Error().Err(err).Msg("order initiation failed")
		}
		writeError(w, status, msg)
		return
	}

	metrics.IncOrder("ok", "")
	writeJSON(w, http.StatusOK, orderResponse{
		OrderID:  res.OrderID,
		Amount:   res.AmountMinor,
		Currency: res.Currency,
		KeyID:    res.KeyID,
	})
}

func (s *Server) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()
	log := logging.With(ctx, s.log)

	result := "fail"
	defer func() {
		metrics.ObserveVerifyDuration(result, time.Since(start).Seconds())
	}()

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.IncVerify("fail", "bad_json")
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		metrics.IncVerify("fail", "missing_field")
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	expiresAt, err := s.confirmUC.Confirm(ctx, req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		status, msg, reason := verifyErrorStatus(err)
		metrics.IncVerify("fail", reason)
		if status >= http.StatusInternalServerError {
			log.Error().Err(err).Str("order_id", req.OrderID).Msg("payment verification failed")
		}
		writeError(w, status, msg)
		return
	}

	result = "ok"
	metrics.IncVerify("ok", "")
	writeJSON(w, http.StatusOK, verifyResponse{
		Success:   true,
		Message:   "Payment verified and subscription activated",
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	})
}

type planView struct {
	BillingCycle   string   `json:"billingCycle"`
	Amount         int64    `json:"amount"`
	Currency       string   `json:"currency"`
	DurationMonths int      `json:"durationMonths"`
	Features       []string `json:"features"`
}

func (s *Server) handleListPlans(w http.ResponseWriter, _ *http.Request) {
	plans := s.catalog.List()
	out := make([]planView, 0, len(plans))
	for _, p := range plans {
		out = append(out, planView{
			BillingCycle:   string(p.Cycle),
			Amount:         p.AmountMinor,
			Currency:       p.Currency,
			DurationMonths: p.DurationMonths,
			Features:       p.Features,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func orderErrorStatus(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrNotConfigured):
		return http.StatusServiceUnavailable, "Payment service not configured. Please contact support.", "not_configured"
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "Please login to continue", "unauthenticated"
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest, "Plan configuration not found for this cycle", "invalid_cycle"
	case errors.Is(err, domain.ErrAlreadySubscribed):
		return http.StatusConflict, "You already have an active Pro subscription.", "already_subscribed"
	case errors.Is(err, domain.ErrGateway):
		return http.StatusInternalServerError, err.Error(), "gateway_error"
	default:
		return http.StatusInternalServerError, "Failed to create order", "unknown"
	}
}

func verifyErrorStatus(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrNotConfigured):
		return http.StatusServiceUnavailable, "Payment service not configured", "not_configured"
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest, "Invalid request data", "missing_field"
	case errors.Is(err, domain.ErrInvalidSignature):
		return http.StatusBadRequest, "Invalid payment signature", "bad_signature"
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, "Payment record not found", "order_not_found"
	case errors.Is(err, domain.ErrPlanConfigMissing):
		return http.StatusInternalServerError, "Invalid plan configuration detected. Please contact support.", "plan_config_missing"
	case errors.Is(err, domain.ErrSubscriptionUpdateFailed):
		return http.StatusInternalServerError, "Failed to update subscription", "subscription_update_failed"
	default:
		return http.StatusInternalServerError, "Failed to verify payment", "unknown"
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
