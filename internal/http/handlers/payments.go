package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"ipspay/internal/domain/payment"
	"ipspay/internal/domain/plan"
	paymentsvc "ipspay/internal/services/payment"
)

// PaymentService is the slice of the lifecycle service the HTTP surface
// consumes.
type PaymentService interface {
	Create(ctx context.Context, userID int64, typ payment.Type, amount payment.Money, purpose, reference string) (*paymentsvc.CreationResult, error)
	CreateSubscription(ctx context.Context, userID int64, planCode string) (*paymentsvc.CreationResult, error)
	CreateTopUp(ctx context.Context, userID int64, amount payment.Money) (*paymentsvc.CreationResult, error)
	CreateContactReveal(ctx context.Context, userID, matchID int64, amount payment.Money) (*paymentsvc.CreationResult, error)
	CreatePriority(ctx context.Context, userID, serviceRequestID int64, amount payment.Money) (*paymentsvc.CreationResult, error)
	CreateUrgent(ctx context.Context, userID, serviceRequestID int64, amount payment.Money) (*paymentsvc.CreationResult, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*payment.Payment, error)
	Verify(ctx context.Context, reference string, adminID int64) (*paymentsvc.VerificationResult, error)
	SweepExpired(ctx context.Context) (int64, error)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeCreation(w http.ResponseWriter, res *paymentsvc.CreationResult, err error) {
	switch {
	case errors.Is(err, payment.ErrInvalidRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, plan.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case err != nil:
		http.Error(w, "internal error", http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusCreated, res)
	}
}

// CreatePayment handles the generic creation call. Amounts decode into
// an integer field, so fractional amounts are rejected at the boundary
// before any protocol encoding.
func CreatePayment(svc PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID    int64  `json:"userId"`
			Type      string `json:"type"`
			Amount    int64  `json:"amount"`
			Purpose   string `json:"purpose"`
			Reference string `json:"reference,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		res, err := svc.Create(r.Context(), req.UserID, payment.Type(req.Type), payment.Money(req.Amount), req.Purpose, req.Reference)
		writeCreation(w, res, err)
	}
}

func CreateSubscriptionPayment(svc PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID   int64  `json:"userId"`
			PlanCode string `json:"planCode"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		res, err := svc.CreateSubscription(r.Context(), req.UserID, req.PlanCode)
		writeCreation(w, res, err)
	}
}

func CreateTopUpPayment(svc PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID int64 `json:"userId"`
			Amount int64 `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		res, err := svc.CreateTopUp(r.Context(), req.UserID, payment.Money(req.Amount))
		writeCreation(w, res, err)
	}
}

func CreateContactRevealPayment(svc PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID  int64 `json:"userId"`
			MatchID int64 `json:"matchId"`
			Amount  int64 `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		res, err := svc.CreateContactReveal(r.Context(), req.UserID, req.MatchID, payment.Money(req.Amount))
		writeCreation(w, res, err)
	}
}

func CreatePriorityPayment(svc PaymentService) http.HandlerFunc {
	return serviceRequestPayment(svc.CreatePriority)
}

func CreateUrgentPayment(svc PaymentService) http.HandlerFunc {
	return serviceRequestPayment(svc.CreateUrgent)
}

func serviceRequestPayment(create func(ctx context.Context, userID, serviceRequestID int64, amount payment.Money) (*paymentsvc.CreationResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID           int64 `json:"userId"`
			ServiceRequestID int64 `json:"serviceRequestId"`
			Amount           int64 `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		res, err := create(r.Context(), req.UserID, req.ServiceRequestID, payment.Money(req.Amount))
		writeCreation(w, res, err)
	}
}

func ListPayments(svc PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
		if err != nil || userID <= 0 {
			http.Error(w, "userId is required", http.StatusBadRequest)
			return
		}
		limit := 50
		offset := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
				limit = n
			}
		}
		if v := r.URL.Query().Get("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				offset = n
			}
		}
		rows, err := svc.ListByUser(r.Context(), userID, limit, offset)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": rows})
	}
}
