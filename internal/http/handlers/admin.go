package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

// VerifyPayment settles a pending payment by reference. All three
// administrative outcomes (ok, not_found, already_settled) come back
// as a structured 200 so the admin UI can render each distinctly.
func VerifyPayment(svc PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Reference string `json:"reference"`
			AdminID   int64  `json:"adminId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Reference) == "" || req.AdminID <= 0 {
			http.Error(w, "reference and adminId are required", http.StatusBadRequest)
			return
		}

		res, err := svc.Verify(r.Context(), req.Reference, req.AdminID)
		if err != nil {
			http.Error(w, "verification failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// SweepExpiredPayments triggers a sweep outside the worker schedule.
func SweepExpiredPayments(svc PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.SweepExpired(r.Context())
		if err != nil {
			http.Error(w, "sweep failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"expired": n})
	}
}
