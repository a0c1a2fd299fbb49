package httpx

import (
	"encoding/json"
	"net/http"

	"ipspay/internal/config"
	"ipspay/internal/http/handlers"
	middlewarex "ipspay/internal/http/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the lifecycle service to its HTTP surface.
func NewRouter(cfg config.Cfg, svc handlers.PaymentService) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
	})

	// Admin surface: manual settlement and sweep.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middlewarex.AdminAuth(cfg))
		r.Post("/payments/verify", handlers.VerifyPayment(svc))
		r.Post("/payments/sweep", handlers.SweepExpiredPayments(svc))
	})

	// Caller surface: creation and listing.
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/payments", handlers.ListPayments(svc))
		r.Post("/payments", handlers.CreatePayment(svc))
		r.Post("/payments/subscription", handlers.CreateSubscriptionPayment(svc))
		r.Post("/payments/topup", handlers.CreateTopUpPayment(svc))
		r.Post("/payments/contact-reveal", handlers.CreateContactRevealPayment(svc))
		r.Post("/payments/priority", handlers.CreatePriorityPayment(svc))
		r.Post("/payments/urgent", handlers.CreateUrgentPayment(svc))
	})

	return r
}
