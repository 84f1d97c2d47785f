package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"interview-prep-subscription/internal/plan"
	"interview-prep-subscription/internal/usecase"
)

// Server wires the purchase endpoints to their use cases.
type Server struct {
	orderUC    usecase.OrderUseCase
	confirmUC  usecase.ConfirmUseCase
	catalog    *plan.Catalog
	validate   *validator.Validate
	authSecret []byte
	log        *zerolog.Logger
}

func NewServer(
	orderUC usecase.OrderUseCase,
	confirmUC usecase.ConfirmUseCase,
	catalog *plan.Catalog,
	authSecret string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		orderUC:    orderUC,
		confirmUC:  confirmUC,
		catalog:    catalog,
		validate:   validator.New(),
		authSecret: []byte(authSecret),
		log:        logger,
	}
}

// Routes builds the router. /order and /verify form the boundary consumed by
// the UI layer; /plans feeds the pricing page; /health and /metrics are
// operational.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.traceMiddleware)
	r.Use(s.requestLogger)
	r.Use(s.authMiddleware)

	r.Post("/order", s.handleCreateOrder)
	r.Post("/verify", s.handleVerifyPayment)
	r.Get("/plans", s.handleListPlans)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
