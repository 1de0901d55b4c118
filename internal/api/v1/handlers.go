package apiv1

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sevakart/payments/app/models"
	"github.com/sevakart/payments/internal/pkg/database"
	"github.com/sevakart/payments/internal/pkg/metrics/counter"
)

// APIServer implements the read-side admin API. The lookup funcs default to
// the shared DB and Redis wiring; tests swap them out.
type APIServer struct {
	listTransactions func(referenceID string) ([]models.PaymentTransaction, error)
	snapshotCounters func() ([]counter.Entry, error)
}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{
		listTransactions: func(referenceID string) ([]models.PaymentTransaction, error) {
			return models.ListPaymentTransactionsByReference(database.GetDB(), referenceID)
		},
		snapshotCounters: counter.Snapshot,
	}
}

// Pong is the ping response body.
type Pong struct {
	Ping string `json:"ping"`
}

// RegisterHandlers attaches the v1 routes. Everything except ping sits
// behind the admin key middleware.
func RegisterHandlers(r fiber.Router, s *APIServer, adminAuth fiber.Handler) {
	r.Get("/ping", s.GetPing)
	r.Get("/transactions/:reference?", adminAuth, s.GetTransactions)
	r.Get("/stats", adminAuth, s.GetStats)
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// GetTransactions returns the ledger rows recorded for a reference id,
// newest first.
func (s *APIServer) GetTransactions(c *fiber.Ctx) error {
	reference := strings.TrimSpace(c.Params("reference"))
	if reference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "reference missing"})
	}

	rows, err := s.listTransactions(reference)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Transaction lookup failed"})
	}
	return c.JSON(fiber.Map{"reference_id": reference, "items": rows})
}

// GetStats returns the per-gateway webhook counters.
func (s *APIServer) GetStats(c *fiber.Ctx) error {
	entries, err := s.snapshotCounters()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Counter snapshot failed"})
	}
	return c.JSON(fiber.Map{"counters": entries})
}
