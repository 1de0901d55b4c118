package router

import (
	"github.com/sevakart/payments/app/controllers"

	"github.com/gofiber/fiber/v2"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	app.Get("/healthz", controllers.HandleHealthCheck)

	// Provider payment webhooks (no CSRF, signature-verified in controller).
	// Registered for all methods so the dispatcher owns preflight and 405
	// handling and every response carries a requestId.
	app.All("/webhooks/payment", controllers.HandlePaymentWebhook)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
