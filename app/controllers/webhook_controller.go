package controllers

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/sevakart/payments/internal/pkg/database"
	"github.com/sevakart/payments/internal/pkg/env"
	"github.com/sevakart/payments/internal/pkg/metrics/counter"
	"github.com/sevakart/payments/internal/pkg/payment"
)

const (
	headerRazorpaySignature = "X-Razorpay-Signature"
	headerRazorpayEventID   = "X-Razorpay-Event-Id"
)

// HandlePaymentWebhook is the single entry point for provider payment
// webhooks. Gateway selection is via the `type` query parameter, default
// razorpay. Providers retry on non-2xx, so every recognized event acks 200;
// only bad signatures and malformed routing/payloads return 4xx.
func HandlePaymentWebhook(c *fiber.Ctx) (err error) {
	requestID := uuid.NewString()
	c.Set("X-Request-ID", requestID)

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[%s] payment webhook panic: %v", requestID, r)
			err = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":     "internal_server_error",
				"requestId": requestID,
			})
		}
	}()

	setWebhookCORSHeaders(c)
	switch c.Method() {
	case fiber.MethodOptions:
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"requestId": requestID})
	case fiber.MethodPost:
	default:
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{
			"error":     "method_not_allowed",
			"requestId": requestID,
		})
	}

	gateway := payment.NormalizeGateway(c.Query("type"))
	if !payment.SupportedGateway(gateway) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":     "unsupported_gateway",
			"requestId": requestID,
		})
	}

	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get(headerRazorpaySignature))
	secret := env.GetEnv("RAZORPAY_WEBHOOK_SECRET", "")

	signatureValid := false
	if payment.SignatureRequired(gateway, secret, signature) {
		signatureValid = payment.VerifyRazorpaySignature(rawBody, signature, secret)
		if !signatureValid {
			log.Printf("[%s] rejected %s webhook: invalid signature", requestID, gateway)
			_ = counter.AddRejected(gateway)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":     "invalid_signature",
				"requestId": requestID,
			})
		}
	}

	ev, err := payment.ParseEvent(gateway, rawBody)
	if err != nil {
		if payment.IsParseError(err) {
			log.Printf("[%s] rejected %s webhook: %v", requestID, gateway, err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":     "invalid_payload",
				"requestId": requestID,
			})
		}
		log.Printf("[%s] %s webhook parse failed: %v", requestID, gateway, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":     "internal_server_error",
			"requestId": requestID,
		})
	}
	ev.SignatureValid = signatureValid
	if gateway == payment.GatewayRazorpay {
		ev.ProviderEventID = strings.TrimSpace(c.Get(headerRazorpayEventID))
	}

	svc := payment.NewServiceFromDB(database.GetDB())
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	res, err := svc.Process(ctx, ev)
	if err != nil {
		log.Printf("[%s] %s webhook processing failed: %v", requestID, gateway, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":     "processing_failed",
			"requestId": requestID,
		})
	}
	if res.Secondary != nil {
		log.Printf("[%s] %s webhook partially applied: %v", requestID, gateway, res.Secondary)
	}

	body := fiber.Map{"received": true, "requestId": requestID}
	switch {
	case res.Duplicate:
		body["duplicate"] = true
		_ = counter.AddDuplicate(gateway)
	case res.Ignored:
		body["ignored"] = true
		_ = counter.AddUnhandled(gateway)
	default:
		_ = counter.AddProcessed(gateway)
	}
	return c.Status(fiber.StatusOK).JSON(body)
}

func setWebhookCORSHeaders(c *fiber.Ctx) {
	c.Set("Access-Control-Allow-Origin", "*")
	c.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	c.Set("Access-Control-Allow-Headers", "Content-Type, X-Admin-Key, X-Razorpay-Signature, Stripe-Signature")
}
