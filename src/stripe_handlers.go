package main

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"hbs/src/config"
	"hbs/src/types"
	"hbs/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// stripeWebhookRoute receives the provider's settlement events. Signature
// verification is the only authentication on this route; unknown event types
// are acknowledged and dropped so the provider stops retrying them.
func stripeWebhookRoute(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.POST("/webhook/stripe", func(ctx *gin.Context) {
		payload, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			log.Printf("Error reading request body: %s\n", err.Error())
			ctx.Status(http.StatusServiceUnavailable)
			return
		}
		whsecret := config.StripeWebhookSecret()
		event, err := webhook.ConstructEvent(payload, ctx.GetHeader("Stripe-Signature"), whsecret)
		if err != nil {
			log.Printf("Error verifying webhook signature: %s\n", err.Error())
			ctx.Status(http.StatusBadRequest)
			return
		}
		log.Printf("[StripeEvent] %s\n", event.Type)
		switch event.Type {
		case "checkout.session.completed":
			var cs stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
				log.Printf("[Stripe] Error parsing CheckoutSession: %s\n", err.Error())
				break
			}
			meta := types.Metadata{"event_id": event.ID, "event_type": string(event.Type)}
			if _, err := utils.SettlePaymentBySession(cs.ID, types.PAYMENT_PAID, "webhook", meta); err != nil {
				if errors.Is(err, utils.ErrPaymentNotFound) {
					log.Printf("No payment for session %s, ignoring\n", cs.ID)
					break
				}
				log.Printf("Error settling payment for session %s: %s\n", cs.ID, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
		case "checkout.session.expired":
			var cs stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
				log.Printf("[Stripe] Error parsing CheckoutSession: %s\n", err.Error())
				break
			}
			meta := types.Metadata{"event_id": event.ID, "event_type": string(event.Type)}
			if _, err := utils.SettlePaymentBySession(cs.ID, types.PAYMENT_FAILED, "webhook", meta); err != nil {
				if errors.Is(err, utils.ErrPaymentNotFound) {
					log.Printf("No payment for session %s, ignoring\n", cs.ID)
					break
				}
				log.Printf("Error failing payment for session %s: %s\n", cs.ID, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
		case "payment_intent.payment_failed":
			var pi stripe.PaymentIntent
			if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
				log.Printf("[Stripe] Error parsing PaymentIntent: %s\n", err.Error())
				break
			}
			// The session id is not on the intent; the mirrored metadata
			// carries the invoice instead.
			invoiceNo := pi.Metadata["invoice_no"]
			if invoiceNo == "" {
				log.Printf("PaymentIntent %s carries no invoice metadata, ignoring\n", pi.ID)
				break
			}
			meta := types.Metadata{"event_id": event.ID, "event_type": string(event.Type)}
			if _, err := utils.SettlePaymentByInvoice(invoiceNo, types.PAYMENT_FAILED, "webhook", meta); err != nil {
				if errors.Is(err, utils.ErrPaymentNotFound) {
					log.Printf("No payment for invoice %s, ignoring\n", invoiceNo)
					break
				}
				log.Printf("Error failing payment for invoice %s: %s\n", invoiceNo, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
		default:
			log.Printf("Unhandled event type: %s\n", event.Type)
		}
		ctx.Status(http.StatusOK)
	})
	return apiv1
}
