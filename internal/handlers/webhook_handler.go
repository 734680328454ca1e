package handlers

import (
	"log"
	"net/http"

	"github.com/mockexam/booking-backend/internal/apperror"
	"github.com/mockexam/booking-backend/internal/hubspot"
	"github.com/mockexam/booking-backend/internal/services"
)

type WebhookHandler struct {
	reconciler *services.Reconciler
}

func NewWebhookHandler(reconciler *services.Reconciler) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler}
}

// HandleHubSpot recounts the sessions touched by a batch of CRM events
// @Summary HubSpot Webhook
// @Description Recalculate total_bookings for every mock exam affected by the event batch. Partial failures still answer 200 so HubSpot does not retry.
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param X-HubSpot-Signature-v3 header string false "Request signature"
// @Param X-HubSpot-Request-Timestamp header string false "Signature timestamp (ms)"
// @Param events body []services.WebhookEvent true "Event batch"
// @Success 200 {object} services.WebhookResult
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Failure 429 {object} services.ErrorResponse
// @Router /webhooks/hubspot [post]
func (h *WebhookHandler) HandleHubSpot(w http.ResponseWriter, r *http.Request) {
	var events []services.WebhookEvent
	if err := decodeLenient(w, r, &events); err != nil {
		log.Printf("[WEBHOOK] Malformed payload: %v", err)
		services.SendErrorResponse(w, "Malformed webhook payload", apperror.CodeValidation, http.StatusBadRequest, nil)
		return
	}

	result, err := h.reconciler.HandleWebhook(r.Context(), events)
	if err != nil {
		if hubspot.IsRateLimited(err) {
			log.Printf("[WEBHOOK] Rate limited while resolving %d events", len(events))
			services.SendError(w, err)
			return
		}
		log.Printf("[WEBHOOK] Reconciliation error swallowed: %v", err)
		result = &services.WebhookResult{Success: false, Processed: len(events), Message: "Reconciliation deferred"}
	}

	services.SendJSON(w, http.StatusOK, result)
}
