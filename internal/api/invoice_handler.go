package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/sungwon/invoice-notifier/internal/dispatch"
	"github.com/sungwon/invoice-notifier/internal/invoice"
	"github.com/sungwon/invoice-notifier/internal/logger"
	"github.com/sungwon/invoice-notifier/internal/metrics"
)

// Enqueuer schedules a validated request for background delivery.
type Enqueuer interface {
	Enqueue(req *invoice.EmailRequest) error
}

// SendInvoiceHandler handles POST /send-invoice. It validates the payload,
// hands the work to the dispatcher, and answers 202 before any delivery
// takes place. The delivery outcome is never reported back on this channel.
func SendInvoiceHandler(enqueuer Enqueuer, maxBodyBytes int64, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqLog := log.With().
			Str("correlation_id", logger.CorrelationIDFromContext(r.Context())).
			Logger()

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

		var req invoice.EmailRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respondError(w, http.StatusRequestEntityTooLarge,
					"Cuerpo demasiado grande", "El cuerpo de la petición excede el límite permitido")
				return
			}
			respondError(w, http.StatusBadRequest,
				"JSON inválido", "El cuerpo de la petición no es JSON válido")
			return
		}

		if verr := invoice.Validate(&req); verr != nil {
			metrics.ValidationFailuresTotal.WithLabelValues(verr.Code).Inc()
			reqLog.Warn().
				Str("rule", verr.Code).
				Msg("invoice request rejected by validation")
			respondError(w, http.StatusBadRequest, verr.Title, verr.Message)
			return
		}

		if err := enqueuer.Enqueue(&req); err != nil {
			if errors.Is(err, dispatch.ErrQueueFull) {
				reqLog.Warn().Msg("dispatch queue full, rejecting request")
				w.Header().Set("Retry-After", "5")
				respondError(w, http.StatusServiceUnavailable,
					"Servicio ocupado", "La cola de envío está llena, intente nuevamente")
				return
			}
			reqLog.Error().Err(err).Msg("failed to enqueue invoice email")
			respondError(w, http.StatusInternalServerError,
				"Error interno del servidor", "No fue posible aceptar la petición")
			return
		}

		metrics.RequestsAcceptedTotal.Inc()
		reqLog.Info().
			Str("recipient", req.Customer.Email).
			Int("products", len(req.Products)).
			Bool("has_pdf", req.PDFBase64 != "").
			Msg("invoice email accepted for dispatch")

		respondJSON(w, http.StatusAccepted, map[string]string{
			"message":   "Email aceptado para envío",
			"status":    "processing",
			"recipient": req.Customer.Email,
		})
	}
}
