package worker

// email_worker.go
// Delivers the receipt PDF by email. Sends go through the SMTP circuit
// breaker; failures schedule a retry with exponential backoff, and jobs past
// MaxTentativasRecibo land in the DLQ.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/maciellsuka/mondini-stock-flow-control/internal/infra"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const MaxTentativasRecibo = 5

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	PedidoID string `json:"pedido_id"`
	ToEmail  string `json:"to_email"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	PDFPath  string `json:"pdf_path"`
}

type EmailWorker struct {
	repo   repository.PedidoRepository
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
	rdb    *redis.Client
}

func NewEmailWorker(repo repository.PedidoRepository, mailer *infra.Mailer, cb *infra.CircuitBreaker, rdb *redis.Client) *EmailWorker {
	return &EmailWorker{repo: repo, mailer: mailer, cb: cb, rdb: rdb}
}

func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}

	err := w.cb.Execute(func() error {
		return w.mailer.SendRecibo(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath)
	})
	if err == nil {
		w.marcarEnviado(ctx, payload)
		return
	}

	log.Warn().Err(err).Str("to", payload.ToEmail).Msg("email_worker: send failed")
	w.agendarRetry(ctx, payload, raw, err)
}

func (w *EmailWorker) marcarEnviado(ctx context.Context, payload EmailJobPayload) {
	id, err := uuid.Parse(payload.PedidoID)
	if err != nil {
		return
	}
	pedido, err := w.repo.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("pedido_id", payload.PedidoID).Msg("email_worker: pedido not found after send")
		return
	}
	pedido.ReciboEnviado = true
	pedido.ProximaTentativa = nil
	pedido.UltimoErro = nil
	if err := w.repo.Update(ctx, pedido); err != nil {
		log.Error().Err(err).Str("pedido", pedido.Numero).Msg("email_worker: failed to mark receipt sent")
		return
	}
	log.Info().Str("pedido", pedido.Numero).Str("to", payload.ToEmail).Msg("email_worker: receipt delivered")
}

func (w *EmailWorker) agendarRetry(ctx context.Context, payload EmailJobPayload, raw json.RawMessage, sendErr error) {
	id, err := uuid.Parse(payload.PedidoID)
	if err != nil {
		return
	}
	pedido, err := w.repo.FindByID(ctx, id)
	if err != nil {
		return
	}

	pedido.ReciboTentativas++
	msg := sendErr.Error()
	pedido.UltimoErro = &msg

	if pedido.ReciboTentativas >= MaxTentativasRecibo {
		pedido.ProximaTentativa = nil
		SendToDLQ(ctx, w.rdb, QueueEmail, "email", raw, msg, pedido.ReciboTentativas)
	} else {
		// 1m, 2m, 4m, 8m
		next := time.Now().Add(time.Minute << (pedido.ReciboTentativas - 1))
		pedido.ProximaTentativa = &next
	}

	if err := w.repo.Update(ctx, pedido); err != nil {
		log.Error().Err(err).Str("pedido", pedido.Numero).Msg("email_worker: failed to record retry state")
	}
}
