package worker

// retry_cron.go
// Periodic sweep for orders whose receipt delivery is overdue another attempt
// (worker crashed mid-job, SMTP outage outlasted the backoff window). Each hit
// is pushed back through the receipt pipeline, which regenerates the PDF and
// resends the email.

import (
	"context"
	"time"

	"github.com/maciellsuka/mondini-stock-flow-control/internal/repository"

	"github.com/rs/zerolog/log"
)

const retryBatchSize = 20

// StartRetryCron launches the background sweep. Blocks until ctx is done, so
// callers run it in its own goroutine.
func StartRetryCron(ctx context.Context, repo repository.PedidoRepository, dispatcher *Dispatcher, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Dur("interval", interval).Msg("retry cron started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("retry cron shutting down")
			return
		case <-ticker.C:
			sweep(ctx, repo, dispatcher)
		}
	}
}

func sweep(ctx context.Context, repo repository.PedidoRepository, dispatcher *Dispatcher) {
	pedidos, err := repo.ListRecibosPendentes(ctx, time.Now(), retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry cron: query failed")
		return
	}
	if len(pedidos) == 0 {
		return
	}

	for i := range pedidos {
		pedido := &pedidos[i]

		// Push the next attempt out before enqueueing so the following sweep
		// doesn't double-enqueue a job that is still in flight.
		next := time.Now().Add(2 * time.Minute)
		pedido.ProximaTentativa = &next
		if err := repo.Update(ctx, pedido); err != nil {
			log.Error().Err(err).Str("pedido", pedido.Numero).Msg("retry cron: failed to bump next attempt")
			continue
		}

		if err := dispatcher.EnqueueRecibo(ctx, ReciboJobPayload{PedidoID: pedido.ID.String()}); err != nil {
			log.Error().Err(err).Str("pedido", pedido.Numero).Msg("retry cron: enqueue failed")
			continue
		}
		log.Info().Str("pedido", pedido.Numero).Int("tentativas", pedido.ReciboTentativas).Msg("retry cron: receipt re-enqueued")
	}
}
