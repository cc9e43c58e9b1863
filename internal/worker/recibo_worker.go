package worker

// recibo_worker.go
// Processes receipt jobs from QueueRecibo: renders the order receipt PDF and,
// when the client has an email on file, chains an email job to deliver it.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/maciellsuka/mondini-stock-flow-control/internal/infra"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReciboJobPayload is the job envelope sent to QueueRecibo.
type ReciboJobPayload struct {
	PedidoID string `json:"pedido_id"`
}

type ReciboWorker struct {
	repo        repository.PedidoRepository
	dispatcher  *Dispatcher
	empresaNome string
	storagePath string
}

func NewReciboWorker(repo repository.PedidoRepository, dispatcher *Dispatcher, empresaNome, storagePath string) *ReciboWorker {
	return &ReciboWorker{
		repo:        repo,
		dispatcher:  dispatcher,
		empresaNome: empresaNome,
		storagePath: storagePath,
	}
}

// Process renders the PDF and chains delivery.
func (w *ReciboWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReciboJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("recibo_worker: invalid payload")
		return
	}
	id, err := uuid.Parse(payload.PedidoID)
	if err != nil {
		log.Error().Str("pedido_id", payload.PedidoID).Msg("recibo_worker: invalid pedido_id")
		return
	}

	pedido, err := w.repo.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("pedido_id", payload.PedidoID).Msg("recibo_worker: pedido not found")
		return
	}

	pdfPath, err := infra.GerarReciboPDF(pedido, w.empresaNome, w.storagePath)
	if err != nil {
		log.Error().Err(err).Str("pedido", pedido.Numero).Msg("recibo_worker: PDF generation failed")
		return
	}

	// No email on file — the receipt is still available for download
	if pedido.Cliente == nil || pedido.Cliente.Email == nil || *pedido.Cliente.Email == "" {
		pedido.ReciboEnviado = true
		pedido.ProximaTentativa = nil
		_ = w.repo.Update(ctx, pedido)
		log.Info().Str("pedido", pedido.Numero).Msg("recibo_worker: PDF generated, no client email")
		return
	}

	emailJob := EmailJobPayload{
		PedidoID: pedido.ID.String(),
		ToEmail:  *pedido.Cliente.Email,
		Subject:  fmt.Sprintf("%s — Pedido %s", w.empresaNome, pedido.Numero),
		Body:     fmt.Sprintf("Segue em anexo o recibo do pedido %s.", pedido.Numero),
		PDFPath:  pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Error().Err(err).Str("pedido", pedido.Numero).Msg("recibo_worker: failed to enqueue email job")
	}
}
