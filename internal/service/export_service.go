package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/maciellsuka/mondini-stock-flow-control/internal/dto"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/model"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/repository"
)

// ExportService renders order reports for download.
type ExportService interface {
	// PedidosCSV exports the filtered orders as CSV, one row per order line.
	PedidosCSV(ctx context.Context, filter dto.PedidoFilter) ([]byte, error)
}

type exportService struct {
	pedidoRepo repository.PedidoRepository
}

func NewExportService(pedidoRepo repository.PedidoRepository) ExportService {
	return &exportService{pedidoRepo: pedidoRepo}
}

var csvHeader = []string{
	"numero", "cliente", "data", "produto", "qtde_bags", "peso_total_kg",
	"detalhe_bags", "forma_pagamento", "status_pagamento", "status",
	"observacoes", "vencimento", "total",
}

func (s *exportService) PedidosCSV(ctx context.Context, filter dto.PedidoFilter) ([]byte, error) {
	// Export ignores pagination — the report covers everything the filter hits
	filter.Page = 1
	filter.Limit = 10000

	pedidos, _, err := s.pedidoRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for i := range pedidos {
		p := &pedidos[i]
		obs := ""
		if p.Observacoes != nil {
			obs = *p.Observacoes
		}
		venc := ""
		if p.DataVencimento != nil {
			venc = p.DataVencimento.Format("2006-01-02")
		}

		for _, item := range p.Itens {
			row := []string{
				p.Numero,
				p.ClienteNome,
				p.DataPedido.Format("2006-01-02"),
				item.ProdutoNome,
				fmt.Sprintf("%d", len(item.Bags)),
				item.PesoKg.StringFixed(3),
				detalheBags(item.Bags),
				p.FormaPagamento,
				p.StatusPagamento,
				p.Status,
				obs,
				venc,
				p.Total.StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// detalheBags renders the allocation breakdown of a line:
// "SACA-01 (5.000kg); SACA-02 (2.500kg)"
func detalheBags(bags []model.PedidoItemBag) string {
	parts := make([]string, len(bags))
	for i, b := range bags {
		ident := b.Identificador
		if ident == "" {
			ident = b.BagID.String()[:8]
		}
		parts[i] = fmt.Sprintf("%s (%skg)", ident, b.PesoKg.StringFixed(3))
	}
	return strings.Join(parts, "; ")
}
