package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/maciellsuka/mondini-stock-flow-control/internal/dto"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPedidosCSV_UmaLinhaPorItem(t *testing.T) {
	repo := newStubPedidoRepo()
	svc := NewExportService(repo)

	obs := "Entregar pela manha"
	venc := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	pedido := &model.Pedido{
		ID:              uuid.New(),
		Numero:          "PED-0001",
		ClienteID:       uuid.New(),
		ClienteNome:     "Plasticos Oeste",
		DataPedido:      time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
		Status:          model.PedidoPendente,
		FormaPagamento:  "boleto",
		StatusPagamento: model.PagamentoNaoPago,
		DataVencimento:  &venc,
		Observacoes:     &obs,
		Total:           dec("80.00"),
		Itens: []model.PedidoItem{
			{
				ProdutoID:   uuid.New(),
				ProdutoNome: "Moido Cristal",
				PrecoPorKg:  dec("10.00"),
				PesoKg:      dec("8.000"),
				Subtotal:    dec("80.00"),
				Bags: []model.PedidoItemBag{
					{BagID: uuid.New(), Identificador: "MOIDO-01", PesoKg: dec("5.000"), Total: dec("50.00")},
					{BagID: uuid.New(), Identificador: "MOIDO-02", PesoKg: dec("3.000"), Total: dec("30.00")},
				},
			},
		},
	}
	require.NoError(t, repo.CreateTx(nil, pedido))

	data, err := svc.PedidosCSV(context.Background(), dto.PedidoFilter{})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2) // header + one line per item

	assert.Equal(t, csvHeader, records[0])

	row := records[1]
	assert.Equal(t, "PED-0001", row[0])
	assert.Equal(t, "Plasticos Oeste", row[1])
	assert.Equal(t, "2026-03-10", row[2])
	assert.Equal(t, "Moido Cristal", row[3])
	assert.Equal(t, "2", row[4])
	assert.Equal(t, "8.000", row[5])
	assert.Equal(t, "MOIDO-01 (5.000kg); MOIDO-02 (3.000kg)", row[6])
	assert.Equal(t, "boleto", row[7])
	assert.Equal(t, model.PagamentoNaoPago, row[8])
	assert.Equal(t, model.PedidoPendente, row[9])
	assert.Equal(t, "Entregar pela manha", row[10])
	assert.Equal(t, "2026-04-15", row[11])
	assert.Equal(t, "80.00", row[12])
}

func TestPedidosCSV_FiltraPorStatus(t *testing.T) {
	repo := newStubPedidoRepo()
	svc := NewExportService(repo)

	item := model.PedidoItem{ProdutoNome: "Borra", PrecoPorKg: dec("4"), PesoKg: dec("2"), Subtotal: dec("8")}
	require.NoError(t, repo.CreateTx(nil, &model.Pedido{
		ID: uuid.New(), Numero: "PED-0001", ClienteNome: "A",
		DataPedido: time.Now(), Status: model.PedidoConcluido, Total: dec("8"),
		Itens: []model.PedidoItem{item},
	}))
	require.NoError(t, repo.CreateTx(nil, &model.Pedido{
		ID: uuid.New(), Numero: "PED-0002", ClienteNome: "B",
		DataPedido: time.Now(), Status: model.PedidoCancelado, Total: dec("8"),
		Itens: []model.PedidoItem{item},
	}))

	data, err := svc.PedidosCSV(context.Background(), dto.PedidoFilter{Status: model.PedidoConcluido})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "PED-0001", records[1][0])
}

func TestPedidosCSV_SemPedidosSoCabecalho(t *testing.T) {
	svc := NewExportService(newStubPedidoRepo())

	data, err := svc.PedidosCSV(context.Background(), dto.PedidoFilter{})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, csvHeader, records[0])
}
