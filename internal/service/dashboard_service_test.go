package service

import (
	"context"
	"testing"
	"time"

	"github.com/maciellsuka/mondini-stock-flow-control/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardResumo(t *testing.T) {
	clientes := newStubClienteRepo()
	pedidos := newStubPedidoRepo()
	bags := newStubBagRepo()
	produtos := newStubProdutoRepo()
	estoque := NewEstoqueService(bags, produtos, nil, 10.0, "MONDINI")
	svc := NewDashboardService(clientes, pedidos, estoque, nil)
	ctx := context.Background()

	seedCliente(t, clientes, "Cliente A")
	seedCliente(t, clientes, "Cliente B")

	alerta := seedProduto(t, produtos, "Borra Clara", "3.00")
	seedBag(t, bags, alerta.ID, "BORRA-01", "4.000", time.Now())

	cheio := seedProduto(t, produtos, "Moido Cristal", "10.00")
	seedBag(t, bags, cheio.ID, "MOIDO-01", "20.000", time.Now())

	agora := time.Now()
	require.NoError(t, pedidos.CreateTx(nil, &model.Pedido{
		ID: uuid.New(), Numero: "PED-0001", ClienteNome: "Cliente A",
		DataPedido: agora, Status: model.PedidoConcluido, Total: dec("150.00"),
	}))
	require.NoError(t, pedidos.CreateTx(nil, &model.Pedido{
		ID: uuid.New(), Numero: "PED-0002", ClienteNome: "Cliente B",
		DataPedido: agora, Status: model.PedidoPendente, Total: dec("99.00"),
	}))
	// Cancelled orders count for nothing
	require.NoError(t, pedidos.CreateTx(nil, &model.Pedido{
		ID: uuid.New(), Numero: "PED-0003", ClienteNome: "Cliente B",
		DataPedido: agora, Status: model.PedidoCancelado, Total: dec("500.00"),
	}))

	resumo, err := svc.Resumo(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), resumo.TotalClientes)
	assert.True(t, resumo.KgDisponiveis.Equal(dec("24.000")), resumo.KgDisponiveis.String())
	assert.Equal(t, int64(2), resumo.PedidosDoMes)
	assert.Equal(t, int64(1), resumo.ProdutosEmAlerta)
	assert.True(t, resumo.FaturamentoMes.Equal(dec("150.00")), resumo.FaturamentoMes.String())
}

func TestDashboardResumo_Vazio(t *testing.T) {
	estoque := NewEstoqueService(newStubBagRepo(), newStubProdutoRepo(), nil, 10.0, "MONDINI")
	svc := NewDashboardService(newStubClienteRepo(), newStubPedidoRepo(), estoque, nil)

	resumo, err := svc.Resumo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), resumo.TotalClientes)
	assert.True(t, resumo.KgDisponiveis.IsZero())
	assert.True(t, resumo.FaturamentoMes.IsZero())
}
