package dto

import "github.com/shopspring/decimal"

// DashboardResponse aggregates the landing-page counters.
type DashboardResponse struct {
	TotalClientes    int64           `json:"total_clientes"`
	KgDisponiveis    decimal.Decimal `json:"kg_disponiveis"`
	PedidosDoMes     int64           `json:"pedidos_do_mes"`
	ProdutosEmAlerta int64           `json:"produtos_em_alerta"`
	FaturamentoMes   decimal.Decimal `json:"faturamento_mes"`
}
