package dto

import "github.com/shopspring/decimal"

// CriarPedidoRequest confirms a new order. Each item requests a weight of a
// product; the server decides which bags satisfy it (oldest first).
type CriarPedidoRequest struct {
	ClienteID      string       `json:"cliente_id" validate:"required,uuid"`
	DataEntrega    *string      `json:"data_entrega"` // YYYY-MM-DD
	FormaPagamento string       `json:"forma_pagamento" validate:"required"`
	PrazoPagamento *string      `json:"prazo_pagamento"`
	DataVencimento *string      `json:"data_vencimento"` // YYYY-MM-DD
	Observacoes    *string      `json:"observacoes"`
	Itens          []ItemPedido `json:"itens" validate:"required,min=1,dive"`

	// ChaveIdempotencia guards against double submission: re-sending the same
	// key returns the already-created order without touching stock again.
	ChaveIdempotencia *string `json:"chave_idempotencia"`
}

type ItemPedido struct {
	ProdutoID string          `json:"produto_id" validate:"required,uuid"`
	PesoKg    decimal.Decimal `json:"peso_kg" validate:"required,gt=0"`
}

// AtualizarPedidoRequest edits an active order. When Itens is present the
// previous allocations are returned to stock and the new items reallocated,
// all inside one transaction.
type AtualizarPedidoRequest struct {
	DataEntrega     *string      `json:"data_entrega"`
	FormaPagamento  string       `json:"forma_pagamento"`
	PrazoPagamento  *string      `json:"prazo_pagamento"`
	StatusPagamento string       `json:"status_pagamento" validate:"omitempty,oneof=pago nao_pago"`
	DataVencimento  *string      `json:"data_vencimento"`
	Observacoes     *string      `json:"observacoes"`
	Itens           []ItemPedido `json:"itens" validate:"omitempty,min=1,dive"`
}

type AtualizarStatusPedidoRequest struct {
	Status string `json:"status" validate:"required,oneof=pendente processando concluido cancelado"`
}

// PedidoFilter is bound from the query string of GET /v1/pedidos.
type PedidoFilter struct {
	Data      string `form:"data"`   // YYYY-MM-DD; empty = all
	Status    string `form:"status"` // pendente | processando | concluido | cancelado | all
	ClienteID string `form:"cliente_id"`
	Busca     string `form:"busca"` // matches numero or cliente_nome
	Page      int    `form:"page,default=1" validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type BagAlocadaResponse struct {
	BagID         string          `json:"bag_id"`
	Identificador string          `json:"identificador"`
	PesoKg        decimal.Decimal `json:"peso_kg"`
	Total         decimal.Decimal `json:"total"`
}

type ItemPedidoResponse struct {
	ProdutoID  string               `json:"produto_id"`
	Produto    string               `json:"produto"`
	PrecoPorKg decimal.Decimal      `json:"preco_por_kg"`
	PesoKg     decimal.Decimal      `json:"peso_kg"`
	Subtotal   decimal.Decimal      `json:"subtotal"`
	Bags       []BagAlocadaResponse `json:"bags"`
}

type PedidoResponse struct {
	ID              string               `json:"id"`
	Numero          string               `json:"numero"`
	ClienteID       string               `json:"cliente_id"`
	ClienteNome     string               `json:"cliente_nome"`
	DataPedido      string               `json:"data_pedido"`
	DataEntrega     *string              `json:"data_entrega,omitempty"`
	Status          string               `json:"status"`
	FormaPagamento  string               `json:"forma_pagamento"`
	PrazoPagamento  *string              `json:"prazo_pagamento,omitempty"`
	StatusPagamento string               `json:"status_pagamento"`
	DataVencimento  *string              `json:"data_vencimento,omitempty"`
	Observacoes     *string              `json:"observacoes,omitempty"`
	Itens           []ItemPedidoResponse `json:"itens"`
	Total           decimal.Decimal      `json:"total"`
	CreatedAt       string               `json:"created_at"`
}

type PedidoListResponse struct {
	Data  []PedidoResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
