package dto

import "github.com/shopspring/decimal"

// CriarBagsRequest creates one or more bags under a product in a single call
// (weighing a batch produces several bags at once).
type CriarBagsRequest struct {
	Bags []NovaBag `json:"bags" validate:"required,min=1,dive"`
}

type NovaBag struct {
	Identificador string          `json:"identificador"`
	PesoKg        decimal.Decimal `json:"peso_kg" validate:"required,gt=0"`
}

// AtualizarBagRequest is a manual stock edit: weight and/or status.
// Any status may be set directly — the workflow transitions only apply to
// order-driven changes.
type AtualizarBagRequest struct {
	PesoKg decimal.Decimal `json:"peso_kg" validate:"required,min=0"`
	Status string          `json:"status" validate:"required,oneof=disponivel reservado vendido"`
	Motivo string          `json:"motivo"`
}

type BagResponse struct {
	ID            string          `json:"id"`
	ProdutoID     string          `json:"produto_id"`
	Identificador string          `json:"identificador"`
	PesoKg        decimal.Decimal `json:"peso_kg"`
	Status        string          `json:"status"`
	CriadoEm      string          `json:"criado_em"`
}

// EstoqueProdutoResponse summarizes one product's stock position.
type EstoqueProdutoResponse struct {
	ProdutoID       string          `json:"produto_id"`
	Nome            string          `json:"nome"`
	PrecoPorKg      decimal.Decimal `json:"preco_por_kg"`
	TotalDisponivel decimal.Decimal `json:"total_disponivel_kg"`
	TotalBags       int             `json:"total_bags"`
	EstoqueBaixo    bool            `json:"estoque_baixo"`
	Bags            []BagResponse   `json:"bags,omitempty"`
}

type AlertaEstoqueResponse struct {
	ProdutoID       string          `json:"produto_id"`
	Nome            string          `json:"nome"`
	TotalDisponivel decimal.Decimal `json:"total_disponivel_kg"`
	MinimoKg        decimal.Decimal `json:"minimo_kg"`
}

// MovimentoFilter is bound from the query string of GET /v1/estoque/movimentos.
type MovimentoFilter struct {
	ProdutoID string `form:"produto_id"`
	Tipo      string `form:"tipo"`
	Page      int    `form:"page,default=1" validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type MovimentoResponse struct {
	ID           string          `json:"id"`
	BagID        string          `json:"bag_id"`
	ProdutoID    string          `json:"produto_id"`
	Tipo         string          `json:"tipo"`
	PesoAnterior decimal.Decimal `json:"peso_anterior"`
	PesoNovo     decimal.Decimal `json:"peso_novo"`
	Motivo       string          `json:"motivo"`
	ReferenciaID *string         `json:"referencia_id,omitempty"`
	Data         string          `json:"data"`
}

type MovimentoListResponse struct {
	Data  []MovimentoResponse `json:"data"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}
