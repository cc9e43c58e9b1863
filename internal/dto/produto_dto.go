package dto

import "github.com/shopspring/decimal"

type CriarProdutoRequest struct {
	Nome       string          `json:"nome" validate:"required"`
	Descricao  *string         `json:"descricao"`
	PrecoPorKg decimal.Decimal `json:"preco_por_kg" validate:"required,gt=0"`
	Tipo       string          `json:"tipo" validate:"required,oneof=moido borra outro"`
}

type AtualizarProdutoRequest struct {
	Nome       string          `json:"nome"`
	Descricao  *string         `json:"descricao"`
	PrecoPorKg decimal.Decimal `json:"preco_por_kg" validate:"omitempty,gt=0"`
	Tipo       string          `json:"tipo" validate:"omitempty,oneof=moido borra outro"`
}

// ProdutoFilter is bound from the query string of GET /v1/produtos.
type ProdutoFilter struct {
	Nome  string `form:"nome"`
	Tipo  string `form:"tipo"`
	Page  int    `form:"page,default=1" validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ProdutoResponse struct {
	ID         string          `json:"id"`
	Nome       string          `json:"nome"`
	Descricao  *string         `json:"descricao,omitempty"`
	PrecoPorKg decimal.Decimal `json:"preco_por_kg"`
	Tipo       string          `json:"tipo"`
}

type ProdutoListResponse struct {
	Data  []ProdutoResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type HistoricoPrecoResponse struct {
	PrecoAnterior decimal.Decimal `json:"preco_anterior"`
	PrecoNovo     decimal.Decimal `json:"preco_novo"`
	Data          string          `json:"data"`
}
