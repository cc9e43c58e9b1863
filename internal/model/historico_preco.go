package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistoricoPreco stores one price change of a product's preco_por_kg.
// Created automatically whenever a product update changes the price.
type HistoricoPreco struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProdutoID     uuid.UUID `gorm:"type:uuid;not null;index"`
	PrecoAnterior decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecoNovo     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt     time.Time
}

func (HistoricoPreco) TableName() string { return "historico_precos" }
