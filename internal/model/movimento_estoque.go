package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement types.
const (
	MovimentoVenda       = "venda"
	MovimentoAjuste      = "ajuste_manual"
	MovimentoRestauracao = "restauracao"
)

// MovimentoEstoque records every weight change of a bag: sale, manual
// adjustment, or restoration after an order is cancelled or edited.
type MovimentoEstoque struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BagID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ProdutoID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo         string    `gorm:"type:varchar(30);not null"`
	PesoAnterior decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	PesoNovo     decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	Motivo       string
	ReferenciaID *uuid.UUID `gorm:"type:uuid"` // pedido_id when applicable
	CreatedAt    time.Time
}

// TableName overrides GORM's pluralization (movimento_estoques → movimentos_estoque).
func (MovimentoEstoque) TableName() string { return "movimentos_estoque" }
