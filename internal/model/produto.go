package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Produto is a sellable material priced per kilogram. Stock is not tracked on
// the product itself — it lives in the bags sub-entity (see Bag).
// Tipo: "moido" | "borra" | "outro"
type Produto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome        string    `gorm:"index;not null"`
	Descricao   *string
	PrecoPorKg  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Tipo        string          `gorm:"type:varchar(20);not null;default:'outro'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Bags []Bag `gorm:"foreignKey:ProdutoID;constraint:OnDelete:CASCADE"`
}
