package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bag status values.
const (
	BagDisponivel = "disponivel"
	BagReservado  = "reservado"
	BagVendido    = "vendido"
)

// Bag is one weighed unit of a product, tracked and consumed individually.
// PesoKg is the remaining weight; it only shrinks through order confirmation
// or a manual adjustment, and grows back when an order is cancelled.
//
// Status lifecycle: a bag starts "disponivel", becomes "reservado" when an
// active order drains it to zero, and "vendido" once that order is completed.
type Bag struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProdutoID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Identificador string    `gorm:"type:varchar(40);not null"`
	PesoKg        decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	Status        string          `gorm:"type:varchar(20);not null;default:'disponivel';index"`
	CriadoEm      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt     time.Time

	Produto *Produto `gorm:"foreignKey:ProdutoID"`
}
