package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is an independent top-level entity, referenced by orders via id
// plus a denormalized copy of Nome.
type Cliente struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome     string    `gorm:"index;not null"`
	CNPJ     string    `gorm:"type:varchar(20);column:cnpj;index"`
	Telefone string    `gorm:"type:varchar(30)"`
	// Email is optional — when present, order receipts are mailed to it.
	Email    *string `gorm:"type:varchar(120)"`
	Endereco string
	Bairro   string
	Cidade   string
	Estado   string `gorm:"type:varchar(2)"`
	CEP      string `gorm:"type:varchar(10);column:cep"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
