package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles.
const (
	RolAdmin    = "admin"
	RolOperador = "operador"
)

// Usuario is a staff account. Soft-deleted via Ativo so past orders keep a
// valid author reference.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nome         string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(20);not null;default:'operador'"`
	Ativo        bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
