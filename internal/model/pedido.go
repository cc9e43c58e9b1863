package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pedido workflow status values.
const (
	PedidoPendente    = "pendente"
	PedidoProcessando = "processando"
	PedidoConcluido   = "concluido"
	PedidoCancelado   = "cancelado"
)

// Payment status values.
const (
	PagamentoPago    = "pago"
	PagamentoNaoPago = "nao_pago"
)

// Pedido is an order: a client reference, workflow status, and an ordered
// list of lines each carrying its own bag allocations. The grand total is
// computed at confirmation time and stored.
type Pedido struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero      string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	ClienteID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ClienteNome string    `gorm:"not null"`
	DataPedido  time.Time `gorm:"not null"`
	DataEntrega *time.Time
	Status      string `gorm:"type:varchar(20);not null;default:'pendente';index"`

	FormaPagamento  string `gorm:"type:varchar(40)"`
	PrazoPagamento  *string
	StatusPagamento string `gorm:"type:varchar(20);not null;default:'nao_pago'"`
	DataVencimento  *time.Time
	Observacoes     *string

	Total decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	// ChaveIdempotencia deduplicates re-submitted confirmations (double-click,
	// client retry). Same key — same order, stock decremented once.
	ChaveIdempotencia *string `gorm:"uniqueIndex"`

	// Receipt delivery bookkeeping — driven by the worker pipeline.
	ReciboEnviado     bool `gorm:"not null;default:false"`
	ReciboTentativas  int  `gorm:"not null;default:0"`
	ProximaTentativa  *time.Time
	UltimoErro        *string

	Itens []PedidoItem `gorm:"foreignKey:PedidoID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Cliente *Cliente `gorm:"foreignKey:ClienteID"`
}

// PedidoItem is one order line: a product, the weight drawn for it, and the
// price per kg captured when the line was added (never re-read at save time).
type PedidoItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ProdutoID   uuid.UUID `gorm:"type:uuid;not null"`
	ProdutoNome string    `gorm:"not null"`
	PrecoPorKg  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PesoKg      decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Bags []PedidoItemBag `gorm:"foreignKey:PedidoItemID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's pluralization (pedido_items → pedido_itens).
func (PedidoItem) TableName() string { return "pedido_itens" }

// PedidoItemBag is one (bag, weight-taken) allocation pair inside a line.
// PesoKg here is the amount drawn, never more than the bag held at
// allocation time.
type PedidoItemBag struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoItemID  uuid.UUID `gorm:"type:uuid;not null;index"`
	BagID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Identificador string    `gorm:"type:varchar(40)"`
	PesoKg        decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (PedidoItemBag) TableName() string { return "pedido_item_bags" }
