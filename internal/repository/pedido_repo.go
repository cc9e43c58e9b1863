package repository

import (
	"context"
	"time"

	"github.com/maciellsuka/mondini-stock-flow-control/internal/dto"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PedidoRepository interface {
	CreateTx(tx *gorm.DB, p *model.Pedido) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	FindByChaveIdempotencia(ctx context.Context, chave string) (*model.Pedido, error)
	List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error)
	Update(ctx context.Context, p *model.Pedido) error
	UpdateTx(tx *gorm.DB, p *model.Pedido) error
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	ReplaceItensTx(tx *gorm.DB, pedidoID uuid.UUID, itens []model.PedidoItem) error
	NextNumero(ctx context.Context, tx *gorm.DB) (int, error)

	// Retry cron queries — orders whose receipt delivery is due another attempt.
	ListRecibosPendentes(ctx context.Context, until time.Time, limit int) ([]model.Pedido, error)

	CountSince(ctx context.Context, since time.Time) (int64, error)
	SumTotalConcluidoSince(ctx context.Context, since time.Time) (string, error)

	DB() *gorm.DB
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) DB() *gorm.DB { return r.db }

func (r *pedidoRepo) CreateTx(tx *gorm.DB, p *model.Pedido) error {
	return tx.Create(p).Error
}

func (r *pedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Itens.Bags").
		Preload("Cliente").
		First(&p, id).Error
	return &p, err
}

func (r *pedidoRepo) FindByChaveIdempotencia(ctx context.Context, chave string) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Itens.Bags").
		Where("chave_idempotencia = ?", chave).
		First(&p).Error
	return &p, err
}

func (r *pedidoRepo) List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error) {
	var pedidos []model.Pedido
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Pedido{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Data != "" {
		q = q.Where("DATE(data_pedido) = ?", filter.Data)
	}
	if filter.ClienteID != "" {
		q = q.Where("cliente_id = ?", filter.ClienteID)
	}
	if filter.Busca != "" {
		q = q.Where("numero ILIKE ? OR cliente_nome ILIKE ?", "%"+filter.Busca+"%", "%"+filter.Busca+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Itens.Bags").
		Order("data_pedido DESC, numero DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&pedidos).Error
	return pedidos, total, err
}

func (r *pedidoRepo) Update(ctx context.Context, p *model.Pedido) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *pedidoRepo) UpdateTx(tx *gorm.DB, p *model.Pedido) error {
	return tx.Save(p).Error
}

func (r *pedidoRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Pedido{}).Where("id = ?", id).Update("status", status).Error
}

func (r *pedidoRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Pedido{}, id).Error
}

// ReplaceItensTx drops the order's lines (and their allocation rows, via the
// FK cascade) and inserts the new set.
func (r *pedidoRepo) ReplaceItensTx(tx *gorm.DB, pedidoID uuid.UUID, itens []model.PedidoItem) error {
	if err := tx.Where("pedido_id = ?", pedidoID).Delete(&model.PedidoItem{}).Error; err != nil {
		return err
	}
	for i := range itens {
		itens[i].PedidoID = pedidoID
	}
	return tx.Create(&itens).Error
}

func (r *pedidoRepo) NextNumero(ctx context.Context, tx *gorm.DB) (int, error) {
	// PostgreSQL sequence — atomic order numbering (see infra schema patches)
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('pedidos_numero_seq')").Scan(&num).Error
	return num, err
}

func (r *pedidoRepo) ListRecibosPendentes(ctx context.Context, until time.Time, limit int) ([]model.Pedido, error) {
	var pedidos []model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Itens.Bags").
		Preload("Cliente").
		Where("recibo_enviado = false AND proxima_tentativa IS NOT NULL AND proxima_tentativa <= ?", until).
		Limit(limit).
		Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Pedido{}).
		Where("data_pedido >= ? AND status <> ?", since, model.PedidoCancelado).
		Count(&total).Error
	return total, err
}

// SumTotalConcluidoSince returns the revenue of completed orders since the
// given date, as a decimal string ("0" when there are none).
func (r *pedidoRepo) SumTotalConcluidoSince(ctx context.Context, since time.Time) (string, error) {
	var sum *string
	err := r.db.WithContext(ctx).Model(&model.Pedido{}).
		Select("SUM(total)::text").
		Where("data_pedido >= ? AND status = ?", since, model.PedidoConcluido).
		Scan(&sum).Error
	if err != nil || sum == nil {
		return "0", err
	}
	return *sum, nil
}
