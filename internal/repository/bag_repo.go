package repository

import (
	"context"

	"github.com/maciellsuka/mondini-stock-flow-control/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BagRepository defines the data access contract for inventory bags.
// The ...Tx variants run against a caller-supplied transaction — order
// confirmation mutates bags and creates the order atomically.
type BagRepository interface {
	Create(ctx context.Context, b *model.Bag) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Bag, error)
	ListByProduto(ctx context.Context, produtoID uuid.UUID) ([]model.Bag, error)
	// ListDisponiveis returns status=disponivel bags with peso > 0, oldest
	// first — the allocation order.
	ListDisponiveis(ctx context.Context, produtoID uuid.UUID) ([]model.Bag, error)
	Update(ctx context.Context, b *model.Bag) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Bag, error)
	ListDisponiveisTx(tx *gorm.DB, produtoID uuid.UUID) ([]model.Bag, error)
	UpdateTx(tx *gorm.DB, b *model.Bag) error

	CreateMovimento(ctx context.Context, m *model.MovimentoEstoque) error
	CreateMovimentoTx(tx *gorm.DB, m *model.MovimentoEstoque) error
	ListMovimentos(ctx context.Context, produtoID uuid.UUID, tipo string, page, limit int) ([]model.MovimentoEstoque, int64, error)
}

type bagRepo struct{ db *gorm.DB }

func NewBagRepository(db *gorm.DB) BagRepository { return &bagRepo{db: db} }

func (r *bagRepo) Create(ctx context.Context, b *model.Bag) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *bagRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Bag, error) {
	var b model.Bag
	err := r.db.WithContext(ctx).First(&b, id).Error
	return &b, err
}

func (r *bagRepo) ListByProduto(ctx context.Context, produtoID uuid.UUID) ([]model.Bag, error) {
	var bags []model.Bag
	err := r.db.WithContext(ctx).
		Where("produto_id = ?", produtoID).
		Order("criado_em ASC").
		Find(&bags).Error
	return bags, err
}

func (r *bagRepo) ListDisponiveis(ctx context.Context, produtoID uuid.UUID) ([]model.Bag, error) {
	var bags []model.Bag
	err := r.db.WithContext(ctx).
		Where("produto_id = ? AND status = ? AND peso_kg > 0", produtoID, model.BagDisponivel).
		Order("criado_em ASC").
		Find(&bags).Error
	return bags, err
}

func (r *bagRepo) Update(ctx context.Context, b *model.Bag) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *bagRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Bag{}, id).Error
}

func (r *bagRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Bag, error) {
	var b model.Bag
	// Row-locked read: concurrent confirmations serialize on the same bag
	// instead of both decrementing from a stale weight.
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, id).Error
	return &b, err
}

func (r *bagRepo) ListDisponiveisTx(tx *gorm.DB, produtoID uuid.UUID) ([]model.Bag, error) {
	var bags []model.Bag
	err := tx.
		Where("produto_id = ? AND status = ? AND peso_kg > 0", produtoID, model.BagDisponivel).
		Order("criado_em ASC").
		Find(&bags).Error
	return bags, err
}

func (r *bagRepo) UpdateTx(tx *gorm.DB, b *model.Bag) error {
	return tx.Save(b).Error
}

func (r *bagRepo) CreateMovimento(ctx context.Context, m *model.MovimentoEstoque) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *bagRepo) CreateMovimentoTx(tx *gorm.DB, m *model.MovimentoEstoque) error {
	return tx.Create(m).Error
}

func (r *bagRepo) ListMovimentos(ctx context.Context, produtoID uuid.UUID, tipo string, page, limit int) ([]model.MovimentoEstoque, int64, error) {
	var movs []model.MovimentoEstoque
	var total int64

	q := r.db.WithContext(ctx).Model(&model.MovimentoEstoque{})
	if produtoID != uuid.Nil {
		q = q.Where("produto_id = ?", produtoID)
	}
	if tipo != "" {
		q = q.Where("tipo = ?", tipo)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&movs).Error
	return movs, total, err
}
