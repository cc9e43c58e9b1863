package service

import (
	"context"
	"errors"
	"time"

	"github.com/maciellsuka/mondini-stock-flow-control/internal/cache"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/dto"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/model"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/repository"

	"github.com/google/uuid"
)

type ProdutoService interface {
	Criar(ctx context.Context, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error)
	Listar(ctx context.Context, filter dto.ProdutoFilter) (*dto.ProdutoListResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error)
	Excluir(ctx context.Context, id uuid.UUID) error
	ListarHistoricoPrecos(ctx context.Context, id uuid.UUID) ([]dto.HistoricoPrecoResponse, error)
}

type produtoService struct {
	repo  repository.ProdutoRepository
	cache *cache.Cache
}

func NewProdutoService(repo repository.ProdutoRepository, c *cache.Cache) ProdutoService {
	return &produtoService{repo: repo, cache: c}
}

func (s *produtoService) Criar(ctx context.Context, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error) {
	p := &model.Produto{
		Nome:       req.Nome,
		Descricao:  req.Descricao,
		PrecoPorKg: req.PrecoPorKg,
		Tipo:       req.Tipo,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return produtoToResponse(p), nil
}

func (s *produtoService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error) {
	key := cache.KeyProduto + id.String()
	if s.cache != nil {
		var cached dto.ProdutoResponse
		if s.cache.Get(ctx, key, &cached) {
			return &cached, nil
		}
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("produto nao encontrado")
	}
	resp := produtoToResponse(p)
	if s.cache != nil {
		s.cache.Set(ctx, key, resp)
	}
	return resp, nil
}

func (s *produtoService) Listar(ctx context.Context, filter dto.ProdutoFilter) (*dto.ProdutoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	produtos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProdutoResponse, 0, len(produtos))
	for i := range produtos {
		items = append(items, *produtoToResponse(&produtos[i]))
	}
	return &dto.ProdutoListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *produtoService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("produto nao encontrado")
	}

	precoAnterior := p.PrecoPorKg

	if req.Nome != "" {
		p.Nome = req.Nome
	}
	if req.Descricao != nil {
		p.Descricao = req.Descricao
	}
	if req.Tipo != "" {
		p.Tipo = req.Tipo
	}
	if !req.PrecoPorKg.IsZero() {
		p.PrecoPorKg = req.PrecoPorKg
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	// Price changes feed the history log. Existing order lines keep the price
	// captured at confirmation time.
	if !p.PrecoPorKg.Equal(precoAnterior) {
		hist := &model.HistoricoPreco{
			ProdutoID:     p.ID,
			PrecoAnterior: precoAnterior,
			PrecoNovo:     p.PrecoPorKg,
		}
		if err := s.repo.CreateHistoricoPreco(ctx, hist); err != nil {
			return nil, err
		}
	}

	s.invalidarProduto(ctx, id)
	return produtoToResponse(p), nil
}

// Excluir removes the product and, via the FK cascade, all of its bags.
func (s *produtoService) Excluir(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("produto nao encontrado")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidarProduto(ctx, id)
	return nil
}

func (s *produtoService) ListarHistoricoPrecos(ctx context.Context, id uuid.UUID) ([]dto.HistoricoPrecoResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, errors.New("produto nao encontrado")
	}
	hist, err := s.repo.ListHistoricoPrecos(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.HistoricoPrecoResponse, len(hist))
	for i, h := range hist {
		resp[i] = dto.HistoricoPrecoResponse{
			PrecoAnterior: h.PrecoAnterior,
			PrecoNovo:     h.PrecoNovo,
			Data:          h.CreatedAt.Format(time.RFC3339),
		}
	}
	return resp, nil
}

func (s *produtoService) invalidarProduto(ctx context.Context, id uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, cache.KeyProduto+id.String(), cache.KeyDashboard)
	}
}

func produtoToResponse(p *model.Produto) *dto.ProdutoResponse {
	return &dto.ProdutoResponse{
		ID:         p.ID.String(),
		Nome:       p.Nome,
		Descricao:  p.Descricao,
		PrecoPorKg: p.PrecoPorKg,
		Tipo:       p.Tipo,
	}
}
