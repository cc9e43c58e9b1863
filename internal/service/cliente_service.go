package service

import (
	"context"
	"errors"

	"github.com/maciellsuka/mondini-stock-flow-control/internal/dto"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/model"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/repository"

	"github.com/google/uuid"
)

type ClienteService interface {
	Criar(ctx context.Context, req dto.CriarClienteRequest) (*dto.ClienteResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, filter dto.ClienteFilter) (*dto.ClienteListResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarClienteRequest) (*dto.ClienteResponse, error)
	Excluir(ctx context.Context, id uuid.UUID) error
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func (s *clienteService) Criar(ctx context.Context, req dto.CriarClienteRequest) (*dto.ClienteResponse, error) {
	c := &model.Cliente{
		Nome:     req.Nome,
		CNPJ:     req.CNPJ,
		Telefone: req.Telefone,
		Email:    req.Email,
		Endereco: req.Endereco,
		Bairro:   req.Bairro,
		Cidade:   req.Cidade,
		Estado:   req.Estado,
		CEP:      req.CEP,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("cliente nao encontrado")
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Listar(ctx context.Context, filter dto.ClienteFilter) (*dto.ClienteListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	clientes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		items = append(items, *clienteToResponse(&clientes[i]))
	}
	return &dto.ClienteListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *clienteService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("cliente nao encontrado")
	}
	if req.Nome != "" {
		c.Nome = req.Nome
	}
	if req.CNPJ != "" {
		c.CNPJ = req.CNPJ
	}
	if req.Telefone != "" {
		c.Telefone = req.Telefone
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if req.Endereco != "" {
		c.Endereco = req.Endereco
	}
	if req.Bairro != "" {
		c.Bairro = req.Bairro
	}
	if req.Cidade != "" {
		c.Cidade = req.Cidade
	}
	if req.Estado != "" {
		c.Estado = req.Estado
	}
	if req.CEP != "" {
		c.CEP = req.CEP
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return clienteToResponse(c), nil
}

// Excluir removes the client. Existing orders keep the denormalized name.
func (s *clienteService) Excluir(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("cliente nao encontrado")
	}
	return s.repo.Delete(ctx, id)
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:       c.ID.String(),
		Nome:     c.Nome,
		CNPJ:     c.CNPJ,
		Telefone: c.Telefone,
		Email:    c.Email,
		Endereco: c.Endereco,
		Bairro:   c.Bairro,
		Cidade:   c.Cidade,
		Estado:   c.Estado,
		CEP:      c.CEP,
	}
}
