package service

import (
	"context"
	"time"

	"github.com/maciellsuka/mondini-stock-flow-control/internal/cache"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/dto"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/repository"

	"github.com/shopspring/decimal"
)

// DashboardService builds the landing-page counters. The aggregation hits
// several tables, so the result is cached under a single key and invalidated
// by every write path that can change a number on it.
type DashboardService interface {
	Resumo(ctx context.Context) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	clienteRepo repository.ClienteRepository
	pedidoRepo  repository.PedidoRepository
	estoque     EstoqueService
	cache       *cache.Cache
}

func NewDashboardService(
	clienteRepo repository.ClienteRepository,
	pedidoRepo repository.PedidoRepository,
	estoque EstoqueService,
	c *cache.Cache,
) DashboardService {
	return &dashboardService{
		clienteRepo: clienteRepo,
		pedidoRepo:  pedidoRepo,
		estoque:     estoque,
		cache:       c,
	}
}

func (s *dashboardService) Resumo(ctx context.Context) (*dto.DashboardResponse, error) {
	if s.cache != nil {
		var cached dto.DashboardResponse
		if s.cache.Get(ctx, cache.KeyDashboard, &cached) {
			return &cached, nil
		}
	}

	totalClientes, err := s.clienteRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	estoque, err := s.estoque.ListarEstoque(ctx, false)
	if err != nil {
		return nil, err
	}
	kgDisponiveis := decimal.Zero
	var emAlerta int64
	for _, e := range estoque {
		kgDisponiveis = kgDisponiveis.Add(e.TotalDisponivel)
		if e.EstoqueBaixo {
			emAlerta++
		}
	}

	inicioMes := time.Date(time.Now().Year(), time.Now().Month(), 1, 0, 0, 0, 0, time.Local)
	pedidosMes, err := s.pedidoRepo.CountSince(ctx, inicioMes)
	if err != nil {
		return nil, err
	}
	faturamentoStr, err := s.pedidoRepo.SumTotalConcluidoSince(ctx, inicioMes)
	if err != nil {
		return nil, err
	}
	faturamento, err := decimal.NewFromString(faturamentoStr)
	if err != nil {
		faturamento = decimal.Zero
	}

	resp := &dto.DashboardResponse{
		TotalClientes:    totalClientes,
		KgDisponiveis:    kgDisponiveis,
		PedidosDoMes:     pedidosMes,
		ProdutosEmAlerta: emAlerta,
		FaturamentoMes:   faturamento,
	}
	if s.cache != nil {
		s.cache.Set(ctx, cache.KeyDashboard, resp)
	}
	return resp, nil
}
