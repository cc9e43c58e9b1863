package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/maciellsuka/mondini-stock-flow-control/internal/cache"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/dto"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/infra"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/model"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstoqueService manages bags and the stock views built on top of them:
// per-product totals, low-stock alerts and the movement audit trail.
type EstoqueService interface {
	CriarBags(ctx context.Context, produtoID uuid.UUID, req dto.CriarBagsRequest) ([]dto.BagResponse, error)
	ListarBags(ctx context.Context, produtoID uuid.UUID) ([]dto.BagResponse, error)
	AtualizarBag(ctx context.Context, bagID uuid.UUID, req dto.AtualizarBagRequest) (*dto.BagResponse, error)
	ExcluirBag(ctx context.Context, bagID uuid.UUID) error

	ListarEstoque(ctx context.Context, comBags bool) ([]dto.EstoqueProdutoResponse, error)
	Alertas(ctx context.Context) ([]dto.AlertaEstoqueResponse, error)
	Movimentos(ctx context.Context, filter dto.MovimentoFilter) (*dto.MovimentoListResponse, error)

	// EtiquetasPDF renders the printable label sheet for a product's available
	// bags.
	EtiquetasPDF(ctx context.Context, produtoID uuid.UUID) ([]byte, error)
}

type estoqueService struct {
	bagRepo     repository.BagRepository
	produtoRepo repository.ProdutoRepository
	cache       *cache.Cache
	minimoKg    decimal.Decimal
	empresaNome string
}

func NewEstoqueService(bagRepo repository.BagRepository, produtoRepo repository.ProdutoRepository, c *cache.Cache, minimoKg float64, empresaNome string) EstoqueService {
	return &estoqueService{
		bagRepo:     bagRepo,
		produtoRepo: produtoRepo,
		cache:       c,
		minimoKg:    decimal.NewFromFloat(minimoKg),
		empresaNome: empresaNome,
	}
}

func (s *estoqueService) CriarBags(ctx context.Context, produtoID uuid.UUID, req dto.CriarBagsRequest) ([]dto.BagResponse, error) {
	produto, err := s.produtoRepo.FindByID(ctx, produtoID)
	if err != nil {
		return nil, errors.New("produto nao encontrado")
	}

	resp := make([]dto.BagResponse, 0, len(req.Bags))
	for i, nb := range req.Bags {
		if nb.PesoKg.LessThanOrEqual(decimal.Zero) {
			return nil, ErrPesoInvalido
		}
		ident := nb.Identificador
		if ident == "" {
			// Sequential within the intake batch, readable on a printed label
			ident = fmt.Sprintf("%s-%s-%02d", shortNome(produto.Nome), time.Now().Format("060102"), i+1)
		}
		bag := &model.Bag{
			ProdutoID:     produto.ID,
			Identificador: ident,
			PesoKg:        nb.PesoKg,
			Status:        model.BagDisponivel,
		}
		if err := s.bagRepo.Create(ctx, bag); err != nil {
			return nil, err
		}
		resp = append(resp, bagToResponse(bag))
	}

	s.invalidar(ctx, produtoID)
	return resp, nil
}

func (s *estoqueService) ListarBags(ctx context.Context, produtoID uuid.UUID) ([]dto.BagResponse, error) {
	bags, err := s.bagRepo.ListByProduto(ctx, produtoID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.BagResponse, len(bags))
	for i := range bags {
		resp[i] = bagToResponse(&bags[i])
	}
	return resp, nil
}

// AtualizarBag is a manual stock edit. Weight changes are recorded as
// ajuste_manual movements; status may be set to any value directly.
func (s *estoqueService) AtualizarBag(ctx context.Context, bagID uuid.UUID, req dto.AtualizarBagRequest) (*dto.BagResponse, error) {
	bag, err := s.bagRepo.FindByID(ctx, bagID)
	if err != nil {
		return nil, errors.New("bag nao encontrada")
	}
	if req.PesoKg.IsNegative() {
		return nil, ErrPesoInvalido
	}

	pesoAnterior := bag.PesoKg
	bag.PesoKg = req.PesoKg
	bag.Status = req.Status
	if err := s.bagRepo.Update(ctx, bag); err != nil {
		return nil, err
	}

	if !bag.PesoKg.Equal(pesoAnterior) {
		motivo := req.Motivo
		if motivo == "" {
			motivo = "Ajuste manual"
		}
		mov := &model.MovimentoEstoque{
			BagID:        bag.ID,
			ProdutoID:    bag.ProdutoID,
			Tipo:         model.MovimentoAjuste,
			PesoAnterior: pesoAnterior,
			PesoNovo:     bag.PesoKg,
			Motivo:       motivo,
		}
		if err := s.bagRepo.CreateMovimento(ctx, mov); err != nil {
			return nil, err
		}
	}

	s.invalidar(ctx, bag.ProdutoID)
	resp := bagToResponse(bag)
	return &resp, nil
}

func (s *estoqueService) ExcluirBag(ctx context.Context, bagID uuid.UUID) error {
	bag, err := s.bagRepo.FindByID(ctx, bagID)
	if err != nil {
		return errors.New("bag nao encontrada")
	}
	if err := s.bagRepo.Delete(ctx, bagID); err != nil {
		return err
	}
	s.invalidar(ctx, bag.ProdutoID)
	return nil
}

// ListarEstoque summarizes every product's position: available kg, bag count
// and the low-stock flag. comBags embeds the full bag list per product.
func (s *estoqueService) ListarEstoque(ctx context.Context, comBags bool) ([]dto.EstoqueProdutoResponse, error) {
	produtos, err := s.produtoRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.EstoqueProdutoResponse, 0, len(produtos))
	for i := range produtos {
		p := &produtos[i]
		bags, err := s.bagRepo.ListByProduto(ctx, p.ID)
		if err != nil {
			return nil, err
		}

		total := decimal.Zero
		count := 0
		var bagResp []dto.BagResponse
		for j := range bags {
			b := &bags[j]
			if b.Status == model.BagDisponivel {
				total = total.Add(b.PesoKg)
				count++
			}
			if comBags {
				bagResp = append(bagResp, bagToResponse(b))
			}
		}

		resp = append(resp, dto.EstoqueProdutoResponse{
			ProdutoID:       p.ID.String(),
			Nome:            p.Nome,
			PrecoPorKg:      p.PrecoPorKg,
			TotalDisponivel: total,
			TotalBags:       count,
			EstoqueBaixo:    total.LessThan(s.minimoKg),
			Bags:            bagResp,
		})
	}
	return resp, nil
}

func (s *estoqueService) Alertas(ctx context.Context) ([]dto.AlertaEstoqueResponse, error) {
	estoque, err := s.ListarEstoque(ctx, false)
	if err != nil {
		return nil, err
	}
	alertas := []dto.AlertaEstoqueResponse{}
	for _, e := range estoque {
		if e.EstoqueBaixo {
			alertas = append(alertas, dto.AlertaEstoqueResponse{
				ProdutoID:       e.ProdutoID,
				Nome:            e.Nome,
				TotalDisponivel: e.TotalDisponivel,
				MinimoKg:        s.minimoKg,
			})
		}
	}
	return alertas, nil
}

func (s *estoqueService) Movimentos(ctx context.Context, filter dto.MovimentoFilter) (*dto.MovimentoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}

	produtoID := uuid.Nil
	if filter.ProdutoID != "" {
		pid, err := uuid.Parse(filter.ProdutoID)
		if err != nil {
			return nil, fmt.Errorf("produto_id invalido: %w", err)
		}
		produtoID = pid
	}

	movs, total, err := s.bagRepo.ListMovimentos(ctx, produtoID, filter.Tipo, filter.Page, filter.Limit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.MovimentoResponse, len(movs))
	for i, m := range movs {
		var ref *string
		if m.ReferenciaID != nil {
			v := m.ReferenciaID.String()
			ref = &v
		}
		items[i] = dto.MovimentoResponse{
			ID:           m.ID.String(),
			BagID:        m.BagID.String(),
			ProdutoID:    m.ProdutoID.String(),
			Tipo:         m.Tipo,
			PesoAnterior: m.PesoAnterior,
			PesoNovo:     m.PesoNovo,
			Motivo:       m.Motivo,
			ReferenciaID: ref,
			Data:         m.CreatedAt.Format(time.RFC3339),
		}
	}
	return &dto.MovimentoListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *estoqueService) EtiquetasPDF(ctx context.Context, produtoID uuid.UUID) ([]byte, error) {
	produto, err := s.produtoRepo.FindByID(ctx, produtoID)
	if err != nil {
		return nil, errors.New("produto nao encontrado")
	}
	bags, err := s.bagRepo.ListDisponiveis(ctx, produtoID)
	if err != nil {
		return nil, err
	}
	if len(bags) == 0 {
		return nil, errors.New("produto sem bags disponiveis")
	}
	return infra.GerarEtiquetasPDF(produto, bags, s.empresaNome)
}

func (s *estoqueService) invalidar(ctx context.Context, produtoID uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, cache.KeyProduto+produtoID.String(), cache.KeyDashboard)
	}
}

func bagToResponse(b *model.Bag) dto.BagResponse {
	return dto.BagResponse{
		ID:            b.ID.String(),
		ProdutoID:     b.ProdutoID.String(),
		Identificador: b.Identificador,
		PesoKg:        b.PesoKg,
		Status:        b.Status,
		CriadoEm:      b.CriadoEm.Format(time.RFC3339),
	}
}

// shortNome builds the label prefix from the product name: first word,
// uppercased, at most 6 chars.
func shortNome(nome string) string {
	fields := strings.Fields(nome)
	if len(fields) == 0 {
		return "BAG"
	}
	prefix := []rune(strings.ToUpper(fields[0]))
	if len(prefix) > 6 {
		prefix = prefix[:6]
	}
	return string(prefix)
}
