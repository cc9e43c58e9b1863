package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/maciellsuka/mondini-stock-flow-control/internal/cache"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/dto"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/infra"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/model"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/repository"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PedidoService interface {
	Criar(ctx context.Context, req dto.CriarPedidoRequest) (*dto.PedidoResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error)
	Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarPedidoRequest) (*dto.PedidoResponse, error)
	AtualizarStatus(ctx context.Context, id uuid.UUID, status string) (*dto.PedidoResponse, error)
	Excluir(ctx context.Context, id uuid.UUID) error
	ReenviarRecibo(ctx context.Context, id uuid.UUID) error
	// ReciboPDF renders the order receipt and returns the path to the file.
	ReciboPDF(ctx context.Context, id uuid.UUID) (string, error)
}

type pedidoService struct {
	repo        repository.PedidoRepository
	bagRepo     repository.BagRepository
	produtoRepo repository.ProdutoRepository
	clienteRepo repository.ClienteRepository
	dispatcher  *worker.Dispatcher
	cache       *cache.Cache
	empresaNome string
	pdfDir      string
}

func NewPedidoService(
	repo repository.PedidoRepository,
	bagRepo repository.BagRepository,
	produtoRepo repository.ProdutoRepository,
	clienteRepo repository.ClienteRepository,
	dispatcher *worker.Dispatcher,
	c *cache.Cache,
	empresaNome, pdfDir string,
) PedidoService {
	return &pedidoService{
		repo:        repo,
		bagRepo:     bagRepo,
		produtoRepo: produtoRepo,
		clienteRepo: clienteRepo,
		dispatcher:  dispatcher,
		cache:       c,
		empresaNome: empresaNome,
		pdfDir:      pdfDir,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// linhaResolvida is one order line after pre-flight: product resolved, bags
// planned, subtotal priced. Nothing is persisted until the transaction runs.
type linhaResolvida struct {
	produtoID   uuid.UUID
	produtoNome string
	precoPorKg  decimal.Decimal
	pesoKg      decimal.Decimal
	subtotal    decimal.Decimal
	alocacoes   []Alocacao
	totais      []decimal.Decimal
}

// ── Criar ────────────────────────────────────────────────────────────────────
// Confirms a new order:
//   1. Deduplicate by chave_idempotencia
//   2. Pre-flight outside the tx: resolve client/products, plan allocations,
//      price each line (price captured into the line here, never re-read)
//   3. BEGIN TX: nextval numero, create pedido+itens+alocações, drain each
//      planned bag (row-locked re-read), record movimentos
//   4. COMMIT, invalidate dashboard cache, enqueue receipt job

func (s *pedidoService) Criar(ctx context.Context, req dto.CriarPedidoRequest) (*dto.PedidoResponse, error) {
	// 1. Double-submit guard
	if req.ChaveIdempotencia != nil && *req.ChaveIdempotencia != "" {
		if existing, err := s.repo.FindByChaveIdempotencia(ctx, *req.ChaveIdempotencia); err == nil {
			return pedidoToResponse(existing), nil
		}
	}

	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("cliente_id invalido: %w", err)
	}
	cliente, err := s.clienteRepo.FindByID(ctx, clienteID)
	if err != nil {
		return nil, errors.New("cliente nao encontrado")
	}

	// 2. Pre-flight: resolve products, plan allocations, price lines
	linhas, total, err := s.resolverLinhas(ctx, nil, req.Itens)
	if err != nil {
		return nil, err
	}

	dataEntrega, err := parseDataOpcional(req.DataEntrega)
	if err != nil {
		return nil, err
	}
	dataVencimento, err := parseDataOpcional(req.DataVencimento)
	if err != nil {
		return nil, err
	}

	// 3. ACID transaction: order + allocations + bag drains stand or fall together
	var pedido model.Pedido
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		num, err := s.repo.NextNumero(ctx, tx)
		if err != nil {
			return err
		}

		pedido = model.Pedido{
			Numero:            fmt.Sprintf("PED-%04d", num),
			ClienteID:         cliente.ID,
			ClienteNome:       cliente.Nome,
			DataPedido:        time.Now(),
			DataEntrega:       dataEntrega,
			Status:            model.PedidoPendente,
			FormaPagamento:    req.FormaPagamento,
			PrazoPagamento:    req.PrazoPagamento,
			StatusPagamento:   model.PagamentoNaoPago,
			DataVencimento:    dataVencimento,
			Observacoes:       req.Observacoes,
			Total:             total,
			ChaveIdempotencia: req.ChaveIdempotencia,
		}
		pedido.Itens = linhasParaItens(linhas)

		if err := s.repo.CreateTx(tx, &pedido); err != nil {
			return err
		}

		return s.aplicarAlocacoesTx(tx, &pedido, linhas)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.invalidar(ctx)

	// 4. Async receipt — best-effort, fire & forget
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueRecibo(ctx, worker.ReciboJobPayload{PedidoID: pedido.ID.String()})
	}

	return pedidoToResponse(&pedido), nil
}

// resolverLinhas turns requested items into priced, allocation-planned lines.
// When tx is non-nil, stock is read through it — item edits restore the old
// allocations in the same transaction and must plan against that state.
func (s *pedidoService) resolverLinhas(ctx context.Context, tx *gorm.DB, itens []dto.ItemPedido) ([]linhaResolvida, decimal.Decimal, error) {
	var linhas []linhaResolvida
	total := decimal.Zero

	for _, item := range itens {
		pid, err := uuid.Parse(item.ProdutoID)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("produto_id invalido: %w", err)
		}
		if item.PesoKg.LessThanOrEqual(decimal.Zero) {
			return nil, decimal.Zero, ErrPesoInvalido
		}
		p, err := s.produtoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("produto %s nao encontrado", item.ProdutoID)
		}

		var disponiveis []model.Bag
		if tx != nil {
			disponiveis, err = s.bagRepo.ListDisponiveisTx(tx, pid)
		} else {
			disponiveis, err = s.bagRepo.ListDisponiveis(ctx, pid)
		}
		if err != nil {
			return nil, decimal.Zero, err
		}
		plano, err := AlocarBags(disponiveis, item.PesoKg)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("%s: %w", p.Nome, err)
		}

		subtotal, totais := TotalAlocado(plano, p.PrecoPorKg)
		total = total.Add(subtotal)
		linhas = append(linhas, linhaResolvida{
			produtoID:   p.ID,
			produtoNome: p.Nome,
			precoPorKg:  p.PrecoPorKg,
			pesoKg:      item.PesoKg,
			subtotal:    subtotal,
			alocacoes:   plano,
			totais:      totais,
		})
	}
	return linhas, total, nil
}

func linhasParaItens(linhas []linhaResolvida) []model.PedidoItem {
	itens := make([]model.PedidoItem, 0, len(linhas))
	for _, l := range linhas {
		item := model.PedidoItem{
			ProdutoID:   l.produtoID,
			ProdutoNome: l.produtoNome,
			PrecoPorKg:  l.precoPorKg,
			PesoKg:      l.pesoKg,
			Subtotal:    l.subtotal,
		}
		for i, a := range l.alocacoes {
			item.Bags = append(item.Bags, model.PedidoItemBag{
				BagID:         a.BagID,
				Identificador: a.Identificador,
				PesoKg:        a.PesoKg,
				Total:         l.totais[i],
			})
		}
		itens = append(itens, item)
	}
	return itens
}

// aplicarAlocacoesTx drains each planned bag inside the transaction.
// The bag is re-read under a row lock: the plan was made from a snapshot, so
// a concurrent confirmation may have consumed it meanwhile.
func (s *pedidoService) aplicarAlocacoesTx(tx *gorm.DB, pedido *model.Pedido, linhas []linhaResolvida) error {
	for _, l := range linhas {
		for _, a := range l.alocacoes {
			bag, err := s.bagRepo.FindByIDTx(tx, a.BagID)
			if err != nil {
				return fmt.Errorf("bag %s nao encontrada", a.BagID)
			}
			if bag.Status != model.BagDisponivel || bag.PesoKg.LessThan(a.PesoKg) {
				return fmt.Errorf("%s: %w", l.produtoNome, ErrEstoqueInsuficiente)
			}

			pesoAnterior := bag.PesoKg
			bag.PesoKg = bag.PesoKg.Sub(a.PesoKg)
			if bag.PesoKg.IsZero() {
				// Drained by an active order — held until the order completes
				bag.Status = model.BagReservado
			}
			if err := s.bagRepo.UpdateTx(tx, bag); err != nil {
				return err
			}

			ref := pedido.ID
			mov := &model.MovimentoEstoque{
				BagID:        bag.ID,
				ProdutoID:    bag.ProdutoID,
				Tipo:         model.MovimentoVenda,
				PesoAnterior: pesoAnterior,
				PesoNovo:     bag.PesoKg,
				Motivo:       fmt.Sprintf("Pedido %s", pedido.Numero),
				ReferenciaID: &ref,
			}
			if err := s.bagRepo.CreateMovimentoTx(tx, mov); err != nil {
				return err
			}
		}
	}
	return nil
}

// restaurarAlocacoesTx returns every allocation of the order to stock.
// Used by cancellation, item edits and deletion of active orders.
func (s *pedidoService) restaurarAlocacoesTx(tx *gorm.DB, pedido *model.Pedido, motivo string) error {
	for _, item := range pedido.Itens {
		for _, ab := range item.Bags {
			bag, err := s.bagRepo.FindByIDTx(tx, ab.BagID)
			if err != nil {
				// Bag manually deleted since the sale — nothing to restore into
				continue
			}

			pesoAnterior := bag.PesoKg
			bag.PesoKg = bag.PesoKg.Add(ab.PesoKg)
			bag.Status = model.BagDisponivel
			if err := s.bagRepo.UpdateTx(tx, bag); err != nil {
				return err
			}

			ref := pedido.ID
			mov := &model.MovimentoEstoque{
				BagID:        bag.ID,
				ProdutoID:    bag.ProdutoID,
				Tipo:         model.MovimentoRestauracao,
				PesoAnterior: pesoAnterior,
				PesoNovo:     bag.PesoKg,
				Motivo:       motivo,
				ReferenciaID: &ref,
			}
			if err := s.bagRepo.CreateMovimentoTx(tx, mov); err != nil {
				return err
			}
		}
	}
	return nil
}

// ── Atualizar ────────────────────────────────────────────────────────────────

func (s *pedidoService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarPedidoRequest) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("pedido nao encontrado")
	}
	if pedido.Status == model.PedidoConcluido || pedido.Status == model.PedidoCancelado {
		return nil, fmt.Errorf("pedido %s nao pode ser editado", pedido.Status)
	}

	if req.DataEntrega != nil {
		d, err := parseDataOpcional(req.DataEntrega)
		if err != nil {
			return nil, err
		}
		pedido.DataEntrega = d
	}
	if req.DataVencimento != nil {
		d, err := parseDataOpcional(req.DataVencimento)
		if err != nil {
			return nil, err
		}
		pedido.DataVencimento = d
	}
	if req.FormaPagamento != "" {
		pedido.FormaPagamento = req.FormaPagamento
	}
	if req.PrazoPagamento != nil {
		pedido.PrazoPagamento = req.PrazoPagamento
	}
	if req.StatusPagamento != "" {
		pedido.StatusPagamento = req.StatusPagamento
	}
	if req.Observacoes != nil {
		pedido.Observacoes = req.Observacoes
	}

	// Item edit: restore old allocations, then reallocate — one transaction
	var linhas []linhaResolvida
	if len(req.Itens) > 0 {
		if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			if err := s.restaurarAlocacoesTx(tx, pedido, fmt.Sprintf("Edicao pedido %s", pedido.Numero)); err != nil {
				return err
			}

			var total decimal.Decimal
			linhas, total, err = s.resolverLinhas(ctx, tx, req.Itens)
			if err != nil {
				return err
			}

			itens := linhasParaItens(linhas)
			if err := s.repo.ReplaceItensTx(tx, pedido.ID, itens); err != nil {
				return err
			}
			pedido.Itens = itens
			pedido.Total = total

			if err := s.aplicarAlocacoesTx(tx, pedido, linhas); err != nil {
				return err
			}
			return s.repo.UpdateTx(tx, pedido)
		}); err != nil {
			return nil, err
		}
	} else {
		if err := s.repo.Update(ctx, pedido); err != nil {
			return nil, err
		}
	}

	s.invalidar(ctx)
	return pedidoToResponse(pedido), nil
}

// ── AtualizarStatus ──────────────────────────────────────────────────────────
// Workflow transitions:
//   → cancelado: allocations restored (terminal)
//   → concluido: bags this order drained to zero flip reservado → vendido

func (s *pedidoService) AtualizarStatus(ctx context.Context, id uuid.UUID, status string) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("pedido nao encontrado")
	}
	if pedido.Status == model.PedidoCancelado {
		return nil, errors.New("pedido cancelado nao pode mudar de status")
	}
	if pedido.Status == status {
		return pedidoToResponse(pedido), nil
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		switch status {
		case model.PedidoCancelado:
			motivo := fmt.Sprintf("Cancelamento pedido %s", pedido.Numero)
			if err := s.restaurarAlocacoesTx(tx, pedido, motivo); err != nil {
				return err
			}
		case model.PedidoConcluido:
			if err := s.venderBagsReservadasTx(tx, pedido); err != nil {
				return err
			}
		}
		pedido.Status = status
		return s.repo.UpdateStatusTx(tx, pedido.ID, status)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.invalidar(ctx)
	return pedidoToResponse(pedido), nil
}

// venderBagsReservadasTx flips this order's exhausted bags to vendido.
func (s *pedidoService) venderBagsReservadasTx(tx *gorm.DB, pedido *model.Pedido) error {
	for _, item := range pedido.Itens {
		for _, ab := range item.Bags {
			bag, err := s.bagRepo.FindByIDTx(tx, ab.BagID)
			if err != nil {
				continue
			}
			if bag.Status == model.BagReservado && bag.PesoKg.IsZero() {
				bag.Status = model.BagVendido
				if err := s.bagRepo.UpdateTx(tx, bag); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// ── Excluir ──────────────────────────────────────────────────────────────────
// Deletion is unconditional and irreversible. An active order first returns
// its allocations to stock, then the record is removed.

func (s *pedidoService) Excluir(ctx context.Context, id uuid.UUID) error {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("pedido nao encontrado")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if pedido.Status != model.PedidoCancelado {
			motivo := fmt.Sprintf("Exclusao pedido %s", pedido.Numero)
			if err := s.restaurarAlocacoesTx(tx, pedido, motivo); err != nil {
				return err
			}
		}
		return s.repo.DeleteTx(tx, pedido.ID)
	})
	if txErr != nil {
		return txErr
	}

	s.invalidar(ctx)
	return nil
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *pedidoService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("pedido nao encontrado")
	}
	return pedidoToResponse(pedido), nil
}

func (s *pedidoService) Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	pedidos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PedidoResponse, 0, len(pedidos))
	for i := range pedidos {
		items = append(items, *pedidoToResponse(&pedidos[i]))
	}
	return &dto.PedidoListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *pedidoService) ReenviarRecibo(ctx context.Context, id uuid.UUID) error {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("pedido nao encontrado")
	}
	if s.dispatcher == nil {
		return errors.New("fila de trabalho indisponivel")
	}
	return s.dispatcher.EnqueueRecibo(ctx, worker.ReciboJobPayload{PedidoID: pedido.ID.String()})
}

// ReciboPDF regenerates the receipt on demand — the download endpoint never
// depends on the async pipeline having run.
func (s *pedidoService) ReciboPDF(ctx context.Context, id uuid.UUID) (string, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", errors.New("pedido nao encontrado")
	}
	return infra.GerarReciboPDF(pedido, s.empresaNome, s.pdfDir)
}

func (s *pedidoService) invalidar(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, cache.KeyDashboard)
	}
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func parseDataOpcional(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, fmt.Errorf("data invalida %q (use YYYY-MM-DD)", *s)
	}
	return &t, nil
}

func formatData(t time.Time) string { return t.Format("2006-01-02") }

func formatDataPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatData(*t)
	return &s
}

func pedidoToResponse(p *model.Pedido) *dto.PedidoResponse {
	itens := make([]dto.ItemPedidoResponse, 0, len(p.Itens))
	for _, item := range p.Itens {
		bags := make([]dto.BagAlocadaResponse, 0, len(item.Bags))
		for _, ab := range item.Bags {
			bags = append(bags, dto.BagAlocadaResponse{
				BagID:         ab.BagID.String(),
				Identificador: ab.Identificador,
				PesoKg:        ab.PesoKg,
				Total:         ab.Total,
			})
		}
		itens = append(itens, dto.ItemPedidoResponse{
			ProdutoID:  item.ProdutoID.String(),
			Produto:    item.ProdutoNome,
			PrecoPorKg: item.PrecoPorKg,
			PesoKg:     item.PesoKg,
			Subtotal:   item.Subtotal,
			Bags:       bags,
		})
	}
	return &dto.PedidoResponse{
		ID:              p.ID.String(),
		Numero:          p.Numero,
		ClienteID:       p.ClienteID.String(),
		ClienteNome:     p.ClienteNome,
		DataPedido:      formatData(p.DataPedido),
		DataEntrega:     formatDataPtr(p.DataEntrega),
		Status:          p.Status,
		FormaPagamento:  p.FormaPagamento,
		PrazoPagamento:  p.PrazoPagamento,
		StatusPagamento: p.StatusPagamento,
		DataVencimento:  formatDataPtr(p.DataVencimento),
		Observacoes:     p.Observacoes,
		Itens:           itens,
		Total:           p.Total,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
	}
}
