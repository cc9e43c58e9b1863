package service

import (
	"context"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/maciellsuka/mondini-stock-flow-control/internal/dto"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/model"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory stubs ──────────────────────────────────────────────────────────
// The services open transactions through repo.DB(); the stubs return nil so
// runTx short-circuits and the Tx methods receive a nil *gorm.DB.

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	if c, ok := r.clientes[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubClienteRepo) List(ctx context.Context, filter dto.ClienteFilter) ([]model.Cliente, int64, error) {
	out := make([]model.Cliente, 0, len(r.clientes))
	for _, c := range r.clientes {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out, int64(len(out)), nil
}

func (r *stubClienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.clientes, id)
	return nil
}

func (r *stubClienteRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.clientes)), nil
}

type stubProdutoRepo struct {
	produtos   map[uuid.UUID]*model.Produto
	historicos []model.HistoricoPreco
}

var _ repository.ProdutoRepository = (*stubProdutoRepo)(nil)

func newStubProdutoRepo() *stubProdutoRepo {
	return &stubProdutoRepo{produtos: make(map[uuid.UUID]*model.Produto)}
}

func (r *stubProdutoRepo) DB() *gorm.DB { return nil }

func (r *stubProdutoRepo) Create(ctx context.Context, p *model.Produto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.produtos[p.ID] = p
	return nil
}

func (r *stubProdutoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Produto, error) {
	if p, ok := r.produtos[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProdutoRepo) List(ctx context.Context, filter dto.ProdutoFilter) ([]model.Produto, int64, error) {
	all, err := r.ListAll(ctx)
	return all, int64(len(all)), err
}

func (r *stubProdutoRepo) ListAll(ctx context.Context) ([]model.Produto, error) {
	out := make([]model.Produto, 0, len(r.produtos))
	for _, p := range r.produtos {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out, nil
}

func (r *stubProdutoRepo) Update(ctx context.Context, p *model.Produto) error {
	r.produtos[p.ID] = p
	return nil
}

func (r *stubProdutoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.produtos, id)
	return nil
}

func (r *stubProdutoRepo) CreateHistoricoPreco(ctx context.Context, h *model.HistoricoPreco) error {
	r.historicos = append(r.historicos, *h)
	return nil
}

func (r *stubProdutoRepo) ListHistoricoPrecos(ctx context.Context, produtoID uuid.UUID) ([]model.HistoricoPreco, error) {
	var out []model.HistoricoPreco
	for _, h := range r.historicos {
		if h.ProdutoID == produtoID {
			out = append(out, h)
		}
	}
	return out, nil
}

type stubBagRepo struct {
	bags       map[uuid.UUID]*model.Bag
	movimentos []model.MovimentoEstoque
}

var _ repository.BagRepository = (*stubBagRepo)(nil)

func newStubBagRepo() *stubBagRepo {
	return &stubBagRepo{bags: make(map[uuid.UUID]*model.Bag)}
}

func (r *stubBagRepo) Create(ctx context.Context, b *model.Bag) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.CriadoEm.IsZero() {
		b.CriadoEm = time.Now()
	}
	cp := *b
	r.bags[b.ID] = &cp
	return nil
}

func (r *stubBagRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Bag, error) {
	if b, ok := r.bags[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubBagRepo) ListByProduto(ctx context.Context, produtoID uuid.UUID) ([]model.Bag, error) {
	var out []model.Bag
	for _, b := range r.bags {
		if b.ProdutoID == produtoID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CriadoEm.Before(out[j].CriadoEm) })
	return out, nil
}

func (r *stubBagRepo) ListDisponiveis(ctx context.Context, produtoID uuid.UUID) ([]model.Bag, error) {
	all, _ := r.ListByProduto(ctx, produtoID)
	var out []model.Bag
	for _, b := range all {
		if b.Status == model.BagDisponivel && b.PesoKg.GreaterThan(decimal.Zero) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *stubBagRepo) Update(ctx context.Context, b *model.Bag) error {
	cp := *b
	r.bags[b.ID] = &cp
	return nil
}

func (r *stubBagRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.bags, id)
	return nil
}

func (r *stubBagRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Bag, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubBagRepo) ListDisponiveisTx(tx *gorm.DB, produtoID uuid.UUID) ([]model.Bag, error) {
	return r.ListDisponiveis(context.Background(), produtoID)
}

func (r *stubBagRepo) UpdateTx(tx *gorm.DB, b *model.Bag) error {
	return r.Update(context.Background(), b)
}

func (r *stubBagRepo) CreateMovimento(ctx context.Context, m *model.MovimentoEstoque) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movimentos = append(r.movimentos, *m)
	return nil
}

func (r *stubBagRepo) CreateMovimentoTx(tx *gorm.DB, m *model.MovimentoEstoque) error {
	return r.CreateMovimento(context.Background(), m)
}

func (r *stubBagRepo) ListMovimentos(ctx context.Context, produtoID uuid.UUID, tipo string, page, limit int) ([]model.MovimentoEstoque, int64, error) {
	var out []model.MovimentoEstoque
	for _, m := range r.movimentos {
		if produtoID != uuid.Nil && m.ProdutoID != produtoID {
			continue
		}
		if tipo != "" && m.Tipo != tipo {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *stubBagRepo) doTipo(tipo string) []model.MovimentoEstoque {
	var out []model.MovimentoEstoque
	for _, m := range r.movimentos {
		if m.Tipo == tipo {
			out = append(out, m)
		}
	}
	return out
}

type stubPedidoRepo struct {
	pedidos   map[uuid.UUID]*model.Pedido
	numeroSeq int
}

var _ repository.PedidoRepository = (*stubPedidoRepo)(nil)

func newStubPedidoRepo() *stubPedidoRepo {
	return &stubPedidoRepo{pedidos: make(map[uuid.UUID]*model.Pedido)}
}

func (r *stubPedidoRepo) DB() *gorm.DB { return nil }

func (r *stubPedidoRepo) CreateTx(tx *gorm.DB, p *model.Pedido) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.pedidos[p.ID] = p
	return nil
}

func (r *stubPedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	if p, ok := r.pedidos[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPedidoRepo) FindByChaveIdempotencia(ctx context.Context, chave string) (*model.Pedido, error) {
	for _, p := range r.pedidos {
		if p.ChaveIdempotencia != nil && *p.ChaveIdempotencia == chave {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPedidoRepo) List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error) {
	var out []model.Pedido
	for _, p := range r.pedidos {
		if filter.Status != "" && filter.Status != "all" && p.Status != filter.Status {
			continue
		}
		if filter.ClienteID != "" && p.ClienteID.String() != filter.ClienteID {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Numero < out[j].Numero })
	return out, int64(len(out)), nil
}

func (r *stubPedidoRepo) Update(ctx context.Context, p *model.Pedido) error {
	r.pedidos[p.ID] = p
	return nil
}

func (r *stubPedidoRepo) UpdateTx(tx *gorm.DB, p *model.Pedido) error {
	r.pedidos[p.ID] = p
	return nil
}

func (r *stubPedidoRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	if p, ok := r.pedidos[id]; ok {
		p.Status = status
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (r *stubPedidoRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	delete(r.pedidos, id)
	return nil
}

func (r *stubPedidoRepo) ReplaceItensTx(tx *gorm.DB, pedidoID uuid.UUID, itens []model.PedidoItem) error {
	p, ok := r.pedidos[pedidoID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range itens {
		itens[i].PedidoID = pedidoID
	}
	p.Itens = itens
	return nil
}

func (r *stubPedidoRepo) NextNumero(ctx context.Context, tx *gorm.DB) (int, error) {
	r.numeroSeq++
	return r.numeroSeq, nil
}

func (r *stubPedidoRepo) ListRecibosPendentes(ctx context.Context, until time.Time, limit int) ([]model.Pedido, error) {
	var out []model.Pedido
	for _, p := range r.pedidos {
		if !p.ReciboEnviado && p.ProximaTentativa != nil && !p.ProximaTentativa.After(until) {
			out = append(out, *p)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *stubPedidoRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	for _, p := range r.pedidos {
		if !p.DataPedido.Before(since) && p.Status != model.PedidoCancelado {
			n++
		}
	}
	return n, nil
}

func (r *stubPedidoRepo) SumTotalConcluidoSince(ctx context.Context, since time.Time) (string, error) {
	sum := decimal.Zero
	for _, p := range r.pedidos {
		if !p.DataPedido.Before(since) && p.Status == model.PedidoConcluido {
			sum = sum.Add(p.Total)
		}
	}
	return sum.String(), nil
}

// ── Fixtures ─────────────────────────────────────────────────────────────────

func buildPedidoSvc(t *testing.T) (PedidoService, *stubPedidoRepo, *stubBagRepo, *stubProdutoRepo, *stubClienteRepo) {
	t.Helper()
	pedidos := newStubPedidoRepo()
	bags := newStubBagRepo()
	produtos := newStubProdutoRepo()
	clientes := newStubClienteRepo()
	svc := NewPedidoService(pedidos, bags, produtos, clientes, nil, nil, "MONDINI", t.TempDir())
	return svc, pedidos, bags, produtos, clientes
}

func seedCliente(t *testing.T, r *stubClienteRepo, nome string) *model.Cliente {
	t.Helper()
	c := &model.Cliente{Nome: nome, CNPJ: "12.345.678/0001-90", Cidade: "Americana", Estado: "SP"}
	require.NoError(t, r.Create(context.Background(), c))
	return c
}

func seedProduto(t *testing.T, r *stubProdutoRepo, nome, precoPorKg string) *model.Produto {
	t.Helper()
	p := &model.Produto{Nome: nome, PrecoPorKg: dec(precoPorKg), Tipo: "moido"}
	require.NoError(t, r.Create(context.Background(), p))
	return p
}

func seedBag(t *testing.T, r *stubBagRepo, produtoID uuid.UUID, ident, peso string, criado time.Time) *model.Bag {
	t.Helper()
	b := &model.Bag{ProdutoID: produtoID, Identificador: ident, PesoKg: dec(peso), Status: model.BagDisponivel, CriadoEm: criado}
	require.NoError(t, r.Create(context.Background(), b))
	return b
}

func pedirItem(produtoID uuid.UUID, peso string) dto.ItemPedido {
	return dto.ItemPedido{ProdutoID: produtoID.String(), PesoKg: dec(peso)}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestCriarPedido_AlocaEDecrementaEstoque(t *testing.T) {
	svc, _, bags, produtos, clientes := buildPedidoSvc(t)
	ctx := context.Background()

	cliente := seedCliente(t, clientes, "Plasticos Oeste")
	produto := seedProduto(t, produtos, "Moido Cristal", "10.00")
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	b1 := seedBag(t, bags, produto.ID, "MOIDO-260301-01", "5.000", base)
	b2 := seedBag(t, bags, produto.ID, "MOIDO-260301-02", "7.000", base.Add(time.Hour))

	resp, err := svc.Criar(ctx, dto.CriarPedidoRequest{
		ClienteID:      cliente.ID.String(),
		FormaPagamento: "pix",
		Itens:          []dto.ItemPedido{pedirItem(produto.ID, "8")},
	})
	require.NoError(t, err)

	assert.Equal(t, "PED-0001", resp.Numero)
	assert.Equal(t, model.PedidoPendente, resp.Status)
	assert.Equal(t, cliente.Nome, resp.ClienteNome)
	assert.True(t, resp.Total.Equal(dec("80.00")), resp.Total.String())

	require.Len(t, resp.Itens, 1)
	require.Len(t, resp.Itens[0].Bags, 2)
	assert.Equal(t, "MOIDO-260301-01", resp.Itens[0].Bags[0].Identificador)
	assert.True(t, resp.Itens[0].Bags[0].PesoKg.Equal(dec("5.000")))
	assert.True(t, resp.Itens[0].Bags[1].PesoKg.Equal(dec("3")))

	// First bag drained to zero → held for the order; second keeps the rest
	atual1, _ := bags.FindByID(ctx, b1.ID)
	assert.True(t, atual1.PesoKg.IsZero())
	assert.Equal(t, model.BagReservado, atual1.Status)

	atual2, _ := bags.FindByID(ctx, b2.ID)
	assert.True(t, atual2.PesoKg.Equal(dec("4")), atual2.PesoKg.String())
	assert.Equal(t, model.BagDisponivel, atual2.Status)

	vendas := bags.doTipo(model.MovimentoVenda)
	require.Len(t, vendas, 2)
	assert.Contains(t, vendas[0].Motivo, "PED-0001")
}

func TestCriarPedido_EstoqueInsuficienteNaoPersisteNada(t *testing.T) {
	svc, pedidos, bags, produtos, clientes := buildPedidoSvc(t)
	ctx := context.Background()

	cliente := seedCliente(t, clientes, "Recicla Sul")
	produto := seedProduto(t, produtos, "Borra Mista", "4.50")
	b := seedBag(t, bags, produto.ID, "BORRA-01", "5.000", time.Now())

	_, err := svc.Criar(ctx, dto.CriarPedidoRequest{
		ClienteID:      cliente.ID.String(),
		FormaPagamento: "boleto",
		Itens:          []dto.ItemPedido{pedirItem(produto.ID, "20")},
	})
	assert.ErrorIs(t, err, ErrEstoqueInsuficiente)

	assert.Empty(t, pedidos.pedidos)
	atual, _ := bags.FindByID(ctx, b.ID)
	assert.True(t, atual.PesoKg.Equal(dec("5.000")))
	assert.Empty(t, bags.movimentos)
}

func TestCriarPedido_PesoZeroRejeitado(t *testing.T) {
	svc, _, bags, produtos, clientes := buildPedidoSvc(t)

	cliente := seedCliente(t, clientes, "Cliente A")
	produto := seedProduto(t, produtos, "Moido Verde", "8.00")
	seedBag(t, bags, produto.ID, "MOIDO-01", "10.000", time.Now())

	_, err := svc.Criar(context.Background(), dto.CriarPedidoRequest{
		ClienteID:      cliente.ID.String(),
		FormaPagamento: "pix",
		Itens:          []dto.ItemPedido{pedirItem(produto.ID, "0")},
	})
	assert.ErrorIs(t, err, ErrPesoInvalido)
}

func TestCriarPedido_ChaveIdempotenciaNaoDuplica(t *testing.T) {
	svc, pedidos, bags, produtos, clientes := buildPedidoSvc(t)
	ctx := context.Background()

	cliente := seedCliente(t, clientes, "Industria Leste")
	produto := seedProduto(t, produtos, "Moido Azul", "6.00")
	b := seedBag(t, bags, produto.ID, "MOIDO-01", "10.000", time.Now())

	chave := "pedido-2026-03-01-001"
	req := dto.CriarPedidoRequest{
		ClienteID:         cliente.ID.String(),
		FormaPagamento:    "pix",
		Itens:             []dto.ItemPedido{pedirItem(produto.ID, "3")},
		ChaveIdempotencia: &chave,
	}

	primeiro, err := svc.Criar(ctx, req)
	require.NoError(t, err)

	segundo, err := svc.Criar(ctx, req)
	require.NoError(t, err)

	// Same order back, stock decremented once
	assert.Equal(t, primeiro.ID, segundo.ID)
	assert.Equal(t, primeiro.Numero, segundo.Numero)
	assert.Len(t, pedidos.pedidos, 1)

	atual, _ := bags.FindByID(ctx, b.ID)
	assert.True(t, atual.PesoKg.Equal(dec("7")), atual.PesoKg.String())
}

func TestAtualizarStatus_CancelamentoRestauraEstoque(t *testing.T) {
	svc, _, bags, produtos, clientes := buildPedidoSvc(t)
	ctx := context.Background()

	cliente := seedCliente(t, clientes, "Cliente B")
	produto := seedProduto(t, produtos, "Moido Preto", "5.00")
	b := seedBag(t, bags, produto.ID, "MOIDO-01", "6.000", time.Now())

	resp, err := svc.Criar(ctx, dto.CriarPedidoRequest{
		ClienteID:      cliente.ID.String(),
		FormaPagamento: "pix",
		Itens:          []dto.ItemPedido{pedirItem(produto.ID, "6")},
	})
	require.NoError(t, err)

	drenada, _ := bags.FindByID(ctx, b.ID)
	require.Equal(t, model.BagReservado, drenada.Status)

	id := uuid.MustParse(resp.ID)
	cancelado, err := svc.AtualizarStatus(ctx, id, model.PedidoCancelado)
	require.NoError(t, err)
	assert.Equal(t, model.PedidoCancelado, cancelado.Status)

	restaurada, _ := bags.FindByID(ctx, b.ID)
	assert.True(t, restaurada.PesoKg.Equal(dec("6")), restaurada.PesoKg.String())
	assert.Equal(t, model.BagDisponivel, restaurada.Status)
	assert.Len(t, bags.doTipo(model.MovimentoRestauracao), 1)

	// Cancellation is terminal
	_, err = svc.AtualizarStatus(ctx, id, model.PedidoPendente)
	assert.ErrorContains(t, err, "cancelado")
}

func TestAtualizarStatus_ConclusaoVendeBagsDrenadas(t *testing.T) {
	svc, _, bags, produtos, clientes := buildPedidoSvc(t)
	ctx := context.Background()

	cliente := seedCliente(t, clientes, "Cliente C")
	produto := seedProduto(t, produtos, "Moido Branco", "7.00")
	base := time.Now()
	cheia := seedBag(t, bags, produto.ID, "MOIDO-01", "5.000", base)
	parcial := seedBag(t, bags, produto.ID, "MOIDO-02", "5.000", base.Add(time.Minute))

	resp, err := svc.Criar(ctx, dto.CriarPedidoRequest{
		ClienteID:      cliente.ID.String(),
		FormaPagamento: "pix",
		Itens:          []dto.ItemPedido{pedirItem(produto.ID, "7")},
	})
	require.NoError(t, err)

	_, err = svc.AtualizarStatus(ctx, uuid.MustParse(resp.ID), model.PedidoConcluido)
	require.NoError(t, err)

	// Only the bag this order exhausted flips to vendido
	atualCheia, _ := bags.FindByID(ctx, cheia.ID)
	assert.Equal(t, model.BagVendido, atualCheia.Status)

	atualParcial, _ := bags.FindByID(ctx, parcial.ID)
	assert.Equal(t, model.BagDisponivel, atualParcial.Status)
	assert.True(t, atualParcial.PesoKg.Equal(dec("3")), atualParcial.PesoKg.String())
}

func TestAtualizarPedido_EditarItensRealoca(t *testing.T) {
	svc, _, bags, produtos, clientes := buildPedidoSvc(t)
	ctx := context.Background()

	cliente := seedCliente(t, clientes, "Cliente D")
	produto := seedProduto(t, produtos, "Moido Cinza", "10.00")
	b := seedBag(t, bags, produto.ID, "MOIDO-01", "5.000", time.Now())

	resp, err := svc.Criar(ctx, dto.CriarPedidoRequest{
		ClienteID:      cliente.ID.String(),
		FormaPagamento: "pix",
		Itens:          []dto.ItemPedido{pedirItem(produto.ID, "3")},
	})
	require.NoError(t, err)

	// 3kg taken; editing to 4kg must restore first, then draw 4 from the 5
	editado, err := svc.Atualizar(ctx, uuid.MustParse(resp.ID), dto.AtualizarPedidoRequest{
		Itens: []dto.ItemPedido{pedirItem(produto.ID, "4")},
	})
	require.NoError(t, err)
	assert.True(t, editado.Total.Equal(dec("40.00")), editado.Total.String())

	atual, _ := bags.FindByID(ctx, b.ID)
	assert.True(t, atual.PesoKg.Equal(dec("1")), atual.PesoKg.String())
	assert.Len(t, bags.doTipo(model.MovimentoRestauracao), 1)
	assert.Len(t, bags.doTipo(model.MovimentoVenda), 2)
}

func TestAtualizarPedido_ConcluidoNaoEditavel(t *testing.T) {
	svc, _, bags, produtos, clientes := buildPedidoSvc(t)
	ctx := context.Background()

	cliente := seedCliente(t, clientes, "Cliente E")
	produto := seedProduto(t, produtos, "Moido Rosa", "9.00")
	seedBag(t, bags, produto.ID, "MOIDO-01", "10.000", time.Now())

	resp, err := svc.Criar(ctx, dto.CriarPedidoRequest{
		ClienteID:      cliente.ID.String(),
		FormaPagamento: "pix",
		Itens:          []dto.ItemPedido{pedirItem(produto.ID, "2")},
	})
	require.NoError(t, err)

	id := uuid.MustParse(resp.ID)
	_, err = svc.AtualizarStatus(ctx, id, model.PedidoConcluido)
	require.NoError(t, err)

	_, err = svc.Atualizar(ctx, id, dto.AtualizarPedidoRequest{FormaPagamento: "boleto"})
	assert.ErrorContains(t, err, "nao pode ser editado")
}

func TestExcluirPedido_AtivoDevolveEstoque(t *testing.T) {
	svc, pedidos, bags, produtos, clientes := buildPedidoSvc(t)
	ctx := context.Background()

	cliente := seedCliente(t, clientes, "Cliente F")
	produto := seedProduto(t, produtos, "Moido Ambar", "11.00")
	b := seedBag(t, bags, produto.ID, "MOIDO-01", "8.000", time.Now())

	resp, err := svc.Criar(ctx, dto.CriarPedidoRequest{
		ClienteID:      cliente.ID.String(),
		FormaPagamento: "pix",
		Itens:          []dto.ItemPedido{pedirItem(produto.ID, "8")},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Excluir(ctx, uuid.MustParse(resp.ID)))

	assert.Empty(t, pedidos.pedidos)
	atual, _ := bags.FindByID(ctx, b.ID)
	assert.True(t, atual.PesoKg.Equal(dec("8")), atual.PesoKg.String())
	assert.Equal(t, model.BagDisponivel, atual.Status)
}

func TestReciboPDF_GeraArquivo(t *testing.T) {
	svc, _, bags, produtos, clientes := buildPedidoSvc(t)
	ctx := context.Background()

	cliente := seedCliente(t, clientes, "Plasticos Norte")
	produto := seedProduto(t, produtos, "Moido Cristal", "10.00")
	seedBag(t, bags, produto.ID, "MOIDO-01", "5.000", time.Now())

	resp, err := svc.Criar(ctx, dto.CriarPedidoRequest{
		ClienteID:      cliente.ID.String(),
		FormaPagamento: "pix",
		Itens:          []dto.ItemPedido{pedirItem(produto.ID, "5")},
	})
	require.NoError(t, err)

	path, err := svc.ReciboPDF(ctx, uuid.MustParse(resp.ID))
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
