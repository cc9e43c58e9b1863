package service

import (
	"testing"
	"time"

	"github.com/maciellsuka/mondini-stock-flow-control/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func bagDisponivel(ident, peso string, criado time.Time) model.Bag {
	return model.Bag{
		ID:            uuid.New(),
		ProdutoID:     uuid.New(),
		Identificador: ident,
		PesoKg:        dec(peso),
		Status:        model.BagDisponivel,
		CriadoEm:      criado,
	}
}

func TestAlocarBags_ExataUmaBag(t *testing.T) {
	bags := []model.Bag{bagDisponivel("SACA-01", "5.000", time.Now())}

	plano, err := AlocarBags(bags, dec("5"))
	require.NoError(t, err)
	require.Len(t, plano, 1)
	assert.Equal(t, bags[0].ID, plano[0].BagID)
	assert.True(t, plano[0].PesoKg.Equal(dec("5")), plano[0].PesoKg.String())

	// Planning never mutates the input
	assert.True(t, bags[0].PesoKg.Equal(dec("5.000")))
	assert.Equal(t, model.BagDisponivel, bags[0].Status)
}

func TestAlocarBags_ConsomeMaisAntigasPrimeiro(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	antiga := bagDisponivel("SACA-01", "5.000", base)
	media := bagDisponivel("SACA-02", "7.000", base.Add(time.Hour))
	nova := bagDisponivel("SACA-03", "9.000", base.Add(2*time.Hour))

	// Input order deliberately scrambled
	plano, err := AlocarBags([]model.Bag{nova, antiga, media}, dec("8"))
	require.NoError(t, err)
	require.Len(t, plano, 2)

	// Oldest drained whole, remainder from the next one
	assert.Equal(t, antiga.ID, plano[0].BagID)
	assert.True(t, plano[0].PesoKg.Equal(dec("5.000")))
	assert.Equal(t, media.ID, plano[1].BagID)
	assert.True(t, plano[1].PesoKg.Equal(dec("3")))

	soma := decimal.Zero
	for _, a := range plano {
		soma = soma.Add(a.PesoKg)
	}
	assert.True(t, soma.Equal(dec("8")))
}

func TestAlocarBags_EstoqueInsuficiente(t *testing.T) {
	bags := []model.Bag{
		bagDisponivel("SACA-01", "2.000", time.Now()),
		bagDisponivel("SACA-02", "3.000", time.Now()),
	}

	plano, err := AlocarBags(bags, dec("5.001"))
	assert.ErrorIs(t, err, ErrEstoqueInsuficiente)
	assert.Nil(t, plano)
}

func TestAlocarBags_PesoInvalido(t *testing.T) {
	bags := []model.Bag{bagDisponivel("SACA-01", "5.000", time.Now())}

	_, err := AlocarBags(bags, decimal.Zero)
	assert.ErrorIs(t, err, ErrPesoInvalido)

	_, err = AlocarBags(bags, dec("-1"))
	assert.ErrorIs(t, err, ErrPesoInvalido)
}

func TestAlocarBags_IgnoraBagsNaoDisponiveis(t *testing.T) {
	disponivel := bagDisponivel("SACA-01", "4.000", time.Now())

	reservada := bagDisponivel("SACA-02", "10.000", time.Now().Add(-time.Hour))
	reservada.Status = model.BagReservado

	vendida := bagDisponivel("SACA-03", "10.000", time.Now().Add(-2*time.Hour))
	vendida.Status = model.BagVendido

	vazia := bagDisponivel("SACA-04", "0", time.Now().Add(-3*time.Hour))

	plano, err := AlocarBags([]model.Bag{reservada, vendida, vazia, disponivel}, dec("4"))
	require.NoError(t, err)
	require.Len(t, plano, 1)
	assert.Equal(t, disponivel.ID, plano[0].BagID)

	// The held/sold weight cannot cover anything beyond the available bag
	_, err = AlocarBags([]model.Bag{reservada, vendida, vazia, disponivel}, dec("4.5"))
	assert.ErrorIs(t, err, ErrEstoqueInsuficiente)
}

func TestTotalAlocado_ArredondaPorBag(t *testing.T) {
	plano := []Alocacao{
		{BagID: uuid.New(), Identificador: "SACA-01", PesoKg: dec("0.333")},
		{BagID: uuid.New(), Identificador: "SACA-02", PesoKg: dec("0.333")},
	}

	subtotal, totais := TotalAlocado(plano, dec("9.90"))
	require.Len(t, totais, 2)

	// 0.333 * 9.90 = 3.2967 → 3.30 per bag
	assert.True(t, totais[0].Equal(dec("3.30")), totais[0].String())
	assert.True(t, totais[1].Equal(dec("3.30")), totais[1].String())
	assert.True(t, subtotal.Equal(dec("6.60")), subtotal.String())
}

func TestTotalAlocado_PlanoVazio(t *testing.T) {
	subtotal, totais := TotalAlocado(nil, dec("12.50"))
	assert.True(t, subtotal.IsZero())
	assert.Empty(t, totais)
}
