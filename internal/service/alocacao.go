package service

import (
	"errors"
	"sort"

	"github.com/maciellsuka/mondini-stock-flow-control/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrPesoInvalido is returned when the requested weight is zero or negative.
	ErrPesoInvalido = errors.New("peso solicitado deve ser maior que zero")
	// ErrEstoqueInsuficiente is returned when the available bags cannot cover
	// the requested weight. Allocation is all-or-nothing — no partial result.
	ErrEstoqueInsuficiente = errors.New("estoque insuficiente para o peso solicitado")
)

// Alocacao is one (bag, amount-taken) pair of an allocation plan.
type Alocacao struct {
	BagID         uuid.UUID
	Identificador string
	PesoKg        decimal.Decimal
}

// AlocarBags plans which bags satisfy a requested weight.
//
// Candidates are the bags with status disponivel and peso > 0, consumed
// oldest-first (FIFO by criado_em). Each bag is drained greedily: if it holds
// at least the still-needed amount the remainder is taken from it and the
// plan is complete; otherwise its entire weight is taken and the next bag is
// tried. The returned amounts sum to exactly pesoDesejado.
//
// This is a pure planning step — no bag is mutated here. Persistence happens
// when the order is confirmed, inside the confirmation transaction.
func AlocarBags(bags []model.Bag, pesoDesejado decimal.Decimal) ([]Alocacao, error) {
	if pesoDesejado.LessThanOrEqual(decimal.Zero) {
		return nil, ErrPesoInvalido
	}

	candidatas := make([]model.Bag, 0, len(bags))
	for _, b := range bags {
		if b.Status == model.BagDisponivel && b.PesoKg.GreaterThan(decimal.Zero) {
			candidatas = append(candidatas, b)
		}
	}
	sort.SliceStable(candidatas, func(i, j int) bool {
		return candidatas[i].CriadoEm.Before(candidatas[j].CriadoEm)
	})

	var plano []Alocacao
	restante := pesoDesejado

	for _, b := range candidatas {
		if b.PesoKg.GreaterThanOrEqual(restante) {
			plano = append(plano, Alocacao{BagID: b.ID, Identificador: b.Identificador, PesoKg: restante})
			restante = decimal.Zero
			break
		}
		plano = append(plano, Alocacao{BagID: b.ID, Identificador: b.Identificador, PesoKg: b.PesoKg})
		restante = restante.Sub(b.PesoKg)
	}

	if !restante.IsZero() {
		return nil, ErrEstoqueInsuficiente
	}
	return plano, nil
}

// TotalAlocado prices an allocation plan at the given price per kg and
// returns the line subtotal (rounded to cents) plus the per-bag totals.
func TotalAlocado(plano []Alocacao, precoPorKg decimal.Decimal) (decimal.Decimal, []decimal.Decimal) {
	subtotal := decimal.Zero
	totais := make([]decimal.Decimal, len(plano))
	for i, a := range plano {
		totais[i] = a.PesoKg.Mul(precoPorKg).Round(2)
		subtotal = subtotal.Add(totais[i])
	}
	return subtotal, totais
}
