package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSMTP = errors.New("smtp: connection refused")

func testCB() *CircuitBreaker {
	return NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 2,
		OpenTimeout:      50 * time.Millisecond,
	})
}

func fail() error    { return errSMTP }
func succeed() error { return nil }

func TestCircuitBreaker_AbreAposFalhasConsecutivas(t *testing.T) {
	cb := testCB()
	require.Equal(t, CBClosed, cb.State())

	for i := 0; i < 3; i++ {
		err := cb.Execute(fail)
		assert.ErrorIs(t, err, errSMTP)
	}
	assert.Equal(t, CBOpen, cb.State())

	// Open → fast-fail without calling fn
	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_SucessoZeraContagem(t *testing.T) {
	cb := testCB()

	_ = cb.Execute(fail)
	_ = cb.Execute(fail)
	require.NoError(t, cb.Execute(succeed))

	// Two more failures are below the threshold again
	_ = cb.Execute(fail)
	_ = cb.Execute(fail)
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_MeioAbertoFechaAposSucessos(t *testing.T) {
	cb := testCB()
	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}
	require.Equal(t, CBOpen, cb.State())

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, CBHalfOpen, cb.State())

	require.NoError(t, cb.Execute(succeed))
	assert.Equal(t, CBHalfOpen, cb.State())
	require.NoError(t, cb.Execute(succeed))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_ProbeFalhaReabre(t *testing.T) {
	cb := testCB()
	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, CBHalfOpen, cb.State())

	err := cb.Execute(fail)
	assert.ErrorIs(t, err, errSMTP)
	assert.Equal(t, CBOpen, cb.State())
}
