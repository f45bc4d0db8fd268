package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestNewSupplyAttributes(t *testing.T) {
	attrs, err := NewSupplyAttributes("  Blue Thread ", ptr(int64(2)), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Blue Thread", attrs.Description)

	s := attrs.NewSupply()
	assert.True(t, s.Active)
	assert.Equal(t, int64(2), *s.ColorID)
}

func TestNewSupplyAttributes_Violations(t *testing.T) {
	_, err := NewSupplyAttributes("   ", ptr(int64(0)), nil, ptr(int64(-1)))
	require.Error(t, err)
	de, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindValidation, de.Kind)
	assert.Len(t, de.Violations, 3)

	_, err = NewSupplyAttributes(strings.Repeat("a", 201), nil, nil, nil)
	require.Error(t, err)
}

func TestNewSupplyPatch(t *testing.T) {
	_, err := NewSupplyPatch(nil, nil, nil, nil)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = NewSupplyPatch(ptr(""), nil, nil, nil)
	require.Error(t, err)

	p, err := NewSupplyPatch(ptr("Red Thread"), nil, ptr(int64(4)), nil)
	require.NoError(t, err)
	s := &Supply{ID: 9, Description: "Blue Thread", Active: true}
	p.Apply(s)
	assert.Equal(t, int64(9), s.ID)
	assert.Equal(t, "Red Thread", s.Description)
	assert.Equal(t, int64(4), *s.TypeID)
	assert.True(t, s.Active)
}

func TestSupplyStockChecks(t *testing.T) {
	st := SupplyStock{SupplyID: 1, StockActual: decimal.NewFromInt(10)}
	assert.True(t, st.HasEnough(decimal.NewFromInt(10)))
	assert.False(t, st.HasEnough(decimal.NewFromInt(11)))
	assert.True(t, st.IsLow(decimal.NewFromInt(10)))
	assert.False(t, st.IsLow(decimal.NewFromInt(9)))
}

func TestErrorKinds(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFoundf("supply %d not found", 1)))
	c := Conflictf(CodeInsufficientStock, "insufficient stock")
	assert.Equal(t, KindConflict, KindOf(c))
	assert.Equal(t, CodeInsufficientStock, CodeOf(c))

	raw := errors.New("connection reset")
	wrapped := Internal(raw)
	assert.Equal(t, KindInternal, KindOf(wrapped))
	assert.ErrorIs(t, wrapped, raw)
	assert.Same(t, c, Internal(c))
	assert.Equal(t, KindInternal, KindOf(raw))
}
