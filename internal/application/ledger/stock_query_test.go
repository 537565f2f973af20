package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labquim/labstock-api/internal/domain/entity"
	"github.com/labquim/labstock-api/internal/domain/repository"
	"github.com/labquim/labstock-api/internal/testutil"
)

func seededStore(base time.Time) *testutil.LedgerStore {
	store := testutil.NewLedgerStore()
	store.Seed(
		&entity.Movement{ID: "m1", GroupID: "g1", Kind: entity.KindReceipt, Quantity: decimal.NewFromInt(100), Unit: "kg", ProductID: testProduct, LaboratoryID: testLab1, Timestamp: base},
		&entity.Movement{ID: "m2", GroupID: "g2", Kind: entity.KindConsumption, Quantity: decimal.NewFromInt(30), Unit: "kg", ProductID: testProduct, LaboratoryID: testLab1, Timestamp: base.Add(time.Hour)},
		&entity.Movement{ID: "m3", GroupID: "g3", Kind: entity.KindPurchase, Quantity: decimal.NewFromInt(20), Unit: "kg", ProductID: testProduct, LaboratoryID: testLab1, Timestamp: base.Add(2 * time.Hour)},
		&entity.Movement{ID: "m4", GroupID: "g4", Kind: entity.KindReceipt, Quantity: decimal.NewFromInt(5), Unit: "kg", ProductID: testProduct, LaboratoryID: testLab2, Timestamp: base.Add(3 * time.Hour)},
	)
	return store
}

// Las consultas de stock son funciones puras del libro: dos llamadas sin
// mutación intermedia devuelven exactamente lo mismo.
func TestStockQueriesAreDeterministic(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	store := seededStore(base)
	uc := NewStockQueryUseCase(store.StockRepo(), store.MovementRepo())

	a1, err := uc.StockAt(ctx, testProduct, testLab1)
	require.NoError(t, err)
	a2, err := uc.StockAt(ctx, testProduct, testLab1)
	require.NoError(t, err)
	assert.True(t, a1.Equal(a2))
	assert.True(t, a1.Equal(decimal.NewFromInt(90)))

	g1, err := uc.GlobalStockMap(ctx, nil)
	require.NoError(t, err)
	g2, err := uc.GlobalStockMap(ctx, nil)
	require.NoError(t, err)
	assert.True(t, g1[testProduct].Equal(g2[testProduct]))
	assert.True(t, g1[testProduct].Equal(decimal.NewFromInt(95)))

	lab, err := uc.StockMapForLab(ctx, testLab1, nil)
	require.NoError(t, err)
	assert.True(t, lab[testProduct].Equal(decimal.NewFromInt(90)))

	byLab, err := uc.StockByLabMap(ctx, []string{testProduct})
	require.NoError(t, err)
	assert.True(t, byLab[testProduct][testLab1].Equal(decimal.NewFromInt(90)))
	assert.True(t, byLab[testProduct][testLab2].Equal(decimal.NewFromInt(5)))
}

// StockAtTime suma solo los movimientos estrictamente anteriores al instante
// consultado; una fila con timestamp igual a asOf queda afuera.
func TestStockAtTimeIsStrictlyBefore(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	store := seededStore(base)
	uc := NewStockQueryUseCase(store.StockRepo(), store.MovementRepo())

	atBase, err := uc.StockAtTime(ctx, testProduct, testLab1, base)
	require.NoError(t, err)
	assert.True(t, atBase.Equal(decimal.Zero), "la recepción de las 8:00 no cuenta a las 8:00")

	after, err := uc.StockAtTime(ctx, testProduct, testLab1, base.Add(time.Second))
	require.NoError(t, err)
	assert.True(t, after.Equal(decimal.NewFromInt(100)))

	mid, err := uc.StockAtTime(ctx, testProduct, testLab1, base.Add(90*time.Minute))
	require.NoError(t, err)
	assert.True(t, mid.Equal(decimal.NewFromInt(70)))
}

func TestMovementsFilterAndOrder(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	store := seededStore(base)
	uc := NewStockQueryUseCase(store.StockRepo(), store.MovementRepo())

	rows, err := uc.Movements(ctx, repository.MovementFilter{ProductID: testProduct, LaboratoryID: testLab1}, 0, 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "m1", rows[0].ID)
	assert.Equal(t, "m2", rows[1].ID)
	assert.Equal(t, "m3", rows[2].ID)

	from := base.Add(time.Hour)
	to := base.Add(2 * time.Hour)
	rows, err = uc.Movements(ctx, repository.MovementFilter{From: &from, To: &to}, 0, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2, "la ventana [from, to] es inclusiva en ambos extremos")

	rows, err = uc.Movements(ctx, repository.MovementFilter{
		Kinds: []entity.MovementKind{entity.KindConsumption},
	}, 0, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "m2", rows[0].ID)

	rows, err = uc.Movements(ctx, repository.MovementFilter{}, 2, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "m2", rows[0].ID)
}
