package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labquim/labstock-api/internal/domain"
	"github.com/labquim/labstock-api/internal/domain/entity"
	"github.com/labquim/labstock-api/internal/testutil"
)

func newLaboratoryFixture() (*LaboratoryUseCase, *testutil.LedgerStore) {
	store := testutil.NewLedgerStore()
	repo := testutil.NewMemLaboratoryRepo()
	return NewLaboratoryUseCase(repo, store.MovementRepo()), store
}

func TestLaboratoryCreateAndGet(t *testing.T) {
	uc, _ := newLaboratoryFixture()
	ctx := context.Background()

	lab := &entity.Laboratory{ID: " lab1 ", Name: "Laboratorio Central", Email: "central@labquim.edu.ar"}
	require.NoError(t, uc.Create(ctx, lab))
	assert.Equal(t, "LAB1", lab.ID)

	got, err := uc.GetByID(ctx, "lab1")
	require.NoError(t, err)
	assert.Equal(t, "Laboratorio Central", got.Name)

	assert.ErrorIs(t, uc.Create(ctx, &entity.Laboratory{ID: "LAB1", Name: "Otro"}), domain.ErrDuplicate)
	assert.ErrorIs(t, uc.Create(ctx, &entity.Laboratory{ID: "LAB2"}), domain.ErrInvalidInput)
	assert.ErrorIs(t, uc.Create(ctx, &entity.Laboratory{Name: "Sin código"}), domain.ErrInvalidInput)
}

// El guard de borrado cuenta cualquier referencia del libro: laboratorio
// afectado, destino u origen de un traslado.
func TestLaboratoryDeleteGuardedByLedger(t *testing.T) {
	uc, store := newLaboratoryFixture()
	ctx := context.Background()

	for _, id := range []string{"LAB1", "LAB2", "LAB3"} {
		require.NoError(t, uc.Create(ctx, &entity.Laboratory{ID: id, Name: "Laboratorio " + id}))
	}
	now := time.Now().UTC()
	store.Seed(
		&entity.Movement{ID: "m1", GroupID: "g1", Kind: entity.KindTransfer, Quantity: decimal.NewFromInt(5), Unit: "kg", ProductID: "ACID-01", LaboratoryID: "LAB1", DestinationLabID: "LAB2", Timestamp: now},
		&entity.Movement{ID: "m2", GroupID: "g1", Kind: entity.KindReceipt, Quantity: decimal.NewFromInt(5), Unit: "kg", ProductID: "ACID-01", LaboratoryID: "LAB2", OriginLabID: "LAB1", Timestamp: now},
	)

	assert.ErrorIs(t, uc.Delete(ctx, "LAB1"), domain.ErrConflict)
	assert.ErrorIs(t, uc.Delete(ctx, "LAB2"), domain.ErrConflict)
	assert.NoError(t, uc.Delete(ctx, "LAB3"))
}

func TestLaboratoryUpdate(t *testing.T) {
	uc, _ := newLaboratoryFixture()
	ctx := context.Background()

	require.NoError(t, uc.Create(ctx, &entity.Laboratory{ID: "LAB1", Name: "Laboratorio Central"}))

	err := uc.Update(ctx, &entity.Laboratory{ID: "LAB1", Name: "Laboratorio Central (Edificio B)", Phone: "+54 11 5555-0001"})
	require.NoError(t, err)

	got, err := uc.GetByID(ctx, "LAB1")
	require.NoError(t, err)
	assert.Equal(t, "Laboratorio Central (Edificio B)", got.Name)
	assert.Equal(t, "+54 11 5555-0001", got.Phone)

	assert.ErrorIs(t, uc.Update(ctx, &entity.Laboratory{ID: "LAB9", Name: "x"}), domain.ErrNotFound)
	assert.ErrorIs(t, uc.Update(ctx, &entity.Laboratory{ID: "LAB1"}), domain.ErrInvalidInput)
}
