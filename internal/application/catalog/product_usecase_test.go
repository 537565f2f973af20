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

func newProductFixture() (*ProductUseCase, *testutil.LedgerStore) {
	store := testutil.NewLedgerStore()
	repo := testutil.NewMemProductRepo()
	return NewProductUseCase(repo, store.MovementRepo()), store
}

func TestProductCreateNormalizesCode(t *testing.T) {
	uc, _ := newProductFixture()
	ctx := context.Background()

	p := &entity.Product{ID: " acid-01 ", Name: "Ácido Sulfúrico", Unit: "kg"}
	require.NoError(t, uc.Create(ctx, p))
	assert.Equal(t, "ACID-01", p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := uc.GetByID(ctx, "acid-01")
	require.NoError(t, err)
	assert.Equal(t, "Ácido Sulfúrico", got.Name)
}

func TestProductCreateValidation(t *testing.T) {
	uc, _ := newProductFixture()
	ctx := context.Background()

	cases := []struct {
		name string
		p    *entity.Product
	}{
		{"código corto", &entity.Product{ID: "AB1", Name: "x"}},
		{"código largo", &entity.Product{ID: "ABCDEFGHIJK", Name: "x"}},
		{"código con espacios", &entity.Product{ID: "AB C1", Name: "x"}},
		{"sin nombre", &entity.Product{ID: "ACID-01"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, uc.Create(ctx, tc.p), domain.ErrInvalidInput)
		})
	}
}

func TestProductCreateDuplicate(t *testing.T) {
	uc, _ := newProductFixture()
	ctx := context.Background()

	require.NoError(t, uc.Create(ctx, &entity.Product{ID: "ACID-01", Name: "Ácido Sulfúrico"}))
	err := uc.Create(ctx, &entity.Product{ID: "acid-01", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductSearchIgnoresAccents(t *testing.T) {
	uc, _ := newProductFixture()
	ctx := context.Background()

	require.NoError(t, uc.Create(ctx, &entity.Product{ID: "ACID-01", Name: "Ácido Sulfúrico"}))
	require.NoError(t, uc.Create(ctx, &entity.Product{ID: "ETOH-96", Name: "Etanol 96"}))

	found, err := uc.Search(ctx, "acido sulfurico", 10, 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "ACID-01", found[0].ID)

	found, err = uc.Search(ctx, "SULFÚRICO", 10, 0)
	require.NoError(t, err)
	require.Len(t, found, 1)

	// término vacío = listado completo
	found, err = uc.Search(ctx, "  ", 10, 0)
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestProductUpdate(t *testing.T) {
	uc, _ := newProductFixture()
	ctx := context.Background()

	orig := &entity.Product{ID: "ACID-01", Name: "Ácido Sulfúrico"}
	require.NoError(t, uc.Create(ctx, orig))
	created := orig.CreatedAt

	err := uc.Update(ctx, &entity.Product{
		ID:               "ACID-01",
		Name:             "Ácido Sulfúrico 98%",
		Controlled:       true,
		ReorderThreshold: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	got, err := uc.GetByID(ctx, "ACID-01")
	require.NoError(t, err)
	assert.Equal(t, "Ácido Sulfúrico 98%", got.Name)
	assert.True(t, got.Controlled)
	assert.True(t, created.Equal(got.CreatedAt), "la fecha de alta no cambia al editar")

	err = uc.Update(ctx, &entity.Product{ID: "NOPE-99", Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductDeleteGuardedByLedger(t *testing.T) {
	uc, store := newProductFixture()
	ctx := context.Background()

	require.NoError(t, uc.Create(ctx, &entity.Product{ID: "ACID-01", Name: "Ácido Sulfúrico"}))
	store.Seed(&entity.Movement{
		ID: "m1", GroupID: "g1", Kind: entity.KindReceipt,
		Quantity: decimal.NewFromInt(10), Unit: "kg",
		ProductID: "ACID-01", LaboratoryID: "LAB1", Timestamp: time.Now().UTC(),
	})

	err := uc.Delete(ctx, "ACID-01")
	assert.ErrorIs(t, err, domain.ErrConflict, "un producto referenciado por el libro no se borra")

	_, err = uc.GetByID(ctx, "ACID-01")
	assert.NoError(t, err)
}

func TestProductDeleteUnreferenced(t *testing.T) {
	uc, _ := newProductFixture()
	ctx := context.Background()

	require.NoError(t, uc.Create(ctx, &entity.Product{ID: "ACID-01", Name: "Ácido Sulfúrico"}))
	require.NoError(t, uc.Delete(ctx, "acid-01"))

	_, err := uc.GetByID(ctx, "ACID-01")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, uc.Delete(ctx, "ACID-01"), domain.ErrNotFound)
}
