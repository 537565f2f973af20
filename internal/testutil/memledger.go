// Package testutil implementa los puertos de persistencia en memoria para
// tests de casos de uso y handlers, con la misma semántica transaccional que
// la implementación sobre PostgreSQL: commit atómico (todo o nada) y débitos
// serializados, de modo que los tests de concurrencia e invariantes del libro
// corran sin base de datos.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/labquim/labstock-api/internal/domain"
	"github.com/labquim/labstock-api/internal/domain/entity"
	"github.com/labquim/labstock-api/internal/domain/repository"
	"github.com/labquim/labstock-api/pkg/normalize"
)

// LedgerStore libro de movimientos en memoria. Run serializa las
// transacciones bajo un mutex global (más estricto que el lock por par de la
// implementación real, pero con el mismo resultado observable) y aplica las
// filas staged solo si fn no devuelve error.
type LedgerStore struct {
	mu   sync.Mutex
	rows []*entity.Movement

	// CreateErrAt hace fallar la n-ésima llamada a Create dentro de una
	// transacción (1-based) con ErrStorage; 0 desactiva la inyección. Sirve
	// para probar que una operación multi-fila no deja filas a medias.
	CreateErrAt int

	// ConflictRuns hace fallar las próximas n llamadas a Run con
	// ErrConcurrencyConflict sin ejecutar fn, simulando transacciones que no
	// pudieron serializarse (SQLSTATE 40001/40P01); 0 desactiva la inyección.
	ConflictRuns int

	runs int
}

// NewLedgerStore crea un libro vacío.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{}
}

// txState filas staged de una transacción en curso.
type txState struct {
	rows    []*entity.Movement
	creates int
	errAt   int
}

// Run implementa ledger.TxRunner.
func (s *LedgerStore) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs++
	if s.ConflictRuns > 0 {
		s.ConflictRuns--
		return domain.ErrConcurrencyConflict
	}

	tx := &txState{
		rows:  append([]*entity.Movement(nil), s.rows...),
		errAt: s.CreateErrAt,
	}
	if err := fn(&MemMovementRepo{store: s, tx: tx}, &MemStockRepo{store: s, tx: tx}); err != nil {
		return err
	}
	s.rows = tx.rows
	return nil
}

// Seed inserta filas comprometidas directamente (sin transacción), para
// armar historia con timestamps controlados.
func (s *LedgerStore) Seed(rows ...*entity.Movement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rows...)
}

// Len cantidad de filas comprometidas.
func (s *LedgerStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// Runs cantidad de llamadas a Run (incluye las fallidas por ConflictRuns),
// para verificar cuántos intentos hizo un caso de uso.
func (s *LedgerStore) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

// MovementRepo repositorio de lectura/escritura fuera de transacción.
func (s *LedgerStore) MovementRepo() repository.MovementRepository {
	return &MemMovementRepo{store: s}
}

// StockRepo motor de derivación fuera de transacción.
func (s *LedgerStore) StockRepo() repository.StockRepository {
	return &MemStockRepo{store: s}
}

// snapshot filas visibles: las staged dentro de una tx, las comprometidas
// fuera de ella.
func (s *LedgerStore) snapshot(tx *txState) []*entity.Movement {
	if tx != nil {
		return tx.rows
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entity.Movement(nil), s.rows...)
}

// MemMovementRepo implementación en memoria de MovementRepository.
type MemMovementRepo struct {
	store *LedgerStore
	tx    *txState
}

var _ repository.MovementRepository = (*MemMovementRepo)(nil)

func (r *MemMovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if r.tx == nil {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
		r.store.rows = append(r.store.rows, m)
		return nil
	}
	r.tx.creates++
	if r.tx.errAt > 0 && r.tx.creates == r.tx.errAt {
		return domain.ErrStorage
	}
	r.tx.rows = append(r.tx.rows, m)
	return nil
}

func (r *MemMovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	for _, m := range r.store.snapshot(r.tx) {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *MemMovementRepo) Query(ctx context.Context, f repository.MovementFilter, limit, offset int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.store.snapshot(r.tx) {
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.LaboratoryID != "" && m.LaboratoryID != f.LaboratoryID {
			continue
		}
		if len(f.Kinds) > 0 && !containsKind(f.Kinds, m.Kind) {
			continue
		}
		if f.From != nil && m.Timestamp.Before(*f.From) {
			continue
		}
		if f.To != nil && m.Timestamp.After(*f.To) {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemMovementRepo) ListByGroup(ctx context.Context, groupID string) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.store.snapshot(r.tx) {
		if m.GroupID == groupID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MemMovementRepo) FindReversal(ctx context.Context, movementID string) (*entity.Movement, error) {
	for _, m := range r.store.snapshot(r.tx) {
		if m.ReversalOf == movementID {
			return m, nil
		}
	}
	return nil, nil
}

func (r *MemMovementRepo) CountByProduct(ctx context.Context, productID string) (int64, error) {
	var n int64
	for _, m := range r.store.snapshot(r.tx) {
		if m.ProductID == productID {
			n++
		}
	}
	return n, nil
}

func (r *MemMovementRepo) CountByLaboratory(ctx context.Context, labID string) (int64, error) {
	var n int64
	for _, m := range r.store.snapshot(r.tx) {
		if m.LaboratoryID == labID || m.DestinationLabID == labID || m.OriginLabID == labID {
			n++
		}
	}
	return n, nil
}

func containsKind(kinds []entity.MovementKind, k entity.MovementKind) bool {
	for _, kk := range kinds {
		if kk == k {
			return true
		}
	}
	return false
}

// MemStockRepo deriva stock agregando las filas visibles, con la misma
// aritmética de signos que la query agrupada real.
type MemStockRepo struct {
	store *LedgerStore
	tx    *txState
}

var _ repository.StockRepository = (*MemStockRepo)(nil)

func (r *MemStockRepo) StockAt(ctx context.Context, productID, labID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range r.store.snapshot(r.tx) {
		if m.ProductID == productID && m.LaboratoryID == labID {
			total = total.Add(m.Kind.Signed(m.Quantity))
		}
	}
	return total, nil
}

func (r *MemStockRepo) StockAtTime(ctx context.Context, productID, labID string, asOf time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range r.store.snapshot(r.tx) {
		if m.ProductID == productID && m.LaboratoryID == labID && m.Timestamp.Before(asOf) {
			total = total.Add(m.Kind.Signed(m.Quantity))
		}
	}
	return total, nil
}

func (r *MemStockRepo) StockMapForLab(ctx context.Context, labID string, productIDs []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	for _, m := range r.store.snapshot(r.tx) {
		if m.LaboratoryID != labID || !matchesProducts(productIDs, m.ProductID) {
			continue
		}
		out[m.ProductID] = out[m.ProductID].Add(m.Kind.Signed(m.Quantity))
	}
	return out, nil
}

func (r *MemStockRepo) GlobalStockMap(ctx context.Context, productIDs []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	for _, m := range r.store.snapshot(r.tx) {
		if !matchesProducts(productIDs, m.ProductID) {
			continue
		}
		out[m.ProductID] = out[m.ProductID].Add(m.Kind.Signed(m.Quantity))
	}
	return out, nil
}

func (r *MemStockRepo) StockByLabMap(ctx context.Context, productIDs []string) (map[string]map[string]decimal.Decimal, error) {
	out := make(map[string]map[string]decimal.Decimal)
	for _, m := range r.store.snapshot(r.tx) {
		if !matchesProducts(productIDs, m.ProductID) {
			continue
		}
		byLab := out[m.ProductID]
		if byLab == nil {
			byLab = make(map[string]decimal.Decimal)
			out[m.ProductID] = byLab
		}
		byLab[m.LaboratoryID] = byLab[m.LaboratoryID].Add(m.Kind.Signed(m.Quantity))
	}
	return out, nil
}

// LockPair no-op: Run ya serializa las transacciones completas.
func (r *MemStockRepo) LockPair(ctx context.Context, productID, labID string) error {
	return nil
}

func matchesProducts(productIDs []string, id string) bool {
	if len(productIDs) == 0 {
		return true
	}
	for _, p := range productIDs {
		if p == id {
			return true
		}
	}
	return false
}

// MemProductRepo catálogo de productos en memoria.
type MemProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
}

var _ repository.ProductRepository = (*MemProductRepo)(nil)

// NewMemProductRepo crea el catálogo con los productos dados.
func NewMemProductRepo(products ...*entity.Product) *MemProductRepo {
	r := &MemProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *MemProductRepo) Create(ctx context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.products[p.ID] = p
	return nil
}

func (r *MemProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id], nil
}

func (r *MemProductRepo) Update(ctx context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.products[p.ID] = p
	return nil
}

func (r *MemProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

func (r *MemProductRepo) SearchByName(ctx context.Context, normalized string, limit, offset int) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.products {
		if strings.Contains(normalize.Fold(p.Name), normalized) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

func (r *MemProductRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// MemLaboratoryRepo catálogo de laboratorios en memoria.
type MemLaboratoryRepo struct {
	mu   sync.Mutex
	labs map[string]*entity.Laboratory
}

var _ repository.LaboratoryRepository = (*MemLaboratoryRepo)(nil)

// NewMemLaboratoryRepo crea el catálogo con los laboratorios dados.
func NewMemLaboratoryRepo(labs ...*entity.Laboratory) *MemLaboratoryRepo {
	r := &MemLaboratoryRepo{labs: make(map[string]*entity.Laboratory)}
	for _, lab := range labs {
		r.labs[lab.ID] = lab
	}
	return r
}

func (r *MemLaboratoryRepo) Create(ctx context.Context, lab *entity.Laboratory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.labs[lab.ID]; ok {
		return domain.ErrDuplicate
	}
	r.labs[lab.ID] = lab
	return nil
}

func (r *MemLaboratoryRepo) GetByID(ctx context.Context, id string) (*entity.Laboratory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.labs[id], nil
}

func (r *MemLaboratoryRepo) Update(ctx context.Context, lab *entity.Laboratory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.labs[lab.ID]; !ok {
		return domain.ErrNotFound
	}
	r.labs[lab.ID] = lab
	return nil
}

func (r *MemLaboratoryRepo) List(ctx context.Context, limit, offset int) ([]*entity.Laboratory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Laboratory, 0, len(r.labs))
	for _, lab := range r.labs {
		out = append(out, lab)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

func (r *MemLaboratoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.labs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.labs, id)
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
