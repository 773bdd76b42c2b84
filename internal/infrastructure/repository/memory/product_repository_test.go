package memory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/mrops-br/products-catalog/internal/domain"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestRepository() *ProductRepository {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewProductRepository(noop.NewTracerProvider().Tracer("test"), logger)
}

func insert(t *testing.T, r *ProductRepository, name string, available bool) *domain.Product {
	t.Helper()
	p, err := r.Insert(context.Background(), domain.NewProduct(name, "", decimal.RequireFromString("1.50"), &available))
	if err != nil {
		t.Fatalf("insert %s: %v", name, err)
	}
	return p
}

func TestInsertAssignsSequentialIDs(t *testing.T) {
	r := newTestRepository()
	a := insert(t, r, "a", true)
	b := insert(t, r, "b", true)

	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", a.ID, b.ID)
	}
	if a.CreatedAt.IsZero() || !a.CreatedAt.Equal(a.UpdatedAt) {
		t.Fatalf("expected timestamps to be set on insert: %+v", a)
	}
}

func TestInsertDoesNotAliasCallerValue(t *testing.T) {
	r := newTestRepository()
	in := domain.NewProduct("a", "", decimal.Zero, nil)
	out, _ := r.Insert(context.Background(), in)

	in.Name = "mutated"
	out.Name = "mutated too"

	got, err := r.FindUnique(context.Background(), out.ID, domain.ProductFilter{})
	if err != nil {
		t.Fatalf("FindUnique: %v", err)
	}
	if got.Name != "a" {
		t.Fatalf("stored product was aliased: %q", got.Name)
	}
}

func TestFindManyAppliesFilterAndWindow(t *testing.T) {
	r := newTestRepository()
	for i := 0; i < 6; i++ {
		insert(t, r, "p", i%3 != 0) // ids 1 and 4 removed
	}
	ctx := context.Background()

	page, err := r.FindMany(ctx, domain.OnlyAvailable(), 2, 1)
	if err != nil {
		t.Fatalf("FindMany: %v", err)
	}
	if len(page) != 2 || page[0].ID != 3 || page[1].ID != 5 {
		t.Fatalf("unexpected page: %+v", page)
	}

	past, _ := r.FindMany(ctx, domain.OnlyAvailable(), 10, 10)
	if len(past) != 0 {
		t.Fatalf("expected empty slice past the end, got %d", len(past))
	}

	n, _ := r.Count(ctx, domain.OnlyAvailable())
	if n != 4 {
		t.Fatalf("expected 4 available, got %d", n)
	}
	all, _ := r.Count(ctx, domain.ProductFilter{})
	if all != 6 {
		t.Fatalf("expected 6 total, got %d", all)
	}
}

func TestFindManyOutOfRangeWindow(t *testing.T) {
	r := newTestRepository()
	for _, name := range []string{"a", "b", "c"} {
		insert(t, r, name, true)
	}

	tests := []struct {
		name          string
		limit, offset int
		want          int
	}{
		{"negative offset", 10, -1, 0},
		{"zero limit", 0, 0, 0},
		{"limit larger than remaining", 1 << 62, 1, 2},
		{"offset past end", 10, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.FindMany(context.Background(), domain.ProductFilter{}, tt.limit, tt.offset)
			if err != nil {
				t.Fatalf("FindMany: %v", err)
			}
			if got == nil || len(got) != tt.want {
				t.Fatalf("got %d products, want %d", len(got), tt.want)
			}
		})
	}
}

func TestFindUniqueRespectsFilter(t *testing.T) {
	r := newTestRepository()
	p := insert(t, r, "gone", false)

	if _, err := r.FindUnique(context.Background(), p.ID, domain.OnlyAvailable()); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if _, err := r.FindUnique(context.Background(), p.ID, domain.ProductFilter{}); err != nil {
		t.Fatalf("unfiltered lookup should succeed: %v", err)
	}
}

func TestFindManyByIDIgnoresAvailability(t *testing.T) {
	r := newTestRepository()
	insert(t, r, "a", true)
	insert(t, r, "b", false)

	got, err := r.FindManyByID(context.Background(), []int64{2, 1, 2, 99})
	if err != nil {
		t.Fatalf("FindManyByID: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestUpdateWhereIsConditional(t *testing.T) {
	r := newTestRepository()
	p := insert(t, r, "a", true)
	ctx := context.Background()
	off := false

	updated, err := r.UpdateWhere(ctx, p.ID, domain.OnlyAvailable(), domain.ProductPatch{Available: &off})
	if err != nil {
		t.Fatalf("first UpdateWhere: %v", err)
	}
	if updated.Available || updated.Name != "a" {
		t.Fatalf("unexpected updated product: %+v", updated)
	}

	if _, err := r.UpdateWhere(ctx, p.ID, domain.OnlyAvailable(), domain.ProductPatch{Available: &off}); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound on second UpdateWhere, got %v", err)
	}
	if _, err := r.Update(ctx, 404, domain.ProductPatch{Available: &off}); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for unknown id, got %v", err)
	}
}

func TestConcurrentConditionalRemoveSucceedsOnce(t *testing.T) {
	r := newTestRepository()
	p := insert(t, r, "a", true)
	off := false

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.UpdateWhere(context.Background(), p.ID, domain.OnlyAvailable(), domain.ProductPatch{Available: &off}); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected exactly one successful conditional write, got %d", successes)
	}
}
