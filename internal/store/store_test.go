package store

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/listinha-app/listinha/internal/apperr"
	"github.com/listinha-app/listinha/internal/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCategorySeedData(t *testing.T) {
	cs := NewCategoryStore(setupTestDB(t))

	categories, err := cs.List()
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(categories) != 12 {
		t.Fatalf("expected 12 seed categories, got %d", len(categories))
	}

	// Listing is name-ordered.
	for i := 1; i < len(categories); i++ {
		if categories[i-1].Name > categories[i].Name {
			t.Fatalf("categories not name-ordered: %q before %q", categories[i-1].Name, categories[i].Name)
		}
	}

	mercearia, err := cs.GetByName("Mercearia")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if mercearia == nil {
		t.Fatal("default category missing from seed")
	}
}

func TestProductUniqueNormalizedName(t *testing.T) {
	ps := NewProductStore(setupTestDB(t))

	if _, err := ps.Create("Tomate", "tomate", nil, true); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := ps.Create("TOMATE", "tomate", nil, true)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("duplicate create error = %v, want ErrConflict", err)
	}

	// The conflicting row is still readable by key, which is what the
	// resolver relies on after losing a creation race.
	p, err := ps.GetByNormalizedName("tomate")
	if err != nil || p == nil {
		t.Fatalf("re-read after conflict failed: %v", err)
	}
	if p.Name != "Tomate" {
		t.Errorf("winner name = %q, want first insert", p.Name)
	}
}

func TestProductSearchRanking(t *testing.T) {
	ps := NewProductStore(setupTestDB(t))

	a, _ := ps.Create("Leite Desnatado", "leite desnatado", nil, false)
	b, _ := ps.Create("Leite Integral", "leite integral", nil, false)
	ps.Create("Arroz", "arroz", nil, false)

	ps.IncrementUsage(a.ID)
	ps.IncrementUsage(b.ID)
	ps.IncrementUsage(b.ID)

	results, err := ps.Search("leite", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].ID != b.ID || results[1].ID != a.ID {
		t.Errorf("order = [%s, %s], want usage-count descending", results[0].Name, results[1].Name)
	}
}

func TestProductSearchEscapesLikeMetachars(t *testing.T) {
	ps := NewProductStore(setupTestDB(t))

	ps.Create("Arroz", "arroz", nil, false)

	// "%" would match everything if passed through unescaped.
	results, err := ps.Search("%", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results for literal %%, want 0", len(results))
	}
}

func TestIncrementUsageMonotonic(t *testing.T) {
	ps := NewProductStore(setupTestDB(t))

	p, _ := ps.Create("Tomate", "tomate", nil, false)
	for i := 1; i <= 5; i++ {
		if err := ps.IncrementUsage(p.ID); err != nil {
			t.Fatalf("increment %d: %v", i, err)
		}
		got, _ := ps.GetByID(p.ID)
		if got.UsageCount != i {
			t.Fatalf("usage count = %d after %d increments", got.UsageCount, i)
		}
	}
}

func TestListCompleteGuardsTransition(t *testing.T) {
	ls := NewListStore(setupTestDB(t))

	l, err := ls.Create("Lista de Compras", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Mercado ABC"
	changed, err := ls.Complete(l.ID, &name, time.Now().UTC())
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !changed {
		t.Fatal("expected first complete to change the row")
	}

	changed, err = ls.Complete(l.ID, nil, time.Now().UTC())
	if err != nil {
		t.Fatalf("second complete: %v", err)
	}
	if changed {
		t.Error("second complete changed a completed row")
	}

	got, _ := ls.GetByID(l.ID)
	if got.StoreName == nil || *got.StoreName != name {
		t.Errorf("store name = %v, want %q (second call must not overwrite)", got.StoreName, name)
	}
}

func TestListDeleteCascadesItems(t *testing.T) {
	db := setupTestDB(t)
	ls := NewListStore(db)
	is := NewItemStore(db)
	ps := NewProductStore(db)

	l, _ := ls.Create("Lista de Compras", nil)
	p, _ := ps.Create("Tomate", "tomate", nil, false)
	item, err := is.Create(l.ID, &p.ID, nil, 1, false)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	if err := ls.Delete(l.ID); err != nil {
		t.Fatalf("delete list: %v", err)
	}
	if got, _ := is.GetByID(item.ID); got != nil {
		t.Error("item survived list deletion")
	}
}

func TestPointerStoreLifecycle(t *testing.T) {
	ptr := NewPointerStore(setupTestDB(t))

	if _, ok, err := ptr.Get(); err != nil || ok {
		t.Fatalf("fresh pointer = ok=%v err=%v, want unset", ok, err)
	}

	if err := ptr.Set(42); err != nil {
		t.Fatalf("set: %v", err)
	}
	id, ok, err := ptr.Get()
	if err != nil || !ok || id != 42 {
		t.Fatalf("get = (%d, %v, %v), want (42, true, nil)", id, ok, err)
	}

	// Set overwrites in place.
	if err := ptr.Set(7); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if id, _, _ := ptr.Get(); id != 7 {
		t.Errorf("pointer = %d after overwrite, want 7", id)
	}

	if err := ptr.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := ptr.Get(); ok {
		t.Error("pointer still set after clear")
	}
}
