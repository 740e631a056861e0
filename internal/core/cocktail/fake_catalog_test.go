package cocktail

import (
	"context"
	"sync"

	"cocktail-explorer/internal/core/catalog"
)

// fakeCatalog 可設定行為的目錄替身，記錄每個操作的參數
type fakeCatalog struct {
	search func(ctx context.Context, name string) ([]catalog.Drink, error)
	filter func(ctx context.Context, ingredient string) ([]catalog.Drink, error)
	lookup func(ctx context.Context, id string) ([]catalog.Drink, error)
	random func(ctx context.Context) ([]catalog.Drink, error)

	mu    sync.Mutex
	calls map[string][]string
}

func (f *fakeCatalog) record(op, arg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string][]string)
	}
	f.calls[op] = append(f.calls[op], arg)
}

func (f *fakeCatalog) args(op string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls[op]...)
}

func (f *fakeCatalog) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += len(c)
	}
	return n
}

func (f *fakeCatalog) SearchByName(ctx context.Context, name string) ([]catalog.Drink, error) {
	f.record(catalog.OpSearch, name)
	if f.search == nil {
		return nil, nil
	}
	return f.search(ctx, name)
}

func (f *fakeCatalog) FilterByIngredient(ctx context.Context, ingredient string) ([]catalog.Drink, error) {
	f.record(catalog.OpFilter, ingredient)
	if f.filter == nil {
		return nil, nil
	}
	return f.filter(ctx, ingredient)
}

func (f *fakeCatalog) LookupByID(ctx context.Context, id string) ([]catalog.Drink, error) {
	f.record(catalog.OpLookup, id)
	if f.lookup == nil {
		return nil, nil
	}
	return f.lookup(ctx, id)
}

func (f *fakeCatalog) Random(ctx context.Context) ([]catalog.Drink, error) {
	f.record(catalog.OpRandom, "")
	if f.random == nil {
		return nil, nil
	}
	return f.random(ctx)
}

// drink 建立測試用記錄，ingredients 依序填入欄位 1..n（空字串代表缺漏）
func drink(id, instructions string, ingredients ...string) catalog.Drink {
	d := catalog.Drink{ID: id, Name: "Drink " + id, Instructions: instructions}
	for i, name := range ingredients {
		d.Ingredients[i] = name
	}
	return d
}
