package service_test

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/tuanvumaihuynh/stash/internal/model"
	"github.com/tuanvumaihuynh/stash/internal/repository"
	"github.com/tuanvumaihuynh/stash/internal/storage/db"
)

// fakeDB runs transactions inline; the fake repositories ignore the handle.
type fakeDB struct {
	db.DB
}

func (f fakeDB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	return txFunc(f)
}

// store is an in-memory backing for every fake repository.
type store struct {
	mu sync.Mutex

	nextID         int64
	stocks         map[int64]model.StockLot
	products       map[int64]model.Product
	categories     map[int64]model.Category
	parentProducts map[int64]model.ParentProduct
	locations      map[int64]model.Location
	txs            []model.StockTransaction
	outbox         []repository.CreateOutboxMsgParams

	// failUpdate makes UpdateStock fail for the given lot.
	failUpdate map[int64]error
}

func newStore() *store {
	return &store{
		nextID:         100,
		stocks:         map[int64]model.StockLot{},
		products:       map[int64]model.Product{},
		categories:     map[int64]model.Category{},
		parentProducts: map[int64]model.ParentProduct{},
		locations:      map[int64]model.Location{},
		failUpdate:     map[int64]error{},
	}
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *store) addProduct(id int64, name string) {
	s.products[id] = model.Product{ID: id, Name: name}
}

func (s *store) addLot(lot model.StockLot) {
	s.stocks[lot.ID] = lot
}

func (s *store) lot(id int64) (model.StockLot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.stocks[id]
	return l, ok
}

func (s *store) transactions() []model.StockTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.txs)
}

func (s *store) withName(l model.StockLot) model.StockLot {
	l.ProductName = s.products[l.ProductID].Name
	return l
}

type fakeStockRepo struct{ s *store }

func (r fakeStockRepo) WithDB(db.DB) repository.StockRepository { return r }

func (r fakeStockRepo) ListStocks(_ context.Context, params repository.ListStocksParams) ([]model.StockLot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []model.StockLot{}
	for _, l := range r.s.stocks {
		if params.ProductID != nil && l.ProductID != *params.ProductID {
			continue
		}
		if params.InStockOnly && l.Amount <= 0 {
			continue
		}
		out = append(out, r.s.withName(l))
	}
	slices.SortFunc(out, func(a, b model.StockLot) int { return cmp.Compare(a.ID, b.ID) })

	return out, nil
}

// ListConsumableStocksByProduct returns lots in id order so the service's own sort is exercised.
func (r fakeStockRepo) ListConsumableStocksByProduct(ctx context.Context, productID int64) ([]model.StockLot, error) {
	return r.ListStocks(ctx, repository.ListStocksParams{ProductID: &productID, InStockOnly: true})
}

func (r fakeStockRepo) GetStock(_ context.Context, id int64) (model.StockLot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.stocks[id]
	if !ok {
		return model.StockLot{}, repository.ErrNotFound
	}
	return r.s.withName(l), nil
}

func (r fakeStockRepo) CreateStock(_ context.Context, stock model.StockLot) (model.StockLot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stock.ID = r.s.id()
	r.s.stocks[stock.ID] = stock
	return stock, nil
}

func (r fakeStockRepo) UpdateStock(_ context.Context, stock model.StockLot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.failUpdate[stock.ID]; err != nil {
		return err
	}
	if _, ok := r.s.stocks[stock.ID]; !ok {
		return repository.ErrNotFound
	}
	stock.ProductName = ""
	r.s.stocks[stock.ID] = stock
	return nil
}

func (r fakeStockRepo) DeleteStock(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.stocks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.stocks, id)
	return nil
}

type fakeStockTxRepo struct{ s *store }

func (r fakeStockTxRepo) WithDB(db.DB) repository.StockTransactionRepository { return r }

func (r fakeStockTxRepo) CreateStockTransaction(_ context.Context, tx model.StockTransaction) (model.StockTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tx.ID = r.s.id()
	r.s.txs = append(r.s.txs, tx)
	return tx, nil
}

func (r fakeStockTxRepo) ListStockTransactions(_ context.Context, txType *model.TransactionType) ([]model.StockTransaction, error) {
	all := r.s.transactions()
	if txType == nil {
		return all, nil
	}

	out := []model.StockTransaction{}
	for _, tx := range all {
		if tx.TransactionType == *txType {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r fakeStockTxRepo) ListStockTransactionsByProduct(_ context.Context, productID int64) ([]model.StockTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []model.StockTransaction{}
	for _, tx := range r.s.txs {
		if l, ok := r.s.stocks[tx.StockID]; ok && l.ProductID == productID {
			out = append(out, tx)
		}
	}
	return out, nil
}

type fakeProductRepo struct{ s *store }

func (r fakeProductRepo) WithDB(db.DB) repository.ProductRepository { return r }

func (r fakeProductRepo) ListProducts(context.Context) ([]model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]model.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b model.Product) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (r fakeProductRepo) GetProduct(_ context.Context, id int64) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok {
		return model.Product{}, repository.ErrNotFound
	}
	return p, nil
}

func (r fakeProductRepo) CreateProduct(_ context.Context, product model.Product) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	product.ID = r.s.id()
	r.s.products[product.ID] = product
	return product, nil
}

func (r fakeProductRepo) UpdateProduct(_ context.Context, product model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[product.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.products[product.ID] = product
	return nil
}

func (r fakeProductRepo) DeleteProduct(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return repository.ErrNotFound
	}
	for _, l := range r.s.stocks {
		if l.ProductID == id {
			return repository.ErrProductInUse
		}
	}
	delete(r.s.products, id)
	return nil
}

type fakeCategoryRepo struct{ s *store }

func (r fakeCategoryRepo) WithDB(db.DB) repository.CategoryRepository { return r }

func (r fakeCategoryRepo) ListCategories(context.Context) ([]model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]model.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b model.Category) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (r fakeCategoryRepo) GetCategory(_ context.Context, id int64) (model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.categories[id]
	if !ok {
		return model.Category{}, repository.ErrNotFound
	}
	return c, nil
}

func (r fakeCategoryRepo) CreateCategory(_ context.Context, category model.Category) (model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	category.ID = r.s.id()
	r.s.categories[category.ID] = category
	return category, nil
}

func (r fakeCategoryRepo) UpdateCategory(_ context.Context, category model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[category.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.categories[category.ID] = category
	return nil
}

func (r fakeCategoryRepo) DeleteCategory(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.categories, id)
	return nil
}

type fakeParentProductRepo struct{ s *store }

func (r fakeParentProductRepo) WithDB(db.DB) repository.ParentProductRepository { return r }

func (r fakeParentProductRepo) ListParentProducts(context.Context) ([]model.ParentProduct, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]model.ParentProduct, 0, len(r.s.parentProducts))
	for _, p := range r.s.parentProducts {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b model.ParentProduct) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (r fakeParentProductRepo) GetParentProduct(_ context.Context, id int64) (model.ParentProduct, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.parentProducts[id]
	if !ok {
		return model.ParentProduct{}, repository.ErrNotFound
	}
	return p, nil
}

func (r fakeParentProductRepo) CreateParentProduct(_ context.Context, parentProduct model.ParentProduct) (model.ParentProduct, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	parentProduct.ID = r.s.id()
	r.s.parentProducts[parentProduct.ID] = parentProduct
	return parentProduct, nil
}

func (r fakeParentProductRepo) UpdateParentProduct(_ context.Context, parentProduct model.ParentProduct) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.parentProducts[parentProduct.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.parentProducts[parentProduct.ID] = parentProduct
	return nil
}

func (r fakeParentProductRepo) DeleteParentProduct(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.parentProducts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.parentProducts, id)
	return nil
}

type fakeLocationRepo struct{ s *store }

func (r fakeLocationRepo) WithDB(db.DB) repository.LocationRepository { return r }

func (r fakeLocationRepo) ListLocations(context.Context) ([]model.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]model.Location, 0, len(r.s.locations))
	for _, l := range r.s.locations {
		out = append(out, l)
	}
	slices.SortFunc(out, func(a, b model.Location) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (r fakeLocationRepo) GetLocation(_ context.Context, id int64) (model.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.locations[id]
	if !ok {
		return model.Location{}, repository.ErrNotFound
	}
	return l, nil
}

func (r fakeLocationRepo) CreateLocation(_ context.Context, location model.Location) (model.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	location.ID = r.s.id()
	r.s.locations[location.ID] = location
	return location, nil
}

func (r fakeLocationRepo) UpdateLocation(_ context.Context, location model.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.locations[location.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.locations[location.ID] = location
	return nil
}

func (r fakeLocationRepo) DeleteLocation(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.locations[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.locations, id)
	return nil
}

type fakeOutboxMsgRepo struct{ s *store }

func (r fakeOutboxMsgRepo) WithDB(db.DB) repository.OutboxMsgRepository { return r }

func (r fakeOutboxMsgRepo) CreateOutboxMsg(_ context.Context, params repository.CreateOutboxMsgParams) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.outbox = append(r.s.outbox, params)
	return nil
}

func (r fakeOutboxMsgRepo) ListUnprocessedOutboxMsgs(context.Context, repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	return nil, nil
}

func (r fakeOutboxMsgRepo) BulkUpdateOutboxMsgs(context.Context, repository.BulkUpdateOutboxMsgsParams) error {
	return nil
}
