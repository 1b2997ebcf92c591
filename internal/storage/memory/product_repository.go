package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/vladislavdragonenkov/orders-api/internal/domain"
)

// productRepositoryInMemory — простая in-memory реализация ProductRepository.
type productRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Product
}

// NewProductRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{
		items: make(map[string]domain.Product),
	}
}

// Create сохраняет новый товар, проверяя уникальность штрихкода.
func (r *productRepositoryInMemory) Create(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.EAN != "" {
		for _, existing := range r.items {
			if existing.EAN == product.EAN {
				return domain.ErrDuplicateEAN
			}
		}
	}
	r.items[product.ID] = product
	return nil
}

// Get возвращает товар или ErrProductNotFound.
func (r *productRepositoryInMemory) Get(id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

// List возвращает товары по фильтру, отсортированные по имени.
func (r *productRepositoryInMemory) List(filter domain.ProductFilter) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Product, 0, len(r.items))
	for _, product := range r.items {
		if !matchesProductFilter(product, filter) {
			continue
		}
		result = append(result, product)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// Update перезаписывает товар.
func (r *productRepositoryInMemory) Update(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	if product.EAN != "" {
		for id, existing := range r.items {
			if id != product.ID && existing.EAN == product.EAN {
				return domain.ErrDuplicateEAN
			}
		}
	}
	r.items[product.ID] = product
	return nil
}

// Delete удаляет товар. Слепки в позициях заказов остаются как есть.
func (r *productRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.items, id)
	return nil
}

func matchesProductFilter(product domain.Product, filter domain.ProductFilter) bool {
	if filter.Name != "" && !strings.Contains(strings.ToLower(product.Name), strings.ToLower(filter.Name)) {
		return false
	}
	if filter.EAN != "" && product.EAN != filter.EAN {
		return false
	}
	if filter.PriceMin != nil && product.Price.LessThan(*filter.PriceMin) {
		return false
	}
	if filter.PriceMax != nil && product.Price.GreaterThan(*filter.PriceMax) {
		return false
	}
	return true
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
