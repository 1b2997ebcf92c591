package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/orders-api/internal/domain"
)

// orderRepositoryInMemory — in-memory реализация OrderRepository.
// Один мьютекс на хранилище сериализует все мутации агрегата, поэтому
// конкурентные изменения позиций одного заказа не теряют обновлений.
type orderRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Order
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		items: make(map[string]domain.Order),
	}
}

// Create сохраняет шапку и позиции нового заказа как единое целое.
func (r *orderRepositoryInMemory) Create(order domain.Order) error {
	if len(order.Items) == 0 {
		return domain.ErrItemsRequired
	}
	for _, item := range order.Items {
		if item.Quantity <= 0 {
			return domain.ErrItemQtyInvalid
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Сохраняем копию, чтобы избежать непредсказуемых мутаций извне.
	r.items[order.ID] = cloneOrder(order)
	return nil
}

// Get возвращает заказ или ErrOrderNotFound.
func (r *orderRepositoryInMemory) Get(id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

// List возвращает заказы по фильтру, самые свежие первыми.
func (r *orderRepositoryInMemory) List(filter domain.OrderFilter) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0, len(r.items))
	for _, order := range r.items {
		if !matchesOrderFilter(order, filter) {
			continue
		}
		result = append(result, cloneOrder(order))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	return result, nil
}

// Count возвращает количество заказов по фильтру.
func (r *orderRepositoryInMemory) Count(filter domain.OrderFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, order := range r.items {
		if matchesOrderFilter(order, filter) {
			count++
		}
	}
	return count, nil
}

// UpdateFields применяет частичное обновление контактных полей заказа.
func (r *orderRepositoryInMemory) UpdateFields(id string, upd domain.OrderUpdate) (domain.Order, error) {
	if upd.IsEmpty() {
		return domain.Order{}, domain.ErrEmptyUpdate
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}

	order.ApplyUpdate(upd)
	order.UpdatedAt = time.Now().UTC()
	r.items[id] = order
	return cloneOrder(order), nil
}

// Delete удаляет заказ вместе с позициями.
func (r *orderRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.items, id)
	return nil
}

// AddItem добавляет позицию с уже снятым слепком товара.
func (r *orderRepositoryInMemory) AddItem(orderID string, item domain.OrderItem) (domain.Order, error) {
	if item.Quantity <= 0 {
		return domain.Order{}, domain.ErrItemQtyInvalid
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.items[orderID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}

	order = cloneOrder(order)
	order.Items = append(order.Items, item)
	order.UpdatedAt = time.Now().UTC()
	r.items[orderID] = order
	return cloneOrder(order), nil
}

// UpdateItemQuantity меняет количество, не трогая поля слепка.
func (r *orderRepositoryInMemory) UpdateItemQuantity(orderID, itemID string, quantity int32) (domain.Order, error) {
	if quantity <= 0 {
		return domain.Order{}, domain.ErrItemQtyInvalid
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.items[orderID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}

	order = cloneOrder(order)
	found := false
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			order.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return domain.Order{}, domain.ErrOrderItemNotFound
	}

	order.UpdatedAt = time.Now().UTC()
	r.items[orderID] = order
	return cloneOrder(order), nil
}

// RemoveItem удаляет позицию; последняя позиция заказа не удаляется.
func (r *orderRepositoryInMemory) RemoveItem(orderID, itemID string) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.items[orderID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}

	idx := -1
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return domain.Order{}, domain.ErrOrderItemNotFound
	}
	if len(order.Items) == 1 {
		return domain.Order{}, domain.ErrLastOrderItem
	}

	order = cloneOrder(order)
	order.Items = append(order.Items[:idx], order.Items[idx+1:]...)
	order.UpdatedAt = time.Now().UTC()
	r.items[orderID] = order
	return cloneOrder(order), nil
}

func matchesOrderFilter(order domain.Order, filter domain.OrderFilter) bool {
	if filter.CustomerID != "" && order.CustomerID != filter.CustomerID {
		return false
	}
	if filter.DateFrom != nil && order.CreatedAt.Before(*filter.DateFrom) {
		return false
	}
	if filter.DateTo != nil && order.CreatedAt.After(*filter.DateTo) {
		return false
	}
	return true
}

func cloneOrder(order domain.Order) domain.Order {
	clone := order
	clone.Items = make([]domain.OrderItem, len(order.Items))
	copy(clone.Items, order.Items)
	return clone
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
