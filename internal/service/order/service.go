// Package order реализует сценарии работы с заказами поверх доменных репозиториев.
package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders-api/internal/domain"
	"github.com/vladislavdragonenkov/orders-api/internal/metrics"
	"github.com/vladislavdragonenkov/orders-api/internal/service/snapshot"
)

// CreateItemInput описывает одну позицию при создании заказа.
type CreateItemInput struct {
	ProductID string
	Quantity  int32
}

// CreateOrderInput описывает запрос на создание заказа.
// Контактные поля опциональны и по умолчанию берутся из карточки клиента.
type CreateOrderInput struct {
	CustomerID      string
	ShippingAddress *string
	ContactPhone    *string
	Email           *string
	Items           []CreateItemInput
}

// Service реализует операции над заказами.
type Service struct {
	orders    domain.OrderRepository
	customers domain.CustomerRepository
	capturer  *snapshot.Capturer
	metrics   *metrics.APIMetrics
	logger    *log.Entry
}

// NewService конструирует сервис заказов с зависимостями.
func NewService(
	orders domain.OrderRepository,
	customers domain.CustomerRepository,
	capturer *snapshot.Capturer,
	apiMetrics *metrics.APIMetrics,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	return &Service{
		orders:    orders,
		customers: customers,
		capturer:  capturer,
		metrics:   apiMetrics,
		logger:    logger,
	}
}

// CreateOrder создаёт заказ, фиксируя слепки клиента и всех товаров.
func (s *Service) CreateOrder(in CreateOrderInput) (domain.Order, error) {
	if err := validateID("customer_id", in.CustomerID); err != nil {
		return domain.Order{}, err
	}
	if len(in.Items) == 0 {
		return domain.Order{}, domain.ErrItemsRequired
	}

	// Один и тот же товар в запросе на создание повторяться не может.
	seen := make(map[string]struct{}, len(in.Items))
	for idx, item := range in.Items {
		if err := validateID("items.product_id", item.ProductID); err != nil {
			return domain.Order{}, err
		}
		if item.Quantity <= 0 {
			s.logger.WithField("item_index", idx).Warn("отклонено создание заказа с некорректным количеством")
			return domain.Order{}, domain.ErrItemQtyInvalid
		}
		if _, ok := seen[item.ProductID]; ok {
			return domain.Order{}, domain.ErrDuplicateOrderItem
		}
		seen[item.ProductID] = struct{}{}
	}

	customer, err := s.customers.Get(in.CustomerID)
	if err != nil {
		return domain.Order{}, err
	}
	customerSnap := customer.Snapshot()

	now := time.Now().UTC()
	items := make([]domain.OrderItem, 0, len(in.Items))
	for _, item := range in.Items {
		productSnap, err := s.capturer.CaptureProduct(item.ProductID)
		if err != nil {
			return domain.Order{}, err
		}
		items = append(items, domain.OrderItem{
			ID:          uuid.NewString(),
			ProductID:   productSnap.ProductID,
			ProductName: productSnap.Name,
			ProductEAN:  productSnap.EAN,
			UnitPrice:   productSnap.UnitPrice,
			Quantity:    item.Quantity,
			CreatedAt:   now,
		})
	}

	order := domain.Order{
		ID:               uuid.NewString(),
		CustomerID:       customerSnap.CustomerID,
		CustomerName:     customerSnap.Name,
		CustomerDocument: customerSnap.Document,
		ShippingAddress:  stringOrDefault(in.ShippingAddress, customerSnap.Address),
		ContactPhone:     stringOrDefault(in.ContactPhone, customerSnap.Phone),
		Email:            stringOrDefault(in.Email, customerSnap.Email),
		Status:           domain.OrderStatusNew,
		Items:            items,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, errors.Join(errs...)
	}

	if err := s.orders.Create(order); err != nil {
		return domain.Order{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}
	s.logger.WithFields(log.Fields{
		"order_id":    order.ID,
		"customer_id": order.CustomerID,
		"items":       len(order.Items),
	}).Info("заказ создан")

	return order, nil
}

// GetOrder возвращает заказ по идентификатору.
// При includeCustomer поверх слепка накладываются актуальные данные клиента,
// сам заказ в хранилище при этом не меняется.
func (s *Service) GetOrder(id string, includeCustomer bool) (domain.Order, error) {
	if err := validateID("order_id", id); err != nil {
		return domain.Order{}, err
	}

	order, err := s.orders.Get(id)
	if err != nil {
		return domain.Order{}, err
	}

	if includeCustomer {
		customer, err := s.customers.Get(order.CustomerID)
		if err == nil {
			order.CustomerName = customer.Name
			order.CustomerDocument = customer.Document
		} else if !errors.Is(err, domain.ErrCustomerNotFound) {
			return domain.Order{}, err
		}
		// Если клиент удалён из справочника, остаётся слепок.
	}

	return order, nil
}

// ListOrders возвращает заказы по фильтру, новые раньше старых.
func (s *Service) ListOrders(filter domain.OrderFilter) ([]domain.Order, error) {
	return s.orders.List(filter)
}

// CountOrders возвращает количество заказов по фильтру.
func (s *Service) CountOrders(filter domain.OrderFilter) (int, error) {
	return s.orders.Count(filter)
}

// UpdateOrder обновляет контактные поля заказа, слепки не трогаются.
func (s *Service) UpdateOrder(id string, upd domain.OrderUpdate) (domain.Order, error) {
	if err := validateID("order_id", id); err != nil {
		return domain.Order{}, err
	}
	if upd.IsEmpty() {
		return domain.Order{}, domain.ErrEmptyUpdate
	}

	order, err := s.orders.UpdateFields(id, upd)
	if err != nil {
		return domain.Order{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordOrderUpdated()
	}
	s.logger.WithField("order_id", id).Info("поля заказа обновлены")

	return order, nil
}

// DeleteOrder удаляет заказ вместе со всеми позициями.
func (s *Service) DeleteOrder(id string) error {
	if err := validateID("order_id", id); err != nil {
		return err
	}

	if err := s.orders.Delete(id); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordOrderDeleted()
	}
	s.logger.WithField("order_id", id).Info("заказ удалён")

	return nil
}

// AddItem добавляет в заказ новую позицию со свежим слепком товара.
// Повторное добавление того же товара создаёт отдельную позицию,
// количество существующих позиций не пересчитывается.
func (s *Service) AddItem(orderID, productID string, quantity int32) (domain.Order, error) {
	if err := validateID("order_id", orderID); err != nil {
		return domain.Order{}, err
	}
	if err := validateID("product_id", productID); err != nil {
		return domain.Order{}, err
	}
	if quantity <= 0 {
		return domain.Order{}, domain.ErrItemQtyInvalid
	}

	productSnap, err := s.capturer.CaptureProduct(productID)
	if err != nil {
		return domain.Order{}, err
	}

	item := domain.OrderItem{
		ID:          uuid.NewString(),
		ProductID:   productSnap.ProductID,
		ProductName: productSnap.Name,
		ProductEAN:  productSnap.EAN,
		UnitPrice:   productSnap.UnitPrice,
		Quantity:    quantity,
		CreatedAt:   time.Now().UTC(),
	}

	order, err := s.orders.AddItem(orderID, item)
	if err != nil {
		return domain.Order{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordItemAdded()
	}
	s.logger.WithFields(log.Fields{
		"order_id":   orderID,
		"product_id": productID,
	}).Info("позиция добавлена в заказ")

	return order, nil
}

// UpdateItemQuantity меняет количество в позиции, слепок цены сохраняется.
func (s *Service) UpdateItemQuantity(orderID, itemID string, quantity int32) (domain.Order, error) {
	if err := validateID("order_id", orderID); err != nil {
		return domain.Order{}, err
	}
	if err := validateID("item_id", itemID); err != nil {
		return domain.Order{}, err
	}
	if quantity <= 0 {
		return domain.Order{}, domain.ErrItemQtyInvalid
	}

	order, err := s.orders.UpdateItemQuantity(orderID, itemID, quantity)
	if err != nil {
		return domain.Order{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordItemUpdated()
	}

	return order, nil
}

// RemoveItem удаляет позицию из заказа.
// Последнюю позицию удалить нельзя, заказ не может остаться пустым.
func (s *Service) RemoveItem(orderID, itemID string) (domain.Order, error) {
	if err := validateID("order_id", orderID); err != nil {
		return domain.Order{}, err
	}
	if err := validateID("item_id", itemID); err != nil {
		return domain.Order{}, err
	}

	order, err := s.orders.RemoveItem(orderID, itemID)
	if err != nil {
		return domain.Order{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordItemRemoved()
	}

	return order, nil
}

func validateID(field, value string) error {
	if value == "" {
		return domain.NewValidationError(field, "is required")
	}
	if _, err := uuid.Parse(value); err != nil {
		return domain.NewValidationError(field, "must be a valid UUID")
	}
	return nil
}

func stringOrDefault(value *string, fallback string) string {
	if value != nil {
		return *value
	}
	return fallback
}
