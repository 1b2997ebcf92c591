// Package catalog реализует справочники клиентов и товаров.
package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders-api/internal/domain"
)

// CustomerInput описывает данные карточки клиента.
type CustomerInput struct {
	Name     string
	Document string
	Phone    string
	Address  string
	Email    string
}

// ProductInput описывает данные карточки товара.
type ProductInput struct {
	Name        string
	EAN         string
	Description string
	Price       decimal.Decimal
}

// Service реализует операции над справочниками.
type Service struct {
	customers domain.CustomerRepository
	products  domain.ProductRepository
	logger    *log.Entry
}

// NewService конструирует сервис справочников.
func NewService(customers domain.CustomerRepository, products domain.ProductRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "catalog-service")
	}
	return &Service{
		customers: customers,
		products:  products,
		logger:    logger,
	}
}

// CreateCustomer заводит карточку клиента.
func (s *Service) CreateCustomer(in CustomerInput) (domain.Customer, error) {
	if err := validateCustomerInput(in); err != nil {
		return domain.Customer{}, err
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Document:  strings.TrimSpace(in.Document),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
		Email:     strings.TrimSpace(in.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.customers.Create(customer); err != nil {
		return domain.Customer{}, err
	}

	s.logger.WithField("customer_id", customer.ID).Info("клиент создан")
	return customer, nil
}

// GetCustomer возвращает карточку клиента.
func (s *Service) GetCustomer(id string) (domain.Customer, error) {
	if err := validateID("customer_id", id); err != nil {
		return domain.Customer{}, err
	}
	return s.customers.Get(id)
}

// ListCustomers возвращает всех клиентов, новые раньше старых.
func (s *Service) ListCustomers() ([]domain.Customer, error) {
	return s.customers.List()
}

// UpdateCustomer полностью заменяет данные карточки.
// Слепки в уже оформленных заказах при этом не меняются.
func (s *Service) UpdateCustomer(id string, in CustomerInput) (domain.Customer, error) {
	if err := validateID("customer_id", id); err != nil {
		return domain.Customer{}, err
	}
	if err := validateCustomerInput(in); err != nil {
		return domain.Customer{}, err
	}

	existing, err := s.customers.Get(id)
	if err != nil {
		return domain.Customer{}, err
	}

	existing.Name = strings.TrimSpace(in.Name)
	existing.Document = strings.TrimSpace(in.Document)
	existing.Phone = strings.TrimSpace(in.Phone)
	existing.Address = strings.TrimSpace(in.Address)
	existing.Email = strings.TrimSpace(in.Email)
	existing.UpdatedAt = time.Now().UTC()

	if err := s.customers.Update(existing); err != nil {
		return domain.Customer{}, err
	}

	return existing, nil
}

// DeleteCustomer удаляет карточку клиента.
// Заказы с его слепком продолжают жить и читаться.
func (s *Service) DeleteCustomer(id string) error {
	if err := validateID("customer_id", id); err != nil {
		return err
	}

	if err := s.customers.Delete(id); err != nil {
		return err
	}

	s.logger.WithField("customer_id", id).Info("клиент удалён")
	return nil
}

// CreateProduct заводит карточку товара.
func (s *Service) CreateProduct(in ProductInput) (domain.Product, error) {
	if err := validateProductInput(in); err != nil {
		return domain.Product{}, err
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		EAN:         strings.TrimSpace(in.EAN),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.products.Create(product); err != nil {
		return domain.Product{}, err
	}

	s.logger.WithField("product_id", product.ID).Info("товар создан")
	return product, nil
}

// GetProduct возвращает карточку товара.
func (s *Service) GetProduct(id string) (domain.Product, error) {
	if err := validateID("product_id", id); err != nil {
		return domain.Product{}, err
	}
	return s.products.Get(id)
}

// ListProducts возвращает товары по фильтру.
func (s *Service) ListProducts(filter domain.ProductFilter) ([]domain.Product, error) {
	return s.products.List(filter)
}

// UpdateProduct полностью заменяет данные карточки.
// Слепки цен в уже оформленных заказах при этом не меняются.
func (s *Service) UpdateProduct(id string, in ProductInput) (domain.Product, error) {
	if err := validateID("product_id", id); err != nil {
		return domain.Product{}, err
	}
	if err := validateProductInput(in); err != nil {
		return domain.Product{}, err
	}

	existing, err := s.products.Get(id)
	if err != nil {
		return domain.Product{}, err
	}

	existing.Name = strings.TrimSpace(in.Name)
	existing.EAN = strings.TrimSpace(in.EAN)
	existing.Description = strings.TrimSpace(in.Description)
	existing.Price = in.Price
	existing.UpdatedAt = time.Now().UTC()

	if err := s.products.Update(existing); err != nil {
		return domain.Product{}, err
	}

	return existing, nil
}

// DeleteProduct удаляет карточку товара.
// Позиции заказов с его слепком остаются нетронутыми.
func (s *Service) DeleteProduct(id string) error {
	if err := validateID("product_id", id); err != nil {
		return err
	}

	if err := s.products.Delete(id); err != nil {
		return err
	}

	s.logger.WithField("product_id", id).Info("товар удалён")
	return nil
}

func validateCustomerInput(in CustomerInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return domain.NewValidationError("name", "is required")
	}
	if strings.TrimSpace(in.Document) == "" {
		return domain.NewValidationError("document", "is required")
	}
	return nil
}

func validateProductInput(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return domain.NewValidationError("name", "is required")
	}
	if in.Price.IsNegative() {
		return domain.NewValidationError("price", "must not be negative")
	}
	return nil
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
