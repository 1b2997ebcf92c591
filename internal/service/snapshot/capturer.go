// Package snapshot фиксирует данные справочников в момент оформления заказа.
package snapshot

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders-api/internal/domain"
)

// Capturer снимает слепки клиента и товара из актуальных справочников.
// Слепок сохраняется в заказе и дальше живёт независимо от справочника.
type Capturer struct {
	customers domain.CustomerRepository
	products  domain.ProductRepository
	logger    *log.Entry
}

// NewCapturer конструирует Capturer с зависимостями.
func NewCapturer(customers domain.CustomerRepository, products domain.ProductRepository, logger *log.Entry) *Capturer {
	if logger == nil {
		logger = log.New().WithField("component", "snapshot-capturer")
	}
	return &Capturer{
		customers: customers,
		products:  products,
		logger:    logger,
	}
}

// CaptureCustomer возвращает слепок клиента по его идентификатору.
func (c *Capturer) CaptureCustomer(customerID string) (domain.CustomerSnapshot, error) {
	customer, err := c.customers.Get(customerID)
	if err != nil {
		return domain.CustomerSnapshot{}, err
	}

	c.logger.WithField("customer_id", customerID).Debug("слепок клиента зафиксирован")
	return customer.Snapshot(), nil
}

// CaptureProduct возвращает слепок товара по его идентификатору.
func (c *Capturer) CaptureProduct(productID string) (domain.ProductSnapshot, error) {
	product, err := c.products.Get(productID)
	if err != nil {
		return domain.ProductSnapshot{}, err
	}

	c.logger.WithField("product_id", productID).Debug("слепок товара зафиксирован")
	return product.Snapshot(), nil
}
