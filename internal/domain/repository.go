package domain

// CustomerRepository описывает требования к хранилищу клиентов.
type CustomerRepository interface {
	// Create сохраняет нового клиента. Возвращает ErrDuplicateDocument при повторном документе.
	Create(customer Customer) error
	// Get возвращает клиента по идентификатору или ErrCustomerNotFound.
	Get(id string) (Customer, error)
	// List возвращает всех клиентов, отсортированных по имени.
	List() ([]Customer, error)
	// Update перезаписывает профиль клиента или возвращает ErrCustomerNotFound.
	Update(customer Customer) error
	// Delete удаляет клиента. Ранее созданные заказы со слепком его данных не затрагиваются.
	Delete(id string) error
}

// ProductRepository описывает требования к хранилищу товаров.
type ProductRepository interface {
	// Create сохраняет новый товар. Возвращает ErrDuplicateEAN при повторном штрихкоде.
	Create(product Product) error
	// Get возвращает товар по идентификатору или ErrProductNotFound.
	Get(id string) (Product, error)
	// List возвращает товары, подходящие под фильтр, отсортированные по имени.
	List(filter ProductFilter) ([]Product, error)
	// Update перезаписывает товар или возвращает ErrProductNotFound.
	Update(product Product) error
	// Delete удаляет товар. Слепки в позициях заказов не затрагиваются.
	Delete(id string) error
}

// OrderRepository описывает требования к хранилищу агрегата заказа.
// Шапка заказа и его позиции — одна граница консистентности: многострочные
// операции либо применяются целиком, либо не применяются вовсе.
type OrderRepository interface {
	// Create атомарно сохраняет шапку и все позиции нового заказа.
	Create(order Order) error
	// Get возвращает заказ вместе с позициями или ErrOrderNotFound.
	Get(id string) (Order, error)
	// List возвращает заказы по фильтру, самые свежие первыми.
	List(filter OrderFilter) ([]Order, error)
	// Count возвращает количество заказов по тем же условиям, что и List.
	Count(filter OrderFilter) (int, error)
	// UpdateFields применяет частичное обновление контактных полей заказа
	// и возвращает обновлённый заказ.
	UpdateFields(id string, upd OrderUpdate) (Order, error)
	// Delete атомарно удаляет заказ и все его позиции.
	Delete(id string) error
	// AddItem добавляет позицию в существующий заказ и возвращает обновлённый заказ.
	// Позиция приходит с уже снятым слепком товара.
	AddItem(orderID string, item OrderItem) (Order, error)
	// UpdateItemQuantity меняет только количество в позиции. Поля слепка
	// не затрагиваются, даже если товар с тех пор изменился.
	UpdateItemQuantity(orderID, itemID string, quantity int32) (Order, error)
	// RemoveItem удаляет позицию. Удаление последней позиции отклоняется
	// с ErrLastOrderItem.
	RemoveItem(orderID, itemID string) (Order, error)
}
