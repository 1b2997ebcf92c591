package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/vladislavdragonenkov/orders-api/internal/domain"
	"github.com/vladislavdragonenkov/orders-api/internal/service/catalog"
	"github.com/vladislavdragonenkov/orders-api/internal/service/order"
)

// Денежные значения сериализуются строками с двумя знаками после запятой.

type orderItemResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	ProductEAN  string    `json:"product_ean,omitempty"`
	UnitPrice   string    `json:"unit_price"`
	Quantity    int32     `json:"quantity"`
	Subtotal    string    `json:"subtotal"`
	CreatedAt   time.Time `json:"created_at"`
}

type orderResponse struct {
	ID               string              `json:"id"`
	CustomerID       string              `json:"customer_id"`
	CustomerName     string              `json:"customer_name"`
	CustomerDocument string              `json:"customer_document"`
	ShippingAddress  string              `json:"shipping_address"`
	ContactPhone     string              `json:"contact_phone"`
	Email            string              `json:"email"`
	Status           string              `json:"status"`
	Items            []orderItemResponse `json:"items,omitempty"`
	TotalAmount      string              `json:"total_amount"`
	TotalQuantity    int32               `json:"total_quantity"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

type customerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type productResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	EAN         string    `json:"ean,omitempty"`
	Description string    `json:"description,omitempty"`
	Price       string    `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type createOrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

type createOrderRequest struct {
	CustomerID      string                   `json:"customer_id"`
	ShippingAddress *string                  `json:"shipping_address"`
	ContactPhone    *string                  `json:"contact_phone"`
	Email           *string                  `json:"email"`
	Items           []createOrderItemRequest `json:"items"`
}

type updateOrderRequest struct {
	ShippingAddress *string `json:"shipping_address"`
	ContactPhone    *string `json:"contact_phone"`
	Email           *string `json:"email"`
}

type addOrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

type updateOrderItemRequest struct {
	Quantity int32 `json:"quantity"`
}

type customerRequest struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Email    string `json:"email"`
}

type productRequest struct {
	Name        string `json:"name"`
	EAN         string `json:"ean"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toOrderResponse(o domain.Order, includeItems bool) orderResponse {
	resp := orderResponse{
		ID:               o.ID,
		CustomerID:       o.CustomerID,
		CustomerName:     o.CustomerName,
		CustomerDocument: o.CustomerDocument,
		ShippingAddress:  o.ShippingAddress,
		ContactPhone:     o.ContactPhone,
		Email:            o.Email,
		Status:           string(o.Status),
		TotalAmount:      o.Total().StringFixed(2),
		TotalQuantity:    o.TotalQuantity(),
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
	if includeItems {
		resp.Items = make([]orderItemResponse, 0, len(o.Items))
		for _, item := range o.Items {
			resp.Items = append(resp.Items, orderItemResponse{
				ID:          item.ID,
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				ProductEAN:  item.ProductEAN,
				UnitPrice:   item.UnitPrice.StringFixed(2),
				Quantity:    item.Quantity,
				Subtotal:    item.Subtotal().StringFixed(2),
				CreatedAt:   item.CreatedAt,
			})
		}
	}
	return resp
}

func toCustomerResponse(c domain.Customer) customerResponse {
	return customerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Document:  c.Document,
		Phone:     c.Phone,
		Address:   c.Address,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		EAN:         p.EAN,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (req createOrderRequest) toInput() order.CreateOrderInput {
	items := make([]order.CreateItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, order.CreateItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return order.CreateOrderInput{
		CustomerID:      req.CustomerID,
		ShippingAddress: req.ShippingAddress,
		ContactPhone:    req.ContactPhone,
		Email:           req.Email,
		Items:           items,
	}
}

func (req updateOrderRequest) toUpdate() domain.OrderUpdate {
	return domain.OrderUpdate{
		ShippingAddress: req.ShippingAddress,
		ContactPhone:    req.ContactPhone,
		Email:           req.Email,
	}
}

func (req customerRequest) toInput() catalog.CustomerInput {
	return catalog.CustomerInput{
		Name:     req.Name,
		Document: req.Document,
		Phone:    req.Phone,
		Address:  req.Address,
		Email:    req.Email,
	}
}

// decodeJSON разбирает тело запроса, неизвестные поля отклоняются.
func decodeJSON(r *http.Request, dst any) error {
	return decodeJSONReader(r.Body, dst)
}

// decodeJSONBytes разбирает уже прочитанное тело запроса.
func decodeJSONBytes(body []byte, dst any) error {
	return decodeJSONReader(bytes.NewReader(body), dst)
}

func decodeJSONReader(r io.Reader, dst any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	// Больше одного JSON-документа в теле не допускается.
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondDomainError переводит доменные ошибки в HTTP-статусы.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case domain.IsNotFound(err):
		respondError(w, http.StatusNotFound, err.Error())
	case domain.IsConflict(err):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// domainErrorStatus возвращает HTTP-статус для доменной ошибки.
func domainErrorStatus(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case domain.IsConflict(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
