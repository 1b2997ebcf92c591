package rest

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/orders-api/internal/domain"
	"github.com/vladislavdragonenkov/orders-api/internal/service/catalog"
)

func (a *API) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	customer, err := a.catalog.CreateCustomer(req.toInput())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toCustomerResponse(customer))
}

func (a *API) getCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := a.catalog.GetCustomer(chi.URLParam(r, "customerID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toCustomerResponse(customer))
}

func (a *API) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := a.catalog.ListCustomers()
	if err != nil {
		respondDomainError(w, err)
		return
	}

	responses := make([]customerResponse, 0, len(customers))
	for _, customer := range customers {
		responses = append(responses, toCustomerResponse(customer))
	}
	respondJSON(w, http.StatusOK, responses)
}

func (a *API) updateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	customer, err := a.catalog.UpdateCustomer(chi.URLParam(r, "customerID"), req.toInput())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toCustomerResponse(customer))
}

func (a *API) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := a.catalog.DeleteCustomer(chi.URLParam(r, "customerID")); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	input, err := productInputFromRequest(req)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	product, err := a.catalog.CreateProduct(input)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toProductResponse(product))
}

func (a *API) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := a.catalog.GetProduct(chi.URLParam(r, "productID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductResponse(product))
}

func (a *API) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := a.catalog.ListProducts(parseProductFilter(r.URL.Query()))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	responses := make([]productResponse, 0, len(products))
	for _, product := range products {
		responses = append(responses, toProductResponse(product))
	}
	respondJSON(w, http.StatusOK, responses)
}

func (a *API) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	input, err := productInputFromRequest(req)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	product, err := a.catalog.UpdateProduct(chi.URLParam(r, "productID"), input)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductResponse(product))
}

func (a *API) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := a.catalog.DeleteProduct(chi.URLParam(r, "productID")); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// productInputFromRequest разбирает цену из строки с фиксированной точностью.
func productInputFromRequest(req productRequest) (catalog.ProductInput, error) {
	raw := strings.TrimSpace(req.Price)
	if raw == "" {
		return catalog.ProductInput{}, domain.NewValidationError("price", "is required")
	}

	price, err := decimal.NewFromString(raw)
	if err != nil {
		return catalog.ProductInput{}, domain.NewValidationError("price", "must be a decimal number")
	}

	return catalog.ProductInput{
		Name:        req.Name,
		EAN:         req.EAN,
		Description: req.Description,
		Price:       price,
	}, nil
}
