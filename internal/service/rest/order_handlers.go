package rest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vladislavdragonenkov/orders-api/internal/domain"
)

const maxRequestBodyBytes = 1 << 20

func (a *API) createOrder(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "cannot read request body")
		return
	}

	var req createOrderRequest
	if err := decodeJSONBytes(body, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := r.Header.Get(idempotencyKeyHeader)
	if key == "" {
		order, err := a.orders.CreateOrder(req.toInput())
		if err != nil {
			respondDomainError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, toOrderResponse(order, true))
		return
	}

	a.createOrderIdempotent(w, r, key, body, req)
}

// createOrderIdempotent выполняет создание под ключом Idempotency-Key.
// Повтор с тем же ключом и телом возвращает сохранённый ответ,
// повтор с другим телом отклоняется как конфликт.
func (a *API) createOrderIdempotent(w http.ResponseWriter, r *http.Request, key string, body []byte, req createOrderRequest) {
	hash := requestHash(r.Method, r.URL.Path, body)

	record, err := a.idempotency.CreateProcessing(key, hash, time.Time{})
	switch {
	case err == nil:
		// Ключ свободен, выполняется создание.
	case errors.Is(err, domain.ErrIdempotencyHashMismatch):
		respondError(w, http.StatusConflict, "idempotency key reused with different request")
		return
	case errors.Is(err, domain.ErrIdempotencyKeyAlreadyExists):
		a.replayIdempotentResponse(w, record)
		return
	default:
		a.logger.WithError(err).Error("не удалось зарезервировать ключ идемпотентности")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	order, err := a.orders.CreateOrder(req.toInput())
	if err != nil {
		status := domainErrorStatus(err)
		payload, _ := json.Marshal(errorResponse{Error: errorMessageForStatus(err, status)})
		if markErr := a.idempotency.MarkFailed(key, payload, status); markErr != nil {
			a.logger.WithError(markErr).Error("не удалось зафиксировать неудачный ответ идемпотентности")
		}
		writeRawJSON(w, status, payload)
		return
	}

	payload, err := json.Marshal(toOrderResponse(order, true))
	if err != nil {
		a.logger.WithError(err).Error("не удалось сериализовать ответ создания заказа")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if markErr := a.idempotency.MarkDone(key, payload, http.StatusCreated); markErr != nil {
		a.logger.WithError(markErr).Error("не удалось зафиксировать ответ идемпотентности")
	}

	writeRawJSON(w, http.StatusCreated, payload)
}

// replayIdempotentResponse повторяет сохранённый ответ по существующему ключу.
func (a *API) replayIdempotentResponse(w http.ResponseWriter, record domain.IdempotencyRecord) {
	if record.Status == domain.IdempotencyStatusProcessing {
		respondError(w, http.StatusConflict, "request with this idempotency key is still being processed")
		return
	}

	if a.metrics != nil {
		a.metrics.RecordIdempotentReplay()
	}
	writeRawJSON(w, record.HTTPStatus, record.ResponseBody)
}

func (a *API) getOrder(w http.ResponseWriter, r *http.Request) {
	includeItems := parseBoolParam(r.URL.Query().Get("include_items"), true)
	includeCustomer := parseBoolParam(r.URL.Query().Get("include_customer"), false)

	order, err := a.orders.GetOrder(chi.URLParam(r, "orderID"), includeCustomer)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toOrderResponse(order, includeItems))
}

func (a *API) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := a.orders.ListOrders(parseOrderFilter(r.URL.Query()))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	responses := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, toOrderResponse(order, true))
	}
	respondJSON(w, http.StatusOK, responses)
}

func (a *API) countOrders(w http.ResponseWriter, r *http.Request) {
	count, err := a.orders.CountOrders(parseOrderFilter(r.URL.Query()))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"total_orders": count})
}

func (a *API) updateOrder(w http.ResponseWriter, r *http.Request) {
	var req updateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := a.orders.UpdateOrder(chi.URLParam(r, "orderID"), req.toUpdate())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toOrderResponse(order, true))
}

func (a *API) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := a.orders.DeleteOrder(chi.URLParam(r, "orderID")); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) addOrderItem(w http.ResponseWriter, r *http.Request) {
	var req addOrderItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := a.orders.AddItem(chi.URLParam(r, "orderID"), req.ProductID, req.Quantity)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toOrderResponse(order, true))
}

func (a *API) updateOrderItem(w http.ResponseWriter, r *http.Request) {
	var req updateOrderItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := a.orders.UpdateItemQuantity(chi.URLParam(r, "orderID"), chi.URLParam(r, "itemID"), req.Quantity)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toOrderResponse(order, true))
}

func (a *API) removeOrderItem(w http.ResponseWriter, r *http.Request) {
	order, err := a.orders.RemoveItem(chi.URLParam(r, "orderID"), chi.URLParam(r, "itemID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toOrderResponse(order, true))
}

func requestHash(method, path string, body []byte) string {
	sum := sha256.New()
	sum.Write([]byte(method))
	sum.Write([]byte{'\n'})
	sum.Write([]byte(path))
	sum.Write([]byte{'\n'})
	sum.Write(body)
	return hex.EncodeToString(sum.Sum(nil))
}

func errorMessageForStatus(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}

func writeRawJSON(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}
