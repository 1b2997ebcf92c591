package rest

import (
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/orders-api/internal/domain"
)

const dateOnlyLayout = "2006-01-02"

// parseOrderFilter собирает фильтр заказов из query-параметров.
// Неизвестные параметры и нераспознанные значения молча игнорируются,
// запрос при этом выполняется по оставшимся условиям.
func parseOrderFilter(query url.Values) domain.OrderFilter {
	var filter domain.OrderFilter

	if raw := query.Get("customer_id"); raw != "" {
		if _, err := uuid.Parse(raw); err == nil {
			filter.CustomerID = raw
		}
	}
	if from, ok := parseFilterTime(query.Get("date_from"), false); ok {
		filter.DateFrom = &from
	}
	if to, ok := parseFilterTime(query.Get("date_to"), true); ok {
		filter.DateTo = &to
	}

	return filter
}

// parseFilterTime принимает RFC3339 или дату без времени.
// Для верхней границы дата без времени расширяется до конца суток.
func parseFilterTime(raw string, endOfDay bool) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), true
	}

	t, err := time.Parse(dateOnlyLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t.UTC(), true
}

// parseProductFilter собирает фильтр товаров из query-параметров.
// Нечисловые границы цены игнорируются.
func parseProductFilter(query url.Values) domain.ProductFilter {
	filter := domain.ProductFilter{
		Name: query.Get("name"),
		EAN:  query.Get("ean"),
	}

	if raw := query.Get("price_min"); raw != "" {
		if v, err := decimal.NewFromString(raw); err == nil {
			filter.PriceMin = &v
		}
	}
	if raw := query.Get("price_max"); raw != "" {
		if v, err := decimal.NewFromString(raw); err == nil {
			filter.PriceMax = &v
		}
	}

	return filter
}

// parseBoolParam трактует отсутствующее или нераспознанное значение как дефолт.
func parseBoolParam(raw string, def bool) bool {
	switch raw {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return def
	}
}
