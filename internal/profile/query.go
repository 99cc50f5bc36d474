package profile

import (
	"fmt"
	"net/http"

	"github.com/dmitrymomot/querybind/core/response"
)

// SortField names a sortable column.
type SortField string

const (
	SortFirstName SortField = "first_name"
	SortLastName  SortField = "last_name"
	SortEmail     SortField = "email"
	SortDob       SortField = "dob"
)

// Order is a sort direction.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// SingleQuery selects one person by first or last name.
type SingleQuery struct {
	Name string `query:"name"`
}

// ListQuery selects a page of the directory, optionally sorted.
// SortBy and OrderBy must be given together.
type ListQuery struct {
	Page    *uint   `query:"page"`
	SortBy  *string `query:"sort_by"`
	OrderBy *string `query:"order_by"`
}

// Validate checks the sort parameters after decoding.
func (q ListQuery) Validate() error {
	switch {
	case q.SortBy == nil && q.OrderBy == nil:
		return nil
	case q.SortBy == nil:
		return badRequest("missing field `sort_by`")
	case q.OrderBy == nil:
		return badRequest("missing field `order_by`")
	}

	switch SortField(*q.SortBy) {
	case SortFirstName, SortLastName, SortEmail, SortDob:
	default:
		return badRequest(fmt.Sprintf("invalid value: `%s`, expected first_name, last_name, email or dob", *q.SortBy))
	}

	switch Order(*q.OrderBy) {
	case OrderAsc, OrderDesc:
	default:
		return badRequest(fmt.Sprintf("invalid value: `%s`, expected asc or desc", *q.OrderBy))
	}
	return nil
}

func (q ListQuery) sort() (SortField, Order, bool) {
	if q.SortBy == nil || q.OrderBy == nil {
		return "", "", false
	}
	return SortField(*q.SortBy), Order(*q.OrderBy), true
}

func badRequest(msg string) error {
	return response.NewError(msg, http.StatusBadRequest, response.CauseQuery)
}
