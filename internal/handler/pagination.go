package handler

import (
	"net/http"
	"strconv"
)

const (
	defaultLimit  = 10
	defaultOffset = 0
)

// page is the pagination metadata attached to every list response.
//
// next and previous are purely arithmetic: next = offset + limit,
// previous = max(offset - limit, 0). They are not verified against the
// remaining record count, so a client iterating to next may receive an empty
// data set. This is the documented contract, not an oversight.
type page struct {
	Next     int64 `json:"next"`
	Limit    int64 `json:"limit"`
	Previous int64 `json:"previous"`
}

func makePage(limit, offset int64) page {
	previous := offset - limit
	if previous < 0 {
		previous = 0
	}
	return page{
		Next:     offset + limit,
		Limit:    limit,
		Previous: previous,
	}
}

// parsePagination reads limit and offset from the query string, applying
// defaults when absent. Non-integer or negative values are rejected as
// validation errors.
func parsePagination(r *http.Request) (limit, offset int64, err error) {
	limit, err = queryInt(r, "limit", defaultLimit)
	if err != nil {
		return 0, 0, err
	}
	offset, err = queryInt(r, "offset", defaultOffset)
	if err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

func queryInt(r *http.Request, name string, def int64) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, validationErrorf("%s must be an integer", name)
	}
	if v < 0 {
		return 0, validationErrorf("%s must not be negative", name)
	}
	return v, nil
}
