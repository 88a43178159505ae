package dto

import (
	"hotel/shared/constant"
	"net/http"
	"slices"
	"strconv"
	"strings"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
	Search  string `json:"search"   validate:"omitempty"`
}

// FromRequest populates QueryParams from the request query string.
// With defaultRequest set, missing page and limit fall back to the defaults so large tables stay paginated.
func (q *QueryParams) FromRequest(r *http.Request, defaultRequest bool) {
	queryParams := r.URL.Query()

	if page := queryParams.Get(constant.RequestParamPage); page != "" {
		if pageInt, err := strconv.Atoi(page); err == nil && pageInt > 0 {
			q.Page = pageInt
		}
	}

	if limit := queryParams.Get(constant.RequestParamLimit); limit != "" {
		if limitInt, err := strconv.Atoi(limit); err == nil && limitInt > 0 {
			q.Limit = limitInt
		}
	}

	if sortBy := queryParams.Get(constant.RequestParamSortBy); sortBy != "" {
		q.SortBy = sortBy
	}

	if sortDir := strings.ToUpper(queryParams.Get(constant.RequestParamSortDir)); sortDir == SortDirAsc || sortDir == SortDirDesc {
		q.SortDir = sortDir
	}

	q.Search = strings.TrimSpace(queryParams.Get(constant.RequestParamSearch))

	if defaultRequest {
		if q.Page == 0 {
			q.Page = constant.DefaultValuePage
		}

		if q.Limit == 0 {
			q.Limit = constant.DefaultValueLimit
		}
	}
}

// RestrictSort drops a sort column that is not in allowed, since it is interpolated into ORDER BY.
// A missing direction falls back to the default.
func (q *QueryParams) RestrictSort(allowed ...string) {
	if q.SortBy == "" {
		return
	}

	if !slices.Contains(allowed, q.SortBy) {
		q.SortBy = ""
		q.SortDir = ""

		return
	}

	if q.SortDir == "" {
		q.SortDir = constant.DefaultValueSortDir
	}
}
