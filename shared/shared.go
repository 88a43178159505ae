package shared

import (
	"context"
	"errors"
	"fmt"
	"hotel/shared/cache"
	"hotel/shared/constant"
	"hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/timezone"
	"math"
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// QueryInt64 reads an optional integer query parameter. It returns 0 when the parameter is
// absent and a 400 failure when it is present but not an integer.
func QueryInt64(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, failure.BadRequestf("invalid %s %q", name, raw) //nolint:wrapcheck
	}

	return value, nil
}

// QueryBool reads an optional boolean query parameter; nil when absent.
func QueryBool(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil //nolint:nilnil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, failure.BadRequestf("invalid %s %q", name, raw) //nolint:wrapcheck
	}

	return &value, nil
}

// ParseID reads the {id} path parameter as a positive int64.
func ParseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, constant.RequestParamID)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, failure.BadRequestf("invalid id %q", raw) //nolint:wrapcheck
	}

	return id, nil
}

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// TransformFields turns the non-zero db-tagged fields of an update request into a column map.
// Pointer fields are dereferenced so a pointer to a zero value still updates the column.
func TransformFields(data any, username string) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" || fieldName == "-" {
			continue
		}

		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		if field.Kind() == reflect.Pointer {
			field = field.Elem()
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now()
	updatedFields[constant.FieldModifiedBy] = username

	return updatedFields
}

func FilterByID(id any, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
		Operator: dto.FilterGroupOperatorAnd,
	}
}

// BuildCacheKey joins the parts with ':' e.g. room:get:12.
func BuildCacheKey(parts ...any) string {
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		segments = append(segments, fmt.Sprint(part))
	}

	return strings.Join(segments, ":")
}

// BuildCacheKeyWithQuery appends the pagination params and any extra filters in a stable order.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, extra map[string]string) string {
	key := BuildCacheKey(prefix, params.Page, params.Limit, params.SortBy, params.SortDir, params.Search)

	names := make([]string, 0, len(extra))
	for name := range extra {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		key = BuildCacheKey(key, name+"="+extra[name])
	}

	return key
}

// InvalidateCaches clears every key under each prefix. Failures are logged, not returned.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefixes ...string) {
	for _, prefix := range prefixes {
		if err := redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
			log.Warn().Err(err).Str("prefix", prefix).Msg("failed to invalidate cache")
		}
	}
}

// IsPqError reports whether err wraps a postgres error with the given SQLSTATE code.
func IsPqError(err error, code string) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && string(pqErr.Code) == code
}
