package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = domain.NewValidationError("body", "invalid JSON")

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.NewValidationError("body", "required")
		}
		return errInvalidBody
	}
	return nil
}

// pathID reads a positive integer path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(name, "must be a positive integer")
	}
	return id, nil
}

// parsePage reads limit and offset. Missing values are zero.
func parsePage(q url.Values) (limit, offset int, err error) {
	if limit, err = optionalInt(q, "limit"); err != nil {
		return 0, 0, err
	}
	if offset, err = optionalInt(q, "offset"); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

func optionalInt(q url.Values, name string) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.NewValidationError(name, "must be a non-negative integer")
	}
	return n, nil
}

// parseTime accepts RFC 3339 or a plain date. A plain date used as an upper
// bound covers the whole day.
func parseTime(q url.Values, name string, upper bool) (*time.Time, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, domain.NewValidationError(name, "must be a date (YYYY-MM-DD) or RFC 3339 time")
	}
	if upper {
		t = t.AddDate(0, 0, 1)
	}
	return &t, nil
}

func parsePeriod(q url.Values) (from, to *time.Time, err error) {
	if from, err = parseTime(q, "from", false); err != nil {
		return nil, nil, err
	}
	if to, err = parseTime(q, "to", true); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func parseItemType(raw string) (*domain.ItemType, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return nil, nil
	}
	t := domain.ItemType(raw)
	if !t.IsValid() {
		return nil, domain.NewValidationError("item_type", "must be one of: phone accessory")
	}
	return &t, nil
}

func optionalString(q url.Values, name string) *string {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return nil
	}
	return &v
}

// ---------------------------------------------------------------------------
// Form coercion
// ---------------------------------------------------------------------------

// formReader trims and coerces url-encoded fields, keeping the first error.
type formReader struct {
	values url.Values
	err    error
}

func (f *formReader) str(name string) string {
	return strings.TrimSpace(f.values.Get(name))
}

func (f *formReader) integer(name string, def int) int {
	raw := f.str(name)
	if raw == "" || f.err != nil {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		f.err = domain.NewValidationError(name, "must be a whole number")
		return def
	}
	return n
}

func (f *formReader) id(name string) int64 {
	raw := f.str(name)
	if f.err != nil {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		f.err = domain.NewValidationError(name, "must be a valid id")
		return 0
	}
	return n
}

func (f *formReader) money(name string) decimal.Decimal {
	raw := strings.ReplaceAll(f.str(name), ",", "")
	if raw == "" || f.err != nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		f.err = domain.NewValidationError(name, fmt.Sprintf("%q is not a number", raw))
		return decimal.Zero
	}
	return d
}
