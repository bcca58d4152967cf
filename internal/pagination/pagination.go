// Package pagination turns raw list-request parameters into bounded,
// deterministic page windows. Malformed input never fails a request: bad
// values fall back to defaults and unusable filters are dropped.
package pagination

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultPageSize applies when page_size is absent or not positive.
	DefaultPageSize = 25
	// MaxPageSize is the inclusive upper clamp for page_size.
	MaxPageSize = 100
)

// Params is a sanitized page window. Page is always >= 1 and PageSize is
// always within [1, MaxPageSize].
type Params struct {
	Page     int
	PageSize int
}

// ParseParams reads page and page_size from query values and clamps them.
func ParseParams(q url.Values) Params {
	p := Params{Page: 1, PageSize: DefaultPageSize}
	if s := q.Get("page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			p.Page = n
		}
	}
	if s := q.Get("page_size"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			p.PageSize = n
		}
	}
	return p.Clamp()
}

// Clamp normalizes out-of-range values: page floors at 1, page_size falls
// back to the default when not positive and caps at MaxPageSize.
func (p Params) Clamp() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the SQL offset for the window.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Page is the meta block of a paginated response. TotalCount reflects the
// filtered collection, not the unfiltered table.
type Page struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// ParseSince parses an RFC 3339 "created at or after" filter. Unparsable
// values are ignored rather than erroring.
func ParseSince(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

// EscapeLike neutralizes SQL LIKE wildcards in a user-supplied search term.
// The corresponding query must use ESCAPE '\'.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
