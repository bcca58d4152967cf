package pagination

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  Params
	}{
		{"defaults", "", Params{Page: 1, PageSize: 25}},
		{"explicit", "page=3&page_size=10", Params{Page: 3, PageSize: 10}},
		{"zero page floors to one", "page=0&page_size=10", Params{Page: 1, PageSize: 10}},
		{"negative page floors to one", "page=-4", Params{Page: 1, PageSize: 25}},
		{"oversized page_size caps", "page_size=500", Params{Page: 1, PageSize: 100}},
		{"combined out of range", "page=0&page_size=500", Params{Page: 1, PageSize: 100}},
		{"zero page_size falls back", "page_size=0", Params{Page: 1, PageSize: 25}},
		{"garbage ignored", "page=abc&page_size=xyz", Params{Page: 1, PageSize: 25}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := url.ParseQuery(tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ParseParams(q))
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 1, PageSize: 25}.Offset())
	assert.Equal(t, 50, Params{Page: 3, PageSize: 25}.Offset())
}

func TestParseSince(t *testing.T) {
	got := ParseSince("2026-08-30T12:00:00Z")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), *got)

	// offsets normalize to UTC
	got = ParseSince("2026-08-30T14:00:00+02:00")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), *got)

	assert.Nil(t, ParseSince(""))
	assert.Nil(t, ParseSince("yesterday"))
	assert.Nil(t, ParseSince("2026-08-30"), "date-only is not RFC 3339")
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, EscapeLike("100%"))
	assert.Equal(t, `a\_b`, EscapeLike("a_b"))
	assert.Equal(t, `c:\\temp`, EscapeLike(`c:\temp`))
	assert.Equal(t, "plain", EscapeLike("plain"))
}
