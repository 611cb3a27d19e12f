package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"karyadi/internal/domain"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  domain.PaginationParams
	}{
		{name: "defaults", query: "", want: domain.PaginationParams{Page: 1, PageSize: 20}},
		{name: "explicit", query: "page=3&page_size=50", want: domain.PaginationParams{Page: 3, PageSize: 50}},
		{name: "max page size", query: "page_size=100", want: domain.PaginationParams{Page: 1, PageSize: 100}},
		{name: "page size capped", query: "page_size=101", want: domain.PaginationParams{Page: 1, PageSize: 100}},
		{name: "huge page size capped", query: "page_size=100000", want: domain.PaginationParams{Page: 1, PageSize: 100}},
		{name: "zero falls back", query: "page=0&page_size=0", want: domain.PaginationParams{Page: 1, PageSize: 20}},
		{name: "negative falls back", query: "page=-2&page_size=-5", want: domain.PaginationParams{Page: 1, PageSize: 20}},
		{name: "malformed falls back", query: "page=two&page_size=ten", want: domain.PaginationParams{Page: 1, PageSize: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/events?"+tt.query, nil)
			got := ParsePagination(r)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, (got.Page-1)*got.PageSize, got.Offset())
		})
	}
}

func TestNewPaginationMeta(t *testing.T) {
	assert.Equal(t, PaginationMeta{Page: 1, PageSize: 20, Total: 0, TotalPages: 0}, NewPaginationMeta(1, 20, 0))
	assert.Equal(t, 1, NewPaginationMeta(1, 20, 20).TotalPages)
	assert.Equal(t, 2, NewPaginationMeta(1, 20, 21).TotalPages)
	assert.Equal(t, 3, NewPaginationMeta(2, 100, 250).TotalPages)
	assert.Equal(t, 0, NewPaginationMeta(1, 0, 5).TotalPages)
}
