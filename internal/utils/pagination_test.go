package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsFor(t *testing.T, query string) *PaginationParams {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return GetPaginationParams(c)
}

func TestGetPaginationParams(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p := paramsFor(t, "")
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, DefaultPageSize, p.PageSize)
		assert.Equal(t, "created_at", p.Sort)
		assert.Equal(t, "desc", p.Order)
	})

	t.Run("page size clamped to maximum", func(t *testing.T) {
		p := paramsFor(t, "page_size=500")
		assert.Equal(t, MaxPageSize, p.PageSize)
	})

	t.Run("invalid values fall back", func(t *testing.T) {
		p := paramsFor(t, "page=-3&page_size=0&order=sideways")
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, MinPageSize, p.PageSize)
		assert.Equal(t, "desc", p.Order)
	})
}

func TestPaginationSkipLimit(t *testing.T) {
	p := &PaginationParams{Page: 3, PageSize: 20}
	assert.Equal(t, int64(40), p.Skip())
	assert.Equal(t, int64(20), p.Limit())
}

func TestCreatePaginationMeta(t *testing.T) {
	meta := CreatePaginationMeta(&PaginationParams{Page: 2, PageSize: 10}, 35)
	assert.Equal(t, 4, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	meta = CreatePaginationMeta(&PaginationParams{Page: 1, PageSize: 10}, 5)
	assert.Equal(t, 1, meta.TotalPages)
	assert.False(t, meta.HasNext)
	assert.False(t, meta.HasPrev)

	meta = CreatePaginationMeta(&PaginationParams{Page: 1, PageSize: 10}, 0)
	assert.Equal(t, 0, meta.TotalPages)
	assert.False(t, meta.HasNext)
}
