package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewPaginationParams(t *testing.T) {
	assert.Equal(t, PaginationParams{Page: 1, Limit: 20, Offset: 0}, NewPaginationParams(0, 0))
	assert.Equal(t, PaginationParams{Page: 3, Limit: 10, Offset: 20}, NewPaginationParams(3, 10))
	assert.Equal(t, PaginationParams{Page: 2, Limit: 20, Offset: 20}, NewPaginationParams(2, 500))
}

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=2&limit=abc", nil)

	assert.Equal(t, PaginationParams{Page: 2, Limit: 20, Offset: 20}, GetPaginationParams(c))
}

func TestPaginationResponse(t *testing.T) {
	p := NewPaginationParams(1, 10)
	assert.Equal(t, PaginationResponse{Page: 1, Limit: 10, Total: 21, TotalPages: 3}, p.Response(21))
	assert.Equal(t, 0, p.Response(0).TotalPages)
}
