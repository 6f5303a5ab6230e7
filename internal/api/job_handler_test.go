package api

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestListOptionsFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/get/jobs?keyword=backend&page=2&limit=10&time=Fulltime&label=Expert", nil)

	opts := listOptionsFromQuery(c, "time", "label", "location")
	assert.Equal(t, "backend", opts.Keyword)
	assert.Equal(t, 2, opts.Page)
	assert.Equal(t, 10, opts.Limit)
	assert.Equal(t, map[string]string{"time": "Fulltime", "label": "Expert"}, opts.Filters)
}

func TestListOptionsFromQueryDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/get/jobs?page=bogus&limit=-1", nil)

	opts := listOptionsFromQuery(c)
	assert.Empty(t, opts.Keyword)
	assert.Zero(t, opts.Page)
	assert.Zero(t, opts.Limit)
	assert.Nil(t, opts.Filters)
}
