package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func contextWithQuery(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return c
}

func TestParseDefaults(t *testing.T) {
	params := Parse(contextWithQuery(t, ""))
	assert.Equal(t, DefaultPage, params.Page)
	assert.Equal(t, DefaultLimit, params.Limit)
	assert.Equal(t, 0, params.Offset)
}

func TestParseExplicitValues(t *testing.T) {
	params := Parse(contextWithQuery(t, "page=3&limit=25"))
	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 25, params.Limit)
	assert.Equal(t, 50, params.Offset)
}

func TestParseClampsOutOfRange(t *testing.T) {
	params := Parse(contextWithQuery(t, "page=-2&limit=0"))
	assert.Equal(t, DefaultPage, params.Page)
	assert.Equal(t, DefaultLimit, params.Limit)

	params = Parse(contextWithQuery(t, "limit=5000"))
	assert.Equal(t, MaxLimit, params.Limit)
}

func TestNormalize(t *testing.T) {
	params := Normalize(2, 10)
	assert.Equal(t, 2, params.Page)
	assert.Equal(t, 10, params.Limit)
	assert.Equal(t, 10, params.Offset)

	params = Normalize(0, -5)
	assert.Equal(t, DefaultPage, params.Page)
	assert.Equal(t, DefaultLimit, params.Limit)
}

func TestParseIgnoresGarbage(t *testing.T) {
	params := Parse(contextWithQuery(t, "page=abc&limit=xyz"))
	assert.Equal(t, DefaultPage, params.Page)
	assert.Equal(t, DefaultLimit, params.Limit)
}
