package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVar_Severity(t *testing.T) {
	for _, ok := range []string{"info", "WARN", "error", "success"} {
		assert.NoError(t, Var(ok, "severity"), ok)
	}
	assert.Error(t, Var("panic", "severity"))
	assert.NoError(t, Var("", "omitempty,severity"))
}

func TestStruct(t *testing.T) {
	type sample struct {
		URL   string `validate:"omitempty,url"`
		Count int    `validate:"gte=0,lte=5"`
	}
	assert.NoError(t, Struct(sample{URL: "https://example.com/a.jpg", Count: 5}))
	assert.Error(t, Struct(sample{URL: "not a url"}))
	assert.Error(t, Struct(sample{Count: 6}))
}
