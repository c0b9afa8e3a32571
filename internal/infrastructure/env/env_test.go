package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvService_Getters(t *testing.T) {
	t.Setenv("DF_STRING", "  value ")
	t.Setenv("DF_BOOL", "true")
	t.Setenv("DF_BAD_BOOL", "maybe")
	t.Setenv("DF_INT", "42")
	t.Setenv("DF_BAD_INT", "forty")

	e := NewStaticEnvService()

	assert.Equal(t, "value", e.Get("DF_STRING"))
	assert.Equal(t, "fallback", e.GetWithDefault("DF_MISSING", "fallback"))
	assert.True(t, e.GetBool("DF_BOOL", false))
	assert.True(t, e.GetBool("DF_BAD_BOOL", true))
	assert.False(t, e.GetBool("DF_MISSING", false))
	assert.Equal(t, 42, e.GetInt("DF_INT", 1))
	assert.Equal(t, 7, e.GetInt("DF_BAD_INT", 7))
	assert.Equal(t, 3, e.GetInt("DF_MISSING", 3))
}
