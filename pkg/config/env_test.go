package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("ACCOUNTS_TEST_VAR", "test_value")

	assert.Equal(t, "test_value", GetEnv("ACCOUNTS_TEST_VAR", "default"))
	assert.Equal(t, "default", GetEnv("ACCOUNTS_NONEXISTENT_VAR", "default"))
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("ACCOUNTS_TEST_INT", "42")
	t.Setenv("ACCOUNTS_TEST_BAD_INT", "forty-two")

	assert.Equal(t, 42, GetEnvAsInt("ACCOUNTS_TEST_INT", 7))
	assert.Equal(t, 7, GetEnvAsInt("ACCOUNTS_TEST_BAD_INT", 7))
	assert.Equal(t, 7, GetEnvAsInt("ACCOUNTS_NONEXISTENT_VAR", 7))
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("ACCOUNTS_TEST_DURATION", "1500ms")

	assert.Equal(t, 1500*time.Millisecond, GetEnvAsDuration("ACCOUNTS_TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, GetEnvAsDuration("ACCOUNTS_NONEXISTENT_VAR", time.Second))
}
