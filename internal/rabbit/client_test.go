package rabbit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelayHeaders(t *testing.T) {
	headers := delayHeaders(90 * time.Second)
	require.Contains(t, headers, "x-delay")
	assert.Equal(t, int32(90000), headers["x-delay"])

	headers = delayHeaders(45 * time.Minute)
	assert.Equal(t, int32(2700000), headers["x-delay"])
}

func TestDelayHeaders_ImmediateDelivery(t *testing.T) {
	assert.NotContains(t, delayHeaders(0), "x-delay")
	assert.NotContains(t, delayHeaders(-time.Second), "x-delay")
}
