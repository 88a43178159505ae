package otel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "2025-06-03", formatTime(time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-06-03T14:30:00Z", formatTime(time.Date(2025, 6, 3, 14, 30, 0, 0, time.UTC)))
}
