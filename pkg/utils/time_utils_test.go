package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromUnixNano(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 42, time.UTC)
	assert.True(t, at.Equal(FromUnixNano(at.UnixNano())))
	assert.True(t, FromUnixNano(0).IsZero())
	assert.True(t, FromUnixNano(-1).IsZero())
}
