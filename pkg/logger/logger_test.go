package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "hello", Format("hello"))
	assert.Equal(t, "order created orderNumber=PD-1 total=9.5",
		Format("order created", "orderNumber", "PD-1", "total", 9.5))
	assert.Equal(t, "odd pair key=missing", Format("odd pair", "key"))
}
