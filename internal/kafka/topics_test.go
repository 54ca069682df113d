package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestControllerAddrIncludesPort(t *testing.T) {
	assert.Equal(t, "kafka1:9092", controllerAddr("kafka1", 9092))
}

func TestControllerAddrIPv6(t *testing.T) {
	assert.Equal(t, "[::1]:9093", controllerAddr("::1", 9093))
}
