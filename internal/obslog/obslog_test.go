package obslog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithComponentReturnsLogger(t *testing.T) {
	l := WithComponent("solve")
	assert.NotNil(t, l)
}

func TestDefaultIsStable(t *testing.T) {
	assert.Same(t, Default(), Default())
}
