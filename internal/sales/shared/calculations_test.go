package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPieces(t *testing.T) {
	assert.Equal(t, 25, TotalPieces(6, 4, 1))
	assert.Equal(t, 30, TotalPieces(5, 6, 0))
	assert.Equal(t, 3, TotalPieces(0, 4, 3))
	assert.Equal(t, 0, TotalPieces(0, 4, 0))
}

func TestLineSubTotal(t *testing.T) {
	assert.Equal(t, 4900.0, LineSubTotal(70, 70))
	assert.Equal(t, 0.0, LineSubTotal(0, 70))
}

func TestGrandTotal(t *testing.T) {
	assert.Equal(t, 4500.0, GrandTotal(4900, 400))
	assert.Equal(t, 4900.0, GrandTotal(4900, 0))
	assert.Equal(t, -100.0, GrandTotal(400, 500))
}
