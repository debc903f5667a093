package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskIndex(t *testing.T) {
	// cool and clean
	assert.Equal(t, 0.0, riskIndex(20, 0))

	// heat contributes above 25C
	assert.Equal(t, 20.0, riskIndex(30, 0))

	// both components clamp at 50
	assert.Equal(t, 100.0, riskIndex(60, 500))

	// pollution alone
	assert.Equal(t, 25.0, riskIndex(10, 50))
}
