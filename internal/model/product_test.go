package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCommodity(t *testing.T) {
	for _, c := range Commodities {
		assert.True(t, ValidCommodity(c), c)
	}

	assert.False(t, ValidCommodity(""))
	assert.False(t, ValidCommodity("onion"))
	assert.False(t, ValidCommodity("Gold"))
	assert.False(t, ValidCommodity("Onion "))
}
