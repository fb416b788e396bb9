package interpreter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"50k", 50000},
		{"50 k", 50000},
		{"50 nghìn", 50000},
		{"25 ngàn", 25000},
		{"1.5k", 1500},
		{"5tr", 5000000},
		{"5.5tr", 5500000},
		{"2 triệu", 2000000},
		{"50,000", 50000},
		{"1,250,000", 1250000},
		{"50.000", 50000},
		{"1.200.000", 1200000},
		{"50", 50000},
		{"999", 999000},
		{"1000", 1000},
		{"1500", 1500},
		{"ăn trưa 35", 35000},
		{"5TR", 5000000},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			assert.Equal(t, test.expected, ExtractAmount(test.input))
		})
	}
}

func TestExtractAmount_NoDigits(t *testing.T) {
	inputs := []string{"", "ăn trưa", "cafe với bạn", "tr", "k", "triệu đô"}
	for _, input := range inputs {
		assert.Zero(t, ExtractAmount(input), input)
	}
}

func TestExtractAmount_UnitWinsOverGrouping(t *testing.T) {
	// A million suffix anywhere beats grouped digits earlier in the text
	assert.Equal(t, 3000000.0, ExtractAmount("50.000 hoặc 3tr"))
	assert.Equal(t, 20000.0, ExtractAmount("1,000 với 20k"))
}

func TestFindDotGrouped(t *testing.T) {
	s, ok := findDotGrouped("giá 12.500 đồng")
	assert.True(t, ok)
	assert.Equal(t, "12.500", s)

	s, ok = findDotGrouped("1.000.000 tr")
	assert.True(t, ok)
	assert.Equal(t, "1.000", s)

	_, ok = findDotGrouped("12.500 tr")
	assert.False(t, ok)
}

func TestStripAmounts(t *testing.T) {
	assert.Equal(t, "ăn trưa", stripAmounts("50k ăn trưa"))
	assert.Equal(t, "lương", stripAmounts("10 triệu lương"))
	assert.Equal(t, "", stripAmounts("200đ"))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "50,000", FormatAmount(50000))
	assert.Equal(t, "10,000,000", FormatAmount(10000000))
	assert.Equal(t, "999", FormatAmount(999))
}
