package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStitch_WrappedRecord(t *testing.T) {
	got := Stitch([]string{"03/14 UBER TRIP", "SAN FRANCISCO $12.34"})

	require.Len(t, got, 1)
	assert.Contains(t, got[0], "03/14 UBER TRIP")
	assert.Contains(t, got[0], "SAN FRANCISCO")
	assert.Len(t, amountPattern.FindAllString(got[0], -1), 1)
}

func TestStitch(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		expected []string
	}{
		{
			name:     "incomplete buffer is discarded",
			lines:    []string{"01/02 ORPHAN LINE", "01/03 COFFEE $3.50"},
			expected: []string{"01/03 COFFEE $3.50"},
		},
		{
			name:     "lines before the first start are dropped",
			lines:    []string{"Account Summary", "Payments -$150.00", "01/03 COFFEE $3.50"},
			expected: []string{"01/03 COFFEE $3.50"},
		},
		{
			name:     "three physical lines",
			lines:    []string{"01/05 AMAZON", "MARKETPLACE", "SEATTLE WA $25.99", "Page 2 of 3"},
			expected: []string{"01/05 AMAZON MARKETPLACE SEATTLE WA $25.99"},
		},
		{
			name:     "same-line amounts",
			lines:    []string{"01/05 COFFEE $3.50", "01/06 TEA $2.00"},
			expected: []string{"01/05 COFFEE $3.50", "01/06 TEA $2.00"},
		},
		{
			name:     "amount on its own line",
			lines:    []string{"01/20/24 ONLINE PAYMENT", "-$150.00"},
			expected: []string{"01/20/24 ONLINE PAYMENT -$150.00"},
		},
		{
			// Known limitation: the first amount-bearing line closes the record.
			name:     "early flush on a stray amount",
			lines:    []string{"01/05 HOTEL", "RATE $99.00 PER NIGHT", "TOTAL $297.00"},
			expected: []string{"01/05 HOTEL RATE $99.00 PER NIGHT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Stitch(tt.lines))
		})
	}
}

func TestStitch_NoAmountAtEnd(t *testing.T) {
	assert.Empty(t, Stitch([]string{"01/05 PENDING AUTHORIZATION"}))
	assert.Empty(t, Stitch(nil))
}
