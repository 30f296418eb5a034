package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRejectReason(t *testing.T) {
	tests := []struct {
		desc     string
		expected string
	}{
		{"", ReasonInvalidMerchant},
		{"   ", ReasonInvalidMerchant},
		{"1234", ReasonInvalidMerchant},
		{"#12-34 .", ReasonInvalidMerchant},
		{"AB", ReasonInvalidMerchant},
		{"NEW BALANCE", ReasonBoilerplate},
		{"Minimum Payment Due", ReasonBoilerplate},
		{"Interest Charged on Purchases", ReasonBoilerplate},
		{"CASH ADVANCE FEE", ReasonBoilerplate},
		{"ONLINE PAYMENT THANK YOU", ReasonRemittance},
		{"AUTOPAY 12/01", ReasonRemittance},
		{"ACH DEPOSIT INTERNET TRANSFER", ReasonRemittance},
		{"THANK-YOU", ReasonRemittance},
		{"ABC", ""},
		{"STARBUCKS #123", ""},
		{"COACH OUTLET", ReasonRemittance},
		{"BEACH CAFE", ReasonRemittance},
		{"AMAZON REFUND", ""},
	}

	rules := filterRules(false)
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			reason, reject := rejectReason(rules, tt.desc)
			assert.Equal(t, tt.expected != "", reject)
			assert.Equal(t, tt.expected, reason)
		})
	}
}

func TestRejectReason_KeepRemittances(t *testing.T) {
	rules := filterRules(true)

	_, reject := rejectReason(rules, "ONLINE PAYMENT THANK YOU")
	assert.False(t, reject)

	// the other rules stay active
	reason, reject := rejectReason(rules, "NEW BALANCE")
	assert.True(t, reject)
	assert.Equal(t, ReasonBoilerplate, reason)
}
