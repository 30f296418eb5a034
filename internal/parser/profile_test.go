package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

func TestProfileFor(t *testing.T) {
	tests := []struct {
		issuer    models.Issuer
		wantName  string
		stitching bool
	}{
		{models.IssuerCapitalOne, "Capital One", false},
		{models.IssuerBarclays, "Barclays", false},
		{models.IssuerBankOfAmerica, "Bank of America", false},
		{models.IssuerCiti, "Citi", true},
		{models.IssuerDiscover, "Discover", false},
		{models.IssuerAmex, "American Express", true},
		{models.IssuerApple, "Apple Card", false},
		{models.IssuerGeneric, "Generic", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.issuer), func(t *testing.T) {
			p, err := ProfileFor(tt.issuer)
			require.NoError(t, err)
			assert.Equal(t, tt.issuer, p.Issuer())
			assert.Equal(t, tt.wantName, p.Name())
			assert.Equal(t, tt.stitching, p.Stitching())
		})
	}

	_, err := ProfileFor("hsbc")
	assert.Error(t, err)
}

func TestProfileFor_CoversEveryIssuer(t *testing.T) {
	for _, issuer := range models.Issuers {
		_, err := ProfileFor(issuer)
		assert.NoError(t, err, issuer)
	}
}

func TestMatchRow(t *testing.T) {
	tests := []struct {
		name   string
		issuer models.Issuer
		line   string
		want   Candidate
	}{
		{
			name:   "capital one purchase",
			issuer: models.IssuerCapitalOne,
			line:   "Jan 15 Jan 16 STARBUCKS STORE 1234 SEATTLE WA $5.25",
			want:   Candidate{Date: "Jan 15", PostDate: "Jan 16", Description: "STARBUCKS STORE 1234 SEATTLE WA", Amount: "$5.25"},
		},
		{
			name:   "capital one spaced minus",
			issuer: models.IssuerCapitalOne,
			line:   "Jan 20 Jan 20 CAPITAL ONE MOBILE PYMT - $200.00",
			want:   Candidate{Date: "Jan 20", PostDate: "Jan 20", Description: "CAPITAL ONE MOBILE PYMT", Amount: "- $200.00"},
		},
		{
			name:   "barclays with points",
			issuer: models.IssuerBarclays,
			line:   "Jan 15 Jan 16 AMAZON MKTPLACE PMTS 26 $25.99",
			want: Candidate{
				Date: "Jan 15", PostDate: "Jan 16", Description: "AMAZON MKTPLACE PMTS", Amount: "$25.99",
				Extras: map[string]string{"points": "26"},
			},
		},
		{
			name:   "barclays payment without points",
			issuer: models.IssuerBarclays,
			line:   "Jan 22 Jan 22 Payment Received -$150.00",
			want:   Candidate{Date: "Jan 22", PostDate: "Jan 22", Description: "Payment Received", Amount: "-$150.00"},
		},
		{
			name:   "bank of america",
			issuer: models.IssuerBankOfAmerica,
			line:   "01/15 01/16 STARBUCKS STORE 00123 SEATTLE WA 2451 5678 5.25",
			want: Candidate{
				Date: "01/15", PostDate: "01/16", Description: "STARBUCKS STORE 00123 SEATTLE WA", Amount: "5.25",
				Extras: map[string]string{"reference": "2451", "account": "5678"},
			},
		},
		{
			name:   "bank of america credit",
			issuer: models.IssuerBankOfAmerica,
			line:   "01/20 01/20 PAYMENT - THANK YOU 9123 5678 -200.00",
			want: Candidate{
				Date: "01/20", PostDate: "01/20", Description: "PAYMENT - THANK YOU", Amount: "-200.00",
				Extras: map[string]string{"reference": "9123", "account": "5678"},
			},
		},
		{
			name:   "citi strips dates and amounts",
			issuer: models.IssuerCiti,
			line:   "01/15 01/16 UBER TRIP HELP.UBER.COM SAN FRANCISCO CA $12.34",
			want:   Candidate{Date: "01/15", PostDate: "01/16", Description: "UBER TRIP HELP.UBER.COM SAN FRANCISCO CA", Amount: "$12.34"},
		},
		{
			name:   "citi single date",
			issuer: models.IssuerCiti,
			line:   "03/14 UBER TRIP SAN FRANCISCO $12.34",
			want:   Candidate{Date: "03/14", Description: "UBER TRIP SAN FRANCISCO", Amount: "$12.34"},
		},
		{
			name:   "discover",
			issuer: models.IssuerDiscover,
			line:   "01/15/24 TARGET 00012345 MINNEAPOLIS MN $42.10",
			want:   Candidate{Date: "01/15/24", Description: "TARGET 00012345 MINNEAPOLIS MN", Amount: "$42.10"},
		},
		{
			name:   "discover with post date",
			issuer: models.IssuerDiscover,
			line:   "01/18/24 01/19/24 INTERNET PAYMENT - THANK YOU -$300.00",
			want:   Candidate{Date: "01/18/24", PostDate: "01/19/24", Description: "INTERNET PAYMENT - THANK YOU", Amount: "-$300.00"},
		},
		{
			name:   "amex with reference",
			issuer: models.IssuerAmex,
			line:   "01/15/24* DELTA AIR LINES ATLANTA GA 00612345678 $412.60",
			want: Candidate{
				Date: "01/15/24", Description: "DELTA AIR LINES ATLANTA GA", Amount: "$412.60",
				Extras: map[string]string{"reference": "00612345678"},
			},
		},
		{
			name:   "amex without reference",
			issuer: models.IssuerAmex,
			line:   "02/01/24 WHOLE FOODS AUSTIN TX $45.67",
			want:   Candidate{Date: "02/01/24", Description: "WHOLE FOODS AUSTIN TX", Amount: "$45.67"},
		},
		{
			name:   "apple with daily cash",
			issuer: models.IssuerApple,
			line:   "01/15/2024 APPLE STORE R102 CUPERTINO CA 3% $2.97 $99.00",
			want: Candidate{
				Date: "01/15/2024", Description: "APPLE STORE R102 CUPERTINO CA", Amount: "$99.00",
				Extras: map[string]string{"daily_cash_rate": "3", "daily_cash": "$2.97"},
			},
		},
		{
			name:   "apple payment",
			issuer: models.IssuerApple,
			line:   "01/31/2024 ACH DEPOSIT INTERNET TRANSFER -$500.00",
			want:   Candidate{Date: "01/31/2024", Description: "ACH DEPOSIT INTERNET TRANSFER", Amount: "-$500.00"},
		},
		{
			name:   "generic",
			issuer: models.IssuerGeneric,
			line:   "01/15 STARBUCKS #123 $5.25",
			want:   Candidate{Date: "01/15", Description: "STARBUCKS #123", Amount: "$5.25"},
		},
		{
			name:   "generic month name date",
			issuer: models.IssuerGeneric,
			line:   "Feb 3 BLUE BOTTLE COFFEE 4.50",
			want:   Candidate{Date: "Feb 3", Description: "BLUE BOTTLE COFFEE", Amount: "4.50"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ProfileFor(tt.issuer)
			require.NoError(t, err)

			got, ok := p.MatchRow(tt.line)
			require.True(t, ok, "line did not match: %q", tt.line)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchRow_Unmatched(t *testing.T) {
	tests := []struct {
		issuer models.Issuer
		line   string
	}{
		{models.IssuerCapitalOne, "Transactions + $636.18"},
		{models.IssuerCapitalOne, "01/15 STARBUCKS $5.25"},
		{models.IssuerBarclays, "Purchases +$636.18"},
		{models.IssuerBankOfAmerica, "01/15 01/16 STARBUCKS $5.25"},
		{models.IssuerCiti, "SAN FRANCISCO $12.34"},
		{models.IssuerDiscover, "01/15 TARGET $42.10"},
		{models.IssuerAmex, "Total New Charges $636.18"},
		{models.IssuerApple, "01/15/24 APPLE STORE $99.00"},
		{models.IssuerGeneric, "STARBUCKS $5.25"},
		{models.IssuerGeneric, "01/15 PENDING"},
	}

	for _, tt := range tests {
		t.Run(string(tt.issuer)+"/"+tt.line, func(t *testing.T) {
			p, err := ProfileFor(tt.issuer)
			require.NoError(t, err)

			_, ok := p.MatchRow(tt.line)
			assert.False(t, ok)
		})
	}
}
