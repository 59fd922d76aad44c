package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// MonthlyBucket aggregates a user's activity for a specific year+month.
type MonthlyBucket struct {
	Year     int
	Month    int // 1-12
	Sent     decimal.Decimal
	Received decimal.Decimal
}

// Net returns received minus sent for the bucket.
func (b MonthlyBucket) Net() decimal.Decimal {
	return b.Received.Sub(b.Sent)
}

// BucketMonthly groups transactions by (year, month) and sums sent vs
// received amounts. Buckets are ordered newest first.
func BucketMonthly(txs []Transaction) []MonthlyBucket {
	type key struct{ year, month int }
	byMonth := map[key]*MonthlyBucket{}
	for _, tx := range txs {
		k := key{tx.CreatedAt.Year(), int(tx.CreatedAt.Month())}
		b, ok := byMonth[k]
		if !ok {
			b = &MonthlyBucket{Year: k.year, Month: k.month}
			byMonth[k] = b
		}
		switch tx.Type {
		case Send:
			b.Sent = b.Sent.Add(tx.Amount)
		case Receive:
			b.Received = b.Received.Add(tx.Amount)
		}
	}
	out := make([]MonthlyBucket, 0, len(byMonth))
	for _, b := range byMonth {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return out
}

// PercentSplit returns the sent and received shares of a summary as rounded
// percentages. Both are zero when the summary has no volume.
func PercentSplit(s Summary) (sentPct, receivedPct int) {
	total := s.TotalSent.Add(s.TotalReceive)
	if !total.IsPositive() {
		return 0, 0
	}
	hundred := decimal.NewFromInt(100)
	sentPct = int(s.TotalSent.Mul(hundred).Div(total).Round(0).IntPart())
	receivedPct = 100 - sentPct
	return sentPct, receivedPct
}
