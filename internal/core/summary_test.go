package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func tx(typ TxType, amount string, year, month, day int) Transaction {
	return Transaction{
		Amount:    decimal.RequireFromString(amount),
		Type:      typ,
		CreatedAt: time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC),
	}
}

func TestBucketMonthly(t *testing.T) {
	txs := []Transaction{
		tx(Send, "10.00", 2025, 1, 3),
		tx(Send, "5.50", 2025, 1, 20),
		tx(Receive, "40.00", 2025, 1, 25),
		tx(Receive, "7.25", 2024, 12, 31),
		tx(Send, "100.00", 2025, 3, 1),
	}

	buckets := BucketMonthly(txs)
	if len(buckets) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(buckets))
	}

	// Newest first
	if buckets[0].Year != 2025 || buckets[0].Month != 3 {
		t.Fatalf("bucket 0 = %d-%d", buckets[0].Year, buckets[0].Month)
	}
	if buckets[1].Year != 2025 || buckets[1].Month != 1 {
		t.Fatalf("bucket 1 = %d-%d", buckets[1].Year, buckets[1].Month)
	}
	if buckets[2].Year != 2024 || buckets[2].Month != 12 {
		t.Fatalf("bucket 2 = %d-%d", buckets[2].Year, buckets[2].Month)
	}

	jan := buckets[1]
	if !jan.Sent.Equal(decimal.RequireFromString("15.50")) {
		t.Fatalf("jan sent = %s", jan.Sent)
	}
	if !jan.Received.Equal(decimal.RequireFromString("40.00")) {
		t.Fatalf("jan received = %s", jan.Received)
	}
	if !jan.Net().Equal(decimal.RequireFromString("24.50")) {
		t.Fatalf("jan net = %s", jan.Net())
	}
}

func TestBucketMonthlyEmpty(t *testing.T) {
	if got := BucketMonthly(nil); len(got) != 0 {
		t.Fatalf("expected no buckets, got %d", len(got))
	}
}

func TestPercentSplit(t *testing.T) {
	s := Summary{
		TotalSent:    decimal.NewFromInt(30),
		TotalReceive: decimal.NewFromInt(70),
	}
	sent, recv := PercentSplit(s)
	if sent != 30 || recv != 70 {
		t.Fatalf("got %d/%d", sent, recv)
	}

	sent, recv = PercentSplit(Summary{})
	if sent != 0 || recv != 0 {
		t.Fatalf("empty summary got %d/%d", sent, recv)
	}

	// Shares always add up to 100 even with rounding
	s = Summary{TotalSent: decimal.NewFromInt(1), TotalReceive: decimal.NewFromInt(2)}
	sent, recv = PercentSplit(s)
	if sent+recv != 100 {
		t.Fatalf("shares add to %d", sent+recv)
	}
}
