package ips

import (
	"regexp"
	"strings"
	"testing"

	"ipspay/internal/domain/payment"
)

func TestBuildTextExactRecord(t *testing.T) {
	got := BuildText(Request{
		RecipientAccount: "265104031000361092",
		RecipientName:    "Poslovi DOO Beograd",
		Amount:           999,
		Purpose:          "Pretplata Premium",
		Reference:        "2024011512345678",
	})
	want := "K:PR|V:01|C:1|R:265104031000361092|N:Poslovi DOO Beograd|I:RSD999,00|S:Pretplata Premium|SF:289|RO:97|RN:2024011512345678"
	if got != want {
		t.Fatalf("encoded record mismatch:\n got  %s\n want %s", got, want)
	}
}

func TestBuildTextSegmentOrder(t *testing.T) {
	got := BuildText(Request{
		RecipientAccount: "160000000000000001",
		RecipientName:    "Test",
		Amount:           1,
		Purpose:          "p",
		Reference:        "2024010100000001",
	})

	segments := strings.Split(got, "|")
	if len(segments) != 10 {
		t.Fatalf("expected 10 segments, got %d: %q", len(segments), got)
	}

	wantTags := []string{"K", "V", "C", "R", "N", "I", "S", "SF", "RO", "RN"}
	for i, seg := range segments {
		tag, _, ok := strings.Cut(seg, ":")
		if !ok {
			t.Fatalf("segment %d has no tag: %q", i, seg)
		}
		if tag != wantTags[i] {
			t.Fatalf("segment %d: tag %q, want %q", i, tag, wantTags[i])
		}
	}
}

func TestFormatAmount(t *testing.T) {
	amountRe := regexp.MustCompile(`^RSD\d+,00$`)

	tests := []struct {
		amount int64
		want   string
	}{
		{0, "RSD0,00"},
		{1, "RSD1,00"},
		{999, "RSD999,00"},
		{150000, "RSD150000,00"},
	}
	for _, tt := range tests {
		got := FormatAmount(payment.Money(tt.amount))
		if got != tt.want {
			t.Errorf("FormatAmount(%d) = %q, want %q", tt.amount, got, tt.want)
		}
		if !amountRe.MatchString(got) {
			t.Errorf("FormatAmount(%d) = %q does not match %v", tt.amount, got, amountRe)
		}
	}
}
