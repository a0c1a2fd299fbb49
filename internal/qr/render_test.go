package qr

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"
)

func TestDataURIWithoutCache(t *testing.T) {
	r := NewRenderer(nil)

	uri, err := r.DataURI(context.Background(), "2024011512345678",
		"K:PR|V:01|C:1|R:265104031000361092|N:Poslovi DOO|I:RSD999,00|S:Pretplata|SF:289|RO:97|RN:2024011512345678",
		time.Now().Add(24*time.Hour))
	if err != nil {
		t.Fatalf("DataURI: %v", err)
	}

	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(uri, prefix) {
		t.Fatalf("uri %q missing data URI prefix", uri[:32])
	}

	png, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	if err != nil {
		t.Fatalf("payload is not valid base64: %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Fatalf("payload is not a PNG image")
	}
}
