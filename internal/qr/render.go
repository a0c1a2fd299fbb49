package qr

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	qrcode "github.com/skip2/go-qrcode"
)

// pixelSize is a presentation detail, not a protocol requirement.
const pixelSize = 256

// Renderer turns an encoded IPS text record into a PNG data URI.
// Rendered images are cached in Redis keyed by settlement reference,
// with the TTL clamped to the payment's remaining pending window.
type Renderer struct {
	cache *redis.Client
}

// NewRenderer creates a renderer. cache may be nil, in which case every
// call renders.
func NewRenderer(cache *redis.Client) *Renderer {
	return &Renderer{cache: cache}
}

func cacheKey(reference string) string { return "ipsqr:png:" + reference }

// DataURI renders text as a QR PNG with medium error correction and
// returns it as a data URI.
func (r *Renderer) DataURI(ctx context.Context, reference, text string, expiresAt time.Time) (string, error) {
	if r.cache != nil {
		if v, err := r.cache.Get(ctx, cacheKey(reference)).Result(); err == nil {
			return v, nil
		} else if err != redis.Nil {
			log.Warn().Err(err).Str("reference", reference).Msg("qr cache read failed")
		}
	}

	png, err := qrcode.Encode(text, qrcode.Medium, pixelSize)
	if err != nil {
		return "", fmt.Errorf("render qr: %w", err)
	}
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	if r.cache != nil {
		if ttl := time.Until(expiresAt); ttl > 0 {
			if err := r.cache.Set(ctx, cacheKey(reference), uri, ttl).Err(); err != nil {
				log.Warn().Err(err).Str("reference", reference).Msg("qr cache write failed")
			}
		}
	}
	return uri, nil
}
