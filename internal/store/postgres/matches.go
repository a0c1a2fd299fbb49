package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ipspay/internal/domain/match"
	"ipspay/internal/domain/payment"

	"github.com/jackc/pgx/v5"
)

// matchStore resolves the two mutually exclusive match kinds that share
// one id space. A single lookup returns whichever kind exists.
type matchStore struct {
	q querier
}

func (s *matchStore) FindRevealable(ctx context.Context, matchID int64) (*match.Revealable, error) {
	var kind string
	err := s.q.QueryRow(ctx, `
		SELECT kind FROM (
			SELECT id, 'worker'  AS kind FROM worker_matches  WHERE id = $1
			UNION ALL
			SELECT id, 'service' AS kind FROM service_matches WHERE id = $1
		) m
		LIMIT 1`, matchID).Scan(&kind)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &match.Revealable{Kind: match.Kind(kind), ID: matchID}, nil
}

func (s *matchStore) MarkRevealed(ctx context.Context, rev *match.Revealable, amount payment.Money, at time.Time) error {
	var table string
	switch rev.Kind {
	case match.KindWorker:
		table = "worker_matches"
	case match.KindService:
		table = "service_matches"
	default:
		return fmt.Errorf("unknown match kind %q", rev.Kind)
	}

	_, err := s.q.Exec(ctx, `
		UPDATE `+table+`
		   SET contact_revealed = TRUE, reveal_amount = $2, revealed_at = $3,
		       updated_at = now()
		 WHERE id = $1`,
		rev.ID, int64(amount), at)
	return err
}
