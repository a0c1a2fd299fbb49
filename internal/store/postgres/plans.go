package postgres

import (
	"context"
	"errors"
	"fmt"

	"ipspay/internal/domain/plan"

	"github.com/jackc/pgx/v5"
)

// planStore reads the plan catalogue owned by the surrounding system.
type planStore struct {
	q querier
}

func (s *planStore) FindByCode(ctx context.Context, code string) (*plan.Plan, error) {
	var p plan.Plan
	err := s.q.QueryRow(ctx, `
		SELECT code, name, credits_per_month, price
		  FROM plans
		 WHERE code = $1`, code).
		Scan(&p.Code, &p.Name, &p.CreditsPerMonth, &p.Price)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", plan.ErrNotFound, code)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
