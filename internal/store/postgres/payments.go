package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ipspay/internal/domain/payment"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const paymentColumns = `id, user_id, amount, currency, type, description, plan_code,
	       method, reference, status, expires_at, completed_at, verified_at,
	       verified_by, match_id, service_request_id, created_at, updated_at`

// paymentStore persists the (payments, ips_records) pair. When pool is
// set, multi-statement operations open their own transaction; when the
// store is handed out by a unit of work, q is already a pgx.Tx and the
// surrounding transaction owns commit/rollback.
type paymentStore struct {
	q    querier
	pool *pgxpool.Pool
}

// withTx runs fn inside a transaction when the store is pool-backed,
// or directly against the enclosing transaction otherwise.
func (s *paymentStore) withTx(ctx context.Context, fn func(q querier) error) error {
	if s.pool == nil {
		return fn(s.q)
	}
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *paymentStore) Create(ctx context.Context, p *payment.Payment, rec *payment.IpsRecord) error {
	return s.withTx(ctx, func(q querier) error {
		err := q.QueryRow(ctx, `
			INSERT INTO payments (user_id, amount, currency, type, description, plan_code,
			                      method, reference, status, expires_at, match_id,
			                      service_request_id, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$13)
			RETURNING id`,
			p.UserID, int64(p.Amount), string(p.Currency), string(p.Type), p.Description,
			nullString(p.PlanCode), string(p.Method), p.Reference, string(p.Status),
			p.ExpiresAt, p.MatchID, p.ServiceRequestID, p.CreatedAt,
		).Scan(&p.ID)
		if err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}

		rec.PaymentID = p.ID
		err = q.QueryRow(ctx, `
			INSERT INTO ips_records (payment_id, identification_code, recipient_name,
			                         recipient_account, amount_text, reference, purpose,
			                         status, expires_at, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$10)
			RETURNING id`,
			rec.PaymentID, rec.IdentificationCode, rec.RecipientName, rec.RecipientAccount,
			rec.AmountText, rec.Reference, rec.Purpose, string(rec.Status), rec.ExpiresAt,
			rec.CreatedAt,
		).Scan(&rec.ID)
		if err != nil {
			return fmt.Errorf("insert ips record: %w", err)
		}
		return nil
	})
}

func (s *paymentStore) FindByID(ctx context.Context, id int64) (*payment.Payment, error) {
	row := s.q.QueryRow(ctx, `
		SELECT `+paymentColumns+`
		  FROM payments
		 WHERE id = $1`, id)
	return scanPayment(row)
}

func (s *paymentStore) FindByReference(ctx context.Context, reference string) (*payment.Payment, error) {
	row := s.q.QueryRow(ctx, `
		SELECT `+paymentColumns+`
		  FROM payments
		 WHERE reference = $1`, reference)
	return scanPayment(row)
}

func (s *paymentStore) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*payment.Payment, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+paymentColumns+`
		  FROM payments
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*payment.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *paymentStore) LinkMatch(ctx context.Context, paymentID, matchID int64) error {
	_, err := s.q.Exec(ctx, `
		UPDATE payments
		   SET match_id = $2, updated_at = now()
		 WHERE id = $1`, paymentID, matchID)
	return err
}

func (s *paymentStore) LinkServiceRequest(ctx context.Context, paymentID, serviceRequestID int64) error {
	_, err := s.q.Exec(ctx, `
		UPDATE payments
		   SET service_request_id = $2, updated_at = now()
		 WHERE id = $1`, paymentID, serviceRequestID)
	return err
}

// CompletePending is the single conditional transition verify relies
// on: the WHERE status='pending' guard means two concurrent verifies
// for one reference cannot both succeed.
func (s *paymentStore) CompletePending(ctx context.Context, reference string, adminID int64, now time.Time) (*payment.Payment, error) {
	var p *payment.Payment
	err := s.withTx(ctx, func(q querier) error {
		row := q.QueryRow(ctx, `
			UPDATE payments
			   SET status = $2, completed_at = $3, verified_at = $3,
			       verified_by = $4, updated_at = now()
			 WHERE reference = $1 AND status = $5
			 RETURNING `+paymentColumns,
			reference, string(payment.StatusCompleted), now, adminID,
			string(payment.StatusPending))

		var err error
		p, err = scanPayment(row)
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish "no such reference" from "already settled".
			var status string
			probe := q.QueryRow(ctx, `SELECT status FROM payments WHERE reference = $1`, reference)
			if perr := probe.Scan(&status); perr != nil {
				if errors.Is(perr, pgx.ErrNoRows) {
					return payment.ErrNotFound
				}
				return perr
			}
			return fmt.Errorf("%w: status %s", payment.ErrAlreadySettled, status)
		}
		if err != nil {
			return err
		}

		_, err = q.Exec(ctx, `
			UPDATE ips_records
			   SET status = $2, paid_at = $3, updated_at = now()
			 WHERE payment_id = $1`,
			p.ID, string(payment.IpsPaid), now)
		if err != nil {
			return fmt.Errorf("mirror ips record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ExpireStale moves every stale pending pair to expired in one
// data-modifying CTE, so a sweep overlapping a verify or another sweep
// only ever touches rows still pending at update time.
func (s *paymentStore) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.q.Exec(ctx, `
		WITH expired AS (
			UPDATE payments
			   SET status = $1, updated_at = now()
			 WHERE status = $2 AND expires_at < $3
			 RETURNING id
		)
		UPDATE ips_records
		   SET status = $4, updated_at = now()
		 WHERE payment_id IN (SELECT id FROM expired)`,
		string(payment.StatusExpired), string(payment.StatusPending), now,
		string(payment.IpsExpired))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// scanPayment scans a single row into the payment aggregate.
func scanPayment(row pgx.Row) (*payment.Payment, error) {
	var p payment.Payment
	var planCode *string

	err := row.Scan(
		&p.ID, &p.UserID, &p.Amount, &p.Currency, &p.Type, &p.Description, &planCode,
		&p.Method, &p.Reference, &p.Status, &p.ExpiresAt, &p.CompletedAt, &p.VerifiedAt,
		&p.VerifiedBy, &p.MatchID, &p.ServiceRequestID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if planCode != nil {
		p.PlanCode = *planCode
	}
	return &p, nil
}
