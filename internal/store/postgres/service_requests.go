package postgres

import "context"

// serviceRequestStore sets the priority/urgency flags completion
// dispatch applies to a linked service request.
type serviceRequestStore struct {
	q querier
}

func (s *serviceRequestStore) FlagPriority(ctx context.Context, serviceRequestID int64) error {
	_, err := s.q.Exec(ctx, `
		UPDATE service_requests
		   SET is_priority = TRUE, updated_at = now()
		 WHERE id = $1`, serviceRequestID)
	return err
}

func (s *serviceRequestStore) FlagUrgent(ctx context.Context, serviceRequestID int64, urgencyLevel int) error {
	_, err := s.q.Exec(ctx, `
		UPDATE service_requests
		   SET is_priority = TRUE, is_urgent = TRUE, urgency_level = $2,
		       updated_at = now()
		 WHERE id = $1`, serviceRequestID, urgencyLevel)
	return err
}
