package job

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/loan/service"
)

// OverdueJob runs the daily overdue scan. It only reports; fines are
// assessed at return time, not by the scan.
type OverdueJob struct {
	service service.LoanService
}

func NewOverdueJob(svc service.LoanService) *OverdueJob {
	return &OverdueJob{service: svc}
}

func (j *OverdueJob) HandleOverdueScan(ctx context.Context, t *asynq.Task) error {
	loans, err := j.service.ListOverdue(ctx)
	if err != nil {
		log.Error().Err(err).Msg("overdue scan failed")
		return err
	}

	for _, loan := range loans {
		log.Warn().
			Str("loan_id", loan.ID.String()).
			Str("book_title", loan.BookTitle).
			Str("borrower", loan.BorrowerDocument).
			Time("due_date", loan.DueDate).
			Msg("loan overdue")
	}

	log.Info().Int("count", len(loans)).Msg("overdue scan completed")
	return nil
}
