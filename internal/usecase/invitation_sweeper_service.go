package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/sflhq/league-service/internal/domain/league"
	"github.com/sflhq/league-service/internal/platform/logging"
)

const sweepChunkSize = 25

type SweepResult struct {
	Scanned     int `json:"scanned"`
	Expired     int `json:"expired"`
	Failed      int `json:"failed"`
	WorkerCount int `json:"worker_count"`
}

// InvitationSweeperService expires pending invitations past their deadline.
// It runs on a fixed interval and fans chunk updates out over a worker pool.
type InvitationSweeperService struct {
	leagueRepo league.Repository
	logger     *logging.Logger
	interval   time.Duration
	batchSize  int
	workers    int
	now        func() time.Time
}

func NewInvitationSweeperService(
	leagueRepo league.Repository,
	logger *logging.Logger,
	interval time.Duration,
	batchSize int,
	workers int,
) *InvitationSweeperService {
	if logger == nil {
		logger = logging.NewNop()
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if batchSize < 1 {
		batchSize = 100
	}
	if workers < 1 {
		workers = 1
	}

	return &InvitationSweeperService{
		leagueRepo: leagueRepo,
		logger:     logger,
		interval:   interval,
		batchSize:  batchSize,
		workers:    workers,
		now:        time.Now,
	}
}

// Run sweeps immediately, then on every tick until the context is done.
func (s *InvitationSweeperService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		result, err := s.SweepOnce(ctx)
		if err != nil {
			s.logger.ErrorContext(ctx, "invitation sweep failed", "error", err)
		} else if result.Scanned > 0 {
			s.logger.InfoContext(ctx, "invitation sweep finished",
				"scanned", result.Scanned,
				"expired", result.Expired,
				"failed", result.Failed,
			)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// SweepOnce expires one batch of overdue pending invitations.
func (s *InvitationSweeperService) SweepOnce(ctx context.Context) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InvitationSweeperService.SweepOnce")
	defer span.End()

	overdue, err := s.leagueRepo.ListExpiredPendingInvitations(ctx, s.now().UTC(), s.batchSize)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list expired pending invitations: %w", err)
	}

	result := SweepResult{Scanned: len(overdue), WorkerCount: s.workers}
	if len(overdue) == 0 {
		return result, nil
	}

	ids := make([]string, 0, len(overdue))
	for _, invitation := range overdue {
		ids = append(ids, invitation.ID)
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return SweepResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var expiredCount atomic.Int64
	var failedCount atomic.Int64

	var workers sync.WaitGroup
	for start := 0; start < len(ids); start += sweepChunkSize {
		end := start + sweepChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			updated, markErr := s.leagueRepo.MarkInvitationsExpired(ctx, chunk)
			if markErr != nil {
				failedCount.Add(int64(len(chunk)))
				s.logger.ErrorContext(ctx, "mark invitations expired failed",
					"error", markErr,
					"chunk_size", len(chunk),
				)
				return
			}
			expiredCount.Add(updated)
		}); err != nil {
			workers.Done()
			failedCount.Add(int64(len(chunk)))
		}
	}
	workers.Wait()

	result.Expired = int(expiredCount.Load())
	result.Failed = int(failedCount.Load())
	return result, nil
}
