package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"github.com/kasetfair/booth-api/internal/domain"
)

var ErrPoolEmpty = errors.New("draw pool is empty")

type LotteryStoreRepository interface {
	FindEligible(ctx context.Context, storeType *domain.StoreType) ([]domain.Store, error)
}

type LotteryAssignmentRepository interface {
	HasLiveByStoreID(ctx context.Context, storeID uint) (bool, error)
}

// PoolEntry is one drawable store with its index from pool load time. The
// index is stable for the pool's lifetime so operators can cross-check the
// wheel display against the API.
type PoolEntry struct {
	Index int          `json:"index"`
	Store domain.Store `json:"store"`
}

// LotteryService holds the ephemeral draw pool for the running lottery
// session. The pool is a cache over the eligible-store query; eligibility is
// re-verified at draw time, so a reset never loses state that matters.
type LotteryService struct {
	mu             sync.Mutex
	pool           []PoolEntry
	storeRepo      LotteryStoreRepository
	assignmentRepo LotteryAssignmentRepository
}

func NewLotteryService(storeRepo LotteryStoreRepository, assignmentRepo LotteryAssignmentRepository) *LotteryService {
	return &LotteryService{
		storeRepo:      storeRepo,
		assignmentRepo: assignmentRepo,
	}
}

// LoadPool snapshots the validated, unassigned stores into a fresh pool,
// replacing any previous one. An optional store-type filter narrows the round
// (e.g. a Nisit-only draw).
func (s *LotteryService) LoadPool(ctx context.Context, storeType *domain.StoreType) ([]PoolEntry, error) {
	stores, err := s.storeRepo.FindEligible(ctx, storeType)
	if err != nil {
		return nil, fmt.Errorf("s.storeRepo.FindEligible -> %w", err)
	}

	pool := make([]PoolEntry, len(stores))
	for i, store := range stores {
		pool[i] = PoolEntry{Index: i, Store: store}
	}

	s.mu.Lock()
	s.pool = pool
	s.mu.Unlock()

	return pool, nil
}

// Pool returns a copy of the remaining entries.
func (s *LotteryService) Pool() []PoolEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]PoolEntry, len(s.pool))
	copy(out, s.pool)

	return out
}

// Draw removes one uniformly random entry from the pool and returns it.
// Selection and removal happen under the pool lock, so two callers can never
// receive the same store. Entries whose store gained a live assignment since
// pool load are dropped and the draw moves on.
func (s *LotteryService) Draw(ctx context.Context) (PoolEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		if len(s.pool) == 0 {
			return PoolEntry{}, ErrPoolEmpty
		}

		i := rand.Intn(len(s.pool))
		entry := s.pool[i]

		live, err := s.assignmentRepo.HasLiveByStoreID(ctx, entry.Store.ID)
		if err != nil {
			// The pool is untouched; the caller retries the draw.
			return PoolEntry{}, fmt.Errorf("s.assignmentRepo.HasLiveByStoreID -> %w", err)
		}

		s.pool = append(s.pool[:i], s.pool[i+1:]...)
		if live {
			zap.L().Warn("skipping stale pool entry with live assignment",
				zap.Uint("storeID", entry.Store.ID),
				zap.Int("poolIndex", entry.Index))
			continue
		}

		return entry, nil
	}
}

// Remaining reports how many entries are still drawable.
func (s *LotteryService) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.pool)
}
