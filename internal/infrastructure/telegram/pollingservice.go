package telegram

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pedalworks/repairbay/internal/shared/goroutine"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

// defaultWorkerCount is the fan-out for concurrent update processing.
// Updates are bucketed by user affinity (userID % workerCount) so a given
// user's updates process in order while different users run concurrently,
// matching the "workers share the database but never share per-request
// mutable state" model (spec.md §5).
const defaultWorkerCount = 4

// OffsetStore persists the long-poll offset across restarts.
type OffsetStore interface {
	GetOffset(ctx context.Context) (int64, error)
	SaveOffset(ctx context.Context, offset int64) error
}

// UpdateHandler processes one Telegram update. Implemented by
// application/telegram's dispatcher.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update *Update) error
}

// PollingService runs Telegram's getUpdates long-poll loop (spec.md §4.9's
// "polling or webhook" mode).
type PollingService struct {
	botService  *BotService
	handler     UpdateHandler
	logger      logger.Interface
	offsetStore OffsetStore

	pollTimeout int
	workerCount int

	runningMu          sync.Mutex
	isRunning          bool
	stopChan           chan struct{}
	cancelFunc         context.CancelFunc
	wg                 sync.WaitGroup
	lastUpdateID       int64
	processedWatermark int64
}

func NewPollingService(botService *BotService, handler UpdateHandler, log logger.Interface, offsetStore OffsetStore) *PollingService {
	return &PollingService{
		botService:  botService,
		handler:     handler,
		logger:      log,
		offsetStore: offsetStore,
		pollTimeout: 30,
		workerCount: defaultWorkerCount,
		stopChan:    make(chan struct{}),
	}
}

func (s *PollingService) Start(ctx context.Context) error {
	s.runningMu.Lock()
	if s.isRunning {
		s.runningMu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	pollCtx, cancel := context.WithCancel(ctx)
	s.cancelFunc = cancel
	s.runningMu.Unlock()

	if s.offsetStore != nil {
		if saved, err := s.offsetStore.GetOffset(ctx); err != nil {
			s.logger.Warnw("failed to load polling offset, starting from 0", "error", err)
		} else if saved > 0 {
			s.lastUpdateID = saved
			s.processedWatermark = saved
		}
	}

	if err := s.botService.DeleteWebhook(); err != nil {
		s.logger.Warnw("failed to delete webhook before polling", "error", err)
	}

	s.logger.Infow("starting telegram polling service", "timeout", s.pollTimeout, "workers", s.workerCount)

	s.wg.Add(1)
	goroutine.SafeGo(s.logger, "telegram-poll-loop", func() {
		s.pollLoop(pollCtx)
	})
	return nil
}

func (s *PollingService) Stop() {
	s.runningMu.Lock()
	if !s.isRunning {
		s.runningMu.Unlock()
		return
	}
	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.runningMu.Unlock()

	close(s.stopChan)
	s.wg.Wait()
	s.logger.Infow("telegram polling service stopped")
}

func (s *PollingService) pollLoop(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		default:
			s.poll(ctx)
		}
	}
}

func (s *PollingService) poll(ctx context.Context) {
	offset := int64(0)
	if s.lastUpdateID > 0 {
		offset = s.lastUpdateID + 1
	}

	updates, err := s.botService.GetUpdatesWithContext(ctx, offset, s.pollTimeout)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Errorw("failed to get updates", "error", err)
		select {
		case <-ctx.Done():
		case <-s.stopChan:
		case <-time.After(5 * time.Second):
		}
		return
	}
	if len(updates) == 0 {
		return
	}

	filtered := updates[:0]
	for _, u := range updates {
		if u.UpdateID > s.processedWatermark {
			filtered = append(filtered, u)
		}
	}
	if len(filtered) == 0 {
		for _, u := range updates {
			if u.UpdateID > s.lastUpdateID {
				s.lastUpdateID = u.UpdateID
			}
		}
		return
	}

	buckets := make([][]Update, s.workerCount)
	var maxUpdateID int64
	for _, u := range filtered {
		idx := s.userAffinity(&u)
		buckets[idx] = append(buckets[idx], u)
		if u.UpdateID > maxUpdateID {
			maxUpdateID = u.UpdateID
		}
	}

	var batchWg sync.WaitGroup
	for i, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		batchWg.Add(1)
		workerIdx, workerBucket := i, bucket
		goroutine.SafeGo(s.logger, "telegram-worker-batch", func() {
			s.processBatch(ctx, &batchWg, workerIdx, workerBucket)
		})
	}
	batchWg.Wait()

	s.lastUpdateID = maxUpdateID
	s.processedWatermark = maxUpdateID

	if s.offsetStore != nil && s.lastUpdateID > 0 {
		saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.offsetStore.SaveOffset(saveCtx, s.lastUpdateID); err != nil {
			s.logger.Warnw("failed to save polling offset", "error", err)
		}
	}
}

func (s *PollingService) processBatch(ctx context.Context, wg *sync.WaitGroup, workerIdx int, updates []Update) {
	defer wg.Done()

	for i := range updates {
		if ctx.Err() != nil {
			return
		}
		func(u *Update) {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Errorw("panic recovered in update handler", "worker", workerIdx, "update_id", u.UpdateID, "panic", fmt.Sprintf("%v", r))
				}
			}()
			if err := s.handler.HandleUpdate(ctx, u); err != nil {
				s.logger.Errorw("failed to handle update", "worker", workerIdx, "update_id", u.UpdateID, "error", err)
			}
		}(&updates[i])
	}
}

func (s *PollingService) userAffinity(u *Update) int {
	var userID int64
	switch {
	case u.CallbackQuery != nil && u.CallbackQuery.From != nil:
		userID = u.CallbackQuery.From.ID
	case u.Message != nil && u.Message.From != nil:
		userID = u.Message.From.ID
	default:
		userID = u.UpdateID
	}
	idx := int(userID % int64(s.workerCount))
	if idx < 0 {
		idx += s.workerCount
	}
	return idx
}
