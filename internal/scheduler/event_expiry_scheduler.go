package scheduler

import (
	"github.com/ikkim/weddingfilm-backend/internal/app/service"
	"github.com/ikkim/weddingfilm-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// EventExpiryScheduler 종료된 할인 이벤트 비활성화 스케줄러
type EventExpiryScheduler struct {
	cron         *cron.Cron
	spec         string
	eventService service.DiscountEventService
}

// NewEventExpiryScheduler spec 은 5필드 cron 표현식 (예: "5 0 * * *")
func NewEventExpiryScheduler(eventService service.DiscountEventService, spec string) *EventExpiryScheduler {
	return &EventExpiryScheduler{
		cron:         cron.New(),
		spec:         spec,
		eventService: eventService,
	}
}

// RunOnce 한 번 실행. 실패해도 다음 주기에 다시 시도한다
func (s *EventExpiryScheduler) RunOnce() {
	count, err := s.eventService.DeactivateExpired()
	if err != nil {
		logger.Error("Failed to deactivate expired events", err)
		return
	}
	logger.Info("Expired event sweep finished", map[string]interface{}{
		"deactivated": count,
	})
}

// Start 서버 시작 시 한 번 정리한 뒤 주기 실행
func (s *EventExpiryScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		logger.Error("Failed to add cron job for event expiry", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.RunOnce()
	s.cron.Start()
	logger.Info("Event expiry scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// Stop 실행 중인 작업이 끝날 때까지 기다린다
func (s *EventExpiryScheduler) Stop() {
	logger.Info("Stopping event expiry scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Event expiry scheduler stopped")
}
