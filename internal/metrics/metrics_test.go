package metrics

import (
	"sync"
	"testing"
	"time"

	"deepseek2api/internal/core"
)

func newTestService() *MetricsService {
	return NewMetricsService(MetricsConfig{
		SaveInterval: time.Hour,
		HistorySize:  10,
		Logger:       &core.NopLogger{},
	})
}

func TestRecordRequestCounters(t *testing.T) {
	ms := newTestService()
	defer func() { _ = ms.Close() }()

	ms.RecordRequest(true, 120, "deepseek/deepseek-chat")
	ms.RecordRequest(false, 80, "deepseek/deepseek-chat")
	ms.RecordRequest(true, 100, "deepseek/deepseek-coder")

	stats := ms.GetRequestStats()
	if stats.TotalRequests != 3 {
		t.Errorf("TotalRequests = %d", stats.TotalRequests)
	}
	if stats.SuccessfulRequests != 2 || stats.FailedRequests != 1 {
		t.Errorf("success/fail = %d/%d", stats.SuccessfulRequests, stats.FailedRequests)
	}
	if stats.TotalResponseTime != 300 {
		t.Errorf("TotalResponseTime = %d", stats.TotalResponseTime)
	}
	if len(stats.RequestHistory) != 3 {
		t.Errorf("history length = %d", len(stats.RequestHistory))
	}
}

func TestHistoryBounded(t *testing.T) {
	ms := newTestService()
	defer func() { _ = ms.Close() }()

	for i := 0; i < 25; i++ {
		ms.RecordRequest(true, 1, "m")
	}

	stats := ms.GetRequestStats()
	if len(stats.RequestHistory) > 10 {
		t.Errorf("history length = %d, want <= 10", len(stats.RequestHistory))
	}
}

func TestGetQPS(t *testing.T) {
	ms := newTestService()
	defer func() { _ = ms.Close() }()

	if qps := ms.GetQPS(); qps != 0 {
		t.Errorf("idle QPS = %f", qps)
	}

	for i := 0; i < 60; i++ {
		ms.RecordRequest(true, 1, "m")
	}
	if qps := ms.GetQPS(); qps < 0.9 {
		t.Errorf("QPS = %f after 60 requests in a minute", qps)
	}
}

func TestConcurrentRecording(t *testing.T) {
	ms := newTestService()
	defer func() { _ = ms.Close() }()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				ms.RecordRequest(j%2 == 0, 1, "m")
			}
		}()
	}
	wg.Wait()

	stats := ms.GetRequestStats()
	if stats.TotalRequests != 200 {
		t.Errorf("TotalRequests = %d, want 200", stats.TotalRequests)
	}
}

func TestGetPeriodStats(t *testing.T) {
	now := time.Now()
	history := []core.RequestRecord{
		{Timestamp: now.Add(-30 * time.Minute), Success: true, ResponseTime: 100},
		{Timestamp: now.Add(-2 * time.Hour), Success: false, ResponseTime: 200},
		{Timestamp: now.Add(-48 * time.Hour), Success: true, ResponseTime: 300},
	}

	result := GetPeriodStats(history, 1, 24)

	if result[1].Requests != 1 {
		t.Errorf("1h requests = %d, want 1", result[1].Requests)
	}
	if result[24].Requests != 2 {
		t.Errorf("24h requests = %d, want 2", result[24].Requests)
	}
	if result[24].SuccessRate != 50 {
		t.Errorf("24h success rate = %f, want 50", result[24].SuccessRate)
	}
}

type fakeStorage struct {
	saved *core.RequestStats
}

func (f *fakeStorage) SaveStats(stats *core.RequestStats) error { f.saved = stats; return nil }
func (f *fakeStorage) LoadStats() (*core.RequestStats, error) {
	return &core.RequestStats{TotalRequests: 7, SuccessfulRequests: 5, FailedRequests: 2, RequestHistory: []core.RequestRecord{}}, nil
}
func (f *fakeStorage) Close() error { return nil }

func TestLoadAndPersist(t *testing.T) {
	storage := &fakeStorage{}
	ms := NewMetricsService(MetricsConfig{
		SaveInterval: time.Hour,
		HistorySize:  10,
		Storage:      storage,
		Logger:       &core.NopLogger{},
	})

	if err := ms.LoadStats(); err != nil {
		t.Fatalf("LoadStats: %v", err)
	}
	if got := ms.GetRequestStats().TotalRequests; got != 7 {
		t.Errorf("TotalRequests after load = %d, want 7", got)
	}

	ms.RecordRequest(true, 10, "m")
	if err := ms.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if storage.saved == nil || storage.saved.TotalRequests != 8 {
		t.Errorf("final save missing or wrong: %+v", storage.saved)
	}
}
