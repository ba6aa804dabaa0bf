package weather

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fetcherFunc func(ctx context.Context, lat, lon float64) (*Snapshot, error)

func (f fetcherFunc) FetchSnapshot(ctx context.Context, lat, lon float64) (*Snapshot, error) {
	return f(ctx, lat, lon)
}

func stormSnapshot(observed int64) *Snapshot {
	return &Snapshot{
		Location: Location{Name: "Campus"},
		Current: Current{
			Visibility: 8000,
			WindSpeed:  12,
			Conditions: []Condition{{Main: "Thunderstorm", Description: "thunderstorm"}},
		},
		ObservedAt: time.Unix(observed, 0),
	}
}

func TestMonitorPublishesAfterFailedCycle(t *testing.T) {
	var calls int32
	fetch := fetcherFunc(func(ctx context.Context, lat, lon float64) (*Snapshot, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, errors.New("upstream unavailable")
		}
		return stormSnapshot(1700000000), nil
	})

	results := make(chan []EmergencyAlert, 4)
	m := NewMonitor(fetch, zap.NewNop())
	defer m.Stop()
	m.Subscribe(func(alerts []EmergencyAlert) { results <- alerts })

	m.Start(28.6, 77.2, 20*time.Millisecond)

	select {
	case alerts := <-results:
		if len(alerts) != 1 || alerts[0].Type != KindSevereWeather {
			t.Fatalf("unexpected alerts: %+v", alerts)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no publish after failed first cycle")
	}
	if !m.Running() {
		t.Error("monitor should keep running after a failed cycle")
	}
}

func TestMonitorStopSuppressesInFlightResult(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	fetch := fetcherFunc(func(ctx context.Context, lat, lon float64) (*Snapshot, error) {
		started <- struct{}{}
		<-release
		return stormSnapshot(1700000000), nil
	})

	published := make(chan struct{}, 1)
	m := NewMonitor(fetch, zap.NewNop())
	m.Subscribe(func([]EmergencyAlert) { published <- struct{}{} })

	m.Start(28.6, 77.2, time.Hour)
	<-started
	m.Stop()
	close(release)

	select {
	case <-published:
		t.Fatal("in-flight result published after Stop")
	case <-time.After(100 * time.Millisecond):
	}
	if m.Running() {
		t.Error("monitor should report stopped")
	}
}

func TestMonitorRestartDiscardsOldGeneration(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	var calls int32
	fetch := fetcherFunc(func(ctx context.Context, lat, lon float64) (*Snapshot, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			started <- struct{}{}
			<-release
			return stormSnapshot(1111), nil
		}
		return stormSnapshot(2222), nil
	})

	results := make(chan []EmergencyAlert, 4)
	m := NewMonitor(fetch, zap.NewNop())
	defer m.Stop()
	m.Subscribe(func(alerts []EmergencyAlert) { results <- alerts })

	m.Start(28.6, 77.2, 20*time.Millisecond)
	<-started
	// 旧请求还在途时重启，旧结果必须作废
	m.Start(28.6, 77.2, 20*time.Millisecond)
	close(release)

	select {
	case alerts := <-results:
		if alerts[0].ID != "severe-thunderstorm-2222" {
			t.Fatalf("old generation result leaked: %s", alerts[0].ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no publish after restart")
	}
	if !m.Running() {
		t.Error("monitor should be running after restart")
	}
}

func TestMonitorRestartRunsImmediateCycleDespiteStaleFetch(t *testing.T) {
	started := make(chan struct{}, 1)
	block := make(chan struct{})
	var calls int32
	fetch := fetcherFunc(func(ctx context.Context, lat, lon float64) (*Snapshot, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			started <- struct{}{}
			<-block
			return stormSnapshot(1111), nil
		}
		return stormSnapshot(2222), nil
	})

	results := make(chan []EmergencyAlert, 4)
	m := NewMonitor(fetch, zap.NewNop())
	defer m.Stop()
	defer close(block)
	m.Subscribe(func(alerts []EmergencyAlert) { results <- alerts })

	m.Start(28.6, 77.2, time.Hour)
	<-started
	// 旧请求迟迟不返回，重启后的首轮拉取不应被它挡住
	m.Start(28.6, 77.2, time.Hour)

	select {
	case alerts := <-results:
		if alerts[0].ID != "severe-thunderstorm-2222" {
			t.Fatalf("published alert %s, want result of the restarted schedule", alerts[0].ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("restart first cycle blocked by stale in-flight fetch")
	}
}

func TestMonitorUnsubscribe(t *testing.T) {
	fetch := fetcherFunc(func(ctx context.Context, lat, lon float64) (*Snapshot, error) {
		return stormSnapshot(1700000000), nil
	})

	kept := make(chan struct{}, 4)
	dropped := make(chan struct{}, 4)
	m := NewMonitor(fetch, zap.NewNop())
	defer m.Stop()
	m.Subscribe(func([]EmergencyAlert) { kept <- struct{}{} })
	unsub := m.Subscribe(func([]EmergencyAlert) { dropped <- struct{}{} })
	unsub()

	m.Start(28.6, 77.2, time.Hour)

	select {
	case <-kept:
	case <-time.After(2 * time.Second):
		t.Fatal("remaining subscriber never notified")
	}
	select {
	case <-dropped:
		t.Fatal("unsubscribed callback was invoked")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMonitorSkipsTicksWhileFetchInFlight(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	var calls int32
	fetch := fetcherFunc(func(ctx context.Context, lat, lon float64) (*Snapshot, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			started <- struct{}{}
		}
		<-release
		return stormSnapshot(1700000000), nil
	})

	m := NewMonitor(fetch, zap.NewNop())
	defer m.Stop()

	m.Start(28.6, 77.2, 10*time.Millisecond)
	<-started
	time.Sleep(100 * time.Millisecond)

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected ticks to be skipped while fetch in flight, got %d calls", n)
	}
	close(release)
}
