package weather

import (
	"context"
	"sync"
	"time"

	"suraksha_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// Fetcher 拉取一次天气快照。生产环境是 *Client，测试里可替换。
type Fetcher interface {
	FetchSnapshot(ctx context.Context, lat, lon float64) (*Snapshot, error)
}

type Subscriber func(alerts []EmergencyAlert)

// Monitor 周期性拉取+分类+发布的调度器。
// 不变式：同一轮调度内至多一个在途请求（轮询间隔内未返回则跳过该次 tick）；
// Stop 之后在途请求可以完成但结果不再发布；重复 Start 先停掉旧调度，不叠加定时器，
// 旧调度残留的在途请求不会挡住新调度的首轮拉取。
type Monitor struct {
	fetcher Fetcher
	log     *zap.Logger

	mu          sync.Mutex
	subs        map[int]Subscriber
	nextSub     int
	cancel      context.CancelFunc
	running     bool
	inFlightGen int
	gen         int
}

func NewMonitor(fetcher Fetcher, log *zap.Logger) *Monitor {
	return &Monitor{
		fetcher: fetcher,
		log:     log,
		subs:    make(map[int]Subscriber),
	}
}

// Subscribe 注册订阅者，返回注销函数。不要求 Monitor 处于运行状态。
func (m *Monitor) Subscribe(fn Subscriber) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// Start 立即执行一次拉取+分类+发布，之后按 interval 重复。幂等重启。
func (m *Monitor) Start(lat, lon float64, interval time.Duration) {
	m.mu.Lock()
	if m.running {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.running = true
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	go m.loop(ctx, lat, lon, interval, gen)
}

func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.cancel()
	m.running = false
}

func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) loop(ctx context.Context, lat, lon float64, interval time.Duration, gen int) {
	m.runCycle(ctx, lat, lon, gen)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.runCycle(ctx, lat, lon, gen)
		}
	}
}

// runCycle 单次轮询。失败只记日志和指标，下一次 tick 照常进行。
func (m *Monitor) runCycle(ctx context.Context, lat, lon float64, gen int) {
	m.mu.Lock()
	if m.inFlightGen == gen {
		// 本轮调度上一次请求还没回来，跳过本次 tick。
		// 重启后残留的旧代请求不算：它的结果注定被丢弃，不该挡住新调度的首轮。
		m.mu.Unlock()
		m.log.Debug("weather poll skipped, previous fetch still in flight")
		return
	}
	m.inFlightGen = gen
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		if m.inFlightGen == gen {
			m.inFlightGen = 0
		}
		m.mu.Unlock()
	}()

	monitoring.WeatherPollTotal.Inc()

	snap, err := m.fetcher.FetchSnapshot(ctx, lat, lon)
	if err != nil {
		monitoring.WeatherPollFailures.Inc()
		m.log.Warn("weather fetch failed, will retry on next cycle", zap.Error(err))
		return
	}

	alerts := Classify(snap, time.Now())

	m.mu.Lock()
	if !m.running || m.gen != gen {
		// Stop 或重启发生在请求在途期间，结果作废
		m.mu.Unlock()
		return
	}
	subs := make([]Subscriber, 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(alerts)
	}
}
