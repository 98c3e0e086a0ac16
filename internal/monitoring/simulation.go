package monitoring

import (
	"runtime"
	"sync"
	"time"

	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/core"
	"github.com/rs/zerolog"
)

// SimulationMonitor tracks progress of a batch of games and periodically
// logs throughput and goroutine counts
type SimulationMonitor struct {
	mu            sync.RWMutex
	logger        zerolog.Logger
	checkInterval time.Duration
	startTime     time.Time

	running  int
	finished int
	failed   int
	turns    int
	outcomes map[core.GameStatus]int

	baselineGoroutines int
	peakGoroutines     int

	stopOnce sync.Once
	stopChan chan struct{}
	done     chan struct{}
}

// NewSimulationMonitor creates a monitor that logs every checkInterval
func NewSimulationMonitor(logger zerolog.Logger, checkInterval time.Duration) *SimulationMonitor {
	baseline := runtime.NumGoroutine()
	return &SimulationMonitor{
		logger:             logger.With().Str("component", "SimulationMonitor").Logger(),
		checkInterval:      checkInterval,
		outcomes:           make(map[core.GameStatus]int),
		baselineGoroutines: baseline,
		peakGoroutines:     baseline,
		stopChan:           make(chan struct{}),
		done:               make(chan struct{}),
	}
}

// Start begins periodic reporting
func (sm *SimulationMonitor) Start() {
	sm.mu.Lock()
	sm.startTime = time.Now()
	sm.mu.Unlock()

	go sm.monitor()
	sm.logger.Info().
		Int("baseline_goroutines", sm.baselineGoroutines).
		Dur("interval", sm.checkInterval).
		Msg("Started simulation monitoring")
}

// Stop ends periodic reporting and logs a final summary
func (sm *SimulationMonitor) Stop() {
	sm.stopOnce.Do(func() {
		close(sm.stopChan)
		<-sm.done
		sm.report(zerolog.InfoLevel, "Simulation summary")
	})
}

func (sm *SimulationMonitor) monitor() {
	defer close(sm.done)
	if sm.checkInterval <= 0 {
		<-sm.stopChan
		return
	}

	ticker := time.NewTicker(sm.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sm.report(zerolog.DebugLevel, "Simulation progress")
		case <-sm.stopChan:
			return
		}
	}
}

// GameStarted records that a game began
func (sm *SimulationMonitor) GameStarted() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.running++
	sm.sampleGoroutinesLocked()
}

// TurnResolved records one resolved turn
func (sm *SimulationMonitor) TurnResolved() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.turns++
}

// GameFinished records the outcome of a game
func (sm *SimulationMonitor) GameFinished(status core.GameStatus) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.running--
	sm.finished++
	sm.outcomes[status]++
}

// GameFailed records a game that stopped with an error
func (sm *SimulationMonitor) GameFailed() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.running--
	sm.failed++
}

func (sm *SimulationMonitor) sampleGoroutinesLocked() {
	if n := runtime.NumGoroutine(); n > sm.peakGoroutines {
		sm.peakGoroutines = n
	}
}

func (sm *SimulationMonitor) report(level zerolog.Level, msg string) {
	sm.mu.Lock()
	sm.sampleGoroutinesLocked()
	sm.mu.Unlock()

	m := sm.GetMetrics()
	sm.logger.WithLevel(level).
		Int("running", m.Running).
		Int("finished", m.Finished).
		Int("failed", m.Failed).
		Int("turns", m.Turns).
		Float64("turns_per_second", m.TurnsPerSecond).
		Int("side0_wins", m.Side0Wins).
		Int("side1_wins", m.Side1Wins).
		Int("draws", m.Draws).
		Int("peak_goroutines", m.PeakGoroutines).
		Msg(msg)
}

// GetMetrics returns a snapshot of the counters
func (sm *SimulationMonitor) GetMetrics() SimulationMetrics {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	m := SimulationMetrics{
		Running:        sm.running,
		Finished:       sm.finished,
		Failed:         sm.failed,
		Turns:          sm.turns,
		Side0Wins:      sm.outcomes[core.StatusSide0Wins],
		Side1Wins:      sm.outcomes[core.StatusSide1Wins],
		Draws:          sm.outcomes[core.StatusDraw],
		PeakGoroutines: sm.peakGoroutines,
	}
	if !sm.startTime.IsZero() {
		m.Elapsed = time.Since(sm.startTime)
		if secs := m.Elapsed.Seconds(); secs > 0 {
			m.TurnsPerSecond = float64(sm.turns) / secs
		}
	}
	return m
}

// SimulationMetrics contains batch statistics
type SimulationMetrics struct {
	Running        int           `json:"running"`
	Finished       int           `json:"finished"`
	Failed         int           `json:"failed"`
	Turns          int           `json:"turns"`
	Side0Wins      int           `json:"side0_wins"`
	Side1Wins      int           `json:"side1_wins"`
	Draws          int           `json:"draws"`
	PeakGoroutines int           `json:"peak_goroutines"`
	Elapsed        time.Duration `json:"elapsed"`
	TurnsPerSecond float64       `json:"turns_per_second"`
}
