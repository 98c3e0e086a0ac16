package monitoring

import (
	"sync"
	"testing"
	"time"

	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/core"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSimulationMonitor_Counters(t *testing.T) {
	sm := NewSimulationMonitor(testutil.NopLogger(), 0)
	sm.Start()

	var wg sync.WaitGroup
	statuses := []core.GameStatus{core.StatusSide0Wins, core.StatusSide1Wins, core.StatusDraw, core.StatusSide0Wins}
	for _, status := range statuses {
		wg.Add(1)
		go func(status core.GameStatus) {
			defer wg.Done()
			sm.GameStarted()
			for i := 0; i < 10; i++ {
				sm.TurnResolved()
			}
			sm.GameFinished(status)
		}(status)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		sm.GameStarted()
		sm.GameFailed()
	}()
	wg.Wait()
	sm.Stop()
	sm.Stop()

	m := sm.GetMetrics()
	assert.Equal(t, 0, m.Running)
	assert.Equal(t, 4, m.Finished)
	assert.Equal(t, 1, m.Failed)
	assert.Equal(t, 40, m.Turns)
	assert.Equal(t, 2, m.Side0Wins)
	assert.Equal(t, 1, m.Side1Wins)
	assert.Equal(t, 1, m.Draws)
	assert.GreaterOrEqual(t, m.PeakGoroutines, 1)
	assert.Greater(t, m.Elapsed, time.Duration(0))
}

func TestSimulationMonitor_PeriodicReport(t *testing.T) {
	sm := NewSimulationMonitor(testutil.NopLogger(), time.Millisecond)
	sm.Start()
	sm.GameStarted()
	time.Sleep(5 * time.Millisecond)
	sm.Stop()

	assert.Equal(t, 1, sm.GetMetrics().Running)
}
