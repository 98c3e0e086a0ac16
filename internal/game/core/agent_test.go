package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgentIDAndSide(t *testing.T) {
	assert.Equal(t, 0, AgentID(Side0, 0))
	assert.Equal(t, 1, AgentID(Side0, 1))
	assert.Equal(t, 2, AgentID(Side1, 0))
	assert.Equal(t, 3, AgentID(Side1, 1))

	for id := 0; id < AgentCount; id++ {
		assert.Equal(t, Side(id/2), SideOf(id))
	}
	assert.Equal(t, Side1, Side0.Opponent())
	assert.Equal(t, Side0, Side1.Opponent())
	assert.False(t, Side(2).IsValid())
}

func TestDefaultSpawns(t *testing.T) {
	agents := DefaultAgentSpawns(FieldWidth, FieldHeight)
	assert.Equal(t, [AgentCount]Coordinate{{2, 0}, {6, 0}, {6, 8}, {2, 8}}, agents)

	bases := DefaultBaseSpawns(FieldWidth, FieldHeight)
	assert.Equal(t, [SideCount]Coordinate{{4, 0}, {4, 8}}, bases)

	// point symmetric through the centre
	for id := 0; id < TanksPerSide; id++ {
		a := agents[id]
		b := agents[id+TanksPerSide]
		assert.Equal(t, FieldWidth-1-a.X, b.X)
		assert.Equal(t, FieldHeight-1-a.Y, b.Y)
	}
}
