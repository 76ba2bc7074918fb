package registry

import (
	"testing"

	"collabdesk-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry(DefaultAgents())

	agent, ok := reg.Get("roxy")
	assert.True(t, ok)
	assert.Equal(t, "Roxy", agent.DisplayName)
	assert.NotEmpty(t, agent.AccentColor)

	_, ok = reg.Get("nobody")
	assert.False(t, ok)
	assert.False(t, reg.Has("nobody"))
}

func TestRegistryAllOrderedById(t *testing.T) {
	reg := NewRegistry([]entity.Agent{
		{Id: "zeta", Name: "zeta"},
		{Id: "alpha", Name: "alpha"},
		{Id: "mid", Name: "mid"},
	})

	all := reg.All()
	assert.Len(t, all, 3)
	assert.Equal(t, "alpha", all[0].Id)
	assert.Equal(t, "mid", all[1].Id)
	assert.Equal(t, "zeta", all[2].Id)
}

func TestRegistryDuplicateIdLastWins(t *testing.T) {
	reg := NewRegistry([]entity.Agent{
		{Id: "roxy", DisplayName: "First"},
		{Id: "roxy", DisplayName: "Override"},
	})

	assert.Equal(t, 1, reg.Len())
	agent, _ := reg.Get("roxy")
	assert.Equal(t, "Override", agent.DisplayName)
}
