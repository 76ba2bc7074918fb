package registry

import "collabdesk-be/internal/entity"

// DefaultAgents is the static catalog the process ships with. Adding an
// agent requires a redeploy, not a runtime call.
func DefaultAgents() []entity.Agent {
	return []entity.Agent{
		{Id: "roxy", Name: "roxy", DisplayName: "Roxy", AccentColor: "#E91E63"},
		{Id: "atlas", Name: "atlas", DisplayName: "Atlas", AccentColor: "#3F51B5"},
		{Id: "sage", Name: "sage", DisplayName: "Sage", AccentColor: "#4CAF50"},
		{Id: "quill", Name: "quill", DisplayName: "Quill", AccentColor: "#FF9800"},
		{Id: "scout", Name: "scout", DisplayName: "Scout", AccentColor: "#00BCD4"},
		{Id: "ledger", Name: "ledger", DisplayName: "Ledger", AccentColor: "#795548"},
		{Id: "muse", Name: "muse", DisplayName: "Muse", AccentColor: "#9C27B0"},
		{Id: "relay", Name: "relay", DisplayName: "Relay", AccentColor: "#607D8B"},
	}
}
