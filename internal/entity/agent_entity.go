package entity

// Agent is an immutable catalog entry describing a registry-known
// participant. The set of agents is fixed at process start.
type Agent struct {
	Id          string
	Name        string
	DisplayName string
	AccentColor string
}

// SenderUser is the reserved sender id for human-originated messages.
// It is never a registry member.
const SenderUser = "user"
