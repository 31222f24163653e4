package domain

import "time"

// Event names, used as topics on the bus and as SSE event types.
const (
	EventBiometricsSaved = "biometricsSaved"
	EventPlanUpdated     = "planUpdated"
)

// Event is a change notification published after a successful write.
type Event interface {
	EventName() string
}

// BiometricsSaved is published whenever biometrics are persisted for a day.
type BiometricsSaved struct {
	IsCurrent  bool       `json:"isCurrent"`
	Biometrics Biometrics `json:"biometrics"`
}

func (BiometricsSaved) EventName() string { return EventBiometricsSaved }

// PlanUpdated is published whenever a recomputed plan is persisted.
type PlanUpdated struct {
	Date time.Time `json:"date"`
	Plan Plan      `json:"plan"`
}

func (PlanUpdated) EventName() string { return EventPlanUpdated }

// Publisher is the port to the notification bus. Publishing is fire-and-forget.
type Publisher interface {
	Publish(e Event)
}
