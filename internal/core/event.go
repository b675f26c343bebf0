package core

// EventType identifies an outbound notification from the simulation.
type EventType int

const (
	EventCollect     EventType = iota // Item collected
	EventAbility                      // Ability granted
	EventAchievement                  // Achievement fired this session
	EventDeath                        // Player died
	EventShieldBreak                  // Shield absorbed a deadly hit
	EventPause                        // Pause overlay opened
	EventResume                       // Pause overlay dismissed
	EventGameOver                     // Session finalized
)

// String returns a short name for the event type.
func (t EventType) String() string {
	switch t {
	case EventCollect:
		return "collect"
	case EventAbility:
		return "ability"
	case EventAchievement:
		return "achievement"
	case EventDeath:
		return "death"
	case EventShieldBreak:
		return "shield_break"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	case EventGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Event is a one-shot cue for effects, audio or HUD collaborators.
// The simulation never reads events back.
type Event struct {
	Type  EventType
	Name  string // Item kind, ability or achievement id
	Pos   Vec    // World position the cue refers to, if any
	Value int    // Score awarded, bonus, or final score
}
