package domain

// EventType identifies an entry of a turn's output.
type EventType string

const (
	EventMove     EventType = "move"
	EventScore    EventType = "score"
	EventGameOver EventType = "game_over"
)

// Player identifies who played a move.
type Player string

const (
	PlayerHuman    Player = "human"
	PlayerOpponent Player = "opponent"
)

// Event is one transport-agnostic output of a turn, emitted in order.
type Event struct {
	Type    EventType `json:"type"`
	Player  Player    `json:"player,omitempty"`
	Word    string    `json:"word,omitempty"`
	Score   int       `json:"score"`
	Result  Result    `json:"result,omitempty"`
	Reason  EndReason `json:"reason,omitempty"`
	Message string    `json:"message,omitempty"`
}
