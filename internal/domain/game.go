package domain

import "time"

const (
	MinDifficulty     = 1
	MaxDifficulty     = 5
	DefaultDifficulty = 3

	// MaxHistory is the number of finished games kept per user.
	MaxHistory = 20
)

// Result is the outcome of a finished game from the human player's side.
type Result string

const (
	ResultWin  Result = "win"
	ResultLose Result = "lose"
)

// EndReason records why a game ended.
type EndReason string

const (
	EndHumanInvalidMove    EndReason = "human_invalid_move"
	EndOpponentSurrendered EndReason = "opponent_surrendered"
	EndOpponentInvalidMove EndReason = "opponent_invalid_move"
	EndOracleFailure       EndReason = "oracle_failure"
)

// GameState is the single active game of a user.
type GameState struct {
	GameID     string
	UsedWords  []string
	Score      int
	Difficulty int
	IsGameOver bool
	Result     Result
	// EndReason and EndMessage describe how a finished game ended, so a
	// reconnecting client can show the final message again.
	EndReason  EndReason
	EndMessage string
	UpdatedAt  time.Time
}

// LastWord returns the most recently played word, or "" for a fresh game.
func (g GameState) LastWord() string {
	if len(g.UsedWords) == 0 {
		return ""
	}
	return g.UsedWords[len(g.UsedWords)-1]
}

// HistoryRecord summarizes a finished game.
type HistoryRecord struct {
	GameID      string
	Score       int
	Difficulty  int
	WordsCount  int
	Words       []string
	Result      Result
	Reason      EndReason
	CompletedAt time.Time
}

// ClampDifficulty maps out-of-range values to DefaultDifficulty.
func ClampDifficulty(d int) int {
	if d < MinDifficulty || d > MaxDifficulty {
		return DefaultDifficulty
	}
	return d
}

var difficultyNames = map[int]string{
	1: "아주 쉬움",
	2: "쉬움",
	3: "보통",
	4: "어려움",
	5: "전문가",
}

// DifficultyName returns the display name of a difficulty level.
func DifficultyName(d int) string {
	return difficultyNames[ClampDifficulty(d)]
}
