package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"wordchain/internal/domain"
	"wordchain/internal/wordchain"
)

const defaultOracleTimeout = 8 * time.Second

// GameStore persists one active game and a bounded history per user.
type GameStore interface {
	LoadGame(ctx context.Context, userID string) (domain.GameState, bool, error)
	SaveGame(ctx context.Context, userID string, state domain.GameState) error
	ClearGame(ctx context.Context, userID string) error
	// AppendHistory prepends record, keeping domain.MaxHistory entries. It is
	// idempotent on record.GameID.
	AppendHistory(ctx context.Context, userID string, record domain.HistoryRecord) error
	GetHistory(ctx context.Context, userID string) ([]domain.HistoryRecord, error)
	DeleteHistory(ctx context.Context, userID string, index int) (bool, error)
}

// GameFinisher is implemented by stores that can archive a game and store its
// finished state in one atomic write. Other stores get AppendHistory followed
// by SaveGame.
type GameFinisher interface {
	FinishGame(ctx context.Context, userID string, state domain.GameState, record domain.HistoryRecord) error
}

// Oracle produces the opponent's moves.
type Oracle interface {
	ProposeWord(ctx context.Context, usedWords []string, heads []rune, difficulty int) (domain.Proposal, error)
}

// WordValidator checks candidate words against the chaining rules.
type WordValidator interface {
	ValidateHuman(ctx context.Context, candidate string, usedWords []string, previous string) error
	ValidateOpponent(candidate string, usedWords []string, previous string) error
}

// GameService runs word-chain games. A user's requests must be delivered
// sequentially; different users never share state.
type GameService struct {
	store         GameStore
	oracle        Oracle
	validator     WordValidator
	oracleTimeout time.Duration
	log           zerolog.Logger
	now           func() time.Time
}

type Option func(*GameService)

// WithOracleTimeout bounds each oracle call. A call that runs out of time is
// treated like any other oracle failure.
func WithOracleTimeout(d time.Duration) Option {
	return func(s *GameService) {
		if d > 0 {
			s.oracleTimeout = d
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *GameService) {
		s.log = l
	}
}

type MoveInput struct {
	UserID string
	Word   string
}

type MoveOutput struct {
	Events []domain.Event
	State  domain.GameState
}

func NewGameService(store GameStore, oracle Oracle, validator WordValidator, opts ...Option) (*GameService, error) {
	if store == nil {
		return nil, errors.New("usecase: game store must not be nil")
	}
	if oracle == nil {
		return nil, errors.New("usecase: oracle must not be nil")
	}
	if validator == nil {
		return nil, errors.New("usecase: validator must not be nil")
	}
	s := &GameService{
		store:         store,
		oracle:        oracle,
		validator:     validator,
		oracleTimeout: defaultOracleTimeout,
		log:           zerolog.Nop(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Move plays one human turn followed by the opponent's reply.
func (s *GameService) Move(ctx context.Context, in MoveInput) (MoveOutput, error) {
	userID, err := requireUser(in.UserID)
	if err != nil {
		return MoveOutput{}, err
	}
	word := strings.TrimSpace(in.Word)

	state, err := s.loadOrNew(ctx, userID, 0)
	if err != nil {
		return MoveOutput{}, err
	}
	if state.IsGameOver {
		return MoveOutput{State: state}, newError(ErrorGameOver, "game_over", nil)
	}
	log := s.log.With().Str("user", userID).Str("game_id", state.GameID).Logger()

	vctx, cancel := context.WithTimeout(ctx, s.oracleTimeout)
	err = s.validator.ValidateHuman(vctx, word, state.UsedWords, state.LastWord())
	cancel()
	if err != nil {
		verr, ok := wordchain.AsValidationError(err)
		if ok {
			msg := fmt.Sprintf("💔 패배! %s", verr.Message())
			return s.finish(ctx, userID, state, nil, domain.ResultLose, domain.EndHumanInvalidMove, msg)
		}
		if ctx.Err() != nil {
			return MoveOutput{}, newError(ErrorInternal, "request_canceled", ctx.Err())
		}
		log.Warn().Err(err).Str("word", word).Msg("dictionary check unavailable, accepting word")
	}

	state.UsedWords = append(state.UsedWords, word)
	state.Score++
	state.UpdatedAt = s.now()
	events := []domain.Event{
		{Type: domain.EventMove, Player: domain.PlayerHuman, Word: word, Score: state.Score},
		{Type: domain.EventScore, Score: state.Score},
	}
	if err := s.store.SaveGame(ctx, userID, state); err != nil {
		return MoveOutput{}, newError(ErrorInternal, "store_unavailable", err)
	}

	octx, cancel := context.WithTimeout(ctx, s.oracleTimeout)
	proposal, err := s.oracle.ProposeWord(octx, slices.Clone(state.UsedWords), wordchain.AcceptedHeads(word), state.Difficulty)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			// The caller went away; the committed human move stays authoritative.
			return MoveOutput{}, newError(ErrorInternal, "request_canceled", ctx.Err())
		}
		log.Warn().Err(err).Msg("oracle failed to propose a word")
		return s.finish(ctx, userID, state, events, domain.ResultWin, domain.EndOracleFailure, "🎉 AI 오류로 승리!")
	}
	if proposal.Kind == domain.ProposalSurrender {
		return s.finish(ctx, userID, state, events, domain.ResultWin, domain.EndOpponentSurrendered, "🎉 축하합니다! AI가 단어를 찾지 못했습니다!")
	}

	if err := s.validator.ValidateOpponent(proposal.Word, state.UsedWords, word); err != nil {
		reason, msg := opponentFailure(err)
		log.Info().Str("word", proposal.Word).Str("reason", string(reason)).Msg("opponent move rejected")
		return s.finish(ctx, userID, state, events, domain.ResultWin, reason, msg)
	}

	state.UsedWords = append(state.UsedWords, proposal.Word)
	state.UpdatedAt = s.now()
	if err := s.store.SaveGame(ctx, userID, state); err != nil {
		return MoveOutput{}, newError(ErrorInternal, "store_unavailable", err)
	}
	events = append(events, domain.Event{Type: domain.EventMove, Player: domain.PlayerOpponent, Word: proposal.Word, Score: state.Score})
	return MoveOutput{Events: events, State: state}, nil
}

// Resume returns the user's game, creating it on first contact. A difficulty
// of 0 keeps the stored one; other values replace it, clamped to 1..5.
func (s *GameService) Resume(ctx context.Context, userID string, difficulty int) (domain.GameState, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return domain.GameState{}, err
	}
	state, err := s.loadOrNew(ctx, userID, difficulty)
	if err != nil {
		return domain.GameState{}, err
	}
	if difficulty != 0 {
		state.Difficulty = domain.ClampDifficulty(difficulty)
	}
	state.UpdatedAt = s.now()
	if err := s.store.SaveGame(ctx, userID, state); err != nil {
		return domain.GameState{}, newError(ErrorInternal, "store_unavailable", err)
	}
	return state, nil
}

// Restart discards the active game and starts a fresh one. History is kept.
// A difficulty of 0 keeps the previous game's difficulty.
func (s *GameService) Restart(ctx context.Context, userID string, difficulty int) (domain.GameState, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return domain.GameState{}, err
	}
	if difficulty == 0 {
		prev, found, err := s.store.LoadGame(ctx, userID)
		if err != nil {
			return domain.GameState{}, newError(ErrorInternal, "store_unavailable", err)
		}
		if found {
			difficulty = prev.Difficulty
		}
	}
	if err := s.store.ClearGame(ctx, userID); err != nil {
		return domain.GameState{}, newError(ErrorInternal, "store_unavailable", err)
	}
	state := s.newGame(difficulty)
	if err := s.store.SaveGame(ctx, userID, state); err != nil {
		return domain.GameState{}, newError(ErrorInternal, "store_unavailable", err)
	}
	s.log.Info().Str("user", userID).Str("game_id", state.GameID).Int("difficulty", state.Difficulty).Msg("game restarted")
	return state, nil
}

// History lists finished games, newest first.
func (s *GameService) History(ctx context.Context, userID string) ([]domain.HistoryRecord, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	records, err := s.store.GetHistory(ctx, userID)
	if err != nil {
		return nil, newError(ErrorInternal, "store_unavailable", err)
	}
	return records, nil
}

// DeleteHistory removes the history entry at index.
func (s *GameService) DeleteHistory(ctx context.Context, userID string, index int) error {
	userID, err := requireUser(userID)
	if err != nil {
		return err
	}
	found, err := s.store.DeleteHistory(ctx, userID, index)
	if err != nil {
		return newError(ErrorInternal, "store_unavailable", err)
	}
	if !found {
		return newError(ErrorNotFound, "history_not_found", nil)
	}
	return nil
}

// finish ends the game, archiving it before the finished state is stored.
func (s *GameService) finish(ctx context.Context, userID string, state domain.GameState, events []domain.Event, result domain.Result, reason domain.EndReason, msg string) (MoveOutput, error) {
	now := s.now()
	state.IsGameOver = true
	state.Result = result
	state.EndReason = reason
	state.EndMessage = fmt.Sprintf("%s 최종 점수: %d점", msg, state.Score)
	state.UpdatedAt = now
	record := domain.HistoryRecord{
		GameID:      state.GameID,
		Score:       state.Score,
		Difficulty:  state.Difficulty,
		WordsCount:  len(state.UsedWords),
		Words:       slices.Clone(state.UsedWords),
		Result:      result,
		Reason:      reason,
		CompletedAt: now,
	}
	if err := s.storeFinished(ctx, userID, state, record); err != nil {
		return MoveOutput{}, newError(ErrorInternal, "store_unavailable", err)
	}
	s.log.Info().
		Str("user", userID).
		Str("game_id", state.GameID).
		Str("result", string(result)).
		Str("reason", string(reason)).
		Int("score", state.Score).
		Msg("game over")

	events = append(events, domain.Event{
		Type:    domain.EventGameOver,
		Score:   state.Score,
		Result:  result,
		Reason:  reason,
		Message: state.EndMessage,
	})
	return MoveOutput{Events: events, State: state}, nil
}

// storeFinished writes history before the finished state.
func (s *GameService) storeFinished(ctx context.Context, userID string, state domain.GameState, record domain.HistoryRecord) error {
	if f, ok := s.store.(GameFinisher); ok {
		return f.FinishGame(ctx, userID, state, record)
	}
	if err := s.store.AppendHistory(ctx, userID, record); err != nil {
		return err
	}
	return s.store.SaveGame(ctx, userID, state)
}

func (s *GameService) loadOrNew(ctx context.Context, userID string, difficulty int) (domain.GameState, error) {
	state, found, err := s.store.LoadGame(ctx, userID)
	if err != nil {
		return domain.GameState{}, newError(ErrorInternal, "store_unavailable", err)
	}
	if !found {
		return s.newGame(difficulty), nil
	}
	state.Difficulty = domain.ClampDifficulty(state.Difficulty)
	return state, nil
}

func (s *GameService) newGame(difficulty int) domain.GameState {
	return domain.GameState{
		GameID:     newGameID(),
		UsedWords:  []string{},
		Difficulty: domain.ClampDifficulty(difficulty),
		UpdatedAt:  s.now(),
	}
}

func opponentFailure(err error) (domain.EndReason, string) {
	verr, ok := wordchain.AsValidationError(err)
	if !ok {
		return domain.EndOpponentInvalidMove, "🎉 축하합니다! AI가 규칙을 어겼습니다!"
	}
	switch verr.Kind {
	case wordchain.KindSurrendered:
		return domain.EndOpponentSurrendered, "🎉 축하합니다! AI가 단어를 찾지 못했습니다!"
	case wordchain.KindInvalidFormat:
		return domain.EndOpponentInvalidMove, "🎉 축하합니다! AI가 단어를 찾지 못했습니다!"
	case wordchain.KindDuplicateWord:
		return domain.EndOpponentInvalidMove, "🎉 축하합니다! AI가 중복 단어를 말했습니다!"
	default:
		return domain.EndOpponentInvalidMove, "🎉 축하합니다! AI가 규칙을 어겼습니다!"
	}
}

func requireUser(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", newError(ErrorInvalidInput, "empty_user", nil)
	}
	return userID, nil
}

var newGameID = func() string {
	return uuid.NewString()
}
