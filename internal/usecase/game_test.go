package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wordchain/internal/domain"
	"wordchain/internal/repository"
	"wordchain/internal/wordchain"
)

type proposeCall struct {
	usedWords  []string
	heads      []rune
	difficulty int
}

type mockOracle struct {
	proposals []domain.Proposal
	err       error
	block     bool
	calls     []proposeCall
}

func (m *mockOracle) ProposeWord(ctx context.Context, usedWords []string, heads []rune, difficulty int) (domain.Proposal, error) {
	m.calls = append(m.calls, proposeCall{usedWords: usedWords, heads: heads, difficulty: difficulty})
	if m.block {
		<-ctx.Done()
		return domain.Proposal{}, ctx.Err()
	}
	if m.err != nil {
		return domain.Proposal{}, m.err
	}
	if len(m.proposals) == 0 {
		return domain.Proposal{}, errors.New("no proposal configured")
	}
	p := m.proposals[0]
	m.proposals = m.proposals[1:]
	return p, nil
}

func word(w string) domain.Proposal {
	return domain.Proposal{Kind: domain.ProposalWord, Word: w}
}

type mockDictionary struct {
	invalid map[string]string
	err     error
}

func (m *mockDictionary) CheckWord(_ context.Context, w string) (bool, string, error) {
	if m.err != nil {
		return false, "", m.err
	}
	if reason, ok := m.invalid[w]; ok {
		return false, reason, nil
	}
	return true, "", nil
}

// failingStore wraps Memory and fails selected operations.
type failingStore struct {
	*repository.Memory
	loadErr     error
	saveErr     error
	saveOverErr error // fails only writes of a finished game
	appendErr   error
	historyErr  error
	clearErr    error
}

func (f *failingStore) LoadGame(ctx context.Context, userID string) (domain.GameState, bool, error) {
	if f.loadErr != nil {
		return domain.GameState{}, false, f.loadErr
	}
	return f.Memory.LoadGame(ctx, userID)
}

func (f *failingStore) SaveGame(ctx context.Context, userID string, state domain.GameState) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.saveOverErr != nil && state.IsGameOver {
		return f.saveOverErr
	}
	return f.Memory.SaveGame(ctx, userID, state)
}

func (f *failingStore) AppendHistory(ctx context.Context, userID string, record domain.HistoryRecord) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	return f.Memory.AppendHistory(ctx, userID, record)
}

// atomicStore records FinishGame calls instead of appending and saving.
type atomicStore struct {
	*repository.Memory
	finished []domain.HistoryRecord
}

func (a *atomicStore) AppendHistory(context.Context, string, domain.HistoryRecord) error {
	return errors.New("AppendHistory must not be used when FinishGame is available")
}

func (a *atomicStore) FinishGame(ctx context.Context, userID string, state domain.GameState, record domain.HistoryRecord) error {
	a.finished = append(a.finished, record)
	if err := a.Memory.AppendHistory(ctx, userID, record); err != nil {
		return err
	}
	return a.Memory.SaveGame(ctx, userID, state)
}

// cancelingDictionary cancels the request while the word is being checked.
type cancelingDictionary struct {
	cancel context.CancelFunc
}

func (c *cancelingDictionary) CheckWord(ctx context.Context, _ string) (bool, string, error) {
	c.cancel()
	<-ctx.Done()
	return false, "", ctx.Err()
}

func (f *failingStore) GetHistory(ctx context.Context, userID string) ([]domain.HistoryRecord, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.Memory.GetHistory(ctx, userID)
}

func (f *failingStore) DeleteHistory(ctx context.Context, userID string, index int) (bool, error) {
	if f.historyErr != nil {
		return false, f.historyErr
	}
	return f.Memory.DeleteHistory(ctx, userID, index)
}

func (f *failingStore) ClearGame(ctx context.Context, userID string) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	return f.Memory.ClearGame(ctx, userID)
}

func newTestService(t *testing.T, store GameStore, oracle Oracle, dict wordchain.DictionaryChecker, opts ...Option) *GameService {
	t.Helper()
	svc, err := NewGameService(store, oracle, wordchain.NewValidator(dict), opts...)
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func expectGameError(t *testing.T, err error, code ErrorCode, reason string) {
	t.Helper()
	var usecaseErr *Error
	require.ErrorAs(t, err, &usecaseErr)
	require.Equal(t, code, usecaseErr.Code)
	require.Equal(t, reason, usecaseErr.Reason)
}

func eventTypes(events []domain.Event) []domain.EventType {
	out := make([]domain.EventType, 0, len(events))
	for _, e := range events {
		out = append(out, e.Type)
	}
	return out
}

func move(t *testing.T, svc *GameService, w string) MoveOutput {
	t.Helper()
	out, err := svc.Move(context.Background(), MoveInput{UserID: "kim", Word: w})
	require.NoError(t, err)
	return out
}

func TestNewGameService_ValidatesDependencies(t *testing.T) {
	v := wordchain.NewValidator(nil)
	_, err := NewGameService(nil, &mockOracle{}, v)
	require.Error(t, err)

	_, err = NewGameService(repository.NewMemory(), nil, v)
	require.Error(t, err)

	_, err = NewGameService(repository.NewMemory(), &mockOracle{}, nil)
	require.Error(t, err)
}

func TestMove_HappyPath(t *testing.T) {
	store := repository.NewMemory()
	oracle := &mockOracle{proposals: []domain.Proposal{word("과자"), word("차표")}}
	svc := newTestService(t, store, oracle, &mockDictionary{})

	out := move(t, svc, "  사과 ")
	require.Equal(t, []domain.EventType{domain.EventMove, domain.EventScore, domain.EventMove}, eventTypes(out.Events))
	require.Equal(t, domain.PlayerHuman, out.Events[0].Player)
	require.Equal(t, "사과", out.Events[0].Word)
	require.Equal(t, 1, out.Events[1].Score)
	require.Equal(t, domain.PlayerOpponent, out.Events[2].Player)
	require.Equal(t, "과자", out.Events[2].Word)
	require.Equal(t, []string{"사과", "과자"}, out.State.UsedWords)
	require.Equal(t, 1, out.State.Score)
	require.False(t, out.State.IsGameOver)

	require.Len(t, oracle.calls, 1)
	require.Equal(t, []string{"사과"}, oracle.calls[0].usedWords)
	require.Equal(t, []rune{'과'}, oracle.calls[0].heads)
	require.Equal(t, domain.DefaultDifficulty, oracle.calls[0].difficulty)

	out = move(t, svc, "자동차")
	require.Equal(t, 2, out.State.Score)
	require.Equal(t, []string{"사과", "과자", "자동차", "차표"}, out.State.UsedWords)

	stored, found, err := store.LoadGame(context.Background(), "kim")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, out.State.UsedWords, stored.UsedWords)
	require.Equal(t, 2, stored.Score)
}

func TestMove_ChainMismatchForfeits(t *testing.T) {
	store := repository.NewMemory()
	oracle := &mockOracle{proposals: []domain.Proposal{word("과자")}}
	svc := newTestService(t, store, oracle, nil)

	move(t, svc, "사과")
	out := move(t, svc, "학교")

	require.Equal(t, []domain.EventType{domain.EventGameOver}, eventTypes(out.Events))
	over := out.Events[0]
	require.Equal(t, domain.ResultLose, over.Result)
	require.Equal(t, domain.EndHumanInvalidMove, over.Reason)
	require.Equal(t, 1, over.Score)
	require.Contains(t, over.Message, "'자'(으)로 시작하는")
	require.Contains(t, over.Message, "최종 점수: 1점")

	require.True(t, out.State.IsGameOver)
	require.Equal(t, 1, out.State.Score)
	require.Equal(t, []string{"사과", "과자"}, out.State.UsedWords)
	require.Len(t, oracle.calls, 1)

	hist, err := store.GetHistory(context.Background(), "kim")
	require.NoError(t, err)
	require.Len(t, hist, 1)
	require.Equal(t, domain.ResultLose, hist[0].Result)
	require.Equal(t, 1, hist[0].Score)
	require.Equal(t, 2, hist[0].WordsCount)
	require.Equal(t, out.State.GameID, hist[0].GameID)
}

func TestMove_ScriptedGameFromSagwaToHakgyo(t *testing.T) {
	// the opponent's reply is the word the human then fails to chain from
	oracle := &mockOracle{proposals: []domain.Proposal{word("과일")}}
	svc := newTestService(t, repository.NewMemory(), oracle, nil)

	move(t, svc, "사과")
	out := move(t, svc, "학교")
	require.Equal(t, domain.ResultLose, out.Events[0].Result)
	require.Equal(t, 1, out.State.Score)
}

func TestMove_InvalidHumanWords(t *testing.T) {
	cases := []struct {
		name    string
		word    string
		message string
	}{
		{name: "latin", word: "apple", message: "올바른 한글 단어"},
		{name: "single syllable", word: "가", message: "올바른 한글 단어"},
		{name: "empty", word: "   ", message: "올바른 한글 단어"},
		{name: "not a real word", word: "가닭", message: "사전에 없는 단어입니다: 없는 말"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			oracle := &mockOracle{}
			svc := newTestService(t, repository.NewMemory(), oracle, &mockDictionary{invalid: map[string]string{"가닭": "없는 말"}})
			out := move(t, svc, tc.word)
			require.Len(t, out.Events, 1)
			require.Equal(t, domain.ResultLose, out.Events[0].Result)
			require.Contains(t, out.Events[0].Message, tc.message)
			require.Zero(t, out.State.Score)
			require.Empty(t, oracle.calls)
		})
	}
}

func TestMove_DuplicateWordForfeits(t *testing.T) {
	oracle := &mockOracle{proposals: []domain.Proposal{word("과사")}}
	svc := newTestService(t, repository.NewMemory(), oracle, nil)
	move(t, svc, "사과")
	out := move(t, svc, "사과")
	require.Equal(t, domain.ResultLose, out.Events[0].Result)
	require.Contains(t, out.Events[0].Message, "이미 사용된 단어")
}

func TestMove_DueumAcceptedForHuman(t *testing.T) {
	oracle := &mockOracle{proposals: []domain.Proposal{word("다리"), word("기차")}}
	svc := newTestService(t, repository.NewMemory(), oracle, nil)
	move(t, svc, "바다")
	out := move(t, svc, "이야기")
	require.False(t, out.State.IsGameOver)
	require.Equal(t, 2, out.State.Score)
}

func TestMove_OpponentSurrenders(t *testing.T) {
	store := repository.NewMemory()
	oracle := &mockOracle{proposals: []domain.Proposal{{Kind: domain.ProposalSurrender, Word: wordchain.SurrenderToken}}}
	svc := newTestService(t, store, oracle, nil)

	out := move(t, svc, "사과")
	require.Equal(t, []domain.EventType{domain.EventMove, domain.EventScore, domain.EventGameOver}, eventTypes(out.Events))
	over := out.Events[2]
	require.Equal(t, domain.ResultWin, over.Result)
	require.Equal(t, domain.EndOpponentSurrendered, over.Reason)
	require.Equal(t, 1, over.Score)

	hist, err := store.GetHistory(context.Background(), "kim")
	require.NoError(t, err)
	require.Len(t, hist, 1)
	require.Equal(t, domain.ResultWin, hist[0].Result)
	require.Equal(t, []string{"사과"}, hist[0].Words)
}

func TestMove_OpponentInvalidMoves(t *testing.T) {
	cases := []struct {
		name     string
		proposal domain.Proposal
		reason   domain.EndReason
		message  string
	}{
		{name: "surrender token as word", proposal: word(wordchain.SurrenderToken), reason: domain.EndOpponentSurrendered, message: "단어를 찾지 못했습니다"},
		{name: "not hangul", proposal: word("I give up"), reason: domain.EndOpponentInvalidMove, message: "단어를 찾지 못했습니다"},
		{name: "wrong head", proposal: word("학교"), reason: domain.EndOpponentInvalidMove, message: "규칙을 어겼습니다"},
		{name: "duplicate", proposal: word("사과"), reason: domain.EndOpponentInvalidMove, message: "중복 단어"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(t, repository.NewMemory(), &mockOracle{proposals: []domain.Proposal{tc.proposal}}, nil)
			out := move(t, svc, "사과")
			over := out.Events[len(out.Events)-1]
			require.Equal(t, domain.EventGameOver, over.Type)
			require.Equal(t, domain.ResultWin, over.Result)
			require.Equal(t, tc.reason, over.Reason)
			require.Contains(t, over.Message, tc.message)
			require.Equal(t, []string{"사과"}, out.State.UsedWords)
		})
	}
}

func TestMove_DueumAcceptedForOpponent(t *testing.T) {
	svc := newTestService(t, repository.NewMemory(), &mockOracle{proposals: []domain.Proposal{word("이불")}}, nil)
	out := move(t, svc, "다리")
	require.False(t, out.State.IsGameOver)
	require.Equal(t, []string{"다리", "이불"}, out.State.UsedWords)
}

func TestMove_OracleErrorIsWin(t *testing.T) {
	store := repository.NewMemory()
	svc := newTestService(t, store, &mockOracle{err: errors.New("upstream 500")}, nil)

	out := move(t, svc, "사과")
	over := out.Events[len(out.Events)-1]
	require.Equal(t, domain.ResultWin, over.Result)
	require.Equal(t, domain.EndOracleFailure, over.Reason)
	require.Contains(t, over.Message, "AI 오류로 승리")
	require.True(t, out.State.IsGameOver)
	require.Equal(t, 1, out.State.Score)

	stored, _, err := store.LoadGame(context.Background(), "kim")
	require.NoError(t, err)
	require.True(t, stored.IsGameOver)
	require.Equal(t, 1, stored.Score)

	hist, _ := store.GetHistory(context.Background(), "kim")
	require.Len(t, hist, 1)
}

func TestMove_OracleTimeoutIsWin(t *testing.T) {
	svc := newTestService(t, repository.NewMemory(), &mockOracle{block: true}, nil, WithOracleTimeout(20*time.Millisecond))
	out := move(t, svc, "사과")
	require.Equal(t, domain.EndOracleFailure, out.Events[len(out.Events)-1].Reason)
}

func TestMove_CanceledRequestKeepsHumanMove(t *testing.T) {
	store := repository.NewMemory()
	svc := newTestService(t, store, &mockOracle{block: true}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := svc.Move(ctx, MoveInput{UserID: "kim", Word: "사과"})
	expectGameError(t, err, ErrorInternal, "request_canceled")

	stored, found, err := store.LoadGame(context.Background(), "kim")
	require.NoError(t, err)
	require.True(t, found)
	require.False(t, stored.IsGameOver)
	require.Equal(t, []string{"사과"}, stored.UsedWords)
}

func TestMove_DictionaryUnavailableAcceptsWord(t *testing.T) {
	svc := newTestService(t, repository.NewMemory(), &mockOracle{proposals: []domain.Proposal{word("과자")}}, &mockDictionary{err: errors.New("timeout")})
	out := move(t, svc, "사과")
	require.False(t, out.State.IsGameOver)
	require.Equal(t, 1, out.State.Score)
}

func TestMove_CanceledDuringDictionaryCheckCommitsNothing(t *testing.T) {
	store := repository.NewMemory()
	oracle := &mockOracle{proposals: []domain.Proposal{word("과자")}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc := newTestService(t, store, oracle, &cancelingDictionary{cancel: cancel})

	_, err := svc.Move(ctx, MoveInput{UserID: "kim", Word: "사과"})
	expectGameError(t, err, ErrorInternal, "request_canceled")
	require.Empty(t, oracle.calls)

	_, found, err := store.LoadGame(context.Background(), "kim")
	require.NoError(t, err)
	require.False(t, found)
}

func TestMove_UsesAtomicFinishWhenAvailable(t *testing.T) {
	store := &atomicStore{Memory: repository.NewMemory()}
	svc := newTestService(t, store, &mockOracle{proposals: []domain.Proposal{{Kind: domain.ProposalSurrender}}}, nil)

	out := move(t, svc, "사과")
	require.True(t, out.State.IsGameOver)
	require.Len(t, store.finished, 1)
	require.Equal(t, out.State.GameID, store.finished[0].GameID)

	hist, err := svc.History(context.Background(), "kim")
	require.NoError(t, err)
	require.Len(t, hist, 1)
}

func TestMove_HistoryWrittenBeforeState(t *testing.T) {
	store := &failingStore{Memory: repository.NewMemory(), saveOverErr: errors.New("write failed")}
	svc := newTestService(t, store, &mockOracle{proposals: []domain.Proposal{{Kind: domain.ProposalSurrender}}}, nil)

	_, err := svc.Move(context.Background(), MoveInput{UserID: "kim", Word: "사과"})
	expectGameError(t, err, ErrorInternal, "store_unavailable")

	hist, err := svc.History(context.Background(), "kim")
	require.NoError(t, err)
	require.Len(t, hist, 1)
	stored, found, err := store.LoadGame(context.Background(), "kim")
	require.NoError(t, err)
	require.True(t, found)
	require.False(t, stored.IsGameOver)
}

func TestResume_ReturnsEndMessageOfFinishedGame(t *testing.T) {
	svc := newTestService(t, repository.NewMemory(), &mockOracle{proposals: []domain.Proposal{{Kind: domain.ProposalSurrender}}}, nil)
	out := move(t, svc, "사과")
	over := out.Events[len(out.Events)-1]

	state, err := svc.Resume(context.Background(), "kim", 0)
	require.NoError(t, err)
	require.True(t, state.IsGameOver)
	require.Equal(t, domain.EndOpponentSurrendered, state.EndReason)
	require.Equal(t, over.Message, state.EndMessage)

	fresh, err := svc.Restart(context.Background(), "kim", 0)
	require.NoError(t, err)
	require.Empty(t, fresh.EndMessage)
	require.Empty(t, fresh.EndReason)
}

func TestMove_AfterGameOver(t *testing.T) {
	svc := newTestService(t, repository.NewMemory(), &mockOracle{}, nil)
	move(t, svc, "a")

	out, err := svc.Move(context.Background(), MoveInput{UserID: "kim", Word: "사과"})
	expectGameError(t, err, ErrorGameOver, "game_over")
	require.True(t, out.State.IsGameOver)
}

func TestMove_EmptyUser(t *testing.T) {
	svc := newTestService(t, repository.NewMemory(), &mockOracle{}, nil)
	_, err := svc.Move(context.Background(), MoveInput{UserID: " ", Word: "사과"})
	expectGameError(t, err, ErrorInvalidInput, "empty_user")
}

func TestMove_StoreErrors(t *testing.T) {
	store := &failingStore{Memory: repository.NewMemory(), loadErr: errors.New("dynamodb down")}
	svc := newTestService(t, store, &mockOracle{proposals: []domain.Proposal{word("과자")}}, nil)
	_, err := svc.Move(context.Background(), MoveInput{UserID: "kim", Word: "사과"})
	expectGameError(t, err, ErrorInternal, "store_unavailable")

	store = &failingStore{Memory: repository.NewMemory(), saveErr: errors.New("write failed")}
	oracle := &mockOracle{proposals: []domain.Proposal{word("과자")}}
	svc = newTestService(t, store, oracle, nil)
	_, err = svc.Move(context.Background(), MoveInput{UserID: "kim", Word: "사과"})
	expectGameError(t, err, ErrorInternal, "store_unavailable")
	require.Empty(t, oracle.calls)

	store = &failingStore{Memory: repository.NewMemory(), appendErr: errors.New("history write failed")}
	svc = newTestService(t, store, &mockOracle{}, nil)
	_, err = svc.Move(context.Background(), MoveInput{UserID: "kim", Word: "a"})
	expectGameError(t, err, ErrorInternal, "store_unavailable")
	_, found, _ := store.Memory.LoadGame(context.Background(), "kim")
	require.False(t, found)
}

func TestMove_DifficultyForwardedToOracle(t *testing.T) {
	oracle := &mockOracle{proposals: []domain.Proposal{word("과자")}}
	svc := newTestService(t, repository.NewMemory(), oracle, nil)
	_, err := svc.Resume(context.Background(), "kim", 5)
	require.NoError(t, err)

	move(t, svc, "사과")
	require.Equal(t, 5, oracle.calls[0].difficulty)
}

func TestResume(t *testing.T) {
	store := repository.NewMemory()
	svc := newTestService(t, store, &mockOracle{}, nil)

	state, err := svc.Resume(context.Background(), "kim", 0)
	require.NoError(t, err)
	require.NotEmpty(t, state.GameID)
	require.Equal(t, domain.DefaultDifficulty, state.Difficulty)
	require.Empty(t, state.UsedWords)

	again, err := svc.Resume(context.Background(), "kim", 4)
	require.NoError(t, err)
	require.Equal(t, state.GameID, again.GameID)
	require.Equal(t, 4, again.Difficulty)

	clamped, err := svc.Resume(context.Background(), "kim", 9)
	require.NoError(t, err)
	require.Equal(t, domain.DefaultDifficulty, clamped.Difficulty)
}

func TestRestart_AfterGameOverKeepsHistory(t *testing.T) {
	store := repository.NewMemory()
	svc := newTestService(t, store, &mockOracle{proposals: []domain.Proposal{{Kind: domain.ProposalSurrender}}}, nil)
	_, err := svc.Resume(context.Background(), "kim", 2)
	require.NoError(t, err)

	over := move(t, svc, "사과")
	require.True(t, over.State.IsGameOver)

	fresh, err := svc.Restart(context.Background(), "kim", 0)
	require.NoError(t, err)
	require.False(t, fresh.IsGameOver)
	require.Empty(t, fresh.UsedWords)
	require.Zero(t, fresh.Score)
	require.Equal(t, 2, fresh.Difficulty)
	require.NotEqual(t, over.State.GameID, fresh.GameID)

	hist, err := svc.History(context.Background(), "kim")
	require.NoError(t, err)
	require.Len(t, hist, 1)
	require.Equal(t, over.State.GameID, hist[0].GameID)

	fresh, err = svc.Restart(context.Background(), "kim", 5)
	require.NoError(t, err)
	require.Equal(t, 5, fresh.Difficulty)
	hist, _ = svc.History(context.Background(), "kim")
	require.Len(t, hist, 1)
}

func TestRestart_StoreErrors(t *testing.T) {
	store := &failingStore{Memory: repository.NewMemory(), clearErr: errors.New("boom")}
	svc := newTestService(t, store, &mockOracle{}, nil)
	_, err := svc.Restart(context.Background(), "kim", 3)
	expectGameError(t, err, ErrorInternal, "store_unavailable")
}

func TestHistory_CappedNewestFirst(t *testing.T) {
	store := repository.NewMemory()
	ids := []string{}
	oracle := &mockOracle{err: errors.New("down")}
	svc := newTestService(t, store, oracle, nil)
	t.Cleanup(func() { newGameID = defaultGameID })

	for i := 0; i < domain.MaxHistory+2; i++ {
		n := i
		newGameID = func() string { return fmt.Sprintf("g-%d", n) }
		_, err := svc.Restart(context.Background(), "kim", 3)
		require.NoError(t, err)
		move(t, svc, "사과")
		ids = append(ids, fmt.Sprintf("g-%d", n))
	}

	hist, err := svc.History(context.Background(), "kim")
	require.NoError(t, err)
	require.Len(t, hist, domain.MaxHistory)
	require.Equal(t, ids[len(ids)-1], hist[0].GameID)
	require.Equal(t, ids[2], hist[domain.MaxHistory-1].GameID)
}

func TestDeleteHistory(t *testing.T) {
	store := repository.NewMemory()
	svc := newTestService(t, store, &mockOracle{err: errors.New("down")}, nil)
	move(t, svc, "사과")

	err := svc.DeleteHistory(context.Background(), "kim", 1)
	expectGameError(t, err, ErrorNotFound, "history_not_found")

	require.NoError(t, svc.DeleteHistory(context.Background(), "kim", 0))
	hist, err := svc.History(context.Background(), "kim")
	require.NoError(t, err)
	require.Empty(t, hist)
}

func TestHistory_StoreError(t *testing.T) {
	store := &failingStore{Memory: repository.NewMemory(), historyErr: errors.New("boom")}
	svc := newTestService(t, store, &mockOracle{}, nil)
	_, err := svc.History(context.Background(), "kim")
	expectGameError(t, err, ErrorInternal, "store_unavailable")

	err = svc.DeleteHistory(context.Background(), "kim", 0)
	expectGameError(t, err, ErrorInternal, "store_unavailable")
}

var defaultGameID = newGameID
