package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"wordchain/internal/domain"
	"wordchain/internal/usecase"
)

const correlationHeader = "X-Correlation-Id"

// API Gateway resources served by Handle.
const (
	resourceGame          = "/wordchain/{user}"
	resourceMove          = "/wordchain/{user}/move"
	resourceRestart       = "/wordchain/{user}/restart"
	resourceHistory       = "/wordchain/{user}/history"
	resourceHistoryRecord = "/wordchain/{user}/history/{index}"
)

// GameUseCase is the game surface consumed by the handler.
type GameUseCase interface {
	Move(ctx context.Context, in usecase.MoveInput) (usecase.MoveOutput, error)
	Resume(ctx context.Context, userID string, difficulty int) (domain.GameState, error)
	Restart(ctx context.Context, userID string, difficulty int) (domain.GameState, error)
	History(ctx context.Context, userID string) ([]domain.HistoryRecord, error)
	DeleteHistory(ctx context.Context, userID string, index int) error
}

type Handler struct {
	uc  GameUseCase
	log zerolog.Logger
}

type Option func(*Handler)

func WithLogger(l zerolog.Logger) Option {
	return func(h *Handler) {
		h.log = l
	}
}

func NewHandler(uc GameUseCase, opts ...Option) (*Handler, error) {
	if uc == nil {
		return nil, errors.New("handler: use case must not be nil")
	}
	h := &Handler{uc: uc, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

type moveRequest struct {
	Word string `json:"word"`
}

type restartRequest struct {
	Difficulty int `json:"difficulty"`
}

type stateResponse struct {
	GameID         string   `json:"gameId"`
	UsedWords      []string `json:"usedWords"`
	Score          int      `json:"score"`
	Difficulty     int      `json:"difficulty"`
	DifficultyName string   `json:"difficultyName"`
	IsGameOver     bool     `json:"isGameOver"`
	Result         string   `json:"result,omitempty"`
	EndReason      string   `json:"endReason,omitempty"`
	EndMessage     string   `json:"endMessage,omitempty"`
}

type moveResponse struct {
	Events []domain.Event `json:"events"`
	State  stateResponse  `json:"state"`
}

type historyEntry struct {
	GameID      string   `json:"gameId"`
	Score       int      `json:"score"`
	Difficulty  int      `json:"difficulty"`
	WordsCount  int      `json:"wordsCount"`
	Words       []string `json:"words"`
	Result      string   `json:"result"`
	Reason      string   `json:"reason"`
	CompletedAt string   `json:"completedAt"`
}

type historyResponse struct {
	History []historyEntry `json:"history"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

// Handle serves API Gateway proxy requests for the word-chain game.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	corrID := headerValue(req.Headers, correlationHeader)
	if corrID == "" {
		corrID = uuid.NewString()
	}
	log := h.log.With().Str("correlation_id", corrID).Str("resource", req.Resource).Logger()

	userID := req.PathParameters["user"]
	var (
		body any
		err  error
	)
	switch req.HTTPMethod + " " + req.Resource {
	case http.MethodPost + " " + resourceMove:
		body, err = h.move(ctx, userID, req)
	case http.MethodGet + " " + resourceGame:
		body, err = h.resume(ctx, userID, req)
	case http.MethodPost + " " + resourceRestart:
		body, err = h.restart(ctx, userID, req)
	case http.MethodGet + " " + resourceHistory:
		body, err = h.history(ctx, userID)
	case http.MethodDelete + " " + resourceHistoryRecord:
		body, err = h.deleteHistory(ctx, userID, req)
	default:
		err = &usecase.Error{Code: usecase.ErrorNotFound, Reason: "route_not_found"}
	}
	if err != nil {
		return errorResult(log, corrID, err), nil
	}
	return jsonResponse(http.StatusOK, corrID, body), nil
}

func (h *Handler) move(ctx context.Context, userID string, req events.APIGatewayProxyRequest) (any, error) {
	var in moveRequest
	if err := decodeBody(req, &in, false); err != nil {
		return nil, err
	}
	out, err := h.uc.Move(ctx, usecase.MoveInput{UserID: userID, Word: in.Word})
	if err != nil {
		return nil, err
	}
	evts := out.Events
	if evts == nil {
		evts = []domain.Event{}
	}
	return moveResponse{Events: evts, State: toStateResponse(out.State)}, nil
}

func (h *Handler) resume(ctx context.Context, userID string, req events.APIGatewayProxyRequest) (any, error) {
	difficulty := 0
	if raw := strings.TrimSpace(req.QueryStringParameters["difficulty"]); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &usecase.Error{Code: usecase.ErrorInvalidInput, Reason: "invalid_difficulty", Err: err}
		}
		difficulty = d
	}
	state, err := h.uc.Resume(ctx, userID, difficulty)
	if err != nil {
		return nil, err
	}
	return toStateResponse(state), nil
}

func (h *Handler) restart(ctx context.Context, userID string, req events.APIGatewayProxyRequest) (any, error) {
	var in restartRequest
	if err := decodeBody(req, &in, true); err != nil {
		return nil, err
	}
	state, err := h.uc.Restart(ctx, userID, in.Difficulty)
	if err != nil {
		return nil, err
	}
	return toStateResponse(state), nil
}

func (h *Handler) history(ctx context.Context, userID string) (any, error) {
	records, err := h.uc.History(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := historyResponse{History: make([]historyEntry, 0, len(records))}
	for _, r := range records {
		resp.History = append(resp.History, historyEntry{
			GameID:      r.GameID,
			Score:       r.Score,
			Difficulty:  r.Difficulty,
			WordsCount:  r.WordsCount,
			Words:       r.Words,
			Result:      string(r.Result),
			Reason:      string(r.Reason),
			CompletedAt: r.CompletedAt.UTC().Format(time.RFC3339),
		})
	}
	return resp, nil
}

func (h *Handler) deleteHistory(ctx context.Context, userID string, req events.APIGatewayProxyRequest) (any, error) {
	index, err := strconv.Atoi(req.PathParameters["index"])
	if err != nil {
		return nil, &usecase.Error{Code: usecase.ErrorInvalidInput, Reason: "invalid_index", Err: err}
	}
	if err := h.uc.DeleteHistory(ctx, userID, index); err != nil {
		return nil, err
	}
	return map[string]bool{"deleted": true}, nil
}

// decodeBody unmarshals the request body into v. An empty body is accepted
// only when optional is set.
func decodeBody(req events.APIGatewayProxyRequest, v any, optional bool) error {
	raw := req.Body
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return &usecase.Error{Code: usecase.ErrorInvalidInput, Reason: "invalid_body", Err: err}
		}
		raw = string(decoded)
	}
	if strings.TrimSpace(raw) == "" {
		if optional {
			return nil
		}
		return &usecase.Error{Code: usecase.ErrorInvalidInput, Reason: "empty_body"}
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return &usecase.Error{Code: usecase.ErrorInvalidInput, Reason: "invalid_body", Err: err}
	}
	return nil
}

func toStateResponse(s domain.GameState) stateResponse {
	used := s.UsedWords
	if used == nil {
		used = []string{}
	}
	return stateResponse{
		GameID:         s.GameID,
		UsedWords:      used,
		Score:          s.Score,
		Difficulty:     s.Difficulty,
		DifficultyName: domain.DifficultyName(s.Difficulty),
		IsGameOver:     s.IsGameOver,
		Result:         string(s.Result),
		EndReason:      string(s.EndReason),
		EndMessage:     s.EndMessage,
	}
}

func errorResult(log zerolog.Logger, corrID string, err error) events.APIGatewayProxyResponse {
	var ucErr *usecase.Error
	if !errors.As(err, &ucErr) {
		ucErr = &usecase.Error{Code: usecase.ErrorInternal, Reason: "unexpected_error", Err: err}
	}

	status, message := http.StatusInternalServerError, "일시적인 오류가 발생했습니다. 잠시 후 다시 시도하세요."
	switch ucErr.Code {
	case usecase.ErrorInvalidInput:
		status, message = http.StatusBadRequest, "잘못된 요청입니다."
	case usecase.ErrorGameOver:
		status, message = http.StatusConflict, "게임이 끝났습니다. 다시 시작하려면 재시작하세요."
	case usecase.ErrorNotFound:
		status, message = http.StatusNotFound, "요청한 항목을 찾을 수 없습니다."
	}

	evt := log.Info()
	if status >= http.StatusInternalServerError {
		evt = log.Error()
	}
	evt.Err(err).Str("code", string(ucErr.Code)).Str("reason", ucErr.Reason).Int("status", status).Msg("request failed")

	return jsonResponse(status, corrID, errorResponse{
		Error:   string(ucErr.Code),
		Reason:  ucErr.Reason,
		Message: message,
	})
}

func jsonResponse(status int, corrID string, body any) events.APIGatewayProxyResponse {
	payload, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		payload = []byte(`{"error":"INTERNAL_ERROR","message":"response encoding failed"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":    "application/json; charset=utf-8",
			correlationHeader: corrID,
		},
		Body: string(payload),
	}
}

// headerValue looks up a header case-insensitively.
func headerValue(headers map[string]string, key string) string {
	if v, ok := headers[key]; ok {
		return strings.TrimSpace(v)
	}
	for k, v := range headers {
		if strings.EqualFold(k, key) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
