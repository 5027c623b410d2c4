package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"wordchain/internal/domain"
)

const (
	skGame      = "GAME#"
	skHistory   = "HISTORY#"
	ttlDuration = 30 * 24 * time.Hour // 30-day TTL on the active game
)

// dynamodbAPI is the minimal DynamoDB interface required by Client.
// Defined here for testability.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Client stores word-chain games in a single DynamoDB table. Each user owns
// one partition holding the active game item and the history item.
//
// Writes are last-writer-wins: two concurrent requests for the same user can
// lose an update.
type Client struct {
	api       dynamodbAPI
	tableName string
	now       func() time.Time
}

// New creates a new repository Client.
func New(api dynamodbAPI, tableName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Client{api: api, tableName: tableName, now: time.Now}, nil
}

// userPK returns the DynamoDB partition key for a user.
func userPK(userID string) string {
	return "USER#" + userID
}

func (c *Client) key(userID, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}
}

func (c *Client) ttlValue() int64 {
	return c.now().Add(ttlDuration).Unix()
}

// LoadGame reads the active game. found is false when the user has none.
func (c *Client) LoadGame(ctx context.Context, userID string) (domain.GameState, bool, error) {
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(c.tableName),
		Key:            c.key(userID, skGame),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return domain.GameState{}, false, fmt.Errorf("repository: LoadGame get item: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return domain.GameState{}, false, nil
	}
	state, err := itemToGame(out.Item)
	if err != nil {
		return domain.GameState{}, false, fmt.Errorf("repository: LoadGame decode: %w", err)
	}
	return state, true, nil
}

// SaveGame writes or replaces the active game.
func (c *Client) SaveGame(ctx context.Context, userID string, state domain.GameState) error {
	if strings.TrimSpace(userID) == "" {
		return errors.New("repository: SaveGame: user is required")
	}
	_, err := c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item:      c.gameItem(userID, state),
	})
	if err != nil {
		return fmt.Errorf("repository: SaveGame: %w", err)
	}
	return nil
}

// ClearGame deletes the active game. Archived history is left untouched.
func (c *Client) ClearGame(ctx context.Context, userID string) error {
	_, err := c.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(c.tableName),
		Key:       c.key(userID, skGame),
	})
	if err != nil {
		return fmt.Errorf("repository: ClearGame: %w", err)
	}
	return nil
}

// GetHistory returns the finished games, newest first.
func (c *Client) GetHistory(ctx context.Context, userID string) ([]domain.HistoryRecord, error) {
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(c.tableName),
		Key:            c.key(userID, skHistory),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("repository: GetHistory get item: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return []domain.HistoryRecord{}, nil
	}
	records, err := itemToHistory(out.Item)
	if err != nil {
		return nil, fmt.Errorf("repository: GetHistory decode: %w", err)
	}
	return records, nil
}

// AppendHistory prepends record and evicts beyond domain.MaxHistory. A record
// whose GameID is already the newest entry is not added twice.
func (c *Client) AppendHistory(ctx context.Context, userID string, record domain.HistoryRecord) error {
	records, err := c.GetHistory(ctx, userID)
	if err != nil {
		return fmt.Errorf("repository: AppendHistory: %w", err)
	}
	records, changed := prependHistory(records, record)
	if !changed {
		return nil
	}
	if err := c.putHistory(ctx, userID, records); err != nil {
		return fmt.Errorf("repository: AppendHistory: %w", err)
	}
	return nil
}

// FinishGame archives record and stores the finished state in one transaction.
func (c *Client) FinishGame(ctx context.Context, userID string, state domain.GameState, record domain.HistoryRecord) error {
	if strings.TrimSpace(userID) == "" {
		return errors.New("repository: FinishGame: user is required")
	}
	records, err := c.GetHistory(ctx, userID)
	if err != nil {
		return fmt.Errorf("repository: FinishGame: %w", err)
	}
	records, _ = prependHistory(records, record)

	_, err = c.api.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName: aws.String(c.tableName),
					Item:      c.historyItem(userID, records),
				},
			},
			{
				Put: &types.Put{
					TableName: aws.String(c.tableName),
					Item:      c.gameItem(userID, state),
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("repository: FinishGame: %w", err)
	}
	return nil
}

// DeleteHistory removes the entry at index. found is false when index is out
// of range.
func (c *Client) DeleteHistory(ctx context.Context, userID string, index int) (bool, error) {
	records, err := c.GetHistory(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("repository: DeleteHistory: %w", err)
	}
	if index < 0 || index >= len(records) {
		return false, nil
	}
	records = append(records[:index], records[index+1:]...)
	if err := c.putHistory(ctx, userID, records); err != nil {
		return false, fmt.Errorf("repository: DeleteHistory: %w", err)
	}
	return true, nil
}

func (c *Client) putHistory(ctx context.Context, userID string, records []domain.HistoryRecord) error {
	_, err := c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item:      c.historyItem(userID, records),
	})
	return err
}

// prependHistory returns records with record in front, capped at
// domain.MaxHistory. changed is false when record is already the newest entry.
func prependHistory(records []domain.HistoryRecord, record domain.HistoryRecord) ([]domain.HistoryRecord, bool) {
	if record.GameID != "" && len(records) > 0 && records[0].GameID == record.GameID {
		return records, false
	}
	out := make([]domain.HistoryRecord, 0, min(len(records)+1, domain.MaxHistory))
	out = append(out, record)
	for _, r := range records {
		if len(out) == domain.MaxHistory {
			break
		}
		out = append(out, r)
	}
	return out, true
}

func (c *Client) gameItem(userID string, g domain.GameState) map[string]types.AttributeValue {
	updated := g.UpdatedAt
	if updated.IsZero() {
		updated = c.now()
	}
	item := c.key(userID, skGame)
	item["userId"] = &types.AttributeValueMemberS{Value: userID}
	item["gameId"] = &types.AttributeValueMemberS{Value: g.GameID}
	item["usedWords"] = stringList(g.UsedWords)
	item["score"] = numberAttr(g.Score)
	item["difficulty"] = numberAttr(g.Difficulty)
	item["isGameOver"] = &types.AttributeValueMemberBOOL{Value: g.IsGameOver}
	item["result"] = &types.AttributeValueMemberS{Value: string(g.Result)}
	item["endReason"] = &types.AttributeValueMemberS{Value: string(g.EndReason)}
	item["endMessage"] = &types.AttributeValueMemberS{Value: g.EndMessage}
	item["updatedAt"] = &types.AttributeValueMemberS{Value: updated.UTC().Format(time.RFC3339Nano)}
	item["ttl"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(c.ttlValue(), 10)}
	return item
}

func (c *Client) historyItem(userID string, records []domain.HistoryRecord) map[string]types.AttributeValue {
	list := make([]types.AttributeValue, 0, len(records))
	for _, r := range records {
		list = append(list, &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
			"gameId":      &types.AttributeValueMemberS{Value: r.GameID},
			"score":       numberAttr(r.Score),
			"difficulty":  numberAttr(r.Difficulty),
			"wordsCount":  numberAttr(r.WordsCount),
			"words":       stringList(r.Words),
			"result":      &types.AttributeValueMemberS{Value: string(r.Result)},
			"reason":      &types.AttributeValueMemberS{Value: string(r.Reason)},
			"completedAt": &types.AttributeValueMemberS{Value: r.CompletedAt.UTC().Format(time.RFC3339Nano)},
		}})
	}
	item := c.key(userID, skHistory)
	item["userId"] = &types.AttributeValueMemberS{Value: userID}
	item["records"] = &types.AttributeValueMemberL{Value: list}
	item["updatedAt"] = &types.AttributeValueMemberS{Value: c.now().UTC().Format(time.RFC3339Nano)}
	return item
}

// itemToGame converts a DynamoDB attribute map to a GameState.
func itemToGame(item map[string]types.AttributeValue) (domain.GameState, error) {
	gameID, err := strAttr(item, "gameId")
	if err != nil {
		return domain.GameState{}, err
	}
	words, err := listAttr(item, "usedWords")
	if err != nil {
		return domain.GameState{}, err
	}
	score, err := intAttr(item, "score")
	if err != nil {
		return domain.GameState{}, err
	}
	difficulty, err := intAttr(item, "difficulty")
	if err != nil {
		return domain.GameState{}, err
	}
	over, err := boolAttr(item, "isGameOver")
	if err != nil {
		return domain.GameState{}, err
	}
	result, _ := strAttr(item, "result") // empty while active
	endReason, _ := strAttr(item, "endReason")
	endMessage, _ := strAttr(item, "endMessage")
	updated, _ := timeAttr(item, "updatedAt")

	return domain.GameState{
		GameID:     gameID,
		UsedWords:  words,
		Score:      score,
		Difficulty: difficulty,
		IsGameOver: over,
		Result:     domain.Result(result),
		EndReason:  domain.EndReason(endReason),
		EndMessage: endMessage,
		UpdatedAt:  updated,
	}, nil
}

func itemToHistory(item map[string]types.AttributeValue) ([]domain.HistoryRecord, error) {
	v, ok := item["records"]
	if !ok {
		return []domain.HistoryRecord{}, nil
	}
	l, ok := v.(*types.AttributeValueMemberL)
	if !ok {
		return nil, errors.New("repository: attribute \"records\" is not a list")
	}
	records := make([]domain.HistoryRecord, 0, len(l.Value))
	for i, entry := range l.Value {
		m, ok := entry.(*types.AttributeValueMemberM)
		if !ok {
			return nil, fmt.Errorf("repository: history entry %d is not a map", i)
		}
		r, err := itemToRecord(m.Value)
		if err != nil {
			return nil, fmt.Errorf("repository: history entry %d: %w", i, err)
		}
		records = append(records, r)
	}
	return records, nil
}

func itemToRecord(m map[string]types.AttributeValue) (domain.HistoryRecord, error) {
	gameID, _ := strAttr(m, "gameId")
	score, err := intAttr(m, "score")
	if err != nil {
		return domain.HistoryRecord{}, err
	}
	difficulty, err := intAttr(m, "difficulty")
	if err != nil {
		return domain.HistoryRecord{}, err
	}
	words, err := listAttr(m, "words")
	if err != nil {
		return domain.HistoryRecord{}, err
	}
	count, err := intAttr(m, "wordsCount")
	if err != nil {
		count = len(words)
	}
	result, err := strAttr(m, "result")
	if err != nil {
		return domain.HistoryRecord{}, err
	}
	reason, _ := strAttr(m, "reason")
	completed, err := timeAttr(m, "completedAt")
	if err != nil {
		return domain.HistoryRecord{}, err
	}
	return domain.HistoryRecord{
		GameID:      gameID,
		Score:       score,
		Difficulty:  difficulty,
		WordsCount:  count,
		Words:       words,
		Result:      domain.Result(result),
		Reason:      domain.EndReason(reason),
		CompletedAt: completed,
	}, nil
}

func numberAttr(n int) *types.AttributeValueMemberN {
	return &types.AttributeValueMemberN{Value: strconv.Itoa(n)}
}

// stringList encodes words as a list; DynamoDB string sets cannot be empty or ordered.
func stringList(words []string) *types.AttributeValueMemberL {
	list := make([]types.AttributeValue, 0, len(words))
	for _, w := range words {
		list = append(list, &types.AttributeValueMemberS{Value: w})
	}
	return &types.AttributeValueMemberL{Value: list}
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}

func intAttr(item map[string]types.AttributeValue, key string) (int, error) {
	v, ok := item[key]
	if !ok {
		return 0, fmt.Errorf("repository: missing attribute %q", key)
	}
	n, ok := v.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("repository: attribute %q is not a number", key)
	}
	parsed, err := strconv.Atoi(n.Value)
	if err != nil {
		return 0, fmt.Errorf("repository: parse attribute %q: %w", key, err)
	}
	return parsed, nil
}

func boolAttr(item map[string]types.AttributeValue, key string) (bool, error) {
	v, ok := item[key]
	if !ok {
		return false, fmt.Errorf("repository: missing attribute %q", key)
	}
	b, ok := v.(*types.AttributeValueMemberBOOL)
	if !ok {
		return false, fmt.Errorf("repository: attribute %q is not a bool", key)
	}
	return b.Value, nil
}

func listAttr(item map[string]types.AttributeValue, key string) ([]string, error) {
	v, ok := item[key]
	if !ok {
		return []string{}, nil
	}
	l, ok := v.(*types.AttributeValueMemberL)
	if !ok {
		return nil, fmt.Errorf("repository: attribute %q is not a list", key)
	}
	out := make([]string, 0, len(l.Value))
	for _, e := range l.Value {
		s, ok := e.(*types.AttributeValueMemberS)
		if !ok {
			return nil, fmt.Errorf("repository: attribute %q holds a non-string", key)
		}
		out = append(out, s.Value)
	}
	return out, nil
}

func timeAttr(item map[string]types.AttributeValue, key string) (time.Time, error) {
	s, err := strAttr(item, key)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("repository: parse attribute %q: %w", key, err)
	}
	return t, nil
}
