package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"wordchain/internal/domain"
	"wordchain/internal/wordchain"
)

const moveMaxTokens = 50

// LLMClient is the chat completions capability the opponent needs.
type LLMClient interface {
	Chat(ctx context.Context, in domain.ChatRequest) (string, error)
}

// ParamReader loads configuration parameters in one batch.
type ParamReader interface {
	GetParameters(ctx context.Context, names ...string) (map[string]string, error)
}

// Opponent proposes moves and referees human words through an LLM.
// The model names are read from the parameter store on first use.
type Opponent struct {
	llm         LLMClient
	params      ParamReader
	paramPrefix string

	cacheMu     sync.RWMutex
	cacheLoaded bool
	moveModel   string
	verifyModel string
}

func NewOpponent(llm LLMClient, params ParamReader, paramPrefix string) (*Opponent, error) {
	if llm == nil {
		return nil, errors.New("oracle: llm client must not be nil")
	}
	if params == nil {
		return nil, errors.New("oracle: param reader must not be nil")
	}
	paramPrefix = strings.TrimRight(strings.TrimSpace(paramPrefix), "/")
	if paramPrefix == "" {
		return nil, errors.New("oracle: parameter prefix must not be empty")
	}
	return &Opponent{llm: llm, params: params, paramPrefix: paramPrefix}, nil
}

// ProposeWord asks the model for a word starting with one of heads.
func (o *Opponent) ProposeWord(ctx context.Context, usedWords []string, heads []rune, difficulty int) (domain.Proposal, error) {
	if len(heads) == 0 {
		return domain.Proposal{}, errors.New("oracle: at least one head character is required")
	}
	if err := o.ensureConfig(ctx); err != nil {
		return domain.Proposal{}, err
	}
	temp := temperature(difficulty)
	raw, err := o.llm.Chat(ctx, domain.ChatRequest{
		Model:       o.moveModel,
		Messages:    moveMessages(usedWords, heads, difficulty),
		Temperature: &temp,
		MaxTokens:   moveMaxTokens,
	})
	if err != nil {
		return domain.Proposal{}, fmt.Errorf("oracle: propose word: %w", err)
	}
	word := cleanReply(raw)
	if word == wordchain.SurrenderToken {
		return domain.Proposal{Kind: domain.ProposalSurrender, Word: word}, nil
	}
	return domain.Proposal{Kind: domain.ProposalWord, Word: word}, nil
}

// VerifyWord asks the model whether word is a real dictionary noun.
func (o *Opponent) VerifyWord(ctx context.Context, word string) (domain.Verdict, error) {
	if err := o.ensureConfig(ctx); err != nil {
		return domain.Verdict{}, err
	}
	zero := 0.0
	raw, err := o.llm.Chat(ctx, domain.ChatRequest{
		Model:       o.verifyModel,
		Messages:    verifyMessages(word),
		Temperature: &zero,
		Schema:      &domain.JSONSchema{Name: "word_check", Schema: verifySchema},
	})
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("oracle: verify word: %w", err)
	}
	return parseVerdict(raw)
}

// CheckWord adapts VerifyWord to wordchain.DictionaryChecker.
func (o *Opponent) CheckWord(ctx context.Context, word string) (bool, string, error) {
	v, err := o.VerifyWord(ctx, word)
	if err != nil {
		return false, "", err
	}
	return v.Valid, v.Reason, nil
}

func (o *Opponent) ensureConfig(ctx context.Context) error {
	o.cacheMu.RLock()
	if o.cacheLoaded {
		o.cacheMu.RUnlock()
		return nil
	}
	o.cacheMu.RUnlock()

	o.cacheMu.Lock()
	defer o.cacheMu.Unlock()
	if o.cacheLoaded {
		return nil
	}

	moveName := o.paramPrefix + "/config/openai_model"
	verifyName := o.paramPrefix + "/config/verify_model"
	vals, err := o.params.GetParameters(ctx, moveName, verifyName)
	if err != nil {
		return fmt.Errorf("oracle: load model config: %w", err)
	}
	move := strings.TrimSpace(vals[moveName])
	if move == "" {
		return fmt.Errorf("oracle: parameter %q is not set", moveName)
	}
	verify := strings.TrimSpace(vals[verifyName])
	if verify == "" {
		verify = move
	}

	o.moveModel = move
	o.verifyModel = verify
	o.cacheLoaded = true
	return nil
}
