package app

import (
	"context"
	"errors"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog"

	"wordchain/handler"
	"wordchain/internal/config"
	"wordchain/internal/integrations/openai"
	"wordchain/internal/integrations/paramstore"
	"wordchain/internal/oracle"
	"wordchain/internal/repository"
	"wordchain/internal/usecase"
	"wordchain/internal/wordchain"
)

// StoreMode selects what happens when no state table is configured.
type StoreMode int

const (
	// RequireTable fails startup without STATE_TABLE.
	RequireTable StoreMode = iota
	// AllowMemory falls back to a process-local store.
	AllowMemory
)

// NewHandler wires AWS clients, the oracle and the game service into a handler.
func NewHandler(ctx context.Context, cfg config.Config, log zerolog.Logger, mode StoreMode) (*handler.Handler, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("app: load AWS config: %w", err)
	}

	ssmClient, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
	if err != nil {
		return nil, fmt.Errorf("app: create SSM client: %w", err)
	}

	store, err := newStore(cfg, awsdynamodb.NewFromConfig(awsCfg), mode)
	if err != nil {
		return nil, err
	}
	if _, ok := store.(*repository.Memory); ok {
		log.Warn().Msg("STATE_TABLE is empty, games are kept in memory")
	}

	var openaiOpts []openai.Option
	if cfg.OpenAIBaseURL != "" {
		openaiOpts = append(openaiOpts, openai.WithBaseURL(cfg.OpenAIBaseURL))
	}
	openaiClient, err := openai.NewClient(ssmClient, cfg.ParamPrefix, openaiOpts...)
	if err != nil {
		return nil, fmt.Errorf("app: create OpenAI client: %w", err)
	}

	opponent, err := oracle.NewOpponent(openaiClient, ssmClient, cfg.ParamPrefix)
	if err != nil {
		return nil, fmt.Errorf("app: create opponent: %w", err)
	}

	var dict wordchain.DictionaryChecker
	if cfg.DictionaryCheck == config.DictionaryOracle {
		dict = opponent
	}

	svc, err := usecase.NewGameService(store, opponent, wordchain.NewValidator(dict),
		usecase.WithOracleTimeout(cfg.OracleTimeout),
		usecase.WithLogger(log.With().Str("component", "game").Logger()),
	)
	if err != nil {
		return nil, fmt.Errorf("app: create game service: %w", err)
	}

	h, err := handler.NewHandler(svc, handler.WithLogger(log.With().Str("component", "handler").Logger()))
	if err != nil {
		return nil, fmt.Errorf("app: create handler: %w", err)
	}
	return h, nil
}

func newStore(cfg config.Config, api *awsdynamodb.Client, mode StoreMode) (usecase.GameStore, error) {
	if cfg.StateTable == "" {
		if mode != AllowMemory {
			return nil, errors.New("app: STATE_TABLE is required")
		}
		return repository.NewMemory(), nil
	}
	client, err := repository.New(api, cfg.StateTable)
	if err != nil {
		return nil, fmt.Errorf("app: create state client: %w", err)
	}
	return client, nil
}
