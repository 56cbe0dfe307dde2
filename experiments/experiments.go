package experiments

import (
	"castle/agent"
	"castle/engine"
	"castle/evaluator"
	"castle/experiments/metrics"
	"castle/searcher"
	"fmt"

	"github.com/rs/zerolog/log"
)

// MatchUpResult is the outcome of one evaluation batch.
type MatchUpResult struct {
	Old      int // ModelConfig.ID
	New      int // ModelConfig.ID
	OldElo   int
	NewElo   int
	Improved bool
}

// NewModel builds the model described by config.
func NewModel(config metrics.ModelConfig) (agent.Model, error) {
	var model agent.Model
	switch config.Kind {
	case RandomKind:
		model = agent.NewRandomModel(config.Seed)
	case GreedyKind:
		model = agent.NewGreedyModel()
	case SearchKind:
		if config.Episodes <= 0 {
			return nil, fmt.Errorf("%w: search model %d needs episodes", ErrInvalidConfig, config.ID)
		}
		options := []searcher.Option{searcher.WithEpisodes(config.Episodes), searcher.WithHorizon(config.Horizon)}
		if config.Seed != 0 {
			options = append(options, searcher.WithSeed(config.Seed))
		}
		model = searcher.NewSearch(config.Goroutines, options...)
	default:
		return nil, fmt.Errorf("%w: unknown model kind %q", ErrInvalidConfig, config.Kind)
	}
	if config.Elo > 0 {
		model.SetElo(config.Elo)
	}
	return model, nil
}

// Run plays every matchup of cfg in order and stores the setup and game records in a
// fresh directory under cfg.Output. Ratings carry over from one matchup to the next.
func Run(cfg Config) ([]MatchUpResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	models := map[int]agent.Model{}
	for _, config := range cfg.Models {
		model, err := NewModel(config)
		if err != nil {
			return nil, err
		}
		models[config.ID] = model
	}

	options := []engine.Option{}
	if cfg.Seed != 0 {
		options = append(options, engine.WithSeed(cfg.Seed))
	}
	if cfg.Render {
		options = append(options, engine.WithScreen(engine.NewLogScreen()))
	}
	env, err := engine.NewEnvironment(cfg.Map, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create environment: %w", err)
	}

	evalOptions := []evaluator.Option{
		evaluator.WithWorkers(cfg.Workers),
		evaluator.WithMaxSteps(cfg.MaxSteps),
		evaluator.WithMetrics(),
	}
	if cfg.Seed != 0 {
		evalOptions = append(evalOptions, evaluator.WithSeed(cfg.Seed))
	}
	e := evaluator.NewEvaluator(env, evalOptions...)

	log.Info().Msgf("starting %s experiment...", cfg.Name)

	results := []MatchUpResult{}
	gameRecords := []metrics.GameRecord{}
	for mi, matchUp := range cfg.MatchUps {
		oldModel, newModel := models[matchUp[0]], models[matchUp[1]]

		log.Info().Msgf("starting matchup %d of %d between old=%d and new=%d...", mi+1, len(cfg.MatchUps), matchUp[0], matchUp[1])

		improved, err := e.Evaluate(oldModel, newModel, cfg.Games, !cfg.FreezeElo)
		if err != nil {
			return nil, fmt.Errorf("matchup %d: %w", mi+1, err)
		}

		records := e.Records()[len(gameRecords):]
		for i := range records {
			records[i].ID = len(gameRecords) + i + 1
			records[i].Old = matchUp[0]
			records[i].New = matchUp[1]
		}
		gameRecords = append(gameRecords, records...)

		results = append(results, MatchUpResult{
			Old:      matchUp[0],
			New:      matchUp[1],
			OldElo:   oldModel.Elo(),
			NewElo:   newModel.Elo(),
			Improved: improved,
		})
		log.Info().Msgf("completed matchup %d of %d, new model improved: %t", mi+1, len(cfg.MatchUps), improved)
	}

	log.Info().Msgf("completed %s experiment", cfg.Name)

	writer, err := metrics.NewWriter(cfg.Output, cfg.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create experiment writer: %w", err)
	}

	err = writer.WriteSetup(struct {
		Config  Config
		Results []MatchUpResult
	}{cfg, results})
	if err != nil {
		return nil, fmt.Errorf("failed to store setup: %w", err)
	}
	log.Info().Msg("stored setup")

	err = writer.WriteModelConfigs(cfg.Models)
	if err != nil {
		return nil, fmt.Errorf("failed to store model configs: %w", err)
	}
	log.Info().Msg("stored model configs")

	err = writer.WriteGameRecords(gameRecords)
	if err != nil {
		return nil, fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msgf("stored game records in %s", writer.Dir())

	return results, nil
}
