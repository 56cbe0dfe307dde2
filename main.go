package main

import (
	"castle/experiments"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "Experiment YAML file, defaults are used when empty")
	games := flag.Int("games", 0, "Games per matchup, overrides the config")
	workers := flag.Int("workers", 0, "Games played in parallel, overrides the config")
	seed := flag.Uint64("seed", 0, "Random seed for map generation, overrides the config")
	output := flag.String("out", "", "Directory for experiment records, overrides the config")
	render := flag.Bool("render", false, "Log every board at trace level")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if *render {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	cfg := experiments.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = experiments.LoadConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load config")
		}
	}
	if *games > 0 {
		cfg.Games = *games
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *seed > 0 {
		cfg.Seed = *seed
	}
	if *output != "" {
		cfg.Output = *output
	}
	cfg.Render = cfg.Render || *render

	results, err := experiments.Run(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("experiment failed")
	}
	for _, result := range results {
		log.Info().Msgf("old=%d (%d) vs new=%d (%d): improved=%t", result.Old, result.OldElo, result.New, result.NewElo, result.Improved)
	}
}
