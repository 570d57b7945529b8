package settings

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Service provides typed access to settings, layering the compiled-in
// defaults under whatever has been stored in the database.
type Service struct {
	repo *Repository
	log  zerolog.Logger
}

// NewService creates a new settings service.
func NewService(repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("service", "settings").Logger(),
	}
}

// GetAll returns every effective setting: the defaults overlaid with any
// stored overrides.
func (s *Service) GetAll() (map[string]string, error) {
	stored, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(Defaults)+len(stored))
	for k, v := range Defaults {
		result[k] = v
	}
	for k, v := range stored {
		result[k] = v
	}
	return result, nil
}

// Set validates and stores a setting value.
func (s *Service) Set(key string, value string) error {
	if key == "" {
		return fmt.Errorf("setting key is required")
	}
	if err := s.repo.Set(key, value, nil); err != nil {
		return err
	}
	s.log.Info().Str("key", key).Str("value", value).Msg("Setting updated")
	return nil
}

// OptimizerIterations returns the Monte Carlo iteration count.
func (s *Service) OptimizerIterations() int {
	v, err := s.repo.GetInt(KeyOptimizerIterations, defaultOptimizerIterations)
	if err != nil {
		s.log.Warn().Err(err).Msg("Falling back to default optimizer iterations")
		return defaultOptimizerIterations
	}
	return v
}

// RiskFreeRate returns the annual risk-free rate used for Sharpe ratios.
func (s *Service) RiskFreeRate() float64 {
	v, err := s.repo.GetFloat(KeyRiskFreeRate, defaultRiskFreeRate)
	if err != nil {
		s.log.Warn().Err(err).Msg("Falling back to default risk-free rate")
		return defaultRiskFreeRate
	}
	return v
}

// HistoryLookbackDays returns how many daily closes statistics are built from.
func (s *Service) HistoryLookbackDays() int {
	v, err := s.repo.GetInt(KeyHistoryLookbackDays, defaultHistoryLookbackDays)
	if err != nil {
		s.log.Warn().Err(err).Msg("Falling back to default history lookback")
		return defaultHistoryLookbackDays
	}
	return v
}

// SyntheticSeedDays returns how many days of synthetic prices to generate
// when seeding an empty history store.
func (s *Service) SyntheticSeedDays() int {
	v, err := s.repo.GetInt(KeySyntheticSeedDays, defaultSyntheticSeedDays)
	if err != nil {
		s.log.Warn().Err(err).Msg("Falling back to default synthetic seed days")
		return defaultSyntheticSeedDays
	}
	return v
}

// BacktestDefaultCapital returns the capital assumed when a backtest
// request omits it.
func (s *Service) BacktestDefaultCapital() float64 {
	v, err := s.repo.GetFloat(KeyBacktestDefaultCapital, defaultBacktestDefaultCapital)
	if err != nil {
		s.log.Warn().Err(err).Msg("Falling back to default backtest capital")
		return defaultBacktestDefaultCapital
	}
	return v
}
