package history

import "github.com/rs/zerolog"

// RefreshJob advances every stored price series to the current date.
// Scheduled daily after market close.
type RefreshJob struct {
	service *Service
	log     zerolog.Logger
}

// NewRefreshJob creates the daily price refresh job.
func NewRefreshJob(service *Service, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		service: service,
		log:     log.With().Str("job", "price_refresh").Logger(),
	}
}

// Name implements scheduler.Job.
func (j *RefreshJob) Name() string {
	return "price_refresh"
}

// Run implements scheduler.Job.
func (j *RefreshJob) Run() error {
	updated, err := j.service.RefreshAll()
	if err != nil {
		return err
	}
	j.log.Info().Int("tickers_updated", updated).Msg("Price refresh complete")
	return nil
}
