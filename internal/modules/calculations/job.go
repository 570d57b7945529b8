package calculations

import "github.com/rs/zerolog"

// CleanupJob purges expired cache entries. Scheduled hourly.
type CleanupJob struct {
	cache *Cache
	log   zerolog.Logger
}

// NewCleanupJob creates the cache cleanup job.
func NewCleanupJob(cache *Cache, log zerolog.Logger) *CleanupJob {
	return &CleanupJob{
		cache: cache,
		log:   log.With().Str("job", "cache_cleanup").Logger(),
	}
}

// Name implements scheduler.Job.
func (j *CleanupJob) Name() string {
	return "cache_cleanup"
}

// Run implements scheduler.Job.
func (j *CleanupJob) Run() error {
	removed, err := j.cache.Cleanup()
	if err != nil {
		return err
	}
	if removed > 0 {
		j.log.Info().Int64("removed", removed).Msg("Expired cache entries removed")
	}
	return nil
}
