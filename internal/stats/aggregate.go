// Package stats turns fetched episode details into daily snapshot rows.
package stats

import (
	"math"
	"time"

	"podcast_syncer/internal/domain"
)

const (
	// RetentionRate is the assumed share of an episode a viewer watches.
	RetentionRate = 0.6
	// AvgViewPercentage is RetentionRate expressed as a percentage.
	AvgViewPercentage = RetentionRate * 100

	maxWatchMinutes = math.MaxInt32
)

// Rollup is the podcast snapshot together with one snapshot per episode.
type Rollup struct {
	Podcast  domain.PodcastSnapshot
	Episodes []domain.EpisodeSnapshot
}

// Aggregate computes the snapshots for podcastID on date. It does no I/O.
// NewEpisodeCount is left for the writer, which is the one that knows.
func Aggregate(podcastID int64, date time.Time, episodes []domain.EpisodeDetail) Rollup {
	day := Day(date)

	r := Rollup{
		Podcast: domain.PodcastSnapshot{
			PodcastID:    podcastID,
			Date:         day,
			EpisodeCount: len(episodes),
		},
		Episodes: make([]domain.EpisodeSnapshot, 0, len(episodes)),
	}

	var totalDuration int64
	for _, ep := range episodes {
		r.Podcast.TotalViews += ep.Views
		r.Podcast.TotalLikes += ep.Likes
		r.Podcast.TotalComments += ep.Comments
		totalDuration += int64(ep.DurationSeconds)

		r.Episodes = append(r.Episodes, domain.EpisodeSnapshot{
			ExternalID:        ep.ExternalID,
			Date:              day,
			Views:             ep.Views,
			Likes:             ep.Likes,
			Comments:          ep.Comments,
			WatchTimeMinutes:  WatchMinutes(ep.Views, float64(ep.DurationSeconds)),
			AvgViewPercentage: AvgViewPercentage,
			EngagementRate:    EngagementRate(ep.Likes, ep.Comments, ep.Views),
		})
	}

	if n := len(episodes); n > 0 {
		r.Podcast.AvgDurationSeconds = float64(totalDuration) / float64(n)
		r.Podcast.AvgViewsPerEpisode = float64(r.Podcast.TotalViews) / float64(n)
	}
	r.Podcast.EngagementRate = EngagementRate(r.Podcast.TotalLikes, r.Podcast.TotalComments, r.Podcast.TotalViews)
	r.Podcast.WatchTimeMinutes = WatchMinutes(r.Podcast.TotalViews, r.Podcast.AvgDurationSeconds)

	return r
}

// EngagementRate is (likes+comments)/views, or 0 without views.
func EngagementRate(likes, comments, views int64) float64 {
	if views <= 0 {
		return 0
	}
	return float64(likes+comments) / float64(views)
}

// WatchMinutes estimates minutes watched, capped to fit a 32-bit column.
func WatchMinutes(views int64, durationSeconds float64) int64 {
	if views <= 0 || durationSeconds <= 0 {
		return 0
	}
	minutes := float64(views) * durationSeconds * RetentionRate / 60
	if minutes >= maxWatchMinutes || math.IsInf(minutes, 0) || math.IsNaN(minutes) {
		return maxWatchMinutes
	}
	return int64(minutes)
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
