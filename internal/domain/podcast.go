package domain

import "time"

// Podcast is a feed tracked by the content management layer. It is read only here.
type Podcast struct {
	ID           int64  `db:"id"`
	Title        string `db:"title"`
	PlaylistID   string `db:"playlist_id"`
	EpisodeCount int    `db:"episode_count"`
	IsApproved   bool   `db:"is_approved"`
}

// EpisodeRef is a playlist entry as returned by the listing endpoint.
type EpisodeRef struct {
	ExternalID  string
	Title       string
	PublishedAt time.Time
	Position    int64
}

// EpisodeDetail is a fully resolved episode with duration and engagement counters.
type EpisodeDetail struct {
	ExternalID      string
	Title           string
	Description     string
	DurationSeconds int
	PublishedAt     time.Time
	Views           int64
	Likes           int64
	Comments        int64
	ThumbnailURL    string
}

type Episode struct {
	ID              int64     `db:"id"`
	PodcastID       int64     `db:"podcast_id"`
	ExternalID      string    `db:"external_id"`
	Title           string    `db:"title"`
	Slug            string    `db:"slug"`
	DurationSeconds int       `db:"duration_seconds"`
	PublishedAt     time.Time `db:"published_at"`
	ViewCount       int64     `db:"view_count"`
	LikeCount       int64     `db:"like_count"`
	CommentCount    int64     `db:"comment_count"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// PodcastSnapshot is the per-day rollup for one podcast.
type PodcastSnapshot struct {
	PodcastID          int64     `db:"podcast_id"`
	Date               time.Time `db:"stat_date"`
	TotalViews         int64     `db:"total_views"`
	TotalLikes         int64     `db:"total_likes"`
	TotalComments      int64     `db:"total_comments"`
	TotalShares        int64     `db:"total_shares"`
	WatchTimeMinutes   int64     `db:"watch_time_minutes"`
	EngagementRate     float64   `db:"engagement_rate"`
	AvgDurationSeconds float64   `db:"avg_duration_seconds"`
	AvgViewsPerEpisode float64   `db:"avg_views_per_episode"`
	EpisodeCount       int       `db:"episode_count"`
	NewEpisodeCount    int       `db:"new_episode_count"`
}

// EpisodeSnapshot is the per-day rollup for one episode. ExternalID links it back to
// the fetched detail before the episode row id is known.
type EpisodeSnapshot struct {
	EpisodeID         int64     `db:"episode_id"`
	ExternalID        string    `db:"-"`
	Date              time.Time `db:"stat_date"`
	Views             int64     `db:"views"`
	Likes             int64     `db:"likes"`
	Comments          int64     `db:"comments"`
	Shares            int64     `db:"shares"`
	WatchTimeMinutes  int64     `db:"watch_time_minutes"`
	AvgViewPercentage float64   `db:"avg_view_percentage"`
	EngagementRate    float64   `db:"engagement_rate"`
}

// Discovery records the first sighting of an episode.
type Discovery struct {
	PodcastID    int64     `db:"podcast_id"`
	EpisodeID    int64     `db:"episode_id"`
	ExternalID   string    `db:"external_id"`
	Title        string    `db:"title"`
	SessionID    string    `db:"session_id"`
	DiscoveredAt time.Time `db:"discovered_at"`
}
