package youtube

import (
	"context"
	"fmt"

	yt "google.golang.org/api/youtube/v3"

	"podcast_syncer/internal/domain"
	"podcast_syncer/internal/runctl"
)

// DetailResult is the outcome of FetchDetails.
type DetailResult struct {
	Episodes       []domain.EpisodeDetail
	QuotaUnits     int64
	Batches        int
	SkippedBatches int
	FilteredShort  int
}

// FetchDetails loads duration and counters for refs in batches of batchSize. Batches
// that fail are skipped; episodes shorter than MinDurationSeconds are dropped. It
// fails with ErrNoQualifyingItems when nothing survives.
func (c *Client) FetchDetails(ctx context.Context, refs []domain.EpisodeRef, charger Charger, batchSize int) (*DetailResult, error) {
	if batchSize <= 0 || batchSize > domain.MaxBatchSize {
		batchSize = domain.MaxBatchSize
	}

	result := &DetailResult{}

	for start := 0; start < len(refs); start += batchSize {
		if start > 0 {
			if err := runctl.Sleep(ctx, c.cfg.BatchDelay); err != nil {
				return nil, err
			}
		}

		end := min(start+batchSize, len(refs))
		batch := refs[start:end]
		result.Batches++

		cred, err := charger.Charge(ctx, CostVideosList)
		if err != nil {
			return nil, err
		}
		result.QuotaUnits += CostVideosList

		ids := make([]string, len(batch))
		for i, ref := range batch {
			ids[i] = ref.ExternalID
		}

		resp, err := c.service.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
			Id(ids...).
			Context(ctx).
			Do(withKey(cred))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			result.SkippedBatches++
			c.logger.Warn("skipping detail batch",
				"batch_start", start,
				"batch_size", len(batch),
				"error", classify(ctx, "videos.list", err),
			)
			continue
		}

		if err := validateBatch(resp, ids); err != nil {
			result.SkippedBatches++
			c.logger.Warn("skipping invalid detail batch",
				"batch_start", start,
				"batch_size", len(batch),
				"error", err,
			)
			continue
		}

		for _, v := range resp.Items {
			detail, err := toDetail(v)
			if err != nil {
				c.logger.Warn("skipping episode", "external_id", v.Id, "error", err)
				continue
			}
			if detail.DurationSeconds < MinDurationSeconds {
				result.FilteredShort++
				continue
			}
			result.Episodes = append(result.Episodes, detail)
		}
	}

	if len(result.Episodes) == 0 {
		return result, fmt.Errorf("%w: %d refs, %d shorter than %ds, %d batches skipped",
			domain.ErrNoQualifyingItems, len(refs), result.FilteredShort, MinDurationSeconds, result.SkippedBatches)
	}

	return result, nil
}

func validateBatch(resp *yt.VideoListResponse, requested []string) error {
	if resp == nil {
		return fmt.Errorf("empty response")
	}

	want := make(map[string]struct{}, len(requested))
	for _, id := range requested {
		want[id] = struct{}{}
	}

	for _, v := range resp.Items {
		if v == nil {
			return fmt.Errorf("nil item in response")
		}
		if _, ok := want[v.Id]; !ok {
			return fmt.Errorf("unexpected video %q in response", v.Id)
		}
		if v.ContentDetails == nil || v.Statistics == nil {
			return fmt.Errorf("video %q missing contentDetails or statistics", v.Id)
		}
	}
	return nil
}

func toDetail(v *yt.Video) (domain.EpisodeDetail, error) {
	seconds, err := ParseDuration(v.ContentDetails.Duration)
	if err != nil {
		return domain.EpisodeDetail{}, err
	}

	d := domain.EpisodeDetail{
		ExternalID:      v.Id,
		DurationSeconds: seconds,
		Views:           int64(v.Statistics.ViewCount),
		Likes:           int64(v.Statistics.LikeCount),
		Comments:        int64(v.Statistics.CommentCount),
	}

	if v.Snippet != nil {
		d.Title = v.Snippet.Title
		d.Description = v.Snippet.Description
		d.PublishedAt = parseTime(v.Snippet.PublishedAt)
		if v.Snippet.Thumbnails != nil && v.Snippet.Thumbnails.High != nil {
			d.ThumbnailURL = v.Snippet.Thumbnails.High.Url
		}
	}

	return d, nil
}
