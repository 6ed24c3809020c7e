package youtube

import (
	"context"
	"fmt"
	"strings"

	yt "google.golang.org/api/youtube/v3"

	"podcast_syncer/internal/domain"
	"podcast_syncer/internal/runctl"
)

var unavailableTitles = map[string]struct{}{
	"private video": {},
	"deleted video": {},
}

// ResolveEpisodes lists every episode in a playlist, following continuation tokens.
// It fails with ErrFeedNotFound when the playlist does not exist or is not visible.
func (c *Client) ResolveEpisodes(ctx context.Context, playlistID string, charger Charger) ([]domain.EpisodeRef, error) {
	logger := c.logger.With("playlist_id", playlistID)

	cred, err := charger.Charge(ctx, CostPlaylistLookup)
	if err != nil {
		return nil, err
	}

	lookup, err := c.service.Playlists.List([]string{"id", "contentDetails"}).
		Id(playlistID).
		Context(ctx).
		Do(withKey(cred))
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrFeedNotFound, playlistID)
		}
		return nil, fmt.Errorf("lookup playlist: %w", classify(ctx, "playlists.list", err))
	}
	if len(lookup.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrFeedNotFound, playlistID)
	}

	var (
		refs      []domain.EpisodeRef
		seen      = make(map[string]struct{})
		pageToken string
		page      int
		filtered  int
	)

	for {
		cred, err := charger.Charge(ctx, CostPlaylistItems)
		if err != nil {
			return nil, err
		}

		call := c.service.PlaylistItems.List([]string{"snippet", "contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(pageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do(withKey(cred))
		if err != nil {
			if isNotFound(err) {
				return nil, fmt.Errorf("%w: %s", domain.ErrFeedNotFound, playlistID)
			}
			return nil, fmt.Errorf("list playlist items page %d: %w", page, classify(ctx, "playlistItems.list", err))
		}

		for _, item := range resp.Items {
			ref, ok := toRef(item)
			if !ok {
				filtered++
				continue
			}
			if _, dup := seen[ref.ExternalID]; dup {
				continue
			}
			seen[ref.ExternalID] = struct{}{}
			refs = append(refs, ref)
		}

		logger.Debug("fetched playlist page",
			"page", page,
			"items", len(resp.Items),
			"total", len(refs),
		)

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
		page++

		if err := runctl.Sleep(ctx, c.cfg.PageDelay); err != nil {
			return nil, err
		}
	}

	logger.Info("resolved playlist", "episodes", len(refs), "filtered", filtered, "pages", page+1)

	return refs, nil
}

func toRef(item *yt.PlaylistItem) (domain.EpisodeRef, bool) {
	if item == nil || item.Snippet == nil {
		return domain.EpisodeRef{}, false
	}

	if _, hidden := unavailableTitles[strings.ToLower(strings.TrimSpace(item.Snippet.Title))]; hidden {
		return domain.EpisodeRef{}, false
	}

	var videoID, videoPublished string
	if item.ContentDetails != nil {
		videoID = item.ContentDetails.VideoId
		videoPublished = item.ContentDetails.VideoPublishedAt
	}
	if videoID == "" && item.Snippet.ResourceId != nil {
		videoID = item.Snippet.ResourceId.VideoId
	}
	if videoID == "" {
		return domain.EpisodeRef{}, false
	}

	return domain.EpisodeRef{
		ExternalID:  videoID,
		Title:       item.Snippet.Title,
		PublishedAt: parseTime(videoPublished, item.Snippet.PublishedAt),
		Position:    item.Snippet.Position,
	}, true
}
