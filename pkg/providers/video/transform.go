package video

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/glucolog-health/glucolog-engine/pkg/models"
)

// durationPattern matches ISO-8601 durations of the PT#H#M#S family.
var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// TransformSearch converts raw search hits into normalized records.
// Duration and counts are unknown at this stage and render as their
// zero displays ("0:00", "0").
func TransformSearch(resp *SearchResponse) []models.Video {
	videos := make([]models.Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		videos = append(videos, models.Video{
			ID:           item.ID.VideoID,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			Thumbnail:    thumbnailURL(item.Snippet),
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
			Duration:     FormatDuration(""),
			Views:        FormatCount(""),
			Likes:        FormatCount(""),
		})
	}
	return videos
}

// TransformDetails converts raw details records into normalized records
// with duration and statistics populated.
func TransformDetails(resp *DetailsResponse) []models.Video {
	videos := make([]models.Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		videos = append(videos, models.Video{
			ID:           item.ID,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			Thumbnail:    thumbnailURL(item.Snippet),
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
			Duration:     FormatDuration(item.ContentDetails.Duration),
			Views:        FormatCount(item.Statistics.ViewCount),
			Likes:        FormatCount(item.Statistics.LikeCount),
		})
	}
	return videos
}

// thumbnailURL prefers the medium thumbnail, falling back to default.
func thumbnailURL(s Snippet) string {
	if s.Thumbnails.Medium.URL != "" {
		return s.Thumbnails.Medium.URL
	}
	return s.Thumbnails.Default.URL
}

// FormatDuration converts an ISO-8601 duration (PT1H2M3S) into a display
// string: "1:02:03", or "5:00" when the hours segment is zero. Malformed
// or absent input yields "0:00".
func FormatDuration(iso string) string {
	match := durationPattern.FindStringSubmatch(iso)
	if match == nil {
		return "0:00"
	}

	hours := atoiDefault(match[1])
	minutes := atoiDefault(match[2])
	seconds := atoiDefault(match[3])

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// FormatCount renders a numeric count compactly: "2.5M", "1.5K", "999".
// Absent or non-numeric input renders as "0".
func FormatCount(raw string) string {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return "0"
	}

	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}

func atoiDefault(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
