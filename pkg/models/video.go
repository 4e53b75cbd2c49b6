package models

// Video is the normalized record returned for video-service actions.
// Duration, Views, and Likes are pre-formatted display strings ("12:34",
// "1.2M"); they are "0:00" / "0" when the provider omits the raw values.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Thumbnail    string `json:"thumbnail"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
	Duration     string `json:"duration"`
	Views        string `json:"views"`
	Likes        string `json:"likes"`
}

// VideoCategory is a curated health topic mapped to a canonical search
// phrase for the healthVideos action.
type VideoCategory struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Query string `json:"query"`
}
