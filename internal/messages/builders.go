package messages

import "fmt"

// Like builds the title/body pair for a single like notification.
func Like() (string, string) {
	return LikeTitle, LikeBody
}

// Comment builds the title/body pair for a first (non-aggregated)
// comment notification. content is truncated to the first 100
// characters, falling back to a generic body when empty.
func Comment(content string) (string, string) {
	if content == "" {
		return CommentTitle, CommentBodyFallback
	}
	if runes := []rune(content); len(runes) > commentPreviewLimit {
		content = string(runes[:commentPreviewLimit])
	}
	return CommentTitle, content
}

// CommentAggregated builds the title/body pair for the rolled-up
// comment notification once a second comment lands inside the
// aggregation window (§4.1).
func CommentAggregated(count int) (string, string) {
	return fmt.Sprintf(CommentAggregatedTitleFmt, count), fmt.Sprintf(CommentAggregatedBodyFmt, count)
}

// Follow builds the title/body pair for a new-follower notification.
func Follow() (string, string) {
	return FollowTitle, FollowBody
}
