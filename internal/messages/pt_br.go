package messages

// ─── Notification constants ────────────────────────────────────────────────

const (
	LikeTitle = "Nova curtida"
	LikeBody  = "Alguém curtiu seu post"

	CommentTitle        = "Novo comentário"
	CommentBodyFallback = "Alguém comentou no seu post"

	CommentAggregatedTitleFmt = "%d novos comentários"
	CommentAggregatedBodyFmt  = "%d pessoas comentaram no seu post"

	FollowTitle = "Novo seguidor"
	FollowBody  = "Alguém começou a seguir você"
)

// commentPreviewLimit bounds how much of a comment body is echoed back
// in the notification preview (§4.1 scenario strings).
const commentPreviewLimit = 100
