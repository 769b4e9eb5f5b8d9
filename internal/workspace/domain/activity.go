package domain

// UserActivity one entry of the per-session activity feed, append-only,
// paginated backward by timestamp.
type UserActivity struct {
	ID          string           `json:"id"`
	Kind        UserActivityKind `json:"type"`
	CreatedAt   Millis           `json:"createdAt"`
	WorkspaceID string           `json:"workspaceId"`
	ChannelID   string           `json:"channelId"`
	MessageID   string           `json:"messageId"`
	Message     *Message         `json:"messagesObj,omitempty"`
}
