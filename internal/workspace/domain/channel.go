package domain

// Channel a message thread scoped to a workspace
type Channel struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Kind                ChannelKind     `json:"type"`
	WritePermissionType WritePermission `json:"write_permission_type"`

	// LastSeen client-local high-water-mark, drives unread count and the
	// initial scroll anchor.
	LastSeen      Millis `json:"last_seen"`
	TotalRead     int    `json:"total_read"`
	TotalMsgCount int    `json:"totalMsgCount"`

	PinnedMessageID string   `json:"pinned_message_id,omitempty"`
	PinnedMsg       *Message `json:"pinnedMsgObj,omitempty"`

	BatchIDs   StringList `json:"batch_ids,omitempty"`
	UserIDs    StringList `json:"user_ids,omitempty"`
	InviteLink string     `json:"invite_link,omitempty"`
}

// UnreadCount derived unread counter, never negative
func (c *Channel) UnreadCount() int {
	n := c.TotalMsgCount - c.TotalRead
	if n < 0 {
		return 0
	}
	return n
}
