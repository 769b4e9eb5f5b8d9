package domain

// 事件負載: 每個事件名稱一個明確型別，取代原協議的動態負載，
// ingestion switch 因此可以窮舉檢查。

// MessagePayload inner payload of a message broadcast
type MessagePayload struct {
	EventType   MessageEventKind `json:"eventType"`
	MessageID   string           `json:"messageId"`
	UserID      string           `json:"userId"`
	Content     string           `json:"content"`
	Mentions    []Mention        `json:"mentions"`
	Attachments []Attachment     `json:"attachments"`
	Time        Millis           `json:"time"`
}

// MessageEvent full message add/edit/delete broadcast
type MessageEvent struct {
	WorkspaceID string         `json:"workspaceId"`
	ChannelID   string         `json:"channelId"`
	MessageID   string         `json:"messageId"`
	UserID      string         `json:"userId"`
	CreatedAt   Millis         `json:"createdAt"`
	UsersData   Directory      `json:"usersData"`
	Payload     MessagePayload `json:"payload"`
}

// ReplyPayload inner payload of a reply broadcast. The parent id travels in
// a different field per event type: parentIdOfReply on add, replytoparentid
// on edit, mid on delete.
type ReplyPayload struct {
	EventType       MessageEventKind `json:"eventType"`
	MessageID       string           `json:"messageId"`
	UserID          string           `json:"userId"`
	Content         string           `json:"content"`
	Mentions        []Mention        `json:"mentions"`
	Attachments     []Attachment     `json:"attachments"`
	Time            Millis           `json:"time"`
	ParentIDOfReply string           `json:"parentIdOfReply,omitempty"`
	ReplyToParentID string           `json:"replytoparentid,omitempty"`
	Mid             string           `json:"mid,omitempty"`
}

// ParentID parent message id regardless of event type
func (p *ReplyPayload) ParentID() string {
	switch p.EventType {
	case MessageEventAdd:
		return p.ParentIDOfReply
	case MessageEventEdit:
		return p.ReplyToParentID
	case MessageEventDelete:
		return p.Mid
	}
	return ""
}

// ReplyEvent reply add/edit/delete broadcast
type ReplyEvent struct {
	WorkspaceID string       `json:"workspaceId"`
	ChannelID   string       `json:"channelId"`
	MessageID   string       `json:"messageId"`
	UserID      string       `json:"userId"`
	CreatedAt   Millis       `json:"createdAt"`
	UsersData   Directory    `json:"usersData"`
	Payload     ReplyPayload `json:"payload"`
}

// NewMessageEvent counter-only broadcast driving sidebar unread badges
type NewMessageEvent struct {
	ChannelID string `json:"channelId"`
	IsEdit    bool   `json:"isEdit"`
}

// ResolveEvent resolve flag toggled on a message
type ResolveEvent struct {
	MessageID  string `json:"messageId"`
	IsResolved bool   `json:"isResolved"`
}

// DiscussionEvent discussion-required flag toggled on a message
type DiscussionEvent struct {
	MessageID            string `json:"messageId"`
	IsDiscussionRequired bool   `json:"isDiscussionRequired"`
}

// NotifyUpdateEvent notify-subscriber list changed on a message
type NotifyUpdateEvent struct {
	MessageID string `json:"messageId"`
	UserID    string `json:"userId"`
	IsNotify  bool   `json:"isNotify"`
}

// LikeEvent like counter changed on a message
type LikeEvent struct {
	MessageID string `json:"messageId"`
	UserID    string `json:"userId"`
	IsLiked   bool   `json:"isLiked"`
}

// UnlikeEvent legacy unlike broadcast
type UnlikeEvent struct {
	MessageID string `json:"messageId"`
	UserID    string `json:"userId"`
	IsUnliked bool   `json:"isUnliked"`
}

// PinEvent message pinned in a channel
type PinEvent struct {
	WorkspaceID string `json:"workspaceId"`
	ChannelID   string `json:"channelId"`
	MessageID   string `json:"messageId"`
}

// UnpinEvent pin cleared in a channel
type UnpinEvent struct {
	WorkspaceID string `json:"workspaceId"`
	ChannelID   string `json:"channelId"`
	MessageID   string `json:"messageId"`
}

// MembershipEvent users added to or invited into a channel
type MembershipEvent struct {
	WorkspaceID string     `json:"workspaceId"`
	ChannelID   string     `json:"channelId"`
	UserIDs     StringList `json:"userIds"`
}

// ChannelRemovedEvent channel deleted or user removed by a channel admin
type ChannelRemovedEvent struct {
	WorkspaceID string     `json:"workspaceId"`
	ChannelID   string     `json:"channelId"`
	UserIDs     StringList `json:"userIds"`
}

// PresenceEvent user joined or left a channel room
type PresenceEvent struct {
	ChannelID string `json:"channelId"`
	UserID    string `json:"userId"`
}
