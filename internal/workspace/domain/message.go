package domain

// Mention inline mention token substituted into message content
type Mention struct {
	ID             string `json:"id"`
	Display        string `json:"display"`
	PlainTextIndex int    `json:"plainTextIndex"`
}

// Attachment uploaded file reference
type Attachment struct {
	URL      string `json:"url"`
	Name     string `json:"name"`
	MimeType string `json:"mimetype"`
}

// Message a channel message. Messages are never hard-removed; deletion is a
// status transition and content is retained.
type Message struct {
	ID          string       `json:"id"`
	Content     string       `json:"content"`
	Mentions    []Mention    `json:"mentions,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`

	// CreatedBy raw author id from the wire; Author is the resolved record
	// once the normalizer has seen a directory entry for it.
	CreatedBy string `json:"created_by"`
	Author    *User  `json:"-"`

	CreatedAt Millis           `json:"created_at"`
	DeletedAt Millis           `json:"deleted_at,omitempty"`
	DeletedBy string           `json:"deleted_by,omitempty"`
	Status    MessageEventKind `json:"status"`

	IsResolved           bool `json:"is_resolved"`
	IsDiscussionRequired bool `json:"is_discussion_required"`

	NotifyUserIDs StringList `json:"notify_user_ids,omitempty"`

	// LikedByCount is a plain counter, not a set: it can drift under
	// duplicate or out-of-order events. The acting user's own liked set
	// lives on the store with set semantics. 兩者一致性保證不同，不可合併。
	LikedByCount int        `json:"likedByCount"`
	LikedBy      StringList `json:"liked_by,omitempty"`

	Replies       []Reply    `json:"replies,omitempty"`
	ReplyIDs      StringList `json:"replyids,omitempty"`
	ReplyCount    int        `json:"replyCount,omitempty"`
	RepliesLoaded bool       `json:"-"`
}

// Reply a message attached to a parent message, one level of threading.
// Owned exclusively by the parent's Replies list.
type Reply struct {
	ID          string       `json:"id"`
	Content     string       `json:"content"`
	Mentions    []Mention    `json:"mentions,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`

	CreatedBy string `json:"created_by"`
	Author    *User  `json:"-"`

	CreatedAt Millis           `json:"created_at"`
	DeletedAt Millis           `json:"deleted_at,omitempty"`
	DeletedBy string           `json:"deleted_by,omitempty"`
	Status    MessageEventKind `json:"status"`

	ReplyToParentID string `json:"replytoparentid"`
}
