package app

import (
	"sort"

	"workspace_sync_client/internal/workspace/domain"
)

// unreadGraceMillis a message only counts as unread when it is newer than
// last_seen by more than this margin, absorbing clock skew between the
// client-local read receipt and server timestamps.
const unreadGraceMillis = 500

// normalizeMessages convert a fetched page into view objects: resolve
// authors from the directory, backfill likedByCount from the explicit
// liked_by list when the server sent no count, and sort ascending by
// created_at. Ties stay in arrival order.
func normalizeMessages(msgs []domain.Message, users domain.Directory) []*domain.Message {
	out := make([]*domain.Message, 0, len(msgs))
	for i := range msgs {
		m := msgs[i]
		if m.LikedByCount == 0 && len(m.LikedBy) > 0 {
			m.LikedByCount = len(m.LikedBy)
		}
		m.Author = users[m.CreatedBy]
		for j := range m.Replies {
			m.Replies[j].Author = users[m.Replies[j].CreatedBy]
		}
		out = append(out, &m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out
}

// firstUnreadID id of the first message satisfying the unread predicate
// created_at - grace > last_seen; when none qualifies the list is considered
// caught up and the last message's id anchors the scroll at the bottom.
func firstUnreadID(msgs []*domain.Message, lastSeen domain.Millis) string {
	for _, m := range msgs {
		if int64(m.CreatedAt)-unreadGraceMillis > int64(lastSeen) {
			return m.ID
		}
	}
	if len(msgs) > 0 {
		return msgs[len(msgs)-1].ID
	}
	return ""
}

// carryReplies keep lazily loaded reply sublists across a list refresh
func carryReplies(old, next []*domain.Message) {
	if len(old) == 0 {
		return
	}
	loaded := make(map[string]*domain.Message, len(old))
	for _, m := range old {
		if m.RepliesLoaded {
			loaded[m.ID] = m
		}
	}
	if len(loaded) == 0 {
		return
	}
	for _, m := range next {
		if prev, ok := loaded[m.ID]; ok {
			m.Replies = prev.Replies
			m.RepliesLoaded = true
		}
	}
}
