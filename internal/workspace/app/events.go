package app

import (
	"context"
	"sort"
	"time"

	"workspace_sync_client/internal/workspace/domain"
	"workspace_sync_client/internal/workspace/repository"
	"workspace_sync_client/pkg"
	"workspace_sync_client/pkg/logger"
	"workspace_sync_client/pkg/metrics"
)

// 事件處理都是 find-by-id 的就地更新: 目標不在本地就靜默丟棄,
// 不視為錯誤 (StaleEventTarget)。

func dropped(event string) {
	metrics.EventsDropped.WithLabelValues(event).Inc()
}

func applied(event string) {
	metrics.EventsApplied.WithLabelValues(event).Inc()
}

// OnSessionData session identity pushed by the server
func (s *Store) OnSessionData(data domain.SessionData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionData = &data
	s.channelUsers[data.UserID] = data.AsUser()
	s.workspaceUsers[data.UserID] = data.AsUser()
}

// OnMessage full message add/edit/delete broadcast. Events for a channel or
// workspace other than the current one are ignored; sidebar counters travel
// on the separate newMessage broadcast instead.
func (s *Store) OnMessage(ev domain.MessageEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentWorkspace == nil || s.currentChannel == nil ||
		s.currentWorkspace.ID != ev.WorkspaceID || s.currentChannel.ID != ev.ChannelID {
		dropped(string(domain.EventMessage))
		return
	}
	s.channelUsers.Merge(ev.UsersData)

	switch ev.Payload.EventType {
	case domain.MessageEventAdd:
		// 純事件溯源: 包含自己發的訊息在內, 一律由廣播回聲進入列表
		id := ev.MessageID
		if id == "" {
			id = ev.Payload.MessageID
		}
		if s.findMessageLocked(id) != nil {
			dropped(string(domain.EventMessage))
			return
		}
		createdAt := ev.CreatedAt
		if createdAt == 0 {
			createdAt = ev.Payload.Time
		}
		msg := &domain.Message{
			ID:          id,
			Content:     ev.Payload.Content,
			Mentions:    ev.Payload.Mentions,
			Attachments: ev.Payload.Attachments,
			CreatedBy:   ev.UserID,
			Author:      s.channelUsers[ev.UserID],
			CreatedAt:   createdAt,
			Status:      domain.MessageEventAdd,
		}
		s.messages = append(s.messages, msg)
		sort.SliceStable(s.messages, func(i, j int) bool {
			return s.messages[i].CreatedAt < s.messages[j].CreatedAt
		})
	case domain.MessageEventEdit:
		msg := s.findMessageLocked(ev.Payload.MessageID)
		if msg == nil {
			dropped(string(domain.EventMessage))
			return
		}
		msg.Content = ev.Payload.Content
		msg.Mentions = ev.Payload.Mentions
		msg.Attachments = ev.Payload.Attachments
		msg.Status = domain.MessageEventEdit
		s.patchPinCopiesLocked(ev.ChannelID, msg)
	case domain.MessageEventDelete:
		msg := s.findMessageLocked(ev.Payload.MessageID)
		if msg == nil {
			dropped(string(domain.EventMessage))
			return
		}
		msg.Status = domain.MessageEventDelete
		msg.DeletedAt = ev.CreatedAt
		if msg.DeletedAt == 0 {
			msg.DeletedAt = ev.Payload.Time
		}
		msg.DeletedBy = ev.UserID
		if s.currentChannel.PinnedMessageID == msg.ID {
			s.clearPinLocked(ev.ChannelID)
		}
	default:
		dropped(string(domain.EventMessage))
		return
	}
	applied(string(domain.EventMessage))
}

// patchPinCopiesLocked refresh the denormalized pin copies after an edit
func (s *Store) patchPinCopiesLocked(channelID string, msg *domain.Message) {
	if s.currentChannel != nil && s.currentChannel.ID == channelID && s.currentChannel.PinnedMessageID == msg.ID {
		cp := *msg
		s.currentChannel.PinnedMsg = &cp
	}
	if entry := s.findChannelLocked(channelID); entry != nil && entry.PinnedMessageID == msg.ID {
		cp := *msg
		entry.PinnedMsg = &cp
	}
}

func (s *Store) clearPinLocked(channelID string) {
	if s.currentChannel != nil && s.currentChannel.ID == channelID {
		s.currentChannel.PinnedMessageID = ""
		s.currentChannel.PinnedMsg = nil
	}
	if entry := s.findChannelLocked(channelID); entry != nil {
		entry.PinnedMessageID = ""
		entry.PinnedMsg = nil
	}
}

// OnReply reply add/edit/delete broadcast, scoped to the parent message
func (s *Store) OnReply(ev domain.ReplyEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentWorkspace == nil || s.currentChannel == nil ||
		s.currentWorkspace.ID != ev.WorkspaceID || s.currentChannel.ID != ev.ChannelID {
		dropped(string(domain.EventReply))
		return
	}
	s.channelUsers.Merge(ev.UsersData)

	parent := s.findMessageLocked(ev.Payload.ParentID())
	if parent == nil {
		dropped(string(domain.EventReply))
		return
	}

	switch ev.Payload.EventType {
	case domain.MessageEventAdd:
		id := ev.MessageID
		if id == "" {
			id = ev.Payload.MessageID
		}
		for i := range parent.Replies {
			if parent.Replies[i].ID == id {
				dropped(string(domain.EventReply))
				return
			}
		}
		createdAt := ev.CreatedAt
		if createdAt == 0 {
			createdAt = ev.Payload.Time
		}
		parent.Replies = append(parent.Replies, domain.Reply{
			ID:              id,
			Content:         ev.Payload.Content,
			Mentions:        ev.Payload.Mentions,
			Attachments:     ev.Payload.Attachments,
			CreatedBy:       ev.UserID,
			Author:          s.channelUsers[ev.UserID],
			CreatedAt:       createdAt,
			Status:          domain.MessageEventAdd,
			ReplyToParentID: parent.ID,
		})
		if !pkg.Contains(parent.ReplyIDs, id) {
			parent.ReplyIDs = append(parent.ReplyIDs, id)
		}
		parent.ReplyCount = len(parent.ReplyIDs)
		// 新回覆重新開啟討論
		parent.IsResolved = false
	case domain.MessageEventEdit:
		found := false
		for i := range parent.Replies {
			if parent.Replies[i].ID == ev.Payload.MessageID {
				parent.Replies[i].Content = ev.Payload.Content
				parent.Replies[i].Mentions = ev.Payload.Mentions
				parent.Replies[i].Attachments = ev.Payload.Attachments
				parent.Replies[i].Status = domain.MessageEventEdit
				found = true
			}
		}
		if !found {
			dropped(string(domain.EventReply))
			return
		}
	case domain.MessageEventDelete:
		found := false
		for i := range parent.Replies {
			if parent.Replies[i].ID == ev.Payload.MessageID {
				parent.Replies[i].Status = domain.MessageEventDelete
				parent.Replies[i].DeletedAt = ev.CreatedAt
				parent.Replies[i].DeletedBy = ev.UserID
				found = true
			}
		}
		if !found {
			dropped(string(domain.EventReply))
			return
		}
	default:
		dropped(string(domain.EventReply))
		return
	}
	applied(string(domain.EventReply))
}

// OnNewMessage counter-only broadcast driving the sidebar unread badges.
// While the channel is current the read counter advances with it, an
// auto read receipt for the viewer.
func (s *Store) OnNewMessage(ev domain.NewMessageEvent) {
	if ev.IsEdit {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.findChannelLocked(ev.ChannelID)
	if entry == nil {
		dropped(string(domain.EventNewMessage))
		return
	}
	entry.TotalMsgCount++
	current := s.currentChannel != nil && s.currentChannel.ID == ev.ChannelID
	if current {
		entry.TotalRead = entry.TotalMsgCount
		s.currentChannel.TotalMsgCount++
		s.currentChannel.TotalRead = s.currentChannel.TotalMsgCount
	}
	applied(string(domain.EventNewMessage))
}

// OnResolved resolve flag toggled on a message
func (s *Store) OnResolved(ev domain.ResolveEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.findMessageLocked(ev.MessageID)
	if msg == nil {
		dropped(string(domain.EventIsResolved))
		return
	}
	msg.IsResolved = ev.IsResolved
	applied(string(domain.EventIsResolved))
}

// OnDiscussionRequired discussion flag toggled on a message
func (s *Store) OnDiscussionRequired(ev domain.DiscussionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.findMessageLocked(ev.MessageID)
	if msg == nil {
		dropped(string(domain.EventIsDiscussionRequired))
		return
	}
	msg.IsDiscussionRequired = ev.IsDiscussionRequired
	applied(string(domain.EventIsDiscussionRequired))
}

// OnNotifyUsersUpdate subscriber added to or removed from a message
func (s *Store) OnNotifyUsersUpdate(ev domain.NotifyUpdateEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.findMessageLocked(ev.MessageID)
	if msg == nil {
		dropped(string(domain.EventUpdateNotifyUsers))
		return
	}
	if ev.IsNotify {
		if !pkg.Contains(msg.NotifyUserIDs, ev.UserID) {
			msg.NotifyUserIDs = append(msg.NotifyUserIDs, ev.UserID)
		}
	} else {
		msg.NotifyUserIDs = domain.StringList(pkg.Remove(msg.NotifyUserIDs, ev.UserID))
	}
	applied(string(domain.EventUpdateNotifyUsers))
}

// OnLikeMessage like counter moved on a message. likedByCount is a plain
// counter moved by exactly one per event, with no dedup, and decrements
// floor at zero; the session user's own liked set keeps set semantics on
// the side.
func (s *Store) OnLikeMessage(ev domain.LikeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.findMessageLocked(ev.MessageID)
	if msg == nil {
		dropped(string(domain.EventLikeMessage))
		return
	}
	if ev.IsLiked {
		msg.LikedByCount++
	} else if msg.LikedByCount > 0 {
		msg.LikedByCount--
	}
	if ev.UserID == s.sessionUserIDLocked() {
		if ev.IsLiked {
			s.likedMessageIDs[ev.MessageID] = struct{}{}
		} else {
			delete(s.likedMessageIDs, ev.MessageID)
		}
	}
	applied(string(domain.EventLikeMessage))
}

// OnUnlikeMessage intentionally disabled: unlikes travel on the likeMessage
// broadcast with isLiked=false, this legacy event carries no state change.
func (s *Store) OnUnlikeMessage(ev domain.UnlikeEvent) {
	dropped(string(domain.EventUnlikeMessage))
}

// OnPinAdded message pinned. The channel list entry updates even for a
// non-current channel; the full denormalized copy is only resolved for the
// current one, fetching the message when it is not loaded locally.
func (s *Store) OnPinAdded(ev domain.PinEvent) {
	s.mu.Lock()
	current := s.currentChannel != nil && s.currentChannel.ID == ev.ChannelID
	if entry := s.findChannelLocked(ev.ChannelID); entry != nil {
		entry.PinnedMessageID = ev.MessageID
	}
	if !current {
		s.mu.Unlock()
		applied(string(domain.EventAddPin))
		return
	}
	s.currentChannel.PinnedMessageID = ev.MessageID
	epoch := s.epoch
	local := s.findMessageLocked(ev.MessageID)
	if local != nil {
		cp := *local
		s.currentChannel.PinnedMsg = &cp
		if entry := s.findChannelLocked(ev.ChannelID); entry != nil {
			cp2 := *local
			entry.PinnedMsg = &cp2
		}
		s.mu.Unlock()
		applied(string(domain.EventAddPin))
		return
	}
	s.mu.Unlock()

	// 不在本地, 單筆抓取後再寫入 (epoch 重驗)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.resolvePinnedMessage(ctx, epoch, ev.WorkspaceID, ev.ChannelID, ev.MessageID)
	applied(string(domain.EventAddPin))
}

// OnPinRemoved pin cleared on whichever local copy matches
func (s *Store) OnPinRemoved(ev domain.UnpinEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearPinLocked(ev.ChannelID)
	applied(string(domain.EventRemovePin))
}

// OnNewUserAdded users added to a channel. Resolves the new users' records,
// merges them into both directories and appends the ids to the channel
// membership with a dedup filter.
func (s *Store) OnNewUserAdded(ev domain.MembershipEvent) {
	s.mu.Lock()
	var fresh []string
	entry := s.findChannelLocked(ev.ChannelID)
	for _, id := range ev.UserIDs {
		known := entry != nil && pkg.Contains(entry.UserIDs, id)
		if !known {
			fresh = append(fresh, id)
		}
	}
	s.mu.Unlock()
	if len(fresh) == 0 {
		dropped(string(domain.EventNewUserAdded))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	users, err := s.api.UsersDetailByIDs(ctx, fresh)
	if err != nil {
		logger.Log.Errorf("new member detail fetch failed", err)
		users = domain.Directory{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.channelUsers.Merge(users)
	s.workspaceUsers.Merge(users)
	if entry := s.findChannelLocked(ev.ChannelID); entry != nil {
		for _, id := range fresh {
			if !pkg.Contains(entry.UserIDs, id) {
				entry.UserIDs = append(entry.UserIDs, id)
			}
		}
	}
	if s.currentChannel != nil && s.currentChannel.ID == ev.ChannelID {
		for _, id := range fresh {
			if !pkg.Contains(s.currentChannel.UserIDs, id) {
				s.currentChannel.UserIDs = append(s.currentChannel.UserIDs, id)
			}
		}
	}
	applied(string(domain.EventNewUserAdded))
}

// OnChannelUserChange invited users appended to a channel's membership
func (s *Store) OnChannelUserChange(ev domain.MembershipEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.findChannelLocked(ev.ChannelID)
	if entry == nil {
		dropped(string(domain.EventChannelUserChange))
		return
	}
	for _, id := range ev.UserIDs {
		if !pkg.Contains(entry.UserIDs, id) {
			entry.UserIDs = append(entry.UserIDs, id)
		}
	}
	if s.currentChannel != nil && s.currentChannel.ID == ev.ChannelID {
		for _, id := range ev.UserIDs {
			if !pkg.Contains(s.currentChannel.UserIDs, id) {
				s.currentChannel.UserIDs = append(s.currentChannel.UserIDs, id)
			}
		}
	}
	applied(string(domain.EventChannelUserChange))
}

// OnChannelUserDataChange profile data changed somewhere in the channel;
// refetch the directory and merge it in.
func (s *Store) OnChannelUserDataChange(ev domain.MembershipEvent) {
	s.mu.Lock()
	current := s.currentChannel != nil && s.currentChannel.ID == ev.ChannelID
	s.mu.Unlock()
	if !current {
		dropped(string(domain.EventChannelUserDataChange))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	users, err := s.api.ChannelUsersList(ctx, ev.ChannelID)
	if err != nil {
		logger.Log.Errorf("channel directory refetch failed", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channelUsers.Merge(users)
	applied(string(domain.EventChannelUserDataChange))
}

// OnChannelDeleted channel deleted by its admin
func (s *Store) OnChannelDeleted(ev domain.ChannelRemovedEvent) {
	s.dropChannelLocally(ev.ChannelID)
	applied(string(domain.EventDeleteChannel))
}

// OnUserRemovedByAdmin the session user (or others) removed from a channel
// by its admin. Only removal of the session user drops the channel locally.
func (s *Store) OnUserRemovedByAdmin(ev domain.ChannelRemovedEvent) {
	s.mu.Lock()
	self := s.sessionUserIDLocked()
	affected := pkg.Contains(ev.UserIDs, self)
	s.mu.Unlock()
	if !affected {
		s.mu.Lock()
		if entry := s.findChannelLocked(ev.ChannelID); entry != nil {
			for _, id := range ev.UserIDs {
				entry.UserIDs = domain.StringList(pkg.Remove(entry.UserIDs, id))
			}
		}
		if s.currentChannel != nil && s.currentChannel.ID == ev.ChannelID {
			for _, id := range ev.UserIDs {
				s.currentChannel.UserIDs = domain.StringList(pkg.Remove(s.currentChannel.UserIDs, id))
			}
		}
		s.mu.Unlock()
		applied(string(domain.EventRemoveUserByAdmin))
		return
	}
	s.dropChannelLocally(ev.ChannelID)
	applied(string(domain.EventRemoveUserByAdmin))
}

// OnUserJoinedChannel presence flag up in the directory
func (s *Store) OnUserJoinedChannel(ev domain.PresenceEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u := s.channelUsers[ev.UserID]; u != nil {
		u.Online = true
	}
}

// OnUserLeftChannel presence flag down in the directory
func (s *Store) OnUserLeftChannel(ev domain.PresenceEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u := s.channelUsers[ev.UserID]; u != nil {
		u.Online = false
	}
}

// OnConnected transport up. Re-joins the current rooms and refetches the
// current channel's page: events during the outage were never delivered, so
// local state cannot be assumed current.
func (s *Store) OnConnected() {
	s.mu.Lock()
	reconnect := s.initialConnectionEstablished
	s.connected = true
	s.initialConnectionEstablished = true
	var workspaceID, channelID string
	if s.currentWorkspace != nil {
		workspaceID = s.currentWorkspace.ID
	}
	if s.currentChannel != nil {
		channelID = s.currentChannel.ID
	}
	s.mu.Unlock()

	if !reconnect || workspaceID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.rt.JoinWorkspace(workspaceID); err != nil {
		logger.Log.Warn("workspace room rejoin failed: " + err.Error())
	}
	if channelID == "" {
		return
	}
	ack, err := s.rt.JoinChannel(ctx, channelID, workspaceID)
	if err != nil || ack.Error != "" {
		logger.Log.Warn("channel room rejoin failed: " + channelID)
		return
	}
	s.applyLikedSet(ack.LikedMessageIDs)
	if _, err := s.GetMessages(ctx, defaultMessagePageSize, "", true); err != nil {
		logger.Log.Errorf("post-reconnect refetch failed", err)
	}
}

// OnDisconnected transport down. Entity state is retained untouched.
func (s *Store) OnDisconnected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
}

var _ repository.EventSink = (*Store)(nil)
