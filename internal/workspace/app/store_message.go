package app

import (
	"context"
	"sort"
	"strings"
	"sync"

	"workspace_sync_client/internal/workspace/domain"
	"workspace_sync_client/internal/workspace/repository"
	errprocess "workspace_sync_client/pkg/err"
	"workspace_sync_client/pkg/logger"
)

// GetMessages initial/anchor message fetch. With an anchor messageId two
// requests run in parallel, one at-or-after and one before the anchor, and
// their results merge. Returns the id of the message the initial scroll
// should land on: the first unread, or the last message when none qualifies.
func (s *Store) GetMessages(ctx context.Context, limit int, messageID string, includeLastSeen bool) (string, error) {
	if limit <= 0 {
		limit = defaultMessagePageSize
	}

	// 選取與 last_seen 在同一臨界區讀取: 事件處理可能在間隙清掉 currentChannel
	s.mu.Lock()
	if s.currentWorkspace == nil {
		s.mu.Unlock()
		return "", errprocess.Validation("no current workspace")
	}
	if s.currentChannel == nil {
		s.mu.Unlock()
		return "", errprocess.Validation("no current channel")
	}
	workspaceID := s.currentWorkspace.ID
	channelID := s.currentChannel.ID
	epoch := s.epoch
	lastSeen := s.currentChannel.LastSeen
	s.mu.Unlock()

	var fetched []domain.Message
	users := domain.Directory{}

	if messageID != "" {
		// 以錨點訊息為中心的雙向抓取
		var wg sync.WaitGroup
		var after, before *repository.MessageListResult
		var afterErr, beforeErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			after, afterErr = s.api.ListMessages(ctx, repository.MessageListQuery{
				WorkspaceID:     workspaceID,
				ChannelID:       channelID,
				MessageID:       messageID,
				Limit:           limit,
				IncludeLastSeen: true,
			})
		}()
		go func() {
			defer wg.Done()
			before, beforeErr = s.api.ListMessages(ctx, repository.MessageListQuery{
				WorkspaceID: workspaceID,
				ChannelID:   channelID,
				MessageID:   messageID,
				IsPrevious:  true,
				Limit:       limit,
			})
		}()
		wg.Wait()
		if afterErr != nil {
			return "", afterErr
		}
		if beforeErr != nil {
			return "", beforeErr
		}
		fetched = append(before.Messages, after.Messages...)
		users.Merge(before.UsersData)
		users.Merge(after.UsersData)
	} else {
		res, err := s.api.ListMessages(ctx, repository.MessageListQuery{
			WorkspaceID:     workspaceID,
			ChannelID:       channelID,
			Limit:           limit,
			LastSeen:        lastSeen,
			IncludeLastSeen: includeLastSeen,
		})
		if err != nil {
			return "", err
		}
		fetched = res.Messages
		users.Merge(res.UsersData)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return "", nil
	}
	s.channelUsers.Merge(users)
	msgs := normalizeMessages(fetched, s.channelUsers)
	carryReplies(s.messages, msgs)
	s.messages = msgs
	return firstUnreadID(msgs, lastSeen), nil
}

// GetPrevMessages fetch one older page pivoted on the first loaded message.
// Returns false without mutating anything when the server has no more.
func (s *Store) GetPrevMessages(ctx context.Context, limit int) (bool, error) {
	return s.fetchPage(ctx, limit, true)
}

// GetNextMessages fetch one newer page pivoted on the last loaded message.
func (s *Store) GetNextMessages(ctx context.Context, limit int) (bool, error) {
	return s.fetchPage(ctx, limit, false)
}

func (s *Store) fetchPage(ctx context.Context, limit int, previous bool) (bool, error) {
	workspaceID, channelID, err := s.requireSelection()
	if err != nil {
		return false, err
	}
	if limit <= 0 {
		limit = defaultMessagePageSize
	}

	s.mu.Lock()
	epoch := s.epoch
	if len(s.messages) == 0 {
		s.mu.Unlock()
		return false, nil
	}
	pivot := s.messages[0].ID
	if !previous {
		pivot = s.messages[len(s.messages)-1].ID
	}
	s.mu.Unlock()

	res, err := s.api.ListMessages(ctx, repository.MessageListQuery{
		WorkspaceID: workspaceID,
		ChannelID:   channelID,
		MessageID:   pivot,
		IsPrevious:  previous,
		Limit:       limit,
	})
	if err != nil {
		logger.Log.Errorf("message page fetch failed", err)
		return false, err
	}
	if len(res.Messages) == 0 {
		// 枯竭訊號: 不得動到現有列表與名錄
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return false, nil
	}
	s.channelUsers.Merge(res.UsersData)
	page := normalizeMessages(res.Messages, s.channelUsers)
	carryReplies(s.messages, page)
	if previous {
		s.messages = append(page, s.messages...)
	} else {
		s.messages = append(s.messages, page...)
	}
	sort.SliceStable(s.messages, func(i, j int) bool {
		return s.messages[i].CreatedAt < s.messages[j].CreatedAt
	})
	return true, nil
}

// GetReplies lazily load the reply sublist of one message
func (s *Store) GetReplies(ctx context.Context, parentID string) error {
	workspaceID, channelID, err := s.requireSelection()
	if err != nil {
		return err
	}

	s.mu.Lock()
	epoch := s.epoch
	parent := s.findMessageLocked(parentID)
	if parent == nil || parent.RepliesLoaded {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	res, err := s.api.ListReplies(ctx, workspaceID, channelID, parentID)
	if err != nil {
		logger.Log.Errorf("reply list fetch failed", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return nil
	}
	s.channelUsers.Merge(res.UsersData)
	parent = s.findMessageLocked(parentID)
	if parent == nil {
		return nil
	}
	replies := res.Replies
	for i := range replies {
		replies[i].Author = s.channelUsers[replies[i].CreatedBy]
	}
	sort.SliceStable(replies, func(i, j int) bool { return replies[i].CreatedAt < replies[j].CreatedAt })
	parent.Replies = replies
	parent.RepliesLoaded = true
	return nil
}

// sendMutation common guard for fire-and-forget realtime writes
func (s *Store) sendMutation() (string, string, string, error) {
	workspaceID, channelID, err := s.requireSelection()
	if err != nil {
		return "", "", "", err
	}
	if err := s.requireRealtime(); err != nil {
		return "", "", "", err
	}
	s.mu.Lock()
	userID := s.sessionUserIDLocked()
	s.mu.Unlock()
	return workspaceID, channelID, userID, nil
}

// CreateMessage send a new message over the realtime channel. Returns false
// without dispatching when the content and attachments are both empty. The
// message appears locally only when its broadcast echo arrives.
func (s *Store) CreateMessage(ctx context.Context, content string, mentions []domain.Mention, attachments []domain.Attachment) (bool, error) {
	if strings.TrimSpace(content) == "" && len(attachments) == 0 {
		return false, nil
	}
	workspaceID, channelID, userID, err := s.sendMutation()
	if err != nil {
		return false, err
	}
	err = s.rt.SendMessage(domain.MessagePayload{
		EventType:   domain.MessageEventAdd,
		UserID:      userID,
		Content:     content,
		Mentions:    mentions,
		Attachments: attachments,
		Time:        domain.Now(),
	}, workspaceID, channelID)
	if err != nil {
		return false, err
	}
	return true, nil
}

// EditMessage send a message edit over the realtime channel
func (s *Store) EditMessage(ctx context.Context, messageID, content string, mentions []domain.Mention, attachments []domain.Attachment) error {
	if strings.TrimSpace(content) == "" && len(attachments) == 0 {
		return errprocess.Validation("message content is empty")
	}
	workspaceID, channelID, userID, err := s.sendMutation()
	if err != nil {
		return err
	}
	return s.rt.SendMessage(domain.MessagePayload{
		EventType:   domain.MessageEventEdit,
		MessageID:   messageID,
		UserID:      userID,
		Content:     content,
		Mentions:    mentions,
		Attachments: attachments,
		Time:        domain.Now(),
	}, workspaceID, channelID)
}

// DeleteMessage send a message delete over the realtime channel
func (s *Store) DeleteMessage(ctx context.Context, messageID string) error {
	workspaceID, channelID, userID, err := s.sendMutation()
	if err != nil {
		return err
	}
	return s.rt.SendMessage(domain.MessagePayload{
		EventType: domain.MessageEventDelete,
		MessageID: messageID,
		UserID:    userID,
		Time:      domain.Now(),
	}, workspaceID, channelID)
}

// CreateReply send a new reply over the realtime channel
func (s *Store) CreateReply(ctx context.Context, parentID, content string, mentions []domain.Mention, attachments []domain.Attachment) error {
	if strings.TrimSpace(content) == "" && len(attachments) == 0 {
		return errprocess.Validation("reply content is empty")
	}
	workspaceID, channelID, userID, err := s.sendMutation()
	if err != nil {
		return err
	}
	return s.rt.SendReply(domain.ReplyPayload{
		EventType:       domain.MessageEventAdd,
		UserID:          userID,
		Content:         content,
		Mentions:        mentions,
		Attachments:     attachments,
		Time:            domain.Now(),
		ParentIDOfReply: parentID,
	}, workspaceID, channelID)
}

// EditReply send a reply edit over the realtime channel
func (s *Store) EditReply(ctx context.Context, replyID, parentID, content string, mentions []domain.Mention, attachments []domain.Attachment) error {
	if strings.TrimSpace(content) == "" && len(attachments) == 0 {
		return errprocess.Validation("reply content is empty")
	}
	workspaceID, channelID, userID, err := s.sendMutation()
	if err != nil {
		return err
	}
	return s.rt.SendReply(domain.ReplyPayload{
		EventType:       domain.MessageEventEdit,
		MessageID:       replyID,
		UserID:          userID,
		Content:         content,
		Mentions:        mentions,
		Attachments:     attachments,
		Time:            domain.Now(),
		ReplyToParentID: parentID,
	}, workspaceID, channelID)
}

// DeleteReply send a reply delete over the realtime channel
func (s *Store) DeleteReply(ctx context.Context, replyID, parentID string) error {
	workspaceID, channelID, userID, err := s.sendMutation()
	if err != nil {
		return err
	}
	return s.rt.SendReply(domain.ReplyPayload{
		EventType: domain.MessageEventDelete,
		MessageID: replyID,
		UserID:    userID,
		Time:      domain.Now(),
		Mid:       parentID,
	}, workspaceID, channelID)
}

// VerifyMessage toggle the resolve flag of a message
func (s *Store) VerifyMessage(ctx context.Context, messageID string, isResolved bool) error {
	workspaceID, channelID, _, err := s.sendMutation()
	if err != nil {
		return err
	}
	return s.rt.SetResolved(workspaceID, channelID, messageID, isResolved)
}

// DiscussionRequiredToggle toggle the discussion-required flag of a message
func (s *Store) DiscussionRequiredToggle(ctx context.Context, messageID string, isDiscussionRequired bool) error {
	workspaceID, channelID, _, err := s.sendMutation()
	if err != nil {
		return err
	}
	return s.rt.SetDiscussionRequired(workspaceID, channelID, messageID, isDiscussionRequired)
}

// NotificationMessageToggle subscribe/unsubscribe the session user to a
// message's notifications
func (s *Store) NotificationMessageToggle(ctx context.Context, messageID string, isNotify bool) error {
	workspaceID, channelID, _, err := s.sendMutation()
	if err != nil {
		return err
	}
	return s.rt.UpdateNotifyUser(workspaceID, channelID, messageID, isNotify)
}

// LikeMessage like a message. The counter moves when the echo arrives.
func (s *Store) LikeMessage(ctx context.Context, messageID string) error {
	workspaceID, channelID, _, err := s.sendMutation()
	if err != nil {
		return err
	}
	return s.rt.LikeMessage(workspaceID, channelID, messageID, true)
}

// UnlikeMessage withdraw a like
func (s *Store) UnlikeMessage(ctx context.Context, messageID string) error {
	workspaceID, channelID, _, err := s.sendMutation()
	if err != nil {
		return err
	}
	return s.rt.LikeMessage(workspaceID, channelID, messageID, false)
}

// PinMessage pin a message in the current channel
func (s *Store) PinMessage(ctx context.Context, messageID string) error {
	workspaceID, channelID, _, err := s.sendMutation()
	if err != nil {
		return err
	}
	return s.rt.SetPinMessage(workspaceID, channelID, messageID)
}

// UnpinMessage clear the current channel's pin
func (s *Store) UnpinMessage(ctx context.Context, messageID string) error {
	workspaceID, channelID, _, err := s.sendMutation()
	if err != nil {
		return err
	}
	return s.rt.RemovePinMessage(workspaceID, channelID, messageID)
}

// ReadNotification mark a notification read
func (s *Store) ReadNotification(notificationID string) error {
	if err := s.requireRealtime(); err != nil {
		return err
	}
	return s.rt.NotificationRead(notificationID)
}

// GetUserActivity fetch one older page of the activity feed, keyed on the
// oldest loaded entry. Returns false when the server has no more.
func (s *Store) GetUserActivity(ctx context.Context, limit int) (bool, error) {
	workspaceID, channelID, err := s.requireSelection()
	if err != nil {
		return false, err
	}
	if limit <= 0 {
		limit = defaultMessagePageSize
	}

	s.mu.Lock()
	epoch := s.epoch
	var oldest domain.Millis
	if len(s.userActivity) > 0 {
		oldest = s.userActivity[0].CreatedAt
	}
	s.mu.Unlock()

	res, err := s.api.ListUserActivity(ctx, repository.ActivityQuery{
		WorkspaceID: workspaceID,
		ChannelID:   channelID,
		IsPrevious:  true,
		Limit:       limit,
		LastSeen:    oldest,
	})
	if err != nil {
		logger.Log.Errorf("user activity fetch failed", err)
		return false, err
	}
	if len(res.Activities) == 0 {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return false, nil
	}
	page := make([]domain.UserActivity, 0, len(res.Activities))
	for _, a := range res.Activities {
		if a.ChannelID != channelID {
			continue
		}
		if a.Message == nil && res.Messages != nil {
			a.Message = res.Messages[a.MessageID]
		}
		page = append(page, a)
	}
	s.userActivity = append(page, s.userActivity...)
	sort.SliceStable(s.userActivity, func(i, j int) bool {
		return s.userActivity[i].CreatedAt < s.userActivity[j].CreatedAt
	})
	return true, nil
}

// GetChannelUsersDetails resolve user records by id and merge them into the
// channel and workspace directories
func (s *Store) GetChannelUsersDetails(ctx context.Context, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	users, err := s.api.UsersDetailByIDs(ctx, userIDs)
	if err != nil {
		logger.Log.Errorf("user detail fetch failed", err)
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channelUsers.Merge(users)
	s.workspaceUsers.Merge(users)
	return nil
}

// GetOnlineUsers online user ids of the current channel, best effort
func (s *Store) GetOnlineUsers(ctx context.Context) ([]string, error) {
	_, channelID, err := s.requireSelection()
	if err != nil {
		return nil, err
	}
	ids, err := s.api.GetOnlineUsers(ctx, channelID)
	if err != nil {
		logger.Log.Errorf("online users fetch failed", err)
		return nil, nil
	}
	return ids, nil
}

// GetUsersListByNamePrefix search channel members by display name prefix.
// Disabled for private channels and requires the realtime channel up.
func (s *Store) GetUsersListByNamePrefix(ctx context.Context, prefix string) (domain.Directory, error) {
	_, channelID, err := s.requireSelection()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	private := s.currentChannel != nil && s.currentChannel.Kind == domain.ChannelPrivate
	s.mu.Unlock()
	if private {
		return nil, nil
	}
	if err := s.requireRealtime(); err != nil {
		return nil, err
	}
	users, err := s.api.UsersByNamePrefix(ctx, channelID, prefix)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.channelUsers.Merge(users)
	s.mu.Unlock()
	return users, nil
}

// GetChannelUsersList full directory of the current channel, merged in
func (s *Store) GetChannelUsersList(ctx context.Context) error {
	_, channelID, err := s.requireSelection()
	if err != nil {
		return err
	}
	users, err := s.api.ChannelUsersList(ctx, channelID)
	if err != nil {
		logger.Log.Errorf("channel directory fetch failed", err)
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channelUsers.Merge(users)
	return nil
}

// GetBatchUserIDs roster user ids of the given batches
func (s *Store) GetBatchUserIDs(ctx context.Context, batchIDs []string) ([]repository.BatchUsers, error) {
	if len(batchIDs) == 0 {
		return nil, nil
	}
	return s.api.BatchUserIDs(ctx, batchIDs)
}
