package app

import (
	"context"
	"strings"

	"workspace_sync_client/internal/workspace/domain"
	"workspace_sync_client/internal/workspace/repository"
	"workspace_sync_client/pkg"
	errprocess "workspace_sync_client/pkg/err"
	"workspace_sync_client/pkg/logger"
)

// GetChannels fetch the channel list of the current workspace
func (s *Store) GetChannels(ctx context.Context) error {
	s.mu.Lock()
	if s.currentWorkspace == nil {
		s.mu.Unlock()
		return errprocess.Validation("no current workspace")
	}
	workspaceID := s.currentWorkspace.ID
	epoch := s.epoch
	s.mu.Unlock()

	res, err := s.api.ListChannels(ctx, workspaceID)
	if err != nil {
		logger.Log.Errorf("channel list fetch failed", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return nil
	}
	s.setChannelsLocked(res.Channels)
	return nil
}

// SetCurrentChannel switch the current channel. Never returns an error:
// selection failures degrade to "no current channel" and false.
func (s *Store) SetCurrentChannel(ctx context.Context, channelID string) bool {
	s.mu.Lock()
	if s.currentWorkspace == nil {
		s.mu.Unlock()
		return false
	}
	if s.currentChannel != nil && s.currentChannel.ID == channelID {
		s.mu.Unlock()
		return false
	}
	target := s.findChannelLocked(channelID)
	if target == nil {
		s.mu.Unlock()
		return false
	}

	epoch := s.bumpEpochLocked()
	workspaceID := s.currentWorkspace.ID
	prev := s.currentChannel

	// 樂觀讀取回執: 離開前先把舊頻道標為已讀, leave 失敗也不回滾
	if prev != nil {
		prev.LastSeen = domain.Now()
		prev.TotalRead = prev.TotalMsgCount
		if entry := s.findChannelLocked(prev.ID); entry != nil {
			entry.LastSeen = prev.LastSeen
			entry.TotalRead = entry.TotalMsgCount
		}
	}
	s.mu.Unlock()

	if prev != nil {
		if err := s.rt.LeaveChannel(prev.ID); err != nil {
			logger.Log.Warn("channel room leave failed: " + err.Error())
		}
	}

	// join 同時是權限檢查
	ack, err := s.rt.JoinChannel(ctx, channelID, workspaceID)
	if err != nil || ack.Error != "" {
		logger.Log.Warn("channel join rejected: " + channelID)
		s.mu.Lock()
		if s.epoch == epoch {
			s.currentChannel = nil
			s.messages = nil
		}
		s.mu.Unlock()
		return false
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return false
	}
	cp := *target
	s.currentChannel = &cp
	s.messages = nil
	s.userActivity = nil
	s.likedMessageIDs = make(map[string]struct{}, len(ack.LikedMessageIDs))
	for _, id := range ack.LikedMessageIDs {
		s.likedMessageIDs[id] = struct{}{}
	}
	s.channelUsers = domain.Directory{}
	if s.sessionData != nil {
		s.channelUsers[s.sessionData.UserID] = s.sessionData.AsUser()
	}
	needPin := cp.PinnedMessageID != "" && cp.PinnedMsg == nil
	pinID := cp.PinnedMessageID
	s.mu.Unlock()

	if needPin {
		s.resolvePinnedMessage(ctx, epoch, workspaceID, channelID, pinID)
	}
	return true
}

// resolvePinnedMessage single-item anchor fetch to denormalize the pin
func (s *Store) resolvePinnedMessage(ctx context.Context, epoch uint64, workspaceID, channelID, messageID string) {
	res, err := s.api.ListMessages(ctx, repository.MessageListQuery{
		WorkspaceID:     workspaceID,
		ChannelID:       channelID,
		MessageID:       messageID,
		Limit:           1,
		IncludeLastSeen: true,
	})
	if err != nil || len(res.Messages) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return
	}
	if res.UsersData != nil {
		s.channelUsers.Merge(res.UsersData)
	}
	msgs := normalizeMessages(res.Messages, s.channelUsers)
	for _, m := range msgs {
		if m.ID != messageID {
			continue
		}
		pin := *m
		if s.currentChannel != nil && s.currentChannel.ID == channelID {
			s.currentChannel.PinnedMsg = &pin
		}
		if entry := s.findChannelLocked(channelID); entry != nil {
			cp := pin
			entry.PinnedMsg = &cp
		}
	}
}

// UpdateChannelLastSeen mark a channel caught-up on demand
func (s *Store) UpdateChannelLastSeen(channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := domain.Now()
	if entry := s.findChannelLocked(channelID); entry != nil {
		entry.LastSeen = now
		entry.TotalRead = entry.TotalMsgCount
	}
	if s.currentChannel != nil && s.currentChannel.ID == channelID {
		s.currentChannel.LastSeen = now
		s.currentChannel.TotalRead = s.currentChannel.TotalMsgCount
	}
}

// CreateChannel create a channel in the current workspace and select it.
// Duplicate names are rejected client-side before any network call.
func (s *Store) CreateChannel(ctx context.Context, name string, kind domain.ChannelKind, userIDsToAdd []string) error {
	if strings.TrimSpace(name) == "" {
		return errprocess.Validation("channel name is required")
	}

	s.mu.Lock()
	if s.currentWorkspace == nil {
		s.mu.Unlock()
		return errprocess.Validation("no current workspace")
	}
	for i := range s.channels {
		if strings.EqualFold(s.channels[i].Name, name) {
			s.mu.Unlock()
			return errprocess.Validation("channel name already in use")
		}
	}
	workspaceID := s.currentWorkspace.ID
	prevChannelID := ""
	if s.currentChannel != nil {
		prevChannelID = s.currentChannel.ID
	}
	s.mu.Unlock()

	channelID, err := s.api.CreateChannel(ctx, repository.CreateChannelPayload{
		WorkspaceID:   workspaceID,
		Name:          name,
		Kind:          kind,
		UserIDsToAdd:  userIDsToAdd,
		PrevChannelID: prevChannelID,
	})
	if err != nil {
		return err
	}
	if err := s.GetChannels(ctx); err != nil {
		return err
	}
	if !s.SetCurrentChannel(ctx, channelID) {
		return errprocess.ErrChannelNotAllowed
	}
	return nil
}

// UpdateChannelName rename a channel, patching the list and current copies
func (s *Store) UpdateChannelName(ctx context.Context, name, channelID string) error {
	if strings.TrimSpace(name) == "" {
		return errprocess.Validation("channel name is required")
	}
	s.mu.Lock()
	for i := range s.channels {
		if s.channels[i].ID != channelID && strings.EqualFold(s.channels[i].Name, name) {
			s.mu.Unlock()
			return errprocess.Validation("channel name already in use")
		}
	}
	s.mu.Unlock()

	if err := s.api.UpdateChannelName(ctx, name, channelID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry := s.findChannelLocked(channelID); entry != nil {
		entry.Name = name
	}
	if s.currentChannel != nil && s.currentChannel.ID == channelID {
		s.currentChannel.Name = name
	}
	return nil
}

// UpdateChannelPermission change who may post, patching both copies
func (s *Store) UpdateChannelPermission(ctx context.Context, permission domain.WritePermission, channelID string) error {
	if err := s.api.SetChannelWritePermission(ctx, permission, channelID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry := s.findChannelLocked(channelID); entry != nil {
		entry.WritePermissionType = permission
	}
	if s.currentChannel != nil && s.currentChannel.ID == channelID {
		s.currentChannel.WritePermissionType = permission
	}
	return nil
}

// AddUserInChannel add a user to a channel by e-mail. Membership and the
// directory update when the broadcast comes back.
func (s *Store) AddUserInChannel(ctx context.Context, userEmail, channelID string) error {
	if strings.TrimSpace(userEmail) == "" {
		return errprocess.Validation("user email is required")
	}
	s.mu.Lock()
	if s.currentWorkspace == nil {
		s.mu.Unlock()
		return errprocess.Validation("no current workspace")
	}
	workspaceID := s.currentWorkspace.ID
	s.mu.Unlock()
	return s.api.AddUserToChannel(ctx, userEmail, workspaceID, channelID)
}

// RemoveUserFromChannel remove a user, patching membership on both copies
func (s *Store) RemoveUserFromChannel(ctx context.Context, userID, channelID string) error {
	s.mu.Lock()
	if s.currentWorkspace == nil {
		s.mu.Unlock()
		return errprocess.Validation("no current workspace")
	}
	workspaceID := s.currentWorkspace.ID
	s.mu.Unlock()

	if err := s.api.RemoveUserFromChannel(ctx, userID, channelID, workspaceID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry := s.findChannelLocked(channelID); entry != nil {
		entry.UserIDs = domain.StringList(pkg.Remove(entry.UserIDs, userID))
	}
	if s.currentChannel != nil && s.currentChannel.ID == channelID {
		s.currentChannel.UserIDs = domain.StringList(pkg.Remove(s.currentChannel.UserIDs, userID))
	}
	return nil
}

// AddBatchInChannel grant a batch roster access, patching both copies
func (s *Store) AddBatchInChannel(ctx context.Context, batchID, channelID string) error {
	s.mu.Lock()
	if s.currentWorkspace == nil {
		s.mu.Unlock()
		return errprocess.Validation("no current workspace")
	}
	workspaceID := s.currentWorkspace.ID
	s.mu.Unlock()

	if err := s.api.AddBatchToChannel(ctx, batchID, workspaceID, channelID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry := s.findChannelLocked(channelID); entry != nil && !pkg.Contains(entry.BatchIDs, batchID) {
		entry.BatchIDs = append(entry.BatchIDs, batchID)
	}
	if s.currentChannel != nil && s.currentChannel.ID == channelID && !pkg.Contains(s.currentChannel.BatchIDs, batchID) {
		s.currentChannel.BatchIDs = append(s.currentChannel.BatchIDs, batchID)
	}
	return nil
}

// DeleteChannel delete a channel and drop it from local state
func (s *Store) DeleteChannel(ctx context.Context, channelID string) error {
	s.mu.Lock()
	if s.currentWorkspace == nil {
		s.mu.Unlock()
		return errprocess.Validation("no current workspace")
	}
	workspaceID := s.currentWorkspace.ID
	s.mu.Unlock()

	if err := s.api.DeleteChannel(ctx, channelID, workspaceID); err != nil {
		return err
	}
	s.dropChannelLocally(channelID)
	return nil
}

// LeaveChannel leave a channel permanently and drop it from local state
func (s *Store) LeaveChannel(ctx context.Context, channelID string) error {
	if err := s.api.LeaveChannelPermanently(ctx, channelID); err != nil {
		return err
	}
	s.dropChannelLocally(channelID)
	return nil
}

// dropChannelLocally remove a channel from both lists, clearing selection
// and messages when it was current.
func (s *Store) dropChannelLocally(channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	filter := func(list []domain.Channel) []domain.Channel {
		out := list[:0]
		for _, c := range list {
			if c.ID != channelID {
				out = append(out, c)
			}
		}
		return out
	}
	s.channels = filter(s.channels)
	s.dms = filter(s.dms)
	if s.currentChannel != nil && s.currentChannel.ID == channelID {
		s.bumpEpochLocked()
		s.currentChannel = nil
		s.messages = nil
		s.userActivity = nil
	}
}

// EditChannelInviteLink change the invite link suffix, patching both copies
func (s *Store) EditChannelInviteLink(ctx context.Context, suffix, channelID string) error {
	if strings.TrimSpace(suffix) == "" {
		return errprocess.Validation("invite link suffix is required")
	}
	s.mu.Lock()
	if s.currentWorkspace == nil {
		s.mu.Unlock()
		return errprocess.Validation("no current workspace")
	}
	workspaceID := s.currentWorkspace.ID
	s.mu.Unlock()

	link, err := s.api.EditInviteLink(ctx, suffix, channelID, workspaceID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry := s.findChannelLocked(channelID); entry != nil {
		entry.InviteLink = link
	}
	if s.currentChannel != nil && s.currentChannel.ID == channelID {
		s.currentChannel.InviteLink = link
	}
	return nil
}

// CustomLinkJoin join a channel through a custom invite link suffix
func (s *Store) CustomLinkJoin(ctx context.Context, suffix string) error {
	if strings.TrimSpace(suffix) == "" {
		return errprocess.Validation("invite link suffix is required")
	}
	return s.api.CustomLinkJoin(ctx, suffix)
}
