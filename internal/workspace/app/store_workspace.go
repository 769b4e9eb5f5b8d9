package app

import (
	"context"
	"sort"
	"strings"

	"workspace_sync_client/internal/workspace/domain"
	"workspace_sync_client/internal/workspace/repository"
	errprocess "workspace_sync_client/pkg/err"
	"workspace_sync_client/pkg/logger"
)

// GetWorkspaces fetch the workspace list. In advanced mode the server
// resolves a deep link and returns workspaces, channels, the active channel
// and its first message page in one call; the returned string is the message
// id to anchor the initial scroll on (empty outside advanced mode).
func (s *Store) GetWorkspaces(ctx context.Context, q repository.WorkspaceListQuery) (string, error) {
	res, err := s.api.ListWorkspaces(ctx, q)
	if err != nil {
		logger.Log.Errorf("workspace list fetch failed", err)
		return "", err
	}

	s.mu.Lock()
	if res.Disabled {
		s.disabled = true
		s.mu.Unlock()
		return "", nil
	}
	s.workspaces = res.Workspaces
	anchor := ""
	var joinWorkspaceID, joinChannelID string
	if q.IsAdvanced {
		s.bumpEpochLocked()
		if res.LastActiveWorkspaceID != "" {
			for i := range s.workspaces {
				if s.workspaces[i].ID == res.LastActiveWorkspaceID {
					cp := s.workspaces[i]
					s.currentWorkspace = &cp
					joinWorkspaceID = cp.ID
				}
			}
		}
		s.setChannelsLocked(res.Channels)
		if res.UsersData != nil {
			s.channelUsers.Merge(res.UsersData)
			s.workspaceUsers.Merge(res.UsersData)
		}
		if res.LastActiveChannelID != "" {
			if ch := s.findChannelLocked(res.LastActiveChannelID); ch != nil {
				cp := *ch
				s.currentChannel = &cp
				joinChannelID = cp.ID
			}
		}
		if len(res.Messages) > 0 && s.currentChannel != nil {
			msgs := normalizeMessages(res.Messages, s.channelUsers)
			s.messages = msgs
			anchor = firstUnreadID(msgs, s.currentChannel.LastSeen)
		}
	}
	s.mu.Unlock()

	// 深層連結已解析, 進入對應的即時房間
	if joinWorkspaceID != "" {
		if err := s.rt.JoinWorkspace(joinWorkspaceID); err != nil {
			logger.Log.Warn("workspace room join deferred: " + err.Error())
		}
	}
	if joinChannelID != "" {
		if ack, err := s.rt.JoinChannel(ctx, joinChannelID, joinWorkspaceID); err == nil && ack.Error == "" {
			s.applyLikedSet(ack.LikedMessageIDs)
		}
	}
	return anchor, nil
}

// applyLikedSet replace the session user's liked set from a join ack
func (s *Store) applyLikedSet(ids domain.StringList) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.likedMessageIDs = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.likedMessageIDs[id] = struct{}{}
	}
}

// CreateWorkspace create a workspace, refresh the list and select it
func (s *Store) CreateWorkspace(ctx context.Context, name string, userIDsToAdd []string) error {
	if strings.TrimSpace(name) == "" {
		return errprocess.Validation("workspace name is required")
	}
	workspaceID, err := s.api.CreateWorkspace(ctx, name, userIDsToAdd)
	if err != nil {
		return err
	}
	if _, err := s.GetWorkspaces(ctx, repository.WorkspaceListQuery{}); err != nil {
		return err
	}
	if !s.SetCurrentWorkspace(ctx, workspaceID) {
		return errprocess.ErrWorkspaceNotAllowed
	}
	return nil
}

// SetCurrentWorkspace switch the current workspace. No-op (false) when the
// target is already current or unknown. Channel selection is always a fresh
// act inside the new workspace, so channels/messages reset here.
func (s *Store) SetCurrentWorkspace(ctx context.Context, workspaceID string) bool {
	s.mu.Lock()
	if s.currentWorkspace != nil && s.currentWorkspace.ID == workspaceID {
		s.mu.Unlock()
		return false
	}
	var target *domain.Workspace
	for i := range s.workspaces {
		if s.workspaces[i].ID == workspaceID {
			cp := s.workspaces[i]
			target = &cp
		}
	}
	if target == nil {
		s.mu.Unlock()
		return false
	}

	epoch := s.bumpEpochLocked()
	prevWorkspace := s.currentWorkspace
	prevChannel := s.currentChannel
	s.currentWorkspace = target
	s.channels = nil
	s.dms = nil
	s.currentChannel = nil
	s.messages = nil
	s.batches = nil
	s.mu.Unlock()

	// 依序: 離開舊房間, 再加入新房間
	if prevWorkspace != nil {
		if err := s.rt.LeaveWorkspace(prevWorkspace.ID); err != nil {
			logger.Log.Warn("workspace room leave failed: " + err.Error())
		}
	}
	if prevChannel != nil {
		if err := s.rt.LeaveChannel(prevChannel.ID); err != nil {
			logger.Log.Warn("channel room leave failed: " + err.Error())
		}
	}
	if err := s.rt.JoinWorkspace(workspaceID); err != nil {
		logger.Log.Warn("workspace room join failed: " + err.Error())
	}

	if target.Kind == domain.WorkspaceCourse && target.CourseID != "" {
		batches, err := s.api.GetCourseBatches(ctx, target.CourseID)
		if err != nil {
			logger.Log.Errorf("course batch fetch failed", err)
			return true
		}
		s.mu.Lock()
		if s.epoch == epoch {
			s.batches = batches
		}
		s.mu.Unlock()
	}
	return true
}

// setChannelsLocked commit a fetched channel list: private channels split
// into the DM list; group channels ordered by unread count descending with
// name as the tie break, DMs by name.
func (s *Store) setChannelsLocked(channels []domain.Channel) {
	var groups, dms []domain.Channel
	for _, c := range channels {
		if c.Kind == domain.ChannelPrivate {
			dms = append(dms, c)
		} else {
			groups = append(groups, c)
		}
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].UnreadCount() > groups[j].UnreadCount() })
	sort.SliceStable(dms, func(i, j int) bool { return dms[i].Name < dms[j].Name })
	s.channels = groups
	s.dms = dms
}
