package app

import (
	"context"
	"sort"
	"sync"

	"workspace_sync_client/internal/workspace/domain"
	"workspace_sync_client/internal/workspace/repository"
	errprocess "workspace_sync_client/pkg/err"
)

// defaultMessagePageSize page size used when the caller passes no limit
const defaultMessagePageSize = 15

// Store 同步狀態容器: 本地的 workspace/channel/message 檢視與
// REST 抓取及即時事件保持一致。所有變更都經過 action 方法或事件處理,
// callers 只拿到唯讀快照。
type Store struct {
	api repository.WorkspacesAPI
	rt  repository.RealtimeGateway

	mu sync.Mutex

	// epoch increments on every workspace/channel selection; async
	// completions re-check it before committing and discard stale results.
	epoch uint64

	unsubscribe func()

	sessionData                  *domain.SessionData
	connected                    bool
	initialConnectionEstablished bool
	disabled                     bool

	workspaces       []domain.Workspace
	currentWorkspace *domain.Workspace
	batches          []domain.Batch

	channels       []domain.Channel
	dms            []domain.Channel
	currentChannel *domain.Channel

	messages []*domain.Message

	// likedMessageIDs set semantics, session user only, reset on channel
	// switch. Distinct from Message.LikedByCount which is a plain counter.
	likedMessageIDs map[string]struct{}

	channelUsers   domain.Directory
	workspaceUsers domain.Directory

	userActivity []domain.UserActivity
}

// NewStore init the synchronization store with its two event sources
func NewStore(api repository.WorkspacesAPI, rt repository.RealtimeGateway) *Store {
	return &Store{
		api:             api,
		rt:              rt,
		likedMessageIDs: map[string]struct{}{},
		channelUsers:    domain.Directory{},
		workspaceUsers:  domain.Directory{},
	}
}

// Init fetch the session and establish the realtime connection. Returns
// ErrSessionExpired when there is no session and ErrConnectionTimeout when
// the realtime join does not complete in time.
func (s *Store) Init(ctx context.Context) error {
	sess, err := s.api.GetSessionData(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.sessionData = sess
	s.channelUsers[sess.UserID] = sess.AsUser()
	s.workspaceUsers[sess.UserID] = sess.AsUser()
	s.mu.Unlock()

	s.unsubscribe = s.rt.Subscribe(s)
	if err := s.rt.Connect(ctx); err != nil {
		return err
	}
	return nil
}

// Close tear down the subscription and the realtime connection
func (s *Store) Close() error {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	return s.rt.Close()
}

// bumpEpochLocked invalidate all in-flight async completions
func (s *Store) bumpEpochLocked() uint64 {
	s.epoch++
	return s.epoch
}

func (s *Store) sessionUserIDLocked() string {
	if s.sessionData == nil {
		return ""
	}
	return s.sessionData.UserID
}

// findChannelLocked search both the channel list and the DM list
func (s *Store) findChannelLocked(channelID string) *domain.Channel {
	for i := range s.channels {
		if s.channels[i].ID == channelID {
			return &s.channels[i]
		}
	}
	for i := range s.dms {
		if s.dms[i].ID == channelID {
			return &s.dms[i]
		}
	}
	return nil
}

func (s *Store) findMessageLocked(messageID string) *domain.Message {
	for _, m := range s.messages {
		if m.ID == messageID {
			return m
		}
	}
	return nil
}

// requireSelection current workspace and channel ids, or a validation error
func (s *Store) requireSelection() (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentWorkspace == nil {
		return "", "", errprocess.Validation("no current workspace")
	}
	if s.currentChannel == nil {
		return "", "", errprocess.Validation("no current channel")
	}
	return s.currentWorkspace.ID, s.currentChannel.ID, nil
}

// requireRealtime writes over the realtime channel fail fast when down
func (s *Store) requireRealtime() error {
	if !s.rt.Connected() {
		return errprocess.ErrTransportUnavailable
	}
	return nil
}

// Connected whether the realtime channel is up
func (s *Store) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// InitialConnectionEstablished whether Init ever completed a connection
func (s *Store) InitialConnectionEstablished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialConnectionEstablished
}

// Disabled whether the tenant is disabled
func (s *Store) Disabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disabled
}

// Session read-only copy of the session identity
func (s *Store) Session() *domain.SessionData {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessionData == nil {
		return nil
	}
	cp := *s.sessionData
	return &cp
}

// Workspaces read-only snapshot of the workspace list
func (s *Store) Workspaces() []domain.Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Workspace(nil), s.workspaces...)
}

// CurrentWorkspace read-only copy of the current workspace, nil when none
func (s *Store) CurrentWorkspace() *domain.Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentWorkspace == nil {
		return nil
	}
	cp := *s.currentWorkspace
	return &cp
}

// Batches course batch rosters of the current workspace
func (s *Store) Batches() []domain.Batch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Batch(nil), s.batches...)
}

// Channels read-only snapshot of the group channel list
func (s *Store) Channels() []domain.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Channel(nil), s.channels...)
}

// DMs read-only snapshot of the private channel list
func (s *Store) DMs() []domain.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Channel(nil), s.dms...)
}

// CurrentChannel read-only copy of the current channel, nil when none
func (s *Store) CurrentChannel() *domain.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentChannel == nil {
		return nil
	}
	cp := *s.currentChannel
	return &cp
}

// Messages read-only snapshot of the loaded message list
func (s *Store) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Message, 0, len(s.messages))
	for _, m := range s.messages {
		out = append(out, *m)
	}
	return out
}

// HasLiked whether the session user liked the message in this channel
func (s *Store) HasLiked(messageID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.likedMessageIDs[messageID]
	return ok
}

// LikedMessageIDs sorted snapshot of the session user's liked set
func (s *Store) LikedMessageIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.likedMessageIDs))
	for id := range s.likedMessageIDs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ChannelUsers read-only snapshot of the channel directory
func (s *Store) ChannelUsers() domain.Directory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channelUsers.Clone()
}

// WorkspaceUsers read-only snapshot of the workspace directory
func (s *Store) WorkspaceUsers() domain.Directory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workspaceUsers.Clone()
}

// UserActivity read-only snapshot of the loaded activity feed
func (s *Store) UserActivity() []domain.UserActivity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.UserActivity(nil), s.userActivity...)
}
