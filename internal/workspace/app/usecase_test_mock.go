package app

import (
	"context"

	"workspace_sync_client/internal/workspace/domain"
	"workspace_sync_client/internal/workspace/repository"

	"github.com/stretchr/testify/mock"
)

// MockWorkspacesAPI Mock WorkspacesAPI
type MockWorkspacesAPI struct {
	mock.Mock
}

// Login moke login
func (m *MockWorkspacesAPI) Login(ctx context.Context, payload repository.LoginPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// Signup moke signup
func (m *MockWorkspacesAPI) Signup(ctx context.Context, payload repository.SignupPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// ForgotPassword moke forgot password
func (m *MockWorkspacesAPI) ForgotPassword(ctx context.Context, email, reCaptcha string) error {
	args := m.Called(ctx, email, reCaptcha)
	return args.Error(0)
}

// ValidatePasswordResetToken moke validate reset token
func (m *MockWorkspacesAPI) ValidatePasswordResetToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// ResetPassword moke reset password
func (m *MockWorkspacesAPI) ResetPassword(ctx context.Context, password, token string) error {
	args := m.Called(ctx, password, token)
	return args.Error(0)
}

// Logout moke logout
func (m *MockWorkspacesAPI) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// GetSessionData moke get session
func (m *MockWorkspacesAPI) GetSessionData(ctx context.Context) (*domain.SessionData, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.SessionData), args.Error(1)
	}
	return nil, args.Error(1)
}

// CreateWorkspace moke create workspace
func (m *MockWorkspacesAPI) CreateWorkspace(ctx context.Context, name string, userIDsToAdd []string) (string, error) {
	args := m.Called(ctx, name, userIDsToAdd)
	return args.String(0), args.Error(1)
}

// ListWorkspaces moke workspace list
func (m *MockWorkspacesAPI) ListWorkspaces(ctx context.Context, q repository.WorkspaceListQuery) (*repository.WorkspaceListResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) != nil {
		return args.Get(0).(*repository.WorkspaceListResult), args.Error(1)
	}
	return nil, args.Error(1)
}

// GetCourseBatches moke course batch list
func (m *MockWorkspacesAPI) GetCourseBatches(ctx context.Context, courseID string) ([]domain.Batch, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Batch), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListChannels moke channel list
func (m *MockWorkspacesAPI) ListChannels(ctx context.Context, workspaceID string) (*repository.ChannelListResult, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) != nil {
		return args.Get(0).(*repository.ChannelListResult), args.Error(1)
	}
	return nil, args.Error(1)
}

// CreateChannel moke create channel
func (m *MockWorkspacesAPI) CreateChannel(ctx context.Context, payload repository.CreateChannelPayload) (string, error) {
	args := m.Called(ctx, payload)
	return args.String(0), args.Error(1)
}

// UpdateChannelName moke rename channel
func (m *MockWorkspacesAPI) UpdateChannelName(ctx context.Context, name, channelID string) error {
	args := m.Called(ctx, name, channelID)
	return args.Error(0)
}

// SetChannelWritePermission moke set write permission
func (m *MockWorkspacesAPI) SetChannelWritePermission(ctx context.Context, permission domain.WritePermission, channelID string) error {
	args := m.Called(ctx, permission, channelID)
	return args.Error(0)
}

// AddUserToChannel moke add user to channel
func (m *MockWorkspacesAPI) AddUserToChannel(ctx context.Context, userEmail, workspaceID, channelID string) error {
	args := m.Called(ctx, userEmail, workspaceID, channelID)
	return args.Error(0)
}

// AddBatchToChannel moke add batch to channel
func (m *MockWorkspacesAPI) AddBatchToChannel(ctx context.Context, batchID, workspaceID, channelID string) error {
	args := m.Called(ctx, batchID, workspaceID, channelID)
	return args.Error(0)
}

// RemoveUserFromChannel moke remove user from channel
func (m *MockWorkspacesAPI) RemoveUserFromChannel(ctx context.Context, userID, channelID, workspaceID string) error {
	args := m.Called(ctx, userID, channelID, workspaceID)
	return args.Error(0)
}

// DeleteChannel moke delete channel
func (m *MockWorkspacesAPI) DeleteChannel(ctx context.Context, channelID, workspaceID string) error {
	args := m.Called(ctx, channelID, workspaceID)
	return args.Error(0)
}

// LeaveChannelPermanently moke leave channel
func (m *MockWorkspacesAPI) LeaveChannelPermanently(ctx context.Context, channelID string) error {
	args := m.Called(ctx, channelID)
	return args.Error(0)
}

// EditInviteLink moke edit invite link
func (m *MockWorkspacesAPI) EditInviteLink(ctx context.Context, suffix, channelID, workspaceID string) (string, error) {
	args := m.Called(ctx, suffix, channelID, workspaceID)
	return args.String(0), args.Error(1)
}

// CustomLinkJoin moke custom link join
func (m *MockWorkspacesAPI) CustomLinkJoin(ctx context.Context, suffix string) error {
	args := m.Called(ctx, suffix)
	return args.Error(0)
}

// GetOnlineUsers moke online users
func (m *MockWorkspacesAPI) GetOnlineUsers(ctx context.Context, channelID string) ([]string, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) != nil {
		return args.Get(0).([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListMessages moke message list
func (m *MockWorkspacesAPI) ListMessages(ctx context.Context, q repository.MessageListQuery) (*repository.MessageListResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) != nil {
		return args.Get(0).(*repository.MessageListResult), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListReplies moke reply list
func (m *MockWorkspacesAPI) ListReplies(ctx context.Context, workspaceID, channelID, parentID string) (*repository.RepliesResult, error) {
	args := m.Called(ctx, workspaceID, channelID, parentID)
	if args.Get(0) != nil {
		return args.Get(0).(*repository.RepliesResult), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListUserActivity moke activity list
func (m *MockWorkspacesAPI) ListUserActivity(ctx context.Context, q repository.ActivityQuery) (*repository.ActivityResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) != nil {
		return args.Get(0).(*repository.ActivityResult), args.Error(1)
	}
	return nil, args.Error(1)
}

// UsersDetailByIDs moke user details
func (m *MockWorkspacesAPI) UsersDetailByIDs(ctx context.Context, userIDs []string) (domain.Directory, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) != nil {
		return args.Get(0).(domain.Directory), args.Error(1)
	}
	return nil, args.Error(1)
}

// UsersByNamePrefix moke prefix search
func (m *MockWorkspacesAPI) UsersByNamePrefix(ctx context.Context, channelID, prefix string) (domain.Directory, error) {
	args := m.Called(ctx, channelID, prefix)
	if args.Get(0) != nil {
		return args.Get(0).(domain.Directory), args.Error(1)
	}
	return nil, args.Error(1)
}

// ChannelUsersList moke channel directory
func (m *MockWorkspacesAPI) ChannelUsersList(ctx context.Context, channelID string) (domain.Directory, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) != nil {
		return args.Get(0).(domain.Directory), args.Error(1)
	}
	return nil, args.Error(1)
}

// BatchUserIDs moke batch rosters
func (m *MockWorkspacesAPI) BatchUserIDs(ctx context.Context, batchIDs []string) ([]repository.BatchUsers, error) {
	args := m.Called(ctx, batchIDs)
	if args.Get(0) != nil {
		return args.Get(0).([]repository.BatchUsers), args.Error(1)
	}
	return nil, args.Error(1)
}

// UploadAttachment moke upload
func (m *MockWorkspacesAPI) UploadAttachment(ctx context.Context, filename string, content []byte) (string, error) {
	args := m.Called(ctx, filename, content)
	return args.String(0), args.Error(1)
}

// ProfileUploadURL moke profile upload url
func (m *MockWorkspacesAPI) ProfileUploadURL() string {
	args := m.Called()
	return args.String(0)
}

// SetProfile moke set profile
func (m *MockWorkspacesAPI) SetProfile(ctx context.Context, profile map[string]string) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// MockRealtimeGateway Mock RealtimeGateway
type MockRealtimeGateway struct {
	mock.Mock
}

// Connect moke connect
func (m *MockRealtimeGateway) Connect(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close moke close
func (m *MockRealtimeGateway) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Connected moke connected flag
func (m *MockRealtimeGateway) Connected() bool {
	args := m.Called()
	return args.Bool(0)
}

// Subscribe moke subscribe
func (m *MockRealtimeGateway) Subscribe(sink repository.EventSink) func() {
	args := m.Called(sink)
	if args.Get(0) != nil {
		return args.Get(0).(func())
	}
	return func() {}
}

// JoinWorkspace moke join workspace room
func (m *MockRealtimeGateway) JoinWorkspace(workspaceID string) error {
	args := m.Called(workspaceID)
	return args.Error(0)
}

// LeaveWorkspace moke leave workspace room
func (m *MockRealtimeGateway) LeaveWorkspace(workspaceID string) error {
	args := m.Called(workspaceID)
	return args.Error(0)
}

// JoinChannel moke join channel room
func (m *MockRealtimeGateway) JoinChannel(ctx context.Context, channelID, workspaceID string) (*repository.JoinChannelAck, error) {
	args := m.Called(ctx, channelID, workspaceID)
	if args.Get(0) != nil {
		return args.Get(0).(*repository.JoinChannelAck), args.Error(1)
	}
	return nil, args.Error(1)
}

// LeaveChannel moke leave channel room
func (m *MockRealtimeGateway) LeaveChannel(channelID string) error {
	args := m.Called(channelID)
	return args.Error(0)
}

// SendMessage moke message mutation
func (m *MockRealtimeGateway) SendMessage(payload domain.MessagePayload, workspaceID, channelID string) error {
	args := m.Called(payload, workspaceID, channelID)
	return args.Error(0)
}

// SendReply moke reply mutation
func (m *MockRealtimeGateway) SendReply(payload domain.ReplyPayload, workspaceID, channelID string) error {
	args := m.Called(payload, workspaceID, channelID)
	return args.Error(0)
}

// SetResolved moke resolve toggle
func (m *MockRealtimeGateway) SetResolved(workspaceID, channelID, messageID string, isResolved bool) error {
	args := m.Called(workspaceID, channelID, messageID, isResolved)
	return args.Error(0)
}

// SetDiscussionRequired moke discussion toggle
func (m *MockRealtimeGateway) SetDiscussionRequired(workspaceID, channelID, messageID string, isDiscussionRequired bool) error {
	args := m.Called(workspaceID, channelID, messageID, isDiscussionRequired)
	return args.Error(0)
}

// UpdateNotifyUser moke notify toggle
func (m *MockRealtimeGateway) UpdateNotifyUser(workspaceID, channelID, messageID string, isNotify bool) error {
	args := m.Called(workspaceID, channelID, messageID, isNotify)
	return args.Error(0)
}

// LikeMessage moke like
func (m *MockRealtimeGateway) LikeMessage(workspaceID, channelID, messageID string, isLiked bool) error {
	args := m.Called(workspaceID, channelID, messageID, isLiked)
	return args.Error(0)
}

// UnlikeMessage moke unlike
func (m *MockRealtimeGateway) UnlikeMessage(workspaceID, channelID, messageID string, isUnliked bool) error {
	args := m.Called(workspaceID, channelID, messageID, isUnliked)
	return args.Error(0)
}

// SetPinMessage moke pin
func (m *MockRealtimeGateway) SetPinMessage(workspaceID, channelID, messageID string) error {
	args := m.Called(workspaceID, channelID, messageID)
	return args.Error(0)
}

// RemovePinMessage moke unpin
func (m *MockRealtimeGateway) RemovePinMessage(workspaceID, channelID, messageID string) error {
	args := m.Called(workspaceID, channelID, messageID)
	return args.Error(0)
}

// NotificationRead moke notification read
func (m *MockRealtimeGateway) NotificationRead(notificationID string) error {
	args := m.Called(notificationID)
	return args.Error(0)
}
