package repository

import (
	"context"

	"workspace_sync_client/internal/workspace/domain"
)

// WorkspaceListQuery parameters for the workspace list call. Advanced mode
// resolves a deep link by course/workspace/channel/message id in one call.
type WorkspaceListQuery struct {
	IsAdvanced  bool
	CourseID    string
	WorkspaceID string
	ChannelID   string
	MessageID   string
}

// WorkspaceListResult hydrated workspace list response
type WorkspaceListResult struct {
	Error                 string                     `json:"error,omitempty"`
	Disabled              bool                       `json:"disabled,omitempty"`
	Workspaces            []domain.Workspace         `json:"workspacesArr,omitempty"`
	LastActiveWorkspaceID string                     `json:"lastActiveWorkspaceId,omitempty"`
	Channels              []domain.Channel           `json:"channelsArr,omitempty"`
	LastActiveChannelID   string                     `json:"lastActiveChannelId,omitempty"`
	UsersData             domain.Directory           `json:"usersData,omitempty"`
	Messages              []domain.Message           `json:"messagesArr,omitempty"`
}

// ChannelListResult channel list response
type ChannelListResult struct {
	Error               string           `json:"error,omitempty"`
	Channels            []domain.Channel `json:"channelsArr,omitempty"`
	LastActiveChannelID string           `json:"lastActiveChannelId,omitempty"`
}

// MessageListQuery parameters for a paginated message fetch
type MessageListQuery struct {
	WorkspaceID     string
	ChannelID       string
	IsPrevious      bool
	Limit           int
	LastSeen        domain.Millis
	MessageID       string
	IncludeLastSeen bool
}

// MessageListResult paginated message fetch response
type MessageListResult struct {
	Error     string           `json:"error,omitempty"`
	Messages  []domain.Message `json:"messagesArr"`
	UsersData domain.Directory `json:"usersData,omitempty"`
}

// RepliesResult reply list response
type RepliesResult struct {
	Error     string           `json:"error,omitempty"`
	Replies   []domain.Reply   `json:"repliesArr"`
	UsersData domain.Directory `json:"usersData,omitempty"`
}

// ActivityQuery parameters for the user activity feed fetch
type ActivityQuery struct {
	WorkspaceID string
	ChannelID   string
	IsPrevious  bool
	Limit       int
	LastSeen    domain.Millis
}

// ActivityResult user activity feed response
type ActivityResult struct {
	Error      string                     `json:"error,omitempty"`
	Activities []domain.UserActivity      `json:"userActivitiesArr"`
	Messages   map[string]*domain.Message `json:"messagesObj,omitempty"`
}

// BatchUsers roster user ids of one batch
type BatchUsers struct {
	ID      string            `json:"id"`
	UserIDs domain.StringList `json:"userIds"`
}

// LoginPayload credentials for the auth API
type LoginPayload struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

// SignupPayload registration data for the auth API
type SignupPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Token    string `json:"token"`
}

// CreateChannelPayload channel creation data
type CreateChannelPayload struct {
	WorkspaceID   string             `json:"workspaceId"`
	Name          string             `json:"name"`
	Kind          domain.ChannelKind `json:"type"`
	UserIDsToAdd  []string           `json:"userIdsToAdd,omitempty"`
	PrevChannelID string             `json:"prevChannelId,omitempty"`
}

// WorkspacesAPI REST surface of the two persistence/administration APIs plus
// the static storage API.
type WorkspacesAPI interface {
	Login(ctx context.Context, payload LoginPayload) error
	Signup(ctx context.Context, payload SignupPayload) error
	ForgotPassword(ctx context.Context, email, reCaptcha string) error
	ValidatePasswordResetToken(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, password, token string) error
	Logout(ctx context.Context) error
	GetSessionData(ctx context.Context) (*domain.SessionData, error)

	CreateWorkspace(ctx context.Context, name string, userIDsToAdd []string) (string, error)
	ListWorkspaces(ctx context.Context, q WorkspaceListQuery) (*WorkspaceListResult, error)
	GetCourseBatches(ctx context.Context, courseID string) ([]domain.Batch, error)

	ListChannels(ctx context.Context, workspaceID string) (*ChannelListResult, error)
	CreateChannel(ctx context.Context, payload CreateChannelPayload) (string, error)
	UpdateChannelName(ctx context.Context, name, channelID string) error
	SetChannelWritePermission(ctx context.Context, permission domain.WritePermission, channelID string) error
	AddUserToChannel(ctx context.Context, userEmail, workspaceID, channelID string) error
	AddBatchToChannel(ctx context.Context, batchID, workspaceID, channelID string) error
	RemoveUserFromChannel(ctx context.Context, userID, channelID, workspaceID string) error
	DeleteChannel(ctx context.Context, channelID, workspaceID string) error
	LeaveChannelPermanently(ctx context.Context, channelID string) error
	EditInviteLink(ctx context.Context, suffix, channelID, workspaceID string) (string, error)
	CustomLinkJoin(ctx context.Context, suffix string) error
	GetOnlineUsers(ctx context.Context, channelID string) ([]string, error)

	ListMessages(ctx context.Context, q MessageListQuery) (*MessageListResult, error)
	ListReplies(ctx context.Context, workspaceID, channelID, parentID string) (*RepliesResult, error)
	ListUserActivity(ctx context.Context, q ActivityQuery) (*ActivityResult, error)

	UsersDetailByIDs(ctx context.Context, userIDs []string) (domain.Directory, error)
	UsersByNamePrefix(ctx context.Context, channelID, prefix string) (domain.Directory, error)
	ChannelUsersList(ctx context.Context, channelID string) (domain.Directory, error)
	BatchUserIDs(ctx context.Context, batchIDs []string) ([]BatchUsers, error)

	UploadAttachment(ctx context.Context, filename string, content []byte) (string, error)
	ProfileUploadURL() string
	SetProfile(ctx context.Context, profile map[string]string) error
}

// JoinChannelAck ack payload of the joinChannel RPC. The join doubles as an
// access check and returns the joining user's liked message ids.
type JoinChannelAck struct {
	Error           string            `json:"error,omitempty"`
	LikedMessageIDs domain.StringList `json:"likedMessageIds"`
}

// EventSink receives dispatched realtime events. The store implements this;
// subscription is lifecycle-scoped, not wired at package load.
type EventSink interface {
	OnConnected()
	OnDisconnected()
	OnSessionData(data domain.SessionData)

	OnMessage(ev domain.MessageEvent)
	OnNewMessage(ev domain.NewMessageEvent)
	OnReply(ev domain.ReplyEvent)
	OnResolved(ev domain.ResolveEvent)
	OnDiscussionRequired(ev domain.DiscussionEvent)
	OnNotifyUsersUpdate(ev domain.NotifyUpdateEvent)
	OnLikeMessage(ev domain.LikeEvent)
	OnUnlikeMessage(ev domain.UnlikeEvent)
	OnPinAdded(ev domain.PinEvent)
	OnPinRemoved(ev domain.UnpinEvent)
	OnNewUserAdded(ev domain.MembershipEvent)
	OnChannelUserChange(ev domain.MembershipEvent)
	OnChannelUserDataChange(ev domain.MembershipEvent)
	OnChannelDeleted(ev domain.ChannelRemovedEvent)
	OnUserRemovedByAdmin(ev domain.ChannelRemovedEvent)
	OnUserJoinedChannel(ev domain.PresenceEvent)
	OnUserLeftChannel(ev domain.PresenceEvent)
}

// RealtimeGateway the persistent bidirectional connection: room membership,
// fire-and-forget mutations and the event stream.
type RealtimeGateway interface {
	// Connect blocks until the connection is established or ctx expires.
	Connect(ctx context.Context) error
	Close() error
	Connected() bool

	// Subscribe registers the single event sink, returning a teardown func.
	Subscribe(sink EventSink) func()

	JoinWorkspace(workspaceID string) error
	LeaveWorkspace(workspaceID string) error
	JoinChannel(ctx context.Context, channelID, workspaceID string) (*JoinChannelAck, error)
	LeaveChannel(channelID string) error

	SendMessage(payload domain.MessagePayload, workspaceID, channelID string) error
	SendReply(payload domain.ReplyPayload, workspaceID, channelID string) error
	SetResolved(workspaceID, channelID, messageID string, isResolved bool) error
	SetDiscussionRequired(workspaceID, channelID, messageID string, isDiscussionRequired bool) error
	UpdateNotifyUser(workspaceID, channelID, messageID string, isNotify bool) error
	LikeMessage(workspaceID, channelID, messageID string, isLiked bool) error
	UnlikeMessage(workspaceID, channelID, messageID string, isUnliked bool) error
	SetPinMessage(workspaceID, channelID, messageID string) error
	RemovePinMessage(workspaceID, channelID, messageID string) error
	NotificationRead(notificationID string) error
}
