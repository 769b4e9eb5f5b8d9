package domain

// MessageEventKind message mutation discriminator on the realtime channel
type MessageEventKind int

const (
	// MessageEventAdd message created
	MessageEventAdd MessageEventKind = 1
	// MessageEventEdit message content patched
	MessageEventEdit MessageEventKind = 2
	// MessageEventDelete message status-transitioned to deleted
	MessageEventDelete MessageEventKind = 3
)

// WorkspaceKind workspace category
type WorkspaceKind int

const (
	// WorkspaceBasic plain workspace
	WorkspaceBasic WorkspaceKind = 1
	// WorkspaceCourse course workspace, carries batch rosters
	WorkspaceCourse WorkspaceKind = 2
	// WorkspaceClass class workspace
	WorkspaceClass WorkspaceKind = 3
)

// ChannelKind channel category
type ChannelKind int

const (
	// ChannelBasic plain channel
	ChannelBasic ChannelKind = 1
	// ChannelCourse course channel
	ChannelCourse ChannelKind = 2
	// ChannelClass class channel
	ChannelClass ChannelKind = 3
	// ChannelPrivate 1:1 DM channel, keyed by membership not by name
	ChannelPrivate ChannelKind = 4
)

// WritePermission channel write permission
type WritePermission int

const (
	// WriteEveryone everyone may post
	WriteEveryone WritePermission = 1
	// WriteAdminsOnly all non students
	WriteAdminsOnly WritePermission = 2
)

// UserActivityKind activity feed entry type
type UserActivityKind int

const (
	// ActivityAddedToWorkspace user added to a workspace
	ActivityAddedToWorkspace UserActivityKind = 1
	// ActivityRemovedFromWorkspace user removed from a workspace
	ActivityRemovedFromWorkspace UserActivityKind = 2
	// ActivityAddedToChannel user added to a channel
	ActivityAddedToChannel UserActivityKind = 3
	// ActivityRemovedFromChannel user removed from a channel
	ActivityRemovedFromChannel UserActivityKind = 4
	// ActivityAddedMessage user posted a message
	ActivityAddedMessage UserActivityKind = 5
	// ActivityAddedReply user posted a reply
	ActivityAddedReply UserActivityKind = 6
	// ActivityMentioned user mentioned in a message
	ActivityMentioned UserActivityKind = 7
	// ActivityMentionedInReply user mentioned in a reply
	ActivityMentionedInReply UserActivityKind = 8
)

// Event 即時事件名稱 (與伺服器協議一致)
type Event string

const (
	// EventMessage full message add/edit/delete broadcast
	EventMessage Event = "message"
	// EventNewMessage counter-only broadcast, distinct from EventMessage
	EventNewMessage Event = "newMessage"
	// EventReply reply add/edit/delete broadcast
	EventReply Event = "reply"
	// EventNewUserAdded users added to the current channel
	EventNewUserAdded Event = "newUserAdded"
	// EventChannelUserChange invited users appended to channel membership
	EventChannelUserChange Event = "channelUserChange"
	// EventChannelUserDataChange channel directory must be refetched
	EventChannelUserDataChange Event = "channelUserDataChange"
	// EventIsResolved resolve flag toggled
	EventIsResolved Event = "isResolved"
	// EventIsDiscussionRequired discussion flag toggled
	EventIsDiscussionRequired Event = "isDiscussionRequired"
	// EventUpdateNotifyUsers notify-subscriber list changed
	EventUpdateNotifyUsers Event = "updateNotifyUsersListOfMessage"
	// EventLikeMessage like counter changed
	EventLikeMessage Event = "likeMessage"
	// EventUnlikeMessage unlike broadcast (handler intentionally disabled)
	EventUnlikeMessage Event = "unLikeMessage"
	// EventUserJoinedChannel presence join broadcast
	EventUserJoinedChannel Event = "userJoinedChannel"
	// EventUserLeftChannel presence leave broadcast
	EventUserLeftChannel Event = "userLeftChannel"
	// EventAddPin message pinned
	EventAddPin Event = "addPin"
	// EventRemovePin message unpinned
	EventRemovePin Event = "removePin"
	// EventDeleteChannel channel deleted by its admin
	EventDeleteChannel Event = "deleteChannel"
	// EventRemoveUserByAdmin user removed from channel by its admin
	EventRemoveUserByAdmin Event = "removeUserByChannelAdmin"
)

// Emit 即時請求名稱 (客戶端發出)
type Emit string

const (
	// EmitJoinWorkspace join a workspace room
	EmitJoinWorkspace Emit = "joinWorkspace"
	// EmitLeaveWorkspace leave a workspace room
	EmitLeaveWorkspace Emit = "leaveWorkspace"
	// EmitJoinChannel join a channel room, doubles as access check
	EmitJoinChannel Emit = "joinChannel"
	// EmitLeaveChannel leave a channel room
	EmitLeaveChannel Emit = "leaveChannel"
	// EmitMessage fire a message mutation
	EmitMessage Emit = "message"
	// EmitReply fire a reply mutation
	EmitReply Emit = "reply"
	// EmitNotificationRead mark a notification read
	EmitNotificationRead Emit = "notificationRead"
	// EmitIsResolved toggle the resolve flag
	EmitIsResolved Emit = "isResolved"
	// EmitIsDiscussionRequired toggle the discussion flag
	EmitIsDiscussionRequired Emit = "isDiscussionRequired"
	// EmitUpdateNotifyUser add/remove a notify subscriber
	EmitUpdateNotifyUser Emit = "updateNotifyUser"
	// EmitLikeMessage like/unlike a message
	EmitLikeMessage Emit = "likeMessage"
	// EmitUnlikeMessage legacy unlike path
	EmitUnlikeMessage Emit = "unLikeMessage"
	// EmitSetPinMessage pin a message
	EmitSetPinMessage Emit = "setPinMessage"
	// EmitRemovePinMessage unpin a message
	EmitRemovePinMessage Emit = "removePinMessage"
)
