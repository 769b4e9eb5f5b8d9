package app

import (
	"testing"

	"workspace_sync_client/internal/workspace/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// newSelectedStore 建立已選好 workspace/channel 的 store 供事件測試
func newSelectedStore(api *MockWorkspacesAPI, rt *MockRealtimeGateway) *Store {
	s := NewStore(api, rt)
	s.sessionData = &domain.SessionData{UserID: "user-self", DisplayName: "Self"}
	s.workspaces = []domain.Workspace{{ID: "ws-1", Name: "Main"}}
	cw := s.workspaces[0]
	s.currentWorkspace = &cw
	s.channels = []domain.Channel{
		{ID: "ch-1", Name: "general", TotalMsgCount: 3, TotalRead: 3},
		{ID: "ch-2", Name: "random", TotalMsgCount: 5, TotalRead: 5},
	}
	cc := s.channels[0]
	s.currentChannel = &cc
	s.channelUsers["user-self"] = s.sessionData.AsUser()
	s.channelUsers["user-a"] = &domain.User{ID: "user-a", DisplayName: "Alice"}
	return s
}

func seedMessage(s *Store, id string, createdAt domain.Millis) *domain.Message {
	m := &domain.Message{
		ID:        id,
		Content:   "original",
		CreatedBy: "user-a",
		Author:    s.channelUsers["user-a"],
		CreatedAt: createdAt,
		Status:    domain.MessageEventAdd,
	}
	s.messages = append(s.messages, m)
	return m
}

// 編輯事件必須是冪等的: 套用兩次與套用一次結果相同
func TestOnMessage_EditIdempotent(t *testing.T) {
	s := newSelectedStore(new(MockWorkspacesAPI), new(MockRealtimeGateway))
	seedMessage(s, "m-1", 1000)

	ev := domain.MessageEvent{
		WorkspaceID: "ws-1",
		ChannelID:   "ch-1",
		UserID:      "user-a",
		Payload: domain.MessagePayload{
			EventType: domain.MessageEventEdit,
			MessageID: "m-1",
			Content:   "edited",
		},
	}
	s.OnMessage(ev)
	s.OnMessage(ev)

	msgs := s.Messages()
	assert.Len(t, msgs, 1)
	assert.Equal(t, "edited", msgs[0].Content)
	assert.Equal(t, domain.MessageEventEdit, msgs[0].Status)
}

// 別的頻道的訊息事件必須被忽略
func TestOnMessage_MismatchedChannelIgnored(t *testing.T) {
	s := newSelectedStore(new(MockWorkspacesAPI), new(MockRealtimeGateway))
	seedMessage(s, "m-1", 1000)

	s.OnMessage(domain.MessageEvent{
		WorkspaceID: "ws-1",
		ChannelID:   "ch-2",
		Payload: domain.MessagePayload{
			EventType: domain.MessageEventEdit,
			MessageID: "m-1",
			Content:   "should not apply",
		},
	})

	assert.Equal(t, "original", s.Messages()[0].Content)
}

// 自己送出的 Add 回聲也走同一條事件路徑, 且不會重複插入
func TestOnMessage_AddAppliesOwnEchoOnce(t *testing.T) {
	s := newSelectedStore(new(MockWorkspacesAPI), new(MockRealtimeGateway))
	seedMessage(s, "m-1", 1000)

	ev := domain.MessageEvent{
		WorkspaceID: "ws-1",
		ChannelID:   "ch-1",
		MessageID:   "m-2",
		UserID:      "user-self",
		CreatedAt:   500,
		Payload: domain.MessagePayload{
			EventType: domain.MessageEventAdd,
			Content:   "mine",
		},
	}
	s.OnMessage(ev)
	s.OnMessage(ev)

	msgs := s.Messages()
	assert.Len(t, msgs, 2)
	// 排序不變量: created_at 遞增
	assert.Equal(t, "m-2", msgs[0].ID)
	assert.Equal(t, "m-1", msgs[1].ID)
	assert.Equal(t, "Self", msgs[0].Author.DisplayName)
}

// 刪除是狀態轉移, 內容保留
func TestOnMessage_DeleteRetainsContent(t *testing.T) {
	s := newSelectedStore(new(MockWorkspacesAPI), new(MockRealtimeGateway))
	seedMessage(s, "m-1", 1000)

	s.OnMessage(domain.MessageEvent{
		WorkspaceID: "ws-1",
		ChannelID:   "ch-1",
		UserID:      "user-a",
		CreatedAt:   2000,
		Payload: domain.MessagePayload{
			EventType: domain.MessageEventDelete,
			MessageID: "m-1",
		},
	})

	msg := s.Messages()[0]
	assert.Equal(t, domain.MessageEventDelete, msg.Status)
	assert.Equal(t, domain.Millis(2000), msg.DeletedAt)
	assert.Equal(t, "user-a", msg.DeletedBy)
	assert.Equal(t, "original", msg.Content)
}

// 回覆的新增必須重新開啟已解決的討論
func TestOnReply_AddReopensResolution(t *testing.T) {
	s := newSelectedStore(new(MockWorkspacesAPI), new(MockRealtimeGateway))
	parent := seedMessage(s, "m-1", 1000)
	parent.IsResolved = true

	s.OnReply(domain.ReplyEvent{
		WorkspaceID: "ws-1",
		ChannelID:   "ch-1",
		MessageID:   "r-1",
		UserID:      "user-a",
		CreatedAt:   1500,
		Payload: domain.ReplyPayload{
			EventType:       domain.MessageEventAdd,
			Content:         "a reply",
			ParentIDOfReply: "m-1",
		},
	})

	msg := s.Messages()[0]
	assert.False(t, msg.IsResolved)
	assert.Len(t, msg.Replies, 1)
	assert.Equal(t, "m-1", msg.Replies[0].ReplyToParentID)
	assert.Equal(t, domain.StringList{"r-1"}, msg.ReplyIDs)
}

// 回覆的編輯透過 replytoparentid 找到父訊息
func TestOnReply_EditLocatesParentByEditField(t *testing.T) {
	s := newSelectedStore(new(MockWorkspacesAPI), new(MockRealtimeGateway))
	parent := seedMessage(s, "m-1", 1000)
	parent.Replies = []domain.Reply{{ID: "r-1", Content: "before", ReplyToParentID: "m-1"}}

	s.OnReply(domain.ReplyEvent{
		WorkspaceID: "ws-1",
		ChannelID:   "ch-1",
		Payload: domain.ReplyPayload{
			EventType:       domain.MessageEventEdit,
			MessageID:       "r-1",
			Content:         "after",
			ReplyToParentID: "m-1",
		},
	})

	assert.Equal(t, "after", s.Messages()[0].Replies[0].Content)
}

// 未讀不變量: totalMsgCount - total_read 永不為負
func TestOnNewMessage_UnreadInvariant(t *testing.T) {
	s := newSelectedStore(new(MockWorkspacesAPI), new(MockRealtimeGateway))

	// 目前頻道: 計數與已讀一起前進
	for i := 0; i < 3; i++ {
		s.OnNewMessage(domain.NewMessageEvent{ChannelID: "ch-1"})
	}
	// 非目前頻道: 只有計數前進
	for i := 0; i < 2; i++ {
		s.OnNewMessage(domain.NewMessageEvent{ChannelID: "ch-2"})
	}

	for _, c := range s.Channels() {
		assert.GreaterOrEqual(t, c.UnreadCount(), 0, c.ID)
	}
	channels := s.Channels()
	assert.Equal(t, 0, channels[0].UnreadCount())
	assert.Equal(t, 2, channels[1].UnreadCount())
	assert.Equal(t, 6, s.CurrentChannel().TotalMsgCount)
	assert.Equal(t, 6, s.CurrentChannel().TotalRead)
}

// 編輯廣播不動未讀計數
func TestOnNewMessage_EditDoesNotCount(t *testing.T) {
	s := newSelectedStore(new(MockWorkspacesAPI), new(MockRealtimeGateway))
	s.OnNewMessage(domain.NewMessageEvent{ChannelID: "ch-2", IsEdit: true})
	assert.Equal(t, 0, s.Channels()[1].UnreadCount())
}

// 同一人連按兩次讚: 計數 +2 (無去重), 本地集合仍只含一次
func TestOnLikeMessage_CounterVersusSet(t *testing.T) {
	s := newSelectedStore(new(MockWorkspacesAPI), new(MockRealtimeGateway))
	seedMessage(s, "m-1", 1000)

	ev := domain.LikeEvent{MessageID: "m-1", UserID: "user-self", IsLiked: true}
	s.OnLikeMessage(ev)
	s.OnLikeMessage(ev)

	assert.Equal(t, 2, s.Messages()[0].LikedByCount)
	assert.Equal(t, []string{"m-1"}, s.LikedMessageIDs())
	assert.True(t, s.HasLiked("m-1"))
}

// 未讚先收到取消讚: 計數在零封底, 不得變負
func TestOnLikeMessage_UnlikeFloorsAtZero(t *testing.T) {
	s := newSelectedStore(new(MockWorkspacesAPI), new(MockRealtimeGateway))
	seedMessage(s, "m-1", 1000)

	s.OnLikeMessage(domain.LikeEvent{MessageID: "m-1", UserID: "user-a", IsLiked: false})

	assert.Equal(t, 0, s.Messages()[0].LikedByCount)
}

// unLikeMessage 事件是刻意停用的 no-op
func TestOnUnlikeMessage_Disabled(t *testing.T) {
	s := newSelectedStore(new(MockWorkspacesAPI), new(MockRealtimeGateway))
	msg := seedMessage(s, "m-1", 1000)
	msg.LikedByCount = 3

	s.OnUnlikeMessage(domain.UnlikeEvent{MessageID: "m-1", UserID: "user-self", IsUnliked: true})

	assert.Equal(t, 3, s.Messages()[0].LikedByCount)
}

// 釘選一致性: current 與列表項都指向同一訊息, 解除後兩者皆清空
func TestPinConsistency(t *testing.T) {
	s := newSelectedStore(new(MockWorkspacesAPI), new(MockRealtimeGateway))
	seedMessage(s, "m-1", 1000)

	s.OnPinAdded(domain.PinEvent{WorkspaceID: "ws-1", ChannelID: "ch-1", MessageID: "m-1"})

	cur := s.CurrentChannel()
	assert.Equal(t, "m-1", cur.PinnedMessageID)
	assert.NotNil(t, cur.PinnedMsg)
	entry := s.Channels()[0]
	assert.Equal(t, "m-1", entry.PinnedMessageID)
	assert.NotNil(t, entry.PinnedMsg)

	s.OnPinRemoved(domain.UnpinEvent{WorkspaceID: "ws-1", ChannelID: "ch-1", MessageID: "m-1"})

	cur = s.CurrentChannel()
	assert.Empty(t, cur.PinnedMessageID)
	assert.Nil(t, cur.PinnedMsg)
	entry = s.Channels()[0]
	assert.Empty(t, entry.PinnedMessageID)
	assert.Nil(t, entry.PinnedMsg)
}

// 非目前頻道的釘選只更新列表項
func TestOnPinAdded_NonCurrentChannelBadgeOnly(t *testing.T) {
	s := newSelectedStore(new(MockWorkspacesAPI), new(MockRealtimeGateway))

	s.OnPinAdded(domain.PinEvent{WorkspaceID: "ws-1", ChannelID: "ch-2", MessageID: "m-9"})

	assert.Equal(t, "m-9", s.Channels()[1].PinnedMessageID)
	assert.Empty(t, s.CurrentChannel().PinnedMessageID)
}

// 釘選訊息被編輯時, 兩份反正規化副本都要跟著更新
func TestOnMessage_EditPatchesPinCopies(t *testing.T) {
	s := newSelectedStore(new(MockWorkspacesAPI), new(MockRealtimeGateway))
	seedMessage(s, "m-1", 1000)
	s.OnPinAdded(domain.PinEvent{WorkspaceID: "ws-1", ChannelID: "ch-1", MessageID: "m-1"})

	s.OnMessage(domain.MessageEvent{
		WorkspaceID: "ws-1",
		ChannelID:   "ch-1",
		UserID:      "user-a",
		Payload: domain.MessagePayload{
			EventType: domain.MessageEventEdit,
			MessageID: "m-1",
			Content:   "edited",
		},
	})

	assert.Equal(t, "edited", s.CurrentChannel().PinnedMsg.Content)
	assert.Equal(t, "edited", s.Channels()[0].PinnedMsg.Content)
}

// 名錄只增不減: 後續合併不會移除已知使用者
func TestDirectoryAdditivity(t *testing.T) {
	s := newSelectedStore(new(MockWorkspacesAPI), new(MockRealtimeGateway))

	s.OnMessage(domain.MessageEvent{
		WorkspaceID: "ws-1",
		ChannelID:   "ch-1",
		MessageID:   "m-2",
		UserID:      "user-b",
		CreatedAt:   2000,
		UsersData:   domain.Directory{"user-b": {ID: "user-b", DisplayName: "Bob"}},
		Payload:     domain.MessagePayload{EventType: domain.MessageEventAdd, Content: "hi"},
	})
	s.OnMessage(domain.MessageEvent{
		WorkspaceID: "ws-1",
		ChannelID:   "ch-1",
		MessageID:   "m-3",
		UserID:      "user-c",
		CreatedAt:   3000,
		UsersData:   domain.Directory{"user-c": {ID: "user-c", DisplayName: "Cara"}},
		Payload:     domain.MessagePayload{EventType: domain.MessageEventAdd, Content: "yo"},
	})

	users := s.ChannelUsers()
	assert.Contains(t, users, "user-self")
	assert.Contains(t, users, "user-a")
	assert.Contains(t, users, "user-b")
	assert.Contains(t, users, "user-c")
}

// 通知訂閱者更新: push 與 splice
func TestOnNotifyUsersUpdate(t *testing.T) {
	s := newSelectedStore(new(MockWorkspacesAPI), new(MockRealtimeGateway))
	seedMessage(s, "m-1", 1000)

	s.OnNotifyUsersUpdate(domain.NotifyUpdateEvent{MessageID: "m-1", UserID: "user-a", IsNotify: true})
	s.OnNotifyUsersUpdate(domain.NotifyUpdateEvent{MessageID: "m-1", UserID: "user-a", IsNotify: true})
	assert.Equal(t, domain.StringList{"user-a"}, s.Messages()[0].NotifyUserIDs)

	s.OnNotifyUsersUpdate(domain.NotifyUpdateEvent{MessageID: "m-1", UserID: "user-a", IsNotify: false})
	assert.Empty(t, s.Messages()[0].NotifyUserIDs)
}

// 先前取得的快照不受訂閱者移除影響
func TestOnNotifyUsersUpdate_SnapshotUnaffected(t *testing.T) {
	s := newSelectedStore(new(MockWorkspacesAPI), new(MockRealtimeGateway))
	m := seedMessage(s, "m-1", 1000)
	m.NotifyUserIDs = domain.StringList{"user-a", "user-b"}
	snapshot := s.Messages()

	s.OnNotifyUsersUpdate(domain.NotifyUpdateEvent{MessageID: "m-1", UserID: "user-a", IsNotify: false})

	assert.Equal(t, domain.StringList{"user-a", "user-b"}, snapshot[0].NotifyUserIDs)
	assert.Equal(t, domain.StringList{"user-b"}, s.Messages()[0].NotifyUserIDs)
}

// 目標不在本地的事件靜默丟棄
func TestStaleEventTargetSilentlyDropped(t *testing.T) {
	s := newSelectedStore(new(MockWorkspacesAPI), new(MockRealtimeGateway))

	assert.NotPanics(t, func() {
		s.OnResolved(domain.ResolveEvent{MessageID: "missing", IsResolved: true})
		s.OnDiscussionRequired(domain.DiscussionEvent{MessageID: "missing", IsDiscussionRequired: true})
		s.OnLikeMessage(domain.LikeEvent{MessageID: "missing", UserID: "user-self", IsLiked: true})
		s.OnNotifyUsersUpdate(domain.NotifyUpdateEvent{MessageID: "missing", UserID: "user-a", IsNotify: true})
	})
	assert.Empty(t, s.Messages())
}

// 成員新增事件: 抓明細, 合併名錄, 去重後寫入成員列表
func TestOnNewUserAdded(t *testing.T) {
	api := new(MockWorkspacesAPI)
	s := newSelectedStore(api, new(MockRealtimeGateway))
	s.channels[0].UserIDs = domain.StringList{"user-self"}
	s.currentChannel.UserIDs = domain.StringList{"user-self"}

	api.On("UsersDetailByIDs", mock.Anything, []string{"user-new"}).
		Return(domain.Directory{"user-new": {ID: "user-new", DisplayName: "Newbie"}}, nil)

	s.OnNewUserAdded(domain.MembershipEvent{
		WorkspaceID: "ws-1",
		ChannelID:   "ch-1",
		UserIDs:     domain.StringList{"user-self", "user-new"},
	})

	assert.Contains(t, s.ChannelUsers(), "user-new")
	assert.Contains(t, s.WorkspaceUsers(), "user-new")
	assert.Equal(t, domain.StringList{"user-self", "user-new"}, s.Channels()[0].UserIDs)
	assert.Equal(t, domain.StringList{"user-self", "user-new"}, s.CurrentChannel().UserIDs)
	api.AssertExpectations(t)
}

// 斷線只清 connected 旗標, 實體狀態原封不動
func TestOnDisconnected_RetainsState(t *testing.T) {
	s := newSelectedStore(new(MockWorkspacesAPI), new(MockRealtimeGateway))
	seedMessage(s, "m-1", 1000)
	s.connected = true

	s.OnDisconnected()

	assert.False(t, s.Connected())
	assert.Len(t, s.Messages(), 1)
	assert.NotNil(t, s.CurrentChannel())
}

// 管理員把自己移出頻道: 頻道從本地消失
func TestOnUserRemovedByAdmin_Self(t *testing.T) {
	s := newSelectedStore(new(MockWorkspacesAPI), new(MockRealtimeGateway))

	s.OnUserRemovedByAdmin(domain.ChannelRemovedEvent{
		WorkspaceID: "ws-1",
		ChannelID:   "ch-1",
		UserIDs:     domain.StringList{"user-self"},
	})

	assert.Nil(t, s.CurrentChannel())
	assert.Len(t, s.Channels(), 1)
	assert.Equal(t, "ch-2", s.Channels()[0].ID)
}
