package app

import (
	"context"
	"testing"

	"workspace_sync_client/internal/workspace/domain"
	"workspace_sync_client/internal/workspace/repository"
	errprocess "workspace_sync_client/pkg/err"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// 切換頻道: 舊頻道先標已讀, 離開舊房間, join 新房間並帶回讚過的集合
func TestSetCurrentChannel_Switch(t *testing.T) {
	ctx := context.Background()
	rt := new(MockRealtimeGateway)
	s := newSelectedStore(new(MockWorkspacesAPI), rt)
	s.channels[1].TotalMsgCount = 9
	s.currentChannel.TotalMsgCount = 7
	s.channels[0].TotalMsgCount = 7
	s.likedMessageIDs["m-old"] = struct{}{}
	seedMessage(s, "m-1", 1000)

	rt.On("LeaveChannel", "ch-1").Return(nil)
	rt.On("JoinChannel", ctx, "ch-2", "ws-1").Return(&repository.JoinChannelAck{
		LikedMessageIDs: domain.StringList{"m-7"},
	}, nil)

	ok := s.SetCurrentChannel(ctx, "ch-2")

	assert.True(t, ok)
	assert.Equal(t, "ch-2", s.CurrentChannel().ID)
	assert.Empty(t, s.Messages())
	assert.Equal(t, []string{"m-7"}, s.LikedMessageIDs())

	// 舊頻道的樂觀讀取回執
	prev := s.Channels()[0]
	assert.Equal(t, prev.TotalMsgCount, prev.TotalRead)
	assert.NotZero(t, prev.LastSeen)

	// 名錄重置為只含 session user
	users := s.ChannelUsers()
	assert.Len(t, users, 1)
	assert.Contains(t, users, "user-self")
	rt.AssertExpectations(t)
}

// join 被拒: 回傳 false, 退化為沒有目前頻道, 不丟錯誤
func TestSetCurrentChannel_JoinRejected(t *testing.T) {
	ctx := context.Background()
	rt := new(MockRealtimeGateway)
	s := newSelectedStore(new(MockWorkspacesAPI), rt)

	rt.On("LeaveChannel", "ch-1").Return(nil)
	rt.On("JoinChannel", ctx, "ch-2", "ws-1").Return(&repository.JoinChannelAck{Error: "not allowed"}, nil)

	ok := s.SetCurrentChannel(ctx, "ch-2")

	assert.False(t, ok)
	assert.Nil(t, s.CurrentChannel())
}

// 已是目前頻道或未知頻道: no-op
func TestSetCurrentChannel_NoOp(t *testing.T) {
	s := newSelectedStore(new(MockWorkspacesAPI), new(MockRealtimeGateway))
	assert.False(t, s.SetCurrentChannel(context.Background(), "ch-1"))
	assert.False(t, s.SetCurrentChannel(context.Background(), "ch-unknown"))
}

// 切換頻道會讓仍在途的補抓作廢 (selection epoch)
func TestSetCurrentChannel_BumpsEpoch(t *testing.T) {
	rt := new(MockRealtimeGateway)
	s := newSelectedStore(new(MockWorkspacesAPI), rt)
	before := s.epoch

	rt.On("LeaveChannel", "ch-1").Return(nil)
	rt.On("JoinChannel", mock.Anything, "ch-2", "ws-1").Return(&repository.JoinChannelAck{}, nil)
	s.SetCurrentChannel(context.Background(), "ch-2")

	assert.Greater(t, s.epoch, before)
}

// 建頻道: 重覆名稱在打網路之前就擋下
func TestCreateChannel_DuplicateName(t *testing.T) {
	api := new(MockWorkspacesAPI)
	s := newSelectedStore(api, new(MockRealtimeGateway))

	err := s.CreateChannel(context.Background(), "General", domain.ChannelBasic, nil)

	assert.ErrorIs(t, err, errprocess.ErrValidation)
	api.AssertNotCalled(t, "CreateChannel", mock.Anything, mock.Anything)
}

// 改名: 列表項與目前頻道兩份都要更新
func TestUpdateChannelName_PatchesBothCopies(t *testing.T) {
	ctx := context.Background()
	api := new(MockWorkspacesAPI)
	api.On("UpdateChannelName", ctx, "announcements", "ch-1").Return(nil)
	s := newSelectedStore(api, new(MockRealtimeGateway))

	assert.NoError(t, s.UpdateChannelName(ctx, "announcements", "ch-1"))
	assert.Equal(t, "announcements", s.Channels()[0].Name)
	assert.Equal(t, "announcements", s.CurrentChannel().Name)
}

// 權限變更: 兩份都要更新
func TestUpdateChannelPermission_PatchesBothCopies(t *testing.T) {
	ctx := context.Background()
	api := new(MockWorkspacesAPI)
	api.On("SetChannelWritePermission", ctx, domain.WriteAdminsOnly, "ch-1").Return(nil)
	s := newSelectedStore(api, new(MockRealtimeGateway))

	assert.NoError(t, s.UpdateChannelPermission(ctx, domain.WriteAdminsOnly, "ch-1"))
	assert.Equal(t, domain.WriteAdminsOnly, s.Channels()[0].WritePermissionType)
	assert.Equal(t, domain.WriteAdminsOnly, s.CurrentChannel().WritePermissionType)
}

// 加批次: 兩份的 batch_ids 都追加且去重
func TestAddBatchInChannel(t *testing.T) {
	ctx := context.Background()
	api := new(MockWorkspacesAPI)
	api.On("AddBatchToChannel", ctx, "batch-1", "ws-1", "ch-1").Return(nil)
	s := newSelectedStore(api, new(MockRealtimeGateway))

	assert.NoError(t, s.AddBatchInChannel(ctx, "batch-1", "ch-1"))
	assert.Equal(t, domain.StringList{"batch-1"}, s.Channels()[0].BatchIDs)
	assert.Equal(t, domain.StringList{"batch-1"}, s.CurrentChannel().BatchIDs)
}

// 刪頻道: 本地列表移除, 目前頻道與訊息清空
func TestDeleteChannel_DropsLocalState(t *testing.T) {
	ctx := context.Background()
	api := new(MockWorkspacesAPI)
	api.On("DeleteChannel", ctx, "ch-1", "ws-1").Return(nil)
	s := newSelectedStore(api, new(MockRealtimeGateway))
	seedMessage(s, "m-1", 1000)

	assert.NoError(t, s.DeleteChannel(ctx, "ch-1"))
	assert.Len(t, s.Channels(), 1)
	assert.Nil(t, s.CurrentChannel())
	assert.Empty(t, s.Messages())
}

// updateChannelLastSeen: 指定頻道標為已讀
func TestUpdateChannelLastSeen(t *testing.T) {
	s := newSelectedStore(new(MockWorkspacesAPI), new(MockRealtimeGateway))
	s.channels[1].TotalMsgCount = 8
	s.channels[1].TotalRead = 3

	s.UpdateChannelLastSeen("ch-2")

	entry := s.Channels()[1]
	assert.Equal(t, 8, entry.TotalRead)
	assert.Equal(t, 0, entry.UnreadCount())
	assert.NotZero(t, entry.LastSeen)
}
