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

// init: 取 session, 訂閱事件, 建立即時連線
func TestInit(t *testing.T) {
	ctx := context.Background()
	api := new(MockWorkspacesAPI)
	rt := new(MockRealtimeGateway)
	s := NewStore(api, rt)

	api.On("GetSessionData", ctx).Return(&domain.SessionData{UserID: "user-self", DisplayName: "Self"}, nil)
	rt.On("Subscribe", s).Return(func() {})
	rt.On("Connect", ctx).Return(nil)

	assert.NoError(t, s.Init(ctx))
	assert.Equal(t, "user-self", s.Session().UserID)
	rt.AssertExpectations(t)
}

// 沒有 session: SessionExpired, 不建立連線
func TestInit_SessionExpired(t *testing.T) {
	ctx := context.Background()
	api := new(MockWorkspacesAPI)
	rt := new(MockRealtimeGateway)
	s := NewStore(api, rt)

	api.On("GetSessionData", ctx).Return(nil, errprocess.ErrSessionExpired)

	assert.ErrorIs(t, s.Init(ctx), errprocess.ErrSessionExpired)
	rt.AssertNotCalled(t, "Connect", mock.Anything)
}

// 連線逾時原樣往上傳, caller 可重試 init
func TestInit_ConnectionTimeout(t *testing.T) {
	ctx := context.Background()
	api := new(MockWorkspacesAPI)
	rt := new(MockRealtimeGateway)
	s := NewStore(api, rt)

	api.On("GetSessionData", ctx).Return(&domain.SessionData{UserID: "user-self"}, nil)
	rt.On("Subscribe", s).Return(func() {})
	rt.On("Connect", ctx).Return(errprocess.ErrConnectionTimeout)

	assert.ErrorIs(t, s.Init(ctx), errprocess.ErrConnectionTimeout)
}

// 切換 workspace: 依序離開舊房間, 加入新房間, 重置頻道層狀態
func TestSetCurrentWorkspace_Switch(t *testing.T) {
	ctx := context.Background()
	rt := new(MockRealtimeGateway)
	s := newSelectedStore(new(MockWorkspacesAPI), rt)
	s.workspaces = append(s.workspaces, domain.Workspace{ID: "ws-2", Name: "Second"})
	seedMessage(s, "m-1", 1000)

	rt.On("LeaveWorkspace", "ws-1").Return(nil)
	rt.On("LeaveChannel", "ch-1").Return(nil)
	rt.On("JoinWorkspace", "ws-2").Return(nil)

	ok := s.SetCurrentWorkspace(ctx, "ws-2")

	assert.True(t, ok)
	assert.Equal(t, "ws-2", s.CurrentWorkspace().ID)
	assert.Empty(t, s.Channels())
	assert.Empty(t, s.DMs())
	assert.Nil(t, s.CurrentChannel())
	assert.Empty(t, s.Messages())
	rt.AssertExpectations(t)
}

// 已是目前的或未知的 workspace: no-op
func TestSetCurrentWorkspace_NoOp(t *testing.T) {
	s := newSelectedStore(new(MockWorkspacesAPI), new(MockRealtimeGateway))
	assert.False(t, s.SetCurrentWorkspace(context.Background(), "ws-1"))
	assert.False(t, s.SetCurrentWorkspace(context.Background(), "ws-unknown"))
}

// course workspace 才抓批次名冊
func TestSetCurrentWorkspace_CourseFetchesBatches(t *testing.T) {
	ctx := context.Background()
	api := new(MockWorkspacesAPI)
	rt := new(MockRealtimeGateway)
	s := newSelectedStore(api, rt)
	s.workspaces = append(s.workspaces, domain.Workspace{
		ID: "ws-course", Name: "Course", Kind: domain.WorkspaceCourse, CourseID: "course-1",
	})

	rt.On("LeaveWorkspace", "ws-1").Return(nil)
	rt.On("LeaveChannel", "ch-1").Return(nil)
	rt.On("JoinWorkspace", "ws-course").Return(nil)
	api.On("GetCourseBatches", ctx, "course-1").Return([]domain.Batch{{ID: "batch-1", Name: "2026"}}, nil)

	assert.True(t, s.SetCurrentWorkspace(ctx, "ws-course"))
	assert.Len(t, s.Batches(), 1)
	api.AssertExpectations(t)
}

// 頻道列表: 私密頻道分到 DM 列表, 群組頻道未讀多的排前, 同未讀按名稱
func TestGetChannels_SplitAndOrder(t *testing.T) {
	ctx := context.Background()
	api := new(MockWorkspacesAPI)
	s := newSelectedStore(api, new(MockRealtimeGateway))

	api.On("ListChannels", ctx, "ws-1").Return(&repository.ChannelListResult{
		Channels: []domain.Channel{
			{ID: "c-a", Name: "alpha", TotalMsgCount: 2, TotalRead: 2},
			{ID: "c-dm", Name: "pat", Kind: domain.ChannelPrivate},
			{ID: "c-b", Name: "beta", TotalMsgCount: 9, TotalRead: 4},
			{ID: "c-z", Name: "zeta", TotalMsgCount: 1, TotalRead: 1},
		},
	}, nil)

	assert.NoError(t, s.GetChannels(ctx))

	channels := s.Channels()
	assert.Equal(t, []string{"c-b", "c-a", "c-z"}, []string{channels[0].ID, channels[1].ID, channels[2].ID})
	dms := s.DMs()
	assert.Len(t, dms, 1)
	assert.Equal(t, "c-dm", dms[0].ID)
}

// 停用的租戶: 列表短路, 不載入任何 workspace
func TestGetWorkspaces_DisabledTenant(t *testing.T) {
	ctx := context.Background()
	api := new(MockWorkspacesAPI)
	s := NewStore(api, new(MockRealtimeGateway))

	api.On("ListWorkspaces", ctx, mock.Anything).Return(&repository.WorkspaceListResult{Disabled: true}, nil)

	anchor, err := s.GetWorkspaces(ctx, repository.WorkspaceListQuery{})
	assert.NoError(t, err)
	assert.Empty(t, anchor)
	assert.True(t, s.Disabled())
	assert.Empty(t, s.Workspaces())
}

// advanced 深層連結: 一次補齊 workspaces → channels → 訊息頁, 回傳錨點
func TestGetWorkspaces_AdvancedHydration(t *testing.T) {
	ctx := context.Background()
	api := new(MockWorkspacesAPI)
	rt := new(MockRealtimeGateway)
	s := NewStore(api, rt)
	s.sessionData = &domain.SessionData{UserID: "user-self"}

	api.On("ListWorkspaces", ctx, mock.Anything).Return(&repository.WorkspaceListResult{
		Workspaces:            []domain.Workspace{{ID: "ws-1", Name: "Main"}},
		LastActiveWorkspaceID: "ws-1",
		Channels: []domain.Channel{
			{ID: "ch-1", Name: "general", LastSeen: 1000},
		},
		LastActiveChannelID: "ch-1",
		UsersData:           domain.Directory{"user-a": {ID: "user-a", DisplayName: "Alice"}},
		Messages: []domain.Message{
			{ID: "m-2", CreatedBy: "user-a", CreatedAt: 2000},
			{ID: "m-1", CreatedBy: "user-a", CreatedAt: 900},
		},
	}, nil)
	rt.On("JoinWorkspace", "ws-1").Return(nil)
	rt.On("JoinChannel", ctx, "ch-1", "ws-1").Return(&repository.JoinChannelAck{
		LikedMessageIDs: domain.StringList{"m-1"},
	}, nil)

	anchor, err := s.GetWorkspaces(ctx, repository.WorkspaceListQuery{IsAdvanced: true, MessageID: "m-2"})

	assert.NoError(t, err)
	assert.Equal(t, "m-2", anchor)
	assert.Equal(t, "ws-1", s.CurrentWorkspace().ID)
	assert.Equal(t, "ch-1", s.CurrentChannel().ID)
	msgs := s.Messages()
	assert.Equal(t, "m-1", msgs[0].ID)
	assert.Equal(t, "Alice", msgs[0].Author.DisplayName)
	assert.True(t, s.HasLiked("m-1"))
	rt.AssertExpectations(t)
}

// 建 workspace: 建立 → 刷新列表 → 選取
func TestCreateWorkspace(t *testing.T) {
	ctx := context.Background()
	api := new(MockWorkspacesAPI)
	rt := new(MockRealtimeGateway)
	s := NewStore(api, rt)

	api.On("CreateWorkspace", ctx, "New Space", []string(nil)).Return("ws-new", nil)
	api.On("ListWorkspaces", ctx, mock.Anything).Return(&repository.WorkspaceListResult{
		Workspaces: []domain.Workspace{{ID: "ws-new", Name: "New Space"}},
	}, nil)
	rt.On("JoinWorkspace", "ws-new").Return(nil)

	assert.NoError(t, s.CreateWorkspace(ctx, "New Space", nil))
	assert.Equal(t, "ws-new", s.CurrentWorkspace().ID)
	api.AssertExpectations(t)
}
