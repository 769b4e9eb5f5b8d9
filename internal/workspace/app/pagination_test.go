package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 空頁後該方向永久停抓, 直到 Reset (切換頻道) 才重新武裝
func TestPaginator_ExhaustionLatch(t *testing.T) {
	ctx := context.Background()
	calls := 0
	p := NewPaginator(15, func(ctx context.Context, limit int) (bool, error) {
		calls++
		return false, nil
	}, nil)
	p.debounce = 0

	assert.True(t, p.LoadBefore(ctx))
	assert.False(t, p.HasMoreBefore())

	// 枯竭後不再發請求
	assert.False(t, p.LoadBefore(ctx))
	assert.Equal(t, 1, calls)

	p.Reset()
	assert.True(t, p.HasMoreBefore())
	assert.True(t, p.LoadBefore(ctx))
	assert.Equal(t, 2, calls)
}

// 錯誤不算枯竭, 之後仍可重試
func TestPaginator_ErrorDoesNotLatch(t *testing.T) {
	ctx := context.Background()
	p := NewPaginator(15, func(ctx context.Context, limit int) (bool, error) {
		return false, assert.AnError
	}, nil)
	p.debounce = 0

	assert.True(t, p.LoadBefore(ctx))
	assert.True(t, p.HasMoreBefore())
}

// leading-edge 去抖: 間隔內的第二次觸發被吃掉
func TestPaginator_Debounce(t *testing.T) {
	ctx := context.Background()
	calls := 0
	p := NewPaginator(15, func(ctx context.Context, limit int) (bool, error) {
		calls++
		return true, nil
	}, nil)
	p.debounce = time.Hour

	assert.True(t, p.LoadBefore(ctx))
	assert.False(t, p.LoadBefore(ctx))
	assert.Equal(t, 1, calls)
}

// 兩個方向互不影響
func TestPaginator_DirectionsIndependent(t *testing.T) {
	ctx := context.Background()
	p := NewPaginator(15,
		func(ctx context.Context, limit int) (bool, error) { return false, nil },
		func(ctx context.Context, limit int) (bool, error) { return true, nil },
	)
	p.debounce = 0

	p.LoadBefore(ctx)
	assert.False(t, p.HasMoreBefore())
	assert.True(t, p.HasMoreAfter())

	assert.True(t, p.LoadAfter(ctx))
	assert.True(t, p.HasMoreAfter())
}

// 底部哨兵離開視野後, 追加不再自動捲動, 回到視野又恢復
func TestViewportCoordinator_AutoScrollFlag(t *testing.T) {
	ctx := context.Background()
	p := NewPaginator(15,
		func(ctx context.Context, limit int) (bool, error) { return true, nil },
		func(ctx context.Context, limit int) (bool, error) { return true, nil },
	)
	p.debounce = 0
	v := NewViewportCoordinator(p)

	assert.True(t, v.ShouldAutoScroll())
	assert.False(t, v.GoToBottomVisible())

	v.BottomSentinelHidden()
	assert.False(t, v.ShouldAutoScroll())
	assert.True(t, v.GoToBottomVisible())

	v.BottomSentinelVisible(ctx)
	assert.True(t, v.ShouldAutoScroll())
}

// 前插補償: scrollTop 按內容高度差平移
func TestViewportCoordinator_PreserveScrollTop(t *testing.T) {
	v := NewViewportCoordinator(NewPaginator(15, nil, nil))
	assert.Equal(t, 740.0, v.PreserveScrollTop(300, 1200, 1640))
}
