package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"workspace_sync_client/internal/workspace/app"
	"workspace_sync_client/internal/workspace/repository"
	"workspace_sync_client/pkg/config"
	errprocess "workspace_sync_client/pkg/err"
	"workspace_sync_client/pkg/logger"
	testtool "workspace_sync_client/pkg/test_tool"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.ClientName, config.EnvConfig.ClientLogPath)
	cfg := config.LoadConfig[config.Client](config.EnvConfig.ClientName, config.EnvConfig.ClientYAMLPath)
	testtool.StartPprof()

	// 1. 建立兩個事件來源: REST 與即時連線
	api := repository.NewHTTPAPI(repository.HTTPAPIOptions{
		AuthServerURL:       cfg.AuthServerURL,
		WorkspacesServerURL: cfg.WorkspacesServerURL,
		StaticStorageURL:    cfg.StaticStorageURL,
		RequestTimeout:      cfg.RequestTimeout,
	})
	gateway := repository.NewSocketGateway(cfg.Socket.Path, cfg.Socket)

	// 2. 初始化同步 store
	store := app.NewStore(api, gateway)
	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		if errors.Is(err, errprocess.ErrSessionExpired) {
			logger.Log.Fatal("no active session, please sign in first")
		}
		logger.Log.Fatal(fmt.Sprintf("client init failed: %v", err))
	}
	defer store.Close()

	// 3. 載入 workspace 列表並還原上次的位置
	anchor, err := store.GetWorkspaces(ctx, repository.WorkspaceListQuery{IsAdvanced: true})
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("workspace bootstrap failed: %v", err))
	}
	if store.Disabled() {
		logger.Log.Fatal("this tenant is disabled")
	}
	logger.Log.Info(fmt.Sprintf("synced %d workspaces, scroll anchor %q", len(store.Workspaces()), anchor))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down")
}
