package app

import (
	"os"
	"testing"

	"workspace_sync_client/pkg/logger"
)

// TestMain 初始化全域 logger, 驗證路徑會經過 logger.Log
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "workspace_client_test")
	if err != nil {
		panic(err)
	}
	logger.Log = logger.Initialize("workspace_client_test", dir)

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}
