package errprocess

import (
	"errors"
	"fmt"

	"workspace_sync_client/pkg/logger"
)

// 錯誤分類: 前置檢查失敗與連線失敗在呼叫端以 errors.Is 區分

var (
	// ErrSessionExpired session fetch failed, caller must re-authenticate
	ErrSessionExpired = errors.New("session expired")
	// ErrConnectionTimeout realtime join exceeded the connect timeout
	ErrConnectionTimeout = errors.New("timed out waiting for socket connection")
	// ErrWorkspaceNotAllowed workspace join rejected
	ErrWorkspaceNotAllowed = errors.New("workspace not allowed")
	// ErrChannelNotAllowed channel join rejected
	ErrChannelNotAllowed = errors.New("channel not allowed")
	// ErrValidation client-side precondition failed, recoverable by correcting input
	ErrValidation = errors.New("validation error")
	// ErrTransportUnavailable write action attempted while disconnected
	ErrTransportUnavailable = errors.New("please check your connection")
)

// Set set err info
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}

// Validation wrap ErrValidation with a user-facing message
func Validation(msg string) error {
	logger.Log.Warn(msg)
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
