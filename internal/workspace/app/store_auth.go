package app

import (
	"context"
	"strings"

	"workspace_sync_client/internal/workspace/repository"
	errprocess "workspace_sync_client/pkg/err"
	"workspace_sync_client/pkg/logger"
)

// Login authenticate and keep the session cookie for later calls
func (s *Store) Login(ctx context.Context, email, password string, rememberMe bool) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return errprocess.Validation("email and password are required")
	}
	return s.api.Login(ctx, repository.LoginPayload{
		Email:      email,
		Password:   password,
		RememberMe: rememberMe,
	})
}

// Signup register a new account
func (s *Store) Signup(ctx context.Context, name, email, password, token string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return errprocess.Validation("name, email and password are required")
	}
	return s.api.Signup(ctx, repository.SignupPayload{
		Name:     name,
		Email:    email,
		Password: password,
		Token:    token,
	})
}

// Logout end the session and drop the realtime connection
func (s *Store) Logout(ctx context.Context) error {
	if err := s.api.Logout(ctx); err != nil {
		return err
	}
	return s.Close()
}

// ForgotPassword start the password reset flow
func (s *Store) ForgotPassword(ctx context.Context, email, reCaptcha string) error {
	if strings.TrimSpace(email) == "" {
		return errprocess.Validation("email is required")
	}
	return s.api.ForgotPassword(ctx, email, reCaptcha)
}

// ValidatePasswordResetToken check a reset token before showing the form
func (s *Store) ValidatePasswordResetToken(ctx context.Context, token string) error {
	return s.api.ValidatePasswordResetToken(ctx, token)
}

// ResetPassword complete the password reset flow
func (s *Store) ResetPassword(ctx context.Context, password, token string) error {
	if password == "" {
		return errprocess.Validation("password is required")
	}
	return s.api.ResetPassword(ctx, password, token)
}

// SetProfile update the session user's profile, then refresh the session copy
func (s *Store) SetProfile(ctx context.Context, profile map[string]string) error {
	if err := s.api.SetProfile(ctx, profile); err != nil {
		return err
	}
	sess, err := s.api.GetSessionData(ctx)
	if err != nil {
		logger.Log.Errorf("session refresh after profile update failed", err)
		return nil
	}
	s.mu.Lock()
	s.sessionData = sess
	s.channelUsers[sess.UserID] = sess.AsUser()
	s.workspaceUsers[sess.UserID] = sess.AsUser()
	s.mu.Unlock()
	return nil
}

// ProfileUploadURL static URL the profile picture form posts to
func (s *Store) ProfileUploadURL() string {
	return s.api.ProfileUploadURL()
}

// UploadAttachment upload a file, returns the stored URL
func (s *Store) UploadAttachment(ctx context.Context, filename string, content []byte) (string, error) {
	if filename == "" || len(content) == 0 {
		return "", errprocess.Validation("attachment is empty")
	}
	return s.api.UploadAttachment(ctx, filename, content)
}
