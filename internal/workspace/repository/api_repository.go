package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"sync"
	"time"

	"workspace_sync_client/internal/workspace/domain"
	errprocess "workspace_sync_client/pkg/err"
	"workspace_sync_client/pkg/logger"
	"workspace_sync_client/pkg/token"

	"github.com/valyala/fasthttp"
)

// HTTPAPIOptions base URLs of the three HTTP APIs
type HTTPAPIOptions struct {
	AuthServerURL       string
	WorkspacesServerURL string
	StaticStorageURL    string
	RequestTimeout      time.Duration
}

// HTTPAPI fasthttp implementation of WorkspacesAPI. Session cookies returned
// by the auth API are captured and replayed on every request.
type HTTPAPI struct {
	opts   HTTPAPIOptions
	client *fasthttp.Client

	mu      sync.Mutex
	cookies map[string]string
}

// NewHTTPAPI create the REST repository
func NewHTTPAPI(opts HTTPAPIOptions) *HTTPAPI {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 15 * time.Second
	}
	return &HTTPAPI{
		opts: opts,
		client: &fasthttp.Client{
			ReadTimeout:  opts.RequestTimeout,
			WriteTimeout: opts.RequestTimeout,
		},
		cookies: map[string]string{},
	}
}

func (a *HTTPAPI) deadline(ctx context.Context) time.Time {
	if dl, ok := ctx.Deadline(); ok {
		return dl
	}
	return time.Now().Add(a.opts.RequestTimeout)
}

func (a *HTTPAPI) do(ctx context.Context, method, url string, body []byte, contentType string, out interface{}) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI(url)
	if contentType != "" {
		req.Header.SetContentType(contentType)
	}
	if body != nil {
		req.SetBody(body)
	}

	a.mu.Lock()
	for name, val := range a.cookies {
		req.Header.SetCookie(name, val)
	}
	a.mu.Unlock()

	if err := a.client.DoDeadline(req, resp, a.deadline(ctx)); err != nil {
		return err
	}

	a.mu.Lock()
	resp.Header.VisitAllCookie(func(key, value []byte) {
		c := fasthttp.AcquireCookie()
		defer fasthttp.ReleaseCookie(c)
		if err := c.ParseBytes(value); err == nil {
			a.cookies[string(c.Key())] = string(c.Value())
		}
	})
	a.mu.Unlock()

	if code := resp.StatusCode(); code >= 400 {
		return fmt.Errorf("http %d: %s", code, string(resp.Body()))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(resp.Body(), out)
}

func (a *HTTPAPI) postJSON(ctx context.Context, base, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return a.do(ctx, fasthttp.MethodPost, base+path, body, "application/json", out)
}

func (a *HTTPAPI) getJSON(ctx context.Context, base, path string, out interface{}) error {
	return a.do(ctx, fasthttp.MethodGet, base+path, nil, "", out)
}

// errEnvelope common {"error": "..."} response shape
type errEnvelope struct {
	Error string `json:"error"`
}

func envelopeErr(e string) error {
	if e == "" {
		return nil
	}
	return errors.New(e)
}

// Login authenticate against the auth API
func (a *HTTPAPI) Login(ctx context.Context, payload LoginPayload) error {
	var env errEnvelope
	if err := a.postJSON(ctx, a.opts.AuthServerURL, "/auth/login", payload, &env); err != nil {
		return err
	}
	return envelopeErr(env.Error)
}

// Signup register a new account
func (a *HTTPAPI) Signup(ctx context.Context, payload SignupPayload) error {
	var env errEnvelope
	if err := a.postJSON(ctx, a.opts.AuthServerURL, "/auth/signup", payload, &env); err != nil {
		return err
	}
	return envelopeErr(env.Error)
}

// ForgotPassword start the password reset flow
func (a *HTTPAPI) ForgotPassword(ctx context.Context, email, reCaptcha string) error {
	var env errEnvelope
	payload := map[string]string{"email": email, "reCaptcha": reCaptcha}
	if err := a.postJSON(ctx, a.opts.AuthServerURL, "/auth/forgot", payload, &env); err != nil {
		return err
	}
	return envelopeErr(env.Error)
}

// ValidatePasswordResetToken check a reset token
func (a *HTTPAPI) ValidatePasswordResetToken(ctx context.Context, token string) error {
	var env errEnvelope
	if err := a.getJSON(ctx, a.opts.AuthServerURL, "/auth/validatePasswordResetToken?token="+token, &env); err != nil {
		return err
	}
	return envelopeErr(env.Error)
}

// ResetPassword complete the password reset flow
func (a *HTTPAPI) ResetPassword(ctx context.Context, password, token string) error {
	var env errEnvelope
	payload := map[string]string{"password": password, "token": token}
	if err := a.postJSON(ctx, a.opts.AuthServerURL, "/auth/resetPassword", payload, &env); err != nil {
		return err
	}
	return envelopeErr(env.Error)
}

// Logout end the session
func (a *HTTPAPI) Logout(ctx context.Context) error {
	var env errEnvelope
	if err := a.postJSON(ctx, a.opts.AuthServerURL, "/auth/logout", struct{}{}, &env); err != nil {
		return err
	}
	return envelopeErr(env.Error)
}

// GetSessionData fetch the session identity. When the endpoint is not
// reachable the captured session cookie's claims serve as a local fallback;
// with neither available the session counts as expired and the caller must
// route to re-authentication.
func (a *HTTPAPI) GetSessionData(ctx context.Context) (*domain.SessionData, error) {
	var out struct {
		Error   string              `json:"error"`
		Session *domain.SessionData `json:"session"`
	}
	if err := a.getJSON(ctx, a.opts.AuthServerURL, "/api/auth/getLimitedSessionData", &out); err != nil {
		logger.Log.Errorf("session fetch failed", err)
		if sess := a.sessionFromCookie(); sess != nil {
			return sess, nil
		}
		return nil, errprocess.ErrSessionExpired
	}
	if out.Error != "" || out.Session == nil {
		return nil, errprocess.ErrSessionExpired
	}
	return out.Session, nil
}

// sessionFromCookie decode the display claims of the session cookie locally
func (a *HTTPAPI) sessionFromCookie() *domain.SessionData {
	a.mu.Lock()
	raw := a.cookies["session"]
	a.mu.Unlock()
	if raw == "" {
		return nil
	}
	claims, err := token.ParseSessionClaims(raw)
	if err != nil {
		return nil
	}
	return &domain.SessionData{
		UserID:      claims.UserID,
		DisplayName: claims.DisplayName,
		Email:       claims.Email,
		Role:        claims.Role,
	}
}

// CreateWorkspace create a workspace, returns its id
func (a *HTTPAPI) CreateWorkspace(ctx context.Context, name string, userIDsToAdd []string) (string, error) {
	var out struct {
		Error       string `json:"error"`
		WorkspaceID string `json:"workspaceId"`
	}
	payload := map[string]interface{}{"name": name, "userIdsToAdd": userIDsToAdd}
	if err := a.postJSON(ctx, a.opts.WorkspacesServerURL, "/workspace/createWorkspace", payload, &out); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", errors.New(out.Error)
	}
	return out.WorkspaceID, nil
}

// ListWorkspaces bulk workspace list, optionally resolving a deep link
func (a *HTTPAPI) ListWorkspaces(ctx context.Context, q WorkspaceListQuery) (*WorkspaceListResult, error) {
	payload := map[string]interface{}{
		"courseId":    q.CourseID,
		"workspaceId": q.WorkspaceID,
		"channelId":   q.ChannelID,
		"messageId":   q.MessageID,
	}
	advanced := 0
	if q.IsAdvanced {
		advanced = 1
	}
	var out WorkspaceListResult
	path := fmt.Sprintf("/workspace/list?isAdvanced=%d", advanced)
	if err := a.postJSON(ctx, a.opts.WorkspacesServerURL, path, payload, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, errors.New(out.Error)
	}
	return &out, nil
}

// GetCourseBatches batch rosters of a course workspace
func (a *HTTPAPI) GetCourseBatches(ctx context.Context, courseID string) ([]domain.Batch, error) {
	var out struct {
		Error   string         `json:"error"`
		Batches []domain.Batch `json:"batchesArr"`
	}
	if err := a.getJSON(ctx, a.opts.AuthServerURL, "/api/course/batchListOfCourse/"+courseID, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, errors.New(out.Error)
	}
	return out.Batches, nil
}

// ListChannels channel list of a workspace
func (a *HTTPAPI) ListChannels(ctx context.Context, workspaceID string) (*ChannelListResult, error) {
	var out ChannelListResult
	payload := map[string]string{"workspaceId": workspaceID}
	if err := a.postJSON(ctx, a.opts.WorkspacesServerURL, "/channel/list", payload, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, errors.New(out.Error)
	}
	return &out, nil
}

// CreateChannel create a channel, returns its id
func (a *HTTPAPI) CreateChannel(ctx context.Context, payload CreateChannelPayload) (string, error) {
	var out struct {
		Error     string `json:"error"`
		ChannelID string `json:"channelId"`
	}
	if err := a.postJSON(ctx, a.opts.WorkspacesServerURL, "/channel/createChannel", payload, &out); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", errors.New(out.Error)
	}
	return out.ChannelID, nil
}

// UpdateChannelName rename a channel
func (a *HTTPAPI) UpdateChannelName(ctx context.Context, name, channelID string) error {
	var env errEnvelope
	payload := map[string]string{"updatedChannelName": name, "channelId": channelID}
	if err := a.postJSON(ctx, a.opts.WorkspacesServerURL, "/channel/updateName", payload, &env); err != nil {
		return err
	}
	return envelopeErr(env.Error)
}

// SetChannelWritePermission change who may post
func (a *HTTPAPI) SetChannelWritePermission(ctx context.Context, permission domain.WritePermission, channelID string) error {
	var env errEnvelope
	payload := map[string]interface{}{"permissionValue": permission, "channelId": channelID}
	if err := a.postJSON(ctx, a.opts.WorkspacesServerURL, "/channel/setChannelWritePermission", payload, &env); err != nil {
		return err
	}
	return envelopeErr(env.Error)
}

// AddUserToChannel add a user by e-mail
func (a *HTTPAPI) AddUserToChannel(ctx context.Context, userEmail, workspaceID, channelID string) error {
	var env errEnvelope
	payload := map[string]string{"userEmail": userEmail, "workspaceId": workspaceID, "channelId": channelID}
	if err := a.postJSON(ctx, a.opts.WorkspacesServerURL, "/channel/addUserToChannel", payload, &env); err != nil {
		return err
	}
	return envelopeErr(env.Error)
}

// AddBatchToChannel grant a batch roster access
func (a *HTTPAPI) AddBatchToChannel(ctx context.Context, batchID, workspaceID, channelID string) error {
	var env errEnvelope
	payload := map[string]string{"batchId": batchID, "workspaceId": workspaceID, "channelId": channelID}
	if err := a.postJSON(ctx, a.opts.WorkspacesServerURL, "/channel/addBatchToChannel", payload, &env); err != nil {
		return err
	}
	return envelopeErr(env.Error)
}

// RemoveUserFromChannel remove a user from a channel
func (a *HTTPAPI) RemoveUserFromChannel(ctx context.Context, userID, channelID, workspaceID string) error {
	var env errEnvelope
	payload := map[string]string{"userIdToRemove": userID, "channelId": channelID, "workspaceId": workspaceID}
	if err := a.postJSON(ctx, a.opts.WorkspacesServerURL, "/channel/removeUserFromChannel", payload, &env); err != nil {
		return err
	}
	return envelopeErr(env.Error)
}

// DeleteChannel delete a channel
func (a *HTTPAPI) DeleteChannel(ctx context.Context, channelID, workspaceID string) error {
	var env errEnvelope
	payload := map[string]string{"channelId": channelID, "workspaceId": workspaceID}
	if err := a.postJSON(ctx, a.opts.WorkspacesServerURL, "/channel/deleteChannel", payload, &env); err != nil {
		return err
	}
	return envelopeErr(env.Error)
}

// LeaveChannelPermanently leave a channel for good
func (a *HTTPAPI) LeaveChannelPermanently(ctx context.Context, channelID string) error {
	var env errEnvelope
	if err := a.getJSON(ctx, a.opts.AuthServerURL, "/channel/leaveChannel/"+channelID, &env); err != nil {
		return err
	}
	return envelopeErr(env.Error)
}

// EditInviteLink change the channel invite link suffix
func (a *HTTPAPI) EditInviteLink(ctx context.Context, suffix, channelID, workspaceID string) (string, error) {
	var out struct {
		Error      string `json:"error"`
		InviteLink string `json:"inviteLink"`
	}
	payload := map[string]string{"inviteLinkSuffix": suffix, "channelId": channelID, "workspaceId": workspaceID}
	if err := a.postJSON(ctx, a.opts.WorkspacesServerURL, "/channel/editInviteLink", payload, &out); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", errors.New(out.Error)
	}
	return out.InviteLink, nil
}

// CustomLinkJoin join via a custom invite link suffix
func (a *HTTPAPI) CustomLinkJoin(ctx context.Context, suffix string) error {
	var env errEnvelope
	payload := map[string]string{"suffix": suffix}
	if err := a.postJSON(ctx, a.opts.WorkspacesServerURL, "/channel/customLinkJoin", payload, &env); err != nil {
		return err
	}
	return envelopeErr(env.Error)
}

// GetOnlineUsers online user ids in a channel
func (a *HTTPAPI) GetOnlineUsers(ctx context.Context, channelID string) ([]string, error) {
	var out struct {
		Error   string   `json:"error"`
		UserIDs []string `json:"userIds"`
	}
	payload := map[string]string{"channelId": channelID}
	if err := a.postJSON(ctx, a.opts.WorkspacesServerURL, "/channel/getOnlineUsersListInChannel", payload, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, errors.New(out.Error)
	}
	return out.UserIDs, nil
}

// ListMessages paginated message fetch. lastRead is the wire name of the
// last-seen cutoff.
func (a *HTTPAPI) ListMessages(ctx context.Context, q MessageListQuery) (*MessageListResult, error) {
	isPrev := 0
	if q.IsPrevious {
		isPrev = 1
	}
	payload := map[string]interface{}{
		"workspaceId":     q.WorkspaceID,
		"channelId":       q.ChannelID,
		"isPrevious":      isPrev,
		"limit":           q.Limit,
		"includeLastSeen": q.IncludeLastSeen,
	}
	if q.LastSeen != 0 {
		payload["lastRead"] = q.LastSeen
	}
	if q.MessageID != "" {
		payload["messageId"] = q.MessageID
	}
	var out MessageListResult
	if err := a.postJSON(ctx, a.opts.WorkspacesServerURL, "/message/list", payload, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, errors.New(out.Error)
	}
	return &out, nil
}

// ListReplies reply list of one parent message
func (a *HTTPAPI) ListReplies(ctx context.Context, workspaceID, channelID, parentID string) (*RepliesResult, error) {
	payload := map[string]string{
		"workspaceId":     workspaceID,
		"channelId":       channelID,
		"parentIdOfReply": parentID,
	}
	var out RepliesResult
	if err := a.postJSON(ctx, a.opts.WorkspacesServerURL, "/message/reply/list", payload, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, errors.New(out.Error)
	}
	return &out, nil
}

// ListUserActivity backward-paginated activity feed fetch
func (a *HTTPAPI) ListUserActivity(ctx context.Context, q ActivityQuery) (*ActivityResult, error) {
	isPrev := 0
	if q.IsPrevious {
		isPrev = 1
	}
	payload := map[string]interface{}{
		"workspaceId": q.WorkspaceID,
		"channelId":   q.ChannelID,
		"isPrevious":  isPrev,
		"limit":       q.Limit,
	}
	if q.LastSeen != 0 {
		payload["lastSeen"] = q.LastSeen
	}
	var out ActivityResult
	if err := a.postJSON(ctx, a.opts.WorkspacesServerURL, "/user/userActivityList", payload, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, errors.New(out.Error)
	}
	return &out, nil
}

// UsersDetailByIDs resolve full user records by id batch
func (a *HTTPAPI) UsersDetailByIDs(ctx context.Context, userIDs []string) (domain.Directory, error) {
	var out struct {
		Error     string         `json:"error"`
		UsersData []*domain.User `json:"usersData"`
	}
	payload := map[string]interface{}{"userIds": userIDs}
	if err := a.postJSON(ctx, a.opts.AuthServerURL, "/api/getUsersDetailByIds", payload, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, errors.New(out.Error)
	}
	users := make(domain.Directory, len(out.UsersData))
	for _, u := range out.UsersData {
		if u != nil {
			users[u.ID] = u
		}
	}
	return users, nil
}

// UsersByNamePrefix search channel users by display name prefix
func (a *HTTPAPI) UsersByNamePrefix(ctx context.Context, channelID, prefix string) (domain.Directory, error) {
	var out struct {
		Error     string           `json:"error"`
		UsersData domain.Directory `json:"usersData"`
	}
	payload := map[string]string{"channelId": channelID, "prefix": prefix}
	if err := a.postJSON(ctx, a.opts.WorkspacesServerURL, "/user/getUsersList", payload, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, errors.New(out.Error)
	}
	return out.UsersData, nil
}

// ChannelUsersList full user directory of a channel
func (a *HTTPAPI) ChannelUsersList(ctx context.Context, channelID string) (domain.Directory, error) {
	return a.UsersByNamePrefix(ctx, channelID, "")
}

// BatchUserIDs roster user ids of several batches
func (a *HTTPAPI) BatchUserIDs(ctx context.Context, batchIDs []string) ([]BatchUsers, error) {
	var out struct {
		Error   string       `json:"error"`
		Batches []BatchUsers `json:"batchesArr"`
	}
	payload := map[string]interface{}{"batchIds": batchIDs}
	if err := a.postJSON(ctx, a.opts.AuthServerURL, "/api/batch/userIdsOfBatches", payload, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, errors.New(out.Error)
	}
	return out.Batches, nil
}

// UploadAttachment multipart upload to the static storage API, returns the
// stored file URL.
func (a *HTTPAPI) UploadAttachment(ctx context.Context, filename string, content []byte) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("attachment", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(content); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	var out struct {
		Error string `json:"error"`
		URL   string `json:"url"`
	}
	url := a.opts.StaticStorageURL + "/uploadFileMultipart"
	if err := a.do(ctx, fasthttp.MethodPost, url, buf.Bytes(), w.FormDataContentType(), &out); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", errors.New(out.Error)
	}
	return out.URL, nil
}

// ProfileUploadURL static URL for profile picture uploads
func (a *HTTPAPI) ProfileUploadURL() string {
	return strings.TrimRight(a.opts.StaticStorageURL, "/") + "/uploadProfile"
}

// SetProfile update the session user's profile
func (a *HTTPAPI) SetProfile(ctx context.Context, profile map[string]string) error {
	var env errEnvelope
	if err := a.postJSON(ctx, a.opts.AuthServerURL, "/user/updateProfile", profile, &env); err != nil {
		return err
	}
	return envelopeErr(env.Error)
}

var _ WorkspacesAPI = (*HTTPAPI)(nil)
