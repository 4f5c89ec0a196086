package studio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// RemoteOptions configures the REST client.
type RemoteOptions struct {
	BaseURL string
	Timeout time.Duration
}

func DefaultRemoteOptions() *RemoteOptions {
	return &RemoteOptions{
		BaseURL: "http://localhost:5000",
		Timeout: DefaultTimeout,
	}
}

// RemoteBackend talks to the studio API. The session cookie set at login is
// kept in the client's cookie jar.
type RemoteBackend struct {
	baseURL string
	client  *http.Client
}

var _ Backend = (*RemoteBackend)(nil)

func NewRemoteBackend(opts *RemoteOptions) (*RemoteBackend, error) {
	if opts == nil {
		opts = DefaultRemoteOptions()
	}
	if _, err := url.ParseRequestURI(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &RemoteBackend{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		client:  &http.Client{Jar: jar, Timeout: opts.Timeout},
	}, nil
}

// StaticURL maps a stored media path to its server-relative URL.
func StaticURL(path string) string {
	if path == "" {
		return ""
	}
	return "/static/" + strings.TrimPrefix(path, "/")
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type profileResponse struct {
	User struct {
		Fullname           string `json:"fullname"`
		Email              string `json:"email"`
		Role               string `json:"role"`
		SubscriptionStatus string `json:"subscription_status"`
	} `json:"user"`
}

type avatarDTO struct {
	AvatarID   string    `json:"avatar_id"`
	AvatarPath string    `json:"avatar_path"`
	CreatedAt  time.Time `json:"created_at"`
}

type expressionDTO struct {
	ExpressionID   string `json:"expression_id"`
	ExpressionName string `json:"expression_name"`
}

type animationDTO struct {
	AnimationID    string    `json:"animation_id"`
	AnimationPath  string    `json:"animation_path"`
	ExpressionName string    `json:"expression_name"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

type userDTO struct {
	UserID             string    `json:"user_id"`
	Fullname           string    `json:"fullname"`
	Email              string    `json:"email"`
	Role               string    `json:"role"`
	SubscriptionStatus string    `json:"subscription_status"`
	CreatedAt          time.Time `json:"created_at"`
}

func (a avatarDTO) item() Item {
	return Item{
		ID:        a.AvatarID,
		Kind:      KindAvatar,
		Media:     StaticURL(a.AvatarPath),
		Label:     "Avatar " + a.AvatarID,
		CreatedAt: a.CreatedAt,
	}
}

func (a animationDTO) item() Item {
	label := a.ExpressionName
	if label == "" {
		label = "Custom"
	}
	return Item{
		ID:        a.AnimationID,
		Kind:      KindAnimation,
		Media:     StaticURL(a.AnimationPath),
		Label:     label,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
	}
}

func (u userDTO) item() Item {
	return Item{
		ID:        u.UserID,
		Kind:      KindUser,
		Label:     u.Fullname,
		Detail:    u.Email,
		Status:    u.SubscriptionStatus,
		CreatedAt: u.CreatedAt,
	}
}

func jsonBody(v interface{}) (io.Reader, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}
	return bytes.NewReader(data), nil
}

// multipartBody encodes files and plain fields into one form.
func multipartBody(fields map[string]string, files map[string]Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}
	for field, file := range files {
		part, err := w.CreateFormFile(field, file.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// do sends one request and decodes the response envelope. success=false
// becomes a RejectedError; anything that is not an envelope is a transport
// failure.
func (r *RemoteBackend) do(ctx context.Context, method, endpoint, contentType string, body io.Reader, out interface{}) (string, error) {
	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+endpoint, body)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("malformed response (status %d)", resp.StatusCode)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", reject(msg)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return "", fmt.Errorf("error decoding response: %w", err)
		}
	}
	return env.Message, nil
}

func (r *RemoteBackend) doJSON(ctx context.Context, method, endpoint string, in, out interface{}) (string, error) {
	body, err := jsonBody(in)
	if err != nil {
		return "", err
	}
	contentType := ""
	if body != nil {
		contentType = "application/json"
	}
	return r.do(ctx, method, endpoint, contentType, body, out)
}

func (r *RemoteBackend) Login(ctx context.Context, req LoginRequest) (Session, error) {
	var resp struct {
		Role     string `json:"role"`
		Redirect string `json:"redirect"`
	}
	msg, err := r.doJSON(ctx, http.MethodPost, "/api/login", map[string]string{
		"email":    req.Email,
		"password": req.Password,
	}, &resp)
	if err != nil {
		return Session{}, err
	}
	return Session{Role: resp.Role, Redirect: resp.Redirect, Message: msg}, nil
}

func (r *RemoteBackend) Signup(ctx context.Context, req SignupRequest) (string, error) {
	return r.doJSON(ctx, http.MethodPost, "/api/signup", map[string]string{
		"fullname": req.Fullname,
		"email":    req.Email,
		"password": req.Password,
	}, nil)
}

func (r *RemoteBackend) Logout(ctx context.Context) error {
	_, err := r.doJSON(ctx, http.MethodPost, "/api/logout", nil, nil)
	return err
}

func (r *RemoteBackend) Profile(ctx context.Context) (Profile, error) {
	var resp profileResponse
	if _, err := r.doJSON(ctx, http.MethodGet, "/api/profile", nil, &resp); err != nil {
		return Profile{}, err
	}
	return Profile{
		Fullname:           resp.User.Fullname,
		Email:              resp.User.Email,
		Role:               resp.User.Role,
		SubscriptionStatus: resp.User.SubscriptionStatus,
	}, nil
}

func (r *RemoteBackend) UpdateProfile(ctx context.Context, p Profile) (string, error) {
	return r.doJSON(ctx, http.MethodPut, "/api/profile", map[string]string{
		"fullname": p.Fullname,
		"email":    p.Email,
	}, nil)
}

func (r *RemoteBackend) Avatars(ctx context.Context) ([]Item, error) {
	var resp struct {
		Avatars []avatarDTO `json:"avatars"`
	}
	if _, err := r.doJSON(ctx, http.MethodGet, "/api/avatars", nil, &resp); err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(resp.Avatars))
	for _, a := range resp.Avatars {
		items = append(items, a.item())
	}
	return items, nil
}

func (r *RemoteBackend) UploadAvatar(ctx context.Context, file Upload) (string, error) {
	body, contentType, err := multipartBody(nil, map[string]Upload{"avatar": file})
	if err != nil {
		return "", fmt.Errorf("error encoding upload: %w", err)
	}
	return r.do(ctx, http.MethodPost, "/api/avatar/upload", contentType, body, nil)
}

func (r *RemoteBackend) DeleteAvatar(ctx context.Context, id string) (string, error) {
	return r.doJSON(ctx, http.MethodDelete, "/api/avatar/"+url.PathEscape(id), nil, nil)
}

func (r *RemoteBackend) Expressions(ctx context.Context) ([]Item, error) {
	var resp struct {
		Expressions []expressionDTO `json:"expressions"`
	}
	if _, err := r.doJSON(ctx, http.MethodGet, "/api/expressions", nil, &resp); err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(resp.Expressions))
	for _, e := range resp.Expressions {
		items = append(items, Item{ID: e.ExpressionID, Kind: KindExpression, Label: e.ExpressionName})
	}
	return items, nil
}

func (r *RemoteBackend) AddExpression(ctx context.Context, name string) (string, error) {
	return r.doJSON(ctx, http.MethodPost, "/api/admin/expressions", map[string]string{"expression_name": name}, nil)
}

func (r *RemoteBackend) DeleteExpression(ctx context.Context, id string) (string, error) {
	return r.doJSON(ctx, http.MethodDelete, "/api/admin/expression/"+url.PathEscape(id), nil, nil)
}

func (r *RemoteBackend) GenerateAnimation(ctx context.Context, avatarID, expressionID string) (Item, string, error) {
	var resp animationDTO
	msg, err := r.doJSON(ctx, http.MethodPost, "/api/animation/generate", map[string]string{
		"avatar_id":     avatarID,
		"expression_id": expressionID,
	}, &resp)
	if err != nil {
		return Item{}, "", err
	}
	return resp.item(), msg, nil
}

func (r *RemoteBackend) DriveAnimation(ctx context.Context, avatarID string, video Upload) (Item, string, error) {
	body, contentType, err := multipartBody(
		map[string]string{"avatar_id": avatarID},
		map[string]Upload{"video": video},
	)
	if err != nil {
		return Item{}, "", fmt.Errorf("error encoding upload: %w", err)
	}
	var resp animationDTO
	msg, err := r.do(ctx, http.MethodPost, "/api/animation/drive", contentType, body, &resp)
	if err != nil {
		return Item{}, "", err
	}
	return resp.item(), msg, nil
}

func (r *RemoteBackend) SaveAnimation(ctx context.Context, staged Item) (string, error) {
	return r.doJSON(ctx, http.MethodPost, "/api/animation/"+url.PathEscape(staged.ID)+"/save", nil, nil)
}

func (r *RemoteBackend) DiscardAnimation(ctx context.Context, staged Item) error {
	_, err := r.doJSON(ctx, http.MethodDelete, "/api/animation/"+url.PathEscape(staged.ID), nil, nil)
	return err
}

func (r *RemoteBackend) Animations(ctx context.Context) ([]Item, error) {
	var resp struct {
		Animations []animationDTO `json:"animations"`
	}
	if _, err := r.doJSON(ctx, http.MethodGet, "/api/animations", nil, &resp); err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(resp.Animations))
	for _, a := range resp.Animations {
		items = append(items, a.item())
	}
	return items, nil
}

func (r *RemoteBackend) DeleteAnimation(ctx context.Context, id string) (string, error) {
	return r.doJSON(ctx, http.MethodDelete, "/api/animation/"+url.PathEscape(id), nil, nil)
}

func (r *RemoteBackend) UpdateSubscription(ctx context.Context, plan string) (string, error) {
	return r.doJSON(ctx, http.MethodPost, "/api/subscription/update", map[string]string{"plan": plan}, nil)
}

func (r *RemoteBackend) CancelSubscription(ctx context.Context) (string, error) {
	return r.doJSON(ctx, http.MethodPost, "/api/subscription/cancel", nil, nil)
}

func (r *RemoteBackend) Users(ctx context.Context) ([]Item, error) {
	var resp struct {
		Users []userDTO `json:"users"`
	}
	if _, err := r.doJSON(ctx, http.MethodGet, "/api/admin/users", nil, &resp); err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(resp.Users))
	for _, u := range resp.Users {
		items = append(items, u.item())
	}
	return items, nil
}

func (r *RemoteBackend) CreateUser(ctx context.Context, fullname, email string) (string, error) {
	return r.doJSON(ctx, http.MethodPost, "/api/admin/users", map[string]string{
		"fullname": fullname,
		"email":    email,
	}, nil)
}

func (r *RemoteBackend) SetUserStatus(ctx context.Context, id string, action UserAction) (string, error) {
	return r.doJSON(ctx, http.MethodPut, "/api/admin/user/"+url.PathEscape(id), map[string]string{"action": string(action)}, nil)
}

func (r *RemoteBackend) DeleteUser(ctx context.Context, id string) (string, error) {
	return r.doJSON(ctx, http.MethodDelete, "/api/admin/user/"+url.PathEscape(id), nil, nil)
}
