// Package todoapi implements the service.Service interface over the task
// backend's REST surface.
package todoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"

	"todoctl/internal/apierr"
	"todoctl/internal/auth"
	"todoctl/internal/config"
	"todoctl/internal/service"
)

// APITimeout is the timeout for API calls.
const APITimeout = 10 * time.Second

// Client implements service.Service against the REST backend.
type Client struct {
	rc     *resty.Client
	tokens *auth.Store
}

// New creates a backend client. Fails with an unauthorized error when no
// token is stored, so auth-requiring commands can report "not signed in"
// before any network traffic.
func New(cfg *config.Config, tokens *auth.Store) (*Client, error) {
	if tokens.Token() == "" {
		return nil, apierr.New(apierr.KindUnauthorized, "not signed in (run: todoctl login)")
	}
	return NewUnauthenticated(cfg, tokens), nil
}

// NewUnauthenticated creates a backend client without requiring a stored
// token. Used by login, signup, and whoami, which handle the signed-out
// state themselves.
func NewUnauthenticated(cfg *config.Config, tokens *auth.Store) *Client {
	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(APITimeout).
		SetHeader("Content-Type", "application/json")

	// The token is re-read from disk on every request so multiple client
	// processes stay consistent.
	rc.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if tok := tokens.Token(); tok != "" {
			r.SetAuthToken(tok)
		}
		return nil
	})

	return &Client{rc: rc, tokens: tokens}
}

// errorBody is the backend's JSON error envelope.
type errorBody struct {
	Detail string `json:"detail"`
}

// do performs one HTTP call and normalizes the outcome. out may be nil for
// calls whose body is discarded. A 204 leaves out untouched.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req := c.rc.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		log.WithError(err).WithField("path", path).Debug("request failed")
		return apierr.Newf(apierr.KindTransient, "request failed: %v", err)
	}

	status := resp.StatusCode()
	log.WithFields(log.Fields{"method": method, "path": path, "status": status}).
		Debug("request complete")

	if status == http.StatusUnauthorized {
		// Uniform "session ended" signal: evict the token before failing.
		if err := c.tokens.ClearToken(); err != nil {
			log.WithError(err).Warn("failed to clear token after 401")
		}
		return &apierr.Error{Kind: apierr.KindUnauthorized, Message: "unauthorized", Status: status}
	}

	if status < 200 || status > 299 {
		var eb errorBody
		_ = json.Unmarshal(resp.Body(), &eb)
		return apierr.FromStatus(status, eb.Detail)
	}

	if status == http.StatusNoContent || out == nil {
		return nil
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return apierr.Newf(apierr.KindTransient, "invalid response body: %v", err)
	}
	return nil
}

// credentialsBody is the signin/signup response. Older backend builds return
// the token under access_token.
type credentialsBody struct {
	User        service.User `json:"user"`
	Token       string       `json:"token"`
	AccessToken string       `json:"access_token"`
}

func (b credentialsBody) token() string {
	if b.Token != "" {
		return b.Token
	}
	return b.AccessToken
}

// persistCredentials stores the token and account id as a side effect of a
// successful sign-in or sign-up. Callers never save tokens themselves.
func (c *Client) persistCredentials(body credentialsBody) (service.Credentials, error) {
	creds := service.Credentials{User: body.User, Token: body.token()}
	if creds.Token == "" {
		return creds, apierr.New(apierr.KindTransient, "response carried no token")
	}
	if err := c.tokens.SaveToken(creds.Token); err != nil {
		return creds, err
	}
	if creds.User.ID != "" {
		if err := c.tokens.SaveUserID(creds.User.ID); err != nil {
			log.WithError(err).Warn("failed to cache user id")
		}
	}
	return creds, nil
}

// SignIn implements service.Service.
func (c *Client) SignIn(ctx context.Context, email, password string) (service.Credentials, error) {
	var body credentialsBody
	err := c.do(ctx, http.MethodPost, "/api/auth/signin",
		map[string]string{"email": email, "password": password}, &body)
	if err != nil {
		return service.Credentials{}, err
	}
	return c.persistCredentials(body)
}

// SignUp implements service.Service.
func (c *Client) SignUp(ctx context.Context, email, password, name string) (service.Credentials, error) {
	var body credentialsBody
	err := c.do(ctx, http.MethodPost, "/api/auth/signup",
		map[string]string{"email": email, "password": password, "name": name}, &body)
	if err != nil {
		return service.Credentials{}, err
	}
	return c.persistCredentials(body)
}

// SignOut implements service.Service.
func (c *Client) SignOut(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/signout", nil, nil)
}

// Me implements service.Service.
func (c *Client) Me(ctx context.Context) (service.User, error) {
	var user service.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return service.User{}, err
	}
	return user, nil
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context, userID string) ([]service.Task, error) {
	var tasks []service.Task
	path := fmt.Sprintf("/api/users/%s/tasks", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, userID, title, description string) (service.Task, error) {
	var task service.Task
	path := fmt.Sprintf("/api/users/%s/tasks", userID)
	body := map[string]string{"title": title}
	if description != "" {
		body["description"] = description
	}
	if err := c.do(ctx, http.MethodPost, path, body, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, userID string, taskID int64, patch service.TaskPatch) (service.Task, error) {
	var task service.Task
	path := fmt.Sprintf("/api/users/%s/tasks/%d", userID, taskID)
	if err := c.do(ctx, http.MethodPut, path, patch, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// ToggleTask implements service.Service.
func (c *Client) ToggleTask(ctx context.Context, userID string, taskID int64) (service.Task, error) {
	var task service.Task
	path := fmt.Sprintf("/api/users/%s/tasks/%d/complete", userID, taskID)
	if err := c.do(ctx, http.MethodPatch, path, nil, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, userID string, taskID int64) error {
	path := fmt.Sprintf("/api/users/%s/tasks/%d", userID, taskID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// chatRequest is the chat endpoint's request body. thread_id is omitted
// until a conversation is established.
type chatRequest struct {
	Message  string `json:"message"`
	ThreadID string `json:"thread_id,omitempty"`
}

// Chat implements service.Service.
func (c *Client) Chat(ctx context.Context, userID, message, threadID string) (service.ChatReply, error) {
	var reply service.ChatReply
	path := fmt.Sprintf("/api/chat/%s", userID)
	body := chatRequest{Message: message, ThreadID: threadID}
	if err := c.do(ctx, http.MethodPost, path, body, &reply); err != nil {
		return service.ChatReply{}, err
	}
	return reply, nil
}
