package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"cloudbox/internal/client/models"
	"cloudbox/internal/common"
	"cloudbox/internal/logging"
)

// HTTPClient is the concrete Client over the service's HTTP API. The
// session cookie lives in the jar; the anti-forgery token is read back out
// of the jar and attached to every state-mutating request.
type HTTPClient struct {
	baseURL *url.URL
	hc      *http.Client
	log     logging.Logger
}

// NewHTTPClient builds a client for the API rooted at endpoint
// (e.g. "http://127.0.0.1:8000/api"). timeout 0 disables the client-side
// request timeout.
func NewHTTPClient(endpoint string, timeout time.Duration, log logging.Logger) (*HTTPClient, error) {
	if endpoint == "" {
		return nil, errors.New("endpoint is required")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.New("endpoint must include scheme and host")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &HTTPClient{
		baseURL: u,
		hc:      &http.Client{Jar: jar, Timeout: timeout},
		log:     log.With("component", "httpclient"),
	}, nil
}

func (c *HTTPClient) Close() error {
	c.hc.CloseIdleConnections()
	return nil
}

// csrfToken renders the jar's cookies for the base URL into cookie text and
// extracts the anti-forgery token from it.
func (c *HTTPClient) csrfToken() (string, bool) {
	cookies := c.hc.Jar.Cookies(c.baseURL)
	parts := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		parts = append(parts, ck.Name+"="+ck.Value)
	}
	return ExtractToken(strings.Join(parts, "; "))
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if isMutating(method) {
		// A missing token is not an error: the request still goes out and
		// the server answers Forbidden, which the classifier surfaces.
		if token, ok := c.csrfToken(); ok {
			req.Header.Set(CSRFHeaderName, token)
		}
	}
	return req, nil
}

func (c *HTTPClient) do(req *http.Request) (*http.Response, error) {
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Warn(req.Context(), "request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		return nil, NetworkUnreachable()
	}
	return resp, nil
}

// doJSON performs a request with an optional JSON body and decodes a JSON
// response into out (when out is non-nil). Non-2xx responses are classified.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, path, query, payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return Classify(resp.StatusCode, b)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return common.NewError(common.KindServerFault, "malformed response from server")
	}
	return nil
}

// authResponse is the body shape of both login and register.
type authResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	User    *models.UserIdentity `json:"user"`
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (*models.UserIdentity, error) {
	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, creds, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, common.NewError(common.KindServerFault, "login response carried no identity")
	}
	return resp.User, nil
}

func (c *HTTPClient) Register(ctx context.Context, profile models.RegisterProfile) (*models.UserIdentity, error) {
	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", nil, profile, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, common.NewError(common.KindServerFault, "register response carried no identity")
	}
	return resp.User, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, struct{}{}, nil)
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.UserIdentity, error) {
	var users []models.UserIdentity
	if err := c.doJSON(ctx, http.MethodGet, "/auth/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *HTTPClient) SetAdministrator(ctx context.Context, id int64, isAdmin bool) error {
	body := map[string]bool{"is_administrator": isAdmin}
	return c.doJSON(ctx, http.MethodPatch, "/auth/users/"+strconv.FormatInt(id, 10), nil, body, nil)
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/auth/users/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

func (c *HTTPClient) ListFiles(ctx context.Context, ownerID *int64) ([]models.FileResource, error) {
	var query url.Values
	if ownerID != nil {
		query = url.Values{"user_id": {strconv.FormatInt(*ownerID, 10)}}
	}
	var files []models.FileResource
	if err := c.doJSON(ctx, http.MethodGet, "/storage", query, nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (c *HTTPClient) Upload(ctx context.Context, name string, payload io.Reader, comment string) (*models.FileResource, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, payload); err != nil {
		return nil, fmt.Errorf("reading payload: %w", err)
	}
	if err := mw.WriteField("comment", comment); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/storage", nil, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, Classify(resp.StatusCode, b)
	}

	var file models.FileResource
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return nil, common.NewError(common.KindServerFault, "malformed upload response")
	}
	return &file, nil
}

func (c *HTTPClient) Download(ctx context.Context, id int64) (io.ReadCloser, string, error) {
	return c.downloadPath(ctx, "/storage/"+strconv.FormatInt(id, 10))
}

func (c *HTTPClient) DownloadShared(ctx context.Context, shareLink string) (io.ReadCloser, string, error) {
	return c.downloadPath(ctx, "/storage/share/"+url.PathEscape(shareLink))
}

// downloadPath streams a binary response. The caller owns the returned
// reader and must close it.
func (c *HTTPClient) downloadPath(ctx context.Context, path string) (io.ReadCloser, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "*/*")

	resp, err := c.do(req)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, "", Classify(resp.StatusCode, b)
	}

	name := ""
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		name = params["filename"]
	}
	return resp.Body, name, nil
}

func (c *HTTPClient) Rename(ctx context.Context, id int64, newName string) error {
	body := map[string]string{"new_name": newName}
	return c.doJSON(ctx, http.MethodPatch, "/storage/"+strconv.FormatInt(id, 10), nil, body, nil)
}

func (c *HTTPClient) SetComment(ctx context.Context, id int64, comment string) error {
	body := map[string]string{"comment": comment}
	return c.doJSON(ctx, http.MethodPatch, "/storage/"+strconv.FormatInt(id, 10), nil, body, nil)
}

func (c *HTTPClient) DeleteFile(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/storage/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

// Ping treats any HTTP response, including an error status, as proof of
// reachability. Only a transport-level failure reports unreachable.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/auth/users", nil, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}

var _ Client = (*HTTPClient)(nil)
