package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cloudbox/internal/client/models"
	"cloudbox/internal/common"
	"cloudbox/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestClient(t *testing.T, handler http.Handler) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(srv.URL+"/api", 5*time.Second, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNewHTTPClientRejectsBadEndpoint(t *testing.T) {
	_, err := NewHTTPClient("", 0, testLogger())
	require.Error(t, err)

	_, err = NewHTTPClient("not a url at all", 0, testLogger())
	require.Error(t, err)
}

func TestLoginStoresCookiesAndParsesIdentity(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds models.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		require.Equal(t, "alice", creds.Username)
		require.Equal(t, "Secret1!", creds.Password)

		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "s-1"})
		http.SetCookie(w, &http.Cookie{Name: CSRFCookieName, Value: "tok-1"})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "message": "ok", "user": {"id": 7, "username": "alice", "email": "a@example.com", "full_name": "Alice", "is_administrator": false}}`))
	})

	c := newTestClient(t, mux)
	user, err := c.Login(context.Background(), models.Credentials{Username: "alice", Password: "Secret1!"})
	require.NoError(t, err)
	require.Equal(t, int64(7), user.ID)
	require.Equal(t, "alice", user.Username)

	token, ok := c.csrfToken()
	require.True(t, ok)
	require.Equal(t, "tok-1", token)
}

func TestLoginWithoutIdentityIsServerFault(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "message": "ok"}`))
	})

	c := newTestClient(t, mux)
	_, err := c.Login(context.Background(), models.Credentials{Username: "alice", Password: "x"})
	require.True(t, common.IsKind(err, common.KindServerFault))
}

func TestMutationCarriesCSRFHeader(t *testing.T) {
	var gotToken string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: CSRFCookieName, Value: "tok-2"})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user": {"id": 1, "username": "alice"}}`))
	})
	mux.HandleFunc("PATCH /api/storage/5", func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get(CSRFHeaderName)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "b.txt", body["new_name"])
		w.WriteHeader(http.StatusOK)
	})

	c := newTestClient(t, mux)
	_, err := c.Login(context.Background(), models.Credentials{Username: "alice", Password: "x"})
	require.NoError(t, err)

	require.NoError(t, c.Rename(context.Background(), 5, "b.txt"))
	require.Equal(t, "tok-2", gotToken)
}

func TestMutationWithoutTokenIsStillSent(t *testing.T) {
	called := false
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/storage/9", func(w http.ResponseWriter, r *http.Request) {
		called = true
		require.Empty(t, r.Header.Get(CSRFHeaderName))
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": "CSRF verification failed"}`))
	})

	c := newTestClient(t, mux)
	err := c.DeleteFile(context.Background(), 9)
	require.True(t, called)
	require.True(t, common.IsKind(err, common.KindForbidden))
}

func TestUploadMultipart(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/storage", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "hello", r.FormValue("comment"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		require.Equal(t, "a.txt", hdr.Filename)
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		require.Equal(t, "payload!", string(data))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 42, "original_name": "a.txt", "size": 8, "comment": "hello", "share_link": "abc"}`))
	})

	c := newTestClient(t, mux)
	file, err := c.Upload(context.Background(), "a.txt", strings.NewReader("payload!"), "hello")
	require.NoError(t, err)
	require.Equal(t, int64(42), file.ID)
	require.Equal(t, "a.txt", file.OriginalName)
	require.Equal(t, int64(8), file.SizeBytes)
}

func TestListFilesForOwner(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/storage", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "3", r.URL.Query().Get("user_id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 41, "original_name": "x.bin", "size": 10, "user_id": 3}]`))
	})

	c := newTestClient(t, mux)
	owner := int64(3)
	files, err := c.ListFiles(context.Background(), &owner)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, int64(41), files[0].ID)
	require.Equal(t, int64(3), files[0].OwnerID)
}

func TestDownloadReportsFilename(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/storage/41", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="x.bin"`)
		_, _ = w.Write([]byte("binary-data"))
	})

	c := newTestClient(t, mux)
	rc, name, err := c.Download(context.Background(), 41)
	require.NoError(t, err)
	defer rc.Close()
	require.Equal(t, "x.bin", name)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "binary-data", string(data))
}

func TestDownloadSharedNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/storage/share/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "file not found"}`))
	})

	c := newTestClient(t, mux)
	_, _, err := c.DownloadShared(context.Background(), "gone")
	require.True(t, common.IsKind(err, common.KindNotFound))
}

func TestNetworkFailureClassification(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL + "/api"
	srv.Close()

	c, err := NewHTTPClient(endpoint, time.Second, testLogger())
	require.NoError(t, err)

	_, lerr := c.ListUsers(context.Background())
	require.True(t, common.IsKind(lerr, common.KindNetworkUnreachable))

	require.True(t, common.IsKind(c.Ping(context.Background()), common.KindNetworkUnreachable))
}

func TestPingTreatsErrorStatusAsReachable(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/users", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	c := newTestClient(t, mux)
	require.NoError(t, c.Ping(context.Background()))
}
