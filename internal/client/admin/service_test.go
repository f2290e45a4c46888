package admin

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"cloudbox/internal/client/models"
	"cloudbox/internal/client/session"
	"cloudbox/internal/common"
	"cloudbox/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeSession struct {
	snap    session.Snapshot
	expired bool
}

func (f *fakeSession) Snapshot() session.Snapshot { return f.snap }
func (f *fakeSession) Expire(ctx context.Context) { f.expired = true }

type fakeClient struct {
	ListUsersRet []models.UserIdentity
	ListUsersErr error
	SetAdminErr  error
	DeleteErr    error

	SetAdminCalls int
	DeleteCalls   int
	LastID        int64
	LastIsAdmin   bool
}

func (f *fakeClient) Close() error { return nil }
func (f *fakeClient) Login(ctx context.Context, creds models.Credentials) (*models.UserIdentity, error) {
	return nil, nil
}
func (f *fakeClient) Register(ctx context.Context, profile models.RegisterProfile) (*models.UserIdentity, error) {
	return nil, nil
}
func (f *fakeClient) Logout(ctx context.Context) error { return nil }

func (f *fakeClient) ListUsers(ctx context.Context) ([]models.UserIdentity, error) {
	return f.ListUsersRet, f.ListUsersErr
}

func (f *fakeClient) SetAdministrator(ctx context.Context, id int64, isAdmin bool) error {
	f.SetAdminCalls++
	f.LastID = id
	f.LastIsAdmin = isAdmin
	return f.SetAdminErr
}

func (f *fakeClient) DeleteUser(ctx context.Context, id int64) error {
	f.DeleteCalls++
	f.LastID = id
	return f.DeleteErr
}

func (f *fakeClient) ListFiles(ctx context.Context, ownerID *int64) ([]models.FileResource, error) {
	return nil, nil
}
func (f *fakeClient) Upload(ctx context.Context, name string, payload io.Reader, comment string) (*models.FileResource, error) {
	return nil, nil
}
func (f *fakeClient) Download(ctx context.Context, id int64) (io.ReadCloser, string, error) {
	return nil, "", nil
}
func (f *fakeClient) DownloadShared(ctx context.Context, shareLink string) (io.ReadCloser, string, error) {
	return nil, "", nil
}
func (f *fakeClient) Rename(ctx context.Context, id int64, newName string) error     { return nil }
func (f *fakeClient) SetComment(ctx context.Context, id int64, comment string) error { return nil }
func (f *fakeClient) DeleteFile(ctx context.Context, id int64) error                 { return nil }
func (f *fakeClient) Ping(ctx context.Context) error                                 { return nil }

func adminSession() *fakeSession {
	return &fakeSession{snap: session.Snapshot{
		Status:   session.StatusAuthenticated,
		Identity: &models.UserIdentity{ID: 7, Username: "alice", IsAdministrator: true},
	}}
}

func TestSelfPrivilegeToggleRejectedLocally(t *testing.T) {
	fc := &fakeClient{}
	s := NewService(fc, adminSession(), testLogger())

	err := s.SetAdministrator(context.Background(), 7, false)
	require.True(t, common.IsKind(err, common.KindForbidden))
	require.Zero(t, fc.SetAdminCalls)
}

func TestSelfDeleteRejectedLocally(t *testing.T) {
	fc := &fakeClient{}
	s := NewService(fc, adminSession(), testLogger())

	err := s.DeleteUser(context.Background(), 7)
	require.True(t, common.IsKind(err, common.KindForbidden))
	require.Zero(t, fc.DeleteCalls)
}

func TestSetAdministratorOtherAccount(t *testing.T) {
	fc := &fakeClient{}
	s := NewService(fc, adminSession(), testLogger())

	require.NoError(t, s.SetAdministrator(context.Background(), 3, true))
	require.Equal(t, 1, fc.SetAdminCalls)
	require.Equal(t, int64(3), fc.LastID)
	require.True(t, fc.LastIsAdmin)
}

func TestDeleteOtherAccount(t *testing.T) {
	fc := &fakeClient{}
	s := NewService(fc, adminSession(), testLogger())

	require.NoError(t, s.DeleteUser(context.Background(), 3))
	require.Equal(t, 1, fc.DeleteCalls)
}

func TestListUsers(t *testing.T) {
	fc := &fakeClient{ListUsersRet: []models.UserIdentity{
		{ID: 7, Username: "alice", FilesCount: 3, TotalSize: 1024},
		{ID: 3, Username: "bob"},
	}}
	s := NewService(fc, adminSession(), testLogger())

	users, err := s.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, int64(3), users[0].FilesCount)
}

func TestUnauthorizedExpiresSession(t *testing.T) {
	fc := &fakeClient{ListUsersErr: common.NewError(common.KindUnauthorized, "session expired")}
	fs := adminSession()
	s := NewService(fc, fs, testLogger())

	_, err := s.ListUsers(context.Background())
	require.True(t, common.IsKind(err, common.KindUnauthorized))
	require.True(t, fs.expired)
}

func TestOperationsGatedOnAuthentication(t *testing.T) {
	fc := &fakeClient{}
	fs := &fakeSession{snap: session.Snapshot{Status: session.StatusAnonymous}}
	s := NewService(fc, fs, testLogger())
	ctx := context.Background()

	_, err := s.ListUsers(ctx)
	require.True(t, common.IsKind(err, common.KindUnauthorized))
	require.True(t, common.IsKind(s.SetAdministrator(ctx, 3, true), common.KindUnauthorized))
	require.True(t, common.IsKind(s.DeleteUser(ctx, 3), common.KindUnauthorized))
	require.Zero(t, fc.SetAdminCalls)
	require.Zero(t, fc.DeleteCalls)
}
