package api

import (
	"context"
	"io"

	"cloudbox/internal/client/models"
)

// Client is the contract against the remote cloudbox service. The concrete
// implementation is HTTPClient; tests substitute fakes.
type Client interface {
	Close() error

	// Auth.
	Login(ctx context.Context, creds models.Credentials) (*models.UserIdentity, error)
	Register(ctx context.Context, profile models.RegisterProfile) (*models.UserIdentity, error)
	Logout(ctx context.Context) error

	// Accounts. ListUsers doubles as the bootstrap verification source.
	ListUsers(ctx context.Context) ([]models.UserIdentity, error)
	SetAdministrator(ctx context.Context, id int64, isAdmin bool) error
	DeleteUser(ctx context.Context, id int64) error

	// Storage. ownerID selects another user's collection (administrators
	// only); nil means the caller's own files.
	ListFiles(ctx context.Context, ownerID *int64) ([]models.FileResource, error)
	Upload(ctx context.Context, name string, payload io.Reader, comment string) (*models.FileResource, error)
	Download(ctx context.Context, id int64) (io.ReadCloser, string, error)
	DownloadShared(ctx context.Context, shareLink string) (io.ReadCloser, string, error)
	Rename(ctx context.Context, id int64, newName string) error
	SetComment(ctx context.Context, id int64, comment string) error
	DeleteFile(ctx context.Context, id int64) error

	// Ping reports reachability: any HTTP response counts as reachable,
	// only a transport-level failure does not.
	Ping(ctx context.Context) error
}
