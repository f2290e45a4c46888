// Package storage owns the ordered collection of a user's file resources
// and the mutating operations on it. The server stays authoritative: the
// store never invents ids or share links, inserts uploads only after the
// server acknowledged them, and re-fetches the whole listing after edits
// instead of patching entries locally.
package storage

import (
	"context"
	"io"
	"strings"
	"sync"

	"cloudbox/internal/client/api"
	"cloudbox/internal/client/models"
	"cloudbox/internal/client/session"
	"cloudbox/internal/common"
	"cloudbox/internal/logging"
)

// Status is the load state of the collection.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusError   Status = "error"
)

// Session is the slice of the session manager the store depends on:
// gating and Unauthorized propagation. *session.Manager satisfies it.
type Session interface {
	Snapshot() session.Snapshot
	Expire(ctx context.Context)
}

// Snapshot is a read-only view of the collection. Items are ordered most
// recently uploaded first and never contain two entries with the same id.
type Snapshot struct {
	Items     []models.FileResource
	Status    Status
	LastError *common.Error
}

// Store is the only writer of the resource collection.
type Store struct {
	client  api.Client
	session Session
	log     logging.Logger

	mu      sync.Mutex
	items   []models.FileResource
	status  Status
	lastErr *common.Error
	ownerID *int64
}

func NewStore(client api.Client, sess Session, log logging.Logger) *Store {
	return &Store{
		client:  client,
		session: sess,
		log:     log.With("component", "storage"),
		status:  StatusIdle,
	}
}

// Snapshot returns a copy of the current collection state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Items:     append([]models.FileResource(nil), s.items...),
		Status:    s.status,
		LastError: s.lastErr,
	}
}

// guard rejects operations issued before the session is authenticated.
func (s *Store) guard() *common.Error {
	if s.session.Snapshot().Status != session.StatusAuthenticated {
		return common.NewError(common.KindUnauthorized, "not authenticated")
	}
	return nil
}

// fail normalizes err and propagates Unauthorized into the session.
func (s *Store) fail(ctx context.Context, err error) *common.Error {
	aerr := common.Ensure(err)
	if aerr.Kind == common.KindUnauthorized {
		s.session.Expire(ctx)
	}
	return aerr
}

func sameOwner(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Load replaces the collection wholesale with the server's listing for the
// target owner (nil means the caller's own files; a non-nil owner is an
// administrator inspecting another account). A failed reload keeps the last
// known-good items and records the error. Switching owners clears the
// collection first so one user's files are never shown under another.
func (s *Store) Load(ctx context.Context, ownerID *int64) error {
	if gerr := s.guard(); gerr != nil {
		return gerr
	}

	s.mu.Lock()
	if !sameOwner(s.ownerID, ownerID) {
		s.items = nil
	}
	s.ownerID = ownerID
	s.status = StatusLoading
	s.lastErr = nil
	s.mu.Unlock()

	files, err := s.client.ListFiles(ctx, ownerID)
	if err != nil {
		aerr := s.fail(ctx, err)
		s.mu.Lock()
		s.status = StatusError
		s.lastErr = aerr
		s.mu.Unlock()
		return aerr
	}

	s.mu.Lock()
	s.items = dedupe(files)
	s.status = StatusIdle
	s.mu.Unlock()
	return nil
}

// dedupe drops later duplicates by id, preserving order.
func dedupe(files []models.FileResource) []models.FileResource {
	seen := make(map[int64]struct{}, len(files))
	out := files[:0]
	for _, f := range files {
		if _, dup := seen[f.ID]; dup {
			continue
		}
		seen[f.ID] = struct{}{}
		out = append(out, f)
	}
	return out
}

// reload re-fetches the current owner's listing.
func (s *Store) reload(ctx context.Context) error {
	s.mu.Lock()
	owner := s.ownerID
	s.mu.Unlock()
	return s.Load(ctx, owner)
}

// Upload submits the payload and inserts the server-acknowledged resource
// at the head of the collection. Nothing is inserted before the server
// answers, since only it can allocate the id and share link. On failure the
// collection is unchanged; resubmission is the caller's decision.
func (s *Store) Upload(ctx context.Context, name string, payload io.Reader, comment string) (*models.FileResource, error) {
	if gerr := s.guard(); gerr != nil {
		return nil, gerr
	}

	file, err := s.client.Upload(ctx, name, payload, comment)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	s.mu.Lock()
	kept := s.items[:0]
	for _, f := range s.items {
		if f.ID != file.ID {
			kept = append(kept, f)
		}
	}
	s.items = append([]models.FileResource{*file}, kept...)
	s.mu.Unlock()

	s.log.Info(ctx, "file uploaded", "id", file.ID, "name", file.OriginalName)
	return file, nil
}

// Rename changes a resource's display name. An empty name (after trimming)
// is rejected locally without a network call. On success the collection is
// reloaded in full so the displayed name is exactly what the server
// persisted, normalization included.
func (s *Store) Rename(ctx context.Context, id int64, newName string) error {
	if gerr := s.guard(); gerr != nil {
		return gerr
	}
	if strings.TrimSpace(newName) == "" {
		return common.NewValidationError("invalid input",
			map[string]string{"new_name": "name must not be empty"})
	}

	if err := s.client.Rename(ctx, id, newName); err != nil {
		return s.fail(ctx, err)
	}
	return s.reload(ctx)
}

// SetComment updates a resource's comment; an empty string clears it.
// Same round-trip contract as Rename.
func (s *Store) SetComment(ctx context.Context, id int64, comment string) error {
	if gerr := s.guard(); gerr != nil {
		return gerr
	}

	if err := s.client.SetComment(ctx, id, comment); err != nil {
		return s.fail(ctx, err)
	}
	return s.reload(ctx)
}

// Delete removes the resource on the server, then drops exactly the entry
// with that id locally. Deletion cannot alter other entries, so no reload
// is needed. On failure the collection is unchanged.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if gerr := s.guard(); gerr != nil {
		return gerr
	}

	if err := s.client.DeleteFile(ctx, id); err != nil {
		return s.fail(ctx, err)
	}

	s.mu.Lock()
	kept := s.items[:0]
	for _, f := range s.items {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	s.items = kept
	s.mu.Unlock()

	s.log.Info(ctx, "file deleted", "id", id)
	return nil
}

// Download streams a resource's contents into w and returns the filename
// the server suggested.
func (s *Store) Download(ctx context.Context, id int64, w io.Writer) (string, error) {
	if gerr := s.guard(); gerr != nil {
		return "", gerr
	}

	rc, name, err := s.client.Download(ctx, id)
	if err != nil {
		return "", s.fail(ctx, err)
	}
	defer rc.Close()

	if _, err := io.Copy(w, rc); err != nil {
		return "", common.NewError(common.KindNetworkUnreachable, "download interrupted")
	}
	return name, nil
}

// ShareURL returns the public share address of a listed resource.
func (s *Store) ShareURL(id int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.items {
		if f.ID == id {
			if f.ShareURL != "" {
				return f.ShareURL, true
			}
			return f.ShareLink, f.ShareLink != ""
		}
	}
	return "", false
}
