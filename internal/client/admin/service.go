// Package admin implements administrator account management: listing
// accounts, toggling the administrator flag and removing accounts. The
// server enforces the privilege; this layer adds the local guard that an
// administrator can never modify their own account.
package admin

import (
	"context"

	"cloudbox/internal/client/api"
	"cloudbox/internal/client/models"
	"cloudbox/internal/client/session"
	"cloudbox/internal/common"
	"cloudbox/internal/logging"
)

// Session is the slice of the session manager the service depends on.
type Session interface {
	Snapshot() session.Snapshot
	Expire(ctx context.Context)
}

type Service struct {
	client  api.Client
	session Session
	log     logging.Logger
}

func NewService(client api.Client, sess Session, log logging.Logger) *Service {
	return &Service{client: client, session: sess, log: log.With("component", "admin")}
}

func (s *Service) guard() *common.Error {
	if s.session.Snapshot().Status != session.StatusAuthenticated {
		return common.NewError(common.KindUnauthorized, "not authenticated")
	}
	return nil
}

func (s *Service) fail(ctx context.Context, err error) *common.Error {
	aerr := common.Ensure(err)
	if aerr.Kind == common.KindUnauthorized {
		s.session.Expire(ctx)
	}
	return aerr
}

// selfGuard rejects operations targeting the caller's own account before
// any network traffic happens.
func (s *Service) selfGuard(id int64, what string) *common.Error {
	snap := s.session.Snapshot()
	if snap.Identity != nil && snap.Identity.ID == id {
		return common.NewError(common.KindForbidden, "cannot "+what+" your own account")
	}
	return nil
}

// ListUsers returns all accounts with their file aggregates.
func (s *Service) ListUsers(ctx context.Context) ([]models.UserIdentity, error) {
	if gerr := s.guard(); gerr != nil {
		return nil, gerr
	}
	users, err := s.client.ListUsers(ctx)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return users, nil
}

// SetAdministrator toggles another account's administrator flag.
func (s *Service) SetAdministrator(ctx context.Context, id int64, isAdmin bool) error {
	if gerr := s.guard(); gerr != nil {
		return gerr
	}
	if gerr := s.selfGuard(id, "change the administrator status of"); gerr != nil {
		return gerr
	}
	if err := s.client.SetAdministrator(ctx, id, isAdmin); err != nil {
		return s.fail(ctx, err)
	}
	s.log.Info(ctx, "administrator status updated", "user", id, "is_administrator", isAdmin)
	return nil
}

// DeleteUser removes another account together with its files.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	if gerr := s.guard(); gerr != nil {
		return gerr
	}
	if gerr := s.selfGuard(id, "delete"); gerr != nil {
		return gerr
	}
	if err := s.client.DeleteUser(ctx, id); err != nil {
		return s.fail(ctx, err)
	}
	s.log.Info(ctx, "account deleted", "user", id)
	return nil
}
