// Package access holds the pure view-authorization predicates. They are
// evaluated on every navigation attempt; redirecting when a predicate is
// false is the caller's concern.
package access

import "cloudbox/internal/client/session"

// CanViewAuthenticatedArea reports whether the session may see
// authenticated-only views.
func CanViewAuthenticatedArea(s session.Snapshot) bool {
	return s.Status == session.StatusAuthenticated
}

// CanViewAdminArea reports whether the session may see administrator views.
func CanViewAdminArea(s session.Snapshot) bool {
	return CanViewAuthenticatedArea(s) && s.Identity != nil && s.Identity.IsAdministrator
}
