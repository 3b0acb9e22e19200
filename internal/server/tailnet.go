package server

import (
	"context"
	"net/http"

	"tailscale.com/client/tailscale/apitype"
)

// WhoIsClient resolves the tailnet identity behind a remote address. The
// local client of a running tsnet server satisfies it.
type WhoIsClient interface {
	WhoIs(ctx context.Context, remoteAddr string) (*apitype.WhoIsResponse, error)
}

// SetTailscale installs the tailnet client used to map requests to users.
// Without it every request is attributed to the configured local user.
func (s *Server) SetTailscale(lc WhoIsClient) {
	s.ts = lc
}

// requestUserID resolves the user behind a request. Lookup failures and
// connections without a user profile (tagged nodes) fall back to the
// default local user.
func (s *Server) requestUserID(r *http.Request) int {
	if s.ts == nil {
		return s.userID
	}
	who, err := s.ts.WhoIs(r.Context(), r.RemoteAddr)
	if err != nil || who.UserProfile == nil || who.UserProfile.LoginName == "" {
		return s.userID
	}
	id, err := s.db.GetOrCreateUser(r.Context(), who.UserProfile.LoginName, who.UserProfile.DisplayName)
	if err != nil {
		s.log.Warn("resolving tailnet user", "login", who.UserProfile.LoginName, "error", err)
		return s.userID
	}
	return id
}
