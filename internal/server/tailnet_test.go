package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tailscale.com/client/tailscale/apitype"
)

type fakeWhoIs struct {
	resp *apitype.WhoIsResponse
	err  error
}

func (f *fakeWhoIs) WhoIs(ctx context.Context, remoteAddr string) (*apitype.WhoIsResponse, error) {
	return f.resp, f.err
}

// TestRequestUserIDNoTailscale verifies that without a tailnet client every
// request maps to the configured local user.
func TestRequestUserIDNoTailscale(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/activities", nil)

	if got := s.requestUserID(req); got != 1 {
		t.Errorf("requestUserID = %d, want 1", got)
	}
}

// TestRequestUserIDLookupFailure verifies that a failed identity lookup
// falls back to the local user rather than rejecting the request.
func TestRequestUserIDLookupFailure(t *testing.T) {
	s := newTestServer()
	s.SetTailscale(&fakeWhoIs{err: errors.New("no such peer")})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/activities", nil)

	if got := s.requestUserID(req); got != 1 {
		t.Errorf("requestUserID = %d, want 1", got)
	}
}

// TestRequestUserIDTaggedNode verifies that a connection without a user
// profile (a tagged node) maps to the local user.
func TestRequestUserIDTaggedNode(t *testing.T) {
	s := newTestServer()
	s.SetTailscale(&fakeWhoIs{resp: &apitype.WhoIsResponse{}})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/activities", nil)

	if got := s.requestUserID(req); got != 1 {
		t.Errorf("requestUserID = %d, want 1", got)
	}
}
