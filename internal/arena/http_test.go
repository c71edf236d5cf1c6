package arena

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPICheckPositionSendsRectangle(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/arena/check-position" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotQuery = map[string]string{
			"spaceId": r.URL.Query().Get("spaceId"),
			"x":       r.URL.Query().Get("x"),
			"y":       r.URL.Query().Get("y"),
			"width":   r.URL.Query().Get("width"),
			"height":  r.URL.Query().Get("height"),
		}
		w.Write([]byte(`{"blocked": true}`))
	}))
	defer server.Close()

	api := NewAPI(server.URL)
	blocked, err := api.IsBlocked(context.Background(), "sp-1", Rect{X: 25, Y: 30, Width: 2, Height: 3})
	if err != nil {
		t.Fatalf("IsBlocked failed: %v", err)
	}
	if !blocked {
		t.Error("expected blocked")
	}

	want := map[string]string{"spaceId": "sp-1", "x": "25", "y": "30", "width": "2", "height": "3"}
	for key, value := range want {
		if gotQuery[key] != value {
			t.Errorf("query %v = %q, want %q", key, gotQuery[key], value)
		}
	}
}

func TestAPIValidTokenSendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"valid": true}`))
	}))
	defer server.Close()

	api := NewAPI(server.URL)

	valid, err := api.ValidateToken(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if !valid {
		t.Error("expected token to be valid")
	}

	valid, err = api.ValidateToken(context.Background(), "tok-2")
	if err != nil {
		t.Fatalf("ValidateToken with bad token failed: %v", err)
	}
	if valid {
		t.Error("expected 401 to read as invalid, not as an error")
	}
}

func TestAPIProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ids") != "u-1" {
			w.Write([]byte(`[]`))
			return
		}
		w.Write([]byte(`[{"nickname":"ada","avatarImageUrl":"/a/ada.png","positionX":12,"positionY":34}]`))
	}))
	defer server.Close()

	api := NewAPI(server.URL)

	profile, err := api.Profile(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if profile.Nickname != "ada" || profile.AvatarURL != "/a/ada.png" {
		t.Errorf("unexpected profile %#v", profile)
	}
	if profile.LastPosition != (Position{X: 12, Y: 34}) {
		t.Errorf("unexpected last position %#v", profile.LastPosition)
	}

	if _, err := api.Profile(context.Background(), "u-unknown"); err != ErrUnknownProfile {
		t.Errorf("expected ErrUnknownProfile, got %v", err)
	}
}

func TestAPIServerErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	api := NewAPI(server.URL)
	if _, err := api.IsBlocked(context.Background(), "sp-1", Rect{Width: 1, Height: 1}); err == nil {
		t.Error("expected an error for a 500 response")
	}
}
