package arena

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// API reaches the platform's REST collaborator. It implements both Oracle
// and Resolver; call deadlines come from the caller's context.
type API struct {
	baseURL string
	client  *http.Client
}

func NewAPI(baseURL string) *API {
	return &API{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{},
	}
}

func (api *API) IsBlocked(ctx context.Context, spaceID string, r Rect) (bool, error) {
	query := url.Values{}
	query.Set("spaceId", spaceID)
	query.Set("x", strconv.Itoa(r.X))
	query.Set("y", strconv.Itoa(r.Y))
	query.Set("width", strconv.Itoa(r.Width))
	query.Set("height", strconv.Itoa(r.Height))

	var body struct {
		Blocked bool `json:"blocked"`
	}
	if err := api.get(ctx, "/arena/check-position?"+query.Encode(), "", &body); err != nil {
		return false, err
	}

	return body.Blocked, nil
}

func (api *API) ValidateToken(ctx context.Context, token string) (bool, error) {
	var body struct {
		Valid bool `json:"valid"`
	}
	err := api.get(ctx, "/auth/valid-token", token, &body)
	if err != nil {
		var status *statusError
		if errors.As(err, &status) && status.code == http.StatusUnauthorized {
			return false, nil
		}
		return false, err
	}

	return body.Valid, nil
}

func (api *API) Profile(ctx context.Context, userID string) (Profile, error) {
	var body []struct {
		Nickname       string `json:"nickname"`
		AvatarImageURL string `json:"avatarImageUrl"`
		PositionX      int    `json:"positionX"`
		PositionY      int    `json:"positionY"`
	}
	query := url.Values{}
	query.Set("ids", userID)

	if err := api.get(ctx, "/user/profiles?"+query.Encode(), "", &body); err != nil {
		return Profile{}, err
	}

	if len(body) == 0 {
		return Profile{}, ErrUnknownProfile
	}

	return Profile{
		UserID:       userID,
		Nickname:     body[0].Nickname,
		AvatarURL:    body[0].AvatarImageURL,
		LastPosition: Position{X: body[0].PositionX, Y: body[0].PositionY},
	}, nil
}

type statusError struct {
	code int
	path string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("arena: %v returned status %v", e.path, e.code)
}

func (api *API) get(ctx context.Context, path string, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, api.baseURL+path, nil)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := api.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode, path: path}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
