package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Flow is a single authentication. The userinfo profile is fetched at
// most once per Flow. A Flow is not safe for concurrent use.
type Flow struct {
	ID          uuid.UUID
	strategy    *Strategy
	accessToken AccessToken
	realmID     string

	// rawInfo is nil until the userinfo profile is first requested
	rawInfo map[string]any
}

func newFlow(s *Strategy, accessToken AccessToken, realmID string) *Flow {
	return &Flow{
		ID:          uuid.New(),
		strategy:    s,
		accessToken: accessToken,
		realmID:     realmID,
	}
}

// AuthHash is the collaborator contract surfaced to the hosting
// middleware. UID is nil when no realmId was supplied.
type AuthHash struct {
	Provider    string         `json:"provider"`
	UID         *string        `json:"uid"`
	Info        map[string]any `json:"info"`
	Credentials map[string]any `json:"credentials"`
	Extra       map[string]any `json:"extra"`
}

// UID is the realmId of the authenticated company, or "" if absent
func (f *Flow) UID() string {
	return f.realmID
}

// Credentials returns the sparse credentials mapping of the access token
func (f *Flow) Credentials() map[string]any {
	return f.accessToken.Credentials()
}

// RawInfo returns the userinfo payload. The endpoint is only called when
// openid was requested, and only on the first call; failures are logged
// and yield an empty mapping.
func (f *Flow) RawInfo(ctx context.Context) map[string]any {
	if f.rawInfo != nil {
		return f.rawInfo
	}
	f.rawInfo = map[string]any{}
	if !f.strategy.OpenIDRequested() {
		return f.rawInfo
	}
	info, err := f.getUserInfo(ctx)
	if err != nil {
		f.strategy.log.Error().
			Str("flow_id", f.ID.String()).
			Str("url", f.strategy.userInfoURL).
			Msgf("failed to fetch user info: %s", err)
		return f.rawInfo
	}
	f.rawInfo = info
	return f.rawInfo
}

// getUserInfo retrieves the OpenID Connect userinfo profile
func (f *Flow) getUserInfo(ctx context.Context) (map[string]any, error) {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.strategy.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	f.accessToken.SetAuthHeader(req)
	req.Header.Add("Accept", "application/json")

	resp, err := f.strategy.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("userinfo callout http error, %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("userinfo callout failed, body read error, %w", err)
	}

	var info map[string]any
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, err
	}
	if info == nil {
		return nil, errors.New("userinfo response is not a json object")
	}
	return info, nil
}

// Info returns the normalised profile. Fields absent from the userinfo
// payload are left out. name joins the first and last names that are
// present and is itself absent when neither is.
func (f *Flow) Info(ctx context.Context) map[string]any {
	raw := f.RawInfo(ctx)
	info := map[string]any{}

	set := func(key, from string) string {
		s, _ := raw[from].(string)
		if s != "" {
			info[key] = s
		}
		return s
	}
	set("email", "email")
	first := set("first_name", "givenName")
	last := set("last_name", "familyName")
	set("phone", "phoneNumber")

	if name := joinName(first, last); name != "" {
		info["name"] = name
	}
	if f.realmID != "" {
		info["realm_id"] = f.realmID
	}
	return info
}

// Extra holds the realmId and the raw userinfo payload
func (f *Flow) Extra(ctx context.Context) map[string]any {
	var realmID any
	if f.realmID != "" {
		realmID = f.realmID
	}
	return map[string]any{
		"realm_id": realmID,
		"raw_info": f.RawInfo(ctx),
	}
}

// AuthHash assembles the uid, info, credentials and extra values
func (f *Flow) AuthHash(ctx context.Context) AuthHash {
	var uid *string
	if f.realmID != "" {
		r := f.realmID
		uid = &r
	}
	return AuthHash{
		Provider:    Name,
		UID:         uid,
		Info:        f.Info(ctx),
		Credentials: f.Credentials(),
		Extra:       f.Extra(ctx),
	}
}

func joinName(parts ...string) string {
	var present []string
	for _, p := range parts {
		if p != "" {
			present = append(present, p)
		}
	}
	return strings.Join(present, " ")
}
