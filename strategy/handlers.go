package strategy

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// HandleUserInfo builds the AuthHash for the bearer access token in the
// Authorization header and the realmId query parameter
func (s *Strategy) HandleUserInfo(w http.ResponseWriter, r *http.Request) {
	bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || strings.TrimSpace(bearer) == "" {
		msg := "bearer access token required"
		s.log.Info().Msg(msg)
		http.Error(w, msg, http.StatusUnauthorized)
		return
	}

	flow := s.NewFlow(AccessToken{Token: strings.TrimSpace(bearer)}, r.URL.Query().Get("realmId"))
	j, err := json.Marshal(flow.AuthHash(r.Context()))
	if err != nil {
		msg := fmt.Sprintf("auth hash json encoding error: %s", err)
		s.log.Error().Msg(msg)
		http.Error(w, msg, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(j)
}
