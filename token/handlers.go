package token

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"
)

// refreshRequest is the json body accepted by HandleRefresh
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// HandleRefresh refreshes the refresh_token provided as a form value or
// json body and writes the Result as json. Input errors return 400 and
// provider or network failures 502.
func (c *Client) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var refreshToken string
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "application/json" {
		var rr refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&rr); err != nil {
			msg := fmt.Sprintf("refresh request decoding error: %s", err)
			c.log.Info().Msg(msg)
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		refreshToken = rr.RefreshToken
	} else {
		refreshToken = r.PostFormValue("refresh_token")
	}

	n := time.Now()
	result := c.RefreshToken(r.Context(), refreshToken)
	c.log.Debug().Dur("took", time.Since(n)).Bool("success", result.Success).Msg("refresh handled")

	status := http.StatusOK
	switch {
	case refreshToken == "":
		status = http.StatusBadRequest
	case result.Failure():
		status = http.StatusBadGateway
	}
	writeJSON(w, status, result)
}

// HandleExpired reports whether the unix time in the expires_at query
// parameter should be treated as expired. The optional buffer parameter
// overrides the client's expiry buffer.
func (c *Client) HandleExpired(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	buffer := c.expiryBuffer
	if b := q.Get("buffer"); b != "" {
		v, err := strconv.ParseInt(b, 10, 64)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid buffer: %s", b), http.StatusBadRequest)
			return
		}
		buffer = v
	}

	var expiresAt *int64
	if e := q.Get("expires_at"); e != "" {
		v, err := strconv.ParseInt(e, 10, 64)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid expires_at: %s", e), http.StatusBadRequest)
			return
		}
		expiresAt = &v
	}

	writeJSON(w, http.StatusOK, map[string]bool{"expired": Expired(expiresAt, buffer)})
}

// HandleLivez reports that the server is up
func (c *Client) HandleLivez(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ok")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	j, err := json.Marshal(v)
	if err != nil {
		http.Error(w, fmt.Sprintf("json encoding error: %s", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(j)
}
