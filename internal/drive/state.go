package drive

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// StateSigner creates and validates the OAuth handshake state token. The
// token carries the initiating user id through the redirect so no
// server-side session is needed.
type StateSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewStateSigner constructs a signer with the provided secret and TTL.
func NewStateSigner(secret string, ttl time.Duration) *StateSigner {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &StateSigner{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Generate returns a signed state token bound to the user id.
func (s *StateSigner) Generate(userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("userID required")
	}
	if len(s.secret) == 0 {
		return "", fmt.Errorf("signing secret missing")
	}
	expiresAt := time.Now().Add(s.ttl)
	payload := fmt.Sprintf("%s|%d", userID, expiresAt.Unix())
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(payload))
	signature := hex.EncodeToString(mac.Sum(nil))
	return strings.Join([]string{userID, fmt.Sprintf("%d", expiresAt.Unix()), signature}, "."), nil
}

// Parse validates a state token and returns the embedded user id.
func (s *StateSigner) Parse(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid state format")
	}
	userID := parts[0]
	ts := parts[1]
	signature := parts[2]

	expUnix, err := parseUnix(ts)
	if err != nil {
		return "", err
	}

	payload := fmt.Sprintf("%s|%s", userID, ts)
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(payload))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return "", fmt.Errorf("invalid state signature")
	}
	if time.Now().After(time.Unix(expUnix, 0)) {
		return "", fmt.Errorf("state expired")
	}
	return userID, nil
}

func parseUnix(raw string) (int64, error) {
	var ts int64
	_, err := fmt.Sscanf(raw, "%d", &ts)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp")
	}
	return ts, nil
}
