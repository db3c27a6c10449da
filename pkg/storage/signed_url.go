package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrTokenMalformed = errors.New("storage: malformed download token")
	ErrTokenSignature = errors.New("storage: invalid download token signature")
	ErrTokenExpired   = errors.New("storage: download token expired")
)

// Grant is what a download token authorises: one stored file for one export.
type Grant struct {
	ExportID  string
	Path      string
	ExpiresAt time.Time
}

// URLSigner issues and checks HMAC-signed download tokens.
type URLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewURLSigner constructs a signer with the provided secret and TTL.
func NewURLSigner(secret string, ttl time.Duration) *URLSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &URLSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign returns a token granting access to path for exportID.
func (s *URLSigner) Sign(exportID, path string) (string, Grant, error) {
	if exportID == "" || path == "" {
		return "", Grant{}, fmt.Errorf("export id and path required")
	}
	if len(s.secret) == 0 {
		return "", Grant{}, fmt.Errorf("signing secret missing")
	}
	grant := Grant{ExportID: exportID, Path: path, ExpiresAt: s.now().Add(s.ttl).Truncate(time.Second)}
	body := strings.Join([]string{
		exportID,
		strconv.FormatInt(grant.ExpiresAt.Unix(), 10),
		base64.RawURLEncoding.EncodeToString([]byte(path)),
	}, ".")
	return body + "." + s.mac(body), grant, nil
}

// Verify checks the token signature and, unless allowExpired is set, its expiry.
func (s *URLSigner) Verify(token string, allowExpired bool) (Grant, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return Grant{}, ErrTokenMalformed
	}
	body := strings.Join(parts[:3], ".")
	if !hmac.Equal([]byte(s.mac(body)), []byte(parts[3])) {
		return Grant{}, ErrTokenSignature
	}
	expUnix, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Grant{}, ErrTokenMalformed
	}
	path, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return Grant{}, ErrTokenMalformed
	}
	grant := Grant{ExportID: parts[0], Path: string(path), ExpiresAt: time.Unix(expUnix, 0)}
	if !allowExpired && s.now().After(grant.ExpiresAt) {
		return Grant{}, ErrTokenExpired
	}
	return grant, nil
}

func (s *URLSigner) mac(body string) string {
	h := hmac.New(sha256.New, s.secret)
	_, _ = h.Write([]byte(body))
	return hex.EncodeToString(h.Sum(nil))
}
