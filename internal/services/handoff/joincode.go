package handoff

import (
	"net/url"
	"strings"

	"aura/internal/domain"
)

// JoinURL returns the URL patients scan to join session id.
func JoinURL(base string, id domain.SessionID) string {
	return strings.TrimRight(base, "/") + "/vault/" + url.PathEscape(id.String()) + "/join"
}

// ParseJoinCode extracts the session id from a scanned join URL.
//
// The payload must be an absolute URL; the id is its second-to-last path
// segment. Anything else is domain.ErrInvalidJoinCode.
func ParseJoinCode(payload string) (domain.SessionID, error) {
	u, err := url.Parse(strings.TrimSpace(payload))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", domain.ErrInvalidJoinCode
	}
	segs := strings.Split(strings.Trim(u.EscapedPath(), "/"), "/")
	if len(segs) < 2 {
		return "", domain.ErrInvalidJoinCode
	}
	id, err := url.PathUnescape(segs[len(segs)-2])
	if err != nil {
		return "", domain.ErrInvalidJoinCode
	}
	if id = strings.TrimSpace(id); id == "" {
		return "", domain.ErrInvalidJoinCode
	}
	return domain.SessionID(id), nil
}
