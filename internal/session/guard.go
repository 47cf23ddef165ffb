package session

import "strings"

// Authorize applies the route policy for a navigation to path. It returns the
// redirect target, or "" when the request may proceed. s is nil when no valid
// session accompanies the request. The rules, in order:
//
//   - /login with a valid session redirects to the role's home page
//   - /admin requires an admin session
//   - /dashboard requires any session
//   - everything else is open
func Authorize(path string, s *Session) string {
	if path == "/login" && s != nil {
		if s.IsAdmin() {
			return "/admin"
		}
		return "/dashboard"
	}

	if strings.HasPrefix(path, "/admin") {
		if s == nil || !s.IsAdmin() {
			return "/login"
		}
	}

	if strings.HasPrefix(path, "/dashboard") {
		if s == nil {
			return "/login"
		}
	}

	return ""
}
