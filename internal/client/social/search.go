package social

import (
	"strings"

	resp "tripmate/internal/models/response_models"
)

// FilterUsers keeps the users whose name, username or email contains q as
// typed, ignoring case. An empty q keeps everyone.
func FilterUsers(users []resp.UserResponse, q string) []resp.UserResponse {
	q = strings.ToLower(q)
	if q == "" {
		return users
	}

	out := make([]resp.UserResponse, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Name), q) ||
			strings.Contains(strings.ToLower(u.Username), q) ||
			strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, u)
		}
	}
	return out
}
