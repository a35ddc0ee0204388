package auth

// IsPermitted reports whether rec may use a resource that requires role.
// An empty role is public. The result only drives UI affordances; the backend
// enforces access on every call.
func IsPermitted(role string, rec *SessionRecord) bool {
	if role == "" {
		return true
	}
	if !rec.Authenticated() {
		return false
	}
	return rec.HasRole(role)
}
