package user

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID string
	Email  string
}
