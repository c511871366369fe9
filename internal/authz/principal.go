package authz

// Principal identifies the authenticated caller for authorization checks.
type Principal struct {
	UserID  int64
	IsAdmin bool
}

// CanModify reports whether the principal may mutate a resource owned by ownerID.
// Admins may modify anything; everyone else only their own resources.
func CanModify(p Principal, ownerID int64) bool {
	if p.IsAdmin {
		return true
	}
	return p.UserID != 0 && p.UserID == ownerID
}
