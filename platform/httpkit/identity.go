// Package httpkit provides HTTP middleware and identity infrastructure.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity represents the caller's identity for a request: an authenticated
// user, a guest session, or both (a logged-in user may still carry the guest
// session cookie from before sign-in, which is what cart merge consumes).
type Identity interface {
	// UserID returns the authenticated user's ID, or uuid.Nil for guests.
	UserID() uuid.UUID
	// SessionID returns the guest session identifier, if present.
	SessionID() string
	// IsAuthenticated reports whether a valid access token was presented.
	IsAuthenticated() bool
	// IsStaff reports whether the caller may perform staff operations.
	// This is the single authorization capability for the whole backend.
	IsStaff() bool
}

type identity struct {
	userID        uuid.UUID
	sessionID     string
	authenticated bool
	staff         bool
}

func (i *identity) UserID() uuid.UUID    { return i.userID }
func (i *identity) SessionID() string    { return i.sessionID }
func (i *identity) IsAuthenticated() bool { return i.authenticated }
func (i *identity) IsStaff() bool        { return i.staff }

// GetIdentity extracts the Identity from a Gin context. Returns a guest
// identity when no valid token was presented.
func GetIdentity(c *gin.Context) Identity {
	out := &identity{sessionID: c.GetString(ContextSessionIDKey)}

	rawUserID, ok := c.Get(ContextUserIDKey)
	if !ok {
		return out
	}
	userID, ok := rawUserID.(uuid.UUID)
	if !ok {
		return out
	}

	out.userID = userID
	out.authenticated = true
	out.staff = c.GetBool(ContextStaffKey)
	return out
}

// MustGetUserID extracts the authenticated user ID or aborts with 401.
func MustGetUserID(c *gin.Context) (uuid.UUID, bool) {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return uuid.Nil, false
	}
	return id.UserID(), true
}
