package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxEmail       = "email"
	CtxUserID      = "user_id"
	CtxRole        = "role"
	CtxFirebaseUID = "firebase_uid"
)

// Identity is the authenticated caller as established by a verified token.
type Identity struct {
	Email       string
	UserID      string
	Role        string
	FirebaseUID string
}

// SetIdentity stores id on the gin context.
func SetIdentity(c *gin.Context, id Identity) {
	c.Set(CtxEmail, id.Email)
	c.Set(CtxUserID, id.UserID)
	c.Set(CtxRole, id.Role)
	if id.FirebaseUID != "" {
		c.Set(CtxFirebaseUID, id.FirebaseUID)
	}
}

func UserEmail(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxEmail))
}

func UserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserID))
}

func UserRole(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxRole))
}

// UserFirebaseUID is only set when the request was verified by Firebase.
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}
