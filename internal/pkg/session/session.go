package session

import (
	"errors"

	"github.com/gin-gonic/gin"
)

const contextKey = "session_account"

var ErrNoSession = errors.New("no authenticated session")

// Account is the explicit session-context object handed to handlers after the
// auth middleware has validated a credential. Handlers read this instead of
// inspecting tokens or globals themselves.
type Account struct {
	Subject string
	Email   string
	Name    string
	Role    string
}

func Set(c *gin.Context, acc Account) {
	c.Set(contextKey, acc)
}

func FromContext(c *gin.Context) (Account, error) {
	v, ok := c.Get(contextKey)
	if !ok {
		return Account{}, ErrNoSession
	}
	acc, ok := v.(Account)
	if !ok {
		return Account{}, ErrNoSession
	}
	return acc, nil
}
