package models

import (
	"strings"
	"sync"
)

// User is an account holder. The wallet pointer is replaced wholesale when a
// fresh copy is loaded from storage, so access to it is synchronized.
type User struct {
	username     string
	passwordHash string

	mu     sync.RWMutex
	wallet *Wallet
}

// NewUser creates a user with an empty wallet. username is trimmed.
func NewUser(username, passwordHash string) *User {
	username = strings.TrimSpace(username)
	return &User{
		username:     username,
		passwordHash: passwordHash,
		wallet:       NewWallet(username),
	}
}

// Username returns the trimmed username.
func (u *User) Username() string { return u.username }

// PasswordHash returns the stored bcrypt hash.
func (u *User) PasswordHash() string { return u.passwordHash }

// Wallet returns the wallet currently attached to the user.
func (u *User) Wallet() *Wallet {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.wallet
}

// SetWallet replaces the attached wallet. A nil wallet is ignored.
func (u *User) SetWallet(w *Wallet) {
	if w == nil {
		return
	}
	u.mu.Lock()
	u.wallet = w
	u.mu.Unlock()
}
