// Package portaluser exposes the portal accounts that own tenant instances.
// The records are maintained by the identity service; the portal only reads them.
package portaluser

import (
	"context"
	"errors"
)

var ErrUserNotFound = errors.New("portal user not found")

type User struct {
	ID        uint
	PartnerID uint
	Login     string
	Name      string
	Email     string
}

// OwnerBlock is the owner description sent to a duplicated instance.
func (u *User) OwnerBlock() map[string]any {
	return map[string]any{
		"user_id":  u.ID,
		"login":    u.Login,
		"name":     u.Name,
		"email":    u.Email,
		"password": nil,
	}
}

type Repository interface {
	GetByID(ctx context.Context, id uint) (*User, error)
	// Upsert is used by the seed command to mirror identity records.
	Upsert(ctx context.Context, user *User) error
}
