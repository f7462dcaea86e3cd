package auth

import (
	"context"

	"LabelCMS/model"
)

// Operation is the class of a requested operation.
type Operation int

const (
	OpRead Operation = iota
	OpWrite
)

func (op Operation) String() string {
	if op == OpWrite {
		return "write"
	}
	return "read"
}

// Principal is the acting user as resolved from the session.
type Principal struct {
	UserID int64
	OpenID string
	Name   string
	Role   model.Role
}

// PrincipalFromUser builds the principal for a stored user.
func PrincipalFromUser(u *model.User) *Principal {
	if u == nil {
		return nil
	}
	p := &Principal{UserID: u.ID, OpenID: u.OpenID, Role: u.Role}
	if u.Name != nil {
		p.Name = *u.Name
	}
	return p
}

// AuthorizationError denies an operation. Its message never names the target.
type AuthorizationError struct {
	// Anonymous is true when no principal was present.
	Anonymous bool
}

func (e *AuthorizationError) Error() string {
	if e.Anonymous {
		return "authentication required"
	}
	return "access denied"
}

// Authorize is the gate: reads are open to everyone, writes need role admin.
func Authorize(p *Principal, op Operation) error {
	if op == OpRead {
		return nil
	}
	if p == nil {
		return &AuthorizationError{Anonymous: true}
	}
	if p.Role != model.RoleAdmin {
		return &AuthorizationError{}
	}
	return nil
}

type principalKey struct{}

// WithPrincipal returns ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal in ctx, or nil for anonymous callers.
func PrincipalFrom(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}

// RequireWrite applies the gate to the principal carried by ctx.
func RequireWrite(ctx context.Context) error {
	return Authorize(PrincipalFrom(ctx), OpWrite)
}
