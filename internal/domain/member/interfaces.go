package member

import "context"

// Repository provides persistence for guild members.
type Repository interface {
	Create(ctx context.Context, m *Member) error
	Get(ctx context.Context, userDocID string) (*Member, error)
	List(ctx context.Context) ([]Member, error)
	Delete(ctx context.Context, userDocID string) error
}
