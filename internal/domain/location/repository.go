package location

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (Location, error)
	ListActive(ctx context.Context) ([]Location, error)
}
