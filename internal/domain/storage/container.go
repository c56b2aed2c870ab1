package storage

import (
	"tambii/internal/domain/bucketlist"
	"tambii/internal/domain/reviews"
	"tambii/internal/domain/spots"
	"tambii/internal/domain/users"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Container wires every domain repository to the shared pool.
type Container struct {
	pool       *pgxpool.Pool
	Users      users.Store
	Spots      spots.Store
	Reviews    reviews.Store
	BucketList bucketlist.Store
}

func NewContainer(pool *pgxpool.Pool) *Container {
	return &Container{
		pool:       pool,
		Users:      users.NewRepository(pool),
		Spots:      spots.NewRepository(pool),
		Reviews:    reviews.NewRepository(pool),
		BucketList: bucketlist.NewRepository(pool),
	}
}
