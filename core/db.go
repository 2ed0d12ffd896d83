package core

import "github.com/fox-one/pkg/store/db"

// Txer executes a function within a database transaction; every mutation
// inside commits or rolls back as one. *db.DB satisfies it, tests
// substitute an in memory fake.
type Txer interface {
	Tx(fn func(tx *db.DB) error) error
}
