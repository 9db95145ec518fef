package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// ActAs runs fn inside a transaction with the given account bound as the
// acting user. On Postgres the binding is installed with set_config(...,
// true), so it is local to the transaction: row-level security policies see
// app.current_user_id for exactly one logical operation and the binding
// cannot leak to another request sharing the connection. Every query against
// owned rows must go through here.
func ActAs(db *gorm.DB, ctx context.Context, userID string, fn func(tx *gorm.DB) error) error {
	if len(userID) == 0 {
		return fmt.Errorf("cannot scope database operation: empty user id")
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if db.Dialector.Name() == "postgres" {
			if err := tx.Exec("SELECT set_config('app.current_user_id', ?, true)", userID).Error; err != nil {
				return fmt.Errorf("unable to bind acting user: %w", err)
			}
		}
		return fn(tx)
	})
}
