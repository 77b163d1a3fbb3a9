// Package dedup remembers which items each user has already been
// shown, so repeated searches surface fresh results instead of the
// same top hits. Entries expire so suggestions recycle eventually.
package dedup

import "context"

// Categories partition seen-item sets per tool.
const (
	CategoryActivity = "activity"
	CategoryQuestion = "question"
)

// Store tracks seen items per category and user.
type Store interface {
	// Contains reports whether the item was already shown to the user.
	Contains(ctx context.Context, category, userID, item string) (bool, error)

	// Add marks items as shown, refreshing their expiry.
	Add(ctx context.Context, category, userID string, items []string) error
}
