package domain

import "time"

// ActivityEntry is one append-only line of the activity log.
type ActivityEntry struct {
	ID          int64
	UserID      int64
	Action      ActivityAction
	Description string
	EntityType  *EntityType
	EntityID    *int64
	CreatedAt   time.Time
}

// NewActivity builds an entry that refers to a specific entity.
func NewActivity(userID int64, action ActivityAction, entityType EntityType, entityID int64, description string) ActivityEntry {
	return ActivityEntry{
		UserID:      userID,
		Action:      action,
		Description: description,
		EntityType:  &entityType,
		EntityID:    &entityID,
	}
}

// ActivityFilter narrows activity log listings.
type ActivityFilter struct {
	UserID *int64
	Action *ActivityAction
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
