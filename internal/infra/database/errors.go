package database

import "errors"

// Sentinel errors returned by the repositories. Services compare with
// errors.Is and translate to their own error vocabulary.
var (
	ErrBillNotFound            = errors.New("bill not found")
	ErrUserNotFound            = errors.New("user not found")
	ErrDuplicateEmail          = errors.New("user with this email already exists")
	ErrChoreNotFound           = errors.New("chore not found")
	ErrStreakNotFound          = errors.New("streak not found")
	ErrNotificationLogNotFound = errors.New("notification log not found")
)
