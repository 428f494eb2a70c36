// Package domain holds sentinel errors shared across repositories and handlers.
package domain

import "errors"

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotOwner covers both "poll missing" and "not yours" on owner-scoped
	// mutations. The two are deliberately indistinguishable so responses do
	// not leak whether a poll exists.
	ErrNotOwner = errors.New("not found or not owned by caller")

	// ErrEmailTaken is returned on registration with an existing email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrLastAdmin is returned when demotion would leave zero admins.
	ErrLastAdmin = errors.New("cannot demote the last admin")

	// ErrSelfDemotion is returned when an admin tries to demote themselves.
	ErrSelfDemotion = errors.New("admins cannot demote themselves")

	// ErrNotAdmin is returned when a demotion target is not currently an admin.
	ErrNotAdmin = errors.New("user is not an admin")
)
