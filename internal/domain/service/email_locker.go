package service

import (
	"context"
)

// UnlockFunc releases a lock obtained from EmailLocker.
type UnlockFunc func()

// EmailLocker serialises work on a single email address so that the
// uniqueness check and the write of one registration cannot interleave with
// another registration of the same address.
type EmailLocker interface {
	// Lock blocks until email is held by the caller or ctx is done.
	Lock(ctx context.Context, email string) (UnlockFunc, error)
}
