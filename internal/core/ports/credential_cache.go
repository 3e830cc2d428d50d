package ports

import "context"

// CredentialCache stores the current credential version per user so the
// access gate can reject tokens minted before a password change without a
// database round-trip. Get reports found=false on a cache miss.
// Fill only writes when no entry exists, so a read-through fill never
// replaces a version written by Set.
type CredentialCache interface {
	Get(ctx context.Context, userID string) (version int64, found bool, err error)
	Set(ctx context.Context, userID string, version int64) error
	Fill(ctx context.Context, userID string, version int64) (stored bool, err error)
	Delete(ctx context.Context, userID string) error
}

// CredentialVersionChecker resolves the current credential version of a
// user. exists is false when the account is gone.
type CredentialVersionChecker interface {
	CurrentVersion(ctx context.Context, userID string) (version int64, exists bool, err error)
}
