package directory

import "context"

// The directory is the read contract onto the external Auth and
// Profile/Company-Profile collaborators. Messaging only ever reads from it.

// Account is the minimal authentication record: a stable id and the email
// used to start conversations.
type Account struct {
	ID    string
	Email string
}

// Profile is an individual job seeker profile.
type Profile struct {
	UserID         string
	FirstName      string
	LastName       string
	ProfilePicture string // may be empty; callers substitute a placeholder
}

// CompanyProfile is an employer profile.
type CompanyProfile struct {
	UserID string
	Name   string
	Logo   string // may be empty; callers substitute a placeholder
}

// Directory resolves identities for display and email-to-id lookups.
// Lookups return (nil, nil) when no record exists; a non-nil error means the
// backing store failed.
type Directory interface {
	AccountByEmail(ctx context.Context, email string) (*Account, error)
	AccountByID(ctx context.Context, id string) (*Account, error)
	ProfileByUserID(ctx context.Context, userID string) (*Profile, error)
	CompanyByUserID(ctx context.Context, userID string) (*CompanyProfile, error)
}
