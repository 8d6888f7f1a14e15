package messaging

// AvatarPlaceholder is served when neither a profile picture nor a company
// logo exists for a user. Summary avatars are never empty.
const AvatarPlaceholder = "/images/avatar-placeholder.png"

// IdentityKind tags how a counterpart's display identity was resolved.
type IdentityKind int

const (
	IdentityUnknown IdentityKind = iota // no profile; display falls back to the account email
	IdentityIndividual
	IdentityCompany
)

func (k IdentityKind) String() string {
	switch k {
	case IdentityIndividual:
		return "individual"
	case IdentityCompany:
		return "company"
	default:
		return "unknown"
	}
}

// DisplayIdentity is the resolved name/avatar for one user, produced by a
// single ordered lookup: individual profile, else company profile, else the
// raw account email.
type DisplayIdentity struct {
	Kind   IdentityKind
	Name   string
	Avatar string
}

// ConversationSummary is the derived per-counterpart rollup returned by the
// aggregator. It is never persisted; every call recomputes it from the store.
type ConversationSummary struct {
	RecipientID string
	Email       string
	Identity    DisplayIdentity

	// Split identity fields for the wire shape; populated per Identity.Kind.
	FirstName   string
	LastName    string
	CompanyName string

	LatestMessage Message
	Unread        bool
}
