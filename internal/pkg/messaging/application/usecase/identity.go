package usecase

import (
	"context"
	"fmt"
	"strings"

	directory "jobhive/internal/pkg/directory/port"
	messaging "jobhive/internal/pkg/messaging/application/domain"
)

// resolvedIdentity couples the tagged display identity with the split fields
// the summary wire shape exposes.
type resolvedIdentity struct {
	Identity    messaging.DisplayIdentity
	FirstName   string
	LastName    string
	CompanyName string
}

// resolveIdentity performs the ordered lookup for a user's display identity:
// individual profile first, else company profile, else the raw account email.
// The avatar is never empty; missing pictures fall back to the placeholder.
func resolveIdentity(ctx context.Context, dir directory.Directory, userID, email string) (resolvedIdentity, error) {
	profile, err := dir.ProfileByUserID(ctx, userID)
	if err != nil {
		return resolvedIdentity{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if profile != nil {
		return resolvedIdentity{
			Identity: messaging.DisplayIdentity{
				Kind:   messaging.IdentityIndividual,
				Name:   strings.TrimSpace(profile.FirstName + " " + profile.LastName),
				Avatar: orPlaceholder(profile.ProfilePicture),
			},
			FirstName: profile.FirstName,
			LastName:  profile.LastName,
		}, nil
	}

	company, err := dir.CompanyByUserID(ctx, userID)
	if err != nil {
		return resolvedIdentity{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if company != nil {
		return resolvedIdentity{
			Identity: messaging.DisplayIdentity{
				Kind:   messaging.IdentityCompany,
				Name:   company.Name,
				Avatar: orPlaceholder(company.Logo),
			},
			CompanyName: company.Name,
		}, nil
	}

	return resolvedIdentity{
		Identity: messaging.DisplayIdentity{
			Kind:   messaging.IdentityUnknown,
			Name:   email,
			Avatar: messaging.AvatarPlaceholder,
		},
	}, nil
}

func orPlaceholder(avatar string) string {
	if strings.TrimSpace(avatar) == "" {
		return messaging.AvatarPlaceholder
	}
	return avatar
}
