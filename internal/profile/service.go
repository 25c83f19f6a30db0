// Package profile manages per-user profile documents: display identity and
// the visibility flag gating the public projection.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mlobanov/bookshelf/internal/docstore"
	"github.com/mlobanov/bookshelf/internal/entities"
	"github.com/mlobanov/bookshelf/internal/library"
)

// DefaultAvatarColor matches the color assigned to fresh accounts.
const DefaultAvatarColor = "rgba(40,74,18,0.5)"

// Service reads and writes profile documents.
type Service struct {
	store docstore.Store
}

// NewService creates a profile service over the document store.
func NewService(store docstore.Store) *Service {
	return &Service{store: store}
}

// Bootstrap creates the profile document for a new account. Idempotent:
// an existing profile is left untouched.
func (s *Service) Bootstrap(ctx context.Context, userID, username string) error {
	_, err := s.store.Get(ctx, library.CollectionUsers, userID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("failed to check profile for %s: %w", userID, err)
	}

	summary := entities.ProfileSummary{
		Username:    username,
		AvatarType:  "letter",
		AvatarImage: "",
		AvatarColor: DefaultAvatarColor,
		IsPublic:    false,
	}
	if err := s.store.Set(ctx, library.CollectionUsers, userID, summary); err != nil {
		return fmt.Errorf("failed to create profile for %s: %w", userID, err)
	}
	return nil
}

// Get reads a user's own profile (no visibility gate; owners always see
// their profile).
func (s *Service) Get(ctx context.Context, userID string) (entities.ProfileSummary, error) {
	raw, err := s.store.Get(ctx, library.CollectionUsers, userID)
	if err != nil {
		return entities.ProfileSummary{}, fmt.Errorf("failed to read profile for %s: %w", userID, err)
	}
	var summary entities.ProfileSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return entities.ProfileSummary{}, fmt.Errorf("failed to decode profile for %s: %w", userID, err)
	}
	return summary, nil
}

// UpdateParams carries an optional value per profile field; nil fields are
// left untouched.
type UpdateParams struct {
	Username    *string
	AvatarType  *string
	AvatarImage *string
	AvatarColor *string
	IsPublic    *bool
}

// Update applies a partial profile update. Only named fields are written,
// so concurrent edits to other fields are never clobbered.
func (s *Service) Update(ctx context.Context, userID string, params UpdateParams) error {
	updates := map[string]any{}
	if params.Username != nil {
		updates["username"] = *params.Username
	}
	if params.AvatarType != nil {
		updates["avatarType"] = *params.AvatarType
	}
	if params.AvatarImage != nil {
		updates["avatarImage"] = *params.AvatarImage
	}
	if params.AvatarColor != nil {
		updates["avatarColor"] = *params.AvatarColor
	}
	if params.IsPublic != nil {
		updates["isPublic"] = *params.IsPublic
	}
	if len(updates) == 0 {
		return nil
	}

	if err := s.store.Update(ctx, library.CollectionUsers, userID, updates); err != nil {
		return fmt.Errorf("failed to update profile for %s: %w", userID, err)
	}
	return nil
}
