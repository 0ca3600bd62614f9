package services

import (
	"context"
	"log"
	"mime/multipart"
	"time"

	"coderr-backend/internal/adapters/persistence/models"
	"coderr-backend/internal/adapters/persistence/repositories"
	"coderr-backend/internal/core/domain"
	"coderr-backend/internal/pkg/storage"
)

// avatarDir holds uploaded profile pictures
const avatarDir = "profiles"

// ProfileService handles profile reads and owner edits
type ProfileService struct {
	userRepo repositories.UserRepository
	store    storage.Store
}

// NewProfileService creates a new profile service
func NewProfileService(userRepo repositories.UserRepository, store storage.Store) *ProfileService {
	return &ProfileService{userRepo: userRepo, store: store}
}

// ProfileView is the full profile representation
type ProfileView struct {
	User         uint        `json:"user"`
	Username     string      `json:"username"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	File         string      `json:"file"`
	Location     string      `json:"location"`
	Tel          string      `json:"tel"`
	Description  string      `json:"description"`
	WorkingHours string      `json:"working_hours"`
	Type         domain.Role `json:"type"`
	Email        string      `json:"email"`
	CreatedAt    time.Time   `json:"created_at"`
}

// ProfileListItem is the profile representation used in role listings
type ProfileListItem struct {
	User         uint        `json:"user"`
	Username     string      `json:"username"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	File         string      `json:"file"`
	Location     string      `json:"location"`
	Tel          string      `json:"tel"`
	Description  string      `json:"description"`
	WorkingHours string      `json:"working_hours"`
	Type         domain.Role `json:"type"`
}

// UpdateProfileInput holds the editable profile fields. Keys outside this
// set are dropped when the body is decoded.
type UpdateProfileInput struct {
	FirstName    *string `json:"first_name" validate:"omitempty,max=255"`
	LastName     *string `json:"last_name" validate:"omitempty,max=255"`
	Location     *string `json:"location" validate:"omitempty,max=255"`
	Tel          *string `json:"tel" validate:"omitempty,max=50"`
	Description  *string `json:"description"`
	WorkingHours *string `json:"working_hours" validate:"omitempty,max=100"`
}

func (in *UpdateProfileInput) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if in.FirstName != nil {
		fields["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		fields["last_name"] = *in.LastName
	}
	if in.Location != nil {
		fields["location"] = *in.Location
	}
	if in.Tel != nil {
		fields["tel"] = *in.Tel
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.WorkingHours != nil {
		fields["working_hours"] = *in.WorkingHours
	}
	return fields
}

// Get returns the full profile of a user
func (s *ProfileService) Get(ctx context.Context, id uint) (*ProfileView, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Profile")
	}
	return s.toView(user), nil
}

// Update changes the allow-listed fields of the caller's own profile
func (s *ProfileService) Update(ctx context.Context, actor *domain.Actor, id uint, input *UpdateProfileInput) (*ProfileView, error) {
	if actor.ID != id {
		return nil, domain.Forbidden("You can only edit your own profile.")
	}

	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return nil, notFoundOr(err, "Profile")
	}

	if err := validateInput(input); err != nil {
		return nil, err
	}

	if fields := input.fields(); len(fields) > 0 {
		if err := s.userRepo.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, id)
}

// UploadAvatar replaces the caller's profile picture
func (s *ProfileService) UploadAvatar(ctx context.Context, actor *domain.Actor, id uint, file *multipart.FileHeader) (*ProfileView, error) {
	if actor.ID != id {
		return nil, domain.Forbidden("You can only edit your own profile.")
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Profile")
	}

	if file == nil {
		return nil, domain.NewValidationError("file", "No file was submitted.")
	}

	key, err := s.store.Save(avatarDir, file)
	if err != nil {
		return nil, uploadError("file", err)
	}

	if err := s.userRepo.UpdateFields(ctx, id, map[string]interface{}{"file": key}); err != nil {
		_ = s.store.Delete(key)
		return nil, err
	}

	if err := removeMedia(s.store, avatarDir, user.File); err != nil {
		log.Printf("⚠️ Failed to remove old avatar %s: %v", user.File, err)
	}

	return s.Get(ctx, id)
}

// ListByRole returns all profiles of one account type
func (s *ProfileService) ListByRole(ctx context.Context, role domain.Role) ([]*ProfileListItem, error) {
	users, err := s.userRepo.ListByType(ctx, role)
	if err != nil {
		return nil, err
	}

	items := make([]*ProfileListItem, 0, len(users))
	for _, u := range users {
		items = append(items, &ProfileListItem{
			User:         u.ID,
			Username:     u.Username,
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			File:         mediaURL(s.store, u.File),
			Location:     u.Location,
			Tel:          u.Tel,
			Description:  u.Description,
			WorkingHours: u.WorkingHours,
			Type:         u.Type,
		})
	}
	return items, nil
}

func (s *ProfileService) toView(u *models.User) *ProfileView {
	return &ProfileView{
		User:         u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		File:         mediaURL(s.store, u.File),
		Location:     u.Location,
		Tel:          u.Tel,
		Description:  u.Description,
		WorkingHours: u.WorkingHours,
		Type:         u.Type,
		Email:        u.Email,
		CreatedAt:    u.CreatedAt,
	}
}
