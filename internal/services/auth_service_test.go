package services

import (
	"testing"

	"event-ticketing-backend/internal/models"
	"event-ticketing-backend/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func organizerProfile() *OrganizerProfileInput {
	return &OrganizerProfileInput{
		OrganizationName: "Acme Events",
		Address:          "2 Side Street",
		City:             "Lyon",
		State:            "ARA",
		Country:          "FR",
		ZipCode:          "69001",
	}
}

func TestRegister(t *testing.T) {
	t.Run("attendee by default", func(t *testing.T) {
		f := newFixture(t)
		user, err := f.auth.Register(RegisterRequest{Name: "Ann", Email: "  Ann@Example.com ", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, "ann@example.com", user.Email)
		assert.Equal(t, models.RoleAttendee, user.Role)
		assert.Nil(t, user.OrganizerProfile)
	})

	t.Run("organizer with profile", func(t *testing.T) {
		f := newFixture(t)
		user, err := f.auth.Register(RegisterRequest{
			Name:             "Olga",
			Email:            "olga@example.com",
			Password:         "secret1",
			Role:             models.RoleOrganizer,
			OrganizerProfile: organizerProfile(),
		})
		require.NoError(t, err)
		require.NotNil(t, user.OrganizerProfile)
		assert.Equal(t, "Acme Events", user.OrganizerProfile.OrganizationName)

		stored, err := f.repo.UserRepo.GetUserWithProfile(user.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.OrganizerProfile)
	})

	t.Run("organizer without profile", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.auth.Register(RegisterRequest{Name: "Olga", Email: "olga@example.com", Password: "secret1", Role: models.RoleOrganizer})
		requireCode(t, err, ErrBadRequest)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.auth.Register(RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
		require.NoError(t, err)

		_, err = f.auth.Register(RegisterRequest{Name: "Ann", Email: "ANN@example.com", Password: "secret1"})
		requireCode(t, err, ErrConflict)
	})

	t.Run("short password", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.auth.Register(RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "123"})
		requireCode(t, err, ErrBadRequest)
	})
}

func TestLoginRefreshLogout(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.Register(RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.auth.Login(LoginRequest{Email: "ann@example.com", Password: "wrong-password"})
	requireCode(t, err, ErrUnauthorized)

	_, err = f.auth.Login(LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	requireCode(t, err, ErrUnauthorized)

	tokens, err := f.auth.Login(LoginRequest{Email: "ANN@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.EqualValues(t, 900, tokens.ExpiresIn)

	subject, err := utils.ParseToken(tokens.AccessToken, "access-secret")
	require.NoError(t, err)
	assert.Equal(t, tokens.User.ID, subject.UserID)
	assert.Equal(t, string(models.RoleAttendee), subject.Role)

	// An access token is not a refresh token.
	_, err = f.auth.Refresh(RefreshRequest{RefreshToken: tokens.AccessToken})
	requireCode(t, err, ErrUnauthorized)

	rotated, err := f.auth.Refresh(RefreshRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	_, err = f.auth.Refresh(RefreshRequest{RefreshToken: tokens.RefreshToken})
	requireCode(t, err, ErrUnauthorized)

	require.NoError(t, f.auth.Logout(tokens.User.ID))
	_, err = f.auth.Refresh(RefreshRequest{RefreshToken: rotated.RefreshToken})
	requireCode(t, err, ErrUnauthorized)

	requireCode(t, f.auth.Logout(uuid.New()), ErrNotFound)
}

func TestUserProfile(t *testing.T) {
	f := newFixture(t)
	user := f.attendee(t)

	updated, err := f.users.UpdateProfile(user.UserID, UpdateProfileRequest{Name: "  New Name "})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)

	profile, err := f.users.GetProfile(user.UserID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", profile.Name)

	upgraded, err := f.users.UpgradeToOrganizer(user.UserID, *organizerProfile())
	require.NoError(t, err)
	assert.Equal(t, models.RoleOrganizer, upgraded.Role)
	require.NotNil(t, upgraded.OrganizerProfile)

	_, err = f.users.UpgradeToOrganizer(user.UserID, *organizerProfile())
	requireCode(t, err, ErrBadRequest)

	_, err = f.users.GetProfile(f.attendee(t).UserID)
	require.NoError(t, err)
}

func TestCategories(t *testing.T) {
	f := newFixture(t)
	org := f.organizer(t)

	_, err := f.categories.Create(CategoryRequest{Name: "Music"}, f.attendee(t))
	requireCode(t, err, ErrForbidden)

	music, err := f.categories.Create(CategoryRequest{Name: "Music"}, org)
	require.NoError(t, err)
	_, err = f.categories.Create(CategoryRequest{Name: "music"}, org)
	requireCode(t, err, ErrConflict)

	sports, err := f.categories.Create(CategoryRequest{Name: "Sports"}, org)
	require.NoError(t, err)
	_, err = f.categories.Update(sports.ID, CategoryRequest{Name: "Music"}, org)
	requireCode(t, err, ErrConflict)

	_, err = f.categories.Update(sports.ID, CategoryRequest{Name: "   "}, org)
	requireCode(t, err, ErrBadRequest)
	unchanged, err := f.categories.FindOne(sports.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sports", unchanged.Name)

	renamed, err := f.categories.Update(sports.ID, CategoryRequest{Name: "Athletics"}, org)
	require.NoError(t, err)
	assert.Equal(t, "Athletics", renamed.Name)

	all, err := f.categories.FindAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Athletics", all[0].Name)

	// Deleting a category detaches it from its events.
	req := f.eventRequest(10)
	req.CategoryIDs = append(req.CategoryIDs, music.ID)
	ev, err := f.events.Create(req, org)
	require.NoError(t, err)
	require.Len(t, ev.Categories, 1)

	require.NoError(t, f.categories.Remove(music.ID, org))
	_, err = f.categories.FindOne(music.ID)
	requireCode(t, err, ErrNotFound)
	requireCode(t, f.categories.Remove(music.ID, org), ErrNotFound)

	reloaded, err := f.events.FindOne(ev.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Categories)
}
