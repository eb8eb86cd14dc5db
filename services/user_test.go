package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junaidrashid-git/canteen-api/models"
)

func TestUserProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := Identity{UserID: "u1", Email: "grace@uni.example", Role: "superuser"}

	profile, err := f.users.GetProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "grace@uni.example", profile.Email)
	assert.Equal(t, models.RoleCustomer, profile.Role, "unknown roles fall back to customer")

	name := "  Grace  "
	saved, err := f.users.SaveProfile(ctx, id, ProfileInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Grace", saved.Name)

	phone := "+49 30 1234"
	id.Email = "grace.h@uni.example"
	saved, err = f.users.SaveProfile(ctx, id, ProfileInput{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Grace", saved.Name, "omitted fields are kept")

	stored, err := f.users.GetProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Grace", stored.Name)
	assert.Equal(t, "+49 30 1234", stored.Phone)
	assert.Equal(t, "grace.h@uni.example", stored.Email)

	_, err = f.users.SaveProfile(ctx, Identity{}, ProfileInput{})
	requireKind(t, err, KindValidation)

	_, err = f.users.SaveProfile(ctx, Identity{UserID: "admin-1", Role: models.RoleAdmin}, ProfileInput{})
	require.NoError(t, err)

	users, err := f.users.ListUsers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, users, 2)

	admins, err := f.users.ListUsers(ctx, models.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin-1", admins[0].ID)
}
