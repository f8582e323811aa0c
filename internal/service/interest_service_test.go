package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/auth"
	apperrors "storefront/internal/errors"
	"storefront/internal/logging"
	"storefront/internal/model"
)

type interestFixture struct {
	svc        InterestService
	categories *memCategoryRepo
	interests  *memInterestRepo
	session    *auth.Session
}

func newInterestFixture(t *testing.T) *interestFixture {
	t.Helper()
	users := newMemUserRepo()
	user := &model.User{Email: "jane@example.com", Name: "Jane", Verified: true}
	require.NoError(t, users.Create(context.Background(), user))

	categories := newMemCategoryRepo("Books", "Garden", "Music", "Shoes")
	interests := newMemInterestRepo(categories)
	return &interestFixture{
		svc:        NewInterestService(users, categories, interests, logging.Nop()),
		categories: categories,
		interests:  interests,
		session:    &auth.Session{UserID: user.ID, Email: user.Email, Name: user.Name},
	}
}

func names(interests []Interest) []string {
	out := make([]string, 0, len(interests))
	for _, i := range interests {
		out = append(out, i.Name)
	}
	return out
}

func TestInterestService_SaveReplacesSet(t *testing.T) {
	f := newInterestFixture(t)
	ctx := context.Background()
	books, garden, music := f.categories.at(0), f.categories.at(1), f.categories.at(2)

	require.NoError(t, f.svc.SaveInterests(ctx, f.session, []string{books.ID.String(), garden.ID.String()}))
	got, err := f.svc.GetUserInterests(ctx, f.session)
	require.NoError(t, err)
	assert.Equal(t, []string{"Books", "Garden"}, names(got))

	require.NoError(t, f.svc.SaveInterests(ctx, f.session, []string{music.ID.String()}))
	got, err = f.svc.GetUserInterests(ctx, f.session)
	require.NoError(t, err)
	assert.Equal(t, []Interest{{ID: music.ID, Name: "Music"}}, got)
}

func TestInterestService_InvalidIDRejectsAll(t *testing.T) {
	f := newInterestFixture(t)
	ctx := context.Background()
	unknown := uuid.New().String()

	ids := []string{f.categories.at(0).ID.String(), unknown, f.categories.at(1).ID.String(), f.categories.at(2).ID.String()}
	err := f.svc.SaveInterests(ctx, f.session, ids)

	var catErr *apperrors.InvalidCategoriesError
	require.ErrorAs(t, err, &catErr)
	assert.Equal(t, []string{unknown}, catErr.IDs)
	assert.Contains(t, err.Error(), unknown)
	assert.Zero(t, f.interests.calls, "nothing is written")

	got, err := f.svc.GetUserInterests(ctx, f.session)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInterestService_NamesEveryInvalidID(t *testing.T) {
	f := newInterestFixture(t)
	unknown := uuid.New().String()

	err := f.svc.SaveInterests(context.Background(), f.session, []string{"not-a-uuid", unknown})

	var catErr *apperrors.InvalidCategoriesError
	require.ErrorAs(t, err, &catErr)
	assert.ElementsMatch(t, []string{"not-a-uuid", unknown}, catErr.IDs)
}

func TestInterestService_DuplicatesCollapsed(t *testing.T) {
	f := newInterestFixture(t)
	ctx := context.Background()
	books := f.categories.at(0).ID.String()

	require.NoError(t, f.svc.SaveInterests(ctx, f.session, []string{books, books}))
	got, err := f.svc.GetUserInterests(ctx, f.session)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestInterestService_EmptySetClears(t *testing.T) {
	f := newInterestFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SaveInterests(ctx, f.session, []string{f.categories.at(0).ID.String()}))
	require.NoError(t, f.svc.SaveInterests(ctx, f.session, nil))

	got, err := f.svc.GetUserInterests(ctx, f.session)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestInterestService_SessionRequired(t *testing.T) {
	f := newInterestFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.SaveInterests(ctx, nil, nil), apperrors.ErrNotAuthenticated)
	_, err := f.svc.GetUserInterests(ctx, nil)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
}

func TestInterestService_DeletedUser(t *testing.T) {
	f := newInterestFixture(t)
	ghost := &auth.Session{UserID: uuid.New(), Email: "ghost@example.com"}

	err := f.svc.SaveInterests(context.Background(), ghost, []string{f.categories.at(0).ID.String()})
	assert.True(t, errors.Is(err, apperrors.ErrUserNotFound))
	assert.Zero(t, f.interests.calls)
}
