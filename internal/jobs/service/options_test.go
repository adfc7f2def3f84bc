package service

import (
	"context"
	"testing"

	"jobboard_backend/internal/jobs/repository"
	"jobboard_backend/internal/jobs/transport"
	"jobboard_backend/platform/apperr"
	"jobboard_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type optionStore struct {
	Store
	options  []repository.Option
	created  []repository.Option
	deleted  []uuid.UUID
	category string
}

func (f *optionStore) ListOptions(_ context.Context, category string) ([]repository.Option, error) {
	f.category = category
	return f.options, nil
}

func (f *optionStore) CreateOption(_ context.Context, o repository.Option) (repository.Option, error) {
	for _, existing := range f.options {
		if existing.Category == o.Category && existing.Value == o.Value {
			return repository.Option{}, apperr.Conflict("option already exists in this category")
		}
	}
	o.ID = uuid.New()
	if o.SortOrder == 0 {
		o.SortOrder = 10
	}
	f.created = append(f.created, o)
	return o, nil
}

func (f *optionStore) DeleteOption(_ context.Context, id uuid.UUID) error {
	for _, o := range f.options {
		if o.ID == id {
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return apperr.NotFound("job option not found")
}

func newOptionService(store *optionStore) *Service {
	return New(store, nil, testConfig{}, testConfig{}, logger.Nop())
}

func TestListOptionsPassesCategory(t *testing.T) {
	id := uuid.New()
	store := &optionStore{options: []repository.Option{{ID: id, Category: "tags", Label: "駅チカ", Value: "駅チカ", SortOrder: 10}}}

	out, err := newOptionService(store).ListOptions(context.Background(), transport.ListOptionsRequest{Category: "tags"})

	require.NoError(t, err)
	assert.Equal(t, "tags", store.category)
	require.Len(t, out, 1)
	assert.Equal(t, id, out[0].ID)
	assert.Equal(t, 10, out[0].SortOrder)
}

func TestListOptionsWithoutCategoryListsAll(t *testing.T) {
	store := &optionStore{}

	out, err := newOptionService(store).ListOptions(context.Background(), transport.ListOptionsRequest{})

	require.NoError(t, err)
	assert.Empty(t, store.category)
	assert.NotNil(t, out)
}

func TestCreateOptionDefaultsValueToLabel(t *testing.T) {
	store := &optionStore{}

	out, err := newOptionService(store).CreateOption(context.Background(), transport.CreateOptionRequest{
		Category: "benefits",
		Label:    "  社員食堂  ",
	})

	require.NoError(t, err)
	require.Len(t, store.created, 1)
	assert.Equal(t, "社員食堂", store.created[0].Label)
	assert.Equal(t, "社員食堂", store.created[0].Value)
	assert.NotEqual(t, uuid.Nil, out.ID)
	assert.Equal(t, "benefits", out.Category)
}

func TestCreateOptionRejectsBlankLabel(t *testing.T) {
	store := &optionStore{}

	_, err := newOptionService(store).CreateOption(context.Background(), transport.CreateOptionRequest{Category: "tags", Label: "   "})

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Empty(t, store.created)
}

func TestCreateOptionDuplicateIsConflict(t *testing.T) {
	store := &optionStore{options: []repository.Option{{ID: uuid.New(), Category: "tags", Label: "駅チカ", Value: "駅チカ"}}}

	_, err := newOptionService(store).CreateOption(context.Background(), transport.CreateOptionRequest{Category: "tags", Label: "駅チカ"})

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestDeleteOptionUnknownIsNotFound(t *testing.T) {
	store := &optionStore{}

	err := newOptionService(store).DeleteOption(context.Background(), uuid.New())

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
