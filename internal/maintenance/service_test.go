package maintenance

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/brickstock/internal/entities"
)

type fakeRepo struct {
	templates map[string]string
	cleared   int64
	err       error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{templates: make(map[string]string)}
}

func (r *fakeRepo) GetOrCreateParameterTemplate(name, units string) (*entities.PartParameterTemplate, bool, error) {
	if r.err != nil {
		return nil, false, r.err
	}
	if existing, ok := r.templates[name]; ok {
		return &entities.PartParameterTemplate{Name: name, Units: existing}, false, nil
	}
	r.templates[name] = units
	return &entities.PartParameterTemplate{Name: name, Units: units}, true, nil
}

func (r *fakeRepo) ClearMetadata() (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	return r.cleared, nil
}

func TestService_CreatePartParameterTemplates(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo)

	created, err := service.CreatePartParameterTemplates()
	require.NoError(t, err)
	assert.Equal(t, 5, created)

	assert.Equal(t, "studs", repo.templates["Width"])
	assert.Equal(t, "studs", repo.templates["Length"])
	assert.Equal(t, "bricks", repo.templates["Height"])
	assert.Equal(t, "g", repo.templates["Weight"])
	assert.Contains(t, repo.templates, "Color")

	// Second run creates nothing new.
	created, err = service.CreatePartParameterTemplates()
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestService_CreatePartParameterTemplates_Error(t *testing.T) {
	repo := newFakeRepo()
	repo.err = errors.New("db locked")
	service := NewService(repo)

	_, err := service.CreatePartParameterTemplates()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Width")
}

func TestService_ClearMetadata(t *testing.T) {
	repo := newFakeRepo()
	repo.cleared = 12
	service := NewService(repo)

	cleared, err := service.ClearMetadata()
	require.NoError(t, err)
	assert.Equal(t, int64(12), cleared)
}
