package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSetImporter struct {
	num        string
	categoryID *uint
	err        error
}

func (f *fakeSetImporter) ImportSet(ctx context.Context, num string, rootCategoryID *uint) error {
	f.num = num
	f.categoryID = rootCategoryID
	return f.err
}

type fakeEnricher struct {
	partID uint
	url    string
	err    error
}

func (f *fakeEnricher) EnrichPartImage(ctx context.Context, partID uint, url string) (bool, error) {
	f.partID = partID
	f.url = url
	return f.err == nil, f.err
}

func TestImportSetProcessor_Delegates(t *testing.T) {
	imp := &fakeSetImporter{}
	process := ImportSetProcessor(imp)

	id := uint(7)
	err := process(context.Background(), ImportSetTask{SetNum: "75192-1", CategoryID: &id})
	require.NoError(t, err)
	assert.Equal(t, "75192-1", imp.num)
	require.NotNil(t, imp.categoryID)
	assert.Equal(t, uint(7), *imp.categoryID)
}

func TestImportSetProcessor_PropagatesFailure(t *testing.T) {
	imp := &fakeSetImporter{err: errors.New("api unreachable")}
	process := ImportSetProcessor(imp)

	err := process(context.Background(), ImportSetTask{SetNum: "75192-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "75192-1")
}

func TestImportSetProcessor_NilImporter(t *testing.T) {
	process := ImportSetProcessor(nil)
	err := process(context.Background(), ImportSetTask{SetNum: "75192-1"})
	assert.Error(t, err)
}

func TestEnrichPartImageProcessor_Delegates(t *testing.T) {
	enricher := &fakeEnricher{}
	process := EnrichPartImageProcessor(enricher)

	err := process(context.Background(), EnrichPartImageTask{PartID: 7, URL: "https://cdn.example/part.png"})
	require.NoError(t, err)
	assert.Equal(t, uint(7), enricher.partID)
	assert.Equal(t, "https://cdn.example/part.png", enricher.url)
}

func TestEnrichPartImageProcessor_PropagatesFailure(t *testing.T) {
	enricher := &fakeEnricher{err: errors.New("download failed")}
	process := EnrichPartImageProcessor(enricher)

	err := process(context.Background(), EnrichPartImageTask{PartID: 7, URL: "https://cdn.example/part.png"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "7")
}

func TestQueueConfigs(t *testing.T) {
	importCfg := ImportSetTask{}.Config()
	assert.Equal(t, "import_set", importCfg.Name)
	assert.Equal(t, 3, importCfg.MaxAttempts)

	enrichCfg := EnrichPartImageTask{}.Config()
	assert.Equal(t, "enrich_part_image", enrichCfg.Name)
	assert.Equal(t, 3, enrichCfg.MaxAttempts)
}
