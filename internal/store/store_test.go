package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwarflabs/git-me/internal/model"
)

func TestLoadMissingJournalIsEmpty(t *testing.T) {
	j := NewJournal(t.TempDir())
	jr, err := j.Load()
	require.NoError(t, err)
	assert.Empty(t, jr)
}

func TestUpdateCreatesAndPersistsRecords(t *testing.T) {
	j := NewJournal(t.TempDir())

	require.NoError(t, j.Update("feature/a", func(r *model.BranchRecord) {
		r.Kind = "feature"
		r.Mark(model.StepBranch)
		r.Mark(model.StepPush)
	}))
	require.NoError(t, j.Update("feature/a", func(r *model.BranchRecord) {
		r.Mark(model.StepPush)
		r.MergeRequest = 7
	}))

	rec, err := j.Get("feature/a")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, []model.Step{model.StepBranch, model.StepPush}, rec.Steps)
	assert.Equal(t, 7, rec.MergeRequest)
	assert.True(t, rec.Done(model.StepPush))
	assert.False(t, rec.Done(model.StepFinished))
	_, err = uuid.Parse(rec.RunID)
	assert.NoError(t, err)

	missing, err := j.Get("hotfix/b")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestResetForgetsStepsAndStartsNewRun(t *testing.T) {
	j := NewJournal(t.TempDir())
	require.NoError(t, j.Update("feature/a", func(r *model.BranchRecord) {
		r.Mark(model.StepPush)
		r.MergeRequest = 3
	}))
	before, err := j.Get("feature/a")
	require.NoError(t, err)

	require.NoError(t, j.Reset("feature/a"))

	after, err := j.Get("feature/a")
	require.NoError(t, err)
	require.NotNil(t, after)
	assert.Empty(t, after.Steps)
	assert.Zero(t, after.MergeRequest)
	assert.NotEqual(t, before.RunID, after.RunID)
}
