package analyses

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-tailor/internal/shared/apperr"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := &Service{Repo: NewMemoryRepo()}
	require.NoError(t, svc.Save(context.Background(), "user-1", testAnalysisID, []byte(samplePayload)))
	return svc
}

func TestGetScopesToOwner(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.Get(ctx, "user-1", testAnalysisID)
	require.NoError(t, err)
	assert.Equal(t, 82.0, a.Score)
	assert.Equal(t, []string{"Go"}, a.SkillAnalysis.SkillsToEmphasize)

	_, err = svc.Get(ctx, "user-2", testAnalysisID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = svc.Get(ctx, "user-1", "not-an-id")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = svc.Get(ctx, "user-1", "00000000-0000-0000-0000-000000000000")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = svc.Get(ctx, "", testAnalysisID)
	assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))
}

func TestSaveRejectsInvalidPayload(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	ctx := context.Background()

	err := svc.Save(ctx, "user-1", testAnalysisID, []byte(`{"summary":"missing score"}`))
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	err = svc.Save(ctx, "user-1", testAnalysisID, []byte(`{"score":140,"summary":"too high"}`))
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	err = svc.Save(ctx, "user-1", "bad-id", []byte(samplePayload))
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestSaveDoesNotTakeOverForeignAnalysis(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, "user-2", testAnalysisID, []byte(`{"score":1,"summary":"hijack"}`)))

	a, err := svc.Get(ctx, "user-1", testAnalysisID)
	require.NoError(t, err)
	assert.Equal(t, "Strong backend match.", a.Summary)
}

func TestReviewReplaysAcceptances(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.Review(context.Background(), "user-1", testAnalysisID, []string{"b2", "missing", "b2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cut incident rate by 40% through targeted fixes"}, res.Accepted)
	require.Len(t, res.Remaining, 2)
	assert.Equal(t, "b1", res.Remaining[0].ID)
	assert.Equal(t, "b3", res.Remaining[1].ID)
	assert.Equal(t, "• Cut incident rate by 40% through targeted fixes", res.Text)
}

func TestDecodeDefaultsMissingLists(t *testing.T) {
	a, err := Decode([]byte(`{"score":50,"summary":"ok"}`))
	require.NoError(t, err)
	assert.NotNil(t, a.BulletPointSuggestions)
	assert.Empty(t, a.BulletPointSuggestions)
	assert.NotNil(t, a.SkillAnalysis.PotentialGaps)

	_, err = Decode([]byte(`not json`))
	assert.True(t, errors.Is(err, ErrInvalidPayload))
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID(testAnalysisID))
	assert.True(t, ValidID("3f2b8c1e-4d5a-4b6c-9e7f-1a2b3c4d5e6f"))
	assert.False(t, ValidID("665f1c2e9b1e8a3d4c5b6a7"))
	assert.False(t, ValidID("zz5f1c2e9b1e8a3d4c5b6a7f"))
	assert.False(t, ValidID(""))
}
