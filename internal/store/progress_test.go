package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProgress() *ProgressData {
	last := "2025-03-09"
	return &ProgressData{
		TotalXP:              120,
		Streak:               3,
		LastActiveDate:       &last,
		CompletedTopics:      map[string][]string{"Band 6.0-6.5": {"Travel"}},
		FavoriteTopics:       map[string][]string{},
		DifficultTopics:      map[string][]string{},
		UnlockedAchievements: map[string]string{"streak_3": "2025-03-09T10:00:00Z"},
		DailyGoal:            50,
		XPToday:              XPTodayData{Date: "2025-03-09", XP: 40},
		DailyGoalCompleted:   GoalCompletedData{Date: "2025-03-09"},
		WeakPoints:           WeakPointsData{Vocabulary: []string{"ubiquitous"}, Grammar: []string{}},
		FluencyScore:         321,
		TestHistory:          []TestResultData{{Date: "2025-03-09T10:00:00Z", Percentage: 80}},
		SpeakingHistory:      []SpeakingResultData{},
		WordMastery: map[string]WordMasteryData{
			"ubiquitous": {Level: 2, NextReviewDate: "2025-03-12"},
		},
	}
}

func TestProgressRepo_ReadMissing(t *testing.T) {
	repo := openTestStore(t).ProgressRepo()

	got, err := repo.Read(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProgressRepo_CreateAndRead(t *testing.T) {
	repo := openTestStore(t).ProgressRepo()
	ctx := context.Background()

	want := sampleProgress()
	require.NoError(t, repo.Create(ctx, "u1", want))

	got, err := repo.Read(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, got)
}

func TestProgressRepo_CreateReplaces(t *testing.T) {
	repo := openTestStore(t).ProgressRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "u1", sampleProgress()))
	require.NoError(t, repo.Create(ctx, "u1", &ProgressData{DailyGoal: 80}))

	got, err := repo.Read(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 80, got.DailyGoal)
	assert.Zero(t, got.TotalXP)
}

func TestProgressRepo_UpdateMergesTopLevelFields(t *testing.T) {
	repo := openTestStore(t).ProgressRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "u1", sampleProgress()))

	err := repo.Update(ctx, "u1", ProgressPatch{
		FieldTotalXP:      150,
		FieldFluencyScore: 400,
		FieldWordMastery: map[string]WordMasteryData{
			"ephemeral": {Level: 0, NextReviewDate: "2025-03-10"},
		},
	})
	require.NoError(t, err)

	got, err := repo.Read(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 150, got.TotalXP)
	assert.Equal(t, 400, got.FluencyScore)
	assert.Equal(t, 3, got.Streak, "untouched field kept")
	assert.Equal(t, []string{"ubiquitous"}, got.WeakPoints.Vocabulary)
	// Whole-field replacement, not a deep merge.
	assert.Equal(t, map[string]WordMasteryData{"ephemeral": {Level: 0, NextReviewDate: "2025-03-10"}}, got.WordMastery)
}

func TestProgressRepo_UpdateNullField(t *testing.T) {
	repo := openTestStore(t).ProgressRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "u1", sampleProgress()))
	require.NoError(t, repo.Update(ctx, "u1", ProgressPatch{FieldLastActiveDate: nil}))

	got, err := repo.Read(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got.LastActiveDate)
}

func TestProgressRepo_UpdateMissing(t *testing.T) {
	repo := openTestStore(t).ProgressRepo()

	err := repo.Update(context.Background(), "ghost", ProgressPatch{FieldTotalXP: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProgressRepo_EmptyPatchIsNoop(t *testing.T) {
	repo := openTestStore(t).ProgressRepo()

	assert.NoError(t, repo.Update(context.Background(), "ghost", ProgressPatch{}))
}

func TestMergePatch_KeepsUnknownFields(t *testing.T) {
	merged, err := mergePatch([]byte(`{"totalXp":1,"legacyField":"x"}`), ProgressPatch{FieldTotalXP: 5})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(merged, &doc))
	assert.Equal(t, float64(5), doc["totalXp"])
	assert.Equal(t, "x", doc["legacyField"])
}
