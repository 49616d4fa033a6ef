package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/brainplay/internal/errors"
	"github.com/vytor/brainplay/internal/models"
	"github.com/vytor/brainplay/internal/services"
	"github.com/vytor/brainplay/internal/testutil/mocks"
)

func TestStatsService_Overview(t *testing.T) {
	records := new(mocks.MockSessionRecordRepository)
	played := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	history := []models.SessionRecord{
		{GameKind: models.KindMathMaster, FinalScore: 100, Accuracy: 0.5, PlayedAt: played},
		{GameKind: models.KindMathMaster, FinalScore: 300, Accuracy: 1, PlayedAt: played.Add(time.Hour)},
	}
	records.On("LoadHistory", mock.Anything, int64(4), models.KindMathMaster).Return(history, nil)
	records.On("LoadHistory", mock.Anything, int64(4), mock.Anything).Return([]models.SessionRecord{}, nil)

	out, err := services.NewStatsService(records).Overview(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, out, len(models.AllKinds))

	for i, kind := range models.AllKinds {
		assert.Equal(t, kind, out[i].GameKind)
		if kind != models.KindMathMaster {
			assert.Zero(t, out[i].GamesPlayed)
		}
	}
	math := out[len(out)-1]
	assert.Equal(t, 2, math.GamesPlayed)
	assert.Equal(t, 300, math.BestScore)
	assert.Equal(t, 200, math.AverageScore)
}

func TestStatsService_OverviewFailure(t *testing.T) {
	records := new(mocks.MockSessionRecordRepository)
	records.On("LoadHistory", mock.Anything, mock.Anything, mock.Anything).Return(nil, fmt.Errorf("disk gone"))

	_, err := services.NewStatsService(records).Overview(context.Background(), 1)
	var ae *errors.AppError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, errors.ErrCodeInternal, ae.Code)
}

func TestStatsService_UnknownGame(t *testing.T) {
	svc := services.NewStatsService(new(mocks.MockSessionRecordRepository))
	ctx := context.Background()

	_, err := svc.History(ctx, 1, "chess")
	assert.Error(t, err)
	_, err = svc.Leaderboard(ctx, "chess", 5)
	assert.Error(t, err)
	_, err = svc.Recent(ctx, 1, "chess", 5)
	assert.Error(t, err)
}

func TestStatsService_LimitsAreClamped(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"default", 0, 10},
		{"negative", -3, 10},
		{"in range", 25, 25},
		{"too large", 5000, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := new(mocks.MockSessionRecordRepository)
			records.On("Recent", mock.Anything, int64(2), models.GameKind(""), tt.want).Return([]models.SessionRecord{}, nil).Once()
			records.On("Leaderboard", mock.Anything, models.KindDotDash, tt.want).Return([]models.LeaderboardEntry{}, nil).Once()

			svc := services.NewStatsService(records)
			_, err := svc.Recent(context.Background(), 2, "", tt.limit)
			require.NoError(t, err)
			_, err = svc.Leaderboard(context.Background(), models.KindDotDash, tt.limit)
			require.NoError(t, err)
			records.AssertExpectations(t)
		})
	}
}
