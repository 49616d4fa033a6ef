package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/brainplay/internal/errors"
	"github.com/vytor/brainplay/internal/models"
	"github.com/vytor/brainplay/internal/services"
	"github.com/vytor/brainplay/internal/testutil/mocks"
)

func TestProfileService_CreateProfile(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid", "maya", false},
		{"trimmed", "  leo  ", false},
		{"empty", "   ", true},
		{"too short", "a", true},
		{"symbols", "max!!", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockProfileRepository)
			name := strings.TrimSpace(tt.username)
			repo.On("Upsert", mock.Anything, name).Return(&models.Profile{ID: 1, Username: name}, nil).Maybe()

			p, err := services.NewProfileService(repo).CreateProfile(context.Background(), tt.username)
			if tt.wantErr {
				var ae *errors.AppError
				require.True(t, errors.As(err, &ae))
				assert.Equal(t, errors.ErrCodeValidation, ae.Code)
				repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, name, p.Username)
		})
	}
}

func TestProfileService_GetAndDelete(t *testing.T) {
	repo := new(mocks.MockProfileRepository)
	repo.On("Get", mock.Anything, int64(3)).Return(&models.Profile{ID: 3, Username: "ava"}, nil)
	repo.On("Get", mock.Anything, int64(9)).Return(nil, nil)
	repo.On("Delete", mock.Anything, int64(3)).Return(nil).Once()
	svc := services.NewProfileService(repo)
	ctx := context.Background()

	p, err := svc.GetProfile(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "ava", p.Username)

	_, err = svc.GetProfile(ctx, 9)
	var ae *errors.AppError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, errors.ErrCodeNotFound, ae.Code)

	require.NoError(t, svc.DeleteProfile(ctx, 3))
	assert.Error(t, svc.DeleteProfile(ctx, 9))
	repo.AssertExpectations(t)
}
