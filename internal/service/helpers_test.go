package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
)

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := models.AsAppError(err)
	require.True(t, ok, "expected AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code, appErr.Message)
}
