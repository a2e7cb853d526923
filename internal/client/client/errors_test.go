package client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		status int
		op     string
		want   Kind
	}{
		{0, OpMerchants, KindNetwork},
		{http.StatusUnauthorized, OpLogin, KindInvalidCredentials},
		{http.StatusUnauthorized, OpRefresh, KindUnauthorized},
		{http.StatusForbidden, OpReports, KindForbidden},
		{http.StatusNotFound, OpUsers, KindNotFound},
		{http.StatusConflict, OpUsers, KindConflict},
		{http.StatusBadRequest, OpMerchants, KindValidation},
		{http.StatusUnprocessableEntity, OpMovements, KindValidation},
		{http.StatusTooManyRequests, OpLogin, KindRateLimited},
		{http.StatusInternalServerError, OpLogin, KindServer},
		{http.StatusBadGateway, OpLogin, KindServer},
		{http.StatusTeapot, OpLogin, KindUnknown},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status)+"/"+tt.op, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.status, tt.op))
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "invalid email or password", message(http.StatusUnauthorized, OpLogin, ""))
	assert.Equal(t, "not authorized, your session has expired", message(http.StatusUnauthorized, OpUsers, ""))
	assert.Equal(t, "dni is required", message(http.StatusBadRequest, OpMerchants, "dni is required"))
	assert.Equal(t, "invalid request", message(http.StatusBadRequest, OpMerchants, ""))
	assert.Equal(t, "unexpected error: 418", message(http.StatusTeapot, OpLogin, ""))
	assert.Equal(t, "gateway down", message(http.StatusBadGateway, OpLogin, "gateway down"))
}

func TestAPIError_MatchesSentinels(t *testing.T) {
	err := error(newAPIError(OpReports, http.StatusForbidden, "", []byte(`{"message":"nope"}`), nil))

	require.ErrorIs(t, err, ErrForbidden)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.True(t, IsAuthFailure(err))
	assert.False(t, IsNetwork(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, OpReports, apiErr.Op)
	assert.False(t, apiErr.Timestamp.IsZero())
	assert.Contains(t, apiErr.Error(), "status 403")
}

func TestAPIError_NetworkKeepsCause(t *testing.T) {
	err := error(newAPIError(OpLogin, 0, "", nil, context.DeadlineExceeded))

	assert.True(t, IsNetwork(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotContains(t, err.Error(), "status")
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "invalid_credentials", KindInvalidCredentials.String())
	assert.Equal(t, "kind(99)", Kind(99).String())
	assert.False(t, errors.Is(nil, ErrUnknown))
}
