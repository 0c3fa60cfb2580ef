package test

import (
	"testing"

	"travel-journal/internal/global/response"

	"github.com/stretchr/testify/require"
)

func ErrorEqual(t *testing.T, expected *response.Error, resp response.ResponseBody) {
	t.Helper()
	require.Equal(t, response.StatusError, resp.Status)
	require.Equal(t, expected.Code, resp.Code)
	require.Equal(t, expected.Message, resp.Error)
}

func NoError(t *testing.T, resp response.ResponseBody) {
	t.Helper()
	require.Equal(t, response.StatusSuccess, resp.Status, resp.Error)
}
