package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"travel-journal/internal/global/response"

	"github.com/stretchr/testify/require"
)

// DoRequest 对 handler 发起一次 JSON 请求，body 为 nil 时不带请求体
func DoRequest(t *testing.T, handler http.Handler, method, path string, body any) (resp response.ResponseBody, code int) {
	t.Helper()
	w := Raw(t, handler, method, path, body)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp, w.Code
}

// Raw 同 DoRequest，返回原始响应（用于下载等非 JSON 响应）
func Raw(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		requestBytes, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(requestBytes)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// DecodeData 把响应中的 data 解到 out
func DecodeData(t *testing.T, resp response.ResponseBody, out any) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}
