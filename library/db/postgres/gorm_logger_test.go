package postgres

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// TestSanitizeLoggedSQLParamString verifies oversized strings are summarized in logs.
func TestSanitizeLoggedSQLParamString(t *testing.T) {
	short := sanitizeLoggedSQLParam("images/cat.png", 128)
	require.Equal(t, "images/cat.png", short)

	long := fmt.Sprintf("%0257d", 0)
	sanitized := sanitizeLoggedSQLParam(long, 256)
	require.Equal(t, "<string:len=257,truncated>", sanitized)
}

// TestSanitizeLoggedSQLParamBytes verifies oversized byte slices are summarized in logs.
func TestSanitizeLoggedSQLParamBytes(t *testing.T) {
	payload := bytes.Repeat([]byte{0xff}, 1024)
	sanitized := sanitizeLoggedSQLParam(payload, 256)
	require.Equal(t, "<bytes:len=1024,truncated>", sanitized)

	small := []byte("png")
	require.Equal(t, small, sanitizeLoggedSQLParam(small, 256))
}

// TestParamsFilter verifies the logger filters each parameter while leaving SQL untouched.
func TestParamsFilter(t *testing.T) {
	logger := newTruncatingParamsLogger(gormLogger.Default)
	filtering, ok := logger.(gorm.ParamsFilter)
	require.True(t, ok)

	sql := "INSERT INTO media (name, url) VALUES (?, ?)"
	long := fmt.Sprintf("%0300d", 0)
	outSQL, params := filtering.ParamsFilter(context.Background(), sql, "cat", long)
	require.Equal(t, sql, outSQL)
	require.Len(t, params, 2)
	require.Equal(t, "cat", params[0])
	require.Equal(t, "<string:len=300,truncated>", params[1])
}
