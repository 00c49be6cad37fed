package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublisherErrorMessage(t *testing.T) {
	err := NetworkError("POST http://itms failed", errors.New("connection refused"))
	assert.Equal(t, "[NETWORK] POST http://itms failed: connection refused", err.Error())

	err = ValidationError("Please enter the token", nil)
	assert.Equal(t, "[VALIDATION] Please enter the token", err.Error())
}

func TestIsType(t *testing.T) {
	err := DirectoryUnavailable("/ws/target/report", fs.ErrNotExist)
	assert.True(t, IsType(err, ErrDirectoryUnavailable))
	assert.False(t, IsType(err, ErrFileRead))
	assert.Equal(t, "/ws/target/report", err.Context["dir"])

	wrapped := fmt.Errorf("publish: %w", FileReadError("a.json", fs.ErrPermission))
	assert.True(t, IsType(wrapped, ErrFileRead))
	assert.True(t, errors.Is(wrapped, fs.ErrPermission))

	assert.False(t, IsType(nil, ErrConfig))
	assert.False(t, IsType(errors.New("plain"), ErrConfig))
}

func TestShouldFailBuild(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{ConfigError("bad config", nil), true},
		{ValidationError("bad input", nil), true},
		{DirectoryUnavailable("/x", nil), false},
		{FileReadError("a.json", nil), false},
		{NetworkError("down", nil), false},
		{errors.New("plain"), false},
		{nil, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ShouldFailBuild(tt.err), fmt.Sprint(tt.err))
	}
}
