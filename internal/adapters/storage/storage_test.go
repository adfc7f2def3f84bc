package storage

import (
	"testing"
	"time"

	"jobboard_backend/platform/apperr"

	"github.com/stretchr/testify/assert"
)

func TestValidateContentType(t *testing.T) {
	assert.NoError(t, ValidateContentType("application/pdf"))
	assert.NoError(t, ValidateContentType("text/plain; charset=utf-8"))
	assert.NoError(t, ValidateContentType("IMAGE/PNG"))

	err := ValidateContentType("video/mp4")
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
}

func TestValidateFileSize(t *testing.T) {
	assert.NoError(t, ValidateFileSize(10, 100))
	assert.NoError(t, ValidateFileSize(10, 0))
	assert.Error(t, ValidateFileSize(0, 100))
	assert.Error(t, ValidateFileSize(101, 100))
}

func TestBuildFileKey(t *testing.T) {
	at := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "job-files/202604/求人票_abc12345.pdf", BuildFileKey(at, "求人票.PDF", "abc12345"))
	assert.Equal(t, "job-files/202604/my_file_x.png", BuildFileKey(at, "../tmp/my file.png", "x"))
	assert.Equal(t, "job-files/202604/file_x", BuildFileKey(at, "", "x"))
}
