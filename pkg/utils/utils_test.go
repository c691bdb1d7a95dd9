package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"indian mobile", "98765 43210", "+919876543210"},
		{"with country code", "+91 98765-43210", "+919876543210"},
		{"empty", "   ", ""},
		{"garbage kept", "call office", "call office"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeE164(tt.input))
		})
	}
}

func TestValidator_FailedFields(t *testing.T) {
	type input struct {
		PolicyNo string `json:"policyNo" validate:"required"`
		Name     string `json:"name" validate:"required"`
		Query    string `json:"query"`
	}

	v := NewValidator()
	err := v.Struct(input{Name: "Asha"})
	require.Error(t, err)
	assert.Equal(t, []string{"policyNo"}, FailedFields(err))

	assert.NoError(t, v.Struct(input{PolicyNo: "1", Name: "Asha"}))
	assert.Nil(t, FailedFields(assert.AnError))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "abc", SanitizeString("a\x00b\x1fc"))
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "claimdesk.log")
	logger, err := NewLogger(LoggerConfig{Level: "info", OutputPath: path, Format: "json"})
	require.NoError(t, err)

	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}
