package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clickRequest struct {
	ClickType string `json:"clickType" validate:"required,oneof=apply consult"`
}

func TestFieldErrorsUsesJSONNames(t *testing.T) {
	v := New()

	err := v.Struct(clickRequest{ClickType: "bogus"})
	require.Error(t, err)

	fields := FieldErrors(err)
	assert.Equal(t, map[string]string{"clickType": "oneof"}, fields)
}

func TestFieldErrorsIgnoresValidInput(t *testing.T) {
	v := New()
	require.NoError(t, v.Struct(clickRequest{ClickType: "consult"}))
	assert.Nil(t, FieldErrors(nil))
}
