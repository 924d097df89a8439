package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcome(t *testing.T) {
	ok := Ok("12:33pm")
	assert.True(t, ok.IsOk())
	assert.Equal(t, "12:33pm", ok.Get())
	assert.NoError(t, ok.Err)

	cause := errors.New("no digits")
	fb := Fallback("noon", cause)
	assert.False(t, fb.IsOk())
	assert.Equal(t, "noon", fb.Get())
	assert.ErrorIs(t, fb.Err, cause)
}
