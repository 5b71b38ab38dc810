package ice

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_New(t *testing.T) {
	assert := assert.New(t)
	err := New("sema", "unreachable switch arm", "")
	assert.Equal("unreachable switch arm", err.Error())
	assert.True(Is(err))

	var iceErr *Error
	if assert.True(errors.As(err, &iceErr)) {
		assert.Equal("sema", iceErr.Phase)
		assert.Contains(iceErr.Report(), "sema")
	}
}

func Test_Newf(t *testing.T) {
	assert := assert.New(t)
	err := Newf("irgen", "lowering saw unresolved type for %q", "x")
	assert.Equal(`lowering saw unresolved type for "x"`, err.Error())
}

func Test_Wrap(t *testing.T) {
	assert := assert.New(t)
	cause := errors.New("index out of range")
	err := Wrap("irgen", cause, "")
	assert.True(Is(err))
	assert.ErrorIs(err, cause)
}

func Test_Recover(t *testing.T) {
	assert := assert.New(t)
	assert.Nil(Recover("sema", nil))

	err := Recover("sema", "boom")
	if assert.NotNil(err) {
		assert.True(Is(err))
	}

	cause := errors.New("nil map write")
	err2 := Recover("sema", cause)
	if assert.NotNil(err2) {
		assert.True(Is(err2))
		assert.ErrorIs(err2, cause)
	}
}

func Test_Is_nonICEError(t *testing.T) {
	assert := assert.New(t)
	assert.False(Is(errors.New("plain error")))
}
