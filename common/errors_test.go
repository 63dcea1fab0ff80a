package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorMessageIncludesCause(t *testing.T) {
	a := assert.New(t)

	err := NewAppError(KindFilesystem, "opening destination file", errors.New("permission denied"))

	a.Contains(err.Error(), "opening destination file")
	a.Contains(err.Error(), "permission denied")
}

func TestAppErrorWithNilCause(t *testing.T) {
	a := assert.New(t)

	err := NewAppError(KindMalformed, "empty file", nil)

	a.Equal("empty file", err.Error())
	a.Nil(err.Unwrap())
}

func TestClassifyPassesThroughAppError(t *testing.T) {
	a := assert.New(t)

	original := NewAppError(KindAuth, "link expired", errors.New("403"))

	a.Equal(KindAuth, Classify(original))
}

func TestClassifyDefaultsUnknownErrorToInternal(t *testing.T) {
	a := assert.New(t)

	a.Equal(KindInternal, Classify(errors.New("something unexpected")))
}

func TestClassifyNilIsTransient(t *testing.T) {
	a := assert.New(t)

	a.Equal(KindTransientIO, Classify(nil))
}
