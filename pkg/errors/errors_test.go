package errors_test

import (
	"errors"
	"testing"

	pkgerrors "github.com/agentstation/alicedeps/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizationError(t *testing.T) {
	t.Run("with sheet", func(t *testing.T) {
		base := errors.New("sheet Livraison Modules does not exist")
		err := pkgerrors.NewNormalizationError("/tmp/deliveries.xlsx", "Livraison Modules", base)
		assert.Contains(t, err.Error(), "/tmp/deliveries.xlsx")
		assert.Contains(t, err.Error(), `"Livraison Modules"`)
		assert.True(t, pkgerrors.IsNormalization(err))
		assert.Equal(t, base, err.Unwrap())
	})

	t.Run("without sheet", func(t *testing.T) {
		err := pkgerrors.NewNormalizationError("book.xlsx", "", errors.New("zip: not a valid zip file"))
		assert.Equal(t, "error processing workbook book.xlsx: zip: not a valid zip file", err.Error())
	})

	t.Run("wrap keeps the innermost normalization error", func(t *testing.T) {
		inner := pkgerrors.NewNormalizationError("book.xlsx", "Livraison echanges", errors.New("boom"))
		err := pkgerrors.WrapNormalization("book.xlsx", "", inner)
		var ne *pkgerrors.NormalizationError
		require.True(t, errors.As(err, &ne))
		assert.Equal(t, "Livraison echanges", ne.Sheet)
	})

	t.Run("wrap nil", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapNormalization("book.xlsx", "", nil))
	})
}

func TestPatchError(t *testing.T) {
	t.Run("parse failure", func(t *testing.T) {
		parseErr := pkgerrors.WrapParse("xml", "/repo/pom.xml", errors.New("unexpected EOF"))
		err := pkgerrors.WrapPatch("parse", "/repo/pom.xml", parseErr)
		assert.True(t, pkgerrors.IsPatch(err))
		assert.Contains(t, err.Error(), "parse of /repo/pom.xml")

		var pe *pkgerrors.ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "xml", pe.Format)
	})

	t.Run("not a normalization error", func(t *testing.T) {
		err := pkgerrors.NewPatchError("walk", "", errors.New("permission denied"))
		assert.False(t, pkgerrors.IsNormalization(err))
		assert.Equal(t, "error during walk: permission denied", err.Error())
	})
}

func TestNotFoundError(t *testing.T) {
	err := pkgerrors.NewNotFoundError("sheet", "Livraison Modules")
	assert.Equal(t, "sheet Livraison Modules not found", err.Error())
	assert.True(t, pkgerrors.IsNotFound(err))

	wrapped := errors.Join(errors.New("failed"), err)
	assert.True(t, pkgerrors.IsNotFound(wrapped))
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("column C", "Module", "expected an unlabeled column")
		assert.Equal(t, "validation failed for field column C: expected an unlabeled column", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "empty corpus"}
		assert.Equal(t, "validation failed: empty corpus", err.Error())
	})
}

func TestIOError(t *testing.T) {
	t.Run("unwrap", func(t *testing.T) {
		baseErr := errors.New("disk full")
		err := pkgerrors.NewIOError("write", "/data/book_clean.json", baseErr)
		assert.Equal(t, baseErr, err.Unwrap())
		assert.Contains(t, err.Error(), "write")
	})

	t.Run("wrap helper", func(t *testing.T) {
		err := pkgerrors.WrapIO("rename", "/repo/pom.xml", errors.New("busy"))
		ioErr, ok := err.(*pkgerrors.IOError)
		require.True(t, ok)
		assert.Equal(t, "rename", ioErr.Operation)
		assert.Equal(t, "/repo/pom.xml", ioErr.Path)
	})
}

func TestResourceError(t *testing.T) {
	err := pkgerrors.WrapResource("load", "records", "book_clean.json", pkgerrors.ErrNotFound)
	resErr, ok := err.(*pkgerrors.ResourceError)
	require.True(t, ok)
	assert.Equal(t, "records", resErr.Resource)
	assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
}

func TestConfigError(t *testing.T) {
	err := pkgerrors.NewConfigError("format", "unknown output format xml", nil)
	assert.Equal(t, "configuration error in format: unknown output format xml", err.Error())
}
