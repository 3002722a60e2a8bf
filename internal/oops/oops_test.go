package oops

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWrapsAndRecordsCaller(t *testing.T) {
	err := New(io.ErrUnexpectedEOF, "reading %s", "a.png")
	assert.Equal(t, "reading a.png: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	var oopsErr *Error
	require.True(t, errors.As(err, &oopsErr))
	require.NotEmpty(t, oopsErr.Stack)
	assert.Contains(t, oopsErr.Stack[0].Function, "TestNewWrapsAndRecordsCaller")
}

func TestNewWithoutWrapped(t *testing.T) {
	assert.Equal(t, "no input", New(nil, "no input").Error())
}

func TestZerologStack(t *testing.T) {
	prev := zerolog.ErrorStackMarshaler
	zerolog.ErrorStackMarshaler = ZerologStackMarshaler
	defer func() { zerolog.ErrorStackMarshaler = prev }()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	logger.Error().Stack().Err(New(nil, "boom")).Msg("failed")
	assert.Contains(t, buf.String(), `"stack":[{"file":`)
}

func TestFileIncludesPath(t *testing.T) {
	err := File("art.png", io.ErrUnexpectedEOF, "failed to decode")
	assert.Equal(t, "art.png: failed to decode: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	var oopsErr *Error
	require.True(t, errors.As(err, &oopsErr))
	assert.Equal(t, "art.png", oopsErr.Path)
	require.NotEmpty(t, oopsErr.Stack)
	assert.Contains(t, oopsErr.Stack[0].Function, "TestFileIncludesPath")
	assert.Contains(t, oopsErr.Stack[0].File, "oops_test.go")
}

func TestZerologStackThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", New(nil, "inner"))
	stack, ok := ZerologStackMarshaler(wrapped).(CallStack)
	require.True(t, ok)
	assert.NotEmpty(t, stack)

	assert.Nil(t, ZerologStackMarshaler(io.EOF))
}
