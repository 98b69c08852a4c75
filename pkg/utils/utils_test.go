package utils

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithPadding(t *testing.T) {
	type scenario struct {
		str      string
		padding  int
		expected string
	}

	scenarios := []scenario{
		{
			"hello world !",
			1,
			"hello world !",
		},
		{
			"hello world !",
			14,
			"hello world ! ",
		},
	}

	for _, s := range scenarios {
		assert.EqualValues(t, s.expected, WithPadding(s.str, s.padding))
	}
}

func TestDecolorise(t *testing.T) {
	colored := ColoredString("hello", GetColorAttribute("red"))
	assert.Equal(t, "hello", Decolorise(colored))
}

func TestTruncateEnd(t *testing.T) {
	type scenario struct {
		str      string
		limit    int
		expected string
	}

	scenarios := []scenario{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is a long string", 10, "this is a…"},
		{"x", 0, ""},
		{"hello", 1, "…"},
	}

	for _, s := range scenarios {
		assert.Equal(t, s.expected, TruncateEnd(s.str, s.limit))
	}
}

func TestTruncateStart(t *testing.T) {
	type scenario struct {
		str      string
		limit    int
		expected string
	}

	scenarios := []scenario{
		{"/usr/include/stdio.h", 30, "/usr/include/stdio.h"},
		{"/usr/include/linux/stdio.h", 10, "…x/stdio.h"},
		{"x", 0, ""},
		{"hello", 1, "…"},
	}

	for _, s := range scenarios {
		assert.Equal(t, s.expected, TruncateStart(s.str, s.limit))
	}
}

type erroringCloser struct {
	err error
}

func (c erroringCloser) Close() error { return c.err }

func TestCloseMany(t *testing.T) {
	err := CloseMany([]io.Closer{erroringCloser{nil}, erroringCloser{errors.New("boom")}})
	assert.Error(t, err)

	err = CloseMany([]io.Closer{erroringCloser{nil}, erroringCloser{nil}})
	assert.NoError(t, err)
}
