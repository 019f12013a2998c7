package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMainDelegatesToExecute(t *testing.T) {
	called := false
	orig := execute
	execute = func() { called = true }
	t.Cleanup(func() { execute = orig })

	main()

	assert.True(t, called, "main should invoke the CLI entry point")
}
