package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeScript(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRunFile_SuccessReturnsZero(t *testing.T) {
	path := writeScript(t, "ok.gkg", `print 1 + 2;`)
	assert.Equal(t, exitOK, runFile(path))
}

func TestRunFile_WrongExtensionIsIOError(t *testing.T) {
	path := writeScript(t, "ok.txt", `print 1;`)
	assert.Equal(t, exitIOError, runFile(path))
}

func TestRunFile_MissingFileIsIOError(t *testing.T) {
	assert.Equal(t, exitIOError, runFile(filepath.Join(t.TempDir(), "missing.gkg")))
}

func TestRunFile_ParseErrorIsDataError(t *testing.T) {
	path := writeScript(t, "bad.gkg", `var ;`)
	assert.Equal(t, exitDataError, runFile(path))
}

func TestRunFile_RuntimeErrorIsDataError(t *testing.T) {
	path := writeScript(t, "bad.gkg", `print undefined_name;`)
	assert.Equal(t, exitDataError, runFile(path))
}
