package http

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/neurolock/neurolock/pkg/cryptox"
)

// TestMain points the password pepper at a throwaway file before any test
// registers an employee; the default path is only valid in a deployed service.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "neurolock-http-test-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()

	os.RemoveAll(dir)
	os.Exit(code)
}
