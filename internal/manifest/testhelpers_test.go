package manifest

import (
	"testing"

	"github.com/parcelhq/parcel/internal/domain"
)

func mustTargetPath(t *testing.T, path string) domain.TargetPath {
	t.Helper()
	result := domain.NewTargetPath(path)
	if result.IsErr() {
		t.Fatalf("failed to create target path: %v", result.UnwrapErr())
	}
	return result.Unwrap()
}

func mustPackagePath(t *testing.T, path string) domain.StorePath {
	t.Helper()
	result := domain.NewStorePath(path)
	if result.IsErr() {
		t.Fatalf("failed to create store path: %v", result.UnwrapErr())
	}
	return result.Unwrap()
}
