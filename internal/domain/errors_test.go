package domain_test

import (
	"errors"
	"testing"

	"github.com/parcelhq/parcel/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestErrInvalidPath(t *testing.T) {
	err := domain.ErrInvalidPath{
		Path:   "relative/path",
		Reason: "must be absolute",
	}

	assert.Contains(t, err.Error(), "relative/path")
	assert.Contains(t, err.Error(), "must be absolute")
}

func TestErrInvalidName(t *testing.T) {
	err := domain.ErrInvalidName{
		Name:   "1bad-name",
		Reason: "must start with a letter",
	}

	assert.Contains(t, err.Error(), "1bad-name")
	assert.Contains(t, err.Error(), "must start with a letter")
}

func TestErrPackageNotFound(t *testing.T) {
	err := domain.ErrPackageNotFound{
		Reference: "vim@1.0.0",
	}

	assert.Contains(t, err.Error(), "vim@1.0.0")
	assert.Contains(t, err.Error(), "not found")
}

func TestErrDependencyConflict(t *testing.T) {
	err := domain.ErrDependencyConflict{
		Package:   "libfoo",
		Required:  "^2.0.0",
		Installed: "1.4.0",
		Message:   "no version satisfies both constraints",
	}

	msg := err.Error()
	assert.Contains(t, msg, "libfoo")
	assert.Contains(t, msg, "^2.0.0")
	assert.Contains(t, msg, "1.4.0")
}

func TestErrPackageIsActive(t *testing.T) {
	err := domain.ErrPackageIsActive{Reference: "vim@1.0.0"}
	assert.Contains(t, err.Error(), "vim@1.0.0")
	assert.Contains(t, err.Error(), "active")
}

func TestErrCyclicDependency(t *testing.T) {
	err := domain.ErrCyclicDependency{
		Cycle: []string{"a", "b", "c", "a"},
	}

	msg := err.Error()
	assert.Contains(t, msg, "a")
	assert.Contains(t, msg, "b")
	assert.Contains(t, msg, "c")
	assert.Contains(t, msg, "cyclic")
}

func TestErrChecksumMismatch(t *testing.T) {
	err := domain.ErrChecksumMismatch{
		Reference: "vim@1.0.0",
		Expected:  "abc123",
		Actual:    "def456",
	}

	msg := err.Error()
	assert.Contains(t, msg, "vim@1.0.0")
	assert.Contains(t, msg, "abc123")
	assert.Contains(t, msg, "def456")
}

func TestErrNetwork(t *testing.T) {
	inner := errors.New("connection reset")
	err := domain.ErrNetwork{URL: "https://repo.example/index.toml", Err: inner}

	assert.Contains(t, err.Error(), "repo.example")
	assert.ErrorIs(t, err, inner)
}

func TestErrDatabase(t *testing.T) {
	inner := errors.New("database is locked")
	err := domain.ErrDatabase{Operation: "insert installation", Err: inner}

	assert.Contains(t, err.Error(), "insert installation")
	assert.ErrorIs(t, err, inner)
}

func TestErrFilesystem(t *testing.T) {
	inner := errors.New("permission denied")
	err := domain.ErrFilesystem{
		Operation: "create symlink",
		Path:      "/home/user/.local/bin/vim",
		Err:       inner,
	}

	assert.Contains(t, err.Error(), "create symlink")
	assert.Contains(t, err.Error(), "/home/user/.local/bin/vim")
	assert.ErrorIs(t, err, inner)
}

func TestErrPermissionDenied(t *testing.T) {
	err := domain.ErrPermissionDenied{
		Path:      "/root/.local/bin/vim",
		Operation: "write",
	}

	assert.Contains(t, err.Error(), "/root/.local/bin/vim")
	assert.Contains(t, err.Error(), "write")
	assert.Contains(t, err.Error(), "permission denied")
}

func TestErrPathProhibited(t *testing.T) {
	err := domain.ErrPathProhibited{Target: "/usr/bin/vim", Prefix: "/usr/bin"}
	msg := err.Error()
	assert.Contains(t, msg, "/usr/bin/vim")
	assert.Contains(t, msg, "/usr/bin")
}

func TestErrPathOwnershipConflict(t *testing.T) {
	err := domain.ErrPathOwnershipConflict{Target: "/home/user/.local/bin/vim"}
	assert.Contains(t, err.Error(), "/home/user/.local/bin/vim")
	assert.Contains(t, err.Error(), "not owned")
}

func TestErrMultiple(t *testing.T) {
	err1 := errors.New("error 1")
	err2 := errors.New("error 2")
	err3 := errors.New("error 3")

	multi := domain.ErrMultiple{
		Errors: []error{err1, err2, err3},
	}

	msg := multi.Error()
	assert.Contains(t, msg, "3 errors")
	assert.Contains(t, msg, "error 1")
	assert.Contains(t, msg, "error 2")
	assert.Contains(t, msg, "error 3")
}

func TestErrMultipleUnwrap(t *testing.T) {
	err1 := errors.New("error 1")
	err2 := errors.New("error 2")

	multi := domain.ErrMultiple{
		Errors: []error{err1, err2},
	}

	unwrapped := multi.Unwrap()
	assert.Len(t, unwrapped, 2)
	assert.Equal(t, err1, unwrapped[0])
	assert.Equal(t, err2, unwrapped[1])
}

func TestErrEmptyPlan(t *testing.T) {
	err := domain.ErrEmptyPlan{}
	assert.Equal(t, "cannot execute empty plan", err.Error())
}

func TestErrExecutionFailed(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := domain.ErrExecutionFailed{
			Executed: 5,
			Failed:   2,
		}
		msg := err.Error()
		assert.Contains(t, msg, "5 succeeded")
		assert.Contains(t, msg, "2 failed")
	})

	t.Run("with rollback", func(t *testing.T) {
		err := domain.ErrExecutionFailed{
			Executed:   3,
			Failed:     1,
			RolledBack: 2,
		}
		msg := err.Error()
		assert.Contains(t, msg, "2 rolled back")
	})

	t.Run("with errors", func(t *testing.T) {
		err := domain.ErrExecutionFailed{
			Executed: 1,
			Failed:   2,
			Errors: []error{
				errors.New("first error"),
				errors.New("second error"),
			},
		}
		msg := err.Error()
		assert.Contains(t, msg, "first error")
		assert.Contains(t, msg, "second error")

		unwrapped := err.Unwrap()
		assert.Len(t, unwrapped, 2)
	})
}

func TestErrSourceNotFound(t *testing.T) {
	err := domain.ErrSourceNotFound{Path: "/missing/file"}
	msg := err.Error()
	assert.Contains(t, msg, "/missing/file")
	assert.Contains(t, msg, "source does not exist")
}

func TestErrParentNotFound(t *testing.T) {
	err := domain.ErrParentNotFound{Path: "/missing/parent"}
	msg := err.Error()
	assert.Contains(t, msg, "/missing/parent")
	assert.Contains(t, msg, "parent directory")
}

func TestErrCheckpointNotFound(t *testing.T) {
	err := domain.ErrCheckpointNotFound{ID: "checkpoint-123"}
	msg := err.Error()
	assert.Contains(t, msg, "checkpoint-123")
	assert.Contains(t, msg, "not found")
}

func TestErrConfig(t *testing.T) {
	err := domain.ErrConfig{Field: "install_mode", Reason: "must be one of symlink, direct, auto"}
	msg := err.Error()
	assert.Contains(t, msg, "install_mode")
	assert.Contains(t, msg, "must be one of")
}

func TestUserFacingErrorComprehensive(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name:     "ErrPackageNotFound",
			err:      domain.ErrPackageNotFound{Reference: "vim@1.0.0"},
			contains: []string{"vim@1.0.0", "not found"},
		},
		{
			name: "ErrDependencyConflict",
			err: domain.ErrDependencyConflict{
				Package: "libfoo", Required: "^2.0.0", Installed: "1.4.0", Message: "no overlap",
			},
			contains: []string{"libfoo", "^2.0.0", "1.4.0", "no overlap"},
		},
		{
			name:     "ErrPackageIsActive",
			err:      domain.ErrPackageIsActive{Reference: "vim@1.0.0"},
			contains: []string{"vim@1.0.0", "active"},
		},
		{
			name:     "ErrChecksumMismatch",
			err:      domain.ErrChecksumMismatch{Reference: "vim@1.0.0", Expected: "abc", Actual: "def"},
			contains: []string{"vim@1.0.0", "abc", "def", "discarded"},
		},
		{
			name:     "ErrPathProhibited",
			err:      domain.ErrPathProhibited{Target: "/usr/bin/vim", Prefix: "/usr/bin"},
			contains: []string{"/usr/bin/vim", "/usr/bin"},
		},
		{
			name:     "ErrExecutionFailed",
			err:      domain.ErrExecutionFailed{Executed: 3, Failed: 2, RolledBack: 1},
			contains: []string{"3 operations succeeded", "2 failed", "1 rolled back"},
		},
		{
			name: "ErrMultiple wraps single",
			err: domain.ErrMultiple{Errors: []error{
				domain.ErrPackageNotFound{Reference: "vim@1.0.0"},
			}},
			contains: []string{"vim@1.0.0", "not found"},
		},
		{
			name: "ErrMultiple wraps many",
			err: domain.ErrMultiple{Errors: []error{
				errors.New("err1"), errors.New("err2"),
			}},
			contains: []string{"Multiple errors", "err1", "err2"},
		},
		{
			name:     "generic error",
			err:      errors.New("generic error message"),
			contains: []string{"generic error message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := domain.UserFacingError(tt.err)
			for _, contain := range tt.contains {
				assert.Contains(t, msg, contain, "expected message to contain %q", contain)
			}
		})
	}
}
