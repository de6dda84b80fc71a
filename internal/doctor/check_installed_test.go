package doctor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelhq/parcel/internal/adapters"
	"github.com/parcelhq/parcel/internal/doctor"
	"github.com/parcelhq/parcel/internal/domain"
)

type fakeInstallationLister struct {
	installations []domain.Installation
}

func (f *fakeInstallationLister) List(ctx context.Context) ([]domain.Installation, error) {
	return f.installations, nil
}

func TestInstalledLinkCheck_PassesWhenAllLinksIntact(t *testing.T) {
	ctx := context.Background()
	fs := adapters.NewMemFS()
	require.NoError(t, fs.MkdirAll(ctx, "/home/user", 0o755))
	require.NoError(t, fs.Symlink(ctx, "/store/vim/bin/vim", "/home/user/.vimrc"))

	lister := &fakeInstallationLister{installations: []domain.Installation{
		{
			PackageID: "vim@1.0.0",
			Symlinks:  []domain.Symlink{{Source: "/store/vim/bin/vim", Target: "/home/user/.vimrc"}},
		},
	}}

	check := doctor.NewInstalledLinkCheck(fs, lister)
	assert.Equal(t, "installed_links", check.Name())
	assert.NotEmpty(t, check.Description())

	result, err := check.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckStatusPass, result.Status)
	assert.Empty(t, result.Issues)
	assert.Equal(t, 1, result.Stats["checked"])
}

func TestInstalledLinkCheck_FailsOnBrokenLink(t *testing.T) {
	ctx := context.Background()
	fs := adapters.NewMemFS() // /home/user/.vimrc never created

	lister := &fakeInstallationLister{installations: []domain.Installation{
		{
			PackageID: "vim@1.0.0",
			Symlinks:  []domain.Symlink{{Source: "/store/vim/bin/vim", Target: "/home/user/.vimrc"}},
		},
	}}

	check := doctor.NewInstalledLinkCheck(fs, lister)
	result, err := check.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckStatusFail, result.Status)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "BROKEN_LINK", result.Issues[0].Code)
	assert.Equal(t, domain.IssueSeverityError, result.Issues[0].Severity)
}

func TestInstalledLinkCheck_WarnsOnWrongTarget(t *testing.T) {
	ctx := context.Background()
	fs := adapters.NewMemFS()
	require.NoError(t, fs.MkdirAll(ctx, "/home/user", 0o755))
	require.NoError(t, fs.Symlink(ctx, "/store/vim/bin/vim-other-version", "/home/user/.vimrc"))

	lister := &fakeInstallationLister{installations: []domain.Installation{
		{
			PackageID: "vim@1.0.0",
			Symlinks:  []domain.Symlink{{Source: "/store/vim/bin/vim", Target: "/home/user/.vimrc"}},
		},
	}}

	check := doctor.NewInstalledLinkCheck(fs, lister)
	result, err := check.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckStatusWarning, result.Status)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "WRONG_LINK_TARGET", result.Issues[0].Code)
}

func TestInstalledLinkCheck_EmptyLedgerPasses(t *testing.T) {
	check := doctor.NewInstalledLinkCheck(adapters.NewMemFS(), &fakeInstallationLister{})
	result, err := check.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.CheckStatusPass, result.Status)
	assert.Equal(t, 0, result.Stats["checked"])
}
