package doctor

import (
	"context"

	"github.com/parcelhq/parcel/internal/domain"
)

// InstallationLister is the subset of the ledger this check needs,
// kept narrow so the check can be registered without importing
// internal/ledger directly.
type InstallationLister interface {
	List(ctx context.Context) ([]domain.Installation, error)
}

// InstalledLinkCheck scans every recorded installation's symlinks for
// breakage: a link missing entirely, or resolving to something other
// than its recorded source. Adapted from OrphanCheck's broken-link
// detection, re-targeted from a live manifest scan to the ledger's
// recorded Installation/Symlink rows, since materialized packages are
// tracked there rather than by walking the target directory.
type InstalledLinkCheck struct {
	fs     domain.FS
	ledger InstallationLister
}

func NewInstalledLinkCheck(fs domain.FS, ledger InstallationLister) *InstalledLinkCheck {
	return &InstalledLinkCheck{fs: fs, ledger: ledger}
}

func (c *InstalledLinkCheck) Name() string {
	return "installed_links"
}

func (c *InstalledLinkCheck) Description() string {
	return "Scans every installed package's symlinks for breakage"
}

func (c *InstalledLinkCheck) Run(ctx context.Context) (domain.CheckResult, error) {
	result := domain.CheckResult{
		CheckName: c.Name(),
		Status:    domain.CheckStatusPass,
		Issues:    make([]domain.Issue, 0),
		Stats:     make(map[string]any),
	}

	installations, err := c.ledger.List(ctx)
	if err != nil {
		return result, err
	}

	checked, broken, wrongTarget := 0, 0, 0
	for _, inst := range installations {
		for _, link := range inst.Symlinks {
			checked++

			if !c.fs.Exists(ctx, link.Target) {
				broken++
				result.Issues = append(result.Issues, domain.Issue{
					Code:     "BROKEN_LINK",
					Message:  "link target does not exist",
					Severity: domain.IssueSeverityError,
					Path:     link.Target,
					Context:  map[string]any{"package": inst.PackageID, "source": link.Source},
				})
				continue
			}

			actual, err := c.fs.ReadLink(ctx, link.Target)
			if err == nil && actual != "" && actual != link.Source {
				wrongTarget++
				result.Issues = append(result.Issues, domain.Issue{
					Code:     "WRONG_LINK_TARGET",
					Message:  "link resolves to an unexpected source",
					Severity: domain.IssueSeverityWarning,
					Path:     link.Target,
					Context:  map[string]any{"package": inst.PackageID, "expected": link.Source, "actual": actual},
				})
			}
		}
	}

	result.Stats["checked"] = checked
	result.Stats["broken"] = broken
	result.Stats["wrong_target"] = wrongTarget

	switch {
	case broken > 0:
		result.Status = domain.CheckStatusFail
	case wrongTarget > 0:
		result.Status = domain.CheckStatusWarning
	}
	return result, nil
}
