// Package planner provides pure planning logic for computing operations.
package planner

import (
	"fmt"
	"strings"

	"github.com/parcelhq/parcel/internal/domain"
)

// LinkSpec specifies a desired symbolic link.
type LinkSpec struct {
	Source domain.FilePath   // Extracted file inside the package store
	Target domain.TargetPath // Target location
}

// DirSpec specifies a desired directory.
type DirSpec struct {
	Path domain.FilePath
}

// DesiredState represents the desired filesystem state.
type DesiredState struct {
	Links map[string]LinkSpec // Key: target path
	Dirs  map[string]DirSpec  // Key: directory path
}

// PlanResult contains planning results with optional conflict resolution
type PlanResult struct {
	Desired  DesiredState
	Resolved *ResolveResult // Optional resolution results
}

// HasConflicts returns true if there are unresolved conflicts
func (pr PlanResult) HasConflicts() bool {
	return pr.Resolved != nil && pr.Resolved.HasConflicts()
}

// StoreManifest is the flat list of files a package extracted into the
// store, each entry's Path rooted under storeRoot (§4.5 "Local Store").
// Unlike a dotfile source tree, this list is fixed at extraction time and
// carries no nested Children -- the installer never walks a live source
// directory.
type StoreManifest struct {
	Root  domain.StorePath
	Files []domain.Node
}

// ComputeDesiredState computes the desired link/directory state for
// materializing one package's extracted files under target.
//
// For each regular file in the manifest:
//  1. Compute the path relative to the store root
//  2. Join it onto target to get the link's destination
//  3. Record a LinkSpec (store file -> target path)
//  4. Record DirSpecs for every parent directory under target
func ComputeDesiredState(manifest StoreManifest, target domain.TargetPath) domain.Result[DesiredState] {
	state := DesiredState{
		Links: make(map[string]LinkSpec),
		Dirs:  make(map[string]DirSpec),
	}

	for _, node := range manifest.Files {
		if node.Type != domain.NodeFile {
			continue
		}

		relResult := relativeToStoreRoot(manifest.Root, node.Path)
		if relResult.IsErr() {
			return domain.Err[DesiredState](relResult.UnwrapErr())
		}
		rel := relResult.Unwrap()

		targetPath := target.Join(rel)

		state.Links[targetPath.String()] = LinkSpec{
			Source: node.Path,
			Target: targetPath,
		}

		if err := addParentDirs(targetPath, target, &state); err != nil {
			return domain.Err[DesiredState](err)
		}
	}

	return domain.Ok(state)
}

// relativeToStoreRoot strips the store root prefix from an extracted
// file's path, yielding the path to materialize under target.
func relativeToStoreRoot(root domain.StorePath, file domain.FilePath) domain.Result[string] {
	rootStr := root.String()
	fileStr := file.String()

	if len(fileStr) <= len(rootStr) || !strings.HasPrefix(fileStr, rootStr) {
		return domain.Err[string](domain.ErrInvalidPath{Path: fileStr, Reason: "not under store root"})
	}

	rel := fileStr[len(rootStr):]
	rel = strings.TrimPrefix(rel, "/")

	return domain.Ok(rel)
}

// addParentDirs adds directory specs for all parent directories of path.
func addParentDirs(path domain.TargetPath, target domain.TargetPath, state *DesiredState) error {
	current := path
	targetStr := target.String()

	for {
		parentResult := current.Parent()
		if parentResult.IsErr() {
			break
		}

		parent := parentResult.Unwrap()
		parentStr := parent.String()

		if parentStr == targetStr {
			break
		}

		if _, exists := state.Dirs[parentStr]; !exists {
			dirPath := domain.NewFilePath(parentStr).Unwrap()
			state.Dirs[parentStr] = DirSpec{Path: dirPath}
		}

		current = parent
	}

	return nil
}

// ComputeOperationsFromDesiredState converts desired state into operations.
// mode selects the materialization primitive for each file: symlinks
// (domain.InstallModeSymlink) or independent copies
// (domain.InstallModeDirect) -- §4.6's two materialization modes.
// domain.InstallModeAuto must be resolved to one of the other two
// before calling this; it has no meaning here.
func ComputeOperationsFromDesiredState(desired DesiredState, mode domain.InstallMode) []domain.Operation {
	ops := make([]domain.Operation, 0, len(desired.Dirs)+len(desired.Links))

	for _, dirSpec := range desired.Dirs {
		id := domain.OperationID(fmt.Sprintf("dir-%s", dirSpec.Path.String()))
		ops = append(ops, domain.NewDirCreate(id, dirSpec.Path))
	}

	for _, linkSpec := range desired.Links {
		if mode == domain.InstallModeDirect {
			id := domain.OperationID(fmt.Sprintf("copy-%s->%s", linkSpec.Source.String(), linkSpec.Target.String()))
			ops = append(ops, domain.NewFileCopy(id, linkSpec.Source, linkSpec.Target))
			continue
		}
		id := domain.OperationID(fmt.Sprintf("link-%s->%s", linkSpec.Source.String(), linkSpec.Target.String()))
		ops = append(ops, domain.NewLinkCreate(id, linkSpec.Source, linkSpec.Target))
	}

	return ops
}
