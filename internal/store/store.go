// Package store implements the local, content-addressed package store
// (§4.5): the on-disk tree of extracted package files under
// packages_dir/{name}/{version}, grounded on
// original_source/src/repositories/package_files.rs's
// PackageFilesRepository (extract_package, remove_package_files,
// verify_package_integrity, load/save_package_meta, load_package_instlist).
//
// This is distinct from internal/manifest, which tracks the teacher's
// legacy JSON installation records and is kept only as a migration path
// into the sqlite ledger (internal/ledger).
package store

import (
	"context"
	"strings"

	"github.com/parcelhq/parcel/internal/archive"
	"github.com/parcelhq/parcel/internal/domain"

	"github.com/pelletier/go-toml/v2"
)

// Meta mirrors a package's meta.toml contents (§6), grounded on
// original_source/src/repositories/package_files.rs's PackageMeta.
type Meta struct {
	Name         string   `toml:"name"`
	Version      string   `toml:"version"`
	Author       string   `toml:"author"`
	Description  string   `toml:"description,omitempty"`
	Dependencies []string `toml:"dependencies"`
	Provides     []string `toml:"provides,omitempty"`
	Conflicts    []string `toml:"conflicts,omitempty"`
}

// Store is the filesystem-backed local package store.
type Store struct {
	fs          domain.FS
	packagesDir string
}

// New constructs a Store rooted at packagesDir (domain.Paths.PackagesDir()).
func New(fs domain.FS, packagesDir string) *Store {
	return &Store{fs: fs, packagesDir: packagesDir}
}

// PackageDir returns the store directory for ref.
func (s *Store) PackageDir(ref domain.PackageReference) string {
	return s.packagesDir + "/" + ref.Name.String() + "/" + ref.Version.String()
}

func (s *Store) metaPath(ref domain.PackageReference) string {
	return s.PackageDir(ref) + "/meta.toml"
}

func (s *Store) instlistPath(ref domain.PackageReference) string {
	return s.PackageDir(ref) + "/instlist"
}

// Extract decompresses archiveData (a .uhp archive) into ref's store
// directory.
func (s *Store) Extract(ctx context.Context, ref domain.PackageReference, archiveData []byte) error {
	dir := s.PackageDir(ref)
	if err := s.fs.MkdirAll(ctx, dir, 0o755); err != nil {
		return domain.ErrStorage{PackageID: ref.ID(), Operation: "extract", Err: err}
	}
	if err := archive.Unpack(ctx, s.fs, archiveData, dir); err != nil {
		return domain.ErrStorage{PackageID: ref.ID(), Operation: "extract", Err: err}
	}
	return nil
}

// RemovePackageFiles deletes ref's entire store directory, if present.
func (s *Store) RemovePackageFiles(ctx context.Context, ref domain.PackageReference) error {
	dir := s.PackageDir(ref)
	if !s.fs.Exists(ctx, dir) {
		return nil
	}
	if err := s.fs.RemoveAll(ctx, dir); err != nil {
		return domain.ErrStorage{PackageID: ref.ID(), Operation: "remove_package_files", Err: err}
	}
	return nil
}

// PackageExists reports whether ref has an extracted store directory.
func (s *Store) PackageExists(ctx context.Context, ref domain.PackageReference) bool {
	return s.fs.Exists(ctx, s.PackageDir(ref))
}

// LoadMeta parses ref's meta.toml.
func (s *Store) LoadMeta(ctx context.Context, ref domain.PackageReference) (Meta, error) {
	data, err := s.fs.ReadFile(ctx, s.metaPath(ref))
	if err != nil {
		return Meta{}, domain.ErrPackageNotFound{Reference: ref.String()}
	}
	var meta Meta
	if err := toml.Unmarshal(data, &meta); err != nil {
		return Meta{}, domain.ErrRepositoryCorrupted{Path: s.metaPath(ref), Reason: err.Error()}
	}
	return meta, nil
}

// SaveMeta serializes meta to ref's meta.toml.
func (s *Store) SaveMeta(ctx context.Context, ref domain.PackageReference, meta Meta) error {
	dir := s.PackageDir(ref)
	if err := s.fs.MkdirAll(ctx, dir, 0o755); err != nil {
		return domain.ErrStorage{PackageID: ref.ID(), Operation: "save_meta", Err: err}
	}
	data, err := toml.Marshal(meta)
	if err != nil {
		return domain.ErrStorage{PackageID: ref.ID(), Operation: "save_meta", Err: err}
	}
	if err := s.fs.WriteFile(ctx, s.metaPath(ref), data, 0o644); err != nil {
		return domain.ErrStorage{PackageID: ref.ID(), Operation: "save_meta", Err: err}
	}
	return nil
}

// LoadInstlist parses ref's instlist file: lines of
// "source-relative target-absolute", blank lines and "#"-comments skipped,
// link type inferred from the source entry's kind in the store.
func (s *Store) LoadInstlist(ctx context.Context, ref domain.PackageReference) ([]domain.Symlink, error) {
	path := s.instlistPath(ref)
	if !s.fs.Exists(ctx, path) {
		return nil, nil
	}
	data, err := s.fs.ReadFile(ctx, path)
	if err != nil {
		return nil, domain.ErrStorage{PackageID: ref.ID(), Operation: "load_instlist", Err: err}
	}

	dir := s.PackageDir(ref)
	var symlinks []domain.Symlink
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) != 2 {
			continue
		}
		sourceAbs := dir + "/" + parts[0]
		targetAbs := parts[1]

		linkType := domain.LinkTypeFile
		if isDir, err := s.fs.IsDir(ctx, sourceAbs); err == nil && isDir {
			linkType = domain.LinkTypeDirectory
		}

		symlinks = append(symlinks, domain.Symlink{
			Source:   sourceAbs,
			Target:   targetAbs,
			LinkType: linkType,
		})
	}
	return symlinks, nil
}

// SaveInstlist writes symlinks to ref's instlist file, sources rendered
// relative to the store directory.
func (s *Store) SaveInstlist(ctx context.Context, ref domain.PackageReference, symlinks []domain.Symlink) error {
	dir := s.PackageDir(ref)
	var b strings.Builder
	for _, link := range symlinks {
		rel := strings.TrimPrefix(link.Source, dir+"/")
		b.WriteString(rel)
		b.WriteByte(' ')
		b.WriteString(link.Target)
		b.WriteByte('\n')
	}
	if err := s.fs.WriteFile(ctx, s.instlistPath(ref), []byte(b.String()), 0o644); err != nil {
		return domain.ErrStorage{PackageID: ref.ID(), Operation: "save_instlist", Err: err}
	}
	return nil
}

// VerifyIntegrity reports whether ref's meta.toml and instlist exist and
// every instlist source path is still present in the store.
func (s *Store) VerifyIntegrity(ctx context.Context, ref domain.PackageReference) (bool, error) {
	if !s.fs.Exists(ctx, s.metaPath(ref)) || !s.fs.Exists(ctx, s.instlistPath(ref)) {
		return false, nil
	}
	symlinks, err := s.LoadInstlist(ctx, ref)
	if err != nil {
		return false, err
	}
	for _, link := range symlinks {
		if !s.fs.Exists(ctx, link.Source) {
			return false, nil
		}
	}
	return true, nil
}

// Manifest lists every regular file under ref's store directory, for the
// planner's materialization stage. It returns the store root alongside
// the flat file list so the planner can compute each file's relative
// target.
func (s *Store) Manifest(ctx context.Context, ref domain.PackageReference) (domain.StorePath, []domain.Node, error) {
	dir := s.PackageDir(ref)
	rootResult := domain.NewStorePath(dir)
	if rootResult.IsErr() {
		return domain.StorePath{}, nil, rootResult.UnwrapErr()
	}
	root := rootResult.Unwrap()

	var nodes []domain.Node
	if err := s.walk(ctx, dir, &nodes); err != nil {
		return domain.StorePath{}, nil, domain.ErrStorage{PackageID: ref.ID(), Operation: "manifest", Err: err}
	}
	return root, nodes, nil
}

func (s *Store) walk(ctx context.Context, dir string, nodes *[]domain.Node) error {
	entries, err := s.fs.ReadDir(ctx, dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		full := dir + "/" + entry.Name()
		if entry.IsDir() {
			if err := s.walk(ctx, full, nodes); err != nil {
				return err
			}
			continue
		}
		if entry.Name() == "meta.toml" || entry.Name() == "instlist" {
			continue
		}
		path := domain.NewFilePath(full)
		if path.IsErr() {
			continue
		}
		*nodes = append(*nodes, domain.Node{Path: path.Unwrap(), Type: domain.NodeFile})
	}
	return nil
}
