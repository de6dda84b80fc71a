// Package archive implements the .uhp package archive codec (§6): a
// gzip-compressed tar stream whose entries are relative to a package root
// containing meta.toml and instlist, grounded on
// original_source/src/repositories/package_files.rs's create_package_archive
// and extract_package (there implemented directly against the local
// filesystem; here mediated through domain.FS so it also runs against the
// in-memory test adapter).
package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/parcelhq/parcel/internal/domain"
)

// Pack walks root and produces a gzip-compressed tar archive containing
// every regular file under it, with entry names relative to root.
func Pack(ctx context.Context, fs domain.FS, root string) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	if err := addDir(ctx, fs, tw, root, root); err != nil {
		tw.Close()
		gz.Close()
		return nil, domain.ErrFilesystem{Operation: "archive_pack", Path: root, Err: err}
	}

	if err := tw.Close(); err != nil {
		return nil, domain.ErrFilesystem{Operation: "archive_pack", Path: root, Err: err}
	}
	if err := gz.Close(); err != nil {
		return nil, domain.ErrFilesystem{Operation: "archive_pack", Path: root, Err: err}
	}
	return buf.Bytes(), nil
}

func addDir(ctx context.Context, fs domain.FS, tw *tar.Writer, root, dir string) error {
	entries, err := fs.ReadDir(ctx, dir)
	if err != nil {
		return err
	}

	// Sort for deterministic archive bytes across runs.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if err := addDir(ctx, fs, tw, root, full); err != nil {
				return err
			}
			continue
		}

		data, err := fs.ReadFile(ctx, full)
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, full)
		if err != nil {
			return err
		}

		hdr := &tar.Header{
			Name:     filepath.ToSlash(rel),
			Mode:     0o644,
			Size:     int64(len(data)),
			Typeflag: tar.TypeReg,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if _, err := tw.Write(data); err != nil {
			return err
		}
	}
	return nil
}

// Unpack decompresses and extracts a .uhp archive under dest, rejecting
// any entry whose relative path would escape dest (zip-slip guard —
// the original's unpack() trusted tar's own path handling unconditionally).
func Unpack(ctx context.Context, fs domain.FS, data []byte, dest string) error {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return domain.ErrRepositoryCorrupted{Path: dest, Reason: "not a valid gzip stream"}
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.ErrRepositoryCorrupted{Path: dest, Reason: "corrupt tar stream: " + err.Error()}
		}

		target := filepath.Join(dest, filepath.FromSlash(hdr.Name))
		if !withinDir(dest, target) {
			return domain.ErrRepositoryCorrupted{Path: hdr.Name, Reason: "archive entry escapes extraction root"}
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := fs.MkdirAll(ctx, target, 0o755); err != nil {
				return domain.ErrFilesystem{Operation: "archive_unpack", Path: target, Err: err}
			}
		case tar.TypeReg:
			if err := fs.MkdirAll(ctx, filepath.Dir(target), 0o755); err != nil {
				return domain.ErrFilesystem{Operation: "archive_unpack", Path: target, Err: err}
			}
			content, err := io.ReadAll(tr)
			if err != nil {
				return domain.ErrRepositoryCorrupted{Path: hdr.Name, Reason: "truncated entry: " + err.Error()}
			}
			mode := os.FileMode(hdr.Mode)
			if mode == 0 {
				mode = 0o644
			}
			if err := fs.WriteFile(ctx, target, content, mode); err != nil {
				return domain.ErrFilesystem{Operation: "archive_unpack", Path: target, Err: err}
			}
		default:
			// symlinks/devices/etc. are not part of the .uhp contract (§6);
			// skip rather than fail so an archive with unrelated entries still extracts.
		}
	}
	return nil
}

func withinDir(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel != ".." && !hasDotDotPrefix(rel)
}

func hasDotDotPrefix(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
