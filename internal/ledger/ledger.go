// Package ledger implements the installation ledger (§4.11): the durable
// record of what is installed, where its files went, and which version is
// active for each package name. It persists domain.Installation records to
// a local sqlite database, queried through database/sql.
package ledger

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/parcelhq/parcel/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS packages (
	id                 TEXT PRIMARY KEY,
	name               TEXT NOT NULL,
	version            TEXT NOT NULL,
	author             TEXT NOT NULL,
	source_type        TEXT NOT NULL,
	source_path        TEXT NOT NULL,
	target_os          TEXT NOT NULL,
	target_arch        TEXT NOT NULL,
	checksum_algorithm TEXT,
	checksum_hash      TEXT,
	installed          INTEGER NOT NULL DEFAULT 0,
	active             INTEGER NOT NULL DEFAULT 0,
	installed_at       TEXT,
	created_at         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS dependencies (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	package_id         TEXT NOT NULL REFERENCES packages(id) ON DELETE CASCADE,
	dependency_name    TEXT NOT NULL,
	version_constraint TEXT NOT NULL,
	dependency_kind    TEXT NOT NULL,
	provides           TEXT,
	features           TEXT
);

CREATE INDEX IF NOT EXISTS idx_dependencies_package ON dependencies(package_id);

CREATE TABLE IF NOT EXISTS installations (
	installation_id TEXT PRIMARY KEY,
	package_id      TEXT NOT NULL UNIQUE,
	install_mode    TEXT NOT NULL,
	installed_at    TEXT NOT NULL,
	active          INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS installed_files (
	installation_id TEXT NOT NULL REFERENCES installations(installation_id) ON DELETE CASCADE,
	path            TEXT NOT NULL,
	size            INTEGER NOT NULL,
	checksum_algo   TEXT NOT NULL,
	checksum_hex    TEXT NOT NULL,
	perm_read       INTEGER NOT NULL,
	perm_write      INTEGER NOT NULL,
	perm_execute    INTEGER NOT NULL,
	file_type       TEXT NOT NULL,
	created_at      TEXT NOT NULL,
	modified_at     TEXT NOT NULL,
	PRIMARY KEY (installation_id, path)
);

CREATE TABLE IF NOT EXISTS symlinks (
	installation_id TEXT NOT NULL REFERENCES installations(installation_id) ON DELETE CASCADE,
	ordinal         INTEGER NOT NULL,
	source          TEXT NOT NULL,
	target          TEXT NOT NULL,
	link_type       TEXT NOT NULL,
	created_at      TEXT NOT NULL,
	owner           TEXT NOT NULL,
	grp             TEXT NOT NULL,
	description     TEXT NOT NULL,
	PRIMARY KEY (installation_id, ordinal)
);

CREATE INDEX IF NOT EXISTS idx_installed_files_installation ON installed_files(installation_id);
CREATE INDEX IF NOT EXISTS idx_symlinks_installation ON symlinks(installation_id);
`

// Ledger is the sqlite-backed installation ledger. The zero value is not
// usable; construct with Open.
type Ledger struct {
	db *sql.DB
}

// Open opens (creating if absent) the sqlite database at path and applies
// the schema migration. Callers must Close the returned Ledger.
func Open(ctx context.Context, path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, domain.ErrDatabase{Operation: "open", Err: err}
	}

	// The ledger is read and written by a single process at a time; one
	// connection avoids sqlite's "database is locked" errors under the
	// default journal mode.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, domain.ErrDatabase{Operation: "pragma", Err: err}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, domain.ErrDatabase{Operation: "migrate", Err: err}
	}

	return &Ledger{db: db}, nil
}

// Close releases the underlying database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record inserts or replaces the installation row for inst.PackageID,
// including its file and symlink rows, inside a single transaction (§4.11
// "durable across a crash or power loss between any two operations").
func (l *Ledger) Record(ctx context.Context, inst domain.Installation) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.ErrDatabase{Operation: "record", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM installations WHERE package_id = ?`, inst.PackageID); err != nil {
		return domain.ErrDatabase{Operation: "record", Err: err}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO installations (installation_id, package_id, install_mode, installed_at, active)
		 VALUES (?, ?, ?, ?, ?)`,
		inst.InstallationID, inst.PackageID, inst.InstallMode,
		inst.InstalledAt.UTC().Format(time.RFC3339), boolToInt(inst.Active),
	)
	if err != nil {
		return domain.ErrDatabase{Operation: "record", Err: err}
	}

	for path, meta := range inst.InstalledFiles {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO installed_files
			 (installation_id, path, size, checksum_algo, checksum_hex, perm_read, perm_write, perm_execute, file_type, created_at, modified_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			inst.InstallationID, path, meta.Size, string(meta.Checksum.Algorithm), meta.Checksum.Hex,
			boolToInt(meta.Permissions.Read), boolToInt(meta.Permissions.Write), boolToInt(meta.Permissions.Execute),
			string(meta.FileType), meta.CreatedAt.UTC().Format(time.RFC3339), meta.ModifiedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return domain.ErrDatabase{Operation: "record", Err: err}
		}
	}

	for i, link := range inst.Symlinks {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO symlinks
			 (installation_id, ordinal, source, target, link_type, created_at, owner, grp, description)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			inst.InstallationID, i, link.Source, link.Target, string(link.LinkType),
			link.Metadata.CreatedAt.UTC().Format(time.RFC3339), link.Metadata.Owner, link.Metadata.Group, link.Metadata.Description,
		)
		if err != nil {
			return domain.ErrDatabase{Operation: "record", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.ErrDatabase{Operation: "record", Err: err}
	}
	return nil
}

// SavePackage inserts or replaces pkg's row and its dependency rows in a
// single transaction (§4.11's "save_package + dependencies" durability
// contract), and records whether it is installed/active per status.
func (l *Ledger) SavePackage(ctx context.Context, pkg domain.Package, status domain.PackageStatus) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.ErrDatabase{Operation: "save_package", Err: err}
	}
	defer tx.Rollback()

	id := pkg.ID()
	if _, err := tx.ExecContext(ctx, `DELETE FROM packages WHERE id = ?`, id); err != nil {
		return domain.ErrDatabase{Operation: "save_package", Err: err}
	}

	var checksumAlgo, checksumHash sql.NullString
	if !pkg.Checksum.IsZero() {
		checksumAlgo = sql.NullString{String: string(pkg.Checksum.Algorithm), Valid: true}
		checksumHash = sql.NullString{String: pkg.Checksum.Hex, Valid: true}
	}
	var installedAt sql.NullString
	if status.Installed {
		installedAt = sql.NullString{String: time.Now().UTC().Format(time.RFC3339), Valid: true}
	}

	sourcePath := pkg.Source.Path
	if sourcePath == "" {
		sourcePath = pkg.Source.URL
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO packages
		 (id, name, version, author, source_type, source_path, target_os, target_arch,
		  checksum_algorithm, checksum_hash, installed, active, installed_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, pkg.Name.String(), pkg.Version.String(), pkg.Author,
		pkg.Source.Kind.String(), sourcePath, pkg.Target.OS.String(), pkg.Target.Arch.String(),
		checksumAlgo, checksumHash, boolToInt(status.Installed), boolToInt(status.Active),
		installedAt, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return domain.ErrDatabase{Operation: "save_package", Err: err}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM dependencies WHERE package_id = ?`, id); err != nil {
		return domain.ErrDatabase{Operation: "save_package", Err: err}
	}

	for _, dep := range pkg.Dependencies {
		var provides sql.NullString
		if dep.Provides != "" {
			provides = sql.NullString{String: dep.Provides, Valid: true}
		}
		var features sql.NullString
		if len(dep.Features) > 0 {
			features = sql.NullString{String: strings.Join(dep.Features, ","), Valid: true}
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO dependencies (package_id, dependency_name, version_constraint, dependency_kind, provides, features)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, dep.Name.String(), dep.Constraint.String(), dep.Kind.String(), provides, features,
		)
		if err != nil {
			return domain.ErrDatabase{Operation: "save_package", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.ErrDatabase{Operation: "save_package", Err: err}
	}
	return nil
}

// GetPackageStatus returns the installed/active projection recorded for id
// (§3 "installed/active are projections read from the ledger at query time").
func (l *Ledger) GetPackageStatus(ctx context.Context, id string) (domain.PackageStatus, error) {
	row := l.db.QueryRowContext(ctx, `SELECT installed, active FROM packages WHERE id = ?`, id)
	var installed, active int
	if err := row.Scan(&installed, &active); err != nil {
		if err == sql.ErrNoRows {
			return domain.PackageStatus{}, domain.ErrPackageNotFound{Reference: id}
		}
		return domain.PackageStatus{}, domain.ErrDatabase{Operation: "get_package_status", Err: err}
	}
	return domain.PackageStatus{Installed: installed != 0, Active: active != 0}, nil
}

// ListPackageDependencies returns the dependency rows recorded for id.
func (l *Ledger) ListPackageDependencies(ctx context.Context, id string) ([]domain.Dependency, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT dependency_name, version_constraint, dependency_kind, provides, features
		 FROM dependencies WHERE package_id = ?`, id)
	if err != nil {
		return nil, domain.ErrDatabase{Operation: "list_package_dependencies", Err: err}
	}
	defer rows.Close()

	var deps []domain.Dependency
	for rows.Next() {
		var name, constraint, kind string
		var provides, features sql.NullString
		if err := rows.Scan(&name, &constraint, &kind, &provides, &features); err != nil {
			return nil, domain.ErrDatabase{Operation: "list_package_dependencies", Err: err}
		}
		parsedName, err := domain.ParseName(name)
		if err != nil {
			continue
		}
		parsedConstraint, err := domain.ParseVersionReq(constraint)
		if err != nil {
			continue
		}
		dep := domain.Dependency{Name: parsedName, Constraint: parsedConstraint, Kind: parseDependencyKind(kind), Provides: provides.String}
		if features.Valid && features.String != "" {
			dep.Features = strings.Split(features.String, ",")
		}
		deps = append(deps, dep)
	}
	return deps, rows.Err()
}

// SetPackageActive flips the active flag on the packages row for id.
func (l *Ledger) SetPackageActive(ctx context.Context, id string, active bool) error {
	res, err := l.db.ExecContext(ctx, `UPDATE packages SET active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return domain.ErrDatabase{Operation: "set_package_active", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.ErrDatabase{Operation: "set_package_active", Err: err}
	}
	if n == 0 {
		return domain.ErrPackageNotFound{Reference: id}
	}
	return nil
}

// RemovePackage deletes the packages row (and, via cascade, its
// dependency rows) for id.
func (l *Ledger) RemovePackage(ctx context.Context, id string) error {
	res, err := l.db.ExecContext(ctx, `DELETE FROM packages WHERE id = ?`, id)
	if err != nil {
		return domain.ErrDatabase{Operation: "remove_package", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.ErrDatabase{Operation: "remove_package", Err: err}
	}
	if n == 0 {
		return domain.ErrPackageNotFound{Reference: id}
	}
	return nil
}

func parseDependencyKind(s string) domain.DependencyKind {
	switch s {
	case "optional":
		return domain.DependencyOptional
	case "build":
		return domain.DependencyBuild
	case "dev":
		return domain.DependencyDev
	default:
		return domain.DependencyRequired
	}
}

// Get returns the installation recorded for packageID.
func (l *Ledger) Get(ctx context.Context, packageID string) (domain.Installation, error) {
	row := l.db.QueryRowContext(ctx,
		`SELECT installation_id, install_mode, installed_at, active FROM installations WHERE package_id = ?`,
		packageID)

	var inst domain.Installation
	var installedAt string
	var active int
	if err := row.Scan(&inst.InstallationID, &inst.InstallMode, &installedAt, &active); err != nil {
		if err == sql.ErrNoRows {
			return domain.Installation{}, domain.ErrPackageNotFound{Reference: packageID}
		}
		return domain.Installation{}, domain.ErrDatabase{Operation: "get", Err: err}
	}
	inst.PackageID = packageID
	inst.Active = active != 0
	inst.InstalledAt, _ = time.Parse(time.RFC3339, installedAt)

	files, err := l.loadFiles(ctx, inst.InstallationID)
	if err != nil {
		return domain.Installation{}, err
	}
	inst.InstalledFiles = files

	symlinks, err := l.loadSymlinks(ctx, inst.InstallationID)
	if err != nil {
		return domain.Installation{}, err
	}
	inst.Symlinks = symlinks

	return inst, nil
}

// List returns every installation recorded in the ledger, ordered by
// package_id for deterministic output.
func (l *Ledger) List(ctx context.Context) ([]domain.Installation, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT package_id FROM installations ORDER BY package_id`)
	if err != nil {
		return nil, domain.ErrDatabase{Operation: "list", Err: err}
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, domain.ErrDatabase{Operation: "list", Err: err}
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDatabase{Operation: "list", Err: err}
	}

	out := make([]domain.Installation, 0, len(ids))
	for _, id := range ids {
		inst, err := l.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}

// SetActive flips the active flag for packageID, used by the switcher (§4.13)
// when a different version of the same package becomes the active one.
func (l *Ledger) SetActive(ctx context.Context, packageID string, active bool) error {
	res, err := l.db.ExecContext(ctx,
		`UPDATE installations SET active = ? WHERE package_id = ?`, boolToInt(active), packageID)
	if err != nil {
		return domain.ErrDatabase{Operation: "set_active", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.ErrDatabase{Operation: "set_active", Err: err}
	}
	if n == 0 {
		return domain.ErrPackageNotFound{Reference: packageID}
	}
	return nil
}

// Remove deletes the installation row (and, via cascade, its files and
// symlinks) for packageID.
func (l *Ledger) Remove(ctx context.Context, packageID string) error {
	res, err := l.db.ExecContext(ctx, `DELETE FROM installations WHERE package_id = ?`, packageID)
	if err != nil {
		return domain.ErrDatabase{Operation: "remove", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.ErrDatabase{Operation: "remove", Err: err}
	}
	if n == 0 {
		return domain.ErrPackageNotFound{Reference: packageID}
	}
	return nil
}

func (l *Ledger) loadFiles(ctx context.Context, installationID string) (map[string]domain.FileMetadata, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT path, size, checksum_algo, checksum_hex, perm_read, perm_write, perm_execute, file_type, created_at, modified_at
		 FROM installed_files WHERE installation_id = ?`, installationID)
	if err != nil {
		return nil, domain.ErrDatabase{Operation: "load_files", Err: err}
	}
	defer rows.Close()

	files := make(map[string]domain.FileMetadata)
	for rows.Next() {
		var path, algo, hex, fileType, createdAt, modifiedAt string
		var size int64
		var readPerm, writePerm, execPerm int
		if err := rows.Scan(&path, &size, &algo, &hex, &readPerm, &writePerm, &execPerm, &fileType, &createdAt, &modifiedAt); err != nil {
			return nil, domain.ErrDatabase{Operation: "load_files", Err: err}
		}
		created, _ := time.Parse(time.RFC3339, createdAt)
		modified, _ := time.Parse(time.RFC3339, modifiedAt)
		files[path] = domain.FileMetadata{
			Size:     size,
			Checksum: domain.Checksum{Algorithm: domain.ChecksumAlgorithm(algo), Hex: hex},
			Permissions: domain.Permissions{
				Read:    readPerm != 0,
				Write:   writePerm != 0,
				Execute: execPerm != 0,
			},
			FileType:   domain.ParseFileType(fileType),
			CreatedAt:  created,
			ModifiedAt: modified,
		}
	}
	return files, rows.Err()
}

func (l *Ledger) loadSymlinks(ctx context.Context, installationID string) ([]domain.Symlink, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT source, target, link_type, created_at, owner, grp, description
		 FROM symlinks WHERE installation_id = ? ORDER BY ordinal`, installationID)
	if err != nil {
		return nil, domain.ErrDatabase{Operation: "load_symlinks", Err: err}
	}
	defer rows.Close()

	var links []domain.Symlink
	for rows.Next() {
		var source, target, linkType, createdAt, owner, group, description string
		if err := rows.Scan(&source, &target, &linkType, &createdAt, &owner, &group, &description); err != nil {
			return nil, domain.ErrDatabase{Operation: "load_symlinks", Err: err}
		}
		created, _ := time.Parse(time.RFC3339, createdAt)
		links = append(links, domain.Symlink{
			Source:   source,
			Target:   target,
			LinkType: domain.LinkType(linkType),
			Metadata: domain.SymlinkMetadata{
				CreatedAt:   created,
				Owner:       owner,
				Group:       group,
				Description: description,
			},
		})
	}
	return links, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
