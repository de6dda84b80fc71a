package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/parcelhq/parcel/internal/domain"
	"github.com/parcelhq/parcel/internal/retry"
	"github.com/parcelhq/parcel/internal/store"
)

// remoteMeta mirrors the remote metadata contract (§4.8), which extends
// the local meta.toml shape with checksum and target platform fields.
type remoteMeta struct {
	store.Meta
	ChecksumAlgorithm string `toml:"checksum_algorithm,omitempty"`
	ChecksumHash      string `toml:"checksum_hash,omitempty"`
	TargetOS          string `toml:"target_os,omitempty"`
	TargetArch        string `toml:"target_arch,omitempty"`
}

// RemoteRepository implements domain.PackageRepository against an HTTP
// package index, grounded on
// original_source/src/repositories/remote_packages.rs's
// RemotePackagesRepository.
type RemoteRepository struct {
	network domain.Network
	cache   domain.Cache
	baseURL string
	retry   retry.Config
}

// NewRemoteRepository constructs a RemoteRepository against baseURL's
// index (§6: "{base}/index.toml", "{base}/packages/{name}-{version}-meta.toml",
// "{base}/packages/{name}-{version}.uhp").
func NewRemoteRepository(network domain.Network, cache domain.Cache, baseURL string) *RemoteRepository {
	return &RemoteRepository{
		network: network,
		cache:   cache,
		baseURL: strings.TrimRight(baseURL, "/"),
		retry:   retry.DefaultConfig(),
	}
}

func (r *RemoteRepository) metaURL(ref domain.PackageReference) string {
	return fmt.Sprintf("%s/packages/%s-%s-meta.toml", r.baseURL, ref.Name, ref.Version.String())
}

func (r *RemoteRepository) downloadURL(ref domain.PackageReference) string {
	return fmt.Sprintf("%s/packages/%s-%s.uhp", r.baseURL, ref.Name, ref.Version.String())
}

func (r *RemoteRepository) indexURL() string {
	return r.baseURL + "/index.toml"
}

// fetch retrieves url's body, retrying the whole round trip with
// exponential backoff on any failure -- transport error or non-2xx
// status alike (§7 "retried per configured policy (exp. backoff x3
// default)").
func (r *RemoteRepository) fetch(ctx context.Context, url string) ([]byte, error) {
	return retry.DoWithData(ctx, r.retry, func() ([]byte, error) {
		body, _, status, err := r.network.Get(ctx, url)
		if err != nil {
			return nil, domain.ErrNetwork{URL: url, Err: err}
		}
		defer body.Close()

		if status < 200 || status >= 300 {
			return nil, domain.ErrDownload{URL: url, Reason: fmt.Sprintf("unexpected status %d", status)}
		}

		data, err := io.ReadAll(body)
		if err != nil {
			return nil, domain.ErrDownload{URL: url, Reason: err.Error()}
		}
		return data, nil
	})
}

func (r *RemoteRepository) fetchMeta(ctx context.Context, ref domain.PackageReference) (remoteMeta, error) {
	data, err := r.fetch(ctx, r.metaURL(ref))
	if err != nil {
		var de domain.ErrDownload
		if errors.As(err, &de) && strings.Contains(de.Reason, "404") {
			return remoteMeta{}, domain.ErrPackageNotFound{Reference: ref.String()}
		}
		return remoteMeta{}, err
	}
	var meta remoteMeta
	if err := toml.Unmarshal(data, &meta); err != nil {
		return remoteMeta{}, domain.ErrRepositoryCorrupted{Path: r.metaURL(ref), Reason: err.Error()}
	}
	return meta, nil
}

func (r *RemoteRepository) GetPackage(ctx context.Context, ref domain.PackageReference) (domain.Package, error) {
	meta, err := r.fetchMeta(ctx, ref)
	if err != nil {
		return domain.Package{}, err
	}

	pkg, err := packageFromMeta(meta.Meta, domain.Source{Kind: domain.SourceHTTP, URL: r.downloadURL(ref)})
	if err != nil {
		return domain.Package{}, err
	}

	if meta.TargetOS != "" {
		pkg.Target.OS = domain.CustomPlatform(meta.TargetOS)
	}
	if meta.TargetArch != "" {
		pkg.Target.Arch = domain.CustomPlatform(meta.TargetArch)
	}
	if meta.ChecksumHash != "" {
		algo := domain.ChecksumAlgorithm(meta.ChecksumAlgorithm)
		if algo == "" {
			algo = domain.ChecksumSHA256
		}
		pkg.Checksum = domain.Checksum{Algorithm: algo, Hex: meta.ChecksumHash}
	}
	return pkg, nil
}

func (r *RemoteRepository) SearchPackages(ctx context.Context, query string) ([]domain.Package, error) {
	index, err := r.GetIndex(ctx)
	if err != nil {
		return nil, err
	}

	var results []domain.Package
	for _, entry := range index.Packages {
		if !strings.Contains(entry.Name, query) || len(entry.Versions) == 0 {
			continue
		}
		latest := entry.Versions[len(entry.Versions)-1]
		version, err := domain.ParseVersion(latest)
		if err != nil {
			continue
		}
		name, err := domain.ParseName(entry.Name)
		if err != nil {
			continue
		}
		pkg, err := r.GetPackage(ctx, domain.PackageReference{Name: name, Version: version})
		if err != nil {
			continue
		}
		results = append(results, pkg)
	}
	return results, nil
}

func (r *RemoteRepository) GetPackageVersions(ctx context.Context, name string) ([]string, error) {
	index, err := r.GetIndex(ctx)
	if err != nil {
		return nil, err
	}
	versions, ok := index.GetVersions(name)
	if !ok {
		return nil, domain.ErrPackageNotFound{Reference: name}
	}
	return versions, nil
}

func (r *RemoteRepository) GetLatestVersion(ctx context.Context, name string) (string, error) {
	versions, err := r.GetPackageVersions(ctx, name)
	if err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", domain.ErrPackageNotFound{Reference: name}
	}
	return versions[len(versions)-1], nil
}

// DownloadPackage returns ref's archive bytes, checking the cache first
// (§4.3 "cache-before-network") and verifying the checksum published in
// the remote metadata when one is present (§4.2, §7 "Integrity").
func (r *RemoteRepository) DownloadPackage(ctx context.Context, ref domain.PackageReference) ([]byte, error) {
	if cached, ok, err := r.cache.GetPackage(ctx, ref); err == nil && ok {
		return cached, nil
	}

	data, err := r.fetch(ctx, r.downloadURL(ref))
	if err != nil {
		return nil, err
	}

	if meta, err := r.fetchMeta(ctx, ref); err == nil && meta.ChecksumHash != "" {
		algo := domain.ChecksumAlgorithm(meta.ChecksumAlgorithm)
		if algo == "" {
			algo = domain.ChecksumSHA256
		}
		if err := verifyChecksum(data, domain.Checksum{Algorithm: algo, Hex: meta.ChecksumHash}); err != nil {
			return nil, err
		}
	}

	if err := r.cache.PutPackage(ctx, ref, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (r *RemoteRepository) GetIndex(ctx context.Context) (domain.RepositoryIndex, error) {
	if cached, ok, err := r.cache.GetIndex(ctx, r.baseURL); err == nil && ok {
		var index domain.RepositoryIndex
		if err := toml.Unmarshal(cached, &index); err == nil {
			return index, nil
		}
		// corrupted cache entry: fall through and refetch (§4.3 non-fatal corruption)
	}

	data, err := r.fetch(ctx, r.indexURL())
	if err != nil {
		return domain.RepositoryIndex{}, err
	}

	var index domain.RepositoryIndex
	if err := toml.Unmarshal(data, &index); err != nil {
		return domain.RepositoryIndex{}, domain.ErrRepositoryCorrupted{Path: r.indexURL(), Reason: err.Error()}
	}

	_ = r.cache.PutIndex(ctx, r.baseURL, data)
	return index, nil
}

func (r *RemoteRepository) UpdateIndex(ctx context.Context) (domain.RepositoryIndex, error) {
	data, err := r.fetch(ctx, r.indexURL())
	if err != nil {
		return domain.RepositoryIndex{}, err
	}
	var index domain.RepositoryIndex
	if err := toml.Unmarshal(data, &index); err != nil {
		return domain.RepositoryIndex{}, domain.ErrRepositoryCorrupted{Path: r.indexURL(), Reason: err.Error()}
	}
	_ = r.cache.PutIndex(ctx, r.baseURL, data)
	return index, nil
}

func (r *RemoteRepository) IsAvailable(ctx context.Context) bool {
	status, err := r.network.Head(ctx, r.indexURL())
	if err != nil {
		return false
	}
	return status >= 200 && status < 300
}

func (r *RemoteRepository) GetRepository() domain.Repository {
	return domain.Repository{Name: "remote", Kind: domain.RepositoryHTTP, BaseURL: r.baseURL}
}
