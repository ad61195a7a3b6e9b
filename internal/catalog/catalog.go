package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"deepseek2api/internal/convert"
	"deepseek2api/internal/core"
	"deepseek2api/internal/util"

	"github.com/bytedance/sonic"
)

// Service maintains a time-bounded cache of the backend's model catalog.
// The cached catalog is an immutable snapshot behind an atomic pointer:
// refresh builds a new snapshot and swaps it in whole, so concurrent
// readers see either the fully-old or fully-new catalog, never a mix.
//
// The cache populates lazily. Nothing is fetched at startup, and a
// non-forced read never touches the network regardless of staleness.
type Service struct {
	httpClient *http.Client
	baseURL    string
	logger     core.Logger

	snapshot atomic.Pointer[core.Catalog]
	window   time.Duration
}

// NewService creates a catalog service against the given backend base URL.
func NewService(httpClient *http.Client, baseURL string, logger core.Logger) *Service {
	return &Service{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
		window:     core.CatalogFreshnessWindow,
	}
}

// GetModels returns a catalog snapshot plus its provenance. It never
// returns an error: refresh failures degrade to the last-known-good
// snapshot, then to the built-in default list.
//
// forceRefresh=false serves the cached snapshot when it is inside the
// freshness window and the default list otherwise; it performs no network
// I/O. forceRefresh=true always attempts one live fetch with the given
// credential as bearer auth.
func (s *Service) GetModels(ctx context.Context, credential string, forceRefresh bool) *core.Catalog {
	if forceRefresh {
		return s.refresh(ctx, credential)
	}

	if snap := s.snapshot.Load(); snap.Fresh(s.window, time.Now()) {
		return tagged(snap, core.SourceCache)
	}
	return core.DefaultCatalog()
}

func (s *Service) refresh(ctx context.Context, credential string) *core.Catalog {
	fetched, err := s.fetch(ctx, credential)
	if err != nil {
		s.logger.Warn("Catalog refresh failed, serving fallback: %v", err)
		if snap := s.snapshot.Load(); snap != nil {
			return tagged(snap, core.SourceCache)
		}
		return core.DefaultCatalog()
	}

	s.snapshot.Store(fetched)
	s.logger.Info("Catalog refreshed: %d models", len(fetched.Models))
	return tagged(fetched, core.SourceLive)
}

func (s *Service) fetch(ctx context.Context, credential string) (*core.Catalog, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, fmt.Errorf("no credential available for catalog fetch")
	}

	req, err := util.NewBackendRequest(http.MethodGet, s.baseURL+core.DeepseekModelsPath, nil, credential)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req = req.WithContext(ctx)

	if err := util.ValidateRequestTarget(req, s.baseURL, "catalog fetch"); err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req) //nolint:gosec // Request target restricted by util.ValidateRequestTarget.
	if err != nil {
		return nil, fmt.Errorf("catalog fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, core.MaxResponseBodySize))
		return nil, fmt.Errorf("catalog fetch returned status %d", resp.StatusCode)
	}

	var backendList core.DeepseekModelList
	if err := sonic.ConfigDefault.NewDecoder(io.LimitReader(resp.Body, core.MaxResponseBodySize)).Decode(&backendList); err != nil {
		return nil, fmt.Errorf("decode catalog payload: %w", err)
	}

	return &core.Catalog{
		Models:    convert.PublicCatalogModels(backendList.Data),
		FetchedAt: time.Now(),
		Source:    core.SourceLive,
	}, nil
}

// CacheValid reports whether a live snapshot exists inside the freshness window.
func (s *Service) CacheValid() bool {
	return s.snapshot.Load().Fresh(s.window, time.Now())
}

// CacheSize returns the number of models in the cached snapshot, zero when
// no live fetch has succeeded yet.
func (s *Service) CacheSize() int {
	if snap := s.snapshot.Load(); snap != nil {
		return len(snap.Models)
	}
	return 0
}

// tagged returns a snapshot view carrying the given provenance. The model
// slice is shared with the stored snapshot, which is never mutated.
func tagged(snap *core.Catalog, source core.CatalogSource) *core.Catalog {
	return &core.Catalog{
		Models:    snap.Models,
		FetchedAt: snap.FetchedAt,
		Source:    source,
	}
}
