package steamlib

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"sync"

	"steamclip/internal/logging"
)

// AppNameIndex maps application ids to display names.
type AppNameIndex map[uint32]string

// Resolver turns application ids into display names using the appmanifest
// files of every discovered library root.
type Resolver struct {
	candidates []string
	logger     *slog.Logger

	once  sync.Once
	roots []LibraryRoot
}

// NewResolver builds a resolver over the given Steam install roots. Library
// discovery is deferred to the first lookup and happens once.
func NewResolver(candidates []string, logger *slog.Logger) *Resolver {
	return &Resolver{
		candidates: append([]string(nil), candidates...),
		logger:     logging.NewComponentLogger(logger, "steamlib"),
	}
}

// NewResolverWithRoots builds a resolver over an already discovered root list.
func NewResolverWithRoots(roots []LibraryRoot, logger *slog.Logger) *Resolver {
	r := &Resolver{logger: logging.NewComponentLogger(logger, "steamlib")}
	r.once.Do(func() {
		r.roots = append([]LibraryRoot(nil), roots...)
	})
	return r
}

// Roots returns the library roots in discovery order.
func (r *Resolver) Roots() []LibraryRoot {
	r.once.Do(func() {
		r.roots = Discover(r.candidates, r.logger)
	})
	return append([]LibraryRoot(nil), r.roots...)
}

// Name returns the first name declared for appID across the library roots.
// The boolean is false when no root has a usable manifest.
func (r *Resolver) Name(appID uint32) (string, bool) {
	manifest := ManifestFileName(appID)
	for _, root := range r.Roots() {
		path := filepath.Join(root.Path, manifest)
		name, err := readAppName(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				r.logger.Debug("app manifest unusable",
					logging.String("path", path),
					logging.Error(err),
				)
			}
			continue
		}
		if name != "" {
			return name, true
		}
	}
	return "", false
}

// DisplayName returns the resolved name or, failing that, the decimal app id.
// A missing name never fails the caller.
func (r *Resolver) DisplayName(appID uint32) string {
	if name, ok := r.Name(appID); ok {
		return name
	}
	fallback := strconv.FormatUint(uint64(appID), 10)
	r.logger.Info("app name unresolved",
		logging.Args(append(logging.DecisionAttrs("app_name", fallback, "no appmanifest declares a name"),
			logging.AppID(appID))...)...,
	)
	return fallback
}

// Index resolves every id in ids.
func (r *Resolver) Index(ids []uint32) AppNameIndex {
	index := make(AppNameIndex, len(ids))
	for _, id := range ids {
		if _, ok := index[id]; ok {
			continue
		}
		index[id] = r.DisplayName(id)
	}
	return index
}

// ManifestFileName returns the appmanifest file name for appID.
func ManifestFileName(appID uint32) string {
	return fmt.Sprintf("appmanifest_%d.acf", appID)
}

func readAppName(path string) (string, error) {
	doc, raw, err := readKeyValues(path)
	if err != nil {
		if raw == "" {
			return "", err
		}
		if name := looseAppManifestName(raw); name != "" {
			return name, nil
		}
		return "", err
	}
	if name := appManifestName(doc); name != "" {
		return name, nil
	}
	return looseAppManifestName(raw), nil
}
