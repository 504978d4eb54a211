package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Norgate-AV/icp/internal/analysis"
	"github.com/Norgate-AV/icp/internal/config"
	"github.com/Norgate-AV/icp/internal/snapshot"
)

// Service is the context-scoped cache/registry service. Per logical build
// context (an opaque numeric id) it memoizes artifact hashes, a hash to
// original-file reverse map, and the merged instrumentation type registry
// aggregated from per-artifact analysis outputs.
//
// Build workers may call into the service concurrently for the same or
// different context ids. Exactly one resolution scope may be open per id;
// opening a second is a usage error, as is querying an id that was never
// opened or already closed.
type Service struct {
	mu          sync.Mutex
	resolutions map[int64]*resolutionData

	snapshotter             snapshot.Snapshotter
	locations               *snapshot.GlobalCacheLocations
	generateWithoutUpgrades bool

	coreRegistry func() TypeRegistry
}

// NewService creates the cache/registry service. The core registry is read
// lazily from the configured core-types file; when the file is absent the
// registry queries short-circuit to the empty registry unless the
// diagnostic override is set.
func NewService(snapshotter snapshot.Snapshotter, locations *snapshot.GlobalCacheLocations, cfg *config.Config) *Service {
	coreTypesFile := cfg.CoreTypesFile

	return &Service{
		resolutions:             make(map[int64]*resolutionData),
		snapshotter:             snapshotter,
		locations:               locations,
		generateWithoutUpgrades: cfg.GenerateHierarchyWithoutUpgrades,
		coreRegistry:            sync.OnceValue(func() TypeRegistry { return loadCoreRegistry(coreTypesFile) }),
	}
}

func loadCoreRegistry(coreTypesFile string) TypeRegistry {
	if coreTypesFile == "" {
		return EmptyRegistry
	}

	if _, err := os.Stat(coreTypesFile); os.IsNotExist(err) {
		return EmptyRegistry
	}

	types, err := analysis.ReadTypesMap(coreTypesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to read core instrumentation types: %v\n", err)
		return EmptyRegistry
	}

	return NewTypeRegistry(types, EmptyRegistry)
}

// ResolutionScope is the capability to populate one open resolution
// context. Closing it evicts the context; Close must run on all exit paths.
type ResolutionScope struct {
	service   *Service
	contextID int64
	data      *resolutionData
}

// NewResolutionScope opens a resolution scope for the given context id.
// Fails when a scope for that id is already open.
func (s *Service) NewResolutionScope(contextID int64) (*ResolutionScope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.resolutions[contextID]; exists {
		return nil, fmt.Errorf("resolution data for id %d already exists! was the previous resolution scope closed properly?", contextID)
	}

	data := newResolutionData(s)
	s.resolutions[contextID] = data

	return &ResolutionScope{service: s, contextID: contextID, data: data}, nil
}

// SetAnalysisResult registers the analysis-output directories of the
// context's classpath.
func (rs *ResolutionScope) SetAnalysisResult(dirs []string) {
	rs.data.setAnalysisDirs(dirs)
}

// SetOriginalClasspath registers the original (pre-transform) classpath.
func (rs *ResolutionScope) SetOriginalClasspath(files []string) {
	rs.data.setOriginalClasspath(files)
}

// Close evicts the context from the service. Idempotent.
func (rs *ResolutionScope) Close() {
	rs.service.mu.Lock()
	defer rs.service.mu.Unlock()

	delete(rs.service.resolutions, rs.contextID)
}

func (s *Service) resolution(contextID int64) (*resolutionData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.resolutions[contextID]
	if !ok {
		return nil, fmt.Errorf("resolution data for id %d does not exist", contextID)
	}

	return data, nil
}

// GetOriginalFile returns an original classpath file with the given
// artifact hash. Multiple files may share content; which one is returned is
// unimportant for instrumentation.
func (s *Service) GetOriginalFile(contextID int64, hash string) (string, error) {
	data, err := s.resolution(contextID)
	if err != nil {
		return "", err
	}

	file, ok := data.hashToOriginal()[hash]
	if !ok {
		return "", fmt.Errorf("original file for hash %q does not exist", hash)
	}

	return file, nil
}

// GetArtifactHash returns the memoized artifact hash for the file, or the
// empty string when the file is missing on disk.
func (s *Service) GetArtifactHash(contextID int64, file string) (string, error) {
	data, err := s.resolution(contextID)
	if err != nil {
		return "", err
	}

	return data.artifactHash(file)
}

// GetOriginalClasspath returns the context's original classpath files.
func (s *Service) GetOriginalClasspath(contextID int64) ([]string, error) {
	data, err := s.resolution(contextID)
	if err != nil {
		return nil, err
	}

	return data.getOriginalClasspath(), nil
}

// GetInstrumentationTypeRegistry returns the merged super-type registry of
// the context. When no core upgrade metadata exists and the diagnostic
// override is unset there is nothing to instrument, and the empty registry
// is returned without touching the context.
func (s *Service) GetInstrumentationTypeRegistry(contextID int64) (TypeRegistry, error) {
	core := s.coreRegistry()
	if !s.generateWithoutUpgrades && core.IsEmpty() {
		return EmptyRegistry, nil
	}

	data, err := s.resolution(contextID)
	if err != nil {
		return nil, err
	}

	return data.registry(), nil
}

// resolutionData holds the lazily-derived state of one open context. The
// lazy values compute once and are shared by all callers; the per-file hash
// cache may race on first insertion for the same key, which is harmless
// because the computation is pure.
type resolutionData struct {
	service *Service

	mu                sync.Mutex
	analysisDirs      []string
	originalClasspath []string

	hashCache sync.Map // file path -> hash ("" when the file is missing)

	registry       func() TypeRegistry
	hashToOriginal func() map[string]string
}

func newResolutionData(s *Service) *resolutionData {
	data := &resolutionData{service: s}

	data.registry = sync.OnceValue(func() TypeRegistry {
		direct := data.readDirectSuperTypes()
		return NewTypeRegistry(direct, s.coreRegistry())
	})

	data.hashToOriginal = sync.OnceValue(func() map[string]string {
		files := data.getOriginalClasspath()
		originals := make(map[string]string, len(files))

		for _, file := range files {
			hash, err := data.artifactHash(file)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to hash %s: %v\n", file, err)
				continue
			}

			if hash != "" {
				originals[hash] = file
			}
		}

		return originals
	})

	return data
}

func (d *resolutionData) setAnalysisDirs(dirs []string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.analysisDirs = append([]string(nil), dirs...)
}

func (d *resolutionData) setOriginalClasspath(files []string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.originalClasspath = append([]string(nil), files...)
}

func (d *resolutionData) getAnalysisDirs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.analysisDirs
}

func (d *resolutionData) getOriginalClasspath() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.originalClasspath
}

func (d *resolutionData) artifactHash(file string) (string, error) {
	if cached, ok := d.hashCache.Load(file); ok {
		return cached.(string), nil
	}

	snap, err := d.service.snapshotter.Snapshot(file)
	if err != nil {
		return "", err
	}

	hash := ""
	if snap.Type != snapshot.Missing {
		inGlobalCache := d.service.locations.IsInsideGlobalCache(file)
		hash = CombineArtifactHash(snap.Hash, filepath.Base(file), inGlobalCache)
	}

	d.hashCache.Store(file, hash)

	return hash, nil
}

// readDirectSuperTypes merges the super-type maps of every analysis output
// directory, uniting the sets when the same class was seen in several
// artifacts.
func (d *resolutionData) readDirectSuperTypes() map[string][]string {
	var maps []map[string][]string

	for _, dir := range d.getAnalysisDirs() {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}

		file := filepath.Join(dir, analysis.SuperTypesFileName)
		if _, err := os.Stat(file); os.IsNotExist(err) {
			continue
		}

		types, err := analysis.ReadTypesMap(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to read super types from %s: %v\n", file, err)
			continue
		}

		maps = append(maps, types)
	}

	return MergeTypeMaps(maps...)
}
