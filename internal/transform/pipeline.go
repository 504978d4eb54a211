package transform

import (
	"fmt"

	"github.com/Norgate-AV/icp/internal/analysis"
	"github.com/Norgate-AV/icp/internal/cache"
	"github.com/Norgate-AV/icp/internal/classpath"
)

// Result is the outcome of one pipeline run over a classpath.
type Result struct {
	// ClassPath is the transformed classpath carrying the analyzed entries.
	ClassPath classpath.ClassPath

	// Encoded is the marker-encoded output sequence of the classpath.
	Encoded []string

	// OutputDirs holds one analysis output directory per classpath entry,
	// in classpath order.
	OutputDirs []string

	// Registry is the merged instrumentation type registry of the run.
	Registry cache.TypeRegistry

	// Analyzed and Reused count the artifacts that were freshly analyzed
	// versus served from the store.
	Analyzed int
	Reused   int
}

// Pipeline analyzes every artifact of a classpath inside one resolution
// context. Unchanged artifacts are served from the analysis-output store,
// keyed by their combined artifact hash.
type Pipeline struct {
	service *cache.Service
	store   *cache.Store
	walker  analysis.Walker
}

// NewPipeline creates a pipeline over the given service and store.
func NewPipeline(service *cache.Service, store *cache.Store, walker analysis.Walker) *Pipeline {
	return &Pipeline{
		service: service,
		store:   store,
		walker:  walker,
	}
}

// Run opens a resolution scope for contextID, analyzes the classpath files
// in order and registers the results with the cache service. The scope is
// closed before Run returns; the returned Result stays valid afterwards.
func (p *Pipeline) Run(contextID int64, files []string) (*Result, error) {
	scope, err := p.service.NewResolutionScope(contextID)
	if err != nil {
		return nil, err
	}
	defer scope.Close()

	scope.SetOriginalClasspath(files)

	transform := NewAnalysisTransform(p.walker, p.service, contextID)
	result := &Result{}

	builder := classpath.NewBuilderWithCapacity(len(files))
	for _, file := range files {
		outputDir, reused, err := p.analyze(transform, contextID, file)
		if err != nil {
			return nil, err
		}

		if reused {
			result.Reused++
		} else {
			result.Analyzed++
		}

		result.OutputDirs = append(result.OutputDirs, outputDir)
		builder.AddUntransformed(file)
	}

	scope.SetAnalysisResult(result.OutputDirs)

	registry, err := p.service.GetInstrumentationTypeRegistry(contextID)
	if err != nil {
		return nil, err
	}

	result.Registry = registry
	result.ClassPath = builder.Build()
	result.Encoded = classpath.ToInstrumentingTransformOutput(result.ClassPath)

	return result, nil
}

// analyze produces the analysis output directory for one artifact, reusing
// a stored result when the artifact hash is already known.
func (p *Pipeline) analyze(transform *AnalysisTransform, contextID int64, file string) (string, bool, error) {
	hash, err := p.service.GetArtifactHash(contextID, file)
	if err != nil {
		return "", false, fmt.Errorf("failed to hash %s: %w", file, err)
	}

	// Missing files hash to the empty string and are keyed by path so
	// two absent entries never share an output directory.
	storable := hash != ""
	if !storable {
		hash = cache.CombineArtifactHash(analysis.FileMissingHash, file, false)
	}

	if storable {
		entry, err := p.store.Get(hash)
		if err != nil {
			return "", false, fmt.Errorf("failed to look up analysis for %s: %w", file, err)
		}

		if entry != nil {
			return p.store.OutputDir(hash), true, nil
		}
	}

	outputDir := p.store.OutputDir(hash)
	if err := transform.Transform(file, outputDir); err != nil {
		return "", false, err
	}

	if storable {
		if err := p.store.Put(hash, file, OutputFileNames); err != nil {
			return "", false, err
		}
	}

	return outputDir, false, nil
}
