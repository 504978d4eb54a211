// Package transform runs the instrumentation analysis over classpath
// artifacts. Each artifact yields four outputs: an instrumentation-classpath
// marker, an artifact metadata record, a super-types map and a dependency
// set. The classpath-level pipeline feeds those outputs to the context-scoped
// cache service and assembles the marker-encoded result sequence.
package transform

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Norgate-AV/icp/internal/analysis"
	"github.com/Norgate-AV/icp/internal/cache"
	"github.com/Norgate-AV/icp/internal/classpath"
	"github.com/Norgate-AV/icp/internal/utils"
)

// OutputFileNames lists the files of one analysis output directory.
var OutputFileNames = []string{
	classpath.InstrumentationClasspathMarkerFileName,
	analysis.MetadataFileName,
	analysis.SuperTypesFileName,
	analysis.DependenciesFileName,
}

// AnalysisTransform analyzes one artifact: it discovers the direct
// super-types of every class in the artifact and all classes the artifact
// depends on.
type AnalysisTransform struct {
	walker    analysis.Walker
	service   *cache.Service
	contextID int64
}

// NewAnalysisTransform creates a transform bound to an open resolution
// context, which supplies the memoized artifact hashes.
func NewAnalysisTransform(walker analysis.Walker, service *cache.Service, contextID int64) *AnalysisTransform {
	return &AnalysisTransform{
		walker:    walker,
		service:   service,
		contextID: contextID,
	}
}

// Transform analyzes the artifact and writes the four outputs into
// outputDir. The outputs are written on every path: a missing artifact is a
// legitimate case (users can put arbitrary paths on a file classpath), and
// badly formatted jars on the build classpath degrade to empty metadata
// rather than failing the build.
func (t *AnalysisTransform) Transform(artifact, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if _, err := os.Stat(artifact); os.IsNotExist(err) {
		return t.writeOutputs(artifact, outputDir, nil, nil)
	}

	superTypes, dependencies, err := t.analyzeArtifact(artifact)
	if err != nil {
		// Badly formatted jars are tolerated, not fatal
		fmt.Fprintf(os.Stderr, "Warning: Failed to analyze %s: %v\n", artifact, err)
		return t.writeOutputs(artifact, outputDir, nil, nil)
	}

	return t.writeOutputs(artifact, outputDir, superTypes, dependencies)
}

func (t *AnalysisTransform) analyzeArtifact(artifact string) (map[string][]string, []string, error) {
	superTypes := make(map[string][]string)
	dependencies := make(map[string]struct{})

	err := t.walker.Visit(artifact, func(entry analysis.Entry) error {
		if version, ok := utils.ParseMultiReleaseVersion(entry.Name); ok && !analysis.IsSupportedRelease(version) {
			return nil
		}

		classFile, err := analysis.ParseClassFile(entry.Content)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", entry.Name, err)
		}

		className := classFile.Name

		classSuperTypes := acceptTypes(classFile.SuperTypes(), className)
		if len(classSuperTypes) > 0 {
			superTypes[className] = classSuperTypes
		}

		for _, dependency := range acceptTypes(classFile.Dependencies(), className) {
			dependencies[dependency] = struct{}{}
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	names := make([]string, 0, len(dependencies))
	for name := range dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	return superTypes, names, nil
}

// acceptTypes filters out java/lang built-ins and self-references and
// returns the remaining names sorted and de-duplicated.
func acceptTypes(types []string, self string) []string {
	set := make(map[string]struct{}, len(types))
	for _, name := range types {
		if name != "" && name != self && !strings.HasPrefix(name, "java/lang/") {
			set[name] = struct{}{}
		}
	}

	if len(set) == 0 {
		return nil
	}

	accepted := make([]string, 0, len(set))
	for name := range set {
		accepted = append(accepted, name)
	}
	sort.Strings(accepted)

	return accepted
}

func (t *AnalysisTransform) writeOutputs(artifact, outputDir string, superTypes map[string][]string, dependencies []string) error {
	marker := filepath.Join(outputDir, classpath.InstrumentationClasspathMarkerFileName)
	if err := os.WriteFile(marker, nil, 0o644); err != nil {
		return fmt.Errorf("failed to write classpath marker: %w", err)
	}

	metadata := analysis.ArtifactMetadata{
		Name: filepath.Base(artifact),
		Hash: t.artifactHash(artifact),
	}
	if err := analysis.WriteMetadata(filepath.Join(outputDir, analysis.MetadataFileName), metadata); err != nil {
		return err
	}

	if err := analysis.WriteTypesMap(filepath.Join(outputDir, analysis.SuperTypesFileName), superTypes); err != nil {
		return err
	}

	return analysis.WriteTypes(filepath.Join(outputDir, analysis.DependenciesFileName), dependencies)
}

func (t *AnalysisTransform) artifactHash(artifact string) string {
	hash, err := t.service.GetArtifactHash(t.contextID, artifact)
	if err != nil || hash == "" {
		return analysis.FileMissingHash
	}

	return hash
}
