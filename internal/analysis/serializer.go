package analysis

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// WriteMetadata writes the artifact metadata properties file.
func WriteMetadata(path string, metadata ArtifactMetadata) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s=%s\n", nameProperty, metadata.Name)
	fmt.Fprintf(&sb, "%s=%s\n", hashProperty, metadata.Hash)

	return writeFile(path, sb.String())
}

// ReadMetadata reads an artifact metadata properties file.
func ReadMetadata(path string) (ArtifactMetadata, error) {
	properties, err := readProperties(path)
	if err != nil {
		return ArtifactMetadata{}, err
	}

	return ArtifactMetadata{
		Name: properties[nameProperty],
		Hash: properties[hashProperty],
	}, nil
}

// WriteTypesMap writes a super-types properties file: one line per class,
// className=type1,type2,... with classes and types sorted.
func WriteTypesMap(path string, types map[string][]string) error {
	classes := make([]string, 0, len(types))
	for class := range types {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	var sb strings.Builder
	for _, class := range classes {
		superTypes := make([]string, len(types[class]))
		copy(superTypes, types[class])
		sort.Strings(superTypes)

		fmt.Fprintf(&sb, "%s=%s\n", class, strings.Join(superTypes, ","))
	}

	return writeFile(path, sb.String())
}

// ReadTypesMap reads a super-types properties file.
func ReadTypesMap(path string) (map[string][]string, error) {
	properties, err := readProperties(path)
	if err != nil {
		return nil, err
	}

	types := make(map[string][]string, len(properties))
	for class, value := range properties {
		if value == "" {
			continue
		}

		types[class] = strings.Split(value, ",")
	}

	return types, nil
}

// WriteTypes writes a plain-text type list, one name per line, sorted.
func WriteTypes(path string, types []string) error {
	sorted := make([]string, len(types))
	copy(sorted, types)
	sort.Strings(sorted)

	var sb strings.Builder
	for _, name := range sorted {
		sb.WriteString(name)
		sb.WriteByte('\n')
	}

	return writeFile(path, sb.String())
}

// ReadTypes reads a plain-text type list.
func ReadTypes(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var types []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			types = append(types, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return types, nil
}

func readProperties(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	properties := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("malformed line in %s: %q", path, line)
		}

		properties[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return properties, nil
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
