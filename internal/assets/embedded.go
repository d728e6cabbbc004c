package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
)

//go:embed styles/*
var styles embed.FS

//go:embed templates/*
var templates embed.FS

// EmbeddedLoader loads assets compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads a CSS style from embedded assets by name.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return string(content), nil
}

// LoadTemplateSet loads templates/{name}/report.html and pages.html.
func (e *EmbeddedLoader) LoadTemplateSet(name string) (*TemplateSet, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	dir := path.Join("templates", name)
	report, reportErr := templates.ReadFile(path.Join(dir, reportTemplateFile))
	pages, pagesErr := templates.ReadFile(path.Join(dir, pagesTemplateFile))

	return assembleTemplateSet(name, report, reportErr, pages, pagesErr)
}

// assembleTemplateSet maps the two read results onto a TemplateSet or the
// matching sentinel error. Shared by the embedded and filesystem loaders.
func assembleTemplateSet(name string, report []byte, reportErr error, pages []byte, pagesErr error) (*TemplateSet, error) {
	reportMissing := errors.Is(reportErr, fs.ErrNotExist)
	pagesMissing := errors.Is(pagesErr, fs.ErrNotExist)

	if reportMissing && pagesMissing {
		return nil, fmt.Errorf("%w: %q", ErrTemplateSetNotFound, name)
	}
	if reportErr != nil && !reportMissing {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrAssetRead, reportTemplateFile, reportErr)
	}
	if pagesErr != nil && !pagesMissing {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrAssetRead, pagesTemplateFile, pagesErr)
	}
	if reportMissing {
		return nil, fmt.Errorf("%w: %q missing %s", ErrIncompleteTemplateSet, name, reportTemplateFile)
	}
	if pagesMissing {
		return nil, fmt.Errorf("%w: %q missing %s", ErrIncompleteTemplateSet, name, pagesTemplateFile)
	}

	return &TemplateSet{
		Name:   name,
		Report: string(report),
		Pages:  string(pages),
	}, nil
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
