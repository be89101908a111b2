// Package surveyfile reads survey batches from YAML or Excel workbooks.
package surveyfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/samirrijal/rrlprofile/internal/adapters/xlsx"
	"github.com/samirrijal/rrlprofile/internal/core/domain"
	"github.com/samirrijal/rrlprofile/internal/workflows"
)

type document struct {
	Name  string    `yaml:"name"`
	Links []linkDoc `yaml:"links"`
}

type linkDoc struct {
	ID                  string `yaml:"id"`
	domain.ProfileInput `yaml:",inline"`
}

// Load reads a survey from path. The format follows the extension: .xlsx
// for a workbook with one link per row, .yaml or .yml otherwise. A survey
// without a name is named after the file. Omitted kFactor and stepMeters
// take defaults.
func Load(path string, defaults domain.RequestDefaults) (workflows.SurveyInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return workflows.SurveyInput{}, err
	}
	defer f.Close()

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var input workflows.SurveyInput
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		links, err := xlsx.ReadLinks(f, defaults)
		if err != nil {
			return input, fmt.Errorf("%s: %w", path, err)
		}
		input = workflows.SurveyInput{Name: base, Links: links}
	case ".yaml", ".yml":
		input, err = DecodeYAML(f, defaults)
		if err != nil {
			return input, fmt.Errorf("%s: %w", path, err)
		}
		if input.Name == "" {
			input.Name = base
		}
	default:
		return input, fmt.Errorf("%s: unsupported survey format, use .yaml or .xlsx", path)
	}
	return input, nil
}

// DecodeYAML parses a survey document. Links without an id are numbered
// from 1 in file order; duplicate ids are rejected. Every link must carry
// both endpoints, both antenna heights and the frequency.
func DecodeYAML(r io.Reader, defaults domain.RequestDefaults) (workflows.SurveyInput, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return workflows.SurveyInput{}, fmt.Errorf("parse survey: %w", err)
	}
	if len(doc.Links) == 0 {
		return workflows.SurveyInput{}, fmt.Errorf("survey has no links")
	}

	links := make([]domain.LinkCandidate, 0, len(doc.Links))
	seen := make(map[string]bool, len(doc.Links))
	for i, l := range doc.Links {
		id := l.ID
		if id == "" {
			id = fmt.Sprintf("link-%d", i+1)
		}
		if seen[id] {
			return workflows.SurveyInput{}, fmt.Errorf("duplicate link id %q", id)
		}
		seen[id] = true

		req, err := l.Resolve(defaults)
		if err != nil {
			return workflows.SurveyInput{}, fmt.Errorf("link %s: %w", id, err)
		}
		links = append(links, domain.LinkCandidate{ID: id, Request: req})
	}
	return workflows.SurveyInput{Name: doc.Name, Links: links}, nil
}
