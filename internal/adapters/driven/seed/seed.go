// Package seed loads web source seed files: YAML group files and plain URL
// lists. Seeding registers the listed URLs as pending web sources; scraping
// them is the external pipeline's job.
package seed

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/docent-labs/docent-cli/internal/core/domain"
)

// Entry is one URL to register, with the refresh policy and content tag its
// seed group assigned.
type Entry struct {
	URL         string
	Frequency   domain.ScrapeFrequency
	ContentType string
}

// group is one named URL block in a YAML seed file.
type group struct {
	Name        string   `yaml:"name"`
	ContentType string   `yaml:"content_type"`
	Frequency   string   `yaml:"frequency"`
	URLs        []string `yaml:"urls"`
}

// seedFile is the root of a YAML seed file.
type seedFile struct {
	Groups []group `yaml:"groups"`
}

// LoadYAML reads a YAML seed file and flattens its groups into entries.
// Group frequency strings go through the domain parser, so an unrecognised
// value fails the load rather than silently defaulting. A group without a
// frequency defaults to monthly; one without a content type inherits the
// group name.
func LoadYAML(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	var entries []Entry
	for _, g := range file.Groups {
		frequency := domain.FrequencyMonthly
		if g.Frequency != "" {
			frequency, err = domain.ParseScrapeFrequency(g.Frequency)
			if err != nil {
				return nil, fmt.Errorf("group %q: %w", g.Name, err)
			}
		}

		contentType := g.ContentType
		if contentType == "" {
			contentType = g.Name
		}
		if contentType == "" {
			contentType = "unknown"
		}

		for _, url := range g.URLs {
			url = strings.TrimSpace(url)
			if url == "" {
				continue
			}
			entries = append(entries, Entry{
				URL:         url,
				Frequency:   frequency,
				ContentType: contentType,
			})
		}
	}
	return entries, nil
}

// LoadURLList reads a plain URL list: one URL per line, blank lines and
// #-comments skipped. Entries default to the monthly policy with an unknown
// content tag.
func LoadURLList(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, Entry{
			URL:         line,
			Frequency:   domain.FrequencyMonthly,
			ContentType: "unknown",
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return entries, nil
}

// Options converts an entry into the registration options for the source
// service.
func (e Entry) Options() []domain.WebSourceOption {
	return []domain.WebSourceOption{
		domain.WithSourceFrequency(e.Frequency),
		domain.WithSourceContentType(e.ContentType),
	}
}
