package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// seedFile is the YAML seed catalog format, an app-facing alternative to the
// export CSV. Availability here is already boolean.
type seedFile struct {
	Items []seedItem `yaml:"items"`
}

type seedItem struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Creator     string `yaml:"creator"`
	Publisher   string `yaml:"publisher"`
	Published   string `yaml:"published"`
	Description string `yaml:"description"`
	Partition   string `yaml:"partition"`
	Library     bool   `yaml:"library"`
	Ebook       bool   `yaml:"ebook"`
}

// LoadYAML reads a YAML seed catalog and returns the parsed items.
func LoadYAML(filePath string) ([]Item, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	items := make([]Item, 0, len(seed.Items))
	for _, s := range seed.Items {
		if strings.TrimSpace(s.ID) == "" {
			return nil, fmt.Errorf("seed item %q has no id", s.Title)
		}
		partition, err := ParsePartition(s.Partition)
		if err != nil {
			return nil, fmt.Errorf("seed item %q: %w", s.ID, err)
		}

		items = append(items, Item{
			ID:              strings.TrimSpace(s.ID),
			Title:           strings.TrimSpace(s.Title),
			Creator:         strings.TrimSpace(s.Creator),
			Publisher:       strings.TrimSpace(s.Publisher),
			PublishedDate:   strings.TrimSpace(s.Published),
			DescriptiveText: strings.TrimSpace(s.Description),
			Partition:       partition,
			Availability: Availability{
				Library: s.Library,
				Ebook:   s.Ebook,
			},
		})
	}

	return items, nil
}
