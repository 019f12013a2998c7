package catalog

import (
	"fmt"
	"strings"
)

// Partition identifies which backlog pool an item belongs to. It is assigned
// at ingestion and immutable afterwards.
type Partition string

const (
	// PartitionWantToRead holds books the user wants to read but doesn't own.
	PartitionWantToRead Partition = "want-to-read"
	// PartitionOwned holds books the user owns but hasn't read yet.
	PartitionOwned Partition = "owned"
)

// Partitions lists all valid partitions in a stable order.
func Partitions() []Partition {
	return []Partition{PartitionWantToRead, PartitionOwned}
}

// ParsePartition converts a string tag to a Partition, accepting any case.
func ParsePartition(s string) (Partition, error) {
	switch Partition(strings.ToLower(strings.TrimSpace(s))) {
	case PartitionWantToRead:
		return PartitionWantToRead, nil
	case PartitionOwned:
		return PartitionOwned, nil
	default:
		return "", fmt.Errorf("unknown partition %q", s)
	}
}

// Availability holds per-collection availability flags. The storage layer
// encodes these as Yes/No strings; they are normalized to booleans before
// reaching any caller of this package.
type Availability struct {
	// Library is the primary collection (borrowable right now).
	Library bool `json:"library"`
	// Ebook is the secondary collection.
	Ebook bool `json:"ebook"`
}

// Item is one book in the backlog catalog.
type Item struct {
	// ID is an opaque unique string, typically the source URL.
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Creator       string       `json:"creator"`
	Publisher     string       `json:"publisher"`
	PublishedDate string       `json:"published_date"`
	Availability  Availability `json:"availability"`
	// DescriptiveText drives which similarity engine applies; may be empty.
	DescriptiveText string    `json:"descriptive_text,omitempty"`
	Partition       Partition `json:"partition"`
}

// HasText reports whether the item carries usable descriptive text.
func (i Item) HasText() bool {
	return strings.TrimSpace(i.DescriptiveText) != ""
}

// Document returns the text used to describe this item to a similarity
// engine: the descriptive text when present, otherwise "{title} by {creator}".
func (i Item) Document() string {
	if i.HasText() {
		return i.DescriptiveText
	}
	return fmt.Sprintf("%s by %s", i.Title, i.Creator)
}
