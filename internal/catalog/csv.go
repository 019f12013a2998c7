package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Export CSV column layout. Availability columns use the upstream Yes/No
// encoding; decodeYesNo normalizes them during parsing.
const (
	colID = iota
	colTitle
	colCreator
	colPublisher
	colPublished
	colDescription
	colShelf
	colLibrary
	colEbook
	exportColumns
)

// LoadCSV reads a backlog export CSV and returns the parsed items. Invalid
// records are skipped with a warning rather than aborting the whole import.
func LoadCSV(filePath string) ([]Item, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var items []Item
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("Error reading record", "error", err)
			continue
		}

		item, err := parseExportRecord(record)
		if err != nil {
			slog.Warn("Skipping invalid record", "error", err)
			continue
		}

		items = append(items, item)
	}

	slog.Info("Loaded backlog export", "file", filePath, "items", len(items))
	return items, nil
}

func parseExportRecord(record []string) (Item, error) {
	if len(record) < exportColumns {
		return Item{}, fmt.Errorf("record has %d columns, want at least %d", len(record), exportColumns)
	}

	id := strings.TrimSpace(record[colID])
	if id == "" {
		return Item{}, fmt.Errorf("record %q has no id", record[colTitle])
	}

	partition, err := shelfToPartition(record[colShelf])
	if err != nil {
		return Item{}, fmt.Errorf("record %q: %w", id, err)
	}

	return Item{
		ID:              id,
		Title:           strings.TrimSpace(record[colTitle]),
		Creator:         strings.TrimSpace(record[colCreator]),
		Publisher:       strings.TrimSpace(record[colPublisher]),
		PublishedDate:   strings.TrimSpace(record[colPublished]),
		DescriptiveText: strings.TrimSpace(record[colDescription]),
		Partition:       partition,
		Availability: Availability{
			Library: decodeYesNo(record[colLibrary]),
			Ebook:   decodeYesNo(record[colEbook]),
		},
	}, nil
}

// shelfToPartition maps export shelf names onto backlog partitions.
func shelfToPartition(shelf string) (Partition, error) {
	switch strings.ToLower(strings.TrimSpace(shelf)) {
	case "to-read", "want-to-read":
		return PartitionWantToRead, nil
	case "owned", "owned-unread":
		return PartitionOwned, nil
	default:
		return "", fmt.Errorf("unknown shelf %q", shelf)
	}
}
