package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata describes where a piece of ingested text came from.
type Metadata struct {
	URL        string `json:"url,omitempty"`
	Source     string `json:"source,omitempty"`     // Original filename for uploads
	Timestamp  string `json:"timestamp"`            // RFC3339 format
	Hash       string `json:"hash"`                 // SHA256 hex digest
	Site       string `json:"site,omitempty"`       // Job board the scraper matched
	Strategy   string `json:"strategy,omitempty"`   // Extraction strategy that produced the text
	Diagnostic string `json:"diagnostic,omitempty"` // Scrape diagnostic code
	Length     int    `json:"length"`
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(content string, url string) *Metadata {
	return &Metadata{
		URL:       url,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
		Length:    len([]rune(content)),
	}
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
