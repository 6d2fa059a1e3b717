package storage

import (
	"time"
)

// SchemaVersion is the layout version of the BBolt file.
const SchemaVersion = "1"

// Metadata is what the lock screen may show without a password.
type Metadata struct {
	Address  string    `json:"address"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
}
