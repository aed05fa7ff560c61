package domain

import "time"

// BackstopTTL is the hard ceiling on a record's lifetime. A record is
// removed this long after creation even if the caller supplied a later
// expiry timestamp.
const BackstopTTL = 24 * time.Hour

type Image struct {
	Id            string
	Data          string
	Message       string
	CreatedAt     time.Time
	ExpiresAt     time.Time
	ViewCount     uint64
	AllowDownload bool
}

// ImageMetadata is the payload-free projection returned by the recent list.
type ImageMetadata struct {
	Id            string
	CreatedAt     time.Time
	ExpiresAt     time.Time
	ViewCount     uint64
	AllowDownload bool
}

// ImageCreationData carries caller input for a new record.
// CreatedAt and ViewCount are assigned by the store.
type ImageCreationData struct {
	Id            string
	Data          string
	Message       string
	ExpiresAt     time.Time
	AllowDownload bool
}

// Expired reports whether either expiry condition has triggered.
// Liveness is always derived from the clock, never persisted.
func (i *Image) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt) || now.After(i.CreatedAt.Add(BackstopTTL))
}

func (i *Image) Live(now time.Time) bool {
	return !i.Expired(now)
}
