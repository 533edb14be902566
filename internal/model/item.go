package model

// Item is anything a polled feed can hold. Key must be unique within a feed
// and stable across polls (server assigned).
type Item interface {
	Key() int64
}
