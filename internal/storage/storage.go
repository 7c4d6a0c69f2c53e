package storage

import "io"

// Storage abstracts where generated media payloads and backup documents
// live. Keys are slash-separated paths like "media/<uuid>.png".
type Storage interface {
	Writer(key string) (io.WriteCloser, error)
	Reader(key string) (io.ReadCloser, error)
	Exists(key string) (bool, error)
	Delete(key string) error
}
