package source

import "fmt"

// StorageError represents errors accessing a session artifact
type StorageError struct {
	Path string
	Op   string // "open", "read", "query"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError represents errors parsing a session artifact
type ParseError struct {
	Source string // adapter tag
	Key    string // file path or storage key
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
