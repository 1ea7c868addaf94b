package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// InMemory reports whether the database lives only in memory.
func (c SQLiteConfig) InMemory() bool {
	return c.Path == ":memory:" || strings.HasPrefix(c.Path, "file::memory:")
}

// PrepareDir creates the directory holding the database file.
func (c SQLiteConfig) PrepareDir() error {
	if c.InMemory() {
		return nil
	}

	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	return nil
}
