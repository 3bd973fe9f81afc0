package compressor

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
)

type Gzip struct{}

func NewGzip() *Gzip {
	return &Gzip{}
}

func (g *Gzip) Compress(sourcePath, destPath string) error {
	source, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer source.Close()

	dest, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create dest file: %w", err)
	}
	defer dest.Close()

	gz, err := gzip.NewWriterLevel(dest, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("failed to create gzip writer: %w", err)
	}

	if _, err := io.Copy(gz, source); err != nil {
		gz.Close()
		return fmt.Errorf("failed to compress: %w", err)
	}

	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to flush gzip stream: %w", err)
	}

	return nil
}
