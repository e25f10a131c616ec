package svd

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const xmlDeclaration = `<?xml version="1.0" encoding="utf-8"?>` + "\n"

// Encode serializes a device tree as an indented SVD document.
func Encode(dev *Device) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xmlDeclaration)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(dev); err != nil {
		return nil, fmt.Errorf("svd: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("svd: encode: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Decode reads an SVD document produced by Encode.
func Decode(r io.Reader) (*Device, error) {
	var dev Device
	if err := xml.NewDecoder(r).Decode(&dev); err != nil {
		return nil, fmt.Errorf("svd: decode: %w", err)
	}
	return &dev, nil
}

// WriteFile writes data to path through a temporary file in the same
// directory, so path either keeps its old content or holds all of data.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("svd: create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("svd: write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("svd: chmod %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("svd: close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("svd: rename to %s: %w", path, err)
	}
	return nil
}
