package dictionary

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents different dictionary file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatText               // one word per line, tab separated fields
	FormatTSV                // same as text, explicit extension
	FormatCSV                // comma separated fields
)

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	Delimiter   string
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Dictionary",
		Extensions:  []string{".txt", ".dic", ""},
	},
	FormatTSV: {
		Format:      FormatTSV,
		Description: "Tab Separated Dictionary",
		Extensions:  []string{".tsv"},
		Delimiter:   "\t",
	},
	FormatCSV: {
		Format:      FormatCSV,
		Description: "Comma Separated Dictionary",
		Extensions:  []string{".csv"},
		Delimiter:   ",",
	},
}

// sniffSize is how much of a file is read to tell text from binary.
const sniffSize = 512

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "Unknown"
}

// DetectFileFormat picks the format from the file extension.
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, format := range []FileFormat{FormatText, FormatTSV, FormatCSV} {
		for _, e := range supportedFormats[format].Extensions {
			if e == ext {
				return format, nil
			}
		}
	}
	return FormatUnknown, fmt.Errorf("unsupported dictionary extension %q in %s", ext, filename)
}

// ValidateFileFormat checks that filename is a readable text file.
func ValidateFileFormat(filename string) error {
	info, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", filename)
	}

	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	head := make([]byte, sniffSize)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	if bytes.IndexByte(head[:n], 0) >= 0 {
		log.Debugf("NUL byte in the first %d bytes of %s", n, filename)
		return fmt.Errorf("%s looks like a binary file", filename)
	}
	return nil
}

// GetFormatInfo returns the metadata of format.
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, ok := supportedFormats[format]
	return info, ok
}

// DelimiterFor returns the field delimiter of filename, fallback for plain text.
func DelimiterFor(filename, fallback string) string {
	format, err := DetectFileFormat(filename)
	if err != nil {
		return fallback
	}
	if d := supportedFormats[format].Delimiter; d != "" {
		return d
	}
	return fallback
}
