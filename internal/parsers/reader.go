package parsers

import (
	"os"
	"strings"
	"unicode/utf8"

	"golang-sales-analytics-service/pkg/errors"
	"golang-sales-analytics-service/pkg/logger"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// FileReader reads sales data files, falling back through a fixed list of
// encodings (UTF-8, Latin-1, Windows-1252) until one decodes the whole
// file. The first successful decode wins.
type FileReader struct {
	logger logger.Logger
}

// NewFileReader creates a new FileReader
func NewFileReader() *FileReader {
	return &FileReader{
		logger: logger.GetGlobalLogger().WithComponent("file_reader"),
	}
}

type candidateEncoding struct {
	name    string
	decoder *encoding.Decoder
}

func candidateEncodings() []candidateEncoding {
	return []candidateEncoding{
		{"utf-8", unicode.UTF8.NewDecoder()},
		{"latin-1", charmap.ISO8859_1.NewDecoder()},
		{"windows-1252", charmap.Windows1252.NewDecoder()},
	}
}

// ReadLines reads the file at path and returns its data lines: the header
// line is discarded and blank lines are removed. Returned lines are
// whitespace-trimmed and preserve file order.
func (fr *FileReader) ReadLines(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		fr.logger.WithError(err).WithField("file_path", path).Error("Failed to read sales data file")
		if os.IsNotExist(err) {
			return nil, errors.FileError(errors.CodeFileNotFound, path, err)
		}
		if os.IsPermission(err) {
			return nil, errors.FileError(errors.CodeFilePermission, path, err)
		}
		return nil, errors.FileError(errors.CodeDirectoryError, path, err)
	}

	text, encodingName, err := decodeWithFallback(raw)
	if err != nil {
		fr.logger.WithError(err).WithField("file_path", path).Error("All candidate encodings failed")
		return nil, errors.FileError(errors.CodeEncodingError, path, err)
	}

	lines := splitDataLines(text)

	fr.logger.WithFields(logger.Fields{
		"file_path": path,
		"encoding":  encodingName,
		"lines":     len(lines),
	}).Info("Read sales data file")

	return lines, nil
}

// decodeWithFallback tries each candidate encoding in order and returns
// the first full decode. UTF-8 is verified strictly; the single-byte
// charmaps decode any byte sequence, so in practice latin-1 is the
// terminal fallback.
func decodeWithFallback(raw []byte) (string, string, error) {
	var lastErr error
	for _, candidate := range candidateEncodings() {
		if candidate.name == "utf-8" {
			if !utf8.Valid(raw) {
				continue
			}
			return string(raw), candidate.name, nil
		}

		decoded, err := candidate.decoder.Bytes(raw)
		if err != nil {
			lastErr = err
			continue
		}
		return string(decoded), candidate.name, nil
	}
	return "", "", lastErr
}

// splitDataLines drops the header line and every blank line, trimming
// whitespace from the survivors.
func splitDataLines(text string) []string {
	rawLines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var lines []string
	for i, line := range rawLines {
		if i == 0 {
			continue // header
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lines = append(lines, trimmed)
	}
	return lines
}
