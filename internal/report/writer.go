package report

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/crosscov/cli/internal/coverage"
	oerrors "github.com/crosscov/cli/internal/errors"
	"github.com/crosscov/cli/internal/output"
)

// RawPrefix is prepended to the output file name while it is reformatted.
const RawPrefix = "raw."

// RawPath returns the path the raw report is moved to during Reformat.
func RawPath(path string) string {
	return filepath.Join(filepath.Dir(path), RawPrefix+filepath.Base(path))
}

// WriteRaw creates the parent directories of path and runs build against a
// temp file in the same directory. The temp file replaces path only when
// build succeeds; otherwise it is removed and path is left untouched.
func WriteRaw(path string, build func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return outputDirError(dir, err)
		}
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := atomicWrite(path, build); err != nil {
		return err
	}
	output.Debug("raw report written", "path", path)
	return nil
}

// Reformat pretty-prints the report at path with a 2-space indent, the XML
// declaration for encodingName and the JaCoCo DOCTYPE.
//
// The raw report is first moved to RawPath(path). On success the
// reformatted report is at path and the raw copy is returned for Cleanup.
// On failure the raw copy stays on disk and path does not exist.
//
// Entities are never expanded and no DTD is loaded.
func Reformat(path, encodingName string) (string, error) {
	if encodingName == "" {
		encodingName = coverage.DefaultEncoding
	}
	enc, err := coverage.LookupEncoding(encodingName)
	if err != nil {
		return "", oerrors.NewEncodingError(encodingName, err)
	}

	rawPath := RawPath(path)
	if err := os.Rename(path, rawPath); err != nil {
		return "", fmt.Errorf("moving raw report aside: %w", err)
	}

	src := etree.NewDocument()
	src.ReadSettings.CharsetReader = charsetReader
	if err := src.ReadFromFile(rawPath); err != nil {
		return rawPath, fmt.Errorf("parsing raw report %s: %w", rawPath, err)
	}
	root := src.Root()
	if root == nil {
		return rawPath, fmt.Errorf("parsing raw report %s: no root element", rawPath)
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", fmt.Sprintf(`version="1.0" encoding="%s" standalone="yes"`, encodingName))
	doc.CreateDirective(coverage.Doctype())
	doc.SetRoot(root.Copy())
	doc.Indent(2)

	data, err := doc.WriteToBytes()
	if err != nil {
		return rawPath, fmt.Errorf("serializing report: %w", err)
	}
	if !coverage.IsUTF8(encodingName) {
		data, err = enc.NewEncoder().Bytes(data)
		if err != nil {
			return rawPath, oerrors.NewEncodingError(encodingName,
				fmt.Errorf("encoding report as %s: %w", encodingName, err))
		}
	}

	if err := atomicWrite(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}); err != nil {
		return rawPath, fmt.Errorf("writing reformatted report: %w", err)
	}

	output.Debug("report reformatted", "path", path, "encoding", encodingName)
	return rawPath, nil
}

// Cleanup removes the raw copy left by Reformat.
func Cleanup(rawPath string) error {
	if err := os.Remove(rawPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing raw report: %w", err)
	}
	return nil
}

// charsetReader decodes a raw report declared in a charset other than
// UTF-8. IANA names decode strictly; other labels follow the WHATWG rules.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	if enc, err := ianaindex.IANA.Encoding(label); err == nil && enc != nil {
		return enc.NewDecoder().Reader(input), nil
	}
	return charset.NewReaderLabel(label, input)
}

func outputDirError(dir string, err error) error {
	return oerrors.NewPermissionError(err.Error(), map[string]string{"path": dir},
		"Choose a writable --output location or fix the directory permissions")
}

// atomicWrite writes through a temp file next to path and renames it into
// place. The temp file never outlives the call.
func atomicWrite(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return outputDirError(dir, err)
		}
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
