package utils

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
)

// StdinPath names standard input wherever a source path is expected.
const StdinPath = "-"

func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}

	parentDir = filepath.Dir(fullPath)

	return fullPath, parentDir, nil
}

// OpenSource returns a reader over the program at path, or over stdin
// when path is StdinPath. The returned name is used in messages. Errors
// are those of os.ReadFile, which already name the file.
func OpenSource(path string, stdin io.Reader) (r io.Reader, name string, err error) {
	if path == StdinPath {
		return stdin, "<stdin>", nil
	}

	fullPath, _, err := GetPathInfo(path)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(data), fullPath, nil
}
