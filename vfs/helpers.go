package vfs

import (
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

func OpenFileAndGetReader(f File) (*io.SectionReader, error) {
	if err := f.Open(); err != nil {
		return nil, errors.Wrapf(err, "Cannot open file '%s'", f.Name())
	}
	r, err := f.Reader()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "Cannot get file '%s' reader", f.Name())
	}
	return r, nil
}

// DirectoryGetFile errors match os.ErrNotExist when name is missing.
func DirectoryGetFile(d Directory, name string) (File, error) {
	e, err := d.GetElement(name)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot open file '%s'", name)
	}
	if e.IsDirectory() {
		return nil, errors.Wrapf(os.ErrNotExist, "'%s' is directory, not a file", name)
	}
	return e.(File), nil
}

// ReadFile loads the whole file into memory.
func ReadFile(d Directory, name string) ([]byte, error) {
	f, err := DirectoryGetFile(d, name)
	if err != nil {
		return nil, err
	}
	r, err := OpenFileAndGetReader(f)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read file '%s'", name)
	}
	return data, nil
}

// ListFiles returns sorted names of plain files, optionally filtered by a
// case insensitive suffix.
func ListFiles(d Directory, suffix string) ([]string, error) {
	names, err := d.List()
	if err != nil {
		return nil, err
	}
	result := make([]string, 0, len(names))
	for _, name := range names {
		if suffix != "" && !strings.HasSuffix(strings.ToLower(name), strings.ToLower(suffix)) {
			continue
		}
		e, err := d.GetElement(name)
		if err != nil || e.IsDirectory() {
			continue
		}
		result = append(result, name)
	}
	sort.Strings(result)
	return result, nil
}
