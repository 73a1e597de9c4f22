package config

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"flexgrid/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates initialized empty reporter.
func (conf *ReporterConfig) Prepare() (*Report, error) {

	r := &Report{entries: make(map[string]entry)}

	if f, err := os.Create(conf.Destination); err == nil {
		r.file = f
	} else if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err == nil {
		r.file = f
	} else {
		return nil, fmt.Errorf("unable to create report: %w", err)
	}
	return r, nil
}

type entry struct {
	path  string
	stamp time.Time
	data  []byte
}

// Report accumulates information necessary to prepare full debug report.
// NOTE: presently not to be used concurrently!
type Report struct {
	// entries is a map of archive names to files or data blobs to be put in
	// the final archive later.
	entries map[string]entry
	file    *os.File
}

// Name returns name of underlying file.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// Store saves path to a file to be put in the final archive later.
func (r *Report) Store(name, path string) {
	if r == nil {
		// Ignore uninitialized cases to avoid checking in many places. This means no report has been requested.
		return
	}

	if old, exists := r.entries[name]; exists && old.path != path {
		// Somewhere I do not know what I am doing.
		panic(fmt.Sprintf("Attempt to overwrite file in the report for [%s]: was %s, now %s", name, old.path, path))
	}

	e := entry{path: path}
	if p, err := filepath.Abs(path); err == nil {
		e.path = p
	}
	r.entries[name] = e
}

// StoreData saves binary data to be put in the final archive later as a file under requested name.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		// Ignore uninitialized cases to avoid checking in many places. This means no report has been requested.
		return
	}

	if _, exists := r.entries[name]; exists {
		// Somewhere I do not know what I am doing.
		panic(fmt.Sprintf("Attempt to overwrite data in the report for [%s]", name))
	}

	r.entries[name] = entry{data: data, stamp: time.Now()}
}

// Close finalizes debug report.
func (r *Report) Close() error {
	if r == nil {
		// Ignore uninitialized cases to avoid checking in many places. This means no report has been requested.
		return nil
	}
	if r.file == nil {
		return nil
	}
	defer r.file.Close()
	return r.finalize()
}

// finalize writes accumulated entries into the report archive in stable name
// order.
func (r *Report) finalize() error {
	w := zip.NewWriter(r.file)

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		e := r.entries[name]
		if e.data != nil {
			h := &zip.FileHeader{Name: name, Method: zip.Deflate, Modified: e.stamp}
			f, err := w.CreateHeader(h)
			if err != nil {
				return fmt.Errorf("unable to create report entry [%s]: %w", name, err)
			}
			if _, err := f.Write(e.data); err != nil {
				return fmt.Errorf("unable to write report entry [%s]: %w", name, err)
			}
			continue
		}

		src, err := os.Open(e.path)
		if err != nil {
			// file may be legitimately gone (temp log), note and continue
			continue
		}
		fi, err := src.Stat()
		if err != nil || fi.IsDir() {
			src.Close()
			continue
		}
		h := &zip.FileHeader{Name: name, Method: zip.Deflate, Modified: fi.ModTime()}
		f, err := w.CreateHeader(h)
		if err != nil {
			src.Close()
			return fmt.Errorf("unable to create report entry [%s]: %w", name, err)
		}
		if _, err := io.Copy(f, src); err != nil {
			src.Close()
			return fmt.Errorf("unable to write report entry [%s]: %w", name, err)
		}
		src.Close()
	}
	return w.Close()
}
