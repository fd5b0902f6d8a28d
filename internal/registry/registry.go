// Package registry manages the repository registry at ~/.mgit/registry/registry.json
//
// A registry is built in one registration pass ([Create] followed by one or
// more [Registry.Register] calls and [Registry.Save]) and is read-only
// afterwards. Every record gets a small integer ID which, together with the
// directory name, is how users refer to repositories on the command line.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/raphi011/mgit/internal/git"
	"github.com/raphi011/mgit/internal/storage"
)

// FileName is the registry document inside the registry directory.
const FileName = "registry.json"

// Lock takes the writer lock for the registry in dir. Registration and
// cleanup hold it so concurrent runs cannot interleave.
func Lock(dir string) (*storage.FileLock, error) {
	l := storage.NewFileLock(filepath.Clean(dir) + ".lock")
	if err := l.Lock(); err != nil {
		return nil, fmt.Errorf("lock registry: %w", err)
	}
	return l, nil
}

var (
	// ErrNotInitialized is returned when no registration pass has been run.
	ErrNotInitialized = errors.New("registry not initialized")
	// ErrUnknownID is returned for a numeric token that matches no record.
	ErrUnknownID = errors.New("unknown repository id")
	// ErrUnknownName is returned for a name that matches no record.
	ErrUnknownName = errors.New("unknown repository name")
	// ErrAmbiguousName is returned when several records share the requested name.
	ErrAmbiguousName = errors.New("ambiguous repository name")
)

// LookupError describes a failed [Registry.Get].
type LookupError struct {
	Token string
	IDs   []int // candidates for ErrAmbiguousName
	Err   error
}

func (e *LookupError) Error() string {
	switch {
	case errors.Is(e.Err, ErrUnknownID):
		return fmt.Sprintf("no repository with id %s", e.Token)
	case errors.Is(e.Err, ErrAmbiguousName):
		ids := make([]string, len(e.IDs))
		for i, id := range e.IDs {
			ids[i] = strconv.Itoa(id)
		}
		return fmt.Sprintf("name %q matches several repositories (ids %s): use the id", e.Token, strings.Join(ids, ", "))
	default:
		return fmt.Sprintf("no repository named %q", e.Token)
	}
}

func (e *LookupError) Unwrap() error { return e.Err }

// Record is one registered repository
type Record struct {
	ID   int    `json:"id"`
	Name string `json:"name"` // last path segment at registration time
	Path string `json:"path"` // absolute path to the repository root
}

func (r Record) String() string {
	return fmt.Sprintf("%d: %s (%s)", r.ID, r.Name, r.Path)
}

// Registry holds all registered repos plus setup-time configuration
type Registry struct {
	Records   []Record  `json:"-"`
	GitPath   string    `json:"-"` // empty: use git from PATH
	ReportDir string    `json:"-"`
	CreatedAt time.Time `json:"-"`

	dir string
}

// document is the on-disk shape: an id -> name index, a name -> paths
// table and the scalar settings recorded at setup.
type document struct {
	Index     map[string]string   `json:"index"`
	Repos     map[string][]string `json:"repos"`
	GitPath   string              `json:"git_path"`
	ReportDir string              `json:"report_dir"`
	CreatedAt time.Time           `json:"created_at"`
}

// Create starts a new registry generation in dir. Anything previously
// stored there is discarded. existed reports whether an old store was replaced.
func Create(dir string) (reg *Registry, existed bool, err error) {
	existed, err = storage.Recreate(dir)
	if err != nil {
		return nil, existed, fmt.Errorf("create registry: %w", err)
	}
	return &Registry{dir: dir, CreatedAt: time.Now()}, existed, nil
}

// Exists reports whether a registry has been saved in dir.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, FileName))
	return err == nil
}

// Open loads the registry stored in dir.
func Open(dir string) (*Registry, error) {
	var doc document
	if err := storage.LoadJSON(filepath.Join(dir, FileName), &doc); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotInitialized
		}
		return nil, fmt.Errorf("read registry: %w", err)
	}

	reg := &Registry{
		GitPath:   doc.GitPath,
		ReportDir: doc.ReportDir,
		CreatedAt: doc.CreatedAt,
		dir:       dir,
	}

	// Several ids may share one name; paths under that name are stored in
	// id order, so the n-th occurrence of a name takes the n-th path.
	used := make(map[string]int)
	ids := make([]int, 0, len(doc.Index))
	for key := range doc.Index {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("parse registry: invalid id %q", key)
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		name := doc.Index[strconv.Itoa(id)]
		paths := doc.Repos[name]
		n := used[name]
		if n >= len(paths) {
			return nil, fmt.Errorf("parse registry: id %d refers to %q without a path", id, name)
		}
		used[name] = n + 1
		reg.Records = append(reg.Records, Record{ID: id, Name: name, Path: paths[n]})
	}

	return reg, nil
}

// Dir returns the directory backing the registry.
func (r *Registry) Dir() string {
	return r.dir
}

// Save writes the registry atomically.
func (r *Registry) Save() error {
	doc := document{
		Index:     make(map[string]string, len(r.Records)),
		Repos:     make(map[string][]string),
		GitPath:   r.GitPath,
		ReportDir: r.ReportDir,
		CreatedAt: r.CreatedAt,
	}
	for _, rec := range r.List() {
		doc.Index[strconv.Itoa(rec.ID)] = rec.Name
		doc.Repos[rec.Name] = append(doc.Repos[rec.Name], rec.Path)
	}

	if err := storage.SaveJSON(filepath.Join(r.dir, FileName), doc); err != nil {
		return fmt.Errorf("save registry: %w", err)
	}
	return nil
}

// Register appends repositories found at paths. IDs continue after the
// current maximum, so records registered earlier keep their IDs. Paths that
// are already registered or are not git repositories are skipped.
// Returns the newly created records.
func (r *Registry) Register(paths ...string) []Record {
	next := 1
	known := make(map[string]bool, len(r.Records))
	for _, rec := range r.Records {
		if rec.ID >= next {
			next = rec.ID + 1
		}
		known[rec.Path] = true
	}

	var added []Record
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		if known[abs] || !git.IsRepo(abs) {
			continue
		}
		known[abs] = true

		rec := Record{ID: next, Name: filepath.Base(abs), Path: abs}
		next++
		r.Records = append(r.Records, rec)
		added = append(added, rec)
	}
	return added
}

// Get resolves an id or a name. Tokens that parse as integers are always
// treated as ids.
func (r *Registry) Get(token string) (Record, error) {
	token = strings.TrimSpace(token)

	if id, err := strconv.Atoi(token); err == nil {
		for _, rec := range r.Records {
			if rec.ID == id {
				return rec, nil
			}
		}
		return Record{}, &LookupError{Token: token, Err: ErrUnknownID}
	}

	var matches []Record
	for _, rec := range r.Records {
		if rec.Name == token {
			matches = append(matches, rec)
		}
	}
	switch len(matches) {
	case 0:
		return Record{}, &LookupError{Token: token, Err: ErrUnknownName}
	case 1:
		return matches[0], nil
	default:
		ids := make([]int, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		slices.Sort(ids)
		return Record{}, &LookupError{Token: token, IDs: ids, Err: ErrAmbiguousName}
	}
}

// List returns all records ordered by ID.
func (r *Registry) List() []Record {
	out := slices.Clone(r.Records)
	slices.SortFunc(out, func(a, b Record) int { return a.ID - b.ID })
	return out
}

// Names returns the sorted, de-duplicated repository names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Records))
	for _, rec := range r.Records {
		names = append(names, rec.Name)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// Clear discards the registry stored in dir by moving it into trashDir.
// Returns the location the registry was moved to.
func Clear(dir, trashDir string) (string, error) {
	if !Exists(dir) {
		if _, err := os.Stat(dir); err != nil {
			return "", ErrNotInitialized
		}
	}
	dest, err := storage.MoveToTrash(dir, trashDir, time.Now())
	if err != nil {
		return "", fmt.Errorf("clear registry: %w", err)
	}
	return dest, nil
}
