package guideline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/turtacn/protoscribe/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/protoscribe/pkg/errors"
	ptypes "github.com/turtacn/protoscribe/pkg/types/protocol"
)

// checklistFiles maps guideline names to the JSON file that overrides the
// built-in checklist when present in the registry directory.
var checklistFiles = map[ptypes.GuidelineName]string{
	ptypes.GuidelineCONSORT: "consort.json",
	ptypes.GuidelineSPIRIT:  "spirit.json",
}

// Registry serves guideline checklists. Checklists come from JSON files in a
// configured directory when present, otherwise from the built-in defaults.
// Reload is safe for concurrent readers.
type Registry struct {
	dir string
	log logging.Logger

	mu    sync.RWMutex
	lists map[ptypes.GuidelineName]*Checklist
}

// NewRegistry builds a registry rooted at dir and performs an initial load.
// An empty dir serves built-in defaults only.
func NewRegistry(dir string, log logging.Logger) *Registry {
	if log == nil {
		log = logging.NewNopLogger()
	}
	r := &Registry{
		dir:   dir,
		log:   log.Named("guidelines"),
		lists: make(map[ptypes.GuidelineName]*Checklist),
	}
	r.Reload()
	return r
}

// Get returns the checklist for a guideline name (case-insensitive).
func (r *Registry) Get(name ptypes.GuidelineName) (*Checklist, error) {
	key := ptypes.GuidelineName(strings.ToUpper(string(name)))
	r.mu.RLock()
	defer r.mu.RUnlock()
	cl, ok := r.lists[key]
	if !ok {
		return nil, errors.New(errors.ErrCodeGuidelineNotFound, "unknown guideline: "+string(name))
	}
	return cl, nil
}

// All returns every registered checklist, CONSORT first.
func (r *Registry) All() []*Checklist {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Checklist, 0, len(r.lists))
	for _, name := range []ptypes.GuidelineName{ptypes.GuidelineCONSORT, ptypes.GuidelineSPIRIT} {
		if cl, ok := r.lists[name]; ok {
			out = append(out, cl)
		}
	}
	return out
}

// Reload re-reads checklist files from the registry directory. A missing or
// malformed file falls back to the built-in default for that guideline, so a
// bad edit never leaves the registry without a checklist.
func (r *Registry) Reload() {
	fresh := map[ptypes.GuidelineName]*Checklist{
		ptypes.GuidelineCONSORT: DefaultCONSORT(),
		ptypes.GuidelineSPIRIT:  DefaultSPIRIT(),
	}

	if r.dir != "" {
		for name, file := range checklistFiles {
			cl, err := loadChecklistFile(filepath.Join(r.dir, file), name)
			if err != nil {
				if !os.IsNotExist(rootCause(err)) {
					r.log.Warn("checklist file ignored, using built-in default",
						logging.String("guideline", string(name)),
						logging.String("file", file),
						logging.Err(err))
				}
				continue
			}
			fresh[name] = cl
		}
	}

	r.mu.Lock()
	r.lists = fresh
	r.mu.Unlock()
}

// Watch reloads the registry whenever a checklist file in the directory
// changes. It blocks until ctx is cancelled.
func (r *Registry) Watch(ctx context.Context) error {
	if r.dir == "" {
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "create guideline watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(r.dir); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "watch guideline directory")
	}
	r.log.Info("watching guideline directory", logging.String("dir", r.dir))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !isChecklistFile(ev.Name) {
				continue
			}
			r.log.Info("guideline file changed, reloading", logging.String("file", filepath.Base(ev.Name)))
			r.Reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.log.Warn("guideline watcher error", logging.Err(err))
		}
	}
}

func isChecklistFile(path string) bool {
	base := filepath.Base(path)
	for _, file := range checklistFiles {
		if base == file {
			return true
		}
	}
	return false
}

// checklistFile is the on-disk JSON shape. Name and version are optional and
// default to the built-in values for the guideline.
type checklistFile struct {
	Version string          `json:"version"`
	Items   []ChecklistItem `json:"items"`
}

func loadChecklistFile(path string, name ptypes.GuidelineName) (*Checklist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cf checklistFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeGuidelineParseFailed, "parse checklist file")
	}
	if len(cf.Items) == 0 {
		return nil, errors.New(errors.ErrCodeGuidelineEmpty, "checklist file has no items")
	}
	for _, item := range cf.Items {
		if item.ID == "" || item.Description == "" {
			return nil, errors.New(errors.ErrCodeGuidelineParseFailed, "checklist item missing id or description")
		}
	}
	version := cf.Version
	if version == "" {
		switch name {
		case ptypes.GuidelineCONSORT:
			version = DefaultCONSORT().Version
		case ptypes.GuidelineSPIRIT:
			version = DefaultSPIRIT().Version
		}
	}
	return &Checklist{Name: name, Version: version, Items: cf.Items}, nil
}

// rootCause unwraps AppError chains down to the underlying os error so the
// not-exist check works on wrapped reads.
func rootCause(err error) error {
	for {
		appErr, ok := err.(*errors.AppError)
		if !ok || appErr.Cause == nil {
			return err
		}
		err = appErr.Cause
	}
}
