package store

import (
	"os"
	"path/filepath"
	"sync"

	"aura/internal/domain"
)

const draftFilename = "draft.json"

// DraftFileStore keeps the patient's unsent intake form as plain JSON.
type DraftFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewDraftFileStore returns a DraftFileStore rooted at dir.
func NewDraftFileStore(dir string) *DraftFileStore {
	return &DraftFileStore{dir: dir}
}

func (s *DraftFileStore) SaveDraft(record domain.PatientRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	return writeJSON(filepath.Join(s.dir, draftFilename), record, 0o600)
}

func (s *DraftFileStore) LoadDraft() (domain.PatientRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, draftFilename)
	b, err := readFile(path)
	if err != nil || b == nil {
		return domain.PatientRecord{}, false, err
	}
	var rec domain.PatientRecord
	if err := readJSON(path, &rec); err != nil {
		return domain.PatientRecord{}, false, err
	}
	return rec, true, nil
}

func (s *DraftFileStore) ClearDraft() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return removeFile(filepath.Join(s.dir, draftFilename))
}

var _ domain.DraftStore = (*DraftFileStore)(nil)
