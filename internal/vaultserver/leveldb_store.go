package vaultserver

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"aura/internal/domain"
)

// LevelStore keeps sessions in a LevelDB directory.
//
// Keys:
//
//	session:{id}          session metadata (JSON, no records)
//	record:{id}:{rec id}  one record (JSON); record ids sort by upload time
type LevelStore struct {
	db *leveldb.DB
	mu sync.Mutex
}

// OpenLevelStore opens or creates the database at path.
func OpenLevelStore(path string) (*LevelStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelStore{db: db}, nil
}

func sessionKey(id domain.SessionID) []byte { return []byte("session:" + id.String()) }

func recordPrefix(id domain.SessionID) []byte { return []byte("record:" + id.String() + ":") }

func (s *LevelStore) CreateSession(_ context.Context, sess domain.HandoffSession) error {
	meta := sess
	meta.Patients = nil
	b, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	batch := new(leveldb.Batch)
	batch.Put(sessionKey(sess.SessionID), b)
	for _, rec := range sess.Patients {
		rb, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		batch.Put(append(recordPrefix(sess.SessionID), rec.ID.String()...), rb)
	}
	return s.db.Write(batch, nil)
}

func (s *LevelStore) GetSession(_ context.Context, id domain.SessionID) (domain.HandoffSession, error) {
	b, err := s.db.Get(sessionKey(id), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return domain.HandoffSession{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.HandoffSession{}, err
	}
	var sess domain.HandoffSession
	if err := json.Unmarshal(b, &sess); err != nil {
		return domain.HandoffSession{}, err
	}

	sess.Patients = []domain.PatientRecord{}
	iter := s.db.NewIterator(util.BytesPrefix(recordPrefix(id)), nil)
	defer iter.Release()
	for iter.Next() {
		var rec domain.PatientRecord
		if err := json.Unmarshal(iter.Value(), &rec); err != nil {
			return domain.HandoffSession{}, err
		}
		sess.Patients = append(sess.Patients, rec)
	}
	return sess, iter.Error()
}

func (s *LevelStore) AppendRecord(_ context.Context, id domain.SessionID, rec domain.PatientRecord) error {
	if rec.ID == "" {
		return errors.New("record has no id")
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	// Serialise the existence check with the write.
	s.mu.Lock()
	defer s.mu.Unlock()
	ok, err := s.db.Has(sessionKey(id), nil)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrSessionNotFound
	}
	return s.db.Put(append(recordPrefix(id), rec.ID.String()...), b, nil)
}

func (s *LevelStore) Close() error { return s.db.Close() }

var _ Store = (*LevelStore)(nil)
