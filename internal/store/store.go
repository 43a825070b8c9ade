// Package store persists audit history in a local sqlite database.
// Audits, snapshots, and observations are append-only; only Q-set entries
// are user-editable.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vkuzmenko/citescope/internal/model"
)

type auditRecord struct {
	ID            uint      `gorm:"primaryKey"`
	Target        string    `gorm:"index"`
	AnalyzedAt    time.Time `gorm:"index"`
	TotalScore    float64
	WeightVersion string
	Platform      string
	ContentHash   string
	Payload       []byte // Full AuditResult JSON including breakdowns
}

type snapshotRecord struct {
	ID              uint      `gorm:"primaryKey"`
	Target          string    `gorm:"index"`
	TakenAt         time.Time `gorm:"index"`
	ContentHash     string
	AuditID         string
	TotalScore      float64
	DaysSinceUpdate int
}

type entryRecord struct {
	EntryID   string `gorm:"primaryKey"`
	Question  string
	Intent    string
	Priority  string
	TargetURL string
}

type observationRecord struct {
	ID          uint      `gorm:"primaryKey"`
	ObsID       string    `gorm:"uniqueIndex"`
	EntryID     string    `gorm:"index"`
	Platform    string    `gorm:"index"`
	ObservedAt  time.Time `gorm:"index"`
	Cited       bool
	SourceShown bool
	Accurate    bool
	Failed      bool
	Answer      string
}

// Store wraps the sqlite history database
type Store struct {
	db *gorm.DB
}

// Open creates or migrates the database at path
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store dir: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if err := db.AutoMigrate(&auditRecord{}, &snapshotRecord{}, &entryRecord{}, &observationRecord{}); err != nil {
		return nil, fmt.Errorf("migrating: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenMemory opens a throwaway in-memory database
func OpenMemory() (*Store, error) {
	return Open(":memory:")
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveAudit appends one audit result
func (s *Store) SaveAudit(result *model.AuditResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.db.Create(&auditRecord{
		Target:        result.Target,
		TotalScore:    result.TotalScore,
		WeightVersion: result.WeightVersion,
		Platform:      result.Platform,
		ContentHash:   result.ContentHash,
		AnalyzedAt:    result.AnalyzedAt,
		Payload:       payload,
	}).Error
}

// ListAudits returns up to limit audits for a target, oldest first
func (s *Store) ListAudits(target string, limit int) ([]model.AuditResult, error) {
	var records []auditRecord
	q := s.db.Where("target = ?", target).Order("analyzed_at asc")
	if limit > 0 {
		// Keep the newest N but present them in time order
		sub := s.db.Model(&auditRecord{}).Where("target = ?", target).
			Order("analyzed_at desc").Limit(limit).Select("id")
		q = s.db.Where("id IN (?)", sub).Order("analyzed_at asc")
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]model.AuditResult, 0, len(records))
	for _, r := range records {
		var result model.AuditResult
		if err := json.Unmarshal(r.Payload, &result); err != nil {
			continue
		}
		out = append(out, result)
	}
	return out, nil
}

// SaveSnapshot appends one content snapshot
func (s *Store) SaveSnapshot(snapshot *model.ContentSnapshot) error {
	return s.db.Create(&snapshotRecord{
		Target:          snapshot.Target,
		ContentHash:     snapshot.ContentHash,
		TakenAt:         snapshot.TakenAt,
		AuditID:         snapshot.AuditID,
		TotalScore:      snapshot.TotalScore,
		DaysSinceUpdate: snapshot.DaysSinceUpdate,
	}).Error
}

// ListSnapshots returns a target's snapshots oldest first
func (s *Store) ListSnapshots(target string) ([]model.ContentSnapshot, error) {
	var records []snapshotRecord
	if err := s.db.Where("target = ?", target).Order("taken_at asc").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]model.ContentSnapshot, len(records))
	for i, r := range records {
		out[i] = model.ContentSnapshot{
			Target:          r.Target,
			ContentHash:     r.ContentHash,
			TakenAt:         r.TakenAt,
			AuditID:         r.AuditID,
			TotalScore:      r.TotalScore,
			DaysSinceUpdate: r.DaysSinceUpdate,
		}
	}
	return out, nil
}

// LatestUpdateAges returns each tracked target's most recent
// days-since-update reading
func (s *Store) LatestUpdateAges() (map[string]int, error) {
	var records []snapshotRecord
	if err := s.db.Order("taken_at asc").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int)
	for _, r := range records {
		out[r.Target] = r.DaysSinceUpdate // Later rows overwrite earlier
	}
	return out, nil
}

// SaveEntry inserts or updates one Q-set entry
func (s *Store) SaveEntry(entry *model.QSetEntry) error {
	return s.db.Save(&entryRecord{
		EntryID:   entry.ID,
		Question:  entry.Question,
		Intent:    string(entry.Intent),
		Priority:  string(entry.Priority),
		TargetURL: entry.TargetURL,
	}).Error
}

// DeleteEntry removes one Q-set entry; its past observations remain
func (s *Store) DeleteEntry(id string) error {
	return s.db.Delete(&entryRecord{}, "entry_id = ?", id).Error
}

// ListEntries returns the full question set
func (s *Store) ListEntries() ([]model.QSetEntry, error) {
	var records []entryRecord
	if err := s.db.Order("entry_id asc").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]model.QSetEntry, len(records))
	for i, r := range records {
		out[i] = model.QSetEntry{
			ID:        r.EntryID,
			Question:  r.Question,
			Intent:    model.Intent(r.Intent),
			Priority:  model.Priority(r.Priority),
			TargetURL: r.TargetURL,
		}
	}
	return out, nil
}

// SaveObservation appends one probe observation
func (s *Store) SaveObservation(obs *model.CitationObservation) error {
	return s.db.Create(&observationRecord{
		ObsID:       obs.ID,
		EntryID:     obs.EntryID,
		Platform:    obs.Platform,
		ObservedAt:  obs.ObservedAt,
		Cited:       obs.Cited,
		SourceShown: obs.SourceShown,
		Accurate:    obs.Accurate,
		Failed:      obs.Failed,
		Answer:      obs.Answer,
	}).Error
}

// ListObservations returns one platform's observations in a time window,
// oldest first
func (s *Store) ListObservations(platform string, start, end time.Time) ([]model.CitationObservation, error) {
	var records []observationRecord
	err := s.db.
		Where("platform = ? AND observed_at >= ? AND observed_at <= ?", platform, start, end).
		Order("observed_at asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	out := make([]model.CitationObservation, len(records))
	for i, r := range records {
		out[i] = model.CitationObservation{
			ID:          r.ObsID,
			EntryID:     r.EntryID,
			Platform:    r.Platform,
			ObservedAt:  r.ObservedAt,
			Cited:       r.Cited,
			SourceShown: r.SourceShown,
			Accurate:    r.Accurate,
			Failed:      r.Failed,
			Answer:      r.Answer,
		}
	}
	return out, nil
}
