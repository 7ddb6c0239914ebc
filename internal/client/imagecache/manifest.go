package imagecache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// ManifestFile - имя файла манифеста в каталоге кэша
const ManifestFile = "image_cache_info.json"

const (
	dirPerms  = 0o700
	filePerms = 0o600
)

// Entry - запись манифеста о закэшированном файле
type Entry struct {
	URI       string `json:"uri"`
	Size      int64  `json:"size"`
	Timestamp int64  `json:"timestamp"` // unix ms последнего обращения
}

// Manifest описывает содержимое кэша.
// TotalSize всегда равен сумме Size всех записей.
type Manifest struct {
	Entries   map[string]*Entry `json:"entries"`
	TotalSize int64             `json:"totalSize"`
}

func newManifest() Manifest {
	return Manifest{Entries: map[string]*Entry{}}
}

// add добавляет или заменяет запись, поддерживая TotalSize
func (m *Manifest) add(key string, e *Entry) {
	if old, ok := m.Entries[key]; ok {
		m.TotalSize -= old.Size
	}
	m.Entries[key] = e
	m.TotalSize += e.Size
}

// remove удаляет запись и возвращает ее
func (m *Manifest) remove(key string) (*Entry, bool) {
	e, ok := m.Entries[key]
	if !ok {
		return nil, false
	}
	delete(m.Entries, key)
	m.TotalSize -= e.Size
	return e, true
}

// oldestFirst возвращает ключи по возрастанию времени последнего обращения
func (m *Manifest) oldestFirst() []string {
	keys := make([]string, 0, len(m.Entries))
	for k := range m.Entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := m.Entries[keys[i]], m.Entries[keys[j]]
		if a.Timestamp != b.Timestamp {
			return a.Timestamp < b.Timestamp
		}
		return keys[i] < keys[j]
	})
	return keys
}

// reconcile пересчитывает TotalSize по записям.
// Возвращает true, если значение пришлось исправить.
func (m *Manifest) reconcile() bool {
	var total int64
	for _, e := range m.Entries {
		total += e.Size
	}
	fixed := total != m.TotalSize
	m.TotalSize = total
	return fixed
}

func loadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newManifest(), nil
		}
		return newManifest(), fmt.Errorf("reading manifest %s: %w", path, err)
	}

	m := newManifest()
	if err := json.Unmarshal(data, &m); err != nil {
		return newManifest(), fmt.Errorf("decoding manifest %s: %w", path, err)
	}
	if m.Entries == nil {
		m.Entries = map[string]*Entry{}
	}
	for k, e := range m.Entries {
		if e == nil {
			delete(m.Entries, k)
		}
	}
	return m, nil
}

// saveManifest пишет манифест атомарно: временный файл в том же каталоге и rename
func saveManifest(path string, m Manifest) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerms); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".manifest-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing manifest: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming manifest: %w", err)
	}

	success = true
	return nil
}
