// Package imagecache хранит загруженные изображения на диске с ограничением
// по общему размеру и возрасту записей. Вытеснение идет строго от записи
// с самым старым временем последнего обращения.
package imagecache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/iudanet/loyalty/internal/crypto"
)

// ErrCache - ошибка загрузки, обработки или сохранения изображения.
// Наружу из GetCachedImage не возвращается.
var ErrCache = errors.New("image cache error")

const (
	imagesDir         = "images"
	defaultExt        = "jpg"
	prefetchLimit     = 4
	downloadSizeLimit = 32 << 20
)

var allowedExt = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"webp": true,
}

// Config - параметры кэша
type Config struct {
	Dir             string
	MaxSize         int64
	MaxAge          time.Duration
	CleanupInterval time.Duration
	MaxWidth        int
	Quality         int
}

// Stats - текущее состояние кэша
type Stats struct {
	TotalSize int64
	FileCount int
	MaxSize   int64
}

// Option настраивает Cache
type Option func(*Cache)

// WithClock подменяет источник текущего времени
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// Cache - дисковый кэш изображений
type Cache struct {
	client       *http.Client
	logger       *slog.Logger
	hot          *gocache.Cache // ключ -> путь к файлу
	now          func() time.Time
	manifest     Manifest
	cfg          Config
	imagesDir    string
	manifestPath string
	generation   uint64
	mu           sync.Mutex
}

// New создает каталоги кэша, загружает манифест и выполняет первую очистку
func New(cfg Config, client *http.Client, logger *slog.Logger, opts ...Option) (*Cache, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("%w: cache directory is empty", ErrCache)
	}
	if cfg.MaxSize <= 0 || cfg.MaxAge <= 0 || cfg.MaxWidth <= 0 || cfg.Quality < 1 || cfg.Quality > 100 {
		return nil, fmt.Errorf("%w: invalid config", ErrCache)
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Hour
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Cache{
		cfg:          cfg,
		client:       client,
		logger:       logger,
		now:          time.Now,
		imagesDir:    filepath.Join(cfg.Dir, imagesDir),
		manifestPath: filepath.Join(cfg.Dir, ManifestFile),
		hot:          gocache.New(cfg.MaxAge, cfg.CleanupInterval),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := os.MkdirAll(c.imagesDir, dirPerms); err != nil {
		return nil, fmt.Errorf("%w: creating cache directory: %w", ErrCache, err)
	}

	m, err := loadManifest(c.manifestPath)
	if err != nil {
		// Поврежденный манифест: начинаем с пустого, файлы будут подобраны при обращении
		logger.Warn("Error loading cache manifest, starting empty", "error", err)
	}
	c.manifest = m

	c.mu.Lock()
	c.dropMissingLocked()
	if c.manifest.reconcile() {
		logger.Warn("Cache manifest total size was inconsistent, recalculated", "total_size", c.manifest.TotalSize)
	}
	c.mu.Unlock()

	c.Cleanup(context.Background())

	return c, nil
}

// GetCachedImage возвращает локальный путь к изображению, загружая его при
// необходимости. При неподдерживаемом типе файла или любой ошибке
// возвращается исходный URL.
func (c *Cache) GetCachedImage(ctx context.Context, rawURL string) string {
	if rawURL == "" {
		return rawURL
	}

	ext := fileExtension(rawURL)
	if !allowedExt[ext] {
		c.logger.WarnContext(ctx, "Unsupported image type", "ext", ext)
		return rawURL
	}

	key := crypto.CacheKey(rawURL, ext)
	filePath := filepath.Join(c.imagesDir, key)

	c.mu.Lock()
	if p, ok := c.lookupLocked(ctx, key, rawURL, filePath); ok {
		c.mu.Unlock()
		return p
	}
	generation := c.generation
	c.mu.Unlock()

	p, err := c.fetch(ctx, rawURL, key, filePath, generation)
	if err != nil {
		c.logger.ErrorContext(ctx, "Error caching image", "url", rawURL, "error", err)
		return rawURL
	}
	return p
}

// lookupLocked обрабатывает попадание в кэш и файлы без записи в манифесте
func (c *Cache) lookupLocked(ctx context.Context, key, rawURL, filePath string) (string, bool) {
	entry, inManifest := c.manifest.Entries[key]

	if inManifest {
		if _, hot := c.hot.Get(key); !hot {
			if _, err := os.Stat(filePath); err != nil {
				// Запись есть, файла нет: удаляем запись и загружаем заново
				c.manifest.remove(key)
				c.saveLocked(ctx)
				return "", false
			}
		}
		entry.Timestamp = c.now().UnixMilli()
		c.hot.SetDefault(key, filePath)
		c.saveLocked(ctx)
		return filePath, true
	}

	info, err := os.Stat(filePath)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}

	// Файл на диске без записи в манифесте: учитываем его
	c.manifest.add(key, &Entry{URI: filePath, Size: info.Size(), Timestamp: c.now().UnixMilli()})
	c.evictLocked(ctx)
	if _, ok := c.manifest.Entries[key]; !ok {
		c.saveLocked(ctx)
		return "", false
	}
	c.hot.SetDefault(key, filePath)
	c.saveLocked(ctx)
	c.logger.DebugContext(ctx, "Adopted cached file", "key", key, "url", rawURL)
	return filePath, true
}

// fetch загружает и обрабатывает изображение вне блокировки,
// затем под блокировкой публикует файл и запись в манифесте
func (c *Cache) fetch(ctx context.Context, rawURL, key, filePath string, generation uint64) (string, error) {
	data, err := c.download(ctx, rawURL)
	if err != nil {
		return "", err
	}

	out, err := transform(data, c.cfg.MaxWidth, c.cfg.Quality)
	if err != nil {
		c.logger.WarnContext(ctx, "Error optimizing image, keeping original bytes", "url", rawURL, "error", err)
		out = data
	}

	tmpPath, err := writeTemp(c.imagesDir, out)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCache, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != generation {
		// Кэш очищен во время загрузки
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("%w: cache was cleared during download", ErrCache)
	}

	if err := os.Rename(tmpPath, filePath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("%w: publishing file: %w", ErrCache, err)
	}

	c.manifest.add(key, &Entry{URI: filePath, Size: int64(len(out)), Timestamp: c.now().UnixMilli()})
	c.evictLocked(ctx)
	c.saveLocked(ctx)

	if _, ok := c.manifest.Entries[key]; !ok {
		return "", fmt.Errorf("%w: image larger than cache capacity", ErrCache)
	}

	c.hot.SetDefault(key, filePath)
	c.logger.DebugContext(ctx, "Image cached", "key", key, "size", len(out))
	return filePath, nil
}

func (c *Cache) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", ErrCache, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: download: %w", ErrCache, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: download: unexpected status %d", ErrCache, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, downloadSizeLimit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrCache, err)
	}
	if len(data) > downloadSizeLimit {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", ErrCache, downloadSizeLimit)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrCache)
	}
	return data, nil
}

// Cleanup удаляет записи старше MaxAge и вытесняет самые старые
// записи, пока размер кэша превышает MaxSize
func (c *Cache) Cleanup(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UnixMilli()
	maxAge := c.cfg.MaxAge.Milliseconds()

	removed := 0
	for _, key := range c.manifest.oldestFirst() {
		if now-c.manifest.Entries[key].Timestamp <= maxAge {
			break
		}
		c.removeLocked(ctx, key)
		removed++
	}
	removed += c.evictLocked(ctx)

	c.saveLocked(ctx)
	if removed > 0 {
		c.logger.DebugContext(ctx, "Cache cleanup finished", "removed", removed, "total_size", c.manifest.TotalSize)
	}
}

// Run периодически выполняет Cleanup до отмены контекста
func (c *Cache) Run(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Cleanup(ctx)
		}
	}
}

// ClearCache удаляет все файлы и манифест. Загрузки, начатые до очистки,
// не попадут в новый кэш.
func (c *Cache) ClearCache(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.manifest = newManifest()
	c.hot.Flush()

	var errs []error
	if err := os.RemoveAll(c.imagesDir); err != nil {
		errs = append(errs, fmt.Errorf("removing images: %w", err))
	}
	if err := os.Remove(c.manifestPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		errs = append(errs, fmt.Errorf("removing manifest: %w", err))
	}
	if err := os.MkdirAll(c.imagesDir, dirPerms); err != nil {
		errs = append(errs, fmt.Errorf("creating cache directory: %w", err))
	}

	if len(errs) > 0 {
		err := fmt.Errorf("%w: %w", ErrCache, errors.Join(errs...))
		c.logger.ErrorContext(ctx, "Error clearing cache", "error", err)
		return err
	}

	c.logger.InfoContext(ctx, "Image cache cleared")
	return nil
}

// Stats возвращает размер и количество файлов кэша
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		TotalSize: c.manifest.TotalSize,
		FileCount: len(c.manifest.Entries),
		MaxSize:   c.cfg.MaxSize,
	}
}

// Prefetch загружает несколько изображений параллельно.
// Результат в том же порядке, что и urls.
func (c *Cache) Prefetch(ctx context.Context, urls []string) []string {
	out := make([]string, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchLimit)
	for i, u := range urls {
		g.Go(func() error {
			out[i] = c.GetCachedImage(gctx, u)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// evictLocked вытесняет записи по возрастанию времени обращения,
// пока размер превышает MaxSize. Возвращает число удаленных записей.
func (c *Cache) evictLocked(ctx context.Context) int {
	if c.manifest.TotalSize <= c.cfg.MaxSize {
		return 0
	}

	removed := 0
	for _, key := range c.manifest.oldestFirst() {
		if c.manifest.TotalSize <= c.cfg.MaxSize {
			break
		}
		c.removeLocked(ctx, key)
		removed++
	}
	return removed
}

func (c *Cache) removeLocked(ctx context.Context, key string) {
	if _, ok := c.manifest.remove(key); !ok {
		return
	}
	c.hot.Delete(key)
	if err := os.Remove(filepath.Join(c.imagesDir, key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		c.logger.WarnContext(ctx, "Error removing cache file", "key", key, "error", err)
	}
}

// dropMissingLocked удаляет записи, файлы которых пропали с диска
func (c *Cache) dropMissingLocked() {
	for key := range c.manifest.Entries {
		if _, err := os.Stat(filepath.Join(c.imagesDir, key)); err != nil {
			c.manifest.remove(key)
		}
	}
}

func (c *Cache) saveLocked(ctx context.Context) {
	if err := saveManifest(c.manifestPath, c.manifest); err != nil {
		c.logger.ErrorContext(ctx, "Error saving cache manifest", "error", err)
	}
}

// fileExtension возвращает расширение из пути URL в нижнем регистре, по умолчанию jpg
func fileExtension(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	ext := strings.TrimPrefix(path.Ext(p), ".")
	if ext == "" {
		return defaultExt
	}
	return strings.ToLower(ext)
}

func writeTemp(dir string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(dir, ".download-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	return tmpPath, nil
}
