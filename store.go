package newtablinks

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested link does not exist or is not
// visible at the requested status.
var ErrNotFound = sql.ErrNoRows

// Store wraps a SQLite database and provides CRUD operations for link
// records and the site-info singleton.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode for concurrent read/write access, set a busy timeout
	// so writers wait instead of returning SQLITE_BUSY immediately, and tune
	// performance: synchronous=NORMAL is safe with WAL and avoids an fsync
	// per transaction; larger cache and mmap reduce disk I/O.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS links (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    url TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'draft',
    shot_full TEXT NOT NULL DEFAULT '',
    shot_large TEXT NOT NULL DEFAULT '',
    shot_medium TEXT NOT NULL DEFAULT '',
    shot_thumbnail TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS site_info (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    name TEXT NOT NULL DEFAULT '',
    logo TEXT NOT NULL DEFAULT ''
);
`)
	return err
}

const linkColumns = `id, title, url, status, shot_full, shot_large, shot_medium, shot_thumbnail, created_at, updated_at`

func scanLink(row interface{ Scan(...any) error }) (Link, error) {
	var l Link
	err := row.Scan(&l.ID, &l.Title, &l.URL, &l.Status,
		&l.Screenshot.Full, &l.Screenshot.Large, &l.Screenshot.Medium, &l.Screenshot.Thumbnail,
		&l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// CreateLink inserts a new link in draft status with empty screenshot
// variants. The URL is accepted as opaque text; it is not validated as a
// well-formed URL.
func (s *Store) CreateLink(title, url string) (Link, error) {
	ts := now()
	res, err := s.db.Exec(`INSERT INTO links (title, url, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		title, url, StatusDraft, ts, ts)
	if err != nil {
		return Link{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Link{}, err
	}
	return Link{
		ID:        id,
		Title:     title,
		URL:       url,
		Status:    StatusDraft,
		CreatedAt: ts,
		UpdatedAt: ts,
	}, nil
}

// UpdateLink changes the title and URL of an existing link. Status and
// screenshot variants are untouched.
func (s *Store) UpdateLink(id int64, title, url string) error {
	res, err := s.db.Exec(`UPDATE links SET title = ?, url = ?, updated_at = ? WHERE id = ?`,
		title, url, now(), id)
	if err != nil {
		return err
	}
	return oneRowOrNotFound(res)
}

// SetScreenshot attaches rendered image URLs per size label. The variants
// are produced elsewhere; the store only references them.
func (s *Store) SetScreenshot(id int64, shot Screenshot) error {
	res, err := s.db.Exec(`UPDATE links SET shot_full = ?, shot_large = ?, shot_medium = ?, shot_thumbnail = ?, updated_at = ? WHERE id = ?`,
		shot.Full, shot.Large, shot.Medium, shot.Thumbnail, now(), id)
	if err != nil {
		return err
	}
	return oneRowOrNotFound(res)
}

// Publish makes a link visible through the read API.
func (s *Store) Publish(id int64) error {
	return s.setStatus(id, StatusPublished)
}

// Trash soft-deletes a link. Trashed links stay in the store but are
// never returned by ListPublished.
func (s *Store) Trash(id int64) error {
	return s.setStatus(id, StatusTrashed)
}

func (s *Store) setStatus(id int64, status Status) error {
	res, err := s.db.Exec(`UPDATE links SET status = ?, updated_at = ? WHERE id = ?`, status, now(), id)
	if err != nil {
		return err
	}
	return oneRowOrNotFound(res)
}

// DeleteLink permanently removes a link. Deleting a missing id is not an
// error.
func (s *Store) DeleteLink(id int64) error {
	_, err := s.db.Exec(`DELETE FROM links WHERE id = ?`, id)
	return err
}

// ListPublished returns all published links in recency order. An empty
// result is not an error; the API layer decides how to surface it.
func (s *Store) ListPublished() ([]Link, error) {
	return s.list(`SELECT ` + linkColumns + ` FROM links WHERE status = 'published' ORDER BY created_at DESC, id DESC`)
}

// ListLinks returns every link regardless of status (for the admin
// dashboard), in recency order.
func (s *Store) ListLinks() ([]Link, error) {
	return s.list(`SELECT ` + linkColumns + ` FROM links ORDER BY created_at DESC, id DESC`)
}

func (s *Store) list(query string) ([]Link, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// GetPublished returns a single published link by id.
func (s *Store) GetPublished(id int64) (Link, error) {
	return scanLink(s.db.QueryRow(`SELECT `+linkColumns+` FROM links WHERE id = ? AND status = 'published'`, id))
}

// GetLink returns a link by id regardless of status (for the admin form).
func (s *Store) GetLink(id int64) (Link, error) {
	return scanLink(s.db.QueryRow(`SELECT `+linkColumns+` FROM links WHERE id = ?`, id))
}

// GetInfo returns the site-info singleton, materializing the defaults row
// on first access.
func (s *Store) GetInfo() (SiteInfo, error) {
	var info SiteInfo
	err := s.db.QueryRow(`SELECT name, logo FROM site_info WHERE id = 1`).Scan(&info.Name, &info.Logo)
	if err == sql.ErrNoRows {
		if _, err := s.db.Exec(`INSERT INTO site_info (id, name, logo) VALUES (1, '', '') ON CONFLICT(id) DO NOTHING`); err != nil {
			return SiteInfo{}, err
		}
		return SiteInfo{}, nil
	}
	if err != nil {
		return SiteInfo{}, err
	}
	return info, nil
}

// SetInfo updates the site-info singleton. A single upsert statement keeps
// racing writers last-write-wins: the row always matches exactly one call.
func (s *Store) SetInfo(name, logo string) error {
	_, err := s.db.Exec(`INSERT INTO site_info (id, name, logo) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, logo = excluded.logo`, name, logo)
	return err
}

func oneRowOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
