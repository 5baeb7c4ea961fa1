package bootship

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/bootship/theme"
)

const dbTimeLayout = "2006-01-02 15:04:05"

// Store wraps a SQLite database holding items, terms, custom fields, users
// and site options. It implements theme.Host and theme.MetaWriter.
type Store struct {
	db *sql.DB
}

var (
	_ theme.Host       = (*Store)(nil)
	_ theme.MetaWriter = (*Store)(nil)
)

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// Per-connection pragmas go in the DSN so every pooled connection gets
	// them: writers wait instead of failing with SQLITE_BUSY, and deletes
	// cascade to terms and custom fields.
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    login TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    role TEXT NOT NULL,
    password_hash TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    type TEXT NOT NULL,
    slug TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '',
    excerpt TEXT NOT NULL DEFAULT '',
    author_id INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL,
    date TEXT NOT NULL,
    format TEXT NOT NULL DEFAULT '',
    parent_id INTEGER NOT NULL DEFAULT 0,
    menu_order INTEGER NOT NULL DEFAULT 0,
    mime_type TEXT NOT NULL DEFAULT '',
    file TEXT NOT NULL DEFAULT '',
    thumbnail_id INTEGER NOT NULL DEFAULT 0,
    sticky INTEGER NOT NULL DEFAULT 0,
    comment_status TEXT NOT NULL DEFAULT 'open',
    UNIQUE (type, slug)
);
CREATE INDEX IF NOT EXISTS items_listing ON items (type, status, date);
CREATE INDEX IF NOT EXISTS items_parent ON items (parent_id, type);
CREATE TABLE IF NOT EXISTS terms (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    taxonomy TEXT NOT NULL,
    slug TEXT NOT NULL,
    name TEXT NOT NULL,
    UNIQUE (taxonomy, slug)
);
CREATE TABLE IF NOT EXISTS item_terms (
    item_id INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    term_id INTEGER NOT NULL REFERENCES terms(id) ON DELETE CASCADE,
    PRIMARY KEY (item_id, term_id)
);
CREATE TABLE IF NOT EXISTS item_meta (
    item_id INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    key TEXT NOT NULL,
    value TEXT NOT NULL,
    PRIMARY KEY (item_id, key)
);
CREATE TABLE IF NOT EXISTS options (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS widgets (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    sidebar_id TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0,
    widget_id TEXT NOT NULL,
    class TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS menu_items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    location TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0,
    label TEXT NOT NULL,
    url TEXT NOT NULL
);
`)
	return err
}

const itemColumns = `i.id, i.type, i.slug, i.title, i.content, i.excerpt, i.author_id,
	COALESCE(u.login, ''), COALESCE(u.display_name, ''), i.status, i.date, i.format,
	i.parent_id, i.menu_order, i.mime_type, i.file, i.thumbnail_id, i.sticky, i.comment_status`

const itemFrom = ` FROM items i LEFT JOIN users u ON u.id = i.author_id `

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (theme.Item, error) {
	var it theme.Item
	var date string
	var sticky int
	err := row.Scan(&it.ID, &it.Type, &it.Slug, &it.Title, &it.Content, &it.Excerpt, &it.Author.ID,
		&it.Author.Login, &it.Author.DisplayName, &it.Status, &date, &it.Format,
		&it.ParentID, &it.MenuOrder, &it.MimeType, &it.File, &it.ThumbnailID, &sticky, &it.CommentStatus)
	if err != nil {
		return theme.Item{}, err
	}
	it.Date, _ = time.Parse(dbTimeLayout, date)
	it.Sticky = sticky == 1
	it.Link = Permalink(it.Type, it.Slug)
	return it, nil
}

// hydrate loads the terms, custom fields and thumbnail file of it.
func (s *Store) hydrate(it *theme.Item) error {
	terms, err := s.itemTerms(it.ID)
	if err != nil {
		return err
	}
	it.Categories, it.Tags = nil, nil
	for _, t := range terms {
		switch t.Taxonomy {
		case theme.TaxonomyCategory:
			it.Categories = append(it.Categories, t)
		case theme.TaxonomyTag:
			it.Tags = append(it.Tags, t)
		}
	}
	if it.Meta, err = s.Meta(it.ID); err != nil {
		return err
	}
	if it.ThumbnailID != 0 {
		err := s.db.QueryRow(`SELECT file FROM items WHERE id = ? AND type = ?`, it.ThumbnailID, theme.TypeAttachment).Scan(&it.ThumbnailFile)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
	}
	return nil
}

func (s *Store) queryItems(query string, args ...any) ([]theme.Item, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	var items []theme.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()
	for i := range items {
		if err := s.hydrate(&items[i]); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (s *Store) queryItem(query string, args ...any) (*theme.Item, error) {
	it, err := scanItem(s.db.QueryRow(query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.hydrate(&it); err != nil {
		return nil, err
	}
	return &it, nil
}

// ItemByID returns any item regardless of status, or nil.
func (s *Store) ItemByID(id int64) (*theme.Item, error) {
	return s.queryItem(`SELECT `+itemColumns+itemFrom+`WHERE i.id = ?`, id)
}

// ItemBySlug returns the item of typ with slug. Unpublished items are only
// returned when drafts is set. Missing items yield ErrNotFound.
func (s *Store) ItemBySlug(typ, slug string, drafts bool) (theme.Item, error) {
	q := `SELECT ` + itemColumns + itemFrom + `WHERE i.type = ? AND i.slug = ?`
	if !drafts {
		q += ` AND i.status IN ('publish', 'inherit')`
	}
	it, err := s.queryItem(q, typ, slug)
	if err != nil {
		return theme.Item{}, err
	}
	if it == nil {
		return theme.Item{}, ErrNotFound
	}
	return *it, nil
}

// ItemQuery selects published items for a listing.
type ItemQuery struct {
	Types    []string
	Taxonomy string
	TermSlug string
	Author   string
	From, To time.Time // half-open [From, To)
	Search   string
	Limit    int
	Offset   int
}

func (q ItemQuery) where() (string, []any) {
	var conds []string
	var args []any
	types := q.Types
	if len(types) == 0 {
		types = []string{theme.TypePost}
	}
	conds = append(conds, `i.type IN (`+placeholders(len(types))+`)`)
	for _, t := range types {
		args = append(args, t)
	}
	conds = append(conds, `i.status = 'publish'`)
	if q.TermSlug != "" {
		conds = append(conds, `EXISTS (SELECT 1 FROM item_terms it JOIN terms t ON t.id = it.term_id
			WHERE it.item_id = i.id AND t.taxonomy = ? AND t.slug = ?)`)
		args = append(args, q.Taxonomy, q.TermSlug)
	}
	if q.Author != "" {
		conds = append(conds, `u.login = ?`)
		args = append(args, q.Author)
	}
	if !q.From.IsZero() {
		conds = append(conds, `i.date >= ?`)
		args = append(args, q.From.UTC().Format(dbTimeLayout))
	}
	if !q.To.IsZero() {
		conds = append(conds, `i.date < ?`)
		args = append(args, q.To.UTC().Format(dbTimeLayout))
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + escapeLike(strings.ToLower(s)) + "%"
		conds = append(conds, `(lower(i.title) LIKE ? ESCAPE '\' OR lower(i.content) LIKE ? ESCAPE '\')`)
		args = append(args, like, like)
	}
	return ` WHERE ` + strings.Join(conds, " AND "), args
}

// ListItems returns one page of published items, newest first, and the
// total number of matches.
func (s *Store) ListItems(q ItemQuery) ([]theme.Item, int, error) {
	where, args := q.where()
	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*)`+itemFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + itemColumns + itemFrom + where + ` ORDER BY i.date DESC, i.id DESC`
	if q.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d OFFSET %d`, q.Limit, max(q.Offset, 0))
	}
	items, err := s.queryItems(query, args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListAllItems returns every item of the given types regardless of status,
// newest first, for the admin.
func (s *Store) ListAllItems(types ...string) ([]theme.Item, error) {
	if len(types) == 0 {
		types = []string{theme.TypePost, theme.TypePage, theme.TypeProject}
	}
	args := make([]any, len(types))
	for i, t := range types {
		args[i] = t
	}
	return s.queryItems(`SELECT `+itemColumns+itemFrom+`WHERE i.type IN (`+placeholders(len(types))+`) ORDER BY i.date DESC, i.id DESC`, args...)
}

// Adjacent returns the published item of item's type dated immediately
// before or after it. Items sharing a date are ordered by id. With sameTerm
// set, the candidate must share a category with item; an item without
// categories then has no neighbour.
func (s *Store) Adjacent(item theme.Item, previous, sameTerm bool) (*theme.Item, error) {
	date := item.Date.UTC().Format(dbTimeLayout)
	cmp, order := ">", "ASC"
	if previous {
		cmp, order = "<", "DESC"
	}
	q := `SELECT ` + itemColumns + itemFrom + `WHERE i.type = ? AND i.status = 'publish' AND i.id != ?
		AND (i.date ` + cmp + ` ? OR (i.date = ? AND i.id ` + cmp + ` ?))`
	args := []any{item.Type, item.ID, date, date, item.ID}
	if sameTerm {
		if len(item.Categories) == 0 {
			return nil, nil
		}
		q += ` AND EXISTS (SELECT 1 FROM item_terms a JOIN item_terms b ON a.term_id = b.term_id
			JOIN terms t ON t.id = a.term_id
			WHERE a.item_id = i.id AND b.item_id = ? AND t.taxonomy = 'category')`
		args = append(args, item.ID)
	}
	q += ` ORDER BY i.date ` + order + `, i.id ` + order + ` LIMIT 1`
	return s.queryItem(q, args...)
}

// Attachments returns the image attachments of parentID ordered by menu
// order, then id.
func (s *Store) Attachments(parentID int64) ([]theme.Item, error) {
	return s.queryItems(`SELECT `+itemColumns+itemFrom+`WHERE i.type = ? AND i.parent_id = ? AND i.status = 'inherit'
		AND i.mime_type LIKE 'image/%' ORDER BY i.menu_order ASC, i.id ASC`, theme.TypeAttachment, parentID)
}

// ListAttachments returns every attachment, newest first.
func (s *Store) ListAttachments() ([]theme.Item, error) {
	return s.queryItems(`SELECT `+itemColumns+itemFrom+`WHERE i.type = ? ORDER BY i.date DESC, i.id DESC`, theme.TypeAttachment)
}

// SaveItem inserts it when its ID is zero and updates it otherwise. The slug
// is derived from the title when empty and made unique within the type.
func (s *Store) SaveItem(it *theme.Item) error {
	if it.Type == "" {
		return fmt.Errorf("save item: type is required")
	}
	if it.Slug == "" {
		it.Slug = Slugify(it.Title)
	}
	if it.Slug == "" {
		return fmt.Errorf("save item: slug is required")
	}
	slug, err := s.uniqueSlug(it.Type, it.Slug, it.ID)
	if err != nil {
		return err
	}
	it.Slug = slug
	if it.Status == "" {
		it.Status = theme.StatusDraft
	}
	if it.CommentStatus == "" {
		it.CommentStatus = "open"
	}
	if it.Date.IsZero() {
		it.Date = time.Now().UTC()
	}
	sticky := 0
	if it.Sticky {
		sticky = 1
	}
	args := []any{it.Type, it.Slug, it.Title, it.Content, it.Excerpt, it.Author.ID, it.Status,
		it.Date.UTC().Format(dbTimeLayout), it.Format, it.ParentID, it.MenuOrder, it.MimeType, it.File,
		it.ThumbnailID, sticky, it.CommentStatus}
	if it.ID == 0 {
		res, err := s.db.Exec(`INSERT INTO items (type, slug, title, content, excerpt, author_id, status, date, format,
			parent_id, menu_order, mime_type, file, thumbnail_id, sticky, comment_status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
		if err != nil {
			return fmt.Errorf("insert item: %w", err)
		}
		if it.ID, err = res.LastInsertId(); err != nil {
			return err
		}
	} else {
		res, err := s.db.Exec(`UPDATE items SET type = ?, slug = ?, title = ?, content = ?, excerpt = ?, author_id = ?,
			status = ?, date = ?, format = ?, parent_id = ?, menu_order = ?, mime_type = ?, file = ?, thumbnail_id = ?,
			sticky = ?, comment_status = ? WHERE id = ?`, append(args, it.ID)...)
		if err != nil {
			return fmt.Errorf("update item %d: %w", it.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
	}
	it.Link = Permalink(it.Type, it.Slug)
	return nil
}

func (s *Store) uniqueSlug(typ, slug string, id int64) (string, error) {
	candidate := slug
	for n := 2; ; n++ {
		var exists int
		err := s.db.QueryRow(`SELECT COUNT(*) FROM items WHERE type = ? AND slug = ? AND id != ?`, typ, candidate, id).Scan(&exists)
		if err != nil {
			return "", err
		}
		if exists == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", slug, n)
	}
}

// DeleteItem removes an item with its terms and custom fields.
func (s *Store) DeleteItem(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, q := range []string{
		`DELETE FROM item_terms WHERE item_id = ?`,
		`DELETE FROM item_meta WHERE item_id = ?`,
		`DELETE FROM items WHERE id = ?`,
	} {
		if _, err := tx.Exec(q, id); err != nil {
			return fmt.Errorf("delete item %d: %w", id, err)
		}
	}
	return tx.Commit()
}

// UpdateMeta upserts one custom field of an item.
func (s *Store) UpdateMeta(itemID int64, key, value string) error {
	_, err := s.db.Exec(`INSERT INTO item_meta (item_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT (item_id, key) DO UPDATE SET value = excluded.value`, itemID, key, value)
	if err != nil {
		return fmt.Errorf("update meta %s of %d: %w", key, itemID, err)
	}
	return nil
}

// Meta returns the custom fields of an item.
func (s *Store) Meta(itemID int64) (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM item_meta WHERE item_id = ?`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	meta := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		meta[k] = v
	}
	return meta, rows.Err()
}

// CountAuthors returns the number of distinct authors of published posts.
func (s *Store) CountAuthors() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(DISTINCT author_id) FROM items WHERE type = ? AND status = 'publish'`, theme.TypePost).Scan(&n)
	return n, err
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
