package bootship

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/eringen/bootship/theme"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = sql.ErrNoRows

// ErrInvalidLogin is returned by Authenticate for an unknown login or a
// wrong password.
var ErrInvalidLogin = errors.New("invalid login")

// EnsureTerm returns the term of taxonomy named name, creating it when
// missing.
func (s *Store) EnsureTerm(taxonomy, name string) (theme.Term, int64, error) {
	name = strings.TrimSpace(name)
	slug := Slugify(name)
	if slug == "" {
		return theme.Term{}, 0, fmt.Errorf("term %q: empty slug", name)
	}
	if _, err := s.db.Exec(`INSERT INTO terms (taxonomy, slug, name) VALUES (?, ?, ?)
		ON CONFLICT (taxonomy, slug) DO NOTHING`, taxonomy, slug, name); err != nil {
		return theme.Term{}, 0, err
	}
	var id int64
	t := theme.Term{Taxonomy: taxonomy, Slug: slug}
	if err := s.db.QueryRow(`SELECT id, name FROM terms WHERE taxonomy = ? AND slug = ?`, taxonomy, slug).Scan(&id, &t.Name); err != nil {
		return theme.Term{}, 0, err
	}
	t.Link = TermLink(taxonomy, slug)
	return t, id, nil
}

// TermBySlug returns a term or ErrNotFound.
func (s *Store) TermBySlug(taxonomy, slug string) (theme.Term, error) {
	t := theme.Term{Taxonomy: taxonomy, Slug: slug}
	err := s.db.QueryRow(`SELECT name FROM terms WHERE taxonomy = ? AND slug = ?`, taxonomy, slug).Scan(&t.Name)
	if err != nil {
		return theme.Term{}, err
	}
	t.Link = TermLink(taxonomy, slug)
	return t, nil
}

// SetItemTerms replaces the terms of taxonomy on an item.
func (s *Store) SetItemTerms(itemID int64, taxonomy string, names []string) error {
	ids := make([]int64, 0, len(names))
	for _, n := range FilterEmpty(names) {
		_, id, err := s.EnsureTerm(taxonomy, n)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM item_terms WHERE item_id = ?
		AND term_id IN (SELECT id FROM terms WHERE taxonomy = ?)`, itemID, taxonomy); err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO item_terms (item_id, term_id) VALUES (?, ?)`, itemID, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) itemTerms(itemID int64) ([]theme.Term, error) {
	rows, err := s.db.Query(`SELECT t.taxonomy, t.slug, t.name FROM terms t
		JOIN item_terms it ON it.term_id = t.id WHERE it.item_id = ? ORDER BY t.name`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var terms []theme.Term
	for rows.Next() {
		var t theme.Term
		if err := rows.Scan(&t.Taxonomy, &t.Slug, &t.Name); err != nil {
			return nil, err
		}
		t.Link = TermLink(t.Taxonomy, t.Slug)
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// CreateUser adds an account with a bcrypt-hashed password.
func (s *Store) CreateUser(login, displayName, role, password string) (User, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return User{}, fmt.Errorf("create user: login is required")
	}
	if !validRole(role) {
		return User{}, fmt.Errorf("create user: unknown role %q", role)
	}
	if password == "" {
		return User{}, fmt.Errorf("create user: password is required")
	}
	if displayName == "" {
		displayName = login
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	res, err := s.db.Exec(`INSERT INTO users (login, display_name, role, password_hash) VALUES (?, ?, ?, ?)`,
		login, displayName, role, string(hash))
	if err != nil {
		return User{}, fmt.Errorf("create user %s: %w", login, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return User{}, err
	}
	return User{ID: id, Login: login, DisplayName: displayName, Role: role, PasswordHash: string(hash)}, nil
}

func (s *Store) userWhere(cond string, arg any) (User, error) {
	var u User
	err := s.db.QueryRow(`SELECT id, login, display_name, role, password_hash FROM users WHERE `+cond, arg).
		Scan(&u.ID, &u.Login, &u.DisplayName, &u.Role, &u.PasswordHash)
	return u, err
}

// UserByID returns an account or ErrNotFound.
func (s *Store) UserByID(id int64) (User, error) {
	return s.userWhere(`id = ?`, id)
}

// UserByLogin returns an account or ErrNotFound.
func (s *Store) UserByLogin(login string) (User, error) {
	return s.userWhere(`login = ?`, login)
}

// CountUsers returns the number of accounts.
func (s *Store) CountUsers() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// Authenticate checks a login and password pair.
func (s *Store) Authenticate(login, password string) (User, error) {
	u, err := s.UserByLogin(login)
	if errors.Is(err, ErrNotFound) {
		return User{}, ErrInvalidLogin
	}
	if err != nil {
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, ErrInvalidLogin
	}
	return u, nil
}

// Option returns a site option, or def when unset.
func (s *Store) Option(key, def string) (string, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM options WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

// SetOption upserts a site option.
func (s *Store) SetOption(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO options (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// Options returns every stored option.
func (s *Store) Options() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM options`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

// AddWidget places a widget at the end of its sidebar when Position is zero.
func (s *Store) AddWidget(w theme.Widget) error {
	if w.Position == 0 {
		if err := s.db.QueryRow(`SELECT COALESCE(MAX(position), 0) + 1 FROM widgets WHERE sidebar_id = ?`, w.SidebarID).Scan(&w.Position); err != nil {
			return err
		}
	}
	_, err := s.db.Exec(`INSERT INTO widgets (sidebar_id, position, widget_id, class, title, content) VALUES (?, ?, ?, ?, ?, ?)`,
		w.SidebarID, w.Position, w.WidgetID, w.Class, w.Title, w.Content)
	return err
}

// Widgets returns every widget grouped by sidebar in display order.
func (s *Store) Widgets() (map[string][]theme.Widget, error) {
	rows, err := s.db.Query(`SELECT sidebar_id, position, widget_id, class, title, content FROM widgets ORDER BY sidebar_id, position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string][]theme.Widget{}
	for rows.Next() {
		var w theme.Widget
		if err := rows.Scan(&w.SidebarID, &w.Position, &w.WidgetID, &w.Class, &w.Title, &w.Content); err != nil {
			return nil, err
		}
		out[w.SidebarID] = append(out[w.SidebarID], w)
	}
	return out, rows.Err()
}

// AddMenuItem appends an entry to a menu location when Position is zero.
func (s *Store) AddMenuItem(m theme.MenuItem) error {
	if m.Position == 0 {
		if err := s.db.QueryRow(`SELECT COALESCE(MAX(position), 0) + 1 FROM menu_items WHERE location = ?`, m.Location).Scan(&m.Position); err != nil {
			return err
		}
	}
	_, err := s.db.Exec(`INSERT INTO menu_items (location, position, label, url) VALUES (?, ?, ?, ?)`,
		m.Location, m.Position, m.Label, m.URL)
	return err
}

// Menus returns every menu item grouped by location in display order.
func (s *Store) Menus() (map[string][]theme.MenuItem, error) {
	rows, err := s.db.Query(`SELECT location, position, label, url FROM menu_items ORDER BY location, position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string][]theme.MenuItem{}
	for rows.Next() {
		var m theme.MenuItem
		if err := rows.Scan(&m.Location, &m.Position, &m.Label, &m.URL); err != nil {
			return nil, err
		}
		out[m.Location] = append(out[m.Location], m)
	}
	return out, rows.Err()
}
