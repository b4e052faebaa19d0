// Package store persists imported assets in a SQLite database, grouped into
// folders.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ironsheep/pixelkit/internal/importer"
	"github.com/ironsheep/pixelkit/internal/palette"
)

// ErrNotFound is returned when no asset matches a folder and name.
var ErrNotFound = errors.New("asset not found")

var schema = []string{
	"CREATE TABLE IF NOT EXISTS folder (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE)",
	"CREATE TABLE IF NOT EXISTS asset (id INTEGER PRIMARY KEY NOT NULL, folder_id INTEGER NOT NULL, name TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, scale INTEGER NOT NULL, original_colors INTEGER NOT NULL, colors TEXT NOT NULL, png BLOB NOT NULL, UNIQUE(folder_id, name), FOREIGN KEY(folder_id) REFERENCES folder(id))",
	"CREATE TABLE IF NOT EXISTS color_count (asset_id INTEGER NOT NULL, color TEXT NOT NULL, count INTEGER NOT NULL, UNIQUE(asset_id, color), FOREIGN KEY(asset_id) REFERENCES asset(id) ON DELETE CASCADE)",
}

// AssetDB is a SQLite-backed asset library.
type AssetDB struct {
	db *sql.DB
}

// Summary describes a stored asset without its pixels.
type Summary struct {
	ID         int64  `json:"id"`
	Folder     string `json:"folder"`
	Name       string `json:"name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	ColorCount int    `json:"color_count"`
}

// Open opens or creates the database at file. Use ":memory:" for a
// throwaway database.
func Open(file string) (*AssetDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return &AssetDB{db: db}, nil
}

// Close closes the database.
func (a *AssetDB) Close() error {
	return a.db.Close()
}

func (a *AssetDB) folderID(tx *sql.Tx, name string) (int64, error) {
	var id int64
	switch err := tx.QueryRow("SELECT id FROM folder WHERE name = ?", name).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := tx.Exec("INSERT INTO folder (name) VALUES (?)", name)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// Put stores rec under rec.Folder and rec.Name, replacing any asset already
// there, and returns its id.
func (a *AssetDB) Put(rec *importer.Record) (int64, error) {
	tx, err := a.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	folder, err := a.folderID(tx, rec.Folder)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve folder %q: %w", rec.Folder, err)
	}

	if _, err := tx.Exec("DELETE FROM asset WHERE folder_id = ? AND name = ?", folder, rec.Name); err != nil {
		return 0, err
	}

	result, err := tx.Exec("INSERT INTO asset (folder_id, name, width, height, scale, original_colors, colors, png) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		folder, rec.Name, rec.Width, rec.Height, rec.Scale, rec.OriginalColorCount, joinColors(rec.Colors), rec.PNG)
	if err != nil {
		return 0, fmt.Errorf("failed to insert asset %q: %w", rec.Name, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for c, n := range rec.ColorMap {
		if _, err := tx.Exec("INSERT INTO color_count (asset_id, color, count) VALUES (?, ?, ?)", id, string(c), n); err != nil {
			return 0, err
		}
	}

	return id, tx.Commit()
}

// Get loads the asset called name in folder.
func (a *AssetDB) Get(folder, name string) (*importer.Record, error) {
	rec := &importer.Record{Folder: folder, Name: name}
	var id int64
	var colors string
	err := a.db.QueryRow("SELECT a.id, a.width, a.height, a.scale, a.original_colors, a.colors, a.png FROM asset AS a JOIN folder AS f ON a.folder_id = f.id WHERE f.name = ? AND a.name = ?", folder, name).
		Scan(&id, &rec.Width, &rec.Height, &rec.Scale, &rec.OriginalColorCount, &colors, &rec.PNG)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("%s/%s: %w", folder, name, ErrNotFound)
	case err != nil:
		return nil, err
	}
	rec.Colors = splitColors(colors)

	rows, err := a.db.Query("SELECT color, count FROM color_count WHERE asset_id = ?", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rec.ColorMap = make(palette.ColorMap)
	for rows.Next() {
		var c string
		var n int
		if err := rows.Scan(&c, &n); err != nil {
			return nil, err
		}
		rec.ColorMap[palette.Color(c)] = n
	}
	return rec, rows.Err()
}

// List returns the assets in folder ordered by name, or every asset ordered
// by folder and name when folder is empty.
func (a *AssetDB) List(folder string) ([]Summary, error) {
	query := "SELECT a.id, f.name, a.name, a.width, a.height, a.colors FROM asset AS a JOIN folder AS f ON a.folder_id = f.id"
	var args []any
	if folder != "" {
		query += " WHERE f.name = ?"
		args = append(args, folder)
	}
	query += " ORDER BY f.name, a.name"

	rows, err := a.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		var colors string
		if err := rows.Scan(&s.ID, &s.Folder, &s.Name, &s.Width, &s.Height, &colors); err != nil {
			return nil, err
		}
		s.ColorCount = len(splitColors(colors))
		out = append(out, s)
	}
	return out, rows.Err()
}

// Folders returns the names of folders that hold at least one asset.
func (a *AssetDB) Folders() ([]string, error) {
	rows, err := a.db.Query("SELECT DISTINCT f.name FROM folder AS f JOIN asset AS a ON a.folder_id = f.id ORDER BY f.name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// Delete removes the asset called name from folder.
func (a *AssetDB) Delete(folder, name string) error {
	result, err := a.db.Exec("DELETE FROM asset WHERE name = ? AND folder_id = (SELECT id FROM folder WHERE name = ?)", name, folder)
	if err != nil {
		return err
	}
	return expectOne(result, folder, name)
}

// Move re-files an asset into another folder, replacing any asset of the
// same name already there.
func (a *AssetDB) Move(folder, name, to string) error {
	tx, err := a.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	dst, err := a.folderID(tx, to)
	if err != nil {
		return fmt.Errorf("failed to resolve folder %q: %w", to, err)
	}
	if _, err := tx.Exec("DELETE FROM asset WHERE folder_id = ? AND name = ? AND folder_id != (SELECT id FROM folder WHERE name = ?)", dst, name, folder); err != nil {
		return err
	}
	result, err := tx.Exec("UPDATE asset SET folder_id = ? WHERE name = ? AND folder_id = (SELECT id FROM folder WHERE name = ?)", dst, name, folder)
	if err != nil {
		return err
	}
	if err := expectOne(result, folder, name); err != nil {
		return err
	}
	return tx.Commit()
}

func expectOne(result sql.Result, folder, name string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s/%s: %w", folder, name, ErrNotFound)
	}
	return nil
}

func joinColors(colors []palette.Color) string {
	parts := make([]string, len(colors))
	for i, c := range colors {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}

func splitColors(s string) []palette.Color {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]palette.Color, len(parts))
	for i, p := range parts {
		out[i] = palette.Color(p)
	}
	return out
}
