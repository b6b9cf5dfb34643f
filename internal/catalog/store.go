package catalog

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/anaailiesei/EchoWave/internal/revenue"
	"github.com/anaailiesei/EchoWave/pkg/models"
)

// Store persists the content graph and the end-of-run revenue report in
// SQLite. It is safe for concurrent use because the underlying *sql.DB is
// concurrency-safe.
type Store struct {
	conn   *sql.DB
	logger *logrus.Logger

	insertTrackStmt *sql.Stmt
	trackExistsStmt *sql.Stmt
	saveRevenueStmt *sql.Stmt
}

// NewStore opens (or creates) a SQLite database at the provided path and
// ensures all required tables exist. It also applies lightweight
// performance-oriented pragmas (WAL, cache sizing). Caller should Close()
// it when finished.
func NewStore(dbPath string) (*Store, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	conn, err := sql.Open("sqlite3", dbPath+"?cache=shared&mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works better with fewer connections.
	conn.SetMaxOpenConns(5)
	conn.SetMaxIdleConns(2)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA temp_store=memory;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			logger.WithError(err).WithField("pragma", pragma).Warn("Failed to set pragma")
		}
	}

	s := &Store{conn: conn, logger: logger}
	if err := s.createTables(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	if err := s.prepareStatements(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	logger.WithField("db_path", dbPath).Info("Catalog store initialized")
	return s, nil
}

// createTables creates tables and indices if they do not already exist.
// This is idempotent and safe to call multiple times.
func (s *Store) createTables() error {
	tracksTable := `
	CREATE TABLE IF NOT EXISTS tracks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		owner TEXT NOT NULL,
		duration INTEGER NOT NULL,
		kind TEXT NOT NULL,
		genre TEXT,
		album TEXT
	);`

	collectionsTable := `
	CREATE TABLE IF NOT EXISTS collections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		owner TEXT NOT NULL,
		kind TEXT NOT NULL
	);`

	collectionTracksTable := `
	CREATE TABLE IF NOT EXISTS collection_tracks (
		collection_id INTEGER,
		track_id INTEGER,
		position INTEGER,
		FOREIGN KEY (collection_id) REFERENCES collections(id) ON DELETE CASCADE,
		FOREIGN KEY (track_id) REFERENCES tracks(id) ON DELETE CASCADE,
		PRIMARY KEY (collection_id, track_id)
	);`

	usersTable := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		premium BOOLEAN DEFAULT FALSE
	);`

	ownerRevenueTable := `
	CREATE TABLE IF NOT EXISTS owner_revenue (
		owner TEXT PRIMARY KEY,
		song_revenue REAL NOT NULL,
		most_profitable TEXT,
		ranking INTEGER NOT NULL
	);`

	indices := []string{
		"CREATE INDEX IF NOT EXISTS idx_tracks_owner ON tracks(owner);",
		"CREATE INDEX IF NOT EXISTS idx_tracks_album ON tracks(album);",
		"CREATE INDEX IF NOT EXISTS idx_collection_tracks_position ON collection_tracks(collection_id, position);",
	}

	tables := []string{tracksTable, collectionsTable, collectionTracksTable, usersTable, ownerRevenueTable}
	for _, table := range tables {
		if _, err := s.conn.Exec(table); err != nil {
			return err
		}
	}
	for _, index := range indices {
		if _, err := s.conn.Exec(index); err != nil {
			return err
		}
	}
	return nil
}

// prepareStatements prepares the hot-path statements up front.
func (s *Store) prepareStatements() error {
	var err error

	s.insertTrackStmt, err = s.conn.Prepare(`
		INSERT INTO tracks (name, owner, duration, kind, genre, album)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			owner=excluded.owner,
			duration=excluded.duration,
			kind=excluded.kind,
			genre=excluded.genre,
			album=excluded.album`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert track statement: %w", err)
	}

	s.trackExistsStmt, err = s.conn.Prepare(`SELECT COUNT(*) FROM tracks WHERE name = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare track exists statement: %w", err)
	}

	s.saveRevenueStmt, err = s.conn.Prepare(`
		INSERT INTO owner_revenue (owner, song_revenue, most_profitable, ranking)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(owner) DO UPDATE SET
			song_revenue=excluded.song_revenue,
			most_profitable=excluded.most_profitable,
			ranking=excluded.ranking`)
	if err != nil {
		return fmt.Errorf("failed to prepare save revenue statement: %w", err)
	}

	return nil
}

// ImportTrack inserts a track or updates the existing row with the same
// name, returning its database ID.
func (s *Store) ImportTrack(track models.Track) (int, error) {
	if _, err := s.insertTrackStmt.Exec(
		track.Name, track.Owner, track.Duration, track.Kind.String(), track.Genre, track.Album); err != nil {
		s.logger.WithError(err).WithField("track", track.Name).Error("Failed to import track")
		return 0, err
	}

	var id int
	if err := s.conn.QueryRow("SELECT id FROM tracks WHERE name = ?", track.Name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// TrackExists returns true if a track with the given name is stored.
func (s *Store) TrackExists(name string) (bool, error) {
	var count int
	if err := s.trackExistsStmt.QueryRow(name).Scan(&count); err != nil {
		s.logger.WithError(err).WithField("track", name).Error("Failed to check if track exists")
		return false, err
	}
	return count > 0, nil
}

// SaveCollection stores a collection and its track memberships in order.
// Tracks are imported first so the membership rows can reference them.
func (s *Store) SaveCollection(collection models.Collection) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO collections (name, owner, kind)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET owner=excluded.owner, kind=excluded.kind`,
		collection.Name, collection.Owner, collection.Kind.String()); err != nil {
		return err
	}
	var collectionID int64
	if err := tx.QueryRow("SELECT id FROM collections WHERE name = ?", collection.Name).Scan(&collectionID); err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM collection_tracks WHERE collection_id = ?", collectionID); err != nil {
		return err
	}
	for position, track := range collection.Tracks {
		if _, err := tx.Exec(`
			INSERT INTO tracks (name, owner, duration, kind, genre, album)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET
				owner=excluded.owner, duration=excluded.duration,
				kind=excluded.kind, genre=excluded.genre, album=excluded.album`,
			track.Name, track.Owner, track.Duration, track.Kind.String(), track.Genre, track.Album); err != nil {
			return err
		}
		if _, err := tx.Exec(`
			INSERT INTO collection_tracks (collection_id, track_id, position)
			SELECT ?, id, ? FROM tracks WHERE name = ?
			ON CONFLICT(collection_id, track_id) DO UPDATE SET position=excluded.position`,
			collectionID, position, track.Name); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveUser stores a listener.
func (s *Store) SaveUser(user models.User) error {
	_, err := s.conn.Exec(`
		INSERT INTO users (name, premium)
		VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET premium=excluded.premium`,
		user.Name, user.Premium)
	return err
}

// LoadGraph builds an in-memory catalog from everything stored.
func (s *Store) LoadGraph() (*Catalog, error) {
	cat := New()

	trackRows, err := s.conn.Query(`
		SELECT name, owner, duration, kind, COALESCE(genre, ''), COALESCE(album, '')
		FROM tracks ORDER BY owner, album, name`)
	if err != nil {
		return nil, err
	}
	defer trackRows.Close()
	tracksByName := make(map[string]models.Track)
	for trackRows.Next() {
		var track models.Track
		var kind string
		if err := trackRows.Scan(&track.Name, &track.Owner, &track.Duration, &kind, &track.Genre, &track.Album); err != nil {
			return nil, err
		}
		track.Kind = models.ParseTrackKind(kind)
		tracksByName[track.Name] = track
		cat.AddTrack(track)
	}
	if err := trackRows.Err(); err != nil {
		return nil, err
	}

	collectionRows, err := s.conn.Query(`
		SELECT c.name, c.owner, c.kind, t.name
		FROM collections c
		JOIN collection_tracks ct ON ct.collection_id = c.id
		JOIN tracks t ON t.id = ct.track_id
		ORDER BY c.name, ct.position`)
	if err != nil {
		return nil, err
	}
	defer collectionRows.Close()
	collections := make(map[string]*models.Collection)
	var order []string
	for collectionRows.Next() {
		var name, owner, kind, trackName string
		if err := collectionRows.Scan(&name, &owner, &kind, &trackName); err != nil {
			return nil, err
		}
		collection, ok := collections[name]
		if !ok {
			collection = &models.Collection{Name: name, Owner: owner, Kind: models.ParseCollectionKind(kind)}
			collections[name] = collection
			order = append(order, name)
		}
		if track, ok := tracksByName[trackName]; ok {
			collection.Tracks = append(collection.Tracks, track)
		}
	}
	if err := collectionRows.Err(); err != nil {
		return nil, err
	}
	for _, name := range order {
		cat.AddCollection(*collections[name])
	}

	userRows, err := s.conn.Query(`SELECT name, premium FROM users ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer userRows.Close()
	for userRows.Next() {
		var user models.User
		if err := userRows.Scan(&user.Name, &user.Premium); err != nil {
			return nil, err
		}
		cat.AddUser(user)
	}
	if err := userRows.Err(); err != nil {
		return nil, err
	}

	return cat, nil
}

// SaveRevenue persists the end-of-run revenue report, replacing earlier
// rows for the same owners.
func (s *Store) SaveRevenue(reports []revenue.OwnerReport) error {
	for _, report := range reports {
		if _, err := s.saveRevenueStmt.Exec(
			report.Owner, report.SongRevenue, report.MostProfitable, report.Ranking); err != nil {
			s.logger.WithError(err).WithField("owner", report.Owner).Error("Failed to save revenue")
			return err
		}
	}
	return nil
}

// Close closes the prepared statements and the database connection.
func (s *Store) Close() error {
	statements := []*sql.Stmt{s.insertTrackStmt, s.trackExistsStmt, s.saveRevenueStmt}
	for _, stmt := range statements {
		if stmt != nil {
			if err := stmt.Close(); err != nil {
				s.logger.WithError(err).Error("Failed to close prepared statement")
			}
		}
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
