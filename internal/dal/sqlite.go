package dal

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/statlive/matchview-ui/internal/models"
)

// SQLiteDAL implements MatchDAL using SQLite
type SQLiteDAL struct {
	db *sql.DB
}

// NewSQLiteDAL creates a new SQLite data access layer
func NewSQLiteDAL(dbPath string) (*SQLiteDAL, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	dal := &SQLiteDAL{db: db}
	if err := dal.initSchema(); err != nil {
		return nil, err
	}
	return dal, nil
}

func (s *SQLiteDAL) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS matches (
		id TEXT PRIMARY KEY,
		home_team TEXT NOT NULL,
		away_team TEXT NOT NULL,
		score_home INTEGER NOT NULL,
		score_away INTEGER NOT NULL,
		time TEXT NOT NULL,
		league TEXT NOT NULL,
		red_cards TEXT NOT NULL,
		stats TEXT NOT NULL,
		position INTEGER NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// Seed default data if empty
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM matches").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		if err := s.seedData(); err != nil {
			return err
		}
	}

	return nil
}

func (s *SQLiteDAL) seedData() error {
	for i, match := range seedMatches() {
		redCards, err := json.Marshal(match.RedCards)
		if err != nil {
			return fmt.Errorf("failed to marshal red cards: %w", err)
		}
		stats, err := json.Marshal(match.Stats)
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}

		_, err = s.db.Exec(`
			INSERT INTO matches (id, home_team, away_team, score_home, score_away, time, league, red_cards, stats, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, match.ID, match.HomeTeam, match.AwayTeam, match.Score.Home, match.Score.Away,
			match.Time, match.League, string(redCards), string(stats), i)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteDAL) scanMatch(row interface{ Scan(...any) error }) (*models.MatchData, error) {
	var match models.MatchData
	var redCardsJSON, statsJSON string

	err := row.Scan(&match.ID, &match.HomeTeam, &match.AwayTeam, &match.Score.Home, &match.Score.Away,
		&match.Time, &match.League, &redCardsJSON, &statsJSON)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(redCardsJSON), &match.RedCards); err != nil {
		return nil, fmt.Errorf("failed to unmarshal red cards for %s: %w", match.ID, err)
	}
	match.Stats = make(map[models.StatKey]models.StatEntry)
	if err := json.Unmarshal([]byte(statsJSON), &match.Stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats for %s: %w", match.ID, err)
	}

	return &match, nil
}

func (s *SQLiteDAL) GetMatch(id string) (*models.MatchData, error) {
	row := s.db.QueryRow(`
		SELECT id, home_team, away_team, score_home, score_away, time, league, red_cards, stats
		FROM matches WHERE id = ?
	`, id)

	match, err := s.scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("match %q not found", id)
	}
	return match, err
}

func (s *SQLiteDAL) DefaultMatch() (*models.MatchData, error) {
	return s.GetMatch(DefaultMatchID)
}

func (s *SQLiteDAL) ListMatches() ([]models.MatchData, error) {
	rows, err := s.db.Query(`
		SELECT id, home_team, away_team, score_home, score_away, time, league, red_cards, stats
		FROM matches ORDER BY position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := []models.MatchData{}
	for rows.Next() {
		match, err := s.scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *match)
	}
	return matches, rows.Err()
}

func (s *SQLiteDAL) Reset() error {
	if _, err := s.db.Exec("DELETE FROM matches"); err != nil {
		return err
	}
	return s.seedData()
}

func (s *SQLiteDAL) Close() error {
	return s.db.Close()
}
