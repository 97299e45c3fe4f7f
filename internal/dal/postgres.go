package dal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/statlive/matchview-ui/internal/models"
)

// PostgresDAL implements MatchDAL using PostgreSQL
type PostgresDAL struct {
	db *sql.DB
}

// NewPostgresDAL creates a new PostgreSQL data access layer
func NewPostgresDAL(connString string) (*PostgresDAL, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	// Pool settings sized for a small managed cluster
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	// Retry the initial ping: in Kubernetes the database DNS name may take
	// a few seconds to propagate after a rollout
	maxRetries := 5
	retryDelay := 5 * time.Second
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		err := db.PingContext(ctx)
		cancel()

		if err == nil {
			lastErr = nil
			break
		}

		lastErr = err
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("failed to ping postgres after %d retries: %w", maxRetries, lastErr)
	}

	dal := &PostgresDAL{db: db}
	if err := dal.initSchema(); err != nil {
		return nil, err
	}
	return dal, nil
}

func (p *PostgresDAL) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS matches (
		id TEXT PRIMARY KEY,
		home_team TEXT NOT NULL,
		away_team TEXT NOT NULL,
		score_home INTEGER NOT NULL,
		score_away INTEGER NOT NULL,
		time TEXT NOT NULL,
		league TEXT NOT NULL,
		red_cards JSONB NOT NULL,
		stats JSONB NOT NULL,
		position INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS images (
		path TEXT PRIMARY KEY,
		data BYTEA NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err := p.db.Exec(schema); err != nil {
		return err
	}

	var count int
	if err := p.db.QueryRow("SELECT COUNT(*) FROM matches").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		if err := p.seedData(); err != nil {
			return err
		}
	}

	return nil
}

func (p *PostgresDAL) seedData() error {
	for i, match := range seedMatches() {
		redCards, err := json.Marshal(match.RedCards)
		if err != nil {
			return fmt.Errorf("failed to marshal red cards: %w", err)
		}
		stats, err := json.Marshal(match.Stats)
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}

		_, err = p.db.Exec(`
			INSERT INTO matches (id, home_team, away_team, score_home, score_away, time, league, red_cards, stats, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, match.ID, match.HomeTeam, match.AwayTeam, match.Score.Home, match.Score.Away,
			match.Time, match.League, string(redCards), string(stats), i)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *PostgresDAL) scanMatch(row interface{ Scan(...any) error }) (*models.MatchData, error) {
	var match models.MatchData
	var redCardsJSON, statsJSON []byte

	err := row.Scan(&match.ID, &match.HomeTeam, &match.AwayTeam, &match.Score.Home, &match.Score.Away,
		&match.Time, &match.League, &redCardsJSON, &statsJSON)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(redCardsJSON, &match.RedCards); err != nil {
		return nil, fmt.Errorf("failed to unmarshal red cards for %s: %w", match.ID, err)
	}
	match.Stats = make(map[models.StatKey]models.StatEntry)
	if err := json.Unmarshal(statsJSON, &match.Stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats for %s: %w", match.ID, err)
	}

	return &match, nil
}

func (p *PostgresDAL) GetMatch(id string) (*models.MatchData, error) {
	row := p.db.QueryRow(`
		SELECT id, home_team, away_team, score_home, score_away, time, league, red_cards, stats
		FROM matches WHERE id = $1
	`, id)

	match, err := p.scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("match %q not found", id)
	}
	return match, err
}

func (p *PostgresDAL) DefaultMatch() (*models.MatchData, error) {
	return p.GetMatch(DefaultMatchID)
}

func (p *PostgresDAL) ListMatches() ([]models.MatchData, error) {
	rows, err := p.db.Query(`
		SELECT id, home_team, away_team, score_home, score_away, time, league, red_cards, stats
		FROM matches ORDER BY position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := []models.MatchData{}
	for rows.Next() {
		match, err := p.scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *match)
	}
	return matches, rows.Err()
}

func (p *PostgresDAL) Reset() error {
	if _, err := p.db.Exec("DELETE FROM matches"); err != nil {
		return err
	}
	return p.seedData()
}

func (p *PostgresDAL) Close() error {
	return p.db.Close()
}
