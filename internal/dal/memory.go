package dal

import (
	"fmt"
	"sync"

	"github.com/statlive/matchview-ui/internal/models"
)

// DefaultMatchID is the id of the built-in sample fixture
const DefaultMatchID = "L1-2024-OM-OL"

// MemoryDAL implements MatchDAL using in-memory storage
type MemoryDAL struct {
	mu      sync.RWMutex
	matches map[string]models.MatchData
	order   []string
}

// NewMemoryDAL creates a new in-memory data access layer seeded with the
// default sample match
func NewMemoryDAL() *MemoryDAL {
	dal := &MemoryDAL{}
	dal.seed()
	return dal
}

func (m *MemoryDAL) seed() {
	m.matches = make(map[string]models.MatchData)
	m.order = nil
	for _, match := range seedMatches() {
		m.matches[match.ID] = match
		m.order = append(m.order, match.ID)
	}
}

func (m *MemoryDAL) GetMatch(id string) (*models.MatchData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	match, ok := m.matches[id]
	if !ok {
		return nil, fmt.Errorf("match %q not found", id)
	}
	// Copy so callers can never mutate the stored record
	out := match
	out.Stats = copyStats(match.Stats)
	return &out, nil
}

func (m *MemoryDAL) DefaultMatch() (*models.MatchData, error) {
	return m.GetMatch(DefaultMatchID)
}

func (m *MemoryDAL) ListMatches() ([]models.MatchData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.MatchData, 0, len(m.order))
	for _, id := range m.order {
		match := m.matches[id]
		match.Stats = copyStats(match.Stats)
		out = append(out, match)
	}
	return out, nil
}

func (m *MemoryDAL) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seed()
	return nil
}

func (m *MemoryDAL) Close() error {
	return nil
}

func copyStats(stats map[models.StatKey]models.StatEntry) map[models.StatKey]models.StatEntry {
	out := make(map[models.StatKey]models.StatEntry, len(stats))
	for k, v := range stats {
		if v.Odds != nil {
			odds := *v.Odds
			v.Odds = &odds
		}
		out[k] = v
	}
	return out
}

// seedMatches returns the built-in fixtures. The OM-OL match is the default
// sample shown when no match id is supplied.
func seedMatches() []models.MatchData {
	return []models.MatchData{
		{
			ID:       DefaultMatchID,
			HomeTeam: "OM",
			AwayTeam: "OL",
			Score:    models.Score{Home: 3, Away: 2},
			Time:     "87'",
			League:   "Ligue 1 Uber Eats",
			RedCards: models.RedCards{
				Home:        1,
				Away:        0,
				HomePlayers: []string{"Leonardo Balerdi"},
			},
			Stats: map[models.StatKey]models.StatEntry{
				models.StatPossession: {
					Home: 65,
					Away: 35,
					Algorithm: "Calculé en temps réel basé sur le temps de contrôle effectif du ballon via computer vision " +
						"et machine learning. Notre système utilise des caméras haute définition pour suivre la position du " +
						"ballon et des joueurs, permettant une analyse précise de la possession.",
					Odds:  &models.Odds{Home: 1.85, Draw: 3.40, Away: 4.20},
					Trend: models.TrendUp,
				},
				models.StatShots: {
					Home: 18,
					Away: 4,
					Algorithm: "Détection automatique des tirs via analyse vidéo et intelligence artificielle. Notre système " +
						"reconnaît les mouvements caractéristiques des tirs et utilise des capteurs de vitesse pour mesurer la puissance.",
					Odds:      &models.Odds{Home: 1.95, Draw: 3.50, Away: 3.80},
					Suspended: true,
				},
				models.StatPasses: {
					Home: 385,
					Away: 198,
					Algorithm: "Comptage des échanges de balle réussis entre coéquipiers grâce à notre système de tracking " +
						"optique avancé. L'IA analyse les trajectoires du ballon pour identifier les passes intentionnelles.",
					Odds:  &models.Odds{Home: 1.75, Draw: 3.60, Away: 4.50},
					Trend: models.TrendStable,
				},
				models.StatXG: {
					Home: 5.24,
					Away: 1.12,
					Algorithm: "Expected Goals (xG) calculé en temps réel en utilisant le machine learning. Notre modèle " +
						"analyse la position du tir, l'angle, la pression des défenseurs et l'historique des situations similaires.",
					Odds: &models.Odds{Home: 1.90, Draw: 3.45, Away: 4.10},
				},
				models.StatCorners: {
					Home: 9,
					Away: 2,
					Algorithm: "Détection automatique des corners via notre système de tracking vidéo. Les caméras suivent " +
						"la sortie du ballon et sa position exacte sur le terrain.",
					Odds:  &models.Odds{Home: 2.10, Draw: 3.20, Away: 3.60},
					Trend: models.TrendDown,
				},
				models.StatFouls: {
					Home: 8,
					Away: 15,
					Algorithm: "Analyse en temps réel des contacts entre joueurs via notre système de computer vision. " +
						"L'IA évalue l'intensité et la nature des contacts pour identifier les fautes.",
					Odds: &models.Odds{Home: 2.25, Draw: 3.30, Away: 3.15},
				},
			},
		},
	}
}
