package db

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rawblock/ethtrace-engine/internal/heuristics"
)

// schemaSQL is compiled into the binary at build time.
// This ensures schema init works inside the Docker runtime image which
// does not copy internal/db/schema.sql into the final stage.
//
//go:embed schema.sql
var schemaSQL string

type PostgresStore struct {
	pool *pgxpool.Pool
}

// Connect initializes the connection pool to PostgreSQL using pgx
func Connect(connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping failed: %v", err)
	}

	log.Println("Successfully connected to PostgreSQL for Trace Engine")
	return &PostgresStore{pool: pool}, nil
}

// Close gracefully closes the connection pool
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InitSchema executes the embedded schema.sql DDL statements.
func (s *PostgresStore) InitSchema() error {
	_, err := s.pool.Exec(context.Background(), schemaSQL)
	if err != nil {
		return fmt.Errorf("failed to execute schema migrations: %v", err)
	}

	log.Println("Trace Engine schema initialized")
	return nil
}

// SaveRiskAssessment persists the composite risk verdict for an
// analyzed address. One row per address, newest analysis wins.
func (s *PostgresStore) SaveRiskAssessment(ctx context.Context, result heuristics.PatternResult, mixerDetected, poisoningDetected bool) error {
	factors, err := json.Marshal(result.RiskFactors)
	if err != nil {
		return err
	}

	sql := `
		INSERT INTO risk_assessments
			(address, risk_score, risk_level, total_transactions,
			 ether_sent, ether_received, mixer_detected, poisoning_detected, risk_factors)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (address) DO UPDATE SET
			risk_score = EXCLUDED.risk_score,
			risk_level = EXCLUDED.risk_level,
			total_transactions = EXCLUDED.total_transactions,
			ether_sent = EXCLUDED.ether_sent,
			ether_received = EXCLUDED.ether_received,
			mixer_detected = EXCLUDED.mixer_detected,
			poisoning_detected = EXCLUDED.poisoning_detected,
			risk_factors = EXCLUDED.risk_factors,
			analyzed_at = NOW();
	`
	_, err = s.pool.Exec(ctx, sql, result.Address, result.RiskScore, result.RiskLevel,
		result.TotalTransactions, result.TotalEtherSent, result.TotalEtherReceived,
		mixerDetected, poisoningDetected, factors)
	return err
}

// RiskHistoryEntry is a stored risk assessment row.
type RiskHistoryEntry struct {
	Address           string   `json:"address"`
	RiskScore         int      `json:"riskScore"`
	RiskLevel         string   `json:"riskLevel"`
	TotalTransactions int      `json:"totalTransactions"`
	MixerDetected     bool     `json:"mixerDetected"`
	PoisoningDetected bool     `json:"poisoningDetected"`
	RiskFactors       []string `json:"riskFactors"`
}

// GetRiskAssessment loads the stored assessment for an address.
func (s *PostgresStore) GetRiskAssessment(ctx context.Context, address string) (*RiskHistoryEntry, error) {
	sql := `
		SELECT address, risk_score, risk_level, total_transactions,
		       mixer_detected, poisoning_detected, risk_factors
		FROM risk_assessments
		WHERE address = $1;
	`
	var entry RiskHistoryEntry
	var factors []byte
	err := s.pool.QueryRow(ctx, sql, address).Scan(
		&entry.Address, &entry.RiskScore, &entry.RiskLevel, &entry.TotalTransactions,
		&entry.MixerDetected, &entry.PoisoningDetected, &factors)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(factors, &entry.RiskFactors); err != nil {
		entry.RiskFactors = []string{}
	}
	return &entry, nil
}

// GetHighRiskAddresses returns stored assessments at or above a score.
func (s *PostgresStore) GetHighRiskAddresses(ctx context.Context, minScore, limit int) ([]RiskHistoryEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	sql := `
		SELECT address, risk_score, risk_level, total_transactions,
		       mixer_detected, poisoning_detected, risk_factors
		FROM risk_assessments
		WHERE risk_score >= $1
		ORDER BY risk_score DESC, analyzed_at DESC
		LIMIT $2;
	`
	rows, err := s.pool.Query(ctx, sql, minScore, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]RiskHistoryEntry, 0)
	for rows.Next() {
		var entry RiskHistoryEntry
		var factors []byte
		if err := rows.Scan(&entry.Address, &entry.RiskScore, &entry.RiskLevel,
			&entry.TotalTransactions, &entry.MixerDetected, &entry.PoisoningDetected, &factors); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(factors, &entry.RiskFactors); err != nil {
			entry.RiskFactors = []string{}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// SaveInvestigation upserts investigation metadata for durable case storage.
func (s *PostgresStore) SaveInvestigation(ctx context.Context, inv *heuristics.Investigation) error {
	sql := `
		INSERT INTO investigations (case_id, name, description, total_stolen, total_recovered, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (case_id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			total_stolen = EXCLUDED.total_stolen,
			total_recovered = EXCLUDED.total_recovered,
			status = EXCLUDED.status,
			updated_at = NOW();
	`
	_, err := s.pool.Exec(ctx, sql, inv.ID, inv.Name, inv.Description,
		inv.TotalStolen, inv.TotalRecovered, inv.Status)
	return err
}

// SaveInvestigationAddress upserts an investigation-tagged address.
func (s *PostgresStore) SaveInvestigationAddress(ctx context.Context, caseID, address, label, role, notes, taggedBy string) error {
	sql := `
		WITH target AS (
			SELECT id FROM investigations WHERE case_id = $1
		)
		INSERT INTO investigation_addresses
			(investigation_id, address, label, role, notes, tagged_by, tagged_at)
		SELECT target.id, $2, $3, $4, $5, $6, NOW()
		FROM target
		ON CONFLICT (investigation_id, address) DO UPDATE SET
			label = EXCLUDED.label,
			role = EXCLUDED.role,
			notes = EXCLUDED.notes,
			tagged_by = EXCLUDED.tagged_by,
			tagged_at = NOW();
	`
	result, err := s.pool.Exec(ctx, sql, caseID, address, label, role, notes, taggedBy)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("investigation case_id not found: %s", caseID)
	}
	return nil
}

type InvestigationSeed struct {
	CaseID  string
	Name    string
	Address string
	Role    string
	Label   string
}

// LoadActiveInvestigationSeeds loads active tagged addresses for
// warm-starting the watchlist on process boot.
func (s *PostgresStore) LoadActiveInvestigationSeeds(ctx context.Context) ([]InvestigationSeed, error) {
	sql := `
		SELECT i.case_id, i.name, a.address, a.role, COALESCE(a.label, '')
		FROM investigations i
		JOIN investigation_addresses a ON a.investigation_id = i.id
		WHERE i.status = 'active';
	`
	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seeds := make([]InvestigationSeed, 0)
	for rows.Next() {
		var seed InvestigationSeed
		if err := rows.Scan(&seed.CaseID, &seed.Name, &seed.Address, &seed.Role, &seed.Label); err != nil {
			return nil, err
		}
		seeds = append(seeds, seed)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return seeds, nil
}

// SaveWatchlistEntry persists a monitored address.
func (s *PostgresStore) SaveWatchlistEntry(ctx context.Context, entry heuristics.WatchedAddress) error {
	sql := `
		INSERT INTO watchlist (address, category, label, case_id, alert_level, added_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (address) DO UPDATE SET
			category = EXCLUDED.category,
			label = EXCLUDED.label,
			case_id = EXCLUDED.case_id,
			alert_level = EXCLUDED.alert_level;
	`
	_, err := s.pool.Exec(ctx, sql, entry.Address, entry.Category, entry.Label,
		entry.CaseID, entry.AlertLevel, entry.AddedAt)
	return err
}

// DeleteWatchlistEntry removes a monitored address.
func (s *PostgresStore) DeleteWatchlistEntry(ctx context.Context, address string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM watchlist WHERE address = $1`, address)
	return err
}

// LoadWatchlist returns all persisted watchlist entries.
func (s *PostgresStore) LoadWatchlist(ctx context.Context) ([]heuristics.WatchedAddress, error) {
	sql := `
		SELECT address, category, COALESCE(label, ''), COALESCE(case_id, ''), alert_level, added_at
		FROM watchlist;
	`
	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]heuristics.WatchedAddress, 0)
	for rows.Next() {
		var entry heuristics.WatchedAddress
		if err := rows.Scan(&entry.Address, &entry.Category, &entry.Label,
			&entry.CaseID, &entry.AlertLevel, &entry.AddedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// SaveAlert stores an emitted alert for durable history.
func (s *PostgresStore) SaveAlert(ctx context.Context, alert heuristics.Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return err
	}

	sql := `
		INSERT INTO alerts (id, severity, alert_type, title, address, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING;
	`
	_, err = s.pool.Exec(ctx, sql, alert.ID, alert.Severity, alert.AlertType,
		alert.Title, alert.Address, payload, alert.Timestamp)
	return err
}
