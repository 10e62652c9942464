package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arkmentor/arkmentor/internal/risk"
)

// PredictionRepo persists risk predictions as append-only history. The
// string-slice fields are stored as JSON arrays.
type PredictionRepo struct {
	db *sql.DB
}

// SavePrediction appends one prediction.
func (r *PredictionRepo) SavePrediction(ctx context.Context, p *risk.RiskPrediction) error {
	primary, err := json.Marshal(emptyIfNil(p.PrimaryRiskFactors))
	if err != nil {
		return fmt.Errorf("encode prediction: %w", err)
	}
	protective, _ := json.Marshal(emptyIfNil(p.ProtectiveFactors))
	interventions, _ := json.Marshal(emptyIfNil(p.RecommendedInterventions))
	flags, _ := json.Marshal(emptyIfNil(p.EarlyWarningFlags))

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO risk_predictions
			(id, student_id, prediction_date, dropout_risk_score,
			 burnout_risk_score, disengagement_risk_score, risk_level,
			 primary_risk_factors, protective_factors,
			 recommended_interventions, early_warning_flags,
			 confidence_score, model_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.StudentID,
		p.PredictionDate.UTC().Format(time.RFC3339),
		p.DropoutRiskScore,
		p.BurnoutRiskScore,
		p.DisengagementRiskScore,
		string(p.RiskLevel),
		string(primary),
		string(protective),
		string(interventions),
		string(flags),
		p.ConfidenceScore,
		p.ModelVersion,
	)
	if err != nil {
		return fmt.Errorf("save risk prediction: %w", err)
	}
	return nil
}

// LatestPrediction returns the student's most recent prediction, or nil
// when none exists.
func (r *PredictionRepo) LatestPrediction(ctx context.Context, studentID string) (*risk.RiskPrediction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, student_id, prediction_date, dropout_risk_score,
		       burnout_risk_score, disengagement_risk_score, risk_level,
		       primary_risk_factors, protective_factors,
		       recommended_interventions, early_warning_flags,
		       confidence_score, model_version
		FROM risk_predictions
		WHERE student_id = ?
		ORDER BY prediction_date DESC
		LIMIT 1`, studentID)

	var p risk.RiskPrediction
	var date, level, primary, protective, interventions, flags string
	err := row.Scan(
		&p.ID, &p.StudentID, &date, &p.DropoutRiskScore,
		&p.BurnoutRiskScore, &p.DisengagementRiskScore, &level,
		&primary, &protective, &interventions, &flags,
		&p.ConfidenceScore, &p.ModelVersion,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query risk prediction: %w", err)
	}

	p.PredictionDate, _ = time.Parse(time.RFC3339, date)
	p.RiskLevel = risk.RiskLevel(level)
	if err := decodeList(primary, &p.PrimaryRiskFactors); err != nil {
		return nil, err
	}
	if err := decodeList(protective, &p.ProtectiveFactors); err != nil {
		return nil, err
	}
	if err := decodeList(interventions, &p.RecommendedInterventions); err != nil {
		return nil, err
	}
	if err := decodeList(flags, &p.EarlyWarningFlags); err != nil {
		return nil, err
	}
	return &p, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func decodeList(raw string, dst *[]string) error {
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("decode prediction list: %w", err)
	}
	return nil
}
