package vectorstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/karanmanglani/RiskSentinel/internal/model"
)

// PgStore persists embedded chunks in the filing_chunks table and retrieves
// them with pgvector cosine distance.
type PgStore struct {
	db         *gorm.DB
	dimensions int
}

func NewPgStore(db *gorm.DB, dimensions int) *PgStore {
	return &PgStore{db: db, dimensions: dimensions}
}

func (s *PgStore) Add(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	chunks := make([]model.FilingChunk, len(records))
	for i, rec := range records {
		if len(rec.Vector) != s.dimensions {
			return &WriteError{Got: len(rec.Vector), Want: s.dimensions}
		}
		chunks[i] = model.FilingChunk{
			Ticker:      strings.ToUpper(rec.Ticker),
			FilingType:  rec.FilingType,
			AccessionNo: rec.AccessionNo,
			ChunkIndex:  rec.ChunkIndex,
			Content:     rec.Text,
			Embedding:   pgvector.NewVector(rec.Vector),
			Metadata:    model.JSONMap(rec.Metadata),
		}
	}

	if err := s.db.WithContext(ctx).Create(&chunks).Error; err != nil {
		return &WriteError{Got: s.dimensions, Want: s.dimensions, Err: err}
	}
	return nil
}

func (s *PgStore) Query(ctx context.Context, vector []float32, k int) ([]Result, error) {
	if k <= 0 {
		k = 3
	}
	if len(vector) != s.dimensions {
		return nil, &QueryError{Err: fmt.Errorf("dimension mismatch: got %d, index has %d", len(vector), s.dimensions)}
	}

	queryVec := pgvector.NewVector(vector)

	var rows []struct {
		model.FilingChunk
		Distance float64 `gorm:"column:distance"`
	}

	// cosine distance; insertion order (created_at) breaks ties
	err := s.db.WithContext(ctx).
		Table("filing_chunks").
		Select("*, embedding <=> ? AS distance", queryVec).
		Where("embedding IS NOT NULL AND deleted_at IS NULL").
		Order("distance ASC").
		Order("created_at ASC").
		Limit(k).
		Find(&rows).Error
	if err != nil {
		return nil, &QueryError{Err: err}
	}

	results := make([]Result, 0, len(rows))
	for _, row := range rows {
		meta := map[string]interface{}(row.Metadata)
		if meta == nil {
			meta = map[string]interface{}{}
		}
		meta["ticker"] = row.Ticker
		meta["filing_type"] = row.FilingType
		meta["accession_no"] = row.AccessionNo
		results = append(results, Result{
			Text:     row.Content,
			Score:    1 - row.Distance,
			Metadata: meta,
		})
	}
	return results, nil
}

func (s *PgStore) DeleteByFiling(ctx context.Context, ticker, filingType string) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("ticker = ? AND filing_type = ?", strings.ToUpper(ticker), filingType).
		Delete(&model.FilingChunk{})
	if res.Error != nil {
		return 0, &DeleteError{Ticker: strings.ToUpper(ticker), FilingType: filingType, Err: res.Error}
	}
	return res.RowsAffected, nil
}
