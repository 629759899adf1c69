package model

import (
	"github.com/pgvector/pgvector-go"
)

// FilingChunk is one embedded text segment of an ingested SEC filing.
// The embedding column dimension matches the default embedding model
// (all-MiniLM-L6-v2 / text-embedding-3-small at 384 dimensions); changing
// EMBEDDING_DIMENSIONS requires a manual column migration.
type FilingChunk struct {
	BaseModel
	Ticker      string          `gorm:"size:20;not null;index" json:"ticker"`
	FilingType  string          `gorm:"size:20;not null;index" json:"filing_type"`
	AccessionNo string          `gorm:"size:30;index" json:"accession_no"`
	ChunkIndex  int             `gorm:"default:0" json:"chunk_index"`
	Content     string          `gorm:"type:text;not null" json:"content"`
	Embedding   pgvector.Vector `gorm:"type:vector(384)" json:"-"`
	Metadata    JSONMap         `gorm:"type:jsonb" json:"metadata"`
}

func (FilingChunk) TableName() string {
	return "filing_chunks"
}
