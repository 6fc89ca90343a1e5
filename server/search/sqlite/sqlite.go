// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/glebarez/sqlite"
	"github.com/vudl/hierarchy/server/types"
	"github.com/vudl/hierarchy/utils/logging"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const insertBatchSize = 500

var logger = logging.Logger("search/sqlite")

type document struct {
	ID   string `gorm:"primaryKey"`
	Body string
}

func (document) TableName() string { return "documents" }

type documentValue struct {
	ID         uint   `gorm:"primaryKey"`
	DocumentID string `gorm:"index"`
	Field      string `gorm:"index:idx_field_value"`
	Value      string `gorm:"index:idx_field_value"`
}

func (documentValue) TableName() string { return "document_values" }

type Index struct {
	db *gorm.DB
}

// New opens the search database at path. Use ":memory:" for a private in-memory index.
func New(path string) (*Index, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open search database: %w", err)
	}

	if path == ":memory:" {
		// every new connection would open a different database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database handle: %w", err)
		}

		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&document{}, &documentValue{}); err != nil {
		return nil, fmt.Errorf("failed to migrate search database: %w", err)
	}

	logger.Debug("Opened search database", "path", path)

	return &Index{db: db}, nil
}

func (s *Index) Index(ctx context.Context, doc types.Document) error {
	id := doc.ID()
	if id == "" {
		return status.Errorf(codes.InvalidArgument, "invalid document: missing id")
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "failed to encode document: %v", err)
	}

	values := documentValues(id, doc)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&documentValue{}).Error; err != nil {
			return err
		}

		if err := tx.Save(&document{ID: id, Body: string(body)}).Error; err != nil {
			return err
		}

		if len(values) == 0 {
			return nil
		}

		return tx.CreateInBatches(values, insertBatchSize).Error
	})
	if err != nil {
		return status.Errorf(codes.Internal, "failed to index document %s: %v", id, err)
	}

	logger.Debug("Indexed document", "id", id, "values", len(values))

	return nil
}

func (s *Index) Delete(ctx context.Context, id string) error {
	if id == "" {
		return status.Errorf(codes.InvalidArgument, "invalid document: missing id")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&documentValue{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", id).Delete(&document{}).Error
	})
	if err != nil {
		return status.Errorf(codes.Internal, "failed to delete document %s: %v", id, err)
	}

	return nil
}

func (s *Index) Get(ctx context.Context, id string) (types.Document, error) {
	var row document

	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, status.Errorf(codes.NotFound, "document not found: %s", id)
	}

	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to read document %s: %v", id, err)
	}

	doc := types.Document{}
	if err := json.Unmarshal([]byte(row.Body), &doc); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to decode document %s: %v", id, err)
	}

	return doc, nil
}

func (s *Index) Find(ctx context.Context, field, value string) ([]string, error) {
	return s.Match(ctx, types.Term{Field: field, Value: value})
}

func (s *Index) Match(ctx context.Context, terms ...types.Term) ([]string, error) {
	db := s.db.WithContext(ctx)
	// without terms every stored document matches
	q := db.Model(&document{})

	for _, term := range terms {
		sub := db.Model(&documentValue{}).
			Select("document_id").
			Where("field = ? AND value = ?", term.Field, term.Value)
		q = q.Where("id IN (?)", sub)
	}

	var ids []string
	if err := q.Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, status.Errorf(codes.Internal, "failed to query documents: %v", err)
	}

	return ids, nil
}

func (s *Index) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}

	return sqlDB.Close() //nolint:wrapcheck
}

func documentValues(id string, doc types.Document) []documentValue {
	fields := make([]string, 0, len(doc))
	for field := range doc {
		fields = append(fields, field)
	}

	sort.Strings(fields)

	var values []documentValue

	for _, field := range fields {
		seen := make(map[string]struct{})

		for _, value := range doc.Strings(field) {
			if _, ok := seen[value]; ok {
				continue
			}

			seen[value] = struct{}{}

			values = append(values, documentValue{DocumentID: id, Field: field, Value: value})
		}
	}

	return values
}
