// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-journal-vault/internal/app"
	"github.com/MKhiriev/go-journal-vault/internal/crypto"
	"github.com/MKhiriev/go-journal-vault/internal/logger"
	"github.com/MKhiriev/go-journal-vault/models"
)

const defaultDecryptConcurrency = 8

type recordCodec struct {
	engine      crypto.Engine
	concurrency int
}

// NewRecordCodec returns a RecordCodec that decrypts batches with at most
// concurrency goroutines. A non-positive concurrency uses the default.
func NewRecordCodec(engine crypto.Engine, concurrency int) RecordCodec {
	if concurrency < 1 {
		concurrency = defaultDecryptConcurrency
	}
	return &recordCodec{engine: engine, concurrency: concurrency}
}

func (c *recordCodec) EncryptRecord(plain models.PlainEntry, dek crypto.Key) (models.EncryptedEntry, error) {
	var rec models.EncryptedEntry

	if plain.Title != "" {
		title, err := c.engine.Encrypt([]byte(plain.Title), dek)
		if err != nil {
			return models.EncryptedEntry{}, fmt.Errorf("encrypt title: %w", err)
		}
		rec.Title = &title
	}

	body, err := c.engine.Encrypt([]byte(plain.Body), dek)
	if err != nil {
		return models.EncryptedEntry{}, fmt.Errorf("encrypt body: %w", err)
	}
	rec.Body = body

	return rec, nil
}

func (c *recordCodec) DecryptRecord(rec models.EncryptedEntry, dek crypto.Key) (models.PlainEntry, error) {
	var plain models.PlainEntry

	if rec.Title != nil {
		title, err := c.engine.Decrypt(*rec.Title, dek)
		if err != nil {
			return models.PlainEntry{}, fmt.Errorf("%w: title: %w", ErrRecordUndecryptable, err)
		}
		plain.Title = string(title)
	}

	body, err := c.engine.Decrypt(rec.Body, dek)
	if err != nil {
		return models.PlainEntry{}, fmt.Errorf("%w: body: %w", ErrRecordUndecryptable, err)
	}
	plain.Body = string(body)

	return plain, nil
}

func (c *recordCodec) DecryptAll(ctx context.Context, recs []models.EncryptedEntry, dek crypto.Key) []models.DecryptedEntry {
	log := logger.FromContext(ctx)

	out := make([]models.DecryptedEntry, len(recs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i := range recs {
		rec := recs[i]
		g.Go(func() error {
			out[i] = models.DecryptedEntry{
				ID:        rec.ID,
				CreatedAt: rec.CreatedAt,
				UpdatedAt: rec.UpdatedAt,
			}

			if err := gctx.Err(); err != nil {
				out[i].Title = app.MsgDecryptionError
				out[i].Err = fmt.Errorf("%w: %w", ErrRecordUndecryptable, err)
				return nil
			}

			plain, err := c.DecryptRecord(rec, dek)
			if err != nil {
				log.Warn().Err(err).
					Str("func", "recordCodec.DecryptAll").
					Str("id", rec.ID).
					Msg("entry could not be decrypted")
				out[i].Title = app.MsgDecryptionError
				out[i].Err = ErrRecordUndecryptable
				return nil
			}

			out[i].Title = plain.Title
			out[i].Body = plain.Body
			return nil
		})
	}

	// workers never return an error
	_ = g.Wait()

	return out
}
