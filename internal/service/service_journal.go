// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/MKhiriev/go-journal-vault/internal/logger"
	"github.com/MKhiriev/go-journal-vault/internal/store"
	"github.com/MKhiriev/go-journal-vault/models"
)

type journalService struct {
	store store.RecordStore
	codec RecordCodec
	ids   IDGenerator
	now   func() time.Time
	// loc is the zone whose calendar dates the timeline groups by. It
	// matches the zone the CLI prints timestamps in.
	loc *time.Location
}

func NewJournalService(recordStore store.RecordStore, codec RecordCodec, ids IDGenerator) JournalService {
	return &journalService{
		store: recordStore,
		codec: codec,
		ids:   ids,
		now:   func() time.Time { return time.Now().UTC() },
		loc:   time.Local,
	}
}

func (j *journalService) Save(ctx context.Context, sess *Session, id string, plain models.PlainEntry) (string, error) {
	log := logger.FromContext(ctx)

	dek, err := sess.Key()
	if err != nil {
		return "", err
	}
	defer dek.Wipe()

	now := j.now()
	createdAt := now

	if id == "" {
		id = j.ids.Generate()
	} else {
		existing, getErr := j.store.Get(ctx, id)
		switch {
		case getErr == nil:
			createdAt = existing.CreatedAt
		case errors.Is(getErr, store.ErrEntryNotFound):
		default:
			return "", fmt.Errorf("read entry: %w", getErr)
		}
	}

	rec, err := j.codec.EncryptRecord(plain, dek)
	if err != nil {
		return "", fmt.Errorf("encrypt entry: %w", err)
	}
	rec.ID = id
	rec.CreatedAt = createdAt
	rec.UpdatedAt = now

	savedID, err := j.store.Put(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("save entry: %w", err)
	}

	log.Debug().Str("func", "journalService.Save").Str("id", savedID).Msg("entry saved")
	return savedID, nil
}

func (j *journalService) Get(ctx context.Context, sess *Session, id string) (models.DecryptedEntry, error) {
	dek, err := sess.Key()
	if err != nil {
		return models.DecryptedEntry{}, err
	}
	defer dek.Wipe()

	rec, err := j.store.Get(ctx, id)
	if err != nil {
		return models.DecryptedEntry{}, fmt.Errorf("read entry: %w", err)
	}

	plain, err := j.codec.DecryptRecord(rec, dek)
	if err != nil {
		return models.DecryptedEntry{}, err
	}

	return models.DecryptedEntry{
		ID:        rec.ID,
		Title:     plain.Title,
		Body:      plain.Body,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}

func (j *journalService) Delete(ctx context.Context, sess *Session, id string) error {
	if !sess.Active() {
		return ErrVaultLocked
	}

	if err := j.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

func (j *journalService) List(ctx context.Context, sess *Session) ([]models.DecryptedEntry, error) {
	dek, err := sess.Key()
	if err != nil {
		return nil, err
	}
	defer dek.Wipe()

	recs, err := j.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	entries := j.codec.DecryptAll(ctx, recs, dek)
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].CreatedAt.After(entries[b].CreatedAt)
	})
	return entries, nil
}

func (j *journalService) Timeline(ctx context.Context, sess *Session) ([]models.TimelineYear, error) {
	entries, err := j.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	return buildTimeline(entries, j.loc), nil
}

func (j *journalService) Count(ctx context.Context) (int, error) {
	recs, err := j.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list entries: %w", err)
	}
	return len(recs), nil
}

// FilterByTitle keeps the entries whose title contains query, ignoring
// case. Entries that could not be decrypted have no real title and never
// match. An empty query keeps everything.
func FilterByTitle(entries []models.DecryptedEntry, query string) []models.DecryptedEntry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return entries
	}

	matched := make([]models.DecryptedEntry, 0, len(entries))
	for _, e := range entries {
		if !e.Failed() && strings.Contains(strings.ToLower(e.Title), query) {
			matched = append(matched, e)
		}
	}
	return matched
}

// buildTimeline groups entries already sorted newest first by the calendar
// date of CreatedAt in loc.
func buildTimeline(entries []models.DecryptedEntry, loc *time.Location) []models.TimelineYear {
	var years []models.TimelineYear

	for _, e := range entries {
		created := e.CreatedAt.In(loc)
		y, m, d := created.Date()

		if len(years) == 0 || years[len(years)-1].Year != y {
			years = append(years, models.TimelineYear{Year: y})
		}
		year := &years[len(years)-1]

		if len(year.Months) == 0 || year.Months[len(year.Months)-1].Month != m {
			year.Months = append(year.Months, models.TimelineMonth{Month: m})
		}
		month := &year.Months[len(year.Months)-1]

		if len(month.Days) == 0 || month.Days[len(month.Days)-1].Day != d {
			month.Days = append(month.Days, models.TimelineDay{Day: d})
		}
		day := &month.Days[len(month.Days)-1]

		day.Entries = append(day.Entries, e)
	}

	return years
}
