package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/chessactivity/internal/chesscom"
	"github.com/vytor/chessactivity/internal/logger"
	"github.com/vytor/chessactivity/internal/models"
	"github.com/vytor/chessactivity/internal/repository"
)

type archiveRepository struct {
	db *sql.DB
}

// NewArchiveRepository creates a new ArchiveRepository implementation
func NewArchiveRepository(db *sql.DB) repository.ArchiveRepository {
	return &archiveRepository{db: db}
}

func monthKey(username string, month models.YearMonth) squirrel.Eq {
	return squirrel.Eq{"username": username, "year": month.Year, "month": int(month.Month)}
}

func (r *archiveRepository) GetMonth(ctx context.Context, username string, month models.YearMonth) ([]models.GameRecord, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("archive_repo").
		WithFields(map[string]any{"username": username, "month": month.String()})

	var count int
	q, args, err := sqlBuilder.Select("game_count").From("archive_months").
		Where(monthKey(username, month)).ToSql()
	if err != nil {
		return nil, false, err
	}
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("month not cached")
			return nil, false, nil
		}
		log.Error("failed to read cached month: %v", err)
		return nil, false, err
	}

	q, args, err = sqlBuilder.Select("url", "end_time", "time_control").From("archive_games").
		Where(monthKey(username, month)).OrderBy("id").ToSql()
	if err != nil {
		return nil, false, err
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		log.Error("failed to query cached games: %v", err)
		return nil, false, err
	}
	defer rows.Close()

	records := make([]models.GameRecord, 0, count)
	for rows.Next() {
		var (
			rec     models.GameRecord
			endTime sql.NullInt64
		)
		if err := rows.Scan(&rec.URL, &endTime, &rec.TimeControl); err != nil {
			log.Error("failed to scan cached game: %v", err)
			return nil, false, err
		}
		if endTime.Valid {
			ts := time.Unix(endTime.Int64, 0).UTC()
			rec.EndTime = &ts
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	log.Debug("cache hit: %d games", len(records))
	return records, true, nil
}

func (r *archiveRepository) SaveMonth(ctx context.Context, username string, month models.YearMonth, records []models.GameRecord) error {
	log := logger.FromContext(ctx).WithPrefix("archive_repo").
		WithFields(map[string]any{"username": username, "month": month.String()})
	log.Debug("caching %d games", len(records))

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		q, args, err := sqlBuilder.Delete("archive_months").Where(monthKey(username, month)).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			log.Error("failed to clear cached month: %v", err)
			return err
		}

		q, args, err = sqlBuilder.Insert("archive_months").
			Columns("username", "year", "month", "game_count", "fetched_at").
			Values(username, month.Year, int(month.Month), len(records), time.Now().UTC()).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			log.Error("failed to insert cached month: %v", err)
			return err
		}

		if len(records) == 0 {
			return nil
		}

		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO archive_games (username, year, month, game_id, url, end_time, time_control)
VALUES (?, ?, ?, ?, ?, ?, ?)
`)
		if err != nil {
			log.Error("failed to prepare batch insert: %v", err)
			return err
		}
		defer stmt.Close()

		for _, rec := range records {
			var endTime sql.NullInt64
			if rec.HasEndTime() {
				endTime = sql.NullInt64{Int64: rec.EndTime.Unix(), Valid: true}
			}
			if _, err := stmt.ExecContext(ctx, username, month.Year, int(month.Month),
				chesscom.ExtractGameID(rec.URL), rec.URL, endTime, rec.TimeControl); err != nil {
				log.Error("failed to insert cached game url=%s: %v", rec.URL, err)
				return err
			}
		}
		return nil
	})
}

func (r *archiveRepository) CachedMonths(ctx context.Context, username string) ([]models.CachedMonth, error) {
	log := logger.FromContext(ctx).WithPrefix("archive_repo").WithField("username", username)

	q, args, err := sqlBuilder.Select("year", "month", "game_count", "fetched_at").
		From("archive_months").
		Where(squirrel.Eq{"username": username}).
		OrderBy("year", "month").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		log.Error("failed to list cached months: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.CachedMonth
	for rows.Next() {
		var (
			cm    models.CachedMonth
			month int
		)
		if err := rows.Scan(&cm.Month.Year, &month, &cm.Games, &cm.FetchedAt); err != nil {
			return nil, err
		}
		cm.Month.Month = time.Month(month)
		out = append(out, cm)
	}
	return out, rows.Err()
}

func (r *archiveRepository) DeleteUser(ctx context.Context, username string) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("archive_repo").WithField("username", username)

	q, args, err := sqlBuilder.Delete("archive_months").Where(squirrel.Eq{"username": username}).ToSql()
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		log.Error("failed to delete cached months: %v", err)
		return 0, err
	}
	n, _ := res.RowsAffected()
	log.Info("deleted %d cached months", n)
	return int(n), nil
}
