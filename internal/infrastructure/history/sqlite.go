package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mindfulplate/backend/internal/domain"
)

// SQLiteRepository persists meal log entries with per-user time-ordered
// retrieval. It implements domain.HistoryRepository.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (or creates) the database at dbPath and ensures
// the schema exists. Use ":memory:" for an ephemeral store.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serializes writes, and :memory: databases are per-connection;
	// a single pooled connection keeps both correct.
	db.SetMaxOpenConns(1)

	repo := &SQLiteRepository{db: db}
	if err := repo.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return repo, nil
}

// Close releases the underlying database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS log_entries (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        timestamp DATETIME NOT NULL,
        meal_type TEXT NOT NULL,
        original_text TEXT NOT NULL,
        total_calories REAL NOT NULL,
        total_protein REAL NOT NULL,
        total_carbs REAL NOT NULL,
        total_fat REAL NOT NULL,
        total_fiber REAL NOT NULL,
        created_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS log_foods (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        entry_id TEXT NOT NULL,
        name TEXT NOT NULL,
        portion REAL NOT NULL,
        portion_label TEXT NOT NULL,
        calories REAL NOT NULL,
        protein REAL NOT NULL,
        carbs REAL NOT NULL,
        fat REAL NOT NULL,
        fiber REAL NOT NULL,
        category TEXT NOT NULL,
        source TEXT NOT NULL,
        confidence REAL NOT NULL,
        FOREIGN KEY (entry_id) REFERENCES log_entries(id) ON DELETE CASCADE
    );

    CREATE INDEX IF NOT EXISTS idx_log_entries_user_time ON log_entries(user_id, timestamp);
    CREATE INDEX IF NOT EXISTS idx_log_foods_entry_id ON log_foods(entry_id);
    `

	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Save stores one log entry and its foods in a transaction. An empty entry
// ID is assigned a fresh UUID.
func (r *SQLiteRepository) Save(ctx context.Context, entry *domain.HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
        INSERT INTO log_entries
            (id, user_id, timestamp, meal_type, original_text,
             total_calories, total_protein, total_carbs, total_fat, total_fiber,
             created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.Timestamp.UTC(), entry.MealType, entry.OriginalText,
		entry.TotalNutrition.Calories, entry.TotalNutrition.Protein,
		entry.TotalNutrition.Carbs, entry.TotalNutrition.Fat, entry.TotalNutrition.Fiber,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}

	for _, food := range entry.Foods {
		_, err = tx.ExecContext(ctx, `
            INSERT INTO log_foods
                (entry_id, name, portion, portion_label,
                 calories, protein, carbs, fat, fiber,
                 category, source, confidence)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			entry.ID, food.DisplayName, food.Portion, food.PortionLabel,
			food.Nutrition.Calories, food.Nutrition.Protein,
			food.Nutrition.Carbs, food.Nutrition.Fat, food.Nutrition.Fiber,
			string(food.Category), string(food.Source), food.Confidence,
		)
		if err != nil {
			return fmt.Errorf("failed to insert food: %w", err)
		}
	}

	return tx.Commit()
}

// RecentEntries returns the user's entries at or after since, newest first,
// each with its foods attached.
func (r *SQLiteRepository) RecentEntries(ctx context.Context, userID string, since time.Time) ([]domain.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, user_id, timestamp, meal_type, original_text,
               total_calories, total_protein, total_carbs, total_fat, total_fiber
        FROM log_entries
        WHERE user_id = ? AND timestamp >= ?
        ORDER BY timestamp DESC`,
		userID, since.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.Timestamp, &entry.MealType, &entry.OriginalText,
			&entry.TotalNutrition.Calories, &entry.TotalNutrition.Protein,
			&entry.TotalNutrition.Carbs, &entry.TotalNutrition.Fat, &entry.TotalNutrition.Fiber,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading entries: %w", err)
	}

	for i := range entries {
		foods, err := r.entryFoods(ctx, entries[i].ID)
		if err != nil {
			return nil, err
		}
		entries[i].Foods = foods
	}

	return entries, nil
}

func (r *SQLiteRepository) entryFoods(ctx context.Context, entryID string) ([]domain.ResolvedFood, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT name, portion, portion_label,
               calories, protein, carbs, fat, fiber,
               category, source, confidence
        FROM log_foods
        WHERE entry_id = ?
        ORDER BY id`,
		entryID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query foods: %w", err)
	}
	defer rows.Close()

	var foods []domain.ResolvedFood
	for rows.Next() {
		var food domain.ResolvedFood
		var category, source string
		err := rows.Scan(
			&food.DisplayName, &food.Portion, &food.PortionLabel,
			&food.Nutrition.Calories, &food.Nutrition.Protein,
			&food.Nutrition.Carbs, &food.Nutrition.Fat, &food.Nutrition.Fiber,
			&category, &source, &food.Confidence,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan food: %w", err)
		}
		food.Category = domain.Category(category)
		food.Source = domain.Source(source)
		foods = append(foods, food)
	}
	return foods, rows.Err()
}
