package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"farmsphere/internal/middleware"

	"gorm.io/gorm"
)

// Index describes one lookup or uniqueness index.
type Index struct {
	Name    string
	Table   string
	Columns []string // "col" or "col DESC"
	Unique  bool
}

// Indexes lists every index the application relies on.
var Indexes = []Index{
	{Name: "idx_users_user_id", Table: "users", Columns: []string{"user_id"}, Unique: true},
	{Name: "idx_users_email", Table: "users", Columns: []string{"email"}, Unique: true},
	{Name: "idx_posts_id", Table: "posts", Columns: []string{"id"}, Unique: true},
	{Name: "idx_posts_author_id", Table: "posts", Columns: []string{"author_id"}},
	{Name: "idx_posts_timestamp", Table: "posts", Columns: []string{"timestamp DESC"}},
	{Name: "idx_comments_post_ts", Table: "comments", Columns: []string{"post_id", "timestamp"}},
	{Name: "idx_activities_user_date", Table: "activities", Columns: []string{"user_id", "date DESC"}},
	{Name: "idx_chat_messages_chat_ts", Table: "chat_messages", Columns: []string{"chat_id", "timestamp"}},
	{Name: "idx_crop_health_user_ts", Table: "crop_health", Columns: []string{"user_id", "timestamp DESC"}},
	{Name: "idx_post_likes_post_user", Table: "post_likes", Columns: []string{"post_id", "user_id"}, Unique: true},
	{Name: "idx_saved_posts_post_user", Table: "saved_posts", Columns: []string{"post_id", "user_id"}, Unique: true},
	{Name: "idx_saved_posts_user", Table: "saved_posts", Columns: []string{"user_id", "created_at DESC"}},
}

// Statement renders the portable CREATE INDEX statement for idx.
func (idx Index) Statement() string {
	cols := make([]string, len(idx.Columns))
	for i, c := range idx.Columns {
		name, dir, _ := strings.Cut(c, " ")
		cols[i] = `"` + name + `"`
		if dir != "" {
			cols[i] += " " + dir
		}
	}
	unique := ""
	if idx.Unique {
		unique = "UNIQUE "
	}
	return fmt.Sprintf(`CREATE %sINDEX IF NOT EXISTS %s ON "%s" (%s)`,
		unique, idx.Name, idx.Table, strings.Join(cols, ", "))
}

// Migrate creates the tables and then the indexes.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	EnsureIndexes(ctx, db)
	middleware.Logger.InfoContext(ctx, "Database migration completed")
	return nil
}

// EnsureIndexes declares every index. Failures are logged and skipped since
// the store may already hold an equivalent index. It returns the number of
// statements that succeeded.
func EnsureIndexes(ctx context.Context, db *gorm.DB) int {
	ok := 0
	for _, idx := range Indexes {
		if err := db.WithContext(ctx).Exec(idx.Statement()).Error; err != nil {
			middleware.Logger.WarnContext(ctx, "Failed to create index",
				slog.String("index", idx.Name),
				slog.String("table", idx.Table),
				slog.String("error", err.Error()),
			)
			continue
		}
		ok++
	}
	return ok
}
