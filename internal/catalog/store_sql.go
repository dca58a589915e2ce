package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) GetItems(ctx context.Context, ids []int64) (map[int64]Item, error) {
	if len(ids) == 0 {
		return map[int64]Item{}, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT id,name,price,image_url,permalink,visible FROM items WHERE id IN (%s)`,
		placeholders(len(ids)))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]Item, len(ids))
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.ImageURL, &it.Permalink, &it.Visible); err != nil {
			return nil, err
		}
		out[it.ID] = it
	}
	return out, rows.Err()
}

// PutItem upserts a catalog row pushed from the storefront sync.
func (s *SQLStore) PutItem(ctx context.Context, it Item) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO items (id,name,price,image_url,permalink,visible)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, price=EXCLUDED.price, image_url=EXCLUDED.image_url, permalink=EXCLUDED.permalink, visible=EXCLUDED.visible`,
		it.ID, it.Name, it.Price, it.ImageURL, it.Permalink, it.Visible)
	return err
}

func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(parts, ",")
}
