// Package migrations embeds the postgres schema and applies it in file order
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"trustrank/internal/platform/store"
)

//go:embed *.sql
var files embed.FS

// Names lists the embedded migrations in apply order
func Names() []string {
	names, _ := fs.Glob(files, "*.sql")
	sort.Strings(names)
	return names
}

// Apply runs every migration. Each file is idempotent, so Apply may be rerun
func Apply(ctx context.Context, db store.RowQuerier) error {
	for _, name := range Names() {
		b, err := files.ReadFile(name)
		if err != nil {
			return fmt.Errorf("migrations: read %s: %w", name, err)
		}
		if _, err := db.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("migrations: apply %s: %w", name, err)
		}
	}
	return nil
}
