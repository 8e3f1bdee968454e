package postgres

import "embed"

// MigrationsFS contains the embedded SQL migration files. The schema is
// fixed at a single version; there is no further migration path.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS

// MigrationsDir is the directory inside MigrationsFS holding the SQL files.
const MigrationsDir = "migrations"
