package appfs

import "embed"

// FS embeds assets needed at runtime (database migrations).
//go:embed migrations
var FS embed.FS
