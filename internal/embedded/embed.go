// Package embedded holds data files compiled into the clubmerge binary.
package embedded

import (
	"embed"
)

// FS embeds the default club table.
//
//go:embed clubs.yaml
var FS embed.FS

// ClubsFile is the name of the default club table inside FS.
const ClubsFile = "clubs.yaml"
