// Package assets embeds the arena maps shipped with the server.
package assets

import "embed"

// Arenas holds arenas/*.tmx.
//
//go:embed arenas/*.tmx
var Arenas embed.FS

// ArenaDir is the directory inside Arenas holding the maps.
const ArenaDir = "arenas"
