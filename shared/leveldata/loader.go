package leveldata

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lafriks/go-tiled"
)

// Layer and object group names recognised in arena maps.
const (
	WallLayer        = "walls"
	WallGroup        = "Walls"
	PlayerSpawnGroup = "PlayerSpawn"
	BallSpawnGroup   = "BallSpawn"
)

// LoadArena parses a TMX file. It takes an fs.FS so callers can pass embed.FS
// or os.DirFS.
func LoadArena(fsys fs.FS, tmxPath string) (*ArenaData, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}
	if levelMap.TileWidth <= 0 || levelMap.TileHeight <= 0 {
		return nil, fmt.Errorf("load TMX %s: invalid tile size %dx%d", tmxPath, levelMap.TileWidth, levelMap.TileHeight)
	}

	tileW := float64(levelMap.TileWidth)
	tileH := float64(levelMap.TileHeight)
	toX := func(px float64) float64 { return px / tileW }
	toZ := func(px float64) float64 { return px / tileH }

	data := &ArenaData{
		Name:  strings.TrimSuffix(filepath.Base(tmxPath), ".tmx"),
		Width: float64(levelMap.Width),
		Depth: float64(levelMap.Height),
	}

	for _, layer := range levelMap.Layers {
		if layer.Name != WallLayer {
			continue
		}
		for y := 0; y < levelMap.Height; y++ {
			for x := 0; x < levelMap.Width; x++ {
				tile := layer.Tiles[y*levelMap.Width+x]
				if tile.IsNil() {
					continue
				}
				data.Walls = append(data.Walls, SolidRect{X: float64(x), Z: float64(y), W: 1, D: 1})
			}
		}
		break
	}

	for _, og := range levelMap.ObjectGroups {
		switch og.Name {
		case WallGroup:
			for _, o := range og.Objects {
				if o.Width <= 0 || o.Height <= 0 {
					continue
				}
				data.Walls = append(data.Walls, SolidRect{
					X: toX(o.X), Z: toZ(o.Y),
					W: toX(o.Width), D: toZ(o.Height),
				})
			}
		case PlayerSpawnGroup:
			for _, o := range og.Objects {
				data.PlayerSpawns = append(data.PlayerSpawns, SpawnPoint{
					X: toX(o.X), Z: toZ(o.Y),
					Index: o.Properties.GetInt("spawnIndex"),
				})
			}
		case BallSpawnGroup:
			for _, o := range og.Objects {
				data.BallSpawns = append(data.BallSpawns, SpawnPoint{
					X: toX(o.X), Z: toZ(o.Y),
					Index: o.Properties.GetInt("spawnIndex"),
				})
			}
		}
	}

	sortSpawns(data.PlayerSpawns)
	sortSpawns(data.BallSpawns)
	return data, nil
}

// LoadAllArenas discovers all .tmx files in dir within fsys and returns them
// keyed by stem name plus a sorted list of names.
func LoadAllArenas(fsys fs.FS, dir string) (map[string]*ArenaData, []string, error) {
	pattern := dir + "/*.tmx"
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("no .tmx files found in %s", dir)
	}

	arenas := make(map[string]*ArenaData, len(matches))
	names := make([]string, 0, len(matches))
	for _, path := range matches {
		data, err := LoadArena(fsys, path)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", path, err)
		}
		arenas[data.Name] = data
		names = append(names, data.Name)
	}

	sort.Strings(names)
	return arenas, names, nil
}

// Sort by explicit index, then left-to-right, for consistent assignment.
func sortSpawns(s []SpawnPoint) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Index != s[j].Index {
			return s[i].Index < s[j].Index
		}
		return s[i].X < s[j].X
	})
}
