package core

import (
	"fmt"
	"io/fs"

	"github.com/automoto/arenaball/config"
	"github.com/automoto/arenaball/server/physics"
	"github.com/automoto/arenaball/shared/leveldata"
)

// NewLevelWorld builds a physics world holding the arena's walls.
func NewLevelWorld(data *leveldata.ArenaData, cfg config.PhysicsConfig) *physics.World {
	w := physics.NewWorld(physics.Config{
		Width:    data.Width,
		Depth:    data.Depth,
		CellSize: cfg.CellSize,
		Gravity:  cfg.Gravity,
		Substeps: cfg.Substeps,
	})
	for _, r := range data.Walls {
		w.AddWall(physics.Rect{X: r.X, Z: r.Z, W: r.W, D: r.D})
	}
	return w
}

// LoadArenas loads every .tmx arena under dir in fsys, keyed by name, plus a
// sorted name list.
func LoadArenas(fsys fs.FS, dir string) (map[string]*leveldata.ArenaData, []string, error) {
	arenas, names, err := leveldata.LoadAllArenas(fsys, dir)
	if err != nil {
		return nil, nil, fmt.Errorf("load all arenas: %w", err)
	}
	return arenas, names, nil
}
