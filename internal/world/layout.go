// Literal arena layouts for reproducible tests and hand-built scenarios.
package world

import (
	"fmt"
	"log/slog"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Legend maps layout characters to terrain.
var Legend = map[string]Terrain{
	".": TerrainPlain,
	",": TerrainGrass,
	"t": TerrainTree,
	"T": TerrainForest,
	"^": TerrainMountain,
	"$": TerrainLoot,
	"S": TerrainSpawn,
	"~": TerrainLake,
}

// layoutGrid is the parsed form of a layout: one row per non-blank line.
type layoutGrid struct {
	Rows []*layoutRow `parser:"( @@ | EOL )*"`
}

type layoutRow struct {
	Cells []string `parser:"@Cell+"`
}

var layoutLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "EOL", Pattern: `\r?\n`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
	{Name: "Cell", Pattern: `[^\s]`},
})

var layoutParser = participle.MustBuild[layoutGrid](
	participle.Lexer(layoutLexer),
	participle.Elide("Whitespace"),
)

// ParseLayout builds a map from rows of legend characters (whitespace between
// characters is optional). Blank lines are skipped, unknown characters are
// logged and left as gaps, and gaps inside the bounding box become plain.
// The map must hold exactly two spawn tiles per district.
func ParseLayout(text string, districts int) (*Map, error) {
	grid, err := layoutParser.ParseString("layout", text)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	type cell struct {
		at Coord
		t  Terrain
	}
	var cells []cell
	width, height := 0, 0
	y := 0
	for _, row := range grid.Rows {
		for x, ch := range row.Cells {
			t, ok := Legend[ch]
			if !ok {
				slog.Warn("unknown layout character", "char", ch, "x", x, "y", y)
				continue
			}
			cells = append(cells, cell{at: Coord{X: x, Y: y}, t: t})
		}
		width = max(width, len(row.Cells))
		y++
	}
	height = y

	m := NewMap(max(width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			m.Set(Coord{X: x, Y: y}, TerrainPlain)
		}
	}
	for _, c := range cells {
		m.Set(c.at, c.t)
	}

	if err := validateSpawns(m, districts); err != nil {
		return nil, err
	}
	return m, nil
}
