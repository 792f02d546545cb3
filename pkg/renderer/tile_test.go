package renderer

import (
	"image"
	"testing"
)

func TestNewTileGrid_Coverage(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		tileSize      int
		expectedTiles int
	}{
		{"Exact fit", 64, 32, 32, 2},
		{"Partial edge tiles", 70, 33, 32, 6},
		{"Tile larger than image", 10, 5, 64, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles := NewTileGrid(tt.width, tt.height, tt.tileSize, 1)
			if len(tiles) != tt.expectedTiles {
				t.Fatalf("Expected %d tiles, got %d", tt.expectedTiles, len(tiles))
			}

			covered := make([]int, tt.width*tt.height)
			full := image.Rect(0, 0, tt.width, tt.height)
			for i, tile := range tiles {
				if tile.ID != i {
					t.Errorf("Expected tile ID %d, got %d", i, tile.ID)
				}
				if !tile.Bounds.In(full) {
					t.Errorf("Tile %d bounds %v exceed image %v", i, tile.Bounds, full)
				}
				for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
					for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
						covered[y*tt.width+x]++
					}
				}
			}

			for i, count := range covered {
				if count != 1 {
					t.Fatalf("Pixel %d covered %d times, expected once", i, count)
				}
			}
		})
	}
}

func TestNewTile_Seeds(t *testing.T) {
	a := NewTile(3, image.Rect(0, 0, 1, 1), 42)
	b := NewTile(3, image.Rect(0, 0, 1, 1), 42)
	for i := 0; i < 10; i++ {
		if x, y := a.Random.Int63(), b.Random.Int63(); x != y {
			t.Fatalf("Expected identical streams for the same seed and ID, got %d and %d", x, y)
		}
	}

	if tileSeed(42, 3) == tileSeed(42, 4) {
		t.Error("Expected neighbouring tiles to get different seeds")
	}
	if tileSeed(42, 3) == tileSeed(43, 3) {
		t.Error("Expected different render seeds to give different tile seeds")
	}
}
