package pool

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/osu-autoref/internal/osuapi"
)

// MetadataSource resolves beatmap ids to metadata.
type MetadataSource interface {
	Beatmap(ctx context.Context, id int) (osuapi.Beatmap, error)
}

// Describe fills in display names of the form "CODE: Artist - Title [Version]".
// A failed lookup keeps the bare code so the map stays selectable by code.
func Describe(ctx context.Context, entries []Entry, meta MetadataSource) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	for i := range out {
		bm, err := meta.Beatmap(ctx, out[i].BeatmapID)
		if err != nil {
			log.Warn("Could not load beatmap metadata", "code", out[i].Code, "beatmapID", out[i].BeatmapID, "error", err)
			out[i].DisplayName = out[i].Code
			continue
		}
		out[i].DisplayName = fmt.Sprintf("%s: %s - %s [%s]", out[i].Code, bm.Artist, bm.Title, bm.Version)
		log.Debug("Loaded beatmap", "code", out[i].Code, "title", bm.Title)
	}
	return out
}
