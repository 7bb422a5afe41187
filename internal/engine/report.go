package engine

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ivlev/uno2video/internal/system"
)

// BenchmarkLog collects one line per run when stats are enabled.
const BenchmarkLog = "benchmark.log"

type Report struct {
	Build       string
	Frames      int
	Workers     int
	Total       time.Duration
	RenderWall  time.Duration // start until the last frame was rendered
	RenderCPU   time.Duration // summed over render workers
	WriteCPU    time.Duration // summed over write workers
	AssetBuilds int64
	AssetKeys   int
	NarrationAt string
	Host        *system.HostStats
}

func (r *Report) FPS() float64 {
	if r.Total <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Total.Seconds()
}

func (r *Report) String() string {
	s := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Frames: %d (workers: %d)\n"+
			"Total Time: %.2fs\n"+
			"Rendering (wall): %.2fs\n"+
			"Rendering (CPU): %.2fs\n"+
			"PNG Writing (CPU): %.2fs\n"+
			"Assets: %d built / %d cached\n"+
			"Effective FPS: %.2f\n",
		r.Build, r.Frames, r.Workers, r.Total.Seconds(), r.RenderWall.Seconds(),
		r.RenderCPU.Seconds(), r.WriteCPU.Seconds(), r.AssetBuilds, r.AssetKeys, r.FPS(),
	)
	if r.Host != nil {
		s += r.Host.String() + "\n"
	}
	return s + "----------------------------\n"
}

// Print logs the report and appends a summary line to path.
func (r *Report) Print(path string) {
	fmt.Print(r.String())

	entry := fmt.Sprintf("[%s] Build: %s | Frames: %d | Workers: %d | Total: %.2fs | Render: %.2fs | Write: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		r.Build,
		r.Frames,
		r.Workers,
		r.Total.Seconds(),
		r.RenderCPU.Seconds(),
		r.WriteCPU.Seconds(),
		r.FPS(),
	)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Warn().Err(err).Msgf("[!] Could not write %s", path)
		return
	}
	defer f.Close()
	if _, err := f.WriteString(entry); err != nil {
		log.Warn().Err(err).Msgf("[!] Could not write %s", path)
	}
}
