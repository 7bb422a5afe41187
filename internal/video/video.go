package video

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/rs/zerolog/log"

	"github.com/ivlev/uno2video/internal/config"
)

const (
	OutputFile    = "uno_no_mercy.mp4"
	CompileScript = "compile_video.sh"
	VoiceoverFile = "audio/voiceover.mp3"
	TTSVoice      = "en-US-GuyNeural"
	TTSRate       = "+10%"
)

// CompileParams describes one frames-plus-voice compile. AudioPath may be
// empty for a silent video.
type CompileParams struct {
	FramePattern string // e.g. output/frames/frame_%05d.png
	AudioPath    string
	OutputPath   string
	Encoder      string
	Quality      int
}

type VideoEncoder interface {
	Compile(ctx context.Context, p CompileParams) error
}

type FFmpegEncoder struct {
	Binary string
}

func (e *FFmpegEncoder) binary() string {
	if e.Binary == "" {
		return "ffmpeg"
	}
	return e.Binary
}

// Compile runs ffmpeg over the numbered frames. With audio, the result is
// as long as the shorter stream.
func (e *FFmpegEncoder) Compile(ctx context.Context, p CompileParams) error {
	args := e.BuildArgs(p)
	log.Info().Msgf("[*] Compiling %s with %s", p.OutputPath, encoderOrDefault(p.Encoder))
	log.Debug().Strs("args", args).Msg("[*] ffmpeg")

	cmd := exec.CommandContext(ctx, e.binary(), args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg compile error: %w, output: %s", err, tail(string(out), 2000))
	}
	return nil
}

func (e *FFmpegEncoder) BuildArgs(p CompileParams) []string {
	encoder := encoderOrDefault(p.Encoder)
	args := []string{
		"-y",
		"-framerate", fmt.Sprintf("%d", config.FPS),
		"-i", p.FramePattern,
	}
	if p.AudioPath != "" {
		args = append(args, "-i", p.AudioPath)
	}
	args = append(args, "-c:v", encoder)
	args = append(args, qualityArgs(encoder, p.Quality)...)
	args = append(args, "-pix_fmt", "yuv420p")
	if p.AudioPath != "" {
		args = append(args, "-c:a", "aac", "-b:a", "192k", "-shortest")
	}
	return append(args, "-movflags", "+faststart", p.OutputPath)
}

func encoderOrDefault(name string) string {
	if name == "" {
		return "libx264"
	}
	return name
}

// DefaultQuality is used when no quality is configured.
func DefaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75
	case "h264_nvenc":
		return 28
	default:
		return 23
	}
}

// QualityFor returns the configured quality, or the encoder default when unset.
func QualityFor(encoder string, configured int) int {
	if configured != 0 {
		return configured
	}
	return DefaultQuality(encoder)
}

func qualityArgs(encoder string, quality int) []string {
	switch encoder {
	case "h264_videotoolbox":
		// VideoToolbox has no CRF; quality maps to a bitrate in kbit/s.
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default:
		return []string{"-preset", "medium", "-crf", fmt.Sprintf("%d", quality)}
	}
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}

var scriptTemplate = template.Must(template.New("compile").Parse(`#!/bin/bash
# UNO No Mercy video compilation
set -e
cd "$(dirname "$0")"

if [ ! -f "{{.Voiceover}}" ]; then
    echo "[!] No voiceover found. Generating with edge-tts..."
    mkdir -p "$(dirname "{{.Voiceover}}")"
    edge-tts --text "$(cat {{.Narration}})" \
             --voice {{.Voice}} \
             --rate "{{.Rate}}" \
             --write-media "{{.Voiceover}}"
fi

ffmpeg {{.Args}}

echo ""
echo "[+++] Video compiled: $(pwd)/{{.Output}}"
`))

// argLines keeps each flag on one line with its value.
func argLines(args []string) []string {
	var lines []string
	for i := 0; i < len(args); i++ {
		if strings.HasPrefix(args[i], "-") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			lines = append(lines, args[i]+" "+args[i+1])
			i++
			continue
		}
		lines = append(lines, args[i])
	}
	return lines
}

// WriteCompileScript writes an executable shell script into outputDir that
// produces the voiceover with edge-tts when missing and then runs ffmpeg.
// Paths inside the script are relative to outputDir.
func WriteCompileScript(outputDir, framePattern, narrationFile string, quality int) (string, error) {
	args := (&FFmpegEncoder{}).BuildArgs(CompileParams{
		FramePattern: framePattern,
		AudioPath:    VoiceoverFile,
		OutputPath:   OutputFile,
		Encoder:      "libx264",
		Quality:      quality,
	})
	var b strings.Builder
	err := scriptTemplate.Execute(&b, map[string]string{
		"Voiceover": VoiceoverFile,
		"Narration": narrationFile,
		"Voice":     TTSVoice,
		"Rate":      TTSRate,
		"Args":      strings.Join(argLines(args), " \\\n    "),
		"Output":    OutputFile,
	})
	if err != nil {
		return "", err
	}

	path := filepath.Join(outputDir, CompileScript)
	if err := os.WriteFile(path, []byte(b.String()), 0755); err != nil {
		return "", err
	}
	return path, nil
}
