package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alnah/go-studyguide/internal/config"
	"github.com/alnah/go-studyguide/internal/format"
	"github.com/alnah/go-studyguide/internal/youtube"
)

// analyzeOptions holds validated options for the analyze command.
type analyzeOptions struct {
	rawURL   string
	videoID  string
	output   string
	format   Format
	language string
}

// AnalyzeCmd creates the analyze command (one video to study material).
// The env parameter provides injectable dependencies for testing.
func AnalyzeCmd(env *Env) *cobra.Command {
	var (
		output   string
		fmtName  string
		language string
	)

	cmd := &cobra.Command{
		Use:   "analyze <youtube-url>",
		Short: "Generate study material from a YouTube video",
		Long: `Generate study material (summary, notes, quiz, flashcards) from a YouTube video.

The transcript is used when the video has captions. Without captions the
video title is used (Groq), then the video itself (Gemini).

Providers are configured through the environment:
  GROQ_API_KEY      Groq, tried first (free at console.groq.com)
  GEMINI_API_KEY    Google Gemini, fallback and video-only analysis

The result is saved to history and written as Markdown (default) or JSON.`,
		Example: `  studyguide analyze https://youtu.be/dQw4w9WgXcQ
  studyguide analyze https://youtu.be/dQw4w9WgXcQ -o go-intro.md
  studyguide analyze "https://www.youtube.com/watch?v=dQw4w9WgXcQ" -f json -o -
  studyguide analyze https://youtu.be/dQw4w9WgXcQ --lang fr`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := parseAnalyzeOptions(args[0], output, fmtName, language)
			if err != nil {
				return err
			}
			return runAnalyze(cmd, env, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path, or - for stdout (default: <video-id>.<ext>)")
	cmd.Flags().StringVarP(&fmtName, "format", "f", "", "Output format: md, json (default: from -o extension, else md)")
	cmd.Flags().StringVarP(&language, "lang", "l", "", "Preferred caption language (ISO 639-1, e.g. en, fr, pt-BR)")

	return cmd
}

// parseAnalyzeOptions validates and parses CLI inputs into analyzeOptions.
// All parsing happens at the CLI boundary.
func parseAnalyzeOptions(rawURL, output, fmtName, language string) (analyzeOptions, error) {
	videoID, err := youtube.ParseURL(rawURL)
	if err != nil {
		return analyzeOptions{}, err
	}

	parsedFormat, err := ParseFormat(fmtName)
	if err != nil {
		return analyzeOptions{}, err
	}

	if err := youtube.ValidateLanguage(language); err != nil {
		return analyzeOptions{}, err
	}
	if language != "" {
		language = youtube.NormalizeLanguage(language)
	}

	return analyzeOptions{
		rawURL:   rawURL,
		videoID:  videoID,
		output:   output,
		format:   parsedFormat,
		language: language,
	}, nil
}

// runAnalyze executes the analyze command with validated options.
func runAnalyze(cmd *cobra.Command, env *Env, opts analyzeOptions) error {
	ctx := cmd.Context()

	// === SETUP (fail-fast) ===

	d, err := setup(ctx, env, opts.language)
	if err != nil {
		return err
	}
	defer d.Close()

	// Resolve output before the slow part so a clash fails early.
	toStdout := opts.output == stdoutPath
	f := opts.format.ResolveFor(opts.output)
	var output string
	if !toStdout {
		output = config.ResolveOutputPath(opts.output, d.cfg.OutputDir, opts.videoID+f.Extension())
		warnExtensionMismatch(env.Stderr, output, f)
		if fileExists(output) {
			return fmt.Errorf("output file already exists: %s: %w", output, ErrOutputExists)
		}
	}

	// === ANALYZE ===

	fmt.Fprintf(env.Stderr, "Analyzing %s...\n", opts.videoID)
	start := env.Now()

	res, err := d.service.AnalyzeURL(ctx, opts.rawURL)
	if err != nil {
		return err
	}

	elapsed := env.Now().Sub(start)
	fmt.Fprintf(env.Stderr, "Generated %q from %s in %s\n", res.Material.Title, res.Mode, format.DurationHuman(elapsed))
	if !res.Saved {
		fmt.Fprintln(env.Stderr, "Warning: result was not saved to history")
	}

	// === WRITE OUTPUT ===

	content, err := render(res.Material, f)
	if err != nil {
		return err
	}

	if toStdout {
		_, err := fmt.Fprint(env.Stdout, content)
		return err
	}

	if err := writeFileAtomic(output, content); err != nil {
		return err
	}
	fmt.Fprintf(env.Stderr, "Done: %s (%s)\n", output, format.Size(int64(len(content))))
	return nil
}
