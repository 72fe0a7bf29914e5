package logfields

import "log/slog"

// Canonical log field names shared by services, handlers and the CLI.
const (
	KeyFile       = "file"
	KeyArticleID  = "article_id"
	KeyOutput     = "output"
	KeyCount      = "count"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyTheme      = "theme"
	KeyError      = "error"
)

func File(name string) slog.Attr      { return slog.String(KeyFile, name) }
func ArticleID(id string) slog.Attr   { return slog.String(KeyArticleID, id) }
func Output(dir string) slog.Attr     { return slog.String(KeyOutput, dir) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Theme(name string) slog.Attr     { return slog.String(KeyTheme, name) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
