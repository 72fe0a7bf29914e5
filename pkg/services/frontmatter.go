package services

import (
	"regexp"
	"strings"

	"newspage/pkg/models"
)

const metadataDelimiter = "---"

// needsQuoting matches characters that are structurally significant in YAML.
var needsQuoting = regexp.MustCompile("[:#\\[\\]{},&*?|>!'\"@%`]")

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// SplitMetadata separates a leading metadata block from the body.
//
// The block opens with a "---" line and closes at the next "---" line (LF or
// CRLF). If the text does not open with a delimiter, or the block is never
// closed, had is false and body is the full input.
func SplitMetadata(content string) (block string, body string, had bool) {
	var start int
	switch {
	case strings.HasPrefix(content, metadataDelimiter+"\n"):
		start = len(metadataDelimiter) + 1
	case strings.HasPrefix(content, metadataDelimiter+"\r\n"):
		start = len(metadataDelimiter) + 2
	default:
		return "", content, false
	}

	pos := start
	for pos <= len(content) {
		var line string
		next := len(content) + 1
		if end := strings.IndexByte(content[pos:], '\n'); end >= 0 {
			line = content[pos : pos+end]
			next = pos + end + 1
		} else {
			line = content[pos:]
		}
		if strings.TrimSuffix(line, "\r") == metadataDelimiter {
			if next <= len(content) {
				body = content[next:]
			}
			return content[start:pos], body, true
		}
		pos = next
	}
	return "", content, false
}

// ParseMetadata parses an article's full text into its metadata and body.
func ParseMetadata(content string) (models.Metadata, string) {
	block, body, had := SplitMetadata(content)
	if !had {
		return models.Metadata{}, body
	}

	var meta models.Metadata
	for _, line := range strings.Split(block, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		value = unquote(strings.TrimSpace(value))

		switch key {
		case "id":
			meta.ID = value
		case "title":
			meta.Title = value
		case "date":
			meta.Date = value
		case "description":
			meta.Description = value
		case "thumbnail":
			meta.Thumbnail = value
		default:
			meta.Extra = append(meta.Extra, models.Field{Key: key, Value: value})
		}
	}
	return meta, body
}

// SerializeArticle renders metadata and body into the on-disk article format.
// Empty fields are omitted; body leading blank lines are dropped.
func SerializeArticle(meta models.Metadata, body string) string {
	var b strings.Builder
	b.WriteString(metadataDelimiter + "\n")

	write := func(key, value string, quote bool) {
		value = singleLine(value)
		if value == "" {
			return
		}
		if quote {
			value = quoteIfNeeded(value)
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteByte('\n')
	}

	write("id", meta.ID, false)
	write("title", meta.Title, true)
	write("date", meta.Date, false)
	write("description", meta.Description, true)
	write("thumbnail", meta.Thumbnail, true)
	for _, f := range meta.Extra {
		write(f.Key, f.Value, true)
	}

	b.WriteString(metadataDelimiter + "\n\n")
	b.WriteString(strings.TrimLeft(body, "\r\n"))
	return b.String()
}

func quoteIfNeeded(v string) string {
	if !needsQuoting.MatchString(v) && v == strings.TrimSpace(v) {
		return v
	}
	return `"` + quoteEscaper.Replace(v) + `"`
}

// unquote strips one pair of matching quotes. Double-quoted values also have
// the \\ and \" escapes written by quoteIfNeeded undone.
func unquote(v string) string {
	if len(v) < 2 {
		return v
	}
	first, last := v[0], v[len(v)-1]
	if first != last || (first != '"' && first != '\'') {
		return v
	}
	inner := v[1 : len(v)-1]
	if first == '\'' || !strings.Contains(inner, `\`) {
		return inner
	}

	var b strings.Builder
	b.Grow(len(inner))
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c == '\\' && i+1 < len(inner) && (inner[i+1] == '\\' || inner[i+1] == '"') {
			i++
			c = inner[i]
		}
		b.WriteByte(c)
	}
	return b.String()
}

// singleLine folds line breaks so a value stays on its metadata line.
func singleLine(v string) string {
	if !strings.ContainsAny(v, "\r\n") {
		return v
	}
	return strings.Join(strings.Fields(v), " ")
}
