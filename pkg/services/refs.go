package services

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"newspage/pkg/config"
)

// htmlUploadAttr catches uploads referenced from raw HTML (<img src>, <video src>, <a href>).
var htmlUploadAttr = regexp.MustCompile(`(?i)\b(?:src|href|poster)\s*=\s*["']?(/uploads/[^"'\s>]+)`)

var markdown = goldmark.New()

// UploadReferences returns the distinct upload paths ("/uploads/<name>") an
// article's full text refers to: Markdown image and link destinations,
// reference definitions, raw HTML attributes and metadata values such as the
// thumbnail.
func UploadReferences(content string) []string {
	meta, body := ParseMetadata(content)

	var refs []string
	seen := make(map[string]struct{})
	add := func(dest string) {
		ref, ok := normalizeUploadRef(dest)
		if !ok {
			return
		}
		if _, dup := seen[ref]; dup {
			return
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}

	for _, v := range meta.Values() {
		add(v)
	}

	src := []byte(body)
	ctx := parser.NewContext()
	root := markdown.Parser().Parse(text.NewReader(src), parser.WithContext(ctx))
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Image:
			add(string(node.Destination))
		case *gmast.Link:
			add(string(node.Destination))
		}
		return gmast.WalkContinue, nil
	})
	for _, ref := range ctx.References() {
		add(string(ref.Destination()))
	}
	for _, m := range htmlUploadAttr.FindAllStringSubmatch(body, -1) {
		add(m[1])
	}
	return refs
}

func normalizeUploadRef(dest string) (string, bool) {
	dest = strings.TrimSpace(dest)
	if !strings.HasPrefix(dest, config.UploadsURLPrefix) {
		return "", false
	}
	if i := strings.IndexAny(dest, "?#"); i >= 0 {
		dest = dest[:i]
	}
	if len(dest) == len(config.UploadsURLPrefix) {
		return "", false
	}
	return dest, true
}
