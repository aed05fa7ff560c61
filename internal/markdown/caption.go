// Package markdown renders image captions for display. Captions are
// treated as untrusted input: rendered markdown is sanitized before it
// leaves the server.
package markdown

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

type CaptionRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *CaptionRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	return &CaptionRenderer{
		md:     md,
		policy: bluemonday.UGCPolicy(),
	}
}

// Render converts a caption to sanitized HTML. On a render failure the
// caption is returned escaped rather than dropped.
func (r *CaptionRenderer) Render(caption string) string {
	if caption == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(caption), &buf); err != nil {
		return r.policy.Sanitize(caption)
	}

	return r.policy.Sanitize(strings.TrimSpace(buf.String()))
}
