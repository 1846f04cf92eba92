// Package views holds the server-rendered HTML pages.
package views

import (
	"embed"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed *.html
var files embed.FS

const (
	ResumeHighlighted = "resume_highlighted"
	RSVPRecorded      = "rsvp"
	RSVPMessage       = "rsvp_message"
)

// NewEngine returns a Fiber view engine backed by the embedded templates.
func NewEngine() *html.Engine {
	return html.NewFileSystem(http.FS(files), ".html")
}
