package web

import (
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

const landingTemplate = "index.html"

//go:embed templates/index.html
var defaultTemplates embed.FS

// LandingData is everything the landing template can see. The application
// secret is deliberately absent.
type LandingData struct {
	AppName        string
	APIKey         string
	UploadEndpoint string
}

type Landing struct {
	data LandingData
}

func NewLanding(data LandingData) *Landing {
	return &Landing{data: data}
}

func (l *Landing) Handle(c *gin.Context) {
	c.HTML(http.StatusOK, landingTemplate, l.data)
}

// LoadTemplate parses <viewsDir>/index.html, or the built-in page when the
// file does not exist.
func LoadTemplate(viewsDir string) (*template.Template, bool, error) {
	p := filepath.Join(viewsDir, landingTemplate)
	if _, err := os.Stat(p); err == nil {
		t, err := template.ParseFiles(p)
		return t, true, err
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, false, err
	}

	t, err := template.ParseFS(defaultTemplates, "templates/"+landingTemplate)
	return t, false, err
}
