package web

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const indexFile = "index.html"

// Static serves files from a directory for any GET/HEAD that no route
// matched. Directories are never listed.
type Static struct {
	fsys   fs.FS
	maxAge time.Duration
}

func NewStatic(root string, maxAge time.Duration) *Static {
	return &Static{fsys: os.DirFS(root), maxAge: maxAge}
}

func (s *Static) Handle(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	name, ok := cleanName(c.Request.URL.Path)
	if !ok {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	f, fi, err := s.open(name)
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	defer f.Close()

	rs, ok := f.(io.ReadSeeker)
	if !ok {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	if s.maxAge > 0 {
		c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", int(s.maxAge.Seconds())))
	}
	http.ServeContent(c.Writer, c.Request, fi.Name(), fi.ModTime(), rs)
}

// open resolves name to a regular file, falling back to index.html for a
// directory.
func (s *Static) open(name string) (fs.File, fs.FileInfo, error) {
	f, err := s.fsys.Open(name)
	if err != nil {
		return nil, nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	if fi.IsDir() {
		f.Close()
		f, err = s.fsys.Open(path.Join(name, indexFile))
		if err != nil {
			return nil, nil, err
		}
		if fi, err = f.Stat(); err != nil {
			f.Close()
			return nil, nil, err
		}
	}

	if !fi.Mode().IsRegular() {
		f.Close()
		return nil, nil, errors.New("not a regular file")
	}

	return f, fi, nil
}

// cleanName maps a URL path to an fs.FS name. Hidden segments (".env",
// ".git/...") are refused.
func cleanName(urlPath string) (string, bool) {
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		return ".", true
	}
	for _, seg := range strings.Split(name, "/") {
		if strings.HasPrefix(seg, ".") {
			return "", false
		}
	}

	return name, fs.ValidPath(name)
}
