package server

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/vango-dev/stocknav/pkg/router"
)

// IndexFile is the shell file looked up in the static directory.
const IndexFile = "index.html"

var builtinShell = template.Must(template.New("shell").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<base href="{{.Base}}">
<title>stocknav</title>
</head>
<body>
<div id="app" data-history="{{.Mode}}" data-base="{{.Base}}"></div>
</body>
</html>
`))

// shell is the single page every client-side route renders into, plus the
// static files served next to it.
type shell struct {
	body    []byte
	modTime time.Time
	static  fs.FS
}

func loadShell(staticDir string, mode router.HistoryMode, base string) (*shell, error) {
	sh := &shell{modTime: time.Now()}

	if staticDir != "" {
		sh.static = os.DirFS(staticDir)
		data, err := fs.ReadFile(sh.static, IndexFile)
		switch {
		case err == nil:
			sh.body = data
			if info, err := fs.Stat(sh.static, IndexFile); err == nil {
				sh.modTime = info.ModTime()
			}
			return sh, nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("read shell: %w", err)
		}
	}

	href := base
	if !strings.HasSuffix(href, "/") {
		href += "/"
	}
	var buf bytes.Buffer
	if err := builtinShell.Execute(&buf, struct {
		Base string
		Mode string
	}{href, mode.String()}); err != nil {
		return nil, fmt.Errorf("render shell: %w", err)
	}
	sh.body = buf.Bytes()
	return sh, nil
}

func (sh *shell) serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, IndexFile, sh.modTime, bytes.NewReader(sh.body))
}

// serveStatic serves rel from the static directory. It reports false when
// the file does not exist or is a directory.
func (sh *shell) serveStatic(w http.ResponseWriter, r *http.Request, rel string) bool {
	if sh.static == nil || rel == "" || rel == IndexFile {
		return false
	}
	info, err := fs.Stat(sh.static, rel)
	if err != nil || info.IsDir() {
		return false
	}
	http.ServeFileFS(w, r, sh.static, rel)
	return true
}

// staticRelPath maps a request path under base to a path relative to the
// static directory. It rejects traversal and anything fs.ValidPath refuses.
func staticRelPath(requestPath, base string) (string, bool) {
	if strings.Contains(requestPath, "\\") || strings.ContainsRune(requestPath, 0) {
		return "", false
	}
	p := requestPath
	if base != "/" {
		if p != base && !strings.HasPrefix(p, base+"/") {
			return "", false
		}
		p = strings.TrimPrefix(p, base)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", false
		}
	}
	rel := strings.TrimPrefix(path.Clean("/"+p), "/")
	if rel == "" || !fs.ValidPath(rel) {
		return "", false
	}
	return rel, true
}
