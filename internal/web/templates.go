package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
)

// Page template names
const (
	PageHome              = "home"
	PageRegister          = "register"
	PageNewAppointment    = "new_appointment"
	PageSuccess           = "success"
	PageAdminLogin        = "admin_login"
	PageAdmin             = "admin"
	PageAppointmentDialog = "appointment_dialog"
	PageError             = "error_page"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses every page. It panics on a malformed template, which only a
// broken build can produce.
func Templates() *template.Template {
	return template.Must(template.New("pages").ParseFS(templateFS, "templates/*.html"))
}

// Assets serves the embedded stylesheet, script and icons under /assets.
// Doctor portraits under images/ are read from imagesDir when it is set.
func Assets(imagesDir string) http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return assets{embedded: http.FS(sub), images: imagesDir}
}

type assets struct {
	embedded http.FileSystem
	images   string
}

func (a assets) Open(name string) (http.File, error) {
	if rest, ok := strings.CutPrefix(name, "/images/"); ok && a.images != "" {
		return http.Dir(a.images).Open("/" + rest)
	}
	return a.embedded.Open(name)
}
