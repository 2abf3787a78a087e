// Package mail renders and sends the activation email.
package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templatesFS embed.FS

const ActivationSubject = "Activate your Acara account"

// ActivationData is the view model of the activation template.
type ActivationData struct {
	Subject        string
	FullName       string
	UserName       string
	CreatedAt      string
	ActivationLink string
	Year           int
}

// Renderer executes the embedded templates.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// Activation renders the HTML body of the activation email.
func (r *Renderer) Activation(fullName, userName, link string, createdAt time.Time) (string, error) {
	data := ActivationData{
		Subject:        ActivationSubject,
		FullName:       fullName,
		UserName:       userName,
		CreatedAt:      createdAt.Format("2 January 2006"),
		ActivationLink: link,
		Year:           createdAt.Year(),
	}
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("render activation mail: %w", err)
	}
	return buf.String(), nil
}
