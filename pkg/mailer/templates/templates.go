package templates

import (
	"bytes"
	htmpl "html/template"
	texttpl "text/template"
)

// Welcome is the data rendered into the welcome message.
type Welcome struct {
	Name        string
	Email       string
	AppName     string
	CompanyName string
	SupportURL  string
}

const welcomeSubject = `Welcome to {{ .AppName }}, {{ .Name }}`

const welcomeText = `Hi {{ .Name }},

Your account {{ .Email }} has been created on {{ .AppName }}.
{{ if .SupportURL }}
Questions? {{ .SupportURL }}
{{ end }}
{{ with .CompanyName }}{{ . }}{{ end }}
`

const welcomeHTML = `<!doctype html>
<html><body style="font-family:sans-serif">
<p>Hi {{ .Name }},</p>
<p>Your account <strong>{{ .Email }}</strong> has been created on {{ .AppName }}.</p>
{{ if .SupportURL }}<p>Questions? <a href="{{ .SupportURL }}">Contact support</a></p>{{ end }}
{{ with .CompanyName }}<p style="color:#888">{{ . }}</p>{{ end }}
</body></html>`

var (
	subjectTpl = texttpl.Must(texttpl.New("welcome_subject").Parse(welcomeSubject))
	textTpl    = texttpl.Must(texttpl.New("welcome_text").Parse(welcomeText))
	htmlTpl    = htmpl.Must(htmpl.New("welcome_html").Parse(welcomeHTML))
)

// RenderWelcome returns subject, plain text and HTML bodies.
func RenderWelcome(d Welcome) (subject, text, html string, err error) {
	var sb, tb, hb bytes.Buffer
	if err = subjectTpl.Execute(&sb, d); err != nil {
		return "", "", "", err
	}
	if err = textTpl.Execute(&tb, d); err != nil {
		return "", "", "", err
	}
	if err = htmlTpl.Execute(&hb, d); err != nil {
		return "", "", "", err
	}
	return sb.String(), tb.String(), hb.String(), nil
}
