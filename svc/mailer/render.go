package mailer

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yieldcanary/yieldcanary/pkg/email"
)

var (
	placeholderRe = regexp.MustCompile(`{{([^}]+)}}`)
	nameSplitRe   = regexp.MustCompile(`[._\s-]`)
)

// Replace substitutes {{key}} and {{key|fallback}} tokens. An empty or missing
// value falls back to the fallback, or to "" when there is none.
func Replace(input string, data map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(input, func(m string) string {
		parts := strings.Split(m[2:len(m)-2], "|")
		if v := data[strings.TrimSpace(parts[0])]; v != "" {
			return v
		}
		if len(parts) > 1 {
			return strings.TrimSpace(parts[1])
		}
		return ""
	})
}

// FirstName derives a greeting name from the local part of addr:
// "jane.doe@example.com" becomes "Jane". Returns "" when nothing usable remains.
func FirstName(addr string) string {
	local, _, _ := strings.Cut(addr, "@")
	token := nameSplitRe.Split(local, 2)[0]
	if token == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(token)
	return string(unicode.ToUpper(r)) + token[size:]
}

var htmlLayout = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Subject}}</title>
</head>
<body style="font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;line-height:1.6;color:#1f2937;background:#f9fafb;">
{{- if .Preview}}
<div style="display:none;max-height:0;overflow:hidden;">{{.Preview}}</div>
{{- end}}
<div style="max-width:600px;margin:0 auto;background:#ffffff;padding:32px;">
{{- range .Lines}}
<p>{{.}}</p>
{{- end}}
</div>
</body>
</html>
`))

type layoutData struct {
	Subject string
	Preview string
	Lines   []string
}

// Render resolves tpl against data for recipient to. When data has no
// first_name key, one is derived from the address.
func Render(tpl Template, to string, data map[string]string) (email.SendEmailParams, error) {
	values := make(map[string]string, len(data)+1)
	if _, ok := data["first_name"]; !ok {
		values["first_name"] = FirstName(to)
	}
	for k, v := range data {
		values[k] = v
	}

	subject := Replace(tpl.Subject, values)
	body := Replace(tpl.Body, values)

	lines := make([]string, 0, strings.Count(body, "\n")+1)
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	var buf bytes.Buffer
	if err := htmlLayout.Execute(&buf, layoutData{
		Subject: subject,
		Preview: Replace(tpl.PreviewText, values),
		Lines:   lines,
	}); err != nil {
		return email.SendEmailParams{}, err
	}

	return email.SendEmailParams{
		SendTo:   to,
		Subject:  subject,
		BodyHTML: buf.String(),
		BodyText: body,
		Tag:      tpl.ID,
	}, nil
}
