package email

import (
	"bytes"
	"fmt"
	"html/template"
)

const (
	subjectOrderConfirmationFmt = "Order %s confirmed"
	subjectQuoteReadyFmt        = "Your quote %s is ready"
)

var baseTemplate = template.Must(template.New("base").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #333;">
  <h2>{{.Heading}}</h2>
  {{range .Paragraphs}}<p>{{.}}</p>
  {{end}}
  <p style="color: #999; font-size: 12px;">Snow Spoiled Gifts</p>
</body>
</html>`))

type emailData struct {
	Heading    string
	Paragraphs []string
}

func render(data emailData) (string, error) {
	var buf bytes.Buffer
	if err := baseTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return buf.String(), nil
}

// formatCurrencyZAR formats cents as South African rand.
func formatCurrencyZAR(cents int64) string {
	return fmt.Sprintf("R%d.%02d", cents/100, cents%100)
}
