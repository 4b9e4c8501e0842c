// Package templates provides email template components
package templates

import (
	"bytes"
	"html/template"
	"log"
)

// LeadAlertProps feeds the high-value lead notification body.
type LeadAlertProps struct {
	LeadID         string
	Score          float64
	Classification string
	Source         string
	EstimatedValue float64
	Probability    float64
	NextAction     string
}

var leadAlertTemplate = template.Must(template.New("leadAlert").Parse(`
<h2 style="font-family: Helvetica, sans-serif; font-size: 20px; margin: 0 0 16px;">High-value lead detected</h2>
<p style="font-family: Helvetica, sans-serif; font-size: 16px; margin: 0 0 16px;">
  A new lead just crossed the high-value threshold and needs attention.
</p>
<table role="presentation" border="0" cellpadding="4" cellspacing="0" style="border-collapse: collapse; width: 100%; font-family: Helvetica, sans-serif; font-size: 15px;">
  <tr><td style="color: #9a9ea6;">Lead</td><td>{{.LeadID}}</td></tr>
  <tr><td style="color: #9a9ea6;">Score</td><td>{{printf "%.0f" .Score}} ({{.Classification}})</td></tr>
  <tr><td style="color: #9a9ea6;">Source</td><td>{{.Source}}</td></tr>
  <tr><td style="color: #9a9ea6;">Estimated value</td><td>${{printf "%.0f" .EstimatedValue}}</td></tr>
  <tr><td style="color: #9a9ea6;">Win probability</td><td>{{printf "%.0f" .ProbabilityPercent}}%</td></tr>
  <tr><td style="color: #9a9ea6;">Next action</td><td>{{.NextAction}}</td></tr>
</table>`))

type leadAlertData struct {
	LeadAlertProps
	ProbabilityPercent float64
}

// GetLeadAlertContent renders the high-value lead notification body.
func GetLeadAlertContent(props LeadAlertProps) string {
	var buf bytes.Buffer
	data := leadAlertData{LeadAlertProps: props, ProbabilityPercent: props.Probability * 100}
	if err := leadAlertTemplate.Execute(&buf, data); err != nil {
		log.Printf("ERROR: Failed to execute lead alert template: %v", err)
		return ""
	}
	return buf.String()
}

// BusinessAlertProps feeds the periodic business alert body.
type BusinessAlertProps struct {
	Subject string
	Lines   []string
}

var businessAlertTemplate = template.Must(template.New("businessAlert").Parse(`
<h2 style="font-family: Helvetica, sans-serif; font-size: 20px; margin: 0 0 16px;">{{.Subject}}</h2>
<ul style="font-family: Helvetica, sans-serif; font-size: 15px; margin: 0; padding-left: 20px;">
{{range .Lines}}  <li style="margin-bottom: 8px;">{{.}}</li>
{{end}}</ul>`))

// GetBusinessAlertContent renders a generic business alert body.
func GetBusinessAlertContent(props BusinessAlertProps) string {
	var buf bytes.Buffer
	if err := businessAlertTemplate.Execute(&buf, props); err != nil {
		log.Printf("ERROR: Failed to execute business alert template: %v", err)
		return ""
	}
	return buf.String()
}
