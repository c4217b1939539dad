package notify

import (
	"bytes"
	"html/template"

	"github.com/ortelius/obsolescence-backend/model"
	"github.com/ortelius/obsolescence-backend/util"
)

type notificationData struct {
	Application string
	Project     string
	Criticity   string
	Version     *versionLine
	Dependency  *dependencyLine
}

type versionLine struct {
	Number       string
	EndOfSupport string
	Status       string
}

type dependencyLine struct {
	Name         string
	Category     string
	EndOfSupport string
}

var notificationTemplate = template.Must(template.New("notification").Parse(
	`<h3>{{.Application}}</h3>` +
		`<p>Project: {{.Project}}</p>` +
		`<p>Criticity: {{.Criticity}}</p>` +
		`{{with .Version}}<p>Version {{.Number}} - End of support: {{.EndOfSupport}} - Status: {{.Status}}</p>{{end}}` +
		`{{with .Dependency}}<p>Dependency {{.Name}} ({{.Category}}) - End of support: {{.EndOfSupport}}</p>{{end}}` +
		`<p>Please update the action plan in the obsolescence tool.</p>`,
))

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// FormatNotificationHTML renders the alert body for an application and the
// optional version or dependency that triggered it. Values are HTML-escaped.
func FormatNotificationHTML(app model.Application, project *model.Project, version *model.Version, dependency *model.Dependency) string {
	data := notificationData{
		Application: app.Name,
		Project:     "N/A",
		Criticity:   string(app.Criticity),
	}
	if project != nil {
		data.Project = orNA(project.Name)
	}
	if version != nil {
		data.Version = &versionLine{
			Number:       version.Number,
			EndOfSupport: orNA(util.FormatDate(version.EndOfSupport)),
			Status:       string(version.RemediationStatus),
		}
	}
	if dependency != nil {
		data.Dependency = &dependencyLine{
			Name:         dependency.Name,
			Category:     string(dependency.Category),
			EndOfSupport: orNA(util.FormatDate(dependency.EndOfSupport)),
		}
	}

	var buf bytes.Buffer
	if err := notificationTemplate.Execute(&buf, data); err != nil {
		return ""
	}
	return buf.String()
}

// DefaultRecipients returns the application owner followed by the project
// contact, skipping whichever is not set
func DefaultRecipients(app model.Application, project *model.Project) []string {
	var recipients []string
	if util.IsNotEmpty(app.Owner) {
		recipients = append(recipients, app.Owner)
	}
	if project != nil && util.IsNotEmpty(project.Contact) {
		recipients = append(recipients, project.Contact)
	}
	return util.NormalizeRecipients(recipients)
}

// AlertSubject is the email subject used for an application alert
func AlertSubject(applicationName string) string {
	return "[Obsolescence] " + applicationName
}

// DefaultTeamsSummary is the webhook text used when the caller gives none
func DefaultTeamsSummary(applicationName string) string {
	return "Obsolescence alert - " + applicationName
}
