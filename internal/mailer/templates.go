// internal/mailer/templates.go
package mailer

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"
)

// Template kinds. Each kind must also appear in the template registry;
// the registry controls the subject line and per-kind enablement.
const (
	KindApplicationConfirmation = "application-confirmation"
	KindNewApplicationAlert     = "new-application-alert"
	KindJobPostedAlert          = "job-posted-alert"
	KindInterviewInvite         = "interview-invite"
	KindStatusUpdate            = "status-update"
	KindHRBroadcast             = "hr-broadcast"
	KindCustom                  = "custom"
)

// body holds the matched HTML and plain-text twins of one message.
type body struct {
	html string
	text string
}

// shell wraps rendered content in the shared header and footer. The
// content lines are already escaped by the caller.
func shell(htmlContent, textContent string) body {
	h := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
<div style="max-width: 600px; margin: 0 auto;">
<h2 style="color: #1a5276;">Olive Bridge Staffing</h2>
%s
<hr style="border: none; border-top: 1px solid #ddd;">
<p style="font-size: 12px; color: #888;">This is an automated message from the Olive Bridge recruiting team. Please do not reply directly to this email.</p>
</div>
</body>
</html>`, htmlContent)

	t := fmt.Sprintf(`Olive Bridge Staffing

%s

--
This is an automated message from the Olive Bridge recruiting team.
Please do not reply directly to this email.`, textContent)

	return body{html: h, text: t}
}

func esc(s string) string {
	return html.EscapeString(s)
}

// paragraphs joins (label, value) pairs into HTML and text blocks,
// skipping pairs with empty values. Values are escaped in the HTML twin.
func paragraphs(pairs [][2]string) (string, string) {
	var htmlB, textB strings.Builder
	for _, p := range pairs {
		if p[1] == "" {
			continue
		}
		if p[0] == "" {
			htmlB.WriteString(fmt.Sprintf("<p>%s</p>\n", esc(p[1])))
			textB.WriteString(p[1] + "\n\n")
			continue
		}
		htmlB.WriteString(fmt.Sprintf("<p><strong>%s:</strong> %s</p>\n", esc(p[0]), esc(p[1])))
		textB.WriteString(fmt.Sprintf("%s: %s\n", p[0], p[1]))
	}
	return htmlB.String(), textB.String()
}

// ApplicationConfirmationData feeds the candidate confirmation email.
type ApplicationConfirmationData struct {
	CandidateName string
	JobTitle      string
	ApplicationID string
}

func renderApplicationConfirmation(d ApplicationConfirmationData) body {
	htmlC, textC := paragraphs([][2]string{
		{"", fmt.Sprintf("Hi %s,", d.CandidateName)},
		{"", fmt.Sprintf("Thank you for applying for the %s position. Our recruiting team has received your application and will be in touch soon.", d.JobTitle)},
		{"Reference", d.ApplicationID},
	})
	return shell(htmlC, textC)
}

// NewApplicationAlertData feeds the job-owner alert email.
type NewApplicationAlertData struct {
	OwnerName     string
	CandidateName string
	CandidateMail string
	JobTitle      string
	AppliedAt     string
}

func renderNewApplicationAlert(d NewApplicationAlertData) body {
	htmlC, textC := paragraphs([][2]string{
		{"", fmt.Sprintf("Hi %s,", d.OwnerName)},
		{"", fmt.Sprintf("A new application has arrived for %s.", d.JobTitle)},
		{"Candidate", d.CandidateName},
		{"Email", d.CandidateMail},
		{"Submitted", d.AppliedAt},
	})
	return shell(htmlC, textC)
}

// JobPostedAlertData feeds the HR job-posted email. Excluded
// departments are rendered as an annotation; the recipient list is not
// filtered by them.
type JobPostedAlertData struct {
	JobID               string
	JobTitle            string
	Client              string
	Location            string
	PayRate             string
	Description         string
	ExcludedDepartments []string
}

const descriptionPreviewLimit = 300

// truncate shortens s to at most limit runes without splitting a
// multi-byte character.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}

func renderJobPostedAlert(d JobPostedAlertData) body {
	description := truncate(d.Description, descriptionPreviewLimit)

	pairs := [][2]string{
		{"", fmt.Sprintf("A new position has been posted: %s", d.JobTitle)},
		{"Job ID", d.JobID},
		{"Client", d.Client},
		{"Location", d.Location},
		{"Pay rate", d.PayRate},
		{"Description", description},
	}
	if len(d.ExcludedDepartments) > 0 {
		pairs = append(pairs, [2]string{
			"Note", fmt.Sprintf("Not intended for: %s", strings.Join(d.ExcludedDepartments, ", ")),
		})
	}

	htmlC, textC := paragraphs(pairs)
	return shell(htmlC, textC)
}

// InterviewInviteData feeds the interview invitation email.
type InterviewInviteData struct {
	CandidateName string
	JobTitle      string
	Schedule      string
	Location      string
	Notes         string
}

func renderInterviewInvite(d InterviewInviteData) body {
	htmlC, textC := paragraphs([][2]string{
		{"", fmt.Sprintf("Hi %s,", d.CandidateName)},
		{"", fmt.Sprintf("We would like to invite you to interview for the %s position.", d.JobTitle)},
		{"When", d.Schedule},
		{"Where", d.Location},
		{"Notes", d.Notes},
	})
	return shell(htmlC, textC)
}

// StatusUpdateData feeds the candidate status-change email.
type StatusUpdateData struct {
	CandidateName string
	JobTitle      string
	NewStatus     string
}

func renderStatusUpdate(d StatusUpdateData) body {
	htmlC, textC := paragraphs([][2]string{
		{"", fmt.Sprintf("Hi %s,", d.CandidateName)},
		{"", fmt.Sprintf("The status of your application for %s has changed.", d.JobTitle)},
		{"New status", d.NewStatus},
	})
	return shell(htmlC, textC)
}

// HRBroadcastData feeds the HR/admin directory fan-out sent when an
// application arrives on a flagged job.
type HRBroadcastData struct {
	CandidateName string
	JobTitle      string
	PostingID     string
	AppliedAt     string
}

func renderHRBroadcast(d HRBroadcastData) body {
	htmlC, textC := paragraphs([][2]string{
		{"", fmt.Sprintf("A new application has been received for %s.", d.JobTitle)},
		{"Posting", d.PostingID},
		{"Candidate", d.CandidateName},
		{"Submitted", d.AppliedAt},
	})
	return shell(htmlC, textC)
}

// CustomData feeds a free-form message.
type CustomData struct {
	Greeting string
	Body     string
}

func renderCustom(d CustomData) body {
	htmlC, textC := paragraphs([][2]string{
		{"", d.Greeting},
		{"", d.Body},
	})
	return shell(htmlC, textC)
}
