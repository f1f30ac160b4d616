package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"mime"
	"mime/quotedprintable"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Envelope carries the addressing of a composed message.
type Envelope struct {
	From    string
	To      string
	ReplyTo string
}

const subjectPrefix = "Portfolio: "

var bodyTmpl = template.Must(template.New("contact").Funcs(template.FuncMap{
	"lines": func(s string) []string {
		return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	},
}).Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; background: #f7fafc; padding: 20px; border-radius: 10px;">
  <h2 style="color: #667eea; text-align: center;">Nouveau message depuis votre portfolio</h2>
  <div style="background: white; padding: 20px; border-radius: 8px;">
    <p><strong>Nom:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
    <p><strong>Sujet:</strong> {{.Subject}}</p>
    <div><strong>Message:</strong>
      <div style="background: #f8f9fa; padding: 15px; border-left: 4px solid #667eea;">{{range $i, $l := lines .Message}}{{if $i}}<br>{{end}}{{$l}}{{end}}</div>
    </div>
  </div>
  <div style="margin-top: 20px; padding: 15px; background: #e8f4fd; text-align: center;">
    <p style="margin: 0; font-size: 14px;">
      Message journalisé<br>
      {{if .SavedToFile}}Message sauvegardé dans un fichier{{else}}Erreur sauvegarde fichier{{end}}<br>
      Reçu le: {{.ReceivedAt}}
    </p>
  </div>
  <p style="color: #718096; font-size: 12px; text-align: center;">Ce message a été envoyé depuis le formulaire de contact de votre portfolio</p>
</div>
`))

type bodyData struct {
	Name, Email, Subject, Message string
	SavedToFile                   bool
	ReceivedAt                    string
}

// RenderHTML renders the notification body. All submission fields are
// HTML-escaped; newlines in the message become <br>.
func RenderHTML(n Notification) (string, error) {
	r := n.Record
	var buf bytes.Buffer
	err := bodyTmpl.Execute(&buf, bodyData{
		Name:        r.Name,
		Email:       r.Email,
		Subject:     r.Subject,
		Message:     r.Message,
		SavedToFile: n.SavedToFile,
		ReceivedAt:  n.ReceivedAt.UTC().Format("02/01/2006 15:04:05 UTC"),
	})
	if err != nil {
		return "", fmt.Errorf("render body: %w", err)
	}
	return buf.String(), nil
}

// Compose builds a complete RFC 5322 message with a quoted-printable HTML body.
func Compose(env Envelope, n Notification) ([]byte, error) {
	html, err := RenderHTML(n)
	if err != nil {
		return nil, err
	}

	now := n.ReceivedAt
	if now.IsZero() {
		now = time.Now()
	}

	var buf bytes.Buffer
	header := func(k, v string) {
		buf.WriteString(k)
		buf.WriteString(": ")
		buf.WriteString(v)
		buf.WriteString("\r\n")
	}
	header("From", (&mail.Address{Address: env.From}).String())
	header("To", (&mail.Address{Address: env.To}).String())
	if env.ReplyTo != "" {
		header("Reply-To", (&mail.Address{Name: headerSafe(n.Record.Name), Address: env.ReplyTo}).String())
	}
	header("Subject", mime.QEncoding.Encode("utf-8", headerSafe(subjectPrefix+n.Record.Subject)))
	header("Date", now.Format(time.RFC1123Z))
	header("Message-ID", "<"+uuid.NewString()+"@"+domainOf(env.From)+">")
	header("MIME-Version", "1.0")
	header("Content-Type", `text/html; charset="utf-8"`)
	header("Content-Transfer-Encoding", "quoted-printable")
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(html)); err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return buf.Bytes(), nil
}

// headerSafe collapses CR/LF so user input cannot start a new header line.
func headerSafe(s string) string {
	return strings.Join(strings.Fields(strings.NewReplacer("\r", " ", "\n", " ").Replace(s)), " ")
}

func domainOf(addr string) string {
	if i := strings.LastIndexByte(addr, '@'); i >= 0 && i < len(addr)-1 {
		return addr[i+1:]
	}
	return "localhost"
}
