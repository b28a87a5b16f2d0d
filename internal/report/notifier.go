package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/Nairolf13/Frimousse-sub002/internal/config"
	"github.com/Nairolf13/Frimousse-sub002/internal/invoice/format"
	"github.com/Nairolf13/Frimousse-sub002/internal/providers/email"
	"github.com/Nairolf13/Frimousse-sub002/internal/providers/notify"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var reportTmpl = template.Must(template.New("run_report").Parse(`<html><body>
<h2>Billing run {{.Period}}</h2>
<p>{{.Report.SentCount}} sent, {{.Report.FailedCount}} failed, {{.Report.TotalAttempted}} attempted.</p>
{{if .Report.Failures}}
<table border="1" cellpadding="4" cellspacing="0">
<tr><th>Parent</th><th>Reason</th></tr>
{{range .Report.Failures}}<tr><td>{{.ParentName}}</td><td>{{.Reason}}</td></tr>
{{end}}</table>
{{else}}
<p>All invoices went out without error.</p>
{{end}}
</body></html>`))

type NotifierParam struct {
	fx.In

	Log      *zap.Logger
	Policy   *config.BillingPolicyHolder
	Mailer   email.Provider
	Notifier notify.Provider
}

// Notifier fans a finished RunReport out to the operators.
type Notifier struct {
	log      *zap.Logger
	policy   *config.BillingPolicyHolder
	mailer   email.Provider
	notifier notify.Provider
}

func NewNotifier(p NotifierParam) *Notifier {
	return &Notifier{
		log:      p.Log.Named("report"),
		policy:   p.Policy,
		mailer:   p.Mailer,
		notifier: p.Notifier,
	}
}

// NotifyOperators pushes the summary to the operator channel and mails the
// failure table. Every delivery is best effort: a failing operator channel
// or address is logged and the rest still go out.
func (n *Notifier) NotifyOperators(ctx context.Context, r RunReport) {
	period := format.Period(r.Year, r.Month)
	policy := n.policy.Get()

	if len(policy.OperatorIDs) > 0 {
		err := n.notifier.Notify(ctx, policy.OperatorIDs, notify.Notification{
			Title: fmt.Sprintf("Billing run %s finished", period),
			Body:  fmt.Sprintf("%d sent, %d failed out of %d parents", r.SentCount, r.FailedCount, r.TotalAttempted),
			Metadata: map[string]any{
				"year":            r.Year,
				"month":           r.Month,
				"total_attempted": r.TotalAttempted,
				"sent_count":      r.SentCount,
				"failed_count":    r.FailedCount,
			},
		})
		if err != nil {
			n.log.Warn("operator push notification failed", zap.Error(err))
		}
	}

	if len(policy.OperatorEmails) == 0 || n.mailer == nil || !n.mailer.Configured() {
		return
	}

	var body bytes.Buffer
	if err := reportTmpl.Execute(&body, map[string]any{
		"Period": period,
		"Report": r,
	}); err != nil {
		n.log.Error("render run report email", zap.Error(err))
		return
	}

	subject := fmt.Sprintf("Billing run %s: %d sent, %d failed", period, r.SentCount, r.FailedCount)
	for _, operator := range policy.OperatorEmails {
		_, err := n.mailer.Send(ctx, email.Message{
			To:       []string{operator},
			Subject:  subject,
			HTMLBody: body.String(),
		})
		if err != nil {
			n.log.Warn("operator email failed",
				zap.String("operator", operator),
				zap.Error(err),
			)
		}
	}
}
