package report

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/entry"
	"github.com/trezcool/studyplanner/core/tip"
)

const (
	summarySubject  = "Today's Study Summary"
	summaryTemplate = "today_summary"
)

var (
	// errors
	ErrNoEntriesToday = errors.New("no study entries found for today")
)

type (
	EntryLister interface {
		QueryEntries(ctx context.Context, filter *entry.QueryFilter, ordering []core.DBOrdering) ([]entry.StudyEntry, error)
	}

	// Reports is the reports view: course summaries and the study tips.
	Reports struct {
		CourseReport
		StudyTips []string `json:"study_tips"`
	}

	Service struct {
		entries   EntryLister
		tips      tip.Lister
		mailSvc   core.EmailService
		recipient mail.Address
		loc       *time.Location
	}

	// MailError is returned when the summary could not be handed to the mail transport.
	MailError struct {
		Err error
	}

	summaryData struct {
		Date    string
		Entries []entry.StudyEntry
	}
)

func (e *MailError) Error() string { return "sending summary email: " + e.Err.Error() }
func (e *MailError) Unwrap() error { return e.Err }

func NewService(entries EntryLister, tips tip.Lister, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{
		entries:   entries,
		tips:      tips,
		mailSvc:   mailSvc,
		recipient: conf.SummaryRecipient(),
		loc:       conf.Location(),
	}
}

func (svc *Service) Today() time.Time {
	return core.Today(svc.loc)
}

func (svc *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	entries, err := svc.entries.QueryEntries(ctx, nil, nil)
	if err != nil {
		return Dashboard{}, errors.Wrap(err, "querying entries")
	}
	return ComputeDashboard(entries, svc.Today()), nil
}

func (svc *Service) Reports(ctx context.Context) (Reports, error) {
	entries, err := svc.entries.QueryEntries(ctx, nil, nil)
	if err != nil {
		return Reports{}, errors.Wrap(err, "querying entries")
	}
	tips, err := svc.tips.ListTips(ctx)
	if err != nil {
		return Reports{}, errors.Wrap(err, "listing study tips")
	}
	if tips == nil {
		tips = []string{}
	}
	return Reports{
		CourseReport: ComputeCourseSummaries(entries, svc.Today()),
		StudyTips:    tips,
	}, nil
}

// SendTodaySummary emails today's entries to the summary recipient and returns how many were sent.
// Nothing is sent when there are no entries today: ErrNoEntriesToday is returned instead.
func (svc *Service) SendTodaySummary(ctx context.Context) (int, error) {
	today := svc.Today()
	entries, err := svc.entries.QueryEntries(ctx, &entry.QueryFilter{DateFrom: today, DateTo: today}, nil)
	if err != nil {
		return 0, errors.Wrap(err, "querying today's entries")
	}
	if len(entries) == 0 {
		return 0, ErrNoEntriesToday
	}

	msg := &core.EmailMessage{
		To:           []mail.Address{svc.recipient},
		Subject:      summarySubject,
		TemplateName: summaryTemplate,
		TemplateData: summaryData{
			Date:    today.Format(core.DateLayout),
			Entries: entries,
		},
	}
	if err = svc.mailSvc.SendMessages(ctx, msg); err != nil {
		return 0, &MailError{Err: err}
	}
	return len(entries), nil
}
