package reports

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/meridian-pm/meridian/internal/authz"
	"github.com/meridian-pm/meridian/internal/finance"
	"github.com/meridian-pm/meridian/internal/projects"
	"github.com/meridian-pm/meridian/internal/tasks"
	"github.com/meridian-pm/meridian/report"
)

// ProjectDirectory exposes the project lookups the report needs.
type ProjectDirectory interface {
	GetProject(ctx context.Context, subject authz.Subject, projectID int64) (*projects.Project, error)
	ListMembers(ctx context.Context, projectID int64) ([]projects.Member, error)
}

// TaskLister lists tasks visible to a subject.
type TaskLister interface {
	ListTasks(ctx context.Context, subject authz.Subject, projectID int64) ([]tasks.Task, error)
}

// FinanceLister lists finance entries visible to a subject.
type FinanceLister interface {
	ListEntries(ctx context.Context, subject authz.Subject, projectID int64) ([]finance.Entry, finance.Summary, error)
}

// StatusReport is a point-in-time snapshot of a project.
type StatusReport struct {
	ProjectName  string
	Status       string
	GeneratedAt  time.Time
	MemberCount  int
	TasksTotal   int
	TasksOpen    int
	TasksDone    int
	IncomeCents  int64
	ExpenseCents int64
	BalanceCents int64
}

// Service assembles project status reports.
type Service struct {
	directory ProjectDirectory
	tasks     TaskLister
	finances  FinanceLister
	renderer  *report.Client
}

// NewService constructs a Service. The renderer may be nil when PDF
// output is disabled.
func NewService(directory ProjectDirectory, taskLister TaskLister, financeLister FinanceLister, renderer *report.Client) *Service {
	return &Service{directory: directory, tasks: taskLister, finances: financeLister, renderer: renderer}
}

// StatusReport gathers project, task, finance and membership data
// concurrently and folds it into a report. Visibility follows the
// subject: a restricted role sees counts over its own slice of the
// data, the same slice its list endpoints return.
func (s *Service) StatusReport(ctx context.Context, subject authz.Subject, projectID int64) (*StatusReport, error) {
	var (
		project    *projects.Project
		members    []projects.Member
		taskList   []tasks.Task
		financeSum finance.Summary
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		project, err = s.directory.GetProject(ctx, subject, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		members, err = s.directory.ListMembers(ctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		taskList, err = s.tasks.ListTasks(ctx, subject, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		_, financeSum, err = s.finances.ListEntries(ctx, subject, projectID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &StatusReport{
		ProjectName:  project.Name,
		Status:       string(project.Status),
		GeneratedAt:  time.Now().UTC(),
		MemberCount:  len(members),
		TasksTotal:   len(taskList),
		IncomeCents:  financeSum.IncomeCents,
		ExpenseCents: financeSum.ExpenseCents,
		BalanceCents: financeSum.BalanceCents(),
	}
	for _, t := range taskList {
		switch t.Status {
		case tasks.StatusDone:
			rep.TasksDone++
		default:
			rep.TasksOpen++
		}
	}
	return rep, nil
}

// RenderPDF converts a status report into a PDF document.
func (s *Service) RenderPDF(ctx context.Context, rep *StatusReport) ([]byte, error) {
	if s.renderer == nil {
		return nil, fmt.Errorf("reports: pdf rendering is not configured")
	}
	return s.renderer.RenderHTML(ctx, renderStatusHTML(rep))
}

func renderStatusHTML(rep *StatusReport) string {
	var b strings.Builder
	b.WriteString("<html><head><title>Project Status</title></head><body>")
	fmt.Fprintf(&b, "<h1>%s</h1>", html.EscapeString(rep.ProjectName))
	fmt.Fprintf(&b, "<p>Status: %s &middot; Generated %s</p>", html.EscapeString(rep.Status), rep.GeneratedAt.Format(time.RFC1123))
	fmt.Fprintf(&b, "<p>Members: %d</p>", rep.MemberCount)
	fmt.Fprintf(&b, "<p>Tasks: %d total, %d open, %d done</p>", rep.TasksTotal, rep.TasksOpen, rep.TasksDone)
	fmt.Fprintf(&b, "<p>Income: %s &middot; Expenses: %s &middot; Balance: %s</p>",
		finance.FormatAmount(rep.IncomeCents),
		finance.FormatAmount(rep.ExpenseCents),
		finance.FormatAmount(rep.BalanceCents))
	b.WriteString("</body></html>")
	return b.String()
}
