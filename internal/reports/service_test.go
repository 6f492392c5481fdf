package reports

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-pm/meridian/internal/authz"
	"github.com/meridian-pm/meridian/internal/finance"
	"github.com/meridian-pm/meridian/internal/projects"
	"github.com/meridian-pm/meridian/internal/tasks"
)

type stubDirectory struct{}

func (stubDirectory) GetProject(ctx context.Context, subject authz.Subject, projectID int64) (*projects.Project, error) {
	return &projects.Project{ID: projectID, CompanyID: subject.CompanyID, Name: "Harbor Upgrade", Status: projects.StatusActive}, nil
}

func (stubDirectory) ListMembers(ctx context.Context, projectID int64) ([]projects.Member, error) {
	return []projects.Member{{UserID: 10}, {UserID: 20}}, nil
}

type stubTasks struct{}

func (stubTasks) ListTasks(ctx context.Context, subject authz.Subject, projectID int64) ([]tasks.Task, error) {
	return []tasks.Task{
		{ID: 1, Status: tasks.StatusOpen},
		{ID: 2, Status: tasks.StatusInProgress},
		{ID: 3, Status: tasks.StatusDone},
	}, nil
}

type stubFinances struct{}

func (stubFinances) ListEntries(ctx context.Context, subject authz.Subject, projectID int64) ([]finance.Entry, finance.Summary, error) {
	return nil, finance.Summary{IncomeCents: 250000, ExpenseCents: 100000}, nil
}

func TestStatusReportAggregates(t *testing.T) {
	service := NewService(stubDirectory{}, stubTasks{}, stubFinances{}, nil)
	subject := authz.Subject{UserID: 10, CompanyID: 1, Role: authz.RoleManager}

	rep, err := service.StatusReport(context.Background(), subject, 7)
	require.NoError(t, err)
	assert.Equal(t, "Harbor Upgrade", rep.ProjectName)
	assert.Equal(t, string(projects.StatusActive), rep.Status)
	assert.Equal(t, 2, rep.MemberCount)
	assert.Equal(t, 3, rep.TasksTotal)
	assert.Equal(t, 2, rep.TasksOpen)
	assert.Equal(t, 1, rep.TasksDone)
	assert.Equal(t, int64(150000), rep.BalanceCents)
	assert.WithinDuration(t, time.Now().UTC(), rep.GeneratedAt, time.Minute)
}

func TestRenderStatusHTMLEscapes(t *testing.T) {
	rep := &StatusReport{ProjectName: "<script>alert(1)</script>", GeneratedAt: time.Now()}
	html := renderStatusHTML(rep)
	assert.False(t, strings.Contains(html, "<script>"))
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRenderPDFWithoutRenderer(t *testing.T) {
	service := NewService(stubDirectory{}, stubTasks{}, stubFinances{}, nil)
	_, err := service.RenderPDF(context.Background(), &StatusReport{})
	assert.Error(t, err)
}
