package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/creatorflow/apigateway/internal/domain"
)

// fakeProjectRepo is an in-memory domain.ProjectRepository.
type fakeProjectRepo struct {
	mu       sync.Mutex
	nextID   int64
	projects map[int64]*domain.Project

	// appendFailures makes the next N AppendTaskSummary calls fail with
	// a transient error.
	appendFailures int
	appendCalls    int
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[int64]*domain.Project)}
}

func (r *fakeProjectRepo) Create(ctx context.Context, ownerID string, p *domain.Project) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	p.ID = r.nextID
	p.OwnerID = ownerID
	cp := *p
	r.projects[p.ID] = &cp
	return p.ID, nil
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, ownerID string, id int64) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.projects[id]
	if !ok || p.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProjectRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Project
	for _, p := range r.projects {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) AppendTaskSummary(ctx context.Context, ownerID string, projectID int64, summary domain.TaskSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.appendCalls++
	if r.appendFailures > 0 {
		r.appendFailures--
		return errors.New("deadline exceeded")
	}

	p, ok := r.projects[projectID]
	if !ok || p.OwnerID != ownerID {
		return domain.ErrProjectNotFound
	}
	for _, existing := range p.Tasks {
		if existing.TaskID == summary.TaskID {
			return nil
		}
	}
	p.Tasks = append(p.Tasks, summary)
	p.TasksCount++
	return nil
}

type fakeIndexer struct {
	mu      sync.Mutex
	indexed []int64
	err     error
}

func (f *fakeIndexer) IndexTask(ctx context.Context, t *domain.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.indexed = append(f.indexed, t.ID)
	return nil
}

func newTestTaskService(tasks *fakeTaskRepo, projects *fakeProjectRepo, index TaskIndexer) *taskService {
	return &taskService{
		tasks:        tasks,
		projects:     projects,
		index:        index,
		loc:          time.UTC,
		now:          func() time.Time { return testNow },
		linkAttempts: 3,
		linkBackoff:  func(int) time.Duration { return 0 },
	}
}

func TestTaskServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("SetsDerivedFields", func(t *testing.T) {
		tasks := newFakeTaskRepo()
		svc := newTestTaskService(tasks, newFakeProjectRepo(), nil)

		res, err := svc.Create(ctx, "u1", &domain.Task{TaskName: "write spec"})
		assert.NoError(t, err)
		assert.NoError(t, res.LinkErr)
		assert.Equal(t, domain.StatusNew, res.Task.Status)
		assert.Equal(t, "2024-05-20", res.Task.CreatedDate)
		assert.Equal(t, testNow, res.Task.CreatedAt)
		assert.NotZero(t, res.Task.ID)
	})

	t.Run("ThreeTasksAggregateInOrder", func(t *testing.T) {
		tasks := newFakeTaskRepo()
		projects := newFakeProjectRepo()
		svc := newTestTaskService(tasks, projects, nil)

		project := &domain.Project{ProjectName: "launch"}
		_, err := projects.Create(ctx, "u1", project)
		assert.NoError(t, err)

		names := []string{"first", "second", "third"}
		for _, name := range names {
			res, err := svc.Create(ctx, "u1", &domain.Task{TaskName: name, ProjectID: project.ID})
			assert.NoError(t, err)
			assert.NoError(t, res.LinkErr)
		}

		stored, err := projects.GetByID(ctx, "u1", project.ID)
		assert.NoError(t, err)
		assert.Equal(t, 3, stored.TasksCount)
		assert.Len(t, stored.Tasks, 3)
		for i, name := range names {
			assert.Equal(t, name, stored.Tasks[i].TaskName)
			assert.Equal(t, domain.StatusNew, stored.Tasks[i].Status)
		}
	})

	t.Run("MissingProjectIsPartialSuccess", func(t *testing.T) {
		tasks := newFakeTaskRepo()
		svc := newTestTaskService(tasks, newFakeProjectRepo(), nil)

		res, err := svc.Create(ctx, "u1", &domain.Task{TaskName: "orphan", ProjectID: 99})
		assert.NoError(t, err)
		assert.ErrorIs(t, res.LinkErr, domain.ErrProjectNotFound)

		// The task itself stands.
		stored, err := tasks.GetByID(ctx, "u1", res.Task.ID)
		assert.NoError(t, err)
		assert.Equal(t, "orphan", stored.TaskName)
	})

	t.Run("TransientLinkFailureIsRetried", func(t *testing.T) {
		tasks := newFakeTaskRepo()
		projects := newFakeProjectRepo()
		svc := newTestTaskService(tasks, projects, nil)

		project := &domain.Project{ProjectName: "launch"}
		_, err := projects.Create(ctx, "u1", project)
		assert.NoError(t, err)

		projects.appendFailures = 2
		res, err := svc.Create(ctx, "u1", &domain.Task{TaskName: "flaky", ProjectID: project.ID})
		assert.NoError(t, err)
		assert.NoError(t, res.LinkErr)
		assert.Equal(t, 3, projects.appendCalls)

		stored, _ := projects.GetByID(ctx, "u1", project.ID)
		assert.Equal(t, 1, stored.TasksCount)
	})

	t.Run("IndexFailureDoesNotFailCreate", func(t *testing.T) {
		tasks := newFakeTaskRepo()
		index := &fakeIndexer{err: errors.New("cluster down")}
		svc := newTestTaskService(tasks, newFakeProjectRepo(), index)

		res, err := svc.Create(ctx, "u1", &domain.Task{TaskName: "still fine"})
		assert.NoError(t, err)
		assert.NotNil(t, res.Task)
	})
}

func TestTaskServiceToggleDone(t *testing.T) {
	ctx := context.Background()
	yesterday := testNow.Add(-24 * time.Hour)

	t.Run("MarkDoneRecomputesLiveProgress", func(t *testing.T) {
		tasks := newFakeTaskRepo()
		projects := newFakeProjectRepo()
		svc := newTestTaskService(tasks, projects, nil)

		project := &domain.Project{ProjectName: "launch"}
		_, err := projects.Create(ctx, "u1", project)
		assert.NoError(t, err)

		var first int64
		for i := 0; i < 4; i++ {
			res, err := svc.Create(ctx, "u1", &domain.Task{TaskName: "t", ProjectID: project.ID})
			assert.NoError(t, err)
			if i == 0 {
				first = res.Task.ID
			}
		}

		result, err := svc.ToggleDone(ctx, "u1", first)
		assert.NoError(t, err)
		assert.Equal(t, domain.StatusDone, result.Status)
		assert.NotNil(t, result.Progress)
		assert.Equal(t, 1, result.Progress.Completed)
		assert.Equal(t, 4, result.Progress.Total)
		assert.InDelta(t, 25.0, result.Progress.Percent, 0.001)
	})

	t.Run("UndoRevertsToDerivedStatus", func(t *testing.T) {
		tasks := newFakeTaskRepo()
		svc := newTestTaskService(tasks, newFakeProjectRepo(), nil)

		id := seedTask(tasks, "u1", domain.Task{
			TaskName: "late", Status: domain.StatusDone,
			DueDate: &yesterday, CreatedDate: "2024-05-19",
		})

		result, err := svc.ToggleDone(ctx, "u1", id)
		assert.NoError(t, err)
		// Un-doing lands straight on the derived status, not on New.
		assert.Equal(t, domain.StatusOverdue, result.Status)
		assert.Equal(t, domain.StatusOverdue, tasks.status(id))
	})

	t.Run("UnknownTask", func(t *testing.T) {
		svc := newTestTaskService(newFakeTaskRepo(), newFakeProjectRepo(), nil)

		_, err := svc.ToggleDone(ctx, "u1", 42)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestTaskServiceProgress(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyProjectIsZero", func(t *testing.T) {
		svc := newTestTaskService(newFakeTaskRepo(), newFakeProjectRepo(), nil)

		p, err := svc.Progress(ctx, "u1", 7)
		assert.NoError(t, err)
		assert.Equal(t, 0, p.Total)
		assert.Equal(t, 0.0, p.Percent)
	})

	t.Run("IgnoresStaleSnapshot", func(t *testing.T) {
		tasks := newFakeTaskRepo()
		projects := newFakeProjectRepo()
		svc := newTestTaskService(tasks, projects, nil)

		project := &domain.Project{ProjectName: "launch"}
		_, err := projects.Create(ctx, "u1", project)
		assert.NoError(t, err)

		res, err := svc.Create(ctx, "u1", &domain.Task{TaskName: "only", ProjectID: project.ID})
		assert.NoError(t, err)
		_, err = svc.ToggleDone(ctx, "u1", res.Task.ID)
		assert.NoError(t, err)

		// The snapshot entry still says New; live progress says Done.
		stored, _ := projects.GetByID(ctx, "u1", project.ID)
		assert.Equal(t, domain.StatusNew, stored.Tasks[0].Status)

		p, err := svc.Progress(ctx, "u1", project.ID)
		assert.NoError(t, err)
		assert.Equal(t, 1, p.Completed)
		assert.InDelta(t, 100.0, p.Percent, 0.001)
	})
}
