package task

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/taskflow/backend/domain"
	"github.com/taskflow/backend/repository"
)

// memTaskRepo is an in-memory TaskRepository with the same filter and
// ordering semantics as the Postgres implementation.
type memTaskRepo struct {
	tasks map[string]domain.Task
	seq   int
	order map[string]int
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{
		tasks: make(map[string]domain.Task),
		order: make(map[string]int),
	}
}

func (r *memTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	copied := task
	return &copied, nil
}

func (r *memTaskRepo) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var out []domain.Task
	for _, task := range r.tasks {
		scoped := filter.CreatorID == "" && filter.AssigneeID == ""
		if !scoped {
			if task.CreatorID == filter.CreatorID {
				scoped = true
			}
			if filter.AssigneeID != "" && task.AssignedTo(filter.AssigneeID) {
				scoped = true
			}
		}
		if !scoped {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		out = append(out, task)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return r.order[out[i].ID] < r.order[out[j].ID]
	})
	return out, nil
}

func (r *memTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	r.seq++
	if task.ID == "" {
		task.ID = fmt.Sprintf("task-%d", r.seq)
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	r.order[task.ID] = r.seq
	r.tasks[task.ID] = *task
	return task, nil
}

func (r *memTaskRepo) Update(_ context.Context, task *domain.Task) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	task.UpdatedAt = time.Now()
	r.tasks[task.ID] = *task
	return nil
}

func (r *memTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

type memUserRepo struct {
	users map[string]domain.User
}

func newMemUserRepo(ids ...string) *memUserRepo {
	r := &memUserRepo{users: make(map[string]domain.User)}
	for _, id := range ids {
		r.users[id] = domain.User{ID: id, Role: domain.RoleUser}
	}
	return r
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

func (r *memUserRepo) List(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.users[user.ID] = *user
	return user, nil
}

var (
	admin = domain.Caller{ID: "admin-1", Role: domain.RoleAdmin}
	alice = domain.Caller{ID: "alice", Role: domain.RoleUser}
	bob   = domain.Caller{ID: "bob", Role: domain.RoleUser}
)

func newTestUseCase(t *testing.T, policy domain.PolicyConfig) (*UseCase, *memTaskRepo) {
	t.Helper()
	tasks := newMemTaskRepo()
	users := newMemUserRepo("admin-1", "alice", "bob")
	return New(tasks, users, policy, nil), tasks
}

func mustCreate(t *testing.T, uc *UseCase, caller domain.Caller, title string, due time.Time) *domain.Task {
	t.Helper()
	task, err := uc.Create(context.Background(), caller, CreateInput{
		Title:       title,
		Description: "description of " + title,
		Status:      domain.StatusPending,
		DueDate:     due,
	})
	if err != nil {
		t.Fatalf("Create(%q) failed: %v", title, err)
	}
	return task
}

func TestCreateSetsCreatorToCaller(t *testing.T) {
	uc, _ := newTestUseCase(t, domain.PolicyConfig{})
	task := mustCreate(t, uc, alice, "write report", time.Now().Add(24*time.Hour))
	if task.CreatorID != alice.ID {
		t.Errorf("CreatorID = %q, want %q", task.CreatorID, alice.ID)
	}
}

func TestCreateWithAssigneeRequiresAdmin(t *testing.T) {
	uc, _ := newTestUseCase(t, domain.PolicyConfig{AssignOnCreate: true})
	assignee := "bob"

	_, err := uc.Create(context.Background(), alice, CreateInput{
		Title:       "delegated",
		Description: "desc",
		Status:      domain.StatusPending,
		DueDate:     time.Now(),
		AssigneeID:  &assignee,
	})
	if !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("non-admin create with assignee: got %v, want Forbidden", err)
	}

	task, err := uc.Create(context.Background(), admin, CreateInput{
		Title:       "delegated",
		Description: "desc",
		Status:      domain.StatusPending,
		DueDate:     time.Now(),
		AssigneeID:  &assignee,
	})
	if err != nil {
		t.Fatalf("admin create with assignee failed: %v", err)
	}
	if !task.AssignedTo("bob") {
		t.Error("task should be assigned to bob")
	}
}

func TestCreateValidation(t *testing.T) {
	uc, _ := newTestUseCase(t, domain.PolicyConfig{})
	long := make([]byte, 256)
	for i := range long {
		long[i] = 'x'
	}

	tests := []struct {
		name  string
		input CreateInput
		field string
	}{
		{"missing title", CreateInput{Description: "d", Status: domain.StatusPending, DueDate: time.Now()}, "title"},
		{"title too long", CreateInput{Title: string(long), Description: "d", Status: domain.StatusPending, DueDate: time.Now()}, "title"},
		{"missing description", CreateInput{Title: "t", Status: domain.StatusPending, DueDate: time.Now()}, "description"},
		{"missing status", CreateInput{Title: "t", Description: "d", DueDate: time.Now()}, "status"},
		{"bad status", CreateInput{Title: "t", Description: "d", Status: "Archived", DueDate: time.Now()}, "status"},
		{"missing due date", CreateInput{Title: "t", Description: "d", Status: domain.StatusPending}, "due_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), alice, tt.input)
			var vErr *domain.ValidationError
			if !domain.IsValidationError(err) {
				t.Fatalf("got %v, want ValidationError", err)
			}
			vErr = err.(*domain.ValidationError)
			if _, ok := vErr.Fields[tt.field]; !ok {
				t.Errorf("validation fields %v missing %q", vErr.Fields, tt.field)
			}
		})
	}
}

func TestCreateAssignOnCreateFlag(t *testing.T) {
	assignee := "bob"
	input := CreateInput{
		Title:       "delegated",
		Description: "desc",
		Status:      domain.StatusPending,
		DueDate:     time.Now(),
		AssigneeID:  &assignee,
	}

	for _, enabled := range []bool{false, true} {
		uc, _ := newTestUseCase(t, domain.PolicyConfig{AssignOnCreate: enabled})

		task, err := uc.Create(context.Background(), admin, input)
		if enabled {
			if err != nil {
				t.Fatalf("assignOnCreate=true: Create failed: %v", err)
			}
			if !task.AssignedTo("bob") {
				t.Error("assignOnCreate=true: task should be assigned to bob")
			}
			continue
		}

		if !domain.IsValidationError(err) {
			t.Fatalf("assignOnCreate=false: got %v, want ValidationError even for admins", err)
		}
		vErr := err.(*domain.ValidationError)
		if _, ok := vErr.Fields["assigned_user_id"]; !ok {
			t.Errorf("validation fields %v missing assigned_user_id", vErr.Fields)
		}

		// The dedicated assign operation stays available when the flag is off.
		created := mustCreate(t, uc, admin, "delegated later", time.Now())
		if _, err := uc.Assign(context.Background(), admin, created.ID, &assignee); err != nil {
			t.Errorf("assignOnCreate=false: dedicated assign failed: %v", err)
		}
	}
}

func TestCreateUnknownAssignee(t *testing.T) {
	uc, _ := newTestUseCase(t, domain.PolicyConfig{AssignOnCreate: true})
	ghost := "nobody"
	_, err := uc.Create(context.Background(), admin, CreateInput{
		Title:       "t",
		Description: "d",
		Status:      domain.StatusPending,
		DueDate:     time.Now(),
		AssigneeID:  &ghost,
	})
	if !domain.IsValidationError(err) {
		t.Fatalf("got %v, want ValidationError for unknown assignee", err)
	}
}

func TestListVisibility(t *testing.T) {
	uc, _ := newTestUseCase(t, domain.PolicyConfig{})
	due := time.Now().Add(time.Hour)
	mine := mustCreate(t, uc, alice, "mine", due)
	mustCreate(t, uc, bob, "not mine", due)
	mustCreate(t, uc, admin, "admin task", due)

	got, err := uc.List(context.Background(), alice, "", 0, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != mine.ID {
		t.Errorf("non-admin list = %d tasks, want only own task", len(got))
	}

	all, err := uc.List(context.Background(), admin, "", 0, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("admin list = %d tasks, want 3", len(all))
	}
}

func TestListAssigneeVisibilityFlag(t *testing.T) {
	due := time.Now().Add(time.Hour)

	for _, enabled := range []bool{false, true} {
		uc, _ := newTestUseCase(t, domain.PolicyConfig{AssigneeCanView: enabled})
		task := mustCreate(t, uc, admin, "delegated", due)
		if _, err := uc.Assign(context.Background(), admin, task.ID, &bob.ID); err != nil {
			t.Fatalf("Assign failed: %v", err)
		}

		got, err := uc.List(context.Background(), bob, "", 0, 0)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		want := 0
		if enabled {
			want = 1
		}
		if len(got) != want {
			t.Errorf("assigneeCanView=%v: list = %d tasks, want %d", enabled, len(got), want)
		}
	}
}

func TestListStatusFilterAndOrdering(t *testing.T) {
	uc, _ := newTestUseCase(t, domain.PolicyConfig{})
	later := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	earlier := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	first := mustCreate(t, uc, alice, "due later but created first", later)
	second := mustCreate(t, uc, alice, "due earlier", earlier)
	third := mustCreate(t, uc, alice, "same due date as first", later)

	got, err := uc.List(context.Background(), alice, "", 0, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	wantOrder := []string{second.ID, first.ID, third.ID}
	if len(got) != len(wantOrder) {
		t.Fatalf("List returned %d tasks, want %d", len(got), len(wantOrder))
	}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("position %d = %q, want %q (due date asc, insertion tie-break)", i, got[i].ID, id)
		}
	}

	if _, err := uc.Update(context.Background(), alice, first.ID, UpdateInput{Status: statusPtr(domain.StatusCompleted)}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	completed, err := uc.List(context.Background(), alice, domain.StatusCompleted, 0, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != first.ID {
		t.Errorf("status filter returned %d tasks, want just the completed one", len(completed))
	}
}

func TestGetForbiddenForStranger(t *testing.T) {
	uc, _ := newTestUseCase(t, domain.PolicyConfig{})
	task := mustCreate(t, uc, admin, "admin only", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))

	if _, err := uc.Get(context.Background(), bob, task.ID); !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Errorf("stranger get: got %v, want Forbidden", err)
	}
	if _, err := uc.Get(context.Background(), admin, task.ID); err != nil {
		t.Errorf("admin get failed: %v", err)
	}
	if _, err := uc.Get(context.Background(), alice, "missing"); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("missing task: got %v, want NotFound", err)
	}
}

func TestUpdatePatchSemantics(t *testing.T) {
	uc, _ := newTestUseCase(t, domain.PolicyConfig{})
	task := mustCreate(t, uc, alice, "original title", time.Now().Add(time.Hour))

	updated, err := uc.Update(context.Background(), alice, task.ID, UpdateInput{
		Status: statusPtr(domain.StatusCompleted),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Status != domain.StatusCompleted {
		t.Errorf("Status = %q, want Completed", updated.Status)
	}
	if updated.Title != "original title" {
		t.Errorf("Title changed to %q, absent fields must stay untouched", updated.Title)
	}
	if updated.CreatorID != alice.ID {
		t.Errorf("CreatorID changed to %q", updated.CreatorID)
	}
}

func TestUpdateForbiddenLeavesStoreUnchanged(t *testing.T) {
	uc, store := newTestUseCase(t, domain.PolicyConfig{})
	task := mustCreate(t, uc, alice, "alice's task", time.Now().Add(time.Hour))

	_, err := uc.Update(context.Background(), bob, task.ID, UpdateInput{
		Title: strPtr("hijacked"),
	})
	if !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("got %v, want Forbidden", err)
	}

	stored := store.tasks[task.ID]
	if stored.Title != "alice's task" {
		t.Errorf("store mutated on forbidden update: title = %q", stored.Title)
	}
}

func TestUpdateInvalidStatus(t *testing.T) {
	uc, _ := newTestUseCase(t, domain.PolicyConfig{})
	task := mustCreate(t, uc, alice, "t", time.Now())

	_, err := uc.Update(context.Background(), alice, task.ID, UpdateInput{
		Status: statusPtr("Archived"),
	})
	if !domain.IsValidationError(err) {
		t.Fatalf("got %v, want ValidationError for status outside the enum", err)
	}
}

func TestUpdateReassignRequiresAdmin(t *testing.T) {
	uc, _ := newTestUseCase(t, domain.PolicyConfig{})
	task := mustCreate(t, uc, alice, "t", time.Now())

	_, err := uc.Update(context.Background(), alice, task.ID, UpdateInput{
		Assignee: &AssigneeChange{UserID: strPtr("bob")},
	})
	if !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("creator reassign: got %v, want Forbidden", err)
	}

	updated, err := uc.Update(context.Background(), admin, task.ID, UpdateInput{
		Assignee: &AssigneeChange{UserID: strPtr("bob")},
	})
	if err != nil {
		t.Fatalf("admin reassign failed: %v", err)
	}
	if !updated.AssignedTo("bob") {
		t.Error("task should be assigned to bob")
	}
}

func TestDeleteAuthorization(t *testing.T) {
	uc, store := newTestUseCase(t, domain.PolicyConfig{})
	task := mustCreate(t, uc, alice, "t", time.Now())

	if err := uc.Delete(context.Background(), bob, task.ID); !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("stranger delete: got %v, want Forbidden", err)
	}
	if _, ok := store.tasks[task.ID]; !ok {
		t.Fatal("task removed by forbidden delete")
	}

	if err := uc.Delete(context.Background(), alice, task.ID); err != nil {
		t.Fatalf("creator delete failed: %v", err)
	}
	if err := uc.Delete(context.Background(), alice, task.ID); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("second delete: got %v, want NotFound", err)
	}

	other := mustCreate(t, uc, alice, "t2", time.Now())
	if err := uc.Delete(context.Background(), admin, other.ID); err != nil {
		t.Errorf("admin delete failed: %v", err)
	}
}

func TestAssignClearIsIdempotent(t *testing.T) {
	uc, _ := newTestUseCase(t, domain.PolicyConfig{})
	task := mustCreate(t, uc, admin, "t", time.Now())

	if _, err := uc.Assign(context.Background(), admin, task.ID, &bob.ID); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		cleared, err := uc.Assign(context.Background(), admin, task.ID, nil)
		if err != nil {
			t.Fatalf("clear #%d failed: %v", i+1, err)
		}
		if cleared.AssigneeID != nil {
			t.Errorf("clear #%d: assignee = %v, want nil", i+1, *cleared.AssigneeID)
		}
	}
}

func TestAssignRequiresAdmin(t *testing.T) {
	uc, _ := newTestUseCase(t, domain.PolicyConfig{})
	task := mustCreate(t, uc, alice, "t", time.Now())

	if _, err := uc.Assign(context.Background(), alice, task.ID, &bob.ID); !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Errorf("creator assign: got %v, want Forbidden", err)
	}
	if _, err := uc.Assign(context.Background(), admin, "missing", &bob.ID); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("assign to missing task: got %v, want NotFound", err)
	}
	ghost := "nobody"
	if _, err := uc.Assign(context.Background(), admin, task.ID, &ghost); !domain.IsValidationError(err) {
		t.Errorf("assign unknown user: got %v, want ValidationError", err)
	}
}

func strPtr(s string) *string { return &s }

func statusPtr(s domain.TaskStatus) *domain.TaskStatus { return &s }
