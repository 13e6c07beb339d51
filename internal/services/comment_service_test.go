package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/teamsync-app/backend/internal/apperrors"
	"github.com/teamsync-app/backend/internal/models"
	"github.com/teamsync-app/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// ============================================================================
// TEST FAKES
// ============================================================================

type fakeTaskRepo struct {
	tasks map[string]*models.Task // keyed by task id hex
}

func (f *fakeTaskRepo) CreateTask(_ context.Context, task *models.Task) error {
	task.ID = primitive.NewObjectID()
	f.tasks[task.ID.Hex()] = task
	return nil
}

func (f *fakeTaskRepo) GetTaskInWorkspace(_ context.Context, taskID, workspaceID string) (*models.Task, error) {
	task, ok := f.tasks[taskID]
	if !ok || task.WorkspaceID.Hex() != workspaceID {
		return nil, repositories.ErrNotFound
	}
	return task, nil
}

type fakeCommentRepo struct {
	comments map[string]*models.Comment // keyed by comment id hex
	clock    time.Time
}

func (f *fakeCommentRepo) CreateComment(_ context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	f.clock = f.clock.Add(time.Second)
	comment.CreatedAt = f.clock
	comment.UpdatedAt = f.clock
	stored := *comment
	f.comments[comment.ID.Hex()] = &stored
	return nil
}

func (f *fakeCommentRepo) GetCommentInWorkspace(_ context.Context, commentID, workspaceID string) (*models.Comment, error) {
	comment, ok := f.comments[commentID]
	if !ok || comment.WorkspaceID.Hex() != workspaceID {
		return nil, repositories.ErrNotFound
	}
	found := *comment
	return &found, nil
}

func (f *fakeCommentRepo) GetCommentsByTask(_ context.Context, taskID, workspaceID string) ([]models.Comment, error) {
	matched := []models.Comment{}
	for _, comment := range f.comments {
		if comment.TaskID.Hex() == taskID && comment.WorkspaceID.Hex() == workspaceID {
			matched = append(matched, *comment)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return matched, nil
}

func (f *fakeCommentRepo) DeleteComment(_ context.Context, commentID string) error {
	delete(f.comments, commentID)
	return nil
}

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func (f *fakeUserRepo) CreateUser(user *models.User) error {
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	for _, user := range f.users {
		if user.FirebaseUID == firebaseUID {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UpdateUser(user *models.User) error {
	f.users[user.ID] = user
	return nil
}

// ============================================================================
// TEST HELPERS
// ============================================================================

type testEnv struct {
	service     CommentService
	commentRepo *fakeCommentRepo
	taskRepo    *fakeTaskRepo
	userRepo    *fakeUserRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	commentRepo := &fakeCommentRepo{comments: map[string]*models.Comment{}, clock: time.Now()}
	taskRepo := &fakeTaskRepo{tasks: map[string]*models.Task{}}
	userRepo := &fakeUserRepo{users: map[uint]*models.User{}}
	return &testEnv{
		service:     NewCommentService(commentRepo, taskRepo, userRepo),
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
		userRepo:    userRepo,
	}
}

func (env *testEnv) seedUser(t *testing.T, name, email string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email, ProfilePicture: "https://img.example.com/" + name + ".png"}
	if err := env.userRepo.CreateUser(user); err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user
}

func (env *testEnv) seedTask(t *testing.T, title string) (*models.Task, string) {
	t.Helper()
	task := &models.Task{WorkspaceID: primitive.NewObjectID(), Title: title}
	if err := env.taskRepo.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("Failed to seed task: %v", err)
	}
	return task, task.WorkspaceID.Hex()
}

func requireKind(t *testing.T, err error, kind apperrors.Kind) *apperrors.Error {
	t.Helper()
	if err == nil {
		t.Fatal("Expected an error, got nil")
	}
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("Expected *apperrors.Error, got %T: %v", err, err)
	}
	if appErr.Kind != kind {
		t.Fatalf("Expected error kind %d, got %d (%v)", kind, appErr.Kind, appErr)
	}
	return appErr
}

// ============================================================================
// CREATE
// ============================================================================

func TestCreateComment(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "alice", "alice@example.com")
	task, workspaceID := env.seedTask(t, "Write release notes")

	comment, err := env.service.CreateComment(context.Background(), task.ID.Hex(), author.ID, workspaceID, "hello")
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	if comment.Content != "hello" {
		t.Errorf("Expected content %q, got %q", "hello", comment.Content)
	}
	if comment.TaskID != task.ID.Hex() {
		t.Errorf("Expected task id %s, got %s", task.ID.Hex(), comment.TaskID)
	}
	if comment.WorkspaceID != workspaceID {
		t.Errorf("Expected workspace id %s, got %s", workspaceID, comment.WorkspaceID)
	}
	if comment.User.Name != "alice" || comment.User.Email != "alice@example.com" {
		t.Errorf("Expected reduced author profile for alice, got %+v", comment.User)
	}
	if comment.User.ProfilePicture == "" {
		t.Error("Expected profile picture in reduced profile")
	}
}

func TestCreateCommentTrimsContent(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "alice", "alice@example.com")
	task, workspaceID := env.seedTask(t, "Write release notes")

	comment, err := env.service.CreateComment(context.Background(), task.ID.Hex(), author.ID, workspaceID, "  padded  ")
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	if comment.Content != "padded" {
		t.Errorf("Expected trimmed content %q, got %q", "padded", comment.Content)
	}
}

func TestCreateCommentContentBounds(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"empty", "", true},
		{"whitespace only", "   \t\n  ", true},
		{"single character", "x", false},
		{"exactly max length", strings.Repeat("a", 1000), false},
		{"one over max length", strings.Repeat("a", 1001), true},
		{"max length after trim", "  " + strings.Repeat("a", 1000) + "  ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			author := env.seedUser(t, "alice", "alice@example.com")
			task, workspaceID := env.seedTask(t, "Write release notes")

			_, err := env.service.CreateComment(context.Background(), task.ID.Hex(), author.ID, workspaceID, tt.content)
			if tt.wantErr {
				requireKind(t, err, apperrors.KindValidation)
				if len(env.commentRepo.comments) != 0 {
					t.Error("Expected no comment to be persisted on validation failure")
				}
			} else if err != nil {
				t.Fatalf("CreateComment failed: %v", err)
			}
		})
	}
}

func TestCreateCommentTaskScoping(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "alice", "alice@example.com")
	task, _ := env.seedTask(t, "Write release notes")
	otherWorkspaceID := primitive.NewObjectID().Hex()

	// Real task id paired with a mismatched workspace must not resolve
	_, err := env.service.CreateComment(context.Background(), task.ID.Hex(), author.ID, otherWorkspaceID, "hello")
	appErr := requireKind(t, err, apperrors.KindNotFound)
	if appErr.Message != "Task not found" {
		t.Errorf("Expected message %q, got %q", "Task not found", appErr.Message)
	}
	if len(env.commentRepo.comments) != 0 {
		t.Error("Expected no comment to be persisted when scoping check fails")
	}

	// Unknown task id fails the same way
	_, err = env.service.CreateComment(context.Background(), primitive.NewObjectID().Hex(), author.ID, otherWorkspaceID, "hello")
	requireKind(t, err, apperrors.KindNotFound)
}

func TestCreateCommentMissingAuthorYieldsZeroProfile(t *testing.T) {
	env := newTestEnv(t)
	task, workspaceID := env.seedTask(t, "Write release notes")

	comment, err := env.service.CreateComment(context.Background(), task.ID.Hex(), 42, workspaceID, "hello")
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	if comment.User != (models.UserBrief{}) {
		t.Errorf("Expected zero-valued profile for unknown author, got %+v", comment.User)
	}
}

// ============================================================================
// LIST
// ============================================================================

func TestListCommentsOrderedOldestFirst(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "alice", "alice@example.com")
	task, workspaceID := env.seedTask(t, "Write release notes")

	for _, content := range []string{"first", "second", "third"} {
		if _, err := env.service.CreateComment(context.Background(), task.ID.Hex(), author.ID, workspaceID, content); err != nil {
			t.Fatalf("CreateComment failed: %v", err)
		}
	}

	comments, err := env.service.ListComments(context.Background(), task.ID.Hex(), workspaceID)
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("Expected 3 comments, got %d", len(comments))
	}
	for i, want := range []string{"first", "second", "third"} {
		if comments[i].Content != want {
			t.Errorf("Position %d: expected %q, got %q", i, want, comments[i].Content)
		}
	}
	for i := 1; i < len(comments); i++ {
		if comments[i].CreatedAt.Before(comments[i-1].CreatedAt) {
			t.Errorf("Comments not in non-decreasing created_at order at position %d", i)
		}
	}
}

func TestListCommentsEmptyIsNotAnError(t *testing.T) {
	env := newTestEnv(t)
	task, workspaceID := env.seedTask(t, "Write release notes")

	comments, err := env.service.ListComments(context.Background(), task.ID.Hex(), workspaceID)
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if len(comments) != 0 {
		t.Fatalf("Expected empty sequence, got %d comments", len(comments))
	}
	if comments == nil {
		t.Error("Expected an empty slice, got nil")
	}
}

func TestListCommentsTaskScoping(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "alice", "alice@example.com")
	task, workspaceID := env.seedTask(t, "Write release notes")

	if _, err := env.service.CreateComment(context.Background(), task.ID.Hex(), author.ID, workspaceID, "hello"); err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	// Listing the same task through another workspace must not leak the comment
	_, err := env.service.ListComments(context.Background(), task.ID.Hex(), primitive.NewObjectID().Hex())
	requireKind(t, err, apperrors.KindNotFound)
}

func TestListCommentsResolvesAuthorProfiles(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice", "alice@example.com")
	bob := env.seedUser(t, "bob", "bob@example.com")
	task, workspaceID := env.seedTask(t, "Write release notes")

	if _, err := env.service.CreateComment(context.Background(), task.ID.Hex(), alice.ID, workspaceID, "from alice"); err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	if _, err := env.service.CreateComment(context.Background(), task.ID.Hex(), bob.ID, workspaceID, "from bob"); err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	comments, err := env.service.ListComments(context.Background(), task.ID.Hex(), workspaceID)
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if comments[0].User.Name != "alice" || comments[1].User.Name != "bob" {
		t.Errorf("Expected author profiles in order [alice, bob], got [%s, %s]",
			comments[0].User.Name, comments[1].User.Name)
	}
}

// ============================================================================
// DELETE
// ============================================================================

func TestDeleteCommentAuthorOnly(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "alice", "alice@example.com")
	other := env.seedUser(t, "bob", "bob@example.com")
	task, workspaceID := env.seedTask(t, "Write release notes")

	comment, err := env.service.CreateComment(context.Background(), task.ID.Hex(), author.ID, workspaceID, "hello")
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	// A non-author must never delete the comment
	err = env.service.DeleteComment(context.Background(), comment.ID, other.ID, workspaceID)
	appErr := requireKind(t, err, apperrors.KindUnauthorized)
	if appErr.Message != "You can only delete your own comments" {
		t.Errorf("Expected author-only message, got %q", appErr.Message)
	}
	if len(env.commentRepo.comments) != 1 {
		t.Fatal("Comment must survive an unauthorized delete attempt")
	}

	// The author can
	if err := env.service.DeleteComment(context.Background(), comment.ID, author.ID, workspaceID); err != nil {
		t.Fatalf("DeleteComment by author failed: %v", err)
	}

	comments, err := env.service.ListComments(context.Background(), task.ID.Hex(), workspaceID)
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("Expected deleted comment to be excluded from listing, got %d comments", len(comments))
	}
}

func TestDeleteCommentCrossWorkspaceIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "alice", "alice@example.com")
	other := env.seedUser(t, "bob", "bob@example.com")
	task, workspaceID := env.seedTask(t, "Write release notes")

	comment, err := env.service.CreateComment(context.Background(), task.ID.Hex(), author.ID, workspaceID, "hello")
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	// Wrong workspace must fail the scoped lookup, not the author check,
	// even for a caller who isn't the author.
	otherWorkspaceID := primitive.NewObjectID().Hex()
	err = env.service.DeleteComment(context.Background(), comment.ID, other.ID, otherWorkspaceID)
	appErr := requireKind(t, err, apperrors.KindNotFound)
	if appErr.Message != "Comment not found" {
		t.Errorf("Expected message %q, got %q", "Comment not found", appErr.Message)
	}
	if len(env.commentRepo.comments) != 1 {
		t.Error("Comment must survive a delete scoped to the wrong workspace")
	}
}

func TestDeleteCommentUnknownIDIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "alice", "alice@example.com")
	_, workspaceID := env.seedTask(t, "Write release notes")

	err := env.service.DeleteComment(context.Background(), primitive.NewObjectID().Hex(), author.ID, workspaceID)
	requireKind(t, err, apperrors.KindNotFound)
}

func TestDeleteCommentTwiceReportsNotFound(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "alice", "alice@example.com")
	task, workspaceID := env.seedTask(t, "Write release notes")

	comment, err := env.service.CreateComment(context.Background(), task.ID.Hex(), author.ID, workspaceID, "hello")
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	if err := env.service.DeleteComment(context.Background(), comment.ID, author.ID, workspaceID); err != nil {
		t.Fatalf("DeleteComment failed: %v", err)
	}
	// Second delete loses the race at the lookup step
	err = env.service.DeleteComment(context.Background(), comment.ID, author.ID, workspaceID)
	requireKind(t, err, apperrors.KindNotFound)
}

// ============================================================================
// CROSS-WORKSPACE ISOLATION
// ============================================================================

func TestCommentsDoNotLeakAcrossWorkspaces(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "alice", "alice@example.com")
	taskW1, workspace1 := env.seedTask(t, "Task in workspace one")
	taskW2, workspace2 := env.seedTask(t, "Task in workspace two")

	if _, err := env.service.CreateComment(context.Background(), taskW1.ID.Hex(), author.ID, workspace1, "only in one"); err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	comments, err := env.service.ListComments(context.Background(), taskW2.ID.Hex(), workspace2)
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("Comment from workspace one leaked into workspace two listing")
	}
}
