package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"permiso_backend/internal/dto"
	"permiso_backend/internal/models"
	"permiso_backend/pkg/apperrors"
)

type projectTestEnv struct {
	svc           ProjectService
	projects      *fakeProjectRepo
	users         *fakeUserRepo
	notifications *fakeNotificationRepo
	notifier      *fakeNotifier
	emails        *fakeEmailProvider
}

func newProjectTestEnv() *projectTestEnv {
	env := &projectTestEnv{
		projects:      newFakeProjectRepo(),
		users:         newFakeUserRepo(),
		notifications: newFakeNotificationRepo(),
		notifier:      &fakeNotifier{},
		emails:        &fakeEmailProvider{},
	}
	notificationSvc := NewNotificationService(env.notifications, env.users, env.notifier, env.emails)
	env.svc = NewProjectService(env.projects, env.users, notificationSvc)
	return env
}

func (env *projectTestEnv) addUser(role models.UserRole) *models.User {
	user := &models.User{
		Name:     "Test User",
		Email:    fmt.Sprintf("%s%d@example.com", role, len(env.users.users)+1),
		Role:     role,
		IsActive: true,
	}
	if err := env.users.Create(user); err != nil {
		panic(err)
	}
	return user
}

func TestCreateProject_StartsAsDraft(t *testing.T) {
	t.Parallel()
	env := newProjectTestEnv()
	owner := env.addUser(models.UserRoleUser)

	project, err := env.svc.CreateProject(owner.ID, &dto.CreateProjectRequest{
		Title: "Backyard Studio",
		Type:  "building",
		Location: &dto.LocationInput{
			Address: "12 Main St",
			Lat:     40.7,
			Lng:     -74.0,
		},
	})

	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusDraft, project.Status)
	assert.Equal(t, models.PriorityMedium, project.Priority)
	assert.Equal(t, owner.ID, project.ApplicantID)
	assert.Equal(t, "12 Main St", project.LocationAddress)
	assert.Nil(t, project.SubmittedAt)
	assert.Empty(t, env.notifier.pushes)
}

func TestGetProject_AccessControl(t *testing.T) {
	t.Parallel()
	env := newProjectTestEnv()
	owner := env.addUser(models.UserRoleUser)
	stranger := env.addUser(models.UserRoleUser)
	reviewer := env.addUser(models.UserRoleReviewer)
	admin := env.addUser(models.UserRoleAdmin)

	created, err := env.svc.CreateProject(owner.ID, &dto.CreateProjectRequest{
		Title: "Kitchen Remodel",
		Type:  "renovation",
	})
	require.NoError(t, err)

	_, err = env.svc.GetProject(owner.ID, models.UserRoleUser, created.ID)
	assert.NoError(t, err)

	_, err = env.svc.GetProject(admin.ID, models.UserRoleAdmin, created.ID)
	assert.NoError(t, err)

	_, err = env.svc.GetProject(stranger.ID, models.UserRoleUser, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrProjectAccessDenied)

	// Reviewer without an assignment has no access either.
	_, err = env.svc.GetProject(reviewer.ID, models.UserRoleReviewer, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrProjectAccessDenied)

	_, err = env.svc.AssignReviewer(created.ID, &dto.AssignProjectRequest{ReviewerID: reviewer.ID})
	require.NoError(t, err)

	_, err = env.svc.GetProject(reviewer.ID, models.UserRoleReviewer, created.ID)
	assert.NoError(t, err)
}

func TestGetProject_NotFound(t *testing.T) {
	t.Parallel()
	env := newProjectTestEnv()

	_, err := env.svc.GetProject("someone", models.UserRoleAdmin, "missing")

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 404, appErr.HTTPCode)
}

func TestUpdateProject_StatusChangeNotifiesOnce(t *testing.T) {
	t.Parallel()
	env := newProjectTestEnv()
	owner := env.addUser(models.UserRoleUser)

	created, err := env.svc.CreateProject(owner.ID, &dto.CreateProjectRequest{
		Title: "Deck Extension",
		Type:  "renovation",
	})
	require.NoError(t, err)

	submitted := string(models.ProjectStatusSubmitted)
	updated, err := env.svc.UpdateProject(owner.ID, models.UserRoleUser, created.ID, &dto.UpdateProjectRequest{
		Status: &submitted,
	})
	require.NoError(t, err)

	assert.Equal(t, models.ProjectStatusSubmitted, updated.Status)
	require.NotNil(t, updated.SubmittedAt)

	require.Len(t, env.notifier.pushes, 1)
	assert.Equal(t, owner.ID, env.notifier.pushes[0].userID)
	require.Len(t, env.notifications.notifications, 1)
	saved := env.notifications.notifications[0]
	assert.Equal(t, models.NotificationStatusChange, saved.Type)
	assert.Equal(t, "Project Status Updated", saved.Title)
	assert.Equal(t, `Your project "Deck Extension" status has been updated to submitted`, saved.Message)

	// Same status again is a no-op for notifications.
	_, err = env.svc.UpdateProject(owner.ID, models.UserRoleUser, created.ID, &dto.UpdateProjectRequest{
		Status: &submitted,
	})
	require.NoError(t, err)
	assert.Len(t, env.notifier.pushes, 1)
}

func TestUpdateProject_SubmittedAtStampedOnce(t *testing.T) {
	t.Parallel()
	env := newProjectTestEnv()
	owner := env.addUser(models.UserRoleUser)

	created, err := env.svc.CreateProject(owner.ID, &dto.CreateProjectRequest{
		Title: "Fence Replacement",
		Type:  "other",
	})
	require.NoError(t, err)

	submitted := string(models.ProjectStatusSubmitted)
	withdrawn := string(models.ProjectStatusWithdrawn)

	first, err := env.svc.UpdateProject(owner.ID, models.UserRoleUser, created.ID, &dto.UpdateProjectRequest{Status: &submitted})
	require.NoError(t, err)
	require.NotNil(t, first.SubmittedAt)
	firstStamp := *first.SubmittedAt

	_, err = env.svc.UpdateProject(owner.ID, models.UserRoleUser, created.ID, &dto.UpdateProjectRequest{Status: &withdrawn})
	require.NoError(t, err)

	second, err := env.svc.UpdateProject(owner.ID, models.UserRoleUser, created.ID, &dto.UpdateProjectRequest{Status: &submitted})
	require.NoError(t, err)
	require.NotNil(t, second.SubmittedAt)
	assert.Equal(t, firstStamp, *second.SubmittedAt)
}

func TestUpdateProject_RejectsUnknownStatus(t *testing.T) {
	t.Parallel()
	env := newProjectTestEnv()
	owner := env.addUser(models.UserRoleUser)

	created, err := env.svc.CreateProject(owner.ID, &dto.CreateProjectRequest{
		Title: "Shed Build",
		Type:  "building",
	})
	require.NoError(t, err)

	bogus := "archived"
	_, err = env.svc.UpdateProject(owner.ID, models.UserRoleUser, created.ID, &dto.UpdateProjectRequest{Status: &bogus})

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 400, appErr.HTTPCode)
}

func TestUpdateProject_AccessControl(t *testing.T) {
	t.Parallel()
	env := newProjectTestEnv()
	owner := env.addUser(models.UserRoleUser)
	stranger := env.addUser(models.UserRoleUser)
	reviewer := env.addUser(models.UserRoleReviewer)

	created, err := env.svc.CreateProject(owner.ID, &dto.CreateProjectRequest{
		Title: "Pool House",
		Type:  "building",
	})
	require.NoError(t, err)

	title := "Pool House v2"
	_, err = env.svc.UpdateProject(stranger.ID, models.UserRoleUser, created.ID, &dto.UpdateProjectRequest{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrProjectAccessDenied)

	updated, err := env.svc.UpdateProject("any-admin", models.UserRoleAdmin, created.ID, &dto.UpdateProjectRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Pool House v2", updated.Title)

	_, err = env.svc.AssignReviewer(created.ID, &dto.AssignProjectRequest{ReviewerID: reviewer.ID})
	require.NoError(t, err)

	title = "Pool House v3"
	updated, err = env.svc.UpdateProject(reviewer.ID, models.UserRoleReviewer, created.ID, &dto.UpdateProjectRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Pool House v3", updated.Title)
}

func TestDeleteProject_OwnerAndAdminOnly(t *testing.T) {
	t.Parallel()
	env := newProjectTestEnv()
	owner := env.addUser(models.UserRoleUser)
	stranger := env.addUser(models.UserRoleUser)

	created, err := env.svc.CreateProject(owner.ID, &dto.CreateProjectRequest{
		Title: "Garage Conversion",
		Type:  "renovation",
	})
	require.NoError(t, err)

	err = env.svc.DeleteProject(stranger.ID, models.UserRoleUser, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrProjectAccessDenied)

	err = env.svc.DeleteProject(owner.ID, models.UserRoleUser, created.ID)
	require.NoError(t, err)

	_, err = env.svc.GetProject(owner.ID, models.UserRoleUser, created.ID)
	assert.Error(t, err)
}

func TestAssignReviewer(t *testing.T) {
	t.Parallel()
	env := newProjectTestEnv()
	owner := env.addUser(models.UserRoleUser)
	reviewer := env.addUser(models.UserRoleReviewer)
	plainUser := env.addUser(models.UserRoleUser)

	created, err := env.svc.CreateProject(owner.ID, &dto.CreateProjectRequest{
		Title: "Warehouse Fit-Out",
		Type:  "commercial",
	})
	require.NoError(t, err)

	// Assignee must hold the reviewer (or admin) role.
	_, err = env.svc.AssignReviewer(created.ID, &dto.AssignProjectRequest{ReviewerID: plainUser.ID})
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 400, appErr.HTTPCode)

	updated, err := env.svc.AssignReviewer(created.ID, &dto.AssignProjectRequest{ReviewerID: reviewer.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.ReviewerID)
	assert.Equal(t, reviewer.ID, *updated.ReviewerID)
	assert.Equal(t, models.ProjectStatusUnderReview, updated.Status)

	// Reviewer gets an assignment notice, applicant a status change notice.
	require.Len(t, env.notifications.notifications, 2)
	assignment := env.notifications.notifications[0]
	assert.Equal(t, reviewer.ID, assignment.UserID)
	assert.Equal(t, "New Project Assigned", assignment.Title)
	assert.Equal(t, models.NotificationStatusChange, assignment.Type)
	assert.Equal(t, `You have been assigned to review "Warehouse Fit-Out"`, assignment.Message)

	statusChange := env.notifications.notifications[1]
	assert.Equal(t, owner.ID, statusChange.UserID)
	assert.Equal(t, "Project Status Updated", statusChange.Title)
	assert.Equal(t, `Your project "Warehouse Fit-Out" status has been updated to under review`, statusChange.Message)
}

func TestAssignReviewer_UnknownReviewer(t *testing.T) {
	t.Parallel()
	env := newProjectTestEnv()
	owner := env.addUser(models.UserRoleUser)

	created, err := env.svc.CreateProject(owner.ID, &dto.CreateProjectRequest{
		Title: "Office Build",
		Type:  "commercial",
	})
	require.NoError(t, err)

	_, err = env.svc.AssignReviewer(created.ID, &dto.AssignProjectRequest{ReviewerID: "nope"})

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 404, appErr.HTTPCode)
}

func TestListProjects_RoleScoping(t *testing.T) {
	t.Parallel()
	env := newProjectTestEnv()
	alice := env.addUser(models.UserRoleUser)
	bob := env.addUser(models.UserRoleUser)
	reviewer := env.addUser(models.UserRoleReviewer)

	mine, err := env.svc.CreateProject(alice.ID, &dto.CreateProjectRequest{Title: "Alice House", Type: "residential"})
	require.NoError(t, err)
	_, err = env.svc.CreateProject(bob.ID, &dto.CreateProjectRequest{Title: "Bob House", Type: "residential"})
	require.NoError(t, err)

	_, err = env.svc.AssignReviewer(mine.ID, &dto.AssignProjectRequest{ReviewerID: reviewer.ID})
	require.NoError(t, err)

	asAlice, err := env.svc.ListProjects(alice.ID, models.UserRoleUser, dto.ProjectListCriteria{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), asAlice.Total)

	asReviewer, err := env.svc.ListProjects(reviewer.ID, models.UserRoleReviewer, dto.ProjectListCriteria{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), asReviewer.Total)

	asAdmin, err := env.svc.ListProjects("admin", models.UserRoleAdmin, dto.ProjectListCriteria{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), asAdmin.Total)
}
