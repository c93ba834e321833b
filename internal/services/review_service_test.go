package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"permiso_backend/internal/dto"
	"permiso_backend/internal/models"
	"permiso_backend/pkg/apperrors"
)

type reviewTestEnv struct {
	svc           ReviewService
	projects      *fakeProjectRepo
	users         *fakeUserRepo
	notifications *fakeNotificationRepo
	notifier      *fakeNotifier
	emails        *fakeEmailProvider
}

func newReviewTestEnv() *reviewTestEnv {
	env := &reviewTestEnv{
		projects:      newFakeProjectRepo(),
		users:         newFakeUserRepo(),
		notifications: newFakeNotificationRepo(),
		notifier:      &fakeNotifier{},
		emails:        &fakeEmailProvider{},
	}
	notificationSvc := NewNotificationService(env.notifications, env.users, env.notifier, env.emails)
	env.svc = NewReviewService(env.projects, notificationSvc)
	return env
}

// seedAssigned creates an applicant, a reviewer and a submitted project
// already assigned to that reviewer.
func (env *reviewTestEnv) seedAssigned(t *testing.T) (*models.User, *models.User, *models.Project) {
	t.Helper()

	applicant := &models.User{Name: "Applicant", Email: "applicant@example.com", Role: models.UserRoleUser, IsActive: true}
	require.NoError(t, env.users.Create(applicant))
	reviewer := &models.User{Name: "Reviewer", Email: "reviewer@example.com", Role: models.UserRoleReviewer, IsActive: true}
	require.NoError(t, env.users.Create(reviewer))

	project := &models.Project{
		Title:       "City Library Annex",
		Type:        models.ProjectTypeCommercial,
		Status:      models.ProjectStatusUnderReview,
		ApplicantID: applicant.ID,
		ReviewerID:  &reviewer.ID,
	}
	require.NoError(t, env.projects.Create(project))

	return applicant, reviewer, project
}

func TestApproveProject(t *testing.T) {
	t.Parallel()
	env := newReviewTestEnv()
	applicant, reviewer, project := env.seedAssigned(t)

	approved, err := env.svc.ApproveProject(reviewer.ID, models.UserRoleReviewer, project.ID, &dto.ApproveRequest{
		Comment:    "Plans meet code.",
		Conditions: []string{"Install smoke detectors", "Final inspection before occupancy"},
	})

	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAt)

	require.Len(t, env.projects.comments, 1)
	assert.Equal(t, "Plans meet code.\n\nApproval conditions: Install smoke detectors, Final inspection before occupancy",
		env.projects.comments[0].Comment)

	require.Len(t, env.notifications.notifications, 1)
	saved := env.notifications.notifications[0]
	assert.Equal(t, applicant.ID, saved.UserID)
	assert.Equal(t, "Project Approved", saved.Title)
	assert.Equal(t, `Your project "City Library Annex" has been approved!`, saved.Message)
	assert.Equal(t, models.NotificationPriorityHigh, saved.Priority)

	// High priority notifications also go out by email.
	require.Len(t, env.emails.sent, 1)
	assert.Equal(t, applicant.Email, env.emails.sent[0].to)
	assert.Equal(t, "Project Approved", env.emails.sent[0].subject)
}

func TestApproveProject_WithoutCommentSkipsComment(t *testing.T) {
	t.Parallel()
	env := newReviewTestEnv()
	_, reviewer, project := env.seedAssigned(t)

	_, err := env.svc.ApproveProject(reviewer.ID, models.UserRoleReviewer, project.ID, &dto.ApproveRequest{})

	require.NoError(t, err)
	assert.Empty(t, env.projects.comments)
}

func TestRejectProject(t *testing.T) {
	t.Parallel()
	env := newReviewTestEnv()
	applicant, reviewer, project := env.seedAssigned(t)

	rejected, err := env.svc.RejectProject(reviewer.ID, models.UserRoleReviewer, project.ID, &dto.RejectRequest{
		Comment: "The submitted plans are incomplete.",
		Reasons: []string{"Missing structural drawings", "No site plan"},
	})

	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectedAt)

	require.Len(t, env.projects.comments, 1)
	assert.Equal(t, "The submitted plans are incomplete.\n\nRejection reasons: Missing structural drawings, No site plan",
		env.projects.comments[0].Comment)

	require.Len(t, env.notifications.notifications, 1)
	saved := env.notifications.notifications[0]
	assert.Equal(t, applicant.ID, saved.UserID)
	assert.Equal(t, "Project Rejected", saved.Title)
	assert.Equal(t, `Your project "City Library Annex" has been rejected. Please review the comments and resubmit.`, saved.Message)
	assert.Equal(t, models.NotificationPriorityHigh, saved.Priority)
}

func TestReviewActions_RequireAssignment(t *testing.T) {
	t.Parallel()
	env := newReviewTestEnv()
	_, _, project := env.seedAssigned(t)

	other := &models.User{Name: "Other", Email: "other@example.com", Role: models.UserRoleReviewer, IsActive: true}
	require.NoError(t, env.users.Create(other))

	_, err := env.svc.ApproveProject(other.ID, models.UserRoleReviewer, project.ID, &dto.ApproveRequest{})
	assert.ErrorIs(t, err, apperrors.ErrNotAssignedReviewer)

	_, err = env.svc.RejectProject(other.ID, models.UserRoleReviewer, project.ID, &dto.RejectRequest{
		Comment: "Not my project but trying anyway.",
		Reasons: []string{"n/a"},
	})
	assert.ErrorIs(t, err, apperrors.ErrNotAssignedReviewer)

	_, err = env.svc.AddComment(other.ID, models.UserRoleReviewer, project.ID, &dto.CommentRequest{Comment: "drive-by comment"})
	assert.ErrorIs(t, err, apperrors.ErrNotAssignedReviewer)

	// Admins bypass the assignment rule.
	_, err = env.svc.ApproveProject("any-admin", models.UserRoleAdmin, project.ID, &dto.ApproveRequest{})
	assert.NoError(t, err)
}

func TestAddComment_InternalSkipsNotification(t *testing.T) {
	t.Parallel()
	env := newReviewTestEnv()
	applicant, reviewer, project := env.seedAssigned(t)

	internal, err := env.svc.AddComment(reviewer.ID, models.UserRoleReviewer, project.ID, &dto.CommentRequest{
		Comment:    "Check the zoning variance before approving.",
		IsInternal: true,
	})
	require.NoError(t, err)
	assert.True(t, internal.IsInternal)
	assert.Empty(t, env.notifications.notifications)

	public, err := env.svc.AddComment(reviewer.ID, models.UserRoleReviewer, project.ID, &dto.CommentRequest{
		Comment: "Please upload the updated site plan.",
	})
	require.NoError(t, err)
	assert.False(t, public.IsInternal)

	require.Len(t, env.notifications.notifications, 1)
	saved := env.notifications.notifications[0]
	assert.Equal(t, applicant.ID, saved.UserID)
	assert.Equal(t, models.NotificationComment, saved.Type)
	assert.Equal(t, "New Comment on Project", saved.Title)
	assert.Equal(t, `A new comment has been added to your project "City Library Annex"`, saved.Message)
}

func TestGetPendingReviews_Scoping(t *testing.T) {
	t.Parallel()
	env := newReviewTestEnv()

	reviewer := &models.User{Name: "Reviewer", Email: "r@example.com", Role: models.UserRoleReviewer, IsActive: true}
	require.NoError(t, env.users.Create(reviewer))

	mine := &models.Project{
		Title:       "Assigned To Me",
		Status:      models.ProjectStatusSubmitted,
		ApplicantID: "a1",
		ReviewerID:  &reviewer.ID,
	}
	require.NoError(t, env.projects.Create(mine))
	require.NoError(t, env.projects.Create(&models.Project{
		Title:       "Unassigned",
		Status:      models.ProjectStatusSubmitted,
		ApplicantID: "a2",
	}))

	asReviewer, err := env.svc.GetPendingReviews(reviewer.ID, models.UserRoleReviewer, dto.PendingReviewsCriteria{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), asReviewer.Total)

	asAdmin, err := env.svc.GetPendingReviews("admin", models.UserRoleAdmin, dto.PendingReviewsCriteria{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), asAdmin.Total)
}

func TestGetReviewStats(t *testing.T) {
	t.Parallel()
	env := newReviewTestEnv()
	_, reviewer, project := env.seedAssigned(t)

	_, err := env.svc.ApproveProject(reviewer.ID, models.UserRoleReviewer, project.ID, &dto.ApproveRequest{})
	require.NoError(t, err)

	stats, err := env.svc.GetReviewStats(reviewer.ID, models.UserRoleReviewer)
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.TotalProjects)
	assert.Equal(t, int64(1), stats.CompletedThisMonth)
	require.Len(t, stats.StatusBreakdown, 1)
	assert.Equal(t, models.ProjectStatusApproved, stats.StatusBreakdown[0].Status)
	assert.Equal(t, int64(1), stats.StatusBreakdown[0].Count)
}
