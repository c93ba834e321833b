package services

import (
	"time"

	"gorm.io/gorm"

	"permiso_backend/internal/dto"
	"permiso_backend/internal/models"
	"permiso_backend/internal/repositories"
)

// In-memory fakes backing the service tests.

type fakeProjectRepo struct {
	projects map[string]*models.Project
	comments []*models.ReviewComment
	nextID   int
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: map[string]*models.Project{}}
}

func (r *fakeProjectRepo) Create(project *models.Project) error {
	if project.ID == "" {
		r.nextID++
		project.ID = fakeID(r.nextID)
	}
	project.CreatedAt = time.Now()
	project.UpdatedAt = time.Now()
	clone := *project
	r.projects[project.ID] = &clone
	return nil
}

func (r *fakeProjectRepo) FindByID(id string) (*models.Project, error) {
	project, ok := r.projects[id]
	if !ok {
		return nil, repositories.ErrProjectNotFound
	}
	clone := *project
	return &clone, nil
}

func (r *fakeProjectRepo) FindByPaymentIntentID(intentID string) (*models.Project, error) {
	for _, p := range r.projects {
		if p.StripePaymentIntentID == intentID {
			clone := *p
			return &clone, nil
		}
	}
	return nil, repositories.ErrProjectNotFound
}

func (r *fakeProjectRepo) List(scope repositories.ProjectScope, criteria dto.ProjectListCriteria) ([]models.Project, int64, error) {
	var out []models.Project
	for _, p := range r.projects {
		if scope.ApplicantID != "" && p.ApplicantID != scope.ApplicantID {
			continue
		}
		if scope.ReviewerID != "" && (p.ReviewerID == nil || *p.ReviewerID != scope.ReviewerID) {
			continue
		}
		if criteria.Status != "" && string(p.Status) != criteria.Status {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProjectRepo) ListForAdmin(criteria dto.AdminProjectCriteria) ([]models.Project, int64, error) {
	var out []models.Project
	for _, p := range r.projects {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProjectRepo) ListPendingReviews(reviewerID string, criteria dto.PendingReviewsCriteria) ([]models.Project, int64, error) {
	status := criteria.Status
	if status == "" {
		status = string(models.ProjectStatusSubmitted)
	}
	var out []models.Project
	for _, p := range r.projects {
		if string(p.Status) != status {
			continue
		}
		if reviewerID != "" && (p.ReviewerID == nil || *p.ReviewerID != reviewerID) {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProjectRepo) ListPaymentHistory(applicantID string, page, limit int) ([]models.Project, int64, error) {
	var out []models.Project
	for _, p := range r.projects {
		if p.ApplicantID != applicantID {
			continue
		}
		switch p.PaymentStatus {
		case models.PaymentStatusPaid, models.PaymentStatusFailed, models.PaymentStatusRefunded:
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeProjectRepo) Updates(id string, fields map[string]interface{}) error {
	project, ok := r.projects[id]
	if !ok {
		return repositories.ErrProjectNotFound
	}
	for key, value := range fields {
		switch key {
		case "title":
			project.Title = value.(string)
		case "description":
			project.Description = value.(string)
		case "status":
			project.Status = value.(models.ProjectStatus)
		case "priority":
			project.Priority = models.ProjectPriority(value.(string))
		case "submitted_at":
			t := value.(time.Time)
			project.SubmittedAt = &t
		case "approved_at":
			t := value.(time.Time)
			project.ApprovedAt = &t
		case "rejected_at":
			t := value.(time.Time)
			project.RejectedAt = &t
		case "due_date":
			t := value.(time.Time)
			project.DueDate = &t
		case "reviewer_id":
			id := value.(string)
			project.ReviewerID = &id
		case "payment_status":
			project.PaymentStatus = value.(models.PaymentStatus)
		case "actual_cost":
			project.ActualCost = value.(float64)
		case "stripe_payment_intent_id":
			project.StripePaymentIntentID = value.(string)
		}
	}
	project.UpdatedAt = time.Now()
	return nil
}

func (r *fakeProjectRepo) Delete(id string) error {
	if _, ok := r.projects[id]; !ok {
		return repositories.ErrProjectNotFound
	}
	delete(r.projects, id)
	return nil
}

func (r *fakeProjectRepo) AddComment(comment *models.ReviewComment) error {
	clone := *comment
	r.comments = append(r.comments, &clone)
	return nil
}

func (r *fakeProjectRepo) AddDocument(document *models.Document) error {
	project, ok := r.projects[document.ProjectID]
	if !ok {
		return repositories.ErrProjectNotFound
	}
	if document.ID == "" {
		r.nextID++
		document.ID = fakeID(r.nextID)
	}
	project.Documents = append(project.Documents, *document)
	return nil
}

func (r *fakeProjectRepo) FindDocument(projectID, documentID string) (*models.Document, error) {
	project, ok := r.projects[projectID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for i := range project.Documents {
		if project.Documents[i].ID == documentID {
			clone := project.Documents[i]
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProjectRepo) RemoveDocument(projectID, documentID string) error {
	project, ok := r.projects[projectID]
	if !ok {
		return repositories.ErrProjectNotFound
	}
	kept := project.Documents[:0]
	for _, d := range project.Documents {
		if d.ID != documentID {
			kept = append(kept, d)
		}
	}
	project.Documents = kept
	return nil
}

func (r *fakeProjectRepo) ReplaceForms(projectID string, forms []models.ProjectForm) error {
	project, ok := r.projects[projectID]
	if !ok {
		return repositories.ErrProjectNotFound
	}
	project.Forms = forms
	return nil
}

func (r *fakeProjectRepo) ReplaceDocuments(projectID string, documents []models.Document) error {
	project, ok := r.projects[projectID]
	if !ok {
		return repositories.ErrProjectNotFound
	}
	project.Documents = documents
	return nil
}

func (r *fakeProjectRepo) StatusBreakdown(reviewerID string) ([]dto.StatusCount, error) {
	counts := map[models.ProjectStatus]int64{}
	for _, p := range r.projects {
		if reviewerID != "" && (p.ReviewerID == nil || *p.ReviewerID != reviewerID) {
			continue
		}
		counts[p.Status]++
	}
	var out []dto.StatusCount
	for status, count := range counts {
		out = append(out, dto.StatusCount{Status: status, Count: count})
	}
	return out, nil
}

func (r *fakeProjectRepo) Count(reviewerID string) (int64, error) {
	var count int64
	for _, p := range r.projects {
		if reviewerID != "" && (p.ReviewerID == nil || *p.ReviewerID != reviewerID) {
			continue
		}
		count++
	}
	return count, nil
}

func (r *fakeProjectRepo) CountApprovedSince(reviewerID string, since time.Time) (int64, error) {
	var count int64
	for _, p := range r.projects {
		if reviewerID != "" && (p.ReviewerID == nil || *p.ReviewerID != reviewerID) {
			continue
		}
		if p.ApprovedAt != nil && !p.ApprovedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

type fakeUserRepo struct {
	users  map[string]*models.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicateEmail
		}
	}
	if user.ID == "" {
		r.nextID++
		user.ID = fakeID(r.nextID)
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) FindByID(id string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) List(criteria dto.UserListCriteria) ([]models.User, int64, error) {
	var out []models.User
	for _, u := range r.users {
		if criteria.Role != "" && string(u.Role) != criteria.Role {
			continue
		}
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) UpdateRole(id string, role models.UserRole) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	user.Role = role
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) UpdateStripeCustomerID(id, customerID string) error {
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.StripeCustomerID = customerID
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(id string) error {
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	now := time.Now()
	user.LastLogin = &now
	return nil
}

func (r *fakeUserRepo) CountAdmins() (int64, error) {
	var count int64
	for _, u := range r.users {
		if u.Role == models.UserRoleAdmin {
			count++
		}
	}
	return count, nil
}

type fakeNotificationRepo struct {
	notifications []*models.Notification
	nextID        int
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(notification *models.Notification) error {
	r.nextID++
	notification.ID = fakeID(r.nextID)
	notification.CreatedAt = time.Now()
	clone := *notification
	r.notifications = append(r.notifications, &clone)
	return nil
}

func (r *fakeNotificationRepo) FindUserNotifications(userID string, criteria dto.NotificationCriteria) ([]models.Notification, int64, error) {
	var out []models.Notification
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		if criteria.UnreadOnly && n.IsRead {
			continue
		}
		out = append(out, *n)
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) GetUnreadCount(userID string) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(userID, notificationID string) error {
	for _, n := range r.notifications {
		if n.ID == notificationID && n.UserID == userID {
			now := time.Now()
			n.IsRead = true
			n.ReadAt = &now
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) MarkAllAsRead(userID string) error {
	now := time.Now()
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &now
		}
	}
	return nil
}

func (r *fakeNotificationRepo) FindAll(criteria dto.AuditCriteria) ([]models.Notification, int64, error) {
	var out []models.Notification
	for _, n := range r.notifications {
		if criteria.UserID != "" && n.UserID != criteria.UserID {
			continue
		}
		if criteria.Action != "" && string(n.Type) != criteria.Action {
			continue
		}
		out = append(out, *n)
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) DeleteReadOlderThan(cutoff time.Time) (int64, error) {
	var deleted int64
	kept := r.notifications[:0]
	for _, n := range r.notifications {
		if n.IsRead && n.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	r.notifications = kept
	return deleted, nil
}

type fakeNotifier struct {
	pushes []fakePush
}

type fakePush struct {
	userID  string
	message any
}

func (n *fakeNotifier) PushToUser(userID string, message any) {
	n.pushes = append(n.pushes, fakePush{userID: userID, message: message})
}

type fakeEmailProvider struct {
	sent []fakeEmail
}

type fakeEmail struct {
	to      string
	subject string
}

func (p *fakeEmailProvider) Send(to, subject, _ string) error {
	p.sent = append(p.sent, fakeEmail{to: to, subject: subject})
	return nil
}

func fakeID(n int) string {
	return string(rune('a'+n-1)) + "0000000-0000-0000-0000-000000000000"
}
