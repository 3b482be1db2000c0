package services

import (
	"context"
	"errors"
	"testing"

	"github.com/talentbridge/apiserver/internal/notify"
	"github.com/talentbridge/apiserver/types"
)

func TestRegister_CompanySuccess(t *testing.T) {
	users := newFakeUserStore()
	profiles := newFakeProfileStore()
	events := &fakePublisher{}
	svc := NewRegistrationService(users, profiles, events)

	result, err := svc.Register(context.Background(), RegisterRequest{
		Email:       "hiring@acme.example",
		Password:    "supersafe1",
		Role:        "company",
		CompanyName: "Acme Corp",
		Industry:    "Software",
		CompanySize: "11-50",
		Location:    "Berlin",
	})
	if err != nil {
		t.Fatalf("register: unexpected error: %v", err)
	}

	if result.UserID == "" {
		t.Fatal("expected a user id in the result")
	}
	if result.Message == "" {
		t.Fatal("expected a confirmation message in the result")
	}
	if len(users.created) != 1 {
		t.Fatalf("expected exactly one account, got %d", len(users.created))
	}
	if len(profiles.companies) != 1 {
		t.Fatalf("expected exactly one company profile, got %d", len(profiles.companies))
	}
	if profiles.companies[0].UserID != result.UserID {
		t.Fatalf("profile user id %q does not match account %q", profiles.companies[0].UserID, result.UserID)
	}

	user := users.created[0]
	if user.Email != "hiring@acme.example" {
		t.Fatalf("unexpected email %q", user.Email)
	}
	if user.Role != types.RoleCompany {
		t.Fatalf("unexpected role %s", user.Role)
	}
	if user.PasswordHash == "supersafe1" || user.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
	if user.ConfirmationToken == "" {
		t.Fatal("expected a confirmation token on the new account")
	}

	if len(events.published) != 1 {
		t.Fatalf("expected one registration event, got %d", len(events.published))
	}
	if events.published[0].topic != notify.TopicUserRegistered {
		t.Fatalf("unexpected topic %q", events.published[0].topic)
	}
	if events.published[0].event.Attributes["confirmation_token"] != user.ConfirmationToken {
		t.Fatal("event must carry the confirmation token")
	}
}

func TestRegister_ValidationFailsBeforeAnyWrite(t *testing.T) {
	cases := []struct {
		name string
		req  RegisterRequest
	}{
		{"missing fields", RegisterRequest{Email: "a@b.co"}},
		{"bad email", RegisterRequest{Email: "not-an-email", Password: "supersafe1", Role: "company"}},
		{"short password", RegisterRequest{Email: "a@b.co", Password: "short", Role: "company"}},
		{"unknown role", RegisterRequest{Email: "a@b.co", Password: "supersafe1", Role: "admin"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := newFakeUserStore()
			profiles := newFakeProfileStore()
			svc := NewRegistrationService(users, profiles, nil)

			_, err := svc.Register(context.Background(), tc.req)
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if users.calls != 0 {
				t.Fatalf("expected no store calls for invalid input, got %d", users.calls)
			}
			if len(profiles.companies) != 0 {
				t.Fatal("expected no profile writes for invalid input")
			}
		})
	}
}

func TestRegister_DuplicateEmailSurfacesStoreMessage(t *testing.T) {
	users := newFakeUserStore()
	users.createErr = errors.New("an account with this email already exists")
	svc := NewRegistrationService(users, newFakeProfileStore(), nil)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:       "dup@acme.example",
		Password:    "supersafe1",
		Role:        "company",
		CompanyName: "Acme Corp",
		Industry:    "Software",
		CompanySize: "11-50",
		Location:    "Berlin",
	})

	var authErr *AuthCreationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthCreationError, got %v", err)
	}
	if authErr.Error() != "an account with this email already exists" {
		t.Fatalf("store message must pass through unchanged, got %q", authErr.Error())
	}
	if users.deleted != 0 {
		t.Fatal("nothing to compensate when account creation itself fails")
	}
}

func TestRegister_MissingProfileFieldsCompensates(t *testing.T) {
	users := newFakeUserStore()
	profiles := newFakeProfileStore()
	svc := NewRegistrationService(users, profiles, nil)

	// companyName missing: the account is created first, then the
	// role-field check fails and the account must be deleted again.
	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "half@acme.example",
		Password: "supersafe1",
		Role:     "company",
		Industry: "Software",
	})
	if err == nil {
		t.Fatal("expected an error for missing company fields")
	}

	if len(users.created) != 1 {
		t.Fatalf("expected the account to have been created, got %d", len(users.created))
	}
	if users.deleted != 1 {
		t.Fatalf("expected the compensating delete to run once, got %d", users.deleted)
	}
	if len(profiles.companies) != 0 {
		t.Fatal("no profile row may exist after compensation")
	}
}

func TestRegister_ProfileInsertFailureCompensates(t *testing.T) {
	users := newFakeUserStore()
	profiles := newFakeProfileStore()
	profiles.createErr = errors.New("connection reset")
	svc := NewRegistrationService(users, profiles, nil)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:          "seeker@example.com",
		Password:       "supersafe1",
		Role:           "job_seeker",
		FullName:       "Sam Seeker",
		Skills:         types.StringList{"go", "sql"},
		PreferredRoles: types.StringList{"backend"},
	})

	var profileErr *ProfileCreationError
	if !errors.As(err, &profileErr) {
		t.Fatalf("expected ProfileCreationError, got %v", err)
	}
	if profileErr.Role != types.RoleJobSeeker {
		t.Fatalf("unexpected role in error: %s", profileErr.Role)
	}
	if users.deleted != 1 {
		t.Fatalf("expected the compensating delete to run once, got %d", users.deleted)
	}
}

func TestRegister_CompensationFailureStillReturnsPrimaryError(t *testing.T) {
	users := newFakeUserStore()
	users.deleteErr = errors.New("delete refused")
	profiles := newFakeProfileStore()
	profiles.createErr = errors.New("profile table gone")
	svc := NewRegistrationService(users, profiles, nil)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:             "iv@example.com",
		Password:          "supersafe1",
		Role:              "interviewer",
		FullName:          "Ivy Interviewer",
		Expertise:         types.StringList{"distributed systems"},
		YearsOfExperience: 7,
	})

	var profileErr *ProfileCreationError
	if !errors.As(err, &profileErr) {
		t.Fatalf("rollback failure must not mask the primary error, got %v", err)
	}
	if !errors.Is(profileErr.Err, profiles.createErr) {
		t.Fatalf("expected wrapped insert error, got %v", profileErr.Err)
	}
}

func TestRegister_InterviewerRequiresPositiveExperience(t *testing.T) {
	users := newFakeUserStore()
	svc := NewRegistrationService(users, newFakeProfileStore(), nil)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:             "iv@example.com",
		Password:          "supersafe1",
		Role:              "interviewer",
		FullName:          "Ivy Interviewer",
		Expertise:         types.StringList{"systems"},
		YearsOfExperience: 0,
	})
	if err == nil {
		t.Fatal("expected an error for zero years of experience")
	}
	if users.deleted != 1 {
		t.Fatalf("role-field failures happen after account creation and must compensate, got %d deletes", users.deleted)
	}
}

func TestRegister_PublishFailureDoesNotFailRegistration(t *testing.T) {
	users := newFakeUserStore()
	events := &fakePublisher{publishErr: errors.New("broker down")}
	svc := NewRegistrationService(users, newFakeProfileStore(), events)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:          "seeker@example.com",
		Password:       "supersafe1",
		Role:           "job_seeker",
		FullName:       "Sam Seeker",
		Skills:         types.StringList{"go"},
		PreferredRoles: types.StringList{"backend"},
	})
	if err != nil {
		t.Fatalf("publishing is best-effort, got %v", err)
	}
	if users.deleted != 0 {
		t.Fatal("publish failure must not trigger compensation")
	}
}

type fakeUserStore struct {
	created   []types.User
	calls     int
	deleted   int
	createErr error
	deleteErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{}
}

func (f *fakeUserStore) Create(ctx context.Context, user types.User) (types.User, error) {
	f.calls++
	if f.createErr != nil {
		return types.User{}, f.createErr
	}
	f.created = append(f.created, user)
	return user, nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id string) error {
	f.calls++
	f.deleted++
	return f.deleteErr
}

type fakeProfileStore struct {
	companies    []types.CompanyProfile
	interviewers []types.InterviewerProfile
	jobSeekers   []types.JobSeekerProfile
	createErr    error
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{}
}

func (f *fakeProfileStore) CreateCompany(ctx context.Context, profile types.CompanyProfile) (types.CompanyProfile, error) {
	if f.createErr != nil {
		return types.CompanyProfile{}, f.createErr
	}
	profile.ID = len(f.companies) + 1
	f.companies = append(f.companies, profile)
	return profile, nil
}

func (f *fakeProfileStore) CreateInterviewer(ctx context.Context, profile types.InterviewerProfile) (types.InterviewerProfile, error) {
	if f.createErr != nil {
		return types.InterviewerProfile{}, f.createErr
	}
	profile.ID = len(f.interviewers) + 1
	f.interviewers = append(f.interviewers, profile)
	return profile, nil
}

func (f *fakeProfileStore) CreateJobSeeker(ctx context.Context, profile types.JobSeekerProfile) (types.JobSeekerProfile, error) {
	if f.createErr != nil {
		return types.JobSeekerProfile{}, f.createErr
	}
	profile.ID = len(f.jobSeekers) + 1
	f.jobSeekers = append(f.jobSeekers, profile)
	return profile, nil
}

type publishedEvent struct {
	topic string
	event notify.Event
}

type fakePublisher struct {
	published  []publishedEvent
	publishErr error
}

func (f *fakePublisher) Publish(ctx context.Context, topic string, event notify.Event) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, publishedEvent{topic: topic, event: event})
	return nil
}
