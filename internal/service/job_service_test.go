package service

import (
	"context"
	"testing"
	"time"

	"devcommunity/internal/domain"
	"devcommunity/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jobFixture struct {
	jobs  *fakeJobRepo
	users *fakeUserRepo
	files *fakeStorage
	mail  *fakeMailer
	svc   JobService
}

func newJobFixture(t *testing.T) *jobFixture {
	t.Helper()
	f := &jobFixture{
		jobs:  newFakeJobRepo(),
		users: newFakeUserRepo(),
		files: newFakeStorage(),
		mail:  &fakeMailer{},
	}
	f.svc = NewJobService(f.jobs, f.users, f.files, f.mail)
	return f
}

func (f *jobFixture) addUser(t *testing.T, name string, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{Name: name, Email: name + "@example.com", PasswordHash: "x", Role: role}
	_, err := f.users.Create(context.Background(), user)
	require.NoError(t, err)
	return user
}

func TestCreateJobRecordsOwnerRef(t *testing.T) {
	f := newJobFixture(t)
	client := f.addUser(t, "carol", domain.RoleClient)

	job, err := f.svc.CreateJob(context.Background(), client.ID.Hex(), CreateJobInput{
		Name:  "Backend engineer",
		About: "Build APIs",
	})
	require.NoError(t, err)

	stored, err := f.users.GetByID(context.Background(), client.ID)
	require.NoError(t, err)
	require.Len(t, stored.MyJobs, 1)
	assert.Equal(t, job.ID, stored.MyJobs[0])
}

func TestApplyJobOnce(t *testing.T) {
	f := newJobFixture(t)
	client := f.addUser(t, "carol", domain.RoleClient)
	dev := f.addUser(t, "dave", domain.RoleDeveloper)

	created, err := f.svc.CreateJob(context.Background(), client.ID.Hex(), CreateJobInput{Name: "Backend engineer", About: "Build APIs"})
	require.NoError(t, err)

	job, err := f.svc.ApplyJob(context.Background(), dev.ID.Hex(), created.ID.Hex(), "data:application/pdf;base64,aGk=")
	require.NoError(t, err)
	require.Len(t, job.Applicants, 1)
	assert.Equal(t, dev.ID, job.Applicants[0].User)
	assert.NotEmpty(t, job.Applicants[0].CV)

	stored, err := f.users.GetByID(context.Background(), dev.ID)
	require.NoError(t, err)
	require.Len(t, stored.Jobs, 1)
	assert.Equal(t, created.ID, stored.Jobs[0])

	_, err = f.svc.ApplyJob(context.Background(), dev.ID.Hex(), created.ID.Hex(), "")
	assert.ErrorIs(t, err, ErrAlreadyApplied)
}

func TestMailApplicants(t *testing.T) {
	f := newJobFixture(t)
	client := f.addUser(t, "carol", domain.RoleClient)
	dev1 := f.addUser(t, "dave", domain.RoleDeveloper)
	dev2 := f.addUser(t, "erin", domain.RoleDeveloper)
	other := f.addUser(t, "mallory", domain.RoleClient)

	created, err := f.svc.CreateJob(context.Background(), client.ID.Hex(), CreateJobInput{Name: "Backend engineer", About: "Build APIs"})
	require.NoError(t, err)
	_, err = f.svc.ApplyJob(context.Background(), dev1.ID.Hex(), created.ID.Hex(), "")
	require.NoError(t, err)
	_, err = f.svc.ApplyJob(context.Background(), dev2.ID.Hex(), created.ID.Hex(), "")
	require.NoError(t, err)

	_, err = f.svc.MailApplicants(context.Background(), other.ID.Hex(), created.ID.Hex(), "", "interview invite")
	assert.ErrorIs(t, err, ErrNotJobOwner)

	count, err := f.svc.MailApplicants(context.Background(), client.ID.Hex(), created.ID.Hex(), "", "interview invite")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Delivery is asynchronous.
	assert.Eventually(t, func() bool {
		return f.mail.sentCount() == 2
	}, time.Second, 10*time.Millisecond)
}

func TestDeleteJobOwnershipGate(t *testing.T) {
	f := newJobFixture(t)
	client := f.addUser(t, "carol", domain.RoleClient)
	other := f.addUser(t, "mallory", domain.RoleClient)

	created, err := f.svc.CreateJob(context.Background(), client.ID.Hex(), CreateJobInput{Name: "Backend engineer", About: "Build APIs"})
	require.NoError(t, err)

	err = f.svc.DeleteJob(context.Background(), other.ID.Hex(), created.ID.Hex())
	assert.ErrorIs(t, err, ErrNotJobOwner)

	require.NoError(t, f.svc.DeleteJob(context.Background(), client.ID.Hex(), created.ID.Hex()))

	_, err = f.jobs.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	stored, err := f.users.GetByID(context.Background(), client.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.MyJobs)
}
