package service

import (
	"context"
	"testing"

	"devcommunity/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type projectFixture struct {
	projects  *fakeProjectRepo
	proposals *fakeProposalRepo
	users     *fakeUserRepo
	svc       ProjectService
}

func newProjectFixture(t *testing.T) *projectFixture {
	t.Helper()
	f := &projectFixture{
		projects:  newFakeProjectRepo(),
		proposals: newFakeProposalRepo(),
		users:     newFakeUserRepo(),
	}
	f.svc = NewProjectService(f.projects, f.proposals, f.users)
	return f
}

func (f *projectFixture) addUser(t *testing.T, name string, role domain.Role, balance int64) *domain.User {
	t.Helper()
	user := &domain.User{Name: name, Email: name + "@example.com", PasswordHash: "x", Role: role, Balance: balance}
	_, err := f.users.Create(context.Background(), user)
	require.NoError(t, err)
	return user
}

func TestCreateProjectDefaults(t *testing.T) {
	f := newProjectFixture(t)
	client := f.addUser(t, "carol", domain.RoleClient, 0)

	project, err := f.svc.CreateProject(context.Background(), client.ID.Hex(), CreateProjectInput{
		Name:  "Marketplace app",
		About: "Full build",
		Price: 300,
	})
	require.NoError(t, err)

	stored, err := f.projects.GetByID(context.Background(), project.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectStatusApplying, stored.Status)
	assert.Equal(t, domain.PaymentNotVerified, stored.Payment)

	owner, err := f.users.GetByID(context.Background(), client.ID)
	require.NoError(t, err)
	require.Len(t, owner.MyProjects, 1)
	assert.Equal(t, project.ID, owner.MyProjects[0])
}

func TestApplyProjectOnce(t *testing.T) {
	f := newProjectFixture(t)
	client := f.addUser(t, "carol", domain.RoleClient, 0)
	dev := f.addUser(t, "dave", domain.RoleDeveloper, 0)

	project, err := f.svc.CreateProject(context.Background(), client.ID.Hex(), CreateProjectInput{Name: "App", About: "Build", Price: 300})
	require.NoError(t, err)

	proposal, err := f.svc.ApplyProject(context.Background(), dev.ID.Hex(), project.ID.Hex(), 250, "2 weeks", "hire me")
	require.NoError(t, err)
	assert.Equal(t, dev.ID, proposal.User)

	stored, err := f.projects.GetByID(context.Background(), project.ID)
	require.NoError(t, err)
	require.Len(t, stored.Proposers, 1)
	assert.Equal(t, proposal.ID, stored.Proposers[0])

	devStored, err := f.users.GetByID(context.Background(), dev.ID)
	require.NoError(t, err)
	require.Len(t, devStored.Projects, 1)

	_, err = f.svc.ApplyProject(context.Background(), dev.ID.Hex(), project.ID.Hex(), 200, "1 week", "again")
	assert.ErrorIs(t, err, ErrAlreadyProposed)
}

func TestHireDeveloper(t *testing.T) {
	f := newProjectFixture(t)
	client := f.addUser(t, "carol", domain.RoleClient, 0)
	dev := f.addUser(t, "dave", domain.RoleDeveloper, 0)
	other := f.addUser(t, "mallory", domain.RoleClient, 0)

	project, err := f.svc.CreateProject(context.Background(), client.ID.Hex(), CreateProjectInput{Name: "App", About: "Build", Price: 300})
	require.NoError(t, err)

	_, err = f.svc.HireDeveloper(context.Background(), other.ID.Hex(), project.ID.Hex(), dev.ID.Hex())
	assert.ErrorIs(t, err, ErrNotProjectOwner)

	hired, err := f.svc.HireDeveloper(context.Background(), client.ID.Hex(), project.ID.Hex(), dev.ID.Hex())
	require.NoError(t, err)
	assert.Contains(t, hired.HiredDev, dev.ID)

	devStored, err := f.users.GetByID(context.Background(), dev.ID)
	require.NoError(t, err)
	assert.Contains(t, devStored.OngoingProjectsDev, project.ID)
	clientStored, err := f.users.GetByID(context.Background(), client.ID)
	require.NoError(t, err)
	assert.Contains(t, clientStored.OngoingProjectsClient, project.ID)

	_, err = f.svc.HireDeveloper(context.Background(), client.ID.Hex(), project.ID.Hex(), dev.ID.Hex())
	assert.ErrorIs(t, err, ErrAlreadyHired)
}

func TestCompleteProjectTransfersBalance(t *testing.T) {
	f := newProjectFixture(t)
	client := f.addUser(t, "carol", domain.RoleClient, 500)
	dev := f.addUser(t, "dave", domain.RoleDeveloper, 0)

	project, err := f.svc.CreateProject(context.Background(), client.ID.Hex(), CreateProjectInput{Name: "App", About: "Build", Price: 300})
	require.NoError(t, err)
	_, err = f.svc.HireDeveloper(context.Background(), client.ID.Hex(), project.ID.Hex(), dev.ID.Hex())
	require.NoError(t, err)

	completed, err := f.svc.CompleteProject(context.Background(), client.ID.Hex(), project.ID.Hex(), dev.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectStatusComplete, completed.Status)
	assert.Equal(t, domain.PaymentVerified, completed.Payment)

	clientStored, err := f.users.GetByID(context.Background(), client.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(200), clientStored.Balance)
	assert.Empty(t, clientStored.OngoingProjectsClient)
	assert.Contains(t, clientStored.CompleteProjectsClient, project.ID)

	devStored, err := f.users.GetByID(context.Background(), dev.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(300), devStored.Balance)
	assert.Empty(t, devStored.OngoingProjectsDev)
	assert.Contains(t, devStored.CompleteProjectsDev, project.ID)
}

func TestCompleteProjectInsufficientBalance(t *testing.T) {
	f := newProjectFixture(t)
	client := f.addUser(t, "carol", domain.RoleClient, 100)
	dev := f.addUser(t, "dave", domain.RoleDeveloper, 0)

	project, err := f.svc.CreateProject(context.Background(), client.ID.Hex(), CreateProjectInput{Name: "App", About: "Build", Price: 300})
	require.NoError(t, err)
	_, err = f.svc.HireDeveloper(context.Background(), client.ID.Hex(), project.ID.Hex(), dev.ID.Hex())
	require.NoError(t, err)

	_, err = f.svc.CompleteProject(context.Background(), client.ID.Hex(), project.ID.Hex(), dev.ID.Hex())
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// Nothing moved.
	clientStored, err := f.users.GetByID(context.Background(), client.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), clientStored.Balance)
	assert.Contains(t, clientStored.OngoingProjectsClient, project.ID)
	assert.Empty(t, clientStored.CompleteProjectsClient)

	devStored, err := f.users.GetByID(context.Background(), dev.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), devStored.Balance)
	assert.Contains(t, devStored.OngoingProjectsDev, project.ID)

	stored, err := f.projects.GetByID(context.Background(), project.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectStatusApplying, stored.Status)
}

func TestCompleteProjectRequiresHiredDeveloper(t *testing.T) {
	f := newProjectFixture(t)
	client := f.addUser(t, "carol", domain.RoleClient, 500)
	dev := f.addUser(t, "dave", domain.RoleDeveloper, 0)

	project, err := f.svc.CreateProject(context.Background(), client.ID.Hex(), CreateProjectInput{Name: "App", About: "Build", Price: 300})
	require.NoError(t, err)

	_, err = f.svc.CompleteProject(context.Background(), client.ID.Hex(), project.ID.Hex(), dev.ID.Hex())
	assert.ErrorIs(t, err, ErrDeveloperNotHired)
}

// TestProjectFlowEndToEnd walks the whole engagement: posting, proposal,
// hire and paid completion.
func TestProjectFlowEndToEnd(t *testing.T) {
	f := newProjectFixture(t)
	client := f.addUser(t, "carol", domain.RoleClient, 1000)
	dev := f.addUser(t, "dave", domain.RoleDeveloper, 50)

	project, err := f.svc.CreateProject(context.Background(), client.ID.Hex(), CreateProjectInput{
		Name:   "Marketplace app",
		About:  "Full build",
		Price:  750,
		Skills: []string{"go", "react"},
	})
	require.NoError(t, err)

	_, err = f.svc.ApplyProject(context.Background(), dev.ID.Hex(), project.ID.Hex(), 700, "4 weeks", "hire me")
	require.NoError(t, err)

	detail, err := f.svc.GetProject(context.Background(), project.ID.Hex())
	require.NoError(t, err)
	require.Len(t, detail.ProposalDetails, 1)
	assert.Equal(t, "dave", detail.ProposalDetails[0].UserDetail.Name)

	_, err = f.svc.HireDeveloper(context.Background(), client.ID.Hex(), project.ID.Hex(), dev.ID.Hex())
	require.NoError(t, err)

	_, err = f.svc.CompleteProject(context.Background(), client.ID.Hex(), project.ID.Hex(), dev.ID.Hex())
	require.NoError(t, err)

	clientStored, err := f.users.GetByID(context.Background(), client.ID)
	require.NoError(t, err)
	devStored, err := f.users.GetByID(context.Background(), dev.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(250), clientStored.Balance)
	assert.Equal(t, int64(800), devStored.Balance)
	assert.Contains(t, clientStored.CompleteProjectsClient, project.ID)
	assert.Contains(t, devStored.CompleteProjectsDev, project.ID)
}
