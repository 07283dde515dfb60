package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/target/jobboard/internal/domain/auth"
	"github.com/target/jobboard/internal/domain/model"
	apperrors "github.com/target/jobboard/internal/errors"
	"github.com/target/jobboard/internal/mocks"
)

const (
	testJobID   = "3f1c7a52-9a0e-4c36-9b55-0d3c2f9b1e10"
	testOwnerID = "employer-1"
)

var (
	employer      = domainauth.Actor{UserID: testOwnerID, Role: domainauth.RoleEmployer}
	otherEmployer = domainauth.Actor{UserID: "employer-2", Role: domainauth.RoleEmployer}
	admin         = domainauth.Actor{UserID: "admin-1", Role: domainauth.RoleAdmin}
	seeker        = domainauth.Actor{UserID: "seeker-1", Role: domainauth.RoleJobSeeker}
	unrecognized  = domainauth.Actor{UserID: "who-1", Role: domainauth.RoleUnrecognized}
)

func ownedPosting() *model.JobPosting {
	return &model.JobPosting{
		ID:         testJobID,
		EmployerID: testOwnerID,
		Title:      "Backend Engineer",
		Company:    "Acme",
		Status:     model.JobStatusOpen,
	}
}

func TestNewJobPostingService_RequiresRepo(t *testing.T) {
	assert.Panics(t, func() { NewJobPostingService(JobPostingServiceOptions{}) })
}

func TestJobPostingService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockJobPostingRepository(ctrl)
	svc := NewJobPostingService(JobPostingServiceOptions{Repo: repo})

	want := model.JobPostingListOptions{Limit: defaultPageSize, Offset: 0, Sort: "title"}
	items := []*model.JobPosting{ownedPosting()}
	repo.EXPECT().List(gomock.Any(), want).Return(items, nil)
	repo.EXPECT().Count(gomock.Any(), want).Return(41, nil)

	res, err := svc.List(context.Background(), model.JobPostingListOptions{Offset: -3, Sort: "title"})
	require.NoError(t, err)
	assert.Equal(t, items, res.Items)
	assert.Equal(t, 41, res.Total)
}

func TestJobPostingService_List_ClampsLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockJobPostingRepository(ctrl)
	svc := NewJobPostingService(JobPostingServiceOptions{Repo: repo})

	want := model.JobPostingListOptions{Limit: maxPageSize, Offset: 200}
	repo.EXPECT().List(gomock.Any(), want).Return(nil, nil)
	repo.EXPECT().Count(gomock.Any(), want).Return(0, nil)

	res, err := svc.List(context.Background(), model.JobPostingListOptions{Limit: 5000, Offset: 200})
	require.NoError(t, err)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
}

func TestJobPostingService_List_CountError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockJobPostingRepository(ctrl)
	svc := NewJobPostingService(JobPostingServiceOptions{Repo: repo})

	boom := errors.New("boom")
	repo.EXPECT().List(gomock.Any(), gomock.Any()).Return([]*model.JobPosting{}, nil).AnyTimes()
	repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, boom)

	res, err := svc.List(context.Background(), model.JobPostingListOptions{})
	require.ErrorIs(t, err, boom)
	assert.Nil(t, res.Items)
}

func TestJobPostingService_Get_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockJobPostingRepository(ctrl)
	svc := NewJobPostingService(JobPostingServiceOptions{Repo: repo})

	_, err := svc.Get(context.Background(), "not-a-uuid")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestJobPostingService_Create(t *testing.T) {
	tests := []struct {
		name       string
		actor      domainauth.Actor
		req        model.CreateJobPostingRequest
		expectRepo bool
		check      func(t *testing.T, err error)
	}{
		{
			name:       "employer creates with their own id",
			actor:      employer,
			req:        model.CreateJobPostingRequest{Title: " Go Dev ", Company: "Acme", EmployerID: "spoofed"},
			expectRepo: true,
			check:      func(t *testing.T, err error) { require.NoError(t, err) },
		},
		{
			name:       "admin may create",
			actor:      admin,
			req:        model.CreateJobPostingRequest{Title: "Go Dev", Company: "Acme"},
			expectRepo: true,
			check:      func(t *testing.T, err error) { require.NoError(t, err) },
		},
		{
			name:  "job seeker is forbidden",
			actor: seeker,
			req:   model.CreateJobPostingRequest{Title: "Go Dev", Company: "Acme"},
			check: func(t *testing.T, err error) { assert.True(t, apperrors.IsForbidden(err)) },
		},
		{
			name:  "unrecognized role is forbidden",
			actor: unrecognized,
			req:   model.CreateJobPostingRequest{Title: "Go Dev", Company: "Acme"},
			check: func(t *testing.T, err error) { assert.True(t, apperrors.IsForbidden(err)) },
		},
		{
			name:  "validation runs before the repository",
			actor: employer,
			req:   model.CreateJobPostingRequest{Title: "", Company: "Acme"},
			check: func(t *testing.T, err error) {
				assert.True(t, apperrors.IsValidation(err))
				assert.Equal(t, "title", apperrors.GetField(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockJobPostingRepository(ctrl)
			svc := NewJobPostingService(JobPostingServiceOptions{Repo: repo})

			if tt.expectRepo {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, req *model.CreateJobPostingRequest) (*model.JobPosting, error) {
						assert.Equal(t, tt.actor.UserID, req.EmployerID)
						assert.Equal(t, "Go Dev", req.Title)
						assert.Equal(t, model.EmploymentFullTime, req.EmploymentType)
						return &model.JobPosting{ID: testJobID, EmployerID: req.EmployerID}, nil
					})
			}

			_, err := svc.Create(context.Background(), tt.actor, tt.req)
			tt.check(t, err)
		})
	}
}

func TestJobPostingService_Update_Ownership(t *testing.T) {
	title := "Senior Backend Engineer"
	req := model.UpdateJobPostingRequest{Title: &title}

	tests := []struct {
		name    string
		actor   domainauth.Actor
		allowed bool
	}{
		{"owner", employer, true},
		{"admin", admin, true},
		{"other employer", otherEmployer, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockJobPostingRepository(ctrl)
			svc := NewJobPostingService(JobPostingServiceOptions{Repo: repo})

			repo.EXPECT().GetByID(gomock.Any(), testJobID).Return(ownedPosting(), nil)
			if tt.allowed {
				updated := ownedPosting()
				updated.Title = title
				repo.EXPECT().Update(gomock.Any(), testJobID, req).Return(updated, nil)
			}

			got, err := svc.Update(context.Background(), tt.actor, testJobID, req)
			if !tt.allowed {
				require.Error(t, err)
				assert.True(t, apperrors.IsForbidden(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, title, got.Title)
		})
	}
}

func TestJobPostingService_Update_MergedSalaryRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockJobPostingRepository(ctrl)
	svc := NewJobPostingService(JobPostingServiceOptions{Repo: repo})

	existing := ownedPosting()
	existingMax := int64(100)
	existing.SalaryMax = &existingMax
	repo.EXPECT().GetByID(gomock.Any(), testJobID).Return(existing, nil)

	newMin := int64(500)
	_, err := svc.Update(context.Background(), employer, testJobID, model.UpdateJobPostingRequest{SalaryMin: &newMin})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "salary_max", apperrors.GetField(err))
}

func TestJobPostingService_Update_NoFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockJobPostingRepository(ctrl)
	svc := NewJobPostingService(JobPostingServiceOptions{Repo: repo})

	_, err := svc.Update(context.Background(), employer, testJobID, model.UpdateJobPostingRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestJobPostingService_Delete(t *testing.T) {
	t.Run("owner deletes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockJobPostingRepository(ctrl)
		svc := NewJobPostingService(JobPostingServiceOptions{Repo: repo})

		repo.EXPECT().GetByID(gomock.Any(), testJobID).Return(ownedPosting(), nil)
		repo.EXPECT().Delete(gomock.Any(), testJobID).Return(true, nil)
		require.NoError(t, svc.Delete(context.Background(), employer, testJobID))
	})

	t.Run("other employer is forbidden", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockJobPostingRepository(ctrl)
		svc := NewJobPostingService(JobPostingServiceOptions{Repo: repo})

		repo.EXPECT().GetByID(gomock.Any(), testJobID).Return(ownedPosting(), nil)
		err := svc.Delete(context.Background(), otherEmployer, testJobID)
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("seeker is forbidden without a lookup", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockJobPostingRepository(ctrl)
		svc := NewJobPostingService(JobPostingServiceOptions{Repo: repo})

		err := svc.Delete(context.Background(), seeker, testJobID)
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("vanished between lookup and delete", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockJobPostingRepository(ctrl)
		svc := NewJobPostingService(JobPostingServiceOptions{Repo: repo})

		repo.EXPECT().GetByID(gomock.Any(), testJobID).Return(ownedPosting(), nil)
		repo.EXPECT().Delete(gomock.Any(), testJobID).Return(false, nil)
		err := svc.Delete(context.Background(), admin, testJobID)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("repository errors pass through", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockJobPostingRepository(ctrl)
		svc := NewJobPostingService(JobPostingServiceOptions{Repo: repo})

		inUse := apperrors.ForeignKey("cannot delete job posting because it has applications")
		repo.EXPECT().GetByID(gomock.Any(), testJobID).Return(ownedPosting(), nil)
		repo.EXPECT().Delete(gomock.Any(), testJobID).Return(false, inUse)
		err := svc.Delete(context.Background(), employer, testJobID)
		require.ErrorIs(t, err, inUse)
	})
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, defaultPageSize, clampLimit(0))
	assert.Equal(t, defaultPageSize, clampLimit(-1))
	assert.Equal(t, 7, clampLimit(7))
	assert.Equal(t, maxPageSize, clampLimit(maxPageSize+1))
}
