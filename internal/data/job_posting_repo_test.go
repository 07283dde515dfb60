package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/jobboard/internal/domain/model"
	apperrors "github.com/target/jobboard/internal/errors"
	"github.com/target/jobboard/internal/testutil"
)

func TestValidateSortOptions(t *testing.T) {
	tests := []struct {
		sort, dir       string
		wantCol, wantDir string
	}{
		{"", "", "created_at", sortDirDesc},
		{"created_at", "asc", "created_at", sortDirAsc},
		{"title", "", "title", sortDirAsc},
		{"TITLE", "desc", "title", sortDirDesc},
		{"salary", "", "salary_max", sortDirDesc},
		{"salary_max", "ASC", "salary_max", sortDirAsc},
		{"id; DROP TABLE job_postings", "sideways", "created_at", sortDirDesc},
	}
	for _, tt := range tests {
		col, dir := validateSortOptions(tt.sort, tt.dir)
		assert.Equal(t, tt.wantCol, col, "sort=%q dir=%q", tt.sort, tt.dir)
		assert.Equal(t, tt.wantDir, dir, "sort=%q dir=%q", tt.sort, tt.dir)
	}
}

func TestJobPostingQuery(t *testing.T) {
	ft := model.EmploymentContract
	status := model.JobStatusOpen
	opts := model.JobPostingListOptions{
		Q:              testutil.StringPtr("  go  "),
		Location:       testutil.StringPtr("Berlin"),
		EmploymentType: &ft,
		Remote:         testutil.BoolPtr(true),
		EmployerID:     testutil.StringPtr("emp-1"),
		Status:         &status,
		Sort:           "salary",
	}

	t.Run("list", func(t *testing.T) {
		query, args := jobPostingQuery(opts).Columns("id").Page(20, 40).SQL()

		assert.Equal(t,
			`SELECT "id" FROM "job_postings" WHERE ("title" ILIKE $1 ESCAPE '\' OR "company" ILIKE $1 ESCAPE '\')`+
				` AND "location" ILIKE $2 ESCAPE '\' AND "employment_type" = $3 AND "remote" = $4`+
				` AND "employer_id" = $5 AND "status" = $6`+
				` ORDER BY "salary_max" DESC NULLS LAST, "id" DESC LIMIT $7 OFFSET $8`,
			query)
		assert.Equal(t, []any{"%go%", "%Berlin%", "contract", true, "emp-1", "open", 20, 40}, args)
	})

	t.Run("count shares filters", func(t *testing.T) {
		query, args := jobPostingQuery(opts).CountSQL()
		assert.Contains(t, query, `SELECT COUNT(*) FROM "job_postings" WHERE`)
		assert.NotContains(t, query, "ORDER BY")
		assert.Len(t, args, 6)
	})

	t.Run("blank filters are ignored", func(t *testing.T) {
		query, args := jobPostingQuery(model.JobPostingListOptions{
			Q:        testutil.StringPtr("   "),
			Location: testutil.StringPtr(""),
		}).SQL()
		assert.Equal(t, `SELECT * FROM "job_postings" ORDER BY "created_at" DESC, "id" DESC`, query)
		assert.Empty(t, args)
	})
}

func createPosting(t *testing.T, repo *JobPostingRepo, b *testutil.JobPostingBuilder) *model.JobPosting {
	t.Helper()
	p, err := repo.Create(context.Background(), b.Build())
	require.NoError(t, err)
	return p
}

func TestJobPostingRepo_CRUD(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		tp := newStepClock(testutil.TestTime())
		repo := NewJobPostingRepoWithClock(db, tp)

		created := createPosting(t, repo, testutil.NewJobPosting("emp-1").WithSalary(100, 200))
		require.NotEmpty(t, created.ID)
		assert.Equal(t, model.JobStatusOpen, created.Status)
		assert.Equal(t, "emp-1", created.EmployerID)
		assert.True(t, created.CreatedAt.Equal(testutil.TestTime()))
		require.NotNil(t, created.SalaryMax)
		assert.Equal(t, int64(200), *created.SalaryMax)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Title, got.Title)

		tp.Advance(time.Hour)
		closed := model.JobStatusClosed
		updated, err := repo.Update(ctx, created.ID, model.UpdateJobPostingRequest{
			Title:  testutil.StringPtr("  Staff Engineer "),
			Status: &closed,
		})
		require.NoError(t, err)
		assert.Equal(t, "Staff Engineer", updated.Title)
		assert.Equal(t, model.JobStatusClosed, updated.Status)
		assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

		ok, err := repo.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = repo.GetByID(ctx, created.ID)
		require.ErrorIs(t, err, ErrJobPostingNotFound)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestJobPostingRepo_NotFound(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewJobPostingRepo(db)

		_, err := repo.GetByID(ctx, "not-a-uuid")
		require.ErrorIs(t, err, ErrJobPostingNotFound)

		_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
		require.ErrorIs(t, err, ErrJobPostingNotFound)

		_, err = repo.Update(ctx, "00000000-0000-0000-0000-000000000000",
			model.UpdateJobPostingRequest{Title: testutil.StringPtr("x")})
		require.ErrorIs(t, err, ErrJobPostingNotFound)

		ok, err := repo.Delete(ctx, "not-a-uuid")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestJobPostingRepo_Validation(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewJobPostingRepo(db)

		_, err := repo.Create(ctx, testutil.NewJobPosting("emp-1").WithTitle("  ").Build())
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))

		_, err = repo.Create(ctx, testutil.NewJobPosting("").Build())
		require.Error(t, err)
		assert.Equal(t, "employer_id", apperrors.GetField(err))

		p := createPosting(t, repo, testutil.NewJobPosting("emp-1").WithSalary(100, 200))
		// Only the new minimum is supplied, so ordering is enforced by the table check.
		_, err = repo.Update(ctx, p.ID, model.UpdateJobPostingRequest{SalaryMin: testutil.Int64Ptr(500)})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestJobPostingRepo_ListAndCount(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		tp := newStepClock(testutil.TestTime())
		repo := NewJobPostingRepoWithClock(db, tp)

		titles := []string{"Go Developer", "Rust Developer", "Designer", "Go SRE", "Accountant"}
		for i, title := range titles {
			tp.Advance(time.Minute)
			b := testutil.NewJobPosting("emp-1").WithTitle(title).WithSalary(int64(i*10), int64(i*10+5))
			if i%2 == 0 {
				b = b.WithRemote(true)
			}
			createPosting(t, repo, b)
		}
		tp.Advance(time.Minute)
		createPosting(t, repo, testutil.NewJobPosting("emp-2").WithTitle("Go Contractor").
			WithEmploymentType(model.EmploymentContract).WithCompany("Globex"))

		all, err := repo.List(ctx, model.JobPostingListOptions{Limit: 100})
		require.NoError(t, err)
		require.Len(t, all, 6)
		assert.Equal(t, "Go Contractor", all[0].Title, "newest first by default")

		n, err := repo.Count(ctx, model.JobPostingListOptions{Limit: 1, Offset: 3})
		require.NoError(t, err)
		assert.Equal(t, 6, n, "count ignores paging")

		goOpts := model.JobPostingListOptions{Q: testutil.StringPtr("go"), Sort: "title", Limit: 2}
		page1, err := repo.List(ctx, goOpts)
		require.NoError(t, err)
		require.Len(t, page1, 2)
		assert.Equal(t, "Go Contractor", page1[0].Title)
		assert.Equal(t, "Go Developer", page1[1].Title)

		goOpts.Offset = 2
		page2, err := repo.List(ctx, goOpts)
		require.NoError(t, err)
		require.Len(t, page2, 1)
		assert.Equal(t, "Go SRE", page2[0].Title)

		n, err = repo.Count(ctx, goOpts)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		remote, err := repo.Count(ctx, model.JobPostingListOptions{Remote: testutil.BoolPtr(true)})
		require.NoError(t, err)
		assert.Equal(t, 3, remote)

		byCompany, err := repo.List(ctx, model.JobPostingListOptions{Q: testutil.StringPtr("glob")})
		require.NoError(t, err)
		require.Len(t, byCompany, 1)
		assert.Equal(t, "emp-2", byCompany[0].EmployerID)

		mine, err := repo.Count(ctx, model.JobPostingListOptions{EmployerID: testutil.StringPtr("emp-2")})
		require.NoError(t, err)
		assert.Equal(t, 1, mine)

		literal, err := repo.Count(ctx, model.JobPostingListOptions{Q: testutil.StringPtr("%")})
		require.NoError(t, err)
		assert.Zero(t, literal, "wildcards in the query match literally")

		bySalary, err := repo.List(ctx, model.JobPostingListOptions{Sort: "salary_max", Dir: "desc"})
		require.NoError(t, err)
		require.Len(t, bySalary, 6)
		assert.Equal(t, "Accountant", bySalary[0].Title)
		assert.Nil(t, bySalary[5].SalaryMax, "postings without salary sort last")
	})
}
