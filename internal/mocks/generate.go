// Package mocks provides gomock mocks for the core repository interfaces.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	repo := mocks.NewMockJobPostingRepository(ctrl)
//	repo.EXPECT().GetByID(gomock.Any(), "job-1").Return(posting, nil)
package mocks

// Create, GetByID, List, Count, Update, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=job_posting_repository_mock.go github.com/target/jobboard/internal/core JobPostingRepository

// Create, List, Count
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=application_repository_mock.go github.com/target/jobboard/internal/core ApplicationRepository
