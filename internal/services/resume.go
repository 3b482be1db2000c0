package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/talentbridge/apiserver/internal/storage"
	"github.com/talentbridge/apiserver/internal/store"
	"github.com/talentbridge/apiserver/types"
)

type ResumeProfileStore interface {
	GetJobSeekerByUserID(ctx context.Context, userID string) (types.JobSeekerProfile, error)
	SetResumeKey(ctx context.Context, userID, key string) error
}

// ResumeService stores job seeker resumes in object storage and keeps
// the object key on the profile row.
type ResumeService struct {
	objects  storage.ObjectStore
	profiles ResumeProfileStore
}

func NewResumeService(objects storage.ObjectStore, profiles ResumeProfileStore) *ResumeService {
	return &ResumeService{
		objects:  objects,
		profiles: profiles,
	}
}

// Upload replaces the caller's resume and returns the object key.
func (s *ResumeService) Upload(ctx context.Context, userID, filename, contentType string, data []byte) (string, error) {
	if _, err := s.profiles.GetJobSeekerByUserID(ctx, userID); err != nil {
		return "", err
	}

	key := path.Join("resumes", userID, path.Base(filename))
	if err := s.objects.Store(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", fmt.Errorf("store resume: %w", err)
	}

	if err := s.profiles.SetResumeKey(ctx, userID, key); err != nil {
		return "", fmt.Errorf("record resume key: %w", err)
	}
	return key, nil
}

// Open streams the caller's stored resume.
func (s *ResumeService) Open(ctx context.Context, userID string) (io.ReadCloser, string, error) {
	profile, err := s.profiles.GetJobSeekerByUserID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if profile.ResumeKey == nil || *profile.ResumeKey == "" {
		return nil, "", store.ErrNotFound
	}
	return s.objects.Open(ctx, *profile.ResumeKey)
}
