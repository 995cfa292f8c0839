package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/alumnihub/backend/config"
	"github.com/alumnihub/backend/internal/models"
	"github.com/alumnihub/backend/internal/types"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const maxAvatarBytes = 5 << 20 // 5 MiB

var (
	ErrAvatarTooLarge    = errors.New("avatar exceeds the size limit")
	ErrUnsupportedAvatar = errors.New("avatar must be a PNG or JPEG image")
)

var avatarExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
}

// AvatarService stores avatar images in S3 and records the resulting URL on
// the profile.
type AvatarService struct {
	s3Config *config.S3Config
	profiles IProfileService
}

var _ IAvatarService = (*AvatarService)(nil)

func NewAvatarService(s3Config *config.S3Config, profiles IProfileService) *AvatarService {
	return &AvatarService{s3Config: s3Config, profiles: profiles}
}

// Upload validates and stores the image, then writes the public URL onto the
// actor's profile (which records the change in the audit trail).
func (s *AvatarService) Upload(ctx context.Context, actor types.TokenClaims, data []byte, contentType string) (string, error) {
	if len(data) == 0 || len(data) > maxAvatarBytes {
		return "", ErrAvatarTooLarge
	}
	ext, ok := avatarExtensions[contentType]
	if !ok {
		return "", ErrUnsupportedAvatar
	}

	key := fmt.Sprintf("avatars/%s.%s", uuid.New().String(), ext)
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key)

	if _, err := s.profiles.Update(ctx, actor, actor.UserID, &models.ProfileUpdate{AvatarURL: &url}); err != nil {
		return "", err
	}
	return url, nil
}
