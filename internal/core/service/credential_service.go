package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/acpt/jobboard-api/internal/core/domain"
	"github.com/acpt/jobboard-api/internal/core/ports"
)

// CredentialService implements registration, authentication and login.
type CredentialService struct {
	repo    ports.IdentityRepository
	files   ports.FileStore
	encoder ports.SecretEncoder
	tokens  ports.TokenIssuer
	log     zerolog.Logger
}

func NewCredentialService(
	repo ports.IdentityRepository,
	files ports.FileStore,
	encoder ports.SecretEncoder,
	tokens ports.TokenIssuer,
	log zerolog.Logger,
) *CredentialService {
	return &CredentialService{
		repo:    repo,
		files:   files,
		encoder: encoder,
		tokens:  tokens,
		log:     log,
	}
}

// Register creates an identity of the requested role. A job seeker must
// attach a PDF resume, which is stored before the identity is saved.
func (s *CredentialService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error) {
	if strings.TrimSpace(in.Username) == "" {
		return nil, domain.Invalid("username is required")
	}
	if in.Secret == "" {
		return nil, domain.Invalid("password is required")
	}

	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	profile, err := domain.EmptyProfile(role)
	if err != nil {
		return nil, err
	}
	if err := applyProfileFields(profile, in.Profile); err != nil {
		return nil, err
	}

	var (
		resume     ports.Upload
		resumeType *mimetype.MIME
	)
	if role == domain.RoleJobSeeker {
		if in.Resume == nil {
			return nil, domain.ErrResumeRequired
		}
		content, m, err := inspectUpload(*in.Resume, isPDF, domain.ErrResumeNotPDF)
		if err != nil {
			return nil, err
		}
		resume = *in.Resume
		resume.Content = content
		resumeType = m
	}

	_, exists, err := s.repo.FindByUsername(ctx, in.Username)
	if err != nil {
		s.log.Error().Err(err).Str("op", "register").Str("username", in.Username).Msg("username lookup failed")
		return nil, domain.StorageFailure("find identity by username", err)
	}
	if exists {
		return nil, domain.ErrUsernameTaken
	}

	encoded, err := s.encoder.Encode(in.Secret)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		s.log.Error().Err(err).Str("op", "register").Str("username", in.Username).Msg("secret encoding failed")
		return nil, domain.StorageFailure("encode secret", err)
	}

	identity, err := domain.NewIdentity(in.Username, in.Email, encoded, role, profile)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	identity.CreatedAt = now
	identity.UpdatedAt = now

	var resumeURL string
	if js, ok := identity.JobSeeker(); ok {
		resumeURL, err = s.files.Save(ctx, ports.FileKindResume, storedName(ports.FileKindResume, resumeType), resume.Content)
		if err != nil {
			s.log.Error().Err(err).Str("op", "register").Str("username", in.Username).Msg("resume store failed")
			return nil, domain.StorageFailure("store resume", err)
		}
		js.ResumeURL = resumeURL
	}

	saved, err := s.repo.Save(ctx, identity)
	if err != nil {
		if resumeURL != "" {
			if delErr := s.files.Delete(ctx, resumeURL); delErr != nil {
				s.log.Warn().Err(delErr).Str("url", resumeURL).Msg("failed to remove orphaned resume")
			}
		}
		if errors.Is(err, domain.ErrUsernameTaken) {
			return nil, err
		}
		s.log.Error().Err(err).Str("op", "register").Str("username", in.Username).Msg("identity save failed")
		return nil, domain.StorageFailure("save identity", err)
	}

	s.log.Info().
		Int64("identity_id", saved.ID).
		Str("username", saved.Username).
		Str("role", string(saved.Role)).
		Msg("identity registered")

	return saved, nil
}

// Authenticate looks the username up and compares the re-encoded secret.
// Unknown usernames and wrong secrets are indistinguishable to the caller.
func (s *CredentialService) Authenticate(ctx context.Context, username, secret string) (*domain.Identity, bool, error) {
	if username == "" || secret == "" {
		return nil, false, nil
	}

	identity, found, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		s.log.Error().Err(err).Str("op", "authenticate").Str("username", username).Msg("username lookup failed")
		return nil, false, domain.StorageFailure("find identity by username", err)
	}
	if !found || !s.encoder.Matches(identity.Secret, secret) {
		return nil, false, nil
	}
	return identity, true, nil
}

// Login authenticates and issues a token.
func (s *CredentialService) Login(ctx context.Context, username, secret string) (string, *domain.Identity, error) {
	identity, ok, err := s.Authenticate(ctx, username, secret)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		s.log.Debug().Str("username", username).Msg("login rejected")
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(identity)
	if err != nil {
		s.log.Error().Err(err).Int64("identity_id", identity.ID).Msg("token issue failed")
		return "", nil, domain.StorageFailure("issue token", err)
	}

	s.log.Info().Int64("identity_id", identity.ID).Str("role", string(identity.Role)).Msg("login succeeded")
	return token, identity, nil
}
