package service

import (
	"context"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/acpt/jobboard-api/internal/core/domain"
	"github.com/acpt/jobboard-api/internal/core/ports"
)

// ProfileService reads and mutates the role-specific side of identities.
type ProfileService struct {
	repo  ports.IdentityRepository
	files ports.FileStore
	log   zerolog.Logger
}

func NewProfileService(repo ports.IdentityRepository, files ports.FileStore, log zerolog.Logger) *ProfileService {
	return &ProfileService{repo: repo, files: files, log: log}
}

// Details returns the uniform projection of the identity with the given id.
func (s *ProfileService) Details(ctx context.Context, id int64) (*ports.UserDetails, error) {
	identity, err := s.load(ctx, "details", id)
	if err != nil {
		return nil, err
	}
	d := ProjectProfile(identity)
	return &d, nil
}

// UpdateProfile changes role attributes of an identity of the given role.
func (s *ProfileService) UpdateProfile(ctx context.Context, role domain.Role, id int64, fields ports.ProfileFields) (*ports.UserDetails, error) {
	identity, err := s.loadRole(ctx, "update profile", role, id)
	if err != nil {
		return nil, err
	}
	if err := applyProfileFields(identity.Profile, fields); err != nil {
		return nil, err
	}
	identity.UpdatedAt = time.Now().UTC()

	saved, err := s.save(ctx, "update profile", identity)
	if err != nil {
		return nil, err
	}
	d := ProjectProfile(saved)
	return &d, nil
}

func (s *ProfileService) UploadProfilePicture(ctx context.Context, role domain.Role, id int64, file ports.Upload) (*ports.UserDetails, error) {
	identity, err := s.loadRole(ctx, "upload profile picture", role, id)
	if err != nil {
		return nil, err
	}
	return s.replaceFile(ctx, identity, ports.FileKindProfilePicture, file, isImage, domain.ErrNotAnImage,
		identity.ProfilePictureURL(), identity.SetProfilePictureURL)
}

func (s *ProfileService) UploadResume(ctx context.Context, id int64, file ports.Upload) (*ports.UserDetails, error) {
	identity, err := s.loadRole(ctx, "upload resume", domain.RoleJobSeeker, id)
	if err != nil {
		return nil, err
	}
	js, _ := identity.JobSeeker()
	return s.replaceFile(ctx, identity, ports.FileKindResume, file, isPDF, domain.ErrResumeNotPDF,
		js.ResumeURL, func(url string) { js.ResumeURL = url })
}

func (s *ProfileService) UploadCompanyLogo(ctx context.Context, id int64, file ports.Upload) (*ports.UserDetails, error) {
	identity, err := s.loadRole(ctx, "upload company logo", domain.RoleEmployer, id)
	if err != nil {
		return nil, err
	}
	emp, _ := identity.Employer()
	return s.replaceFile(ctx, identity, ports.FileKindCompanyLogo, file, isImage, domain.ErrNotAnImage,
		emp.CompanyLogoURL, func(url string) { emp.CompanyLogoURL = url })
}

// replaceFile stores the new file, points the identity at it and only then
// removes the previous file of the same kind.
func (s *ProfileService) replaceFile(
	ctx context.Context,
	identity *domain.Identity,
	kind ports.FileKind,
	file ports.Upload,
	accept func(*mimetype.MIME) bool,
	rejected error,
	previous string,
	set func(url string),
) (*ports.UserDetails, error) {
	content, m, err := inspectUpload(file, accept, rejected)
	if err != nil {
		return nil, err
	}

	url, err := s.files.Save(ctx, kind, storedName(kind, m), content)
	if err != nil {
		s.log.Error().Err(err).
			Int64("identity_id", identity.ID).
			Str("kind", string(kind)).
			Msg("file store failed")
		return nil, domain.StorageFailure("store "+string(kind), err)
	}

	set(url)
	identity.UpdatedAt = time.Now().UTC()

	saved, err := s.save(ctx, "upload "+string(kind), identity)
	if err != nil {
		if delErr := s.files.Delete(ctx, url); delErr != nil {
			s.log.Warn().Err(delErr).Str("url", url).Msg("failed to remove orphaned upload")
		}
		return nil, err
	}

	if previous != "" && previous != url {
		if err := s.files.Delete(ctx, previous); err != nil {
			s.log.Warn().Err(err).
				Int64("identity_id", identity.ID).
				Str("url", previous).
				Msg("failed to remove replaced file")
		}
	}

	s.log.Info().Int64("identity_id", identity.ID).Str("kind", string(kind)).Str("url", url).Msg("file replaced")

	d := ProjectProfile(saved)
	return &d, nil
}

func (s *ProfileService) load(ctx context.Context, op string, id int64) (*domain.Identity, error) {
	identity, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Int64("identity_id", id).Str("op", op).Msg("identity lookup failed")
		return nil, domain.StorageFailure("find identity", err)
	}
	if !found {
		return nil, domain.ErrIdentityNotFound
	}
	return identity, nil
}

// loadRole treats an identity of another role as absent.
func (s *ProfileService) loadRole(ctx context.Context, op string, role domain.Role, id int64) (*domain.Identity, error) {
	identity, err := s.load(ctx, op, id)
	if err != nil {
		return nil, err
	}
	if identity.Role != role {
		return nil, domain.ErrIdentityNotFound
	}
	return identity, nil
}

func (s *ProfileService) save(ctx context.Context, op string, identity *domain.Identity) (*domain.Identity, error) {
	saved, err := s.repo.Save(ctx, identity)
	if err != nil {
		if domainErr(err) {
			return nil, err
		}
		s.log.Error().Err(err).Int64("identity_id", identity.ID).Str("op", op).Msg("identity save failed")
		return nil, domain.StorageFailure("save identity", err)
	}
	return saved, nil
}
