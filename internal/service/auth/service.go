package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinichq/clinic-api/internal/email"
	"github.com/clinichq/clinic-api/internal/model"
	"github.com/clinichq/clinic-api/internal/repository"
	"github.com/clinichq/clinic-api/pkg/auth"
	"github.com/clinichq/clinic-api/pkg/errors"
	"github.com/clinichq/clinic-api/pkg/messaging"
	"github.com/clinichq/clinic-api/pkg/metrics"
	"github.com/clinichq/clinic-api/pkg/security"
)

const (
	channelRegistered = "account.registered"
	channelVerified   = "account.verified"
)

type Service struct {
	accounts  repository.AccountRepository
	patients  repository.PatientRepository
	doctors   repository.DoctorRepository
	hasher    security.PasswordHasher
	tokens    auth.TokenService
	mailer    email.Service
	broker    messaging.Broker
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	verifyURL string
}

func NewService(
	accounts repository.AccountRepository,
	patients repository.PatientRepository,
	doctors repository.DoctorRepository,
	hasher security.PasswordHasher,
	tokens auth.TokenService,
	mailer email.Service,
	broker messaging.Broker,
	m *metrics.Metrics,
	logger zerolog.Logger,
	verifyURL string,
) *Service {
	return &Service{
		accounts:  accounts,
		patients:  patients,
		doctors:   doctors,
		hasher:    hasher,
		tokens:    tokens,
		mailer:    mailer,
		broker:    broker,
		metrics:   m,
		logger:    logger,
		verifyURL: verifyURL,
	}
}

// RegisterPatient creates an account with the patient role plus its patient
// record in one transaction. The account starts inactive until verified.
func (s *Service) RegisterPatient(ctx context.Context, req *model.RegisterPatientRequest) (*model.Account, error) {
	account, err := s.newAccount(&req.Identity, model.RolePatient)
	if err != nil {
		return nil, err
	}

	birthDate, err := time.Parse(model.DateFormat, req.BirthDate)
	if err != nil {
		return nil, errors.NewFieldValidation("birth_date", "must be a valid date in YYYY-MM-DD format")
	}

	patient := &model.Patient{
		Base:      newBase(),
		AccountID: account.ID,
		BirthDate: birthDate,
	}

	if err := s.patients.Register(ctx, account, patient); err != nil {
		return nil, err
	}

	s.metrics.RegistrationsTotal.WithLabelValues(string(model.RolePatient)).Inc()
	s.afterRegistration(ctx, account)
	return account, nil
}

// RegisterDoctor creates an account with the doctor role plus its location
// and doctor records in one transaction. The listing starts pending approval.
func (s *Service) RegisterDoctor(ctx context.Context, req *model.RegisterDoctorRequest) (*model.Account, error) {
	account, err := s.newAccount(&req.Identity, model.RoleDoctor)
	if err != nil {
		return nil, err
	}

	location := &model.Location{
		ID:      uuid.New(),
		Lat:     req.Location.Lat,
		Lng:     req.Location.Lng,
		Address: req.Location.Address,
		City:    req.Location.City,
		State:   req.Location.State,
	}
	doctor := &model.Doctor{
		Base:           newBase(),
		AccountID:      account.ID,
		Specialization: req.Specialization,
		Charges:        req.Charges,
		LocationID:     location.ID,
		ApprovalStatus: model.ApprovalPending,
	}

	if err := s.doctors.Register(ctx, account, location, doctor); err != nil {
		return nil, err
	}

	s.metrics.RegistrationsTotal.WithLabelValues(string(model.RoleDoctor)).Inc()
	s.afterRegistration(ctx, account)
	return account, nil
}

// CreateStaff provisions a staff or admin account. There is no public route
// for this; operator tooling calls it directly. Staff accounts are active
// immediately and skip verification.
func (s *Service) CreateStaff(ctx context.Context, identity *model.Identity, role model.Role) (*model.Account, error) {
	if role != model.RoleStaff && role != model.RoleAdmin {
		return nil, errors.NewFieldValidation("role", "must be staff or admin")
	}

	account, err := s.newAccount(identity, role)
	if err != nil {
		return nil, err
	}
	account.Active = true

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	s.metrics.RegistrationsTotal.WithLabelValues(string(role)).Inc()
	return account, nil
}

// SignIn exchanges credentials for a token pair. Unknown email, wrong
// password and an unverified account all surface as the same auth failure.
func (s *Service) SignIn(ctx context.Context, req *model.SignInRequest) (*auth.TokenPair, error) {
	account, err := s.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.IsCode(err, errors.CodeNotFound) {
			return nil, errors.NewAuth("invalid email or password")
		}
		return nil, err
	}

	if err := s.hasher.Compare(account.PasswordHash, req.Password); err != nil {
		return nil, errors.NewAuth("invalid email or password")
	}
	if !account.Active {
		return nil, errors.NewAuth("account is not verified")
	}

	pair, err := s.tokens.GenerateTokenPair(account.ID, account.Email, string(account.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return pair, nil
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.NewInvalidToken("refresh token is invalid or expired")
	}

	// Re-read the account so a deactivated user cannot keep minting tokens.
	account, err := s.accounts.Get(ctx, claims.AccountID)
	if err != nil {
		return nil, errors.NewInvalidToken("refresh token is invalid or expired")
	}
	if !account.Active {
		return nil, errors.NewAuth("account is not verified")
	}

	pair, err := s.tokens.GenerateTokenPair(account.ID, account.Email, string(account.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return pair, nil
}

// Verify activates the account named by a verification token. The token is
// single-use: once the account is active every further attempt, with this
// token or any other, reports the account as already verified.
func (s *Service) Verify(ctx context.Context, token string) error {
	accountID, err := s.tokens.ValidateVerificationToken(token)
	if err != nil {
		s.metrics.VerificationsTotal.WithLabelValues("invalid").Inc()
		return errors.NewInvalidToken("verification token is invalid or expired")
	}

	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		if errors.IsCode(err, errors.CodeNotFound) {
			s.metrics.VerificationsTotal.WithLabelValues("invalid").Inc()
			return errors.NewInvalidToken("verification token is invalid or expired")
		}
		return err
	}

	if account.Active {
		s.metrics.VerificationsTotal.WithLabelValues("already_verified").Inc()
		return errors.NewAlreadyVerified("account is already verified")
	}

	if err := s.accounts.SetActive(ctx, account.ID, true); err != nil {
		return err
	}

	s.metrics.VerificationsTotal.WithLabelValues("verified").Inc()
	s.publish(ctx, channelVerified, map[string]interface{}{
		"account_id": account.ID,
		"role":       account.Role,
	})

	if err := s.mailer.SendWelcome(ctx, account.Email, account.FirstName); err != nil {
		s.logger.Warn().Err(err).Str("email", account.Email).Msg("failed to send welcome email")
	}
	return nil
}

func (s *Service) newAccount(identity *model.Identity, role model.Role) (*model.Account, error) {
	hash, err := s.hasher.Hash(identity.Password)
	if err != nil {
		if err == security.ErrPasswordTooShort {
			return nil, errors.NewFieldValidation("password", "must be at least 8 characters")
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &model.Account{
		Base:         newBase(),
		Email:        identity.Email,
		PasswordHash: hash,
		FirstName:    identity.FirstName,
		LastName:     identity.LastName,
		PhoneNumber:  identity.PhoneNumber,
		Gender:       identity.Gender,
		Role:         role,
		Active:       false,
	}, nil
}

// afterRegistration issues the verification token and delivers it by email.
// Both steps are best-effort: the registration already committed, so failures
// are logged and the user can request a fresh link later.
func (s *Service) afterRegistration(ctx context.Context, account *model.Account) {
	s.publish(ctx, channelRegistered, map[string]interface{}{
		"account_id": account.ID,
		"role":       account.Role,
	})

	token, err := s.tokens.GenerateVerificationToken(account.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", account.ID.String()).Msg("failed to generate verification token")
		return
	}

	link := s.verifyURL + "?token=" + token
	if err := s.mailer.SendVerification(ctx, account.Email, account.FirstName, link); err != nil {
		s.logger.Warn().Err(err).Str("email", account.Email).Msg("failed to send verification email")
	}
}

func (s *Service) publish(ctx context.Context, channel string, payload map[string]interface{}) {
	if s.broker == nil {
		return
	}
	if err := s.broker.Publish(ctx, channel, payload); err != nil {
		s.metrics.EventsFailed.WithLabelValues(channel).Inc()
		s.logger.Warn().Err(err).Str("channel", channel).Msg("failed to publish event")
		return
	}
	s.metrics.EventsPublished.WithLabelValues(channel).Inc()
}

func newBase() model.Base {
	now := time.Now().UTC()
	return model.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}
