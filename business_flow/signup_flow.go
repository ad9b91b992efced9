// Package businessflow contains the core business logic and use cases for marketplace workflows
package businessflow

import (
	"context"
	"fmt"

	"github.com/zyromarketplace/zyro-backend/app/dto"
	"github.com/zyromarketplace/zyro-backend/models"
	"github.com/zyromarketplace/zyro-backend/repository"
	"github.com/zyromarketplace/zyro-backend/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SignupFlow handles new user registration
type SignupFlow interface {
	Signup(ctx context.Context, request *dto.SignupRequest, metadata *ClientMetadata) (*dto.SignupResponse, error)
}

// SignupFlowImpl implements the signup business flow
type SignupFlowImpl struct {
	userRepo        repository.UserRepository
	accountTypeRepo repository.AccountTypeRepository
	auditRepo       repository.AuditLogRepository
	db              *gorm.DB
}

// NewSignupFlow creates a new signup flow instance
func NewSignupFlow(
	userRepo repository.UserRepository,
	accountTypeRepo repository.AccountTypeRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) SignupFlow {
	return &SignupFlowImpl{
		userRepo:        userRepo,
		accountTypeRepo: accountTypeRepo,
		auditRepo:       auditRepo,
		db:              db,
	}
}

// Signup registers a new account. The account lands in pending status and
// stays invisible to the marketplace until an admin approves it.
func (sf *SignupFlowImpl) Signup(ctx context.Context, request *dto.SignupRequest, metadata *ClientMetadata) (*dto.SignupResponse, error) {
	if err := sf.validateSignupRequest(request); err != nil {
		return nil, NewBusinessError("SIGNUP_VALIDATION_FAILED", "Signup validation failed", err)
	}

	var user *models.User

	resp, err := sf.WithSignupTransaction(ctx, func(ctx context.Context) (*dto.SignupResponse, error) {
		existing, err := sf.userRepo.ByEmail(ctx, request.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailAlreadyExists
		}

		accountType, err := sf.accountTypeRepo.ByTypeName(ctx, request.AccountType)
		if err != nil {
			return nil, err
		}
		if accountType == nil {
			return nil, ErrAccountTypeNotFound
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}

		user = &models.User{
			AccountTypeID: accountType.ID,
			AccountType:   *accountType,
			Status:        models.UserStatusPending,
			FullName:      request.FullName,
			Email:         request.Email,
			Phone:         request.Phone,
			City:          request.City,
			PasswordHash:  string(hashedPassword),

			InstagramUsername:  request.InstagramUsername,
			InstagramFollowers: request.InstagramFollowers,
			TiktokUsername:     request.TiktokUsername,
			TiktokFollowers:    request.TiktokFollowers,

			BusinessName:     request.BusinessName,
			BusinessCategory: request.BusinessCategory,
			ContactPerson:    request.ContactPerson,
		}

		if err := sf.userRepo.Save(ctx, user); err != nil {
			return nil, err
		}

		return &dto.SignupResponse{
			Message: "Registro recibido. Tu cuenta será revisada en breve.",
			User:    ToUserDTO(*user),
		}, nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Signup failed: %s", err.Error())
		_ = sf.logSignupAttempt(ctx, user, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("SIGNUP_FAILED", "Signup failed", err)
	}

	msg := fmt.Sprintf("User registered successfully: %d", resp.User.ID)
	_ = sf.logSignupAttempt(ctx, user, msg, true, nil, metadata)

	return resp, nil
}

func (sf *SignupFlowImpl) validateSignupRequest(request *dto.SignupRequest) error {
	switch request.AccountType {
	case models.AccountTypeInfluencer:
		if request.InstagramUsername == nil && request.TiktokUsername == nil {
			return ErrInfluencerFieldsRequired
		}
	case models.AccountTypeCompany:
		if request.BusinessName == nil || request.BusinessCategory == nil {
			return ErrCompanyFieldsRequired
		}
	default:
		return ErrAccountTypeNotFound
	}

	return nil
}

func (sf *SignupFlowImpl) logSignupAttempt(ctx context.Context, user *models.User, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
	var userID *uint
	if user != nil && user.ID != 0 {
		userID = &user.ID
	}

	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		UserID:       userID,
		Action:       models.AuditActionSignupCompleted,
		Description:  &description,
		Success:      utils.ToPtr(success),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		ErrorMessage: errMsg,
	}

	requestID := ctx.Value(RequestIDKey)
	if requestID != nil {
		if requestIDStr, ok := requestID.(string); ok {
			audit.RequestID = &requestIDStr
		}
	}

	return sf.auditRepo.Save(ctx, audit)
}

func (sf *SignupFlowImpl) WithSignupTransaction(ctx context.Context, fn func(context.Context) (*dto.SignupResponse, error)) (*dto.SignupResponse, error) {
	var result *dto.SignupResponse
	var fnErr error

	err := repository.WithTransaction(ctx, sf.db, func(ctx context.Context) error {
		result, fnErr = fn(ctx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}
	return result, fnErr
}
