package usecase

import (
	"context"

	"github.com/codequest-dev/auth-service/internal/repository"
)

// Profile is the slice of the user record safe to hand to the client; the
// password hash and OTP state never leave the service.
type Profile struct {
	Name       string
	Email      string
	IsVerified bool
}

type UserUsecase struct {
	users repository.UserRepository
}

func NewUserUsecase(users repository.UserRepository) *UserUsecase {
	return &UserUsecase{users: users}
}

func (u *UserUsecase) GetProfile(ctx context.Context, userID string) (Profile, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return Profile{
		Name:       user.Name,
		Email:      user.Email,
		IsVerified: user.IsVerified,
	}, nil
}
