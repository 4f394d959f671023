package user

import (
	"context"

	"github.com/Demilade/Kudi/internal/model"
)

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (us *UserService) CreateUser(ctx context.Context, user *model.User) error {
	return us.repo.CreateUser(ctx, user)
}

func (us *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	return us.repo.GetUserByID(ctx, id)
}
