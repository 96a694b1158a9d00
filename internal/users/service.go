package users

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/sundayezeilo/linkly/internal/errx"
)

// CreateUserRequest holds the fields of a new user.
type CreateUserRequest struct {
	FirstName       string
	LastName        string
	Email           string
	PhoneNumber     *string
	ProfileImageURL *string
}

// Service defines user operations.
type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (User, error)
	Get(ctx context.Context, id uuid.UUID) (User, error)
	// ListURLs is NotFound when the user does not exist and empty when they own nothing.
	ListURLs(ctx context.Context, id uuid.UUID) ([]URLClicks, error)
}

type service struct {
	repo Repository
}

// NewService creates a new service instance.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateUserRequest) (User, error) {
	const op = "users.service.Create"

	user := User{
		FirstName:       strings.TrimSpace(req.FirstName),
		LastName:        strings.TrimSpace(req.LastName),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		PhoneNumber:     nonEmpty(req.PhoneNumber),
		ProfileImageURL: nonEmpty(req.ProfileImageURL),
	}
	if err := validateUser(user); err != nil {
		return User{}, errx.E(op, errx.Invalid, err)
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return User{}, errx.E(op, errx.KindOf(err), err)
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (User, error) {
	const op = "users.service.Get"

	if id == uuid.Nil {
		return User{}, errx.E(op, errx.Invalid, errors.New("user id is required"))
	}

	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return User{}, errx.E(op, errx.KindOf(err), err)
	}
	return user, nil
}

func (s *service) ListURLs(ctx context.Context, id uuid.UUID) ([]URLClicks, error) {
	const op = "users.service.ListURLs"

	if id == uuid.Nil {
		return nil, errx.E(op, errx.Invalid, errors.New("user id is required"))
	}

	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return nil, errx.E(op, errx.KindOf(err), err)
	}
	if !exists {
		return nil, errx.Errorf(op, errx.NotFound, "user %s not found", id)
	}

	urls, err := s.repo.ListURLs(ctx, id)
	if err != nil {
		return nil, errx.E(op, errx.KindOf(err), err)
	}
	return urls, nil
}

// InputError is a client-facing description of rejected user input.
type InputError string

func (e InputError) Error() string { return string(e) }

func validateUser(u User) error {
	if u.FirstName == "" {
		return InputError("first name is required")
	}
	if u.LastName == "" {
		return InputError("last name is required")
	}
	if u.Email == "" {
		return InputError("email is required")
	}
	addr, err := mail.ParseAddress(u.Email)
	if err != nil || addr.Address != u.Email {
		return InputError("email is invalid")
	}
	return nil
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
