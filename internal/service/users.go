package service

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/nventon/user-backend/internal/events"
	"github.com/nventon/user-backend/internal/hash"
	"github.com/nventon/user-backend/internal/logging"
	"github.com/nventon/user-backend/internal/models"
	"github.com/nventon/user-backend/internal/repo"
	"github.com/nventon/user-backend/internal/search"
	"github.com/nventon/user-backend/internal/transport"
	"github.com/nventon/user-backend/internal/validate"
)

type UserService struct {
	Repo     *repo.GormRepo
	Producer *events.Producer

	// ES is optional; without it user docs are simply not indexed and
	// search falls back to an error at the handler.
	ES      *elasticsearch.Client
	ESIndex string
}

func (s *UserService) GetUsers(ctx context.Context) ([]transport.PublicUser, error) {
	users, err := s.Repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]transport.PublicUser, len(users))
	for i := range users {
		out[i] = transport.ToPublic(&users[i])
	}
	return out, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*transport.PublicUser, error) {
	user, err := s.Repo.FindUserByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	pub := transport.ToPublic(user)
	return &pub, nil
}

func (s *UserService) CreateUser(ctx context.Context, req transport.CreateUserRequest) (*transport.PublicUser, error) {
	l := logging.FromContext(ctx).With("svc", "users.create", "username", req.Username)

	if field := validate.CheckMandatory(req.LastName, req.FirstName, req.Username, req.Password); field != "" {
		l.Warn("create_user_failed", "reason", "invalid field", "field", field)
		return nil, &ValidationError{Field: field}
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		LastName:     req.LastName,
		FirstName:    req.FirstName,
		Username:     req.Username,
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		return nil, err
	}

	pub := transport.ToPublic(&user)
	s.publish(ctx, "user_created", &user)
	s.index(ctx, pub)

	l.Info("create_user_successful", "id", user.ID)
	return &pub, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uint, req transport.UpdateUserRequest) (*transport.PublicUser, error) {
	l := logging.FromContext(ctx).With("svc", "users.update", "id", id)

	if field := validate.CheckOptional(req.LastName, req.FirstName, req.Username, req.Password); field != "" {
		l.Warn("update_user_failed", "reason", "invalid field", "field", field)
		return nil, &ValidationError{Field: field}
	}

	user, err := s.Repo.FindUserByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Password != nil {
		pwHash, err := hash.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = pwHash
	}
	if req.AdminPermission != nil {
		user.AdminPermission = req.AdminPermission
	}

	if err := s.Repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	pub := transport.ToPublic(user)
	s.publish(ctx, "user_updated", user)
	s.index(ctx, pub)

	l.Info("update_user_successful")
	return &pub, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "users.delete", "id", id)

	user, err := s.Repo.FindUserByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}

	s.publish(ctx, "user_deleted", user)
	if s.ES != nil {
		if err := search.DeleteUser(ctx, s.ES, s.ESIndex, id); err != nil {
			l.Warn("search_deindex_failed", "error", err)
		}
	}

	l.Info("delete_user_successful")
	return nil
}

func (s *UserService) SearchUsers(ctx context.Context, query string, from, size int) (int64, []transport.PublicUser, error) {
	if s.ES == nil {
		return 0, nil, fmt.Errorf("search backend is not configured")
	}
	return search.Search(ctx, s.ES, s.ESIndex, query, from, size)
}

func (s *UserService) publish(ctx context.Context, event string, user *models.User) {
	err := s.Producer.PublishEvent(ctx, fmt.Sprint(user.ID), map[string]any{
		"type":     event,
		"user_id":  user.ID,
		"username": user.Username,
	})
	if err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "event", event, "error", err)
	}
}

func (s *UserService) index(ctx context.Context, pub transport.PublicUser) {
	if s.ES == nil {
		return
	}
	if err := search.IndexUser(ctx, s.ES, s.ESIndex, pub); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "id", pub.ID, "error", err)
	}
}
