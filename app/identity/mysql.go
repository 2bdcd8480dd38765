package identity

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/database"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/model"
)

type mysqlService struct {
	db *database.Database
}

// NewService - creates the MySQL-backed identity collaborator adapter.
func NewService(db *database.Database) Service {
	return &mysqlService{db: db}
}

func (s *mysqlService) Profile(ctx context.Context, userID string) (*model.UserProfile, error) {
	stmt := "SELECT id, first_name, last_name, email, role, is_active, is_verified, has_received_welcome_message FROM `atcloud-dev`.User WHERE id = ?"

	var profile model.UserProfile
	err := s.db.Conn.GetContext(ctx, &profile, stmt, userID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch user profile")
	}
	return &profile, nil
}

func (s *mysqlService) ListIDsByRoles(ctx context.Context, roles []model.Role) ([]string, error) {
	if len(roles) == 0 {
		return []string{}, nil
	}

	stmt := "SELECT id FROM `atcloud-dev`.User WHERE role IN (?) AND is_active = 1 AND is_verified = 1"
	query, args, err := sqlx.In(stmt, roles)
	if err != nil {
		return nil, errors.Wrap(err, "unable to build role membership query")
	}

	var ids []string
	err = s.db.Conn.SelectContext(ctx, &ids, s.db.Conn.Rebind(query), args...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to list users by role")
	}
	return ids, nil
}

func (s *mysqlService) ListAllIDs(ctx context.Context) ([]string, error) {
	stmt := "SELECT id FROM `atcloud-dev`.User WHERE is_active = 1 AND is_verified = 1"

	var ids []string
	err := s.db.Conn.SelectContext(ctx, &ids, stmt)
	if err != nil {
		return nil, errors.Wrap(err, "unable to list users")
	}
	return ids, nil
}

func (s *mysqlService) MarkWelcomeSent(ctx context.Context, userID string) error {
	stmt := "UPDATE `atcloud-dev`.User SET has_received_welcome_message = 1 WHERE id = ?"

	_, err := s.db.Conn.ExecContext(ctx, stmt, userID)
	if err != nil {
		return errors.Wrap(err, "unable to update has_received_welcome_message")
	}
	return nil
}
