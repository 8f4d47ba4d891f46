package store

import (
	"context"
	"time"

	"github.com/soumetsu/soumetsu/internal/privileges"
	"github.com/soumetsu/soumetsu/pkg/models"
)

func (s *GORMStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return getByField[models.User](s.db, ctx, "id", id, models.ErrUserNotFound)
}

func (s *GORMStore) GetUserByName(ctx context.Context, username string) (*models.User, error) {
	return getByField[models.User](s.db, ctx, "safe_username", models.SafeName(username), models.ErrUserNotFound)
}

func (s *GORMStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return getByField[models.User](s.db, ctx, "email", email, models.ErrUserNotFound)
}

// SearchUsers matches on the safe username prefix. Restricted and banned
// accounts are excluded from public search.
func (s *GORMStore) SearchUsers(ctx context.Context, query string, page, limit int) ([]*models.User, error) {
	offset, limit := normalizePage(page, limit, 100)

	var users []*models.User
	q := s.db.WithContext(ctx).
		Where("privileges & ? = ?", privileges.UserPublic, privileges.UserPublic).
		Order("safe_username asc").
		Offset(offset).
		Limit(limit)

	if query != "" {
		q = q.Where("safe_username LIKE ?", models.SafeName(query)+"%")
	}

	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *GORMStore) CreateUser(ctx context.Context, user *models.User) error {
	user.SafeUsername = models.SafeName(user.Username)
	if user.LatestActivity.IsZero() {
		user.LatestActivity = time.Now()
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.ErrDuplicateUser
		}
		return err
	}
	return nil
}

// UpdateUserProfile persists the user-editable profile fields.
func (s *GORMStore) UpdateUserProfile(ctx context.Context, user *models.User) error {
	result := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"userpage":       user.Userpage,
			"favourite_mode": user.FavouriteMode,
			"country":        user.Country,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

func (s *GORMStore) UpdateUserPrivileges(ctx context.Context, id int64, privs privileges.Privileges) error {
	result := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("privileges", privs)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

func (s *GORMStore) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	result := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

func (s *GORMStore) UpdateLatestActivity(ctx context.Context, id int64, at time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("latest_activity", at)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

func (s *GORMStore) SetSilence(ctx context.Context, id int64, until *time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("silence_end", until)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// ListStaff returns every account shown on the team page: admin bits
// plus donors (the supporters group).
func (s *GORMStore) ListStaff(ctx context.Context) ([]*models.User, error) {
	staffMask := privileges.AdminAccessPanel |
		privileges.AdminManageUsers |
		privileges.AdminBanUsers |
		privileges.AdminSilenceUsers |
		privileges.AdminManageBeatmaps |
		privileges.AdminManageBadges |
		privileges.AdminManageReports |
		privileges.AdminSendAlerts |
		privileges.AdminChatMod |
		privileges.AdminManagePrivileges |
		privileges.UserDonor

	var users []*models.User
	if err := s.db.WithContext(ctx).
		Where("privileges & ? != 0", staffMask).
		Order("id asc").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
