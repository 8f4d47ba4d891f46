package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/soumetsu/soumetsu/pkg/models"
)

// CreateClan inserts the clan and enrolls the owner as its first member
// in one transaction.
func (s *GORMStore) CreateClan(ctx context.Context, clan *models.Clan) error {
	if clan.MemberLimit <= 0 {
		clan.MemberLimit = models.DefaultClanMemberLimit
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.ClanMember{}).
			Where("user_id = ?", clan.OwnerID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return models.ErrAlreadyInClan
		}

		if err := tx.Create(clan).Error; err != nil {
			if isUniqueConstraintError(err) {
				return models.ErrDuplicateClan
			}
			return err
		}

		member := &models.ClanMember{
			ClanID: clan.ID,
			UserID: clan.OwnerID,
			Perms:  models.ClanPermOwner,
		}
		if err := tx.Create(member).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).
			Where("id = ?", clan.OwnerID).
			Update("clan_id", clan.ID).Error
	})
}

func (s *GORMStore) GetClan(ctx context.Context, id int64) (*models.Clan, error) {
	return getByField[models.Clan](s.db, ctx, "id", id, models.ErrClanNotFound)
}

func (s *GORMStore) ListClans(ctx context.Context, page, limit int) ([]*models.Clan, error) {
	offset, limit := normalizePage(page, limit, 100)

	var clans []*models.Clan
	err := s.db.WithContext(ctx).
		Order("id asc").
		Offset(offset).
		Limit(limit).
		Find(&clans).Error
	if err != nil {
		return nil, err
	}
	return clans, nil
}

func (s *GORMStore) UpdateClan(ctx context.Context, clan *models.Clan) error {
	result := s.db.WithContext(ctx).
		Model(&models.Clan{}).
		Where("id = ?", clan.ID).
		Updates(map[string]any{
			"name":        clan.Name,
			"tag":         clan.Tag,
			"description": clan.Description,
			"icon":        clan.Icon,
		})

	if result.Error != nil {
		if isUniqueConstraintError(result.Error) {
			return models.ErrDuplicateClan
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrClanNotFound
	}
	return nil
}

// DeleteClan disbands the clan, detaching every member.
func (s *GORMStore) DeleteClan(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var clan models.Clan
		if err := tx.Where("id = ?", id).First(&clan).Error; err != nil {
			return convertNotFoundError(err, models.ErrClanNotFound)
		}

		if err := tx.Model(&models.User{}).
			Where("clan_id = ?", id).
			Update("clan_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Where("clan_id = ?", id).Delete(&models.ClanMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&clan).Error
	})
}

func (s *GORMStore) GetClanMembers(ctx context.Context, clanID int64) ([]*models.ClanMember, error) {
	var members []*models.ClanMember
	err := s.db.WithContext(ctx).
		Where("clan_id = ?", clanID).
		Order("perms desc, joined_at asc").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// AddClanMember enrolls a user, enforcing the member limit atomically so
// concurrent joins cannot overshoot it.
func (s *GORMStore) AddClanMember(ctx context.Context, clanID, userID int64, perms int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var clan models.Clan
		if err := tx.Where("id = ?", clanID).First(&clan).Error; err != nil {
			return convertNotFoundError(err, models.ErrClanNotFound)
		}

		var memberships int64
		if err := tx.Model(&models.ClanMember{}).
			Where("user_id = ?", userID).
			Count(&memberships).Error; err != nil {
			return err
		}
		if memberships > 0 {
			return models.ErrAlreadyInClan
		}

		var count int64
		if err := tx.Model(&models.ClanMember{}).
			Where("clan_id = ?", clanID).
			Count(&count).Error; err != nil {
			return err
		}
		if int(count) >= clan.MemberLimit {
			return models.ErrClanMemberLimit
		}

		member := &models.ClanMember{
			ClanID: clanID,
			UserID: userID,
			Perms:  perms,
		}
		if err := tx.Create(member).Error; err != nil {
			if isUniqueConstraintError(err) {
				return models.ErrAlreadyInClan
			}
			return err
		}

		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("clan_id", clanID).Error
	})
}

func (s *GORMStore) RemoveClanMember(ctx context.Context, clanID, userID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var member models.ClanMember
		if err := tx.Where("clan_id = ? AND user_id = ?", clanID, userID).
			First(&member).Error; err != nil {
			return convertNotFoundError(err, models.ErrNotClanMember)
		}

		if member.Perms == models.ClanPermOwner {
			return models.ErrClanOwnerCantLeave
		}

		if err := tx.Delete(&member).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("clan_id", nil).Error
	})
}
