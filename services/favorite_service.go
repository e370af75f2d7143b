package services

import (
	"context"
	"fmt"

	"recipebook/logger"
	"recipebook/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	EventFavoriteAdded   = "favorite.added"
	EventFavoriteRemoved = "favorite.removed"
)

type FavoriteService struct {
	db     *gorm.DB
	rt     *RealtimeHub
	thumbs ThumbnailStore
}

// NewFavoriteService wires the store. rt and thumbs may be nil.
func NewFavoriteService(db *gorm.DB, rt *RealtimeHub, thumbs ThumbnailStore) *FavoriteService {
	if thumbs == nil {
		thumbs = PassThroughStore{}
	}
	return &FavoriteService{db: db, rt: rt, thumbs: thumbs}
}

// List returns the owner's favorites, newest first.
func (s *FavoriteService) List(owner string) ([]models.Favorite, error) {
	favs := []models.Favorite{}
	if err := s.db.Where("owner = ?", owner).Order("created_at desc, id desc").Find(&favs).Error; err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return favs, nil
}

func (s *FavoriteService) IsFavorite(owner, mealID string) (bool, error) {
	var n int64
	if err := s.db.Model(&models.Favorite{}).
		Where("owner = ? AND meal_id = ?", owner, mealID).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return n > 0, nil
}

// IDs returns the set of favorite meal ids for owner.
func (s *FavoriteService) IDs(owner string) (map[string]bool, error) {
	var ids []string
	if err := s.db.Model(&models.Favorite{}).Where("owner = ?", owner).Pluck("meal_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list favorite ids: %w", err)
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// Add stores meal as a favorite of owner. Adding an existing favorite
// returns the stored row unchanged.
func (s *FavoriteService) Add(ctx context.Context, owner string, meal *models.Meal) (*models.Favorite, error) {
	var existing models.Favorite
	found := s.db.Where("owner = ? AND meal_id = ?", owner, meal.ID).Limit(1).Find(&existing)
	if found.Error != nil {
		return nil, fmt.Errorf("failed to look up favorite: %w", found.Error)
	}
	if found.RowsAffected > 0 {
		return &existing, nil
	}

	thumb := meal.Thumbnail
	if archived, err := s.thumbs.Archive(ctx, meal.ID, meal.Thumbnail); err != nil {
		logger.Warn("thumbnail archive failed, keeping upstream url",
			zap.String("meal_id", meal.ID), zap.Error(err))
	} else if archived != "" {
		thumb = archived
	}

	fav := models.Favorite{
		Owner:     owner,
		MealID:    meal.ID,
		Title:     meal.Title,
		Thumbnail: thumb,
		Category:  meal.Category,
		Area:      meal.Area,
	}
	res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&fav)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to save favorite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// lost a race with a concurrent add
		if err := s.db.Where("owner = ? AND meal_id = ?", owner, meal.ID).First(&fav).Error; err != nil {
			return nil, fmt.Errorf("failed to reload favorite: %w", err)
		}
		return &fav, nil
	}

	s.emit(owner, EventFavoriteAdded, fav)
	return &fav, nil
}

// Remove deletes the favorite and reports whether one existed.
func (s *FavoriteService) Remove(owner, mealID string) (bool, error) {
	res := s.db.Where("owner = ? AND meal_id = ?", owner, mealID).Delete(&models.Favorite{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete favorite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	s.emit(owner, EventFavoriteRemoved, models.Favorite{Owner: owner, MealID: mealID})
	return true, nil
}

// Toggle flips the favorite state and returns the new one.
func (s *FavoriteService) Toggle(ctx context.Context, owner string, meal *models.Meal) (bool, error) {
	removed, err := s.Remove(owner, meal.ID)
	if err != nil {
		return false, err
	}
	if removed {
		return false, nil
	}
	if _, err := s.Add(ctx, owner, meal); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FavoriteService) emit(owner, kind string, fav models.Favorite) {
	if s.rt == nil {
		return
	}
	s.rt.Broadcast(owner, map[string]any{
		"kind":     kind,
		"favorite": fav,
	})
}
