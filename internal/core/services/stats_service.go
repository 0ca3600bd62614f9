package services

import (
	"context"

	"coderr-backend/internal/adapters/persistence/repositories"
	"coderr-backend/internal/core/domain"
)

// StatsService computes marketplace aggregates on demand
type StatsService struct {
	userRepo   repositories.UserRepository
	offerRepo  repositories.OfferRepository
	reviewRepo repositories.ReviewRepository
}

// NewStatsService creates a new stats service
func NewStatsService(
	userRepo repositories.UserRepository,
	offerRepo repositories.OfferRepository,
	reviewRepo repositories.ReviewRepository,
) *StatsService {
	return &StatsService{
		userRepo:   userRepo,
		offerRepo:  offerRepo,
		reviewRepo: reviewRepo,
	}
}

// BaseInfo represents the public marketplace summary
type BaseInfo struct {
	ReviewCount          int64   `json:"review_count"`
	AverageRating        float64 `json:"average_rating"`
	BusinessProfileCount int64   `json:"business_profile_count"`
	OfferCount           int64   `json:"offer_count"`
}

// BaseInfo returns review, business and offer aggregates
func (s *StatsService) BaseInfo(ctx context.Context) (*BaseInfo, error) {
	info := &BaseInfo{}

	count, average, err := s.reviewRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	info.ReviewCount = count
	info.AverageRating = average

	if info.BusinessProfileCount, err = s.userRepo.CountByType(ctx, domain.RoleBusiness); err != nil {
		return nil, err
	}
	if info.OfferCount, err = s.offerRepo.Count(ctx); err != nil {
		return nil, err
	}

	return info, nil
}
