package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/storekit/storefront/internal/events"
	"github.com/storekit/storefront/internal/logging"
	"github.com/storekit/storefront/internal/models"
	"github.com/storekit/storefront/internal/repo"
)

type CartService struct {
	Repo     *repo.GormRepo
	Producer *events.Producer
}

func (s *CartService) GetCart(ctx context.Context, userID uint) ([]models.CartItem, error) {
	return s.Repo.GetCart(ctx, userID)
}

func (s *CartService) AddItem(ctx context.Context, userID, productID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		quantity = 1
	}

	// The product must exist before it can be carted.
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		logging.FromContext(ctx).Error("cart_add_error", "error", err)
		return nil, err
	}

	item, err := s.Repo.AddCartItem(ctx, userID, productID, quantity)
	if err != nil {
		logging.FromContext(ctx).Error("cart_add_error", "error", err)
		return nil, err
	}

	s.publish(ctx, userID, map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": productID,
		"quantity":  item.Quantity,
	})
	return item, nil
}

func (s *CartService) RemoveOne(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	item, err := s.Repo.DecrementCartItem(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, userID, map[string]any{
		"type":      "cart_item_removed",
		"userID":    userID,
		"productID": productID,
		"quantity":  item.Quantity,
	})
	return item, nil
}

func (s *CartService) RemoveAll(ctx context.Context, userID, productID uint) error {
	if err := s.Repo.RemoveCartItem(ctx, userID, productID); err != nil {
		return err
	}

	s.publish(ctx, userID, map[string]any{
		"type":      "cart_item_cleared",
		"userID":    userID,
		"productID": productID,
	})
	return nil
}

func (s *CartService) publish(ctx context.Context, key uint, event map[string]any) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, events.TopicCartEvents, fmt.Sprint(key), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "topic", events.TopicCartEvents, "error", err)
	}
}
