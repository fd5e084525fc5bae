package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/breakfast4u/breakfast4u-api/config"
	"github.com/breakfast4u/breakfast4u-api/models"
)

const orderSequenceKey = "orders:next"

// NextOrderSequence allocates the next order sequence number. When Redis is
// configured the number comes from an atomic INCR, so concurrent creations can
// never collide. Without Redis it falls back to counting existing orders,
// which can race; the caller covers that window by retrying the insert when
// the order-number uniqueness constraint fires.
func NextOrderSequence(db *gorm.DB) (int64, error) {
	if rdb := config.GetRedis(); rdb != nil {
		seq, err := rdb.Incr(context.Background(), orderSequenceKey).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to allocate order sequence: %w", err)
		}
		return seq, nil
	}

	var count int64
	if err := db.Model(&models.Order{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count + 1, nil
}
