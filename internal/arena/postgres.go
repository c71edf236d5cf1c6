package arena

import (
	"context"
	"errors"
	"fmt"

	go_jwt "github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tilespace/server/internal/config"
)

type userRow struct {
	ID             string `gorm:"column:id"`
	Nickname       string `gorm:"column:nickname"`
	AvatarImageURL string `gorm:"column:avatar_image_url"`
	PositionX      int    `gorm:"column:position_x"`
	PositionY      int    `gorm:"column:position_y"`
}

func (userRow) TableName() string {
	return "users"
}

// DBResolver reads profiles straight from the platform database for
// shared-database deployments. Token validity is checked locally against the
// shared signing secret, since no auth API is reachable in this mode.
type DBResolver struct {
	db     *gorm.DB
	secret []byte
}

func NewDBResolver(cfg config.DBConfig, secret []byte) (*DBResolver, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.Host,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.Port,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	return &DBResolver{db: db, secret: secret}, nil
}

func (r *DBResolver) ValidateToken(ctx context.Context, token string) (bool, error) {
	parsed, err := go_jwt.Parse(token, func(t *go_jwt.Token) (interface{}, error) {
		if t.Method != go_jwt.SigningMethodHS256 {
			return nil, go_jwt.ErrSignatureInvalid
		}
		return r.secret, nil
	})
	if err != nil || !parsed.Valid {
		return false, nil
	}

	return true, nil
}

func (r *DBResolver) Profile(ctx context.Context, userID string) (Profile, error) {
	var row userRow
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Profile{}, ErrUnknownProfile
		}
		return Profile{}, err
	}

	return Profile{
		UserID:       row.ID,
		Nickname:     row.Nickname,
		AvatarURL:    row.AvatarImageURL,
		LastPosition: Position{X: row.PositionX, Y: row.PositionY},
	}, nil
}
