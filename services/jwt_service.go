package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"volunteer-match-server/config"
	"volunteer-match-server/models"
	"volunteer-match-server/types"
)

const tokenIssuer = "volunteer-match-server"

// JWTService issues and verifies access tokens and manages refresh tokens
type JWTService struct {
	db  *gorm.DB
	cfg config.JWTConfig
}

func NewJWTService(db *gorm.DB, cfg config.JWTConfig) *JWTService {
	return &JWTService{db: db, cfg: cfg}
}

// TokenPair represents a pair of access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// Login checks credentials and issues a token pair.
func (js *JWTService) Login(ctx context.Context, email, password, userAgent, ipAddress string) (*models.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, nil, validationf("email and password are required")
	}

	var user models.User
	if err := js.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
		}
		return nil, nil, err
	}
	if !CheckPasswordHash(password, user.PasswordHash) {
		return nil, nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}
	if !user.Role.Valid() {
		return nil, nil, forbiddenf("unrecognized role %q", user.Role)
	}
	if !user.IsActive {
		return nil, nil, forbiddenf("account is deactivated")
	}

	pair, err := js.GenerateTokenPair(ctx, &user, userAgent, ipAddress)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("✅ User %d logged in as %s", user.ID, user.Role)
	return &user, pair, nil
}

// GenerateTokenPair generates both access and refresh tokens
func (js *JWTService) GenerateTokenPair(ctx context.Context, user *models.User, userAgent, ipAddress string) (*TokenPair, error) {
	accessToken, expiresIn, err := js.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := js.generateRefreshToken(ctx, user.ID, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
		TokenType:    "Bearer",
	}, nil
}

func (js *JWTService) generateAccessToken(user *models.User) (string, int64, error) {
	now := time.Now()
	ttl := time.Duration(js.cfg.ExpiryHours) * time.Hour
	claims := &types.Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(js.cfg.Secret))
	if err != nil {
		return "", 0, err
	}
	return tokenString, int64(ttl.Seconds()), nil
}

func (js *JWTService) generateRefreshToken(ctx context.Context, userID uint, userAgent, ipAddress string) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	tokenString := hex.EncodeToString(tokenBytes)

	refreshToken := &models.RefreshToken{
		Token:     tokenString,
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(time.Duration(js.cfg.RefreshTokenDays) * 24 * time.Hour),
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}
	if err := js.db.WithContext(ctx).Create(refreshToken).Error; err != nil {
		return "", err
	}
	return tokenString, nil
}

// ValidateAccessToken verifies the signature and expiry of an access token
func (js *JWTService) ValidateAccessToken(tokenString string) (*types.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &types.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(js.cfg.Secret), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*types.Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, fmt.Errorf("%w: invalid token claims", ErrUnauthorized)
	}
	return claims, nil
}

// Authenticate resolves an access token to the active user behind it.
func (js *JWTService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := js.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := js.db.WithContext(ctx).First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user associated with token not found", ErrUnauthorized)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", ErrUnauthorized)
	}
	return &user, nil
}

// RefreshAccessToken issues a new access token; the refresh token is kept.
func (js *JWTService) RefreshAccessToken(ctx context.Context, refreshTokenString string) (*TokenPair, error) {
	if refreshTokenString == "" {
		return nil, validationf("refresh_token is required")
	}
	var refreshToken models.RefreshToken
	if err := js.db.WithContext(ctx).Where("token = ?", refreshTokenString).First(&refreshToken).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: refresh token not found", ErrUnauthorized)
		}
		return nil, err
	}
	if !refreshToken.IsValid() {
		return nil, fmt.Errorf("%w: refresh token is invalid or expired", ErrUnauthorized)
	}

	var user models.User
	if err := js.db.WithContext(ctx).First(&user, refreshToken.UserID).Error; err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, forbiddenf("account is deactivated")
	}

	accessToken, expiresIn, err := js.generateAccessToken(&user)
	if err != nil {
		return nil, err
	}
	if err := js.db.WithContext(ctx).Model(&refreshToken).Update("updated_at", time.Now().UTC()).Error; err != nil {
		log.Printf("⚠️ Failed to touch refresh token %d: %v", refreshToken.ID, err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		ExpiresIn:    expiresIn,
		TokenType:    "Bearer",
	}, nil
}

// RevokeRefreshToken revokes a refresh token. Unknown tokens are ignored.
func (js *JWTService) RevokeRefreshToken(ctx context.Context, tokenString string) error {
	if tokenString == "" {
		return nil
	}
	res := js.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ? AND is_revoked = ?", tokenString, false).
		Update("is_revoked", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("✅ Refresh token revoked")
	}
	return nil
}

// revokeUserTokens revokes all refresh tokens for a user
func revokeUserTokens(tx *gorm.DB, userID uint) error {
	return tx.Model(&models.RefreshToken{}).
		Where("user_id = ? AND is_revoked = ?", userID, false).
		Update("is_revoked", true).Error
}

// CleanupExpiredTokens removes expired and revoked refresh tokens and
// returns how many rows were deleted.
func (js *JWTService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	res := js.db.WithContext(ctx).
		Where("expires_at < ? OR is_revoked = ?", time.Now().UTC(), true).
		Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with its hash
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
